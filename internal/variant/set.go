package variant

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
)

var (
	ErrCountMismatch   = errors.New("variant_count_mismatch")
	ErrMissingVariants = errors.New("missing_variants")
	ErrExtraVariants   = errors.New("extra_variants")
	ErrDuplicateKey    = errors.New("duplicate_variant_key")
	ErrDefaultVariant  = errors.New("invalid_default_variant")
)

// SelectedMetal is one metal the author enabled, with the colors and purities
// offered for it.
type SelectedMetal struct {
	MetalTypeID    snowflake.ID   `json:"metal_type_id"`
	MetalColorIDs  []snowflake.ID `json:"metal_color_ids"`
	MetalPurityIDs []snowflake.ID `json:"metal_purity_ids"`
}

// StoneOptions are the variant-level stone option values. Empty slices mean
// the product has no such stone and the axis collapses to a single null
// placeholder.
type StoneOptions struct {
	DiamondClarityColorIDs []snowflake.ID `json:"diamond_clarity_color_ids"`
	GemstoneColorIDs       []snowflake.ID `json:"gemstone_color_ids"`
}

// Submitted is a caller-submitted variant to validate against the expected
// set.
type Submitted struct {
	ID        snowflake.ID                 `json:"id"`
	Context   pricingdomain.VariantContext `json:"context"`
	IsDefault bool                         `json:"is_default"`
}

// Key is the ordered concatenation of a variant's non-null option ids.
func Key(v pricingdomain.VariantContext) string {
	parts := []string{
		v.MetalTypeID.String(),
		v.MetalColorID.String(),
		v.MetalPurityID.String(),
	}
	if v.DiamondClarityColorID != nil {
		parts = append(parts, v.DiamondClarityColorID.String())
	}
	if v.GemstoneColorID != nil {
		parts = append(parts, v.GemstoneColorID.String())
	}
	return strings.Join(parts, "-")
}

// ExpectedKeys expands the selected options into the full expected variant
// key set: (metalType x metalColor x metalPurity) x diamond options x
// gemstone options, with a null placeholder on each absent stone axis.
func ExpectedKeys(metals []SelectedMetal, stones StoneOptions) map[string]struct{} {
	diamondAxis := nullableAxis(stones.DiamondClarityColorIDs)
	gemstoneAxis := nullableAxis(stones.GemstoneColorIDs)

	expected := make(map[string]struct{})
	for _, metal := range metals {
		for _, colorID := range metal.MetalColorIDs {
			for _, purityID := range metal.MetalPurityIDs {
				for _, diamondID := range diamondAxis {
					for _, gemstoneID := range gemstoneAxis {
						ctx := pricingdomain.VariantContext{
							MetalTypeID:           metal.MetalTypeID,
							MetalColorID:          colorID,
							MetalPurityID:         purityID,
							DiamondClarityColorID: diamondID,
							GemstoneColorID:       gemstoneID,
						}
						expected[Key(ctx)] = struct{}{}
					}
				}
			}
		}
	}
	return expected
}

func nullableAxis(ids []snowflake.ID) []*snowflake.ID {
	if len(ids) == 0 {
		return []*snowflake.ID{nil}
	}
	axis := make([]*snowflake.ID, len(ids))
	for i := range ids {
		axis[i] = &ids[i]
	}
	return axis
}

// Validate checks a submitted variant list against the expected key set and
// the declared default variant. The whole submission is rejected on the first
// failing check; missing/extra errors carry the offending keys.
func Validate(expected map[string]struct{}, submitted []Submitted, defaultVariantID snowflake.ID) error {
	if len(submitted) != len(expected) {
		return fmt.Errorf("%w: expected %d variants, got %d", ErrCountMismatch, len(expected), len(submitted))
	}

	seen := make(map[string]struct{}, len(submitted))
	for _, s := range submitted {
		key := Key(s.Context)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, key)
		}
		seen[key] = struct{}{}
	}

	var missing []string
	for key := range expected {
		if _, ok := seen[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrMissingVariants, strings.Join(missing, ", "))
	}

	var extra []string
	for key := range seen {
		if _, ok := expected[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("%w: %s", ErrExtraVariants, strings.Join(extra, ", "))
	}

	defaults := 0
	for _, s := range submitted {
		if !s.IsDefault {
			continue
		}
		defaults++
		if s.ID != defaultVariantID {
			return fmt.Errorf("%w: default flag on variant %s, expected %s", ErrDefaultVariant, s.ID, defaultVariantID)
		}
	}
	if defaults != 1 {
		return fmt.Errorf("%w: expected exactly one default variant, got %d", ErrDefaultVariant, defaults)
	}

	return nil
}
