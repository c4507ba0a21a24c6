package variant

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoMetalSelection() []SelectedMetal {
	return []SelectedMetal{
		{
			MetalTypeID:    1,
			MetalColorIDs:  []snowflake.ID{10, 11},
			MetalPurityIDs: []snowflake.ID{20},
		},
	}
}

func TestExpectedKeysCartesianCount(t *testing.T) {
	// 1 metal x 2 colors x 1 purity x 2 diamond options x 1 (no gemstone) = 4.
	expected := ExpectedKeys(twoMetalSelection(), StoneOptions{
		DiamondClarityColorIDs: []snowflake.ID{30, 31},
	})
	assert.Len(t, expected, 4)
}

func TestExpectedKeysAbsentStoneAxisCollapses(t *testing.T) {
	expected := ExpectedKeys(twoMetalSelection(), StoneOptions{})
	assert.Len(t, expected, 2)
}

func submissionFor(metals []SelectedMetal, stones StoneOptions) []Submitted {
	var subs []Submitted
	id := snowflake.ID(100)
	diamond := stones.DiamondClarityColorIDs
	for _, m := range metals {
		for _, color := range m.MetalColorIDs {
			for _, purity := range m.MetalPurityIDs {
				axis := []*snowflake.ID{nil}
				if len(diamond) > 0 {
					axis = axis[:0]
					for i := range diamond {
						axis = append(axis, &diamond[i])
					}
				}
				for _, d := range axis {
					subs = append(subs, Submitted{
						ID: id,
						Context: pricingdomain.VariantContext{
							MetalTypeID:           m.MetalTypeID,
							MetalColorID:          color,
							MetalPurityID:         purity,
							DiamondClarityColorID: d,
						},
					})
					id++
				}
			}
		}
	}
	subs[0].IsDefault = true
	return subs
}

func TestValidateAcceptsCompleteSubmission(t *testing.T) {
	metals := twoMetalSelection()
	stones := StoneOptions{DiamondClarityColorIDs: []snowflake.ID{30, 31}}
	expected := ExpectedKeys(metals, stones)
	subs := submissionFor(metals, stones)

	require.NoError(t, Validate(expected, subs, subs[0].ID))
}

func TestValidateRejectsCountMismatch(t *testing.T) {
	metals := twoMetalSelection()
	stones := StoneOptions{DiamondClarityColorIDs: []snowflake.ID{30, 31}}
	expected := ExpectedKeys(metals, stones)
	subs := submissionFor(metals, stones)

	err := Validate(expected, subs[:3], subs[0].ID)
	require.ErrorIs(t, err, ErrCountMismatch)
}

func TestValidateReportsMissingAndExtraKeys(t *testing.T) {
	metals := twoMetalSelection()
	stones := StoneOptions{DiamondClarityColorIDs: []snowflake.ID{30, 31}}
	expected := ExpectedKeys(metals, stones)
	subs := submissionFor(metals, stones)

	// Swap one expected combination for an unexpected color.
	subs[3].Context.MetalColorID = 999

	err := Validate(expected, subs, subs[0].ID)
	require.ErrorIs(t, err, ErrMissingVariants)
}

func TestValidateRejectsDuplicateKeys(t *testing.T) {
	metals := twoMetalSelection()
	stones := StoneOptions{DiamondClarityColorIDs: []snowflake.ID{30, 31}}
	expected := ExpectedKeys(metals, stones)
	subs := submissionFor(metals, stones)

	subs[3].Context = subs[2].Context

	err := Validate(expected, subs, subs[0].ID)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

func TestValidateRequiresExactlyOneDefault(t *testing.T) {
	metals := twoMetalSelection()
	stones := StoneOptions{DiamondClarityColorIDs: []snowflake.ID{30, 31}}
	expected := ExpectedKeys(metals, stones)

	subs := submissionFor(metals, stones)
	subs[1].IsDefault = true
	err := Validate(expected, subs, subs[0].ID)
	require.ErrorIs(t, err, ErrDefaultVariant)

	subs = submissionFor(metals, stones)
	subs[0].IsDefault = false
	err = Validate(expected, subs, subs[0].ID)
	require.ErrorIs(t, err, ErrDefaultVariant)
}

func TestValidateDefaultFlagMustMatchDeclaredID(t *testing.T) {
	metals := twoMetalSelection()
	stones := StoneOptions{DiamondClarityColorIDs: []snowflake.ID{30, 31}}
	expected := ExpectedKeys(metals, stones)
	subs := submissionFor(metals, stones)

	err := Validate(expected, subs, subs[1].ID)
	require.ErrorIs(t, err, ErrDefaultVariant)
}
