// Package domain holds the pricing contexts and computed price components.
package domain

import (
	"github.com/bwmarrin/snowflake"
)

// VariantContext is the option selection a price is computed for.
type VariantContext struct {
	MetalTypeID           snowflake.ID  `json:"metal_type_id"`
	MetalColorID          snowflake.ID  `json:"metal_color_id"`
	MetalPurityID         snowflake.ID  `json:"metal_purity_id"`
	MetalWeightGrams      float64       `json:"metal_weight_grams"`
	DiamondClarityColorID *snowflake.ID `json:"diamond_clarity_color_id,omitempty"`
	GemstoneColorID       *snowflake.ID `json:"gemstone_color_id,omitempty"`
}

// PricingLink binds an option value chosen at authoring time to the stone
// pricing row that prices it.
type PricingLink struct {
	OptionValueID  snowflake.ID `json:"option_value_id"`
	StonePricingID snowflake.ID `json:"stone_pricing_id"`
}

// StoneEntry is one diamond or gemstone position on a product.
type StoneEntry struct {
	StoneTypeID *snowflake.ID `json:"stone_type_id,omitempty"`
	ShapeID     snowflake.ID  `json:"shape_id"`
	TotalCarat  float64       `json:"total_carat"`
	Links       []PricingLink `json:"links"`
}

// PearlEntry carries a direct amount in currency units; pearl cost never
// consults the stone pricing table.
type PearlEntry struct {
	TotalGrams float64 `json:"total_grams"`
	Amount     float64 `json:"amount"`
}

// StoneComposition is the product-level stone authoring data shared by all
// variants of a product.
type StoneComposition struct {
	HasDiamond  bool `json:"has_diamond"`
	HasGemstone bool `json:"has_gemstone"`
	HasPearl    bool `json:"has_pearl"`

	GemstoneQualityID *snowflake.ID `json:"gemstone_quality_id,omitempty"`

	DiamondEntries  []StoneEntry `json:"diamond_entries,omitempty"`
	GemstoneEntries []StoneEntry `json:"gemstone_entries,omitempty"`
	PearlEntries    []PearlEntry `json:"pearl_entries,omitempty"`
}

// DiamondCaratTotal sums the diamond entries' carat weights.
func (c StoneComposition) DiamondCaratTotal() float64 {
	var total float64
	for _, e := range c.DiamondEntries {
		total += e.TotalCarat
	}
	return total
}

// GemstoneCaratTotal sums the gemstone entries' carat weights.
func (c StoneComposition) GemstoneCaratTotal() float64 {
	var total float64
	for _, e := range c.GemstoneEntries {
		total += e.TotalCarat
	}
	return total
}

// PearlGramsTotal sums the pearl entries' gram weights.
func (c StoneComposition) PearlGramsTotal() float64 {
	var total float64
	for _, e := range c.PearlEntries {
		total += e.TotalGrams
	}
	return total
}

// ProductInfo is the product-level attribute set rules match against.
type ProductInfo struct {
	ProductType string         `json:"product_type"`
	CategoryIDs []snowflake.ID `json:"category_ids,omitempty"`
	TagIDs      []snowflake.ID `json:"tag_ids,omitempty"`
	BadgeIDs    []snowflake.ID `json:"badge_ids,omitempty"`
}

// PriceComponents is one tier of a computed price. All values are integer
// subunits.
type PriceComponents struct {
	MetalPrice    int64 `json:"metal_price"`
	MakingCharge  int64 `json:"making_charge"`
	DiamondPrice  int64 `json:"diamond_price"`
	GemstonePrice int64 `json:"gemstone_price"`
	PearlPrice    int64 `json:"pearl_price"`

	FinalPriceWithoutTax int64 `json:"final_price_without_tax"`
	TaxAmount            int64 `json:"tax_amount"`
	FinalPriceWithTax    int64 `json:"final_price_with_tax"`
	TaxIncluded          bool  `json:"tax_included"`
	FinalPrice           int64 `json:"final_price"`
}

// Breakdown is the immutable cost/selling/compare-at triple produced for a
// variant. It is built fresh on every pricing request.
type Breakdown struct {
	Cost      PriceComponents `json:"cost"`
	Selling   PriceComponents `json:"selling"`
	CompareAt PriceComponents `json:"compare_at"`
}
