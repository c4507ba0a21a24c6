// Package service implements the variant price calculator. Every call site
// that needs a price (interactive product authoring, storefront previews, the
// catalog recalculation worker) goes through ComputePricing so the formula
// cannot drift between them.
package service

import (
	"fmt"
	"math"

	"github.com/bwmarrin/snowflake"
	masterdomain "github.com/jewelleryos/aurum/internal/masterdata/domain"
	"github.com/jewelleryos/aurum/internal/pricing/domain"
	ruledomain "github.com/jewelleryos/aurum/internal/pricingrule/domain"
)

// Calculator computes the cost/selling/compare-at breakdown for one variant.
// It is stateless and safe for concurrent use; all inputs arrive per call.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// round is "round half away from zero" to the nearest integer subunit. It is
// applied at every intermediate sum, never deferred to the end, so recomputed
// prices stay bit-exact against stored legacy prices.
func round(x float64) int64 {
	return int64(math.Round(x))
}

// ComputePricing produces a fresh Breakdown for one variant.
//
// Failures are product-level configuration problems (no making-charge band for
// the weight, unresolvable or mismatched stone pricing reference) and are
// reported to the caller; batch callers isolate them per product.
func (c *Calculator) ComputePricing(
	variant domain.VariantContext,
	composition domain.StoneComposition,
	product domain.ProductInfo,
	rules []ruledomain.PricingRule,
	snapshot *masterdomain.Snapshot,
) (domain.Breakdown, error) {
	var breakdown domain.Breakdown

	purity, err := snapshot.Purity(variant.MetalPurityID)
	if err != nil {
		return breakdown, fmt.Errorf("metal purity %s: %w", variant.MetalPurityID, err)
	}
	metalCost := round(float64(purity.PricePerGram) * variant.MetalWeightGrams)

	makingCost, err := c.makingChargeCost(variant, metalCost, snapshot)
	if err != nil {
		return breakdown, err
	}

	diamondCost, err := c.diamondCost(variant, composition, snapshot)
	if err != nil {
		return breakdown, err
	}

	gemstoneCost, err := c.gemstoneCost(variant, composition, snapshot)
	if err != nil {
		return breakdown, err
	}

	pearlCost := c.pearlCost(composition)

	actions := matchingActions(variant, composition, product, rules)

	mrp := snapshot.MrpMarkup()

	sellingMaking := makingCost + markupTotal(makingCost, actions, func(a ruledomain.Actions) float64 { return a.MakingChargeMarkupPct })
	sellingDiamond := diamondCost + markupTotal(diamondCost, actions, func(a ruledomain.Actions) float64 { return a.DiamondMarkupPct })
	sellingGemstone := gemstoneCost + markupTotal(gemstoneCost, actions, func(a ruledomain.Actions) float64 { return a.GemstoneMarkupPct })
	sellingPearl := pearlCost + markupTotal(pearlCost, actions, func(a ruledomain.Actions) float64 { return a.PearlMarkupPct })

	cost := domain.PriceComponents{
		MetalPrice:    metalCost,
		MakingCharge:  makingCost,
		DiamondPrice:  diamondCost,
		GemstonePrice: gemstoneCost,
		PearlPrice:    pearlCost,
	}
	selling := domain.PriceComponents{
		MetalPrice:    metalCost,
		MakingCharge:  sellingMaking,
		DiamondPrice:  sellingDiamond,
		GemstonePrice: sellingGemstone,
		PearlPrice:    sellingPearl,
	}
	// Metal never receives MRP markup; the other components derive compare-at
	// from their selling price.
	compareAt := domain.PriceComponents{
		MetalPrice:    metalCost,
		MakingCharge:  applyMrp(sellingMaking, mrp.MakingChargePct),
		DiamondPrice:  applyMrp(sellingDiamond, mrp.DiamondPct),
		GemstonePrice: applyMrp(sellingGemstone, mrp.GemstonePct),
		PearlPrice:    applyMrp(sellingPearl, mrp.PearlPct),
	}

	tax := snapshot.Tax()
	finalizeTier(&cost, tax)
	finalizeTier(&selling, tax)
	finalizeTier(&compareAt, tax)

	breakdown.Cost = cost
	breakdown.Selling = selling
	breakdown.CompareAt = compareAt
	return breakdown, nil
}

func (c *Calculator) makingChargeCost(variant domain.VariantContext, metalCost int64, snapshot *masterdomain.Snapshot) (int64, error) {
	band, err := snapshot.Band(variant.MetalTypeID, variant.MetalWeightGrams)
	if err != nil {
		return 0, fmt.Errorf("metal type %s weight %.4fg: %w", variant.MetalTypeID, variant.MetalWeightGrams, err)
	}

	var base int64
	if band.IsFixedPricing {
		base = round(variant.MetalWeightGrams * band.Amount * masterdomain.SubunitsPerUnit)
	} else {
		base = round(band.Amount / 100 * float64(metalCost))
	}
	return base + snapshot.OtherChargeTotal(), nil
}

func (c *Calculator) diamondCost(variant domain.VariantContext, composition domain.StoneComposition, snapshot *masterdomain.Snapshot) (int64, error) {
	if variant.DiamondClarityColorID == nil {
		return 0, nil
	}
	key := *variant.DiamondClarityColorID

	var total int64
	for i, entry := range composition.DiamondEntries {
		pricing, err := resolveLinkedPricing(entry, key, snapshot)
		if err != nil {
			return 0, fmt.Errorf("diamond entry %d: %w", i, err)
		}
		if pricing.StoneShapeID != entry.ShapeID || pricing.StoneQualityID != key {
			return 0, fmt.Errorf("diamond entry %d pricing %s: %w", i, pricing.ID, domain.ErrStonePricingMismatch)
		}
		if pricing.StoneTypeID != nil && entry.StoneTypeID != nil && *pricing.StoneTypeID != *entry.StoneTypeID {
			return 0, fmt.Errorf("diamond entry %d pricing %s: %w", i, pricing.ID, domain.ErrStonePricingMismatch)
		}
		total += round(float64(pricing.Price) * entry.TotalCarat)
	}
	return total, nil
}

func (c *Calculator) gemstoneCost(variant domain.VariantContext, composition domain.StoneComposition, snapshot *masterdomain.Snapshot) (int64, error) {
	if variant.GemstoneColorID == nil {
		return 0, nil
	}
	if len(composition.GemstoneEntries) == 0 {
		return 0, nil
	}
	if composition.GemstoneQualityID == nil {
		return 0, domain.ErrMissingGemstoneQuality
	}
	key := *variant.GemstoneColorID
	quality := *composition.GemstoneQualityID

	var total int64
	for i, entry := range composition.GemstoneEntries {
		pricing, err := resolveLinkedPricing(entry, key, snapshot)
		if err != nil {
			return 0, fmt.Errorf("gemstone entry %d: %w", i, err)
		}
		if pricing.StoneShapeID != entry.ShapeID || pricing.StoneQualityID != quality {
			return 0, fmt.Errorf("gemstone entry %d pricing %s: %w", i, pricing.ID, domain.ErrStonePricingMismatch)
		}
		if pricing.StoneColorID != nil && *pricing.StoneColorID != key {
			return 0, fmt.Errorf("gemstone entry %d pricing %s: %w", i, pricing.ID, domain.ErrStonePricingMismatch)
		}
		if pricing.StoneTypeID != nil && entry.StoneTypeID != nil && *pricing.StoneTypeID != *entry.StoneTypeID {
			return 0, fmt.Errorf("gemstone entry %d pricing %s: %w", i, pricing.ID, domain.ErrStonePricingMismatch)
		}
		total += round(float64(pricing.Price) * entry.TotalCarat)
	}
	return total, nil
}

// pearlCost is identical for every variant of the product.
func (c *Calculator) pearlCost(composition domain.StoneComposition) int64 {
	var total int64
	for _, entry := range composition.PearlEntries {
		total += round(entry.Amount * masterdomain.SubunitsPerUnit)
	}
	return total
}

func resolveLinkedPricing(entry domain.StoneEntry, key snowflake.ID, snapshot *masterdomain.Snapshot) (masterdomain.StonePricing, error) {
	for _, link := range entry.Links {
		if link.OptionValueID != key {
			continue
		}
		pricing, err := snapshot.StonePricing(link.StonePricingID)
		if err != nil {
			return masterdomain.StonePricing{}, fmt.Errorf("pricing %s: %w", link.StonePricingID, err)
		}
		return pricing, nil
	}
	return masterdomain.StonePricing{}, fmt.Errorf("option %s: %w", key, domain.ErrMissingPricingLink)
}

func matchingActions(
	variant domain.VariantContext,
	composition domain.StoneComposition,
	product domain.ProductInfo,
	rules []ruledomain.PricingRule,
) []ruledomain.Actions {
	var matched []ruledomain.Actions
	for _, rule := range rules {
		if !rule.IsActive || !rule.AppliesTo(product.ProductType) {
			continue
		}
		if !ruledomain.Matches(rule.Conditions.Data(), variant, product, composition) {
			continue
		}
		matched = append(matched, rule.Actions.Data())
	}
	return matched
}

// markupTotal adds each matching rule's markup on the component cost. Each
// rule's contribution is rounded independently and the contributions add;
// stacking rules never compounds.
func markupTotal(componentCost int64, actions []ruledomain.Actions, pct func(ruledomain.Actions) float64) int64 {
	var total int64
	for _, action := range actions {
		p := pct(action)
		if p == 0 {
			continue
		}
		total += round(float64(componentCost) * p / 100)
	}
	return total
}

func applyMrp(selling int64, pct float64) int64 {
	return round(float64(selling) * (1 + pct/100))
}

func finalizeTier(tier *domain.PriceComponents, tax masterdomain.TaxConfig) {
	tier.FinalPriceWithoutTax = tier.MetalPrice + tier.MakingCharge + tier.DiamondPrice + tier.GemstonePrice + tier.PearlPrice
	if tax.TaxIncluded {
		tier.TaxIncluded = true
		tier.TaxAmount = round(float64(tier.FinalPriceWithoutTax) * tax.RatePct / 100)
		tier.FinalPriceWithTax = tier.FinalPriceWithoutTax + tier.TaxAmount
		tier.FinalPrice = tier.FinalPriceWithTax
		return
	}
	tier.TaxIncluded = false
	tier.TaxAmount = 0
	tier.FinalPriceWithTax = tier.FinalPriceWithoutTax
	tier.FinalPrice = tier.FinalPriceWithoutTax
}
