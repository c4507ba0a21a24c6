package service

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	masterdomain "github.com/jewelleryos/aurum/internal/masterdata/domain"
	"github.com/jewelleryos/aurum/internal/pricing/domain"
	ruledomain "github.com/jewelleryos/aurum/internal/pricingrule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

const (
	goldTypeID    = snowflake.ID(101)
	yellowColorID = snowflake.ID(102)
	purity18KID   = snowflake.ID(103)
)

func idPtr(id snowflake.ID) *snowflake.ID { return &id }

func goldSnapshot(t *testing.T, opts ...func(*snapshotInputs)) *masterdomain.Snapshot {
	t.Helper()
	in := &snapshotInputs{
		purities: []masterdomain.MetalPurity{
			{ID: purity18KID, MetalTypeID: goldTypeID, PricePerGram: 5000},
		},
		bands: []masterdomain.MakingChargeBand{
			{ID: 201, MetalTypeID: goldTypeID, WeightFrom: 0, WeightTo: 10, IsFixedPricing: true, Amount: 200},
		},
	}
	for _, opt := range opts {
		opt(in)
	}
	return masterdomain.NewSnapshot(in.purities, in.bands, in.otherCharges, in.stonePricings, in.mrpMarkup, in.tax)
}

type snapshotInputs struct {
	purities      []masterdomain.MetalPurity
	bands         []masterdomain.MakingChargeBand
	otherCharges  []masterdomain.OtherCharge
	stonePricings []masterdomain.StonePricing
	mrpMarkup     masterdomain.MrpMarkupConfig
	tax           masterdomain.TaxConfig
}

func goldVariant() domain.VariantContext {
	return domain.VariantContext{
		MetalTypeID:      goldTypeID,
		MetalColorID:     yellowColorID,
		MetalPurityID:    purity18KID,
		MetalWeightGrams: 2.5,
	}
}

func metalTypeRule(markup ruledomain.Actions) ruledomain.PricingRule {
	return ruledomain.PricingRule{
		ID:       301,
		Name:     "gold markup",
		IsActive: true,
		Conditions: datatypes.NewJSONType([]ruledomain.Condition{
			{Kind: ruledomain.ConditionMetalType, IDs: []snowflake.ID{goldTypeID}},
		}),
		Actions: datatypes.NewJSONType(markup),
	}
}

func TestComputePricingWorkedExample(t *testing.T) {
	snapshot := goldSnapshot(t,
		func(in *snapshotInputs) {
			in.otherCharges = []masterdomain.OtherCharge{{ID: 401, Name: "hallmark", Amount: 500}}
			in.mrpMarkup = masterdomain.MrpMarkupConfig{MakingChargePct: 20}
		},
	)
	rules := []ruledomain.PricingRule{metalTypeRule(ruledomain.Actions{MakingChargeMarkupPct: 10})}

	calc := NewCalculator()
	breakdown, err := calc.ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, rules, snapshot)
	require.NoError(t, err)

	// 2.5g at 5000/g.
	assert.Equal(t, int64(12500), breakdown.Cost.MetalPrice)
	// Fixed band: 2.5 * 200 currency units/g plus the 500 flat charge.
	assert.Equal(t, int64(50500), breakdown.Cost.MakingCharge)
	assert.Equal(t, int64(63000), breakdown.Cost.FinalPrice)

	// One matching rule adds 10% of the making charge.
	assert.Equal(t, int64(55550), breakdown.Selling.MakingCharge)
	assert.Equal(t, int64(68050), breakdown.Selling.FinalPrice)

	// Compare-at marks up the selling component by 20%.
	assert.Equal(t, int64(66660), breakdown.CompareAt.MakingCharge)
	assert.Equal(t, int64(79160), breakdown.CompareAt.FinalPrice)
}

func TestMetalIsNeverMarkedUp(t *testing.T) {
	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.mrpMarkup = masterdomain.MrpMarkupConfig{
			DiamondPct: 50, GemstonePct: 50, PearlPct: 50, MakingChargePct: 50,
		}
	})
	rules := []ruledomain.PricingRule{metalTypeRule(ruledomain.Actions{
		DiamondMarkupPct: 25, MakingChargeMarkupPct: 25, GemstoneMarkupPct: 25, PearlMarkupPct: 25,
	})}

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, rules, snapshot)
	require.NoError(t, err)

	assert.Equal(t, breakdown.Cost.MetalPrice, breakdown.Selling.MetalPrice)
	assert.Equal(t, breakdown.Cost.MetalPrice, breakdown.CompareAt.MetalPrice)
}

func TestMarkupsAddInsteadOfCompounding(t *testing.T) {
	// 1g fixed band at 10/g makes the making charge exactly 1000.
	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.bands = []masterdomain.MakingChargeBand{
			{ID: 201, MetalTypeID: goldTypeID, WeightFrom: 0, WeightTo: 10, IsFixedPricing: true, Amount: 10},
		}
	})
	ruleA := metalTypeRule(ruledomain.Actions{MakingChargeMarkupPct: 10})
	ruleB := metalTypeRule(ruledomain.Actions{MakingChargeMarkupPct: 10})
	ruleB.ID = 302

	v := goldVariant()
	v.MetalWeightGrams = 1

	breakdown, err := NewCalculator().ComputePricing(v, domain.StoneComposition{}, domain.ProductInfo{}, []ruledomain.PricingRule{ruleA, ruleB}, snapshot)
	require.NoError(t, err)

	// 1000 + 100 + 100, not 1000 * 1.1 * 1.1.
	assert.Equal(t, int64(1200), breakdown.Selling.MakingCharge)
}

func TestEmptyConditionRuleNeverApplies(t *testing.T) {
	snapshot := goldSnapshot(t)
	rule := ruledomain.PricingRule{
		ID:         303,
		Name:       "half-written rule",
		IsActive:   true,
		Conditions: datatypes.NewJSONType([]ruledomain.Condition{}),
		Actions:    datatypes.NewJSONType(ruledomain.Actions{MakingChargeMarkupPct: 99}),
	}

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, []ruledomain.PricingRule{rule}, snapshot)
	require.NoError(t, err)

	assert.Equal(t, breakdown.Cost, breakdown.Selling)
}

func TestInactiveRuleIsSkipped(t *testing.T) {
	snapshot := goldSnapshot(t)
	rule := metalTypeRule(ruledomain.Actions{MakingChargeMarkupPct: 50})
	rule.IsActive = false

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, []ruledomain.PricingRule{rule}, snapshot)
	require.NoError(t, err)

	assert.Equal(t, breakdown.Cost, breakdown.Selling)
}

func TestPercentMakingChargeBand(t *testing.T) {
	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.bands = []masterdomain.MakingChargeBand{
			{ID: 201, MetalTypeID: goldTypeID, WeightFrom: 0, WeightTo: 10, IsFixedPricing: false, Amount: 12},
		}
	})

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, nil, snapshot)
	require.NoError(t, err)

	// 12% of the 12500 metal cost.
	assert.Equal(t, int64(1500), breakdown.Cost.MakingCharge)
}

func TestNoBandForWeightFails(t *testing.T) {
	snapshot := goldSnapshot(t)
	v := goldVariant()
	v.MetalWeightGrams = 25

	_, err := NewCalculator().ComputePricing(v, domain.StoneComposition{}, domain.ProductInfo{}, nil, snapshot)
	require.ErrorIs(t, err, masterdomain.ErrNoMakingChargeBand)
}

func TestTaxIncludedBreakdown(t *testing.T) {
	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.tax = masterdomain.TaxConfig{TaxIncluded: true, RatePct: 3}
	})

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, nil, snapshot)
	require.NoError(t, err)

	for _, tier := range []domain.PriceComponents{breakdown.Cost, breakdown.Selling, breakdown.CompareAt} {
		assert.True(t, tier.TaxIncluded)
		assert.Equal(t, tier.FinalPriceWithoutTax+tier.TaxAmount, tier.FinalPriceWithTax)
		assert.Equal(t, tier.FinalPriceWithTax, tier.FinalPrice)
	}
	// 3% of 12500 + 50000.
	assert.Equal(t, int64(1875), breakdown.Cost.TaxAmount)
}

func TestTaxExcludedBreakdown(t *testing.T) {
	snapshot := goldSnapshot(t)

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), domain.StoneComposition{}, domain.ProductInfo{}, nil, snapshot)
	require.NoError(t, err)

	assert.False(t, breakdown.Cost.TaxIncluded)
	assert.Zero(t, breakdown.Cost.TaxAmount)
	assert.Equal(t, breakdown.Cost.FinalPriceWithoutTax, breakdown.Cost.FinalPrice)
}

func TestDiamondCostFromLinkedPricing(t *testing.T) {
	clarityID := snowflake.ID(501)
	shapeID := snowflake.ID(502)
	pricingID := snowflake.ID(503)

	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.stonePricings = []masterdomain.StonePricing{
			{ID: pricingID, StoneShapeID: shapeID, StoneQualityID: clarityID, CtFrom: 0, CtTo: 2, Price: 20000},
		}
	})
	composition := domain.StoneComposition{
		HasDiamond: true,
		DiamondEntries: []domain.StoneEntry{
			{
				ShapeID:    shapeID,
				TotalCarat: 0.5,
				Links:      []domain.PricingLink{{OptionValueID: clarityID, StonePricingID: pricingID}},
			},
		},
	}
	v := goldVariant()
	v.DiamondClarityColorID = idPtr(clarityID)

	breakdown, err := NewCalculator().ComputePricing(v, composition, domain.ProductInfo{}, nil, snapshot)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), breakdown.Cost.DiamondPrice)
}

func TestDiamondMissingLinkFails(t *testing.T) {
	clarityID := snowflake.ID(501)
	snapshot := goldSnapshot(t)
	composition := domain.StoneComposition{
		HasDiamond: true,
		DiamondEntries: []domain.StoneEntry{
			{ShapeID: 502, TotalCarat: 0.5},
		},
	}
	v := goldVariant()
	v.DiamondClarityColorID = idPtr(clarityID)

	_, err := NewCalculator().ComputePricing(v, composition, domain.ProductInfo{}, nil, snapshot)
	require.ErrorIs(t, err, domain.ErrMissingPricingLink)
}

func TestDiamondPricingShapeMismatchFails(t *testing.T) {
	clarityID := snowflake.ID(501)
	pricingID := snowflake.ID(503)

	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.stonePricings = []masterdomain.StonePricing{
			{ID: pricingID, StoneShapeID: 999, StoneQualityID: clarityID, Price: 20000},
		}
	})
	composition := domain.StoneComposition{
		HasDiamond: true,
		DiamondEntries: []domain.StoneEntry{
			{
				ShapeID:    502,
				TotalCarat: 0.5,
				Links:      []domain.PricingLink{{OptionValueID: clarityID, StonePricingID: pricingID}},
			},
		},
	}
	v := goldVariant()
	v.DiamondClarityColorID = idPtr(clarityID)

	_, err := NewCalculator().ComputePricing(v, composition, domain.ProductInfo{}, nil, snapshot)
	require.ErrorIs(t, err, domain.ErrStonePricingMismatch)
}

func TestGemstoneRequiresCompositionQuality(t *testing.T) {
	colorID := snowflake.ID(601)
	snapshot := goldSnapshot(t)
	composition := domain.StoneComposition{
		HasGemstone: true,
		GemstoneEntries: []domain.StoneEntry{
			{ShapeID: 602, TotalCarat: 1},
		},
	}
	v := goldVariant()
	v.GemstoneColorID = idPtr(colorID)

	_, err := NewCalculator().ComputePricing(v, composition, domain.ProductInfo{}, nil, snapshot)
	require.ErrorIs(t, err, domain.ErrMissingGemstoneQuality)
}

func TestGemstoneCostFromLinkedPricing(t *testing.T) {
	colorID := snowflake.ID(601)
	qualityID := snowflake.ID(603)
	shapeID := snowflake.ID(602)
	pricingID := snowflake.ID(604)

	snapshot := goldSnapshot(t, func(in *snapshotInputs) {
		in.stonePricings = []masterdomain.StonePricing{
			{ID: pricingID, StoneShapeID: shapeID, StoneQualityID: qualityID, StoneColorID: idPtr(colorID), Price: 8000},
		}
	})
	composition := domain.StoneComposition{
		HasGemstone:       true,
		GemstoneQualityID: idPtr(qualityID),
		GemstoneEntries: []domain.StoneEntry{
			{
				ShapeID:    shapeID,
				TotalCarat: 1.25,
				Links:      []domain.PricingLink{{OptionValueID: colorID, StonePricingID: pricingID}},
			},
		},
	}
	v := goldVariant()
	v.GemstoneColorID = idPtr(colorID)

	breakdown, err := NewCalculator().ComputePricing(v, composition, domain.ProductInfo{}, nil, snapshot)
	require.NoError(t, err)

	assert.Equal(t, int64(10000), breakdown.Cost.GemstonePrice)
}

func TestPearlCostIsDirectAmount(t *testing.T) {
	snapshot := goldSnapshot(t)
	composition := domain.StoneComposition{
		HasPearl: true,
		PearlEntries: []domain.PearlEntry{
			{TotalGrams: 3, Amount: 150.5},
			{TotalGrams: 1, Amount: 49.5},
		},
	}

	breakdown, err := NewCalculator().ComputePricing(goldVariant(), composition, domain.ProductInfo{}, nil, snapshot)
	require.NoError(t, err)

	// Each entry converts to subunits and rounds independently.
	assert.Equal(t, int64(20000), breakdown.Cost.PearlPrice)
}

func TestUnknownPurityFails(t *testing.T) {
	snapshot := goldSnapshot(t)
	v := goldVariant()
	v.MetalPurityID = 999

	_, err := NewCalculator().ComputePricing(v, domain.StoneComposition{}, domain.ProductInfo{}, nil, snapshot)
	require.ErrorIs(t, err, masterdomain.ErrPurityNotFound)
}
