package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrPurityNotFound       = errors.New("metal_purity_not_found")
	ErrNoMakingChargeBand   = errors.New("no_making_charge_band")
	ErrStonePricingNotFound = errors.New("stone_pricing_not_found")
)

// Snapshot is an immutable in-memory bundle of all pricing inputs, fetched
// once per computation cycle. Concurrent callers each load their own snapshot;
// a snapshot is never mutated after construction.
type Snapshot struct {
	purities     map[snowflake.ID]MetalPurity
	bands        map[snowflake.ID][]MakingChargeBand
	stonePricing map[snowflake.ID]StonePricing
	otherCharges int64
	mrpMarkup    MrpMarkupConfig
	tax          TaxConfig
}

func NewSnapshot(
	purities []MetalPurity,
	bands []MakingChargeBand,
	otherCharges []OtherCharge,
	stonePricings []StonePricing,
	mrpMarkup MrpMarkupConfig,
	tax TaxConfig,
) *Snapshot {
	s := &Snapshot{
		purities:     make(map[snowflake.ID]MetalPurity, len(purities)),
		bands:        make(map[snowflake.ID][]MakingChargeBand),
		stonePricing: make(map[snowflake.ID]StonePricing, len(stonePricings)),
		mrpMarkup:    mrpMarkup,
		tax:          tax,
	}
	for _, p := range purities {
		s.purities[p.ID] = p
	}
	for _, b := range bands {
		s.bands[b.MetalTypeID] = append(s.bands[b.MetalTypeID], b)
	}
	for _, sp := range stonePricings {
		s.stonePricing[sp.ID] = sp
	}
	for _, oc := range otherCharges {
		s.otherCharges += oc.Amount
	}
	return s
}

// Purity resolves a metal purity by id.
func (s *Snapshot) Purity(id snowflake.ID) (MetalPurity, error) {
	p, ok := s.purities[id]
	if !ok {
		return MetalPurity{}, ErrPurityNotFound
	}
	return p, nil
}

// Band locates the making-charge band matching a metal type and weight.
// Band edges are inclusive on both ends.
func (s *Snapshot) Band(metalTypeID snowflake.ID, weightGrams float64) (MakingChargeBand, error) {
	for _, b := range s.bands[metalTypeID] {
		if weightGrams >= b.WeightFrom && weightGrams <= b.WeightTo {
			return b, nil
		}
	}
	return MakingChargeBand{}, ErrNoMakingChargeBand
}

// StonePricing resolves a stone pricing row by id.
func (s *Snapshot) StonePricing(id snowflake.ID) (StonePricing, error) {
	sp, ok := s.stonePricing[id]
	if !ok {
		return StonePricing{}, ErrStonePricingNotFound
	}
	return sp, nil
}

// OtherChargeTotal is the sum of all flat other charges.
func (s *Snapshot) OtherChargeTotal() int64 { return s.otherCharges }

// MrpMarkup returns the compare-at markup percentages.
func (s *Snapshot) MrpMarkup() MrpMarkupConfig { return s.mrpMarkup }

// Tax returns the tax policy.
func (s *Snapshot) Tax() TaxConfig { return s.tax }
