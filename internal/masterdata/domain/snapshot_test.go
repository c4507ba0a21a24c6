package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandEdgesAreInclusive(t *testing.T) {
	snapshot := NewSnapshot(nil, []MakingChargeBand{
		{ID: 1, MetalTypeID: 10, WeightFrom: 0, WeightTo: 5, Amount: 100},
		{ID: 2, MetalTypeID: 10, WeightFrom: 5.01, WeightTo: 10, Amount: 80},
	}, nil, nil, MrpMarkupConfig{}, TaxConfig{})

	band, err := snapshot.Band(10, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), int64(band.ID))

	band, err = snapshot.Band(10, 5.01)
	require.NoError(t, err)
	assert.Equal(t, int64(2), int64(band.ID))

	band, err = snapshot.Band(10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), int64(band.ID))

	_, err = snapshot.Band(10, 10.5)
	assert.ErrorIs(t, err, ErrNoMakingChargeBand)

	_, err = snapshot.Band(99, 1)
	assert.ErrorIs(t, err, ErrNoMakingChargeBand)
}

func TestSnapshotLookupErrors(t *testing.T) {
	snapshot := NewSnapshot(nil, nil, nil, nil, MrpMarkupConfig{}, TaxConfig{})

	_, err := snapshot.Purity(1)
	assert.ErrorIs(t, err, ErrPurityNotFound)

	_, err = snapshot.StonePricing(1)
	assert.ErrorIs(t, err, ErrStonePricingNotFound)
}

func TestSnapshotSumsOtherCharges(t *testing.T) {
	snapshot := NewSnapshot(nil, nil, []OtherCharge{
		{ID: 1, Name: "hallmark", Amount: 300},
		{ID: 2, Name: "certificate", Amount: 200},
	}, nil, MrpMarkupConfig{}, TaxConfig{})

	assert.Equal(t, int64(500), snapshot.OtherChargeTotal())
}
