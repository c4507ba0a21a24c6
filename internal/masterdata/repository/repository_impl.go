package repository

import (
	"context"

	"github.com/jewelleryos/aurum/internal/masterdata/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

type Param struct {
	fx.In

	DB *gorm.DB
}

func NewRepository(p Param) domain.Repository {
	return &repository{db: p.DB}
}

// LoadSnapshot reads every pricing input in one pass. The markup and tax
// singletons fall back to zero-valued rows when absent so a fresh install
// prices without markup or tax rather than failing.
func (r *repository) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var purities []domain.MetalPurity
	if err := r.db.WithContext(ctx).Find(&purities).Error; err != nil {
		return nil, err
	}

	var bands []domain.MakingChargeBand
	if err := r.db.WithContext(ctx).Find(&bands).Error; err != nil {
		return nil, err
	}

	var otherCharges []domain.OtherCharge
	if err := r.db.WithContext(ctx).Find(&otherCharges).Error; err != nil {
		return nil, err
	}

	var stonePricings []domain.StonePricing
	if err := r.db.WithContext(ctx).Find(&stonePricings).Error; err != nil {
		return nil, err
	}

	var mrpMarkup domain.MrpMarkupConfig
	if err := r.db.WithContext(ctx).First(&mrpMarkup).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		mrpMarkup = domain.MrpMarkupConfig{}
	}

	var tax domain.TaxConfig
	if err := r.db.WithContext(ctx).First(&tax).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		tax = domain.TaxConfig{}
	}

	return domain.NewSnapshot(purities, bands, otherCharges, stonePricings, mrpMarkup, tax), nil
}
