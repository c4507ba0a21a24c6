package repository

import (
	"context"

	"github.com/jewelleryos/aurum/internal/pricingrule/domain"
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

func (r *repository) ListActive(ctx context.Context) ([]domain.PricingRule, error) {
	var rules []domain.PricingRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}
