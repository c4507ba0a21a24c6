package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/jewelleryos/aurum/internal/product/domain"
	"go.uber.org/fx"
	"gorm.io/datatypes"
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

func (r *repository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) CountCatalogProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}

// FetchProductPage pages by id order so a recalculation run visits each
// product exactly once even while rows are inserted concurrently.
func (r *repository) FetchProductPage(ctx context.Context, offset, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *repository) PersistVariantPrices(ctx context.Context, updates []domain.VariantPriceUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			err := tx.Model(&domain.ProductVariant{}).
				Where("id = ?", u.VariantID).
				Updates(map[string]any{
					"cost_price":       u.CostPrice,
					"selling_price":    u.SellingPrice,
					"compare_at_price": u.CompareAtPrice,
					"price_components": datatypes.NewJSONType(u.Components),
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) PersistProductPriceRanges(ctx context.Context, updates []domain.PriceRangeUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			err := tx.Model(&domain.Product{}).
				Where("id = ?", u.ProductID).
				Updates(map[string]any{
					"min_price": u.MinPrice,
					"max_price": u.MaxPrice,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
