package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
)

// VariantPriceUpdate carries the recomputed price tiers for one variant.
type VariantPriceUpdate struct {
	VariantID      snowflake.ID
	CostPrice      int64
	SellingPrice   int64
	CompareAtPrice int64
	Components     pricingdomain.Breakdown
}

// PriceRangeUpdate carries the recomputed selling-price range for one product.
type PriceRangeUpdate struct {
	ProductID snowflake.ID
	MinPrice  int64
	MaxPrice  int64
}

type Repository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id snowflake.ID) (*Product, error)

	// CountCatalogProducts returns the number of products a full
	// recalculation will visit.
	CountCatalogProducts(ctx context.Context) (int64, error)

	// FetchProductPage returns a stable id-ordered page of products with
	// their variants preloaded.
	FetchProductPage(ctx context.Context, offset, limit int) ([]Product, error)

	// PersistVariantPrices writes a batch of variant price updates in a
	// single transaction.
	PersistVariantPrices(ctx context.Context, updates []VariantPriceUpdate) error

	// PersistProductPriceRanges writes a batch of product price ranges in a
	// single transaction.
	PersistProductPriceRanges(ctx context.Context, updates []PriceRangeUpdate) error
}
