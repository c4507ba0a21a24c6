// Package service implements interactive product authoring: variant set
// validation, SKU generation and per-variant pricing in one pass, so a
// product is persisted with prices already in place.
package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jewelleryos/aurum/internal/clock"
	masterdomain "github.com/jewelleryos/aurum/internal/masterdata/domain"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
	pricingservice "github.com/jewelleryos/aurum/internal/pricing/service"
	ruledomain "github.com/jewelleryos/aurum/internal/pricingrule/domain"
	"github.com/jewelleryos/aurum/internal/product/domain"
	"github.com/jewelleryos/aurum/internal/variant"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// SubmittedVariant is one authored variant: its option context plus the
// human-readable codes that feed SKU generation.
type SubmittedVariant struct {
	ID        snowflake.ID                 `json:"id"`
	Context   pricingdomain.VariantContext `json:"context"`
	IsDefault bool                         `json:"is_default"`
	SKUValues map[string]string            `json:"sku_values"`
}

type CreateProductInput struct {
	Name        string         `json:"name"`
	ProductType string         `json:"product_type"`
	BaseSKU     string         `json:"base_sku"`
	CategoryIDs []snowflake.ID `json:"category_ids"`
	TagIDs      []snowflake.ID `json:"tag_ids"`
	BadgeIDs    []snowflake.ID `json:"badge_ids"`

	Composition pricingdomain.StoneComposition `json:"stone_composition"`
	SKULayout   []variant.SKUComponent         `json:"sku_layout"`

	Metals           []variant.SelectedMetal `json:"metals"`
	StoneOptions     variant.StoneOptions    `json:"stone_options"`
	DefaultVariantID snowflake.ID            `json:"default_variant_id"`
	Variants         []SubmittedVariant      `json:"variants"`
}

type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id snowflake.ID) (*domain.Product, error)
	Preview(ctx context.Context, v pricingdomain.VariantContext, composition pricingdomain.StoneComposition, product pricingdomain.ProductInfo) (pricingdomain.Breakdown, error)
}

type service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	products   domain.Repository
	masterdata masterdomain.Repository
	rules      ruledomain.Repository
	calc       *pricingservice.Calculator
}

type Params struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Products   domain.Repository
	Masterdata masterdomain.Repository
	Rules      ruledomain.Repository
	Calc       *pricingservice.Calculator
}

func New(p Params) Service {
	return &service{
		log:        p.Log.Named("product"),
		genID:      p.GenID,
		clock:      p.Clock,
		products:   p.Products,
		masterdata: p.Masterdata,
		rules:      p.Rules,
		calc:       p.Calc,
	}
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	expected := variant.ExpectedKeys(input.Metals, input.StoneOptions)
	submitted := make([]variant.Submitted, len(input.Variants))
	for i, v := range input.Variants {
		submitted[i] = variant.Submitted{ID: v.ID, Context: v.Context, IsDefault: v.IsDefault}
	}
	if err := variant.Validate(expected, submitted, input.DefaultVariantID); err != nil {
		return nil, err
	}

	snapshot, err := s.masterdata.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing snapshot: %w", err)
	}
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:               s.genID.Generate(),
		Name:             input.Name,
		ProductType:      input.ProductType,
		BaseSKU:          input.BaseSKU,
		CategoryIDs:      datatypes.NewJSONType(input.CategoryIDs),
		TagIDs:           datatypes.NewJSONType(input.TagIDs),
		BadgeIDs:         datatypes.NewJSONType(input.BadgeIDs),
		StoneComposition: datatypes.NewJSONType(input.Composition),
		SKULayout:        datatypes.NewJSONType(input.SKULayout),
		DefaultVariantID: input.DefaultVariantID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	info := product.Info()

	var minPrice, maxPrice int64
	for i, v := range input.Variants {
		breakdown, err := s.calc.ComputePricing(v.Context, input.Composition, info, rules, snapshot)
		if err != nil {
			// Pricing must succeed for every variant; nothing is persisted
			// otherwise.
			return nil, fmt.Errorf("price variant %s: %w", v.ID, err)
		}

		selling := breakdown.Selling.FinalPrice
		if i == 0 || selling < minPrice {
			minPrice = selling
		}
		if i == 0 || selling > maxPrice {
			maxPrice = selling
		}

		product.Variants = append(product.Variants, domain.ProductVariant{
			ID:                    v.ID,
			ProductID:             product.ID,
			SKU:                   variant.BuildSKU(input.BaseSKU, input.SKULayout, v.SKUValues),
			MetalTypeID:           v.Context.MetalTypeID,
			MetalColorID:          v.Context.MetalColorID,
			MetalPurityID:         v.Context.MetalPurityID,
			MetalWeightGrams:      v.Context.MetalWeightGrams,
			DiamondClarityColorID: v.Context.DiamondClarityColorID,
			GemstoneColorID:       v.Context.GemstoneColorID,
			IsDefault:             v.IsDefault,
			CostPrice:             breakdown.Cost.FinalPrice,
			SellingPrice:          breakdown.Selling.FinalPrice,
			CompareAtPrice:        breakdown.CompareAt.FinalPrice,
			PriceComponents:       datatypes.NewJSONType(breakdown),
			CreatedAt:             now,
			UpdatedAt:             now,
		})
	}
	product.MinPrice = minPrice
	product.MaxPrice = maxPrice

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.Int("variants", len(product.Variants)),
	)
	return product, nil
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Preview prices one variant context without persisting anything. It shares
// the calculator with authoring and recalculation.
func (s *service) Preview(ctx context.Context, v pricingdomain.VariantContext, composition pricingdomain.StoneComposition, product pricingdomain.ProductInfo) (pricingdomain.Breakdown, error) {
	snapshot, err := s.masterdata.LoadSnapshot(ctx)
	if err != nil {
		return pricingdomain.Breakdown{}, fmt.Errorf("load pricing snapshot: %w", err)
	}
	rules, err := s.rules.ListActive(ctx)
	if err != nil {
		return pricingdomain.Breakdown{}, fmt.Errorf("list pricing rules: %w", err)
	}
	return s.calc.ComputePricing(v, composition, product, rules, snapshot)
}
