// Package domain contains the catalog product and variant models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
	"github.com/jewelleryos/aurum/internal/variant"
	"gorm.io/datatypes"
)

type Product struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null"`
	ProductType string       `json:"product_type" gorm:"type:text;not null;index"`
	BaseSKU     string       `json:"base_sku" gorm:"column:base_sku;type:text;not null"`

	CategoryIDs datatypes.JSONType[[]snowflake.ID] `json:"category_ids" gorm:"type:jsonb"`
	TagIDs      datatypes.JSONType[[]snowflake.ID] `json:"tag_ids" gorm:"type:jsonb"`
	BadgeIDs    datatypes.JSONType[[]snowflake.ID] `json:"badge_ids" gorm:"type:jsonb"`

	StoneComposition datatypes.JSONType[pricingdomain.StoneComposition] `json:"stone_composition" gorm:"type:jsonb"`
	SKULayout        datatypes.JSONType[[]variant.SKUComponent]         `json:"sku_layout" gorm:"column:sku_layout;type:jsonb"`

	DefaultVariantID snowflake.ID `json:"default_variant_id" gorm:"not null;default:0"`
	MinPrice         int64        `json:"min_price" gorm:"not null;default:0"`
	MaxPrice         int64        `json:"max_price" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Variants []ProductVariant `json:"variants" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string { return "products" }

// Info builds the rule-matching view of the product.
func (p Product) Info() pricingdomain.ProductInfo {
	return pricingdomain.ProductInfo{
		ProductType: p.ProductType,
		CategoryIDs: p.CategoryIDs.Data(),
		TagIDs:      p.TagIDs.Data(),
		BadgeIDs:    p.BadgeIDs.Data(),
	}
}

type ProductVariant struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID snowflake.ID `json:"product_id" gorm:"not null;index"`
	SKU       string       `json:"sku" gorm:"column:sku;type:text;not null"`

	MetalTypeID           snowflake.ID  `json:"metal_type_id" gorm:"not null"`
	MetalColorID          snowflake.ID  `json:"metal_color_id" gorm:"not null"`
	MetalPurityID         snowflake.ID  `json:"metal_purity_id" gorm:"not null"`
	MetalWeightGrams      float64       `json:"metal_weight_grams" gorm:"not null"`
	DiamondClarityColorID *snowflake.ID `json:"diamond_clarity_color_id,omitempty"`
	GemstoneColorID       *snowflake.ID `json:"gemstone_color_id,omitempty"`
	IsDefault             bool          `json:"is_default" gorm:"not null;default:false"`

	CostPrice       int64                                       `json:"cost_price" gorm:"not null;default:0"`
	SellingPrice    int64                                       `json:"selling_price" gorm:"not null;default:0"`
	CompareAtPrice  int64                                       `json:"compare_at_price" gorm:"not null;default:0"`
	PriceComponents datatypes.JSONType[pricingdomain.Breakdown] `json:"price_components" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// Context builds the pricing context for this variant.
func (v ProductVariant) Context() pricingdomain.VariantContext {
	return pricingdomain.VariantContext{
		MetalTypeID:           v.MetalTypeID,
		MetalColorID:          v.MetalColorID,
		MetalPurityID:         v.MetalPurityID,
		MetalWeightGrams:      v.MetalWeightGrams,
		DiamondClarityColorID: v.DiamondClarityColorID,
		GemstoneColorID:       v.GemstoneColorID,
	}
}
