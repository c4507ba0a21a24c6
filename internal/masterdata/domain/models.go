// Package domain contains the read-only pricing master data models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubunitsPerUnit is the minor-unit scale of the catalog currency.
const SubunitsPerUnit = 100

// MetalPurity carries the current per-gram rate for a purity of a metal type.
type MetalPurity struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	MetalTypeID  snowflake.ID `json:"metal_type_id" gorm:"not null;index"`
	PricePerGram int64        `json:"price_per_gram" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MetalPurity) TableName() string { return "metal_purities" }

// MakingChargeBand is a labor fee banded by metal type and weight range.
// A variant falls in the band when weight >= WeightFrom and weight <= WeightTo.
// Amount is the per-gram rate in currency units when IsFixedPricing is set,
// otherwise a percent of the variant's metal cost.
type MakingChargeBand struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	MetalTypeID    snowflake.ID `json:"metal_type_id" gorm:"not null;index"`
	WeightFrom     float64      `json:"weight_from" gorm:"not null"`
	WeightTo       float64      `json:"weight_to" gorm:"not null"`
	IsFixedPricing bool         `json:"is_fixed_pricing" gorm:"not null;default:false"`
	Amount         float64      `json:"amount" gorm:"not null"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MakingChargeBand) TableName() string { return "making_charge_bands" }

// OtherCharge is a flat amount in subunits added to every variant's making
// charge regardless of metal type.
type OtherCharge struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Amount    int64        `json:"amount" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (OtherCharge) TableName() string { return "other_charges" }

// StonePricing is a per-carat rate keyed by shape/quality and optionally
// type/color. Price is subunits per carat.
type StonePricing struct {
	ID             snowflake.ID  `json:"id" gorm:"primaryKey"`
	StoneTypeID    *snowflake.ID `json:"stone_type_id,omitempty" gorm:"index"`
	StoneShapeID   snowflake.ID  `json:"stone_shape_id" gorm:"not null;index"`
	StoneQualityID snowflake.ID  `json:"stone_quality_id" gorm:"not null;index"`
	StoneColorID   *snowflake.ID `json:"stone_color_id,omitempty" gorm:"index"`
	CtFrom         float64       `json:"ct_from" gorm:"not null"`
	CtTo           float64       `json:"ct_to" gorm:"not null"`
	Price          int64         `json:"price" gorm:"not null"`
	CreatedAt      time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StonePricing) TableName() string { return "stone_pricings" }

// MrpMarkupConfig is the singleton percentage set applied to component selling
// prices to derive compare-at prices.
type MrpMarkupConfig struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	DiamondPct      float64      `json:"diamond_pct" gorm:"not null;default:0"`
	GemstonePct     float64      `json:"gemstone_pct" gorm:"not null;default:0"`
	PearlPct        float64      `json:"pearl_pct" gorm:"not null;default:0"`
	MakingChargePct float64      `json:"making_charge_pct" gorm:"not null;default:0"`
	UpdatedAt       time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (MrpMarkupConfig) TableName() string { return "mrp_markup_configs" }

// TaxConfig is the singleton tax policy. When TaxIncluded is false the final
// price equals the pre-tax total and the tax amount is zero.
type TaxConfig struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	TaxIncluded bool         `json:"tax_included" gorm:"not null;default:false"`
	RatePct     float64      `json:"rate_pct" gorm:"not null;default:0"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (TaxConfig) TableName() string { return "tax_configs" }
