// Package domain contains pricing rules: typed condition sets and the
// additive markup actions they carry.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Actions are the markup percentages a matching rule contributes. Markups from
// multiple matching rules add together; they never compound.
type Actions struct {
	DiamondMarkupPct      float64 `json:"diamond_markup_pct"`
	MakingChargeMarkupPct float64 `json:"making_charge_markup_pct"`
	GemstoneMarkupPct     float64 `json:"gemstone_markup_pct"`
	PearlMarkupPct        float64 `json:"pearl_markup_pct"`
}

// PricingRule is an authored markup rule. Conditions AND together; a rule with
// an empty condition list never matches (see Matches).
type PricingRule struct {
	ID          snowflake.ID                    `json:"id" gorm:"primaryKey"`
	Name        string                          `json:"name" gorm:"type:text;not null"`
	ProductType string                          `json:"product_type" gorm:"type:text;not null;index"`
	Conditions  datatypes.JSONType[[]Condition] `json:"conditions" gorm:"type:jsonb"`
	Actions     datatypes.JSONType[Actions]     `json:"actions" gorm:"type:jsonb"`
	IsActive    bool                            `json:"is_active" gorm:"not null;index"`
	CreatedAt   time.Time                       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time                       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PricingRule) TableName() string { return "pricing_rules" }

// AppliesTo reports whether the rule targets the given product type. An empty
// rule product type targets every product.
func (r PricingRule) AppliesTo(productType string) bool {
	return r.ProductType == "" || r.ProductType == productType
}
