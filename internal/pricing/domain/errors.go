package domain

import "errors"

var (
	ErrMissingPricingLink     = errors.New("missing_stone_pricing_link")
	ErrStonePricingMismatch   = errors.New("stone_pricing_mismatch")
	ErrMissingGemstoneQuality = errors.New("missing_gemstone_quality")
)
