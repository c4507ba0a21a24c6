package domain

import "context"

// Repository lists the active rule set used by a pricing pass.
type Repository interface {
	ListActive(ctx context.Context) ([]PricingRule, error)
}
