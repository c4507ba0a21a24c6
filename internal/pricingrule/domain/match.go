package domain

import (
	"github.com/bwmarrin/snowflake"
	pricingdomain "github.com/jewelleryos/aurum/internal/pricing/domain"
)

// Matches evaluates a rule's condition set against a variant and its product.
// All conditions must hold. An empty condition set never matches: the legacy
// authoring tool produced empty sets for half-written rules and treating them
// as match-all would silently apply their markup catalog-wide.
func Matches(
	conditions []Condition,
	variant pricingdomain.VariantContext,
	product pricingdomain.ProductInfo,
	composition pricingdomain.StoneComposition,
) bool {
	if len(conditions) == 0 {
		return false
	}
	for _, cond := range conditions {
		if !evalCondition(cond, variant, product, composition) {
			return false
		}
	}
	return true
}

func evalCondition(
	cond Condition,
	variant pricingdomain.VariantContext,
	product pricingdomain.ProductInfo,
	composition pricingdomain.StoneComposition,
) bool {
	switch cond.Kind {
	case ConditionCategory:
		return matchIDSet(cond, product.CategoryIDs)
	case ConditionTags:
		return matchIDSet(cond, product.TagIDs)
	case ConditionBadges:
		return matchIDSet(cond, product.BadgeIDs)
	case ConditionMetalType:
		return containsID(cond.IDs, variant.MetalTypeID)
	case ConditionMetalColor:
		return containsID(cond.IDs, variant.MetalColorID)
	case ConditionMetalPurity:
		return containsID(cond.IDs, variant.MetalPurityID)
	case ConditionDiamondClarityColor:
		if variant.DiamondClarityColorID == nil {
			return false
		}
		return containsID(cond.IDs, *variant.DiamondClarityColorID)
	case ConditionDiamondCarat:
		if !composition.HasDiamond {
			return false
		}
		return inRange(cond, composition.DiamondCaratTotal())
	case ConditionGemstoneCarat:
		if !composition.HasGemstone {
			return false
		}
		return inRange(cond, composition.GemstoneCaratTotal())
	case ConditionPearlGram:
		if !composition.HasPearl {
			return false
		}
		return inRange(cond, composition.PearlGramsTotal())
	case ConditionMetalWeight:
		return inRange(cond, variant.MetalWeightGrams)
	default:
		return false
	}
}

// matchIDSet applies "some"/"every" semantics between the condition's
// candidate set and the product's attached ids.
func matchIDSet(cond Condition, attached []snowflake.ID) bool {
	switch cond.matchType() {
	case MatchAll:
		for _, want := range cond.IDs {
			if !containsID(attached, want) {
				return false
			}
		}
		return true
	default:
		for _, want := range cond.IDs {
			if containsID(attached, want) {
				return true
			}
		}
		return false
	}
}

func containsID(set []snowflake.ID, id snowflake.ID) bool {
	for _, candidate := range set {
		if candidate == id {
			return true
		}
	}
	return false
}

func inRange(cond Condition, value float64) bool {
	return value >= cond.From && value <= cond.To
}
