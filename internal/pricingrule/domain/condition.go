package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// ConditionKind discriminates the condition union. Each kind fixes which
// fields of Condition are meaningful; decode rejects unknown kinds so a
// malformed rule fails at the data-model boundary instead of at match time.
type ConditionKind string

const (
	ConditionCategory            ConditionKind = "category"
	ConditionTags                ConditionKind = "tags"
	ConditionBadges              ConditionKind = "badges"
	ConditionMetalType           ConditionKind = "metal_type"
	ConditionMetalColor          ConditionKind = "metal_color"
	ConditionMetalPurity         ConditionKind = "metal_purity"
	ConditionDiamondClarityColor ConditionKind = "diamond_clarity_color"
	ConditionDiamondCarat        ConditionKind = "diamond_carat"
	ConditionGemstoneCarat       ConditionKind = "gemstone_carat"
	ConditionPearlGram           ConditionKind = "pearl_gram"
	ConditionMetalWeight         ConditionKind = "metal_weight"
)

// MatchType selects set semantics for product-attribute conditions.
type MatchType string

const (
	MatchAny MatchType = "any"
	MatchAll MatchType = "all"
)

var (
	ErrUnknownConditionKind = errors.New("unknown_condition_kind")
	ErrInvalidCondition     = errors.New("invalid_condition")
)

// Condition is one clause of a rule's condition set.
//
// Kinds category/tags/badges use IDs + MatchType against product attributes.
// Kinds metal_type/metal_color/metal_purity/diamond_clarity_color use IDs as a
// membership set against the variant's selected option. Kinds diamond_carat/
// gemstone_carat/pearl_gram/metal_weight use the inclusive [From, To] range.
type Condition struct {
	Kind      ConditionKind  `json:"kind"`
	IDs       []snowflake.ID `json:"ids,omitempty"`
	MatchType MatchType      `json:"match_type,omitempty"`
	From      float64        `json:"from,omitempty"`
	To        float64        `json:"to,omitempty"`
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	type alias Condition
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded := Condition(raw)
	if err := decoded.Validate(); err != nil {
		return err
	}
	*c = decoded
	return nil
}

// Validate enforces the per-kind field shape.
func (c Condition) Validate() error {
	switch c.Kind {
	case ConditionCategory, ConditionTags, ConditionBadges:
		if len(c.IDs) == 0 {
			return fmt.Errorf("%w: %s requires ids", ErrInvalidCondition, c.Kind)
		}
		switch c.MatchType {
		case MatchAny, MatchAll:
		case "":
			// MatchAny is assumed when omitted.
		default:
			return fmt.Errorf("%w: %s match_type %q", ErrInvalidCondition, c.Kind, c.MatchType)
		}
	case ConditionMetalType, ConditionMetalColor, ConditionMetalPurity, ConditionDiamondClarityColor:
		if len(c.IDs) == 0 {
			return fmt.Errorf("%w: %s requires ids", ErrInvalidCondition, c.Kind)
		}
	case ConditionDiamondCarat, ConditionGemstoneCarat, ConditionPearlGram, ConditionMetalWeight:
		if c.To < c.From {
			return fmt.Errorf("%w: %s range [%v, %v]", ErrInvalidCondition, c.Kind, c.From, c.To)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConditionKind, c.Kind)
	}
	return nil
}

func (c Condition) matchType() MatchType {
	if c.MatchType == "" {
		return MatchAny
	}
	return c.MatchType
}
