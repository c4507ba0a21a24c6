package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSKUAppendsConfiguredComponentsInOrder(t *testing.T) {
	components := []SKUComponent{
		{Key: "metal_type", Separator: "-"},
		{Key: "purity", Separator: "-"},
		{Key: "diamond", Separator: "_"},
	}
	values := map[string]string{
		"metal_type": "G",
		"purity":     "18K",
		"diamond":    "VVS",
	}
	assert.Equal(t, "RING01-G-18K_VVS", BuildSKU("RING01", components, values))
}

func TestBuildSKUSkipsAbsentComponents(t *testing.T) {
	components := []SKUComponent{
		{Key: "metal_type", Separator: "-"},
		{Key: "diamond", Separator: "_"},
		{Key: "gemstone", Separator: "_"},
	}
	values := map[string]string{
		"metal_type": "G",
		"gemstone":   "RBY",
	}
	// No separator is emitted for the missing diamond component.
	assert.Equal(t, "RING01-G_RBY", BuildSKU("RING01", components, values))
}

func TestBuildSKUWithNoComponents(t *testing.T) {
	assert.Equal(t, "RING01", BuildSKU("RING01", nil, nil))
}
