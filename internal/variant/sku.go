// Package variant builds deterministic SKUs and expands/validates the
// combinatorial variant set of a product.
package variant

import "strings"

// SKUComponent names one configured SKU segment and the separator that
// precedes it.
type SKUComponent struct {
	Key       string `json:"key"`
	Separator string `json:"separator"`
}

// BuildSKU appends separator+value for each configured component in order,
// skipping components with no value. Optional components (diamond, gemstone)
// are simply absent from values for variants that lack them.
func BuildSKU(baseSKU string, components []SKUComponent, values map[string]string) string {
	var b strings.Builder
	b.WriteString(baseSKU)
	for _, component := range components {
		value, ok := values[component.Key]
		if !ok || value == "" {
			continue
		}
		b.WriteString(component.Separator)
		b.WriteString(value)
	}
	return b.String()
}
