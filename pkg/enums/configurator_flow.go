package enums

import (
	"fmt"
	"strings"
)

// ConfiguratorFlow tells which storefront page produced a configuration.
// The dedicated engraving page and the per-category product pages price
// clubs differently.
type ConfiguratorFlow string

const (
	FlowEngraving   ConfiguratorFlow = "engraving"
	FlowProductPage ConfiguratorFlow = "product-page"
)

// String implements fmt.Stringer.
func (f ConfiguratorFlow) String() string {
	return string(f)
}

// IsValid reports whether the flow is known.
func (f ConfiguratorFlow) IsValid() bool {
	return f == FlowEngraving || f == FlowProductPage
}

// ParseConfiguratorFlow converts raw input into a ConfiguratorFlow. Empty
// input maps to the engraving flow.
func ParseConfiguratorFlow(value string) (ConfiguratorFlow, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FlowEngraving):
		return FlowEngraving, nil
	case string(FlowProductPage):
		return FlowProductPage, nil
	}
	return "", fmt.Errorf("invalid configurator flow %q", value)
}
