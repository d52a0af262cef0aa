package enums

import (
	"fmt"
	"strings"
)

// ConfigurationType is the club sub-tab: a catalogue pattern or a bespoke design.
type ConfigurationType string

const (
	ConfigurationPatterns      ConfigurationType = "patterns"
	ConfigurationCustom        ConfigurationType = "custom"
	ConfigurationIllustrations ConfigurationType = "illustrations"
)

var validConfigurationTypes = []ConfigurationType{
	ConfigurationPatterns,
	ConfigurationCustom,
	ConfigurationIllustrations,
}

// String implements fmt.Stringer.
func (c ConfigurationType) String() string {
	return string(c)
}

// IsValid reports whether the configuration type is known.
func (c ConfigurationType) IsValid() bool {
	for _, candidate := range validConfigurationTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsCustomDesign is true for bespoke work that can only be quoted.
func (c ConfigurationType) IsCustomDesign() bool {
	return c == ConfigurationCustom || c == ConfigurationIllustrations
}

// ParseConfigurationType converts raw input into a ConfigurationType. Empty
// input maps to patterns.
func ParseConfigurationType(value string) (ConfigurationType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return ConfigurationPatterns, nil
	}
	for _, candidate := range validConfigurationTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid configuration type %q", value)
}
