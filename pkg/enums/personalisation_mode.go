package enums

import (
	"fmt"
	"strings"
)

// PersonalisationMode is the customisation method chosen for an item.
type PersonalisationMode string

const (
	PersonalisationNone     PersonalisationMode = "none"
	PersonalisationPattern  PersonalisationMode = "pattern"
	PersonalisationInitials PersonalisationMode = "initials"
	PersonalisationLogo     PersonalisationMode = "logo"
	PersonalisationName     PersonalisationMode = "name"
)

var validPersonalisationModes = []PersonalisationMode{
	PersonalisationNone,
	PersonalisationPattern,
	PersonalisationInitials,
	PersonalisationLogo,
	PersonalisationName,
}

// String implements fmt.Stringer.
func (m PersonalisationMode) String() string {
	return string(m)
}

// IsValid reports whether the mode is known.
func (m PersonalisationMode) IsValid() bool {
	for _, candidate := range validPersonalisationModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePersonalisationMode converts raw input into a PersonalisationMode.
func ParsePersonalisationMode(value string) (PersonalisationMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPersonalisationModes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid personalisation mode %q", value)
}
