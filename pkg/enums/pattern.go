package enums

import (
	"fmt"
	"strings"
)

// Pattern is an engraving pattern for wedge faces.
type Pattern string

const (
	PatternNone      Pattern = "none"
	PatternHexagonal Pattern = "hexagonal"
	PatternZigZag    Pattern = "zigzag"
	PatternDamascus  Pattern = "damascus"
)

var validPatterns = []Pattern{
	PatternNone,
	PatternHexagonal,
	PatternZigZag,
	PatternDamascus,
}

// Patterns lists every pattern in display order.
func Patterns() []Pattern {
	out := make([]Pattern, len(validPatterns))
	copy(out, validPatterns)
	return out
}

// String implements fmt.Stringer.
func (p Pattern) String() string {
	return string(p)
}

// IsValid reports whether the pattern is known.
func (p Pattern) IsValid() bool {
	for _, candidate := range validPatterns {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsActive is true for any real pattern. The empty value counts as none.
func (p Pattern) IsActive() bool {
	return p != "" && p != PatternNone
}

// ParsePattern converts raw input into a Pattern. Empty input maps to none.
func ParsePattern(value string) (Pattern, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PatternNone, nil
	}
	for _, candidate := range validPatterns {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pattern %q", value)
}
