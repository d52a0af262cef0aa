package enums

import (
	"fmt"
	"strings"
)

// Font is the typeface used for initials and name text.
type Font string

const (
	FontTimesNewRoman Font = "times-new-roman"
	FontArial         Font = "arial"
	FontGeorgia       Font = "georgia"
	FontVerdana       Font = "verdana"
	FontCourierNew    Font = "courier-new"

	DefaultFont = FontTimesNewRoman
)

var validFonts = []Font{
	FontTimesNewRoman,
	FontArial,
	FontGeorgia,
	FontVerdana,
	FontCourierNew,
}

// Fonts lists every font in display order.
func Fonts() []Font {
	out := make([]Font, len(validFonts))
	copy(out, validFonts)
	return out
}

// String implements fmt.Stringer.
func (f Font) String() string {
	return string(f)
}

// IsValid reports whether the font is known.
func (f Font) IsValid() bool {
	for _, candidate := range validFonts {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFont converts raw input into a Font. Empty input maps to the default.
func ParseFont(value string) (Font, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return DefaultFont, nil
	}
	for _, candidate := range validFonts {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid font %q", value)
}
