package enums

import (
	"fmt"
	"strings"
)

// Colour is a ball marker finish.
type Colour string

const (
	ColourSilver Colour = "silver"
	ColourBrass  Colour = "brass"
	ColourCopper Colour = "copper"
	ColourBlack  Colour = "black"

	DefaultColour = ColourSilver
)

var validColours = []Colour{
	ColourSilver,
	ColourBrass,
	ColourCopper,
	ColourBlack,
}

// Colours lists every colour in display order.
func Colours() []Colour {
	out := make([]Colour, len(validColours))
	copy(out, validColours)
	return out
}

// String implements fmt.Stringer.
func (c Colour) String() string {
	return string(c)
}

// IsValid reports whether the colour is known.
func (c Colour) IsValid() bool {
	for _, candidate := range validColours {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseColour converts raw input into a Colour.
func ParseColour(value string) (Colour, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validColours {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid colour %q", value)
}
