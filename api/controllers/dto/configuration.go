package dto

import "github.com/wmbgolfco/engraving-backend/internal/configurator"

// Configuration is the shopper's selections as posted by the storefront.
type Configuration struct {
	Category          string `json:"category" validate:"required"`
	Flow              string `json:"flow,omitempty"`
	ConfigurationType string `json:"configuration_type,omitempty"`
	Mode              string `json:"mode,omitempty"`
	Pattern           string `json:"pattern,omitempty"`
	Initials          string `json:"initials,omitempty" validate:"max=32"`
	Font              string `json:"font,omitempty"`
	NameText          string `json:"name_text,omitempty" validate:"max=64"`
	Colour            string `json:"colour,omitempty"`
	Notes             string `json:"notes,omitempty" validate:"max=1000"`
}

func (c Configuration) ToInput() configurator.Input {
	return configurator.Input{
		Category:          c.Category,
		Flow:              c.Flow,
		ConfigurationType: c.ConfigurationType,
		Mode:              c.Mode,
		Pattern:           c.Pattern,
		Initials:          c.Initials,
		Font:              c.Font,
		NameText:          c.NameText,
		Colour:            c.Colour,
		Notes:             c.Notes,
	}
}
