package configurator

import (
	"fmt"
	"strings"

	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

const nameSeparator = " - "

// DisplayName composes the human readable item name shown in the basket and
// sent to the storefront as "Item Name".
func (s *Session) DisplayName() string {
	if !s.selected {
		return ""
	}
	cat := s.category
	st := s.state
	parts := []string{cat.DisplayName}

	if cat.IsAccessory() {
		if cat.AllowsColourVariant {
			if opt, ok := s.catalog.Colour(st.Colour); ok {
				parts = append(parts, opt.Label)
			}
		}
		switch st.Mode {
		case enums.PersonalisationInitials:
			if st.Initials != "" {
				parts = append(parts, fmt.Sprintf(`"%s" (%s)`, st.Initials, s.catalog.FontLabel(st.Font)))
			}
		case enums.PersonalisationLogo:
			if st.Logo != nil {
				parts = append(parts, "Custom Logo")
			}
		case enums.PersonalisationName:
			if st.NameText != "" {
				parts = append(parts, fmt.Sprintf(`"%s" (%s)`, st.NameText, s.catalog.FontLabel(st.Font)))
			}
		}
		return strings.Join(parts, nameSeparator)
	}

	if cat.IsCustomQuoteOnly || st.ConfigurationType.IsCustomDesign() {
		if st.Flow == enums.FlowProductPage {
			return strings.Join(append(parts, "Custom Illustration"), nameSeparator)
		}
		return strings.Join(append(parts, "Custom Design"), nameSeparator)
	}

	if st.Pattern.IsActive() {
		parts = append(parts, s.catalog.PatternLabel(st.Pattern)+" Pattern")
	}
	if st.Flow == enums.FlowProductPage && st.Initials != "" {
		parts = append(parts, fmt.Sprintf(`"%s"`, st.Initials))
	}
	return strings.Join(parts, nameSeparator)
}

// ImageRef picks the preview image for the basket line.
func (s *Session) ImageRef() string {
	if !s.selected {
		return ""
	}
	if s.category.AllowsColourVariant {
		if opt, ok := s.catalog.Colour(s.state.Colour); ok {
			return opt.ImageRef
		}
	}
	return s.category.ImageRef
}

// QuoteOnly reports whether the current configuration must go through the
// enquiry flow instead of the basket.
func (s *Session) QuoteOnly() bool {
	if !s.selected {
		return false
	}
	if s.category.IsCustomQuoteOnly {
		return true
	}
	return !s.category.IsAccessory() && s.state.ConfigurationType.IsCustomDesign()
}

// Validate reports why the configuration cannot be added to the basket, or
// nil when it can.
func (s *Session) Validate() error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	cat := s.category
	st := s.state

	if s.QuoteOnly() {
		return pkgerrors.Newf(pkgerrors.CodeQuoteOnly, "%s custom designs are priced by quote, please send us an enquiry", cat.DisplayName).
			WithDetails(map[string]any{"category": cat.ID, "enquiry": true})
	}

	if cat.IsAccessory() {
		switch st.Mode {
		case enums.PersonalisationInitials:
			if st.Initials == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "enter your initials")
			}
		case enums.PersonalisationName:
			if st.NameText == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "enter the name to engrave")
			}
		case enums.PersonalisationLogo:
			if st.Logo == nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "upload a logo")
			}
		}
		return nil
	}

	if st.Flow == enums.FlowEngraving && !st.Pattern.IsActive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a pattern")
	}
	return nil
}
