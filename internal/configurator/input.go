package configurator

import (
	"strings"

	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// Input is a full configuration as submitted by the storefront. Empty fields
// keep the category defaults.
type Input struct {
	Category          string
	Flow              string
	ConfigurationType string
	Mode              string
	Pattern           string
	Initials          string
	Font              string
	NameText          string
	Colour            string
	Notes             string
	Logo              *LogoAsset
}

// Build replays in against a fresh session in the same order the storefront
// emits events: category first, then sub-tab, mode and field values.
func Build(cat *catalog.Catalog, in Input) (*Session, error) {
	flow, err := enums.ParseConfiguratorFlow(in.Flow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	categoryID, err := enums.ParseCategoryID(in.Category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	s := NewSession(cat, flow)
	if err := s.SelectCategory(categoryID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.ConfigurationType) != "" {
		ct, err := enums.ParseConfigurationType(in.ConfigurationType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		if err := s.SetConfigurationType(ct); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.Mode) != "" {
		mode, err := enums.ParsePersonalisationMode(in.Mode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		if err := s.SetPersonalisationMode(mode); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.Pattern) != "" {
		pattern, err := enums.ParsePattern(in.Pattern)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		if err := s.SetPattern(pattern); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.Font) != "" {
		font, err := enums.ParseFont(in.Font)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		if err := s.SetFont(font); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.Colour) != "" {
		colour, err := enums.ParseColour(in.Colour)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
		}
		if err := s.SetColourVariant(colour); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.Initials) != "" {
		if err := s.SetInitials(in.Initials); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(in.NameText) != "" {
		if err := s.SetName(in.NameText); err != nil {
			return nil, err
		}
	}
	if in.Logo != nil {
		if err := s.SetLogo(*in.Logo); err != nil {
			return nil, err
		}
	}
	s.SetNotes(in.Notes)
	return s, nil
}
