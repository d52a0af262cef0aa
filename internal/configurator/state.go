package configurator

import (
	"strings"
	"unicode/utf8"

	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// LogoAsset references an uploaded personalisation logo.
type LogoAsset struct {
	Ref         string
	FileName    string
	ContentType string
}

// State is a snapshot of the shopper's selections for the active category.
type State struct {
	CategoryID        enums.CategoryID
	Flow              enums.ConfiguratorFlow
	ConfigurationType enums.ConfigurationType
	Mode              enums.PersonalisationMode
	Pattern           enums.Pattern
	Initials          string
	Font              enums.Font
	NameText          string
	Colour            enums.Colour
	Logo              *LogoAsset
	Notes             string
}

// Session applies shopper input events to a State, enforcing the active
// category's option schema. A Session is not safe for concurrent use.
type Session struct {
	catalog  *catalog.Catalog
	category catalog.Category
	selected bool
	state    State
}

// NewSession starts an empty configuration for the given page flow.
func NewSession(cat *catalog.Catalog, flow enums.ConfiguratorFlow) *Session {
	if !flow.IsValid() {
		flow = enums.FlowEngraving
	}
	return &Session{catalog: cat, state: State{Flow: flow}}
}

// State returns a copy of the current selections.
func (s *Session) State() State {
	st := s.state
	if st.Logo != nil {
		logo := *st.Logo
		st.Logo = &logo
	}
	return st
}

// Category returns the active category. ok is false before SelectCategory.
func (s *Session) Category() (catalog.Category, bool) {
	return s.category, s.selected
}

// SelectCategory switches category and resets every field to its defaults.
func (s *Session) SelectCategory(id enums.CategoryID) error {
	cat, err := s.catalog.Get(id)
	if err != nil {
		return err
	}
	s.category = cat
	s.selected = true
	s.state = State{
		CategoryID:        cat.ID,
		Flow:              s.state.Flow,
		ConfigurationType: enums.ConfigurationPatterns,
		Mode:              enums.PersonalisationNone,
		Pattern:           enums.PatternNone,
		Font:              enums.DefaultFont,
	}
	if cat.AllowsColourVariant {
		s.state.Colour = enums.DefaultColour
	}
	return nil
}

// SetConfigurationType picks the club sub-tab.
func (s *Session) SetConfigurationType(t enums.ConfigurationType) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !t.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid configuration type %q", t)
	}
	if t.IsCustomDesign() && s.category.IsAccessory() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s do not offer custom designs", s.category.DisplayName)
	}
	s.state.ConfigurationType = t
	return nil
}

// SetPersonalisationMode rejects modes the category does not offer and
// leaves the state untouched in that case.
func (s *Session) SetPersonalisationMode(mode enums.PersonalisationMode) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !mode.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid personalisation mode %q", mode)
	}
	if !s.category.AllowsMode(mode) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s do not support %s personalisation", s.category.DisplayName, mode)
	}
	s.state.Mode = mode
	return nil
}

func (s *Session) SetPattern(p enums.Pattern) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !p.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid pattern %q", p)
	}
	if !s.category.AllowsPattern && p.IsActive() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s do not support patterns", s.category.DisplayName)
	}
	s.state.Pattern = p
	return nil
}

// SetInitials upper-cases the input and clamps it to the category's limit.
// Over-long input is truncated, never rejected.
func (s *Session) SetInitials(text string) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !s.category.AllowsInitials {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s do not support initials", s.category.DisplayName)
	}
	s.state.Initials = clamp(strings.ToUpper(strings.TrimSpace(text)), s.category.InitialsMaxLength)
	return nil
}

func (s *Session) SetFont(f enums.Font) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !f.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid font %q", f)
	}
	s.state.Font = f
	return nil
}

func (s *Session) SetName(text string) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !s.category.AllowsName {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s do not support name engraving", s.category.DisplayName)
	}
	s.state.NameText = clamp(strings.TrimSpace(text), s.category.NameMaxLength)
	return nil
}

func (s *Session) SetColourVariant(c enums.Colour) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !s.category.AllowsColourVariant {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s have no colour options", s.category.DisplayName)
	}
	if !c.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid colour %q", c)
	}
	s.state.Colour = c
	return nil
}

// SetLogo records the uploaded file. Preview rendering happens client side.
func (s *Session) SetLogo(asset LogoAsset) error {
	if err := s.requireCategory(); err != nil {
		return err
	}
	if !s.category.AllowsLogoUpload {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s do not support logo uploads", s.category.DisplayName)
	}
	if strings.TrimSpace(asset.FileName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "logo file name is required")
	}
	s.state.Logo = &asset
	return nil
}

func (s *Session) ClearLogo() {
	s.state.Logo = nil
}

func (s *Session) SetNotes(notes string) {
	s.state.Notes = clamp(strings.TrimSpace(notes), maxNotesLength)
}

const maxNotesLength = 500

func (s *Session) requireCategory() error {
	if !s.selected {
		return pkgerrors.New(pkgerrors.CodeValidation, "select a category first")
	}
	return nil
}

func clamp(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	return string([]rune(value)[:max])
}
