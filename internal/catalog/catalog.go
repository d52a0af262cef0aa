package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// Category is the option schema and pricing inputs for one product family.
type Category struct {
	ID          enums.CategoryID
	DisplayName string
	Description string
	Family      enums.CategoryFamily
	// BasePrice is the engraving page price. ProductPagePrice is the starting
	// price on the per-category product page.
	BasePrice        decimal.Decimal
	ProductPagePrice decimal.Decimal

	AllowsPattern       bool
	AllowsInitials      bool
	AllowsLogoUpload    bool
	AllowsName          bool
	AllowsColourVariant bool
	HasSubTabs          bool
	IsCustomQuoteOnly   bool

	InitialsMaxLength int
	NameMaxLength     int
	DisclaimerText    string
	ImageRef          string

	// ExternalHandle and ExternalTitle identify the product in the storefront
	// catalog.
	ExternalHandle string
	ExternalTitle  string
}

// AllowsMode reports whether the personalisation mode is legal for c.
func (c Category) AllowsMode(mode enums.PersonalisationMode) bool {
	switch mode {
	case enums.PersonalisationNone:
		return true
	case enums.PersonalisationPattern:
		return c.AllowsPattern
	case enums.PersonalisationInitials:
		return c.AllowsInitials
	case enums.PersonalisationLogo:
		return c.AllowsLogoUpload
	case enums.PersonalisationName:
		return c.AllowsName
	}
	return false
}

// IsAccessory is shorthand for the accessory family check.
func (c Category) IsAccessory() bool {
	return c.Family == enums.CategoryFamilyAccessory
}

type PatternOption struct {
	ID    enums.Pattern
	Label string
}

type FontOption struct {
	ID    enums.Font
	Label string
}

type ColourOption struct {
	ID       enums.Colour
	Label    string
	ImageRef string
}

// Catalog is the immutable set of categories and option tables. Accessors
// hand out copies.
type Catalog struct {
	order    []enums.CategoryID
	byID     map[enums.CategoryID]Category
	patterns []PatternOption
	fonts    []FontOption
	colours  []ColourOption
}

// Data is the raw input for New.
type Data struct {
	Categories []Category
	Patterns   []PatternOption
	Fonts      []FontOption
	Colours    []ColourOption
}

// New validates data and freezes it into a Catalog.
func New(data Data) (*Catalog, error) {
	if len(data.Categories) == 0 {
		return nil, fmt.Errorf("catalog requires at least one category")
	}
	c := &Catalog{
		byID:     make(map[enums.CategoryID]Category, len(data.Categories)),
		patterns: append([]PatternOption(nil), data.Patterns...),
		fonts:    append([]FontOption(nil), data.Fonts...),
		colours:  append([]ColourOption(nil), data.Colours...),
	}
	for _, cat := range data.Categories {
		if !cat.ID.IsValid() {
			return nil, fmt.Errorf("invalid category id %q", cat.ID)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.ID)
		}
		if cat.Family == "" {
			cat.Family = cat.ID.Family()
		}
		if cat.BasePrice.IsNegative() || cat.ProductPagePrice.IsNegative() {
			return nil, fmt.Errorf("category %q has a negative price", cat.ID)
		}
		if cat.AllowsInitials && cat.InitialsMaxLength <= 0 {
			return nil, fmt.Errorf("category %q allows initials without a max length", cat.ID)
		}
		if cat.ExternalHandle == "" && cat.ExternalTitle == "" {
			return nil, fmt.Errorf("category %q has no external identity", cat.ID)
		}
		c.order = append(c.order, cat.ID)
		c.byID[cat.ID] = cat
	}
	for _, p := range c.patterns {
		if !p.ID.IsValid() {
			return nil, fmt.Errorf("invalid pattern %q", p.ID)
		}
	}
	for _, f := range c.fonts {
		if !f.ID.IsValid() {
			return nil, fmt.Errorf("invalid font %q", f.ID)
		}
	}
	for _, col := range c.colours {
		if !col.ID.IsValid() {
			return nil, fmt.Errorf("invalid colour %q", col.ID)
		}
	}
	return c, nil
}

// Get returns the category or a NOT_FOUND error.
func (c *Catalog) Get(id enums.CategoryID) (Category, error) {
	cat, ok := c.byID[id]
	if !ok {
		return Category{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "category %q not found", id)
	}
	return cat, nil
}

// Categories returns every category in display order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Patterns() []PatternOption {
	return append([]PatternOption(nil), c.patterns...)
}

func (c *Catalog) Fonts() []FontOption {
	return append([]FontOption(nil), c.fonts...)
}

func (c *Catalog) Colours() []ColourOption {
	return append([]ColourOption(nil), c.colours...)
}

// PatternLabel falls back to the raw id for unknown patterns.
func (c *Catalog) PatternLabel(p enums.Pattern) string {
	for _, opt := range c.patterns {
		if opt.ID == p {
			return opt.Label
		}
	}
	return string(p)
}

func (c *Catalog) FontLabel(f enums.Font) string {
	for _, opt := range c.fonts {
		if opt.ID == f {
			return opt.Label
		}
	}
	return string(f)
}

func (c *Catalog) Colour(id enums.Colour) (ColourOption, bool) {
	for _, opt := range c.colours {
		if opt.ID == id {
			return opt, true
		}
	}
	return ColourOption{}, false
}
