package dto

import (
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/money"
)

type Category struct {
	ID                  string `json:"id"`
	DisplayName         string `json:"display_name"`
	Description         string `json:"description,omitempty"`
	Family              string `json:"family"`
	BasePrice           string `json:"base_price"`
	ProductPagePrice    string `json:"product_page_price"`
	AllowsPattern       bool   `json:"allows_pattern"`
	AllowsInitials      bool   `json:"allows_initials"`
	AllowsLogoUpload    bool   `json:"allows_logo_upload"`
	AllowsName          bool   `json:"allows_name"`
	AllowsColourVariant bool   `json:"allows_colour_variant"`
	HasSubTabs          bool   `json:"has_sub_tabs"`
	IsCustomQuoteOnly   bool   `json:"is_custom_quote_only"`
	InitialsMaxLength   int    `json:"initials_max_length"`
	NameMaxLength       int    `json:"name_max_length"`
	DisclaimerText      string `json:"disclaimer_text,omitempty"`
	ImageRef            string `json:"image_ref,omitempty"`
}

type Option struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ImageRef string `json:"image_ref,omitempty"`
}

// Catalog is the full option schema the storefront renders from.
type Catalog struct {
	Categories []Category `json:"categories"`
	Patterns   []Option   `json:"patterns"`
	Fonts      []Option   `json:"fonts"`
	Colours    []Option   `json:"colours"`
}

func NewCategory(c catalog.Category) Category {
	return Category{
		ID:                  string(c.ID),
		DisplayName:         c.DisplayName,
		Description:         c.Description,
		Family:              string(c.Family),
		BasePrice:           money.Fixed2(c.BasePrice),
		ProductPagePrice:    money.Fixed2(c.ProductPagePrice),
		AllowsPattern:       c.AllowsPattern,
		AllowsInitials:      c.AllowsInitials,
		AllowsLogoUpload:    c.AllowsLogoUpload,
		AllowsName:          c.AllowsName,
		AllowsColourVariant: c.AllowsColourVariant,
		HasSubTabs:          c.HasSubTabs,
		IsCustomQuoteOnly:   c.IsCustomQuoteOnly,
		InitialsMaxLength:   c.InitialsMaxLength,
		NameMaxLength:       c.NameMaxLength,
		DisclaimerText:      c.DisclaimerText,
		ImageRef:            c.ImageRef,
	}
}

func NewCatalog(cat *catalog.Catalog) Catalog {
	out := Catalog{
		Categories: []Category{},
		Patterns:   []Option{},
		Fonts:      []Option{},
		Colours:    []Option{},
	}
	for _, c := range cat.Categories() {
		out.Categories = append(out.Categories, NewCategory(c))
	}
	for _, p := range cat.Patterns() {
		out.Patterns = append(out.Patterns, Option{ID: string(p.ID), Label: p.Label})
	}
	for _, f := range cat.Fonts() {
		out.Fonts = append(out.Fonts, Option{ID: string(f.ID), Label: f.Label})
	}
	for _, c := range cat.Colours() {
		out.Colours = append(out.Colours, Option{ID: string(c.ID), Label: c.Label, ImageRef: c.ImageRef})
	}
	return out
}
