package catalog

import (
	"fmt"

	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	"github.com/wmbgolfco/engraving-backend/pkg/money"
)

const (
	accessoryInitialsMax = 2
	clubInitialsMax      = 5
	nameMax              = 20

	ironsDisclaimer = "Please note: Irons cannot be cavity back. If you are unsure, please send a quote form instead."
)

// DefaultData is the shop's product range.
func DefaultData() Data {
	return Data{
		Categories: []Category{
			{
				ID:                enums.CategoryWedges,
				DisplayName:       "Wedges",
				Description:       "Precision laser engraving on wedge faces and backs.",
				BasePrice:         money.MustParse("10.00"),
				ProductPagePrice:  money.MustParse("50.00"),
				AllowsPattern:     true,
				AllowsInitials:    true,
				HasSubTabs:        true,
				InitialsMaxLength: clubInitialsMax,
				ImageRef:          "/images/wedges.jpg",
			},
			{
				ID:                enums.CategoryIrons,
				DisplayName:       "Irons",
				Description:       "Custom designs engraved on blade irons.",
				ProductPagePrice:  money.MustParse("50.00"),
				IsCustomQuoteOnly: true,
				DisclaimerText:    ironsDisclaimer,
				ImageRef:          "/images/irons.jpg",
			},
			{
				ID:                enums.CategoryPutters,
				DisplayName:       "Putters",
				Description:       "Bespoke putter engraving.",
				ProductPagePrice:  money.MustParse("60.00"),
				IsCustomQuoteOnly: true,
				ImageRef:          "/images/putters.jpg",
			},
			{
				ID:                  enums.CategoryBallMarkers,
				DisplayName:         "Ball Markers",
				Description:         "Personalised ball markers in four finishes.",
				BasePrice:           money.MustParse("4.99"),
				ProductPagePrice:    money.MustParse("15.00"),
				AllowsInitials:      true,
				AllowsLogoUpload:    true,
				AllowsName:          true,
				AllowsColourVariant: true,
				InitialsMaxLength:   accessoryInitialsMax,
				NameMaxLength:       nameMax,
				ImageRef:            "/ball-marker-silver.jpg",
			},
			{
				ID:                enums.CategoryDivotTools,
				DisplayName:       "Divot Tools",
				Description:       "Engraved divot repair tools.",
				BasePrice:         money.MustParse("7.99"),
				ProductPagePrice:  money.MustParse("20.00"),
				AllowsInitials:    true,
				AllowsLogoUpload:  true,
				AllowsName:        true,
				InitialsMaxLength: accessoryInitialsMax,
				NameMaxLength:     nameMax,
				ImageRef:          "/images/divot-tools.jpg",
			},
			{
				ID:                enums.CategoryBagTags,
				DisplayName:       "Bag Tags",
				Description:       "Engraved bag tags.",
				BasePrice:         money.MustParse("7.99"),
				ProductPagePrice:  money.MustParse("25.00"),
				AllowsInitials:    true,
				AllowsLogoUpload:  true,
				AllowsName:        true,
				InitialsMaxLength: accessoryInitialsMax,
				NameMaxLength:     nameMax,
				ImageRef:          "/images/bag-tags.jpg",
			},
		},
		Patterns: []PatternOption{
			{ID: enums.PatternNone, Label: "No Pattern"},
			{ID: enums.PatternHexagonal, Label: "Hexagonal"},
			{ID: enums.PatternZigZag, Label: "Zig Zag"},
			{ID: enums.PatternDamascus, Label: "Damascus"},
		},
		Fonts: []FontOption{
			{ID: enums.FontTimesNewRoman, Label: "Times New Roman"},
			{ID: enums.FontArial, Label: "Arial"},
			{ID: enums.FontGeorgia, Label: "Georgia"},
			{ID: enums.FontVerdana, Label: "Verdana"},
			{ID: enums.FontCourierNew, Label: "Courier New"},
		},
		Colours: []ColourOption{
			colour(enums.ColourSilver, "Silver"),
			colour(enums.ColourBrass, "Brass"),
			colour(enums.ColourCopper, "Copper"),
			colour(enums.ColourBlack, "Black"),
		},
	}
}

// Default builds the catalog from DefaultData with storefront identities
// filled in.
func Default() *Catalog {
	data := DefaultData()
	for i := range data.Categories {
		cat := &data.Categories[i]
		cat.Family = cat.ID.Family()
		cat.ExternalHandle = "laser-engraved-" + string(cat.ID)
		cat.ExternalTitle = "Laser Engraved " + cat.DisplayName
	}
	c, err := New(data)
	if err != nil {
		panic(fmt.Sprintf("default catalog is invalid: %v", err))
	}
	return c
}

func colour(id enums.Colour, label string) ColourOption {
	return ColourOption{ID: id, Label: label, ImageRef: fmt.Sprintf("/ball-marker-%s.jpg", id)}
}
