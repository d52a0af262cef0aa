package enums

import (
	"fmt"
	"strings"
)

// CategoryID identifies a purchasable product family.
type CategoryID string

const (
	CategoryWedges      CategoryID = "wedges"
	CategoryIrons       CategoryID = "irons"
	CategoryPutters     CategoryID = "putters"
	CategoryBallMarkers CategoryID = "ball-markers"
	CategoryDivotTools  CategoryID = "divot-tools"
	CategoryBagTags     CategoryID = "bag-tags"
)

var validCategoryIDs = []CategoryID{
	CategoryWedges,
	CategoryIrons,
	CategoryPutters,
	CategoryBallMarkers,
	CategoryDivotTools,
	CategoryBagTags,
}

// CategoryIDs lists every category in display order.
func CategoryIDs() []CategoryID {
	out := make([]CategoryID, len(validCategoryIDs))
	copy(out, validCategoryIDs)
	return out
}

// String implements fmt.Stringer.
func (c CategoryID) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CategoryID.
func (c CategoryID) IsValid() bool {
	for _, candidate := range validCategoryIDs {
		if candidate == c {
			return true
		}
	}
	return false
}

// Family groups clubs and accessories; postage is charged per family.
func (c CategoryID) Family() CategoryFamily {
	switch c {
	case CategoryWedges, CategoryIrons, CategoryPutters:
		return CategoryFamilyClub
	case CategoryBallMarkers, CategoryDivotTools, CategoryBagTags:
		return CategoryFamilyAccessory
	}
	return ""
}

// ParseCategoryID converts raw input into a CategoryID.
func ParseCategoryID(value string) (CategoryID, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validCategoryIDs {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid category %q", value)
}

// CategoryFamily is the postage grouping of a category.
type CategoryFamily string

const (
	CategoryFamilyClub      CategoryFamily = "club"
	CategoryFamilyAccessory CategoryFamily = "accessory"
)

// String implements fmt.Stringer.
func (f CategoryFamily) String() string {
	return string(f)
}

// IsValid reports whether the family is known.
func (f CategoryFamily) IsValid() bool {
	return f == CategoryFamilyClub || f == CategoryFamilyAccessory
}
