package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
)

func newTestAssembler(t *testing.T, lookup CatalogLookup) *Assembler {
	t.Helper()
	r, err := NewResolver(lookup, NewVariantCache(0, nil), nil, nil)
	require.NoError(t, err)
	a, err := NewAssembler(AssemblerParams{
		Catalog:     catalog.Default(),
		Resolver:    r,
		Postage:     PostageTitles{Standard: "Standard Postage", ClubReturn: "Club Return Postage"},
		Concurrency: 4,
	})
	require.NoError(t, err)
	return a
}

func item(id string, cat enums.CategoryID, price string, qty int) basket.LineItem {
	return basket.LineItem{ID: id, CategoryID: cat, DisplayName: string(cat) + " item", UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func countPostage(lines []Line, title string) int {
	n := 0
	for _, l := range lines {
		if len(l.Attributes) == 1 && l.Attributes[0].Key == "Type" && l.Attributes[0].Value == title {
			n++
		}
	}
	return n
}

func TestAssembleMarkerAndWedgeYieldsFourLines(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	out := a.AssembleLines(context.Background(), []basket.LineItem{
		item("1", enums.CategoryBallMarkers, "4.99", 1),
		item("2", enums.CategoryWedges, "30.00", 1),
	})

	require.Empty(t, out.Failures)
	require.Len(t, out.Lines, 4)
	assert.Equal(t, "gid://shopify/ProductVariant/2", out.Lines[0].MerchandiseID)
	assert.Equal(t, "gid://shopify/ProductVariant/1", out.Lines[1].MerchandiseID)
	assert.Equal(t, "gid://shopify/ProductVariant/90", out.Lines[2].MerchandiseID)
	assert.Equal(t, "gid://shopify/ProductVariant/91", out.Lines[3].MerchandiseID)
	assert.Equal(t, 1, out.Lines[2].Quantity)
}

func TestPostageIsBasketLevel(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	out := a.AssembleLines(context.Background(), []basket.LineItem{
		item("1", enums.CategoryBallMarkers, "4.99", 3),
		item("2", enums.CategoryDivotTools, "7.99", 1),
		item("3", enums.CategoryBagTags, "7.99", 2),
		item("4", enums.CategoryWedges, "30.00", 1),
		item("5", enums.CategoryWedges, "30.00", 2),
	})

	require.Empty(t, out.Failures)
	assert.Len(t, out.Lines, 7)
	assert.Equal(t, 1, countPostage(out.Lines, "Standard Postage"))
	assert.Equal(t, 1, countPostage(out.Lines, "Club Return Postage"))
}

func TestAccessoryOnlyBasketHasNoClubReturn(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	out := a.AssembleLines(context.Background(), []basket.LineItem{item("1", enums.CategoryBagTags, "7.99", 1)})
	assert.Equal(t, 1, countPostage(out.Lines, "Standard Postage"))
	assert.Equal(t, 0, countPostage(out.Lines, "Club Return Postage"))
}

func TestUnresolvedItemIsReportedAndSkipped(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	out := a.AssembleLines(context.Background(), []basket.LineItem{
		item("1", enums.CategoryPutters, "0", 1),
		item("2", enums.CategoryBallMarkers, "4.99", 1),
	})

	require.Len(t, out.Failures, 1)
	assert.Equal(t, `Shopify product not found: "Laser Engraved Putters". Please ensure the product exists in your Shopify store.`, out.Failures[0])
	assert.Len(t, out.Lines, 2)
	assert.Equal(t, 0, countPostage(out.Lines, "Club Return Postage"), "unresolved clubs do not need return postage")
}

func TestUnknownCategoryFailure(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	out := a.AssembleLines(context.Background(), []basket.LineItem{item("1", "spoons", "1.00", 1)})
	assert.Equal(t, []string{"Unknown product type: spoons"}, out.Failures)
	assert.Empty(t, out.Lines)
}

func TestMissingPostageIsAFailureNotAnAbort(t *testing.T) {
	lookup := newFakeLookup()
	delete(lookup.titles, "club return postage")
	a := newTestAssembler(t, lookup)
	out := a.AssembleLines(context.Background(), []basket.LineItem{item("1", enums.CategoryWedges, "30.00", 1)})

	assert.Len(t, out.Lines, 1)
	assert.Equal(t, []string{`Postage product not found: "Club Return Postage". Please ensure this product exists in Shopify.`}, out.Failures)
}

func TestAttributeOrder(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	li := item("1", enums.CategoryBallMarkers, "4.99", 2)
	li.DisplayName = `Ball Marker - Brass - "AB" (Arial)`
	li.Attributes = basket.Attributes{
		ConfigurationType: enums.ConfigurationPatterns,
		Pattern:           enums.PatternZigZag,
		Initials:          "AB",
		Font:              enums.FontArial,
		Colour:            enums.ColourBrass,
		NameText:          "TIGER",
		Notes:             "gift",
		LogoFileName:      "logo.png",
	}
	out := a.AssembleLines(context.Background(), []basket.LineItem{li})
	require.NotEmpty(t, out.Lines)

	keys := make([]string, 0)
	for _, attr := range out.Lines[0].Attributes {
		keys = append(keys, attr.Key)
	}
	assert.Equal(t, []string{"Product Type", "Item Name", "_price", "Pattern", "Initials", "Font", "Colour", "Name Text", "Configuration", "Notes", "Logo File"}, keys)
	assert.Equal(t, Attribute{Key: "_price", Value: "4.99"}, out.Lines[0].Attributes[2])
	assert.Equal(t, Attribute{Key: "Pattern", Value: "Zig Zag"}, out.Lines[0].Attributes[3])
	assert.Equal(t, 2, out.Lines[0].Quantity)
}

func TestMinimalAttributes(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	li := item("1", enums.CategoryWedges, "0", 1)
	li.DisplayName = ""
	li.Attributes = basket.Attributes{Pattern: enums.PatternNone}
	out := a.AssembleLines(context.Background(), []basket.LineItem{li})

	assert.Equal(t, []Attribute{
		{Key: "Product Type", Value: "wedges"},
		{Key: "Item Name", Value: "Custom Engraving"},
	}, out.Lines[0].Attributes)
}

func TestAssemblyKeepsBasketOrderUnderConcurrency(t *testing.T) {
	a := newTestAssembler(t, newFakeLookup())
	items := make([]basket.LineItem, 0, 20)
	for i := 0; i < 20; i++ {
		cat := enums.CategoryBallMarkers
		if i%2 == 1 {
			cat = enums.CategoryDivotTools
		}
		items = append(items, item(fmt.Sprint(i), cat, "1.00", i+1))
	}
	out := a.AssembleLines(context.Background(), items)
	require.Len(t, out.Lines, 21)
	for i := 0; i < 20; i++ {
		assert.Equal(t, i+1, out.Lines[i].Quantity)
	}
}

func TestNewAssemblerValidation(t *testing.T) {
	_, err := NewAssembler(AssemblerParams{})
	assert.Error(t, err)
}
