package basket

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

func line(id string, cat enums.CategoryID, price string, qty int) LineItem {
	return LineItem{ID: id, CategoryID: cat, UnitPrice: decimal.RequireFromString(price), Quantity: qty}
}

func TestBasketTotals(t *testing.T) {
	b := New("b1")
	b.Add(line("1", enums.CategoryBallMarkers, "4.99", 1))
	b.Add(line("2", enums.CategoryWedges, "30.00", 1))

	assert.Equal(t, 2, b.TotalItems())
	assert.Equal(t, "34.99", b.TotalPrice().StringFixed(2))

	require.NoError(t, b.UpdateQuantity("1", 3))
	assert.Equal(t, 4, b.TotalItems())
	assert.Equal(t, "44.97", b.TotalPrice().StringFixed(2))
}

func TestAddThenRemoveRestoresTotal(t *testing.T) {
	b := New("b1")
	b.Add(line("1", enums.CategoryBagTags, "7.99", 2))
	before := b.TotalPrice()

	b.Add(line("2", enums.CategoryDivotTools, "7.99", 1))
	require.NoError(t, b.Remove("2"))

	assert.True(t, before.Equal(b.TotalPrice()))
	assert.Equal(t, 2, b.TotalItems())
}

func TestIdenticalConfigurationsAreNotMerged(t *testing.T) {
	b := New("b1")
	item := line("", enums.CategoryBallMarkers, "4.99", 1)
	item.Attributes = Attributes{Initials: "AB", Font: enums.FontArial}

	first, second := item, item
	first.ID, second.ID = "a", "b"
	b.Add(first)
	b.Add(second)

	assert.Len(t, b.Items, 2)
	assert.Equal(t, 2, b.TotalItems())
}

func TestUpdateQuantityClampsAtOne(t *testing.T) {
	b := New("b1")
	b.Add(line("1", enums.CategoryBagTags, "7.99", 2))

	require.NoError(t, b.UpdateQuantity("1", 0))
	assert.Equal(t, 1, b.Items[0].Quantity)

	require.NoError(t, b.UpdateQuantity("1", -4))
	assert.Equal(t, 1, b.Items[0].Quantity)
}

func TestMissingItemIsNotFound(t *testing.T) {
	b := New("b1")
	err := b.UpdateQuantity("nope", 2)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	err = b.Remove("nope")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddRaisesQuantityToOne(t *testing.T) {
	b := New("b1")
	b.Add(line("1", enums.CategoryBagTags, "7.99", 0))
	assert.Equal(t, 1, b.Items[0].Quantity)
}

func TestClearAndSnapshot(t *testing.T) {
	b := New("b1")
	b.Add(line("1", enums.CategoryBagTags, "7.99", 1))

	snap := b.Snapshot()
	b.Clear()

	assert.True(t, b.IsEmpty())
	assert.True(t, b.TotalPrice().IsZero())
	assert.Len(t, snap.Items, 1)
}

func TestSequenceGenerator(t *testing.T) {
	g := &SequenceGenerator{Prefix: "line"}
	assert.Equal(t, "line-1", g.NewID())
	assert.Equal(t, "line-2", g.NewID())

	var blank SequenceGenerator
	assert.Equal(t, "id-1", blank.NewID())
}
