package basket

import (
	basketsvc "github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/pkg/money"
)

type lineItem struct {
	basketsvc.LineItem
	LineTotal string `json:"line_total"`
}

// Basket is the basket as shown in the sidebar.
type Basket struct {
	ID             string     `json:"id"`
	Items          []lineItem `json:"items"`
	TotalItems     int        `json:"total_items"`
	TotalPrice     string     `json:"total_price"`
	FormattedTotal string     `json:"formatted_total"`
}

type addItemResponse struct {
	Basket Basket   `json:"basket"`
	Item   lineItem `json:"item"`
}

func newBasket(b *basketsvc.Basket) Basket {
	out := Basket{
		ID:             b.ID,
		Items:          make([]lineItem, 0, len(b.Items)),
		TotalItems:     b.TotalItems(),
		TotalPrice:     money.Fixed2(b.TotalPrice()),
		FormattedTotal: money.FormatGBP(b.TotalPrice()),
	}
	for _, item := range b.Items {
		out.Items = append(out.Items, newLineItem(item))
	}
	return out
}

func newLineItem(item basketsvc.LineItem) lineItem {
	return lineItem{LineItem: item, LineTotal: money.Fixed2(item.LineTotal())}
}
