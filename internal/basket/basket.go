package basket

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// Attributes holds the category-specific selections captured at add time.
// Empty fields were not part of the configuration.
type Attributes struct {
	Flow              enums.ConfiguratorFlow    `json:"flow,omitempty"`
	ConfigurationType enums.ConfigurationType   `json:"configuration_type,omitempty"`
	Mode              enums.PersonalisationMode `json:"mode,omitempty"`
	Pattern           enums.Pattern             `json:"pattern,omitempty"`
	Initials          string                    `json:"initials,omitempty"`
	Font              enums.Font                `json:"font,omitempty"`
	NameText          string                    `json:"name_text,omitempty"`
	Colour            enums.Colour              `json:"colour,omitempty"`
	LogoFileName      string                    `json:"logo_file_name,omitempty"`
	LogoRef           string                    `json:"logo_ref,omitempty"`
	Notes             string                    `json:"notes,omitempty"`
}

// LineItem is one basket entry. Identical configurations added twice are two
// entries with distinct ids.
type LineItem struct {
	ID          string           `json:"id"`
	CategoryID  enums.CategoryID `json:"category_id"`
	DisplayName string           `json:"display_name"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	Quantity    int              `json:"quantity"`
	ImageRef    string           `json:"image_ref,omitempty"`
	Attributes  Attributes       `json:"attributes"`
	AddedAt     time.Time        `json:"added_at"`
}

// LineTotal is UnitPrice × Quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Basket is the ordered collection of line items for one shopper.
type Basket struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// New returns an empty basket.
func New(id string) *Basket {
	return &Basket{ID: id, Items: []LineItem{}}
}

// Add appends item. Quantities below 1 are raised to 1.
func (b *Basket) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	b.Items = append(b.Items, item)
}

// UpdateQuantity sets the quantity of the item, clamped at a minimum of 1.
// Removal goes through Remove.
func (b *Basket) UpdateQuantity(itemID string, qty int) error {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "basket item %s not found", itemID)
	}
	if qty < 1 {
		qty = 1
	}
	b.Items[idx].Quantity = qty
	return nil
}

func (b *Basket) Remove(itemID string) error {
	idx := b.indexOf(itemID)
	if idx < 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "basket item %s not found", itemID)
	}
	b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
	return nil
}

func (b *Basket) Clear() {
	b.Items = []LineItem{}
}

func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

// TotalItems sums quantities across entries.
func (b *Basket) TotalItems() int {
	total := 0
	for _, item := range b.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums unit price × quantity across entries.
func (b *Basket) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (b *Basket) Snapshot() *Basket {
	if b == nil {
		return nil
	}
	out := &Basket{ID: b.ID, UpdatedAt: b.UpdatedAt, Items: make([]LineItem, len(b.Items))}
	copy(out.Items, b.Items)
	return out
}

func (b *Basket) indexOf(itemID string) int {
	for i, item := range b.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}
