package basket

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// NewItem is a priced configuration ready to be appended.
type NewItem struct {
	CategoryID  enums.CategoryID
	DisplayName string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageRef    string
	Attributes  Attributes
}

// ServiceParams groups dependencies for the basket service.
type ServiceParams struct {
	Store    Store
	IDs      IDGenerator
	Clock    func() time.Time
	MaxItems int
}

// Service exposes basket operations keyed by an opaque basket id.
type Service interface {
	NewBasketID() string
	Get(ctx context.Context, basketID string) (*Basket, error)
	AddItem(ctx context.Context, basketID string, item NewItem) (*Basket, LineItem, error)
	UpdateQuantity(ctx context.Context, basketID, itemID string, qty int) (*Basket, error)
	RemoveItem(ctx context.Context, basketID, itemID string) (*Basket, error)
	Clear(ctx context.Context, basketID string) error
}

type service struct {
	store    Store
	ids      IDGenerator
	clock    func() time.Time
	maxItems int
}

// NewService builds a basket service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "basket store is required")
	}
	if params.IDs == nil {
		params.IDs = UUIDGenerator{}
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &service{
		store:    params.Store,
		ids:      params.IDs,
		clock:    params.Clock,
		maxItems: params.MaxItems,
	}, nil
}

func (s *service) NewBasketID() string {
	return s.ids.NewID()
}

// Get returns the stored basket, or an empty one when nothing is stored yet.
func (s *service) Get(ctx context.Context, basketID string) (*Basket, error) {
	if strings.TrimSpace(basketID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "basket id is required")
	}
	b, err := s.store.Load(ctx, basketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load basket")
	}
	if b == nil {
		b = New(basketID)
	}
	return b, nil
}

// AddItem appends a new entry with a fresh id. Identical configurations are
// never merged.
func (s *service) AddItem(ctx context.Context, basketID string, item NewItem) (*Basket, LineItem, error) {
	if !item.CategoryID.IsValid() {
		return nil, LineItem{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown category %q", item.CategoryID)
	}
	if item.UnitPrice.IsNegative() {
		return nil, LineItem{}, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	b, err := s.Get(ctx, basketID)
	if err != nil {
		return nil, LineItem{}, err
	}
	if s.maxItems > 0 && len(b.Items) >= s.maxItems {
		return nil, LineItem{}, pkgerrors.Newf(pkgerrors.CodeConflict, "basket is full (max %d items)", s.maxItems)
	}

	line := LineItem{
		ID:          s.ids.NewID(),
		CategoryID:  item.CategoryID,
		DisplayName: item.DisplayName,
		UnitPrice:   item.UnitPrice.Round(2),
		Quantity:    item.Quantity,
		ImageRef:    item.ImageRef,
		Attributes:  item.Attributes,
		AddedAt:     s.clock().UTC(),
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	b.Add(line)
	if err := s.save(ctx, b); err != nil {
		return nil, LineItem{}, err
	}
	return b, line, nil
}

func (s *service) UpdateQuantity(ctx context.Context, basketID, itemID string, qty int) (*Basket, error) {
	b, err := s.Get(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if err := b.UpdateQuantity(itemID, qty); err != nil {
		return nil, err
	}
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) RemoveItem(ctx context.Context, basketID, itemID string) (*Basket, error) {
	b, err := s.Get(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if err := b.Remove(itemID); err != nil {
		return nil, err
	}
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Clear(ctx context.Context, basketID string) error {
	if strings.TrimSpace(basketID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "basket id is required")
	}
	if err := s.store.Delete(ctx, basketID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to clear basket")
	}
	return nil
}

func (s *service) save(ctx context.Context, b *Basket) error {
	b.UpdatedAt = s.clock().UTC()
	if err := s.store.Save(ctx, b); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save basket")
	}
	return nil
}
