package checkout

import (
	"context"
	"errors"

	"github.com/wmbgolfco/engraving-backend/pkg/shopify"
)

type storefrontCartClient interface {
	CreateCart(ctx context.Context) (shopify.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []shopify.CartLineInput) (shopify.Cart, error)
	CheckoutURL(ctx context.Context, cartID string) (string, error)
}

// StorefrontCarts adapts the Shopify client to CartAPI.
type StorefrontCarts struct {
	client storefrontCartClient
}

func NewStorefrontCarts(client *shopify.Client) (*StorefrontCarts, error) {
	if client == nil {
		return nil, errors.New("shopify client is required")
	}
	return &StorefrontCarts{client: client}, nil
}

func (s *StorefrontCarts) CreateCart(ctx context.Context) (Cart, error) {
	cart, err := s.client.CreateCart(ctx)
	if err != nil {
		return Cart{}, err
	}
	return Cart{ID: cart.ID, CheckoutURL: cart.CheckoutURL}, nil
}

func (s *StorefrontCarts) AddLines(ctx context.Context, cartID string, lines []Line) (Cart, error) {
	cart, err := s.client.AddLines(ctx, cartID, toCartLines(lines))
	if err != nil {
		return Cart{}, err
	}
	return Cart{ID: cart.ID, CheckoutURL: cart.CheckoutURL}, nil
}

func (s *StorefrontCarts) CheckoutURL(ctx context.Context, cartID string) (string, error) {
	return s.client.CheckoutURL(ctx, cartID)
}

func toCartLines(lines []Line) []shopify.CartLineInput {
	out := make([]shopify.CartLineInput, 0, len(lines))
	for _, l := range lines {
		attrs := make([]shopify.Attribute, 0, len(l.Attributes))
		for _, a := range l.Attributes {
			attrs = append(attrs, shopify.Attribute{Key: a.Key, Value: a.Value})
		}
		out = append(out, shopify.CartLineInput{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity, Attributes: attrs})
	}
	return out
}

var (
	_ CatalogLookup = (*shopify.Client)(nil)
	_ CartAPI       = (*StorefrontCarts)(nil)
)
