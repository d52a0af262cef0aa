package shopify

import (
	"context"
	"strings"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

const productByHandleQuery = `
query getProduct($handle: String!) {
  product(handle: $handle) {
    id
    title
    variants(first: 1) {
      edges { node { id title } }
    }
  }
}`

const searchProductsQuery = `
query searchProducts($query: String!) {
  products(first: 5, query: $query) {
    edges {
      node {
        id
        title
        handle
        variants(first: 1) {
          edges { node { id title } }
        }
      }
    }
  }
}`

const cartCreateMutation = `
mutation cartCreate {
  cartCreate {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const cartLinesAddMutation = `
mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`

const cartQuery = `
query getCart($cartId: ID!) {
  cart(id: $cartId) { id checkoutUrl }
}`

// Attribute is a custom cart line attribute.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CartLineInput mirrors the Storefront CartLineInput type.
type CartLineInput struct {
	MerchandiseID string      `json:"merchandiseId"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

// Cart is the subset of the Storefront cart the backend reads.
type Cart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

// UserError is a validation error returned by a cart mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// UserErrors is returned when a mutation reports user errors. The messages
// are meant to be shown to the shopper.
type UserErrors []UserError

func (u UserErrors) Error() string {
	return "storefront user errors: " + strings.Join(u.UpstreamMessages(), "; ")
}

func (u UserErrors) UpstreamMessages() []string {
	msgs := make([]string, 0, len(u))
	for _, e := range u {
		msgs = append(msgs, e.Message)
	}
	return msgs
}

type variantConnection struct {
	Edges []struct {
		Node struct {
			ID string `json:"id"`
		} `json:"node"`
	} `json:"edges"`
}

func (v variantConnection) first() string {
	if len(v.Edges) == 0 {
		return ""
	}
	return v.Edges[0].Node.ID
}

// VariantByHandle returns the first variant id of the product with the given
// handle, or "" when there is no such product.
func (c *Client) VariantByHandle(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product handle is required")
	}
	var data struct {
		Product *struct {
			ID       string            `json:"id"`
			Variants variantConnection `json:"variants"`
		} `json:"product"`
	}
	if err := c.execute(ctx, "product", productByHandleQuery, map[string]any{"handle": handle}, &data); err != nil {
		return "", err
	}
	if data.Product == nil {
		return "", nil
	}
	return data.Product.Variants.first(), nil
}

// VariantByTitle searches products by title and returns the first variant of
// the exact (case-insensitive) match, or "" when none matches.
func (c *Client) VariantByTitle(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	var data struct {
		Products struct {
			Edges []struct {
				Node struct {
					Title    string            `json:"title"`
					Variants variantConnection `json:"variants"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.execute(ctx, "products", searchProductsQuery, map[string]any{"query": "title:" + title}, &data); err != nil {
		return "", err
	}
	for _, edge := range data.Products.Edges {
		if strings.EqualFold(edge.Node.Title, title) {
			return edge.Node.Variants.first(), nil
		}
	}
	return "", nil
}

type cartPayload struct {
	Cart       *Cart      `json:"cart"`
	UserErrors UserErrors `json:"userErrors"`
}

func (p cartPayload) result(op string) (Cart, error) {
	if len(p.UserErrors) > 0 {
		return Cart{}, p.UserErrors
	}
	if p.Cart == nil {
		return Cart{}, pkgerrors.New(pkgerrors.CodeDependency, op+" returned no cart")
	}
	return *p.Cart, nil
}

// CreateCart creates an empty cart.
func (c *Client) CreateCart(ctx context.Context) (Cart, error) {
	var data struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	if err := c.execute(ctx, "cartCreate", cartCreateMutation, nil, &data); err != nil {
		return Cart{}, err
	}
	return data.CartCreate.result("cartCreate")
}

// AddLines adds every line to the cart in one mutation.
func (c *Client) AddLines(ctx context.Context, cartID string, lines []CartLineInput) (Cart, error) {
	if strings.TrimSpace(cartID) == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	var data struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := c.execute(ctx, "cartLinesAdd", cartLinesAddMutation, vars, &data); err != nil {
		return Cart{}, err
	}
	return data.CartLinesAdd.result("cartLinesAdd")
}

// CheckoutURL looks up the checkout URL of an existing cart.
func (c *Client) CheckoutURL(ctx context.Context, cartID string) (string, error) {
	var data struct {
		Cart *Cart `json:"cart"`
	}
	if err := c.execute(ctx, "cart", cartQuery, map[string]any{"cartId": cartID}, &data); err != nil {
		return "", err
	}
	if data.Cart == nil {
		return "", nil
	}
	return data.Cart.CheckoutURL, nil
}
