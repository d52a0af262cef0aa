package checkout

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// CartAPI is the remote cart surface used for a checkout attempt.
type CartAPI interface {
	CreateCart(ctx context.Context) (Cart, error)
	AddLines(ctx context.Context, cartID string, lines []Line) (Cart, error)
	CheckoutURL(ctx context.Context, cartID string) (string, error)
}

// upstreamMessages is implemented by errors carrying storefront user errors.
type upstreamMessages interface {
	UpstreamMessages() []string
}

// Submitter creates a fresh remote cart and adds all lines in one mutation.
// A cart whose line add fails is left to expire remotely.
type Submitter struct {
	carts CartAPI
}

func NewSubmitter(carts CartAPI) (*Submitter, error) {
	if carts == nil {
		return nil, errors.New("cart api is required")
	}
	return &Submitter{carts: carts}, nil
}

// Submit returns a cart with a non-empty checkout URL or an error.
func (s *Submitter) Submit(ctx context.Context, lines []Line) (Cart, error) {
	if len(lines) == 0 {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "no lines to submit")
	}
	cart, err := s.carts.CreateCart(ctx)
	if err != nil {
		return Cart{}, remoteError(err, "failed to create cart")
	}
	if cart.ID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeDependency, "failed to create cart")
	}

	updated, err := s.carts.AddLines(ctx, cart.ID, lines)
	if err != nil {
		return Cart{}, remoteError(err, "failed to add items to cart")
	}
	if updated.ID == "" {
		updated.ID = cart.ID
	}
	if updated.CheckoutURL == "" {
		url, err := s.carts.CheckoutURL(ctx, updated.ID)
		if err != nil {
			return Cart{}, remoteError(err, "failed to fetch checkout url")
		}
		updated.CheckoutURL = url
	}
	if updated.CheckoutURL == "" {
		updated.CheckoutURL = cart.CheckoutURL
	}
	if strings.TrimSpace(updated.CheckoutURL) == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeDependency, "storefront returned no checkout url")
	}
	return updated, nil
}

// remoteError surfaces storefront user errors verbatim; anything else keeps
// the step that failed as its message.
func remoteError(err error, step string) error {
	var upstream upstreamMessages
	if errors.As(err, &upstream) {
		if msgs := upstream.UpstreamMessages(); len(msgs) > 0 {
			return pkgerrors.Wrap(pkgerrors.CodeCheckoutRejected, err, msgs[0]).
				WithDetails(map[string]any{"step": step, "messages": msgs})
		}
	}
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeCheckoutRejected {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}
