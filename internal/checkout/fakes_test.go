package checkout

import (
	"context"
	"strings"
	"sync"
)

type fakeLookup struct {
	mu          sync.Mutex
	handles     map[string]string
	titles      map[string]string
	handleCalls map[string]int
	titleCalls  map[string]int
	handleErr   error
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		handles: map[string]string{
			"laser-engraved-wedges":       "gid://shopify/ProductVariant/1",
			"laser-engraved-ball-markers": "gid://shopify/ProductVariant/2",
			"laser-engraved-divot-tools":  "gid://shopify/ProductVariant/3",
		},
		titles: map[string]string{
			"laser engraved bag tags": "gid://shopify/ProductVariant/4",
			"standard postage":        "gid://shopify/ProductVariant/90",
			"club return postage":     "gid://shopify/ProductVariant/91",
		},
		handleCalls: map[string]int{},
		titleCalls:  map[string]int{},
	}
}

func (f *fakeLookup) VariantByHandle(_ context.Context, handle string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handleCalls[handle]++
	if f.handleErr != nil {
		return "", f.handleErr
	}
	return f.handles[handle], nil
}

func (f *fakeLookup) VariantByTitle(_ context.Context, title string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls[title]++
	return f.titles[strings.ToLower(title)], nil
}

func (f *fakeLookup) calls(handle string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handleCalls[handle]
}

type fakeCarts struct {
	createErr  error
	addErr     error
	cart       Cart
	added      []Line
	lookupURL  string
	createCall int
	addCall    int
}

func (f *fakeCarts) CreateCart(context.Context) (Cart, error) {
	f.createCall++
	if f.createErr != nil {
		return Cart{}, f.createErr
	}
	return Cart{ID: f.cart.ID}, nil
}

func (f *fakeCarts) AddLines(_ context.Context, cartID string, lines []Line) (Cart, error) {
	f.addCall++
	if f.addErr != nil {
		return Cart{}, f.addErr
	}
	f.added = append(f.added, lines...)
	return Cart{ID: cartID, CheckoutURL: f.cart.CheckoutURL}, nil
}

func (f *fakeCarts) CheckoutURL(context.Context, string) (string, error) {
	return f.lookupURL, nil
}

type userErr struct{ msgs []string }

func (u userErr) Error() string              { return "user errors: " + strings.Join(u.msgs, ", ") }
func (u userErr) UpstreamMessages() []string { return u.msgs }
