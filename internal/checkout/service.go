package checkout

import (
	"context"
	"strings"

	"github.com/wmbgolfco/engraving-backend/internal/basket"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/metrics"
)

const noValidItemsMessage = "No valid items to add. Please check that products exist in Shopify."

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Baskets   basket.Service
	Assembler *Assembler
	Submitter *Submitter
	Resolver  *Resolver
	Logger    *logger.Logger
	Metrics   *metrics.CheckoutMetrics
}

// Service hands a basket over to the hosted storefront checkout.
type Service interface {
	Checkout(ctx context.Context, basketID string) (Result, error)
	InvalidateVariantCache(ctx context.Context) int
}

type service struct {
	baskets   basket.Service
	assembler *Assembler
	submitter *Submitter
	resolver  *Resolver
	logg      *logger.Logger
	metrics   *metrics.CheckoutMetrics
}

func NewService(params ServiceParams) (Service, error) {
	if params.Baskets == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "basket service is required")
	}
	if params.Assembler == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assembler is required")
	}
	if params.Submitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "submitter is required")
	}
	if params.Resolver == nil {
		params.Resolver = params.Assembler.resolver
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{
		baskets:   params.Baskets,
		assembler: params.Assembler,
		submitter: params.Submitter,
		resolver:  params.Resolver,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// Checkout assembles the basket, submits it and clears the basket only once a
// checkout URL has been confirmed. Any failure leaves the basket untouched.
func (s *service) Checkout(ctx context.Context, basketID string) (Result, error) {
	ctx = s.logg.WithBasketID(ctx, basketID)

	b, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		s.metrics.IncAttempt(metrics.OutcomeError)
		return Result{}, err
	}
	if b.IsEmpty() {
		s.metrics.IncAttempt(metrics.OutcomeEmpty)
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "No items provided")
	}

	assembly := s.assembler.AssembleLines(ctx, b.Items)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"lines":    len(assembly.Lines),
		"failures": len(assembly.Failures),
	})
	s.logg.Info(logCtx, "checkout.assembled")
	if len(assembly.Failures) > 0 {
		s.logg.Warn(s.logg.WithField(logCtx, "failure_messages", assembly.Failures), "checkout.failures")
	}

	if len(assembly.Lines) == 0 {
		s.metrics.IncAttempt(metrics.OutcomeNoLines)
		msg := noValidItemsMessage
		if len(assembly.Failures) > 0 {
			msg = "Unable to checkout: " + strings.Join(assembly.Failures, "; ")
		}
		return Result{}, pkgerrors.New(pkgerrors.CodeCheckoutRejected, msg).
			WithDetails(map[string]any{"failures": assembly.Failures})
	}

	cart, err := s.submitter.Submit(ctx, assembly.Lines)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeCheckoutRejected) {
			s.metrics.IncAttempt(metrics.OutcomeRejected)
		} else {
			s.metrics.IncAttempt(metrics.OutcomeError)
		}
		s.logg.Error(logCtx, "checkout.submit_failed", err)
		return Result{}, err
	}

	if err := s.baskets.Clear(ctx, basketID); err != nil {
		s.logg.Error(logCtx, "checkout.clear_basket_failed", err)
	}
	s.metrics.IncAttempt(metrics.OutcomeSuccess)
	s.logg.Info(s.logg.WithField(logCtx, "cart_id", cart.ID), "checkout.completed")

	warnings := assembly.Failures
	if warnings == nil {
		warnings = []string{}
	}
	return Result{CheckoutURL: cart.CheckoutURL, CartID: cart.ID, Warnings: warnings}, nil
}

// InvalidateVariantCache forces the next checkout to re-resolve identities.
func (s *service) InvalidateVariantCache(ctx context.Context) int {
	n := s.resolver.Cache().InvalidateAll()
	s.logg.Info(s.logg.WithField(ctx, "entries", n), "checkout.variant_cache_invalidated")
	return n
}
