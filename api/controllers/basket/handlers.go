package basket

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wmbgolfco/engraving-backend/api/middleware"
	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/api/validators"
	basketsvc "github.com/wmbgolfco/engraving-backend/internal/basket"
	"github.com/wmbgolfco/engraving-backend/internal/storefront"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

// BasketGet returns the caller's basket, empty when nothing was added yet.
func BasketGet(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}
		b, err := svc.Get(r.Context(), middleware.BasketIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasket(b))
	}
}

// BasketAddItem validates, prices and appends one configuration.
func BasketAddItem(svc storefront.Service, maxLogoBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "storefront service unavailable"))
			return
		}
		req, err := decodeAddRequest(w, r, maxLogoBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		b, item, err := svc.AddToBasket(r.Context(), middleware.BasketIDFromContext(r.Context()), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, addItemResponse{Basket: newBasket(b), Item: newLineItem(item)})
	}
}

// BasketUpdateItem sets a line's quantity. Values below one clamp to one.
func BasketUpdateItem(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}
		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		b, err := svc.UpdateQuantity(r.Context(), middleware.BasketIDFromContext(r.Context()), chi.URLParam(r, "itemId"), payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasket(b))
	}
}

func BasketRemoveItem(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}
		b, err := svc.RemoveItem(r.Context(), middleware.BasketIDFromContext(r.Context()), chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newBasket(b))
	}
}

func BasketClear(svc basketsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "basket service unavailable"))
			return
		}
		if err := svc.Clear(r.Context(), middleware.BasketIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
