package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wmbgolfco/engraving-backend/api/controllers/dto"
	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/internal/catalog"
	"github.com/wmbgolfco/engraving-backend/pkg/enums"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

func CatalogList(cat *catalog.Catalog) http.HandlerFunc {
	body := dto.NewCatalog(cat)
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, body)
	}
}

func CatalogGet(cat *catalog.Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "categoryId")
		id, err := enums.ParseCategoryID(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeNotFound, "category %q not found", raw))
			return
		}
		c, err := cat.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto.NewCategory(c))
	}
}
