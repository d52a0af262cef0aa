package basket

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/wmbgolfco/engraving-backend/api/controllers/dto"
	"github.com/wmbgolfco/engraving-backend/api/validators"
	"github.com/wmbgolfco/engraving-backend/internal/storefront"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

// AddItemRequest is the JSON form of an add. Multipart adds carry the same
// object in the "configuration" field plus a "logo" file.
type AddItemRequest struct {
	Configuration dto.Configuration `json:"configuration"`
	Quantity      int               `json:"quantity" validate:"min=0,max=99"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

// decodeAddRequest accepts either a JSON body or a multipart form.
func decodeAddRequest(w http.ResponseWriter, r *http.Request, maxLogoBytes int64) (storefront.AddRequest, error) {
	if !validators.IsMultipart(r) {
		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return storefront.AddRequest{}, err
		}
		return storefront.AddRequest{Config: payload.Configuration.ToInput(), Quantity: payload.Quantity}, nil
	}

	if err := validators.ParseMultipart(w, r, maxLogoBytes+1<<20); err != nil {
		return storefront.AddRequest{}, err
	}
	defer r.MultipartForm.RemoveAll()

	raw := strings.TrimSpace(r.FormValue("configuration"))
	if raw == "" {
		return storefront.AddRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "configuration is required")
	}
	var cfg dto.Configuration
	if err := validators.DecodeJSON([]byte(raw), &cfg); err != nil {
		return storefront.AddRequest{}, err
	}

	req := storefront.AddRequest{Config: cfg.ToInput()}
	if q := strings.TrimSpace(r.FormValue("quantity")); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 || n > 99 {
			return storefront.AddRequest{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 99")
		}
		req.Quantity = n
	}

	logo, err := validators.ReadFormFile(r, "logo", maxLogoBytes)
	if err != nil {
		return storefront.AddRequest{}, err
	}
	if logo != nil {
		req.Logo = &storefront.LogoFile{FileName: logo.Name, ContentType: logo.ContentType, Content: logo.Content}
	}
	return req, nil
}
