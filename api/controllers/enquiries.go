package controllers

import (
	"net/http"

	"github.com/wmbgolfco/engraving-backend/api/responses"
	"github.com/wmbgolfco/engraving-backend/api/validators"
	"github.com/wmbgolfco/engraving-backend/internal/enquiries"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

const enquirySuccessMessage = "Enquiry submitted successfully"

// EnquiryLimits bounds the size of an enquiry form.
type EnquiryLimits struct {
	MaxFileBytes int64
	MaxFiles     int
}

func (l EnquiryLimits) bodyLimit() int64 {
	files := l.MaxFiles
	if files <= 0 {
		files = 1
	}
	return l.MaxFileBytes*int64(files) + 1<<20
}

type enquiryResponse struct {
	Success       bool                     `json:"success"`
	Message       string                   `json:"message"`
	EnquiryID     string                   `json:"enquiry_id"`
	FileURLs      []string                 `json:"file_urls"`
	RejectedFiles []enquiries.RejectedFile `json:"rejected_files"`
}

// EnquirySubmit accepts the multipart enquiry form. Attachment problems are
// reported per file and never fail the submission.
func EnquirySubmit(svc enquiries.Service, limits EnquiryLimits, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiry service unavailable"))
			return
		}
		if err := validators.ParseMultipart(w, r, limits.bodyLimit()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		input := enquiries.SubmitInput{
			Name:    validators.FormValue(r, "name", 200),
			Email:   validators.FormValue(r, "email", 320),
			Service: validators.FormValue(r, "service", 200),
			Message: validators.FormValue(r, "message", 5000),
			PageURL: validators.FormValue(r, "pageUrl", 2048),
		}

		for _, fh := range validators.FormFiles(r, "files") {
			f, err := fh.Open()
			if err != nil {
				input.Files = append(input.Files, enquiries.File{Name: fh.Filename, ContentType: fh.Header.Get("Content-Type")})
				continue
			}
			defer f.Close()
			input.Files = append(input.Files, enquiries.File{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			})
		}

		result, err := svc.Submit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, enquiryResponse{
			Success:       true,
			Message:       enquirySuccessMessage,
			EnquiryID:     result.EnquiryID.String(),
			FileURLs:      result.FileURLs,
			RejectedFiles: result.RejectedFiles,
		})
	}
}
