package validators

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
)

const multipartMemory = 8 << 20

// ParseMultipart caps the body at maxBytes and parses the form. Bodies over
// the cap are PAYLOAD_TOO_LARGE; anything that is not multipart is
// UNSUPPORTED_MEDIA_TYPE.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if !IsMultipart(r) {
		return pkgerrors.New(pkgerrors.CodeUnsupportedMedia, "expected multipart/form-data")
	}
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, fmt.Sprintf("request exceeds %dMB limit", maxBytes>>20))
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

// FormFile is an uploaded file read fully into memory.
type FormFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// ReadFormFile returns the named file, or nil when the field is absent.
func ReadFormFile(r *http.Request, field string, maxBytes int64) (*FormFile, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	return readHeader(r.MultipartForm.File[field][0], maxBytes)
}

// FormFiles returns every file posted under field.
func FormFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

func readHeader(fh *multipart.FileHeader, maxBytes int64) (*FormFile, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, pkgerrors.Newf(pkgerrors.CodePayloadTooLarge, "File %s exceeds %dMB limit", fh.Filename, maxBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read uploaded file")
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read uploaded file")
	}
	return &FormFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

// FormValue trims and clamps a text field.
func FormValue(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.FormValue(key), maxLen)
}
