package enquiries

import (
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
)

var allowedExtensions = []string{"png", "jpg", "jpeg", "svg", "pdf"}

// stored type for parts that arrive without a Content-Type
var contentTypeByExtension = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"svg":  "image/svg+xml",
	"pdf":  "application/pdf",
}

var allowedMimeTypes = map[string]struct{}{
	"image/png":       {},
	"image/jpg":       {},
	"image/jpeg":      {},
	"image/svg+xml":   {},
	"application/pdf": {},
}

// File is one attachment submitted with an enquiry.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// RejectedFile names an attachment that was not stored and why.
type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

func extensionAllowed(ext string) bool {
	_, ok := contentTypeByExtension[ext]
	return ok
}

// normalizeMimeType strips parameters. An empty type is allowed and left
// empty so the extension decides.
func normalizeMimeType(value string) (string, error) {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return "", nil
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("mime type invalid: %w", err)
	}
	return strings.ToLower(mediaType), nil
}

// checkFile returns a rejection reason, or "" when the file is acceptable.
func checkFile(f File, maxBytes int64) (contentType string, reason string) {
	if f.Size > maxBytes {
		return "", fmt.Sprintf("File %s exceeds %dMB limit", f.Name, maxBytes/(1024*1024))
	}
	ext := fileExtension(f.Name)
	if !extensionAllowed(ext) {
		return "", fmt.Sprintf("File %s has invalid type. Allowed: %s", f.Name, strings.Join(allowedExtensions, ", "))
	}
	mediaType, err := normalizeMimeType(f.ContentType)
	if err != nil {
		return "", fmt.Sprintf("File %s has invalid MIME type", f.Name)
	}
	switch {
	case mediaType == "":
		return contentTypeByExtension[ext], ""
	case mediaType == "image/jpg":
		return "image/jpeg", ""
	}
	if _, ok := allowedMimeTypes[mediaType]; !ok {
		return "", fmt.Sprintf("File %s has invalid MIME type", f.Name)
	}
	return mediaType, ""
}
