package enquiries

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wmbgolfco/engraving-backend/pkg/db/models"
	pkgerrors "github.com/wmbgolfco/engraving-backend/pkg/errors"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
	"github.com/wmbgolfco/engraving-backend/pkg/pagination"
	"github.com/wmbgolfco/engraving-backend/pkg/storage"
	"go.uber.org/multierr"
)

const (
	defaultMaxFileBytes = 10 * 1024 * 1024
	defaultMaxFiles     = 10
	statsWindow         = 7 * 24 * time.Hour
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service records enquiries and serves the admin listing.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// SubmitInput is the enquiry form.
type SubmitInput struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Service string
	Message string
	PageURL string
	Files   []File
}

type SubmitResult struct {
	EnquiryID     uuid.UUID      `json:"enquiry_id"`
	FileURLs      []string       `json:"file_urls"`
	RejectedFiles []RejectedFile `json:"rejected_files"`
}

type ListParams struct {
	Search  string
	Service string
	Page    int
}

type ListResult struct {
	Enquiries  []models.Enquiry `json:"enquiries"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Services   []string         `json:"services"`
	Stats      Stats            `json:"stats"`
}

type ServiceParams struct {
	Repo         Repository
	Storage      storage.Uploader
	Logger       *logger.Logger
	MaxFileBytes int64
	MaxFiles     int
	PageSize     int
	Clock        func() time.Time
	NewID        func() uuid.UUID
}

type service struct {
	repo         Repository
	storage      storage.Uploader
	logg         *logger.Logger
	validate     *validator.Validate
	maxFileBytes int64
	maxFiles     int
	pageSize     int
	now          func() time.Time
	newID        func() uuid.UUID
}

// NewService wires enquiry dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "enquiries repository required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "file storage required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.MaxFileBytes <= 0 {
		params.MaxFileBytes = defaultMaxFileBytes
	}
	if params.MaxFiles <= 0 {
		params.MaxFiles = defaultMaxFiles
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	if params.NewID == nil {
		params.NewID = uuid.New
	}
	return &service{
		repo:         params.Repo,
		storage:      params.Storage,
		logg:         params.Logger,
		validate:     validator.New(),
		maxFileBytes: params.MaxFileBytes,
		maxFiles:     params.MaxFiles,
		pageSize:     pagination.NormalizeSize(params.PageSize),
		now:          params.Clock,
		newID:        params.NewID,
	}, nil
}

// Submit stores the enquiry first, then its attachments. Attachments that
// fail checks or upload are reported back but never fail the enquiry.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name and email are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Invalid email format")
	}

	record := &models.Enquiry{
		ID:        s.newID(),
		Name:      input.Name,
		Email:     input.Email,
		Service:   optional(input.Service),
		Message:   optional(input.Message),
		PageURL:   optional(input.PageURL),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to save enquiry")
	}
	ctx = s.logg.WithEnquiryID(ctx, record.ID.String())

	result := &SubmitResult{EnquiryID: record.ID, FileURLs: []string{}, RejectedFiles: []RejectedFile{}}
	var uploadErr error
	accepted := 0
	for _, f := range input.Files {
		if f.Size <= 0 || f.Body == nil {
			continue
		}
		if accepted >= s.maxFiles {
			result.RejectedFiles = append(result.RejectedFiles, RejectedFile{
				Name:   f.Name,
				Reason: fmt.Sprintf("At most %d files can be attached", s.maxFiles),
			})
			continue
		}
		contentType, reason := checkFile(f, s.maxFileBytes)
		if reason != "" {
			result.RejectedFiles = append(result.RejectedFiles, RejectedFile{Name: f.Name, Reason: reason})
			continue
		}
		accepted++

		key := fmt.Sprintf("enquiries/%s/%d-%s", record.ID, s.now().UnixMilli(), storage.SanitizeFileName(f.Name))
		obj, err := s.storage.Put(ctx, key, contentType, f.Body)
		if err != nil {
			uploadErr = multierr.Append(uploadErr, fmt.Errorf("%s: %w", f.Name, err))
			result.RejectedFiles = append(result.RejectedFiles, RejectedFile{Name: f.Name, Reason: "Upload failed"})
			continue
		}
		result.FileURLs = append(result.FileURLs, obj.URL)
	}

	if uploadErr != nil {
		s.logg.Error(ctx, "enquiry.upload_failed", uploadErr)
	}
	if len(result.FileURLs) > 0 {
		if err := s.repo.SetFileURLs(ctx, record.ID, result.FileURLs); err != nil {
			s.logg.Error(ctx, "enquiry.file_urls_update_failed", err)
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"files":    len(result.FileURLs),
		"rejected": len(result.RejectedFiles),
	}), "enquiry.submitted")
	return result, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	page := pagination.NewPage(params.Page, s.pageSize)
	filter := Filter{Search: params.Search, Service: params.Service}

	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch enquiries")
	}
	stats, err := s.repo.Stats(ctx, s.now().Add(-statsWindow))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch enquiries")
	}
	services, err := s.repo.Services(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to fetch enquiries")
	}

	if rows == nil {
		rows = []models.Enquiry{}
	}
	if services == nil {
		services = []string{}
	}
	return &ListResult{
		Enquiries:  rows,
		Total:      total,
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
		Services:   services,
		Stats:      stats,
	}, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
