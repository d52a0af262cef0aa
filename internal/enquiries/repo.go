package enquiries

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wmbgolfco/engraving-backend/pkg/db/models"
	dbtypes "github.com/wmbgolfco/engraving-backend/pkg/db/types"
	"github.com/wmbgolfco/engraving-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes persistence helpers for enquiries.
type Repository interface {
	Create(ctx context.Context, enquiry *models.Enquiry) error
	SetFileURLs(ctx context.Context, id uuid.UUID, urls []string) error
	List(ctx context.Context, filter Filter, page pagination.Page) ([]models.Enquiry, int64, error)
	Stats(ctx context.Context, since time.Time) (Stats, error)
	Services(ctx context.Context) ([]string, error)
}

// Filter narrows the admin listing. Empty fields match everything.
type Filter struct {
	Search  string
	Service string
}

// Stats summarises all enquiries regardless of filter.
type Stats struct {
	Total             int64  `json:"total"`
	LastSevenDays     int64  `json:"last_7_days"`
	MostCommonService string `json:"most_common_service"`
}

const noService = "N/A"

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an enquiries repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, enquiry *models.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

func (r *repositoryImpl) SetFileURLs(ctx context.Context, id uuid.UUID, urls []string) error {
	return r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("id = ?", id).
		Update("file_urls", dbtypes.StringList(urls)).Error
}

func (r *repositoryImpl) List(ctx context.Context, filter Filter, page pagination.Page) ([]models.Enquiry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enquiry{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(COALESCE(message, '')) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	if service := strings.TrimSpace(filter.Service); service != "" {
		query = query.Where("service = ?", service)
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Enquiry
	err := query.
		Order("created_at DESC, id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repositoryImpl) Stats(ctx context.Context, since time.Time) (Stats, error) {
	stats := Stats{MostCommonService: noService}
	base := r.db.WithContext(ctx).Model(&models.Enquiry{})

	if err := base.Session(&gorm.Session{}).Count(&stats.Total).Error; err != nil {
		return Stats{}, err
	}
	if err := base.Session(&gorm.Session{}).Where("created_at > ?", since.UTC()).Count(&stats.LastSevenDays).Error; err != nil {
		return Stats{}, err
	}

	var top []struct {
		Service string
		N       int64
	}
	err := base.Session(&gorm.Session{}).
		Select("service, COUNT(*) AS n").
		Where("service IS NOT NULL AND service <> ''").
		Group("service").
		Order("n DESC, service ASC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return Stats{}, err
	}
	if len(top) == 1 {
		stats.MostCommonService = top[0].Service
	}
	return stats, nil
}

func (r *repositoryImpl) Services(ctx context.Context) ([]string, error) {
	var services []string
	err := r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("service IS NOT NULL AND service <> ''").
		Distinct("service").
		Order("service ASC").
		Pluck("service", &services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
