package enquiries

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wmbgolfco/engraving-backend/pkg/db/models"
	"github.com/wmbgolfco/engraving-backend/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Enquiry{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func strPtr(s string) *string { return &s }

func seed(t *testing.T, repo Repository, name, email, service, message string, createdAt time.Time) models.Enquiry {
	t.Helper()
	e := models.Enquiry{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: createdAt.UTC(),
	}
	if service != "" {
		e.Service = strPtr(service)
	}
	if message != "" {
		e.Message = strPtr(message)
	}
	require.NoError(t, repo.Create(context.Background(), &e))
	return e
}

func TestRepositoryListOrdersNewestFirstAndPaginates(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seed(t, repo, fmt.Sprintf("Golfer %02d", i), fmt.Sprintf("g%02d@example.com", i), "Wedges", "", base.Add(time.Duration(i)*time.Minute))
	}

	rows, total, err := repo.List(context.Background(), Filter{}, pagination.NewPage(1, 20))
	require.NoError(t, err)
	require.Equal(t, int64(25), total)
	require.Len(t, rows, 20)
	require.Equal(t, "Golfer 24", rows[0].Name)

	rows, _, err = repo.List(context.Background(), Filter{}, pagination.NewPage(2, 20))
	require.NoError(t, err)
	require.Len(t, rows, 5)
	require.Equal(t, "Golfer 00", rows[4].Name)
}

func TestRepositoryListSearchIsCaseInsensitive(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	now := time.Now()
	seed(t, repo, "Rory", "rory@example.com", "Putters", "", now)
	seed(t, repo, "Shane", "shane@example.com", "Wedges", "Please quote my IRONS", now)
	seed(t, repo, "Tommy", "TOMMY@Example.com", "Wedges", "", now)

	rows, total, err := repo.List(context.Background(), Filter{Search: "irons"}, pagination.NewPage(1, 20))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Shane", rows[0].Name)

	_, total, err = repo.List(context.Background(), Filter{Search: "tommy@"}, pagination.NewPage(1, 20))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	_, total, err = repo.List(context.Background(), Filter{Search: "100%"}, pagination.NewPage(1, 20))
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}

func TestRepositoryListFiltersByService(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	now := time.Now()
	seed(t, repo, "A", "a@example.com", "Putters", "", now)
	seed(t, repo, "B", "b@example.com", "Wedges", "", now)

	rows, total, err := repo.List(context.Background(), Filter{Service: "Putters"}, pagination.NewPage(1, 20))
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "A", rows[0].Name)
}

func TestRepositoryStatsAndServices(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	now := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	seed(t, repo, "A", "a@example.com", "Wedges", "", now.Add(-time.Hour))
	seed(t, repo, "B", "b@example.com", "Wedges", "", now.Add(-48*time.Hour))
	seed(t, repo, "C", "c@example.com", "Putters", "", now.Add(-10*24*time.Hour))
	seed(t, repo, "D", "d@example.com", "", "", now.Add(-30*24*time.Hour))

	stats, err := repo.Stats(context.Background(), now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(2), stats.LastSevenDays)
	require.Equal(t, "Wedges", stats.MostCommonService)

	services, err := repo.Services(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Putters", "Wedges"}, services)
}

func TestRepositoryStatsWithoutServices(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	stats, err := repo.Stats(context.Background(), time.Now().Add(-statsWindow))
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.Total)
	require.Equal(t, "N/A", stats.MostCommonService)
}

func TestRepositorySetFileURLs(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	e := seed(t, repo, "A", "a@example.com", "", "", time.Now())

	require.NoError(t, repo.SetFileURLs(context.Background(), e.ID, []string{"https://cdn/x.png"}))

	var stored models.Enquiry
	require.NoError(t, db.First(&stored, "id = ?", e.ID).Error)
	require.Equal(t, []string{"https://cdn/x.png"}, []string(stored.FileURLs))
}
