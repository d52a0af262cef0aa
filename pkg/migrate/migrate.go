package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

const DefaultDir = "pkg/migrate/migrations"

// Commands accepted by Migrator.Apply.
const (
	CmdUp      = "up"
	CmdUpByOne = "up-by-one"
	CmdDown    = "down"
	CmdRedo    = "redo"
	CmdReset   = "reset"
	CmdStatus  = "status"
)

// Dialect maps a configured DB driver to its goose dialect.
func Dialect(driver string) goose.Dialect {
	if driver == config.DBDriverSQLite {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

// Migrator applies the SQL files of one directory to one database. It never
// closes the database it was given.
type Migrator struct {
	provider *goose.Provider
	logg     *logger.Logger
}

func New(db *sql.DB, driver, dir string, logg *logger.Logger) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if dir == "" {
		return nil, errors.New("dir is required")
	}
	if err := ValidateDir(dir); err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(Dialect(driver), db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Migrator{provider: provider, logg: logg}, nil
}

// Apply runs one of the Cmd* commands.
func (m *Migrator) Apply(ctx context.Context, command string) error {
	switch command {
	case CmdUp:
		results, err := m.provider.Up(ctx)
		m.report(ctx, results...)
		return wrap(command, err)
	case CmdUpByOne:
		res, err := m.provider.UpByOne(ctx)
		m.report(ctx, res)
		return wrap(command, err)
	case CmdDown:
		res, err := m.provider.Down(ctx)
		m.report(ctx, res)
		return wrap(command, err)
	case CmdRedo:
		res, err := m.provider.Down(ctx)
		m.report(ctx, res)
		if err != nil {
			return wrap(command, err)
		}
		res, err = m.provider.UpByOne(ctx)
		m.report(ctx, res)
		return wrap(command, err)
	case CmdReset:
		results, err := m.provider.DownTo(ctx, 0)
		m.report(ctx, results...)
		return wrap(command, err)
	case CmdStatus:
		return m.status(ctx)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
}

// To migrates up or down until the database sits at targetVersion.
func (m *Migrator) To(ctx context.Context, targetVersion string) error {
	target, err := strconv.ParseInt(targetVersion, 10, 64)
	if err != nil || target < 0 {
		return fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", targetVersion)
	}
	current, err := m.Version(ctx)
	if err != nil {
		return err
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil
	case current < target:
		results, err = m.provider.UpTo(ctx, target)
	default:
		results, err = m.provider.DownTo(ctx, target)
	}
	m.report(ctx, results...)
	return wrap("to "+targetVersion, err)
}

// Version is the highest applied migration, 0 on an empty database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return v, nil
}

func (m *Migrator) status(ctx context.Context) error {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return wrap(CmdStatus, err)
	}
	if m.logg == nil {
		return nil
	}
	for _, s := range statuses {
		fields := map[string]any{
			"version": s.Source.Version,
			"file":    s.Source.Path,
			"state":   string(s.State),
		}
		if !s.AppliedAt.IsZero() {
			fields["applied_at"] = s.AppliedAt
		}
		m.logg.Info(m.logg.WithFields(ctx, fields), "migration.status")
	}
	return nil
}

func (m *Migrator) report(ctx context.Context, results ...*goose.MigrationResult) {
	if m.logg == nil {
		return
	}
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		rctx := m.logg.WithFields(ctx, map[string]any{
			"version":     r.Source.Version,
			"file":        r.Source.Path,
			"direction":   r.Direction,
			"duration_ms": r.Duration.Milliseconds(),
		})
		if r.Error != nil {
			m.logg.Error(rctx, "migration.failed", r.Error)
			continue
		}
		m.logg.Info(rctx, "migration.applied")
	}
}

func wrap(command string, err error) error {
	switch {
	case err == nil, errors.Is(err, goose.ErrNoNextVersion):
		return nil
	default:
		return fmt.Errorf("goose %s: %w", command, err)
	}
}
