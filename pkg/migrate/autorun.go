package migrate

import (
	"context"
	"fmt"

	"github.com/wmbgolfco/engraving-backend/pkg/config"
	"github.com/wmbgolfco/engraving-backend/pkg/db"
	"github.com/wmbgolfco/engraving-backend/pkg/logger"
)

// MaybeRunDev brings a dev database up to date at startup. It is a no-op
// outside dev or when WMB_AUTO_MIGRATE is off.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	m, err := New(sqlDB, client.Driver(), DefaultDir, logg)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "driver", client.Driver())
	if err := m.Apply(ctx, CmdUp); err != nil {
		return fmt.Errorf("dev auto-migrate: %w", err)
	}
	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "version", version), "dev auto-migrate complete")
	return nil
}
