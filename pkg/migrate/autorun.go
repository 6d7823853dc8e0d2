package migrate

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/config"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/db/models"
	"github.com/tarekmechtaoui-svg/issaqadmin3/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode and
// the feature flag is enabled. SQLite databases are migrated from the models
// instead of the Postgres SQL files.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": cfg.DB.Driver})

	if cfg.DB.IsSQLite() {
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		if err := AutoMigrateModels(ctx, client.DB()); err != nil {
			return err
		}
		logg.Info(ctx, "sqlite schema ready")
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := RunEmbedded(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// SeedCategories mirrors the category seed migration.
var SeedCategories = []models.Category{
	{ID: uuid.MustParse("6f1c3a52-8d4e-4b0a-9a51-1f7f3f0c2a01"), Name: "Electronics", Slug: "electronics", Description: strPtr("Phones, laptops and gadgets")},
	{ID: uuid.MustParse("6f1c3a52-8d4e-4b0a-9a51-1f7f3f0c2a02"), Name: "Audio", Slug: "audio", Description: strPtr("Headphones and speakers")},
	{ID: uuid.MustParse("6f1c3a52-8d4e-4b0a-9a51-1f7f3f0c2a03"), Name: "Wearables", Slug: "wearables", Description: strPtr("Smart watches and fitness trackers")},
	{ID: uuid.MustParse("6f1c3a52-8d4e-4b0a-9a51-1f7f3f0c2a04"), Name: "Accessories", Slug: "accessories", Description: strPtr("Cases, chargers and cables")},
}

// AutoMigrateModels creates tables from the gorm models and inserts the seed
// categories, skipping rows that already exist.
func AutoMigrateModels(ctx context.Context, conn *gorm.DB) error {
	if err := conn.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	seeds := make([]models.Category, len(SeedCategories))
	copy(seeds, SeedCategories)
	if err := conn.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&seeds).Error; err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	return nil
}

func strPtr(v string) *string { return &v }
