package db

import (
	"github.com/zhwaweb/zhwaweb-admin/internal/app/model"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Store{},
		&model.Offer{},
		&model.Subscription{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
