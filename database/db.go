package database

import (
	"fmt"
	"log/slog"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the postgres pool behind gorm and verifies it with a ping.
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Connected to the database successfully")
	return db, nil
}

// Models lists every table in dependency order
func Models() []any {
	return []any{
		&models.User{},
		&models.Category{},
		&models.Genre{},
		&models.Title{},
		&models.Review{},
		&models.Comment{},
		&models.ConfirmationCode{},
	}
}

// Migrate creates or updates the schema, including the unique
// (title_id, author_id) review index and the score CHECK constraint.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("Database migrations applied successfully")
	return nil
}

// Close releases the underlying pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "info", "warn":
		return logger.Warn
	default:
		return logger.Error
	}
}
