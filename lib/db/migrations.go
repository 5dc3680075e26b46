package db

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// RunMigrations prepares the sqlite database: pragmas first, then the
// key-value table the collections live in.
func RunMigrations(db *gorm.DB, logger *slog.Logger) error {
	ctx := context.Background()

	if err := enableSQLiteOptimizations(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to enable SQLite optimizations: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// enableSQLiteOptimizations enables SQLite-specific optimizations
func enableSQLiteOptimizations(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	optimizations := []string{
		"PRAGMA journal_mode=WAL",   // Enable WAL mode for better concurrency
		"PRAGMA synchronous=NORMAL", // Faster writes while maintaining safety
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA temp_store=MEMORY",  // Store temporary tables in memory
	}

	for _, pragma := range optimizations {
		if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
			logger.Warn("Failed to execute pragma", slog.String("pragma", pragma), slog.Any("error", err))
		} else {
			logger.Debug("Executed pragma", slog.String("pragma", pragma))
		}
	}

	return nil
}
