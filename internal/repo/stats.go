// Package repo implements the data persistence layer for the game
// catalog, backed by GORM. This file provides a small aggregate query
// used for conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-store-backend/internal/domain"
)

// CatalogStats returns aggregate metadata for the catalog: the total
// number of listings and the newest CreatedAt among them.
//
// Listings are immutable after creation, so (count, newest CreatedAt)
// changes exactly when the catalog content changes, which makes the pair
// a valid cache validator. When the catalog is empty the returned count
// is 0 and maxCreatedAt is nil.
//
// Return values:
//   - count:        total listings
//   - maxCreatedAt: pointer to the greatest CreatedAt, or nil if no rows
//   - err:          database error, if any
func CatalogStats(ctx context.Context, db *gorm.DB) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Game{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
