// Package repo implements the data persistence layer for the game
// catalog, backed by GORM. This file provides the three catalog access
// patterns consumed by the query resolver.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only
// query composition.
//
// Error semantics: on DB errors (missing table, connectivity issues,
// etc.) the raw gorm error is propagated. An empty result set is not an
// error.
//
// Functions:
//
//   - ListGamesPage(ctx, db, offset, limit) -> []domain.Game, error
//     Ordered-by-title paged scan of the whole catalog.
//
//   - CountGames(ctx, db) -> (int64, error)
//     Full row count, independent of paging.
//
//   - SearchGamesLike(ctx, db, term, offset, limit) -> []domain.Game, error
//     Case-insensitive substring match on title, ordered by title.
//
//   - SearchGamesFTS(ctx, db, match, offset, limit) -> []domain.Game, error
//     FTS5 prefix-token match ranked by bm25 (lower = more relevant).
//
// This repository is wrapped by services.CatalogService, which owns
// strategy selection and the total-count semantics of each branch.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-store-backend/internal/domain"
)

// ListGamesPage returns a page of the catalog ordered by title ascending
// (ID as a deterministic tiebreaker for duplicate titles).
func ListGamesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Game, error) {
	var out []domain.Game
	err := db.WithContext(ctx).
		Order("title ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountGames uses a raw COUNT so a missing table surfaces as an error.
func CountGames(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw("SELECT COUNT(*) FROM games").Scan(&total).Error
	return total, err
}

// SearchGamesLike returns games whose title contains term anywhere,
// case-insensitively, ordered by title ascending. The term is matched
// verbatim; callers pass the trimmed search text, not a LIKE pattern.
func SearchGamesLike(ctx context.Context, db *gorm.DB, term string, offset, limit int) ([]domain.Game, error) {
	var out []domain.Game
	err := db.WithContext(ctx).
		Where("lower(title) LIKE lower(?)", "%"+term+"%").
		Order("title ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// SearchGamesFTS runs an FTS5 MATCH against the title index and returns
// rows ordered by bm25 rank ascending. The match expression is built by
// search.BuildMatchQuery; raw user input must never reach this function.
func SearchGamesFTS(ctx context.Context, db *gorm.DB, match string, offset, limit int) ([]domain.Game, error) {
	var out []domain.Game
	err := db.WithContext(ctx).Raw(
		`SELECT g.id, g.title, g.price_cents, g.currency, g.image_url, g.platform, g.region, g.created_at
		 FROM games_fts
		 JOIN games g ON g.id = games_fts.rowid
		 WHERE games_fts.title MATCH ?
		 ORDER BY bm25(games_fts) ASC
		 LIMIT ? OFFSET ?`,
		match, limit, offset,
	).Scan(&out).Error
	return out, err
}
