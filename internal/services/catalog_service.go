// Package services implements the business logic of the catalog API.
//
// This file implements the catalog query resolver: given a free-text
// search term and pagination bounds it selects a retrieval strategy and
// returns one page of listings plus a total count.
//
// Strategy selection (in order):
//  1. Blank/whitespace search → unfiltered browse ordered by title; the
//     total is the full table row count, independent of paging.
//  2. Search present but not indexable (no usable tokens, or trimmed
//     length below search.MinQueryRunes) → case-insensitive substring
//     match on title.
//  3. Otherwise → FTS5 prefix match ("red dead" → "red* dead*") ranked
//     by bm25.
//
// On the two search branches the total is the row count of the returned
// page only, not the full match count. That asymmetry is inherited
// product behavior and is kept on purpose; see the List doc comment.
//
// Observability: List is OpenTelemetry-instrumented and increments a
// per-strategy Prometheus counter.
package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-store-backend/internal/domain"
	"github.com/tbourn/go-store-backend/internal/search"
)

// Pagination bounds for List. Out-of-range values are rejected, not
// clamped, so callers get an explicit 400 instead of silently different
// paging.
const (
	DefaultLimit = 50
	MaxLimit     = 100
	MaxOffset    = 500
)

// Strategy labels reported via tracing and metrics.
const (
	strategyBrowse    = "browse"
	strategySubstring = "substring"
	strategyFTS       = "fts"
)

// searchStrategyTotal counts resolved /list requests by strategy.
var searchStrategyTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_search_total",
		Help: "Total catalog list requests by retrieval strategy.",
	},
	[]string{"strategy"},
)

func init() {
	prometheus.MustRegister(searchStrategyTotal)
}

// CatalogRepo defines the repository contract required by CatalogService.
// Implementations are responsible for the three catalog access patterns;
// the service owns strategy selection and total-count semantics.
type CatalogRepo interface {
	// ListGamesPage returns a title-ordered page of the whole catalog.
	ListGamesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Game, error)

	// CountGames returns the full catalog row count.
	CountGames(ctx context.Context, db *gorm.DB) (int64, error)

	// SearchGamesLike returns a title-ordered page of case-insensitive
	// substring matches.
	SearchGamesLike(ctx context.Context, db *gorm.DB, term string, offset, limit int) ([]domain.Game, error)

	// SearchGamesFTS returns a relevance-ordered page of FTS prefix matches.
	SearchGamesFTS(ctx context.Context, db *gorm.DB, match string, offset, limit int) ([]domain.Game, error)
}

// CatalogService resolves catalog queries. It is read-only: the store is
// opened once at process start and shared across requests, and no write
// path exists beyond initial seeding.
type CatalogService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the catalog repository used by this service.
	Repo CatalogRepo
}

// NewCatalogService constructs a CatalogService bound to db and r.
func NewCatalogService(db *gorm.DB, r CatalogRepo) *CatalogService {
	return &CatalogService{DB: db, Repo: r}
}

// List returns one page of listings matching searchTerm plus a total.
//
// limit must be in [1, MaxLimit] and offset in [0, MaxOffset]; violations
// return ErrInvalidLimit / ErrInvalidOffset. searchTerm is trimmed and a
// blank result means "browse everything".
//
// Total semantics differ by branch: the browse branch reports the true
// table count, while both search branches report only the size of the
// returned page. Unifying them would change the public contract, so the
// behavior is preserved as-is.
func (s *CatalogService) List(ctx context.Context, searchTerm string, limit, offset int) ([]domain.Game, int64, error) {
	tr := otel.Tracer("services/CatalogService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.Int("page.limit", limit),
			attribute.Int("page.offset", offset),
		),
	)
	defer span.End()

	if limit < 1 || limit > MaxLimit {
		return nil, 0, ErrInvalidLimit
	}
	if offset < 0 || offset > MaxOffset {
		return nil, 0, ErrInvalidOffset
	}

	term, hasSearch := search.Normalize(searchTerm)

	// 1) No search → unfiltered browse with a true total.
	if !hasSearch {
		span.SetAttributes(attribute.String("search.strategy", strategyBrowse))
		searchStrategyTotal.WithLabelValues(strategyBrowse).Inc()

		items, err := s.Repo.ListGamesPage(ctx, s.DB, offset, limit)
		if err != nil {
			return nil, 0, err
		}
		total, err := s.Repo.CountGames(ctx, s.DB)
		if err != nil {
			return nil, 0, err
		}
		return nonNil(items), total, nil
	}

	// 2) Too short or not tokenizable → substring fallback.
	match, indexable := search.BuildMatchQuery(term)
	if !indexable || len([]rune(term)) < search.MinQueryRunes {
		span.SetAttributes(attribute.String("search.strategy", strategySubstring))
		searchStrategyTotal.WithLabelValues(strategySubstring).Inc()

		items, err := s.Repo.SearchGamesLike(ctx, s.DB, term, offset, limit)
		if err != nil {
			return nil, 0, err
		}
		items = nonNil(items)
		return items, int64(len(items)), nil
	}

	// 3) Indexed prefix search ranked by bm25.
	span.SetAttributes(
		attribute.String("search.strategy", strategyFTS),
		attribute.String("search.match", match),
	)
	searchStrategyTotal.WithLabelValues(strategyFTS).Inc()

	items, err := s.Repo.SearchGamesFTS(ctx, s.DB, match, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	items = nonNil(items)
	return items, int64(len(items)), nil
}

// nonNil guarantees an empty page serializes as [] rather than null.
func nonNil(items []domain.Game) []domain.Game {
	if items == nil {
		return []domain.Game{}
	}
	return items
}
