// Catalog HTTP handlers.
//
// This file exposes the REST endpoint for browsing the game catalog:
//   - GET /list    (paged browse / search, ETag support)
//
// Handlers are transport-thin: they validate input, call the catalog
// service, and translate results into HTTP responses (including
// conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-store-backend/internal/domain"
	"github.com/tbourn/go-store-backend/internal/repo"
	"github.com/tbourn/go-store-backend/internal/services"
	"github.com/tbourn/go-store-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// CatalogService defines the catalog query operation consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CatalogService interface {
	// List returns one page of listings matching search plus a total count.
	List(ctx context.Context, search string, limit, offset int) ([]domain.Game, int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the store backend. It depends on
// an abstract service interface to keep transport concerns separate from
// business logic.
type Handlers struct {
	catalogSvc CatalogService
}

// New constructs and returns a Handlers instance bound to the given service.
func New(catalogSvc CatalogService) *Handlers {
	return &Handlers{catalogSvc: catalogSvc}
}

//
// DTOs
//

// ListGamesResponse wraps a page of listings and the total count.
// Total is the full catalog size for unfiltered browsing, and the size
// of the returned page for search requests.
type ListGamesResponse struct {
	Items []domain.Game `json:"items"`
	Total int64         `json:"total"`
}

//
// Handlers
//

// ListGames godoc
// @ID          listGames
// @Summary     List or search the game catalog
// @Description Returns a page of catalog listings. Without a search term the page is title-ordered with the full catalog count as total; with a term, prefix search over the title index (substring fallback for very short terms) ranked by relevance. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Catalog
// @Produce     json
//
// @Param       search         query   string  false "Free-text search over titles"  example(red dead)
// @Param       limit          query   int     false "Page size"                     minimum(1) maximum(100) default(50)
// @Param       offset         query   int     false "Page offset"                   minimum(0) maximum(500) default(0)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"    example(W/\"abc123\")
//
// @Success     200  {object} handlers.ListGamesResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid limit/offset"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /list [get]
func (h *Handlers) ListGames(c *gin.Context) {
	ctx := c.Request.Context()

	limit, err := utils.ParseBoundedInt("limit", c.Query("limit"), services.DefaultLimit, 1, services.MaxLimit)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	offset, err := utils.ParseBoundedInt("offset", c.Query("offset"), 0, 0, services.MaxOffset)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	searchTerm := c.Query("search")

	// ETag pre-check (best effort). Listings are immutable, so catalog
	// count + newest created_at identify the result for a given query.
	var db *gorm.DB
	if svc, isConcrete := h.catalogSvc.(*services.CatalogService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, serr := repo.CatalogStats(ctx, db)
		if serr == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"list:%s:%d:%d:%d:%d"`,
				url.QueryEscape(searchTerm), limit, offset, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.catalogSvc.List(ctx, searchTerm, limit, offset)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLimit) || errors.Is(err, services.ErrInvalidOffset) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListGamesResponse{Items: items, Total: total})
}
