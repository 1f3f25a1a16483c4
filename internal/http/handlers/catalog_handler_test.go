package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-store-backend/internal/domain"
	"github.com/tbourn/go-store-backend/internal/repo"
	"github.com/tbourn/go-store-backend/internal/services"
)

// --- stub service (drives handler branches without a DB) ---

type stubCatalogService struct {
	items []domain.Game
	total int64
	err   error

	calls      int
	lastSearch string
	lastLimit  int
	lastOffset int
}

func (s *stubCatalogService) List(_ context.Context, search string, limit, offset int) ([]domain.Game, int64, error) {
	s.calls++
	s.lastSearch, s.lastLimit, s.lastOffset = search, limit, offset
	return s.items, s.total, s.err
}

func newHandlerRouter(svc CatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc)
	r.GET("/list", h.ListGames)
	return r
}

func doList(t *testing.T, r *gin.Engine, query string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/list"+query, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestListGames_DefaultsPassedToService(t *testing.T) {
	svc := &stubCatalogService{items: []domain.Game{}, total: 0}
	r := newHandlerRouter(svc)

	w := doList(t, r, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.lastLimit != services.DefaultLimit || svc.lastOffset != 0 || svc.lastSearch != "" {
		t.Fatalf("unexpected service args: search=%q limit=%d offset=%d",
			svc.lastSearch, svc.lastLimit, svc.lastOffset)
	}

	var resp ListGamesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	// Empty page must serialize as [], not null.
	if resp.Items == nil {
		t.Fatalf("items should be non-nil: %s", w.Body.String())
	}
}

func TestListGames_PaginationRejection(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{"limit zero", "?limit=0"},
		{"limit above cap", "?limit=101"},
		{"limit not a number", "?limit=abc"},
		{"offset negative", "?offset=-1"},
		{"offset above cap", "?offset=501"},
		{"offset not a number", "?offset=x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubCatalogService{}
			r := newHandlerRouter(svc)
			w := doList(t, r, tc.query, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("json: %v", err)
			}
			if resp.Error.Message == "" || resp.Error.Code != ErrCodeBadRequest {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
			// Rejected requests must not reach the service.
			if svc.calls != 0 {
				t.Fatalf("service should not be called on invalid pagination")
			}
		})
	}
}

func TestListGames_BoundaryValuesAccepted(t *testing.T) {
	svc := &stubCatalogService{items: []domain.Game{}}
	r := newHandlerRouter(svc)

	for _, q := range []string{"?limit=1", "?limit=100", "?offset=0", "?offset=500"} {
		if w := doList(t, r, q, nil); w.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d", q, w.Code)
		}
	}
}

func TestListGames_ServiceErrors(t *testing.T) {
	// Validation errors from the service map to 400.
	svc := &stubCatalogService{err: services.ErrInvalidLimit}
	r := newHandlerRouter(svc)
	if w := doList(t, r, "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for ErrInvalidLimit, got %d", w.Code)
	}

	// Anything else maps to 500 with the list_failed code.
	svc = &stubCatalogService{err: errors.New("disk on fire")}
	r = newHandlerRouter(svc)
	w := doList(t, r, "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Error.Code != ErrCodeListFailed {
		t.Fatalf("expected %s, got %+v", ErrCodeListFailed, resp)
	}
}

// --- concrete service + seeded DB (drives the ETag path) ---

func newSeededHandlers(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:handlerdb_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := repo.SeedIfEmpty(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := services.NewCatalogService(db, realRepo{})
	r := gin.New()
	r.GET("/list", New(svc).ListGames)
	return r, db
}

type realRepo struct{}

func (realRepo) ListGamesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Game, error) {
	return repo.ListGamesPage(ctx, db, offset, limit)
}
func (realRepo) CountGames(ctx context.Context, db *gorm.DB) (int64, error) {
	return repo.CountGames(ctx, db)
}
func (realRepo) SearchGamesLike(ctx context.Context, db *gorm.DB, term string, offset, limit int) ([]domain.Game, error) {
	return repo.SearchGamesLike(ctx, db, term, offset, limit)
}
func (realRepo) SearchGamesFTS(ctx context.Context, db *gorm.DB, match string, offset, limit int) ([]domain.Game, error) {
	return repo.SearchGamesFTS(ctx, db, match, offset, limit)
}

func TestListGames_ETagRoundTrip(t *testing.T) {
	r, _ := newSeededHandlers(t)

	w1 := doList(t, r, "?search=red", nil)
	if w1.Code != http.StatusOK {
		t.Fatalf("first request: %d", w1.Code)
	}
	etag := w1.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("expected ETag header")
	}

	// Replay with If-None-Match → 304, empty body.
	w2 := doList(t, r, "?search=red", map[string]string{"If-None-Match": etag})
	if w2.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w2.Code)
	}
	if w2.Body.Len() != 0 {
		t.Fatalf("304 should have empty body, got %q", w2.Body.String())
	}

	// A different query gets a different ETag.
	w3 := doList(t, r, "?search=fifa", map[string]string{"If-None-Match": etag})
	if w3.Code != http.StatusOK {
		t.Fatalf("different query should not match, got %d", w3.Code)
	}
	if got := w3.Header().Get("ETag"); got == etag {
		t.Fatalf("ETag should vary with the query")
	}
}

func TestListGames_SearchBehaviors(t *testing.T) {
	r, _ := newSeededHandlers(t)

	// Prefix search finds the obvious title.
	w := doList(t, r, "?search=fif", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search=fif: %d", w.Code)
	}
	var resp ListGamesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Title != "FIFA 23" {
		t.Fatalf("search=fif unexpected: %+v", resp.Items)
	}
	// Search totals count the returned page.
	if resp.Total != int64(len(resp.Items)) {
		t.Fatalf("search total should equal page size: %d vs %d", resp.Total, len(resp.Items))
	}

	// Single-character term falls back to substring matching.
	w = doList(t, r, "?search=f", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search=f: %d", w.Code)
	}
	resp = ListGamesResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Items) == 0 {
		t.Fatalf("substring search should match titles containing 'f'")
	}

	// No match → empty items array, zero total.
	w = doList(t, r, "?search=zzzzzz", nil)
	resp = ListGamesResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Items == nil || len(resp.Items) != 0 || resp.Total != 0 {
		t.Fatalf("no-match page unexpected: %s", w.Body.String())
	}

	// Blank search → browse with full catalog total regardless of page size.
	w = doList(t, r, "?limit=2", nil)
	resp = ListGamesResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(resp.Items) != 2 || resp.Total <= 2 {
		t.Fatalf("browse page unexpected: items=%d total=%d", len(resp.Items), resp.Total)
	}
}
