package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/go-recommender/internal/cfg"
	"github.com/DRSN-tech/go-recommender/internal/domain"
	"github.com/DRSN-tech/go-recommender/internal/usecase"
	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/DRSN-tech/go-recommender/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

type fakeUC struct {
	recommendErr error
	items        []domain.ScoredProduct
	gotReq       *usecase.RecommendReq

	prefs    *domain.UserPreferences
	prefsErr error
	gotPrefs *usecase.UpsertPreferencesReq

	snapshot    *usecase.SnapshotInfo
	snapshotErr error
}

func (f *fakeUC) Recommend(_ context.Context, req *usecase.RecommendReq) (*usecase.RecommendRes, error) {
	f.gotReq = req
	if f.recommendErr != nil {
		return nil, f.recommendErr
	}
	items := f.items
	if req.TopN != nil && *req.TopN < len(items) {
		items = items[:max(*req.TopN, 0)]
	}
	return usecase.NewRecommendRes(req.UserID, domain.VariantFavorites, items), nil
}

func (f *fakeUC) UpsertPreferences(_ context.Context, req *usecase.UpsertPreferencesReq) (*usecase.UpsertPreferencesRes, error) {
	f.gotPrefs = req
	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	p := domain.NewUserPreferences(req.UserID, req.FavoriteColors, req.PreferredStyles, req.PreferredCategories)
	return usecase.NewUpsertPreferencesRes(p, false), nil
}

func (f *fakeUC) GetPreferences(_ context.Context, _ int64) (*domain.UserPreferences, error) {
	return f.prefs, f.prefsErr
}

func (f *fakeUC) ExportCatalogSnapshot(_ context.Context) (*usecase.SnapshotInfo, error) {
	return f.snapshot, f.snapshotErr
}

func scored(id int64, score float64) domain.ScoredProduct {
	p := domain.NewProduct(id, "item", "shirts", "red cotton", decimal.NewFromInt(10))
	return domain.ScoredProduct{Product: *p, Score: score}
}

func newTestServer(t *testing.T, uc usecase.RecommendationUC) *httptest.Server {
	t.Helper()

	mux := chi.NewRouter()
	conf := &cfg.HTTPConfig{
		CORSOrigins: []string{"*"},
		SwaggerURL:  "http://localhost/swagger/doc.json",
		RateLimit:   0,
		RateWindow:  time.Minute,
	}
	NewRouter(mux, conf, logger.NewNopLogger()).Init(uc, string(domain.VariantFavorites))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestLegacyRecommend(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		ucErr      error
		wantCode   int
		wantStatus string
		wantIDs    int
	}{
		{name: "success", body: `{"user_id": 7, "top_n": 2}`, wantCode: http.StatusOK, wantStatus: "success", wantIDs: 2},
		{name: "default top_n", body: `{"user_id": 7}`, wantCode: http.StatusOK, wantStatus: "success", wantIDs: 3},
		{name: "missing user id", body: `{}`, wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "negative user id", body: `{"user_id": -1}`, wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "malformed body", body: `{"user_id": "seven"}`, wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "no profile", body: `{"user_id": 7}`, ucErr: e.ErrNoProfile, wantCode: http.StatusBadRequest, wantStatus: "error"},
		{name: "upstream down", body: `{"user_id": 7}`, ucErr: e.ErrUpstreamFetch, wantCode: http.StatusBadGateway, wantStatus: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUC{
				recommendErr: tt.ucErr,
				items:        []domain.ScoredProduct{scored(3, 0.9), scored(1, 0.5), scored(2, 0.1)},
			}
			srv := newTestServer(t, uc)

			resp, out := do(t, http.MethodPost, srv.URL+"/recommend", tt.body)

			if resp.StatusCode != tt.wantCode {
				t.Fatalf("status code = %d, want %d (%v)", resp.StatusCode, tt.wantCode, out)
			}
			if out["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", out["status"], tt.wantStatus)
			}
			if tt.wantStatus == "error" {
				if detail, _ := out["detail"].(string); detail == "" {
					t.Error("error response must carry a detail")
				}
				return
			}
			ids, _ := out["recommendations"].([]any)
			if len(ids) != tt.wantIDs {
				t.Errorf("recommendations = %v, want %d ids", ids, tt.wantIDs)
			}
			if ids[0].(float64) != 3 {
				t.Errorf("first recommendation = %v, want 3", ids[0])
			}
		})
	}
}

func TestRecommendForUser_Detailed(t *testing.T) {
	uc := &fakeUC{items: []domain.ScoredProduct{scored(3, 0.9), scored(1, 0.5)}}
	srv := newTestServer(t, uc)

	resp, out := do(t, http.MethodGet, srv.URL+"/api/v1/users/42/recommendations?top_n=1&detailed=true", "")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200 (%v)", resp.StatusCode, out)
	}
	if uc.gotReq.UserID != 42 || uc.gotReq.TopN == nil || *uc.gotReq.TopN != 1 {
		t.Errorf("usecase got %+v, want user 42 top_n 1", uc.gotReq)
	}
	items, _ := out["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("items = %v, want 1", items)
	}
	item := items[0].(map[string]any)
	if item["similarity"].(float64) != 0.9 {
		t.Errorf("similarity = %v, want 0.9", item["similarity"])
	}
}

func TestRecommendForUser_BadParams(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "non numeric user", path: "/api/v1/users/abc/recommendations"},
		{name: "zero user", path: "/api/v1/users/0/recommendations"},
		{name: "bad top_n", path: "/api/v1/users/5/recommendations?top_n=many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUC{}
			srv := newTestServer(t, uc)

			resp, _ := do(t, http.MethodGet, srv.URL+tt.path, "")
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status code = %d, want 400", resp.StatusCode)
			}
			if uc.gotReq != nil {
				t.Error("usecase must not be called on invalid params")
			}
		})
	}
}

func TestRecommendByBody_Compact(t *testing.T) {
	uc := &fakeUC{items: []domain.ScoredProduct{scored(5, 1)}}
	srv := newTestServer(t, uc)

	resp, out := do(t, http.MethodPost, srv.URL+"/api/v1/recommendations", `{"user_id": 9}`)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d, want 200", resp.StatusCode)
	}
	if _, ok := out["items"]; ok {
		t.Error("items must be omitted unless detailed is requested")
	}
	if out["variant"] != "favorites" {
		t.Errorf("variant = %v, want favorites", out["variant"])
	}
}

func TestPreferences(t *testing.T) {
	t.Run("upsert", func(t *testing.T) {
		uc := &fakeUC{}
		srv := newTestServer(t, uc)

		body := `{"favorite_colors":"red","preferred_styles":"casual","preferred_categories":"shirts,jeans"}`
		resp, out := do(t, http.MethodPut, srv.URL+"/api/v1/users/3/preferences", body)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status code = %d, want 200 (%v)", resp.StatusCode, out)
		}
		if uc.gotPrefs.UserID != 3 || uc.gotPrefs.PreferredCategories != "shirts,jeans" {
			t.Errorf("usecase got %+v", uc.gotPrefs)
		}
		if out["changed"] != true {
			t.Errorf("changed = %v, want true", out["changed"])
		}
	})

	t.Run("get unknown user", func(t *testing.T) {
		srv := newTestServer(t, &fakeUC{prefsErr: e.ErrUserNotFound})

		resp, _ := do(t, http.MethodGet, srv.URL+"/api/v1/users/3/preferences", "")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status code = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("store not configured", func(t *testing.T) {
		srv := newTestServer(t, &fakeUC{prefsErr: e.ErrNotConfigured})

		resp, _ := do(t, http.MethodPut, srv.URL+"/api/v1/users/3/preferences", `{}`)
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("status code = %d, want 503", resp.StatusCode)
		}
	})
}

func TestExportSnapshot(t *testing.T) {
	uc := &fakeUC{snapshot: usecase.NewSnapshotInfo("catalog", "snapshots/products.json", 12, 2048)}
	srv := newTestServer(t, uc)

	resp, out := do(t, http.MethodPost, srv.URL+"/api/v1/catalog/snapshot", "")

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status code = %d, want 201", resp.StatusCode)
	}
	if out["products"].(float64) != 12 {
		t.Errorf("products = %v, want 12", out["products"])
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeUC{})

	resp, out := do(t, http.MethodGet, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || out["status"] != "ok" {
		t.Errorf("healthz = %d %v", resp.StatusCode, out)
	}
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: e.Wrap("op", e.ErrNoProfile), want: http.StatusBadRequest},
		{err: e.ErrUserNotFound, want: http.StatusBadRequest},
		{err: e.ErrInvalidTopN, want: http.StatusBadRequest},
		{err: e.Wrap("op", e.ErrUpstreamFetch), want: http.StatusBadGateway},
		{err: e.ErrCatalogUnavailable, want: http.StatusBadGateway},
		{err: e.ErrNotConfigured, want: http.StatusServiceUnavailable},
		{err: context.Canceled, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got, _ := ToHTTPResponse(tt.err); got != tt.want {
				t.Errorf("ToHTTPResponse(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
