package discover

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
	"github.com/dalemusser/menucasa/internal/testutil"
)

func TestSearchCatalog_MatchesIngredients(t *testing.T) {
	got := searchCatalog("garbanzos")

	if len(got) != 2 {
		t.Fatalf("matches = %d, want 2: %v", len(got), got)
	}
	names := map[string]bool{}
	for _, s := range got {
		names[s.Name] = true
	}
	if !names["Curry de garbanzos"] || !names["Garbanzos con espinacas"] {
		t.Errorf("unexpected matches: %v", got)
	}
}

func TestSearchCatalog_CaseInsensitiveAndCapped(t *testing.T) {
	// "cebolla" shows up in most recipes; the list stays capped.
	got := searchCatalog("CEBOLLA")
	if len(got) == 0 || len(got) > maxSuggestions {
		t.Errorf("matches = %d, want between 1 and %d", len(got), maxSuggestions)
	}

	if got := searchCatalog("xyzzy"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestTopSuggestions_FlattensBestCategories(t *testing.T) {
	got := topSuggestions([]string{"sopa", "arroz", "pasta", "carne", "pollo"})

	if len(got) > maxSuggestions {
		t.Fatalf("suggestions = %d, want at most %d", len(got), maxSuggestions)
	}
	if len(got) != 6 {
		t.Fatalf("suggestions = %d, want 6 from the top 3 categories", len(got))
	}
	if got[0].Type != "sopa" {
		t.Errorf("first suggestion type = %q, want best category first", got[0].Type)
	}
}

func newDiscoverHandler(est *nutrition.Estimator) *Handler {
	logger := zap.NewNop()
	return NewHandler(nil, est, uierrors.NewErrorLogger(logger), logger)
}

func TestHandleDiscover_ClassifierRanked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"labels": []string{"sopa", "verduras", "ensalada", "pasta", "carne", "pollo", "pescado", "vegetariano", "arroz", "legumbres"},
			"scores": []float64{0.4, 0.2, 0.1, 0.08, 0.06, 0.05, 0.04, 0.03, 0.02, 0.02},
		})
	}))
	defer srv.Close()

	h := newDiscoverHandler(nutrition.New("test-token", zap.NewNop()).WithURL(srv.URL))

	req := testutil.NewJSONRequest("POST", "/api/discover-meals", `{"query":"algo calentito"}`)
	rec := testutil.NewRecorder()

	h.HandleDiscover(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Suggestions  []Suggestion `json:"suggestions"`
		UsedFallback bool         `json:"usedFallback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.UsedFallback {
		t.Error("classifier path should not report usedFallback")
	}
	if len(resp.Suggestions) != 6 {
		t.Fatalf("suggestions = %d, want 6", len(resp.Suggestions))
	}
	if resp.Suggestions[0].Type != "sopa" {
		t.Errorf("first type = %q, want sopa", resp.Suggestions[0].Type)
	}
}

func TestHandleDiscover_FallbackWhenUnconfigured(t *testing.T) {
	h := newDiscoverHandler(nutrition.New("", zap.NewNop()))

	req := testutil.NewJSONRequest("POST", "/api/discover-meals", `{"query":"pollo"}`)
	rec := testutil.NewRecorder()

	h.HandleDiscover(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"usedFallback":true`)
	rec.AssertContains(t, "Pollo al ajillo")
}

func TestHandleDiscover_FallbackOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := newDiscoverHandler(nutrition.New("test-token", zap.NewNop()).WithURL(srv.URL))

	req := testutil.NewJSONRequest("POST", "/api/discover-meals", `{"query":"salmón"}`)
	rec := testutil.NewRecorder()

	h.HandleDiscover(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"usedFallback":true`)
	rec.AssertContains(t, "Salmón al horno")
}

func TestHandleDiscover_EmptyQuery(t *testing.T) {
	h := newDiscoverHandler(nutrition.New("", zap.NewNop()))

	req := testutil.NewJSONRequest("POST", "/api/discover-meals", `{"query":"  "}`)
	rec := testutil.NewRecorder()

	h.HandleDiscover(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}
