package publicapi_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/features/publicapi"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
	"github.com/dalemusser/menucasa/internal/domain/models"
	"github.com/dalemusser/menucasa/internal/testutil"
)

const testKey = "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"

func newTestHandler(t *testing.T) (*publicapi.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	handler := publicapi.NewHandler(db, ratelimit.New(100, time.Minute), errLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

// exportTarget builds the middleware-wrapped export handler.
func exportTarget(h *publicapi.Handler) http.Handler {
	return h.RequireAPIKey(http.HandlerFunc(h.HandleExportMeals))
}

func seedPlan(t *testing.T, fixtures *testutil.Fixtures) models.Casa {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Alegre", user.ID)
	fixtures.CreateAPIKey(ctx, testKey, "feed", user.ID, casa.ID)

	// Week of Monday 2025-01-06.
	fixtures.CreateWeeklyMenu(ctx, user.ID, casa.ID,
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		map[string]models.DayMenu{
			"lunes":     {Almuerzo: "Asado", Cena: "Sopa"},
			"miercoles": {Cena: "Pasta"},
			"domingo":   {Almuerzo: "Pollo"},
		})
	return casa
}

func TestExportMeals_MissingKey401(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewRequest("GET", "/api/public/meals?startDate=2025-01-06&endDate=2025-01-12")
	rec := testutil.NewRecorder()

	exportTarget(handler).ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestExportMeals_UnknownKey401(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	seedPlan(t, fixtures)

	req := testutil.NewRequest("GET", "/api/public/meals?startDate=2025-01-06&endDate=2025-01-12")
	req.Header.Set("x-api-key", strings.Repeat("00", 32))
	rec := testutil.NewRecorder()

	exportTarget(handler).ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusUnauthorized)
}

func TestExportMeals_BadDates400(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	seedPlan(t, fixtures)

	for _, target := range []string{
		"/api/public/meals",
		"/api/public/meals?startDate=2025-01-06",
		"/api/public/meals?startDate=enero&endDate=2025-01-12",
		"/api/public/meals?startDate=2025-01-12&endDate=2025-01-06",
	} {
		req := testutil.NewRequest("GET", target)
		req.Header.Set("x-api-key", testKey)
		rec := testutil.NewRecorder()

		exportTarget(handler).ServeHTTP(rec.ResponseRecorder, req)

		rec.AssertStatus(t, http.StatusBadRequest)
	}
}

func TestExportMeals_DayEntriesInRange(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	seedPlan(t, fixtures)

	// Monday through Friday: lunes and miercoles fall inside, domingo
	// does not.
	req := testutil.NewRequest("GET", "/api/public/meals?startDate=2025-01-06&endDate=2025-01-10")
	req.Header.Set("x-api-key", testKey)
	rec := testutil.NewRecorder()

	exportTarget(handler).ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var days []struct {
		Date      string `json:"date"`
		DayOfWeek string `json:"dayOfWeek"`
		Meals     struct {
			Lunch  *string `json:"lunch"`
			Dinner *string `json:"dinner"`
		} `json:"meals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &days); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2 (lunes, miercoles)", len(days))
	}
	if days[0].Date != "2025-01-06" || days[0].DayOfWeek != "lunes" {
		t.Errorf("first day = %+v, want lunes 2025-01-06", days[0])
	}
	if days[0].Meals.Lunch == nil || *days[0].Meals.Lunch != "Asado" {
		t.Errorf("lunes lunch = %v, want Asado", days[0].Meals.Lunch)
	}
	if days[1].Date != "2025-01-08" {
		t.Errorf("second day = %+v, want miercoles 2025-01-08", days[1])
	}
	if days[1].Meals.Lunch != nil {
		t.Errorf("miercoles lunch = %v, want null for the empty slot", days[1].Meals.Lunch)
	}

	// The hit stamps last_used on the key.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	key, err := handler.Keys.Verify(ctx, testKey)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if key.LastUsed == nil {
		t.Error("last_used not stamped")
	}
}

func TestExportMeals_RateLimited(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	seedPlan(t, fixtures)

	limited := handler.Limiter.Middleware(publicapi.HeaderKey)(exportTarget(handler))

	var last *testutil.ResponseRecorder
	for i := 0; i < 101; i++ {
		req := testutil.NewRequest("GET", "/api/public/meals?startDate=2025-01-06&endDate=2025-01-10")
		req.Header.Set("x-api-key", testKey)
		last = testutil.NewRecorder()
		limited.ServeHTTP(last.ResponseRecorder, req)
	}

	last.AssertStatus(t, http.StatusTooManyRequests)
}
