package meals_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/features/meals"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
	"github.com/dalemusser/menucasa/internal/domain/models"
	"github.com/dalemusser/menucasa/internal/testutil"
)

func newTestHandler(t *testing.T, est *nutrition.Estimator) (*meals.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	if est == nil {
		est = nutrition.New("", logger) // disabled
	}

	handler := meals.NewHandler(db, sessionMgr, est, errLog, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

// fakeClassifier answers every classification with "high" labels so
// estimates land in the high buckets.
func fakeClassifier(t *testing.T) *nutrition.Estimator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"labels": []string{"high calorie", "high protein", "high carbohydrate", "high fat"},
			"scores": []float64{0.9, 0.9, 0.9, 0.9},
		})
	}))
	t.Cleanup(srv.Close)
	return nutrition.New("test-token", zap.NewNop()).WithURL(srv.URL)
}

func casaWithCreator(t *testing.T, fixtures *testutil.Fixtures) (models.User, models.Casa) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	user := fixtures.CreateUser(ctx, "Ana", "ana@example.com", "secret-pass")
	casa := fixtures.CreateCasa(ctx, "Casa Alegre", user.ID)
	return user, casa
}

func TestHandleCreate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewJSONRequest("POST", "/api/meals",
		`{"name":"Pollo al horno","type":"Pollo","mealTime":"Cena","ingredients":["pollo",{"name":"papas"},""]}`)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	var resp struct {
		Meal models.Meal `json:"meal"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Meal.Type != "pollo" {
		t.Errorf("type = %q, want lowercased %q", resp.Meal.Type, "pollo")
	}
	if len(resp.Meal.Ingredients) != 2 {
		t.Errorf("ingredients = %v, want the two non-empty names", resp.Meal.Ingredients)
	}
	if resp.Meal.CasaID != casa.ID {
		t.Errorf("casa_id = %s, want %s", resp.Meal.CasaID.Hex(), casa.ID.Hex())
	}
}

func TestHandleCreate_LegacyCarnes(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewJSONRequest("POST", "/api/meals",
		`{"name":"Asado","type":"carnes","mealTime":"Almuerzo","ingredients":["carne"]}`)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, `"type":"carne"`)
}

func TestHandleCreate_InvalidType(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewJSONRequest("POST", "/api/meals",
		`{"name":"Sopa","type":"postre","mealTime":"Cena","ingredients":[]}`)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleCreate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleGet_CrossCasa404(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner, casa := casaWithCreator(t, fixtures)
	meal := fixtures.CreateMeal(ctx, owner.ID, casa.ID, "Sopa", "otros", "Cena", []string{"agua"})

	other := fixtures.CreateUser(ctx, "Beto", "beto@example.com", "secret-pass")
	otherCasa := fixtures.CreateCasa(ctx, "Otra Casa", other.ID)

	req := testutil.NewRequest("GET", "/api/meals/"+meal.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", meal.ID.Hex())
	req = testutil.WithUser(req, testutil.AsTestUser(other.ID, other.Name, other.Email, &otherCasa.ID))
	rec := testutil.NewRecorder()

	handler.HandleGet(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleList_FilterByMealTime(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, casa := casaWithCreator(t, fixtures)
	fixtures.CreateMeal(ctx, user.ID, casa.ID, "Asado", "carne", "Almuerzo", nil)
	fixtures.CreateMeal(ctx, user.ID, casa.ID, "Sopa", "otros", "Cena", nil)

	req := testutil.NewRequest("GET", "/api/meals?mealTime=Cena")
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleList(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Meals []models.Meal `json:"meals"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Meals) != 1 || resp.Meals[0].Name != "Sopa" {
		t.Errorf("meals = %+v, want only Sopa", resp.Meals)
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	user, casa := casaWithCreator(t, fixtures)

	id := primitive.NewObjectID().Hex()
	req := testutil.NewRequest("DELETE", "/api/meals/"+id)
	req = testutil.WithChiURLParam(req, "id", id)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleDelete(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleEstimate_Disabled503(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewJSONRequest("POST", "/api/nutrition", `{"ingredients":["pollo","arroz"]}`)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleEstimate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusServiceUnavailable)
}

func TestHandleEstimate_NoIngredients(t *testing.T) {
	handler, fixtures := newTestHandler(t, fakeClassifier(t))
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewJSONRequest("POST", "/api/nutrition", `{"ingredients":["", {"label":"x"}]}`)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleEstimate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleEstimate_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t, fakeClassifier(t))
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewJSONRequest("POST", "/api/nutrition", `{"ingredients":["pollo","arroz"]}`)
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleEstimate(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Info models.NutritionalInfo `json:"nutritionalInfo"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Info.Calories != 500 || resp.Info.Protein != 30 {
		t.Errorf("info = %+v, want high buckets", resp.Info)
	}
}

func TestHandleRecompute(t *testing.T) {
	handler, fixtures := newTestHandler(t, fakeClassifier(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, casa := casaWithCreator(t, fixtures)
	fixtures.CreateMeal(ctx, user.ID, casa.ID, "Asado", "carnes", "Almuerzo", []string{"carne"})
	fixtures.CreateMeal(ctx, user.ID, casa.ID, "Sopa", "otros", "Cena", []string{"agua"})

	req := testutil.NewRequest("POST", "/api/meals/calculate-nutrition")
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleRecompute(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Updated  []models.Meal `json:"updated"`
		Failures []any         `json:"failures"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Updated) != 2 {
		t.Errorf("updated = %d, want 2", len(resp.Updated))
	}
	if len(resp.Failures) != 0 {
		t.Errorf("failures = %v, want none", resp.Failures)
	}

	// Legacy plural type got collapsed.
	meals2, err := handler.Meals.ListByCasa(ctx, casa.ID, mealstore.ListFilter{Type: "carne"})
	if err != nil {
		t.Fatalf("ListByCasa: %v", err)
	}
	if len(meals2) != 1 || meals2[0].Name != "Asado" {
		t.Errorf("carne meals = %+v, want normalized Asado", meals2)
	}
}

func TestHandleRecompute_Disabled503(t *testing.T) {
	handler, fixtures := newTestHandler(t, nil)
	user, casa := casaWithCreator(t, fixtures)

	req := testutil.NewRequest("POST", "/api/meals/calculate-nutrition")
	req = testutil.WithUser(req, testutil.AsTestUser(user.ID, user.Name, user.Email, &casa.ID))
	rec := testutil.NewRecorder()

	handler.HandleRecompute(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusServiceUnavailable)
}
