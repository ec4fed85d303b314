// internal/app/features/meals/meal.go
package meals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// mealRequest accepts ingredients either as plain strings or as
// {name: ...} objects; both appear in the wild.
type mealRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	MealTime    string `json:"mealTime"`
	Ingredients []any  `json:"ingredients"`
}

// parse validates and canonicalizes the request into a Meal skeleton.
// The returned string is empty when valid, otherwise the 400 message.
func (req *mealRequest) parse() (models.Meal, string) {
	name := sanitize.Plain(req.Name)
	if name == "" {
		return models.Meal{}, "meal name is required"
	}
	mealType := normalize.MealType(req.Type)
	if !models.ValidMealType(mealType) {
		return models.Meal{}, "invalid meal type"
	}
	if !models.ValidMealTime(req.MealTime) {
		return models.Meal{}, "mealTime must be Almuerzo or Cena"
	}
	ingredients := sanitize.PlainAll(normalize.IngredientNames(req.Ingredients))
	return models.Meal{
		Name:        name,
		Type:        mealType,
		MealTime:    req.MealTime,
		Ingredients: ingredients,
	}, ""
}

// casaScope extracts the caller's casa ID, or writes a 403.
func casaScope(w http.ResponseWriter, r *http.Request, errLog *uierrors.ErrorLogger) (primitive.ObjectID, primitive.ObjectID, bool) {
	su, _ := auth.CurrentUser(r)
	casaID, err := primitive.ObjectIDFromHex(su.CasaID)
	if err != nil {
		errLog.Forbidden(w, "no casa assigned")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		errLog.Unauthorized(w, "")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return casaID, userID, true
}

// HandleList returns the casa's catalog, optionally filtered by type
// or meal time.
// GET /api/meals?type=&mealTime=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	casaID, _, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}

	filter := mealstore.ListFilter{
		Type:     normalize.MealType(r.URL.Query().Get("type")),
		MealTime: r.URL.Query().Get("mealTime"),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list meals")
	defer cancel()

	meals, err := h.Meals.ListByCasa(ctx, casaID, filter)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list meals", err)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"meals": meals})
}

// HandleCreate adds a meal to the casa's catalog.
// POST /api/meals
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	casaID, userID, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	meal, msg := req.parse()
	if msg != "" {
		h.ErrLog.BadRequest(w, msg)
		return
	}
	meal.CasaID = casaID
	meal.UserID = userID

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create meal")
	defer cancel()

	created, err := h.Meals.Create(ctx, meal)
	if err != nil {
		h.ErrLog.ServerError(w, r, "create meal", err)
		return
	}
	uierrors.JSON(w, http.StatusCreated, map[string]any{"meal": created})
}

// HandleGet returns one meal of the casa.
// GET /api/meals/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	casaID, _, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid meal id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get meal")
	defer cancel()

	meal, err := h.Meals.GetInCasa(ctx, id, casaID)
	if err != nil {
		if errors.Is(err, mealstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "meal not found")
			return
		}
		h.ErrLog.ServerError(w, r, "get meal", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"meal": meal})
}

// HandleUpdate rewrites a meal's editable fields.
// PUT /api/meals/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	casaID, _, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid meal id")
		return
	}

	var req mealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	meal, msg := req.parse()
	if msg != "" {
		h.ErrLog.BadRequest(w, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update meal")
	defer cancel()

	if err := h.Meals.Update(ctx, id, casaID, meal); err != nil {
		if errors.Is(err, mealstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "meal not found")
			return
		}
		h.ErrLog.ServerError(w, r, "update meal", err)
		return
	}

	updated, err := h.Meals.GetInCasa(ctx, id, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "update meal: reload", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"meal": updated})
}

// HandleDelete removes a meal from the casa's catalog.
// DELETE /api/meals/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	casaID, _, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid meal id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete meal")
	defer cancel()

	deleted, err := h.Meals.Delete(ctx, id, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "delete meal", err)
		return
	}
	if deleted == 0 {
		h.ErrLog.NotFound(w, "meal not found")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// HandleCount returns how many meals the casa has.
// GET /api/meals/count
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	casaID, _, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "count meals")
	defer cancel()

	n, err := h.Meals.CountByCasa(ctx, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "count meals", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"count": n})
}
