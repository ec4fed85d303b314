// internal/app/features/meals/nutrition.go
package meals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type nutritionRequest struct {
	Ingredients []any `json:"ingredients"`
}

// HandleEstimate classifies an ingredient list into the coarse macro
// buckets. It does not persist anything.
// POST /api/nutrition
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	var req nutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	names := normalize.IngredientNames(req.Ingredients)
	if len(names) == 0 {
		h.ErrLog.BadRequest(w, "at least one ingredient is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "estimate nutrition")
	defer cancel()

	info, err := h.Estimator.Estimate(ctx, strings.Join(names, ", "))
	if err != nil {
		if errors.Is(err, nutrition.ErrUnavailable) {
			h.ErrLog.Unavailable(w, r, "nutrition estimation unavailable", err)
			return
		}
		h.ErrLog.ServerError(w, r, "estimate nutrition", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"nutritionalInfo": info})
}

// batchFailure records one meal the recompute could not estimate.
type batchFailure struct {
	MealID string `json:"meal_id"`
	Name   string `json:"name"`
	Error  string `json:"error"`
}

// HandleRecompute estimates macros for every meal in the casa that has
// none yet, normalizing legacy type values along the way. Per-meal
// failures are collected and reported; they do not abort the batch.
// POST /api/meals/calculate-nutrition
func (h *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	casaID, _, ok := casaScope(w, r, h.ErrLog)
	if !ok {
		return
	}
	if !h.Estimator.Enabled() {
		h.ErrLog.Unavailable(w, r, "nutrition estimation unavailable", nutrition.ErrUnavailable)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "recompute nutrition")
	defer cancel()

	normalized, err := h.Meals.NormalizeTypes(ctx, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "recompute: normalize types", err)
		return
	}
	if normalized > 0 {
		h.Log.Info("meal types normalized", zap.Int64("count", normalized))
	}

	pending, err := h.Meals.ListMissingNutrition(ctx, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "recompute: list meals", err)
		return
	}

	updated := make([]models.Meal, 0, len(pending))
	failures := []batchFailure{}
	for _, meal := range pending {
		input := meal.Name
		if len(meal.Ingredients) > 0 {
			input = strings.Join(meal.Ingredients, ", ")
		}
		info, err := h.Estimator.Estimate(ctx, input)
		if err != nil {
			failures = append(failures, batchFailure{
				MealID: meal.ID.Hex(),
				Name:   meal.Name,
				Error:  err.Error(),
			})
			continue
		}
		if err := h.Meals.SetNutrition(ctx, meal.ID, info); err != nil {
			failures = append(failures, batchFailure{
				MealID: meal.ID.Hex(),
				Name:   meal.Name,
				Error:  err.Error(),
			})
			continue
		}
		meal.NutritionalInfo = &info
		updated = append(updated, meal)
	}

	h.Log.Info("nutrition recompute finished",
		zap.Int("updated", len(updated)),
		zap.Int("failed", len(failures)))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"updated":  updated,
		"failures": failures,
	})
}
