// internal/app/features/weeklymenu/nutrition.go
package weeklymenu

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// HandleNutrition sums the macro estimates over each day's two slots.
// Slots naming no catalog meal, or meals without an estimate,
// contribute zero.
// GET /api/weekly-menu/{id}/nutrition
func (h *Handler) HandleNutrition(w http.ResponseWriter, r *http.Request) {
	userID, casaID, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}
	menu, ok := h.ownedMenu(w, r, userID)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "menu nutrition summary")
	defer cancel()

	lookup := func(name string) models.NutritionalInfo {
		if name == "" {
			return models.NutritionalInfo{}
		}
		meal, err := h.Meals.GetByName(ctx, casaID, name)
		if err != nil || meal.NutritionalInfo == nil {
			if err != nil && !errors.Is(err, mealstore.ErrNotFound) {
				h.Log.Warn("nutrition summary lookup failed")
			}
			return models.NutritionalInfo{}
		}
		return *meal.NutritionalInfo
	}

	days := make(map[string]models.NutritionalInfo, len(menu.Menu))
	var total models.NutritionalInfo
	for day, dm := range menu.Menu {
		almuerzo := lookup(dm.Almuerzo)
		cena := lookup(dm.Cena)
		sum := models.NutritionalInfo{
			Calories: almuerzo.Calories + cena.Calories,
			Protein:  almuerzo.Protein + cena.Protein,
			Carbs:    almuerzo.Carbs + cena.Carbs,
			Fat:      almuerzo.Fat + cena.Fat,
		}
		days[day] = sum
		total.Calories += sum.Calories
		total.Protein += sum.Protein
		total.Carbs += sum.Carbs
		total.Fat += sum.Fat
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"total": total,
	})
}
