// internal/app/features/weeklymenu/generate.go
package weeklymenu

import (
	"encoding/json"
	"math/rand"
	"net/http"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// Placeholder slot value when the catalog has no candidate for a meal
// time.
const noMealAvailable = "Sin comidas disponibles"

var defaultDays = []string{
	"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo",
}

type generateRequest struct {
	Fecha string   `json:"fecha"`
	Days  []string `json:"days,omitempty"`
}

// HandleGenerate builds and saves a random plan: for each day and meal
// time, a uniformly random meal of the casa matching that meal time.
// POST /api/weekly-menu/generate
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, casaID, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Fecha == "" {
		h.ErrLog.BadRequest(w, "fecha is required")
		return
	}
	fecha, err := parseFecha(req.Fecha)
	if err != nil {
		h.ErrLog.BadRequest(w, "fecha must be RFC3339 or YYYY-MM-DD")
		return
	}
	days := req.Days
	if len(days) == 0 {
		days = defaultDays
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "generate weekly menu")
	defer cancel()

	lunches, err := h.Meals.ListByCasa(ctx, casaID, mealstore.ListFilter{MealTime: models.MealTimeAlmuerzo})
	if err != nil {
		h.ErrLog.ServerError(w, r, "generate: list lunches", err)
		return
	}
	dinners, err := h.Meals.ListByCasa(ctx, casaID, mealstore.ListFilter{MealTime: models.MealTimeCena})
	if err != nil {
		h.ErrLog.ServerError(w, r, "generate: list dinners", err)
		return
	}

	pickFrom := func(pool []models.Meal) string {
		if len(pool) == 0 {
			return noMealAvailable
		}
		return pool[rand.Intn(len(pool))].Name
	}

	menu := make(map[string]models.DayMenu, len(days))
	for _, day := range days {
		menu[day] = models.DayMenu{
			Almuerzo: pickFrom(lunches),
			Cena:     pickFrom(dinners),
		}
	}

	saved, created, err := h.Menus.Upsert(ctx, models.WeeklyMenu{
		Fecha:  fecha,
		Menu:   menu,
		UserID: userID,
		CasaID: casaID,
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "generate: save weekly menu", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	uierrors.JSON(w, status, map[string]any{
		"weeklyMenu": saved,
		"created":    created,
	})
}
