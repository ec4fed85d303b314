// internal/app/features/weeklymenu/menu.go
package weeklymenu

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	weeklymenustore "github.com/dalemusser/menucasa/internal/app/store/weeklymenus"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type menuRequest struct {
	Fecha        string                    `json:"fecha"`
	Menu         map[string]models.DayMenu `json:"menu"`
	Ingredientes []any                     `json:"ingredientes"`
}

// parseFecha accepts RFC3339 or a bare YYYY-MM-DD date.
func parseFecha(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// scope extracts the caller's IDs, writing the error response itself.
func scope(w http.ResponseWriter, r *http.Request, errLog *uierrors.ErrorLogger) (userID, casaID primitive.ObjectID, ok bool) {
	su, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		errLog.Unauthorized(w, "")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	casaID, err = primitive.ObjectIDFromHex(su.CasaID)
	if err != nil {
		errLog.Forbidden(w, "no casa assigned")
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return userID, casaID, true
}

// sanitizeMenu strips markup from every slot name.
func sanitizeMenu(menu map[string]models.DayMenu) map[string]models.DayMenu {
	out := make(map[string]models.DayMenu, len(menu))
	for day, dm := range menu {
		dm.Almuerzo = sanitize.Plain(dm.Almuerzo)
		dm.Cena = sanitize.Plain(dm.Cena)
		out[sanitize.Plain(day)] = dm
	}
	return out
}

// HandleSave stores the caller's plan for a week. One document per
// (user, week); resubmitting the same week overwrites in place.
// POST /api/weekly-menu
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	userID, casaID, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}

	var req menuRequest
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
	if len(req.Menu) == 0 {
		h.ErrLog.BadRequest(w, "menu must contain at least one day")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "save weekly menu")
	defer cancel()

	menu := models.WeeklyMenu{
		Fecha:        fecha,
		Menu:         sanitizeMenu(req.Menu),
		Ingredientes: sanitize.PlainAll(normalize.IngredientNames(req.Ingredientes)),
		UserID:       userID,
		CasaID:       casaID,
	}
	saved, created, err := h.Menus.Upsert(ctx, menu)
	if err != nil {
		h.ErrLog.ServerError(w, r, "save weekly menu", err)
		return
	}

	h.notifySaved(userID, saved)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	uierrors.JSON(w, status, map[string]any{
		"weeklyMenu": saved,
		"created":    created,
	})
}

// HandleList returns the caller's plans, newest week first.
// GET /api/weekly-menu
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list weekly menus")
	defer cancel()

	menus, err := h.Menus.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list weekly menus", err)
		return
	}
	if menus == nil {
		menus = []models.WeeklyMenu{}
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"weeklyMenus": menus})
}

// ownedMenu parses {id} and loads the menu if the caller owns it.
func (h *Handler) ownedMenu(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) (models.WeeklyMenu, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid menu id")
		return models.WeeklyMenu{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load weekly menu")
	defer cancel()

	menu, err := h.Menus.GetOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, weeklymenustore.ErrNotFound) {
			h.ErrLog.NotFound(w, "weekly menu not found")
		} else {
			h.ErrLog.ServerError(w, r, "load weekly menu", err)
		}
		return models.WeeklyMenu{}, false
	}
	return menu, true
}

// HandleGet returns one of the caller's plans.
// GET /api/weekly-menu/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}
	menu, ok := h.ownedMenu(w, r, userID)
	if !ok {
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"weeklyMenu": menu})
}

// HandleUpdate overwrites the menu and shopping list of an owned plan.
// PUT /api/weekly-menu/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, casaID, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}
	menu, ok := h.ownedMenu(w, r, userID)
	if !ok {
		return
	}

	var req menuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	if len(req.Menu) == 0 {
		h.ErrLog.BadRequest(w, "menu must contain at least one day")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "update weekly menu")
	defer cancel()

	// Fecha is the identity of the plan and does not change on PUT.
	menu.Menu = sanitizeMenu(req.Menu)
	menu.Ingredientes = sanitize.PlainAll(normalize.IngredientNames(req.Ingredientes))
	menu.CasaID = casaID
	saved, _, err := h.Menus.Upsert(ctx, menu)
	if err != nil {
		h.ErrLog.ServerError(w, r, "update weekly menu", err)
		return
	}

	h.notifySaved(userID, saved)

	uierrors.JSON(w, http.StatusOK, map[string]any{"weeklyMenu": saved})
}

// HandleDelete removes one of the caller's plans.
// DELETE /api/weekly-menu/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid menu id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete weekly menu")
	defer cancel()

	deleted, err := h.Menus.Delete(ctx, id, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "delete weekly menu", err)
		return
	}
	if deleted == 0 {
		h.ErrLog.NotFound(w, "weekly menu not found")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
