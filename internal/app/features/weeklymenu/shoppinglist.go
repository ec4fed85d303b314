// internal/app/features/weeklymenu/shoppinglist.go
package weeklymenu

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// slotNames walks the plan's days in weekday order and yields every
// non-empty meal name, lunch before dinner within a day. Map iteration
// would make the derived list order vary between calls.
func slotNames(menu map[string]models.DayMenu) []string {
	names := make([]string, 0, len(menu)*2)
	for _, day := range sortedDays(menu) {
		dm := menu[day]
		if dm.Almuerzo != "" {
			names = append(names, dm.Almuerzo)
		}
		if dm.Cena != "" {
			names = append(names, dm.Cena)
		}
	}
	return names
}

// deriveShoppingList flattens the ingredients of every planned meal
// into a deduplicated list, preserving order of first appearance.
// Names that match no catalog meal are skipped.
func (h *Handler) deriveShoppingList(ctx context.Context, casaID primitive.ObjectID, menu models.WeeklyMenu) ([]string, error) {
	seen := make(map[string]struct{})
	list := []string{}
	for _, name := range slotNames(menu.Menu) {
		meal, err := h.Meals.GetByName(ctx, casaID, name)
		if err != nil {
			if errors.Is(err, mealstore.ErrNotFound) {
				continue
			}
			return nil, err
		}
		for _, ing := range meal.Ingredients {
			if _, dup := seen[ing]; dup {
				continue
			}
			seen[ing] = struct{}{}
			list = append(list, ing)
		}
	}
	return list, nil
}

// HandleShoppingList derives and persists the flat ingredient list for
// one of the caller's plans.
// GET /api/weekly-menu/shopping-list?id=
func (h *Handler) HandleShoppingList(w http.ResponseWriter, r *http.Request) {
	userID, casaID, ok := scope(w, r, h.ErrLog)
	if !ok {
		return
	}
	id, err := primitive.ObjectIDFromHex(r.URL.Query().Get("id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid menu id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "shopping list")
	defer cancel()

	menu, err := h.Menus.GetOwned(ctx, id, userID)
	if err != nil {
		h.ErrLog.NotFound(w, "weekly menu not found")
		return
	}

	list, err := h.deriveShoppingList(ctx, casaID, menu)
	if err != nil {
		h.ErrLog.ServerError(w, r, "derive shopping list", err)
		return
	}
	if err := h.Menus.SetIngredientes(ctx, id, userID, list); err != nil {
		h.ErrLog.ServerError(w, r, "store shopping list", err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"ingredientes": list})
}
