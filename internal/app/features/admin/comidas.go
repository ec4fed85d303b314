// internal/app/features/admin/comidas.go
package admin

import (
	"net/http"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

// HandleMealCount reports catalog totals, overall and per casa.
// GET /api/admin/comidas/count
func (h *Handler) HandleMealCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin meal count")
	defer cancel()

	total, err := h.Meals.Count(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin meal count", err)
		return
	}

	casas, err := h.Casas.List(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin meal count: casas", err)
		return
	}
	perCasa := make(map[string]int64, len(casas))
	for _, c := range casas {
		n, err := h.Meals.CountByCasa(ctx, c.ID)
		if err != nil {
			h.ErrLog.ServerError(w, r, "admin meal count: per casa", err)
			return
		}
		perCasa[c.Nombre] = n
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"perCasa": perCasa,
	})
}
