// internal/app/features/publicapi/meals.go
package publicapi

import (
	"net/http"
	"sort"
	"time"

	"github.com/dalemusser/waffle/pantry/text"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// dayOffset maps folded Spanish day keys to their offset from the
// week anchor (lunes).
var dayOffset = map[string]int{
	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"jueves":    3,
	"viernes":   4,
	"sabado":    5,
	"domingo":   6,
}

type exportMeals struct {
	Lunch  *string `json:"lunch"`
	Dinner *string `json:"dinner"`
}

type exportDay struct {
	Date      string      `json:"date"`
	DayOfWeek string      `json:"dayOfWeek"`
	Meals     exportMeals `json:"meals"`
	when      time.Time
}

// dayDate resolves the calendar date of one day entry: an explicit
// per-day fecha wins, otherwise the day name's offset from the week
// anchor.
func dayDate(anchor time.Time, dayKey string, dm models.DayMenu) (time.Time, bool) {
	if dm.Fecha != nil {
		u := dm.Fecha.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC), true
	}
	off, ok := dayOffset[text.Fold(dayKey)]
	if !ok {
		return time.Time{}, false
	}
	return anchor.AddDate(0, 0, off), true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// HandleExportMeals returns the key's casa plan as one entry per day
// inside [startDate, endDate].
// GET /api/public/meals?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *Handler) HandleExportMeals(w http.ResponseWriter, r *http.Request) {
	key, ok := keyFromContext(r.Context())
	if !ok {
		h.ErrLog.Unauthorized(w, "")
		return
	}

	q := r.URL.Query()
	start, err := time.Parse("2006-01-02", q.Get("startDate"))
	if err != nil {
		h.ErrLog.BadRequest(w, "startDate must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", q.Get("endDate"))
	if err != nil {
		h.ErrLog.BadRequest(w, "endDate must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		h.ErrLog.BadRequest(w, "endDate must not precede startDate")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "export meals")
	defer cancel()

	menus, err := h.Menus.ListByCasaInRange(ctx, key.CasaID, start, end)
	if err != nil {
		h.ErrLog.ServerError(w, r, "export meals", err)
		return
	}

	days := []exportDay{}
	for _, menu := range menus {
		for dayKey, dm := range menu.Menu {
			when, ok := dayDate(menu.Fecha, dayKey, dm)
			if !ok || when.Before(start) || when.After(end) {
				continue
			}
			days = append(days, exportDay{
				Date:      when.Format("2006-01-02"),
				DayOfWeek: dayKey,
				Meals: exportMeals{
					Lunch:  optional(dm.Almuerzo),
					Dinner: optional(dm.Cena),
				},
				when: when,
			})
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].when.Before(days[j].when) })

	uierrors.JSON(w, http.StatusOK, days)
}
