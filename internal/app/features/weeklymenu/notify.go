// internal/app/features/weeklymenu/notify.go
package weeklymenu

import (
	"context"
	"sort"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/menucasa/internal/app/system/mailer"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// Spanish weekday order for the summary email. Keys are folded so
// accented spellings ("miércoles", "sábado") sort the same.
var dayRank = map[string]int{
	"lunes":     0,
	"martes":    1,
	"miercoles": 2,
	"jueves":    3,
	"viernes":   4,
	"sabado":    5,
	"domingo":   6,
}

// sortedDays returns the plan's day keys in weekday order. Unknown
// keys sort after the known week, alphabetically.
func sortedDays(menu map[string]models.DayMenu) []string {
	days := make([]string, 0, len(menu))
	for day := range menu {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		ri, iok := dayRank[text.Fold(days[i])]
		rj, jok := dayRank[text.Fold(days[j])]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		}
		return days[i] < days[j]
	})
	return days
}

func orderedDays(menu map[string]models.DayMenu) []mailer.WeeklyMenuDay {
	days := sortedDays(menu)
	out := make([]mailer.WeeklyMenuDay, 0, len(days))
	for _, day := range days {
		dm := menu[day]
		out = append(out, mailer.WeeklyMenuDay{
			Day:    day,
			Lunch:  dm.Almuerzo,
			Dinner: dm.Cena,
		})
	}
	return out
}

// notifySaved emails the owner a summary of the saved plan. Best
// effort in a goroutine; a failed send never fails the request.
func (h *Handler) notifySaved(userID primitive.ObjectID, menu models.WeeklyMenu) {
	if !h.Mailer.Enabled() {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
		defer cancel()

		user, err := h.Users.GetByID(ctx, userID)
		if err != nil {
			h.Log.Warn("weekly menu email: load user", zap.Error(err))
			return
		}

		email := mailer.BuildWeeklyMenuEmail(mailer.WeeklyMenuEmailData{
			SiteName:    h.SiteName,
			UserName:    user.Name,
			WeekOf:      menu.Fecha.Format("January 2, 2006"),
			Days:        orderedDays(menu.Menu),
			Ingredients: menu.Ingredientes,
		})
		email.To = user.Email
		if err := h.Mailer.Send(email); err != nil {
			h.Log.Warn("weekly menu email: send",
				zap.String("email", user.Email),
				zap.Error(err))
		}
	}()
}
