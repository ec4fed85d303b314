package weeklymenu

import (
	"reflect"
	"testing"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

func TestSlotNames_WeekdayOrder(t *testing.T) {
	menu := map[string]models.DayMenu{
		"domingo":   {Almuerzo: "a7", Cena: "c7"},
		"sábado":    {Almuerzo: "a6"},
		"viernes":   {Cena: "c5"},
		"jueves":    {Almuerzo: "a4", Cena: "c4"},
		"miércoles": {Almuerzo: "a3", Cena: "c3"},
		"martes":    {Almuerzo: "a2", Cena: "c2"},
		"lunes":     {Almuerzo: "a1", Cena: "c1"},
	}

	want := []string{"a1", "c1", "a2", "c2", "a3", "c3", "a4", "c4", "c5", "a6", "a7", "c7"}

	// Stable across calls; map iteration must not leak through.
	for i := 0; i < 5; i++ {
		if got := slotNames(menu); !reflect.DeepEqual(got, want) {
			t.Fatalf("slotNames = %v, want %v", got, want)
		}
	}
}
