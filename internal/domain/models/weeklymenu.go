// internal/domain/models/weeklymenu.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayMenu is one day's plan: a date plus the named meal for each slot.
// Empty slot strings mean "nothing planned".
type DayMenu struct {
	Fecha    *time.Time `bson:"fecha,omitempty" json:"fecha,omitempty"`
	Almuerzo string     `bson:"almuerzo,omitempty" json:"almuerzo,omitempty"`
	Cena     string     `bson:"cena,omitempty" json:"cena,omitempty"`
}

// WeeklyMenu is one user's plan anchored at Fecha (UTC start of day).
// The unique (user_id, fecha) index makes the planner upsert safe
// under concurrent submissions.
type WeeklyMenu struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Fecha        time.Time          `bson:"fecha" json:"fecha"`
	Menu         map[string]DayMenu `bson:"menu" json:"menu"`
	Ingredientes []string           `bson:"ingredientes" json:"ingredientes"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	CasaID       primitive.ObjectID `bson:"casa_id" json:"casa_id"`
}
