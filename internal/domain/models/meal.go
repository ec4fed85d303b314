// internal/domain/models/meal.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meal types. Stored lowercase; the legacy plural "carnes" collapses to
// MealTypeCarne on write and during batch recompute.
const (
	MealTypeCarne       = "carne"
	MealTypePollo       = "pollo"
	MealTypePescado     = "pescado"
	MealTypeVegetariano = "vegetariano"
	MealTypePastas      = "pastas"
	MealTypeOtros       = "otros"
)

// Meal times.
const (
	MealTimeAlmuerzo = "Almuerzo"
	MealTimeCena     = "Cena"
)

// NutritionalInfo holds the coarse per-meal macro estimate.
type NutritionalInfo struct {
	Calories int `bson:"calories" json:"calories"`
	Protein  int `bson:"protein" json:"protein"`
	Carbs    int `bson:"carbs" json:"carbs"`
	Fat      int `bson:"fat" json:"fat"`
}

// Meal is a dish in a casa's catalog.
type Meal struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Type            string             `bson:"type" json:"type"`
	Ingredients     []string           `bson:"ingredients" json:"ingredients"`
	MealTime        string             `bson:"meal_time" json:"mealTime"`
	CasaID          primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	NutritionalInfo *NutritionalInfo   `bson:"nutritional_info,omitempty" json:"nutritionalInfo,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// ValidMealType reports whether t is one of the accepted (normalized)
// meal types.
func ValidMealType(t string) bool {
	switch t {
	case MealTypeCarne, MealTypePollo, MealTypePescado, MealTypeVegetariano, MealTypePastas, MealTypeOtros:
		return true
	}
	return false
}

// ValidMealTime reports whether t is Almuerzo or Cena.
func ValidMealTime(t string) bool {
	return t == MealTimeAlmuerzo || t == MealTimeCena
}
