package mealstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/domain/models"
	"github.com/dalemusser/menucasa/internal/testutil"
)

func TestStore_GetInCasa_ScopedToHousehold(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	meal := fixtures.CreateMeal(ctx, primitive.NewObjectID(), casaID,
		"Asado", models.MealTypeCarne, models.MealTimeCena, []string{"carne", "sal"})

	if _, err := store.GetInCasa(ctx, meal.ID, casaID); err != nil {
		t.Errorf("same-casa lookup failed: %v", err)
	}
	if _, err := store.GetInCasa(ctx, meal.ID, primitive.NewObjectID()); !errors.Is(err, mealstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another casa, got %v", err)
	}
}

func TestStore_GetByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	fixtures.CreateMeal(ctx, primitive.NewObjectID(), casaID,
		"Milanesa", models.MealTypeCarne, models.MealTimeAlmuerzo, []string{"carne", "pan rallado"})

	got, err := store.GetByName(ctx, casaID, "Milanesa")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.Name != "Milanesa" {
		t.Errorf("expected Milanesa, got %q", got.Name)
	}

	if _, err := store.GetByName(ctx, primitive.NewObjectID(), "Milanesa"); !errors.Is(err, mealstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound outside the casa, got %v", err)
	}
}

func TestStore_ListByCasa_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	fixtures.CreateMeal(ctx, userID, casaID, "Asado", models.MealTypeCarne, models.MealTimeCena, nil)
	fixtures.CreateMeal(ctx, userID, casaID, "Milanesa", models.MealTypeCarne, models.MealTimeAlmuerzo, nil)
	fixtures.CreateMeal(ctx, userID, casaID, "Sopa", models.MealTypeVegetariano, models.MealTimeCena, nil)

	meals, err := store.ListByCasa(ctx, casaID, mealstore.ListFilter{Type: models.MealTypeCarne})
	if err != nil {
		t.Fatalf("ListByCasa failed: %v", err)
	}
	if len(meals) != 2 {
		t.Fatalf("expected 2 carne meals, got %d", len(meals))
	}
	// Sorted by name.
	if meals[0].Name != "Asado" || meals[1].Name != "Milanesa" {
		t.Errorf("expected name order, got %q, %q", meals[0].Name, meals[1].Name)
	}

	meals, err = store.ListByCasa(ctx, casaID, mealstore.ListFilter{Type: models.MealTypeCarne, MealTime: models.MealTimeCena})
	if err != nil {
		t.Fatalf("ListByCasa failed: %v", err)
	}
	if len(meals) != 1 || meals[0].Name != "Asado" {
		t.Errorf("expected only Asado for carne+Cena, got %v", meals)
	}
}

func TestStore_NormalizeTypes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	legacy := fixtures.CreateMeal(ctx, userID, casaID, "Asado", "carnes", models.MealTimeCena, nil)
	shouting := fixtures.CreateMeal(ctx, userID, casaID, "Pollo al horno", "POLLO", models.MealTimeCena, nil)
	fixtures.CreateMeal(ctx, userID, casaID, "Sopa", models.MealTypeVegetariano, models.MealTimeCena, nil)

	rewritten, err := store.NormalizeTypes(ctx, casaID)
	if err != nil {
		t.Fatalf("NormalizeTypes failed: %v", err)
	}
	if rewritten != 2 {
		t.Errorf("expected 2 rewritten, got %d", rewritten)
	}

	got, err := store.GetInCasa(ctx, legacy.ID, casaID)
	if err != nil {
		t.Fatalf("GetInCasa failed: %v", err)
	}
	if got.Type != models.MealTypeCarne {
		t.Errorf("expected type %q, got %q", models.MealTypeCarne, got.Type)
	}

	got, err = store.GetInCasa(ctx, shouting.ID, casaID)
	if err != nil {
		t.Fatalf("GetInCasa failed: %v", err)
	}
	if got.Type != models.MealTypePollo {
		t.Errorf("expected type %q, got %q", models.MealTypePollo, got.Type)
	}
}

func TestStore_NormalizeTypes_MixedCasePlural(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	meal := fixtures.CreateMeal(ctx, userID, casaID, "Asado", "Carnes", models.MealTimeCena, nil)

	// "Carnes" needs both passes: lowercase first, then the rename.
	if _, err := store.NormalizeTypes(ctx, casaID); err != nil {
		t.Fatalf("NormalizeTypes failed: %v", err)
	}

	got, err := store.GetInCasa(ctx, meal.ID, casaID)
	if err != nil {
		t.Fatalf("GetInCasa failed: %v", err)
	}
	if got.Type != models.MealTypeCarne {
		t.Errorf("expected type %q, got %q", models.MealTypeCarne, got.Type)
	}
}

func TestStore_SetNutrition_AndListMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	a := fixtures.CreateMeal(ctx, userID, casaID, "Asado", models.MealTypeCarne, models.MealTimeCena, nil)
	fixtures.CreateMeal(ctx, userID, casaID, "Sopa", models.MealTypeVegetariano, models.MealTimeCena, nil)

	missing, err := store.ListMissingNutrition(ctx, casaID)
	if err != nil {
		t.Fatalf("ListMissingNutrition failed: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("expected 2 without macros, got %d", len(missing))
	}

	err = store.SetNutrition(ctx, a.ID, models.NutritionalInfo{Calories: 500, Protein: 30, Carbs: 30, Fat: 20})
	if err != nil {
		t.Fatalf("SetNutrition failed: %v", err)
	}

	missing, err = store.ListMissingNutrition(ctx, casaID)
	if err != nil {
		t.Fatalf("ListMissingNutrition failed: %v", err)
	}
	if len(missing) != 1 || missing[0].Name != "Sopa" {
		t.Errorf("expected only Sopa left, got %v", missing)
	}
}

func TestStore_Update_WrongCasa(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := mealstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	meal := fixtures.CreateMeal(ctx, primitive.NewObjectID(), casaID,
		"Asado", models.MealTypeCarne, models.MealTimeCena, nil)

	meal.Name = "Asado al horno"
	err := store.Update(ctx, meal.ID, primitive.NewObjectID(), meal)
	if !errors.Is(err, mealstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound from another casa, got %v", err)
	}

	if err := store.Update(ctx, meal.ID, casaID, meal); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.GetInCasa(ctx, meal.ID, casaID)
	if err != nil {
		t.Fatalf("GetInCasa failed: %v", err)
	}
	if got.Name != "Asado al horno" {
		t.Errorf("expected renamed meal, got %q", got.Name)
	}
}
