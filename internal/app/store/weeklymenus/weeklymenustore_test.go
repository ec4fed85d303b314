package weeklymenustore_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	weeklymenustore "github.com/dalemusser/menucasa/internal/app/store/weeklymenus"
	"github.com/dalemusser/menucasa/internal/domain/models"
	"github.com/dalemusser/menucasa/internal/testutil"
)

func TestWeekStart(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2025, 3, 10, 14, 30, 45, 123, loc)

	got := weeklymenustore.WeekStart(in)

	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestStore_Upsert_CreateThenOverwrite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weeklymenustore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	casaID := primitive.NewObjectID()
	fecha := time.Date(2025, 1, 6, 18, 45, 0, 0, time.UTC)

	first, created, err := store.Upsert(ctx, models.WeeklyMenu{
		Fecha:  fecha,
		Menu:   map[string]models.DayMenu{"lunes": {Almuerzo: "Asado"}},
		UserID: userID,
		CasaID: casaID,
	})
	if err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	if !created {
		t.Error("expected first upsert to report created")
	}
	if !first.Fecha.Equal(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected fecha normalized to start of day, got %v", first.Fecha)
	}

	second, created, err := store.Upsert(ctx, models.WeeklyMenu{
		Fecha:  fecha,
		Menu:   map[string]models.DayMenu{"martes": {Cena: "Sopa"}},
		UserID: userID,
		CasaID: casaID,
	})
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if created {
		t.Error("expected second upsert to report an update")
	}
	if second.ID != first.ID {
		t.Error("expected both upserts to land on the same document")
	}
	// The plan is replaced wholesale, not merged.
	if _, ok := second.Menu["lunes"]; ok {
		t.Error("expected old day to be gone after overwrite")
	}
	if second.Menu["martes"].Cena != "Sopa" {
		t.Error("expected new day to be stored")
	}
}

func TestStore_GetOwned_WrongUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weeklymenustore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	casaID := primitive.NewObjectID()
	menu := fixtures.CreateWeeklyMenu(ctx, owner, casaID,
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		map[string]models.DayMenu{"lunes": {Almuerzo: "Asado"}})

	if _, err := store.GetOwned(ctx, menu.ID, owner); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := store.GetOwned(ctx, menu.ID, primitive.NewObjectID()); !errors.Is(err, weeklymenustore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user, got %v", err)
	}
}

func TestStore_ListByCasaInRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weeklymenustore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	casaID := primitive.NewObjectID()
	user1 := primitive.NewObjectID()
	user2 := primitive.NewObjectID()

	fixtures.CreateWeeklyMenu(ctx, user1, casaID,
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), nil)
	fixtures.CreateWeeklyMenu(ctx, user2, casaID,
		time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC), nil)
	fixtures.CreateWeeklyMenu(ctx, user1, casaID,
		time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), nil)
	// Another household's plan in the same window.
	fixtures.CreateWeeklyMenu(ctx, primitive.NewObjectID(), primitive.NewObjectID(),
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), nil)

	menus, err := store.ListByCasaInRange(ctx, casaID,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListByCasaInRange failed: %v", err)
	}

	if len(menus) != 2 {
		t.Fatalf("expected 2 menus in January, got %d", len(menus))
	}
	for _, m := range menus {
		if m.CasaID != casaID {
			t.Error("expected only this casa's menus")
		}
	}
}

func TestStore_SetIngredientes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := weeklymenustore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	menu := fixtures.CreateWeeklyMenu(ctx, owner, primitive.NewObjectID(),
		time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), nil)

	if err := store.SetIngredientes(ctx, menu.ID, owner, []string{"carne", "sal"}); err != nil {
		t.Fatalf("SetIngredientes failed: %v", err)
	}

	got, err := store.GetByID(ctx, menu.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Ingredientes) != 2 || got.Ingredientes[0] != "carne" {
		t.Errorf("expected persisted shopping list, got %v", got.Ingredientes)
	}
}
