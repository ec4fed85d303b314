package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with a bcrypt-hashed password.
// An empty password leaves PasswordHash empty (Google-only account).
func (f *Fixtures) CreateUser(ctx context.Context, name, email, password string) models.User {
	f.t.Helper()

	var hash string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			f.t.Fatalf("failed to hash test password: %v", err)
		}
		hash = string(h)
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateCasa creates a test casa and assigns the creator to it.
func (f *Fixtures) CreateCasa(ctx context.Context, nombre string, creatorID primitive.ObjectID) models.Casa {
	f.t.Helper()

	casa := models.Casa{
		ID:        primitive.NewObjectID(),
		Nombre:    nombre,
		NombreCI:  text.Fold(nombre),
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("casas").InsertOne(ctx, casa)
	if err != nil {
		f.t.Fatalf("failed to create test casa: %v", err)
	}

	_, err = f.db.Collection("users").UpdateByID(ctx, creatorID,
		map[string]any{"$set": map[string]any{"casa_id": casa.ID}})
	if err != nil {
		f.t.Fatalf("failed to assign creator to casa: %v", err)
	}

	return casa
}

// CreateMeal creates a test meal owned by the given user.
func (f *Fixtures) CreateMeal(ctx context.Context, userID, casaID primitive.ObjectID, name, mealType, mealTime string, ingredients []string) models.Meal {
	f.t.Helper()

	now := time.Now().UTC()
	meal := models.Meal{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Type:        mealType,
		MealTime:    mealTime,
		Ingredients: ingredients,
		UserID:      userID,
		CasaID:      casaID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := f.db.Collection("meals").InsertOne(ctx, meal)
	if err != nil {
		f.t.Fatalf("failed to create test meal: %v", err)
	}

	return meal
}

// CreateWeeklyMenu creates a test weekly menu anchored at fecha.
func (f *Fixtures) CreateWeeklyMenu(ctx context.Context, userID, casaID primitive.ObjectID, fecha time.Time, menu map[string]models.DayMenu) models.WeeklyMenu {
	f.t.Helper()

	u := fecha.UTC()
	wm := models.WeeklyMenu{
		ID:           primitive.NewObjectID(),
		Fecha:        time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC),
		Menu:         menu,
		Ingredientes: []string{},
		UserID:       userID,
		CasaID:       casaID,
	}

	_, err := f.db.Collection("weekly_menus").InsertOne(ctx, wm)
	if err != nil {
		f.t.Fatalf("failed to create test weekly menu: %v", err)
	}

	return wm
}

// CreateAdmin creates a test back-office account.
func (f *Fixtures) CreateAdmin(ctx context.Context, username, password, role string) models.Admin {
	f.t.Helper()

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Username:     username,
		PasswordHash: string(h),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = f.db.Collection("admins").InsertOne(ctx, admin)
	if err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}

	return admin
}

// CreateAPIKey creates a test API key with a fixed secret.
func (f *Fixtures) CreateAPIKey(ctx context.Context, key, name string, userID, casaID primitive.ObjectID) models.APIKey {
	f.t.Helper()

	k := models.APIKey{
		ID:        primitive.NewObjectID(),
		Key:       key,
		Name:      name,
		UserID:    userID,
		CasaID:    casaID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("api_keys").InsertOne(ctx, k)
	if err != nil {
		f.t.Fatalf("failed to create test api key: %v", err)
	}

	return k
}
