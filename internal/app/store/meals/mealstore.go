// internal/app/store/meals/mealstore.go
package mealstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

// Store wraps the meals collection. Every read and write is scoped to
// a casa so members of one household cannot touch another's catalog.
type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("meal not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("meals")}
}

func (s *Store) Create(ctx context.Context, meal models.Meal) (models.Meal, error) {
	meal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, meal); err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

// GetInCasa loads a meal only if it belongs to the given household.
func (s *Store) GetInCasa(ctx context.Context, id, casaID primitive.ObjectID) (models.Meal, error) {
	var meal models.Meal
	err := s.c.FindOne(ctx, bson.M{"_id": id, "casa_id": casaID}).Decode(&meal)
	if err == mongo.ErrNoDocuments {
		return models.Meal{}, ErrNotFound
	}
	if err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

// GetByName resolves a meal by its display name within a casa. Weekly
// menus reference meals by name, so this is the join the planner uses.
func (s *Store) GetByName(ctx context.Context, casaID primitive.ObjectID, name string) (models.Meal, error) {
	var meal models.Meal
	err := s.c.FindOne(ctx, bson.M{"casa_id": casaID, "name": name}).Decode(&meal)
	if err == mongo.ErrNoDocuments {
		return models.Meal{}, ErrNotFound
	}
	if err != nil {
		return models.Meal{}, err
	}
	return meal, nil
}

// ListFilter narrows ListByCasa. Zero values mean "no filter".
type ListFilter struct {
	Type     string
	MealTime string
}

func (s *Store) ListByCasa(ctx context.Context, casaID primitive.ObjectID, f ListFilter) ([]models.Meal, error) {
	filter := bson.M{"casa_id": casaID}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.MealTime != "" {
		filter["meal_time"] = f.MealTime
	}
	cur, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var meals []models.Meal
	if err := cur.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

// Update rewrites the meal's editable fields. Scoped to the casa so a
// forged ID from another household matches nothing.
func (s *Store) Update(ctx context.Context, id, casaID primitive.ObjectID, meal models.Meal) error {
	set := bson.M{
		"name":        meal.Name,
		"type":        meal.Type,
		"meal_time":   meal.MealTime,
		"ingredients": meal.Ingredients,
		"updated_at":  time.Now().UTC(),
	}
	if meal.NutritionalInfo != nil {
		set["nutritional_info"] = meal.NutritionalInfo
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "casa_id": casaID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetNutrition stores a freshly estimated macro profile.
func (s *Store) SetNutrition(ctx context.Context, id primitive.ObjectID, info models.NutritionalInfo) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"nutritional_info": info,
		"updated_at":       time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// NormalizeTypes rewrites legacy type values across a casa's catalog:
// mixed-case spellings are lowercased, then the old plural "carnes"
// becomes the canonical singular. Returns the number of updates applied.
func (s *Store) NormalizeTypes(ctx context.Context, casaID primitive.ObjectID) (int64, error) {
	now := time.Now().UTC()

	lowered, err := s.c.UpdateMany(ctx,
		bson.M{"casa_id": casaID, "type": bson.M{"$regex": "[A-Z]"}},
		mongo.Pipeline{
			{{Key: "$set", Value: bson.M{
				"type":       bson.M{"$toLower": "$type"},
				"updated_at": now,
			}}},
		})
	if err != nil {
		return 0, err
	}

	renamed, err := s.c.UpdateMany(ctx,
		bson.M{"casa_id": casaID, "type": "carnes"},
		bson.M{"$set": bson.M{"type": models.MealTypeCarne, "updated_at": now}})
	if err != nil {
		return lowered.ModifiedCount, err
	}
	return lowered.ModifiedCount + renamed.ModifiedCount, nil
}

// ListMissingNutrition returns the casa's meals that have no macro
// profile yet. Feeds the batch recompute endpoint.
func (s *Store) ListMissingNutrition(ctx context.Context, casaID primitive.ObjectID) ([]models.Meal, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"casa_id":          casaID,
		"nutritional_info": bson.M{"$in": []any{nil}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var meals []models.Meal
	if err := cur.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (s *Store) Delete(ctx context.Context, id, casaID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "casa_id": casaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) CountByCasa(ctx context.Context, casaID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"casa_id": casaID})
}
