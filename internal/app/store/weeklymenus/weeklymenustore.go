// internal/app/store/weeklymenus/weeklymenustore.go
package weeklymenustore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("weekly menu not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("weekly_menus")}
}

// WeekStart normalizes t to UTC start of day. Every fecha stored or
// queried goes through this so the unique (user_id, fecha) index keys
// on a canonical instant.
func WeekStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Upsert writes the plan for (menu.UserID, menu.Fecha) in one atomic
// upsert. Concurrent saves of the same week land on the same document;
// the unique index makes a duplicate insert impossible, and the losing
// racer retries against the now-existing document. The second return
// reports whether a new document was inserted.
func (s *Store) Upsert(ctx context.Context, menu models.WeeklyMenu) (models.WeeklyMenu, bool, error) {
	menu.Fecha = WeekStart(menu.Fecha)
	if menu.Ingredientes == nil {
		menu.Ingredientes = []string{}
	}

	filter := bson.M{"user_id": menu.UserID, "fecha": menu.Fecha}
	update := bson.M{
		"$set": bson.M{
			"menu":         menu.Menu,
			"ingredientes": menu.Ingredientes,
			"casa_id":      menu.CasaID,
		},
		"$setOnInsert": bson.M{
			"user_id": menu.UserID,
			"fecha":   menu.Fecha,
		},
	}

	res, err := s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if wafflemongo.IsDup(err) {
		// Lost the insert race; the document exists now, retry as update.
		res, err = s.c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	}
	if err != nil {
		return models.WeeklyMenu{}, false, err
	}
	created := res.UpsertedCount > 0

	var out models.WeeklyMenu
	if err := s.c.FindOne(ctx, filter).Decode(&out); err != nil {
		return models.WeeklyMenu{}, false, err
	}
	return out, created, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.WeeklyMenu, error) {
	var m models.WeeklyMenu
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.WeeklyMenu{}, ErrNotFound
	}
	if err != nil {
		return models.WeeklyMenu{}, err
	}
	return m, nil
}

// GetOwned loads a menu only if it belongs to the given user.
func (s *Store) GetOwned(ctx context.Context, id, userID primitive.ObjectID) (models.WeeklyMenu, error) {
	var m models.WeeklyMenu
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.WeeklyMenu{}, ErrNotFound
	}
	if err != nil {
		return models.WeeklyMenu{}, err
	}
	return m, nil
}

func (s *Store) GetByUserAndFecha(ctx context.Context, userID primitive.ObjectID, fecha time.Time) (models.WeeklyMenu, error) {
	var m models.WeeklyMenu
	err := s.c.FindOne(ctx, bson.M{
		"user_id": userID,
		"fecha":   WeekStart(fecha),
	}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.WeeklyMenu{}, ErrNotFound
	}
	if err != nil {
		return models.WeeklyMenu{}, err
	}
	return m, nil
}

// ListByUser returns the user's plans, most recent week first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.WeeklyMenu, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var menus []models.WeeklyMenu
	if err := cur.All(ctx, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// ListByCasaInRange returns household plans whose week anchor falls in
// [from, to]. The public feed walks their day entries.
func (s *Store) ListByCasaInRange(ctx context.Context, casaID primitive.ObjectID, from, to time.Time) ([]models.WeeklyMenu, error) {
	// A week anchored up to 6 days before `from` can still contain
	// days inside the range.
	lo := WeekStart(from).AddDate(0, 0, -6)
	hi := WeekStart(to)

	cur, err := s.c.Find(ctx, bson.M{
		"casa_id": casaID,
		"fecha":   bson.M{"$gte": lo, "$lte": hi},
	}, options.Find().SetSort(bson.D{{Key: "fecha", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var menus []models.WeeklyMenu
	if err := cur.All(ctx, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// SetIngredientes replaces the shopping list on an owned menu.
func (s *Store) SetIngredientes(ctx context.Context, id, userID primitive.ObjectID, ingredientes []string) error {
	if ingredientes == nil {
		ingredientes = []string{}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"ingredientes": ingredientes}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
