// internal/app/store/casas/casastore.go
package casastore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateName = errors.New("a casa with this name already exists")
	ErrNotFound      = errors.New("casa not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("casas")}
}

func (s *Store) Create(ctx context.Context, casa models.Casa) (models.Casa, error) {
	casa.ID = primitive.NewObjectID()
	casa.NombreCI = text.Fold(casa.Nombre)
	casa.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, casa)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Casa{}, ErrDuplicateName
		}
		return models.Casa{}, err
	}
	return casa, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Casa, error) {
	var casa models.Casa
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&casa)
	if err == mongo.ErrNoDocuments {
		return models.Casa{}, ErrNotFound
	}
	if err != nil {
		return models.Casa{}, err
	}
	return casa, nil
}

// Rename changes the casa name, keeping the folded form in sync.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, nombre string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"nombre":    nombre,
		"nombre_ci": text.Fold(nombre),
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TransferCreator hands household ownership to another member.
func (s *Store) TransferCreator(ctx context.Context, id, newCreatorID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"creator_id": newCreatorID,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) List(ctx context.Context) ([]models.Casa, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "nombre_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var casas []models.Casa
	if err := cur.All(ctx, &casas); err != nil {
		return nil, err
	}
	return casas, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
