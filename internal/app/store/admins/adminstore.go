// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"strings"
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

var (
	ErrDuplicateUsername = errors.New("an admin with this username already exists")
	ErrNotFound          = errors.New("admin not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

func (s *Store) Create(ctx context.Context, admin models.Admin) (models.Admin, error) {
	admin.ID = primitive.NewObjectID()
	admin.Username = strings.ToLower(strings.TrimSpace(admin.Username))
	if admin.Role == "" {
		admin.Role = models.AdminRoleAdmin
	}
	admin.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, admin)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateUsername
		}
		return models.Admin{}, err
	}
	return admin, nil
}

func (s *Store) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	var a models.Admin
	err := s.c.FindOne(ctx, bson.M{
		"username": strings.ToLower(strings.TrimSpace(username)),
	}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Admin, error) {
	var a models.Admin
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return models.Admin{}, ErrNotFound
	}
	if err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

// Exists is the revocation check behind admin middleware: a deleted
// account loses access even with a live token.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"last_login": now}})
	return err
}

func (s *Store) List(ctx context.Context) ([]models.Admin, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var admins []models.Admin
	if err := cur.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
