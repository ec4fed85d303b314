// internal/app/store/apikeys/apikeystore.go
package apikeystore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/menucasa/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("api key not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("api_keys")}
}

// Create mints a key scoped to the owner's casa. The returned model
// carries the full 64-hex secret; this is the only time it leaves the
// store in full.
func (s *Store) Create(ctx context.Context, name string, userID, casaID primitive.ObjectID) (models.APIKey, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return models.APIKey{}, fmt.Errorf("generate api key: %w", err)
	}

	key := models.APIKey{
		ID:        primitive.NewObjectID(),
		Key:       hex.EncodeToString(buf),
		Name:      name,
		UserID:    userID,
		CasaID:    casaID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, key); err != nil {
		return models.APIKey{}, err
	}
	return key, nil
}

// Verify resolves a presented key and stamps last_used. A miss is
// ErrNotFound; callers translate that to 401.
func (s *Store) Verify(ctx context.Context, key string) (models.APIKey, error) {
	var k models.APIKey
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"last_used": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&k)
	if err == mongo.ErrNoDocuments {
		return models.APIKey{}, ErrNotFound
	}
	if err != nil {
		return models.APIKey{}, err
	}
	return k, nil
}

func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.APIKey, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var keys []models.APIKey
	if err := cur.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// Delete removes a key, scoped to its owner.
func (s *Store) Delete(ctx context.Context, id, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAllForUser revokes every key a user owns. Runs when the user
// account itself is removed.
func (s *Store) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Truncate renders a key for listings: first 8 and last 4 characters
// with an ellipsis between. Never show the full secret after creation.
func Truncate(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:8] + "..." + key[len(key)-4:]
}
