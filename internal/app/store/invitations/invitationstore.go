// internal/app/store/invitations/invitationstore.go
package invitationstore

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

	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// TTL is how long an invitation stays redeemable.
const TTL = 7 * 24 * time.Hour

var (
	ErrNotFound = errors.New("invitation not found or expired")
	ErrUsed     = errors.New("invitation already used")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invitations")}
}

// Create issues a fresh invitation for email into casaID. Earlier
// pending invitations for the same email are revoked first, so at
// most one live token exists per address. Redeemed ones are left for
// the cleanup worker.
func (s *Store) Create(ctx context.Context, email string, casaID primitive.ObjectID) (models.Invitation, error) {
	email = normalize.Email(email)

	if _, err := s.c.DeleteMany(ctx, bson.M{"email": email, "used": false}); err != nil {
		return models.Invitation{}, fmt.Errorf("revoke prior invitations: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return models.Invitation{}, err
	}

	now := time.Now().UTC()
	inv := models.Invitation{
		ID:        primitive.NewObjectID(),
		Token:     token,
		Email:     email,
		CasaID:    casaID,
		Used:      false,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// GetValid loads an unused, unexpired invitation by token. The expiry
// check is done here too since the TTL reaper runs on its own schedule.
func (s *Store) GetValid(ctx context.Context, token string) (models.Invitation, error) {
	var inv models.Invitation
	err := s.c.FindOne(ctx, bson.M{
		"token":      token,
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return models.Invitation{}, ErrNotFound
	}
	if err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// Redeem marks the invitation used, atomically. Exactly one caller can
// win; everyone else gets ErrUsed (or ErrNotFound once it expires).
func (s *Store) Redeem(ctx context.Context, token string) (models.Invitation, error) {
	var inv models.Invitation
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{
			"token":      token,
			"used":       false,
			"expires_at": bson.M{"$gt": time.Now().UTC()},
		},
		bson.M{"$set": bson.M{"used": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		// Distinguish "spent" from "never existed / expired".
		if cnt, cErr := s.c.CountDocuments(ctx, bson.M{"token": token, "used": true}); cErr == nil && cnt > 0 {
			return models.Invitation{}, ErrUsed
		}
		return models.Invitation{}, ErrNotFound
	}
	if err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// PendingForEmail returns the live invitation for an address, if any.
// Checked during signup so an invited user lands in their casa.
func (s *Store) PendingForEmail(ctx context.Context, email string) (models.Invitation, error) {
	var inv models.Invitation
	err := s.c.FindOne(ctx, bson.M{
		"email":      normalize.Email(email),
		"used":       false,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return models.Invitation{}, ErrNotFound
	}
	if err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// Delete removes a single invitation, used when the notification email
// could not be sent and the token would otherwise dangle.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteUsedBefore purges redeemed invitations created before cutoff.
// The background cleanup worker calls this.
func (s *Store) DeleteUsedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"used":       true,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate invitation token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
