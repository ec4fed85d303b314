// internal/domain/models/apikey.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// APIKey grants external read access to one casa's published plan.
// Key is the full 64-hex token; it is returned in full exactly once,
// at creation. List endpoints must truncate it.
type APIKey struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key       string             `bson:"key" json:"-"`
	Name      string             `bson:"name" json:"name"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	CasaID    primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	LastUsed  *time.Time         `bson:"last_used,omitempty" json:"last_used,omitempty"`
}
