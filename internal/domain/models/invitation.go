// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation is a single-use, email-scoped ticket into a casa.
// ExpiresAt carries a TTL index so stale invitations disappear on
// their own.
type Invitation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Token     string             `bson:"token" json:"-"`
	Email     string             `bson:"email" json:"email"`
	CasaID    primitive.ObjectID `bson:"casa_id" json:"casa_id"`
	Used      bool               `bson:"used" json:"used"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
}
