// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a household member. PasswordHash is empty for accounts that
// only ever signed in through Google.
type User struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Email         string              `bson:"email" json:"email"`
	Name          string              `bson:"name,omitempty" json:"name,omitempty"`
	PasswordHash  string              `bson:"password_hash,omitempty" json:"-"`
	GoogleID      string              `bson:"google_id,omitempty" json:"-"`
	EmailVerified bool                `bson:"email_verified" json:"email_verified"`
	CasaID        *primitive.ObjectID `bson:"casa_id,omitempty" json:"casa_id,omitempty"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	LastLogin     *time.Time          `bson:"last_login,omitempty" json:"last_login,omitempty"`
}
