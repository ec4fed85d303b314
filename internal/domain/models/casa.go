// internal/domain/models/casa.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Casa is a household. Members are Users whose CasaID points here;
// membership is not embedded.
type Casa struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nombre    string             `bson:"nombre" json:"nombre"`
	NombreCI  string             `bson:"nombre_ci" json:"-"` // lowercase, diacritics-stripped
	CreatorID primitive.ObjectID `bson:"creator_id" json:"creator_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
