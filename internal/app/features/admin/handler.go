// internal/app/features/admin/handler.go
package admin

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	adminstore "github.com/dalemusser/menucasa/internal/app/store/admins"
	apikeystore "github.com/dalemusser/menucasa/internal/app/store/apikeys"
	casastore "github.com/dalemusser/menucasa/internal/app/store/casas"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/adminauth"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
)

// Handler is the feature-level handler for the back-office.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Tokens  *adminauth.Manager
	Admins  *adminstore.Store
	Users   *userstore.Store
	Casas   *casastore.Store
	Meals   *mealstore.Store
	Keys    *apikeystore.Store
	Limiter *ratelimit.LoginLimiter

	// SetupToken guards one-time first-admin creation. Empty
	// disables the endpoint.
	SetupToken string
}

func NewHandler(db *mongo.Database, tokens *adminauth.Manager, errLog *uierrors.ErrorLogger, setupToken string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		ErrLog:     errLog,
		Tokens:     tokens,
		Admins:     adminstore.New(db),
		Users:      userstore.New(db),
		Casas:      casastore.New(db),
		Meals:      mealstore.New(db),
		Keys:       apikeystore.New(db),
		Limiter:    ratelimit.NewLoginLimiter(),
		SetupToken: setupToken,
	}
}

// AdminExists adapts the admin store to the token middleware's
// existence check, so deleted admins lose access before their token
// expires.
func (h *Handler) AdminExists(ctx context.Context, adminID string) (bool, error) {
	id, err := primitive.ObjectIDFromHex(adminID)
	if err != nil {
		return false, nil
	}
	return h.Admins.Exists(ctx, id)
}
