// internal/app/features/login/handler.go
package login

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	casastore "github.com/dalemusser/menucasa/internal/app/store/casas"
	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
)

// Handler is the feature-level handler for account auth.
// It holds the DB handle, stores, and logger provided by WAFFLE DBDeps / Startup.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Sessions    *auth.SessionManager
	Users       *userstore.Store
	Casas       *casastore.Store
	Invitations *invitationstore.Store
	Limiter     *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Sessions:    sessions,
		Users:       userstore.New(db),
		Casas:       casastore.New(db),
		Invitations: invitationstore.New(db),
		Limiter:     ratelimit.NewLoginLimiter(),
	}
}
