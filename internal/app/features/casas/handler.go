// internal/app/features/casas/handler.go
package casas

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	casastore "github.com/dalemusser/menucasa/internal/app/store/casas"
	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/mailer"
)

// Handler is the feature-level handler for households.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
	Sessions    *auth.SessionManager
	Users       *userstore.Store
	Casas       *casastore.Store
	Invitations *invitationstore.Store
	Mailer      *mailer.Mailer

	SiteName    string
	FrontendURL string // base for invitation accept links
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, m *mailer.Mailer, errLog *uierrors.ErrorLogger, siteName, frontendURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Log:         logger,
		ErrLog:      errLog,
		Sessions:    sessions,
		Users:       userstore.New(db),
		Casas:       casastore.New(db),
		Invitations: invitationstore.New(db),
		Mailer:      m,
		SiteName:    siteName,
		FrontendURL: frontendURL,
	}
}
