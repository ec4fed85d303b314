// internal/app/features/weeklymenu/handler.go
package weeklymenu

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	weeklymenustore "github.com/dalemusser/menucasa/internal/app/store/weeklymenus"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/mailer"
)

// Handler is the feature-level handler for the weekly menu planner.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Sessions *auth.SessionManager
	Menus    *weeklymenustore.Store
	Meals    *mealstore.Store
	Users    *userstore.Store
	Mailer   *mailer.Mailer

	SiteName string
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, m *mailer.Mailer, errLog *uierrors.ErrorLogger, siteName string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Sessions: sessions,
		Menus:    weeklymenustore.New(db),
		Meals:    mealstore.New(db),
		Users:    userstore.New(db),
		Mailer:   m,
		SiteName: siteName,
	}
}
