// internal/app/features/meals/handler.go
package meals

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
)

// Handler is the feature-level handler for the meal catalog.
type Handler struct {
	DB        *mongo.Database
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Sessions  *auth.SessionManager
	Meals     *mealstore.Store
	Estimator *nutrition.Estimator
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, est *nutrition.Estimator, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:        db,
		Log:       logger,
		ErrLog:    errLog,
		Sessions:  sessions,
		Meals:     mealstore.New(db),
		Estimator: est,
	}
}
