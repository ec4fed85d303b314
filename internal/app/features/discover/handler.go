// internal/app/features/discover/handler.go
package discover

import (
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
)

// Handler answers free-text meal discovery queries from the built-in
// suggestion catalog, ranked by the zero-shot classifier.
type Handler struct {
	Log       *zap.Logger
	ErrLog    *uierrors.ErrorLogger
	Sessions  *auth.SessionManager
	Estimator *nutrition.Estimator
}

func NewHandler(sessions *auth.SessionManager, est *nutrition.Estimator, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		ErrLog:    errLog,
		Sessions:  sessions,
		Estimator: est,
	}
}
