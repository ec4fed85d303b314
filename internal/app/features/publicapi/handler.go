// internal/app/features/publicapi/handler.go
package publicapi

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	apikeystore "github.com/dalemusser/menucasa/internal/app/store/apikeys"
	mealstore "github.com/dalemusser/menucasa/internal/app/store/meals"
	weeklymenustore "github.com/dalemusser/menucasa/internal/app/store/weeklymenus"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// Handler serves the key-authenticated export feed. No session; the
// x-api-key header is the whole identity.
type Handler struct {
	DB      *mongo.Database
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
	Keys    *apikeystore.Store
	Menus   *weeklymenustore.Store
	Meals   *mealstore.Store
	Limiter *ratelimit.Limiter
}

func NewHandler(db *mongo.Database, limiter *ratelimit.Limiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Log:     logger,
		ErrLog:  errLog,
		Keys:    apikeystore.New(db),
		Menus:   weeklymenustore.New(db),
		Meals:   mealstore.New(db),
		Limiter: limiter,
	}
}

type ctxKey int

const apiKeyCtxKey ctxKey = 0

// keyFromContext returns the verified APIKey placed by RequireAPIKey.
func keyFromContext(ctx context.Context) (models.APIKey, bool) {
	k, ok := ctx.Value(apiKeyCtxKey).(models.APIKey)
	return k, ok
}

// HeaderKey extracts the x-api-key header; the rate limiter keys on it
// so each credential gets its own bucket.
func HeaderKey(r *http.Request) string {
	return r.Header.Get("x-api-key")
}

// RequireAPIKey verifies the x-api-key header against the store and
// stamps last_used. Unknown or missing keys get 401.
func (h *Handler) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := HeaderKey(r)
		if raw == "" {
			h.ErrLog.Unauthorized(w, "x-api-key header is required")
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "verify api key")
		defer cancel()

		key, err := h.Keys.Verify(ctx, raw)
		if err != nil {
			if errors.Is(err, apikeystore.ErrNotFound) {
				h.ErrLog.Unauthorized(w, "invalid api key")
				return
			}
			h.ErrLog.ServerError(w, r, "verify api key", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiKeyCtxKey, key)))
	})
}
