// internal/app/features/apikeys/handler.go
package apikeys

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	apikeystore "github.com/dalemusser/menucasa/internal/app/store/apikeys"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

// Handler manages a user's API keys for the public export feed.
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
	Sessions *auth.SessionManager
	Keys     *apikeystore.Store
}

func NewHandler(db *mongo.Database, sessions *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		ErrLog:   errLog,
		Sessions: sessions,
		Keys:     apikeystore.New(db),
	}
}

type createKeyRequest struct {
	Name string `json:"name"`
}

// keyView hides the stored key and shows its truncated form instead.
type keyView struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Key       string     `json:"key"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// HandleCreate mints a key. The full value appears in this response
// and never again.
// POST /api/apikeys
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, "")
		return
	}
	casaID, err := primitive.ObjectIDFromHex(su.CasaID)
	if err != nil {
		h.ErrLog.Forbidden(w, "no casa assigned")
		return
	}

	var req createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	name := sanitize.Plain(req.Name)
	if name == "" {
		h.ErrLog.BadRequest(w, "key name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create api key")
	defer cancel()

	key, err := h.Keys.Create(ctx, name, userID, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "create api key", err)
		return
	}

	h.Log.Info("api key created",
		zap.String("user_id", su.ID),
		zap.String("key", apikeystore.Truncate(key.Key)))

	uierrors.JSON(w, http.StatusCreated, map[string]any{"apiKey": keyView{
		ID:        key.ID.Hex(),
		Name:      key.Name,
		Key:       key.Key, // full value, shown once
		CreatedAt: key.CreatedAt,
	}})
}

// HandleList returns the caller's keys with truncated values.
// GET /api/apikeys
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list api keys")
	defer cancel()

	keys, err := h.Keys.ListByUser(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list api keys", err)
		return
	}

	views := make([]keyView, 0, len(keys))
	for _, k := range keys {
		views = append(views, keyView{
			ID:        k.ID.Hex(),
			Name:      k.Name,
			Key:       apikeystore.Truncate(k.Key),
			CreatedAt: k.CreatedAt,
			LastUsed:  k.LastUsed,
		})
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"apiKeys": views})
}

// HandleDelete revokes one of the caller's keys.
// DELETE /api/apikeys/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, "")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid key id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete api key")
	defer cancel()

	deleted, err := h.Keys.Delete(ctx, id, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "delete api key", err)
		return
	}
	if deleted == 0 {
		h.ErrLog.NotFound(w, "api key not found")
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}
