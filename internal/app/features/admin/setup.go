// internal/app/features/admin/setup.go
package admin

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type setupRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	SetupToken string `json:"setupToken"`
}

// HandleSetup creates the first superadmin. It only works while the
// admins collection is empty and the configured setup token matches.
// POST /api/admin/setup
func (h *Handler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	if h.SetupToken == "" {
		h.ErrLog.NotFound(w, "")
		return
	}

	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.SetupToken), []byte(h.SetupToken)) != 1 {
		h.ErrLog.Forbidden(w, "invalid setup token")
		return
	}
	username := normalize.Email(req.Username)
	if username == "" {
		h.ErrLog.BadRequest(w, "username is required")
		return
	}
	if len(req.Password) < 8 {
		h.ErrLog.BadRequest(w, "password must be at least 8 characters")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin setup")
	defer cancel()

	count, err := h.Admins.Count(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin setup: count", err)
		return
	}
	if count > 0 {
		h.ErrLog.Forbidden(w, "setup already completed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin setup: hash", err)
		return
	}
	adm, err := h.Admins.Create(ctx, models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.AdminRoleSuperAdmin,
	})
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin setup", err)
		return
	}

	h.Log.Info("superadmin created via setup", zap.String("username", adm.Username))
	uierrors.JSON(w, http.StatusCreated, map[string]any{"admin": toAdminView(adm)})
}
