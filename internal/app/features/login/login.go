// internal/app/features/login/login.go
package login

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and establishes a session.
// POST /auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		h.ErrLog.BadRequest(w, "email and password are required")
		return
	}

	ip := ratelimit.ClientIP(r)
	if !h.Limiter.Allow(ip, req.Email) {
		uierrors.JSON(w, http.StatusTooManyRequests,
			map[string]string{"error": "too many attempts, try again later"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login user")
	defer cancel()

	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.Unauthorized(w, "invalid email or password")
			return
		}
		h.ErrLog.ServerError(w, r, "login: lookup user", err)
		return
	}

	// Google-only accounts have no password to check. Same message as
	// an unknown email so the response never confirms the account.
	if user.PasswordHash == "" {
		h.ErrLog.Unauthorized(w, "invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.ErrLog.Unauthorized(w, "invalid email or password")
		return
	}
	h.Limiter.Success(ip, req.Email)

	if err := h.Users.UpdateLastLogin(ctx, user.ID); err != nil {
		h.Log.Warn("login: update last_login", zap.Error(err))
	}

	if err := h.Sessions.Establish(w, r, sessionUserFor(user)); err != nil {
		h.ErrLog.ServerError(w, r, "login: establish session", err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"user": toUserView(user)})
}
