// internal/app/features/admin/auth.go
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	adminstore "github.com/dalemusser/menucasa/internal/app/store/admins"
	"github.com/dalemusser/menucasa/internal/app/system/adminauth"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type adminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminView struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

func toAdminView(a models.Admin) adminView {
	return adminView{
		ID:        a.ID.Hex(),
		Username:  a.Username,
		Role:      a.Role,
		LastLogin: a.LastLogin,
	}
}

// HandleLogin verifies back-office credentials and sets the token
// cookie.
// POST /api/admin/auth
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds adminCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	username := normalize.Email(creds.Username)

	ip := ratelimit.ClientIP(r)
	if !h.Limiter.Allow(ip, username) {
		h.Log.Warn("admin login rate limited", zap.String("ip", ip))
		uierrors.JSON(w, http.StatusTooManyRequests,
			map[string]string{"error": "too many login attempts, try again later"})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin login")
	defer cancel()

	adm, err := h.Admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, adminstore.ErrNotFound) {
			h.ErrLog.Unauthorized(w, "invalid credentials")
			return
		}
		h.ErrLog.ServerError(w, r, "admin login", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(adm.PasswordHash), []byte(creds.Password)) != nil {
		h.ErrLog.Unauthorized(w, "invalid credentials")
		return
	}
	h.Limiter.Success(ip, username)

	token, err := h.Tokens.Mint(adm.ID.Hex(), adm.Username, adm.Role)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin login: mint token", err)
		return
	}
	h.Tokens.SetCookie(w, token)

	if err := h.Admins.UpdateLastLogin(ctx, adm.ID); err != nil {
		h.Log.Warn("admin login: update last_login", zap.Error(err))
	}

	h.Log.Info("admin signed in", zap.String("username", adm.Username))
	uierrors.JSON(w, http.StatusOK, map[string]any{"admin": toAdminView(adm)})
}

// HandleSession reports whether the caller holds a valid token for an
// admin that still exists.
// GET /api/admin/auth
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Tokens.FromRequest(r)
	if err != nil {
		uierrors.JSON(w, http.StatusOK, map[string]any{"isAuthenticated": false})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin session")
	defer cancel()

	adm, err := h.Admins.GetByUsername(ctx, claims.Username)
	if err != nil || adm.ID.Hex() != claims.AdminID {
		uierrors.JSON(w, http.StatusOK, map[string]any{"isAuthenticated": false})
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"isAuthenticated": true,
		"admin":           toAdminView(adm),
	})
}

// HandleLogout clears the token cookie.
// DELETE /api/admin/auth
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Tokens.ClearCookie(w)
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// currentClaims returns the verified claims the middleware stored.
func currentClaims(w http.ResponseWriter, r *http.Request, errLog *uierrors.ErrorLogger) (*adminauth.Claims, bool) {
	claims, ok := adminauth.CurrentAdmin(r)
	if !ok {
		errLog.Unauthorized(w, "")
		return nil, false
	}
	return claims, true
}
