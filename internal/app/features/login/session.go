// internal/app/features/login/session.go
package login

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

// HandleSession reports the signed-in user.
// GET /auth/session
//
// The casa assignment is re-read from the database on every call: when
// someone is invited into a casa after their session was minted, the
// stale cookie heals itself here instead of forcing a re-login.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Unauthorized(w, "")
		return
	}

	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "load session user")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			// Account was deleted out from under the session.
			_ = h.Sessions.Clear(w, r)
			h.ErrLog.Unauthorized(w, "")
			return
		}
		h.ErrLog.ServerError(w, r, "session: load user", err)
		return
	}

	// Refresh the cookie if the casa changed since it was minted.
	fresh := sessionUserFor(user)
	if fresh.CasaID != su.CasaID || fresh.Name != su.Name {
		if err := h.Sessions.Refresh(w, r, fresh); err != nil {
			h.ErrLog.ServerError(w, r, "session: refresh", err)
			return
		}
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"user": toUserView(user)})
}

// HandleLogout clears the session.
// POST /auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Clear(w, r); err != nil {
		h.ErrLog.ServerError(w, r, "logout: clear session", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
