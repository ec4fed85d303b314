// internal/app/features/login/associate.go
package login

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

type associateRequest struct {
	Token string `json:"token"`
}

// HandleAssociate redeems an invitation token for the signed-in user
// and moves them into the inviting casa.
// POST /auth/associate
func (h *Handler) HandleAssociate(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		h.ErrLog.Unauthorized(w, "")
		return
	}
	var req associateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		h.ErrLog.BadRequest(w, "invitation token is required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "associate invitation")
	defer cancel()

	// A member of a casa cannot burn a token to switch households.
	// Checked against the database, not the session, which may lag.
	caller, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "associate: load user", err)
		return
	}
	if caller.CasaID != nil {
		h.ErrLog.Conflict(w, "you already belong to a casa")
		return
	}

	// The ticket is email-bound; only its addressee can redeem it.
	inv, err := h.Invitations.GetValid(ctx, req.Token)
	if err != nil {
		if errors.Is(err, invitationstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "invitation not found or expired")
			return
		}
		h.ErrLog.ServerError(w, r, "associate: load invitation", err)
		return
	}
	if inv.Email != normalize.Email(su.Email) {
		h.ErrLog.Forbidden(w, "this invitation was issued to a different email")
		return
	}

	inv, err = h.Invitations.Redeem(ctx, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, invitationstore.ErrUsed):
			h.ErrLog.Conflict(w, "invitation already used")
		case errors.Is(err, invitationstore.ErrNotFound):
			h.ErrLog.NotFound(w, "invitation not found or expired")
		default:
			h.ErrLog.ServerError(w, r, "associate: redeem invitation", err)
		}
		return
	}

	if err := h.Users.SetCasa(ctx, userID, &inv.CasaID); err != nil {
		h.ErrLog.ServerError(w, r, "associate: assign casa", err)
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "associate: reload user", err)
		return
	}
	if err := h.Sessions.Refresh(w, r, sessionUserFor(user)); err != nil {
		h.ErrLog.ServerError(w, r, "associate: refresh session", err)
		return
	}

	h.Log.Info("invitation redeemed",
		zap.String("user_id", su.ID),
		zap.String("casa_id", inv.CasaID.Hex()))

	uierrors.JSON(w, http.StatusOK, map[string]any{"user": toUserView(user)})
}
