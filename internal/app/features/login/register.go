// internal/app/features/login/register.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	InvitationToken string `json:"invitationToken"`
}

// HandleRegister creates an account and signs the user in.
// POST /auth/register
//
// When a live invitation exists for the email (by explicit token or
// pending lookup), it is redeemed and the new account starts inside
// the inviting casa. An already-registered email with a valid token
// does not 409; the existing account joins the casa instead.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}

	email := normalize.Email(req.Email)
	name := sanitize.Plain(req.Name)

	if email == "" || !strings.Contains(email, "@") {
		h.ErrLog.BadRequest(w, "a valid email is required")
		return
	}
	if len(req.Password) < 6 {
		h.ErrLog.BadRequest(w, "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.ServerError(w, r, "register: hash password", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register user")
	defer cancel()

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	// Invited users land directly in their casa. An explicit token
	// wins; otherwise any live invitation for the email applies.
	var inv models.Invitation
	var invited bool
	if req.InvitationToken != "" {
		if got, invErr := h.Invitations.GetValid(ctx, req.InvitationToken); invErr == nil && got.Email == email {
			inv, invited = got, true
		}
	}
	if !invited {
		if got, invErr := h.Invitations.PendingForEmail(ctx, email); invErr == nil {
			inv, invited = got, true
		}
	}
	if invited {
		user.CasaID = &inv.CasaID
	}

	created, err := h.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			if invited {
				h.registerExisting(ctx, w, r, inv)
			} else {
				h.ErrLog.Conflict(w, "an account with this email already exists")
			}
			return
		}
		h.ErrLog.ServerError(w, r, "register: create user", err)
		return
	}

	if invited {
		// Spend the ticket now that the account exists.
		if _, err := h.Invitations.Redeem(ctx, inv.Token); err != nil && !errors.Is(err, invitationstore.ErrNotFound) {
			h.Log.Warn("register: redeem invitation", zap.Error(err))
		}
	}

	if err := h.Sessions.Establish(w, r, sessionUserFor(created)); err != nil {
		h.ErrLog.ServerError(w, r, "register: establish session", err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.Bool("via_invitation", created.CasaID != nil))

	uierrors.JSON(w, http.StatusCreated, map[string]any{"user": toUserView(created)})
}

// registerExisting covers registering an email that already has an
// account. A valid invitation lets a house-less account join the
// inviting casa instead of answering a plain conflict.
func (h *Handler) registerExisting(ctx context.Context, w http.ResponseWriter, r *http.Request, inv models.Invitation) {
	user, err := h.Users.GetByEmail(ctx, inv.Email)
	if err != nil {
		h.ErrLog.ServerError(w, r, "register: load existing user", err)
		return
	}
	if user.CasaID != nil {
		h.ErrLog.Conflict(w, "an account with this email already exists")
		return
	}

	if _, err := h.Invitations.Redeem(ctx, inv.Token); err != nil {
		if errors.Is(err, invitationstore.ErrUsed) || errors.Is(err, invitationstore.ErrNotFound) {
			h.ErrLog.Conflict(w, "an account with this email already exists")
			return
		}
		h.ErrLog.ServerError(w, r, "register: redeem invitation", err)
		return
	}
	if err := h.Users.SetCasa(ctx, user.ID, &inv.CasaID); err != nil {
		h.ErrLog.ServerError(w, r, "register: assign casa", err)
		return
	}
	user.CasaID = &inv.CasaID

	if err := h.Sessions.Establish(w, r, sessionUserFor(user)); err != nil {
		h.ErrLog.ServerError(w, r, "register: establish session", err)
		return
	}

	h.Log.Info("existing account joined casa via invitation",
		zap.String("user_id", user.ID.Hex()),
		zap.String("casa_id", inv.CasaID.Hex()))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"user":       toUserView(user),
		"wasInvited": true,
	})
}
