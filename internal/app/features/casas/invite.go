// internal/app/features/casas/invite.go
package casas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/mailer"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type inviteRequest struct {
	Email string `json:"email"`
}

// HandleInvite invites someone into the caller's household by email.
// Only the casa creator may invite. If the address already belongs to
// a registered user with no casa, they are assigned directly instead
// of getting an email token.
// POST /api/casa/invitar
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		h.ErrLog.BadRequest(w, "a valid email is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "invite to casa")
	defer cancel()

	casa, ok := h.requireCreator(ctx, w, r, su)
	if !ok {
		return
	}

	// Existing user with no household joins immediately.
	existing, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.CasaID != nil {
			h.ErrLog.Conflict(w, "that user already belongs to a casa")
			return
		}
		if err := h.Users.SetCasa(ctx, existing.ID, &casa.ID); err != nil {
			h.ErrLog.ServerError(w, r, "invite: assign member", err)
			return
		}
		h.Log.Info("member added to casa directly",
			zap.String("casa_id", casa.ID.Hex()),
			zap.String("user_id", existing.ID.Hex()))
		uierrors.JSON(w, http.StatusOK, map[string]any{"status": "added", "email": email})
		return
	case !errors.Is(err, userstore.ErrNotFound):
		h.ErrLog.ServerError(w, r, "invite: lookup user", err)
		return
	}

	inv, err := h.Invitations.Create(ctx, email, casa.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "invite: create invitation", err)
		return
	}

	email2 := mailer.BuildInvitationEmail(mailer.InvitationEmailData{
		SiteName:    h.SiteName,
		CasaName:    casa.Nombre,
		InviterName: su.Name,
		AcceptLink:  h.FrontendURL + "/invite?token=" + inv.Token,
		ExpiresIn:   "7 days",
	})
	email2.To = email
	if err := h.Mailer.Send(email2); err != nil {
		// Without the email the token is unreachable, so don't
		// leave it dangling.
		if derr := h.Invitations.Delete(ctx, inv.ID); derr != nil {
			h.Log.Warn("invite: remove orphaned invitation",
				zap.String("email", email),
				zap.Error(derr))
		}
		h.ErrLog.ServerError(w, r, "invite: send email", err)
		return
	}

	uierrors.JSON(w, http.StatusCreated, map[string]any{
		"status":     "invited",
		"email":      email,
		"expires_at": inv.ExpiresAt,
	})
}

// inviteAll processes the invitados list given on casa creation.
// Best effort: each failure is reported, none aborts the others.
func (h *Handler) inviteAll(ctx context.Context, casa models.Casa, inviterName string, invitados []string) []invitationFailure {
	fallidas := []invitationFailure{}
	for _, raw := range invitados {
		email := normalize.Email(raw)
		if email == "" || !strings.Contains(email, "@") {
			fallidas = append(fallidas, invitationFailure{Email: raw, Reason: "invalid email"})
			continue
		}
		if err := h.inviteOne(ctx, casa, inviterName, email); err != nil {
			h.Log.Warn("casa create: invitation failed",
				zap.String("email", email),
				zap.Error(err))
			fallidas = append(fallidas, invitationFailure{Email: email, Reason: err.Error()})
		}
	}
	return fallidas
}

// inviteOne runs the same flow as HandleInvite for one address:
// direct assignment for a registered house-less user, otherwise a
// tokened invitation delivered by email.
func (h *Handler) inviteOne(ctx context.Context, casa models.Casa, inviterName, email string) error {
	existing, err := h.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.CasaID != nil {
			return errors.New("already belongs to a casa")
		}
		return h.Users.SetCasa(ctx, existing.ID, &casa.ID)
	case !errors.Is(err, userstore.ErrNotFound):
		return err
	}

	inv, err := h.Invitations.Create(ctx, email, casa.ID)
	if err != nil {
		return err
	}

	msg := mailer.BuildInvitationEmail(mailer.InvitationEmailData{
		SiteName:    h.SiteName,
		CasaName:    casa.Nombre,
		InviterName: inviterName,
		AcceptLink:  h.FrontendURL + "/invite?token=" + inv.Token,
		ExpiresIn:   "7 days",
	})
	msg.To = email
	if err := h.Mailer.Send(msg); err != nil {
		if derr := h.Invitations.Delete(ctx, inv.ID); derr != nil {
			h.Log.Warn("invite: remove orphaned invitation",
				zap.String("email", email),
				zap.Error(derr))
		}
		return err
	}
	return nil
}
