// internal/app/features/casas/members.go
package casas

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	casastore "github.com/dalemusser/menucasa/internal/app/store/casas"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type memberView struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email"`
	IsCreator     bool   `json:"is_creator"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// HandleListMembers lists everyone in the caller's household.
// GET /api/casa/usuarios
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	casaID, err := primitive.ObjectIDFromHex(su.CasaID)
	if err != nil {
		h.ErrLog.Forbidden(w, "no casa assigned")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list casa members")
	defer cancel()

	casa, err := h.Casas.GetByID(ctx, casaID)
	if err != nil {
		if errors.Is(err, casastore.ErrNotFound) {
			h.ErrLog.NotFound(w, "casa not found")
			return
		}
		h.ErrLog.ServerError(w, r, "list members: load casa", err)
		return
	}

	users, err := h.Users.ListByCasa(ctx, casaID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list members", err)
		return
	}

	views := make([]memberView, 0, len(users))
	for _, u := range users {
		views = append(views, memberView{
			ID:            u.ID.Hex(),
			Name:          u.Name,
			Email:         u.Email,
			IsCreator:     u.ID == casa.CreatorID,
			IsCurrentUser: u.ID.Hex() == su.ID,
		})
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"usuarios": views})
}

// requireCreator loads the caller's casa and verifies they created it.
// On failure it has already written the error response.
func (h *Handler) requireCreator(ctx context.Context, w http.ResponseWriter, r *http.Request, su *auth.SessionUser) (models.Casa, bool) {
	casaID, err := primitive.ObjectIDFromHex(su.CasaID)
	if err != nil {
		h.ErrLog.Forbidden(w, "no casa assigned")
		return models.Casa{}, false
	}
	casa, err := h.Casas.GetByID(ctx, casaID)
	if err != nil {
		if errors.Is(err, casastore.ErrNotFound) {
			h.ErrLog.NotFound(w, "casa not found")
		} else {
			h.ErrLog.ServerError(w, r, "load casa", err)
		}
		return models.Casa{}, false
	}
	if casa.CreatorID.Hex() != su.ID {
		h.ErrLog.Forbidden(w, "only the casa creator can do this")
		return models.Casa{}, false
	}
	return casa, true
}
