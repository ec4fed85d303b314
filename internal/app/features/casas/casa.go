// internal/app/features/casas/casa.go
package casas

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	casastore "github.com/dalemusser/menucasa/internal/app/store/casas"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type casaRequest struct {
	Nombre    string   `json:"nombre"`
	Invitados []string `json:"invitados"`
}

// invitationFailure reports one address the create flow could not
// invite. The casa itself is never rolled back over these.
type invitationFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

type casaView struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	CreatorID string `json:"creator_id"`
}

func toCasaView(c models.Casa) casaView {
	return casaView{ID: c.ID.Hex(), Nombre: c.Nombre, CreatorID: c.CreatorID.Hex()}
}

// HandleCreate makes a new household with the caller as creator and
// first member.
// POST /api/casa
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)
	if su.CasaID != "" {
		h.ErrLog.Conflict(w, "you already belong to a casa")
		return
	}

	var req casaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	nombre := sanitize.Plain(req.Nombre)
	if nombre == "" {
		h.ErrLog.BadRequest(w, "casa name is required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		h.ErrLog.Unauthorized(w, "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create casa")
	defer cancel()

	casa, err := h.Casas.Create(ctx, models.Casa{Nombre: nombre, CreatorID: userID})
	if err != nil {
		if errors.Is(err, casastore.ErrDuplicateName) {
			h.ErrLog.Conflict(w, "a casa with this name already exists")
			return
		}
		h.ErrLog.ServerError(w, r, "create casa", err)
		return
	}

	if err := h.Users.SetCasa(ctx, userID, &casa.ID); err != nil {
		h.ErrLog.ServerError(w, r, "create casa: assign creator", err)
		return
	}

	// Keep the session in step with the new membership.
	su.CasaID = casa.ID.Hex()
	if err := h.Sessions.Refresh(w, r, su); err != nil {
		h.Log.Warn("create casa: refresh session", zap.Error(err))
	}

	fallidas := h.inviteAll(ctx, casa, su.Name, req.Invitados)

	h.Log.Info("casa created",
		zap.String("casa_id", casa.ID.Hex()),
		zap.String("creator_id", su.ID),
		zap.Int("invitados", len(req.Invitados)),
		zap.Int("invitaciones_fallidas", len(fallidas)))

	uierrors.JSON(w, http.StatusCreated, map[string]any{
		"casa":                 toCasaView(casa),
		"invitacionesFallidas": fallidas,
	})
}

// HandleGet returns the caller's household.
// GET /api/casa
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	casaID, err := primitive.ObjectIDFromHex(su.CasaID)
	if err != nil {
		h.ErrLog.Forbidden(w, "no casa assigned")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get casa")
	defer cancel()

	casa, err := h.Casas.GetByID(ctx, casaID)
	if err != nil {
		if errors.Is(err, casastore.ErrNotFound) {
			h.ErrLog.NotFound(w, "casa not found")
			return
		}
		h.ErrLog.ServerError(w, r, "get casa", err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{"casa": toCasaView(casa)})
}

// HandleRename changes the household name. Creator only.
// PUT /api/casa
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var req casaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	nombre := sanitize.Plain(req.Nombre)
	if nombre == "" {
		h.ErrLog.BadRequest(w, "casa name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "rename casa")
	defer cancel()

	casa, ok := h.requireCreator(ctx, w, r, su)
	if !ok {
		return
	}

	if err := h.Casas.Rename(ctx, casa.ID, nombre); err != nil {
		if errors.Is(err, casastore.ErrDuplicateName) {
			h.ErrLog.Conflict(w, "a casa with this name already exists")
			return
		}
		h.ErrLog.ServerError(w, r, "rename casa", err)
		return
	}

	casa.Nombre = nombre
	uierrors.JSON(w, http.StatusOK, map[string]any{"casa": toCasaView(casa)})
}

// HandleDelete removes the household and detaches every member.
// Creator only; users and their data survive, only the grouping goes.
// DELETE /api/casa
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete casa")
	defer cancel()

	casa, ok := h.requireCreator(ctx, w, r, su)
	if !ok {
		return
	}

	detached, err := h.Users.DetachAllFromCasa(ctx, casa.ID)
	if err != nil {
		h.ErrLog.ServerError(w, r, "delete casa: detach members", err)
		return
	}
	if _, err := h.Casas.Delete(ctx, casa.ID); err != nil {
		h.ErrLog.ServerError(w, r, "delete casa", err)
		return
	}

	su.CasaID = ""
	if err := h.Sessions.Refresh(w, r, su); err != nil {
		h.Log.Warn("delete casa: refresh session", zap.Error(err))
	}

	h.Log.Info("casa deleted",
		zap.String("casa_id", casa.ID.Hex()),
		zap.Int64("members_detached", detached))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"status":           "deleted",
		"members_detached": detached,
	})
}
