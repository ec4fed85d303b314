// internal/app/features/casas/transfer.go
package casas

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
)

type transferRequest struct {
	UserID string `json:"user_id"`
}

// HandleTransfer hands creator rights to another member of the casa.
// PUT /api/casa/propietario
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	su, _ := auth.CurrentUser(r)

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	targetID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid user_id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "transfer casa")
	defer cancel()

	casa, ok := h.requireCreator(ctx, w, r, su)
	if !ok {
		return
	}
	if targetID == casa.CreatorID {
		h.ErrLog.BadRequest(w, "you are already the creator")
		return
	}

	target, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	if target.CasaID == nil || *target.CasaID != casa.ID {
		h.ErrLog.BadRequest(w, "user is not a member of this casa")
		return
	}

	if err := h.Casas.TransferCreator(ctx, casa.ID, targetID); err != nil {
		h.ErrLog.ServerError(w, r, "transfer creator", err)
		return
	}

	h.Log.Info("casa creator transferred",
		zap.String("casa_id", casa.ID.Hex()),
		zap.String("from", su.ID),
		zap.String("to", targetID.Hex()))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"status":     "transferred",
		"creator_id": targetID.Hex(),
	})
}
