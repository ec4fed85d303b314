// internal/app/features/admin/casas.go
package admin

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	casastore "github.com/dalemusser/menucasa/internal/app/store/casas"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/normalize"
	"github.com/dalemusser/menucasa/internal/app/system/sanitize"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

type adminCasaView struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	CreatorID    string `json:"creator_id"`
	CreatorEmail string `json:"creator_email,omitempty"`
	MemberCount  int    `json:"member_count"`
}

type adminCasaRequest struct {
	Nombre       string `json:"nombre"`
	CreadorEmail string `json:"creadorEmail,omitempty"`
}

// HandleListCasas returns every casa with its creator and member count.
// GET /api/admin/casas
func (h *Handler) HandleListCasas(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list casas")
	defer cancel()

	casas, err := h.Casas.List(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin list casas", err)
		return
	}

	views := make([]adminCasaView, 0, len(casas))
	for _, c := range casas {
		view := adminCasaView{
			ID:        c.ID.Hex(),
			Nombre:    c.Nombre,
			CreatorID: c.CreatorID.Hex(),
		}
		members, err := h.Users.ListByCasa(ctx, c.ID)
		if err != nil {
			h.ErrLog.ServerError(w, r, "admin list casas: members", err)
			return
		}
		view.MemberCount = len(members)
		for _, m := range members {
			if m.ID == c.CreatorID {
				view.CreatorEmail = m.Email
			}
		}
		views = append(views, view)
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"casas": views})
}

// randomPassword returns a throwaway credential for admin-created
// accounts; the user resets it through the normal flow.
func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HandleCreateCasa creates a casa, inventing a creator account when no
// email is supplied.
// POST /api/admin/casas
func (h *Handler) HandleCreateCasa(w http.ResponseWriter, r *http.Request) {
	var req adminCasaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	nombre := sanitize.Plain(req.Nombre)
	if nombre == "" {
		h.ErrLog.BadRequest(w, "casa name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin create casa")
	defer cancel()

	email := normalize.Email(req.CreadorEmail)
	if email == "" {
		// Placeholder owner; real members join by invitation.
		email = fmt.Sprintf("casa-%s@menucasa.invalid", uuid.NewString())
	}

	creator, err := h.Users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		pw, perr := randomPassword()
		if perr != nil {
			h.ErrLog.ServerError(w, r, "admin create casa: password", perr)
			return
		}
		hash, herr := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if herr != nil {
			h.ErrLog.ServerError(w, r, "admin create casa: hash", herr)
			return
		}
		creator, err = h.Users.Create(ctx, models.User{
			Email:        email,
			Name:         nombre,
			PasswordHash: string(hash),
		})
	}
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin create casa: creator", err)
		return
	}
	if creator.CasaID != nil {
		h.ErrLog.Conflict(w, "creator already belongs to a casa")
		return
	}

	casa, err := h.Casas.Create(ctx, models.Casa{
		Nombre:    nombre,
		CreatorID: creator.ID,
	})
	if err != nil {
		if errors.Is(err, casastore.ErrDuplicateName) {
			h.ErrLog.Conflict(w, "a casa with this name already exists")
			return
		}
		h.ErrLog.ServerError(w, r, "admin create casa", err)
		return
	}
	if err := h.Users.SetCasa(ctx, creator.ID, &casa.ID); err != nil {
		h.ErrLog.ServerError(w, r, "admin create casa: link creator", err)
		return
	}

	h.Log.Info("casa created by admin",
		zap.String("casa_id", casa.ID.Hex()),
		zap.String("creator_email", email))

	uierrors.JSON(w, http.StatusCreated, map[string]any{"casa": adminCasaView{
		ID:           casa.ID.Hex(),
		Nombre:       casa.Nombre,
		CreatorID:    creator.ID.Hex(),
		CreatorEmail: creator.Email,
		MemberCount:  1,
	}})
}

// HandleGetCasa returns one casa with its members.
// GET /api/admin/casas/{id}
func (h *Handler) HandleGetCasa(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid casa id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin get casa")
	defer cancel()

	casa, err := h.Casas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, casastore.ErrNotFound) {
			h.ErrLog.NotFound(w, "casa not found")
			return
		}
		h.ErrLog.ServerError(w, r, "admin get casa", err)
		return
	}
	members, err := h.Users.ListByCasa(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin get casa: members", err)
		return
	}

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"casa":     casa,
		"usuarios": members,
	})
}

// HandleUpdateCasa renames a casa.
// PUT /api/admin/casas/{id}
func (h *Handler) HandleUpdateCasa(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid casa id")
		return
	}

	var req adminCasaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	nombre := sanitize.Plain(req.Nombre)
	if nombre == "" {
		h.ErrLog.BadRequest(w, "casa name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin rename casa")
	defer cancel()

	if err := h.Casas.Rename(ctx, id, nombre); err != nil {
		switch {
		case errors.Is(err, casastore.ErrNotFound):
			h.ErrLog.NotFound(w, "casa not found")
		case errors.Is(err, casastore.ErrDuplicateName):
			h.ErrLog.Conflict(w, "a casa with this name already exists")
		default:
			h.ErrLog.ServerError(w, r, "admin rename casa", err)
		}
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDeleteCasa unlinks every member, then removes the casa.
// DELETE /api/admin/casas/{id}
func (h *Handler) HandleDeleteCasa(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid casa id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin delete casa")
	defer cancel()

	detached, err := h.Users.DetachAllFromCasa(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin delete casa: detach", err)
		return
	}
	deleted, err := h.Casas.Delete(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin delete casa", err)
		return
	}
	if deleted == 0 {
		h.ErrLog.NotFound(w, "casa not found")
		return
	}

	h.Log.Info("casa deleted by admin",
		zap.String("casa_id", id.Hex()),
		zap.Int64("members_detached", detached))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"status":           "deleted",
		"members_detached": detached,
	})
}
