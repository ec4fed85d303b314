// internal/app/features/admin/usuarios.go
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
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

type adminUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	CasaID   string `json:"casa_id,omitempty"`
}

// HandleListUsers returns every account.
// GET /api/admin/usuarios
func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin list users")
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin list users", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"usuarios": users})
}

// HandleCreateUser creates an account, optionally pre-assigned to a
// casa.
// POST /api/admin/usuarios
func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req adminUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		h.ErrLog.BadRequest(w, "a valid email is required")
		return
	}
	password := req.Password
	if password == "" {
		pw, err := randomPassword()
		if err != nil {
			h.ErrLog.ServerError(w, r, "admin create user: password", err)
			return
		}
		password = pw
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin create user: hash", err)
		return
	}

	user := models.User{
		Email:        email,
		Name:         sanitize.Plain(req.Name),
		PasswordHash: string(hash),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin create user")
	defer cancel()

	if req.CasaID != "" {
		casaID, err := primitive.ObjectIDFromHex(req.CasaID)
		if err != nil {
			h.ErrLog.BadRequest(w, "invalid casa_id")
			return
		}
		if _, err := h.Casas.GetByID(ctx, casaID); err != nil {
			if errors.Is(err, casastore.ErrNotFound) {
				h.ErrLog.NotFound(w, "casa not found")
				return
			}
			h.ErrLog.ServerError(w, r, "admin create user: casa", err)
			return
		}
		user.CasaID = &casaID
	}

	created, err := h.Users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			h.ErrLog.Conflict(w, "a user with this email already exists")
			return
		}
		h.ErrLog.ServerError(w, r, "admin create user", err)
		return
	}

	h.Log.Info("user created by admin", zap.String("email", created.Email))
	uierrors.JSON(w, http.StatusCreated, map[string]any{"usuario": created})
}

// HandleGetUser returns one account.
// GET /api/admin/usuarios/{id}
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin get user")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "user not found")
			return
		}
		h.ErrLog.ServerError(w, r, "admin get user", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"usuario": user})
}

// HandleUpdateUser rewrites profile fields, password, or casa
// assignment. Empty fields keep their current value; "casa_id": ""
// detaches.
// PUT /api/admin/usuarios/{id}
func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid user id")
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.ErrLog.BadRequest(w, "invalid JSON body")
		return
	}
	var req adminUserRequest
	for k, v := range raw {
		switch k {
		case "name":
			_ = json.Unmarshal(v, &req.Name)
		case "email":
			_ = json.Unmarshal(v, &req.Email)
		case "password":
			_ = json.Unmarshal(v, &req.Password)
		case "casa_id":
			_ = json.Unmarshal(v, &req.CasaID)
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin update user")
	defer cancel()

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.ErrLog.NotFound(w, "user not found")
			return
		}
		h.ErrLog.ServerError(w, r, "admin update user", err)
		return
	}

	name := user.Name
	if req.Name != "" {
		name = sanitize.Plain(req.Name)
	}
	email := user.Email
	if req.Email != "" {
		email = normalize.Email(req.Email)
	}
	if err := h.Users.UpdateProfile(ctx, id, name, email); err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			h.ErrLog.Conflict(w, "a user with this email already exists")
			return
		}
		h.ErrLog.ServerError(w, r, "admin update user", err)
		return
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.ErrLog.ServerError(w, r, "admin update user: hash", err)
			return
		}
		if err := h.Users.SetPasswordHash(ctx, id, string(hash)); err != nil {
			h.ErrLog.ServerError(w, r, "admin update user: password", err)
			return
		}
	}

	if _, ok := raw["casa_id"]; ok {
		if req.CasaID == "" {
			if err := h.Users.SetCasa(ctx, id, nil); err != nil {
				h.ErrLog.ServerError(w, r, "admin update user: detach casa", err)
				return
			}
		} else {
			casaID, err := primitive.ObjectIDFromHex(req.CasaID)
			if err != nil {
				h.ErrLog.BadRequest(w, "invalid casa_id")
				return
			}
			if err := h.Users.SetCasa(ctx, id, &casaID); err != nil {
				h.ErrLog.ServerError(w, r, "admin update user: set casa", err)
				return
			}
		}
	}

	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin update user: reload", err)
		return
	}
	uierrors.JSON(w, http.StatusOK, map[string]any{"usuario": updated})
}

// HandleDeleteUser removes an account and revokes its API keys.
// DELETE /api/admin/usuarios/{id}
func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.BadRequest(w, "invalid user id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "admin delete user")
	defer cancel()

	deleted, err := h.Users.Delete(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin delete user", err)
		return
	}
	if deleted == 0 {
		h.ErrLog.NotFound(w, "user not found")
		return
	}
	revoked, err := h.Keys.DeleteAllForUser(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "admin delete user: revoke keys", err)
		return
	}

	h.Log.Info("user deleted by admin",
		zap.String("user_id", id.Hex()),
		zap.Int64("keys_revoked", revoked))

	uierrors.JSON(w, http.StatusOK, map[string]any{
		"status":       "deleted",
		"keys_revoked": revoked,
	})
}
