// internal/app/features/login/types.go
package login

import (
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

// userView is the account shape returned by auth endpoints.
type userView struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	CasaID        string `json:"casa_id,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

func toUserView(u models.User) userView {
	v := userView{
		ID:            u.ID.Hex(),
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
	}
	if u.CasaID != nil {
		v.CasaID = u.CasaID.Hex()
	}
	return v
}

func sessionUserFor(u models.User) *auth.SessionUser {
	su := &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	}
	if u.CasaID != nil {
		su.CasaID = u.CasaID.Hex()
	}
	return su
}
