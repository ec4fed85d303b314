// internal/app/system/adminauth/adminauth.go
package adminauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Back-office sessions ride in their own HS256-signed cookie, separate
// from the member session, so an admin can stay signed in to the
// dashboard while testing the app as a regular user.

const (
	// CookieName is the admin token cookie.
	CookieName = "admin_token"

	// TokenTTL is how long an admin token stays valid.
	TokenTTL = 8 * time.Hour
)

var (
	ErrNoToken      = errors.New("adminauth: no token")
	ErrInvalidToken = errors.New("adminauth: invalid token")
)

// Claims is the payload minted for back-office sessions.
type Claims struct {
	AdminID  string `json:"adminId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies admin tokens.
type Manager struct {
	secret []byte
	secure bool
}

func NewManager(secret string, secure bool) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("adminauth: signing secret is empty")
	}
	return &Manager{secret: []byte(secret), secure: secure}, nil
}

// Mint returns a signed token for the given admin.
func (m *Manager) Mint(adminID, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		AdminID:  adminID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses and validates a token string, returning its claims.
// Signature, expiry and signing method are all checked; a claim set
// is never trusted without verification.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie writes the admin token cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie expires the admin token cookie.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// FromRequest extracts and verifies the admin claims from the cookie.
func (m *Manager) FromRequest(r *http.Request) (*Claims, error) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoToken
	}
	return m.Verify(c.Value)
}

type ctxKey string

const claimsKey ctxKey = "adminClaims"

// CurrentAdmin returns the verified admin claims from context.
func CurrentAdmin(r *http.Request) (*Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*Claims)
	return c, ok
}

// WithTestAdmin injects claims into the request context for tests.
func WithTestAdmin(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, c))
}

// Exists reports whether the admin account behind a token is still
// present. Wired to the admins store so revoked accounts lose access
// before their token expires.
type Exists func(ctx context.Context, adminID string) (bool, error)

// RequireAdmin verifies the cookie and re-checks the account against
// the store before letting the request through.
func (m *Manager) RequireAdmin(exists Exists) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.FromRequest(r)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ok, err := exists(r.Context(), claims.AdminID)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !ok {
				jsonError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// RequireSuperAdmin additionally checks the superadmin role.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CurrentAdmin(r)
		if !ok || claims.Role != "superadmin" {
			jsonError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":%q}`, msg)
}
