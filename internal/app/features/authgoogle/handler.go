// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	uierrors "github.com/dalemusser/menucasa/internal/app/features/errors"
	invitationstore "github.com/dalemusser/menucasa/internal/app/store/invitations"
	userstore "github.com/dalemusser/menucasa/internal/app/store/users"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/timeouts"
	"github.com/dalemusser/menucasa/internal/domain/models"
)

const stateCookie = "oauth_state"

// Handler handles Google OAuth sign-in.
type Handler struct {
	DB          *mongo.Database
	Log         *zap.Logger
	Sessions    *auth.SessionManager
	ErrLog      *uierrors.ErrorLogger
	Users       *userstore.Store
	Invitations *invitationstore.Store

	// OAuth configuration
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "https://menucasa.example/auth/google/callback"
	FrontendURL  string // where the browser lands after the flow

	stateCodec *securecookie.SecureCookie
}

// NewHandler creates a new Google OAuth handler. stateKey signs the
// short-lived state cookie that binds callback to initiation.
func NewHandler(
	db *mongo.Database,
	sessions *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	clientID, clientSecret, baseURL, frontendURL, stateKey string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		Sessions:     sessions,
		ErrLog:       errLog,
		Users:        userstore.New(db),
		Invitations:  invitationstore.New(db),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
		FrontendURL:  frontendURL,
		stateCodec:   securecookie.New([]byte(stateKey), nil),
	}
}

// oauth2Config returns the Google OAuth2 configuration.
func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google                                                             |
| Initiates the Google OAuth flow by redirecting to Google's consent screen.   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, h.FrontendURL+"/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, h.FrontendURL+"/login?error=internal", http.StatusSeeOther)
		return
	}

	// The signed cookie carries the state back to us on callback.
	encoded, err := h.stateCodec.Encode(stateCookie, state)
	if err != nil {
		h.Log.Error("failed to encode OAuth state cookie", zap.Error(err))
		http.Redirect(w, r, h.FrontendURL+"/login?error=internal", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/auth/google",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)

	h.Log.Debug("initiating Google OAuth flow", zap.String("redirect_url", url))

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/google/callback                                                    |
| Exchanges the code, fetches user info, finds or creates the account,         |
| and establishes a session.                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		h.redirectToLogin(w, r, "google_denied")
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" || !h.validState(r, state) {
		h.Log.Warn("invalid or missing OAuth state")
		h.redirectToLogin(w, r, "invalid_state")
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		h.redirectToLogin(w, r, "invalid_code")
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		h.redirectToLogin(w, r, "token_exchange")
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		h.redirectToLogin(w, r, "user_info")
		return
	}

	h.Log.Debug("Google user info fetched",
		zap.String("google_id", googleUser.ID),
		zap.String("email", googleUser.Email))

	ctxT, cancel := timeouts.WithTimeout(ctx, timeouts.Medium(), h.Log, "google sign-in")
	defer cancel()

	user, err := h.findOrCreateUser(ctxT, googleUser)
	if err != nil {
		h.Log.Error("google sign-in: resolve user", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}

	if err := h.Users.UpdateLastLogin(ctxT, user.ID); err != nil {
		h.Log.Warn("google sign-in: update last_login", zap.Error(err))
	}

	su := &auth.SessionUser{ID: user.ID.Hex(), Name: user.Name, Email: user.Email}
	if user.CasaID != nil {
		su.CasaID = user.CasaID.Hex()
	}
	if err := h.Sessions.Establish(w, r, su); err != nil {
		h.Log.Error("google sign-in: establish session", zap.Error(err))
		h.redirectToLogin(w, r, "internal")
		return
	}

	http.Redirect(w, r, h.FrontendURL+"/", http.StatusSeeOther)
}

// findOrCreateUser resolves a Google identity to an account:
// by linked google_id first, then by email (linking the Google ID),
// and finally by creating a fresh account. However the account was
// resolved, a house-less user picks up any live invitation for their
// email on the way through.
func (h *Handler) findOrCreateUser(ctx context.Context, gu *googleUserInfo) (models.User, error) {
	user, err := h.Users.GetByGoogleID(ctx, gu.ID)
	if err == nil {
		return h.applyPendingInvitation(ctx, user)
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, err
	}

	user, err = h.Users.GetByEmail(ctx, gu.Email)
	if err == nil {
		if linkErr := h.Users.LinkGoogle(ctx, user.ID, gu.ID); linkErr != nil {
			return models.User{}, linkErr
		}
		user.GoogleID = gu.ID
		user.EmailVerified = true
		return h.applyPendingInvitation(ctx, user)
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return models.User{}, err
	}

	created, err := h.Users.Create(ctx, models.User{
		Name:          gu.Name,
		Email:         gu.Email,
		GoogleID:      gu.ID,
		EmailVerified: gu.EmailVerified,
	})
	if err != nil {
		return models.User{}, err
	}
	return h.applyPendingInvitation(ctx, created)
}

// applyPendingInvitation moves a house-less user into the casa of any
// live invitation for their email, spending the token. It never fails
// the sign-in over invitation trouble; the user just stays house-less.
func (h *Handler) applyPendingInvitation(ctx context.Context, user models.User) (models.User, error) {
	if user.CasaID != nil {
		return user, nil
	}
	inv, err := h.Invitations.PendingForEmail(ctx, user.Email)
	if err != nil {
		if !errors.Is(err, invitationstore.ErrNotFound) {
			h.Log.Warn("google sign-in: check invitation", zap.Error(err))
		}
		return user, nil
	}
	if _, err := h.Invitations.Redeem(ctx, inv.Token); err != nil {
		h.Log.Warn("google sign-in: redeem invitation", zap.Error(err))
		return user, nil
	}
	if err := h.Users.SetCasa(ctx, user.ID, &inv.CasaID); err != nil {
		return models.User{}, err
	}
	user.CasaID = &inv.CasaID
	h.Log.Info("invitation redeemed on google sign-in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("casa_id", inv.CasaID.Hex()))
	return user, nil
}

func (h *Handler) validState(r *http.Request, state string) bool {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return false
	}
	var stored string
	if err := h.stateCodec.Decode(stateCookie, c.Value, &stored); err != nil {
		return false
	}
	return stored == state
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.FrontendURL+"/login?error="+code, http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &info, nil
}

// generateState returns a cryptographically random state token.
func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
