// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminfeature "github.com/dalemusser/menucasa/internal/app/features/admin"
	apikeysfeature "github.com/dalemusser/menucasa/internal/app/features/apikeys"
	authgooglefeature "github.com/dalemusser/menucasa/internal/app/features/authgoogle"
	casasfeature "github.com/dalemusser/menucasa/internal/app/features/casas"
	discoverfeature "github.com/dalemusser/menucasa/internal/app/features/discover"
	errorsfeature "github.com/dalemusser/menucasa/internal/app/features/errors"
	healthfeature "github.com/dalemusser/menucasa/internal/app/features/health"
	loginfeature "github.com/dalemusser/menucasa/internal/app/features/login"
	mealsfeature "github.com/dalemusser/menucasa/internal/app/features/meals"
	publicapifeature "github.com/dalemusser/menucasa/internal/app/features/publicapi"
	weeklymenufeature "github.com/dalemusser/menucasa/internal/app/features/weeklymenu"
	"github.com/dalemusser/menucasa/internal/app/system/adminauth"
	"github.com/dalemusser/menucasa/internal/app/system/auth"
	"github.com/dalemusser/menucasa/internal/app/system/mailer"
	"github.com/dalemusser/menucasa/internal/app/system/nutrition"
	"github.com/dalemusser/menucasa/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// MenuCasa is a JSON API. The router loads the session user globally,
// then mounts the feature routers: account auth, Google OAuth, casa
// management, the meal catalog, meal discovery, weekly menus, API
// keys, the key-authenticated public export, and the admin back-office.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	adminTokens, err := adminauth.NewManager(appCfg.AdminJWTSecret, secure)
	if err != nil {
		logger.Error("admin token manager init failed", zap.Error(err))
		return nil, err
	}

	m := mailer.New(appCfg.MailSMTPHost, appCfg.MailSMTPPort,
		appCfg.MailSMTPUser, appCfg.MailSMTPPass, appCfg.MailFrom, logger)
	estimator := nutrition.New(appCfg.HuggingFaceToken, logger)
	publicLimiter := ratelimit.New(appCfg.PublicRateLimit, time.Minute)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	db := deps.MongoDatabase

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Account auth: register, login, logout, session, Google association
	loginHandler := loginfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))

	// Google OAuth sign-in
	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, errLog,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret,
		appCfg.BaseURL, appCfg.FrontendURL, appCfg.OAuthStateKey, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Casa management: create, rename, members, invitations, transfer
	casasHandler := casasfeature.NewHandler(db, sessionMgr, m, errLog,
		appCfg.SiteName, appCfg.FrontendURL, logger)
	r.Mount("/api/casa", casasfeature.Routes(casasHandler))

	// Meal catalog and nutrition estimation
	mealsHandler := mealsfeature.NewHandler(db, sessionMgr, estimator, errLog, logger)
	r.Mount("/api/meals", mealsfeature.Routes(mealsHandler))
	r.With(sessionMgr.RequireSignedIn).Post("/api/nutrition", mealsHandler.HandleEstimate)

	// Free-text meal discovery over the suggestion catalog
	discoverHandler := discoverfeature.NewHandler(sessionMgr, estimator, errLog, logger)
	r.Mount("/api/discover-meals", discoverfeature.Routes(discoverHandler))

	// Weekly menu planner, shopping lists, menu generation
	menuHandler := weeklymenufeature.NewHandler(db, sessionMgr, m, errLog, appCfg.SiteName, logger)
	r.Mount("/api/weekly-menu", weeklymenufeature.Routes(menuHandler))

	// API key management for the public export feed
	keysHandler := apikeysfeature.NewHandler(db, sessionMgr, errLog, logger)
	r.Mount("/api/apikeys", apikeysfeature.Routes(keysHandler))

	// Key-authenticated public export (rate limited per key)
	publicHandler := publicapifeature.NewHandler(db, publicLimiter, errLog, logger)
	r.Mount("/api/public", publicapifeature.Routes(publicHandler))

	// Admin back-office (JWT cookie auth, separate identity space)
	adminHandler := adminfeature.NewHandler(db, adminTokens, errLog, appCfg.AdminSetupToken, logger)
	r.Mount("/api/admin", adminfeature.Routes(adminHandler))

	return r, nil
}
