// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for MenuCasa.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: MENUCASA_MONGO_URI, MENUCASA_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "menucasa", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "menucasa-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Admin back-office
	{Name: "admin_jwt_secret", Default: "", Desc: "HMAC secret for admin JWT cookies (required)"},
	{Name: "admin_setup_token", Default: "", Desc: "One-time token for creating the first admin (blank disables the setup endpoint)"},
	{Name: "superadmin_username", Default: "", Desc: "Username of the superadmin to ensure on startup"},
	{Name: "superadmin_password", Default: "", Desc: "Password for the startup superadmin (only used when creating)"},

	// Google OAuth configuration
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},
	{Name: "oauth_state_key", Default: "", Desc: "Secret signing the OAuth state cookie (falls back to session_key)"},

	// URLs and branding
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public URL of this API (used for OAuth callbacks)"},
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Frontend URL for post-auth redirects and invitation links"},
	{Name: "site_name", Default: "MenuCasa", Desc: "Display name used in outgoing email"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables outgoing mail)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@menucasa.app", Desc: "From email address"},

	// Nutrition estimation
	{Name: "huggingface_token", Default: "", Desc: "Hugging Face API token (blank disables nutrition estimation)"},

	// Public export API
	{Name: "public_rate_limit", Default: 100, Desc: "Requests per minute allowed per API key on the public export API"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, MENUCASA_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MENUCASA", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		// Admin back-office
		AdminJWTSecret:     appValues.String("admin_jwt_secret"),
		AdminSetupToken:    appValues.String("admin_setup_token"),
		SuperAdminUsername: appValues.String("superadmin_username"),
		SuperAdminPassword: appValues.String("superadmin_password"),

		// Google OAuth
		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),
		OAuthStateKey:      appValues.String("oauth_state_key"),

		// URLs and branding
		BaseURL:     appValues.String("base_url"),
		FrontendURL: appValues.String("frontend_url"),
		SiteName:    appValues.String("site_name"),

		// Email/SMTP
		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		// Nutrition estimation
		HuggingFaceToken: appValues.String("huggingface_token"),

		// Public export API
		PublicRateLimit: appValues.Int("public_rate_limit"),
	}

	// The OAuth state cookie only needs a signing key; reusing the
	// session key keeps small deployments to one secret.
	if appCfg.OAuthStateKey == "" {
		appCfg.OAuthStateKey = appCfg.SessionKey
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// MenuCasa validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and requires the admin
// JWT secret since the back-office cannot mint tokens without it.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.AdminJWTSecret == "" {
		return fmt.Errorf("admin_jwt_secret must be set")
	}

	if appCfg.SuperAdminUsername != "" && appCfg.SuperAdminPassword == "" {
		return fmt.Errorf("superadmin_username is set but superadmin_password is empty")
	}

	if appCfg.PublicRateLimit <= 0 {
		return fmt.Errorf("public_rate_limit must be positive, got %d", appCfg.PublicRateLimit)
	}

	return nil
}
