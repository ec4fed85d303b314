// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//   - Database connection timeouts
//
// AppConfig is where everything specific to MenuCasa lives: the Mongo
// connection, session and admin-token secrets, the OAuth client, the
// mailer, and the Hugging Face nutrition estimator.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: menucasa-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Admin back-office authentication
	AdminJWTSecret  string // HMAC secret for admin JWT cookies
	AdminSetupToken string // One-time token gating POST /api/admin/setup (blank disables setup)

	// SuperAdmin bootstrap (created on startup if the admins collection is empty)
	SuperAdminUsername string
	SuperAdminPassword string

	// Google OAuth configuration
	GoogleClientID     string // Google OAuth2 client ID
	GoogleClientSecret string // Google OAuth2 client secret
	OAuthStateKey      string // Secret signing the short-lived OAuth state cookie

	// URLs and branding
	BaseURL     string // Public URL of this API (OAuth callbacks, e.g. https://api.menucasa.example)
	FrontendURL string // Where browsers land after auth flows and invitation links
	SiteName    string // Display name used in outgoing email

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (blank disables outgoing mail)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for Mailpit)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@menucasa.example)

	// Nutrition estimation (Hugging Face zero-shot classification)
	HuggingFaceToken string // API token; blank disables estimation endpoints

	// Public export API
	PublicRateLimit int // Requests per minute allowed per API key
}
