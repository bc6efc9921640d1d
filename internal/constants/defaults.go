// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for resource usage.
package constants

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of products per catalog page.
	DefaultPageSize = 10

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// DefaultAdminListLimit is the default limit for the admin product listing.
	DefaultAdminListLimit = 10

	// MaxAdminListLimit caps the limit parameter of the admin product listing.
	MaxAdminListLimit = 100
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultAppName is the application name reported by /version and the logger.
	DefaultAppName = "shopfront"

	// DefaultAppVersion is reported when no build version is configured.
	DefaultAppVersion = "dev"

	// DefaultServerHost is the default listen address.
	DefaultServerHost = "0.0.0.0"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default number of idle connections kept open.
	DefaultDBMinConnections = 5

	// DefaultSQLitePath is used when the sqlite3 driver is selected without a path.
	DefaultSQLitePath = "shopfront.db"

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultQueueConcurrency is the number of email jobs a worker processes at once.
	DefaultQueueConcurrency = 5

	// DefaultRateLimitRequests is the number of requests allowed per IP per window.
	DefaultRateLimitRequests = 100

	// DefaultRateLimitAuthRequests is the per-IP budget for the /auth routes.
	DefaultRateLimitAuthRequests = 10
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Size Limits.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default Password Hash Settings define the parameters for Argon2id password hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Auth Constants define values related to token issuance.
const (
	// DefaultJWTIssuer is the issuer claim value for JWT tokens.
	DefaultJWTIssuer = "shopfront-api"

	// DefaultJWTAlgorithm is the HMAC algorithm used to sign session tokens.
	DefaultJWTAlgorithm = "HS256"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// TokenTypeBearer is the token_type reported to clients.
	TokenTypeBearer = "bearer"

	// ResetTokenBytes is the number of random bytes in a password reset token.
	ResetTokenBytes = 32

	// DefaultPasswordResetURL is the frontend page that receives the reset token.
	DefaultPasswordResetURL = "http://localhost:3000/reset-password"
)

// Email Defaults.
const (
	// DefaultEmailProvider delivers mail by logging it, which suits development.
	DefaultEmailProvider = "log"

	// DefaultSMTPServer is the SMTP relay used when none is configured.
	DefaultSMTPServer = "smtp.gmail.com"

	// DefaultSMTPPort is the STARTTLS submission port.
	DefaultSMTPPort = 587

	// DefaultEmailFromName is the display name on outgoing mail.
	DefaultEmailFromName = "Shopfront"

	// PasswordResetEmailSubject is the subject line of the reset email.
	PasswordResetEmailSubject = "Password Reset Request"
)
