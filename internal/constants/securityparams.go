package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	EmailContextKey     = "email"
	RoleContextKey      = "role"
	PrincipalContextKey = "principal"
	RequestIDContextKey = "request_id"
)

// Auth Token Types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Input Validation
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MinNameLength     = 1
	MaxNameLength     = 100
	MaxEmailLength    = 255
)

// Cookie Names
const (
	AccessTokenCookie = "access_token"
)

// Email Providers
const (
	EmailProviderLog      = "log"
	EmailProviderSMTP     = "smtp"
	EmailProviderSES      = "ses"
	EmailProviderSendGrid = "sendgrid"
)

// Catalog Sorting
const (
	SortByPrice = "price"
	SortByName  = "name"
)

// Cache Keys
const (
	CacheKeyCatalogVersion = "catalog:version"
	CacheKeyCatalogPrefix  = "catalog"
)

// Queue Names and Task Types
const (
	QueueDefault      = "default"
	QueueCritical     = "critical"
	TaskTypeSendEmail = "email:send"
)
