package constants

import "time"

// Server Timeouts
const (
	DefaultReadTimeout     = 5 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultRequestTimeout  = 30 * time.Second
)

// Database Timeouts
const (
	DBConnectionTimeout  = 30 * time.Second
	DBHealthCheckTimeout = 5 * time.Second
	DBConnMaxLifetime    = 1 * time.Hour
	DBConnMaxIdleTime    = 30 * time.Minute
)

// Authentication Timeouts
const (
	DefaultJWTExpiry        = 30 * time.Minute
	DefaultJWTRefreshExpiry = 7 * 24 * time.Hour // 7 days
	DefaultPasswordResetTTL = 1 * time.Hour
)

// Supporting Service Timeouts
const (
	DefaultRateLimitWindow  = 1 * time.Minute
	DefaultEmailSendTimeout = 15 * time.Second
	DefaultCatalogCacheTTL  = 5 * time.Minute
	RedisHealthCheckTimeout = 2 * time.Second
	WorkerShutdownTimeout   = 10 * time.Second
)

// Operation Durations
const (
	HSTSMaxAgeSeconds = 31536000 // one year
)
