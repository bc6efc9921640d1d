package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// AppConfig represents the entire application configuration.
// It is built once at startup by Load and then passed by pointer to the
// components that need it; nothing mutates it afterwards.
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Auth          AuthSettings          `yaml:"auth"`
	Email         EmailSettings         `yaml:"email"`
	Redis         RedisSettings         `yaml:"redis"`
	Queue         QueueSettings         `yaml:"queue"`
	RateLimit     RateLimitSettings     `yaml:"rate_limit"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	PasswordHash  HashSettings          `yaml:"password_hash"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" envconfig:"APP_ENV"`
	Name        string `yaml:"name" envconfig:"APP_NAME"`
	Version     string `yaml:"version" envconfig:"APP_VERSION"`
}

// DatabaseSettings contains database connection settings.
// URL takes precedence over the individual connection fields.
type DatabaseSettings struct {
	Driver   string `yaml:"driver" envconfig:"DB_DRIVER"`
	URL      string `yaml:"url" envconfig:"DATABASE_URL"`
	Host     string `yaml:"host" envconfig:"DB_HOST"`
	Port     int    `yaml:"port" envconfig:"DB_PORT"`
	Name     string `yaml:"name" envconfig:"DB_NAME"`
	User     string `yaml:"user" envconfig:"DB_USER"`
	Password string `yaml:"password" envconfig:"DB_PASSWORD"`
	SSLMode  string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	Path     string `yaml:"path" envconfig:"DB_PATH"`
	MaxConns int    `yaml:"max_conns" envconfig:"DB_MAX_CONNS"`
	MinConns int    `yaml:"min_conns" envconfig:"DB_MIN_CONNS"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" envconfig:"SERVER_HOST"`
	Port            int           `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains session token settings
type JWTSettings struct {
	Secret        string        `yaml:"secret" envconfig:"JWT_SECRET"`
	Algorithm     string        `yaml:"algorithm" envconfig:"JWT_ALGORITHM"`
	Expiry        time.Duration `yaml:"expiry" envconfig:"JWT_EXPIRY"`
	RefreshExpiry time.Duration `yaml:"refresh_expiry" envconfig:"JWT_REFRESH_EXPIRY"`
	Issuer        string        `yaml:"issuer" envconfig:"JWT_ISSUER"`
}

// PasswordResetSettings controls the reset token lifecycle.
type PasswordResetSettings struct {
	TTL time.Duration `yaml:"ttl" envconfig:"PASSWORD_RESET_TTL"`
	// URL is the frontend page the emailed link points at; the token is appended as ?token=.
	URL string `yaml:"url" envconfig:"PASSWORD_RESET_URL"`
	// SingleActiveToken marks earlier unused tokens as used whenever a new one is issued.
	SingleActiveToken bool `yaml:"single_active_token" envconfig:"PASSWORD_RESET_SINGLE_ACTIVE"`
}

// AuthSettings contains account policy settings
type AuthSettings struct {
	// RestrictAdminSignup refuses role=admin at signup; admins then come from the seeder.
	RestrictAdminSignup bool   `yaml:"restrict_admin_signup" envconfig:"AUTH_RESTRICT_ADMIN_SIGNUP"`
	AdminName           string `yaml:"admin_name" envconfig:"ADMIN_NAME"`
	AdminEmail          string `yaml:"admin_email" envconfig:"ADMIN_EMAIL"`
	AdminPassword       string `yaml:"admin_password" envconfig:"ADMIN_PASSWORD"`
}

// EmailSettings selects and configures the outgoing mail transport
type EmailSettings struct {
	Provider       string        `yaml:"provider" envconfig:"EMAIL_PROVIDER"`
	From           string        `yaml:"from" envconfig:"EMAIL_FROM"`
	FromName       string        `yaml:"from_name" envconfig:"EMAIL_FROM_NAME"`
	SMTPServer     string        `yaml:"smtp_server" envconfig:"EMAIL_SERVER"`
	SMTPPort       int           `yaml:"smtp_port" envconfig:"EMAIL_PORT"`
	SMTPUsername   string        `yaml:"smtp_username" envconfig:"EMAIL_USERNAME"`
	SMTPPassword   string        `yaml:"smtp_password" envconfig:"EMAIL_PASSWORD"`
	SESRegion      string        `yaml:"ses_region" envconfig:"EMAIL_SES_REGION"`
	SendGridAPIKey string        `yaml:"sendgrid_api_key" envconfig:"SENDGRID_API_KEY"`
	SendTimeout    time.Duration `yaml:"send_timeout" envconfig:"EMAIL_SEND_TIMEOUT"`
}

// RedisSettings configures the catalog cache and the job queue broker.
// An empty Addr disables the catalog cache.
type RedisSettings struct {
	Addr       string        `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password   string        `yaml:"password" envconfig:"REDIS_PASSWORD"`
	DB         int           `yaml:"db" envconfig:"REDIS_DB"`
	CatalogTTL time.Duration `yaml:"catalog_ttl" envconfig:"CATALOG_CACHE_TTL"`
}

// QueueSettings enables queued email delivery through the worker process
type QueueSettings struct {
	Enabled     bool `yaml:"enabled" envconfig:"QUEUE_ENABLED"`
	Concurrency int  `yaml:"concurrency" envconfig:"QUEUE_CONCURRENCY"`
}

// RateLimitSettings contains per-IP request budgets
type RateLimitSettings struct {
	Requests     int           `yaml:"requests" envconfig:"RATE_LIMIT_REQUESTS"`
	AuthRequests int           `yaml:"auth_requests" envconfig:"RATE_LIMIT_AUTH_REQUESTS"`
	Window       time.Duration `yaml:"window" envconfig:"RATE_LIMIT_WINDOW"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format     string `yaml:"format" envconfig:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" envconfig:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" envconfig:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Memory      uint32 `yaml:"memory" envconfig:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" envconfig:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" envconfig:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" envconfig:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" envconfig:"HASH_KEY_LENGTH"`
}

// ConnectionString returns the data source name for the configured driver.
func (dbs *DatabaseSettings) ConnectionString() string {
	if dbs.URL != "" {
		return dbs.URL
	}

	switch dbs.Driver {
	case constants.DriverMySQL:
		// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
		password := dbs.Password
		if password != "" {
			password = ":" + password
		}
		return fmt.Sprintf(
			"%s%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
			dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
		)
	case constants.DriverSQLite:
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbs.Path)
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(dbs.User, dbs.Password),
			Host:     fmt.Sprintf("%s:%d", dbs.Host, dbs.Port),
			Path:     "/" + dbs.Name,
			RawQuery: "sslmode=" + dbs.SSLMode,
		}
		return u.String()
	}
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// CacheEnabled reports whether a Redis address is configured.
func (rs *RedisSettings) CacheEnabled() bool {
	return rs.Addr != ""
}

// Load loads the configuration from a config file and environment variables.
// A missing file is not an error; defaults and the environment still apply.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	// Load configuration from file if it exists
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = constants.DefaultAppVersion
	}

	// Server defaults
	if config.Server.Host == "" {
		config.Server.Host = constants.DefaultServerHost
	}
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	// Database defaults
	if config.Database.Driver == "" {
		config.Database.Driver = driverFromURL(config.Database.URL)
	}
	if config.Database.Host == "" {
		config.Database.Host = "localhost"
	}
	if config.Database.Port == 0 {
		switch config.Database.Driver {
		case constants.DriverMySQL:
			config.Database.Port = 3306
		default:
			config.Database.Port = 5432
		}
	}
	if config.Database.SSLMode == "" {
		config.Database.SSLMode = "disable"
	}
	if config.Database.Path == "" {
		config.Database.Path = constants.DefaultSQLitePath
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}

	// JWT defaults
	if config.JWT.Algorithm == "" {
		config.JWT.Algorithm = constants.DefaultJWTAlgorithm
	}
	if config.JWT.Expiry == 0 {
		config.JWT.Expiry = constants.DefaultJWTExpiry
	}
	if config.JWT.RefreshExpiry == 0 {
		config.JWT.RefreshExpiry = constants.DefaultJWTRefreshExpiry
	}
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}

	// Password reset defaults
	if config.PasswordReset.TTL == 0 {
		config.PasswordReset.TTL = constants.DefaultPasswordResetTTL
	}
	if config.PasswordReset.URL == "" {
		config.PasswordReset.URL = constants.DefaultPasswordResetURL
	}

	// Email defaults
	if config.Email.Provider == "" {
		config.Email.Provider = constants.DefaultEmailProvider
	}
	if config.Email.FromName == "" {
		config.Email.FromName = constants.DefaultEmailFromName
	}
	if config.Email.SMTPServer == "" {
		config.Email.SMTPServer = constants.DefaultSMTPServer
	}
	if config.Email.SMTPPort == 0 {
		config.Email.SMTPPort = constants.DefaultSMTPPort
	}
	if config.Email.SMTPUsername == "" {
		config.Email.SMTPUsername = config.Email.From
	}
	if config.Email.SendTimeout == 0 {
		config.Email.SendTimeout = constants.DefaultEmailSendTimeout
	}

	// Redis and queue defaults
	if config.Redis.CatalogTTL == 0 {
		config.Redis.CatalogTTL = constants.DefaultCatalogCacheTTL
	}
	if config.Queue.Concurrency == 0 {
		config.Queue.Concurrency = constants.DefaultQueueConcurrency
	}

	// Rate limit defaults
	if config.RateLimit.Requests == 0 {
		config.RateLimit.Requests = constants.DefaultRateLimitRequests
	}
	if config.RateLimit.AuthRequests == 0 {
		config.RateLimit.AuthRequests = constants.DefaultRateLimitAuthRequests
	}
	if config.RateLimit.Window == 0 {
		config.RateLimit.Window = constants.DefaultRateLimitWindow
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Password hash defaults, lower for development, higher for production
	if config.PasswordHash.Memory == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
		} else {
			config.PasswordHash.Memory = constants.DevPasswordHashMemory
		}
	}
	if config.PasswordHash.Iterations == 0 {
		if config.App.IsProduction() {
			config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
		} else {
			config.PasswordHash.Iterations = constants.DevPasswordHashIterations
		}
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}
}

// driverFromURL infers the driver from a DATABASE_URL scheme, defaulting to postgres.
func driverFromURL(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "mysql://"):
		return constants.DriverMySQL
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		return constants.DriverSQLite
	default:
		return constants.DriverPostgres
	}
}

// validateConfig validates that the configuration has all required values
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().Str("environment", config.App.Environment).Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	switch config.Database.Driver {
	case constants.DriverPostgres, constants.DriverMySQL:
		if config.Database.URL == "" && config.Database.User == "" {
			return fmt.Errorf("database user must be set")
		}
	case constants.DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		if config.App.IsProduction() {
			return fmt.Errorf("JWT secret must be set in production")
		}
		return fmt.Errorf("JWT secret must be set")
	}
	if config.App.IsProduction() && config.JWT.Secret == "changeme" {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	switch strings.ToUpper(config.JWT.Algorithm) {
	case "HS256", "HS384", "HS512":
		config.JWT.Algorithm = strings.ToUpper(config.JWT.Algorithm)
	default:
		return fmt.Errorf("unsupported JWT algorithm: %s", config.JWT.Algorithm)
	}

	switch config.Email.Provider {
	case constants.EmailProviderLog:
	case constants.EmailProviderSMTP:
		if config.Email.From == "" {
			return fmt.Errorf("email from address must be set for smtp delivery")
		}
	case constants.EmailProviderSES:
		if config.Email.From == "" || config.Email.SESRegion == "" {
			return fmt.Errorf("email from address and SES region must be set for ses delivery")
		}
	case constants.EmailProviderSendGrid:
		if config.Email.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key must be set for sendgrid delivery")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", config.Email.Provider)
	}

	if config.Queue.Enabled && !config.Redis.CacheEnabled() {
		return fmt.Errorf("queue requires a redis address")
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	logCfg := *config

	if logCfg.Database.Password != "" {
		logCfg.Database.Password = constants.LogRedactedValue
	}
	if logCfg.JWT.Secret != "" {
		logCfg.JWT.Secret = constants.LogRedactedValue
	}

	log.Info().
		Str("environment", logCfg.App.Environment).
		Str("version", logCfg.App.Version).
		Str("server", logCfg.Server.ServerAddress()).
		Str("db_driver", logCfg.Database.Driver).
		Str("db_host", logCfg.Database.Host).
		Str("db_name", logCfg.Database.Name).
		Str("jwt_algorithm", logCfg.JWT.Algorithm).
		Dur("reset_ttl", logCfg.PasswordReset.TTL).
		Str("email_provider", logCfg.Email.Provider).
		Bool("cache", logCfg.Redis.CacheEnabled()).
		Bool("queue", logCfg.Queue.Enabled).
		Str("log_level", logCfg.Logging.Level).
		Msg("Configuration loaded")
}
