package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// LoadEnv overlays environment variables onto the config struct.
// Each section is processed separately using its envconfig tags; variables
// that are not set leave the values read from the config file untouched.
func LoadEnv(config *AppConfig) error {
	log.Debug().Msg("Loading environment variables")

	sections := []struct {
		name   string
		target interface{}
	}{
		{"app", &config.App},
		{"database", &config.Database},
		{"server", &config.Server},
		{"jwt", &config.JWT},
		{"password_reset", &config.PasswordReset},
		{"auth", &config.Auth},
		{"email", &config.Email},
		{"redis", &config.Redis},
		{"queue", &config.Queue},
		{"rate_limit", &config.RateLimit},
		{"logging", &config.Logging},
		{"cors", &config.CORS},
		{"password_hash", &config.PasswordHash},
	}

	for _, section := range sections {
		if err := envconfig.Process("", section.target); err != nil {
			return fmt.Errorf("%s: %w", section.name, err)
		}
	}

	log.Debug().
		Str("APP_ENV", os.Getenv("APP_ENV")).
		Str("DB_DRIVER", os.Getenv("DB_DRIVER")).
		Str("DB_HOST", os.Getenv("DB_HOST")).
		Msg("Environment variables loaded")

	return nil
}
