package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/inkpress/draftgate/internal/platform"
)

// Config is the full application configuration, loaded from environment
// variables.
type Config struct {
	Port                int
	Env                 string
	LogLevel            string
	LogFormat           string
	ShutdownGracePeriod time.Duration

	// Issuer is the external base URL of this server, used in discovery
	// metadata and as the "iss" claim of minted access tokens.
	Issuer string

	// StorageDir holds clients.json, tokens.json and the signing key seed.
	StorageDir string

	// StrictResource makes token issuance require an explicit RFC 8707
	// resource indicator.
	StrictResource bool

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AuthCodeTTL     time.Duration

	Platform platform.Config
}

// LoadConfig reads configuration from the environment, applying development
// defaults for anything unset.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                getEnvIntOrDefault("PORT", 8080),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		StorageDir:     getEnvOrDefault("DRAFTGATE_STORAGE_DIR", "./data"),
		StrictResource: getEnvBoolOrDefault("DRAFTGATE_STRICT_RESOURCE", false),

		AccessTokenTTL:  getEnvDurationOrDefault("DRAFTGATE_ACCESS_TTL", time.Hour),
		RefreshTokenTTL: getEnvDurationOrDefault("DRAFTGATE_REFRESH_TTL", 30*24*time.Hour),
		AuthCodeTTL:     getEnvDurationOrDefault("DRAFTGATE_CODE_TTL", 10*time.Minute),

		Platform: platform.Config{
			AppID:     os.Getenv("PLATFORM_APP_ID"),
			AppSecret: os.Getenv("PLATFORM_APP_SECRET"),
			APIBase:   os.Getenv("PLATFORM_API_BASE"),
		},
	}

	cfg.Issuer = getEnvOrDefault("DRAFTGATE_ISSUER", fmt.Sprintf("http://localhost:%d", cfg.Port))

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.Platform.APIBase != "" && (cfg.Platform.AppID == "" || cfg.Platform.AppSecret == "") {
		return Config{}, fmt.Errorf("PLATFORM_API_BASE is set but PLATFORM_APP_ID/PLATFORM_APP_SECRET are not")
	}

	return cfg, nil
}

// PlatformConfigured reports whether the outbound content platform client
// should be wired up.
func (c Config) PlatformConfigured() bool {
	return c.Platform.APIBase != ""
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDurationOrDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
