package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sigrod-cmd/Examen-licencia/internal/providers"
)

const (
	DefaultRelayTimeout = 60 * time.Second
	MaxRelayTimeout     = 5 * time.Minute
)

// CredentialKeys are the configuration keys consulted, in order, for the
// provider credential.
var CredentialKeys = []string{"PROVIDER_API_KEY", "GEMINI_API_KEY"}

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Logging     LoggingConfig
	CORS        CORSConfig
	Provider    ProviderConfig
	Relay       RelayConfig
}

// LoggingConfig holds logrus configuration
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// CORSConfig holds cross-origin configuration. No origins disables CORS.
type CORSConfig struct {
	AllowedOrigins []string
}

// ProviderConfig selects the provider profile and its overrides
type ProviderConfig struct {
	Profile        string
	BaseURL        string
	AuthMode       string
	AuthParam      string
	ResultPath     string
	PromptTemplate string
	StripFences    *bool
}

// RelayConfig holds outbound call configuration
type RelayConfig struct {
	Timeout time.Duration
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PROVIDER_PROFILE", providers.DefaultProfile)
	viper.SetDefault("RELAY_TIMEOUT", DefaultRelayTimeout.String())

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Provider: ProviderConfig{
			Profile:        viper.GetString("PROVIDER_PROFILE"),
			BaseURL:        viper.GetString("PROVIDER_BASE_URL"),
			AuthMode:       viper.GetString("PROVIDER_AUTH_MODE"),
			AuthParam:      viper.GetString("PROVIDER_AUTH_PARAM"),
			ResultPath:     viper.GetString("PROVIDER_RESULT_PATH"),
			PromptTemplate: viper.GetString("PROVIDER_PROMPT_TEMPLATE"),
		},
	}

	if raw := strings.TrimSpace(viper.GetString("PROVIDER_STRIP_FENCES")); raw != "" {
		strip, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVIDER_STRIP_FENCES %q: %w", raw, err)
		}
		config.Provider.StripFences = &strip
	}

	timeout, err := parseTimeout(viper.GetString("RELAY_TIMEOUT"))
	if err != nil {
		return nil, err
	}
	config.Relay.Timeout = timeout

	if config.Logging.Format == "" {
		config.Logging.Format = "text"
		if config.IsProduction() {
			config.Logging.Format = "json"
		}
	}

	return config, nil
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// ProfileOverrides converts the provider configuration into profile overrides
func (p ProviderConfig) ProfileOverrides() providers.Overrides {
	return providers.Overrides{
		BaseURL:        p.BaseURL,
		AuthMode:       p.AuthMode,
		AuthParam:      p.AuthParam,
		ResultPath:     p.ResultPath,
		PromptTemplate: p.PromptTemplate,
		StripFences:    p.StripFences,
	}
}

// ResolveProfile resolves the configured provider profile
func (p ProviderConfig) ResolveProfile() (*providers.Profile, error) {
	profile, err := providers.Resolve(p.Profile, p.ProfileOverrides())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider profile: %w", err)
	}
	return profile, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRelayTimeout, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		// Plain integers are seconds
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, fmt.Errorf("invalid RELAY_TIMEOUT %q: %w", raw, err)
		}
		d = time.Duration(secs) * time.Second
	}

	switch {
	case d <= 0:
		return DefaultRelayTimeout, nil
	case d > MaxRelayTimeout:
		return MaxRelayTimeout, nil
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
