package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "hookline.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "HOOKLINE_PORT")
	setString(&cfg.Logging.Level, "HOOKLINE_LOG_LEVEL")
	setString(&cfg.Logging.Service, "HOOKLINE_LOG_SERVICE")

	setString(&cfg.Tracker.APIURL, "LINEAR_API_URL")
	setString(&cfg.Tracker.OAuthURL, "LINEAR_OAUTH_URL")
	setString(&cfg.Tracker.ClientID, "LINEAR_CLIENT_ID")
	setString(&cfg.Tracker.ClientSecret, "LINEAR_CLIENT_SECRET")
	setString(&cfg.Tracker.AccessToken, "LINEAR_ACCESS_TOKEN")

	setString(&cfg.Webhook.Path, "LINEAR_WEBHOOK_PATH")
	setString(&cfg.Webhook.Secret, "LINEAR_WEBHOOK_SECRET")

	setString(&cfg.Completion.APIURL, "OPENAI_API_URL")
	setString(&cfg.Completion.APIKey, "OPENAI_API_KEY")
	setString(&cfg.Completion.Model, "OPENAI_MODEL")

	setInt(&cfg.Breaker.MaxFailures, "HOOKLINE_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "HOOKLINE_BREAKER_TIMEOUT")

	setInt64(&cfg.Cache.MaxSizeMB, "HOOKLINE_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.IssueTTL, "HOOKLINE_CACHE_ISSUE_TTL")

	setString(&cfg.Telemetry.OTLPEndpoint, "HOOKLINE_OTLP_ENDPOINT")
}

// validate checks that required fields are set. Tracker and completion
// credentials are deliberately not required here: the clients report
// their own errors at the first authenticated call.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Tracker.APIURL == "" {
		return errors.New("tracker.api_url is required")
	}
	if cfg.Webhook.Path == "" || !strings.HasPrefix(cfg.Webhook.Path, "/") {
		return errors.New("webhook.path must be a non-empty path starting with '/'")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Cache.MaxSizeMB < 1 {
		return errors.New("cache.max_size_mb must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
