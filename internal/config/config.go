// Package config provides hierarchical configuration loading for hookline.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the hookline service.
type Config struct {
	Server     Server     `yaml:"server"`
	Tracker    Tracker    `yaml:"tracker"`
	Completion Completion `yaml:"completion"`
	Webhook    Webhook    `yaml:"webhook"`
	Logging    Logging    `yaml:"logging"`
	Breaker    Breaker    `yaml:"breaker"`
	Cache      Cache      `yaml:"cache"`
	Telemetry  Telemetry  `yaml:"telemetry"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port string `yaml:"port"`
}

// Tracker holds issue-tracker API and OAuth app configuration.
// Credentials are checked at the first authenticated call, not at load.
type Tracker struct {
	APIURL       string `yaml:"api_url"`
	OAuthURL     string `yaml:"oauth_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AccessToken  string `yaml:"access_token"`
}

// Completion holds AI completion service configuration.
type Completion struct {
	APIURL string `yaml:"api_url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Webhook holds inbound webhook configuration.
type Webhook struct {
	Path   string `yaml:"path"`
	Secret string `yaml:"secret"` //nolint:gosec // config field name, not a hardcoded secret
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Breaker holds circuit breaker configuration for outbound calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Cache holds the in-process issue cache configuration.
type Cache struct {
	MaxSizeMB int64         `yaml:"max_size_mb"`
	IssueTTL  time.Duration `yaml:"issue_ttl"`
}

// Telemetry holds OpenTelemetry export configuration. Export is
// disabled when the endpoint is empty.
type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port: "8000",
		},
		Tracker: Tracker{
			APIURL:   "https://api.linear.app/graphql",
			OAuthURL: "https://api.linear.app/oauth/token",
		},
		Completion: Completion{
			APIURL: "https://api.openai.com/v1",
			Model:  "gpt-3.5-turbo",
		},
		Webhook: Webhook{
			Path: "/webhooks/linear",
		},
		Logging: Logging{
			Level:   "info",
			Service: "hookline",
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Cache: Cache{
			MaxSizeMB: 16,
			IssueTTL:  30 * time.Second,
		},
	}
}
