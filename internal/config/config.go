package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level backoffice configuration file.
type Config struct {
	Environment string         `yaml:"environment"` // "production" or "development"
	Server      ServerConfig   `yaml:"server"`
	Auth        AuthConfig     `yaml:"auth"`
	Database    DatabaseConfig `yaml:"database"`
	OAuth       OAuthConfig    `yaml:"oauth"`
	Logging     LoggingConfig  `yaml:"logging"`
}

// ServerConfig controls the HTTP server behavior. Sessions ride in cookies,
// so CORSOrigins must list the panel's origin explicitly for cross-origin
// deployments; browsers reject credentialed responses under a wildcard.
type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
	LoginRateLimit  int      `yaml:"login_rate_limit"` // requests per minute per IP
}

// AuthConfig controls session signing and lifetimes.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	AdminSessionTTL string `yaml:"admin_session_ttl"`
	UserSessionTTL  string `yaml:"user_session_ttl"`
}

// DatabaseConfig selects the backing store. Driver is "sqlite" (default,
// DSN is a file path or empty for in-memory) or "mysql" (DSN is a standard
// go-sql-driver DSN for a remote database).
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// OAuthConfig configures the end-user login provider. All URLs must be set
// for the OAuth routes to be mounted.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	AuthURL      string `yaml:"auth_url"`
	TokenURL     string `yaml:"token_url"`
	UserinfoURL  string `yaml:"userinfo_url"`
	RedirectURL  string `yaml:"redirect_url"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns a Config with development defaults.
func Default() Config {
	return Config{
		Environment: "development",
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			CORSOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
			ShutdownTimeout: "30s",
			LoginRateLimit:  10,
		},
		Auth: AuthConfig{
			AdminSessionTTL: "168h", // 7 days
			UserSessionTTL:  "168h",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the deployment environment is production.
// The Secure cookie flag is forced off outside production so local plaintext
// HTTP keeps working.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// AdminSessionTTL parses the configured admin session lifetime, falling back
// to 7 days on a missing or malformed value.
func (c Config) AdminSessionTTL() time.Duration {
	return parseTTL(c.Auth.AdminSessionTTL)
}

// UserSessionTTL parses the configured user session lifetime, falling back
// to 7 days on a missing or malformed value.
func (c Config) UserSessionTTL() time.Duration {
	return parseTTL(c.Auth.UserSessionTTL)
}

// ShutdownTimeout parses the configured graceful shutdown window.
func (c Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func parseTTL(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 7 * 24 * time.Hour
	}
	return d
}
