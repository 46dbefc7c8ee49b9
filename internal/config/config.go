// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Export   ExportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	History  HistoryConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DataConfig holds the initial data load settings.
type DataConfig struct {
	// Source is a JSON file path or http(s) URL holding the initial rows
	Source string `env:"DATA_SOURCE" envAlt:"TABLE_SOURCE" default:"output_data.json"`

	// RequireRows makes an empty source a load error instead of an empty table (default: false)
	RequireRows bool `env:"DATA_REQUIRE_ROWS" default:"false"`

	// LoadTimeout bounds the initial fetch (default: 30s)
	LoadTimeout time.Duration `env:"DATA_LOAD_TIMEOUT" default:"30s"`

	// Locale is the BCP 47 tag used to collate sorted columns (default: und)
	Locale string `env:"DATA_LOCALE" default:"und"`
}

// ExportConfig holds CSV export, print and import settings.
type ExportConfig struct {
	// Separator joins exported CSV cells (default: ;)
	Separator string `env:"EXPORT_SEPARATOR" default:";"`

	// FileName is the download name of the exported CSV (default: table_export.csv)
	FileName string `env:"EXPORT_FILE_NAME" default:"table_export.csv"`

	// PrintTitle is the title of the printable document (default: Print Table)
	PrintTitle string `env:"PRINT_TITLE" default:"Print Table"`

	// MaxImportSize is the maximum accepted CSV import body in bytes (default: 10MB)
	MaxImportSize int64 `env:"IMPORT_MAX_SIZE" default:"10485760"`

	// MaxConcurrentImports is how many imports may parse at once (default: 2)
	MaxConcurrentImports int `env:"IMPORT_MAX_CONCURRENT" default:"2"`

	// ImportWait is how long an import waits for a free slot (default: 10s)
	ImportWait time.Duration `env:"IMPORT_MAX_WAIT" default:"10s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey rejects mutating API requests without a valid X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// HistoryConfig holds activity log settings.
type HistoryConfig struct {
	// Limit is the number of activity entries kept in memory (default: 500)
	Limit int `env:"HISTORY_LIMIT" default:"500"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
