package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"paaa/internal/paaa/models"
)

// Config is the gateway configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Service       ServiceConfig          `koanf:"service"`
	CORS          CORSConfig             `koanf:"cors"`
	Logging       LoggingConfig          `koanf:"logging"`
	Authorization AuthorizationConfig    `koanf:"authorization"`
	ILS           ILSConfig              `koanf:"ils"`
	Audit         AuditConfig            `koanf:"audit"`
	Errors        map[string]ErrorConfig `koanf:"errors"`

	errorTable models.ErrorTable
}

// ServiceConfig captures HTTP server level configuration.
type ServiceConfig struct {
	Name            string        `koanf:"name"`
	Addr            string        `koanf:"addr"`
	Endpoint        string        `koanf:"endpoint"`
	PingPath        string        `koanf:"ping_path"`
	HealthPath      string        `koanf:"health_path"`
	MetricsPath     string        `koanf:"metrics_path"`
	Realm           string        `koanf:"realm"`
	Environment     string        `koanf:"environment"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// CORSConfig holds the header values answered to OPTIONS requests.
type CORSConfig struct {
	AllowMethods string `koanf:"allow_methods"`
	AllowHeaders string `koanf:"allow_headers"`
	AllowOrigin  string `koanf:"allow_origin"`
	Accept       string `koanf:"accept"`
	CacheControl string `koanf:"cache_control"`
}

type LoggingConfig struct {
	Level string `koanf:"level"`
}

// AuthorizationConfig selects and configures the token validation backend.
type AuthorizationConfig struct {
	Backend    string `koanf:"backend"`
	SigningKey string `koanf:"signing_key"`
	Issuer     string `koanf:"issuer"`
	Audience   string `koanf:"audience"`
	AdminScope string `koanf:"admin_scope"`
}

// ILSConfig selects and configures the library system backend.
type ILSConfig struct {
	Backend          string        `koanf:"backend"`
	BaseURL          string        `koanf:"base_url"`
	APIKey           string        `koanf:"api_key"`
	Timeout          time.Duration `koanf:"timeout"`
	FailureThreshold int           `koanf:"failure_threshold"`
	SuccessThreshold int           `koanf:"success_threshold"`
	Cooldown         time.Duration `koanf:"cooldown"`
}

type AuditConfig struct {
	// Store is "log" (write-only structured log) or "memory" (bounded ring).
	Store    string `koanf:"store"`
	Capacity int    `koanf:"capacity"`
	// Buffer > 0 makes audit publishing asynchronous.
	Buffer int `koanf:"buffer"`
}

// ErrorConfig is the wording of one error envelope.
type ErrorConfig struct {
	Error       string `koanf:"error"`
	Description string `koanf:"description"`
	URI         string `koanf:"uri"`
}

// DevSigningKey is the default JWT key. It is refused in production.
const DevSigningKey = "dev-secret-key-change-in-production"

const (
	BackendNone   = "none"
	BackendJWT    = "jwt"
	BackendMemory = "memory"
	BackendHTTP   = "http"
	BackendLog    = "log"
)

var (
	authorizationBackends = []string{BackendJWT, BackendNone}
	ilsBackends           = []string{BackendMemory, BackendHTTP, BackendNone}
	auditStores           = []string{BackendLog, BackendMemory}
	logLevels             = []string{"debug", "info", "warn", "error"}
)

// Validate checks the configuration and builds the error table.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("service.name is required")
	}
	if !strings.HasPrefix(c.Service.Endpoint, "/") {
		return fmt.Errorf("service.endpoint must start with /: %q", c.Service.Endpoint)
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level must be one of %v: %q", logLevels, c.Logging.Level)
	}
	if !slices.Contains(authorizationBackends, c.Authorization.Backend) {
		return fmt.Errorf("authorization.backend must be one of %v: %q", authorizationBackends, c.Authorization.Backend)
	}
	if c.Authorization.Backend == BackendJWT && c.Authorization.SigningKey == "" {
		return fmt.Errorf("authorization.signing_key is required for the jwt backend")
	}
	if c.IsProduction() && c.Authorization.SigningKey == DevSigningKey {
		return fmt.Errorf("authorization.signing_key must be changed in production")
	}
	if !slices.Contains(ilsBackends, c.ILS.Backend) {
		return fmt.Errorf("ils.backend must be one of %v: %q", ilsBackends, c.ILS.Backend)
	}
	if c.ILS.Backend == BackendHTTP && c.ILS.BaseURL == "" {
		return fmt.Errorf("ils.base_url is required for the http backend")
	}
	if !slices.Contains(auditStores, c.Audit.Store) {
		return fmt.Errorf("audit.store must be one of %v: %q", auditStores, c.Audit.Store)
	}
	if c.Audit.Store == BackendMemory && c.Audit.Capacity <= 0 {
		return fmt.Errorf("audit.capacity must be positive for the memory store")
	}

	table := make(models.ErrorTable, len(c.Errors))
	for _, key := range slices.Sorted(maps.Keys(c.Errors)) {
		status, err := models.ParseStatus(key)
		if err != nil {
			return fmt.Errorf("errors.%s: %w", key, err)
		}
		e := c.Errors[key]
		table[status] = models.ErrorText{Error: e.Error, Description: e.Description, URI: e.URI}
	}
	c.errorTable = table
	return nil
}

// ErrorTable returns a copy of the validated status to wording table.
func (c *Config) ErrorTable() models.ErrorTable {
	return maps.Clone(c.errorTable)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Service.Environment == "production"
}
