package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/paaa/config.yaml",
	"/etc/paaa/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:            "PaaaService",
			Addr:            ":8080",
			Endpoint:        "/paaa",
			PingPath:        "/ping",
			HealthPath:      "/health",
			MetricsPath:     "/metrics",
			Realm:           "PAAA",
			Environment:     "development",
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		CORS: CORSConfig{
			AllowMethods: "GET, POST, DELETE, OPTIONS",
			AllowHeaders: "Accept, Authorization, Content-Type",
			AllowOrigin:  "*",
			Accept:       "application/json, application/xml",
			CacheControl: "no-cache, no-store, must-revalidate",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Authorization: AuthorizationConfig{
			Backend:    BackendJWT,
			SigningKey: DevSigningKey,
			Issuer:     "paaa-dev",
			AdminScope: "admin",
		},
		ILS: ILSConfig{
			Backend:          BackendMemory,
			Timeout:          5 * time.Second,
			FailureThreshold: 5,
			SuccessThreshold: 1,
			Cooldown:         30 * time.Second,
		},
		Audit: AuditConfig{
			Store:    BackendLog,
			Capacity: 1024,
		},
		Errors: map[string]ErrorConfig{
			"400": {Error: "invalid_request", Description: "The request is malformed or names an unsupported format."},
			"401": {Error: "invalid_token", Description: "The access token is missing, expired or not valid for this patron."},
			"405": {Error: "method_not_allowed", Description: "The requested service is not available for this method."},
			"503": {Error: "service_unavailable", Description: "The library system is temporarily unavailable."},
		},
	}
}

// Load loads configuration with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables: override any mapped setting
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile loads configuration from defaults, the given YAML file and the environment.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// SERVICE_NAME -> service.name, ERROR_401_DESCRIPTION -> errors.401.description
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"service_name":             "service.name",
	"paaa_addr":                "service.addr",
	"service_endpoint":         "service.endpoint",
	"service_endpoint_ping":    "service.ping_path",
	"service_endpoint_health":  "service.health_path",
	"service_endpoint_metrics": "service.metrics_path",
	"service_realm":            "service.realm",
	"environment":              "service.environment",
	"max_body_bytes":           "service.max_body_bytes",
	"shutdown_timeout":         "service.shutdown_timeout",

	"cors_allow_methods": "cors.allow_methods",
	"cors_allow_headers": "cors.allow_headers",
	"cors_allow_origin":  "cors.allow_origin",
	"cors_accept":        "cors.accept",
	"cache_control":      "cors.cache_control",

	"log_level": "logging.level",

	"authorization_backend": "authorization.backend",
	"jwt_signing_key":       "authorization.signing_key",
	"jwt_issuer":            "authorization.issuer",
	"jwt_audience":          "authorization.audience",
	"jwt_admin_scope":       "authorization.admin_scope",

	"ils_backend":           "ils.backend",
	"ils_base_url":          "ils.base_url",
	"ils_api_key":           "ils.api_key",
	"ils_timeout":           "ils.timeout",
	"ils_failure_threshold": "ils.failure_threshold",
	"ils_success_threshold": "ils.success_threshold",
	"ils_cooldown":          "ils.cooldown",

	"audit_store":    "audit.store",
	"audit_capacity": "audit.capacity",
	"audit_buffer":   "audit.buffer",
}

// envTransformFunc maps environment variable names to koanf paths. Error
// wording follows ERROR_<status>[_DESCRIPTION|_URI]. Unmapped keys are
// skipped so unrelated variables never pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	rest, ok := strings.CutPrefix(key, "error_")
	if !ok {
		return ""
	}
	status, field, _ := strings.Cut(rest, "_")
	if len(status) != 3 {
		return ""
	}
	switch field {
	case "":
		return "errors." + status + ".error"
	case "description", "uri":
		return "errors." + status + "." + field
	default:
		return ""
	}
}
