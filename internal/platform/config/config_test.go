package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"paaa/internal/paaa/models"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) writeFile(body string) string {
	path := filepath.Join(s.T().TempDir(), "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(body), 0o600))
	return path
}

func (s *ConfigSuite) TestDefaults() {
	cfg, err := LoadFile("")
	s.Require().NoError(err)

	s.Equal("PaaaService", cfg.Service.Name)
	s.Equal("/paaa", cfg.Service.Endpoint)
	s.Equal("PAAA", cfg.Service.Realm)
	s.Equal(BackendMemory, cfg.ILS.Backend)
	s.Equal(5*time.Second, cfg.ILS.Timeout)
	s.Equal(BackendLog, cfg.Audit.Store)
	s.Equal(1024, cfg.Audit.Capacity)

	table := cfg.ErrorTable()
	for _, st := range models.Statuses {
		s.Contains(table, st)
	}
	s.Equal("invalid_token", table[models.StatusUnauthorized].Error)
}

func (s *ConfigSuite) TestFileOverridesDefaults() {
	path := s.writeFile(`
service:
  name: UBDOService
  endpoint: /patrons
ils:
  backend: http
  base_url: http://ils.internal
  timeout: 2s
errors:
  "401":
    description: Please log in again.
    uri: https://example.org/help/401
`)

	cfg, err := LoadFile(path)
	s.Require().NoError(err)
	s.Equal("UBDOService", cfg.Service.Name)
	s.Equal("/patrons", cfg.Service.Endpoint)
	s.Equal(BackendHTTP, cfg.ILS.Backend)
	s.Equal(2*time.Second, cfg.ILS.Timeout)

	text := cfg.ErrorTable()[models.StatusUnauthorized]
	s.Equal("invalid_token", text.Error, "unset keys keep their default")
	s.Equal("Please log in again.", text.Description)
	s.Equal("https://example.org/help/401", text.URI)
}

func (s *ConfigSuite) TestEnvOverridesFile() {
	path := s.writeFile("logging:\n  level: debug\n")
	s.T().Setenv("LOG_LEVEL", "warn")
	s.T().Setenv("ILS_BACKEND", "none")
	s.T().Setenv("ILS_FAILURE_THRESHOLD", "9")
	s.T().Setenv("ERROR_503_URI", "https://status.example.org")

	cfg, err := LoadFile(path)
	s.Require().NoError(err)
	s.Equal("warn", cfg.Logging.Level)
	s.Equal(BackendNone, cfg.ILS.Backend)
	s.Equal(9, cfg.ILS.FailureThreshold)
	s.Equal("https://status.example.org", cfg.ErrorTable()[models.StatusServiceUnavailable].URI)
}

func (s *ConfigSuite) TestConfigPathEnvVar() {
	path := s.writeFile("service:\n  realm: LIBRARY\n")
	s.T().Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	s.Require().NoError(err)
	s.Equal("LIBRARY", cfg.Service.Realm)
}

func (s *ConfigSuite) TestValidation() {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown status key", "errors:\n  \"418\":\n    error: teapot\n"},
		{"unknown ils backend", "ils:\n  backend: sql\n"},
		{"http ils without url", "ils:\n  backend: http\n"},
		{"unknown authorization backend", "authorization:\n  backend: ldap\n"},
		{"jwt without key", "authorization:\n  signing_key: \"\"\n"},
		{"relative endpoint", "service:\n  endpoint: paaa\n"},
		{"bad log level", "logging:\n  level: chatty\n"},
		{"unknown audit store", "audit:\n  store: postgres\n"},
		{"unbounded memory audit store", "audit:\n  store: memory\n  capacity: 0\n"},
		{"dev signing key in production", "service:\n  environment: production\n"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := LoadFile(s.writeFile(tt.yaml))
			s.Error(err)
		})
	}
}

func (s *ConfigSuite) TestErrorTableIsACopy() {
	cfg, err := LoadFile("")
	s.Require().NoError(err)

	table := cfg.ErrorTable()
	table[models.StatusBadRequest] = models.ErrorText{Error: "mutated"}
	s.Equal("invalid_request", cfg.ErrorTable()[models.StatusBadRequest].Error)
}

func (s *ConfigSuite) TestEnvTransformFunc() {
	tests := map[string]string{
		"SERVICE_NAME":          "service.name",
		"JWT_SIGNING_KEY":       "authorization.signing_key",
		"ERROR_401":             "errors.401.error",
		"ERROR_401_DESCRIPTION": "errors.401.description",
		"ERROR_405_URI":         "errors.405.uri",
		"ERROR_4011":            "",
		"ERROR_401_COLOR":       "",
		"HOME":                  "",
		"PATH":                  "",
	}
	for in, want := range tests {
		s.Equal(want, envTransformFunc(in), in)
	}
}
