// Package config loads the API client configuration from the environment,
// a YAML file, or a fixed value, behind one Provider interface.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// EnvPrefix is the prefix of every environment variable read by EnvProvider.
// Example: EXAM_CLIENT_BASE_URL, EXAM_CLIENT_TIMEOUT, EXAM_CLIENT_ENDPOINTS_AUTH_LOGIN_PATH
const EnvPrefix = "EXAM_CLIENT"

const (
	DefaultBaseURL = "http://127.0.0.1:8000"
	DefaultTimeout = 30 * time.Second
)

// IDPlaceholder marks the spot in an endpoint path that WithID fills in.
const IDPlaceholder = "{id}"

// Config holds everything the API client needs at construction.
// It is treated as immutable once loaded.
type Config struct {
	BaseURL   string    `envconfig:"BASE_URL" default:"http://127.0.0.1:8000" yaml:"base_url"`
	Timeout   Duration  `envconfig:"TIMEOUT" default:"30s" yaml:"timeout"`
	Endpoints Endpoints `envconfig:"ENDPOINTS" yaml:"endpoints"`

	// Local session database; empty means the per-user default location.
	SessionPath string `envconfig:"SESSION_PATH" yaml:"session_path"`

	Debug    bool   `envconfig:"DEBUG" default:"false" yaml:"debug"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" yaml:"log_level"`
}

// Endpoints groups the backend paths by logical area.
type Endpoints struct {
	Auth  AuthEndpoints `envconfig:"AUTH" yaml:"auth"`
	Users UserEndpoints `envconfig:"USERS" yaml:"users"`
	Exam  ExamEndpoints `envconfig:"EXAM" yaml:"exam"`
}

type AuthEndpoints struct {
	Login string `envconfig:"LOGIN_PATH" default:"/auth/login" yaml:"login"`
	Code  string `envconfig:"CODE_PATH" default:"/auth/code" yaml:"code"`
}

type UserEndpoints struct {
	Profile string `envconfig:"PROFILE_PATH" default:"/users/profile" yaml:"profile"`
	Public  string `envconfig:"PUBLIC_PATH" default:"/users/{id}/public" yaml:"public"`
}

type ExamEndpoints struct {
	Config     string `envconfig:"CONFIG_PATH" default:"/exam/config" yaml:"config"`
	VerifyGate string `envconfig:"VERIFY_GATE_PATH" default:"/exam/{id}/verify-gate" yaml:"verify_gate"`
}

// Default returns the configuration used when nothing is overridden.
// Keep in sync with the envconfig default tags above.
func Default() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: Duration(DefaultTimeout),
		Endpoints: Endpoints{
			Auth:  AuthEndpoints{Login: "/auth/login", Code: "/auth/code"},
			Users: UserEndpoints{Profile: "/users/profile", Public: "/users/{id}/public"},
			Exam:  ExamEndpoints{Config: "/exam/config", VerifyGate: "/exam/{id}/verify-gate"},
		},
		LogLevel: "info",
	}
}

// NewForTesting returns a validated config pointing at baseURL, typically an
// httptest server.
func NewForTesting(baseURL string) Config {
	cfg := Default()
	cfg.BaseURL = baseURL
	cfg.Timeout = Duration(5 * time.Second)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// Validate normalizes the base URL and rejects unusable values.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base url must be http or https, got %q", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base url has no host: %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", c.Timeout)
	}

	paths := map[string]string{
		"auth.login":       c.Endpoints.Auth.Login,
		"auth.code":        c.Endpoints.Auth.Code,
		"users.profile":    c.Endpoints.Users.Profile,
		"users.public":     c.Endpoints.Users.Public,
		"exam.config":      c.Endpoints.Exam.Config,
		"exam.verify_gate": c.Endpoints.Exam.VerifyGate,
	}
	for name, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("endpoint %s must start with '/', got %q", name, p)
		}
	}
	return nil
}

// WithID substitutes the {id} placeholder of an endpoint path.
// The id is path-escaped; paths without a placeholder are returned unchanged.
func WithID(path, id string) string {
	return strings.Replace(path, IDPlaceholder, url.PathEscape(id), 1)
}

func logLoaded(source string, cfg *Config) {
	log.Debug().
		Str("source", source).
		Str("base_url", cfg.BaseURL).
		Dur("timeout", cfg.Timeout.Std()).
		Str("login_path", cfg.Endpoints.Auth.Login).
		Str("session_path_present", func() string {
			if cfg.SessionPath != "" {
				return "true"
			}
			return "false"
		}()).
		Msg("Configuration loaded")
}
