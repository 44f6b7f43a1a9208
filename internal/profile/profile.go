package profile

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
)

// DefaultFetchTimeout bounds a single upstream call. The upstream applies no
// deadline of its own, so the client owns the bound.
const DefaultFetchTimeout = 15 * time.Second

// Profile is the configuration to start the proxy.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// UpstreamURL is the reading content API endpoint
	UpstreamURL string
	// APIKey is the upstream credential. Required.
	APIKey string
	// Plan is the reading plan identifier passed through to upstream
	Plan string
	// FetchTimeout is the HTTP client timeout for upstream calls
	FetchTimeout time.Duration
	// Version is the current version of server
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// ListenAddr returns the address the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return fmt.Sprintf("%s:%d", p.Addr, p.Port)
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from READINGPROXY_* environment variables.
func (p *Profile) FromEnv() {
	p.UpstreamURL = getEnvOrDefault("READINGPROXY_UPSTREAM_URL", "https://api.dailyreading.io/v1/reading")
	p.APIKey = os.Getenv("READINGPROXY_API_KEY")
	p.Plan = getEnvOrDefault("READINGPROXY_PLAN", "oycb")

	if raw := os.Getenv("READINGPROXY_FETCH_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			p.FetchTimeout = d
		}
	}
	if p.FetchTimeout <= 0 {
		p.FetchTimeout = DefaultFetchTimeout
	}
}

// Validate checks the profile before the server starts. A missing upstream
// credential is fatal: the proxy cannot serve a single cache miss without it.
func (p *Profile) Validate() error {
	if p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "dev"
	}

	if p.Port <= 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}

	if p.UpstreamURL == "" {
		return errors.New("upstream URL must not be empty")
	}

	if p.APIKey == "" {
		return errors.New("READINGPROXY_API_KEY is required")
	}

	if p.Plan == "" {
		p.Plan = "oycb"
	}

	return nil
}
