package agent

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Defaults.
const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultDelay   = time.Second
	DefaultTimeout = 30 * time.Second
)

// Doer sends HTTP requests. *http.Client implements it.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config configures an Agent.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// Delay holds back every successful response. Zero disables it, which
	// is what production builds want.
	Delay time.Duration

	// Timeout applies to the default HTTP client. Ignored when HTTPClient
	// is set.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client (tests, custom transports).
	HTTPClient Doer

	// TokenSource returns the bearer token for each request. An empty
	// token sends no Authorization header.
	TokenSource func() string

	// SilentEmptyBadRequest keeps 400 responses without a structured body
	// silent. By default they produce a "bad request" notification.
	SilentEmptyBadRequest bool

	// DisableMetrics removes the metrics stage.
	DisableMetrics bool
}

// DefaultConfig returns the development configuration: local API, one
// second artificial delay.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Delay:   DefaultDelay,
		Timeout: DefaultTimeout,
	}
}

func (c *Config) validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	switch {
	case c.BaseURL == "":
		errs = append(errs, errors.New("agent: base URL is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("agent: invalid base URL: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("agent: base URL scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("agent: base URL has no host"))
	}

	if c.Delay < 0 {
		errs = append(errs, fmt.Errorf("agent: delay must not be negative, got %s", c.Delay))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("agent: timeout must not be negative, got %s", c.Timeout))
	}

	return errors.Join(errs...)
}

func (c *Config) baseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}
