package transport

import (
	"fmt"
	"net/url"
	"time"
)

// Type selects a backend implementation.
type Type string

const (
	RESTBackend   Type = "rest"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string { return string(t) }

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case RESTBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what a backend needs at construction time.
type Config struct {
	Type Type

	// REST specific
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Validate checks the configuration for the selected backend type.
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.Type == RESTBackend {
		if c.BaseURL == "" {
			return fmt.Errorf("base URL is required for the rest backend")
		}
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid base URL scheme %q: must be http or https", u.Scheme)
		}
	}
	return nil
}
