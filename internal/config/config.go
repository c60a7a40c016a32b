package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// REST backend
	APIBase     string
	APIKey      string
	HTTPTimeout time.Duration

	// Backend selection
	Backend string

	// Push channel
	Stream       string
	WSURL        string
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Refresh
	RefreshInterval time.Duration
	PageSize        int
}

func Load() *Config {
	cfg := &Config{
		APIBase:     getEnv("OFC_API_BASE", "http://localhost:8000"),
		APIKey:      getEnv("OFC_API_KEY", ""),
		HTTPTimeout: getEnvDuration("OFC_HTTP_TIMEOUT", 10*time.Second),

		Backend: getEnv("OFC_BACKEND", "rest"),

		Stream:       getEnv("OFC_STREAM", "none"),
		WSURL:        getEnv("OFC_WS_URL", ""),
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ofc"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transactions"),

		RefreshInterval: getEnvDuration("OFC_REFRESH_INTERVAL", 30*time.Second),
		PageSize:        getEnvInt("OFC_PAGE_SIZE", 500),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"rest", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid backend '%s': must be one of %v", c.Backend, validBackends))
	}

	if c.Backend == "rest" {
		if c.APIBase == "" {
			errors = append(errors, "API base URL cannot be empty when using rest backend")
		} else if parsedURL, err := url.Parse(c.APIBase); err != nil {
			errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBase, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}

	validStreams := []string{"none", "websocket", "amqp"}
	isValidStream := false
	for _, stream := range validStreams {
		if c.Stream == stream {
			isValidStream = true
			break
		}
	}
	if !isValidStream {
		errors = append(errors, fmt.Sprintf("invalid stream '%s': must be one of %v", c.Stream, validStreams))
	}

	if c.Stream == "websocket" {
		if c.WSURL == "" {
			errors = append(errors, "websocket URL cannot be empty when using websocket stream")
		} else if parsedURL, err := url.Parse(c.WSURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid websocket URL '%s': %v", c.WSURL, err))
		} else if parsedURL.Scheme != "ws" && parsedURL.Scheme != "wss" {
			errors = append(errors, fmt.Sprintf("invalid websocket URL scheme '%s': must be 'ws' or 'wss'", parsedURL.Scheme))
		}
	}

	if c.Stream == "amqp" {
		if c.AMQPURL == "" {
			errors = append(errors, "AMQP URL cannot be empty when using amqp stream")
		} else if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when using amqp stream")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when using amqp stream")
		}
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if c.RefreshInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 1 second", c.RefreshInterval))
	} else if c.RefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 24 hours", c.RefreshInterval))
	}

	if c.PageSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be at least 1", c.PageSize))
	} else if c.PageSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid page size %d: must be at most 10000", c.PageSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
