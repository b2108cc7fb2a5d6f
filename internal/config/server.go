package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/finance-engine/pkg/constants"
)

// ServerConfig defines runtime parameters for the HTTP API.
type ServerConfig struct {
	Address        string `yaml:"address,omitempty"`
	MaxRequestSize string `yaml:"maxRequestSize,omitempty"` // e.g. "256K", "1M"
	RequestTimeout string `yaml:"requestTimeout,omitempty"` // e.g. "30s"

	requestSizeBytes int64
	timeout          time.Duration
}

// RequestSizeBytes returns the configured request body limit in bytes.
func (c *ServerConfig) RequestSizeBytes() int64 {
	if c.requestSizeBytes <= 0 {
		return constants.DefaultMaxRequestSizeBytes
	}
	return c.requestSizeBytes
}

// SetRequestSizeBytes overrides the configured request body limit.
func (c *ServerConfig) SetRequestSizeBytes(size int64) {
	if size > 0 {
		c.requestSizeBytes = size
		c.MaxRequestSize = fmt.Sprintf("%d", size)
	}
}

// Timeout returns the per-request timeout.
func (c *ServerConfig) Timeout() time.Duration {
	if c.timeout <= 0 {
		return constants.DefaultRequestTimeoutSeconds * time.Second
	}
	return c.timeout
}

func (c *ServerConfig) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	if timeout := strings.TrimSpace(c.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid server.requestTimeout %q: %w", c.RequestTimeout, err)
		}
		c.timeout = d
	}

	sizeStr := strings.TrimSpace(c.MaxRequestSize)
	if sizeStr == "" {
		c.requestSizeBytes = constants.DefaultMaxRequestSizeBytes
		c.MaxRequestSize = fmt.Sprintf("%d", constants.DefaultMaxRequestSizeBytes)
		return nil
	}

	bytes, err := ParseSize(sizeStr)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxRequestSizeBytes
	}
	c.requestSizeBytes = bytes
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxRequestSizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
