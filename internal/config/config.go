package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config is the immutable startup configuration shared by every connection
// handler. It is built once in main and never mutated afterwards.
type Config struct {
	BindAddress string
	Port        int

	// UserAgent is the replacement value spliced into rewritten requests.
	UserAgent string

	LogLevel  string
	LogFile   string
	NoFileLog bool

	DialTimeout    time.Duration
	MaxConnections int64
	CacheTTL       time.Duration
	CacheSize      int
}

// Default returns the configuration matching the documented defaults.
func Default() *Config {
	return &Config{
		BindAddress:    "127.0.0.1",
		Port:           1080,
		UserAgent:      "FFFF",
		LogLevel:       "info",
		LogFile:        defaultLogFile,
		DialTimeout:    30 * time.Second,
		MaxConnections: 1000,
		CacheTTL:       600 * time.Second,
		CacheSize:      512,
	}
}

// Validate reports the first invalid option, if any.
func (c *Config) Validate() error {
	if c.UserAgent == "" {
		return errors.New("user-agent must not be empty")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.DialTimeout <= 0 {
		return errors.New("dial-timeout must be > 0")
	}
	if c.MaxConnections <= 0 {
		return errors.New("max-connections must be > 0")
	}
	if c.CacheSize <= 0 {
		return errors.New("cache-size must be > 0")
	}
	if c.CacheTTL <= 0 {
		return errors.New("cache-ttl must be > 0")
	}
	return nil
}

// ListenAddr returns the host:port the server should bind to.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}
