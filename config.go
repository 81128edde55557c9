package builder

import (
	"errors"
	"time"
)

var (
	ErrLoggingLevelInvalid  = errors.New("builder: logging level invalid")
	ErrLoggingFormatInvalid = errors.New("builder: logging format invalid")
	ErrRetentionInvalid     = errors.New("builder: version retention limit must be zero or positive")
)

// Config drives module assembly. The zero value plus DefaultConfig covers the
// embedded, memory-backed case; callers wire a database with WithBunDB.
type Config struct {
	Features  Features
	Retention RetentionConfig
	Logging   LoggingConfig
	Cache     CacheConfig
}

// Features toggles optional builder subsystems.
type Features struct {
	// Versioning enables the draft/publish/restore workflow on posts.
	Versioning bool
	// Markdown enables the markdown import surface.
	Markdown bool
}

// RetentionConfig constrains how much history the builder keeps.
type RetentionConfig struct {
	// MaxVersionsPerPost caps stored versions per post. Zero means unlimited.
	MaxVersionsPerPost int
}

// LoggingConfig controls the glog provider wired at assembly time.
type LoggingConfig struct {
	Level     string
	Format    string
	AddSource bool
}

// CacheConfig controls repository caching when a bun database is wired.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// DefaultConfig returns the configuration used by embedded deployments.
func DefaultConfig() Config {
	return Config{
		Features: Features{
			Versioning: true,
			Markdown:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
	}
}

// Validate rejects configurations the module cannot assemble.
func (c Config) Validate() error {
	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return ErrLoggingFormatInvalid
	}
	if c.Retention.MaxVersionsPerPost < 0 {
		return ErrRetentionInvalid
	}
	return nil
}
