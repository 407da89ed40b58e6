package tagsanitizer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Default configuration values.
const (
	DefaultMaxInputSize      = 50 * 1024 * 1024 // 50MB
	DefaultMaxCacheEntries   = 1000             // 1000 entries
	DefaultWorkerPoolSize    = 4                // 4 workers
	DefaultCacheTTL          = time.Hour        // 1 hour
	DefaultMaxDepth          = 256              // 256 levels
	DefaultProcessingTimeout = 30 * time.Second // 30 seconds
)

// Internal constants for sizing.
const (
	initialTreeCap     = 64  // Initial node capacity of a Tree
	builderInitialSize = 256 // Initial capacity for the walk output builder
)

// Config holds sanitizer configuration.
type Config struct {
	MaxInputSize      int
	MaxCacheEntries   int
	CacheTTL          time.Duration
	WorkerPoolSize    int
	MaxDepth          int
	ProcessingTimeout time.Duration

	// Verbatim prints text and attribute values exactly as parsed instead
	// of escaping them.
	Verbatim bool

	// Harden runs every result through a bluemonday UGC policy after the
	// walk.
	Harden bool

	// ForcedEncoding overrides charset detection for byte input.
	ForcedEncoding string

	// Logger receives diagnostics. Nil means no logging.
	Logger *zerolog.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MaxInputSize:      DefaultMaxInputSize,
		MaxCacheEntries:   DefaultMaxCacheEntries,
		CacheTTL:          DefaultCacheTTL,
		WorkerPoolSize:    DefaultWorkerPoolSize,
		MaxDepth:          DefaultMaxDepth,
		ProcessingTimeout: DefaultProcessingTimeout,
	}
}

func validateConfig(c Config) error {
	switch {
	case c.MaxInputSize <= 0:
		return fmt.Errorf("%w: MaxInputSize must be positive", ErrInvalidConfig)
	case c.MaxCacheEntries < 0:
		return fmt.Errorf("%w: MaxCacheEntries cannot be negative", ErrInvalidConfig)
	case c.CacheTTL < 0:
		return fmt.Errorf("%w: CacheTTL cannot be negative", ErrInvalidConfig)
	case c.WorkerPoolSize <= 0:
		return fmt.Errorf("%w: WorkerPoolSize must be positive", ErrInvalidConfig)
	case c.MaxDepth <= 0:
		return fmt.Errorf("%w: MaxDepth must be positive", ErrInvalidConfig)
	case c.ProcessingTimeout < 0:
		return fmt.Errorf("%w: ProcessingTimeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}
