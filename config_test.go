package tagsanitizer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cybergodev/tagsanitizer"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := tagsanitizer.DefaultConfig()

	if config.MaxInputSize != tagsanitizer.DefaultMaxInputSize {
		t.Errorf("MaxInputSize = %d, want %d", config.MaxInputSize, tagsanitizer.DefaultMaxInputSize)
	}
	if config.MaxCacheEntries != tagsanitizer.DefaultMaxCacheEntries {
		t.Errorf("MaxCacheEntries = %d, want %d", config.MaxCacheEntries, tagsanitizer.DefaultMaxCacheEntries)
	}
	if config.WorkerPoolSize <= 0 {
		t.Error("DefaultConfig() WorkerPoolSize should be positive")
	}
	if config.MaxDepth <= 0 {
		t.Error("DefaultConfig() MaxDepth should be positive")
	}
	if config.Verbatim || config.Harden {
		t.Error("DefaultConfig() should escape and not harden")
	}
	if config.Logger != nil {
		t.Error("DefaultConfig() should not set a logger")
	}
}

func TestConfigValidation(t *testing.T) {
	t.Parallel()

	valid := tagsanitizer.DefaultConfig()
	with := func(mutate func(*tagsanitizer.Config)) tagsanitizer.Config {
		c := valid
		mutate(&c)
		return c
	}

	tests := []struct {
		name    string
		config  tagsanitizer.Config
		wantErr bool
	}{
		{"valid config", valid, false},
		{"cache disabled", with(func(c *tagsanitizer.Config) { c.MaxCacheEntries = 0 }), false},
		{"no timeout", with(func(c *tagsanitizer.Config) { c.ProcessingTimeout = 0 }), false},
		{"zero MaxInputSize", with(func(c *tagsanitizer.Config) { c.MaxInputSize = 0 }), true},
		{"negative MaxCacheEntries", with(func(c *tagsanitizer.Config) { c.MaxCacheEntries = -1 }), true},
		{"negative CacheTTL", with(func(c *tagsanitizer.Config) { c.CacheTTL = -time.Second }), true},
		{"zero WorkerPoolSize", with(func(c *tagsanitizer.Config) { c.WorkerPoolSize = 0 }), true},
		{"zero MaxDepth", with(func(c *tagsanitizer.Config) { c.MaxDepth = 0 }), true},
		{"negative ProcessingTimeout", with(func(c *tagsanitizer.Config) { c.ProcessingTimeout = -time.Second }), true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, err := tagsanitizer.New(tt.config)
			if tt.wantErr {
				if !errors.Is(err, tagsanitizer.ErrInvalidConfig) {
					t.Errorf("New() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() failed: %v", err)
			}
			s.Close()
		})
	}
}

func TestConfigVerbatim(t *testing.T) {
	t.Parallel()

	config := tagsanitizer.DefaultConfig()
	config.Verbatim = true
	s, err := tagsanitizer.New(config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	escaped, err := tagsanitizer.NewWithDefaults().Sanitize(`<p>a &amp; b</p>`, nil)
	if err != nil {
		t.Fatalf("Sanitize() failed: %v", err)
	}
	verbatim, err := s.Sanitize(`<p>a &amp; b</p>`, nil)
	if err != nil {
		t.Fatalf("Sanitize() failed: %v", err)
	}

	if want := "<html><head></head><body><p>a &amp; b</p></body></html>"; escaped != want {
		t.Errorf("escaped = %q, want %q", escaped, want)
	}
	if want := "<html><head></head><body><p>a & b</p></body></html>"; verbatim != want {
		t.Errorf("verbatim = %q, want %q", verbatim, want)
	}
}
