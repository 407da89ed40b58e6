package tagsanitizer_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cybergodev/tagsanitizer"
)

func TestProcessingTimeout(t *testing.T) {
	t.Parallel()

	// Large enough that parsing alone outlasts the timeout.
	htmlContent := strings.Repeat(`<div><p class="x">Content <b>bold</b></p></div>`, 20000)

	config := tagsanitizer.DefaultConfig()
	config.ProcessingTimeout = time.Nanosecond

	s, err := tagsanitizer.New(config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	_, err = s.Sanitize(htmlContent, tagsanitizer.DenyAttributes)
	if !errors.Is(err, tagsanitizer.ErrProcessingTimeout) {
		t.Errorf("expected ErrProcessingTimeout, got: %v", err)
	}
	if stats := s.GetStatistics(); stats.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", stats.ErrorCount)
	}
}

func TestProcessingWithoutTimeout(t *testing.T) {
	t.Parallel()

	config := tagsanitizer.DefaultConfig()
	config.ProcessingTimeout = 0

	s, err := tagsanitizer.New(config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	got, err := s.Sanitize(`<article><h1>Test Article</h1></article>`, tagsanitizer.DenyAttributes)
	if err != nil {
		t.Fatalf("Sanitize() failed: %v", err)
	}
	if !strings.Contains(got, "<h1>Test Article</h1>") {
		t.Errorf("Sanitize() = %q, want heading kept", got)
	}
}

func TestProcessingWithinTimeout(t *testing.T) {
	t.Parallel()

	config := tagsanitizer.DefaultConfig()
	config.ProcessingTimeout = 5 * time.Second

	s, err := tagsanitizer.New(config)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Sanitize(`<p>quick</p>`, tagsanitizer.DenyAttributes); err != nil {
		t.Errorf("Sanitize() failed: %v", err)
	}
}
