// Package tagsanitizer sanitizes HTML by walking its parsed node tree and
// letting a caller-supplied Policy decide, element by element, what is kept.
//
// For every element the walker hands a fresh Tag to the Policy. The Policy
// may keep the element (the default), drop its own markup but keep its
// children (IgnoreSelf), drop it entirely (IgnoreSelfAndContents), or
// replace it and everything inside it with literal text (RewriteAs).
// Attributes are dropped unless the Policy allows them by name.
//
//	out := tagsanitizer.Walk(tree, tagsanitizer.PolicyFunc(func(tag *tagsanitizer.Tag) {
//		switch tag.Name {
//		case "html", "body":
//			tag.IgnoreSelf()
//		case "head", "script", "style":
//			tag.IgnoreSelfAndContents()
//		case "a":
//			tag.AllowAttribute("href")
//		}
//	}))
//
// Sanitizer wraps the walk with the plumbing a service needs: input limits,
// charset detection, a depth limit, a timeout, a result cache, a batch worker
// pool and statistics.
package tagsanitizer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/cybergodev/tagsanitizer/internal"
)

const (
	flagVerbatim byte = 1 << iota
	flagHarden
)

// Sanitizer provides thread-safe HTML sanitizing. Policies passed to the
// batch methods are called from several goroutines at once and must be safe
// for concurrent use.
type Sanitizer struct {
	config   *Config
	walker   *Walker
	cache    *internal.Cache
	stats    *internal.Stats
	hardener *internal.Hardener
	logger   zerolog.Logger
	closed   atomic.Bool
}

// Statistics contains processing metrics.
type Statistics struct {
	TotalProcessed     int64
	CacheHits          int64
	CacheMisses        int64
	ErrorCount         int64
	AverageProcessTime time.Duration
}

// New creates a Sanitizer with the given configuration.
func New(config Config) (*Sanitizer, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	opts := []WalkerOption{WithLogger(logger)}
	if config.Verbatim {
		opts = append(opts, WithVerbatim())
	}
	s := &Sanitizer{
		config: &config,
		walker: NewWalker(opts...),
		cache:  internal.NewCache(config.MaxCacheEntries, config.CacheTTL),
		stats:  internal.NewStats(),
		logger: logger,
	}
	if config.Harden {
		s.hardener = internal.NewHardener()
	}
	return s, nil
}

// NewWithDefaults creates a Sanitizer with default configuration.
func NewWithDefaults() *Sanitizer {
	s, _ := New(DefaultConfig())
	return s
}

// Sanitize parses htmlContent and walks it under policy.
func (s *Sanitizer) Sanitize(htmlContent string, policy Policy) (string, error) {
	if s.closed.Load() {
		return "", ErrSanitizerClosed
	}

	startTime := time.Now()

	if len(htmlContent) > s.config.MaxInputSize {
		s.stats.Error()
		return "", fmt.Errorf("%w: size=%d, max=%d", ErrInputTooLarge, len(htmlContent), s.config.MaxInputSize)
	}
	return s.sanitize(htmlContent, policy, startTime)
}

// sanitize runs the cached, timed walk on content whose size was already
// checked by the caller.
func (s *Sanitizer) sanitize(htmlContent string, policy Policy, startTime time.Time) (string, error) {
	if policy == nil {
		policy = DenyAttributes
	}

	cacheKey := s.cacheKey(htmlContent, policy)
	if cacheKey != "" {
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.stats.CacheHit()
			return cached, nil
		}
		s.stats.CacheMiss()
	}

	var result string
	var err error
	if s.config.ProcessingTimeout > 0 {
		result, err = s.processWithTimeout(htmlContent, policy)
	} else {
		result, err = s.processContent(htmlContent, policy)
	}
	if err != nil {
		s.stats.Error()
		s.logger.Debug().Err(err).Int("size", len(htmlContent)).Msg("sanitize failed")
		return "", err
	}

	s.stats.Processed(time.Since(startTime))
	if cacheKey != "" {
		s.cache.Set(cacheKey, result)
	}
	return result, nil
}

// processWithTimeout processes content with timeout protection.
func (s *Sanitizer) processWithTimeout(htmlContent string, policy Policy) (string, error) {
	type processResult struct {
		result string
		err    error
	}

	resultChan := make(chan processResult, 1)
	go func() {
		result, err := s.processContent(htmlContent, policy)
		resultChan <- processResult{result: result, err: err}
	}()

	select {
	case res := <-resultChan:
		return res.result, res.err
	case <-time.After(s.config.ProcessingTimeout):
		return "", ErrProcessingTimeout
	}
}

func (s *Sanitizer) processContent(htmlContent string, policy Policy) (string, error) {
	tree, err := ParseString(htmlContent)
	if err != nil {
		return "", err
	}
	return s.render(tree, policy)
}

func (s *Sanitizer) render(tree *Tree, policy Policy) (string, error) {
	if tree.deeperThan(tree.Root(), s.config.MaxDepth) {
		return "", fmt.Errorf("%w: max=%d", ErrMaxDepthExceeded, s.config.MaxDepth)
	}
	out := s.walker.Walk(tree, policy)
	if s.hardener != nil {
		out = s.hardener.Apply(out)
	}
	return out, nil
}

// SanitizeTree walks an already built tree under policy. Results for trees
// are not cached.
func (s *Sanitizer) SanitizeTree(tree *Tree, policy Policy) (string, error) {
	if s.closed.Load() {
		return "", ErrSanitizerClosed
	}
	if tree == nil {
		return "", nil
	}
	startTime := time.Now()
	out, err := s.render(tree, policy)
	if err != nil {
		s.stats.Error()
		return "", err
	}
	s.stats.Processed(time.Since(startTime))
	return out, nil
}

// SanitizeBytes detects the character encoding of data, converts it to
// UTF-8 and sanitizes the result.
func (s *Sanitizer) SanitizeBytes(data []byte, policy Policy) (string, error) {
	if s.closed.Load() {
		return "", ErrSanitizerClosed
	}
	startTime := time.Now()
	// The limit applies to the bytes given; decoding may grow them.
	if len(data) > s.config.MaxInputSize {
		s.stats.Error()
		return "", fmt.Errorf("%w: size=%d, max=%d", ErrInputTooLarge, len(data), s.config.MaxInputSize)
	}
	content, charset, err := internal.DetectAndConvertToUTF8String(data, s.config.ForcedEncoding)
	if err != nil {
		s.stats.Error()
		if errors.Is(err, internal.ErrUnknownCharset) {
			return "", fmt.Errorf("%w: %q", ErrUnknownCharset, s.config.ForcedEncoding)
		}
		return "", fmt.Errorf("%w: decode %s: %v", ErrInvalidHTML, charset, err)
	}
	s.logger.Debug().Str("charset", charset).Int("size", len(data)).Msg("decoded input")
	return s.sanitize(content, policy, startTime)
}

// SanitizeReader reads at most MaxInputSize bytes from r and sanitizes them.
func (s *Sanitizer) SanitizeReader(r io.Reader, policy Policy) (string, error) {
	if s.closed.Load() {
		return "", ErrSanitizerClosed
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(s.config.MaxInputSize)+1))
	if err != nil {
		s.stats.Error()
		return "", fmt.Errorf("%w: %v", ErrInvalidHTML, err)
	}
	return s.SanitizeBytes(data, policy)
}

// SanitizeFile reads and sanitizes an HTML file.
func (s *Sanitizer) SanitizeFile(filePath string, policy Policy) (string, error) {
	if s.closed.Load() {
		return "", ErrSanitizerClosed
	}
	if strings.TrimSpace(filePath) == "" {
		return "", fmt.Errorf("%w: empty file path", ErrInvalidFilePath)
	}
	if strings.ContainsRune(filePath, 0) {
		return "", fmt.Errorf("%w: path contains NUL byte", ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, filePath)
		}
		return "", fmt.Errorf("read file %q: %w", filePath, err)
	}
	return s.SanitizeBytes(data, policy)
}

// SanitizeBatch sanitizes multiple documents in parallel using a worker pool.
func (s *Sanitizer) SanitizeBatch(htmlContents []string, policy Policy) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrSanitizerClosed
	}
	if len(htmlContents) == 0 {
		return []string{}, nil
	}

	results := make([]string, len(htmlContents))
	errs := make([]error, len(htmlContents))
	s.runPool(len(htmlContents), func(i int) {
		results[i], errs[i] = s.Sanitize(htmlContents[i], policy)
	})
	return collectResults(results, errs, nil)
}

// SanitizeBatchFiles sanitizes multiple files in parallel using a worker pool.
func (s *Sanitizer) SanitizeBatchFiles(filePaths []string, policy Policy) ([]string, error) {
	if s.closed.Load() {
		return nil, ErrSanitizerClosed
	}
	if len(filePaths) == 0 {
		return []string{}, nil
	}

	results := make([]string, len(filePaths))
	errs := make([]error, len(filePaths))
	s.runPool(len(filePaths), func(i int) {
		results[i], errs[i] = s.SanitizeFile(filePaths[i], policy)
	})
	return collectResults(results, errs, filePaths)
}

func (s *Sanitizer) runPool(n int, fn func(i int)) {
	sem := make(chan struct{}, s.config.WorkerPoolSize)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			fn(idx)
		}(i)
	}
	wg.Wait()
}

func collectResults(results []string, errs []error, names []string) ([]string, error) {
	var firstErr error
	successCount := 0
	failCount := 0

	for i, err := range errs {
		if err != nil {
			failCount++
			if firstErr == nil {
				if names != nil {
					firstErr = fmt.Errorf("%s: %w", names[i], err)
				} else {
					firstErr = fmt.Errorf("item %d: %w", i, err)
				}
			}
		} else {
			successCount++
		}
	}

	switch {
	case successCount == 0:
		return results, fmt.Errorf("all %d items failed: %w", len(results), firstErr)
	case failCount > 0:
		return results, fmt.Errorf("partial failure (%d/%d succeeded): %w", successCount, len(results), firstErr)
	default:
		return results, nil
	}
}

// GetStatistics returns processing statistics.
func (s *Sanitizer) GetStatistics() Statistics {
	processed, hits, misses, errs, avg := s.stats.Snapshot()
	return Statistics{
		TotalProcessed:     int64(processed),
		CacheHits:          int64(hits),
		CacheMisses:        int64(misses),
		ErrorCount:         int64(errs),
		AverageProcessTime: avg,
	}
}

// WritePrometheus writes the sanitizer's metrics in Prometheus text format.
func (s *Sanitizer) WritePrometheus(w io.Writer) {
	s.stats.WritePrometheus(w)
}

// ClearCache clears the cache and resets cache statistics.
func (s *Sanitizer) ClearCache() {
	s.cache.Clear()
	s.stats.ResetCache()
}

// Close releases sanitizer resources.
func (s *Sanitizer) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.cache.Clear()
	return nil
}

// cacheKey returns "" when results for policy must not be cached.
func (s *Sanitizer) cacheKey(content string, policy Policy) string {
	if s.config.MaxCacheEntries == 0 {
		return ""
	}
	keyer, ok := policy.(CacheKeyer)
	if !ok {
		return ""
	}
	policyKey := keyer.CacheKey()
	if policyKey == "" {
		return ""
	}
	var flags byte
	if s.config.Verbatim {
		flags |= flagVerbatim
	}
	if s.config.Harden {
		flags |= flagHarden
	}
	return internal.ResultKey(content, policyKey, flags)
}
