package internal

import (
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

// Stats holds the counters of one sanitizer. Every sanitizer owns its own
// metrics set, so counters of independent instances never mix.
type Stats struct {
	set         *metrics.Set
	processed   *metrics.Counter
	walked      *metrics.Counter
	cacheHits   *metrics.Counter
	cacheMisses *metrics.Counter
	errors      *metrics.Counter
	seconds     *metrics.FloatCounter
	duration    *metrics.Histogram
}

func NewStats() *Stats {
	set := metrics.NewSet()
	return &Stats{
		set:         set,
		processed:   set.NewCounter("tagsanitizer_documents_total"),
		walked:      set.NewCounter("tagsanitizer_documents_walked_total"),
		cacheHits:   set.NewCounter("tagsanitizer_cache_hits_total"),
		cacheMisses: set.NewCounter("tagsanitizer_cache_misses_total"),
		errors:      set.NewCounter("tagsanitizer_errors_total"),
		seconds:     set.NewFloatCounter("tagsanitizer_process_seconds_total"),
		duration:    set.NewHistogram("tagsanitizer_process_duration_seconds"),
	}
}

func (s *Stats) CacheHit()  { s.cacheHits.Inc(); s.processed.Inc() }
func (s *Stats) CacheMiss() { s.cacheMisses.Inc() }
func (s *Stats) Error()     { s.errors.Inc() }

// Processed records one document sanitized in d.
func (s *Stats) Processed(d time.Duration) {
	s.processed.Inc()
	s.walked.Inc()
	s.seconds.Add(d.Seconds())
	s.duration.Update(d.Seconds())
}

// ResetCache zeroes the cache counters.
func (s *Stats) ResetCache() {
	s.cacheHits.Set(0)
	s.cacheMisses.Set(0)
}

// Snapshot returns the current counter values. Cache hits count as processed
// documents but add no processing time, so the average covers walks only.
func (s *Stats) Snapshot() (processed, hits, misses, errs uint64, avg time.Duration) {
	processed = s.processed.Get()
	hits = s.cacheHits.Get()
	misses = s.cacheMisses.Get()
	errs = s.errors.Get()
	if walked := s.walked.Get(); walked > 0 {
		avg = time.Duration(s.seconds.Get() / float64(walked) * float64(time.Second))
	}
	return processed, hits, misses, errs, avg
}

// WritePrometheus writes the counters in Prometheus text format.
func (s *Stats) WritePrometheus(w io.Writer) {
	s.set.WritePrometheus(w)
}
