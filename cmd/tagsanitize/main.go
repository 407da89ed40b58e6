// Command tagsanitize sanitizes HTML files, or standard input, with the
// built-in mail policy or a YAML rules file.
//
//	tagsanitize [-c config.yaml] [-rules rules.yaml] [-out dir] [-harden] [-stats] [files...]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cybergodev/tagsanitizer"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f := newFlags()
	f.fs.SetOutput(stderr)
	if err := f.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	log := setupLogger(cfg.LogLevel, stderr)

	policy, err := buildPolicy(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("cannot load rules")
		return exitUsage
	}

	sc := cfg.sanitizerConfig()
	sc.Logger = log
	s, err := tagsanitizer.New(sc)
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}
	defer s.Close()

	code := exitOK
	if f.fs.NArg() == 0 {
		out, err := s.SanitizeReader(stdin, policy)
		if err != nil {
			log.Error().Err(err).Msg("cannot sanitize standard input")
			code = exitFail
		} else {
			fmt.Fprintln(stdout, out)
		}
	} else if err := sanitizeFiles(s, policy, f.fs.Args(), cfg.OutDir, stdout, log); err != nil {
		log.Error().Err(err).Msg("sanitize failed")
		code = exitFail
	}

	if cfg.Stats {
		if err := writeStats(stderr, s.GetStatistics()); err != nil {
			log.Error().Err(err).Msg("cannot write statistics")
		}
	}
	return code
}

func setupLogger(level string, w io.Writer) *zerolog.Logger {
	loglevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		loglevel = zerolog.InfoLevel
	}
	consoleWriter := zerolog.ConsoleWriter{Out: w, PartsExclude: []string{zerolog.TimestampFieldName}}
	log := zerolog.New(consoleWriter).Level(loglevel).With().Timestamp().Logger()
	return &log
}

func buildPolicy(cfg *Config, log *zerolog.Logger) (tagsanitizer.Policy, error) {
	if cfg.Rules == "" {
		return mailPolicy{}, nil
	}
	rules, err := tagsanitizer.LoadRules(cfg.Rules)
	if err != nil {
		return nil, err
	}
	rules.Logger = log
	return rules, nil
}

// sanitizeFiles writes results even when some files failed. Empty results
// are skipped in that case since they cannot be told apart from failures.
func sanitizeFiles(s *tagsanitizer.Sanitizer, policy tagsanitizer.Policy, paths []string, outDir string, stdout io.Writer, log *zerolog.Logger) error {
	results, batchErr := s.SanitizeBatchFiles(paths, policy)
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	for i, path := range paths {
		if results[i] == "" && batchErr != nil {
			continue
		}
		if outDir == "" {
			fmt.Fprintln(stdout, results[i])
			continue
		}
		target := filepath.Join(outDir, filepath.Base(path))
		if err := os.WriteFile(target, []byte(results[i]), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		log.Debug().Str("in", path).Str("out", target).Msg("sanitized")
	}
	return batchErr
}

type statsReport struct {
	TotalProcessed int64  `json:"total_processed"`
	CacheHits      int64  `json:"cache_hits"`
	CacheMisses    int64  `json:"cache_misses"`
	Errors         int64  `json:"errors"`
	AverageTime    string `json:"average_time"`
}

func writeStats(w io.Writer, st tagsanitizer.Statistics) error {
	datab, err := json.MarshalIndent(statsReport{
		TotalProcessed: st.TotalProcessed,
		CacheHits:      st.CacheHits,
		CacheMisses:    st.CacheMisses,
		Errors:         st.ErrorCount,
		AverageTime:    st.AverageProcessTime.Round(time.Microsecond).String(),
	}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(datab))
	return err
}
