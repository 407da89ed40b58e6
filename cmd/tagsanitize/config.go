package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/cybergodev/tagsanitizer"
)

// Config is the command configuration. Values come from an optional YAML
// file, then the environment, then command-line flags.
type Config struct {
	LogLevel     string        `yaml:"log_level" env:"TAGSANITIZE_LOG_LEVEL" env-default:"info"`
	Rules        string        `yaml:"rules" env:"TAGSANITIZE_RULES"`
	OutDir       string        `yaml:"out_dir" env:"TAGSANITIZE_OUT_DIR"`
	Verbatim     bool          `yaml:"verbatim" env:"TAGSANITIZE_VERBATIM"`
	Harden       bool          `yaml:"harden" env:"TAGSANITIZE_HARDEN"`
	Stats        bool          `yaml:"stats" env:"TAGSANITIZE_STATS"`
	Charset      string        `yaml:"charset" env:"TAGSANITIZE_CHARSET"`
	Workers      int           `yaml:"workers" env:"TAGSANITIZE_WORKERS" env-default:"4"`
	MaxInputSize int           `yaml:"max_input_size" env:"TAGSANITIZE_MAX_INPUT_SIZE" env-default:"52428800"`
	MaxDepth     int           `yaml:"max_depth" env:"TAGSANITIZE_MAX_DEPTH" env-default:"256"`
	Timeout      time.Duration `yaml:"timeout" env:"TAGSANITIZE_TIMEOUT" env-default:"30s"`
}

type flags struct {
	config   string
	rules    string
	outDir   string
	logLevel string
	verbatim bool
	harden   bool
	stats    bool
	fs       *flag.FlagSet
}

func newFlags() *flags {
	f := &flags{fs: flag.NewFlagSet("tagsanitize", flag.ContinueOnError)}
	f.fs.StringVar(&f.config, "c", "", "path to a YAML config file")
	f.fs.StringVar(&f.rules, "rules", "", "path to a YAML rules file (default: built-in mail policy)")
	f.fs.StringVar(&f.outDir, "out", "", "write results into this directory instead of stdout")
	f.fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	f.fs.BoolVar(&f.verbatim, "verbatim", false, "print text and attribute values without escaping")
	f.fs.BoolVar(&f.harden, "harden", false, "run results through a UGC sanitizer")
	f.fs.BoolVar(&f.stats, "stats", false, "print statistics as JSON to stderr")
	return f
}

// loadConfig reads the config file when one is given, the environment
// otherwise, and lets explicitly set flags override both.
func loadConfig(f *flags) (*Config, error) {
	var cfg Config
	if f.config != "" {
		if err := cleanenv.ReadConfig(f.config, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", f.config, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "rules":
			cfg.Rules = f.rules
		case "out":
			cfg.OutDir = f.outDir
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "verbatim":
			cfg.Verbatim = f.verbatim
		case "harden":
			cfg.Harden = f.harden
		case "stats":
			cfg.Stats = f.stats
		}
	})
	return &cfg, nil
}

func (c *Config) sanitizerConfig() tagsanitizer.Config {
	sc := tagsanitizer.DefaultConfig()
	sc.MaxInputSize = c.MaxInputSize
	sc.WorkerPoolSize = c.Workers
	sc.MaxDepth = c.MaxDepth
	sc.ProcessingTimeout = c.Timeout
	sc.Verbatim = c.Verbatim
	sc.Harden = c.Harden
	sc.ForcedEncoding = c.Charset
	return sc
}
