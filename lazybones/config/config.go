// Package config loads lazybones settings through viper: the default lazy
// mode, the job scheduler, logging and metrics.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/krew-solutions/lazybones-go/lazybones/job"
	"github.com/krew-solutions/lazybones-go/lazybones/lazy"
)

type Config struct {
	Lazy      LazyConfig      `mapstructure:"lazy"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type LazyConfig struct {
	// Mode is one of none, synchronized, publication.
	Mode string `mapstructure:"mode"`
}

type SchedulerConfig struct {
	// PoolSize bounds concurrent jobs. Zero starts a goroutine per job.
	PoolSize    int  `mapstructure:"pool_size"`
	Nonblocking bool `mapstructure:"nonblocking"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

func Default() *Config {
	return &Config{
		Lazy:      LazyConfig{Mode: lazy.ModeNone.String()},
		Scheduler: SchedulerConfig{PoolSize: 0},
		Log:       LogConfig{Level: "info", Format: "text"},
		Metrics:   MetricsConfig{Enabled: false, Namespace: "lazybones"},
	}
}

func SetDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("lazy.mode", defaults.Lazy.Mode)
	v.SetDefault("scheduler.pool_size", defaults.Scheduler.PoolSize)
	v.SetDefault("scheduler.nonblocking", defaults.Scheduler.Nonblocking)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.namespace", defaults.Metrics.Namespace)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var result *multierror.Error
	if _, err := lazy.ParseMode(c.Lazy.Mode); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Scheduler.PoolSize < 0 {
		result = multierror.Append(result, fmt.Errorf("scheduler.pool_size must not be negative, got %d", c.Scheduler.PoolSize))
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		result = multierror.Append(result, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		result = multierror.Append(result, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		result = multierror.Append(result, fmt.Errorf("metrics.namespace is required when metrics are enabled"))
	}
	return result.ErrorOrNil()
}

func (c *Config) LazyMode() (lazy.Mode, error) {
	return lazy.ParseMode(c.Lazy.Mode)
}

func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewScheduler returns a pool scheduler when a pool size is configured. The
// release func frees the pool and is safe to call for either scheduler.
func (c *Config) NewScheduler() (job.Scheduler, func(), error) {
	if c.Scheduler.PoolSize == 0 {
		return job.GoScheduler{}, func() {}, nil
	}
	pool, err := job.NewPoolScheduler(c.Scheduler.PoolSize, c.Scheduler.Nonblocking)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Release, nil
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
