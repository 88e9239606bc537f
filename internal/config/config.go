// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/device-grader/pkg/grading"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Valuation ValuationConfig `yaml:"valuation"`
	Cache     CacheConfig     `yaml:"cache"`
	Grading   GradingConfig   `yaml:"grading"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// ValuationConfig defines the remote valuation service. An empty URL
// disables remote valuation; every audit is then priced locally.
type ValuationConfig struct {
	URL       string          `yaml:"url"`
	Path      string          `yaml:"path"`
	Tenant    string          `yaml:"tenant"`
	Timeout   time.Duration   `yaml:"timeout"`
	Debounce  time.Duration   `yaml:"debounce"`
	CacheTTL  time.Duration   `yaml:"cache_ttl"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Breaker   BreakerConfig   `yaml:"breaker"`
}

// Enabled reports whether a remote valuation service is configured.
func (v *ValuationConfig) Enabled() bool {
	return v.URL != ""
}

// RateLimitConfig defines outbound valuation rate limiting. A daily limit
// of zero means unlimited.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// BreakerConfig defines the circuit breaker around the valuation service.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
}

// CacheConfig selects the valuation response cache.
type CacheConfig struct {
	Backend string      `yaml:"backend"` // memory, redis, none
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig defines Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GradingConfig defines grading and pricing parameters.
type GradingConfig struct {
	Amounts   grading.Amounts `yaml:"amounts"`
	TableFile string          `yaml:"table_file"` // optional cosmetic grade table override
	Debug     bool            `yaml:"debug"`
}

// SessionsConfig defines audit session lifecycle settings.
type SessionsConfig struct {
	IdleTTL      time.Duration `yaml:"idle_ttl"`
	ReapSchedule string        `yaml:"reap_schedule"`
}

// TracingConfig defines OpenTelemetry trace export.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyValuationDefaults(&cfg.Valuation)
	applyCacheDefaults(&cfg.Cache)
	applyGradingDefaults(&cfg.Grading)
	applySessionsDefaults(&cfg.Sessions)
	applyTracingDefaults(&cfg.Tracing)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyValuationDefaults(v *ValuationConfig) {
	if v.Path == "" {
		v.Path = "/valuation"
	}
	if v.Timeout == 0 {
		v.Timeout = 5 * time.Second
	}
	if v.Debounce == 0 {
		v.Debounce = 400 * time.Millisecond
	}
	if v.CacheTTL == 0 {
		v.CacheTTL = 10 * time.Minute
	}
	if v.RateLimit.PerSecond == 0 {
		v.RateLimit.PerSecond = 10
	}
	if v.RateLimit.Burst == 0 {
		v.RateLimit.Burst = 20
	}
	if v.Breaker.ConsecutiveFailures == 0 {
		v.Breaker.ConsecutiveFailures = 5
	}
	if v.Breaker.Interval == 0 {
		v.Breaker.Interval = time.Minute
	}
	if v.Breaker.Timeout == 0 {
		v.Breaker.Timeout = 30 * time.Second
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "redis" && c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
}

func applyGradingDefaults(g *GradingConfig) {
	if g.Amounts == (grading.Amounts{}) {
		g.Amounts = grading.DefaultAmounts()
	}
}

func applySessionsDefaults(s *SessionsConfig) {
	if s.IdleTTL == 0 {
		s.IdleTTL = 30 * time.Minute
	}
	if s.ReapSchedule == "" {
		s.ReapSchedule = "@every 1m"
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "device-grader"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if cfg.Valuation.Enabled() && cfg.Valuation.Tenant == "" {
		errs = append(errs, fmt.Errorf("valuation.tenant is required when valuation.url is set"))
	}
	if cfg.Valuation.RateLimit.DailyLimit < 0 {
		errs = append(errs, fmt.Errorf("valuation.rate_limit.daily_limit must not be negative"))
	}

	switch cfg.Cache.Backend {
	case "memory", "none", "redis":
	default:
		errs = append(
			errs,
			fmt.Errorf("cache.backend must be one of: memory, redis, none (got %q)", cfg.Cache.Backend),
		)
	}

	a := cfg.Grading.Amounts
	if a.Battery < 0 || a.Screen < 0 || a.Chassis < 0 {
		errs = append(errs, fmt.Errorf("grading.amounts must not be negative"))
	}

	if _, err := cron.ParseStandard(cfg.Sessions.ReapSchedule); err != nil {
		errs = append(errs, fmt.Errorf("sessions.reap_schedule %q: %w", cfg.Sessions.ReapSchedule, err))
	}
	if cfg.Sessions.IdleTTL < 0 {
		errs = append(errs, fmt.Errorf("sessions.idle_ttl must not be negative"))
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.endpoint is required when tracing is enabled"))
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be between 0 and 1"))
	}

	return errors.Join(errs...)
}
