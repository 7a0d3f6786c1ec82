package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/uniqwrites/secnews/internal/query"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// dotenvFiles are read, if present, before environment overrides apply.
var dotenvFiles = []string{".env", ".env.local"}

type ScrapeConfig struct {
	SuccessDelay string `yaml:"success_delay"`
	FailureDelay string `yaml:"failure_delay"`
}

type Config struct {
	APIURL         string       `yaml:"api_url"`
	RequestTimeout string       `yaml:"request_timeout"`
	ScrapeTimeout  string       `yaml:"scrape_timeout"`
	PageSize       int          `yaml:"page_size"`
	DefaultWindow  int          `yaml:"default_window"`
	Scrape         ScrapeConfig `yaml:"scrape"`
	Retention      string       `yaml:"retention"`
	LogLevel       string       `yaml:"log_level,omitempty"`
}

func (c *Config) RequestTimeoutDuration() time.Duration {
	return parseDuration(c.RequestTimeout, 10*time.Second)
}

func (c *Config) ScrapeTimeoutDuration() time.Duration {
	return parseDuration(c.ScrapeTimeout, 60*time.Second)
}

func (c *Config) SuccessDelay() time.Duration {
	return parseDuration(c.Scrape.SuccessDelay, 1500*time.Millisecond)
}

func (c *Config) FailureDelay() time.Duration {
	return parseDuration(c.Scrape.FailureDelay, 5*time.Second)
}

func (c *Config) RetentionDuration() time.Duration {
	return parseDuration(c.Retention, 90*24*time.Hour)
}

// Window returns the configured default window, falling back to 7 days.
func (c *Config) Window() int {
	if !query.ValidWindow(c.DefaultWindow) {
		return query.DefaultWindow
	}
	return c.DefaultWindow
}

// Limit returns the page size, defaulting to 10.
func (c *Config) Limit() int {
	if c.PageSize <= 0 {
		return query.DefaultLimit
	}
	return c.PageSize
}

// ParseDuration accepts Go durations plus a whole-day "Nd" form.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "secnews", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "secnews", "secnews.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location), filling any
// missing keys from the embedded defaults, then applies .env and
// environment overrides.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Non-fatal: keep running on embedded defaults.
		_ = writeDefaults(path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	loadDotenv()
	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func loadDotenv() {
	var present []string
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		_ = godotenv.Load(present...)
	}
}

func applyEnv(cfg *Config) {
	for _, key := range []string{"REACT_APP_API_URL", "SECNEWS_API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			cfg.APIURL = v
		}
	}
	if v := strings.TrimSpace(os.Getenv("SECNEWS_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url: missing host in %q", cfg.APIURL)
	}

	durations := map[string]string{
		"request_timeout":      cfg.RequestTimeout,
		"scrape_timeout":       cfg.ScrapeTimeout,
		"scrape.success_delay": cfg.Scrape.SuccessDelay,
		"scrape.failure_delay": cfg.Scrape.FailureDelay,
		"retention":            cfg.Retention,
	}
	for key, v := range durations {
		if v == "" {
			continue
		}
		d, err := ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s: must be positive, got %s", key, v)
		}
	}

	if cfg.PageSize < 0 {
		return fmt.Errorf("page_size: must be positive, got %d", cfg.PageSize)
	}
	if cfg.DefaultWindow != 0 && !query.ValidWindow(cfg.DefaultWindow) {
		return fmt.Errorf("default_window: must be one of %v, got %d", query.Windows, cfg.DefaultWindow)
	}
	return nil
}
