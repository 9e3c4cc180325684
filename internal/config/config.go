package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/forPelevin/hlgrab/internal/domain/highlights"
)

// Paths holds the two shared directories and how clips are exposed on the web.
type Paths struct {
	DownloadsDir  string `toml:"downloads_dir"`
	HighlightsDir string `toml:"highlights_dir"`
	PublicPrefix  string `toml:"public_prefix"`
}

type Tools struct {
	YtDlp   string `toml:"ytdlp"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

type Fetch struct {
	Format         string   `toml:"format"`
	SettleDelayMS  int      `toml:"settle_delay_ms"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	Referer        string   `toml:"referer"`
	UserAgent      string   `toml:"user_agent"`
	AllowedHosts   []string `toml:"allowed_hosts"`
}

type Highlights struct {
	Ratios             []float64 `toml:"ratios"`
	ClipSeconds        float64   `toml:"clip_seconds"`
	FilePrefix         string    `toml:"file_prefix"`
	Format             string    `toml:"format"`
	TrimTimeoutSeconds int       `toml:"trim_timeout_seconds"`
	CleanupOnFailure   bool      `toml:"cleanup_on_failure"`
}

type Server struct {
	Bind     string `toml:"bind"`
	APIToken string `toml:"api_token"`
}

type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Retention configures the opt-in sweeper for old downloads and clips.
// MaxAgeHours = 0 disables it.
type Retention struct {
	MaxAgeHours       int    `toml:"max_age_hours"`
	IntervalMinutes   int    `toml:"interval_minutes"`
	IncludeHighlights bool   `toml:"include_highlights"`
	LockPath          string `toml:"lock_path"`
}

type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	Fetch      Fetch      `toml:"fetch"`
	Highlights Highlights `toml:"highlights"`
	Server     Server     `toml:"server"`
	Logging    Logging    `toml:"logging"`
	Retention  Retention  `toml:"retention"`
}

// LoadEnv loads .env files into the process environment. A missing file is
// not an error.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load builds a Config from defaults, the TOML file at path (optional when
// path is empty) and environment overrides, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("HLGRAB_DOWNLOADS_DIR", &c.Paths.DownloadsDir)
	str("HLGRAB_HIGHLIGHTS_DIR", &c.Paths.HighlightsDir)
	str("HLGRAB_PUBLIC_PREFIX", &c.Paths.PublicPrefix)
	str("YTDLP_PATH", &c.Tools.YtDlp)
	str("FFMPEG_PATH", &c.Tools.FFmpeg)
	str("FFPROBE_PATH", &c.Tools.FFprobe)
	str("HLGRAB_BIND", &c.Server.Bind)
	str("HLGRAB_API_TOKEN", &c.Server.APIToken)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if v, ok := lookup("HLGRAB_ALLOWED_HOSTS"); ok && strings.TrimSpace(v) != "" {
		c.Fetch.AllowedHosts = splitList(v)
	}
	if v, ok := lookup("HLGRAB_RETENTION_HOURS"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("HLGRAB_RETENTION_HOURS: %w", err)
		}
		c.Retention.MaxAgeHours = n
	}
	return nil
}

func (c *Config) normalize() {
	c.Fetch.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Fetch.Format)), ".")
	c.Highlights.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(c.Highlights.Format)), ".")
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Paths.PublicPrefix != "" {
		c.Paths.PublicPrefix = "/" + strings.Trim(c.Paths.PublicPrefix, "/")
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.DownloadsDir) == "" {
		return errors.New("paths.downloads_dir must be set")
	}
	if strings.TrimSpace(c.Paths.HighlightsDir) == "" {
		return errors.New("paths.highlights_dir must be set")
	}
	if c.Paths.PublicPrefix == "" || c.Paths.PublicPrefix == "/" {
		return errors.New("paths.public_prefix must be a non-root URL path")
	}
	if c.Fetch.SettleDelayMS < 0 {
		return errors.New("fetch.settle_delay_ms must be >= 0")
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.New("fetch.timeout_seconds must be >= 0")
	}
	if c.Highlights.TrimTimeoutSeconds < 0 {
		return errors.New("highlights.trim_timeout_seconds must be >= 0")
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("highlights: %w", err)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Retention.MaxAgeHours < 0 {
		return errors.New("retention.max_age_hours must be >= 0")
	}
	if c.Retention.MaxAgeHours > 0 && c.Retention.IntervalMinutes <= 0 {
		return errors.New("retention.interval_minutes must be > 0 when retention is enabled")
	}
	return nil
}

func (c *Config) Policy() highlights.Policy {
	return highlights.Policy{
		Ratios:     append([]float64(nil), c.Highlights.Ratios...),
		ClipLength: seconds(c.Highlights.ClipSeconds),
	}
}

func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.Fetch.SettleDelayMS) * time.Millisecond
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

func (c *Config) TrimTimeout() time.Duration {
	return time.Duration(c.Highlights.TrimTimeoutSeconds) * time.Second
}

func (c *Config) RetentionMaxAge() time.Duration {
	return time.Duration(c.Retention.MaxAgeHours) * time.Hour
}

func (c *Config) RetentionInterval() time.Duration {
	return time.Duration(c.Retention.IntervalMinutes) * time.Minute
}

func seconds(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
