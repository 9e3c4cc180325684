package config

import (
	"path/filepath"

	"github.com/forPelevin/hlgrab/internal/domain/highlights"
	"github.com/forPelevin/hlgrab/internal/usecase"
)

const (
	defaultDownloadsDir      = "data/downloads"
	defaultHighlightsDir     = "public/highlights"
	defaultPublicPrefix      = "/highlights"
	defaultFetchFormat       = "mp4"
	defaultSettleDelayMS     = 1000
	defaultFetchTimeout      = 600
	defaultTrimTimeout       = 300
	defaultBind              = ":8080"
	defaultLogLevel          = "info"
	defaultLogFormat         = "json"
	defaultRetentionInterval = 60
	defaultRetentionLockName = ".hlgrab-sweep.lock"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadsDir:  defaultDownloadsDir,
			HighlightsDir: defaultHighlightsDir,
			PublicPrefix:  defaultPublicPrefix,
		},
		Tools: Tools{
			YtDlp:   "yt-dlp",
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
		Fetch: Fetch{
			Format:         defaultFetchFormat,
			SettleDelayMS:  defaultSettleDelayMS,
			TimeoutSeconds: defaultFetchTimeout,
			Referer:        usecase.DefaultReferer,
			UserAgent:      usecase.DefaultUserAgent,
		},
		Highlights: Highlights{
			Ratios:             append([]float64(nil), highlights.DefaultRatios...),
			ClipSeconds:        highlights.DefaultClipLength.Seconds(),
			FilePrefix:         highlights.DefaultClipPrefix,
			Format:             highlights.DefaultClipFormat,
			TrimTimeoutSeconds: defaultTrimTimeout,
			CleanupOnFailure:   true,
		},
		Server: Server{
			Bind: defaultBind,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Retention: Retention{
			IntervalMinutes: defaultRetentionInterval,
		},
	}
}

// RetentionLockPath returns the sweeper lock file, defaulting to a file in
// the downloads directory.
func (c *Config) RetentionLockPath() string {
	if c.Retention.LockPath != "" {
		return c.Retention.LockPath
	}
	return filepath.Join(c.Paths.DownloadsDir, defaultRetentionLockName)
}
