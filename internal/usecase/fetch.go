package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forPelevin/hlgrab/internal/ports"
	"github.com/forPelevin/hlgrab/internal/types"
)

const (
	DefaultDownloadFormat = "mp4"
	DefaultSettleDelay    = time.Second
	DefaultReferer        = "https://www.google.com/"
	DefaultUserAgent      = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"

	downloadPrefix = "video_"
)

// FetchConfig controls where and how source videos are downloaded.
type FetchConfig struct {
	Dir          string
	Format       string
	SettleDelay  time.Duration
	Timeout      time.Duration
	Referer      string
	UserAgent    string
	AllowedHosts []string
}

type Fetcher struct {
	dl    ports.Downloader
	cfg   FetchConfig
	stamp *Stamper
	log   *slog.Logger
}

func NewFetcher(dl ports.Downloader, cfg FetchConfig, stamp *Stamper, log *slog.Logger) *Fetcher {
	if cfg.Format == "" {
		cfg.Format = DefaultDownloadFormat
	}
	cfg.Format = strings.TrimPrefix(cfg.Format, ".")
	if cfg.Referer == "" {
		cfg.Referer = DefaultReferer
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if stamp == nil {
		stamp = NewStamper(nil)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{dl: dl, cfg: cfg, stamp: stamp, log: log}
}

// Fetch downloads sourceURL into the downloads directory and returns the
// absolute path of the file that was actually written.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string) (string, error) {
	if err := ValidateSourceURL(sourceURL, f.cfg.AllowedHosts); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	dir, err := filepath.Abs(f.cfg.Dir)
	if err != nil {
		return "", fmt.Errorf("downloads dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("downloads dir: %w", err)
	}

	base := fmt.Sprintf("%s%d", downloadPrefix, f.stamp.Next())
	expected := filepath.Join(dir, base+"."+f.cfg.Format)

	dctx := ctx
	if f.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, f.cfg.Timeout)
		defer cancel()
	}

	f.log.Debug("download started", slog.String("source", sourceURL), slog.String("output", expected))
	err = f.dl.Download(dctx, types.DownloadRequest{
		URL:                 strings.TrimSpace(sourceURL),
		OutputPath:          expected,
		Format:              f.cfg.Format,
		NoCheckCertificates: true,
		NoWarnings:          true,
		PreferFreeFormats:   true,
		Referer:             f.cfg.Referer,
		UserAgent:           f.cfg.UserAgent,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	path, err := ResolveDownload(ctx, dir, base, expected, f.cfg.SettleDelay)
	if err != nil {
		return "", err
	}
	if path != expected {
		f.log.Info("download resolved by prefix", slog.String("expected", expected), slog.String("path", path))
	}
	return path, nil
}

// ResolveDownload finds the file a download actually produced: the expected
// path if it exists, otherwise (after the settle delay) the first file in
// dir whose name starts with base.
func ResolveDownload(ctx context.Context, dir, base, expected string, settle time.Duration) (string, error) {
	if ok, err := tryExact(expected); err != nil {
		return "", err
	} else if ok {
		return expected, nil
	}

	if settle > 0 {
		t := time.NewTimer(settle)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}

	if ok, err := tryExact(expected); err != nil {
		return "", err
	} else if ok {
		return expected, nil
	}

	path, err := ScanByPrefix(dir, base)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("%w: no file matching %s* in %s", ErrArtifactMissing, base, dir)
	}
	return path, nil
}

func tryExact(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrArtifactMissing, err)
	}
	return info.Mode().IsRegular(), nil
}

// ScanByPrefix returns the first regular file in dir (by name) whose name
// starts with prefix, or "" when there is none. Partial download files are
// skipped.
func ScanByPrefix(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", ErrArtifactMissing, dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if isPartial(name) {
			continue
		}
		// "video_12" must not match "video_123.mp4".
		rest := name[len(prefix):]
		if rest != "" && rest[0] != '.' {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", nil
}

func isPartial(name string) bool {
	for _, ext := range []string{".part", ".ytdl", ".temp"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
