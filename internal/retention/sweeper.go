package retention

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Recorder receives the number of files a sweep removed. *metrics.Metrics
// satisfies it.
type Recorder interface {
	AddSwept(n int)
}

type Config struct {
	Dirs     []string
	MaxAge   time.Duration
	LockPath string
}

// Report summarizes one sweep.
type Report struct {
	Skipped bool
	Scanned int
	Removed []string
}

// Sweeper removes old files from the shared working directories. Only the
// top level of each directory is inspected.
type Sweeper struct {
	cfg      Config
	lock     *flock.Flock
	log      *slog.Logger
	recorder Recorder
	now      func() time.Time
}

func New(cfg Config, log *slog.Logger, rec Recorder) (*Sweeper, error) {
	if cfg.MaxAge <= 0 {
		return nil, errors.New("retention: max age must be > 0")
	}
	if cfg.LockPath == "" {
		return nil, errors.New("retention: lock path is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sweeper{
		cfg:      cfg,
		lock:     flock.New(cfg.LockPath),
		log:      log,
		recorder: rec,
		now:      time.Now,
	}, nil
}

// Sweep runs one pass. When another sweeper holds the lock the pass is
// skipped and Report.Skipped is set.
func (s *Sweeper) Sweep(ctx context.Context) (Report, error) {
	if err := os.MkdirAll(filepath.Dir(s.cfg.LockPath), 0o755); err != nil {
		return Report{}, fmt.Errorf("retention: lock dir: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return Report{}, fmt.Errorf("retention: acquire lock: %w", err)
	}
	if !ok {
		s.log.Info("sweep skipped, lock held elsewhere", slog.String("lock", s.cfg.LockPath))
		return Report{Skipped: true}, nil
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn("failed to release sweep lock", slog.String("error", err.Error()))
		}
	}()

	cutoff := s.now().Add(-s.cfg.MaxAge)
	lockAbs, _ := filepath.Abs(s.cfg.LockPath)

	var rep Report
	for _, dir := range s.cfg.Dirs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := s.sweepDir(ctx, dir, cutoff, lockAbs, &rep); err != nil {
			return rep, err
		}
	}

	if s.recorder != nil && len(rep.Removed) > 0 {
		s.recorder.AddSwept(len(rep.Removed))
	}
	s.log.Info("sweep finished",
		slog.Int("scanned", rep.Scanned),
		slog.Int("removed", len(rep.Removed)),
		slog.Duration("max_age", s.cfg.MaxAge),
	)
	return rep, nil
}

func (s *Sweeper) sweepDir(ctx context.Context, dir string, cutoff time.Time, lockAbs string, rep *Report) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("retention: read %s: %w", dir, err)
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if abs, _ := filepath.Abs(path); abs == lockAbs {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		rep.Scanned++
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.log.Warn("remove expired file", slog.String("path", path), slog.String("error", err.Error()))
			}
			continue
		}
		rep.Removed = append(rep.Removed, path)
	}
	return nil
}

// Run sweeps immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("sweep failed", slog.String("error", err.Error()))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
