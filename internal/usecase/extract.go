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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/forPelevin/hlgrab/internal/domain/highlights"
	"github.com/forPelevin/hlgrab/internal/ports"
	"github.com/forPelevin/hlgrab/internal/types"
)

// ExtractConfig controls where clips are written and how they are cut.
type ExtractConfig struct {
	Dir          string
	PublicPrefix string
	FilePrefix   string
	Format       string
	Policy       highlights.Policy
	TrimTimeout  time.Duration

	// CleanupOnFailure removes every clip of a run that did not fully succeed.
	CleanupOnFailure bool
}

type Extractor struct {
	probe ports.Prober
	trim  ports.Trimmer
	cfg   ExtractConfig
	stamp *Stamper
	log   *slog.Logger
}

func NewExtractor(probe ports.Prober, trim ports.Trimmer, cfg ExtractConfig, stamp *Stamper, log *slog.Logger) *Extractor {
	if cfg.PublicPrefix == "" {
		cfg.PublicPrefix = "/highlights"
	}
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = highlights.DefaultClipPrefix
	}
	if cfg.Format == "" {
		cfg.Format = highlights.DefaultClipFormat
	}
	if len(cfg.Policy.Ratios) == 0 && cfg.Policy.ClipLength == 0 {
		cfg.Policy = highlights.DefaultPolicy()
	}
	if stamp == nil {
		stamp = NewStamper(nil)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{probe: probe, trim: trim, cfg: cfg, stamp: stamp, log: log}
}

// Extract probes input, cuts one clip per policy ratio concurrently and
// returns the clips in ratio order. Either every clip succeeds or an error
// is returned.
func (e *Extractor) Extract(ctx context.Context, input string) ([]types.ClipArtifact, float64, error) {
	info, err := e.probe.Probe(ctx, input)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}
	if !highlights.ValidDuration(info.DurationSeconds) {
		return nil, 0, fmt.Errorf("%w: no usable duration in %s (got %v)", ErrProbeFailed, input, info.DurationSeconds)
	}

	specs, err := highlights.Plan(info.DurationSeconds, e.cfg.Policy)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrClipGeneration, err)
	}

	dir, err := filepath.Abs(e.cfg.Dir)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: highlights dir: %w", ErrClipGeneration, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, 0, fmt.Errorf("%w: highlights dir: %w", ErrClipGeneration, err)
	}

	stamp := e.stamp.Next()
	clips := make([]types.ClipArtifact, len(specs))
	for i, s := range specs {
		name := highlights.ClipFileName(e.cfg.FilePrefix, stamp, s.Index, e.cfg.Format)
		clips[i] = types.ClipArtifact{
			Index:      s.Index,
			Offset:     s.Offset,
			Duration:   s.Duration,
			LocalPath:  filepath.Join(dir, name),
			PublicPath: highlights.PublicPath(e.cfg.PublicPrefix, name),
			Stamp:      stamp,
		}
		if over := highlights.Overrun(s, info.DurationSeconds); over > 0 {
			e.log.Debug("clip runs past end of source",
				slog.Int("clip", s.Index),
				slog.Duration("overrun", over),
			)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range clips {
		c := c
		g.Go(func() error {
			return e.trimOne(gctx, input, c)
		})
	}
	if err := g.Wait(); err != nil {
		if e.cfg.CleanupOnFailure {
			e.removeClips(clips)
		}
		return nil, 0, fmt.Errorf("%w: %w", ErrClipGeneration, err)
	}
	return clips, info.DurationSeconds, nil
}

func (e *Extractor) trimOne(ctx context.Context, input string, c types.ClipArtifact) error {
	if e.cfg.TrimTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.TrimTimeout)
		defer cancel()
	}

	start := time.Now()
	err := e.trim.Trim(ctx, types.TrimRequest{
		InputPath:  input,
		Offset:     c.Offset,
		Duration:   c.Duration,
		OutputPath: c.LocalPath,
	})
	if err != nil {
		return fmt.Errorf("clip %d at %s: %w", c.Index, c.Offset, err)
	}
	e.log.Debug("clip written",
		slog.Int("clip", c.Index),
		slog.String("path", c.LocalPath),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (e *Extractor) removeClips(clips []types.ClipArtifact) {
	for _, c := range clips {
		if err := os.Remove(c.LocalPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			e.log.Warn("remove partial clip", slog.String("path", c.LocalPath), slog.String("error", err.Error()))
		}
	}
}
