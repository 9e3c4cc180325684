package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/forPelevin/hlgrab/internal/ports"
	"github.com/forPelevin/hlgrab/internal/types"
)

type Deps struct {
	Downloader ports.Downloader
	Prober     ports.Prober
	Trimmer    ports.Trimmer
	Logger     *slog.Logger
	Now        func() time.Time
}

type Input struct {
	Fetch   FetchConfig
	Extract ExtractConfig
}

// Usecase turns a source URL into highlight clips: fetch, then extract.
type Usecase struct {
	fetch   *Fetcher
	extract *Extractor
	log     *slog.Logger
}

func New(d Deps, in Input) *Usecase {
	log := d.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	stamp := NewStamper(d.Now)
	return &Usecase{
		fetch:   NewFetcher(d.Downloader, in.Fetch, stamp, log),
		extract: NewExtractor(d.Prober, d.Trimmer, in.Extract, stamp, log),
		log:     log,
	}
}

func (u *Usecase) Run(ctx context.Context, sourceURL string) (types.Result, error) {
	start := time.Now()
	log := u.log.With(slog.String("source", sourceURL))

	path, err := u.fetch.Fetch(ctx, sourceURL)
	if err != nil {
		log.Warn("fetch failed", slog.String("kind", Kind(err)), slog.String("error", err.Error()))
		return types.Result{}, err
	}
	log.Info("source downloaded", slog.String("path", path), slog.Duration("elapsed", time.Since(start)))

	clips, dur, err := u.extract.Extract(ctx, path)
	if err != nil {
		log.Warn("extract failed", slog.String("path", path), slog.String("kind", Kind(err)), slog.String("error", err.Error()))
		return types.Result{}, err
	}
	log.Info("highlights extracted",
		slog.Float64("duration_s", dur),
		slog.Int("clips", len(clips)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return types.Result{
		Source:          sourceURL,
		SourcePath:      path,
		DurationSeconds: dur,
		Clips:           clips,
	}, nil
}
