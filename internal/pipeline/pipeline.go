package pipeline

import (
	"context"
	"log/slog"
	"os"

	"github.com/forPelevin/hlgrab/internal/config"
	"github.com/forPelevin/hlgrab/internal/ports"
	"github.com/forPelevin/hlgrab/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/hlgrab/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/hlgrab/internal/types"
	"github.com/forPelevin/hlgrab/internal/usecase"
)

// Pipeline is the configured fetch+extract chain behind both the CLI and
// the HTTP API.
type Pipeline struct {
	uc    *usecase.Usecase
	video *ffmpeg.Adapter
	dl    *ytdlp.Adapter
	cfg   *config.Config
}

// New wires the external toolchain adapters from cfg.
func New(cfg *config.Config, log *slog.Logger) *Pipeline {
	v := ffmpeg.New(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	dl := ytdlp.New(cfg.Tools.YtDlp)
	return &Pipeline{
		uc:    newUsecase(cfg, usecase.Deps{Downloader: dl, Prober: v, Trimmer: v, Logger: log}),
		video: v,
		dl:    dl,
		cfg:   cfg,
	}
}

func newUsecase(cfg *config.Config, deps usecase.Deps) *usecase.Usecase {
	return usecase.New(deps, usecase.Input{
		Fetch: usecase.FetchConfig{
			Dir:          cfg.Paths.DownloadsDir,
			Format:       cfg.Fetch.Format,
			SettleDelay:  cfg.SettleDelay(),
			Timeout:      cfg.FetchTimeout(),
			Referer:      cfg.Fetch.Referer,
			UserAgent:    cfg.Fetch.UserAgent,
			AllowedHosts: cfg.Fetch.AllowedHosts,
		},
		Extract: usecase.ExtractConfig{
			Dir:              cfg.Paths.HighlightsDir,
			PublicPrefix:     cfg.Paths.PublicPrefix,
			FilePrefix:       cfg.Highlights.FilePrefix,
			Format:           cfg.Highlights.Format,
			Policy:           cfg.Policy(),
			TrimTimeout:      cfg.TrimTimeout(),
			CleanupOnFailure: cfg.Highlights.CleanupOnFailure,
		},
	})
}

// ExtractHighlights downloads sourceURL and returns its clips in ratio order.
func (p *Pipeline) ExtractHighlights(ctx context.Context, sourceURL string) (types.Result, error) {
	return p.uc.Run(ctx, sourceURL)
}

// Prepare creates the working directories.
func (p *Pipeline) Prepare() error {
	for _, dir := range []string{p.cfg.Paths.DownloadsDir, p.cfg.Paths.HighlightsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Preflight reports missing external binaries without failing.
func (p *Pipeline) Preflight() []error {
	errs := p.video.CheckTools()
	if err := p.dl.CheckTool(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

// ensure adapters implement ports
var _ ports.Downloader = (*ytdlp.Adapter)(nil)
var _ ports.Prober = (*ffmpeg.Adapter)(nil)
var _ ports.Trimmer = (*ffmpeg.Adapter)(nil)
