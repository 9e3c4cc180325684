package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlgrab/internal/config"
	"github.com/forPelevin/hlgrab/internal/httpapi"
	"github.com/forPelevin/hlgrab/internal/pipeline"
	"github.com/forPelevin/hlgrab/internal/platform/logger"
	"github.com/forPelevin/hlgrab/internal/platform/metrics"
	"github.com/forPelevin/hlgrab/internal/retention"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the highlights API and the generated clips over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	p := pipeline.New(cfg, log)
	if err := p.Prepare(); err != nil {
		return fmt.Errorf("prepare dirs: %w", err)
	}
	for _, err := range p.Preflight() {
		log.Warn("preflight", slog.String("error", err.Error()))
	}
	if cfg.Server.APIToken == "" {
		log.Warn("api token not set, /api is unauthenticated")
	}

	met := metrics.New()
	h := httpapi.NewHandler(p, log, met)
	r := httpapi.NewRouter(h, httpapi.RouterConfig{
		APIToken:      cfg.Server.APIToken,
		HighlightsDir: cfg.Paths.HighlightsDir,
		PublicPrefix:  cfg.Paths.PublicPrefix,
	}, log, met)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Retention.MaxAgeHours > 0 {
		sw, err := newSweeper(cfg, log, met)
		if err != nil {
			return err
		}
		go sw.Run(ctx, cfg.RetentionInterval())
	}

	srv := &http.Server{
		Addr:              cfg.Server.Bind,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	log.Info("server starting",
		slog.String("bind", cfg.Server.Bind),
		slog.String("highlights_dir", cfg.Paths.HighlightsDir),
		slog.String("public_prefix", cfg.Paths.PublicPrefix),
		slog.String("log_level", cfg.Logging.Level),
	)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received, draining connections")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newSweeper(cfg *config.Config, log *slog.Logger, rec retention.Recorder) (*retention.Sweeper, error) {
	dirs := []string{cfg.Paths.DownloadsDir}
	if cfg.Retention.IncludeHighlights {
		dirs = append(dirs, cfg.Paths.HighlightsDir)
	}
	return retention.New(retention.Config{
		Dirs:     dirs,
		MaxAge:   cfg.RetentionMaxAge(),
		LockPath: cfg.RetentionLockPath(),
	}, log, rec)
}
