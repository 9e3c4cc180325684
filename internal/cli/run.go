package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlgrab/internal/pipeline"
	"github.com/forPelevin/hlgrab/internal/platform/logger"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Fetch a video and print the paths of its three highlight clips",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0])
		},
	}
	cmd.Flags().String("output", outputAuto, "Output format: json, table or auto")
	return cmd
}

func runExtract(cmd *cobra.Command, sourceURL string) error {
	format, _ := cmd.Flags().GetString("output")
	if err := validateOutput(format); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// stdout carries the result only.
	log := logger.NewTo(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(cfg, log)
	if err := p.Prepare(); err != nil {
		return fmt.Errorf("prepare dirs: %w", err)
	}

	res, err := p.ExtractHighlights(ctx, sourceURL)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), format, res)
}
