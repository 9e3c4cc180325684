package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hlgrab/internal/platform/logger"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove downloads (and optionally clips) older than retention.max_age_hours",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Retention.MaxAgeHours <= 0 {
				return errors.New("retention is disabled (set retention.max_age_hours or HLGRAB_RETENTION_HOURS)")
			}

			log := logger.NewTo(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			sw, err := newSweeper(cfg, log, nil)
			if err != nil {
				return err
			}
			rep, err := sw.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			if rep.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "another sweep is running; skipped")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d files\n", len(rep.Removed), rep.Scanned)
			return nil
		},
	}
}
