package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/forPelevin/hlgrab/internal/types"
)

const (
	outputAuto  = "auto"
	outputJSON  = "json"
	outputTable = "table"
)

func validateOutput(format string) error {
	switch format {
	case outputAuto, outputJSON, outputTable:
		return nil
	default:
		return fmt.Errorf("invalid --output %q (want json, table or auto)", format)
	}
}

func writeResult(w io.Writer, format string, res types.Result) error {
	if format == outputAuto {
		format = outputJSON
		if isTerminal(w) {
			format = outputTable
		}
	}

	if format == outputTable {
		_, err := fmt.Fprintln(w, renderClips(res))
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		ClipPaths []string `json:"clipPaths"`
	}{ClipPaths: res.ClipPaths()})
}

func renderClips(res types.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Offset", "Length", "Path"})
	for _, c := range res.Clips {
		tw.AppendRow(table.Row{
			strconv.Itoa(c.Index),
			fmt.Sprintf("%.1fs", c.Offset.Seconds()),
			fmt.Sprintf("%.1fs", c.Duration.Seconds()),
			c.PublicPath,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	if res.DurationSeconds > 0 {
		tw.SetCaption("source %.1fs: %s", res.DurationSeconds, res.SourcePath)
	}
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
