package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/forPelevin/hlgrab/internal/types"
)

// probeResult mirrors the parts of `ffprobe -of json` output we read.
type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
}

type probeFormat struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Probe runs ffprobe against path. A missing duration is not an error here:
// MediaInfo.DurationSeconds is 0 when absent and NaN when unparseable.
func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return types.MediaInfo{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-hide_banner",
		"-show_format",
		"-show_streams",
		"-of", "json",
		"--", path,
	)
	b, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return types.MediaInfo{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return types.MediaInfo{}, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbe(b)
}

func parseProbe(b []byte) (types.MediaInfo, error) {
	var r probeResult
	if err := json.Unmarshal(b, &r); err != nil {
		return types.MediaInfo{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	dur := parseFloat(r.Format.Duration)
	if dur == 0 {
		// Some containers only carry per-stream durations.
		for _, s := range r.Streams {
			if !strings.EqualFold(s.CodecType, "video") {
				continue
			}
			if d := parseFloat(s.Duration); d > 0 {
				dur = d
				break
			}
		}
	}

	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		size = 0
	}
	return types.MediaInfo{
		DurationSeconds: dur,
		FormatName:      r.Format.FormatName,
		SizeBytes:       int64(size),
	}, nil
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || strings.EqualFold(cleaned, "N/A") {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
