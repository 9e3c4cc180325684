package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/hlgrab/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Trim cuts req.Duration of req.InputPath starting at req.Offset. When the
// input ends earlier ffmpeg stops there and the clip is shorter.
func (a *Adapter) Trim(ctx context.Context, req types.TrimRequest) error {
	if req.InputPath == "" || req.OutputPath == "" {
		return errors.New("ffmpeg trim: input and output paths are required")
	}
	if req.Duration <= 0 {
		return fmt.Errorf("ffmpeg trim: duration must be > 0, got %s", req.Duration)
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg, trimArgs(req)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg trim: %w\n%s", err, tail(b))
	}
	info, err := os.Stat(req.OutputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg trim: output not written: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("ffmpeg trim: empty output %s", req.OutputPath)
	}
	return nil
}

func trimArgs(req types.TrimRequest) []string {
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", fmtSeconds(offset),
		"-i", req.InputPath,
		"-t", fmtSeconds(req.Duration),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		req.OutputPath,
	}
}

// CheckTools reports which configured binaries cannot be found.
func (a *Adapter) CheckTools() []error {
	var errs []error
	for _, bin := range []string{a.ffmpeg, a.ffprobe} {
		if _, err := exec.LookPath(bin); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", bin, err))
		}
	}
	return errs
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// tail keeps the last lines of tool output; ffmpeg puts the reason last.
func tail(b []byte) string {
	const maxLines = 20
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return strings.Join(lines, "\n")
}
