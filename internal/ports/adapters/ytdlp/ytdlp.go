package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/forPelevin/hlgrab/internal/types"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

func (a *Adapter) Download(ctx context.Context, req types.DownloadRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return errors.New("yt-dlp download: empty url")
	}
	if req.OutputPath == "" {
		return errors.New("yt-dlp download: empty output path")
	}

	cmd := exec.CommandContext(ctx, a.bin, downloadArgs(req)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("yt-dlp download: %w\n%s", err, lastError(b))
	}
	return nil
}

func downloadArgs(req types.DownloadRequest) []string {
	args := []string{
		"--no-playlist",
		"--no-progress",
		"-o", req.OutputPath,
	}
	if req.Format != "" {
		args = append(args,
			"--merge-output-format", req.Format,
			"--remux-video", req.Format,
		)
	}
	if req.NoCheckCertificates {
		args = append(args, "--no-check-certificates")
	}
	if req.NoWarnings {
		args = append(args, "--no-warnings")
	}
	if req.PreferFreeFormats {
		args = append(args, "--prefer-free-formats")
	}
	if req.Referer != "" {
		args = append(args, "--add-header", "Referer:"+req.Referer)
	}
	if req.UserAgent != "" {
		args = append(args, "--add-header", "User-Agent:"+req.UserAgent)
	}
	// "--" keeps a URL starting with "-" from being read as a flag.
	return append(args, "--", req.URL)
}

// CheckTool reports whether the yt-dlp binary can be found.
func (a *Adapter) CheckTool() error {
	if _, err := exec.LookPath(a.bin); err != nil {
		return fmt.Errorf("%s: %w", a.bin, err)
	}
	return nil
}

// lastError prefers yt-dlp's "ERROR:" lines over the whole log.
func lastError(b []byte) string {
	out := strings.TrimSpace(string(b))
	var errs []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "ERROR:") {
			errs = append(errs, strings.TrimSpace(line))
		}
	}
	if len(errs) > 0 {
		return strings.Join(errs, "\n")
	}
	return out
}
