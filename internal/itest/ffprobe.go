//go:build integration

package itest

import (
	"context"
	"fmt"

	"github.com/forPelevin/hlgrab/internal/ports/adapters/ffmpeg"
)

// probeDurationSeconds reads the container duration through the same
// adapter the extractor uses.
func probeDurationSeconds(path string) (float64, error) {
	info, err := ffmpeg.New("", "").Probe(context.Background(), path)
	if err != nil {
		return 0, err
	}
	if info.DurationSeconds <= 0 {
		return 0, fmt.Errorf("no duration for %s", path)
	}
	return info.DurationSeconds, nil
}
