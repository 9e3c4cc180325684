package usecase

import "errors"

// Failure kinds. Every error returned by Run wraps exactly one of these.
var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrArtifactMissing   = errors.New("downloaded artifact missing")
	ErrProbeFailed       = errors.New("probe failed")
	ErrClipGeneration    = errors.New("clip generation failed")
)

// Kind returns a stable label for err, suitable for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSourceUnavailable):
		return "source_unavailable"
	case errors.Is(err, ErrArtifactMissing):
		return "artifact_missing"
	case errors.Is(err, ErrProbeFailed):
		return "probe_failed"
	case errors.Is(err, ErrClipGeneration):
		return "clip_generation"
	default:
		return "internal"
	}
}
