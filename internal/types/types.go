package types

import "time"

// MediaInfo is the subset of probe output the pipeline relies on.
// DurationSeconds is 0 when the container reports no duration and NaN when
// the reported value could not be parsed.
type MediaInfo struct {
	DurationSeconds float64
	FormatName      string
	SizeBytes       int64
}

type DownloadRequest struct {
	URL        string
	OutputPath string
	Format     string

	NoCheckCertificates bool
	NoWarnings          bool
	PreferFreeFormats   bool

	Referer   string
	UserAgent string
}

type TrimRequest struct {
	InputPath  string
	Offset     time.Duration
	Duration   time.Duration
	OutputPath string
}

// ClipSpec is one planned cut: where to seek and how much to keep.
type ClipSpec struct {
	Index    int
	Ratio    float64
	Offset   time.Duration
	Duration time.Duration
}

type ClipArtifact struct {
	Index      int
	Offset     time.Duration
	Duration   time.Duration
	LocalPath  string
	PublicPath string
	Stamp      int64
}

type Result struct {
	Source          string
	SourcePath      string
	DurationSeconds float64
	Clips           []ClipArtifact
}

// ClipPaths returns the public paths in ordinal order.
func (r Result) ClipPaths() []string {
	out := make([]string, 0, len(r.Clips))
	for _, c := range r.Clips {
		out = append(out, c.PublicPath)
	}
	return out
}
