package ports

import (
	"context"

	"github.com/forPelevin/hlgrab/internal/types"
)

// Downloader fetches a remote video. The file it writes may not match
// req.OutputPath exactly when the tool negotiates a different extension.
type Downloader interface {
	Download(ctx context.Context, req types.DownloadRequest) error
}

type Prober interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
}

// Trimmer writes exactly one output file on success.
type Trimmer interface {
	Trim(ctx context.Context, req types.TrimRequest) error
}
