package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/forPelevin/hlgrab/internal/types"
)

type fakeDownloader struct {
	mu   sync.Mutex
	reqs []types.DownloadRequest
	// ext, when set, replaces the requested extension of the written file.
	ext     string
	noWrite bool
	err     error
}

func (f *fakeDownloader) Download(_ context.Context, req types.DownloadRequest) error {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if f.noWrite {
		return nil
	}
	out := req.OutputPath
	if f.ext != "" {
		out = out[:len(out)-len(filepath.Ext(out))] + f.ext
	}
	return os.WriteFile(out, []byte("video"), 0o644)
}

type fakeProber struct {
	mu    sync.Mutex
	info  types.MediaInfo
	err   error
	calls int
}

func (f *fakeProber) Probe(_ context.Context, _ string) (types.MediaInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.info, f.err
}

type fakeTrimmer struct {
	mu   sync.Mutex
	reqs []types.TrimRequest
	done []string

	// delay and failAt are keyed by the requested offset.
	delay  map[time.Duration]time.Duration
	failAt map[time.Duration]bool
	block  bool
}

func (f *fakeTrimmer) Trim(ctx context.Context, req types.TrimRequest) error {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	d := f.delay[req.Offset]
	fail := f.failAt[req.Offset]
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if fail {
		return errors.New("encoder exploded")
	}
	if err := os.WriteFile(req.OutputPath, []byte("clip"), 0o644); err != nil {
		return err
	}

	f.mu.Lock()
	f.done = append(f.done, req.OutputPath)
	f.mu.Unlock()
	return nil
}

func (f *fakeTrimmer) requests() []types.TrimRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.TrimRequest(nil), f.reqs...)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
