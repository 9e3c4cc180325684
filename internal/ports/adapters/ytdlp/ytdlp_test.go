package ytdlp

import (
	"context"
	"reflect"
	"testing"

	"github.com/forPelevin/hlgrab/internal/types"
)

func TestDownloadArgs(t *testing.T) {
	got := downloadArgs(types.DownloadRequest{
		URL:                 "https://www.youtube.com/watch?v=abc",
		OutputPath:          "/data/downloads/video_1.mp4",
		Format:              "mp4",
		NoCheckCertificates: true,
		NoWarnings:          true,
		PreferFreeFormats:   true,
		Referer:             "https://www.google.com/",
		UserAgent:           "Googlebot/2.1",
	})
	want := []string{
		"--no-playlist",
		"--no-progress",
		"-o", "/data/downloads/video_1.mp4",
		"--merge-output-format", "mp4",
		"--remux-video", "mp4",
		"--no-check-certificates",
		"--no-warnings",
		"--prefer-free-formats",
		"--add-header", "Referer:https://www.google.com/",
		"--add-header", "User-Agent:Googlebot/2.1",
		"--", "https://www.youtube.com/watch?v=abc",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestDownloadArgs_Minimal(t *testing.T) {
	got := downloadArgs(types.DownloadRequest{URL: "https://x.test/v", OutputPath: "out.mp4"})
	want := []string{"--no-playlist", "--no-progress", "-o", "out.mp4", "--", "https://x.test/v"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestDownload_RejectsEmptyRequest(t *testing.T) {
	a := New("")
	if err := a.Download(context.Background(), types.DownloadRequest{OutputPath: "x"}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if err := a.Download(context.Background(), types.DownloadRequest{URL: "https://x.test"}); err == nil {
		t.Fatalf("expected error for empty output")
	}
}

func TestLastError(t *testing.T) {
	log := "[youtube] abc: Downloading webpage\nWARNING: something\nERROR: [youtube] abc: Video unavailable\n"
	if got := lastError([]byte(log)); got != "ERROR: [youtube] abc: Video unavailable" {
		t.Fatalf("lastError = %q", got)
	}
	if got := lastError([]byte("plain failure\n")); got != "plain failure" {
		t.Fatalf("lastError = %q", got)
	}
}
