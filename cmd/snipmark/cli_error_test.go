package main

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/config"
)

func newTestRoot(t *testing.T) *root {
	t.Helper()
	return &root{program: "snipmark", config: config.New()}
}

func TestSnapshotRunCaptureError(t *testing.T) {
	original := captureScreenshotFn
	sentinel := errors.New("boom")
	captureScreenshotFn = func(string, capture.CaptureOptions) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureScreenshotFn = original })

	cmd := &snapshotCmd{mode: "screen", stdout: true, export: &exportFlags{shadowOffset: "0,0"}}
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestAnnotateRunCaptureError(t *testing.T) {
	original := captureScreenshotFn
	sentinel := errors.New("denied")
	captureScreenshotFn = func(string, capture.CaptureOptions) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureScreenshotFn = original })

	cmd := &annotateCmd{source: "screen", export: &exportFlags{shadowOffset: "0,0"}}
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected message context, got %v", err)
	}
}

func TestParseSnapshotRejectsStdoutWithClipboard(t *testing.T) {
	r := &root{program: "snipmark snapshot"}
	_, err := parseSnapshotCmd([]string{"-stdout", "-to-clipboard", "screen"}, r)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "-stdout cannot be used"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseSnapshotUnknownMode(t *testing.T) {
	r := &root{program: "snipmark snapshot"}
	_, err := parseSnapshotCmd([]string{"webcam"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseSnapshotPositionalSelector(t *testing.T) {
	r := &root{program: "snipmark snapshot"}
	cmd, err := parseSnapshotCmd([]string{"window", "title:Terminal"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.mode != "window" {
		t.Fatalf("mode = %q, want %q", cmd.mode, "window")
	}
	if cmd.window != "title:Terminal" {
		t.Fatalf("window selector = %q, want %q", cmd.window, "title:Terminal")
	}
}

func TestParseAnnotateFileRequiresPath(t *testing.T) {
	r := &root{program: "snipmark annotate"}
	_, err := parseAnnotateCmd([]string{"file"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}

	cmd, err := parseAnnotateCmd([]string{"file", "shot.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.file != "shot.png" {
		t.Fatalf("file = %q, want %q", cmd.file, "shot.png")
	}
}

func TestParseUploadDefaultsFromConfig(t *testing.T) {
	r := newTestRoot(t)
	r.config.Upload.URL = "https://paste.example.com/api"
	r.config.Upload.Field = "shot"
	cmd, err := parseUploadCmd([]string{"file", "out.png"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cmd.url != "https://paste.example.com/api" {
		t.Fatalf("url = %q", cmd.url)
	}
	if cmd.field != "shot" {
		t.Fatalf("field = %q", cmd.field)
	}
}

func TestParseRect(t *testing.T) {
	rect, err := parseRect("10, 20, 110, 90")
	if err != nil {
		t.Fatalf("parseRect returned error: %v", err)
	}
	if rect != image.Rect(10, 20, 110, 90) {
		t.Fatalf("rect = %v", rect)
	}
	if _, err := parseRect("1,2,3"); err == nil {
		t.Fatalf("expected error for short region")
	}
	if _, err := parseRect("5,5,5,5"); err == nil {
		t.Fatalf("expected error for empty region")
	}
}
