package main

import (
	"errors"
	"image"
	"testing"

	"github.com/example/snipmark/internal/capture"
)

func TestParseListTargets(t *testing.T) {
	r := newTestRoot(t)
	for _, target := range []string{"windows", "monitors", "themes"} {
		cmd, err := parseListCmd([]string{target}, r)
		if err != nil {
			t.Fatalf("parse %q: %v", target, err)
		}
		if cmd.target != target {
			t.Errorf("target = %q, want %q", cmd.target, target)
		}
	}
}

func TestParseListRejectsUnknownTarget(t *testing.T) {
	r := newTestRoot(t)
	_, err := parseListCmd([]string{"printers"}, r)
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want usage error", err)
	}
}

func TestWindowLabel(t *testing.T) {
	win := capture.WindowInfo{
		Index:      3,
		ID:         0x2a00007,
		Executable: "firefox",
		Title:      "Home",
		Rect:       image.Rect(0, 0, 1280, 720),
	}
	got := windowLabel(win)
	want := ` 3: 0x02a00007 firefox "Home" 1280x720`
	if got != want {
		t.Errorf("windowLabel = %q, want %q", got, want)
	}
}
