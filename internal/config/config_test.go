package config

import (
	"image/color"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultTool != "select" {
		t.Errorf("DefaultTool = %q, want select", cfg.DefaultTool)
	}
	if cfg.HistoryCapacity != 100 {
		t.Errorf("HistoryCapacity = %d, want 100", cfg.HistoryCapacity)
	}
	if cfg.Snap.Tolerance != 6 || cfg.Snap.GridSize != 16 || cfg.Snap.Grid {
		t.Errorf("Snap = %+v", cfg.Snap)
	}
}

func TestParseFull(t *testing.T) {
	input := `
# comment
default_tool = arrow
save_dir = /tmp/shots
history_capacity = 50
ocr_language = deu

[notify]
capture = true
save = false
copy = true

[snap]
grid = true
grid_size = 8
tolerance = 4

[upload]
url = https://example.com/up
field = image

[style.arrow]
stroke = #00FF00
stroke_width = 3.5
opacity = 0.9

[style.highlighter]
stroke = #FFFF0080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultTool != "arrow" {
		t.Errorf("DefaultTool = %q", cfg.DefaultTool)
	}
	if cfg.SaveDir != "/tmp/shots" {
		t.Errorf("SaveDir = %q", cfg.SaveDir)
	}
	if cfg.HistoryCapacity != 50 {
		t.Errorf("HistoryCapacity = %d", cfg.HistoryCapacity)
	}
	if cfg.OCRLanguage != "deu" {
		t.Errorf("OCRLanguage = %q", cfg.OCRLanguage)
	}
	if !cfg.Notify.Capture || cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Notify = %+v", cfg.Notify)
	}
	if !cfg.Snap.Grid || cfg.Snap.GridSize != 8 || cfg.Snap.Tolerance != 4 {
		t.Errorf("Snap = %+v", cfg.Snap)
	}
	if cfg.Upload.URL != "https://example.com/up" || cfg.Upload.Field != "image" {
		t.Errorf("Upload = %+v", cfg.Upload)
	}

	arrow := cfg.StyleFor("arrow")
	if arrow.Stroke != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("arrow stroke = %+v", arrow.Stroke)
	}
	if arrow.StrokeWidth != 3.5 || arrow.Opacity != 0.9 {
		t.Errorf("arrow style = %+v", arrow)
	}

	hl := cfg.StyleFor("highlighter")
	if hl.Stroke != (color.RGBA{255, 255, 0, 128}) {
		t.Errorf("highlighter stroke = %+v", hl.Stroke)
	}
	// Unset keys keep the kind's defaults.
	if hl.Opacity != 0.35 {
		t.Errorf("highlighter opacity = %v, want the kind default", hl.Opacity)
	}
}

func TestParseBadValues(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad bool", "[notify]\ncapture = maybe\n"},
		{"bad int", "history_capacity = lots\n"},
		{"bad color", "[style.arrow]\nstroke = red\n"},
		{"short hex", "[style.arrow]\nstroke = #F00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	cfg := New()
	cfg.DefaultTool = "rectangle"
	cfg.SaveDir = "/home/u/shots"
	cfg.Notify.Save = true
	cfg.Snap.Grid = true
	cfg.Upload.URL = "https://example.com/up"
	st := cfg.StyleFor("rectangle")
	st.Stroke = color.RGBA{10, 20, 30, 255}
	st.StrokeWidth = 5
	cfg.Styles["rectangle"] = st

	parsed, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatal(err)
	}
	if parsed.DefaultTool != cfg.DefaultTool || parsed.SaveDir != cfg.SaveDir {
		t.Errorf("root fields lost: %+v", parsed)
	}
	if parsed.Notify != cfg.Notify {
		t.Errorf("notify lost: %+v", parsed.Notify)
	}
	if parsed.Snap != cfg.Snap {
		t.Errorf("snap lost: %+v", parsed.Snap)
	}
	got := parsed.StyleFor("rectangle")
	if got.Stroke != st.Stroke || got.StrokeWidth != st.StrokeWidth {
		t.Errorf("style lost: %+v", got)
	}
}

func TestUnknownKeysIgnored(t *testing.T) {
	input := "future_knob = 12\n[notify]\nshout = true\n"
	if _, err := Parse(strings.NewReader(input)); err != nil {
		t.Fatalf("unknown keys should be ignored: %v", err)
	}
}
