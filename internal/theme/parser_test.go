package theme

import (
	"image/color"
	"strings"
	"testing"
)

func TestParseOverridesFields(t *testing.T) {
	src := strings.NewReader(`
Name: midnight
# a comment
Backdrop: #101020
Accent: #ff8800cc
Unknown: #ffffff
`)
	th, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if th.Name != "midnight" {
		t.Fatalf("Name = %q", th.Name)
	}
	if th.Backdrop != (color.RGBA{16, 16, 32, 255}) {
		t.Fatalf("Backdrop = %v", th.Backdrop)
	}
	if th.Accent != (color.RGBA{255, 136, 0, 204}) {
		t.Fatalf("Accent = %v", th.Accent)
	}
	if th.Toolbar != Default().Toolbar {
		t.Fatalf("unset field should keep the default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Backdrop: #12")); err == nil {
		t.Fatalf("expected error for short hex value")
	}
}

func TestBuiltinLookup(t *testing.T) {
	for _, name := range []string{"", "default", "light", "high_contrast"} {
		if _, ok := Builtin(name); !ok {
			t.Fatalf("expected builtin theme for %q", name)
		}
	}
	if _, ok := Builtin("hotdog"); ok {
		t.Fatalf("did not expect a builtin theme for hotdog")
	}
}
