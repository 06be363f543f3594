//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	tests := []struct {
		name        string
		interactive bool
		opts        CaptureOptions
		want        map[string]interface{}
	}{
		{
			name: "defaults",
			want: map[string]interface{}{
				"interactive":        false,
				"modal":              false,
				"cursor_mode":        "hidden",
				"restore_window":     false,
				"include-decoration": false,
				"handle_token":       "test-token",
			},
		},
		{
			name:        "cursor and decorations",
			interactive: true,
			opts:        CaptureOptions{IncludeCursor: true, IncludeDecorations: true},
			want: map[string]interface{}{
				"interactive":        true,
				"modal":              true,
				"cursor_mode":        "embedded",
				"restore_window":     true,
				"include-decoration": true,
				"handle_token":       "test-token",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalScreenshotOptions(tc.interactive, tc.opts)
			got := make(map[string]interface{}, len(values))
			for key, variant := range values {
				got[key] = variant.Value()
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("portal options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
