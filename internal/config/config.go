// Package config loads and writes the snipmark settings file. The format is
// a flat rc file: root keys, then [sections] with key = value pairs. Unknown
// keys are ignored so newer files keep working with older binaries.
package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/snipmark/internal/element"
)

// Notify holds notification settings.
type Notify struct {
	Capture bool
	Save    bool
	Copy    bool
}

// Snap holds snapping settings.
type Snap struct {
	Grid      bool
	GridSize  int
	Tolerance int
}

// Upload holds upload destination settings.
type Upload struct {
	URL   string
	Field string
}

// Config holds the application configuration.
type Config struct {
	DefaultTool     string
	SaveDir         string
	HistoryCapacity int
	OCRLanguage     string
	Theme           string
	Notify          Notify
	Snap            Snap
	Upload          Upload
	// Styles maps tool names to style overrides applied when that tool is
	// picked.
	Styles map[string]element.Style
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		DefaultTool:     "select",
		HistoryCapacity: 100,
		OCRLanguage:     "eng",
		Snap: Snap{
			Grid:      false,
			GridSize:  16,
			Tolerance: 6,
		},
		Upload: Upload{Field: "file"},
		Styles: make(map[string]element.Style),
	}
}

// StyleFor returns the configured style for a tool name, falling back to the
// built-in default adapted to the element kind.
func (c *Config) StyleFor(tool string) element.Style {
	if st, ok := c.Styles[tool]; ok {
		return st
	}
	st := element.DefaultStyle()
	if kind, ok := element.KindFromName(tool); ok {
		st = st.ForKind(kind)
	}
	return st
}

// String implements fmt.Stringer and returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.DefaultTool != "" {
		fmt.Fprintf(&sb, "default_tool = %s\n", c.DefaultTool)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.HistoryCapacity > 0 {
		fmt.Fprintf(&sb, "history_capacity = %d\n", c.HistoryCapacity)
	}
	if c.OCRLanguage != "" {
		fmt.Fprintf(&sb, "ocr_language = %s\n", c.OCRLanguage)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "capture = %v\n", c.Notify.Capture)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[snap]\n")
	fmt.Fprintf(&sb, "grid = %v\n", c.Snap.Grid)
	fmt.Fprintf(&sb, "grid_size = %d\n", c.Snap.GridSize)
	fmt.Fprintf(&sb, "tolerance = %d\n", c.Snap.Tolerance)
	sb.WriteString("\n")

	if c.Upload.URL != "" {
		sb.WriteString("[upload]\n")
		fmt.Fprintf(&sb, "url = %s\n", c.Upload.URL)
		fmt.Fprintf(&sb, "field = %s\n", c.Upload.Field)
		sb.WriteString("\n")
	}

	var tools []string
	for name := range c.Styles {
		tools = append(tools, name)
	}
	sort.Strings(tools)
	for _, name := range tools {
		st := c.Styles[name]
		fmt.Fprintf(&sb, "[style.%s]\n", name)
		fmt.Fprintf(&sb, "stroke = %s\n", toHex(st.Stroke))
		if st.HasFill {
			fmt.Fprintf(&sb, "fill = %s\n", toHex(st.Fill))
		}
		fmt.Fprintf(&sb, "stroke_width = %g\n", st.StrokeWidth)
		fmt.Fprintf(&sb, "opacity = %g\n", st.Opacity)
		if st.FontSize > 0 {
			fmt.Fprintf(&sb, "font_size = %g\n", st.FontSize)
		}
		if st.BlurRadius > 0 {
			fmt.Fprintf(&sb, "blur_radius = %d\n", st.BlurRadius)
		}
		if st.PixelSize > 0 {
			fmt.Fprintf(&sb, "pixel_size = %d\n", st.PixelSize)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
