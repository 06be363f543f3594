package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/render"
)

// Capture entry points are indirected so tests can run without a desktop.
var (
	captureScreenshotFn = capture.CaptureScreenshot
	captureWindowFn     = capture.CaptureWindowDetailed
	captureRegionFn     = capture.CaptureRegion
	captureRegionRectFn = capture.CaptureRegionRect
)

func parseRect(val string) (image.Rectangle, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid region %q", val)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid region %q", val)
		}
		nums[i] = v
	}
	rect := image.Rect(nums[0], nums[1], nums[2], nums[3])
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %q is empty", val)
	}
	return rect, nil
}

func parseOffset(val string) (image.Point, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid offset %q", val)
	}
	dx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid offset %q", val)
	}
	dy, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid offset %q", val)
	}
	return image.Pt(dx, dy), nil
}

func formatOffset(p image.Point) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func loadImageFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	dec, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(dec.Bounds())
	draw.Draw(rgba, rgba.Bounds(), dec, dec.Bounds().Min, draw.Src)
	return rgba, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %q: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("write PNG to %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

// exportFlags groups the image decoration flags shared by snapshot and
// annotate.
type exportFlags struct {
	shadow        bool
	shadowRadius  int
	shadowOffset  string
	shadowOpacity float64
	borderWidth   int
	cornerRadius  int
}

func addExportFlags(fs *flag.FlagSet) *exportFlags {
	defaults := render.DefaultExportOptions()
	e := &exportFlags{}
	fs.BoolVar(&e.shadow, "shadow", false, "apply a drop shadow to the output image")
	fs.IntVar(&e.shadowRadius, "shadow-radius", defaults.ShadowRadius, "drop shadow blur radius in pixels")
	fs.StringVar(&e.shadowOffset, "shadow-offset", formatOffset(defaults.ShadowOffset), "drop shadow offset as dx,dy")
	fs.Float64Var(&e.shadowOpacity, "shadow-opacity", defaults.ShadowOpacity, "drop shadow opacity between 0 and 1")
	fs.IntVar(&e.borderWidth, "border", 0, "frame the output with a border of this width")
	fs.IntVar(&e.cornerRadius, "corner-radius", 0, "round the output corners by this radius")
	return e
}

// options resolves the flags; active is false when no decoration was asked
// for and the image can be written untouched.
func (e *exportFlags) options() (render.ExportOptions, bool, error) {
	opts := render.DefaultExportOptions()
	opts.Shadow = e.shadow
	opts.ShadowRadius = e.shadowRadius
	opts.ShadowOpacity = e.shadowOpacity
	opts.BorderWidth = e.borderWidth
	opts.CornerRadius = e.cornerRadius
	pt, err := parseOffset(e.shadowOffset)
	if err != nil {
		return render.ExportOptions{}, false, err
	}
	opts.ShadowOffset = pt
	active := e.shadow || e.borderWidth > 0 || e.cornerRadius > 0
	return opts, active, nil
}
