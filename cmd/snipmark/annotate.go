package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/clipboard"
	"github.com/example/snipmark/internal/config"
	"github.com/example/snipmark/internal/geom"
	"github.com/example/snipmark/internal/render"
	"github.com/example/snipmark/internal/session"
	"github.com/example/snipmark/internal/theme"
	"github.com/example/snipmark/internal/ui"
)

// annotateCmd captures or loads an image and opens the editor over it.
type annotateCmd struct {
	source  string
	file    string
	output  string
	display string
	window  string
	region  string
	tool    string
	theme   string
	export  *exportFlags
	*root
	fs *flag.FlagSet
}

const annotateUsage = "[flags] screen|window|region|file|clipboard"

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.StringVar(&a.file, "file", "", "image file to annotate when the source is file")
	fs.StringVar(&a.output, "output", "annotated.png", "output file path for saves")
	fs.StringVar(&a.display, "display", "", "target display selector for screen captures")
	fs.StringVar(&a.window, "window", "", "target window selector for window captures")
	fs.StringVar(&a.region, "region", "", "capture rectangle x0,y0,x1,y1 when targeting a region")
	fs.StringVar(&a.tool, "tool", "", "tool active when the editor opens")
	themeDefault := ""
	if r != nil && r.config != nil {
		themeDefault = r.config.Theme
	}
	fs.StringVar(&a.theme, "theme", themeDefault, "editor theme name or theme file path")
	a.export = addExportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, usageError(r.program, annotateUsage, fs)
	}
	a.source = strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	switch a.source {
	case "screen", "window", "region", "file", "clipboard":
	default:
		return nil, usageError(r.program, annotateUsage, fs)
	}
	if a.source == "file" && a.file == "" {
		if fs.NArg() > 1 {
			a.file = fs.Arg(1)
		} else {
			return nil, usageError(r.program, annotateUsage, fs)
		}
	}
	return a, nil
}

func (a *annotateCmd) acquire() (*image.RGBA, error) {
	opts := capture.CaptureOptions{}
	switch a.source {
	case "screen":
		return captureScreenshotFn(a.display, opts)
	case "window":
		img, _, err := captureWindowFn(a.window, opts)
		return img, err
	case "region":
		if strings.TrimSpace(a.region) == "" {
			return captureRegionFn(opts)
		}
		rect, err := parseRect(a.region)
		if err != nil {
			return nil, err
		}
		return captureRegionRectFn(rect, opts)
	case "file":
		return loadImageFile(a.file)
	case "clipboard":
		img, err := clipboard.ReadImage()
		if err != nil {
			return nil, err
		}
		rgba := image.NewRGBA(img.Bounds())
		for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
			for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
				rgba.Set(x-img.Bounds().Min.X, y-img.Bounds().Min.Y, img.At(x, y))
			}
		}
		return rgba, nil
	}
	return nil, fmt.Errorf("unknown source %q", a.source)
}

func (a *annotateCmd) Run() error {
	img, err := a.acquire()
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", a.source, err)
	}
	if a.root != nil && a.source != "file" && a.source != "clipboard" {
		a.root.notifyCapture(a.source, img)
	}

	cfg := a.rootConfig()
	if a.tool != "" {
		cfg.DefaultTool = a.tool
	}
	doc := geom.Rect{W: float64(img.Bounds().Dx()), H: float64(img.Bounds().Dy())}
	sess := session.New(doc,
		session.WithConfig(cfg),
		session.WithRenderer(render.New(img)),
	)

	opts := []ui.Option{
		ui.WithOutput(a.output),
		ui.WithTheme(a.loadTheme()),
		ui.WithOnSave(func(path string) { a.notifySave(path) }),
		ui.WithOnCopy(func(detail string) { a.notifyCopy(detail) }),
	}
	exportOpts, decorate, err := a.export.options()
	if err != nil {
		return err
	}
	if decorate {
		opts = append(opts, ui.WithExportOptions(exportOpts))
	}
	editor := ui.New(sess, opts...)
	editor.Run()
	return nil
}

func (a *annotateCmd) loadTheme() *theme.Theme {
	if a.theme == "" {
		return theme.Default()
	}
	th, err := theme.NewLoader().Load(a.theme)
	if err != nil {
		log.Printf("warning: theme %q: %v", a.theme, err)
		return theme.Default()
	}
	return th
}

func (a *annotateCmd) rootConfig() *config.Config {
	if a.root != nil && a.root.config != nil {
		return a.root.config
	}
	return config.New()
}
