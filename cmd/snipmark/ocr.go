package main

import (
	"flag"
	"fmt"
	"image"
	"strings"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/ocr"
)

// ocrCmd extracts text from a capture or an image file.
type ocrCmd struct {
	source  string
	file    string
	display string
	window  string
	region  string
	lang    string
	words   bool
	*root
	fs *flag.FlagSet
}

const ocrUsage = "[flags] screen|window|region|file"

func parseOCRCmd(args []string, r *root) (*ocrCmd, error) {
	fs := flag.NewFlagSet("ocr", flag.ExitOnError)
	o := &ocrCmd{root: r, fs: fs}
	lang := "eng"
	if r != nil && r.config != nil && r.config.OCRLanguage != "" {
		lang = r.config.OCRLanguage
	}
	fs.StringVar(&o.file, "file", "", "image file to read when the source is file")
	fs.StringVar(&o.display, "display", "", "target display selector for screen captures")
	fs.StringVar(&o.window, "window", "", "target window selector for window captures")
	fs.StringVar(&o.region, "region", "", "capture rectangle x0,y0,x1,y1 when targeting a region")
	fs.StringVar(&o.lang, "lang", lang, "tesseract language to recognize")
	fs.BoolVar(&o.words, "words", false, "print word-level results with bounding boxes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, usageError(r.program, ocrUsage, fs)
	}
	o.source = strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	switch o.source {
	case "screen", "window", "region", "file":
	default:
		return nil, usageError(r.program, ocrUsage, fs)
	}
	if o.source == "file" && o.file == "" {
		if fs.NArg() > 1 {
			o.file = fs.Arg(1)
		} else {
			return nil, usageError(r.program, ocrUsage, fs)
		}
	}
	return o, nil
}

func (o *ocrCmd) acquire() (*image.RGBA, error) {
	opts := capture.CaptureOptions{}
	switch o.source {
	case "screen":
		return captureScreenshotFn(o.display, opts)
	case "window":
		img, _, err := captureWindowFn(o.window, opts)
		return img, err
	case "region":
		if strings.TrimSpace(o.region) == "" {
			return captureRegionFn(opts)
		}
		rect, err := parseRect(o.region)
		if err != nil {
			return nil, err
		}
		return captureRegionRectFn(rect, opts)
	case "file":
		return loadImageFile(o.file)
	}
	return nil, fmt.Errorf("unknown source %q", o.source)
}

func (o *ocrCmd) Run() error {
	img, err := o.acquire()
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", o.source, err)
	}
	engine, err := ocr.NewEngine(o.lang)
	if err != nil {
		return err
	}
	defer engine.Close()

	if o.words {
		words, err := engine.Words(img)
		if err != nil {
			return err
		}
		for _, w := range words {
			fmt.Printf("%d,%d,%d,%d\t%.0f\t%s\n",
				w.Bounds.Min.X, w.Bounds.Min.Y, w.Bounds.Max.X, w.Bounds.Max.Y,
				w.Confidence, w.Text)
		}
		return nil
	}
	text, err := engine.Recognize(img)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
