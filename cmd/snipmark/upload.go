package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/upload"
)

// uploadCmd posts a capture or an image file to the configured endpoint.
type uploadCmd struct {
	source  string
	file    string
	display string
	window  string
	region  string
	url     string
	field   string
	*root
	fs *flag.FlagSet
}

const uploadUsage = "[flags] screen|window|region|file"

func parseUploadCmd(args []string, r *root) (*uploadCmd, error) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	u := &uploadCmd{root: r, fs: fs}
	var url, field string
	if r != nil && r.config != nil {
		url = r.config.Upload.URL
		field = r.config.Upload.Field
	}
	fs.StringVar(&u.file, "file", "", "image file to post when the source is file")
	fs.StringVar(&u.display, "display", "", "target display selector for screen captures")
	fs.StringVar(&u.window, "window", "", "target window selector for window captures")
	fs.StringVar(&u.region, "region", "", "capture rectangle x0,y0,x1,y1 when targeting a region")
	fs.StringVar(&u.url, "url", url, "upload endpoint URL")
	fs.StringVar(&u.field, "field", field, "multipart form field name the server expects")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, usageError(r.program, uploadUsage, fs)
	}
	u.source = strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	switch u.source {
	case "screen", "window", "region", "file":
	default:
		return nil, usageError(r.program, uploadUsage, fs)
	}
	if u.source == "file" && u.file == "" {
		if fs.NArg() > 1 {
			u.file = fs.Arg(1)
		} else {
			return nil, usageError(r.program, uploadUsage, fs)
		}
	}
	return u, nil
}

func (u *uploadCmd) acquire() (*image.RGBA, error) {
	opts := capture.CaptureOptions{}
	switch u.source {
	case "screen":
		return captureScreenshotFn(u.display, opts)
	case "window":
		img, _, err := captureWindowFn(u.window, opts)
		return img, err
	case "region":
		if strings.TrimSpace(u.region) == "" {
			return captureRegionFn(opts)
		}
		rect, err := parseRect(u.region)
		if err != nil {
			return nil, err
		}
		return captureRegionRectFn(rect, opts)
	case "file":
		return loadImageFile(u.file)
	}
	return nil, fmt.Errorf("unknown source %q", u.source)
}

func (u *uploadCmd) Run() error {
	img, err := u.acquire()
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", u.source, err)
	}
	client, err := upload.New(u.url, u.field)
	if err != nil {
		return err
	}
	filename := "snipmark.png"
	if u.file != "" {
		filename = filepath.Base(u.file)
	}
	res, err := client.UploadImage(context.Background(), img, filename)
	if err != nil {
		return err
	}
	if res.Location != "" {
		fmt.Println(res.Location)
	} else {
		fmt.Printf("uploaded (status %d)\n", res.Status)
	}
	return nil
}
