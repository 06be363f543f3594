package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/clipboard"
	"github.com/example/snipmark/internal/render"
)

type snapshotCmd struct {
	output             string
	stdout             bool
	toClipboard        bool
	mode               string
	display            string
	window             string
	region             string
	includeDecorations bool
	includeCursor      bool
	export             *exportFlags
	*root
	fs *flag.FlagSet
}

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := &snapshotCmd{root: r, fs: fs}
	fs.StringVar(&s.output, "output", "screenshot.png", "write the capture to this file path")
	fs.StringVar(&s.mode, "mode", "", "capture mode: screen, window, or region")
	fs.StringVar(&s.display, "display", "", "target display selector for screen captures")
	fs.StringVar(&s.window, "window", "", "target window selector for window captures")
	fs.StringVar(&s.region, "region", "", "capture rectangle x0,y0,x1,y1 when targeting a region")
	fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the capture to the clipboard")
	fs.BoolVar(&s.includeDecorations, "include-decorations", false, "request window decorations when capturing windows")
	fs.BoolVar(&s.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	s.export = addExportFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	operands := fs.Args()
	if strings.TrimSpace(s.mode) == "" {
		if len(operands) == 0 {
			return nil, usageError(r.program, "[flags] screen|window|region [selector]", fs)
		}
		s.mode = strings.ToLower(strings.TrimSpace(operands[0]))
		operands = operands[1:]
	} else {
		s.mode = strings.ToLower(strings.TrimSpace(s.mode))
	}
	switch s.mode {
	case "screen", "window", "region":
	default:
		return nil, usageError(r.program, "[flags] screen|window|region [selector]", fs)
	}
	if len(operands) > 0 {
		arg := strings.TrimSpace(strings.Join(operands, " "))
		switch s.mode {
		case "screen":
			if s.display == "" {
				s.display = arg
			}
		case "window":
			if s.window == "" {
				s.window = arg
			}
		case "region":
			if s.region == "" {
				s.region = arg
			}
		}
	}
	return s, nil
}

func (s *snapshotCmd) captureOptions() capture.CaptureOptions {
	return capture.CaptureOptions{
		IncludeCursor:      s.includeCursor,
		IncludeDecorations: s.includeDecorations,
	}
}

func (s *snapshotCmd) capture() (*image.RGBA, error) {
	opts := s.captureOptions()
	switch s.mode {
	case "screen":
		return captureScreenshotFn(s.display, opts)
	case "window":
		img, _, err := captureWindowFn(s.window, opts)
		return img, err
	case "region":
		if strings.TrimSpace(s.region) == "" {
			return captureRegionFn(opts)
		}
		rect, err := parseRect(s.region)
		if err != nil {
			return nil, err
		}
		return captureRegionRectFn(rect, opts)
	}
	return nil, fmt.Errorf("unknown capture mode %q", s.mode)
}

func (s *snapshotCmd) describeCapture() string {
	switch s.mode {
	case "screen":
		if s.display != "" {
			return fmt.Sprintf("screen %s", s.display)
		}
		return "screen"
	case "window":
		if s.window != "" {
			return fmt.Sprintf("window %s", s.window)
		}
		return "window"
	case "region":
		if s.region != "" {
			return fmt.Sprintf("region %s", s.region)
		}
		return "region"
	}
	return s.mode
}

func (s *snapshotCmd) Run() error {
	img, err := s.capture()
	if err != nil {
		return fmt.Errorf("failed to capture %s: %w", s.mode, err)
	}
	exportOpts, decorate, err := s.export.options()
	if err != nil {
		return err
	}
	if decorate {
		img, _ = render.Decorate(img, exportOpts)
	}
	if s.root != nil {
		s.root.notifyCapture(s.describeCapture(), img)
	}
	if s.toClipboard {
		if err := clipboard.WriteImage(img); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := s.describeCapture()
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		if s.root != nil {
			s.root.notifyCopy(detail)
		}
		return nil
	}
	var w io.Writer
	if s.stdout {
		w = os.Stdout
	} else {
		f, err := os.Create(s.output)
		if err != nil {
			return fmt.Errorf("create output %q: %w", s.output, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Printf("close %s: %v", s.output, cerr)
			}
		}()
		w = f
	}
	if err := png.Encode(w, img); err != nil {
		if s.stdout {
			return fmt.Errorf("write PNG to stdout: %w", err)
		}
		return fmt.Errorf("write PNG to %q: %w", s.output, err)
	}
	if s.stdout {
		fmt.Fprintln(os.Stderr, "wrote PNG data to stdout")
		return nil
	}
	saved := s.output
	if abs, err := filepath.Abs(s.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if s.root != nil {
		s.root.notifySave(saved)
	}
	return nil
}
