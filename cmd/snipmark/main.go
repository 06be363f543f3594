package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/snipmark/internal/config"
	"github.com/example/snipmark/internal/notify"
)

var (
	version            = "dev"
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs            *flag.FlagSet
	program       string
	notifier      *notify.Notifier
	config        *config.Config
	captureAlerts bool
	saveAlerts    bool
	copyAlerts    bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) subcommand(name string) *root {
	program := strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &root{
		program:       program,
		notifier:      r.notifier,
		config:        r.config,
		captureAlerts: r.captureAlerts,
		saveAlerts:    r.saveAlerts,
		copyAlerts:    r.copyAlerts,
	}
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("snipmark", flag.ExitOnError),
		program:  "snipmark",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.captureAlerts, "notify-capture", cfg.Notify.Capture, "show a desktop notification after capturing a screenshot")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.Usage = func() { fmt.Fprint(os.Stderr, rootUsage(r)) }
	return r
}

func rootUsage(r *root) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "usage: %s [flags] <command> [args]\n\n", r.program)
	sb.WriteString("commands:\n")
	sb.WriteString("  annotate   capture or open an image and edit it interactively\n")
	sb.WriteString("  snapshot   capture a screenshot without opening the editor\n")
	sb.WriteString("  ocr        extract text from a capture or image file\n")
	sb.WriteString("  upload     post an image to the configured upload endpoint\n")
	sb.WriteString("  list       enumerate windows, monitors or themes\n")
	sb.WriteString("  config     print or save the active configuration\n")
	sb.WriteString("  version    print the program version\n\n")
	sb.WriteString("flags:\n")
	r.fs.VisitAll(func(f *flag.Flag) {
		fmt.Fprintf(&sb, "  -%s (default %q)\n      %s\n", f.Name, f.DefValue, f.Usage)
	})
	return sb.String()
}

// UsageError carries rendered usage text back to main without an exit status.
type UsageError struct {
	usage string
}

func (e *UsageError) Error() string { return e.usage }

func usageError(program, text string, fs *flag.FlagSet) *UsageError {
	var sb strings.Builder
	fmt.Fprintf(&sb, "usage: %s %s\n", program, text)
	if fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(&sb, "  -%s (default %q)\n      %s\n", f.Name, f.DefValue, f.Usage)
		})
	}
	return &UsageError{usage: sb.String()}
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{usage: rootUsage(r)}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventCapture, r.captureAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "annotate":
		cmd, err = parseAnnotateCmd(subArgs, r.subcommand("annotate"))
	case "snapshot":
		cmd, err = parseSnapshotCmd(subArgs, r.subcommand("snapshot"))
	case "ocr":
		cmd, err = parseOCRCmd(subArgs, r.subcommand("ocr"))
	case "upload":
		cmd, err = parseUploadCmd(subArgs, r.subcommand("upload"))
	case "list":
		cmd, err = parseListCmd(subArgs, r.subcommand("list"))
	case "config":
		cmd, err = parseConfigCmd(subArgs, r.subcommand("config"))
	case "version":
		cmd = &versionCmd{r: r}
	case "help":
		return &UsageError{usage: rootUsage(r)}
	default:
		err = &UsageError{usage: rootUsage(r)}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (r *root) notifyCapture(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Capture(detail, img)
}

func (r *root) notifySave(path string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Save(path)
}

func (r *root) notifyCopy(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Copy(detail)
}
