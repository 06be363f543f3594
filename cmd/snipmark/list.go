package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/snipmark/internal/capture"
	"github.com/example/snipmark/internal/theme"
)

// listCmd enumerates capture targets and available themes.
type listCmd struct {
	target string
	*root
	fs *flag.FlagSet
}

const listUsage = "windows|monitors|themes"

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	c := &listCmd{root: r, fs: fs}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, usageError(r.program, listUsage, fs)
	}
	c.target = strings.ToLower(strings.TrimSpace(fs.Arg(0)))
	switch c.target {
	case "windows", "monitors", "themes":
	default:
		return nil, usageError(r.program, listUsage, fs)
	}
	return c, nil
}

func (c *listCmd) Run() error {
	switch c.target {
	case "windows":
		return c.listWindows()
	case "monitors":
		return c.listMonitors()
	case "themes":
		return c.listThemes()
	}
	return fmt.Errorf("unknown list target %q", c.target)
}

func (c *listCmd) listWindows() error {
	windows, err := capture.ListWindows()
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		fmt.Fprintln(os.Stdout, "no windows available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available windows (* marks the active window):")
	for _, win := range windows {
		marker := " "
		if win.Active {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", marker, windowLabel(win))
	}
	fmt.Fprintln(os.Stdout, "selectors: index:<n>, id:<hex>, pid:<pid>, exec:<name>, class:<name>, title:<text>, substring match")
	return nil
}

func windowLabel(win capture.WindowInfo) string {
	parts := []string{fmt.Sprintf("%2d: 0x%08x", win.Index, win.ID)}
	if win.Executable != "" {
		parts = append(parts, win.Executable)
	} else if win.Class != "" {
		parts = append(parts, win.Class)
	}
	if win.Title != "" {
		parts = append(parts, fmt.Sprintf("%q", win.Title))
	}
	parts = append(parts, fmt.Sprintf("%dx%d", win.Rect.Dx(), win.Rect.Dy()))
	return strings.Join(parts, " ")
}

func (c *listCmd) listMonitors() error {
	monitors, err := capture.ListMonitors()
	if err != nil {
		return err
	}
	if len(monitors) == 0 {
		fmt.Fprintln(os.Stdout, "no monitors available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "available monitors (* marks the primary monitor):")
	for _, mon := range monitors {
		marker := " "
		if mon.Primary {
			marker = "*"
		}
		name := mon.Name
		if name == "" {
			name = fmt.Sprintf("monitor-%d", mon.Index)
		}
		fmt.Fprintf(os.Stdout, "%s %2d: %-12s %dx%d+%d+%d\n", marker, mon.Index, name,
			mon.Rect.Dx(), mon.Rect.Dy(), mon.Rect.Min.X, mon.Rect.Min.Y)
	}
	fmt.Fprintln(os.Stdout, "selectors: index:<n>, name:<output>, primary")
	return nil
}

func (c *listCmd) listThemes() error {
	fmt.Fprintln(os.Stdout, "built-in themes:")
	for _, name := range theme.BuiltinNames() {
		fmt.Fprintf(os.Stdout, "  %s\n", name)
	}
	loader := theme.NewLoader()
	for _, dir := range []string{loader.ConfigDir, loader.SystemDir} {
		names, err := theme.ListDir(dir)
		if err != nil || len(names) == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "themes in %s:\n", dir)
		for _, name := range names {
			fmt.Fprintf(os.Stdout, "  %s\n", name)
		}
	}
	return nil
}
