// Package notify raises desktop notifications for capture, save and copy
// events, with per-event opt-in and environment overrides for the texts.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/snipmark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventCapture fires when a capture completes.
	EventCapture Event = "capture"
	// EventSave fires when an image is persisted to disk.
	EventSave Event = "save"
	// EventCopy fires when data lands on the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "SnipMark",
		Events: map[Event]EventPreference{
			EventCapture: {Template: "Captured %s"},
			EventSave:    {Template: "Saved %s"},
			EventCopy:    {Template: "Copied %s to clipboard"},
		},
	}
}

var templateEnvVars = map[Event]string{
	EventCapture: "SNIPMARK_NOTIFY_CAPTURE_TEXT",
	EventSave:    "SNIPMARK_NOTIFY_SAVE_TEXT",
	EventCopy:    "SNIPMARK_NOTIFY_COPY_TEXT",
}

// LoadPreferences reads notification settings from environment variables,
// falling back to the defaults for anything unset.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("SNIPMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range templateEnvVars {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Notifier sends OS-level notifications based on the configured preferences.
// Every event starts disabled; callers opt in with Enable. A nil Notifier
// drops everything.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a Notifier using a copy of the provided preferences.
func New(prefs Preferences) *Notifier {
	events := make(map[Event]EventPreference, len(prefs.Events))
	for k, v := range prefs.Events {
		events[k] = v
	}
	return &Notifier{
		prefs:   Preferences{Title: prefs.Title, Events: events},
		enabled: make(map[Event]bool),
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Capture sends a capture notification with an optional image preview.
func (n *Notifier) Capture(detail string, img image.Image) {
	if !n.enabledFor(EventCapture) {
		return
	}
	var opts platform.Options
	if img != nil {
		path, cleanup, err := writePreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCapture, detail, opts)
}

// Save sends a save notification naming the written file.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	var opts platform.Options
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := platform.Notify(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

// writePreview saves the image to a temp PNG the notification daemon can
// load; cleanup removes it after the notify call returns.
func writePreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "snipmark-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
