package notify

import "testing"

func TestLoadPreferencesEnvOverrides(t *testing.T) {
	t.Setenv("SNIPMARK_NOTIFY_TITLE", "Shots")
	t.Setenv("SNIPMARK_NOTIFY_SAVE_TEXT", "Wrote %s")
	t.Setenv("SNIPMARK_NOTIFY_CAPTURE_TEXT", "")

	prefs := LoadPreferences()
	if prefs.Title != "Shots" {
		t.Fatalf("Title = %q, want %q", prefs.Title, "Shots")
	}
	if got := prefs.Events[EventSave].Template; got != "Wrote %s" {
		t.Fatalf("save template = %q, want %q", got, "Wrote %s")
	}
	if got := prefs.Events[EventCapture].Template; got != "Captured %s" {
		t.Fatalf("capture template = %q, want default", got)
	}
}

func TestNotifierDisabledByDefault(t *testing.T) {
	n := New(DefaultPreferences())
	for _, event := range []Event{EventCapture, EventSave, EventCopy} {
		if n.enabledFor(event) {
			t.Fatalf("event %s enabled without opt-in", event)
		}
	}
	n.Enable(EventCopy, true)
	if !n.enabledFor(EventCopy) {
		t.Fatalf("expected copy event enabled")
	}
	if n.enabledFor(EventSave) {
		t.Fatalf("enabling copy should not enable save")
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Enable(EventCapture, true)
	n.Capture("screen", nil)
	n.Save("/tmp/out.png")
	n.Copy("image")
}
