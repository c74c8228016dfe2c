package tray

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTitles(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"capturing", toggleTitle(true), "● Capturing"},
		{"stopped", toggleTitle(false), "○ Stopped"},
		{"hand visible", handTitle(true), "Hand: visible"},
		{"hand not visible", handTitle(false), "Hand: not visible"},
		{"no error", errorTitle(""), "Error: none"},
		{"short error", errorTitle("camera lost"), "Error: camera lost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestErrorTitle_Truncates(t *testing.T) {
	title := errorTitle(strings.Repeat("x", 200))

	if n := utf8.RuneCountInString(title); n != maxErrorTitle {
		t.Errorf("title has %d runes, want %d", n, maxErrorTitle)
	}
	if !strings.HasSuffix(title, "…") {
		t.Errorf("truncated title should end with an ellipsis, got %q", title)
	}
}

// The setters only touch menu items once the tray is ready, so they can be
// exercised without a running systray.
func TestTray_StateBeforeReady(t *testing.T) {
	tr := New()

	if tr.IsRunning() {
		t.Error("new tray should show capture stopped")
	}

	tr.SetRunning(true)
	tr.SetHandVisible(true)
	tr.SetError(errors.New("hand detection failed"))

	if !tr.IsRunning() {
		t.Error("expected running after SetRunning(true)")
	}
	if !tr.HandVisible() {
		t.Error("expected hand visible after SetHandVisible(true)")
	}
	if tr.LastError() != "hand detection failed" {
		t.Errorf("LastError() = %q", tr.LastError())
	}

	tr.SetError(nil)
	if tr.LastError() != "" {
		t.Errorf("SetError(nil) should clear the error, got %q", tr.LastError())
	}
}

func TestTray_ToggleStartsAndStops(t *testing.T) {
	tr := New()

	var calls []bool
	tr.OnToggle(func(start bool) error {
		calls = append(calls, start)
		return nil
	})

	tr.handleToggle()
	if !tr.IsRunning() {
		t.Fatal("first toggle should start capture")
	}

	tr.handleToggle()
	if tr.IsRunning() {
		t.Fatal("second toggle should stop capture")
	}

	if len(calls) != 2 || !calls[0] || calls[1] {
		t.Errorf("unexpected toggle calls %v", calls)
	}
}

func TestTray_ToggleStartFailure(t *testing.T) {
	tr := New()
	tr.OnToggle(func(start bool) error {
		return errors.New("could not find a camera device")
	})

	tr.handleToggle()

	if tr.IsRunning() {
		t.Error("failed start should leave capture stopped")
	}
	if tr.LastError() != "could not find a camera device" {
		t.Errorf("LastError() = %q", tr.LastError())
	}
}

func TestTray_Preview(t *testing.T) {
	tr := New()
	opened := false
	tr.OnPreview(func() { opened = true })

	tr.handlePreview()

	if !opened {
		t.Error("preview callback should be called")
	}
}
