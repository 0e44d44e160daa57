package platform

import (
	"fmt"
	"sync"

	"dwin-go/core"
	"dwin-go/logging"
)

// Headless is an Adapter that performs no OS work. It records every call in
// order, which makes it the reference backend for tests and for driving the
// manager on machines without a supported windowing system.
type Headless struct {
	mu sync.Mutex

	screen  core.Rect
	focused int
	ops     []string
}

// NewHeadless returns a headless adapter reporting the given screen rect.
func NewHeadless(screen core.Rect) *Headless {
	return &Headless{screen: screen}
}

// record appends one operation to the log.
func (h *Headless) record(format string, args ...any) {
	h.mu.Lock()
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
	h.mu.Unlock()
}

// Ops returns a copy of the recorded operations in call order.
func (h *Headless) Ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.ops))
	copy(out, h.ops)
	return out
}

// Reset clears the recorded operations.
func (h *Headless) Reset() {
	h.mu.Lock()
	h.ops = nil
	h.mu.Unlock()
}

// SetFocused sets the pid reported by FocusedPid.
func (h *Headless) SetFocused(pid int) {
	h.mu.Lock()
	h.focused = pid
	h.mu.Unlock()
}

// HideApp records a hide.
func (h *Headless) HideApp(pid int) error {
	h.record("hide %d", pid)
	logging.Debug("headless hide", "pid", pid)
	return nil
}

// ShowApp records a show.
func (h *Headless) ShowApp(pid int) error {
	h.record("show %d", pid)
	logging.Debug("headless show", "pid", pid)
	return nil
}

// RaiseApp records a raise.
func (h *Headless) RaiseApp(pid int) error {
	h.record("raise %d", pid)
	logging.Debug("headless raise", "pid", pid)
	return nil
}

// SetFrame records a frame change.
func (h *Headless) SetFrame(pid int, frame core.Rect) error {
	h.record("frame %d (%g,%g %gx%g)", pid, frame.X, frame.Y, frame.Width, frame.Height)
	logging.Debug("headless frame", "pid", pid,
		"x", frame.X, "y", frame.Y, "width", frame.Width, "height", frame.Height)
	return nil
}

// LaunchBundle records a launch.
func (h *Headless) LaunchBundle(bundleID string) error {
	h.record("launch %s", bundleID)
	logging.Debug("headless launch", "bundle_id", bundleID)
	return nil
}

// VisibleScreenRect returns the configured screen rect.
func (h *Headless) VisibleScreenRect() core.Rect {
	return h.screen
}

// FocusedPid returns the pid set by SetFocused.
func (h *Headless) FocusedPid() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}
