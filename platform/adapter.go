// Package platform is the seam between the core engine and the operating
// system: the Adapter interface a real window backend implements, a headless
// adapter for tests and development, process liveness probes, and a raw-mode
// terminal key source.
package platform

import (
	"dwin-go/core"
)

// Adapter performs OS-level window operations on behalf of the core. The
// core never calls an adapter directly; the manager applies Effects through
// one, strictly in order: hide, show, raise, frame changes, launch.
type Adapter interface {
	// HideApp hides all windows of a process.
	HideApp(pid int) error

	// ShowApp reveals all windows of a process.
	ShowApp(pid int) error

	// RaiseApp brings a process's windows to the front. Call order is
	// stacking order: the last raised pid ends up on top.
	RaiseApp(pid int) error

	// SetFrame moves/resizes a process's main window.
	SetFrame(pid int, frame core.Rect) error

	// LaunchBundle starts an application by bundle identifier.
	LaunchBundle(bundleID string) error

	// VisibleScreenRect returns the screen area available for layout.
	VisibleScreenRect() core.Rect

	// FocusedPid returns the pid of the currently focused application,
	// 0 when none.
	FocusedPid() int
}
