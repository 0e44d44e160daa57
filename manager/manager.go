// Package manager composes the core engine with a platform adapter: it
// registers apps as the platform reports them, auto-assigns them by rule,
// resolves hotkeys to actions, and applies the resulting effects in order.
package manager

import (
	"context"

	"dwin-go/core"
	cerrors "dwin-go/errors"
	"dwin-go/logging"
	"dwin-go/platform"
)

// Manager owns the window manager state and drives it from platform events.
// All methods must be called from a single goroutine; the core requires
// exclusive access for the duration of each call.
type Manager struct {
	// State is the engine state. Exposed for inspection; mutate only
	// through Manager methods.
	State *core.State

	// Config supplies gaps, rules, and bindings.
	Config *core.Config

	adapter   platform.Adapter
	processor core.Processor

	// Debug runs the invariant checker after every mutation.
	Debug bool
}

// New creates a manager over an adapter with the given config.
func New(cfg *core.Config, adapter platform.Adapter) *Manager {
	return &Manager{
		State:   core.NewState(),
		Config:  cfg,
		adapter: adapter,
		processor: core.Processor{
			Config: cfg,
			Screen: adapter.VisibleScreenRect(),
		},
	}
}

// HandleAppLaunched registers a newly reported process. A matching rule
// assigns it to the rule's buffer; otherwise it joins the active buffer.
// Apps landing on a hidden buffer are hidden immediately; apps landing on
// the visible buffer trigger a retile.
func (m *Manager) HandleAppLaunched(ctx context.Context, pid int, bundleID string) error {
	if _, err := m.State.RegisterApp(pid, bundleID); err != nil {
		return err
	}

	buffer := m.Config.MatchRule(bundleID)
	if buffer < 0 {
		buffer = m.State.ActiveBuffer
	}
	if buffer >= 0 {
		m.State.AssignToBuffer(pid, buffer)
	}

	logging.InfoContext(ctx, "app registered", "pid", pid, "bundle_id", bundleID, "buffer", buffer)

	if buffer >= 0 && buffer != m.State.ActiveBuffer {
		if err := m.adapter.HideApp(pid); err != nil {
			return cerrors.WrapWithPid(err, cerrors.ErrPlatform, "hide", pid)
		}
	} else if buffer >= 0 {
		if err := m.Retile(buffer); err != nil {
			return err
		}
	}

	return m.checkInvariants()
}

// HandleAppTerminated drops an exited process and retiles the active buffer
// if the app was visible.
func (m *Manager) HandleAppTerminated(ctx context.Context, pid int) error {
	app := m.State.FindApp(pid)
	if app == nil {
		return nil
	}
	wasVisible := app.BufferIndex >= 0 && app.BufferIndex == m.State.ActiveBuffer

	m.State.UnregisterApp(pid)
	logging.InfoContext(ctx, "app unregistered", "pid", pid)

	if wasVisible {
		if err := m.Retile(m.State.ActiveBuffer); err != nil {
			return err
		}
	}
	return m.checkInvariants()
}

// HandleFocusChange records an OS focus change.
func (m *Manager) HandleFocusChange(pid int) {
	m.State.SetFocused(pid)
}

// HandleKey resolves a keystroke against the bindings and processes the
// matched action. Returns true when a binding fired. While passthrough mode
// is on, every binding except the passthrough toggle is dropped so
// keystrokes reach applications unfiltered.
func (m *Manager) HandleKey(ctx context.Context, modifiers, keycode int) (bool, error) {
	action, found := m.Config.MatchBinding(modifiers, keycode)
	if !found {
		return false, nil
	}

	if m.State.PassthroughMode && action.Type != core.ActionTogglePassthrough {
		logging.DebugContext(ctx, "binding dropped in passthrough", "action", action.Type.String())
		return false, nil
	}

	// app-targeted actions act on whatever the OS says is focused
	switch {
	case action.Type == core.ActionMoveBuffer,
		action.Type == core.ActionToggleFloating,
		action.Type.IsSnap():
		action.TargetPid = m.adapter.FocusedPid()
	}

	return true, m.Dispatch(ctx, action)
}

// Dispatch processes one action and applies its effects. Validation
// failures (switching to the active buffer, unknown pid, out-of-range
// buffer) are logged and swallowed: they are expected outcomes of hotkey
// mashing, not faults.
func (m *Manager) Dispatch(ctx context.Context, action core.Action) error {
	eff, err := m.processor.Process(m.State, action)
	if err != nil {
		if cerrors.IsKind(err, cerrors.ErrInternal) || cerrors.IsKind(err, cerrors.ErrPlatform) {
			return err
		}
		logging.DebugContext(ctx, "action rejected", "action", action.Type.String(), "error", err)
		return nil
	}

	logging.DebugContext(ctx, "action processed", "action", action.Type.String(),
		"hide", len(eff.ToHide), "show", len(eff.ToShow), "raise", len(eff.ToRaise))

	if err := m.ApplyEffects(eff); err != nil {
		return err
	}
	return m.checkInvariants()
}

// ApplyEffects performs the adapter contract: hide, show, raise, frame
// changes, launch, then the requested layout pass. Raise order is preserved.
func (m *Manager) ApplyEffects(eff *core.Effects) error {
	for _, pid := range eff.ToHide {
		if err := m.adapter.HideApp(pid); err != nil {
			return cerrors.WrapWithPid(err, cerrors.ErrPlatform, "hide", pid)
		}
	}
	for _, pid := range eff.ToShow {
		if err := m.adapter.ShowApp(pid); err != nil {
			return cerrors.WrapWithPid(err, cerrors.ErrPlatform, "show", pid)
		}
	}
	for _, pid := range eff.ToRaise {
		if err := m.adapter.RaiseApp(pid); err != nil {
			return cerrors.WrapWithPid(err, cerrors.ErrPlatform, "raise", pid)
		}
	}
	for _, fc := range eff.FrameChanges {
		if err := m.adapter.SetFrame(fc.Pid, fc.Frame); err != nil {
			return cerrors.WrapWithPid(err, cerrors.ErrPlatform, "set frame", fc.Pid)
		}
	}
	if eff.LaunchBundle != "" {
		if err := m.adapter.LaunchBundle(eff.LaunchBundle); err != nil {
			return cerrors.WrapWithDetail(err, cerrors.ErrPlatform, "launch", eff.LaunchBundle)
		}
	}

	if eff.NeedsLayout {
		return m.Retile(eff.LayoutBuffer)
	}
	return nil
}

// Retile recomputes the dwindle layout for a buffer and applies the frames.
func (m *Manager) Retile(buffer int) error {
	frames := core.ComputeDwindle(m.State, buffer, m.Config, m.adapter.VisibleScreenRect())
	for _, fc := range frames {
		// unmanaged apps are tracked but never resized
		if app := m.State.FindApp(fc.Pid); app != nil && !app.IsManaged {
			continue
		}
		if err := m.adapter.SetFrame(fc.Pid, fc.Frame); err != nil {
			return cerrors.WrapWithPid(err, cerrors.ErrPlatform, "set frame", fc.Pid)
		}
	}
	return nil
}

// PruneDead unregisters every tracked app whose process has exited.
// Returns the number of apps dropped.
func (m *Manager) PruneDead(ctx context.Context) (int, error) {
	var dead []int
	for i := 0; i < m.State.Registry.Count(); i++ {
		pid := m.State.Registry.AppAt(i).Pid
		if !platform.ProcessAlive(pid) {
			dead = append(dead, pid)
		}
	}

	for _, pid := range dead {
		if err := m.HandleAppTerminated(ctx, pid); err != nil {
			return 0, err
		}
	}
	return len(dead), nil
}

// checkInvariants runs the debug consistency check when enabled.
func (m *Manager) checkInvariants() error {
	if !m.Debug {
		return nil
	}
	return m.State.CheckInvariants()
}
