package core

import (
	cerrors "dwin-go/errors"
)

// ActionType enumerates everything the manager can be asked to do.
type ActionType int

const (
	ActionNone ActionType = iota

	// buffer actions
	ActionSwitchBuffer
	ActionMoveBuffer

	// snapping - float a window to a position on the screen
	ActionSnapLeft
	ActionSnapRight
	ActionSnapTop
	ActionSnapBottom
	ActionSnapMaximize
	ActionSnapCenter
	ActionSnapTopLeft
	ActionSnapTopRight
	ActionSnapBottomLeft
	ActionSnapBottomRight

	// re-run dwindle layout on the active buffer
	ActionRetile

	ActionTogglePassthrough
	ActionToggleFloating

	// launch app by bundle ID
	ActionLaunchBundle
)

// actionNames indexed by ActionType.
var actionNames = map[ActionType]string{
	ActionNone:              "none",
	ActionSwitchBuffer:      "switch_buffer",
	ActionMoveBuffer:        "move_buffer",
	ActionSnapLeft:          "snap_left",
	ActionSnapRight:         "snap_right",
	ActionSnapTop:           "snap_top",
	ActionSnapBottom:        "snap_bottom",
	ActionSnapMaximize:      "snap_maximize",
	ActionSnapCenter:        "snap_center",
	ActionSnapTopLeft:       "snap_top_left",
	ActionSnapTopRight:      "snap_top_right",
	ActionSnapBottomLeft:    "snap_bottom_left",
	ActionSnapBottomRight:   "snap_bottom_right",
	ActionRetile:            "retile",
	ActionTogglePassthrough: "toggle_passthrough",
	ActionToggleFloating:    "toggle_floating",
	ActionLaunchBundle:      "launch_bundle",
}

// String returns the action's config-file name.
func (t ActionType) String() string {
	if name, ok := actionNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseActionType resolves a config-file action name. Returns ActionNone and
// false for unknown names.
func ParseActionType(name string) (ActionType, bool) {
	for t, n := range actionNames {
		if n == name {
			return t, true
		}
	}
	return ActionNone, false
}

// IsSnap reports whether the action is one of the ten snap placements.
func (t ActionType) IsSnap() bool {
	return t >= ActionSnapLeft && t <= ActionSnapBottomRight
}

// Action is one request to the processor.
type Action struct {
	Type ActionType `json:"type"`

	// TargetBuffer is the buffer argument for the buffer actions.
	TargetBuffer int `json:"target_buffer,omitempty"`

	// TargetPid is the app argument for app-specific actions (move, snap,
	// toggle floating).
	TargetPid int `json:"target_pid,omitempty"`

	// BundleID is the launch target for ActionLaunchBundle.
	BundleID string `json:"bundle_id,omitempty"`
}

// Processor turns actions into state mutations and effects. Screen is the
// visible screen rect used for snap frames; Config supplies gaps.
type Processor struct {
	Config *Config
	Screen Rect
}

// Process dispatches one action. On success the returned effects describe
// what the adapter must apply; on failure the state is unchanged and the
// effects are empty. Actions are total: no input corrupts state.
func (p *Processor) Process(state *State, action Action) (*Effects, error) {
	eff := NewEffects()

	switch {
	case action.Type == ActionSwitchBuffer:
		return eff, SwitchBuffer(state, action.TargetBuffer, eff)

	case action.Type == ActionMoveBuffer:
		return eff, p.moveBuffer(state, action.TargetPid, action.TargetBuffer, eff)

	case action.Type.IsSnap():
		return eff, p.snap(state, action.Type, action.TargetPid, eff)

	case action.Type == ActionRetile:
		if state.ActiveBuffer < 0 {
			return eff, cerrors.ErrNoActiveBuffer
		}
		eff.NeedsLayout = true
		eff.LayoutBuffer = state.ActiveBuffer
		return eff, nil

	case action.Type == ActionTogglePassthrough:
		state.PassthroughMode = !state.PassthroughMode
		return eff, nil

	case action.Type == ActionToggleFloating:
		app := state.FindApp(action.TargetPid)
		if app == nil {
			return eff, cerrors.WrapWithPid(cerrors.ErrAppNotFound, cerrors.ErrNotFound, "toggle floating", action.TargetPid)
		}
		app.IsFloating = !app.IsFloating
		if app.BufferIndex >= 0 {
			eff.NeedsLayout = true
			eff.LayoutBuffer = app.BufferIndex
		}
		return eff, nil

	case action.Type == ActionLaunchBundle:
		if action.BundleID == "" {
			return eff, cerrors.ErrEmptyBundle
		}
		eff.LaunchBundle = action.BundleID
		return eff, nil

	default:
		return eff, cerrors.ErrNoAction
	}
}

// SwitchBuffer activates a buffer: shows the incoming members, hides the
// outgoing ones, raises the buffer's last focused app (or its first member),
// and requests a layout pass. Switching to the already-active buffer fails
// and leaves the effects empty.
func SwitchBuffer(state *State, target int, eff *Effects) error {
	if target < 0 || target >= BufferCount {
		return cerrors.ErrBufferOutOfRange
	}
	if target == state.ActiveBuffer {
		return cerrors.ErrSameBuffer
	}

	old := state.ActiveBuffer

	targetPids := state.BufferPids(target)
	for _, pid := range targetPids {
		eff.AddShow(pid)
	}
	if old >= 0 {
		for _, pid := range state.BufferPids(old) {
			eff.AddHide(pid)
		}
	}

	if pid := state.lastFocused(target); pid != 0 {
		eff.AddRaise(pid)
	} else if len(targetPids) > 0 {
		eff.AddRaise(targetPids[0])
	}

	eff.NeedsLayout = true
	eff.LayoutBuffer = target

	state.ActiveBuffer = target
	return nil
}

// moveBuffer reassigns an app and follows it: moving into the active buffer
// shows and raises in place; moving elsewhere switches there, with the moved
// app raised last so it ends up on top.
func (p *Processor) moveBuffer(state *State, pid, target int, eff *Effects) error {
	app := state.FindApp(pid)
	if app == nil {
		return cerrors.WrapWithPid(cerrors.ErrAppNotFound, cerrors.ErrNotFound, "move buffer", pid)
	}
	if target < 0 || target >= BufferCount {
		return cerrors.ErrBufferOutOfRange
	}
	if app.BufferIndex == target {
		return cerrors.ErrSameBuffer
	}

	app.BufferIndex = target

	if target == state.ActiveBuffer {
		eff.AddShow(pid)
		eff.AddRaise(pid)
		eff.NeedsLayout = true
		eff.LayoutBuffer = target
		return nil
	}

	if err := SwitchBuffer(state, target, eff); err != nil {
		return err
	}
	// raised last: the adapter raises in list order, so the moved app
	// lands on top
	eff.AddRaise(pid)
	return nil
}

// snap marks the app floating and emits its snap frame. The app's buffer is
// retiled when visible so the remaining tiled windows reclaim the space.
func (p *Processor) snap(state *State, snapAction ActionType, pid int, eff *Effects) error {
	app := state.FindApp(pid)
	if app == nil {
		return cerrors.WrapWithPid(cerrors.ErrAppNotFound, cerrors.ErrNotFound, "snap", pid)
	}

	app.IsFloating = true
	eff.AddFrame(pid, ComputeSnap(snapAction, p.Screen, p.Config))
	eff.AddRaise(pid)

	if app.BufferIndex >= 0 && app.BufferIndex == state.ActiveBuffer {
		eff.NeedsLayout = true
		eff.LayoutBuffer = app.BufferIndex
	}
	return nil
}
