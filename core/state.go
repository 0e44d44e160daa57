package core

import (
	"fmt"

	cerrors "dwin-go/errors"
)

// State is the full mutable state of the window manager. A single value
// carries everything; transitions happen through the registry mutators and
// the action processor. The caller is responsible for serializing access
// (typically by dispatching all calls onto one event-loop goroutine).
type State struct {
	// Registry tracks all known apps.
	Registry AppRegistry `json:"registry"`

	// Buffers is the per-workspace state.
	Buffers [BufferCount]Buffer `json:"buffers"`

	// ActiveBuffer is the index of the visible buffer, or -1 before the
	// first switch.
	ActiveBuffer int `json:"active_buffer"`

	// PassthroughMode disables every hotkey except the passthrough toggle
	// when set.
	PassthroughMode bool `json:"passthrough_mode"`
}

// NewState returns an initialized state: empty registry, no buffer ever
// activated, passthrough off.
func NewState() *State {
	return &State{ActiveBuffer: -1}
}

// RegisterApp adds an app to the registry and returns its dense index.
func (s *State) RegisterApp(pid int, bundleID string) (int, error) {
	return s.Registry.Register(pid, bundleID)
}

// UnregisterApp removes an app. Absent pids are a no-op.
func (s *State) UnregisterApp(pid int) {
	s.Registry.Unregister(pid)
}

// FindApp returns the app with the given pid, or nil.
func (s *State) FindApp(pid int) *App {
	return s.Registry.Find(pid)
}

// FindAppIndex returns the dense index for a pid, or -1.
func (s *State) FindAppIndex(pid int) int {
	return s.Registry.FindIndex(pid)
}

// AssignToBuffer sets an app's buffer. -1 unassigns.
func (s *State) AssignToBuffer(pid, bufferIndex int) {
	s.Registry.AssignToBuffer(pid, bufferIndex)
}

// SetFloating marks an app floating or tiled.
func (s *State) SetFloating(pid int, floating bool) {
	s.Registry.SetFloating(pid, floating)
}

// BufferPids returns the pids assigned to a buffer in registration order.
func (s *State) BufferPids(bufferIndex int) []int {
	return s.Registry.BufferPids(bufferIndex, nil)
}

// SetFocused records that an app was focused in its buffer. The app must
// exist and be assigned to a buffer; any other case is a no-op.
func (s *State) SetFocused(pid int) {
	app := s.Registry.Find(pid)
	if app == nil || app.BufferIndex < 0 {
		return
	}
	s.Buffers[app.BufferIndex].LastFocusedPid = pid
}

// lastFocused returns the buffer's last focused pid, repairing a stale entry
// (exited app, or app since moved elsewhere) to 0 on the way.
func (s *State) lastFocused(bufferIndex int) int {
	pid := s.Buffers[bufferIndex].LastFocusedPid
	if pid == 0 {
		return 0
	}
	app := s.Registry.Find(pid)
	if app == nil || app.BufferIndex != bufferIndex {
		s.Buffers[bufferIndex].LastFocusedPid = 0
		return 0
	}
	return pid
}

// CheckInvariants verifies internal consistency and returns a descriptive
// error on the first violation. Intended for debug builds and tests; no
// violation is expected from any valid call sequence.
func (s *State) CheckInvariants() error {
	reg := &s.Registry

	// every registered app resolves to its own slot through the pid index
	for i := 0; i < reg.Count(); i++ {
		app := &reg.apps[i]
		if app.Pid == 0 {
			return cerrors.WrapWithDetail(cerrors.ErrInvariant, cerrors.ErrInternal, "check",
				fmt.Sprintf("slot %d holds zero pid", i))
		}
		if got := reg.pidMapSearch(app.Pid); got != i {
			return cerrors.WrapWithDetail(cerrors.ErrInvariant, cerrors.ErrInternal, "check",
				fmt.Sprintf("pid %d resolves to %d, stored at %d", app.Pid, got, i))
		}
		if app.BufferIndex < -1 || app.BufferIndex >= BufferCount {
			return cerrors.WrapWithDetail(cerrors.ErrInvariant, cerrors.ErrInternal, "check",
				fmt.Sprintf("pid %d has buffer index %d", app.Pid, app.BufferIndex))
		}
	}

	// every non-empty index entry points at a live slot holding its pid
	for slot, e := range reg.pidMap {
		if e.pid == 0 {
			continue
		}
		if int(e.appIndex) >= reg.Count() || reg.apps[e.appIndex].Pid != e.pid {
			return cerrors.WrapWithDetail(cerrors.ErrInvariant, cerrors.ErrInternal, "check",
				fmt.Sprintf("index slot %d maps pid %d to dead entry %d", slot, e.pid, e.appIndex))
		}
	}

	if s.ActiveBuffer < -1 || s.ActiveBuffer >= BufferCount {
		return cerrors.WrapWithDetail(cerrors.ErrInvariant, cerrors.ErrInternal, "check",
			fmt.Sprintf("active buffer %d out of range", s.ActiveBuffer))
	}

	// last-focused entries are not checked: a stale pid (exited app, app
	// since moved elsewhere) is legal and repaired lazily on read

	return nil
}
