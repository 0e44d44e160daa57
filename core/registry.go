package core

import (
	"encoding/json"

	cerrors "dwin-go/errors"
)

// Limits. These are wire-visible constants; adapters may rely on them.
const (
	// BufferCount is the fixed number of workspaces.
	BufferCount = 5

	// MaxApps is the maximum number of tracked applications.
	MaxApps = 128

	// PidMapSize is the size of the open-addressed pid index.
	// Twice MaxApps, so the table never fills.
	PidMapSize = 256

	// BundleIDMax is the maximum stored bundle identifier length in bytes,
	// including the terminator slot of the original wire format.
	BundleIDMax = 128
)

// App is a tracked application.
type App struct {
	// Pid is the non-zero OS process identifier, unique within the registry.
	Pid int `json:"pid"`

	// BundleID is the application's reverse-DNS bundle identifier,
	// e.g. com.spotify.client. Stored truncated to BundleIDMax-1 bytes.
	BundleID string `json:"bundle_id"`

	// BufferIndex is -1 when unassigned, otherwise 0..BufferCount-1.
	BufferIndex int `json:"buffer_index"`

	// IsManaged is false when the manager should ignore the app in layout
	// while still tracking it.
	IsManaged bool `json:"is_managed"`

	// IsFloating excludes the app from dwindle tiling; floating apps are
	// placed by snap regions.
	IsFloating bool `json:"is_floating"`
}

// pidMapEntry is a slot in the open-addressed pid index. pid == 0 means empty.
type pidMapEntry struct {
	pid      int
	appIndex int16
}

// AppRegistry tracks all apps and provides O(1) pid lookup without
// allocation: a dense array of apps plus an open-addressed hash index.
// Hash is pid mod PidMapSize; collisions resolve by linear probing.
type AppRegistry struct {
	apps     [MaxApps]App
	appCount int16
	pidMap   [PidMapSize]pidMapEntry
}

// Count returns the number of registered apps.
func (r *AppRegistry) Count() int {
	return int(r.appCount)
}

// AppAt returns the app at a dense-array index. The index is only stable
// until the next unregister; external holders must re-resolve by pid.
func (r *AppRegistry) AppAt(index int) *App {
	if index < 0 || index >= int(r.appCount) {
		return nil
	}
	return &r.apps[index]
}

// pidMapSearch returns the dense index for a pid, or -1 if absent.
func (r *AppRegistry) pidMapSearch(pid int) int {
	if pid == 0 {
		return -1
	}
	h := pid % PidMapSize
	for i := 0; i < PidMapSize; i++ {
		e := &r.pidMap[(h+i)%PidMapSize]
		if e.pid == 0 {
			return -1
		}
		if e.pid == pid {
			return int(e.appIndex)
		}
	}
	return -1
}

// pidMapInsert stores pid -> index. The first empty or existing-pid slot in
// the probe sequence wins.
func (r *AppRegistry) pidMapInsert(pid, index int) {
	h := pid % PidMapSize
	for i := 0; i < PidMapSize; i++ {
		e := &r.pidMap[(h+i)%PidMapSize]
		if e.pid == 0 || e.pid == pid {
			e.pid = pid
			e.appIndex = int16(index)
			return
		}
	}
}

// pidMapDelete removes a pid from the index. The cluster following the freed
// slot is re-inserted from scratch so probe sequences stay gap-free without
// tombstones.
func (r *AppRegistry) pidMapDelete(pid int) {
	h := pid % PidMapSize
	slot := -1
	for i := 0; i < PidMapSize; i++ {
		s := (h + i) % PidMapSize
		if r.pidMap[s].pid == 0 {
			return
		}
		if r.pidMap[s].pid == pid {
			slot = s
			break
		}
	}
	if slot < 0 {
		return
	}

	r.pidMap[slot] = pidMapEntry{}
	for i := 1; i < PidMapSize; i++ {
		s := (slot + i) % PidMapSize
		e := r.pidMap[s]
		if e.pid == 0 {
			break
		}
		r.pidMap[s] = pidMapEntry{}
		r.pidMapInsert(e.pid, int(e.appIndex))
	}
}

// Register adds an app to the registry and returns its dense index.
// Registering an already-known pid is idempotent and returns the existing
// index without overwriting the stored bundle identifier. New apps default to
// unassigned, managed, and tiled.
func (r *AppRegistry) Register(pid int, bundleID string) (int, error) {
	if pid == 0 {
		return -1, cerrors.ErrZeroPid
	}
	if idx := r.pidMapSearch(pid); idx >= 0 {
		return idx, nil
	}
	if int(r.appCount) >= MaxApps {
		return -1, cerrors.WrapWithPid(cerrors.ErrRegistryFull, cerrors.ErrCapacity, "register", pid)
	}

	if len(bundleID) > BundleIDMax-1 {
		bundleID = bundleID[:BundleIDMax-1]
	}

	idx := int(r.appCount)
	r.apps[idx] = App{
		Pid:         pid,
		BundleID:    bundleID,
		BufferIndex: -1,
		IsManaged:   true,
	}
	r.appCount++
	r.pidMapInsert(pid, idx)
	return idx, nil
}

// Unregister removes an app. Absent pids are a no-op. The freed slot is
// compacted by moving the last app into it and re-pointing its index entry.
func (r *AppRegistry) Unregister(pid int) {
	idx := r.pidMapSearch(pid)
	if idx < 0 {
		return
	}

	r.pidMapDelete(pid)

	last := int(r.appCount) - 1
	if idx != last {
		r.apps[idx] = r.apps[last]
		r.pidMapInsert(r.apps[idx].Pid, idx)
	}
	r.apps[last] = App{}
	r.appCount--
}

// Find returns the app with the given pid, or nil.
func (r *AppRegistry) Find(pid int) *App {
	idx := r.pidMapSearch(pid)
	if idx < 0 {
		return nil
	}
	return &r.apps[idx]
}

// FindIndex returns the dense index for a pid, or -1.
func (r *AppRegistry) FindIndex(pid int) int {
	return r.pidMapSearch(pid)
}

// AssignToBuffer sets an app's buffer. -1 unassigns. An absent pid or an
// out-of-range buffer index is a no-op.
func (r *AppRegistry) AssignToBuffer(pid, bufferIndex int) {
	if bufferIndex < -1 || bufferIndex >= BufferCount {
		return
	}
	app := r.Find(pid)
	if app == nil {
		return
	}
	app.BufferIndex = bufferIndex
}

// SetFloating marks an app floating or tiled. Absent pids are a no-op.
func (r *AppRegistry) SetFloating(pid int, floating bool) {
	app := r.Find(pid)
	if app == nil {
		return
	}
	app.IsFloating = floating
}

// MarshalJSON serializes the registry as its dense app list. The hash index
// is derived state and is rebuilt on load.
func (r *AppRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.apps[:r.appCount])
}

// UnmarshalJSON rebuilds the registry, including the hash index, from a
// dense app list. Apps past MaxApps or with invalid pids fail the load.
func (r *AppRegistry) UnmarshalJSON(data []byte) error {
	var apps []App
	if err := json.Unmarshal(data, &apps); err != nil {
		return err
	}

	*r = AppRegistry{}
	for _, app := range apps {
		idx, err := r.Register(app.Pid, app.BundleID)
		if err != nil {
			return err
		}
		stored := &r.apps[idx]
		if app.BufferIndex >= -1 && app.BufferIndex < BufferCount {
			stored.BufferIndex = app.BufferIndex
		}
		stored.IsManaged = app.IsManaged
		stored.IsFloating = app.IsFloating
	}
	return nil
}

// BufferPids appends the pids assigned to a buffer, in registration order,
// to out and returns the result. Pass nil to allocate.
func (r *AppRegistry) BufferPids(bufferIndex int, out []int) []int {
	if bufferIndex < 0 || bufferIndex >= BufferCount {
		return out
	}
	for i := 0; i < int(r.appCount); i++ {
		if r.apps[i].BufferIndex == bufferIndex {
			out = append(out, r.apps[i].Pid)
		}
	}
	return out
}
