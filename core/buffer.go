package core

// Buffer is a workspace. Buffers carry no member list: membership is derived
// by scanning the registry, so app assignment has a single source of truth.
type Buffer struct {
	// LastFocusedPid is the pid most recently focused in this buffer,
	// 0 when none. May go stale when the app exits or moves; readers
	// repair it lazily.
	LastFocusedPid int `json:"last_focused_pid"`
}
