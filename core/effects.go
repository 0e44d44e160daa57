package core

// FrameChange is a frame to apply to one window.
type FrameChange struct {
	Pid   int  `json:"pid"`
	Frame Rect `json:"frame"`
}

// Effects is the declarative outcome of processing an action. The adapter
// applies it verbatim, in order: hide, show, raise, frame changes, launch.
// Raise order is semantically significant (stacking); the adapter must not
// reorder it.
type Effects struct {
	// ToHide and ToShow are pids to hide/show. Duplicates permitted.
	ToHide []int `json:"to_hide,omitempty"`
	ToShow []int `json:"to_show,omitempty"`

	// ToRaise is deduplicated on append.
	ToRaise []int `json:"to_raise,omitempty"`

	// NeedsLayout asks the adapter to run the layout engine for
	// LayoutBuffer and apply the resulting frames.
	NeedsLayout  bool `json:"needs_layout,omitempty"`
	LayoutBuffer int  `json:"layout_buffer"`

	// FrameChanges are frames to apply directly.
	FrameChanges []FrameChange `json:"frame_changes,omitempty"`

	// LaunchBundle is a bundle identifier to launch; empty means none.
	LaunchBundle string `json:"launch_bundle,omitempty"`
}

// NewEffects returns an empty effects bundle.
func NewEffects() *Effects {
	return &Effects{LayoutBuffer: -1}
}

// Empty reports whether the bundle carries no work.
func (e *Effects) Empty() bool {
	return len(e.ToHide) == 0 && len(e.ToShow) == 0 && len(e.ToRaise) == 0 &&
		!e.NeedsLayout && len(e.FrameChanges) == 0 && e.LaunchBundle == ""
}

// AddHide appends a pid to the hide list. Additions past MaxApps are dropped.
func (e *Effects) AddHide(pid int) {
	if len(e.ToHide) < MaxApps {
		e.ToHide = append(e.ToHide, pid)
	}
}

// AddShow appends a pid to the show list. Additions past MaxApps are dropped.
func (e *Effects) AddShow(pid int) {
	if len(e.ToShow) < MaxApps {
		e.ToShow = append(e.ToShow, pid)
	}
}

// AddRaise appends a pid to the raise list unless already present.
// Additions past MaxApps are dropped.
func (e *Effects) AddRaise(pid int) {
	for _, p := range e.ToRaise {
		if p == pid {
			return
		}
	}
	if len(e.ToRaise) < MaxApps {
		e.ToRaise = append(e.ToRaise, pid)
	}
}

// AddFrame appends a frame change. Additions past MaxApps are dropped.
func (e *Effects) AddFrame(pid int, frame Rect) {
	if len(e.FrameChanges) < MaxApps {
		e.FrameChanges = append(e.FrameChanges, FrameChange{Pid: pid, Frame: frame})
	}
}
