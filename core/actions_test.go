package core

import (
	"testing"

	cerrors "dwin-go/errors"
)

func testProcessor() *Processor {
	return &Processor{
		Config: NewConfig(),
		Screen: Rect{Width: 1920, Height: 1080},
	}
}

// three apps: 1234 and 5678 in buffer 0, 9012 in buffer 1, buffer 0 active.
func switchFixture(t *testing.T) *State {
	t.Helper()
	s := NewState()
	s.RegisterApp(1234, "com.apple.Terminal")
	s.RegisterApp(5678, "com.google.Chrome")
	s.RegisterApp(9012, "com.spotify.client")
	s.AssignToBuffer(1234, 0)
	s.AssignToBuffer(5678, 0)
	s.AssignToBuffer(9012, 1)
	s.ActiveBuffer = 0
	return s
}

func TestSwitchBuffer(t *testing.T) {
	s := switchFixture(t)

	eff := NewEffects()
	if err := SwitchBuffer(s, 1, eff); err != nil {
		t.Fatalf("SwitchBuffer failed: %v", err)
	}
	if s.ActiveBuffer != 1 {
		t.Errorf("active buffer = %d", s.ActiveBuffer)
	}

	if len(eff.ToShow) != 1 || eff.ToShow[0] != 9012 {
		t.Errorf("unexpected show list: %v", eff.ToShow)
	}

	if len(eff.ToHide) != 2 {
		t.Fatalf("expected 2 hides, got %v", eff.ToHide)
	}
	hidden := map[int]bool{eff.ToHide[0]: true, eff.ToHide[1]: true}
	if !hidden[1234] || !hidden[5678] {
		t.Errorf("unexpected hide members: %v", eff.ToHide)
	}

	// only app in the buffer gets raised
	if len(eff.ToRaise) != 1 || eff.ToRaise[0] != 9012 {
		t.Errorf("unexpected raise list: %v", eff.ToRaise)
	}

	if !eff.NeedsLayout || eff.LayoutBuffer != 1 {
		t.Errorf("layout not requested for buffer 1: %+v", eff)
	}
}

func TestSwitchBufferSame(t *testing.T) {
	s := NewState()
	s.ActiveBuffer = 0

	eff := NewEffects()
	err := SwitchBuffer(s, 0, eff)
	if !cerrors.Is(err, cerrors.ErrSameBuffer) {
		t.Errorf("expected ErrSameBuffer, got %v", err)
	}
	if !eff.Empty() {
		t.Errorf("effects not empty on failure: %+v", eff)
	}
	if s.ActiveBuffer != 0 {
		t.Errorf("state mutated on failure: %d", s.ActiveBuffer)
	}
}

func TestSwitchBufferOutOfRange(t *testing.T) {
	s := NewState()
	eff := NewEffects()

	if err := SwitchBuffer(s, BufferCount, eff); !cerrors.Is(err, cerrors.ErrBufferOutOfRange) {
		t.Errorf("expected ErrBufferOutOfRange, got %v", err)
	}
	if err := SwitchBuffer(s, -1, eff); !cerrors.Is(err, cerrors.ErrBufferOutOfRange) {
		t.Errorf("expected ErrBufferOutOfRange, got %v", err)
	}
}

func TestSwitchBufferLastFocused(t *testing.T) {
	s := switchFixture(t)

	// 5678 also lives in buffer 1 and was focused there last
	s.AssignToBuffer(5678, 1)
	s.SetFocused(5678)
	s.ActiveBuffer = 0

	eff := NewEffects()
	if err := SwitchBuffer(s, 1, eff); err != nil {
		t.Fatalf("SwitchBuffer failed: %v", err)
	}

	if len(eff.ToRaise) != 1 || eff.ToRaise[0] != 5678 {
		t.Errorf("expected last focused 5678 raised, got %v", eff.ToRaise)
	}
}

func TestSwitchBufferEmpty(t *testing.T) {
	s := NewState()
	s.ActiveBuffer = 0

	eff := NewEffects()
	if err := SwitchBuffer(s, 1, eff); err != nil {
		t.Fatalf("SwitchBuffer failed: %v", err)
	}
	if s.ActiveBuffer != 1 {
		t.Errorf("active buffer = %d", s.ActiveBuffer)
	}
	if len(eff.ToRaise) != 0 {
		t.Errorf("nothing to raise in an empty buffer: %v", eff.ToRaise)
	}
}

func TestSwitchBufferFromUninitialized(t *testing.T) {
	s := NewState()
	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 2)

	// first switch ever: no hides, old buffer never existed
	eff := NewEffects()
	if err := SwitchBuffer(s, 2, eff); err != nil {
		t.Fatalf("SwitchBuffer failed: %v", err)
	}
	if len(eff.ToHide) != 0 {
		t.Errorf("first switch emitted hides: %v", eff.ToHide)
	}
	if s.ActiveBuffer != 2 {
		t.Errorf("active buffer = %d", s.ActiveBuffer)
	}
}

func TestProcessMoveBuffer(t *testing.T) {
	p := testProcessor()
	s := NewState()

	s.RegisterApp(1234, "com.apple.Terminal")
	s.RegisterApp(5678, "com.google.Chrome")
	s.AssignToBuffer(1234, 0)
	s.AssignToBuffer(5678, 1)
	s.ActiveBuffer = 0

	eff, err := p.Process(s, Action{Type: ActionMoveBuffer, TargetPid: 1234, TargetBuffer: 1})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if s.ActiveBuffer != 1 {
		t.Errorf("active buffer = %d", s.ActiveBuffer)
	}
	if s.FindApp(1234).BufferIndex != 1 {
		t.Errorf("app not reassigned: %d", s.FindApp(1234).BufferIndex)
	}

	// both members of the target buffer are shown
	if len(eff.ToShow) != 2 {
		t.Errorf("expected 2 shows, got %v", eff.ToShow)
	}

	// the moved app is raised, and raised last
	if len(eff.ToRaise) == 0 {
		t.Fatal("nothing raised")
	}
	if eff.ToRaise[len(eff.ToRaise)-1] != 1234 {
		t.Errorf("moved app not raised last: %v", eff.ToRaise)
	}

	if !eff.NeedsLayout || eff.LayoutBuffer != 1 {
		t.Errorf("layout not requested: %+v", eff)
	}
}

func TestProcessMoveBufferIntoActive(t *testing.T) {
	p := testProcessor()
	s := NewState()

	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 1)
	s.ActiveBuffer = 0

	eff, err := p.Process(s, Action{Type: ActionMoveBuffer, TargetPid: 1234, TargetBuffer: 0})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// no switch happens; the app is shown and raised in place
	if s.ActiveBuffer != 0 {
		t.Errorf("active buffer changed: %d", s.ActiveBuffer)
	}
	if len(eff.ToShow) != 1 || eff.ToShow[0] != 1234 {
		t.Errorf("unexpected show list: %v", eff.ToShow)
	}
	if len(eff.ToRaise) != 1 || eff.ToRaise[0] != 1234 {
		t.Errorf("unexpected raise list: %v", eff.ToRaise)
	}
	if len(eff.ToHide) != 0 {
		t.Errorf("unexpected hides: %v", eff.ToHide)
	}
	if !eff.NeedsLayout || eff.LayoutBuffer != 0 {
		t.Errorf("layout not requested: %+v", eff)
	}
}

func TestProcessMoveBufferFailures(t *testing.T) {
	p := testProcessor()
	s := NewState()
	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 0)
	s.ActiveBuffer = 0

	// unknown pid
	eff, err := p.Process(s, Action{Type: ActionMoveBuffer, TargetPid: 42, TargetBuffer: 1})
	if !cerrors.IsKind(err, cerrors.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if !eff.Empty() {
		t.Errorf("effects not empty: %+v", eff)
	}

	// invalid target buffer
	_, err = p.Process(s, Action{Type: ActionMoveBuffer, TargetPid: 1234, TargetBuffer: 9})
	if !cerrors.Is(err, cerrors.ErrBufferOutOfRange) {
		t.Errorf("expected ErrBufferOutOfRange, got %v", err)
	}

	// already in the target buffer
	eff, err = p.Process(s, Action{Type: ActionMoveBuffer, TargetPid: 1234, TargetBuffer: 0})
	if !cerrors.Is(err, cerrors.ErrSameBuffer) {
		t.Errorf("expected ErrSameBuffer, got %v", err)
	}
	if !eff.Empty() {
		t.Errorf("effects not empty: %+v", eff)
	}
	if s.FindApp(1234).BufferIndex != 0 {
		t.Errorf("state mutated on failure: %d", s.FindApp(1234).BufferIndex)
	}
}

func TestProcessSwitch(t *testing.T) {
	p := testProcessor()
	s := NewState()

	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 1)
	s.ActiveBuffer = 0

	eff, err := p.Process(s, Action{Type: ActionSwitchBuffer, TargetBuffer: 1})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if s.ActiveBuffer != 1 {
		t.Errorf("active buffer = %d", s.ActiveBuffer)
	}
	if len(eff.ToShow) != 1 {
		t.Errorf("unexpected show list: %v", eff.ToShow)
	}
}

func TestProcessPassthrough(t *testing.T) {
	p := testProcessor()
	s := NewState()

	eff, err := p.Process(s, Action{Type: ActionTogglePassthrough})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !s.PassthroughMode {
		t.Error("passthrough not enabled")
	}
	if !eff.Empty() {
		t.Errorf("passthrough toggle produced effects: %+v", eff)
	}

	if _, err := p.Process(s, Action{Type: ActionTogglePassthrough}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if s.PassthroughMode {
		t.Error("passthrough not disabled")
	}
}

func TestProcessSnap(t *testing.T) {
	p := testProcessor()
	s := NewState()

	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 0)
	s.ActiveBuffer = 0

	eff, err := p.Process(s, Action{Type: ActionSnapLeft, TargetPid: 1234})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if !s.FindApp(1234).IsFloating {
		t.Error("snapped app should be floating")
	}
	if len(eff.FrameChanges) != 1 {
		t.Fatalf("expected 1 frame change, got %d", len(eff.FrameChanges))
	}
	want := ComputeSnap(ActionSnapLeft, p.Screen, p.Config)
	if eff.FrameChanges[0].Pid != 1234 || eff.FrameChanges[0].Frame != want {
		t.Errorf("unexpected frame change: %+v", eff.FrameChanges[0])
	}
	if len(eff.ToRaise) != 1 || eff.ToRaise[0] != 1234 {
		t.Errorf("snapped app not raised: %v", eff.ToRaise)
	}

	// the visible buffer retiles around the newly floating app
	if !eff.NeedsLayout || eff.LayoutBuffer != 0 {
		t.Errorf("layout not requested: %+v", eff)
	}
}

func TestProcessSnapHiddenBuffer(t *testing.T) {
	p := testProcessor()
	s := NewState()

	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 2)
	s.ActiveBuffer = 0

	eff, err := p.Process(s, Action{Type: ActionSnapRight, TargetPid: 1234})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	// snapping an app on a hidden buffer does not retile the active one
	if eff.NeedsLayout {
		t.Errorf("unexpected layout request: %+v", eff)
	}
}

func TestProcessSnapUnknownPid(t *testing.T) {
	p := testProcessor()
	s := NewState()

	eff, err := p.Process(s, Action{Type: ActionSnapMaximize, TargetPid: 42})
	if !cerrors.IsKind(err, cerrors.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if !eff.Empty() {
		t.Errorf("effects not empty: %+v", eff)
	}
}

func TestProcessToggleFloating(t *testing.T) {
	p := testProcessor()
	s := NewState()

	s.RegisterApp(1234, "com.apple.Terminal")
	s.AssignToBuffer(1234, 0)
	s.ActiveBuffer = 0

	eff, err := p.Process(s, Action{Type: ActionToggleFloating, TargetPid: 1234})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !s.FindApp(1234).IsFloating {
		t.Error("app should be floating")
	}
	if !eff.NeedsLayout || eff.LayoutBuffer != 0 {
		t.Errorf("layout not requested: %+v", eff)
	}

	// toggling back retiles it
	if _, err := p.Process(s, Action{Type: ActionToggleFloating, TargetPid: 1234}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if s.FindApp(1234).IsFloating {
		t.Error("app should be tiled again")
	}

	// unknown pid fails
	if _, err := p.Process(s, Action{Type: ActionToggleFloating, TargetPid: 42}); !cerrors.IsKind(err, cerrors.ErrNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestProcessRetile(t *testing.T) {
	p := testProcessor()
	s := NewState()

	// no buffer ever activated
	eff, err := p.Process(s, Action{Type: ActionRetile})
	if !cerrors.Is(err, cerrors.ErrNoActiveBuffer) {
		t.Errorf("expected ErrNoActiveBuffer, got %v", err)
	}
	if !eff.Empty() {
		t.Errorf("effects not empty: %+v", eff)
	}

	s.ActiveBuffer = 3
	eff, err = p.Process(s, Action{Type: ActionRetile})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !eff.NeedsLayout || eff.LayoutBuffer != 3 {
		t.Errorf("layout not requested: %+v", eff)
	}
}

func TestProcessLaunchBundle(t *testing.T) {
	p := testProcessor()
	s := NewState()

	eff, err := p.Process(s, Action{Type: ActionLaunchBundle, BundleID: "com.spotify.client"})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if eff.LaunchBundle != "com.spotify.client" {
		t.Errorf("unexpected launch bundle: %q", eff.LaunchBundle)
	}

	if _, err := p.Process(s, Action{Type: ActionLaunchBundle}); !cerrors.Is(err, cerrors.ErrEmptyBundle) {
		t.Errorf("expected ErrEmptyBundle, got %v", err)
	}
}

func TestProcessNone(t *testing.T) {
	p := testProcessor()
	s := NewState()

	eff, err := p.Process(s, Action{Type: ActionNone})
	if !cerrors.Is(err, cerrors.ErrNoAction) {
		t.Errorf("expected ErrNoAction, got %v", err)
	}
	if !eff.Empty() {
		t.Errorf("effects not empty: %+v", eff)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Errorf("state corrupted by none action: %v", err)
	}
}
