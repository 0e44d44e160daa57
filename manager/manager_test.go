package manager

import (
	"context"
	"os"
	"strings"
	"testing"

	"dwin-go/core"
	"dwin-go/platform"
)

func testManager() (*Manager, *platform.Headless) {
	adapter := platform.NewHeadless(core.Rect{Width: 1920, Height: 1080})
	cfg := core.NewConfig()
	m := New(cfg, adapter)
	m.Debug = true
	return m, adapter
}

func TestHandleAppLaunchedRuleAssignment(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.Config.AddRule("com.spotify.client", 3)
	m.State.ActiveBuffer = 0

	// rule match lands the app on a hidden buffer and hides it
	if err := m.HandleAppLaunched(ctx, 9012, "com.spotify.client"); err != nil {
		t.Fatalf("HandleAppLaunched failed: %v", err)
	}
	if m.State.FindApp(9012).BufferIndex != 3 {
		t.Errorf("rule not applied: buffer %d", m.State.FindApp(9012).BufferIndex)
	}
	ops := adapter.Ops()
	if len(ops) != 1 || ops[0] != "hide 9012" {
		t.Errorf("expected a single hide, got %v", ops)
	}
}

func TestHandleAppLaunchedJoinsActiveBuffer(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 1

	if err := m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal"); err != nil {
		t.Fatalf("HandleAppLaunched failed: %v", err)
	}
	if m.State.FindApp(1234).BufferIndex != 1 {
		t.Errorf("app not assigned to active buffer: %d", m.State.FindApp(1234).BufferIndex)
	}

	// visible buffer retiles: the new app gets a frame, not a hide
	ops := adapter.Ops()
	if len(ops) != 1 || !strings.HasPrefix(ops[0], "frame 1234") {
		t.Errorf("expected a frame change, got %v", ops)
	}
}

func TestHandleAppLaunchedBeforeFirstSwitch(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()

	// no buffer active yet: the app stays unassigned and untouched
	if err := m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal"); err != nil {
		t.Fatalf("HandleAppLaunched failed: %v", err)
	}
	if m.State.FindApp(1234).BufferIndex != -1 {
		t.Errorf("app assigned without an active buffer: %d", m.State.FindApp(1234).BufferIndex)
	}
	if len(adapter.Ops()) != 0 {
		t.Errorf("unexpected adapter ops: %v", adapter.Ops())
	}
}

func TestHandleAppTerminated(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 0

	m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal")
	m.HandleAppLaunched(ctx, 5678, "com.google.Chrome")
	adapter.Reset()

	if err := m.HandleAppTerminated(ctx, 1234); err != nil {
		t.Fatalf("HandleAppTerminated failed: %v", err)
	}
	if m.State.FindApp(1234) != nil {
		t.Error("app still registered")
	}

	// the survivor reclaims the whole usable area
	ops := adapter.Ops()
	if len(ops) != 1 || !strings.HasPrefix(ops[0], "frame 5678") {
		t.Errorf("expected a single retile frame, got %v", ops)
	}

	// terminating an unknown pid is a no-op
	adapter.Reset()
	if err := m.HandleAppTerminated(ctx, 4242); err != nil {
		t.Fatalf("unknown pid should be a no-op: %v", err)
	}
	if len(adapter.Ops()) != 0 {
		t.Errorf("unexpected ops: %v", adapter.Ops())
	}
}

func TestHandleKeySwitchBuffer(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()

	m.State.ActiveBuffer = 0
	m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal")
	m.State.AssignToBuffer(1234, 1)
	adapter.Reset()

	// opt+2 switches to buffer 1
	fired, err := m.HandleKey(ctx, core.ModOpt, 19)
	if err != nil {
		t.Fatalf("HandleKey failed: %v", err)
	}
	if !fired {
		t.Fatal("binding did not fire")
	}
	if m.State.ActiveBuffer != 1 {
		t.Errorf("active buffer = %d", m.State.ActiveBuffer)
	}

	// effects applied in order: show, raise, then the layout frames
	ops := adapter.Ops()
	if len(ops) != 3 {
		t.Fatalf("expected 3 ops, got %v", ops)
	}
	if ops[0] != "show 1234" || ops[1] != "raise 1234" || !strings.HasPrefix(ops[2], "frame 1234") {
		t.Errorf("unexpected op order: %v", ops)
	}
}

func TestHandleKeyUnbound(t *testing.T) {
	m, _ := testManager()

	fired, err := m.HandleKey(context.Background(), core.ModCmd|core.ModCtrl, 99)
	if err != nil {
		t.Fatalf("HandleKey failed: %v", err)
	}
	if fired {
		t.Error("unbound chord fired")
	}
}

func TestHandleKeyPassthroughGating(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 0

	// shift+opt+p enables passthrough
	fired, err := m.HandleKey(ctx, core.ModShift|core.ModOpt, core.KeycodeP)
	if err != nil || !fired {
		t.Fatalf("passthrough toggle failed: %v, %v", fired, err)
	}
	if !m.State.PassthroughMode {
		t.Fatal("passthrough not enabled")
	}

	// buffer hotkeys are dropped while passthrough is on
	fired, err = m.HandleKey(ctx, core.ModOpt, 19)
	if err != nil {
		t.Fatalf("HandleKey failed: %v", err)
	}
	if fired {
		t.Error("binding fired in passthrough mode")
	}
	if m.State.ActiveBuffer != 0 {
		t.Errorf("buffer switched in passthrough mode: %d", m.State.ActiveBuffer)
	}
	if len(adapter.Ops()) != 0 {
		t.Errorf("adapter touched in passthrough mode: %v", adapter.Ops())
	}

	// the toggle itself still works, and hotkeys come back
	if fired, _ = m.HandleKey(ctx, core.ModShift|core.ModOpt, core.KeycodeP); !fired {
		t.Fatal("passthrough toggle dropped")
	}
	if m.State.PassthroughMode {
		t.Error("passthrough not disabled")
	}
	if fired, _ = m.HandleKey(ctx, core.ModOpt, 19); !fired {
		t.Error("binding did not fire after passthrough off")
	}
}

func TestHandleKeyTargetsFocusedApp(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()

	m.State.ActiveBuffer = 0
	m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal")
	adapter.SetFocused(1234)
	adapter.Reset()

	// shift+opt+3 moves the focused app to buffer 2
	fired, err := m.HandleKey(ctx, core.ModShift|core.ModOpt, 20)
	if err != nil || !fired {
		t.Fatalf("HandleKey = %v, %v", fired, err)
	}
	if m.State.FindApp(1234).BufferIndex != 2 {
		t.Errorf("focused app not moved: %d", m.State.FindApp(1234).BufferIndex)
	}
	if m.State.ActiveBuffer != 2 {
		t.Errorf("active buffer = %d", m.State.ActiveBuffer)
	}
}

func TestDispatchSwallowsValidationFailures(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 0

	// switching to the active buffer is hotkey noise, not a fault
	if err := m.Dispatch(ctx, core.Action{Type: core.ActionSwitchBuffer, TargetBuffer: 0}); err != nil {
		t.Errorf("validation failure surfaced: %v", err)
	}
	if len(adapter.Ops()) != 0 {
		t.Errorf("unexpected ops: %v", adapter.Ops())
	}
}

func TestDispatchSnapFloatsAndRetiles(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 0

	m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal")
	m.HandleAppLaunched(ctx, 5678, "com.google.Chrome")
	adapter.Reset()

	err := m.Dispatch(ctx, core.Action{Type: core.ActionSnapLeft, TargetPid: 1234})
	if err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	if !m.State.FindApp(1234).IsFloating {
		t.Error("snapped app not floating")
	}

	// raise, snap frame, then the retile frame for the remaining tiled app
	ops := adapter.Ops()
	if len(ops) != 3 {
		t.Fatalf("expected 3 ops, got %v", ops)
	}
	if ops[0] != "raise 1234" {
		t.Errorf("expected raise first, got %v", ops)
	}
	if !strings.HasPrefix(ops[1], "frame 1234") {
		t.Errorf("expected snap frame second, got %v", ops)
	}
	if !strings.HasPrefix(ops[2], "frame 5678") {
		t.Errorf("expected retile frame last, got %v", ops)
	}
}

func TestRetileSkipsUnmanaged(t *testing.T) {
	m, adapter := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 0

	m.HandleAppLaunched(ctx, 1234, "com.apple.Terminal")
	m.HandleAppLaunched(ctx, 5678, "com.google.Chrome")
	m.State.FindApp(5678).IsManaged = false
	adapter.Reset()

	if err := m.Retile(0); err != nil {
		t.Fatalf("Retile failed: %v", err)
	}

	// the unmanaged app keeps its slot in the layout but is never resized
	for _, op := range adapter.Ops() {
		if strings.HasPrefix(op, "frame 5678") {
			t.Errorf("unmanaged app resized: %v", adapter.Ops())
		}
	}
}

func TestPruneDead(t *testing.T) {
	m, _ := testManager()
	ctx := context.Background()
	m.State.ActiveBuffer = 0

	// our own process is alive and survives pruning
	self := os.Getpid()
	m.HandleAppLaunched(ctx, self, "com.example.self")
	// an implausible pid is dead
	m.HandleAppLaunched(ctx, 1<<28, "com.example.ghost")

	dropped, err := m.PruneDead(ctx)
	if err != nil {
		t.Fatalf("PruneDead failed: %v", err)
	}
	if dropped != 1 {
		t.Errorf("expected 1 dropped, got %d", dropped)
	}
	if m.State.FindApp(self) == nil {
		t.Error("live app pruned")
	}
	if m.State.FindApp(1<<28) != nil {
		t.Error("dead app survived")
	}
}
