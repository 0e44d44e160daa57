package core

import (
	cerrors "dwin-go/errors"
)

// Capacity of the configuration tables.
const (
	// MaxRules is the maximum number of auto-assignment rules.
	MaxRules = 64

	// MaxBindings is the maximum number of hotkey bindings.
	MaxBindings = 64
)

// Modifier bitmask flags. Masks are compared by equality, not subset.
const (
	ModNone  = 0
	ModOpt   = 1 << 0
	ModShift = 1 << 1
	ModCmd   = 1 << 2
	ModCtrl  = 1 << 3
)

// Default keycodes (macOS digit-row scancodes).
var defaultDigitKeycodes = [BufferCount]int{18, 19, 20, 21, 23}

// KeycodeP is the scancode for the P key, bound to passthrough by default.
const KeycodeP = 35

// Gap holds per-side insets in pixels.
type Gap struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// UniformGap returns a gap with the same inset on all four sides.
func UniformGap(n int) Gap {
	return Gap{Top: n, Right: n, Bottom: n, Left: n}
}

// Rule auto-assigns apps with a bundle identifier to a buffer.
type Rule struct {
	BundleID     string `json:"bundle_id"`
	TargetBuffer int    `json:"target_buffer"`
}

// Binding maps a hotkey to an action.
type Binding struct {
	Modifiers int        `json:"modifiers"`
	Keycode   int        `json:"keycode"`
	Action    ActionType `json:"action"`
	// Argument is the action's integer argument (a buffer index for the
	// buffer actions).
	Argument int `json:"argument"`
	// BundleID is the launch target for ActionLaunchBundle bindings.
	BundleID string `json:"bundle_id,omitempty"`
}

// Config holds gaps, rules, and bindings. It is mutated only at startup or
// on reload; after initialization readers see an immutable table. Insertion
// order is preserved and the first match wins for both rules and bindings.
type Config struct {
	GapsOuter Gap `json:"gaps_outer"`
	GapsInner Gap `json:"gaps_inner"`

	Rules    []Rule    `json:"rules,omitempty"`
	Bindings []Binding `json:"bindings,omitempty"`
}

// NewConfig returns a config populated with the built-in defaults:
// outer gaps 12, inner gaps 8, OPT+digit switching buffers 1-5,
// SHIFT+OPT+digit moving the focused app, SHIFT+OPT+P toggling passthrough.
func NewConfig() *Config {
	c := &Config{}
	c.Init()
	return c
}

// Init resets the config to the built-in defaults.
func (c *Config) Init() {
	c.GapsOuter = UniformGap(12)
	c.GapsInner = UniformGap(8)
	c.Rules = nil
	c.Bindings = nil

	for i, keycode := range defaultDigitKeycodes {
		c.AddBinding(ModOpt, keycode, ActionSwitchBuffer, i, "")
		c.AddBinding(ModShift|ModOpt, keycode, ActionMoveBuffer, i, "")
	}
	c.AddBinding(ModShift|ModOpt, KeycodeP, ActionTogglePassthrough, 0, "")
}

// AddRule appends an auto-assignment rule.
func (c *Config) AddRule(bundleID string, targetBuffer int) error {
	if len(c.Rules) >= MaxRules {
		return cerrors.ErrRulesFull
	}
	if len(bundleID) > BundleIDMax-1 {
		bundleID = bundleID[:BundleIDMax-1]
	}
	c.Rules = append(c.Rules, Rule{BundleID: bundleID, TargetBuffer: targetBuffer})
	return nil
}

// MatchRule returns the target buffer for a bundle identifier, or -1 when
// no rule matches. First exact-string match wins.
func (c *Config) MatchRule(bundleID string) int {
	for i := range c.Rules {
		if c.Rules[i].BundleID == bundleID {
			return c.Rules[i].TargetBuffer
		}
	}
	return -1
}

// AddBinding appends a hotkey binding.
func (c *Config) AddBinding(modifiers, keycode int, action ActionType, argument int, bundleID string) error {
	if len(c.Bindings) >= MaxBindings {
		return cerrors.ErrBindingsFull
	}
	if len(bundleID) > BundleIDMax-1 {
		bundleID = bundleID[:BundleIDMax-1]
	}
	c.Bindings = append(c.Bindings, Binding{
		Modifiers: modifiers,
		Keycode:   keycode,
		Action:    action,
		Argument:  argument,
		BundleID:  bundleID,
	})
	return nil
}

// MatchBinding resolves a key event to an action. The first binding whose
// modifier mask equals the event's mask and whose keycode matches wins.
func (c *Config) MatchBinding(modifiers, keycode int) (Action, bool) {
	for i := range c.Bindings {
		b := &c.Bindings[i]
		if b.Modifiers == modifiers && b.Keycode == keycode {
			return Action{
				Type:         b.Action,
				TargetBuffer: b.Argument,
				BundleID:     b.BundleID,
			}, true
		}
	}
	return Action{}, false
}
