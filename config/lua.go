// Package config loads user configuration files into the core tables.
//
// The config file is a Lua script evaluated with a small set of builtins
// (outer_gaps, inner_gaps, rule, bind), the idiom of scriptable window managers. The core
// itself performs no I/O; this package is the adapter-layer implementation
// of config loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"dwin-go/core"
	cerrors "dwin-go/errors"
)

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/dwin-go/config.lua or ~/.config/dwin-go/config.lua.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "dwin-go", "config.lua")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "dwin-go", "config.lua")
}

// Load evaluates a Lua config script against cfg. A missing file is not an
// error: the built-in defaults stay in place. A script that fails to parse
// or run returns a config error and may leave cfg partially updated; callers
// should re-Init on failure if they need the defaults back.
//
// Script builtins:
//
//	outer_gaps(n) / outer_gaps(top, right, bottom, left)
//	inner_gaps(n) / inner_gaps(top, right, bottom, left)
//	rule(bundle_id, buffer)
//	bind(modifiers, keycode, action)           -- e.g. bind("opt", 18, "switch_buffer")
//	bind(modifiers, keycode, action, argument) -- argument: buffer index or bundle id
func Load(path string, cfg *core.Config) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	L := lua.NewState()
	defer L.Close()

	registerBuiltins(L, cfg)

	if err := L.DoFile(path); err != nil {
		return cerrors.WrapWithDetail(err, cerrors.ErrConfig, "load config", path)
	}
	return nil
}

// LoadString evaluates an in-memory config script with the same builtins as
// Load. Used by tests.
func LoadString(script string, cfg *core.Config) error {
	L := lua.NewState()
	defer L.Close()

	registerBuiltins(L, cfg)

	if err := L.DoString(script); err != nil {
		return cerrors.Wrap(err, cerrors.ErrConfig, "load config")
	}
	return nil
}

func registerBuiltins(L *lua.LState, cfg *core.Config) {
	L.SetGlobal("outer_gaps", L.NewFunction(func(L *lua.LState) int {
		cfg.GapsOuter = checkGap(L)
		return 0
	}))
	L.SetGlobal("inner_gaps", L.NewFunction(func(L *lua.LState) int {
		cfg.GapsInner = checkGap(L)
		return 0
	}))

	L.SetGlobal("rule", L.NewFunction(func(L *lua.LState) int {
		bundleID := L.CheckString(1)
		buffer := L.CheckInt(2)
		if buffer < 0 || buffer >= core.BufferCount {
			L.RaiseError("rule: buffer %d out of range", buffer)
		}
		if err := cfg.AddRule(bundleID, buffer); err != nil {
			L.RaiseError("rule: %v", err)
		}
		return 0
	}))

	L.SetGlobal("bind", L.NewFunction(func(L *lua.LState) int {
		modifiers, err := ParseModifiers(L.CheckString(1))
		if err != nil {
			L.RaiseError("bind: %v", err)
		}
		keycode := L.CheckInt(2)
		actionName := L.CheckString(3)

		action, ok := core.ParseActionType(actionName)
		if !ok {
			L.RaiseError("bind: unknown action %q", actionName)
		}

		argument := 0
		bundleID := ""
		if L.GetTop() >= 4 {
			switch v := L.Get(4).(type) {
			case lua.LNumber:
				argument = int(v)
			case lua.LString:
				bundleID = string(v)
			default:
				L.RaiseError("bind: argument must be a number or string")
			}
		}

		if err := cfg.AddBinding(modifiers, keycode, action, argument, bundleID); err != nil {
			L.RaiseError("bind: %v", err)
		}
		return 0
	}))
}

// checkGap reads either a single uniform inset or four explicit sides.
func checkGap(L *lua.LState) core.Gap {
	switch L.GetTop() {
	case 1:
		return core.UniformGap(L.CheckInt(1))
	case 4:
		return core.Gap{
			Top:    L.CheckInt(1),
			Right:  L.CheckInt(2),
			Bottom: L.CheckInt(3),
			Left:   L.CheckInt(4),
		}
	default:
		L.RaiseError("gaps: expected 1 or 4 arguments, got %d", L.GetTop())
		return core.Gap{}
	}
}

// ParseModifiers converts a "+"-separated modifier list ("opt+shift") into
// the binding bitmask. An empty string means no modifiers.
func ParseModifiers(s string) (int, error) {
	if s == "" || s == "none" {
		return core.ModNone, nil
	}

	mask := core.ModNone
	for _, tok := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(tok)) {
		case "opt", "alt":
			mask |= core.ModOpt
		case "shift":
			mask |= core.ModShift
		case "cmd", "super":
			mask |= core.ModCmd
		case "ctrl", "control":
			mask |= core.ModCtrl
		default:
			return 0, fmt.Errorf("unknown modifier %q", tok)
		}
	}
	return mask, nil
}

// FormatModifiers renders a bitmask the way config files spell it.
func FormatModifiers(mask int) string {
	var parts []string
	if mask&core.ModOpt != 0 {
		parts = append(parts, "opt")
	}
	if mask&core.ModShift != 0 {
		parts = append(parts, "shift")
	}
	if mask&core.ModCmd != 0 {
		parts = append(parts, "cmd")
	}
	if mask&core.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}
