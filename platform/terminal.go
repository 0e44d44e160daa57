package platform

import (
	"os"

	"golang.org/x/term"

	"dwin-go/core"
	cerrors "dwin-go/errors"
)

// KeyEvent is one decoded keystroke: a modifier bitmask and an opaque
// OS scancode, the pair bindings are matched against.
type KeyEvent struct {
	Modifiers int
	Keycode   int
}

// asciiKeycodes maps the keys the terminal driver understands to the
// macOS digit-row scancodes the default bindings use.
var asciiKeycodes = map[byte]int{
	'1': 18,
	'2': 19,
	'3': 20,
	'4': 21,
	'5': 23,
	'p': 35,
}

// Terminal reads keystrokes from a raw-mode terminal and decodes them into
// key events: ESC-prefixed bytes carry the option modifier (the way
// terminals transmit alt), uppercase letters carry shift. It stands in for
// a global hotkey interceptor when driving the manager interactively.
type Terminal struct {
	in       *os.File
	fd       int
	oldState *term.State
}

// NewTerminal puts the file (normally os.Stdin) into raw mode. Callers must
// Restore before exiting.
func NewTerminal(in *os.File) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, cerrors.New(cerrors.ErrPlatform, "terminal", "stdin is not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.ErrPlatform, "make raw")
	}

	return &Terminal{in: in, fd: fd, oldState: oldState}, nil
}

// Restore returns the terminal to its previous mode.
func (t *Terminal) Restore() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

// ReadKey blocks for the next keystroke. quit is true for ctrl-c, ctrl-d,
// or q. Keys with no scancode mapping return ok == false.
func (t *Terminal) ReadKey() (ev KeyEvent, ok bool, quit bool, err error) {
	var buf [1]byte
	if _, err := t.in.Read(buf[:]); err != nil {
		return KeyEvent{}, false, true, err
	}
	b := buf[0]

	// ESC prefix: terminals transmit alt as ESC followed by the key
	modifiers := 0
	if b == 0x1b {
		if _, err := t.in.Read(buf[:]); err != nil {
			return KeyEvent{}, false, true, err
		}
		b = buf[0]
		modifiers |= core.ModOpt
	}

	switch b {
	case 0x03, 0x04, 'q':
		return KeyEvent{}, false, true, nil
	}

	if b >= 'A' && b <= 'Z' {
		modifiers |= core.ModShift
		b += 'a' - 'A'
	}

	keycode, known := asciiKeycodes[b]
	if !known {
		return KeyEvent{}, false, false, nil
	}
	return KeyEvent{Modifiers: modifiers, Keycode: keycode}, true, false, nil
}

// DecodeKey maps a single already-read byte (with an explicit alt flag) to a
// key event using the same rules as ReadKey. Split out for tests.
func DecodeKey(b byte, alt bool) (KeyEvent, bool) {
	modifiers := 0
	if alt {
		modifiers |= core.ModOpt
	}
	if b >= 'A' && b <= 'Z' {
		modifiers |= core.ModShift
		b += 'a' - 'A'
	}
	keycode, known := asciiKeycodes[b]
	if !known {
		return KeyEvent{}, false
	}
	return KeyEvent{Modifiers: modifiers, Keycode: keycode}, true
}
