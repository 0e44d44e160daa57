package platform

import (
	"golang.org/x/sys/unix"
)

// ProcessAlive reports whether a process exists, by sending signal 0.
// EPERM counts as alive: the process exists but belongs to another user.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}
