//go:build unix

package secret

import "golang.org/x/sys/unix"

// lock pins the buffer in RAM so it is not written to swap. It fails
// silently when RLIMIT_MEMLOCK is too low.
func lock(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return unix.Mlock(b) == nil
}

func unlock(b []byte) {
	_ = unix.Munlock(b)
}
