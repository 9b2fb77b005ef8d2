//go:build linux

package session

import "golang.org/x/sys/unix"

// pendingInput returns the number of bytes waiting to be read on fd.
func pendingInput(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCINQ)
}
