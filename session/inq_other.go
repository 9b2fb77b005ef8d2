//go:build !linux

package session

import "golang.org/x/sys/unix"

func pendingInput(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.FIONREAD)
}
