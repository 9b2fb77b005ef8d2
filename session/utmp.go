package session

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var errNoUtempter = errors.New("no utempter helper found")

// utempter returns the first helper in utempterPaths that exists.
func utempter() (string, error) {
	for _, p := range utempterPaths {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", errNoUtempter
}

// runUtempter runs the helper with the pty master f on its standard
// input, which is how it learns which line to record.
func runUtempter(f *os.File, args ...string) error {
	path, err := utempter()
	if err != nil {
		return err
	}
	cmd := exec.Command(path, args...)
	cmd.Stdin = f
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s %s: %w (%s)", path, args[0], err, bytes.TrimSpace(out))
	}
	return nil
}

// addUtmp registers the child's pty as a login session under the host
// name "wy60[pid]".
func addUtmp(f *os.File) error {
	return runUtempter(f, "add", fmt.Sprintf("wy60[%d]", os.Getpid()))
}

func rmUtmp(f *os.File) error {
	if f == nil {
		return nil
	}
	return runUtempter(f, "del")
}
