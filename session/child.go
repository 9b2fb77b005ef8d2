package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// shell returns the program to run and the name it is started under.
// A login shell's name starts with '-'.
func shell(opts Options) (string, string) {
	if opts.Command != "" {
		return opts.Command, opts.Command
	}

	sh := os.Getenv("SHELL")
	if sh == "" {
		sh = opts.Config.Shell
	}
	name := filepath.Base(sh)
	if opts.Login {
		name = "-" + name
	}
	return sh, name
}

// childEnv returns env with TERM, LINES and COLUMNS replaced.
func childEnv(env []string, term string, cols, rows int) []string {
	set := map[string]string{
		"TERM":    term,
		"LINES":   fmt.Sprint(rows),
		"COLUMNS": fmt.Sprint(cols),
	}
	out := make([]string, 0, len(env)+len(set))
	for _, kv := range env {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := set[k]; !ok {
			out = append(out, kv)
		}
	}
	for _, k := range []string{"TERM", "LINES", "COLUMNS"} {
		out = append(out, k+"="+set[k])
	}
	return out
}

// StartChild runs the shell or command on a new pty sized like the
// host window.
func (s *Session) StartChild() error {
	cols, rows := s.emu.Geometry()
	path, name := shell(s.opts)

	cmd := exec.Command(path, s.opts.Args...)
	cmd.Args[0] = name
	cmd.Env = childEnv(os.Environ(), s.opts.Config.Term, cols, rows)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return fatal(EXIT_FAILURE, "Could not execute %q: %v", path, err)
	}
	slog.Debug("started child", "path", path, "name", name, "pid", cmd.Process.Pid)

	s.cmd = cmd
	s.ptmx = ptmx
	s.childIn = int(ptmx.Fd())
	s.childOut = s.childIn

	if s.opts.Login {
		if err := addUtmp(ptmx); err != nil {
			slog.Debug("couldn't add utmp entry", "err", err)
		} else {
			s.utmp = true
		}
	}
	return nil
}

func (s *Session) setChildSize(cols, rows int) {
	if s.ptmx == nil {
		return
	}
	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		slog.Error("couldn't set size on pty", "err", err)
	}
}

// wait collects the child and returns its exit code.
func (s *Session) wait() int {
	if s.cmd == nil {
		return 0
	}
	err := s.cmd.Wait()
	s.cmd = nil

	var ee *exec.ExitError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ee) && ee.ExitCode() >= 0:
		return ee.ExitCode()
	}
	slog.Debug("child status unknown", "err", err)
	return EXIT_NOSTATUS
}

// ExecShell replaces the process with the shell when we are started as
// a login shell inside a session that already emulates a Wyse60.
func ExecShell(opts Options) error {
	path, name := shell(opts)
	if !strings.ContainsRune(path, '/') {
		p, err := exec.LookPath(path)
		if err != nil {
			return fatal(EXIT_FAILURE, "Could not execute %q: %v", path, err)
		}
		path = p
	}

	slog.Debug("exec shell", "path", path, "name", name)
	err := unix.Exec(path, append([]string{name}, opts.Args...), os.Environ())
	return fatal(EXIT_FAILURE, "Could not execute %q: %v", path, err)
}
