// Package session runs a child process on a pseudo-terminal and
// connects it to the host terminal through the Wyse60 emulator.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/config"
	"github.com/bdwalton/wy60/keys"
	"github.com/bdwalton/wy60/recorder"
	"github.com/bdwalton/wy60/render"
	"github.com/bdwalton/wy60/vt"
	"golang.org/x/term"
)

// Exit codes.
const (
	EXIT_FAILURE  = 127 // start-up or configuration failure
	EXIT_SIGNAL   = 126 // terminated by a signal
	EXIT_NOSTATUS = 125 // the child's status couldn't be obtained
	EXIT_USAGE    = 1
)

// ExitError is a fatal error. The program prints it once the terminal
// has been restored and exits with Code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func fatal(code int, format string, args ...any) error {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode returns the exit code for err: 0 for nil, Code for an
// ExitError and EXIT_FAILURE otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return EXIT_FAILURE
}

type Options struct {
	Config  *config.Config
	Command string   // run instead of the shell
	Args    []string // passed to the shell or command
	Login   bool     // start the shell as a login shell
	Record  string   // file to record the session to
}

type Session struct {
	opts Options

	in, out *os.File
	inFd    int
	outFd   int
	orig    *term.State // host terminal modes before we started

	tbl   *caps.Table
	r     *render.Renderer
	emu   *vt.Emulator
	trie  *keys.Trie
	tr    *keys.Translator
	vtCur bool // host answers ESC [ 6 n
	wyCur bool // host answers ESC b

	origCols, origRows int
	resized            bool

	cmd      *exec.Cmd
	ptmx     *os.File
	childIn  int // fd keyboard input is written to
	childOut int // fd child output is read from
	utmp     bool

	sigs       chan os.Signal
	sigR, sigW *os.File

	rec     *recorder.Writer
	recFile *os.File

	extra []byte // keyboard input read while waiting for a reply
}

// New prepares a session on the process's terminal. The host terminal
// is not touched until Init.
func New(opts Options) (*Session, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	host := os.Getenv("TERM")
	tbl, err := caps.Load(host)
	if err != nil {
		return nil, fatal(EXIT_FAILURE, "Cannot load capabilities of %q: %v", host, err)
	}

	s := newSession(opts, tbl, os.Stdin, os.Stdout)
	cols, rows, err := term.GetSize(s.outFd)
	if err != nil || cols <= 0 || rows <= 0 {
		return nil, fatal(EXIT_FAILURE, "Cannot determine terminal size")
	}
	if err := s.setup(cols, rows); err != nil {
		return nil, err
	}
	return s, nil
}

func newSession(opts Options, tbl *caps.Table, in, out *os.File) *Session {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	return &Session{
		opts:     opts,
		in:       in,
		out:      out,
		inFd:     int(in.Fd()),
		outFd:    int(out.Fd()),
		tbl:      tbl,
		childIn:  -1,
		childOut: -1,
	}
}

// setup builds the renderer, emulator and keyboard translator for a
// host of the given size.
func (s *Session) setup(cols, rows int) error {
	cfg := s.opts.Config

	s.origCols, s.origRows = cols, rows
	s.r = render.New(s.out, s.tbl, cols, rows)
	if err := s.r.SetCharset(cfg.Charset); err != nil {
		return fatal(EXIT_FAILURE, "%v", err)
	}
	s.emu = vt.New(s.r, []byte(cfg.Answerback), s)
	s.trie = keys.Build(s.tbl, cfg.Keys)
	s.tr = keys.NewTranslator(s.trie)
	slog.Debug("keyboard", "sequences", s.trie.Len())
	return nil
}

func (s *Session) Emulator() *vt.Emulator {
	return s.emu
}

// RequestGeometry asks the host to change its window size. Only VT
// style hosts understand the request.
func (s *Session) RequestGeometry(cols, rows int) bool {
	if !s.vtCur {
		slog.Debug("can't resize host", "cols", cols, "rows", rows)
		return false
	}
	s.r.RequestSize(cols, rows)
	s.resized = true
	s.setChildSize(cols, rows)
	return true
}

// Close restores the host terminal and collects the child. It returns
// the child's exit code.
func (s *Session) Close() int {
	if s.sigs != nil {
		signal.Stop(s.sigs)
		close(s.sigs)
		s.sigs = nil
	}
	if s.orig != nil {
		s.sendResetStrings()
		if s.resized {
			if cols, rows, err := term.GetSize(s.outFd); err != nil || cols != s.origCols || rows != s.origRows {
				s.r.RequestSize(s.origCols, s.origRows)
			}
		}
		s.r.Flush()
		if err := term.Restore(s.inFd, s.orig); err != nil {
			slog.Error("couldn't restore terminal", "err", err)
		}
		s.orig = nil
	}

	if s.recFile != nil {
		s.recFile.Close()
		s.recFile = nil
	}
	if s.utmp {
		if err := rmUtmp(s.ptmx); err != nil {
			slog.Debug("couldn't remove utmp entry", "err", err)
		}
		s.utmp = false
	}
	if s.ptmx != nil {
		s.ptmx.Close()
		s.ptmx = nil
	}
	for _, f := range []*os.File{s.sigR, s.sigW} {
		if f != nil {
			f.Close()
		}
	}
	s.sigR, s.sigW = nil, nil

	return s.wait()
}
