package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bdwalton/wy60/recorder"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// A key sequence that stays incomplete this long is sent as is.
const KEY_TIMEOUT = 200 * time.Millisecond

const READ_BUFFER_SIZE = 8192

// Signals that end the session. SIGWINCH is handled on its own.
var TERMINATING = []os.Signal{
	unix.SIGHUP, unix.SIGINT, unix.SIGQUIT, unix.SIGTERM,
	unix.SIGUSR1, unix.SIGUSR2, unix.SIGPIPE, unix.SIGALRM,
	unix.SIGXCPU, unix.SIGXFSZ, unix.SIGVTALRM, unix.SIGPROF,
}

// Record starts recording the session to path.
func (s *Session) Record(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fatal(EXIT_FAILURE, "Cannot create recording: %v", err)
	}
	rec, err := recorder.NewWriter(f)
	if err != nil {
		f.Close()
		return fatal(EXIT_FAILURE, "Cannot write recording: %v", err)
	}
	s.rec, s.recFile = rec, f
	return nil
}

func (s *Session) record(d recorder.Direction, p []byte) {
	if s.rec == nil {
		return
	}
	if err := s.rec.Record(d, p); err != nil {
		slog.Error("recording failed", "err", err)
		s.rec = nil
	}
}

// catchSignals delivers signals to the loop through a pipe, so they
// are seen by the same poll as the input.
func (s *Session) catchSignals() error {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("couldn't open a pipe: %w", err)
	}
	s.sigR, s.sigW = r, w

	s.sigs = make(chan os.Signal, 16)
	signal.Notify(s.sigs, append(TERMINATING, unix.SIGWINCH)...)
	go func(c chan os.Signal, w *os.File) {
		for sig := range c {
			if n, ok := sig.(syscall.Signal); ok {
				w.Write([]byte{byte(n)})
			}
		}
	}(s.sigs, w)
	return nil
}

// Run passes keyboard input to the child and child output to the
// emulator until either side closes.
func (s *Session) Run() error {
	if s.childIn < 0 {
		return errors.New("no child running")
	}
	if s.sigR == nil {
		if err := s.catchSignals(); err != nil {
			return err
		}
	}

	fds := []unix.PollFd{
		{Fd: int32(s.inFd), Events: unix.POLLIN},
		{Fd: int32(s.childOut), Events: unix.POLLIN},
		{Fd: int32(s.sigR.Fd()), Events: unix.POLLIN},
	}
	buf := make([]byte, READ_BUFFER_SIZE)

	for {
		if len(s.extra) > 0 {
			extra := s.extra
			s.extra = nil
			s.keyboard(extra)
		}
		if err := s.r.Flush(); err != nil {
			return fmt.Errorf("writing to terminal: %w", err)
		}

		timeout := -1
		if s.tr.Pending() {
			timeout = int(KEY_TIMEOUT / time.Millisecond)
		}
		n, err := unix.Poll(fds, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		if n == 0 {
			s.toChild(s.tr.Flush())
			continue
		}

		if fds[2].Revents&unix.POLLIN != 0 {
			if err := s.signals(int(fds[2].Fd)); err != nil {
				return err
			}
		}
		if fds[0].Revents&unix.POLLIN != 0 {
			n, err := unix.Read(s.inFd, buf)
			if n <= 0 {
				slog.Debug("keyboard closed", "err", err)
				return nil
			}
			s.keyboard(buf[:n])
		}
		if fds[1].Revents&unix.POLLIN != 0 {
			n, err := unix.Read(s.childOut, buf)
			if n <= 0 {
				slog.Debug("child closed", "err", err)
				return nil
			}
			s.output(buf[:n])
		}
		if (fds[0].Revents|fds[1].Revents)&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			s.r.Flush()
			return nil
		}
	}
}

func (s *Session) signals(fd int) error {
	var b [16]byte
	n, err := unix.Read(fd, b[:])
	if err != nil {
		return nil
	}
	for _, sig := range b[:n] {
		if syscall.Signal(sig) != unix.SIGWINCH {
			return fatal(EXIT_SIGNAL, "Exiting on signal %d", sig)
		}
		s.windowChanged()
	}
	return nil
}

func (s *Session) windowChanged() {
	cols, rows, err := term.GetSize(s.outFd)
	if err != nil || cols <= 0 || rows <= 0 {
		slog.Debug("can't read window size", "err", err)
		return
	}
	s.setChildSize(cols, rows)
	s.emu.Resize(cols, rows)
}

func (s *Session) keyboard(p []byte) {
	s.record(recorder.INPUT, p)
	s.toChild(s.tr.Write(p))
}

func (s *Session) output(p []byte) {
	s.record(recorder.OUTPUT, p)
	s.toChild(s.emu.Write(p))
}

func (s *Session) toChild(p []byte) {
	for len(p) > 0 {
		n, err := unix.Write(s.childIn, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			slog.Error("writing to child", "err", err)
			return
		}
		p = p[n:]
	}
}

// emulatorWriter feeds replayed child output to the emulator. Replies
// have nobody to go to and are dropped.
type emulatorWriter struct {
	s *Session
}

func (w emulatorWriter) Write(p []byte) (int, error) {
	w.s.emu.Write(p)
	if err := w.s.r.Flush(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Replay shows a recorded session instead of running a child.
func (s *Session) Replay(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fatal(EXIT_FAILURE, "Cannot open recording: %v", err)
	}
	defer f.Close()

	rd, err := recorder.NewReader(f)
	if err != nil {
		return fatal(EXIT_FAILURE, "Cannot read recording %q: %v", path, err)
	}
	slog.Debug("replaying", "file", path, "recorded", rd.Start())

	if err := recorder.Replay(ctx, rd, emulatorWriter{s}); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		return fatal(EXIT_FAILURE, "Replay of %q failed: %v", path, err)
	}
	return nil
}
