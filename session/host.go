package session

import (
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/bdwalton/wy60/caps"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// cup forms that tell us how to ask the host for its cursor position.
const (
	VT_CUP = "\x1b[%i%p1%d;%p2%dH"
	WY_CUP = "\x1b=%p1%' '%+%c%p2%' '%+%c"
)

const (
	DEVICE_ATTRIBUTES = "\x1b[0c"
	VT_CURSOR_QUERY   = "\x1b[6n"
	WY_CURSOR_QUERY   = "\x1bb"

	ATTRIBUTES_TIMEOUT = 500 * time.Millisecond
	CURSOR_TIMEOUT     = time.Second
)

// Init takes over the host terminal: it is reset, switched to raw
// mode, and the cursor position is learned where the host can tell.
// Otherwise the screen is cleared.
func (s *Session) Init() error {
	state, err := term.GetState(s.inFd)
	if err != nil {
		return fatal(EXIT_FAILURE, "Cannot read terminal modes: %v", err)
	}
	s.orig = state

	s.sendResetStrings()
	if _, err := term.MakeRaw(s.inFd); err != nil {
		return fatal(EXIT_FAILURE, "Cannot switch terminal to raw mode: %v", err)
	}
	s.putCap(caps.ENA_ACS)

	cup, _ := s.tbl.Str(caps.CURSOR_ADDRESS)
	switch cup {
	case VT_CUP:
		if resp, ok := s.query(DEVICE_ATTRIBUTES, ATTRIBUTES_TIMEOUT, 0x1b, 'c', 0); ok && len(resp) > 0 {
			s.vtCur = true
			if !s.queryCursor() {
				s.vtCur = false
			}
		}
	case WY_CUP:
		s.wyCur = true
		if !s.queryCursor() {
			s.wyCur = false
		}
	}
	if !s.vtCur && !s.wyCur {
		slog.Debug("host cursor position unknown")
		s.emu.Screen().Move(0, 0)
		if s.tbl.Has(caps.CLEAR_SCREEN) {
			s.r.ClearScreen()
		} else {
			s.r.ForceCursor(0, 0)
		}
	}

	if err := s.tbl.Sufficient(); err != nil {
		return fatal(EXIT_FAILURE, "Terminal has insufficient capabilities: %v", err)
	}
	return s.r.Flush()
}

func (s *Session) putCap(name string) bool {
	v, ok := s.tbl.Str(name)
	if ok {
		s.r.Write([]byte(v))
	}
	return ok
}

// sendResetStrings puts the host into a known state, preferring the
// reset strings over the init strings.
func (s *Session) sendResetStrings() {
	if prog, ok := s.tbl.Str(caps.INIT_PROG); ok {
		s.r.Flush()
		if err := exec.Command("/bin/sh", "-c", prog).Run(); err != nil {
			slog.Debug("init program failed", "prog", prog, "err", err)
		}
	}

	either := func(a, b string) {
		if !s.putCap(a) {
			s.putCap(b)
		}
	}
	either(caps.RESET_1STRING, caps.INIT_1STRING)
	either(caps.RESET_2STRING, caps.INIT_2STRING)
	for _, c := range []string{caps.RESET_FILE, caps.INIT_FILE} {
		name, ok := s.tbl.Str(c)
		if !ok {
			continue
		}
		b, err := os.ReadFile(name)
		if err != nil {
			slog.Debug("can't read reset file", "file", name, "err", err)
			continue
		}
		s.r.Write(b)
		break
	}
	either(caps.RESET_3STRING, caps.INIT_3STRING)

	s.r.InvalidateAttributes()
}

// queryCursor asks the host where its cursor is and moves the model's
// cursor there.
func (s *Session) queryCursor() bool {
	var x, y int
	var ok bool
	switch {
	case s.vtCur:
		var resp []byte
		if resp, ok = s.query(VT_CURSOR_QUERY, CURSOR_TIMEOUT, 0x1b, 'R', 0); ok {
			x, y, ok = parseVTPosition(resp)
		}
	case s.wyCur:
		var resp []byte
		if resp, ok = s.query(WY_CURSOR_QUERY, CURSOR_TIMEOUT, -1, 'C', '\r'); ok {
			x, y, ok = parseWyPosition(resp)
		}
	}
	if !ok {
		return false
	}

	slog.Debug("host cursor", "x", x, "y", y)
	s.r.SetCursor(x, y)
	s.emu.Screen().Move(x, y)
	return true
}

// parseVTPosition decodes ESC [ row ; col R.
func parseVTPosition(resp []byte) (int, int, bool) {
	resp = bytes.TrimPrefix(resp, []byte("\x1b["))
	resp = bytes.TrimSuffix(resp, []byte("R"))
	row, col, ok := bytes.Cut(resp, []byte(";"))
	if !ok {
		return 0, 0, false
	}
	return position(col, row)
}

// parseWyPosition decodes row R col C.
func parseWyPosition(resp []byte) (int, int, bool) {
	resp = bytes.TrimSuffix(resp, []byte("C"))
	row, col, ok := bytes.Cut(resp, []byte("R"))
	if !ok {
		return 0, 0, false
	}
	return position(col, row)
}

func position(col, row []byte) (int, int, bool) {
	x, err := strconv.Atoi(string(col))
	if err != nil || x < 1 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(string(row))
	if err != nil || y < 1 {
		return 0, 0, false
	}
	return x - 1, y - 1, true
}

// responseScanner picks a reply out of keyboard input. The reply
// starts with first and ends with last; bytes around it are user input.
type responseScanner struct {
	first   int // -1 matches any byte
	last    byte
	discard int // dropped when it directly follows the reply, -1 for none

	started, done bool
	resp          []byte
}

// feed consumes p and returns the bytes that are not part of the
// reply.
func (rs *responseScanner) feed(p []byte) []byte {
	var rest []byte
	for i := 0; i < len(p); i++ {
		b := p[i]
		if rs.done {
			rest = append(rest, p[i:]...)
			break
		}
		if !rs.started {
			if rs.first >= 0 && int(b) != rs.first {
				rest = append(rest, b)
				continue
			}
			rs.started = true
		}
		rs.resp = append(rs.resp, b)
		if b == rs.last {
			rs.done = true
			for i+1 < len(p) && rs.discard >= 0 && int(p[i+1]) == rs.discard {
				i++
			}
		}
	}
	return rest
}

// query sends q to the host and waits up to timeout for the reply.
// Keyboard input that arrives meanwhile is kept for later.
func (s *Session) query(q string, timeout time.Duration, first int, last byte, discard int) ([]byte, bool) {
	s.extra = append(s.extra, s.readAvailable()...)

	s.r.Write([]byte(q))
	if err := s.r.Flush(); err != nil {
		return nil, false
	}

	rs := &responseScanner{first: first, last: last, discard: discard}
	deadline := time.Now().Add(timeout)
	fds := []unix.PollFd{{Fd: int32(s.inFd), Events: unix.POLLIN}}
	for !rs.done {
		wait := time.Until(deadline)
		if wait <= 0 {
			break
		}
		n, err := unix.Poll(fds, int(wait/time.Millisecond))
		if err == unix.EINTR {
			continue
		}
		if err != nil || n == 0 {
			break
		}
		p := s.readAvailable()
		if len(p) == 0 {
			break
		}
		s.extra = append(s.extra, rs.feed(p)...)
	}

	slog.Debug("host reply", "query", q, "reply", rs.resp, "complete", rs.done)
	return rs.resp, rs.done
}

// readAvailable reads whatever keyboard input can be read without
// blocking.
func (s *Session) readAvailable() []byte {
	n, err := pendingInput(s.inFd)
	if err != nil || n <= 0 {
		return nil
	}
	buf := make([]byte, n)
	n, err = unix.Read(s.inFd, buf)
	if err != nil || n <= 0 {
		return nil
	}
	return buf[:n]
}
