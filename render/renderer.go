// Package render turns changes of the screen model into the escape
// sequences understood by the host terminal, as described by its
// capability table.
package render

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/screen"
)

const OUTPUT_BUFFER_SIZE = 16384

type Renderer struct {
	caps          *caps.Table
	out           *bufio.Writer
	width, height int

	// Where we believe the host cursor is and which attributes
	// were last sent to the host.
	x, y int
	attr screen.Attr

	insert  bool // host insert mode is on
	charset *charset
}

func New(w io.Writer, t *caps.Table, width, height int) *Renderer {
	if width < 1 || height < 1 {
		width, height = screen.DEF_COLS, screen.DEF_ROWS
	}
	return &Renderer{
		caps:   t,
		out:    bufio.NewWriterSize(w, OUTPUT_BUFFER_SIZE),
		width:  width,
		height: height,
		attr:   UNKNOWN_ATTR,
	}
}

func (r *Renderer) Caps() *caps.Table {
	return r.caps
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// SetSize records a new host window size.
func (r *Renderer) SetSize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	r.width, r.height = width, height
	r.x = clamp(r.x, 0, width-1)
	r.y = clamp(r.y, 0, height-1)
}

// Cursor returns where the renderer believes the host cursor is.
func (r *Renderer) Cursor() (int, int) {
	return r.x, r.y
}

// SetCursor tells the renderer where the host cursor is, e.g. after
// asking the terminal.
func (r *Renderer) SetCursor(x, y int) {
	r.x = clamp(x, 0, r.width-1)
	r.y = clamp(y, 0, r.height-1)
}

func (r *Renderer) Flush() error {
	return r.out.Flush()
}

// Write sends p to the host unchanged.
func (r *Renderer) Write(p []byte) (int, error) {
	return r.out.Write(p)
}

func (r *Renderer) put(s string) {
	r.out.WriteString(s)
}

func (r *Renderer) putCap(name string) bool {
	s, ok := r.caps.Str(name)
	if ok {
		r.put(s)
	}
	return ok
}

func (r *Renderer) putCapN(name string, args ...int) bool {
	s, ok := r.caps.Expand(name, args...)
	if ok {
		r.put(s)
	}
	return ok
}

// repeat returns the named capability n times over.
func (r *Renderer) repeat(name string, n int) (string, bool) {
	s, ok := r.caps.Str(name)
	if !ok {
		return "", false
	}
	return strings.Repeat(s, n), true
}

// PutChar writes a printable character at the cursor and advances
// the cursor by one. Reaching the right margin is left to the caller,
// who knows whether the host wrapped.
func (r *Renderer) PutChar(ch byte) {
	if ch >= 0x80 && r.charset != nil {
		r.out.Write(r.charset.decode(ch))
	} else {
		r.out.WriteByte(ch)
	}
	r.x += 1
}

// Wrapped corrects the cursor after a character was written in the
// last column: terminals with automatic margins and no newline glitch
// are now at the start of the next line, all others stay put.
func (r *Renderer) Wrapped() {
	if r.x < r.width {
		return
	}
	if r.caps.Flag(caps.AUTO_RIGHT_MARGIN) && !r.caps.Flag(caps.EAT_NEWLINE_GLITCH) {
		r.x = 0
		r.y = min(r.y+1, r.height-1)
	} else {
		r.x = r.width - 1
	}
}

func (r *Renderer) Bell() {
	r.putCap(caps.BELL)
}

// CursorVisible shows or hides the cursor. With normal set, the
// cursor is also returned to its normal appearance.
func (r *Renderer) CursorVisible(visible, normal bool) {
	if !visible {
		r.putCap(caps.CURSOR_INVISIBLE)
		return
	}
	r.putCap(caps.CURSOR_VISIBLE)
	if normal {
		r.putCap(caps.CURSOR_NORMAL)
	}
}

// RequestSize asks an xterm compatible terminal to resize its window.
func (r *Renderer) RequestSize(cols, rows int) {
	slog.Debug("requesting window size", "cols", cols, "rows", rows)
	r.put("\x1b[8;" + itoa(rows) + ";" + itoa(cols) + "t")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
