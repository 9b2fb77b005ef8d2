// Package vt decodes the byte stream a Wyse60 application writes. Each
// command updates the screen model and is mirrored onto the host
// terminal through the renderer.
package vt

import (
	"log/slog"

	"github.com/bdwalton/wy60/render"
	"github.com/bdwalton/wy60/screen"
)

// Resizer changes the host window geometry on behalf of the child. It
// reports whether the request was made.
type Resizer interface {
	RequestGeometry(cols, rows int) bool
}

type Emulator struct {
	state pState
	scr   *screen.Screen
	r     *render.Renderer

	normalAttr, protectedAttr screen.Attr

	protected bool // characters are written protected
	insert    bool
	graphics  bool

	targetRow, targetCol int

	// nominal is what the child last asked for, actual is the real
	// window.
	nomCols, nomRows int
	cols, rows       int

	answerback []byte
	resizer    Resizer
	reply      []byte
}

// New creates an emulator drawing through r. The screen model takes
// the renderer's size. An empty answerback means DEF_ANSWERBACK.
func New(r *render.Renderer, answerback []byte, rs Resizer) *Emulator {
	cols, rows := r.Size()
	if len(answerback) == 0 {
		answerback = []byte(DEF_ANSWERBACK)
	}
	return &Emulator{
		state:         STATE_NORMAL,
		scr:           screen.New(cols, rows),
		r:             r,
		normalAttr:    screen.ATTR_NORMAL,
		protectedAttr: screen.ATTR_REVERSE,
		nomCols:       cols,
		nomRows:       rows,
		cols:          cols,
		rows:          rows,
		answerback:    answerback,
		resizer:       rs,
	}
}

func (e *Emulator) Screen() *screen.Screen {
	return e.scr
}

func (e *Emulator) Renderer() *render.Renderer {
	return e.r
}

func (e *Emulator) State() pState {
	return e.state
}

// Geometry returns the real window size.
func (e *Emulator) Geometry() (int, int) {
	return e.cols, e.rows
}

// Nominal returns the window size the child asked for last.
func (e *Emulator) Nominal() (int, int) {
	return e.nomCols, e.nomRows
}

// Decode consumes one byte of child output. It returns the bytes, if
// any, the terminal sends back to the child in reply.
func (e *Emulator) Decode(b byte) []byte {
	transitions[e.state](e, b)
	if len(e.reply) == 0 {
		return nil
	}
	reply := e.reply
	e.reply = nil
	return reply
}

// Write decodes p and returns all replies.
func (e *Emulator) Write(p []byte) []byte {
	var replies []byte
	for _, b := range p {
		replies = append(replies, e.Decode(b)...)
	}
	return replies
}

// Resize records a new window size and repaints the host.
func (e *Emulator) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	slog.Debug("resize", "cols", cols, "rows", rows)
	e.cols, e.rows = cols, rows
	e.scr.Resize(cols, rows)
	e.r.SetSize(cols, rows)
	e.r.Redraw(e.scr.Page(), e.attrs())
}

// Redraw repaints the current page.
func (e *Emulator) Redraw() {
	e.r.Redraw(e.scr.Page(), e.attrs())
}

func (e *Emulator) respond(b ...byte) {
	e.reply = append(e.reply, b...)
}

// attrs returns the attributes for newly written characters. Protected
// characters carry the normal attributes too.
func (e *Emulator) attrs() screen.Attr {
	if e.protected {
		return e.normalAttr | e.protectedAttr | screen.ATTR_PROTECTED
	}
	return e.normalAttr
}

// setAttributes applies an attribute byte to whichever of the normal
// or protected attributes is in use.
func (e *Emulator) setAttributes(a screen.Attr) {
	a &= screen.ATTR_ALL
	if e.protected {
		e.protectedAttr = a
	} else {
		e.normalAttr = a
	}
}

func (e *Emulator) setInsertMode(on bool) {
	e.insert = on
	e.r.SetInsertMode(on)
}

func (e *Emulator) selectPage(n int) {
	if !e.scr.Select(n) {
		return
	}
	e.r.Redraw(e.scr.Page(), e.attrs())
}

func (e *Emulator) requestGeometry(cols, rows int) {
	if e.resizer == nil || (cols == e.cols && rows == e.rows) {
		return
	}
	if e.resizer.RequestGeometry(cols, rows) {
		e.nomCols, e.nomRows = cols, rows
	}
}
