package vt

import (
	"log/slog"

	"github.com/bdwalton/wy60/screen"
)

// moveTo places the cursor at (x, y), clamped to the page.
func (e *Emulator) moveTo(x, y int) {
	p := e.scr.Page()
	p.Move(x, y)
	x, y = p.Cursor()
	e.r.MoveCursor(x, y)
}

// scrollTo is moveTo, except that a row above or below the page
// scrolls the page content down or up to bring the row into view.
func (e *Emulator) scrollTo(x, y int) {
	p := e.scr.Page()
	h := p.Height()
	switch {
	case y < 0:
		p.Scroll(p.Full(), 0, -y, screen.BlankCell)
		e.r.SetAttributes(screen.ATTR_NORMAL)
	case y >= h:
		p.Scroll(p.Full(), 0, h-1-y, screen.BlankCell)
		e.r.SetAttributes(screen.ATTR_NORMAL)
	}
	e.r.ScrollTo(x, y)
	p.Move(x, y)
}

// print writes a printable byte at the cursor and advances it.
func (e *Emulator) print(b byte) {
	p := e.scr.Page()
	x, y := p.Cursor()
	attr := e.attrs()
	if e.graphics || e.state == STATE_GRAPHICS_CHARACTER {
		attr |= screen.ATTR_GRAPHICS
	}

	if x == p.Width()-1 && y == p.Height()-1 {
		if e.scr.WriteProtect() {
			e.wrapProtectedCorner(b, attr)
			return
		}
		// Scroll first so the host never writes its last cell.
		e.scrollTo(x, y+1)
		e.moveTo(x, y-1)
	}

	if !e.scr.Put(b, attr, e.insert) {
		e.advance(false)
		return
	}

	e.r.SetAttributes(attr)
	if e.insert {
		e.r.InsertBeforePut()
	}
	switch {
	case attr&screen.ATTR_BLANK != 0:
		e.r.PutChar(' ')
	case attr&screen.ATTR_GRAPHICS != 0:
		e.r.PutGraphics(b)
	default:
		e.r.PutChar(b)
	}
	e.advance(true)
}

// advance moves the cursor one cell right, wrapping to the start of
// the next row. drawn says whether the host cursor already moved.
func (e *Emulator) advance(drawn bool) {
	p := e.scr.Page()
	x, y := p.Cursor()
	if x+1 < p.Width() {
		p.Move(x+1, y)
		if !drawn {
			e.r.MoveCursor(x+1, y)
		}
		return
	}

	if drawn {
		e.r.Wrapped()
	}
	p.Move(0, y+1)
	x, y = p.Cursor()
	e.r.ForceCursor(x, y)
}

// wrapProtectedCorner writes the bottom right cell while write
// protection is on. The terminal doesn't scroll in this mode: the
// cursor wraps to home and the page is repainted from the model.
func (e *Emulator) wrapProtectedCorner(b byte, attr screen.Attr) {
	slog.Debug("decode", "cmd", "protected corner wrap")
	e.scr.Put(b, attr, e.insert)
	e.scr.Move(0, 0)
	e.r.Redraw(e.scr.Page(), e.attrs())
}
