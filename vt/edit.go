package vt

import "github.com/bdwalton/wy60/screen"

// insertLine opens a blank row at the cursor row and moves the cursor
// to its start.
func (e *Emulator) insertLine() {
	p := e.scr.Page()
	_, y := p.Cursor()
	p.Scroll(screen.Rect{X0: 0, Y0: y, X1: p.Width(), Y1: p.Height()}, 0, 1, screen.BlankCell)
	p.Move(0, y)
	e.r.InsertLines(1)
	e.r.ForceCursor(0, y)
}

func (e *Emulator) deleteLine() {
	p := e.scr.Page()
	_, y := p.Cursor()
	p.Scroll(screen.Rect{X0: 0, Y0: y, X1: p.Width(), Y1: p.Height()}, 0, -1, screen.BlankCell)
	p.Move(0, y)
	e.r.DeleteLines(1)
	e.r.ForceCursor(0, y)
}

func (e *Emulator) insertChar() {
	p := e.scr.Page()
	x, y := p.Cursor()
	p.Scroll(screen.Rect{X0: x, Y0: y, X1: p.Width(), Y1: y + 1}, 1, 0, screen.BlankCell)
	e.r.InsertChar()
}

func (e *Emulator) deleteChar() {
	p := e.scr.Page()
	x, y := p.Cursor()
	p.Scroll(screen.Rect{X0: x, Y0: y, X1: p.Width(), Y1: y + 1}, -1, 0, screen.BlankCell)
	e.r.DeleteChar()
}

func (e *Emulator) clearEol() {
	p := e.scr.Page()
	x, y := p.Cursor()
	e.clear(e.r.ClearEol, screen.Rect{X0: x, Y0: y, X1: p.Width(), Y1: y + 1})
}

func (e *Emulator) clearEos() {
	p := e.scr.Page()
	x, y := p.Cursor()
	e.clear(e.r.ClearEos,
		screen.Rect{X0: x, Y0: y, X1: p.Width(), Y1: y + 1},
		screen.Rect{X0: 0, Y0: y + 1, X1: p.Width(), Y1: p.Height()})
}

// clear blanks rects in the model. Under write protection protected
// cells survive, and the host is repainted from the model instead of
// cleared with host.
func (e *Emulator) clear(host func(), rects ...screen.Rect) {
	p := e.scr.Page()
	kept := false
	for _, r := range rects {
		kept = p.Clear(r, screen.BlankCell, e.scr.WriteProtect()) || kept
	}
	if !kept {
		e.r.SetAttributes(screen.ATTR_NORMAL)
		host()
		return
	}
	for _, r := range rects {
		e.r.RedrawRect(p, r, e.attrs())
	}
}

// clearScreen blanks the whole page and homes the cursor.
func (e *Emulator) clearScreen() {
	p := e.scr.Page()
	p.Clear(p.Full(), screen.BlankCell, false)
	p.Move(0, 0)
	e.r.SetAttributes(screen.ATTR_NORMAL)
	e.r.ClearScreen()
}

// clearUnprotected is clearScreen, except protected cells are kept.
func (e *Emulator) clearUnprotected() {
	p := e.scr.Page()
	if !p.HasProtected(p.Full()) {
		e.clearScreen()
		return
	}
	p.Clear(p.Full(), screen.BlankCell, true)
	p.Move(0, 0)
	e.r.Redraw(p, e.attrs())
}
