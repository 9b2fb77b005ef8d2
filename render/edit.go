package render

import "github.com/bdwalton/wy60/caps"

// ClearScreen clears the host screen and homes the cursor.
func (r *Renderer) ClearScreen() {
	if !r.putCap(caps.CLEAR_SCREEN) {
		r.ForceCursor(0, 0)
		r.ClearEos()
	}
	r.x, r.y = 0, 0
}

// ClearEol clears from the cursor to the end of the line.
func (r *Renderer) ClearEol() {
	if r.putCap(caps.CLR_EOL) {
		return
	}

	x, y := r.x, r.y
	for i := x; i < r.width-1; i++ {
		r.out.WriteByte(' ')
	}
	// The last column is filled by inserting, so the terminal
	// can't wrap or scroll.
	if !r.putCap(caps.INSERT_CHARACTER) {
		if !r.insert {
			r.putCap(caps.ENTER_INSERT_MODE)
		}
		r.out.WriteByte(' ')
		if !r.insert {
			r.putCap(caps.EXIT_INSERT_MODE)
		}
	}
	r.ForceCursor(x, y)
}

// ClearEos clears from the cursor to the end of the screen.
func (r *Renderer) ClearEos() {
	if r.putCap(caps.CLR_EOS) {
		return
	}

	x, y := r.x, r.y
	for i := y; i < r.height; i++ {
		if i > y {
			r.ForceCursor(0, i)
		}
		r.ClearEol()
	}
	r.ForceCursor(x, y)
}

// InsertLines opens n blank lines at the cursor line.
func (r *Renderer) InsertLines(n int) {
	r.lines(n, caps.INSERT_LINE, caps.PARM_INSERT_LINE)
}

// DeleteLines removes n lines starting at the cursor line.
func (r *Renderer) DeleteLines(n int) {
	r.lines(n, caps.DELETE_LINE, caps.PARM_DELETE_LINE)
}

func (r *Renderer) lines(n int, single, parm string) {
	if n < 1 {
		return
	}
	if n == 1 && r.putCap(single) {
		return
	}
	if r.putCapN(parm, n) {
		return
	}
	for i := 0; i < n; i++ {
		r.putCap(single)
	}
}

// InsertChar opens a blank cell at the cursor, leaving the cursor
// where it is.
func (r *Renderer) InsertChar() {
	if r.putCap(caps.INSERT_CHARACTER) {
		return
	}
	if r.putCapN(caps.PARM_INSERT_CHARACTER, 1) {
		return
	}

	x, y := r.x, r.y
	if !r.insert {
		r.putCap(caps.ENTER_INSERT_MODE)
	}
	r.PutChar(' ')
	if !r.insert {
		r.putCap(caps.EXIT_INSERT_MODE)
	}
	r.MoveCursor(x, y)
}

// InsertBeforePut prepares for writing a character in insert mode on
// terminals that have no insert mode of their own.
func (r *Renderer) InsertBeforePut() {
	if !r.caps.Has(caps.ENTER_INSERT_MODE) {
		r.putCap(caps.INSERT_CHARACTER)
	}
}

func (r *Renderer) DeleteChar() {
	r.putCap(caps.DELETE_CHARACTER)
}

// SetInsertMode turns the host's insert mode on or off.
func (r *Renderer) SetInsertMode(on bool) {
	switch {
	case on:
		r.putCap(caps.ENTER_INSERT_MODE)
	case r.insert:
		r.putCap(caps.EXIT_INSERT_MODE)
	}
	r.insert = on
}

func (r *Renderer) InsertMode() bool {
	return r.insert
}
