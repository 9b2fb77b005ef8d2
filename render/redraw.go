package render

import (
	"log/slog"

	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/screen"
)

// Redraw clears the host screen and paints every non-blank cell of p.
// Afterwards the host shows attr and the cursor sits at p's cursor.
func (r *Renderer) Redraw(p *screen.Page, attr screen.Attr) {
	slog.Debug("redraw", "width", p.Width(), "height", p.Height())
	r.SetAttributes(screen.ATTR_NORMAL)
	r.ClearScreen()
	r.paint(p, p.Full(), true, attr)
}

// RedrawRect repaints every cell of p inside rect.
func (r *Renderer) RedrawRect(p *screen.Page, rect screen.Rect, attr screen.Attr) {
	r.paint(p, rect, false, attr)
}

func (r *Renderer) paint(p *screen.Page, rect screen.Rect, skipBlank bool, attr screen.Attr) {
	insert := r.insert
	if insert {
		r.SetInsertMode(false)
	}

	force := false
	rect.X1 = min(rect.X1, r.width, p.Width())
	rect.Y1 = min(rect.Y1, r.height, p.Height())
	for y := max(rect.Y0, 0); y < rect.Y1; y++ {
		for x := max(rect.X0, 0); x < rect.X1; x++ {
			c, err := p.Cell(x, y)
			if err != nil || (skipBlank && c.Blank()) {
				continue
			}
			if x == r.width-1 && y == r.height-1 && r.cornerScrolls() {
				r.paintCorner(p, c)
				force = true
				continue
			}

			if force {
				r.ForceCursor(x, y)
				force = false
			} else {
				r.MoveCursor(x, y)
			}
			r.SetAttributes(c.Attr)
			r.drawCell(c)
			if r.x >= r.width {
				r.Wrapped()
				force = true
			}
		}
	}

	r.SetAttributes(attr)
	if insert {
		r.SetInsertMode(true)
	}
	cx, cy := p.Cursor()
	r.ForceCursor(cx, cy)
}

// cornerScrolls reports whether writing the bottom right cell makes
// the host scroll.
func (r *Renderer) cornerScrolls() bool {
	return r.caps.Flag(caps.AUTO_RIGHT_MARGIN) && !r.caps.Flag(caps.EAT_NEWLINE_GLITCH)
}

// paintCorner fills the bottom right cell without scrolling: the
// glyph is written one cell to the left and pushed into place by
// inserting its left neighbour in front of it.
func (r *Renderer) paintCorner(p *screen.Page, c screen.Cell) {
	x, y := r.width-1, r.height-1
	left, err := p.Cell(x-1, y)
	if err != nil || !(r.caps.Has(caps.INSERT_CHARACTER) || r.caps.Has(caps.ENTER_INSERT_MODE)) {
		slog.Debug("can't paint bottom right cell", "cell", c)
		return
	}

	r.ForceCursor(x-1, y)
	r.SetAttributes(c.Attr)
	r.drawCell(c)
	r.MoveCursor(x-1, y)
	r.SetAttributes(left.Attr)
	if r.putCap(caps.INSERT_CHARACTER) {
		r.drawCell(left)
	} else {
		r.SetInsertMode(true)
		r.drawCell(left)
		r.SetInsertMode(false)
	}
}

func (r *Renderer) drawCell(c screen.Cell) {
	switch {
	case c.Attr&screen.ATTR_BLANK != 0:
		r.PutChar(' ')
	case c.Attr&screen.ATTR_GRAPHICS != 0:
		r.PutGraphics(c.Ch)
	case c.Ch < ' ' || c.Ch == 0x7f:
		r.PutChar(' ')
	default:
		r.PutChar(c.Ch)
	}
}
