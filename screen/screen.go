// Package screen holds the model of what the Wyse60 display shows: three
// pages of cells, each with its own cursor.
package screen

import "log/slog"

const (
	NUM_PAGES = 3
	DEF_COLS  = 80
	DEF_ROWS  = 24
)

type Screen struct {
	pages        [NUM_PAGES]*Page
	cur          int
	writeProtect bool
}

func New(width, height int) *Screen {
	if width < 1 || height < 1 {
		width, height = DEF_COLS, DEF_ROWS
	}
	s := &Screen{}
	for i := range s.pages {
		s.pages[i] = newPage(width, height)
	}
	return s
}

// Page returns the current page.
func (s *Screen) Page() *Page {
	return s.pages[s.cur]
}

func (s *Screen) PageNum() int {
	return s.cur
}

// Select makes page n current, clamped to the valid range. It reports
// whether the current page changed.
func (s *Screen) Select(n int) bool {
	n = clamp(n, 0, NUM_PAGES-1)
	if n == s.cur {
		return false
	}
	slog.Debug("select page", "from", s.cur, "to", n)
	s.cur = n
	return true
}

// Resize changes the visible size of every page.
func (s *Screen) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	for _, p := range s.pages {
		p.resize(width, height)
	}
}

func (s *Screen) WriteProtect() bool {
	return s.writeProtect
}

// SetWriteProtect controls whether plain writes may overwrite
// protected cells.
func (s *Screen) SetWriteProtect(on bool) {
	s.writeProtect = on
}

// Move sets the cursor of the current page.
func (s *Screen) Move(x, y int) {
	s.Page().Move(x, y)
}

// Put stores ch at the cursor of the current page without moving the
// cursor. In insert mode the rest of the row shifts right first. When
// write protection is on, a protected cell is only replaced by a
// protected write or in insert mode; Put reports whether the cell was
// written.
func (s *Screen) Put(ch byte, attr Attr, insert bool) bool {
	p := s.Page()
	c := p.cells[p.y][p.x]
	if s.writeProtect && !insert && c.Protected() && attr&ATTR_PROTECTED == 0 {
		return false
	}
	if insert {
		p.Scroll(Rect{p.x, p.y, p.width, p.y + 1}, 1, 0, BlankCell)
	}
	p.cells[p.y][p.x] = Cell{Ch: ch, Attr: attr}
	return true
}
