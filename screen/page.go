package screen

import (
	"errors"
	"fmt"
)

var ErrInvalidCell = errors.New("invalid page cell")

// Rect is a half open rectangle of cells: X0 <= x < X1, Y0 <= y < Y1.
type Rect struct {
	X0, Y0, X1, Y1 int
}

func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

func (r Rect) String() string {
	return fmt.Sprintf("[(%d, %d)-(%d, %d))", r.X0, r.Y0, r.X1, r.Y1)
}

// Page is one screenful of cells. The backing grid only ever grows so
// that content survives shrinking the window and growing it again.
type Page struct {
	cells         [][]Cell
	width, height int
	x, y          int
}

func newRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = BlankCell
	}
	return row
}

func newPage(width, height int) *Page {
	p := &Page{}
	p.resize(width, height)
	return p
}

func (p *Page) Width() int {
	return p.width
}

func (p *Page) Height() int {
	return p.height
}

// Allocated returns the size of the backing grid.
func (p *Page) Allocated() (int, int) {
	if len(p.cells) == 0 {
		return 0, 0
	}
	return len(p.cells[0]), len(p.cells)
}

func (p *Page) Cursor() (int, int) {
	return p.x, p.y
}

// Move sets the cursor, clamped to the visible region.
func (p *Page) Move(x, y int) {
	p.x = clamp(x, 0, p.width-1)
	p.y = clamp(y, 0, p.height-1)
}

func (p *Page) Full() Rect {
	return Rect{0, 0, p.width, p.height}
}

func (p *Page) validPoint(x, y int) bool {
	return x >= 0 && x < p.width && y >= 0 && y < p.height
}

func (p *Page) Cell(x, y int) (Cell, error) {
	if p.validPoint(x, y) {
		return p.cells[y][x], nil
	}
	return BlankCell, fmt.Errorf("invalid coordinates (%d, %d): %w", x, y, ErrInvalidCell)
}

func (p *Page) SetCell(x, y int, c Cell) error {
	if !p.validPoint(x, y) {
		return fmt.Errorf("invalid coordinates (%d, %d): %w", x, y, ErrInvalidCell)
	}
	p.cells[y][x] = c
	return nil
}

func (p *Page) resize(width, height int) {
	aw, ah := p.Allocated()
	if width > aw {
		for y := range p.cells {
			p.cells[y] = append(p.cells[y], newRow(width-aw)...)
		}
		aw = width
	}
	for ah < height {
		p.cells = append(p.cells, newRow(aw))
		ah += 1
	}

	p.width, p.height = width, height
	p.Move(p.x, p.y)
}

func (p *Page) clip(r Rect) Rect {
	return Rect{
		X0: clamp(r.X0, 0, p.width),
		Y0: clamp(r.Y0, 0, p.height),
		X1: clamp(r.X1, 0, p.width),
		Y1: clamp(r.Y1, 0, p.height),
	}
}

// Clear fills r with fill. With keepProtected set, protected cells are
// left alone; the return value reports whether any were.
func (p *Page) Clear(r Rect, fill Cell, keepProtected bool) bool {
	r = p.clip(r)
	kept := false
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			if keepProtected && p.cells[y][x].Protected() {
				kept = true
				continue
			}
			p.cells[y][x] = fill
		}
	}
	return kept
}

// HasProtected reports whether any cell in r is protected.
func (p *Page) HasProtected(r Rect) bool {
	r = p.clip(r)
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			if p.cells[y][x].Protected() {
				return true
			}
		}
	}
	return false
}

// Scroll moves the content of r by dx columns and dy rows. Content
// pushed outside r is lost and the vacated cells get fill. Cells
// outside r are never touched.
func (p *Page) Scroll(r Rect, dx, dy int, fill Cell) {
	r = p.clip(r)
	if r.Empty() || (dx == 0 && dy == 0) {
		return
	}

	w, h := r.X1-r.X0, r.Y1-r.Y0
	tmp := make([][]Cell, h)
	for y := range tmp {
		tmp[y] = make([]Cell, w)
		for x := range tmp[y] {
			sx, sy := r.X0+x-dx, r.Y0+y-dy
			if sx >= r.X0 && sx < r.X1 && sy >= r.Y0 && sy < r.Y1 {
				tmp[y][x] = p.cells[sy][sx]
			} else {
				tmp[y][x] = fill
			}
		}
	}
	for y := range tmp {
		copy(p.cells[r.Y0+y][r.X0:r.X1], tmp[y])
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
