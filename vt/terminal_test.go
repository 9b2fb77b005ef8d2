package vt

import (
	"bytes"
	"testing"

	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/render"
	"github.com/bdwalton/wy60/screen"
)

type fakeResizer struct {
	cols, rows, calls int
}

func (f *fakeResizer) RequestGeometry(cols, rows int) bool {
	f.cols, f.rows = cols, rows
	f.calls += 1
	return true
}

func newTestEmulator(t *testing.T, cols, rows int) (*Emulator, *bytes.Buffer) {
	t.Helper()
	tbl, ok := caps.Builtin("xterm")
	if !ok {
		t.Fatalf("no builtin xterm")
	}
	var b bytes.Buffer
	return New(render.New(&b, tbl, cols, rows), nil, nil), &b
}

func cellAt(e *Emulator, x, y int) screen.Cell {
	c, _ := e.Screen().Page().Cell(x, y)
	return c
}

func rowText(e *Emulator, y int) string {
	p := e.Screen().Page()
	row := make([]byte, p.Width())
	for x := range row {
		row[x] = cellAt(e, x, y).Ch
	}
	return string(row)
}

func TestGoto(t *testing.T) {
	cases := []struct {
		in           string
		wantX, wantY int
	}{
		{"\x1ba5R10C", 9, 4},
		{"\x1ba1R1C", 0, 0},
		{"\x1ba99R999C", 79, 23},
		{"\x1b=" + string(rune(' '+3)) + string(rune(' '+7)), 7, 3},
		{"\x1b-1" + string(rune(' '+2)) + string(rune(' '+5)), 5, 2},
		{"\x1ba5R10C\x1b{", 0, 0},
		{"\x1ba5R10C\x1e", 0, 0},
		{"\x1ba5R10C\r", 0, 4},
	}

	for i, c := range cases {
		e, _ := newTestEmulator(t, 80, 24)
		if reply := e.Write([]byte(c.in)); len(reply) != 0 {
			t.Errorf("%d: unexpected reply %q", i, reply)
		}
		if x, y := e.Screen().Page().Cursor(); x != c.wantX || y != c.wantY {
			t.Errorf("%d: Got (%d, %d), wanted (%d, %d)", i, x, y, c.wantX, c.wantY)
		}
		if e.State() != STATE_NORMAL {
			t.Errorf("%d: left in state %s", i, e.State())
		}
	}
}

func TestReplies(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"\x05", "\x06"},
		{"\x1b ", "60\r"},
		{"\x1ba5R10C\x1b?", "$)\r"},
		{"\x1ba5R10C\x1b/", " $)\r"},
		{"\x1ba5R10C\x1bb", "5R10C"},
		{"A\x1b{\x1bM", "A"},
		{"\x1bM", " "},
		{"\x05\x05", "\x06\x06"},
	}

	for i, c := range cases {
		e, _ := newTestEmulator(t, 80, 24)
		if got := string(e.Write([]byte(c.in))); got != c.want {
			t.Errorf("%d: Got %q, wanted %q", i, got, c.want)
		}
	}
}

func TestAnswerback(t *testing.T) {
	tbl, _ := caps.Builtin("xterm")
	var b bytes.Buffer
	e := New(render.New(&b, tbl, 80, 24), []byte("hello\r"), nil)
	if got, want := string(e.Decode(ENQ)), "hello\r"; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}
}

func TestControls(t *testing.T) {
	cases := []struct {
		in           string
		wantX, wantY int
	}{
		{"\x1ba2R1C\b", 79, 0},
		{"\b", 79, 0},
		{"\x1ba1R2C\t", 8, 0},
		{"\x1ba1R9C\t", 16, 0},
		{"\x1ba1R80C\t", 79, 0},
		{"\x0b", 0, 23},
		{"\x1ba3R1C\x0b", 0, 1},
		{"\x0c\x0c", 2, 0},
		{"\x1ba1R80C\x0c", 79, 0},
		{"\n\n", 0, 2},
		{"\x1ba1R5C\x1f", 0, 1},
		{"\x1ba1R20C\x1bI", 16, 0},
		{"\x1ba1R3C\x1bi", 8, 0},
		{"\x1ba3R1C\x1bj", 0, 1},
	}

	for i, c := range cases {
		e, _ := newTestEmulator(t, 80, 24)
		e.Write([]byte(c.in))
		if x, y := e.Screen().Page().Cursor(); x != c.wantX || y != c.wantY {
			t.Errorf("%d: Got (%d, %d), wanted (%d, %d)", i, x, y, c.wantX, c.wantY)
		}
	}
}

func TestPrintWraps(t *testing.T) {
	e, _ := newTestEmulator(t, 10, 3)
	e.Write([]byte("0123456789ab"))
	if got, want := rowText(e, 0), "0123456789"; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}
	if got, want := rowText(e, 1), "ab        "; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}
	if x, y := e.Screen().Page().Cursor(); x != 2 || y != 1 {
		t.Errorf("Got (%d, %d), wanted (2, 1)", x, y)
	}
}

func TestScrolling(t *testing.T) {
	e, _ := newTestEmulator(t, 10, 3)
	e.Write([]byte("top\r\nmid\r\nbot\n"))
	want := []string{"mid       ", "bot       ", "          "}
	for y, w := range want {
		if got := rowText(e, y); got != w {
			t.Errorf("%d: Got %q, wanted %q", y, got, w)
		}
	}

	e.Write([]byte("\x1b{\x1bj"))
	want = []string{"          ", "mid       ", "bot       "}
	for y, w := range want {
		if got := rowText(e, y); got != w {
			t.Errorf("%d: Got %q, wanted %q", y, got, w)
		}
	}
}

func TestCornerScrolls(t *testing.T) {
	e, _ := newTestEmulator(t, 10, 3)
	e.Write([]byte("q\x1ba3R10CX"))
	if c := cellAt(e, 0, 0); c.Ch != ' ' {
		t.Errorf("Got %v at (0, 0), wanted blank", c)
	}
	if c := cellAt(e, 9, 1); c.Ch != 'X' {
		t.Errorf("Got %v at (9, 1), wanted X", c)
	}
	if x, y := e.Screen().Page().Cursor(); x != 0 || y != 2 {
		t.Errorf("Got (%d, %d), wanted (0, 2)", x, y)
	}
}

func TestWrapProtectedCorner(t *testing.T) {
	e, b := newTestEmulator(t, 10, 3)
	e.Write([]byte("q\x1bq\x1b&\x1ba3R10C"))
	b.Reset()
	e.Write([]byte("X"))

	if c := cellAt(e, 0, 0); c.Ch != 'q' {
		t.Errorf("Got %v at (0, 0), page scrolled", c)
	}
	if c := cellAt(e, 9, 2); c.Ch != 'X' {
		t.Errorf("Got %v at (9, 2), wanted X", c)
	}
	if x, y := e.Screen().Page().Cursor(); x != 0 || y != 0 {
		t.Errorf("Got (%d, %d), wanted (0, 0)", x, y)
	}

	r := e.Renderer()
	r.Flush()
	out := b.String()
	if !bytes.Contains([]byte(out), []byte("\x1b[4l")) || !bytes.HasSuffix([]byte(out), []byte("\x1b[4h\x1b[1;1H")) {
		t.Errorf("redraw didn't suspend insert mode: %q", out)
	}
	if !r.InsertMode() {
		t.Errorf("insert mode lost")
	}
}

func TestWriteProtectLeapfrog(t *testing.T) {
	e, _ := newTestEmulator(t, 80, 24)
	e.Write([]byte("\x1b)AB\x1b&\x1b(\rxyz"))

	cases := []struct {
		x         int
		ch        byte
		protected bool
	}{
		{0, 'A', true},
		{1, 'B', true},
		{2, 'z', false},
	}
	for i, c := range cases {
		cell := cellAt(e, c.x, 0)
		if cell.Ch != c.ch || cell.Protected() != c.protected {
			t.Errorf("%d: Got %v, wanted %q (protected %t)", i, cell, c.ch, c.protected)
		}
	}
	if x, y := e.Screen().Page().Cursor(); x != 3 || y != 0 {
		t.Errorf("Got (%d, %d), wanted (3, 0)", x, y)
	}

	// Without write protection the cells are overwritten.
	e.Write([]byte("\x1b'\rxy"))
	if got := rowText(e, 0)[:3]; got != "xyz" {
		t.Errorf("Got %q, wanted %q", got, "xyz")
	}
}

func TestClearKeepsProtected(t *testing.T) {
	e, _ := newTestEmulator(t, 10, 3)
	e.Write([]byte("\x1b)P\x1b(xy\x1b&\r\x1bT"))
	if got, want := rowText(e, 0), "P         "; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}

	e.Write([]byte("\x1b'\r\x1bt"))
	if got, want := rowText(e, 0), "          "; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}

	e.Write([]byte("\x1b)P\x1b(\r\nabc\x1b;"))
	if got, want := rowText(e, 0), "P         "; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}
	if got, want := rowText(e, 1), "          "; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}

	e.Write([]byte("\x1b+"))
	if got, want := rowText(e, 0), "          "; got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}
}

func TestEditing(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"abc\r\x1bQ", []string{" abc  ", "      ", "      "}},
		{"abc\r\x1bW", []string{"bc    ", "      ", "      "}},
		{"abc\r\x1bE", []string{"      ", "abc   ", "      "}},
		{"abc\r\ndef\x1b{\x1bR", []string{"def   ", "      ", "      "}},
		{"abc\r\ndef\x1b{\x0c\x1by", []string{"a     ", "      ", "      "}},
		{"abc\r\ndef\x1b{\x1a", []string{"      ", "      ", "      "}},
		{"abcdef\x1b{\x1bqX", []string{"Xabcde", "      ", "      "}},
		{"abc\x1b{\x1bq\x1brX", []string{"Xbc   ", "      ", "      "}},
	}

	for i, c := range cases {
		e, _ := newTestEmulator(t, 6, 3)
		e.Write([]byte(c.in))
		for y, w := range c.want {
			if got := rowText(e, y); got != w {
				t.Errorf("%d: row %d: Got %q, wanted %q", i, y, got, w)
			}
		}
	}
}

func TestAttributes(t *testing.T) {
	cases := []struct {
		in   string
		want screen.Attr
	}{
		{"a", screen.ATTR_NORMAL},
		{"\x1bG4a", screen.ATTR_REVERSE},
		{"\x1bG8\x1bG0a", screen.ATTR_NORMAL},
		{"\x1bA04a", screen.ATTR_REVERSE},
		{"\x1bA14a", screen.ATTR_NORMAL},
		{"\x1b)a", screen.ATTR_REVERSE | screen.ATTR_PROTECTED},
		{"\x1b`7\x1b)a", screen.ATTR_DIM | screen.ATTR_PROTECTED},
		{"\x1b`A\x1b)a", screen.ATTR_PROTECTED},
		{"\x1b)\x1bG8a", screen.ATTR_UNDERSCORE | screen.ATTR_PROTECTED},
		{"\x1bG@\x1b)a", screen.ATTR_BOTH | screen.ATTR_PROTECTED},
		{"\x1bG8\x1b)a", screen.ATTR_UNDERSCORE | screen.ATTR_REVERSE | screen.ATTR_PROTECTED},
		{"\x1bG@\x1b)\x1b(a", screen.ATTR_DIM},
		{"\x1b&a", screen.ATTR_REVERSE | screen.ATTR_PROTECTED},
		{"\x1b&\x1b'a", screen.ATTR_NORMAL},
		{"\x1bG\x7fa", screen.ATTR_ALL},
		{"\x1bH2", screen.ATTR_GRAPHICS},
		{"\x1bH\x02a", screen.ATTR_GRAPHICS},
		{"\x1bH\x02\x1bH\x03a", screen.ATTR_NORMAL},
	}

	for i, c := range cases {
		e, _ := newTestEmulator(t, 80, 24)
		e.Write([]byte(c.in))
		if got := cellAt(e, 0, 0).Attr; got != c.want {
			t.Errorf("%d: Got %s, wanted %s", i, got, c.want)
		}
	}
}

func TestSkipped(t *testing.T) {
	cases := []string{
		"\x1bFhello\rX",
		"\x1bz1abc\x7fX",
		"\x1bz1abc\rX",
		"\x1bZ~aX",
		"\x1bZ1abc\x7fX",
		"\x1bx1aX",
		"\x1bx0X",
		"\x1b!aX",
		"\x1b.aX",
		"\x1bcaX",
		"\x1bwGX",
		"\x1be1X",
		"\x1b`8X",
		"\x1b~aX",
		"\x1b^aX",
		"\x1bDaX",
		"\x1b0X",
		"\x1bkX",
	}

	for i, c := range cases {
		e, _ := newTestEmulator(t, 80, 24)
		e.Write([]byte(c))
		if got := rowText(e, 0)[:2]; got != "X " {
			t.Errorf("%d: Got %q, wanted %q", i, got, "X ")
		}
		if e.State() != STATE_NORMAL {
			t.Errorf("%d: left in state %s", i, e.State())
		}
	}
}

func TestPages(t *testing.T) {
	e, _ := newTestEmulator(t, 80, 24)
	e.Write([]byte("a\x1bw1b"))
	if n := e.Screen().PageNum(); n != 1 {
		t.Fatalf("Got page %d, wanted 1", n)
	}
	if c := cellAt(e, 0, 0); c.Ch != 'b' {
		t.Errorf("Got %v on page 1, wanted b", c)
	}

	e.Write([]byte("\x1bK\x1bK\x1bwC"))
	if n := e.Screen().PageNum(); n != 2 {
		t.Errorf("Got page %d, wanted 2", n)
	}

	e.Write([]byte("\x1bw0"))
	if c := cellAt(e, 0, 0); c.Ch != 'a' {
		t.Errorf("Got %v on page 0, wanted a", c)
	}
	if x, y := e.Screen().Page().Cursor(); x != 1 || y != 0 {
		t.Errorf("Got cursor (%d, %d), wanted (1, 0)", x, y)
	}

	e.Write([]byte("\x1bJ\x1bwB"))
	if n := e.Screen().PageNum(); n != 0 {
		t.Errorf("Got page %d, wanted 0", n)
	}
}

func TestGeometryRequests(t *testing.T) {
	cases := []struct {
		in                 string
		wantCols, wantRows int
		wantCalls          int
	}{
		{"\x1be*", 80, 42, 1},
		{"\x1be+", 80, 43, 1},
		{"\x1be(", 0, 0, 0},
		{"\x1b`;", 132, 24, 1},
		{"\x1b`:", 0, 0, 0},
		{"\x1be)\x1b`;", 132, 25, 2},
	}

	for i, c := range cases {
		tbl, _ := caps.Builtin("xterm")
		var b bytes.Buffer
		rs := &fakeResizer{}
		e := New(render.New(&b, tbl, 80, 24), nil, rs)
		e.Write([]byte(c.in))
		if rs.cols != c.wantCols || rs.rows != c.wantRows || rs.calls != c.wantCalls {
			t.Errorf("%d: Got %dx%d (%d calls), wanted %dx%d (%d calls)", i, rs.cols, rs.rows, rs.calls, c.wantCols, c.wantRows, c.wantCalls)
		}
		if c.wantCalls > 0 {
			if cols, rows := e.Nominal(); cols != c.wantCols || rows != c.wantRows {
				t.Errorf("%d: nominal %dx%d, wanted %dx%d", i, cols, rows, c.wantCols, c.wantRows)
			}
		}
	}
}

func TestResize(t *testing.T) {
	e, _ := newTestEmulator(t, 10, 3)
	e.Write([]byte("\x1ba3R10CZ"))
	e.Resize(5, 2)
	if cols, rows := e.Geometry(); cols != 5 || rows != 2 {
		t.Errorf("Got %dx%d, wanted 5x2", cols, rows)
	}
	if x, y := e.Screen().Page().Cursor(); x != 0 || y != 1 {
		t.Errorf("Got cursor (%d, %d), wanted (0, 1)", x, y)
	}

	e.Resize(10, 3)
	if c := cellAt(e, 9, 1); c.Ch != 'Z' {
		t.Errorf("Got %v, content lost on resize", c)
	}
}

func TestHostOutput(t *testing.T) {
	e, b := newTestEmulator(t, 80, 24)
	e.Write([]byte("hi\x1bG4x"))
	e.Renderer().Flush()
	want := "\x1b[27m\x1b[39;49mhi\x1b[39;49m\x1b[7mx"
	if got := b.String(); got != want {
		t.Errorf("Got %q, wanted %q", got, want)
	}
}
