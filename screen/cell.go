package screen

import (
	"fmt"
	"strings"
)

// Attr holds the display attributes of a cell. The low byte uses the
// Wyse60 attribute encoding.
type Attr uint16

const (
	ATTR_NORMAL     Attr = 0
	ATTR_BLANK      Attr = 1
	ATTR_BLINK      Attr = 2
	ATTR_REVERSE    Attr = 4
	ATTR_UNDERSCORE Attr = 8
	ATTR_DIM        Attr = 64
	ATTR_BOTH       Attr = ATTR_DIM | ATTR_REVERSE
	ATTR_ALL        Attr = ATTR_BLANK | ATTR_BLINK | ATTR_REVERSE | ATTR_UNDERSCORE | ATTR_DIM

	ATTR_PROTECTED Attr = 0x100
	ATTR_GRAPHICS  Attr = 0x200
)

var attrNames = []struct {
	a    Attr
	name string
}{
	{ATTR_BLANK, "blank"},
	{ATTR_BLINK, "blink"},
	{ATTR_REVERSE, "reverse"},
	{ATTR_UNDERSCORE, "underscore"},
	{ATTR_DIM, "dim"},
	{ATTR_PROTECTED, "protected"},
	{ATTR_GRAPHICS, "graphics"},
}

func (a Attr) String() string {
	if a == ATTR_NORMAL {
		return "normal"
	}
	var names []string
	for _, n := range attrNames {
		if a&n.a != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

type Cell struct {
	Ch   byte
	Attr Attr
}

var BlankCell = Cell{Ch: ' '}

// Blank reports whether the cell looks empty on a freshly cleared
// screen.
func (c Cell) Blank() bool {
	return (c.Ch == ' ' || c.Ch == 0) && c.Attr&(ATTR_REVERSE|ATTR_UNDERSCORE|ATTR_GRAPHICS) == 0
}

func (c Cell) Protected() bool {
	return c.Attr&ATTR_PROTECTED != 0
}

func (c Cell) String() string {
	return fmt.Sprintf("%q (%s)", c.Ch, c.Attr)
}
