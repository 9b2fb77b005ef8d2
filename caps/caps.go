// Package caps provides read-only access to the capabilities of the
// host terminal, keyed by their short terminfo names.
package caps

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strings"

	"github.com/bdwalton/wy60/tparm"
	"github.com/xo/terminfo"
)

// Boolean capabilities.
const (
	AUTO_RIGHT_MARGIN  = "am"
	EAT_NEWLINE_GLITCH = "xenl"
	MOVE_INSERT_MODE   = "mir"
)

// Numeric capabilities.
const (
	COLUMNS = "cols"
	LINES   = "lines"
)

// String capabilities.
const (
	CURSOR_ADDRESS        = "cup"
	CURSOR_UP             = "cuu1"
	CURSOR_DOWN           = "cud1"
	CURSOR_LEFT           = "cub1"
	CURSOR_RIGHT          = "cuf1"
	PARM_UP_CURSOR        = "cuu"
	PARM_DOWN_CURSOR      = "cud"
	PARM_LEFT_CURSOR      = "cub"
	PARM_RIGHT_CURSOR     = "cuf"
	CURSOR_HOME           = "home"
	CARRIAGE_RETURN       = "cr"
	CLEAR_SCREEN          = "clear"
	CLR_EOL               = "el"
	CLR_EOS               = "ed"
	INSERT_LINE           = "il1"
	PARM_INSERT_LINE      = "il"
	DELETE_LINE           = "dl1"
	PARM_DELETE_LINE      = "dl"
	INSERT_CHARACTER      = "ich1"
	DELETE_CHARACTER      = "dch1"
	ENTER_INSERT_MODE     = "smir"
	EXIT_INSERT_MODE      = "rmir"
	SCROLL_FORWARD        = "ind"
	BELL                  = "bel"
	ENTER_STANDOUT_MODE   = "smso"
	EXIT_STANDOUT_MODE    = "rmso"
	ENTER_UNDERLINE_MODE  = "smul"
	EXIT_UNDERLINE_MODE   = "rmul"
	ENTER_BOLD_MODE       = "bold"
	ENTER_BLINK_MODE      = "blink"
	ENTER_DIM_MODE        = "dim"
	EXIT_ATTRIBUTE_MODE   = "sgr0"
	SET_ATTRIBUTES        = "sgr"
	SET_A_FOREGROUND      = "setaf"
	SET_FOREGROUND        = "setf"
	ORIG_PAIR             = "op"
	ENTER_ALT_CHARSET     = "smacs"
	EXIT_ALT_CHARSET      = "rmacs"
	ACS_CHARS             = "acsc"
	ENA_ACS               = "enacs"
	CURSOR_INVISIBLE      = "civis"
	CURSOR_NORMAL         = "cnorm"
	CURSOR_VISIBLE        = "cvvis"
	RESET_1STRING         = "rs1"
	RESET_2STRING         = "rs2"
	RESET_3STRING         = "rs3"
	RESET_FILE            = "rf"
	INIT_1STRING          = "is1"
	INIT_2STRING          = "is2"
	INIT_3STRING          = "is3"
	INIT_FILE             = "if"
	INIT_PROG             = "iprog"
	ENTER_CA_MODE         = "smcup"
	EXIT_CA_MODE          = "rmcup"
	PARM_INSERT_CHARACTER = "ich"
)

var ErrInsufficient = errors.New("terminal lacks required capabilities")

// Table is an immutable set of capabilities for one terminal type.
// Every lookup may report the capability as absent.
type Table struct {
	name  string
	bools map[string]bool
	nums  map[string]int
	strs  map[string]string
}

var padding = regexp.MustCompile(`\$<[0-9.]*[*/]*>`)

// New builds a table from literal values. Padding specifications are
// removed from the strings, as output is never delayed.
func New(name string, bools []string, nums map[string]int, strs map[string]string) *Table {
	t := &Table{
		name:  name,
		bools: make(map[string]bool, len(bools)),
		nums:  make(map[string]int, len(nums)),
		strs:  make(map[string]string, len(strs)),
	}
	for _, b := range bools {
		t.bools[b] = true
	}
	maps.Copy(t.nums, nums)
	for k, v := range strs {
		if v = padding.ReplaceAllString(v, ""); v != "" {
			t.strs[k] = v
		}
	}
	return t
}

// Load reads the terminfo description of term. When no database entry
// can be found, a built-in description is used if one exists.
func Load(term string) (*Table, error) {
	ti, err := terminfo.Load(term)
	if err != nil {
		if t, ok := Builtin(term); ok {
			slog.Debug("using built-in capabilities", "term", term, "err", err)
			return t, nil
		}
		return nil, fmt.Errorf("couldn't load terminfo for %q: %w", term, err)
	}

	bools := make([]string, 0, len(ti.Bools))
	for i, v := range ti.Bools {
		if v {
			bools = append(bools, terminfo.BoolCapNameShort(i))
		}
	}
	nums := make(map[string]int, len(ti.Nums))
	for i, v := range ti.Nums {
		nums[terminfo.NumCapNameShort(i)] = v
	}
	strs := make(map[string]string, len(ti.Strings))
	for i, v := range ti.Strings {
		strs[terminfo.StringCapNameShort(i)] = string(v)
	}

	slog.Debug("loaded terminfo", "term", term, "file", ti.File, "strings", len(strs))
	return New(term, bools, nums, strs), nil
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) Flag(name string) bool {
	return t.bools[name]
}

func (t *Table) Num(name string) (int, bool) {
	n, ok := t.nums[name]
	return n, ok
}

func (t *Table) Str(name string) (string, bool) {
	s, ok := t.strs[name]
	return s, ok
}

func (t *Table) Has(name string) bool {
	_, ok := t.strs[name]
	return ok
}

// Expand instantiates the named string capability with integer
// arguments.
func (t *Table) Expand(name string, args ...int) (string, bool) {
	s, ok := t.strs[name]
	if !ok {
		return "", false
	}
	return tparm.ExpandInts(s, args...), true
}

// ExpandValues is Expand for capabilities taking string arguments.
func (t *Table) ExpandValues(name string, args ...tparm.Value) (string, bool) {
	s, ok := t.strs[name]
	if !ok {
		return "", false
	}
	return tparm.Expand(s, args...), true
}

// Sufficient reports whether the terminal can be driven at all: it
// must be able to edit lines and characters, insert, and position the
// cursor either absolutely or with all four relative movements.
func (t *Table) Sufficient() error {
	var missing []string

	if !t.Has(DELETE_CHARACTER) {
		missing = append(missing, DELETE_CHARACTER)
	}
	if !t.Has(DELETE_LINE) {
		missing = append(missing, DELETE_LINE)
	}
	if !t.Has(INSERT_LINE) && !t.Has(PARM_INSERT_LINE) {
		missing = append(missing, INSERT_LINE+"|"+PARM_INSERT_LINE)
	}
	if !t.Has(ENTER_INSERT_MODE) && !t.Has(INSERT_CHARACTER) {
		missing = append(missing, ENTER_INSERT_MODE+"|"+INSERT_CHARACTER)
	}
	if !t.Has(CURSOR_ADDRESS) && !(t.Has(CURSOR_UP) && t.Has(CURSOR_DOWN) && t.Has(CURSOR_LEFT) && t.Has(CURSOR_RIGHT)) {
		missing = append(missing, CURSOR_ADDRESS)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w (%s): %s", ErrInsufficient, t.name, strings.Join(missing, ", "))
	}
	return nil
}
