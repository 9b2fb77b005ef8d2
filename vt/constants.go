package vt

// Terminal identification sent in reply to ESC SP.
const TERMINAL_ID = "60\r"

// Default reply to ENQ.
const DEF_ANSWERBACK = "\x06"

const (
	NUL = 0x00
	SOH = 0x01
	STX = 0x02 // enter graphics mode, after ESC H
	ETX = 0x03 // leave graphics mode, after ESC H
	ENQ = 0x05
	ACK = 0x06
	BEL = 0x07
	BS  = 0x08
	HT  = 0x09
	LF  = 0x0a
	VT  = 0x0b // cursor up
	FF  = 0x0c // cursor right
	CR  = 0x0d
	SUB = 0x1a // clear unprotected
	ESC = 0x1b
	RS  = 0x1e // home
	US  = 0x1f // down and column 0
	DEL = 0x7f
)

const TAB_WIDTH = 8

type pState uint8

const (
	STATE_NORMAL pState = iota
	STATE_ESC
	STATE_SKIP_ONE
	STATE_SKIP_LINE
	STATE_SKIP_DEL
	STATE_GOTO_SEGMENT
	STATE_GOTO_ROW_CODE
	STATE_GOTO_COLUMN_CODE
	STATE_GOTO_ROW
	STATE_GOTO_COLUMN
	STATE_SET_FIELD_ATTRIBUTE
	STATE_SET_ATTRIBUTE
	STATE_GRAPHICS_CHARACTER
	STATE_SET_FEATURES
	STATE_FUNCTION_KEY
	STATE_SET_SEGMENT_POSITION
	STATE_SELECT_PAGE
	STATE_ADVANCED_PARAMETERS
	STATE_COMMUNICATION_MODE
	NUM_STATES
)

var STATE_NAMES = [NUM_STATES]string{
	"NORMAL",
	"ESC",
	"SKIP_ONE",
	"SKIP_LINE",
	"SKIP_DEL",
	"GOTO_SEGMENT",
	"GOTO_ROW_CODE",
	"GOTO_COLUMN_CODE",
	"GOTO_ROW",
	"GOTO_COLUMN",
	"SET_FIELD_ATTRIBUTE",
	"SET_ATTRIBUTE",
	"GRAPHICS_CHARACTER",
	"SET_FEATURES",
	"FUNCTION_KEY",
	"SET_SEGMENT_POSITION",
	"SELECT_PAGE",
	"ADVANCED_PARAMETERS",
	"COMMUNICATION_MODE",
}

func (s pState) String() string {
	if s >= NUM_STATES {
		return "UNKNOWN"
	}
	return STATE_NAMES[s]
}

// Data line counts selected with ESC e.
var DATA_LINES = map[byte]int{
	'(': 24,
	')': 25,
	'*': 42,
	'+': 43,
}

// Column counts selected with ESC ` : and ESC ` ;.
const (
	NARROW_COLS = 80
	WIDE_COLS   = 132
)
