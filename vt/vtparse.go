package vt

import (
	"log/slog"

	"github.com/bdwalton/wy60/screen"
)

// transitions holds the handler for each parser state. A handler
// consumes one byte and leaves the emulator in its next state.
var transitions = [NUM_STATES]func(*Emulator, byte){
	STATE_NORMAL:               (*Emulator).normal,
	STATE_ESC:                  (*Emulator).escape,
	STATE_SKIP_ONE:             (*Emulator).skipOne,
	STATE_SKIP_LINE:            (*Emulator).skipLine,
	STATE_SKIP_DEL:             (*Emulator).skipDel,
	STATE_GOTO_SEGMENT:         (*Emulator).gotoSegment,
	STATE_GOTO_ROW_CODE:        (*Emulator).gotoRowCode,
	STATE_GOTO_COLUMN_CODE:     (*Emulator).gotoColumnCode,
	STATE_GOTO_ROW:             (*Emulator).gotoRow,
	STATE_GOTO_COLUMN:          (*Emulator).gotoColumn,
	STATE_SET_FIELD_ATTRIBUTE:  (*Emulator).setFieldAttribute,
	STATE_SET_ATTRIBUTE:        (*Emulator).setAttribute,
	STATE_GRAPHICS_CHARACTER:   (*Emulator).graphicsCharacter,
	STATE_SET_FEATURES:         (*Emulator).setFeatures,
	STATE_FUNCTION_KEY:         (*Emulator).functionKey,
	STATE_SET_SEGMENT_POSITION: (*Emulator).setSegmentPosition,
	STATE_SELECT_PAGE:          (*Emulator).selectPageCmd,
	STATE_ADVANCED_PARAMETERS:  (*Emulator).advancedParameters,
	STATE_COMMUNICATION_MODE:   (*Emulator).communicationMode,
}

func (e *Emulator) normal(b byte) {
	x, y := e.scr.Page().Cursor()
	w, h := e.scr.Page().Width(), e.scr.Page().Height()

	switch b {
	case ENQ:
		slog.Debug("decode", "cmd", "answerback")
		e.respond(e.answerback...)
	case BEL:
		e.r.Bell()
	case BS:
		x -= 1
		if x < 0 {
			x = w - 1
			y = max(y-1, 0)
		}
		e.moveTo(x, y)
	case HT:
		e.moveTo((x+TAB_WIDTH)&^(TAB_WIDTH-1), y)
	case LF:
		e.scrollTo(x, y+1)
	case VT:
		e.moveTo(x, (y-1+h)%h)
	case FF:
		e.moveTo(x+1, y)
	case CR:
		e.moveTo(0, y)
	case SUB:
		slog.Debug("decode", "cmd", "clear unprotected")
		e.clearUnprotected()
	case ESC:
		e.state = STATE_ESC
	case RS:
		e.moveTo(0, 0)
	case US:
		e.scrollTo(0, y+1)
	default:
		if b < ' ' {
			slog.Debug("decode", "ignored control", b)
			return
		}
		e.print(b)
	}
}

func (e *Emulator) skipOne(b byte) {
	slog.Debug("decode", "skipped", b)
	e.state = STATE_NORMAL
}

func (e *Emulator) skipLine(b byte) {
	if b == CR {
		e.state = STATE_NORMAL
	}
}

func (e *Emulator) skipDel(b byte) {
	if b == DEL || b == CR {
		e.state = STATE_NORMAL
	}
}

// Text segments are not supported; the segment number is dropped.
func (e *Emulator) gotoSegment(b byte) {
	e.state = STATE_GOTO_ROW_CODE
}

func (e *Emulator) gotoRowCode(b byte) {
	e.targetRow = int(b) - ' '
	e.state = STATE_GOTO_COLUMN_CODE
}

func (e *Emulator) gotoColumnCode(b byte) {
	e.state = STATE_NORMAL
	slog.Debug("decode", "cmd", "goto", "col", int(b)-' ', "row", e.targetRow)
	e.moveTo(int(b)-' ', e.targetRow)
}

func (e *Emulator) gotoRow(b byte) {
	if b == 'R' {
		e.state = STATE_GOTO_COLUMN
		return
	}
	e.targetRow = 10*e.targetRow + int(b-'0')
}

func (e *Emulator) gotoColumn(b byte) {
	if b != 'C' {
		e.targetCol = 10*e.targetCol + int(b-'0')
		return
	}
	e.state = STATE_NORMAL
	slog.Debug("decode", "cmd", "goto", "col", e.targetCol-1, "row", e.targetRow-1)
	e.moveTo(e.targetCol-1, e.targetRow-1)
}

// Attributes for the non-display areas are not supported.
func (e *Emulator) setFieldAttribute(b byte) {
	if b == '0' {
		e.state = STATE_SET_ATTRIBUTE
		return
	}
	slog.Debug("decode", "unsupported field attribute", b)
	e.state = STATE_SKIP_ONE
}

func (e *Emulator) setAttribute(b byte) {
	e.state = STATE_NORMAL
	a := screen.Attr(b) & screen.ATTR_ALL
	slog.Debug("decode", "cmd", "set attributes", "attr", a)
	e.setAttributes(a)
}

// graphicsCharacter handles the byte after ESC H. STX and ETX switch
// graphics mode, a printable byte is drawn as a graphics glyph. Other
// control bytes keep their meaning and leave the state alone.
func (e *Emulator) graphicsCharacter(b byte) {
	switch {
	case b == STX || b == ETX:
		e.graphics = b == STX
		e.state = STATE_NORMAL
		slog.Debug("decode", "cmd", "graphics mode", "on", e.graphics)
	case b >= ' ':
		e.print(b)
		e.state = STATE_NORMAL
	default:
		e.normal(b)
	}
}

func (e *Emulator) setFeatures(b byte) {
	e.state = STATE_NORMAL
	switch b {
	case '0':
		e.r.CursorVisible(false, false)
	case '1', '2', '5':
		e.r.CursorVisible(true, true)
	case '3', '4':
		e.r.CursorVisible(true, false)
	case '6':
		e.protectedAttr = screen.ATTR_REVERSE
	case '7':
		e.protectedAttr = screen.ATTR_DIM
	case 'A':
		e.protectedAttr = screen.ATTR_NORMAL
	case ':':
		e.requestGeometry(NARROW_COLS, e.nomRows)
	case ';':
		e.requestGeometry(WIDE_COLS, e.nomRows)
	default:
		// Screen blanking and scroll speeds.
		slog.Debug("decode", "unsupported feature", b)
	}
}

// Function key programming is not supported; the definition is
// dropped.
func (e *Emulator) functionKey(b byte) {
	if b == '~' {
		e.state = STATE_SKIP_ONE
	} else {
		e.state = STATE_SKIP_DEL
	}
}

func (e *Emulator) setSegmentPosition(b byte) {
	if b == '0' {
		e.state = STATE_NORMAL
	} else {
		e.state = STATE_SKIP_ONE
	}
}

func (e *Emulator) selectPageCmd(b byte) {
	e.state = STATE_NORMAL
	switch b {
	case 'B':
		e.selectPage(e.scr.PageNum() - 1)
	case 'C':
		e.selectPage(e.scr.PageNum() + 1)
	case '0', '1', '2':
		e.selectPage(int(b - '0'))
	default:
		// Memory splitting with G, H and J.
		slog.Debug("decode", "unsupported page command", b)
	}
}

func (e *Emulator) advancedParameters(b byte) {
	slog.Debug("decode", "unsupported advanced parameter", b)
	e.state = STATE_NORMAL
}

func (e *Emulator) communicationMode(b byte) {
	e.state = STATE_NORMAL
	if rows, ok := DATA_LINES[b]; ok {
		e.requestGeometry(NARROW_COLS, rows)
		return
	}
	slog.Debug("decode", "unsupported communication mode", b)
}
