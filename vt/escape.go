package vt

import (
	"log/slog"
	"strconv"
)

// escape dispatches the command byte following ESC.
func (e *Emulator) escape(b byte) {
	e.state = STATE_NORMAL
	p := e.scr.Page()
	x, y := p.Cursor()

	switch b {
	case ' ':
		e.respond([]byte(TERMINAL_ID)...)
	case '!', 'D', '^', '~':
		// Write unprotected with attribute, duplex, screen
		// inversion and personality all take one argument.
		e.state = STATE_SKIP_ONE
	case '&':
		// Protect submode: characters are written protected, and
		// protected cells can't be overwritten.
		slog.Debug("decode", "cmd", "write protect", "on", true)
		e.protected = true
		e.scr.SetWriteProtect(true)
	case '\'':
		slog.Debug("decode", "cmd", "write protect", "on", false)
		e.protected = false
		e.scr.SetWriteProtect(false)
	case ')':
		e.protected = true
	case '(':
		e.protected = false
	case '*', '+', ',':
		slog.Debug("decode", "cmd", "clear screen")
		e.protected = false
		e.scr.SetWriteProtect(false)
		e.clearScreen()
	case '-':
		e.state = STATE_GOTO_SEGMENT
	case '.':
		e.clearUnprotected()
		e.state = STATE_SKIP_ONE
	case '/':
		e.respond(' ', byte(y+' '), byte(x+' '), CR)
	case ':', ';':
		slog.Debug("decode", "cmd", "clear unprotected")
		e.clearUnprotected()
	case '=':
		e.state = STATE_GOTO_ROW_CODE
	case '?':
		e.respond(byte(y+' '), byte(x+' '), CR)
	case 'A':
		e.state = STATE_SET_FIELD_ATTRIBUTE
	case 'E':
		e.insertLine()
	case 'F':
		e.state = STATE_SKIP_LINE
	case 'G':
		e.state = STATE_SET_ATTRIBUTE
	case 'H':
		e.state = STATE_GRAPHICS_CHARACTER
	case 'I':
		e.moveTo((x-1)&^(TAB_WIDTH-1), y)
	case 'J':
		e.selectPage(e.scr.PageNum() - 1)
	case 'K':
		e.selectPage(e.scr.PageNum() + 1)
	case 'M':
		c, err := p.Cell(x, y)
		if err != nil {
			e.respond(NUL)
		} else {
			e.respond(c.Ch)
		}
	case 'Q':
		e.insertChar()
	case 'R':
		e.deleteLine()
	case 'T', 't':
		e.clearEol()
	case 'W':
		e.deleteChar()
	case 'Y', 'y':
		e.clearEos()
	case 'Z':
		e.state = STATE_FUNCTION_KEY
	case '`':
		e.state = STATE_SET_FEATURES
	case 'a':
		e.targetRow, e.targetCol = 0, 0
		e.state = STATE_GOTO_ROW
	case 'b':
		e.respond([]byte(strconv.Itoa(y+1) + "R" + strconv.Itoa(x+1) + "C")...)
	case 'c':
		e.state = STATE_ADVANCED_PARAMETERS
	case 'e':
		e.state = STATE_COMMUNICATION_MODE
	case 'i':
		e.moveTo((x+TAB_WIDTH)&^(TAB_WIDTH-1), y)
	case 'j':
		e.scrollTo(x, y-1)
	case 'q':
		e.setInsertMode(true)
	case 'r':
		e.setInsertMode(false)
	case 'w':
		e.state = STATE_SELECT_PAGE
	case 'x':
		e.state = STATE_SET_SEGMENT_POSITION
	case 'z':
		e.state = STATE_SKIP_DEL
	case '{':
		e.moveTo(0, 0)
	default:
		// Keyboard locking, tab stops, block mode, screen sending,
		// messages, monitor mode and text segments.
		slog.Debug("decode", "ignored escape", string(b))
	}
}
