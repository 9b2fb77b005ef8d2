package render

import (
	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/screen"
)

// Wyse60 graphics characters '0' through '?' as VT100 alternate
// character set glyphs.
const GRAPHICS_MAP = "wmlktjx0nuqaqvxa"

// PutGraphics draws the Wyse60 graphics character ch at the cursor
// and advances the cursor. Glyphs the host cannot draw become spaces;
// solid blocks are approximated by a reverse video space.
func (r *Renderer) PutGraphics(ch byte) {
	acs, ok := r.caps.Str(caps.ACS_CHARS)
	if ch < '0' || ch > '?' || !ok || !r.caps.Has(caps.ENTER_ALT_CHARSET) {
		r.PutChar(' ')
		return
	}

	glyph := GRAPHICS_MAP[ch-'0']
	for i := 0; i+1 < len(acs); i += 2 {
		if acs[i] == glyph {
			r.putCap(caps.ENTER_ALT_CHARSET)
			r.out.WriteByte(acs[i+1])
			r.x += 1
			r.putCap(caps.EXIT_ALT_CHARSET)
			return
		}
	}

	if glyph == '0' || glyph == 'a' || glyph == 'h' {
		if r.attr&screen.ATTR_REVERSE != 0 {
			r.putCap(caps.EXIT_STANDOUT_MODE)
		} else {
			r.putCap(caps.ENTER_STANDOUT_MODE)
		}
		r.PutChar(' ')

		restore := r.attr
		r.InvalidateAttributes()
		if restore != UNKNOWN_ATTR {
			r.SetAttributes(restore)
		}
		return
	}

	r.PutChar(' ')
}
