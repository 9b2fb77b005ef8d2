package render

import (
	"log/slog"
	"strconv"

	"github.com/bdwalton/wy60/caps"
)

// UNDEF is the cost of a movement that cannot be expressed.
const UNDEF = 65536

func itoa(n int) string {
	return strconv.Itoa(n)
}

func (r *Renderer) candidate(name string, args ...int) (string, int) {
	if s, ok := r.caps.Expand(name, args...); ok {
		return s, len(s)
	}
	return "", UNDEF
}

// MoveCursor moves the host cursor to (x, y) using the cheapest
// combination of capabilities, given where the cursor is now.
func (r *Renderer) MoveCursor(x, y int) {
	x = clamp(x, 0, r.width-1)
	y = clamp(y, 0, r.height-1)

	absolute, absLen := r.candidate(caps.CURSOR_ADDRESS, y, x)

	vertical, vLen := "", 0
	fromX, jumpedHome := r.x, false
	switch {
	case y < r.y:
		vertical, vLen = r.candidate(caps.PARM_UP_CURSOR, r.y-y)
		if s, ok := r.repeat(caps.CURSOR_UP, r.y-y); ok && len(s) < vLen && len(s) < absLen {
			vertical, vLen = s, len(s)
		}
		if home, ok := r.caps.Str(caps.CURSOR_HOME); ok {
			if down, ok := r.repeat(caps.CURSOR_DOWN, y); ok {
				if l := len(home) + len(down); l < vLen && l < absLen {
					vertical, vLen = home+down, l
					fromX, jumpedHome = 0, true
				}
			}
		}
	case y > r.y:
		vertical, vLen = r.candidate(caps.PARM_DOWN_CURSOR, y-r.y)
		if s, ok := r.repeat(caps.CURSOR_DOWN, y-r.y); ok && len(s) < vLen && len(s) < absLen {
			vertical, vLen = s, len(s)
		}
	}

	horizontal, hLen := "", 0
	switch {
	case x < fromX:
		horizontal, hLen = r.candidate(caps.PARM_LEFT_CURSOR, fromX-x)
		if s, ok := r.repeat(caps.CURSOR_LEFT, fromX-x); ok && len(s) < hLen && len(s) < absLen {
			horizontal, hLen = s, len(s)
		}
		cr, ok := r.caps.Str(caps.CARRIAGE_RETURN)
		if !ok {
			cr = "\r"
		}
		if right, ok := r.repeat(caps.CURSOR_RIGHT, x); ok {
			if l := len(cr) + len(right); l < hLen && l < absLen {
				horizontal, hLen = cr+right, l
			}
		}
	case x > fromX:
		horizontal, hLen = r.candidate(caps.PARM_RIGHT_CURSOR, x-fromX)
		if s, ok := r.repeat(caps.CURSOR_RIGHT, x-fromX); ok && len(s) < hLen && len(s) < absLen {
			horizontal, hLen = s, len(s)
		}
	}

	switch {
	case absLen < hLen+vLen:
		r.put(absolute)
	case absLen == UNDEF && hLen+vLen >= UNDEF:
		slog.Debug("no way to move cursor", "from_x", r.x, "from_y", r.y, "x", x, "y", y)
	case jumpedHome:
		r.put(vertical)
		r.put(horizontal)
	default:
		r.put(horizontal)
		r.put(vertical)
	}

	r.x, r.y = x, y
}

// ForceCursor moves the cursor when its current position is not
// known.
func (r *Renderer) ForceCursor(x, y int) {
	x = clamp(x, 0, r.width-1)
	y = clamp(y, 0, r.height-1)

	if r.putCapN(caps.CURSOR_ADDRESS, y, x) {
		r.x, r.y = x, y
		return
	}
	r.putCap(caps.CURSOR_HOME)
	r.x, r.y = 0, 0
	r.MoveCursor(x, y)
}

// ScrollTo moves the cursor to (x, y), scrolling the screen when y
// lies above the first or below the last line.
func (r *Renderer) ScrollTo(x, y int) {
	switch {
	case y < 0:
		r.MoveCursor(0, 0)
		r.InsertLines(-y)
		r.MoveCursor(x, 0)
	case y >= r.height:
		n := y - r.height + 1
		if ind, ok := r.caps.Str(caps.SCROLL_FORWARD); ok {
			r.MoveCursor(r.width-1, r.height-1)
			for i := 0; i < n; i++ {
				r.put(ind)
			}
		} else {
			r.MoveCursor(0, 0)
			r.DeleteLines(n)
		}
		r.ForceCursor(x, r.height-1)
	default:
		r.MoveCursor(x, y)
	}
}
