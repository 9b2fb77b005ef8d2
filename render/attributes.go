package render

import (
	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/screen"
)

// UNKNOWN_ATTR means the host's attributes are not known. Every bit is
// set, so leaving it turns off everything that could be on.
const UNKNOWN_ATTR screen.Attr = 0xFFFF

func (r *Renderer) Attributes() screen.Attr {
	return r.attr
}

// InvalidateAttributes forces the next SetAttributes to emit.
func (r *Renderer) InvalidateAttributes() {
	r.attr = UNKNOWN_ATTR
}

// fakeColor maps the attributes most terminals can't show together
// onto one of eight colors.
func fakeColor(a screen.Attr) int {
	color := 0
	if a&screen.ATTR_BLINK != 0 {
		color += 1
	}
	if a&screen.ATTR_UNDERSCORE != 0 {
		color += 2
	}
	if a&screen.ATTR_DIM != 0 {
		color += 4
	}
	return color
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// SetAttributes makes a the host's current attributes. The protected
// bit matters: a protected field that is both dim and reverse is
// shown in bold.
func (r *Renderer) SetAttributes(a screen.Attr) {
	a &^= screen.ATTR_GRAPHICS
	if a == r.attr {
		return
	}
	prev := r.attr
	r.attr = a

	protected := a&screen.ATTR_PROTECTED != 0
	reverse := a&screen.ATTR_REVERSE != 0
	dim := a&screen.ATTR_DIM != 0
	both := a&screen.ATTR_BOTH == screen.ATTR_BOTH

	switch {
	case r.caps.Has(caps.SET_A_FOREGROUND):
		color := fakeColor(a)
		if prev&screen.ATTR_REVERSE != 0 {
			r.putCap(caps.EXIT_STANDOUT_MODE)
		}
		if color != 0 || !r.caps.Has(caps.ORIG_PAIR) {
			switch color {
			case 0:
				color = 9 // default color
			case 7:
				color = 6 // white on white is invisible
			}
			r.putCapN(caps.SET_A_FOREGROUND, color)
		} else {
			r.putCap(caps.ORIG_PAIR)
		}
		if reverse {
			r.putCap(caps.ENTER_STANDOUT_MODE)
		}
	case r.caps.Has(caps.SET_FOREGROUND) && r.caps.Has(caps.ORIG_PAIR):
		color := fakeColor(a)
		if prev&screen.ATTR_REVERSE != 0 {
			r.putCap(caps.EXIT_STANDOUT_MODE)
		}
		if color != 0 {
			if color == 7 {
				color = 6
			}
			r.putCapN(caps.SET_FOREGROUND, color)
		} else {
			r.putCap(caps.ORIG_PAIR)
		}
		if reverse {
			r.putCap(caps.ENTER_STANDOUT_MODE)
		}
	case r.caps.Has(caps.SET_ATTRIBUTES):
		r.putCapN(caps.SET_ATTRIBUTES,
			0,
			flag(a&screen.ATTR_UNDERSCORE != 0),
			flag(reverse && (!dim || !protected)),
			flag(a&screen.ATTR_BLINK != 0),
			flag(dim && (!reverse || !protected)),
			flag(both && protected),
			0, 0, 0)
	default:
		r.discreteAttributes(a, prev)
	}
}

// discreteAttributes is for terminals that can only switch single
// attributes on, and possibly all of them off.
func (r *Renderer) discreteAttributes(a, prev screen.Attr) {
	sgr0 := r.putCap(caps.EXIT_ATTRIBUTE_MODE)
	if !sgr0 {
		if prev&(screen.ATTR_DIM|screen.ATTR_UNDERSCORE) != 0 {
			r.putCap(caps.EXIT_UNDERLINE_MODE)
		}
		if prev&screen.ATTR_REVERSE != 0 {
			r.putCap(caps.EXIT_STANDOUT_MODE)
		}
	}

	isBoth := false
	if a&screen.ATTR_BOTH == screen.ATTR_BOTH && sgr0 && r.putCap(caps.ENTER_BOLD_MODE) {
		isBoth = true
	}
	if a&screen.ATTR_BLINK != 0 && sgr0 {
		r.putCap(caps.ENTER_BLINK_MODE)
	}
	if a&screen.ATTR_UNDERSCORE != 0 {
		r.putCap(caps.ENTER_UNDERLINE_MODE)
	}
	if a&screen.ATTR_DIM != 0 && !isBoth {
		if !(sgr0 && r.putCap(caps.ENTER_DIM_MODE)) && a&screen.ATTR_UNDERSCORE == 0 {
			r.putCap(caps.ENTER_UNDERLINE_MODE)
		}
	}
	if a&screen.ATTR_REVERSE != 0 && !isBoth {
		r.putCap(caps.ENTER_STANDOUT_MODE)
	}
}
