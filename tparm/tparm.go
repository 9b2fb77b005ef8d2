// Package tparm expands parameterized capability strings as found in
// the terminfo and termcap databases.
//
// Two dialects are understood. Templates containing "%p" are run on a
// small stack machine (terminfo); all others use positional directives
// that consume arguments in order (termcap).
package tparm

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	STACK_SIZE = 20
	MAX_PARAMS = 9
	NUM_VARS   = 26
)

// Value is a capability argument. It is either an integer or a string.
type Value struct {
	str bool
	n   int
	s   string
}

func Int(n int) Value {
	return Value{n: n}
}

func Str(s string) Value {
	return Value{str: true, s: s}
}

// Ints is a convenience wrapper for the common all-integer case.
func Ints(ns ...int) []Value {
	vs := make([]Value, len(ns))
	for i, n := range ns {
		vs[i] = Int(n)
	}
	return vs
}

func (v Value) IsString() bool {
	return v.str
}

func (v Value) Int() int {
	if v.str {
		n, err := strconv.Atoi(v.s)
		if err != nil {
			return 0
		}
		return n
	}
	return v.n
}

func (v Value) String() string {
	if v.str {
		return v.s
	}
	return strconv.Itoa(v.n)
}

// Expand returns the template with all directives replaced.
// Missing arguments are treated as zero.
func Expand(tmpl string, args ...Value) string {
	if strings.Contains(tmpl, "%p") {
		return expandStack(tmpl, args)
	}
	return expandPositional(tmpl, args)
}

// ExpandInts is Expand for integer-only arguments.
func ExpandInts(tmpl string, args ...int) string {
	return Expand(tmpl, Ints(args...)...)
}

type paramType uint8

const (
	PARAM_UNKNOWN paramType = iota
	PARAM_INT
	PARAM_STRING
)

// analyze makes a first pass over a stack template and records, for
// each numbered parameter, whether its first use treats it as a
// string or an integer.
func analyze(tmpl string) [MAX_PARAMS]paramType {
	var types [MAX_PARAMS]paramType
	// Each entry is the 1-based parameter number that was pushed, or
	// 0 for any other value.
	stack := make([]int, 0, STACK_SIZE)

	pop := func(t paramType) {
		if len(stack) == 0 {
			return
		}
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p > 0 && types[p-1] == PARAM_UNKNOWN && t != PARAM_UNKNOWN {
			types[p-1] = t
		}
	}
	push := func(p int) {
		if len(stack) < STACK_SIZE {
			stack = append(stack, p)
		}
	}

	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		if i >= len(tmpl) {
			break
		}

		switch c := tmpl[i]; c {
		case 'p':
			if i+1 < len(tmpl) && tmpl[i+1] >= '1' && tmpl[i+1] <= '9' {
				i++
				push(int(tmpl[i] - '0'))
			}
		case 's':
			pop(PARAM_STRING)
		case 'l':
			pop(PARAM_STRING)
			push(0)
		case 'd', 'o', 'x', 'X', 'c', 't':
			pop(PARAM_INT)
		case ':', '#', ' ', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			_, conv, next := parseFormat(tmpl, i)
			if conv == 's' {
				pop(PARAM_STRING)
			} else if conv != 0 {
				pop(PARAM_INT)
			}
			i = next
		case '+', '-', '*', '/', 'm', '&', '|', '^', '=', '>', '<', 'A', 'O':
			pop(PARAM_INT)
			pop(PARAM_INT)
			push(0)
		case '!', '~':
			pop(PARAM_INT)
			push(0)
		case 'P':
			pop(PARAM_UNKNOWN)
			i++
		case 'g':
			push(0)
			i++
		case '\'':
			push(0)
			i += 2
		case '{':
			push(0)
			for i < len(tmpl) && tmpl[i] != '}' {
				i++
			}
		}
	}

	return types
}

// parseFormat parses a printf style directive starting at tmpl[i]
// (just after the '%'). It returns the Go format verb, the conversion
// character (0 if the directive is malformed) and the index of the
// last byte consumed.
func parseFormat(tmpl string, i int) (string, byte, int) {
	var sb strings.Builder
	sb.WriteByte('%')

	j := i
	if tmpl[j] == ':' {
		j++
	}
	for j < len(tmpl) && strings.IndexByte("-+# ", tmpl[j]) >= 0 {
		sb.WriteByte(tmpl[j])
		j++
	}
	for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
		sb.WriteByte(tmpl[j])
		j++
	}
	if j < len(tmpl) && tmpl[j] == '.' {
		sb.WriteByte('.')
		j++
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			sb.WriteByte(tmpl[j])
			j++
		}
	}
	if j >= len(tmpl) || strings.IndexByte("doxXs", tmpl[j]) < 0 {
		return "", 0, j - 1
	}
	sb.WriteByte(tmpl[j])

	return sb.String(), tmpl[j], j
}

type machine struct {
	out         []byte
	stack       [STACK_SIZE]Value
	sp          int
	params      [MAX_PARAMS]Value
	dyn, static [NUM_VARS]Value
	incr        bool
}

func (m *machine) push(v Value) {
	if m.sp < STACK_SIZE {
		m.stack[m.sp] = v
		m.sp += 1
	}
}

func (m *machine) pop() Value {
	if m.sp == 0 {
		return Int(0)
	}
	m.sp -= 1
	return m.stack[m.sp]
}

func (m *machine) pushBool(b bool) {
	if b {
		m.push(Int(1))
	} else {
		m.push(Int(0))
	}
}

func (m *machine) variable(name byte) *Value {
	switch {
	case name >= 'a' && name <= 'z':
		return &m.dyn[name-'a']
	case name >= 'A' && name <= 'Z':
		return &m.static[name-'A']
	}
	return nil
}

func coerce(args []Value, types [MAX_PARAMS]paramType) [MAX_PARAMS]Value {
	var params [MAX_PARAMS]Value
	for i := 0; i < MAX_PARAMS; i++ {
		var v Value
		if i < len(args) {
			v = args[i]
		}
		switch types[i] {
		case PARAM_STRING:
			if !v.str {
				v = Str(v.String())
			}
		case PARAM_INT:
			if v.str {
				v = Int(v.Int())
			}
		}
		params[i] = v
	}
	return params
}

func expandStack(tmpl string, args []Value) string {
	m := &machine{
		out:    make([]byte, 0, len(tmpl)+8),
		params: coerce(args, analyze(tmpl)),
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' {
			m.out = append(m.out, c)
			continue
		}
		i++
		if i >= len(tmpl) {
			break
		}

		switch c = tmpl[i]; c {
		case '%':
			m.out = append(m.out, '%')
		case 'c':
			m.out = append(m.out, charByte(m.pop().Int()))
		case 's':
			m.out = append(m.out, m.pop().String()...)
		case 'd':
			m.out = strconv.AppendInt(m.out, int64(m.pop().Int()), 10)
		case 'o', 'x', 'X', ':', '#', ' ', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			verb, conv, next := parseFormat(tmpl, i)
			i = next
			switch conv {
			case 0:
				// Malformed directive, nothing to print.
			case 's':
				m.out = fmt.Appendf(m.out, verb, m.pop().String())
			default:
				m.out = fmt.Appendf(m.out, verb, m.pop().Int())
			}
		case 'p':
			if i+1 < len(tmpl) && tmpl[i+1] >= '1' && tmpl[i+1] <= '9' {
				i++
				v := m.params[tmpl[i]-'1']
				if m.incr && !v.str {
					v = Int(v.n + 1)
				}
				m.push(v)
			}
		case 'P':
			if i+1 < len(tmpl) {
				i++
				if v := m.variable(tmpl[i]); v != nil {
					*v = m.pop()
				}
			}
		case 'g':
			if i+1 < len(tmpl) {
				i++
				if v := m.variable(tmpl[i]); v != nil {
					m.push(*v)
				} else {
					m.push(Int(0))
				}
			}
		case '\'':
			if i+2 < len(tmpl) {
				m.push(Int(int(tmpl[i+1])))
				i += 2
			}
		case '{':
			n := 0
			for i++; i < len(tmpl) && tmpl[i] != '}'; i++ {
				if tmpl[i] >= '0' && tmpl[i] <= '9' {
					n = n*10 + int(tmpl[i]-'0')
				}
			}
			m.push(Int(n))
		case 'l':
			m.push(Int(len(m.pop().String())))
		case '+', '-', '*', '/', 'm', '&', '|', '^', '=', '>', '<', 'A', 'O':
			b, a := m.pop().Int(), m.pop().Int()
			m.binary(c, a, b)
		case '!':
			m.pushBool(m.pop().Int() == 0)
		case '~':
			m.push(Int(^m.pop().Int()))
		case 'i':
			m.incr = true
		case '?', ';':
			// Markers only.
		case 't':
			if m.pop().Int() == 0 {
				i = skipBranch(tmpl, i+1, true)
			}
		case 'e':
			i = skipBranch(tmpl, i+1, false)
		}
	}

	return string(m.out)
}

func (m *machine) binary(op byte, a, b int) {
	switch op {
	case '+':
		m.push(Int(a + b))
	case '-':
		m.push(Int(a - b))
	case '*':
		m.push(Int(a * b))
	case '/':
		if b == 0 {
			m.push(Int(0))
		} else {
			m.push(Int(a / b))
		}
	case 'm':
		if b == 0 {
			m.push(Int(0))
		} else {
			m.push(Int(a % b))
		}
	case '&':
		m.push(Int(a & b))
	case '|':
		m.push(Int(a | b))
	case '^':
		m.push(Int(a ^ b))
	case '=':
		m.pushBool(a == b)
	case '>':
		m.pushBool(a > b)
	case '<':
		m.pushBool(a < b)
	case 'A':
		m.pushBool(a != 0 && b != 0)
	case 'O':
		m.pushBool(a != 0 || b != 0)
	}
}

// skipBranch scans forward from i for the "%e" (if elseOK) or "%;"
// that belongs to the current conditional and returns the index of
// its directive character. Nested conditionals are skipped whole.
func skipBranch(tmpl string, i int, elseOK bool) int {
	level := 0
	for ; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		if i >= len(tmpl) {
			break
		}
		switch tmpl[i] {
		case '?':
			level += 1
		case ';':
			if level == 0 {
				return i
			}
			level -= 1
		case 'e':
			if level == 0 && elseOK {
				return i
			}
		case '\'':
			i += 2
		case '{':
			for i < len(tmpl) && tmpl[i] != '}' {
				i++
			}
		}
	}
	return len(tmpl)
}

func expandPositional(tmpl string, args []Value) string {
	a := make([]int, len(args))
	for i, v := range args {
		a[i] = v.Int()
	}
	ai := 0
	next := func() int {
		n := 0
		if ai < len(a) {
			n = a[ai]
		}
		ai += 1
		return n
	}
	cur := func() *int {
		if ai < len(a) {
			return &a[ai]
		}
		return new(int)
	}

	out := make([]byte, 0, len(tmpl)+8)
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(tmpl) {
			break
		}

		switch c = tmpl[i]; c {
		case '%':
			out = append(out, '%')
		case 'd':
			out = strconv.AppendInt(out, int64(next()), 10)
		case '2':
			out = fmt.Appendf(out, "%02d", next())
		case '3':
			out = fmt.Appendf(out, "%03d", next())
		case '.':
			out = append(out, byte(next()))
		case '+':
			if i+1 < len(tmpl) {
				i++
				out = append(out, byte(next()+int(tmpl[i])))
			}
		case '>':
			if i+2 < len(tmpl) {
				if p := cur(); *p > int(tmpl[i+1]) {
					*p += int(tmpl[i+2])
				}
				i += 2
			}
		case 'r':
			if ai+1 < len(a) {
				a[ai], a[ai+1] = a[ai+1], a[ai]
			}
		case 'i':
			for j := range a {
				a[j] += 1
			}
		case 'n':
			for j := range a {
				a[j] ^= 0140
			}
		case 'B':
			p := cur()
			*p = 16*(*p/10) + *p%10
		case 'D':
			p := cur()
			*p = *p - 2*(*p%16)
		default:
			out = append(out, '%', c)
		}
	}

	return string(out)
}

// charByte converts a %c argument. A zero becomes 0x80 so the output
// never carries a NUL, which the host would drop.
func charByte(n int) byte {
	if b := byte(n); b != 0 {
		return b
	}
	return 0x80
}
