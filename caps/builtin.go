package caps

import "strings"

type builtinEntry struct {
	bools []string
	nums  map[string]int
	strs  map[string]string
}

var xtermStrings = map[string]string{
	CURSOR_ADDRESS:        "\x1b[%i%p1%d;%p2%dH",
	CURSOR_UP:             "\x1b[A",
	CURSOR_DOWN:           "\n",
	CURSOR_LEFT:           "\b",
	CURSOR_RIGHT:          "\x1b[C",
	PARM_UP_CURSOR:        "\x1b[%p1%dA",
	PARM_DOWN_CURSOR:      "\x1b[%p1%dB",
	PARM_LEFT_CURSOR:      "\x1b[%p1%dD",
	PARM_RIGHT_CURSOR:     "\x1b[%p1%dC",
	CURSOR_HOME:           "\x1b[H",
	CARRIAGE_RETURN:       "\r",
	CLEAR_SCREEN:          "\x1b[H\x1b[2J",
	CLR_EOL:               "\x1b[K",
	CLR_EOS:               "\x1b[J",
	INSERT_LINE:           "\x1b[L",
	PARM_INSERT_LINE:      "\x1b[%p1%dL",
	DELETE_LINE:           "\x1b[M",
	PARM_DELETE_LINE:      "\x1b[%p1%dM",
	PARM_INSERT_CHARACTER: "\x1b[%p1%d@",
	DELETE_CHARACTER:      "\x1b[P",
	ENTER_INSERT_MODE:     "\x1b[4h",
	EXIT_INSERT_MODE:      "\x1b[4l",
	SCROLL_FORWARD:        "\n",
	BELL:                  "\a",
	ENTER_STANDOUT_MODE:   "\x1b[7m",
	EXIT_STANDOUT_MODE:    "\x1b[27m",
	ENTER_UNDERLINE_MODE:  "\x1b[4m",
	EXIT_UNDERLINE_MODE:   "\x1b[24m",
	ENTER_BOLD_MODE:       "\x1b[1m",
	ENTER_BLINK_MODE:      "\x1b[5m",
	ENTER_DIM_MODE:        "\x1b[2m",
	EXIT_ATTRIBUTE_MODE:   "\x1b(B\x1b[m",
	SET_ATTRIBUTES:        "%?%p9%t\x1b(0%e\x1b(B%;\x1b[0%?%p6%t;1%;%?%p5%t;2%;%?%p2%t;4%;%?%p1%p3%|%t;7%;%?%p4%t;5%;%?%p7%t;8%;m",
	SET_A_FOREGROUND:      "\x1b[3%p1%dm",
	ORIG_PAIR:             "\x1b[39;49m",
	ENTER_ALT_CHARSET:     "\x1b(0",
	EXIT_ALT_CHARSET:      "\x1b(B",
	ACS_CHARS:             "``aaffggiijjkkllmmnnooppqqrrssttuuvvwwxxyyzz{{||}}~~",
	CURSOR_INVISIBLE:      "\x1b[?25l",
	CURSOR_NORMAL:         "\x1b[?12l\x1b[?25h",
	CURSOR_VISIBLE:        "\x1b[?12;25h",
	ENTER_CA_MODE:         "\x1b[?1049h",
	EXIT_CA_MODE:          "\x1b[?1049l",
	RESET_1STRING:         "\x1bc",
	RESET_2STRING:         "\x1b[!p\x1b[?3;4l\x1b[4l\x1b>",
	INIT_2STRING:          "\x1b[!p\x1b[?3;4l\x1b[4l\x1b>",

	"kcuu1": "\x1bOA",
	"kcud1": "\x1bOB",
	"kcuf1": "\x1bOC",
	"kcub1": "\x1bOD",
	"khome": "\x1bOH",
	"kend":  "\x1bOF",
	"kbs":   "\x7f",
	"kcbt":  "\x1b[Z",
	"kdch1": "\x1b[3~",
	"kich1": "\x1b[2~",
	"knp":   "\x1b[6~",
	"kpp":   "\x1b[5~",
	"kent":  "\x1bOM",
	"kf1":   "\x1bOP",
	"kf2":   "\x1bOQ",
	"kf3":   "\x1bOR",
	"kf4":   "\x1bOS",
	"kf5":   "\x1b[15~",
	"kf6":   "\x1b[17~",
	"kf7":   "\x1b[18~",
	"kf8":   "\x1b[19~",
	"kf9":   "\x1b[20~",
	"kf10":  "\x1b[21~",
	"kf11":  "\x1b[23~",
	"kf12":  "\x1b[24~",
}

func xterm256() map[string]string {
	m := make(map[string]string, len(xtermStrings))
	for k, v := range xtermStrings {
		m[k] = v
	}
	m[SET_A_FOREGROUND] = "\x1b[%?%p1%{8}%<%t3%p1%d%e%p1%{16}%<%t9%p1%{8}%-%d%e38;5;%p1%d%;m"
	return m
}

var builtins = map[string]builtinEntry{
	"xterm": {
		bools: []string{AUTO_RIGHT_MARGIN, EAT_NEWLINE_GLITCH, MOVE_INSERT_MODE},
		nums:  map[string]int{COLUMNS: 80, LINES: 24, "colors": 8},
		strs:  xtermStrings,
	},
	"xterm-256color": {
		bools: []string{AUTO_RIGHT_MARGIN, EAT_NEWLINE_GLITCH, MOVE_INSERT_MODE},
		nums:  map[string]int{COLUMNS: 80, LINES: 24, "colors": 256},
		strs:  xterm256(),
	},
	// vt100 cannot insert or delete and is only useful as a
	// reference for what an insufficient terminal looks like.
	"vt100": {
		bools: []string{AUTO_RIGHT_MARGIN, EAT_NEWLINE_GLITCH},
		nums:  map[string]int{COLUMNS: 80, LINES: 24},
		strs: map[string]string{
			CURSOR_ADDRESS:       "\x1b[%i%p1%d;%p2%dH$<5>",
			CURSOR_UP:            "\x1b[A$<2>",
			CURSOR_DOWN:          "\n",
			CURSOR_LEFT:          "\b",
			CURSOR_RIGHT:         "\x1b[C$<2>",
			PARM_UP_CURSOR:       "\x1b[%p1%dA",
			PARM_DOWN_CURSOR:     "\x1b[%p1%dB",
			PARM_LEFT_CURSOR:     "\x1b[%p1%dD",
			PARM_RIGHT_CURSOR:    "\x1b[%p1%dC",
			CURSOR_HOME:          "\x1b[H",
			CARRIAGE_RETURN:      "\r",
			CLEAR_SCREEN:         "\x1b[H\x1b[J$<50>",
			CLR_EOL:              "\x1b[K$<3>",
			CLR_EOS:              "\x1b[J$<50>",
			SCROLL_FORWARD:       "\n",
			BELL:                 "\a",
			ENTER_STANDOUT_MODE:  "\x1b[7m$<2>",
			EXIT_STANDOUT_MODE:   "\x1b[m$<2>",
			ENTER_UNDERLINE_MODE: "\x1b[4m$<2>",
			EXIT_UNDERLINE_MODE:  "\x1b[m$<2>",
			ENTER_BOLD_MODE:      "\x1b[1m$<2>",
			ENTER_BLINK_MODE:     "\x1b[5m$<2>",
			EXIT_ATTRIBUTE_MODE:  "\x1b[m\x0f$<2>",
			SET_ATTRIBUTES:       "\x1b[0%?%p1%p6%|%t;1%;%?%p2%t;4%;%?%p1%p3%|%t;7%;%?%p4%t;5%;m%?%p9%t\x0e%e\x0f%;$<2>",
			ENTER_ALT_CHARSET:    "\x0e",
			EXIT_ALT_CHARSET:     "\x0f",
			ACS_CHARS:            "``aaffggjjkkllmmnnooppqqrrssttuuvvwwxxyyzz{{||}}~~",
			ENA_ACS:              "\x1b(B\x1b)0",
		},
	},
	"wy60": {
		bools: []string{AUTO_RIGHT_MARGIN},
		nums:  map[string]int{COLUMNS: 80, LINES: 24},
		strs: map[string]string{
			CURSOR_ADDRESS:       "\x1b=%p1%' '%+%c%p2%' '%+%c",
			CURSOR_UP:            "\x0b",
			CURSOR_DOWN:          "\n",
			CURSOR_LEFT:          "\b",
			CURSOR_RIGHT:         "\x0c",
			CURSOR_HOME:          "\x1e",
			CARRIAGE_RETURN:      "\r",
			CLEAR_SCREEN:         "\x1b+",
			CLR_EOL:              "\x1bt",
			CLR_EOS:              "\x1by",
			INSERT_LINE:          "\x1bE",
			DELETE_LINE:          "\x1bR",
			INSERT_CHARACTER:     "\x1bQ",
			DELETE_CHARACTER:     "\x1bW",
			ENTER_INSERT_MODE:    "\x1bq",
			EXIT_INSERT_MODE:     "\x1br",
			SCROLL_FORWARD:       "\n",
			BELL:                 "\a",
			ENTER_STANDOUT_MODE:  "\x1bG4",
			EXIT_STANDOUT_MODE:   "\x1bG0",
			ENTER_UNDERLINE_MODE: "\x1bG8",
			EXIT_UNDERLINE_MODE:  "\x1bG0",
			ENTER_BLINK_MODE:     "\x1bG2",
			ENTER_DIM_MODE:       "\x1bGp",
			EXIT_ATTRIBUTE_MODE:  "\x1bG0",
			CURSOR_INVISIBLE:     "\x1b`0",
			CURSOR_NORMAL:        "\x1b`1",
			"kcuu1":              "\x0b",
			"kcud1":              "\n",
			"kcub1":              "\b",
			"kcuf1":              "\x0c",
			"khome":              "\x1e",
		},
	},
}

// Builtin returns a compiled-in description for a few common terminal
// types. It is used when the terminfo database has no entry.
func Builtin(term string) (*Table, bool) {
	e, ok := builtins[strings.ToLower(term)]
	if !ok {
		return nil, false
	}
	return New(term, e.bools, e.nums, e.strs), true
}
