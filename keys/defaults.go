package keys

import (
	"fmt"
	"strings"

	"github.com/bdwalton/wy60/caps"
)

// Key is one key of the host keyboard: its name, the terminfo
// capability describing what it sends and the Wyse60 code it sends by
// default.
type Key struct {
	Name string
	Cap  string
	Wyse string
}

var KEYS = []Key{
	{"A1", "ka1", ""},
	{"A3", "ka3", ""},
	{"B2", "kb2", ""},
	{"C1", "kc1", ""},
	{"C3", "kc3", ""},

	{"Backspace", "kbs", "\b"},
	{"Backtab", "kcbt", "\x1bI"},
	{"Begin", "kbeg", ""},
	{"Cancel", "kcan", ""},
	{"Clear All Tabs", "ktbc", ""},
	{"Clear Tab", "kctab", ""},
	{"Clear", "kclr", ""},
	{"Close", "kclo", ""},
	{"Command", "kcmd", ""},
	{"Copy", "kcpy", ""},
	{"Create", "kcrt", ""},
	{"Delete Line", "kdl1", "\x1bR"},
	{"Delete", "kdch1", "\x1bW"},
	{"Down", "kcud1", "\n"},
	{"End Of Line", "kel", "\x1bT"},
	{"End Of Screen", "ked", "\x1bY"},
	{"End", "kend", "\x1bT"},
	{"Enter", "kent", "\x1b7"},
	{"Exit Insert Mode", "krmir", ""},
	{"Exit", "kext", ""},
	{"Find", "kfnd", ""},
	{"Help", "khlp", ""},
	{"Home", "khome", "\x1e"},
	{"Insert Line", "kil1", "\x1bE"},
	{"Insert", "kich1", "\x1bQ"},
	{"Left", "kcub1", "\b"},
	{"Lower Left", "kll", ""},
	{"Mark", "kmrk", ""},
	{"Message", "kmsg", ""},
	{"Move", "kmov", ""},
	{"Next", "knxt", "\x1bK"},
	{"Open", "kopn", ""},
	{"Options", "kopt", ""},
	{"Page Down", "knp", "\x1bK"},
	{"Page Up", "kpp", "\x1bJ"},
	{"Previous", "kprv", "\x1bJ"},
	{"Print", "kprt", "\x1bP"},
	{"Redo", "krdo", ""},
	{"Reference", "kref", ""},
	{"Refresh", "krfr", ""},
	{"Replace", "krpl", "\x1br"},
	{"Restart", "krst", ""},
	{"Resume", "kres", ""},
	{"Right", "kcuf1", "\x0c"},
	{"Save", "ksav", ""},
	{"Scroll Down", "kind", ""},
	{"Scroll Up", "kri", ""},
	{"Select", "kslt", ""},
	{"Set Tab", "khts", ""},
	{"Suspend", "kspd", "\x1a"},
	{"Undo", "kund", ""},
	{"Up", "kcuu1", "\x0b"},

	{"Shift Begin", "kBEG", ""},
	{"Shift Cancel", "kCAN", ""},
	{"Shift Command", "kCMD", ""},
	{"Shift Copy", "kCPY", ""},
	{"Shift Create", "kCRT", ""},
	{"Shift Delete Line", "kDL", "\x1bR"},
	{"Shift Delete", "kDC", "\x1bW"},
	{"Shift End Of Line", "kEOL", "\x1bT"},
	{"Shift End", "kEND", "\x1bT"},
	{"Shift Exit", "kEXT", ""},
	{"Shift Find", "kFND", ""},
	{"Shift Help", "kHLP", ""},
	{"Shift Home", "kHOM", "\x1b{"},
	{"Shift Insert", "kIC", "\x1bQ"},
	{"Shift Left", "kLFT", "\b"},
	{"Shift Message", "kMSG", ""},
	{"Shift Move", "kMOV", ""},
	{"Shift Next", "kNXT", "\x1bK"},
	{"Shift Options", "kOPT", ""},
	{"Shift Previous", "kPRV", "\x1bJ"},
	{"Shift Print", "kPRT", "\x1bP"},
	{"Shift Redo", "kRDO", ""},
	{"Shift Replace", "kRPL", "\x1br"},
	{"Shift Resume", "kRES", ""},
	{"Shift Right", "kRIT", "\x0c"},
	{"Shift Save", "kSAV", ""},
	{"Shift Suspend", "kSPD", ""},
	{"Shift Undo", "kUND", ""},
}

const NUM_FUNCTION_KEYS = 64

// functionKey returns the default code of Fn: SOH, a letter and CR for
// F1 to F32, nothing for the rest.
func functionKey(n int) string {
	var c byte
	switch {
	case n >= 1 && n <= 12:
		c = '@' + byte(n-1)
	case n >= 13 && n <= 24:
		c = '`' + byte(n-13)
	case n >= 25 && n <= 28:
		c = 'L' + byte(n-25)
	case n >= 29 && n <= 32:
		c = 'l' + byte(n-29)
	default:
		return ""
	}
	return string([]byte{0x01, c, '\r'})
}

func init() {
	for n := 0; n < NUM_FUNCTION_KEYS; n++ {
		KEYS = append(KEYS, Key{fmt.Sprintf("F%d", n), fmt.Sprintf("kf%d", n), functionKey(n)})
	}
}

// FALLBACKS are sequences commonly sent by xterm compatible terminals.
// They are used when the terminfo description is incomplete.
var FALLBACKS = []struct {
	Name, Seq string
}{
	{"Backspace", "\x7f"},
	{"Backtab", "\x1b[Z"},
	{"Backtab", "\x1b[5Z"},
	{"Delete", "\x1b[3~"},
	{"Delete", "\x1b[3;5~"},
	{"Down", "\x1b[B"},
	{"Down", "\x1b[2B"},
	{"Down", "\x1b[5B"},
	{"Down", "\x1bOB"},
	{"Down", "\x1bO2B"},
	{"Down", "\x1bO5B"},
	{"End", "\x1b[4~"},
	{"End", "\x1b[4;5~"},
	{"End", "\x1b[8~"},
	{"End", "\x1b[8;5~"},
	{"End", "\x1b[F"},
	{"End", "\x1b[5F"},
	{"End", "\x1bOF"},
	{"End", "\x1bO5F"},
	{"Enter", "\x1b[M"},
	{"Enter", "\x1b[2M"},
	{"Enter", "\x1b[5M"},
	{"Enter", "\x1bOM"},
	{"Enter", "\x1bO2M"},
	{"Enter", "\x1bO5M"},
	{"Home", "\x1b[1~"},
	{"Home", "\x1b[1;5~"},
	{"Home", "\x1b[H"},
	{"Home", "\x1b[5H"},
	{"Home", "\x1bOH"},
	{"Home", "\x1bO5H"},
	{"Insert", "\x1b[2~"},
	{"Insert", "\x1b[2;5~"},
	{"Left", "\x1b[D"},
	{"Left", "\x1b[5D"},
	{"Left", "\x1bOD"},
	{"Left", "\x1bO5D"},
	{"Page Down", "\x1b[6~"},
	{"Page Down", "\x1b[6;5~"},
	{"Page Up", "\x1b[5~"},
	{"Page Up", "\x1b[5;5~"},
	{"Right", "\x1b[C"},
	{"Right", "\x1b[5C"},
	{"Right", "\x1bOC"},
	{"Right", "\x1bO5C"},
	{"Up", "\x1b[A"},
	{"Up", "\x1b[2A"},
	{"Up", "\x1b[5A"},
	{"Up", "\x1bOA"},
	{"Up", "\x1bO2A"},
	{"Up", "\x1bO5A"},

	{"Shift Delete", "\x1b[3;2~"},
	{"Shift End", "\x1b[4;2~"},
	{"Shift End", "\x1b[8;2~"},
	{"Shift End", "\x1b[2F"},
	{"Shift End", "\x1bO2F"},
	{"Shift Home", "\x1b[1;2~"},
	{"Shift Home", "\x1b[2H"},
	{"Shift Home", "\x1bO2H"},
	{"Shift Insert", "\x1b[2;2~"},
	{"Shift Left", "\x1b[2D"},
	{"Shift Left", "\x1bO2D"},
	{"Shift Next", "\x1b[6;2~"},
	{"Shift Previous", "\x1b[5;2~"},
	{"Shift Right", "\x1b[2C"},
	{"Shift Right", "\x1bO2C"},

	{"F1", "\x1b[M"},
	{"F1", "\x1bOP"},
	{"F1", "\x1b[11~"},
	{"F1", "\x1b[[A"},
	{"F2", "\x1b[N"},
	{"F2", "\x1bOQ"},
	{"F2", "\x1b[12~"},
	{"F2", "\x1b[[B"},
	{"F3", "\x1b[O"},
	{"F3", "\x1bOR"},
	{"F3", "\x1b[13~"},
	{"F3", "\x1b[[C"},
	{"F4", "\x1b[P"},
	{"F4", "\x1bOS"},
	{"F4", "\x1b[14~"},
	{"F4", "\x1b[[D"},
	{"F5", "\x1b[Q"},
	{"F5", "\x1b[15~"},
	{"F5", "\x1b[[E"},
	{"F6", "\x1b[R"},
	{"F6", "\x1b[17~"},
	{"F7", "\x1b[S"},
	{"F7", "\x1b[18~"},
	{"F8", "\x1b[T"},
	{"F8", "\x1b[19~"},
	{"F9", "\x1b[U"},
	{"F9", "\x1b[20~"},
	{"F10", "\x1b[V"},
	{"F10", "\x1b[21~"},
	{"F11", "\x1b[W"},
	{"F11", "\x1b[23~"},
	{"F12", "\x1b[X"},
	{"F12", "\x1b[24~"},
	{"F13", "\x1b[Y"},
	{"F13", "\x1bO2P"},
	{"F13", "\x1bO5P"},
	{"F13", "\x1b[25~"},
	{"F13", "\x1b[[2A"},
	{"F13", "\x1b[[5A"},
	{"F14", "\x1bO2Q"},
	{"F14", "\x1bO5Q"},
	{"F14", "\x1b[26~"},
	{"F14", "\x1b[[2B"},
	{"F14", "\x1b[[5B"},
	{"F15", "\x1bO2R"},
	{"F15", "\x1bO5R"},
	{"F15", "\x1b[27~"},
	{"F15", "\x1b[[2C"},
	{"F15", "\x1b[[5C"},
	{"F16", "\x1bO2S"},
	{"F16", "\x1bO5S"},
	{"F16", "\x1b[28~"},
	{"F16", "\x1b[[2D"},
	{"F16", "\x1b[[5D"},
	{"F17", "\x1b[15;2~"},
	{"F17", "\x1b[15;5~"},
	{"F17", "\x1b[29~"},
	{"F17", "\x1b[[2E"},
	{"F17", "\x1b[[5E"},
	{"F18", "\x1b[17;2~"},
	{"F18", "\x1b[17;5~"},
	{"F18", "\x1b[30~"},
	{"F19", "\x1b[18;2~"},
	{"F19", "\x1b[18;5~"},
	{"F19", "\x1b[31~"},
	{"F20", "\x1b[19;2~"},
	{"F20", "\x1b[19;5~"},
	{"F20", "\x1b[32~"},
	{"F21", "\x1b[20;2~"},
	{"F21", "\x1b[20;5~"},
	{"F21", "\x1b[33~"},
	{"F22", "\x1b[21;2~"},
	{"F22", "\x1b[21;5~"},
	{"F22", "\x1b[34~"},
	{"F23", "\x1b[23;2~"},
	{"F23", "\x1b[23;5~"},
	{"F23", "\x1b[35~"},
	{"F24", "\x1b[24;2~"},
	{"F24", "\x1b[24;5~"},
	{"F24", "\x1b[36~"},
}

// Defaults returns the default Wyse60 code of every key, by name.
func Defaults() map[string]string {
	m := make(map[string]string, len(KEYS))
	for _, k := range KEYS {
		m[k.Name] = k.Wyse
	}
	return m
}

// Canonical returns the spelling of a key name used in KEYS. Names are
// matched without regard to case.
func Canonical(name string) (string, bool) {
	for _, k := range KEYS {
		if strings.EqualFold(k.Name, name) {
			return k.Name, true
		}
	}
	return "", false
}

// Build makes the trie for a host keyboard described by t. codes gives
// the Wyse60 code for each key name; keys missing from codes send
// their default. The terminfo sequences are added before the
// fallbacks, so a terminfo definition always wins.
func Build(t *caps.Table, codes map[string]string) *Trie {
	code := func(name string) string {
		if c, ok := codes[name]; ok {
			return c
		}
		for _, k := range KEYS {
			if k.Name == name {
				return k.Wyse
			}
		}
		return ""
	}

	tr := NewTrie()
	for _, k := range KEYS {
		if seq, ok := t.Str(k.Cap); ok {
			tr.Add(k.Name, []byte(seq), []byte(code(k.Name)))
		}
	}
	for _, f := range FALLBACKS {
		tr.Add(f.Name, []byte(f.Seq), []byte(code(f.Name)))
	}
	return tr
}
