package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// charset transcodes the upper half of an 8-bit character set into
// UTF-8 for hosts that expect it.
type charset struct {
	name string
	cm   *charmap.Charmap
}

var charsets = map[string]*charmap.Charmap{
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"latin9":       charmap.ISO8859_15,
	"cp437":        charmap.CodePage437,
	"ibm437":       charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"ibm850":       charmap.CodePage850,
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
}

func (c *charset) decode(b byte) []byte {
	return utf8.AppendRune(nil, c.cm.DecodeByte(b))
}

// SetCharset makes characters 0x80 and above pass through the named
// character set on their way to the host. The empty name and "raw"
// send them unchanged.
func (r *Renderer) SetCharset(name string) error {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "raw" {
		r.charset = nil
		return nil
	}
	cm, ok := charsets[n]
	if !ok {
		return fmt.Errorf("unknown character set %q", name)
	}
	r.charset = &charset{name: n, cm: cm}
	return nil
}

func (r *Renderer) Charset() string {
	if r.charset == nil {
		return "raw"
	}
	return r.charset.name
}
