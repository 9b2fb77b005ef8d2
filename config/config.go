// Package config holds the user settable options: the environment
// given to the child, the answerback message, the host charset and the
// code sent by every key.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bdwalton/wy60/keys"
	"gopkg.in/yaml.v3"
)

const (
	SYSTEM_RC = "/etc/wy60.rc"
	USER_RC   = ".wy60rc"
	USER_YAML = ".config/wy60/wy60.yaml"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrInvalidEntry    = errors.New("invalid entry")
	ErrEmptyName       = errors.New("empty variable name")
	ErrBadEscape       = errors.New("illegal escape sequence")
)

type Config struct {
	Term       string // TERM for the child
	Shell      string
	Answerback string
	Charset    string            // host charset for bytes >= 0x80
	Keys       map[string]string // Wyse60 code by canonical key name
}

func Default() *Config {
	return &Config{
		Term:  "wyse60",
		Shell: "/bin/sh",
		Keys:  keys.Defaults(),
	}
}

// Set assigns value to the variable called name. Names are matched
// without regard to case.
func (c *Config) Set(name, value string) error {
	switch strings.ToLower(name) {
	case "term":
		c.Term = value
	case "shell":
		c.Shell = value
	case "answerback":
		c.Answerback = value
	case "charset":
		c.Charset = value
	default:
		k, ok := keys.Canonical(name)
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownVariable, name)
		}
		c.Keys[k] = value
	}
	return nil
}

// ParseRC reads settings in rc file format from r. Every line holds
// one "name = value" assignment; a '#' starts a comment. name is only
// used in error messages.
func (c *Config) ParseRC(r io.Reader, name string) error {
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		line := s.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("%w %q in file %q at line %d", ErrInvalidEntry, line, name, n)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%w in file %q at line %d", ErrEmptyName, name, n)
		}
		value, err := Unescape(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w in file %q at line %d", err, name, n)
		}
		if err := c.Set(key, value); err != nil {
			return fmt.Errorf("%w in file %q at line %d", err, name, n)
		}
	}
	return s.Err()
}

// LoadFile reads an rc file. A file that doesn't exist is ignored.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	slog.Debug("reading configuration", "file", path)
	return c.ParseRC(f, path)
}

// LoadYAML reads a YAML file holding a flat map of variable names to
// values. Values are taken literally. A file that doesn't exist is
// ignored.
func (c *Config) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	vars := map[string]string{}
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	slog.Debug("reading configuration", "file", path, "entries", len(vars))

	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	slices.Sort(names)
	for _, k := range names {
		if err := c.Set(k, vars[k]); err != nil {
			return fmt.Errorf("%w in file %q", err, path)
		}
	}
	return nil
}

// Load applies the system rc file, then the user's rc and YAML files
// from home. An empty home skips the user files.
func (c *Config) Load(home string) error {
	if err := c.LoadFile(SYSTEM_RC); err != nil {
		return err
	}
	if home == "" {
		return nil
	}
	if err := c.LoadFile(filepath.Join(home, USER_RC)); err != nil {
		return err
	}
	return c.LoadYAML(filepath.Join(home, USER_YAML))
}

// Unescape expands the backslash escapes of an rc file value. A
// sequence that yields a NUL byte is an error.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("%w %q", ErrBadEscape, s)
		}
		i += 1

		switch c := s[i]; c {
		case 'x':
			v, n := 0, 0
			for ; n < 2 && i+1+n < len(s) && isHex(s[i+1+n]); n++ {
				v = 16*v + hexVal(s[i+1+n])
			}
			if v == 0 {
				return "", fmt.Errorf("%w %q", ErrBadEscape, s)
			}
			b.WriteByte(byte(v))
			i += n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v, n := 0, 0
			for ; n < 3 && i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '7'; n++ {
				v = 8*v + int(s[i+n]-'0')
			}
			if v == 0 || v > 0xff {
				return "", fmt.Errorf("%w %q", ErrBadEscape, s)
			}
			b.WriteByte(byte(v))
			i += n - 1
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'e':
			b.WriteByte(0x1b)
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'v':
			b.WriteByte('\v')
		case '"', '\'', '\\':
			b.WriteByte(c)
		default:
			return "", fmt.Errorf("%w %q", ErrBadEscape, s)
		}
	}
	return b.String(), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) int {
	switch {
	case c >= 'a':
		return int(c-'a') + 10
	case c >= 'A':
		return int(c-'A') + 10
	}
	return int(c - '0')
}
