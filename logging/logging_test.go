package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestColorHandler(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).With("pkg", "vt")

	cases := []struct {
		log  func(string, ...any)
		msg  string
		want []string
	}{
		{l.Debug, "decode", []string{"level=DEBUG", "msg=decode", "pkg=vt"}},
		{l.Error, "failed", []string{"level=ERROR", "msg=failed", "pkg=vt"}},
	}

	for i, c := range cases {
		buf.Reset()
		c.log(c.msg, "n", 1)
		got := buf.String()
		for _, w := range append(c.want, "n=1") {
			if !strings.Contains(got, w) {
				t.Errorf("%d: Got %q, wanted it to contain %q", i, got, w)
			}
		}
		if !strings.HasSuffix(got, "\n") || strings.Count(got, "\n") != 1 {
			t.Errorf("%d: Got %q, wanted a single line", i, got)
		}
	}
}

func TestSetup(t *testing.T) {
	defer func(l *slog.Logger) { slog.SetDefault(l) }(slog.Default())

	p := filepath.Join(t.TempDir(), "wy60.log")
	cases := []struct {
		debug bool
		want  bool
	}{
		{false, false},
		{true, true},
	}

	for i, c := range cases {
		if err := Setup(p, c.debug); err != nil {
			t.Fatalf("%d: Setup() = %v", i, err)
		}
		slog.Debug("decode", "cmd", "home")
		slog.Info("started")

		b, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if got := strings.Contains(string(b), "cmd=home"); got != c.want {
			t.Errorf("%d: Got debug logged %t, wanted %t", i, got, c.want)
		}
		if !strings.Contains(string(b), "msg=started") {
			t.Errorf("%d: Info record missing from %q", i, b)
		}
	}

	if err := Setup("", false); err != nil {
		t.Errorf("Setup(\"\") = %v", err)
	}
	if slog.Default().Enabled(context.Background(), slog.LevelError) {
		t.Errorf("Discarding logger is enabled")
	}
}
