package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// See https://github.com/golang/go/issues/62005 for details about why
// we have this. When that issue is closed, we should be able to use
// slog's built in discard handler.
type discardHandler struct {
	slog.JSONHandler
}

func (d *discardHandler) Enabled(context.Context, slog.Level) bool {
	return false
}

// colorHandler formats records as text and colours each line by its
// level. It is used when the log is written to a terminal.
type colorHandler struct {
	h   slog.Handler
	buf *bytes.Buffer
	mu  *sync.Mutex
	out *termenv.Output
}

func newColorHandler(w io.Writer, opts *slog.HandlerOptions) *colorHandler {
	buf := &bytes.Buffer{}
	return &colorHandler{
		h:   slog.NewTextHandler(buf, opts),
		buf: buf,
		mu:  &sync.Mutex{},
		out: termenv.NewOutput(w),
	}
}

func (c *colorHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return c.h.Enabled(ctx, l)
}

func (c *colorHandler) Handle(ctx context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Reset()
	if err := c.h.Handle(ctx, r); err != nil {
		return err
	}
	line := strings.TrimSuffix(c.buf.String(), "\n")

	s := c.out.String(line)
	switch {
	case r.Level >= slog.LevelError:
		s = s.Foreground(c.out.Color("9"))
	case r.Level >= slog.LevelWarn:
		s = s.Foreground(c.out.Color("11"))
	case r.Level < slog.LevelInfo:
		s = s.Faint()
	}
	_, err := c.out.WriteString(s.String() + "\n")
	return err
}

func (c *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{h: c.h.WithAttrs(attrs), buf: c.buf, mu: c.mu, out: c.out}
}

func (c *colorHandler) WithGroup(name string) slog.Handler {
	return &colorHandler{h: c.h.WithGroup(name), buf: c.buf, mu: c.mu, out: c.out}
}

// Setup directs the default logger to logfile. Nothing is logged when
// logfile is empty. debug enables debug records, which trace every
// decoded command.
func Setup(logfile string, debug bool) error {
	var l *slog.Logger

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	if logfile != "" {
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("couldn't open logfile %q: %w", logfile, err)
		}

		if term.IsTerminal(int(f.Fd())) {
			l = slog.New(newColorHandler(f, opts))
		} else {
			l = slog.New(slog.NewTextHandler(f, opts))
		}
	} else {
		l = slog.New(&discardHandler{})
	}

	slog.SetDefault(l)
	return nil
}
