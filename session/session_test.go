package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/bdwalton/wy60/caps"
	"github.com/bdwalton/wy60/config"
	"github.com/bdwalton/wy60/recorder"
)

type testSession struct {
	*Session
	kbd *os.File // what the user types
}

func newTestSession(t *testing.T) *testSession {
	t.Helper()
	tbl, ok := caps.Builtin("xterm")
	if !ok {
		t.Fatalf("no built-in xterm")
	}
	inR, inW, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	out, err := os.CreateTemp(t.TempDir(), "host")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		inR.Close()
		inW.Close()
		out.Close()
	})

	s := newSession(Options{}, tbl, inR, out)
	if err := s.setup(80, 24); err != nil {
		t.Fatalf("setup() = %v", err)
	}
	return &testSession{Session: s, kbd: inW}
}

// host returns everything sent to the host terminal so far.
func (ts *testSession) host(t *testing.T) string {
	t.Helper()
	if err := ts.r.Flush(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(ts.out.Name())
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), EXIT_FAILURE},
		{fatal(EXIT_SIGNAL, "Exiting on signal %d", 1), EXIT_SIGNAL},
		{fmt.Errorf("wrapped: %w", fatal(EXIT_USAGE, "usage")), EXIT_USAGE},
	}

	for i, c := range cases {
		if got := ExitCode(c.err); got != c.want {
			t.Errorf("%d: Got %d, wanted %d", i, got, c.want)
		}
	}
}

func TestResponseScanner(t *testing.T) {
	cases := []struct {
		first, discard int
		last           byte
		in             []string
		wantResp       string
		wantDone       bool
		wantRest       string
	}{
		{0x1b, 0, 'R', []string{"\x1b[3;4R"}, "\x1b[3;4R", true, ""},
		{0x1b, 0, 'R', []string{"ab\x1b[3", ";4Rcd"}, "\x1b[3;4R", true, "abcd"},
		{0x1b, 0, 'R', []string{"ab\x1b[3"}, "\x1b[3", false, "ab"},
		{-1, '\r', 'C', []string{"12R40C\r\rx"}, "12R40C", true, "x"},
		{0x1b, 0, 'c', []string{"q"}, "", false, "q"},
	}

	for i, c := range cases {
		rs := &responseScanner{first: c.first, last: c.last, discard: c.discard}
		var rest []byte
		for _, in := range c.in {
			rest = append(rest, rs.feed([]byte(in))...)
		}
		if string(rs.resp) != c.wantResp || rs.done != c.wantDone || string(rest) != c.wantRest {
			t.Errorf("%d: Got (%q, %t, %q), wanted (%q, %t, %q)", i, rs.resp, rs.done, rest, c.wantResp, c.wantDone, c.wantRest)
		}
	}
}

func TestParsePosition(t *testing.T) {
	cases := []struct {
		parse        func([]byte) (int, int, bool)
		in           string
		wantX, wantY int
		wantOk       bool
	}{
		{parseVTPosition, "\x1b[12;40R", 39, 11, true},
		{parseVTPosition, "\x1b[1;1R", 0, 0, true},
		{parseVTPosition, "\x1b[12R", 0, 0, false},
		{parseVTPosition, "\x1b[a;1R", 0, 0, false},
		{parseWyPosition, "12R40C", 39, 11, true},
		{parseWyPosition, "0R1C", 0, 0, false},
		{parseWyPosition, "40C", 0, 0, false},
	}

	for i, c := range cases {
		x, y, ok := c.parse([]byte(c.in))
		if x != c.wantX || y != c.wantY || ok != c.wantOk {
			t.Errorf("%d: Got (%d, %d, %t), wanted (%d, %d, %t)", i, x, y, ok, c.wantX, c.wantY, c.wantOk)
		}
	}
}

func TestShell(t *testing.T) {
	t.Setenv("SHELL", "")
	cfg := config.Default()
	cfg.Shell = "/bin/bash"

	cases := []struct {
		opts               Options
		wantPath, wantName string
	}{
		{Options{Config: cfg}, "/bin/bash", "bash"},
		{Options{Config: cfg, Login: true}, "/bin/bash", "-bash"},
		{Options{Config: cfg, Command: "vi", Login: true}, "vi", "vi"},
	}

	for i, c := range cases {
		path, name := shell(c.opts)
		if path != c.wantPath || name != c.wantName {
			t.Errorf("%d: Got (%q, %q), wanted (%q, %q)", i, path, name, c.wantPath, c.wantName)
		}
	}

	t.Setenv("SHELL", "/usr/bin/zsh")
	if path, name := shell(Options{Config: cfg, Login: true}); path != "/usr/bin/zsh" || name != "-zsh" {
		t.Errorf("Got (%q, %q), wanted (%q, %q)", path, name, "/usr/bin/zsh", "-zsh")
	}
}

func TestChildEnv(t *testing.T) {
	env := []string{"HOME=/root", "TERM=xterm", "LINES=3", "PATH=/bin"}
	got := childEnv(env, "wyse60", 132, 25)
	want := []string{"HOME=/root", "PATH=/bin", "TERM=wyse60", "LINES=25", "COLUMNS=132"}
	if !slices.Equal(got, want) {
		t.Errorf("Got %q, wanted %q", got, want)
	}
}

func TestRequestGeometry(t *testing.T) {
	cases := []struct {
		vtCur bool
		want  bool
		host  string
	}{
		{false, false, ""},
		{true, true, "\x1b[8;24;132t"},
	}

	for i, c := range cases {
		ts := newTestSession(t)
		ts.vtCur = c.vtCur
		if got := ts.RequestGeometry(132, 24); got != c.want {
			t.Errorf("%d: Got %t, wanted %t", i, got, c.want)
		}
		if got := ts.host(t); got != c.host {
			t.Errorf("%d: Got %q, wanted %q", i, got, c.host)
		}
		if ts.resized != c.want {
			t.Errorf("%d: Got resized %t, wanted %t", i, ts.resized, c.want)
		}
	}
}

func TestQueryCursor(t *testing.T) {
	ts := newTestSession(t)
	ts.vtCur = true

	go func() {
		time.Sleep(50 * time.Millisecond)
		ts.kbd.Write([]byte("x\x1b[12;5Ry"))
	}()
	if !ts.queryCursor() {
		t.Fatalf("queryCursor() failed")
	}

	if x, y := ts.r.Cursor(); x != 4 || y != 11 {
		t.Errorf("Got host cursor (%d, %d), wanted (4, 11)", x, y)
	}
	if x, y := ts.emu.Screen().Page().Cursor(); x != 4 || y != 11 {
		t.Errorf("Got page cursor (%d, %d), wanted (4, 11)", x, y)
	}
	if got := string(ts.extra); got != "xy" {
		t.Errorf("Got keyboard input %q, wanted %q", got, "xy")
	}
	if got := ts.host(t); got != VT_CURSOR_QUERY {
		t.Errorf("Got %q sent to host, wanted %q", got, VT_CURSOR_QUERY)
	}
}

func TestQueryTimeout(t *testing.T) {
	ts := newTestSession(t)
	ts.kbd.Write([]byte("typed"))

	if _, ok := ts.query(DEVICE_ATTRIBUTES, 20*time.Millisecond, 0x1b, 'c', 0); ok {
		t.Errorf("Got a reply from a silent host")
	}
	if got := string(ts.extra); got != "typed" {
		t.Errorf("Got keyboard input %q, wanted %q", got, "typed")
	}
}

func TestReadAvailable(t *testing.T) {
	ts := newTestSession(t)
	if got := ts.readAvailable(); got != nil {
		t.Errorf("Got %q with nothing typed, wanted nil", got)
	}
	ts.kbd.Write([]byte("abc"))
	if got := string(ts.readAvailable()); got != "abc" {
		t.Errorf("Got %q, wanted %q", got, "abc")
	}
}

func TestRun(t *testing.T) {
	ts := newTestSession(t)

	// The child's side of its terminal.
	toChildR, toChildW, _ := os.Pipe()
	fromChildR, fromChildW, _ := os.Pipe()
	defer toChildR.Close()
	defer fromChildR.Close()
	ts.childIn = int(toChildW.Fd())
	ts.childOut = int(fromChildR.Fd())

	rec := filepath.Join(t.TempDir(), "rec")
	if err := ts.Record(rec); err != nil {
		t.Fatalf("Record() = %v", err)
	}

	ts.kbd.Write([]byte("ls\x1b[A\x1bOP"))
	ts.kbd.Close()
	fromChildW.Write([]byte("hi\x1b "))
	fromChildW.Close()

	if err := ts.Run(); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if code := ts.Close(); code != 0 {
		t.Errorf("Got exit code %d, wanted 0", code)
	}
	toChildW.Close()

	got, _ := io.ReadAll(toChildR)
	if want := "ls\x0b\x01@\r60\r"; string(got) != want {
		t.Errorf("Got %q sent to child, wanted %q", got, want)
	}
	if h := ts.host(t); !strings.Contains(h, "hi") {
		t.Errorf("Got %q on host, wanted it to contain %q", h, "hi")
	}

	f, err := os.Open(rec)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rd, err := recorder.NewReader(f)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	var dirs []recorder.Direction
	for {
		fr, err := rd.Next()
		if err != nil {
			break
		}
		dirs = append(dirs, fr.Dir)
	}
	if len(dirs) != 2 || !slices.Contains(dirs, recorder.INPUT) || !slices.Contains(dirs, recorder.OUTPUT) {
		t.Errorf("Got frames %v, wanted one input and one output", dirs)
	}
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rec")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w, _ := recorder.NewWriter(f)
	w.Record(recorder.INPUT, []byte("k"))
	w.Record(recorder.OUTPUT, []byte("\x1b=\"%replayed"))
	f.Close()

	ts := newTestSession(t)
	if err := ts.Replay(context.Background(), path); err != nil {
		t.Fatalf("Replay() = %v", err)
	}
	if h := ts.host(t); !strings.Contains(h, "replayed") {
		t.Errorf("Got %q on host, wanted the replayed text", h)
	}
	p := ts.Emulator().Screen().Page()
	var got []byte
	for x := 5; x < 13; x++ {
		c, err := p.Cell(x, 2)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, c.Ch)
	}
	if string(got) != "replayed" {
		t.Errorf("Got %q at row 2, column 5, wanted %q", got, "replayed")
	}
	if x, y := p.Cursor(); x != 13 || y != 2 {
		t.Errorf("Got cursor (%d, %d), wanted (13, 2)", x, y)
	}

	if err := ts.Replay(context.Background(), filepath.Join(t.TempDir(), "none")); ExitCode(err) != EXIT_FAILURE {
		t.Errorf("Got %v for a missing recording, wanted exit code %d", err, EXIT_FAILURE)
	}
}
