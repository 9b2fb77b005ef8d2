package recorder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand"
	"slices"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func TestRoundTrip(t *testing.T) {
	big := make([]byte, COMPRESS_THRESHOLD+1)
	rand.Read(big)

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{start}

	cases := []struct {
		advance   time.Duration
		dir       Direction
		data      []byte
		wantDelay time.Duration
	}{
		{0, OUTPUT, []byte("hello"), 0},
		{250 * time.Millisecond, INPUT, []byte{0x1b, 'W'}, 200 * time.Millisecond},
		{50 * time.Millisecond, OUTPUT, big, 100 * time.Millisecond},
		{3 * time.Second, OUTPUT, bytes.Repeat([]byte("x"), 1000), 3 * time.Second},
	}

	var buf bytes.Buffer
	w, err := newWriter(&buf, clk.now)
	if err != nil {
		t.Fatalf("newWriter() = %v", err)
	}
	for i, c := range cases {
		clk.t = clk.t.Add(c.advance)
		if err := w.Record(c.dir, c.data); err != nil {
			t.Fatalf("%d: Record() = %v", i, err)
		}
	}
	// Empty chunks aren't recorded.
	w.Record(OUTPUT, nil)

	rd, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	if !rd.Start().Equal(start) {
		t.Errorf("Got start %v, wanted %v", rd.Start(), start)
	}

	for i, c := range cases {
		f, err := rd.Next()
		if err != nil {
			t.Fatalf("%d: Next() = %v", i, err)
		}
		if f.Dir != c.dir || f.Delay != c.wantDelay || !slices.Equal(f.Data, c.data) {
			t.Errorf("%d: Got (%v, %v, %d bytes), wanted (%v, %v, %d bytes)", i, f.Dir, f.Delay, len(f.Data), c.dir, c.wantDelay, len(c.data))
		}
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Errorf("Got %v at end, wanted io.EOF", err)
	}
}

func TestCompression(t *testing.T) {
	data := bytes.Repeat([]byte("abcd"), 100)

	var small, large bytes.Buffer
	for _, c := range []struct {
		buf  *bytes.Buffer
		data []byte
	}{
		{&small, data[:COMPRESS_THRESHOLD]},
		{&large, data},
	} {
		w, _ := NewWriter(c.buf)
		w.Record(OUTPUT, c.data)
	}

	if large.Len() >= small.Len()+len(data)-COMPRESS_THRESHOLD {
		t.Errorf("Large frame of %d bytes not compressed (small %d)", large.Len(), small.Len())
	}
}

func TestDecompressLimit(t *testing.T) {
	cases := []struct {
		size    int
		wantErr bool
	}{
		{MAX_FRAME, false},
		{MAX_FRAME + 1, true},
	}
	for i, c := range cases {
		z, err := compress(make([]byte, c.size))
		if err != nil {
			t.Fatal(err)
		}
		got, err := decompress(z)
		if (err != nil) != c.wantErr {
			t.Errorf("%d: Got error %v, wanted error %t", i, err, c.wantErr)
		}
		if c.wantErr && !errors.Is(err, ErrBadFrame) {
			t.Errorf("%d: Got %v, wanted %v", i, err, ErrBadFrame)
		}
		if !c.wantErr && len(got) != c.size {
			t.Errorf("%d: Got %d bytes, wanted %d", i, len(got), c.size)
		}
	}
}

func TestBadRecordings(t *testing.T) {
	clk := &fakeClock{time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	var hdr, good bytes.Buffer
	newWriter(&hdr, clk.now)
	w, _ := newWriter(&good, clk.now)
	w.Record(OUTPUT, []byte("hello"))
	hdrLen := hdr.Len()

	cases := []struct {
		in         []byte
		wantHdrErr bool
	}{
		{[]byte("not a recording"), true},
		{[]byte(MAGIC), true},
		{good.Bytes()[:good.Len()-2], false},
		{append(slices.Clone(good.Bytes()[:hdrLen]), 0x03, 0x08, 0x09, 0x22), false},
	}

	for i, c := range cases {
		rd, err := NewReader(bytes.NewReader(c.in))
		if c.wantHdrErr {
			if !errors.Is(err, ErrBadFrame) {
				t.Errorf("%d: Got %v, wanted %v", i, err, ErrBadFrame)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d: NewReader() = %v", i, err)
			continue
		}
		if _, err := rd.Next(); !errors.Is(err, ErrBadFrame) {
			t.Errorf("%d: Got %v, wanted %v", i, err, ErrBadFrame)
		}
	}
}

func TestReplay(t *testing.T) {
	var slept []time.Duration
	defer func(f func(context.Context, time.Duration) error) { sleep = f }(sleep)
	sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	clk := &fakeClock{time.Now()}
	var buf bytes.Buffer
	w, _ := newWriter(&buf, clk.now)
	steps := []struct {
		advance time.Duration
		dir     Direction
		data    string
	}{
		{100 * time.Millisecond, OUTPUT, "a"},
		{200 * time.Millisecond, INPUT, "k"},
		{200 * time.Millisecond, OUTPUT, "b"},
		{5 * time.Second, OUTPUT, "c"},
	}
	for _, s := range steps {
		clk.t = clk.t.Add(s.advance)
		w.Record(s.dir, []byte(s.data))
	}

	rd, err := NewReader(&buf)
	if err != nil {
		t.Fatalf("NewReader() = %v", err)
	}
	var out bytes.Buffer
	if err := Replay(context.Background(), rd, &out); err != nil {
		t.Fatalf("Replay() = %v", err)
	}

	if got := out.String(); got != "abc" {
		t.Errorf("Got %q, wanted %q", got, "abc")
	}
	want := []time.Duration{100 * time.Millisecond, 400 * time.Millisecond, MAX_REPLAY_DELAY}
	if !slices.Equal(slept, want) {
		t.Errorf("Got delays %v, wanted %v", slept, want)
	}
}
