// Package recorder writes and reads session recordings. A recording
// is a header holding the start time followed by one frame per chunk
// of data that crossed the emulator, each stored as a length prefixed
// protobuf message.
package recorder

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Payloads above this many bytes are stored compressed.
const COMPRESS_THRESHOLD = 100

const MAGIC = "wy60rec\n"

// Frames larger than this are treated as corrupt.
const MAX_FRAME = 1 << 24

var ErrBadFrame = errors.New("malformed recording")

type Direction uint8

const (
	INPUT  Direction = iota + 1 // keyboard to child
	OUTPUT                      // child to host
)

func (d Direction) String() string {
	switch d {
	case INPUT:
		return "input"
	case OUTPUT:
		return "output"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Field numbers of the header and frame messages.
const (
	hdrStart protowire.Number = 1

	frmDirection  protowire.Number = 1
	frmDelay      protowire.Number = 2
	frmCompressed protowire.Number = 3
	frmData       protowire.Number = 4
)

type Frame struct {
	Dir   Direction
	Delay time.Duration // since the previous frame, in tenths of a second
	Data  []byte
}

func compress(buf []byte) ([]byte, error) {
	var gbuf bytes.Buffer
	gz := gzip.NewWriter(&gbuf)
	if _, err := gz.Write(buf); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return gbuf.Bytes(), nil
}

func decompress(buf []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}

	var obuf bytes.Buffer
	n, err := io.Copy(&obuf, io.LimitReader(gz, MAX_FRAME+1))
	if err != nil {
		return nil, err
	}
	if n > MAX_FRAME {
		return nil, fmt.Errorf("%w: payload inflates past %d bytes", ErrBadFrame, MAX_FRAME)
	}
	return obuf.Bytes(), nil
}

// Writer appends frames to a recording.
type Writer struct {
	w    io.Writer
	last time.Time
	now  func() time.Time
}

// NewWriter starts a recording on w, stamped with the current time.
func NewWriter(w io.Writer) (*Writer, error) {
	return newWriter(w, time.Now)
}

func newWriter(w io.Writer, now func() time.Time) (*Writer, error) {
	rw := &Writer{w: w, last: now(), now: now}

	ts, err := proto.Marshal(timestamppb.New(rw.last))
	if err != nil {
		return nil, fmt.Errorf("couldn't encode start time: %w", err)
	}
	hdr := protowire.AppendTag(nil, hdrStart, protowire.BytesType)
	hdr = protowire.AppendBytes(hdr, ts)

	buf := append([]byte(MAGIC), protowire.AppendBytes(nil, hdr)...)
	if _, err := w.Write(buf); err != nil {
		return nil, err
	}
	return rw, nil
}

// Record appends p as a frame travelling in direction d.
func (rw *Writer) Record(d Direction, p []byte) error {
	if len(p) == 0 {
		return nil
	}

	now := rw.now()
	tenths := uint64(max(now.Sub(rw.last), 0) / (time.Second / 10))
	// Only whole tenths are consumed, the rest carries over.
	rw.last = rw.last.Add(time.Duration(tenths) * (time.Second / 10))

	payload := p
	fcomp := len(p) > COMPRESS_THRESHOLD
	if fcomp {
		var err error
		if payload, err = compress(p); err != nil {
			return fmt.Errorf("couldn't compress payload: %w", err)
		}
	}

	var msg []byte
	msg = protowire.AppendTag(msg, frmDirection, protowire.VarintType)
	msg = protowire.AppendVarint(msg, uint64(d))
	if tenths > 0 {
		msg = protowire.AppendTag(msg, frmDelay, protowire.VarintType)
		msg = protowire.AppendVarint(msg, tenths)
	}
	if fcomp {
		msg = protowire.AppendTag(msg, frmCompressed, protowire.VarintType)
		msg = protowire.AppendVarint(msg, protowire.EncodeBool(true))
	}
	msg = protowire.AppendTag(msg, frmData, protowire.BytesType)
	msg = protowire.AppendBytes(msg, payload)

	_, err := rw.w.Write(protowire.AppendBytes(nil, msg))
	return err
}

// Reader returns the frames of a recording in order.
type Reader struct {
	r     *bufio.Reader
	start time.Time
}

func NewReader(r io.Reader) (*Reader, error) {
	rd := &Reader{r: bufio.NewReader(r)}

	magic := make([]byte, len(MAGIC))
	if _, err := io.ReadFull(rd.r, magic); err != nil || string(magic) != MAGIC {
		return nil, fmt.Errorf("%w: not a recording", ErrBadFrame)
	}

	hdr, err := rd.message()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: missing header", ErrBadFrame)
		}
		return nil, err
	}
	err = fields(hdr, func(num protowire.Number, typ protowire.Type, v uint64, b []byte) error {
		if num != hdrStart || typ != protowire.BytesType {
			return nil
		}
		ts := &timestamppb.Timestamp{}
		if err := proto.Unmarshal(b, ts); err != nil {
			return fmt.Errorf("%w: start time: %v", ErrBadFrame, err)
		}
		rd.start = ts.AsTime()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// Start returns the time the recording began.
func (rd *Reader) Start() time.Time {
	return rd.start
}

// message reads one length prefixed message.
func (rd *Reader) message() ([]byte, error) {
	n, err := binary.ReadUvarint(rd.r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if n > MAX_FRAME {
		return nil, fmt.Errorf("%w: frame of %d bytes", ErrBadFrame, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(rd.r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return buf, nil
}

// Next returns the following frame, or io.EOF at the end of the
// recording.
func (rd *Reader) Next() (Frame, error) {
	msg, err := rd.message()
	if err != nil {
		return Frame{}, err
	}

	var f Frame
	fcomp := false
	err = fields(msg, func(num protowire.Number, typ protowire.Type, v uint64, b []byte) error {
		switch {
		case num == frmDirection && typ == protowire.VarintType:
			f.Dir = Direction(v)
		case num == frmDelay && typ == protowire.VarintType:
			f.Delay = time.Duration(v) * (time.Second / 10)
		case num == frmCompressed && typ == protowire.VarintType:
			fcomp = protowire.DecodeBool(v)
		case num == frmData && typ == protowire.BytesType:
			f.Data = append([]byte(nil), b...)
		default:
			slog.Debug("skipping unknown frame field", "num", num, "type", typ)
		}
		return nil
	})
	if err != nil {
		return Frame{}, err
	}
	if f.Dir != INPUT && f.Dir != OUTPUT {
		return Frame{}, fmt.Errorf("%w: direction %d", ErrBadFrame, f.Dir)
	}

	if fcomp {
		if f.Data, err = decompress(f.Data); err != nil {
			return Frame{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
		}
	}
	return f, nil
}

// fields calls f for every field of the encoded message b. Varint
// fields pass their value in v, length delimited ones their bytes in
// p.
func fields(b []byte, f func(num protowire.Number, typ protowire.Type, v uint64, p []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrBadFrame, protowire.ParseError(n))
		}
		b = b[n:]

		var v uint64
		var p []byte
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			p, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrBadFrame, protowire.ParseError(n))
		}
		b = b[n:]

		if err := f(num, typ, v, p); err != nil {
			return err
		}
	}
	return nil
}
