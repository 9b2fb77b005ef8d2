package recorder

import (
	"context"
	"errors"
	"io"
	"time"
)

// Recorded pauses are never replayed for longer than this.
const MAX_REPLAY_DELAY = 500 * time.Millisecond

var sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Replay writes the child output of a recording to w, pausing between
// frames as recorded. Keyboard input frames only contribute their
// delay.
func Replay(ctx context.Context, rd *Reader, w io.Writer) error {
	var wait time.Duration
	for {
		f, err := rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		wait += f.Delay
		if f.Dir != OUTPUT {
			continue
		}
		if err := sleep(ctx, min(wait, MAX_REPLAY_DELAY)); err != nil {
			return err
		}
		wait = 0

		if _, err := w.Write(f.Data); err != nil {
			return err
		}
	}
}
