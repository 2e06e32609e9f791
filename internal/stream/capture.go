package stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/tphakala/audiopipe/internal/codec"
)

// Capture streams audio from the device callback to a file. The callback
// thread enqueues, the IO goroutine dequeues and writes.
type Capture struct {
	coordinator
	writer     codec.Writer
	sampleRate int
	dropped    atomic.Uint64 // samples lost to ring overflow
	progress   io.Writer
}

// NewCapture creates a capture flow writing to w.
func NewCapture(w codec.Writer, sampleRate, channels, frameSize int) *Capture {
	return &Capture{
		coordinator: newCoordinator(CaptureQueueFactor, channels, frameSize),
		writer:      w,
		sampleRate:  sampleRate,
		progress:    os.Stdout,
	}
}

// WriteFrames is the real-time entry point, invoked by the device once per
// hardware period with freshly captured interleaved samples. It never blocks
// and never allocates. Samples beyond ring capacity are dropped; overflow is
// lossy but must not stall the device thread.
func (c *Capture) WriteFrames(input []float32, frames int) {
	if c.done.Load() {
		return
	}
	samples := frames * c.channels
	pushed := c.ring.Enqueue(input[:samples])
	if pushed < samples {
		c.dropped.Add(uint64(samples - pushed))
	}
	c.notify()
}

// Dropped returns the number of samples lost to ring overflow so far.
func (c *Capture) Dropped() uint64 {
	return c.dropped.Load()
}

// SetProgress redirects progress output, which defaults to stdout.
func (c *Capture) SetProgress(w io.Writer) {
	c.progress = w
}

// Run is the IO loop. It drains the ring one staging buffer at a time and
// writes the frames to the file, reporting elapsed duration. A short write
// is fatal: better to stop recording than to silently corrupt the file.
// Cancelling ctx stops the loop cleanly.
func (c *Capture) Run(ctx context.Context) error {
	defer c.done.Store(true)

	framesPerBuffer := len(c.staging) / c.channels
	written := 0

	for {
		for c.ring.ReadAvailable() > len(c.staging) {
			c.ring.Dequeue(c.staging)

			n, err := c.writer.WriteFrames(c.staging, framesPerBuffer)
			written += n
			if err != nil {
				return fmt.Errorf("failed to write audio data: %w", err)
			}
			if n < framesPerBuffer {
				return fmt.Errorf("wrote %d of %d frames: %w", n, framesPerBuffer, io.ErrShortWrite)
			}

			fmt.Fprintf(c.progress, "[ Recording %d second(s) ]\r", written/c.sampleRate)

			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			if d := c.dropped.Load(); d > 0 {
				slog.Warn("recording dropped samples on overflow", "samples", d)
			}
			return nil
		case <-c.wake:
		}
	}
}

// Flush writes out whatever is left in the ring. Only valid once Run has
// returned and the device has been stopped, when no other thread touches
// the ring anymore.
func (c *Capture) Flush() error {
	for {
		n := c.ring.Dequeue(c.staging)
		frames := n / c.channels
		if frames == 0 {
			return nil
		}

		wrote, err := c.writer.WriteFrames(c.staging[:n], frames)
		if err != nil {
			return fmt.Errorf("failed to flush audio data: %w", err)
		}
		if wrote < frames {
			return fmt.Errorf("flushed %d of %d frames: %w", wrote, frames, io.ErrShortWrite)
		}
	}
}
