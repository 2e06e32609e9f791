package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/tphakala/audiopipe/internal/codec"
)

var spinner = [...]byte{'\\', '|', '/', '-'}

// Playback streams audio from a file to the device callback. The IO
// goroutine reads and enqueues, the callback thread dequeues.
type Playback struct {
	coordinator
	reader      codec.Reader
	totalFrames int64
	enqueued    atomic.Int64  // frames pushed by the IO goroutine
	consumed    atomic.Int64  // frames drained by the callback
	underruns   atomic.Uint64 // callback periods filled with silence
	progress    io.Writer
}

// NewPlayback creates a playback flow reading from r.
func NewPlayback(r codec.Reader, frameSize int) *Playback {
	info := r.Info()
	return &Playback{
		coordinator: newCoordinator(PlaybackQueueFactor, info.Channels, frameSize),
		reader:      r,
		totalFrames: info.TotalFrames,
		progress:    os.Stdout,
	}
}

// ReadFrames is the real-time entry point, invoked by the device once per
// hardware period with an output buffer to fill. If the ring holds a full
// period it is dequeued directly into the output; otherwise the whole buffer
// is zeroed and nothing is consumed. A partial period would glitch worse
// than a silent one. Never blocks.
func (p *Playback) ReadFrames(output []float32, frames int) {
	needed := frames * p.channels
	if p.ring.ReadAvailable() >= needed {
		p.ring.Dequeue(output[:needed])
		p.consumed.Add(int64(frames))
	} else {
		clear(output[:needed])
		p.underruns.Add(1)
	}
	p.notify()
}

// Underruns returns the number of callback periods that played silence.
func (p *Playback) Underruns() uint64 {
	return p.underruns.Load()
}

// Buffered returns the number of frames queued but not yet played. Safe to
// call from any goroutine; used to drain the tail after the file ends.
func (p *Playback) Buffered() int64 {
	return p.enqueued.Load() - p.consumed.Load()
}

// SetProgress redirects progress output, which defaults to stdout.
func (p *Playback) SetProgress(w io.Writer) {
	p.progress = w
}

// Run is the IO loop. Whenever the ring has room for a full staging buffer
// it reads that many frames from the file and enqueues them, reporting
// percentage progress. A short read is the normal end of stream: the final
// partial payload is still flushed before the loop exits. io.EOF marks end
// of stream; any other error is a real read failure. Cancelling ctx stops
// the loop early.
func (p *Playback) Run(ctx context.Context) error {
	defer p.done.Store(true)

	framesPerBuffer := len(p.staging) / p.channels
	var animation uint64

	for {
		for p.ring.WriteAvailable() > len(p.staging) {
			n, err := p.reader.ReadFrames(p.staging, framesPerBuffer)
			if n > 0 {
				p.ring.Enqueue(p.staging[:n*p.channels])
				p.enqueued.Add(int64(n))
				animation++

				if p.totalFrames > 0 {
					fmt.Fprintf(p.progress, "[ %c Playing %d%% ]\r",
						spinner[animation%4], p.enqueued.Load()*100/p.totalFrames)
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("failed to read audio data: %w", err)
			}
			if n < framesPerBuffer {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-p.wake:
		}
	}
}
