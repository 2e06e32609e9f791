// Package stream couples a real-time audio device callback to a file codec
// through a lock-free ring buffer.
//
// Each flow runs two threads: the device's callback thread, which must never
// block or allocate, and an IO goroutine that performs blocking file reads
// or writes. The ring buffer is the only data structure both touch, and it
// is safe without locks because each side owns exactly one head index. The
// wake channel exists solely to park the IO goroutine when there is no work;
// it never gates ring access. Sends are non-blocking, so the callback never
// waits and a lost or redundant wake is harmless: the IO goroutine re-checks
// availability on every pass and drains in a tight loop while work remains.
package stream

import (
	"sync/atomic"

	"github.com/tphakala/audiopipe/internal/ringbuffer"
)

// Buffer provisioning. Playback gets a much deeper ring than capture:
// a playback underrun is recoverable (the callback substitutes silence),
// while capture overflow loses samples forever. So playback buffers enough
// audio to ride out IO scheduling jitter, and capture instead treats a slow
// writer as fatal.
const (
	// BufferFactor sizes the staging buffer, in device periods.
	BufferFactor = 4
	// CaptureQueueFactor sizes the capture ring, in device periods.
	CaptureQueueFactor = 4 * BufferFactor
	// PlaybackQueueFactor sizes the playback ring, in device periods.
	PlaybackQueueFactor = 128 * BufferFactor
)

// CaptureSink accepts interleaved samples from the device callback thread.
type CaptureSink interface {
	// WriteFrames pushes frames captured by the device. Must not block.
	WriteFrames(input []float32, frames int)
}

// PlaybackSource fills device output buffers on the callback thread.
type PlaybackSource interface {
	// ReadFrames fills output with frames frames of audio. Must not block.
	ReadFrames(output []float32, frames int)
}

// coordinator holds the state shared by the capture and playback flows.
type coordinator struct {
	ring     *ringbuffer.RingBuffer[float32]
	staging  []float32 // IO-goroutine side only
	wake     chan struct{}
	done     atomic.Bool // set when the IO loop has exited
	channels int
}

func newCoordinator(queueFactor, channels, frameSize int) coordinator {
	return coordinator{
		ring:     ringbuffer.New[float32](queueFactor * channels * frameSize),
		staging:  make([]float32, BufferFactor*channels*frameSize),
		wake:     make(chan struct{}, 1),
		channels: channels,
	}
}

// notify tells the IO goroutine the ring state changed. Called from the
// real-time thread; never blocks. The 1-slot channel acts as a sticky
// "work pending" flag, collapsing bursts into a single wake.
func (c *coordinator) notify() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}
