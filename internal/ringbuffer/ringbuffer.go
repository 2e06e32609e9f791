// Package ringbuffer implements a lock-free single-producer single-consumer
// circular buffer used to pass audio samples between a real-time device
// callback and a file IO goroutine.
//
// The buffer is safe for exactly two goroutines: one producer, which may call
// Enqueue and WriteAvailable, and one consumer, which may call Dequeue and
// ReadAvailable. Each head index has a single writer, which is what makes the
// lock-free scheme sound; no other call pattern is supported. All head
// accesses go through sync/atomic, which on Go is sequentially consistent.
// That is stronger ordering than strictly required, and is kept on purpose:
// do not relax it without a proven need.
package ringbuffer

import (
	"math/bits"
	"sync/atomic"
)

// RingBuffer is a fixed-capacity circular buffer. Capacity is always a power
// of two so index wrapping reduces to a bit mask. One slot is permanently
// reserved to tell "empty" apart from "full", so at most capacity-1 elements
// are live at any time.
type RingBuffer[T any] struct {
	storage   []T
	mask      uint64
	readHead  atomic.Uint64
	writeHead atomic.Uint64
}

// CapacityFor returns the capacity used for a requested buffer size:
// 2 for requests of two or fewer elements, the request itself if it is
// already a power of two, otherwise the next power of two above it.
func CapacityFor(requested int) int {
	switch {
	case requested <= 2:
		return 2
	case requested&(requested-1) == 0:
		return requested
	default:
		return 1 << bits.Len(uint(requested))
	}
}

// New creates a ring buffer able to hold CapacityFor(requested)-1 elements.
func New[T any](requested int) *RingBuffer[T] {
	capacity := CapacityFor(requested)
	return &RingBuffer[T]{
		storage: make([]T, capacity),
		mask:    uint64(capacity) - 1,
	}
}

// Capacity returns the size of the underlying storage. Usable space is one
// less than this.
func (rb *RingBuffer[T]) Capacity() int {
	return len(rb.storage)
}

// Resize replaces the storage with one sized CapacityFor(requested) and
// resets both heads. Not safe to call while either side is active.
func (rb *RingBuffer[T]) Resize(requested int) {
	capacity := CapacityFor(requested)
	rb.storage = make([]T, capacity)
	rb.mask = uint64(capacity) - 1
	rb.readHead.Store(0)
	rb.writeHead.Store(0)
}

// ReadAvailable returns the number of elements ready to be dequeued.
// Consumer side only.
func (rb *RingBuffer[T]) ReadAvailable() int {
	r := rb.readHead.Load()
	w := rb.writeHead.Load()
	return int((w - r) & rb.mask)
}

// WriteAvailable returns the number of free slots. Producer side only.
func (rb *RingBuffer[T]) WriteAvailable() int {
	r := rb.readHead.Load()
	w := rb.writeHead.Load()
	return int(rb.mask - ((w - r) & rb.mask))
}

// Enqueue copies as much of src as fits into the buffer and returns the
// number of elements copied. Elements that do not fit are dropped; that is
// the overflow policy, not an error. Never blocks, never allocates.
// Producer side only.
func (rb *RingBuffer[T]) Enqueue(src []T) int {
	r := rb.readHead.Load()
	w := rb.writeHead.Load()

	free := rb.mask - ((w - r) & rb.mask)
	n := uint64(len(src))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0
	}

	size := uint64(len(rb.storage))
	end := w + n
	if end > size {
		// Write span wraps: tail segment then head segment.
		hi := size - w
		copy(rb.storage[w:], src[:hi])
		copy(rb.storage, src[hi:n])
	} else {
		copy(rb.storage[w:end], src[:n])
	}

	rb.writeHead.Store(end & rb.mask)
	return int(n)
}

// Dequeue copies up to len(dst) elements out of the buffer and returns the
// number copied. Asking for more than is available simply yields fewer
// elements. Never blocks, never allocates. Consumer side only.
func (rb *RingBuffer[T]) Dequeue(dst []T) int {
	r := rb.readHead.Load()
	w := rb.writeHead.Load()

	avail := (w - r) & rb.mask
	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	size := uint64(len(rb.storage))
	end := r + n
	if end > size {
		hi := size - r
		copy(dst[:hi], rb.storage[r:])
		copy(dst[hi:n], rb.storage)
	} else {
		copy(dst[:n], rb.storage[r:end])
	}

	rb.readHead.Store(end & rb.mask)
	return int(n)
}
