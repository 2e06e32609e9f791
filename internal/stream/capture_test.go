package stream

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testFrameSize  = 4
	testSampleRate = 48000
)

// TestCaptureShortWriteIsFatal verifies that a file write transferring
// fewer frames than requested terminates the IO loop immediately, with no
// further writes after the failing one.
func TestCaptureShortWriteIsFatal(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{shortAt: 2}
	c := NewCapture(w, testSampleRate, 1, testFrameSize)
	c.SetProgress(io.Discard)

	// Fill the ring with enough for several drain passes before starting
	// the loop.
	input := make([]float32, testFrameSize)
	for i := 0; i < CaptureQueueFactor; i++ {
		c.WriteFrames(input, testFrameSize)
	}

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	calls, _ := w.stats()
	assert.Equal(t, 2, calls, "no writes may happen after the short one")
}

func TestCaptureWriteErrorIsFatal(t *testing.T) {
	t.Parallel()

	diskErr := errors.New("disk full")
	w := &fakeWriter{errAt: 1, err: diskErr}
	c := NewCapture(w, testSampleRate, 1, testFrameSize)
	c.SetProgress(io.Discard)

	input := make([]float32, testFrameSize)
	for i := 0; i < CaptureQueueFactor; i++ {
		c.WriteFrames(input, testFrameSize)
	}

	err := c.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, diskErr)

	calls, _ := w.stats()
	assert.Equal(t, 1, calls)
}

// TestCaptureOverflowDoesNotBlock pushes far more data than the ring can
// hold from the callback side with no consumer running. The calls must
// return promptly and account for every dropped sample.
func TestCaptureOverflowDoesNotBlock(t *testing.T) {
	t.Parallel()

	c := NewCapture(&fakeWriter{}, testSampleRate, 2, testFrameSize)
	c.SetProgress(io.Discard)

	capacity := c.ring.Capacity()
	input := make([]float32, 512*2)

	pushed := 0
	for i := 0; i < 64; i++ {
		c.WriteFrames(input, 512)
		pushed += len(input)
	}

	// Everything beyond the usable capacity must show up as dropped.
	assert.Equal(t, uint64(pushed-(capacity-1)), c.Dropped())
	assert.Equal(t, capacity-1, c.ring.ReadAvailable())
}

// TestCaptureStreamsToWriter runs the full two-goroutine flow: a producer
// standing in for the device callback and the IO loop draining to the
// writer.
func TestCaptureStreamsToWriter(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	c := NewCapture(w, testSampleRate, 1, testFrameSize)
	c.SetProgress(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- c.Run(ctx)
	}()

	// Feed periods until the writer has seen a good amount of audio.
	input := make([]float32, testFrameSize)
	deadline := time.After(5 * time.Second)
	for {
		_, frames := w.stats()
		if frames >= 10*testFrameSize {
			break
		}
		select {
		case <-deadline:
			t.Fatal("writer never received enough frames")
		default:
		}
		c.WriteFrames(input, testFrameSize)
		time.Sleep(time.Millisecond)
	}

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("capture loop did not stop on cancellation")
	}

	// Once the loop has exited the callback side stops accepting work.
	_, before := w.stats()
	c.WriteFrames(input, testFrameSize)
	_, after := w.stats()
	assert.Equal(t, before, after)
	assert.True(t, c.done.Load())
}

func TestCaptureCancellationWithIdleRing(t *testing.T) {
	t.Parallel()

	c := NewCapture(&fakeWriter{}, testSampleRate, 1, testFrameSize)
	c.SetProgress(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() {
		runErr <- c.Run(ctx)
	}()

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("capture loop did not stop on cancellation while idle")
	}
}
