package ringbuffer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero", 0, 2},
		{"one", 1, 2},
		{"two", 2, 2},
		{"small_non_pow2", 3, 4},
		{"exact_pow2", 16, 16},
		{"just_above_pow2", 17, 32},
		{"typical_capture", 10, 16},
		{"large_pow2", 1 << 20, 1 << 20},
		{"large_non_pow2", (1 << 20) + 1, 1 << 21},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := CapacityFor(tc.requested)
			assert.Equal(t, tc.want, got)
			assert.Zero(t, got&(got-1), "capacity must be a power of two")
			assert.GreaterOrEqual(t, got, 2)
			if tc.requested > 2 {
				assert.GreaterOrEqual(t, got, tc.requested)
			}
		})
	}
}

func TestReservedSlotInvariant(t *testing.T) {
	t.Parallel()

	rb := New[float32](64)
	src := make([]float32, 13)
	dst := make([]float32, 7)

	// Drive the heads through several wraps with unequal step sizes and
	// check the invariant after every operation.
	for i := 0; i < 200; i++ {
		rb.Enqueue(src)
		assert.Equal(t, rb.Capacity()-1, rb.ReadAvailable()+rb.WriteAvailable())
		rb.Dequeue(dst)
		assert.Equal(t, rb.Capacity()-1, rb.ReadAvailable()+rb.WriteAvailable())
	}
}

func TestEnqueueDequeueOrdering(t *testing.T) {
	t.Parallel()

	rb := New[float32](16)

	src := []float32{1, 2, 3, 4, 5}
	require.Equal(t, 5, rb.Enqueue(src))
	require.Equal(t, 5, rb.ReadAvailable())

	dst := make([]float32, 5)
	require.Equal(t, 5, rb.Dequeue(dst))
	assert.Equal(t, src, dst)
	assert.Equal(t, 0, rb.ReadAvailable())
}

func TestRoundTripAcrossWrap(t *testing.T) {
	t.Parallel()

	const capacity = 16
	rb := New[float32](capacity)

	// Shift the heads so that subsequent spans straddle the end of storage.
	pad := make([]float32, capacity-3)
	require.Equal(t, len(pad), rb.Enqueue(pad))
	require.Equal(t, len(pad), rb.Dequeue(pad))

	for k := 1; k < capacity; k++ {
		src := make([]float32, k)
		for i := range src {
			src[i] = float32(k*100 + i)
		}

		require.Equal(t, k, rb.Enqueue(src), "k=%d", k)

		dst := make([]float32, k)
		require.Equal(t, k, rb.Dequeue(dst), "k=%d", k)
		assert.Equal(t, src, dst, "k=%d", k)
	}
}

func TestFillAndDrain(t *testing.T) {
	t.Parallel()

	// Requested capacity 10 rounds up to 16 with 15 usable slots.
	rb := New[float32](10)
	require.Equal(t, 16, rb.Capacity())
	require.Equal(t, 15, rb.WriteAvailable())

	src := make([]float32, 15)
	for i := range src {
		src[i] = float32(i)
	}
	require.Equal(t, 15, rb.Enqueue(src))
	require.Equal(t, 15, rb.ReadAvailable())

	dst := make([]float32, 15)
	require.Equal(t, 15, rb.Dequeue(dst))
	assert.Equal(t, src, dst)
	assert.Equal(t, 0, rb.ReadAvailable())
	assert.Equal(t, 15, rb.WriteAvailable())
}

func TestEnqueueOverflowDropsExcess(t *testing.T) {
	t.Parallel()

	rb := New[float32](8)
	src := make([]float32, 20)
	for i := range src {
		src[i] = float32(i)
	}

	// Only capacity-1 elements fit, the rest are dropped silently.
	assert.Equal(t, 7, rb.Enqueue(src))
	assert.Equal(t, 0, rb.WriteAvailable())

	// A full buffer accepts nothing and leaves the write head alone.
	assert.Equal(t, 0, rb.Enqueue(src))
	assert.Equal(t, 7, rb.ReadAvailable())

	dst := make([]float32, 7)
	require.Equal(t, 7, rb.Dequeue(dst))
	assert.Equal(t, src[:7], dst)
}

func TestDequeueFromEmpty(t *testing.T) {
	t.Parallel()

	rb := New[float32](8)
	dst := make([]float32, 8)
	assert.Equal(t, 0, rb.Dequeue(dst))
	assert.Equal(t, 0, rb.ReadAvailable())
}

func TestResize(t *testing.T) {
	t.Parallel()

	rb := New[float32](8)
	rb.Enqueue([]float32{1, 2, 3})

	rb.Resize(100)
	assert.Equal(t, 128, rb.Capacity())
	assert.Equal(t, 0, rb.ReadAvailable())
	assert.Equal(t, 127, rb.WriteAvailable())
}

// TestConcurrentSPSC streams a known sequence through the buffer with a
// dedicated producer and consumer goroutine and verifies every element
// arrives exactly once, in order.
func TestConcurrentSPSC(t *testing.T) {
	t.Parallel()

	const total = 100_000
	rb := New[float32](256)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		next := 0
		chunk := make([]float32, 64)
		for next < total {
			n := len(chunk)
			if total-next < n {
				n = total - next
			}
			for i := 0; i < n; i++ {
				chunk[i] = float32(next + i)
			}
			written := rb.Enqueue(chunk[:n])
			next += written
		}
	}()

	got := make([]float32, 0, total)
	dst := make([]float32, 64)
	for len(got) < total {
		n := rb.Dequeue(dst)
		got = append(got, dst[:n]...)
	}
	wg.Wait()

	for i, v := range got {
		require.Equal(t, float32(i), v, "element %d out of order", i)
	}
}
