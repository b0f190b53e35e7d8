package spikeproc

import (
	"math/bits"

	"github.com/spinnlab/spikepipe/synapse"
)

// An inputBuffer is a fixed-capacity circular buffer of spike keys. The
// backing array is rounded up to a power of two so the free-running head and
// tail indices can be masked instead of wrapped with a modulo.
//
// A zero-capacity buffer is valid and rejects every push.
type inputBuffer struct {
	keys []synapse.Key
	mask uint32

	head uint32
	tail uint32
}

func newInputBuffer(capacity int) *inputBuffer {
	if capacity <= 0 {
		return &inputBuffer{}
	}

	size := 1 << bits.Len(uint(capacity-1))

	return &inputBuffer{
		keys: make([]synapse.Key, size),
		mask: uint32(size - 1),
	}
}

// TryPush appends a key. It returns false when the buffer is full.
func (b *inputBuffer) TryPush(key synapse.Key) bool {
	if b.Size() >= len(b.keys) {
		return false
	}

	b.keys[b.tail&b.mask] = key
	b.tail++

	return true
}

// TryPop removes the oldest key. The second return value is false when the
// buffer is empty.
func (b *inputBuffer) TryPop() (synapse.Key, bool) {
	if b.head == b.tail {
		return 0, false
	}

	key := b.keys[b.head&b.mask]
	b.head++

	return key, true
}

// Size returns the number of buffered keys.
func (b *inputBuffer) Size() int {
	return int(b.tail - b.head)
}

// Capacity returns the number of keys the buffer can hold.
func (b *inputBuffer) Capacity() int {
	return len(b.keys)
}

// Clear drops all buffered keys and returns how many were dropped.
func (b *inputBuffer) Clear() int {
	dropped := b.Size()
	b.head = b.tail

	return dropped
}
