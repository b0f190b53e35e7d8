package synapse

import "math/bits"

// RingBuffer is a reference Accumulator: a ring of per-timestep input
// buffers, one weight accumulator per neuron per slot. The slot count is
// rounded up to a power of two so that the absolute timestep can be masked
// into a slot index.
//
// Saturating addition keeps a hot synapse from wrapping a neuron's
// accumulator around zero.
type RingBuffer struct {
	slots [][]uint32
	mask  uint64
}

// NewRingBuffer creates a ring buffer with at least nSlots time slots for
// nNeurons neurons.
func NewRingBuffer(nSlots int, nNeurons int) *RingBuffer {
	size := 1
	if nSlots > 1 {
		size = 1 << bits.Len(uint(nSlots-1))
	}

	slots := make([][]uint32, size)
	for i := range slots {
		slots[i] = make([]uint32, nNeurons)
	}

	return &RingBuffer{
		slots: slots,
		mask:  uint64(size - 1),
	}
}

// Deposit adds weight into the slot addressed by the absolute timestep.
func (r *RingBuffer) Deposit(step uint64, neuron uint32, weight uint32) {
	slot := r.slots[step&r.mask]
	if int(neuron) >= len(slot) {
		return
	}

	sum := slot[neuron] + weight
	if sum < slot[neuron] {
		sum = ^uint32(0)
	}
	slot[neuron] = sum
}

// Slot returns the accumulators for the given absolute timestep.
func (r *RingBuffer) Slot(step uint64) []uint32 {
	return r.slots[step&r.mask]
}

// ClearSlot zeroes the accumulators for the given absolute timestep, the way
// the neuron core does after draining a slot into input currents.
func (r *RingBuffer) ClearSlot(step uint64) {
	slot := r.slots[step&r.mask]
	for i := range slot {
		slot[i] = 0
	}
}
