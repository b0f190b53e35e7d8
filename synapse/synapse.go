// Package synapse defines the spike key, the synaptic-row wire format, and
// the collaborator interfaces through which rows reach the neuron core's
// input accumulators.
package synapse

// A Key identifies a received spike: the pre-synaptic neuron and its
// partition, packed into one multicast key. It is opaque to the delivery
// pipeline; only the row resolver interprets it.
type Key uint32

// RowLocation is the place in bulk memory where the synaptic row of one key
// is stored.
type RowLocation struct {
	Address uint64
	NBytes  uint64
}

// A RowResolver maps a spike key to the location of its synaptic row.
//
// Resolvers are provided by the configuration layer. A lookup can miss when
// a key reaches a core that holds no row for it (a ghost hit); the pipeline
// counts and skips such keys.
type RowResolver interface {
	Resolve(key Key) (RowLocation, bool)
}

// An Accumulator receives the per-synapse contributions extracted from a
// row. It is the delivery pipeline's view of the neuron core's
// ring-buffer-of-input-buffers; the decay and current conversion happen on
// the other side of this interface.
type Accumulator interface {
	// Deposit adds weight into the input slot for the given absolute
	// timestep and neuron.
	Deposit(step uint64, neuron uint32, weight uint32)
}
