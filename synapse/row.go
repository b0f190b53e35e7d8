package synapse

import (
	"encoding/binary"
	"fmt"
)

// Row word layout. Each row starts with one count word followed by one
// packed word per synapse:
//
//	| weight:16 | unused:4 | delay:4 | neuron index:8 |
const (
	weightShift = 16
	delayShift  = 8
	delayMask   = 0xF
	indexMask   = 0xFF

	countWordBytes   = 4
	synapseWordBytes = 4
)

// MaxDelay is the largest delay, in timesteps, a synapse word can encode.
const MaxDelay = delayMask

// MaxNeuronIndex is the largest neuron index a synapse word can encode.
const MaxNeuronIndex = indexMask

// A Record is one decoded synapse: the weight to deposit, the delay in
// timesteps before it takes effect, and the index of the target neuron on
// this core.
type Record struct {
	Weight uint16
	Delay  uint8
	Neuron uint8
}

// RowBytes returns the encoded size of a row with n synapses.
func RowBytes(n int) uint64 {
	return uint64(countWordBytes + n*synapseWordBytes)
}

// DecodeRow parses a synaptic row fetched from bulk memory. The data may be
// longer than the encoded row; the trailing bytes are ignored. Rows with
// zero synapses are valid.
func DecodeRow(data []byte) ([]Record, error) {
	if len(data) < countWordBytes {
		return nil, fmt.Errorf(
			"synaptic row too short: %d bytes", len(data))
	}

	count := binary.LittleEndian.Uint32(data)
	need := int(RowBytes(int(count)))
	if len(data) < need {
		return nil, fmt.Errorf(
			"synaptic row truncated: %d synapses need %d bytes, have %d",
			count, need, len(data))
	}

	records := make([]Record, count)
	for i := range records {
		word := binary.LittleEndian.Uint32(
			data[countWordBytes+i*synapseWordBytes:])
		records[i] = Record{
			Weight: uint16(word >> weightShift),
			Delay:  uint8((word >> delayShift) & delayMask),
			Neuron: uint8(word & indexMask),
		}
	}

	return records, nil
}

// EncodeRow packs synapse records into the row wire format.
func EncodeRow(records []Record) []byte {
	data := make([]byte, RowBytes(len(records)))
	binary.LittleEndian.PutUint32(data, uint32(len(records)))

	for i, r := range records {
		word := uint32(r.Weight)<<weightShift |
			uint32(r.Delay&delayMask)<<delayShift |
			uint32(r.Neuron)
		binary.LittleEndian.PutUint32(
			data[countWordBytes+i*synapseWordBytes:], word)
	}

	return data
}
