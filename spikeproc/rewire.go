package spikeproc

import (
	"github.com/spinnlab/spikepipe/synapse"
)

// A RewirePlanner decides which rows structural plasticity touches and how.
// The spike processor only moves the bytes; the planner owns the policy.
type RewirePlanner interface {
	// NextTarget returns the row to fetch for the next rewiring attempt.
	NextTarget() synapse.RowLocation

	// Rewire inspects a fetched row and returns the bytes to write back.
	// The second return value is false when the attempt changes nothing
	// and no write-back is needed.
	Rewire(row []byte) ([]byte, bool)
}

// CyclicRewirePlanner walks a fixed list of candidate rows and alternates
// between forming a synapse on an empty row and eliminating the last synapse
// of a populated one.
type CyclicRewirePlanner struct {
	targets []synapse.RowLocation
	next    int

	FormWeight uint16
	FormDelay  uint8
	formNeuron uint8
}

// NewCyclicRewirePlanner creates a planner over the given candidate rows.
func NewCyclicRewirePlanner(
	targets []synapse.RowLocation,
) *CyclicRewirePlanner {
	return &CyclicRewirePlanner{
		targets:    targets,
		FormWeight: 1,
		FormDelay:  1,
	}
}

// NextTarget returns the next candidate row, wrapping around the list.
func (p *CyclicRewirePlanner) NextTarget() synapse.RowLocation {
	target := p.targets[p.next]
	p.next = (p.next + 1) % len(p.targets)

	return target
}

// Rewire forms a synapse on an empty row and eliminates the last synapse
// otherwise. Rows that fail to decode are left untouched.
func (p *CyclicRewirePlanner) Rewire(row []byte) ([]byte, bool) {
	records, err := synapse.DecodeRow(row)
	if err != nil {
		return nil, false
	}

	if len(records) == 0 {
		records = append(records, synapse.Record{
			Weight: p.FormWeight,
			Delay:  p.FormDelay,
			Neuron: p.formNeuron,
		})
		p.formNeuron++
	} else {
		records = records[:len(records)-1]
	}

	return synapse.EncodeRow(records), true
}
