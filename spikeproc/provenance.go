package spikeproc

import "sync/atomic"

// Provenance aggregates the health counters of one spike processor. The
// fields are atomics so a monitor can snapshot them while the simulation is
// running.
type Provenance struct {
	BufferOverflows atomic.Uint32
	DMAsComplete    atomic.Uint32
	SpikesProcessed atomic.Uint32
	Rewires         atomic.Uint32
	LatePackets     atomic.Uint32
	GhostSearches   atomic.Uint32
	MaxBufferFill   atomic.Uint32
}

// observeFill raises MaxBufferFill to fill if fill is a new high-water mark.
func (p *Provenance) observeFill(fill uint32) {
	for {
		cur := p.MaxBufferFill.Load()
		if fill <= cur {
			return
		}
		if p.MaxBufferFill.CompareAndSwap(cur, fill) {
			return
		}
	}
}

// A ProvenanceSnapshot is a plain-value copy of the counters, suitable for
// recording or printing after the run.
type ProvenanceSnapshot struct {
	BufferOverflows uint32
	DMAsComplete    uint32
	SpikesProcessed uint32
	Rewires         uint32
	LatePackets     uint32
	GhostSearches   uint32
	MaxBufferFill   uint32
}

// Snapshot reads all counters.
func (p *Provenance) Snapshot() ProvenanceSnapshot {
	return ProvenanceSnapshot{
		BufferOverflows: p.BufferOverflows.Load(),
		DMAsComplete:    p.DMAsComplete.Load(),
		SpikesProcessed: p.SpikesProcessed.Load(),
		Rewires:         p.Rewires.Load(),
		LatePackets:     p.LatePackets.Load(),
		GhostSearches:   p.GhostSearches.Load(),
		MaxBufferFill:   p.MaxBufferFill.Load(),
	}
}

// StoreProvenance fills caller-owned storage with the current counters.
func (p *Provenance) StoreProvenance(out *ProvenanceSnapshot) {
	*out = p.Snapshot()
}
