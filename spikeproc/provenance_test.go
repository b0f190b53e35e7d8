package spikeproc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Provenance", func() {
	It("should track the buffer high-water mark", func() {
		p := &Provenance{}

		p.observeFill(3)
		p.observeFill(7)
		p.observeFill(5)

		Expect(p.MaxBufferFill.Load()).To(Equal(uint32(7)))
	})

	It("should snapshot all counters", func() {
		p := &Provenance{}

		p.BufferOverflows.Add(1)
		p.DMAsComplete.Add(2)
		p.SpikesProcessed.Add(3)
		p.Rewires.Add(4)
		p.LatePackets.Add(5)
		p.GhostSearches.Add(6)
		p.observeFill(7)

		s := p.Snapshot()
		Expect(s).To(Equal(ProvenanceSnapshot{
			BufferOverflows: 1,
			DMAsComplete:    2,
			SpikesProcessed: 3,
			Rewires:         4,
			LatePackets:     5,
			GhostSearches:   6,
			MaxBufferFill:   7,
		}))
	})

	It("should fill caller-owned storage", func() {
		p := &Provenance{}
		p.SpikesProcessed.Add(9)

		var out ProvenanceSnapshot
		p.StoreProvenance(&out)

		Expect(out.SpikesProcessed).To(Equal(uint32(9)))
	})
})
