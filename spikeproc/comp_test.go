package spikeproc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spinnlab/spikepipe/mem"
	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/synapse"
)

type mapResolver map[synapse.Key]synapse.RowLocation

func (r mapResolver) Resolve(key synapse.Key) (synapse.RowLocation, bool) {
	loc, found := r[key]
	return loc, found
}

type deposit struct {
	step   uint64
	neuron uint32
	weight uint32
}

type recordingAccumulator struct {
	deposits []deposit
}

func (a *recordingAccumulator) Deposit(
	step uint64,
	neuron uint32,
	weight uint32,
) {
	a.deposits = append(a.deposits, deposit{step, neuron, weight})
}

type recordingSink struct {
	entries []StepPacketEntry
}

func (s *recordingSink) RecordStepPackets(
	region string,
	step uint64,
	count uint32,
) {
	s.entries = append(s.entries, StepPacketEntry{region, step, count})
}

type fixedPlanner struct {
	target    synapse.RowLocation
	out       []byte
	writeBack bool
}

func (p *fixedPlanner) NextTarget() synapse.RowLocation {
	return p.target
}

func (p *fixedPlanner) Rewire(_ []byte) ([]byte, bool) {
	return p.out, p.writeBack
}

var _ = Describe("Comp", func() {
	var (
		engine      *sim.SerialEngine
		resolver    mapResolver
		accumulator *recordingAccumulator
		sink        *recordingSink
		planner     *fixedPlanner
		bulkMem     sim.Port
		c           *Comp
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		resolver = mapResolver{
			1: {Address: 0x000, NBytes: 68},
			2: {Address: 0x100, NBytes: 68},
		}
		accumulator = &recordingAccumulator{}
		sink = &recordingSink{}
		planner = &fixedPlanner{
			target: synapse.RowLocation{Address: 0x200, NBytes: 68},
		}
		bulkMem = sim.NewPort(nil, 1, 1, "BulkMem")

		c = MakeBuilder().
			WithEngine(engine).
			WithBulkMemoryPort(bulkMem).
			WithBufferCapacity(4).
			WithRowMaxBytes(68).
			WithResolver(resolver).
			WithAccumulator(accumulator).
			WithRewirePlanner(planner).
			WithMaxPendingRewires(8).
			WithClearLatePackets(true).
			WithTelemetrySink(sink).
			WithTelemetryRegion("Core0").
			Build("Proc")
	})

	It("should panic when built without an engine", func() {
		Expect(func() {
			MakeBuilder().
				WithResolver(resolver).
				WithAccumulator(accumulator).
				Build("Broken")
		}).To(Panic())
	})

	It("should accept spikes into the input buffer", func() {
		src := sim.NewPort(nil, 4, 4, "Src")

		for i := 0; i < 6; i++ {
			msg := SpikeMsgBuilder{}.
				WithSrc(src).
				WithDst(c.SpikePort()).
				WithKey(1).
				Build()
			c.SpikePort().Deliver(msg)
		}

		madeProgress := c.acceptSpikes()

		Expect(madeProgress).To(BeTrue())
		Expect(c.inBuf.Size()).To(Equal(4))
		Expect(c.prov.BufferOverflows.Load()).To(Equal(uint32(2)))
		Expect(c.prov.MaxBufferFill.Load()).To(Equal(uint32(4)))
		Expect(c.packetsThisStep).To(Equal(uint32(6)))
	})

	It("should dispatch a row fetch for a buffered spike", func() {
		c.inBuf.TryPush(1)

		madeProgress := c.dispatch()

		Expect(madeProgress).To(BeTrue())
		Expect(c.slot.state).To(Equal(slotBusy))
		Expect(c.slot.kind).To(Equal(transferSpikeRow))
		Expect(c.toMem).To(HaveLen(1))

		req := c.toMem[0].(*mem.ReadReq)
		Expect(req.Address).To(Equal(uint64(0x000)))
		Expect(req.AccessByteSize).To(Equal(uint64(68)))
	})

	It("should count and skip ghost keys", func() {
		c.inBuf.TryPush(99)

		madeProgress := c.dispatch()

		Expect(madeProgress).To(BeTrue())
		Expect(c.slot.state).To(Equal(slotIdle))
		Expect(c.prov.GhostSearches.Load()).To(Equal(uint32(1)))
		Expect(c.toMem).To(BeEmpty())
	})

	It("should alternate rewires and spikes", func() {
		c.inBuf.TryPush(1)
		c.inBuf.TryPush(2)
		c.pendingRewires = 3

		var kinds []transferKind
		for i := 0; i < 5; i++ {
			c.dispatch()
			kinds = append(kinds, c.slot.kind)
			c.releaseSlot()
		}

		Expect(kinds).To(Equal([]transferKind{
			transferRewireRead,
			transferSpikeRow,
			transferRewireRead,
			transferSpikeRow,
			transferRewireRead,
		}))
	})

	It("should clamp rewiring requests", func() {
		small := MakeBuilder().
			WithEngine(engine).
			WithResolver(resolver).
			WithAccumulator(accumulator).
			WithRewirePlanner(planner).
			WithMaxPendingRewires(2).
			Build("Small")

		Expect(small.RequestRewiring(5)).To(BeTrue())
		Expect(small.pendingRewires).To(Equal(2))
		Expect(small.RequestRewiring(1)).To(BeFalse())
		Expect(small.RequestRewiring(0)).To(BeFalse())
	})

	It("should deposit decoded synapses when a row arrives", func() {
		c.inBuf.TryPush(1)
		c.dispatch()

		data := synapse.EncodeRow([]synapse.Record{
			{Weight: 10, Delay: 1, Neuron: 2},
			{Weight: 20, Delay: 3, Neuron: 4},
		})
		rsp := mem.DataReadyRspBuilder{}.
			WithSrc(bulkMem).
			WithDst(c.MemPort()).
			WithRspTo(c.slot.reqID).
			WithData(data).
			Build()

		c.handleDataReady(rsp)

		Expect(c.slot.state).To(Equal(slotIdle))
		Expect(c.prov.DMAsComplete.Load()).To(Equal(uint32(1)))
		Expect(c.prov.SpikesProcessed.Load()).To(Equal(uint32(1)))
		Expect(accumulator.deposits).To(Equal([]deposit{
			{1, 2, 10},
			{3, 4, 20},
		}))
	})

	It("should write back a rewired row", func() {
		planner.out = synapse.EncodeRow(nil)
		planner.writeBack = true

		c.pendingRewires = 1
		c.dispatch()
		Expect(c.slot.kind).To(Equal(transferRewireRead))
		c.toMem = nil

		rsp := mem.DataReadyRspBuilder{}.
			WithSrc(bulkMem).
			WithDst(c.MemPort()).
			WithRspTo(c.slot.reqID).
			WithData(synapse.EncodeRow([]synapse.Record{
				{Weight: 10, Delay: 1, Neuron: 0},
			})).
			Build()
		c.handleDataReady(rsp)

		Expect(c.slot.kind).To(Equal(transferRewireWrite))
		Expect(c.toMem).To(HaveLen(1))

		req := c.toMem[0].(*mem.WriteReq)
		Expect(req.Address).To(Equal(uint64(0x200)))
		Expect(req.Data).To(Equal(planner.out))

		done := mem.WriteDoneRspBuilder{}.
			WithSrc(bulkMem).
			WithDst(c.MemPort()).
			WithRspTo(c.slot.reqID).
			Build()
		c.handleWriteDone(done)

		Expect(c.slot.state).To(Equal(slotIdle))
		Expect(c.prov.Rewires.Load()).To(Equal(uint32(1)))
		Expect(c.prov.DMAsComplete.Load()).To(Equal(uint32(2)))
	})

	It("should complete a rewire without write-back", func() {
		planner.writeBack = false

		c.pendingRewires = 1
		c.dispatch()

		rsp := mem.DataReadyRspBuilder{}.
			WithSrc(bulkMem).
			WithDst(c.MemPort()).
			WithRspTo(c.slot.reqID).
			WithData(synapse.EncodeRow(nil)).
			Build()
		c.handleDataReady(rsp)

		Expect(c.slot.state).To(Equal(slotIdle))
		Expect(c.prov.Rewires.Load()).To(Equal(uint32(1)))
	})

	It("should close a timestep", func() {
		c.inBuf.TryPush(1)
		c.inBuf.TryPush(2)
		c.packetsThisStep = 5

		c.OnTimerTick()

		Expect(c.CurrentStep()).To(Equal(uint64(1)))
		Expect(c.prov.LatePackets.Load()).To(Equal(uint32(2)))
		Expect(c.inBuf.Size()).To(Equal(0))
		Expect(sink.entries).To(Equal([]StepPacketEntry{
			{"Core0", 0, 5},
		}))
	})

	It("should carry late packets when clearing is off", func() {
		carry := MakeBuilder().
			WithEngine(engine).
			WithResolver(resolver).
			WithAccumulator(accumulator).
			WithClearLatePackets(false).
			Build("Carry")

		carry.inBuf.TryPush(1)
		carry.OnTimerTick()

		Expect(carry.inBuf.Size()).To(Equal(1))
		Expect(carry.prov.LatePackets.Load()).To(Equal(uint32(0)))
	})
})
