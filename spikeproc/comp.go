// Package spikeproc implements the spike-delivery pipeline of one simulated
// core: spikes arriving on the spike port are buffered, their synaptic rows
// are fetched from bulk memory through a single transfer slot, and the
// decoded synapses are deposited into the neuron input accumulators.
// Structural-plasticity rewiring attempts share the same transfer slot.
package spikeproc

import (
	"log"
	"reflect"

	"github.com/spinnlab/spikepipe/mem"
	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/synapse"
)

// A TelemetrySink receives the per-timestep packet counts of a spike
// processor.
type TelemetrySink interface {
	RecordStepPackets(region string, step uint64, count uint32)
}

type transferKind int

const (
	transferNone transferKind = iota
	transferSpikeRow
	transferRewireRead
	transferRewireWrite
)

type slotState int

const (
	slotIdle slotState = iota
	slotBusy
)

// timestepEvent advances the simulated timestep. It is secondary so that all
// same-time spike traffic is handled before the step boundary.
type timestepEvent struct {
	*sim.EventBase
}

func newTimestepEvent(
	time sim.VTimeInSec,
	handler sim.Handler,
) *timestepEvent {
	return &timestepEvent{sim.NewSecondaryEventBase(time, handler)}
}

// Comp is the spike processor. It ticks on spike arrivals and memory
// responses, and owns the single DMA-style transfer slot toward bulk memory.
type Comp struct {
	*sim.TickingComponent

	spikePort sim.Port
	memPort   sim.Port
	bulkMem   sim.Port

	inBuf *inputBuffer
	toMem []sim.Msg
	prov  Provenance

	resolver    synapse.RowResolver
	accumulator synapse.Accumulator
	planner     RewirePlanner

	slot struct {
		state  slotState
		kind   transferKind
		reqID  string
		key    synapse.Key
		target synapse.RowLocation
	}

	maxPendingRewires int
	pendingRewires    int
	lastWasRewire     bool

	rowMaxBytes uint64

	timestepPeriod  int
	clearLate       bool
	step            uint64
	remainingSteps  int
	packetsThisStep uint32

	telemetry       TelemetrySink
	telemetryRegion string
}

// SpikePort returns the port on which spike messages arrive.
func (c *Comp) SpikePort() sim.Port {
	return c.spikePort
}

// MemPort returns the port connected to the bulk-memory controller.
func (c *Comp) MemPort() sim.Port {
	return c.memPort
}

// Provenance returns the live health counters of the processor.
func (c *Comp) Provenance() *Provenance {
	return &c.prov
}

// CurrentStep returns the timestep the processor is currently in.
func (c *Comp) CurrentStep() uint64 {
	return c.step
}

// RequestRewiring queues n structural-plasticity attempts. Attempts beyond
// the configured pending limit are discarded. It returns true if at least
// one attempt was accepted.
func (c *Comp) RequestRewiring(n int) bool {
	if n <= 0 {
		return false
	}

	room := c.maxPendingRewires - c.pendingRewires
	if room <= 0 {
		return false
	}

	if n > room {
		n = room
	}
	c.pendingRewires += n

	c.TickLater()

	return true
}

// StartStepTimer schedules the periodic timestep boundary for nSteps steps,
// starting one period from the current time.
func (c *Comp) StartStepTimer(nSteps int) {
	if nSteps <= 0 {
		return
	}

	c.remainingSteps = nSteps

	now := c.CurrentTime()
	first := c.Freq.NCyclesLater(c.timestepPeriod, now)
	c.Engine.Schedule(newTimestepEvent(first, c))
}

// Handle routes timestep events to the step-boundary logic and tick events
// to the pipeline.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *timestepEvent:
		return c.handleTimestepEvent(e)
	case sim.TickEvent:
		return c.TickingComponent.Handle(e)
	default:
		log.Panicf("cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

func (c *Comp) handleTimestepEvent(e *timestepEvent) error {
	c.OnTimerTick()

	c.remainingSteps--
	if c.remainingSteps > 0 {
		next := c.Freq.NCyclesLater(c.timestepPeriod, e.Time())
		c.Engine.Schedule(newTimestepEvent(next, c))
	}

	return nil
}

// OnTimerTick closes the current timestep: it records the step's packet
// count, applies the late-packet policy, and advances the step counter.
func (c *Comp) OnTimerTick() {
	if c.telemetry != nil {
		c.telemetry.RecordStepPackets(
			c.telemetryRegion, c.step, c.packetsThisStep)
	}
	c.packetsThisStep = 0

	if c.clearLate {
		dropped := c.inBuf.Clear()
		if dropped > 0 {
			c.prov.LatePackets.Add(uint32(dropped))
		}
	}

	c.step++
}

// Tick runs one cycle of the pipeline. The stages run back to front so a
// message never crosses more than one stage per cycle.
func (c *Comp) Tick() bool {
	madeProgress := false

	madeProgress = c.sendToMem() || madeProgress
	madeProgress = c.completeTransfer() || madeProgress
	madeProgress = c.dispatch() || madeProgress
	madeProgress = c.acceptSpikes() || madeProgress

	return madeProgress
}

func (c *Comp) sendToMem() bool {
	if len(c.toMem) == 0 {
		return false
	}

	msg := c.toMem[0]
	err := c.memPort.Send(msg)
	if err != nil {
		return false
	}

	c.toMem = c.toMem[1:]

	return true
}

func (c *Comp) acceptSpikes() bool {
	madeProgress := false

	for {
		msg := c.spikePort.RetrieveIncoming()
		if msg == nil {
			break
		}

		spike, ok := msg.(*SpikeMsg)
		if !ok {
			log.Panicf("cannot handle message of type %s",
				reflect.TypeOf(msg))
		}

		madeProgress = true
		c.packetsThisStep++

		if !c.inBuf.TryPush(spike.Key) {
			c.prov.BufferOverflows.Add(1)
			continue
		}

		c.prov.observeFill(uint32(c.inBuf.Size()))
	}

	return madeProgress
}

func (c *Comp) dispatch() bool {
	madeProgress := false

	for c.slot.state == slotIdle {
		rewireDue := c.pendingRewires > 0 &&
			(!c.lastWasRewire || c.inBuf.Size() == 0)
		if rewireDue {
			c.dispatchRewire()
			madeProgress = true
			continue
		}

		key, ok := c.inBuf.TryPop()
		if !ok {
			break
		}

		madeProgress = true
		c.lastWasRewire = false

		loc, found := c.resolver.Resolve(key)
		if !found {
			c.prov.GhostSearches.Add(1)
			continue
		}

		c.issueRowFetch(key, loc, transferSpikeRow)
	}

	return madeProgress
}

func (c *Comp) dispatchRewire() {
	target := c.planner.NextTarget()

	c.pendingRewires--
	c.lastWasRewire = true

	c.issueRowFetch(0, target, transferRewireRead)
}

func (c *Comp) issueRowFetch(
	key synapse.Key,
	loc synapse.RowLocation,
	kind transferKind,
) {
	if loc.NBytes > c.rowMaxBytes {
		log.Panicf("row of %d bytes exceeds the %d-byte transfer buffer",
			loc.NBytes, c.rowMaxBytes)
	}

	req := mem.ReadReqBuilder{}.
		WithSrc(c.memPort).
		WithDst(c.bulkMem).
		WithAddress(loc.Address).
		WithByteSize(loc.NBytes).
		Build()

	c.toMem = append(c.toMem, req)

	c.slot.state = slotBusy
	c.slot.kind = kind
	c.slot.reqID = req.ID
	c.slot.key = key
	c.slot.target = loc
}

func (c *Comp) completeTransfer() bool {
	msg := c.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	switch msg := msg.(type) {
	case *mem.DataReadyRsp:
		c.handleDataReady(msg)
	case *mem.WriteDoneRsp:
		c.handleWriteDone(msg)
	default:
		log.Panicf("cannot handle message of type %s", reflect.TypeOf(msg))
	}

	return true
}

func (c *Comp) handleDataReady(rsp *mem.DataReadyRsp) {
	if c.slot.state != slotBusy || rsp.RespondTo != c.slot.reqID {
		log.Panicf("unexpected data-ready response %s", rsp.RespondTo)
	}

	c.prov.DMAsComplete.Add(1)

	switch c.slot.kind {
	case transferSpikeRow:
		c.processRow(rsp.Data)
		c.releaseSlot()
	case transferRewireRead:
		c.completeRewireRead(rsp.Data)
	default:
		log.Panicf("data-ready response for transfer kind %d", c.slot.kind)
	}
}

func (c *Comp) processRow(data []byte) {
	records, err := synapse.DecodeRow(data)
	if err != nil {
		log.Panic(err)
	}

	for _, r := range records {
		c.accumulator.Deposit(
			c.step+uint64(r.Delay), uint32(r.Neuron), uint32(r.Weight))
	}

	c.prov.SpikesProcessed.Add(1)
}

func (c *Comp) completeRewireRead(data []byte) {
	newRow, writeBack := c.planner.Rewire(data)
	if !writeBack {
		c.prov.Rewires.Add(1)
		c.releaseSlot()
		return
	}

	req := mem.WriteReqBuilder{}.
		WithSrc(c.memPort).
		WithDst(c.bulkMem).
		WithAddress(c.slot.target.Address).
		WithData(newRow).
		Build()

	c.toMem = append(c.toMem, req)

	c.slot.kind = transferRewireWrite
	c.slot.reqID = req.ID
}

func (c *Comp) handleWriteDone(rsp *mem.WriteDoneRsp) {
	if c.slot.state != slotBusy ||
		c.slot.kind != transferRewireWrite ||
		rsp.RespondTo != c.slot.reqID {
		log.Panicf("unexpected write-done response %s", rsp.RespondTo)
	}

	c.prov.DMAsComplete.Add(1)
	c.prov.Rewires.Add(1)
	c.releaseSlot()
}

func (c *Comp) releaseSlot() {
	c.slot.state = slotIdle
	c.slot.kind = transferNone
	c.slot.reqID = ""
}
