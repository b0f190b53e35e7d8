package spikeproc

import (
	"log"

	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/synapse"
)

// Builder can build spike processors.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq

	bufferCapacity int
	rowMaxBytes    uint64
	spikeBufSize   int
	memBufSize     int

	resolver    synapse.RowResolver
	accumulator synapse.Accumulator
	planner     RewirePlanner
	bulkMem     sim.Port

	maxPendingRewires int
	timestepPeriod    int
	clearLate         bool

	telemetry       TelemetrySink
	telemetryRegion string
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:              1 * sim.GHz,
		bufferCapacity:    256,
		rowMaxBytes:       1024,
		spikeBufSize:      16,
		memBufSize:        4,
		maxPendingRewires: 16,
		timestepPeriod:    1000,
	}
}

// WithEngine sets the engine that drives the processor.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the processor.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithBufferCapacity sets the capacity of the input spike buffer.
func (b Builder) WithBufferCapacity(capacity int) Builder {
	b.bufferCapacity = capacity
	return b
}

// WithRowMaxBytes sets the size of the transfer buffer, the largest synaptic
// row a single fetch can carry.
func (b Builder) WithRowMaxBytes(n uint64) Builder {
	b.rowMaxBytes = n
	return b
}

// WithResolver sets the resolver that maps spike keys to row locations.
func (b Builder) WithResolver(r synapse.RowResolver) Builder {
	b.resolver = r
	return b
}

// WithAccumulator sets the accumulator that receives decoded synapses.
func (b Builder) WithAccumulator(a synapse.Accumulator) Builder {
	b.accumulator = a
	return b
}

// WithRewirePlanner sets the structural-plasticity planner.
func (b Builder) WithRewirePlanner(p RewirePlanner) Builder {
	b.planner = p
	return b
}

// WithMaxPendingRewires bounds the number of queued rewiring attempts.
func (b Builder) WithMaxPendingRewires(n int) Builder {
	b.maxPendingRewires = n
	return b
}

// WithBulkMemoryPort sets the port of the bulk-memory controller that serves
// row fetches and write-backs.
func (b Builder) WithBulkMemoryPort(p sim.Port) Builder {
	b.bulkMem = p
	return b
}

// WithTimestepPeriod sets the length of one simulated timestep, in cycles.
func (b Builder) WithTimestepPeriod(cycles int) Builder {
	b.timestepPeriod = cycles
	return b
}

// WithClearLatePackets makes the processor drop buffered spikes at each step
// boundary instead of carrying them into the next step.
func (b Builder) WithClearLatePackets(clear bool) Builder {
	b.clearLate = clear
	return b
}

// WithTelemetrySink sets the sink that records per-step packet counts.
func (b Builder) WithTelemetrySink(sink TelemetrySink) Builder {
	b.telemetry = sink
	return b
}

// WithTelemetryRegion sets the region name under which telemetry is
// recorded.
func (b Builder) WithTelemetryRegion(region string) Builder {
	b.telemetryRegion = region
	return b
}

// Build builds a new Comp.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		log.Panic("spike processor requires an engine")
	}
	if b.resolver == nil {
		log.Panic("spike processor requires a row resolver")
	}
	if b.accumulator == nil {
		log.Panic("spike processor requires an accumulator")
	}

	c := &Comp{
		inBuf:             newInputBuffer(b.bufferCapacity),
		resolver:          b.resolver,
		accumulator:       b.accumulator,
		planner:           b.planner,
		bulkMem:           b.bulkMem,
		maxPendingRewires: b.maxPendingRewires,
		rowMaxBytes:       b.rowMaxBytes,
		timestepPeriod:    b.timestepPeriod,
		clearLate:         b.clearLate,
		telemetry:         b.telemetry,
		telemetryRegion:   b.telemetryRegion,
	}

	if c.telemetryRegion == "" {
		c.telemetryRegion = name
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.spikePort = sim.NewPort(c, b.spikeBufSize, b.spikeBufSize,
		name+".SpikePort")
	c.AddPort("Spike", c.spikePort)

	c.memPort = sim.NewPort(c, b.memBufSize, b.memBufSize, name+".MemPort")
	c.AddPort("Mem", c.memPort)

	return c
}
