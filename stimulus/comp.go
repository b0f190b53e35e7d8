// Package stimulus provides a spike source that replays a fixed schedule of
// multicast keys into a spike processor.
package stimulus

import (
	"sort"

	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/spikeproc"
	"github.com/spinnlab/spikepipe/synapse"
)

// A Spike is one scheduled stimulus: the cycle to send on and the key to
// send.
type Spike struct {
	Cycle uint64
	Key   synapse.Key
}

// Comp replays a schedule of spikes through its out port. It stops ticking
// once the schedule is exhausted.
type Comp struct {
	*sim.TickingComponent

	outPort  sim.Port
	dst      sim.Port
	schedule []Spike
	next     int
	cycle    uint64
}

// OutPort returns the port that emits spike messages.
func (c *Comp) OutPort() sim.Port {
	return c.outPort
}

// Done reports whether the whole schedule has been sent.
func (c *Comp) Done() bool {
	return c.next >= len(c.schedule)
}

// Tick sends every spike scheduled for the current cycle.
func (c *Comp) Tick() bool {
	if c.next >= len(c.schedule) {
		return false
	}

	for c.next < len(c.schedule) && c.schedule[c.next].Cycle <= c.cycle {
		msg := spikeproc.SpikeMsgBuilder{}.
			WithSrc(c.outPort).
			WithDst(c.dst).
			WithKey(c.schedule[c.next].Key).
			Build()

		err := c.outPort.Send(msg)
		if err != nil {
			return false
		}

		c.next++
	}

	c.cycle++

	return true
}

// Builder can build stimulus sources.
type Builder struct {
	engine     sim.Engine
	freq       sim.Freq
	dst        sim.Port
	schedule   []Spike
	outBufSize int
}

// MakeBuilder returns a new Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq:       1 * sim.GHz,
		outBufSize: 16,
	}
}

// WithEngine sets the engine that drives the source.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the source.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithDst sets the spike port that receives the stimuli.
func (b Builder) WithDst(dst sim.Port) Builder {
	b.dst = dst
	return b
}

// WithSchedule sets the spikes to replay. The schedule is sorted by cycle.
func (b Builder) WithSchedule(schedule []Spike) Builder {
	b.schedule = schedule
	return b
}

// Build builds a new Comp.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		dst:      b.dst,
		schedule: append([]Spike(nil), b.schedule...),
	}

	sort.SliceStable(c.schedule, func(i, j int) bool {
		return c.schedule[i].Cycle < c.schedule[j].Cycle
	})

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	c.outPort = sim.NewPort(c, b.outBufSize, b.outBufSize, name+".OutPort")
	c.AddPort("Out", c.outPort)

	return c
}
