package stimulus

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/spikeproc"
	"github.com/spinnlab/spikepipe/synapse"
)

var _ = Describe("Comp", func() {
	var (
		engine  *sim.SerialEngine
		conn    *sim.DirectConnection
		dstPort sim.Port
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		conn = sim.NewDirectConnection("Conn", engine, 1*sim.GHz)
		dstPort = sim.NewPort(nil, 16, 16, "Dst")
		conn.PlugIn(dstPort)
	})

	buildStim := func(schedule []Spike) *Comp {
		stim := MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithDst(dstPort).
			WithSchedule(schedule).
			Build("Stim")
		conn.PlugIn(stim.OutPort())

		return stim
	}

	drainKeys := func() []synapse.Key {
		var keys []synapse.Key
		for {
			msg := dstPort.RetrieveIncoming()
			if msg == nil {
				return keys
			}
			keys = append(keys, msg.(*spikeproc.SpikeMsg).Key)
		}
	}

	It("should replay the whole schedule", func() {
		stim := buildStim([]Spike{
			{Cycle: 0, Key: 3},
			{Cycle: 0, Key: 5},
			{Cycle: 2, Key: 7},
		})
		stim.TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(stim.Done()).To(BeTrue())
		Expect(drainKeys()).To(Equal([]synapse.Key{3, 5, 7}))
	})

	It("should sort the schedule by cycle", func() {
		stim := buildStim([]Spike{
			{Cycle: 3, Key: 30},
			{Cycle: 1, Key: 10},
			{Cycle: 2, Key: 20},
		})
		stim.TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(drainKeys()).To(Equal([]synapse.Key{10, 20, 30}))
	})

	It("should stop ticking when the schedule is empty", func() {
		stim := buildStim(nil)
		stim.TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(stim.Done()).To(BeTrue())
		Expect(drainKeys()).To(BeEmpty())
	})
})
