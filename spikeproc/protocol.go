package spikeproc

import (
	"github.com/spinnlab/spikepipe/sim"
	"github.com/spinnlab/spikepipe/synapse"
)

var spikeMsgByteSize = 4

// A SpikeMsg carries one multicast spike key to a spike processor.
type SpikeMsg struct {
	sim.MsgMeta

	Key synapse.Key
}

// Meta returns the meta data of the message.
func (m *SpikeMsg) Meta() *sim.MsgMeta {
	return &m.MsgMeta
}

// Clone returns a cloned SpikeMsg with a different ID.
func (m *SpikeMsg) Clone() sim.Msg {
	cloneMsg := *m
	cloneMsg.ID = sim.GetIDGenerator().Generate()

	return &cloneMsg
}

// SpikeMsgBuilder can build spike messages.
type SpikeMsgBuilder struct {
	src, dst sim.Port
	key      synapse.Key
}

// WithSrc sets the source of the message to build.
func (b SpikeMsgBuilder) WithSrc(src sim.Port) SpikeMsgBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the message to build.
func (b SpikeMsgBuilder) WithDst(dst sim.Port) SpikeMsgBuilder {
	b.dst = dst
	return b
}

// WithKey sets the spike key of the message to build.
func (b SpikeMsgBuilder) WithKey(key synapse.Key) SpikeMsgBuilder {
	b.key = key
	return b
}

// Build creates a new SpikeMsg.
func (b SpikeMsgBuilder) Build() *SpikeMsg {
	m := &SpikeMsg{}
	m.ID = sim.GetIDGenerator().Generate()
	m.Src = b.src
	m.Dst = b.dst
	m.TrafficBytes = spikeMsgByteSize
	m.Key = b.key

	return m
}
