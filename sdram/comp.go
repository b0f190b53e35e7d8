// Package sdram provides a fixed-latency bulk-memory controller that serves
// synaptic-row reads and write-backs.
package sdram

import (
	"log"
	"reflect"

	"github.com/spinnlab/spikepipe/mem"
	"github.com/spinnlab/spikepipe/sim"
)

type readRespondEvent struct {
	*sim.EventBase
	req *mem.ReadReq
}

func newReadRespondEvent(time sim.VTimeInSec, handler sim.Handler,
	req *mem.ReadReq,
) *readRespondEvent {
	return &readRespondEvent{sim.NewEventBase(time, handler), req}
}

type writeRespondEvent struct {
	*sim.EventBase
	req *mem.WriteReq
}

func newWriteRespondEvent(time sim.VTimeInSec, handler sim.Handler,
	req *mem.WriteReq,
) *writeRespondEvent {
	return &writeRespondEvent{sim.NewEventBase(time, handler), req}
}

// A Comp is a bulk-memory controller that answers every request after a
// fixed number of cycles. It accepts any number of outstanding requests.
type Comp struct {
	*sim.TickingComponent

	topPort sim.Port
	Storage *mem.Storage
	Latency int

	width int
}

// Handle dispatches respond events and tick events.
func (c *Comp) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *readRespondEvent:
		return c.handleReadRespondEvent(e)
	case *writeRespondEvent:
		return c.handleWriteRespondEvent(e)
	case sim.TickEvent:
		return c.TickingComponent.Handle(e)
	default:
		log.Panicf("cannot handle event of type %s", reflect.TypeOf(e))
	}

	return nil
}

// Tick retrieves requests from the top port and schedules respond events.
func (c *Comp) Tick() bool {
	madeProgress := false

	for i := 0; i < c.width; i++ {
		madeProgress = c.retrieveReq() || madeProgress
	}

	return madeProgress
}

func (c *Comp) retrieveReq() bool {
	msg := c.topPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	now := c.CurrentTime()
	timeToSchedule := c.Freq.NCyclesLater(c.Latency, now)

	switch msg := msg.(type) {
	case *mem.ReadReq:
		evt := newReadRespondEvent(timeToSchedule, c, msg)
		c.Engine.Schedule(evt)
	case *mem.WriteReq:
		evt := newWriteRespondEvent(timeToSchedule, c, msg)
		c.Engine.Schedule(evt)
	default:
		log.Panicf("cannot handle request of type %s", reflect.TypeOf(msg))
	}

	return true
}

func (c *Comp) handleReadRespondEvent(e *readRespondEvent) error {
	req := e.req

	data, err := c.Storage.Read(req.Address, req.AccessByteSize)
	if err != nil {
		log.Panic(err)
	}

	rsp := mem.DataReadyRspBuilder{}.
		WithSrc(c.topPort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		WithData(data).
		Build()

	sendErr := c.topPort.Send(rsp)
	if sendErr != nil {
		retryTime := c.Freq.NextTick(e.Time())
		retry := newReadRespondEvent(retryTime, c, req)
		c.Engine.Schedule(retry)
		return nil
	}

	c.TickLater()

	return nil
}

func (c *Comp) handleWriteRespondEvent(e *writeRespondEvent) error {
	req := e.req

	err := c.Storage.Write(req.Address, req.Data)
	if err != nil {
		log.Panic(err)
	}

	rsp := mem.WriteDoneRspBuilder{}.
		WithSrc(c.topPort).
		WithDst(req.Src).
		WithRspTo(req.ID).
		Build()

	sendErr := c.topPort.Send(rsp)
	if sendErr != nil {
		retryTime := c.Freq.NextTick(e.Time())
		retry := newWriteRespondEvent(retryTime, c, req)
		c.Engine.Schedule(retry)
		return nil
	}

	c.TickLater()

	return nil
}

// TopPort returns the port through which requests arrive.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}
