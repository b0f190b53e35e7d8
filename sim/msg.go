package sim

import "reflect"

// A Msg is a piece of information transferred between components.
type Msg interface {
	Meta() *MsgMeta
	Clone() Msg
}

// MsgMeta is the meta data attached to every message.
type MsgMeta struct {
	ID           string
	Src, Dst     Port
	TrafficClass string
	TrafficBytes int
}

// A Rsp is a message that signals the completion of a request.
type Rsp interface {
	Msg
	GetRspTo() string
}

// GeneralRsp is a plain completion response that carries the original
// request.
type GeneralRsp struct {
	MsgMeta

	OriginalReq Msg
}

// Meta returns the meta data of the message.
func (r *GeneralRsp) Meta() *MsgMeta {
	return &r.MsgMeta
}

// Clone returns a copy of the response with a new ID.
func (r *GeneralRsp) Clone() Msg {
	cloneMsg := *r
	cloneMsg.ID = GetIDGenerator().Generate()

	return &cloneMsg
}

// GetRspTo returns the ID of the original request.
func (r *GeneralRsp) GetRspTo() string {
	return r.OriginalReq.Meta().ID
}

// GeneralRspBuilder builds GeneralRsp messages.
type GeneralRspBuilder struct {
	Src, Dst     Port
	TrafficBytes int
	OriginalReq  Msg
}

// WithSrc sets the source of the response.
func (c GeneralRspBuilder) WithSrc(src Port) GeneralRspBuilder {
	c.Src = src
	return c
}

// WithDst sets the destination of the response.
func (c GeneralRspBuilder) WithDst(dst Port) GeneralRspBuilder {
	c.Dst = dst
	return c
}

// WithTrafficBytes sets the number of bytes the response occupies on the
// interconnect.
func (c GeneralRspBuilder) WithTrafficBytes(
	trafficBytes int,
) GeneralRspBuilder {
	c.TrafficBytes = trafficBytes
	return c
}

// WithOriginalReq sets the request that the response completes.
func (c GeneralRspBuilder) WithOriginalReq(originalReq Msg) GeneralRspBuilder {
	c.OriginalReq = originalReq
	return c
}

// Build creates the response message.
func (c GeneralRspBuilder) Build() *GeneralRsp {
	return &GeneralRsp{
		MsgMeta: MsgMeta{
			ID:           GetIDGenerator().Generate(),
			Src:          c.Src,
			Dst:          c.Dst,
			TrafficClass: reflect.TypeOf(GeneralRsp{}).String(),
			TrafficBytes: c.TrafficBytes,
		},
		OriginalReq: c.OriginalReq,
	}
}
