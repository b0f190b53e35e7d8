package sim

// A SendError marks a failed send or delivery.
type SendError struct{}

// NewSendError creates a SendError.
func NewSendError() *SendError {
	return &SendError{}
}

// A Connection delivers messages to their destination ports.
type Connection interface {
	Named
	Hookable

	PlugIn(port Port)
	Unplug(port Port)
	NotifyAvailable(port Port)

	// NotifySend is called by a port when messages are waiting in its
	// outgoing buffer.
	NotifySend()
}

// HookPosConnStartSend marks that a connection accepted a message to send.
var HookPosConnStartSend = &HookPos{Name: "Conn Start Send"}

// HookPosConnStartTrans marks that a connection started transmitting.
var HookPosConnStartTrans = &HookPos{Name: "Conn Start Trans"}

// HookPosConnDoneTrans marks that a connection finished transmitting.
var HookPosConnDoneTrans = &HookPos{Name: "Conn Done Trans"}

// HookPosConnDeliver marks that a connection delivered a message.
var HookPosConnDeliver = &HookPos{Name: "Conn Deliver"}
