package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("DefaultPort", func() {
	var (
		mockCtrl  *gomock.Controller
		comp      *MockComponent
		conn      *MockConnection
		otherPort *MockPort
		port      Port
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		comp = NewMockComponent(mockCtrl)
		conn = NewMockConnection(mockCtrl)
		otherPort = NewMockPort(mockCtrl)

		port = NewPort(comp, 2, 2, "Port")
		port.SetConnection(conn)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should send messages and notify the connection", func() {
		msg := &sampleMsg{}
		msg.Src = port
		msg.Dst = otherPort

		conn.EXPECT().NotifySend()

		Expect(port.CanSend()).To(BeTrue())
		Expect(port.Send(msg)).To(BeNil())
		Expect(port.PeekOutgoing()).To(BeIdenticalTo(msg))
	})

	It("should fail to send when the outgoing buffer is full", func() {
		conn.EXPECT().NotifySend()

		for i := 0; i < 2; i++ {
			msg := &sampleMsg{}
			msg.Src = port
			msg.Dst = otherPort
			Expect(port.Send(msg)).To(BeNil())
		}

		msg := &sampleMsg{}
		msg.Src = port
		msg.Dst = otherPort

		Expect(port.CanSend()).To(BeFalse())
		Expect(port.Send(msg)).NotTo(BeNil())
	})

	It("should panic when the message is not sourced from the port", func() {
		msg := &sampleMsg{}
		msg.Src = otherPort
		msg.Dst = port

		Expect(func() { port.Send(msg) }).To(Panic())
	})

	It("should deliver messages and notify the component", func() {
		msg := &sampleMsg{}
		msg.Src = otherPort
		msg.Dst = port

		comp.EXPECT().NotifyRecv(port)

		Expect(port.Deliver(msg)).To(BeNil())
		Expect(port.PeekIncoming()).To(BeIdenticalTo(msg))
		Expect(port.RetrieveIncoming()).To(BeIdenticalTo(msg))
	})

	It("should refuse delivery when the incoming buffer is full", func() {
		comp.EXPECT().NotifyRecv(port)

		for i := 0; i < 2; i++ {
			msg := &sampleMsg{}
			msg.Src = otherPort
			msg.Dst = port
			Expect(port.Deliver(msg)).To(BeNil())
		}

		msg := &sampleMsg{}
		msg.Src = otherPort
		msg.Dst = port

		Expect(port.Deliver(msg)).NotTo(BeNil())
	})

	It("should notify the connection when a full buffer drains", func() {
		comp.EXPECT().NotifyRecv(port)

		for i := 0; i < 2; i++ {
			msg := &sampleMsg{}
			msg.Src = otherPort
			msg.Dst = port
			Expect(port.Deliver(msg)).To(BeNil())
		}

		conn.EXPECT().NotifyAvailable(port)

		Expect(port.RetrieveIncoming()).NotTo(BeNil())
	})
})
