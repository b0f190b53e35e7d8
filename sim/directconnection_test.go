package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

type sampleMsg struct {
	MsgMeta
}

func (m *sampleMsg) Meta() *MsgMeta {
	return &m.MsgMeta
}

func (m *sampleMsg) Clone() Msg {
	cloneMsg := *m
	cloneMsg.ID = GetIDGenerator().Generate()

	return &cloneMsg
}

var _ = Describe("DirectConnection", func() {
	var (
		mockCtrl   *gomock.Controller
		engine     *MockEngine
		port1      *MockPort
		port2      *MockPort
		connection *DirectConnection
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEngine(mockCtrl)
		port1 = NewMockPort(mockCtrl)
		port2 = NewMockPort(mockCtrl)

		connection = NewDirectConnection("Conn", engine, 1*GHz)

		port1.EXPECT().SetConnection(connection)
		port2.EXPECT().SetConnection(connection)
		connection.PlugIn(port1)
		connection.PlugIn(port2)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule a tick when notified of a send", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(0)).AnyTimes()
		engine.EXPECT().Schedule(gomock.Any()).Do(func(evt Event) {
			Expect(evt.IsSecondary()).To(BeTrue())
		})

		connection.NotifySend()
	})

	It("should forward messages to the destination port", func() {
		msg := &sampleMsg{}
		msg.Src = port1
		msg.Dst = port2

		port1.EXPECT().PeekOutgoing().Return(msg)
		port1.EXPECT().PeekOutgoing().Return(nil)
		port1.EXPECT().RetrieveOutgoing().Return(msg)
		port2.EXPECT().Deliver(msg).Return(nil)
		port2.EXPECT().PeekOutgoing().Return(nil)

		madeProgress := connection.Tick()

		Expect(madeProgress).To(BeTrue())
	})

	It("should stop forwarding when the destination is busy", func() {
		msg := &sampleMsg{}
		msg.Src = port1
		msg.Dst = port2

		port1.EXPECT().PeekOutgoing().Return(msg)
		port2.EXPECT().Deliver(msg).Return(NewSendError())
		port2.EXPECT().PeekOutgoing().Return(nil)

		madeProgress := connection.Tick()

		Expect(madeProgress).To(BeFalse())
	})

	It("should notify the other ports when one becomes available", func() {
		engine.EXPECT().CurrentTime().Return(VTimeInSec(0)).AnyTimes()
		engine.EXPECT().Schedule(gomock.Any())
		port1.EXPECT().NotifyAvailable()

		connection.NotifyAvailable(port2)
	})
})
