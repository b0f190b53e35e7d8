package sdram

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spinnlab/spikepipe/mem"
	"github.com/spinnlab/spikepipe/sim"
)

var _ = Describe("Comp", func() {
	var (
		engine  *sim.SerialEngine
		conn    *sim.DirectConnection
		srcPort sim.Port
		memCtrl *Comp
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		conn = sim.NewDirectConnection("Conn", engine, 1*sim.GHz)
		srcPort = sim.NewPort(nil, 4, 4, "Src")

		memCtrl = MakeBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithLatency(10).
			WithNewStorage(1 * mem.MB).
			Build("SDRAM")

		conn.PlugIn(srcPort)
		conn.PlugIn(memCtrl.TopPort())
	})

	It("should serve reads after the configured latency", func() {
		err := memCtrl.Storage.Write(0x40, []byte{1, 2, 3, 4})
		Expect(err).ToNot(HaveOccurred())

		req := mem.ReadReqBuilder{}.
			WithSrc(srcPort).
			WithDst(memCtrl.TopPort()).
			WithAddress(0x40).
			WithByteSize(4).
			Build()
		Expect(srcPort.Send(req)).To(BeNil())

		Expect(engine.Run()).To(Succeed())

		msg := srcPort.RetrieveIncoming()
		Expect(msg).ToNot(BeNil())

		rsp := msg.(*mem.DataReadyRsp)
		Expect(rsp.RespondTo).To(Equal(req.ID))
		Expect(rsp.Data).To(Equal([]byte{1, 2, 3, 4}))

		Expect(engine.CurrentTime()).To(
			BeNumerically(">=", sim.VTimeInSec(10e-9)))
	})

	It("should serve writes", func() {
		req := mem.WriteReqBuilder{}.
			WithSrc(srcPort).
			WithDst(memCtrl.TopPort()).
			WithAddress(0x80).
			WithData([]byte{9, 8, 7}).
			Build()
		Expect(srcPort.Send(req)).To(BeNil())

		Expect(engine.Run()).To(Succeed())

		msg := srcPort.RetrieveIncoming()
		Expect(msg).ToNot(BeNil())

		rsp := msg.(*mem.WriteDoneRsp)
		Expect(rsp.RespondTo).To(Equal(req.ID))

		data, err := memCtrl.Storage.Read(0x80, 3)
		Expect(err).ToNot(HaveOccurred())
		Expect(data).To(Equal([]byte{9, 8, 7}))
	})

	It("should serve multiple outstanding requests", func() {
		for i := 0; i < 3; i++ {
			req := mem.ReadReqBuilder{}.
				WithSrc(srcPort).
				WithDst(memCtrl.TopPort()).
				WithAddress(uint64(i) * 0x40).
				WithByteSize(4).
				Build()
			Expect(srcPort.Send(req)).To(BeNil())
		}

		Expect(engine.Run()).To(Succeed())

		for i := 0; i < 3; i++ {
			Expect(srcPort.RetrieveIncoming()).ToNot(BeNil())
		}
	})
})
