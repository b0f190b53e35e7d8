package spikeproc

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/spinnlab/spikepipe/synapse"
)

var _ = Describe("InputBuffer", func() {
	It("should push and pop in order", func() {
		buf := newInputBuffer(4)

		Expect(buf.TryPush(1)).To(BeTrue())
		Expect(buf.TryPush(2)).To(BeTrue())
		Expect(buf.Size()).To(Equal(2))

		key, ok := buf.TryPop()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(synapse.Key(1)))

		key, ok = buf.TryPop()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(synapse.Key(2)))

		_, ok = buf.TryPop()
		Expect(ok).To(BeFalse())
	})

	It("should reject pushes when full", func() {
		buf := newInputBuffer(4)

		for i := 0; i < 4; i++ {
			Expect(buf.TryPush(synapse.Key(i))).To(BeTrue())
		}

		Expect(buf.TryPush(99)).To(BeFalse())
		Expect(buf.Size()).To(Equal(4))
	})

	It("should round the capacity up to a power of two", func() {
		buf := newInputBuffer(5)

		Expect(buf.Capacity()).To(Equal(8))
	})

	It("should reject every push with zero capacity", func() {
		buf := newInputBuffer(0)

		Expect(buf.Capacity()).To(Equal(0))
		Expect(buf.TryPush(1)).To(BeFalse())
	})

	It("should wrap around the backing array", func() {
		buf := newInputBuffer(4)

		for i := 0; i < 100; i++ {
			Expect(buf.TryPush(synapse.Key(i))).To(BeTrue())

			key, ok := buf.TryPop()
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal(synapse.Key(i)))
		}
	})

	It("should clear and report the dropped count", func() {
		buf := newInputBuffer(4)

		buf.TryPush(1)
		buf.TryPush(2)
		buf.TryPush(3)

		Expect(buf.Clear()).To(Equal(3))
		Expect(buf.Size()).To(Equal(0))

		_, ok := buf.TryPop()
		Expect(ok).To(BeFalse())
	})
})
