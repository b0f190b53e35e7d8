package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should calculate the period", func() {
		Expect((1 * GHz).Period()).To(
			BeNumerically("~", VTimeInSec(1e-9), 1e-15))
		Expect((1 * MHz).Period()).To(
			BeNumerically("~", VTimeInSec(1e-6), 1e-12))
	})

	It("should panic when the frequency is 0", func() {
		Expect(func() { Freq(0).Period() }).To(Panic())
	})

	It("should convert time to cycles", func() {
		Expect((1 * GHz).Cycle(1e-9)).To(Equal(uint64(1)))
		Expect((1 * GHz).Cycle(1.5e-9)).To(Equal(uint64(2)))
		Expect((1 * GHz).Cycle(0)).To(Equal(uint64(0)))
	})

	It("should calculate this tick", func() {
		Expect((1 * GHz).ThisTick(1e-9)).To(
			BeNumerically("~", VTimeInSec(1e-9), 1e-15))
		Expect((1 * GHz).ThisTick(1.1e-9)).To(
			BeNumerically("~", VTimeInSec(2e-9), 1e-15))
	})

	It("should calculate next tick", func() {
		Expect((1 * GHz).NextTick(1e-9)).To(
			BeNumerically("~", VTimeInSec(2e-9), 1e-15))
		Expect((1 * GHz).NextTick(1.1e-9)).To(
			BeNumerically("~", VTimeInSec(2e-9), 1e-15))
	})

	It("should calculate the time n cycles later", func() {
		Expect((1 * GHz).NCyclesLater(10, 1e-9)).To(
			BeNumerically("~", VTimeInSec(11e-9), 1e-15))
	})

	It("should calculate the tick no earlier than a time", func() {
		Expect((1 * GHz).NoEarlierThan(1.2e-9)).To(
			BeNumerically("~", VTimeInSec(2e-9), 1e-15))
		Expect((1 * GHz).NoEarlierThan(2.5e-9)).To(
			BeNumerically("~", VTimeInSec(3e-9), 1e-15))
	})
})
