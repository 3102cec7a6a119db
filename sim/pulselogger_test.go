package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pulsesim/network"
)

var _ = Describe("PulseLogger", func() {
	It("should log every pulse of a press", func() {
		buf := new(bytes.Buffer)
		s := NewSimulator(mustParse("broadcaster -> a\n%a -> out"))
		s.AcceptHook(NewPulseLogger(log.New(buf, "", 0)))

		Expect(s.Press()).To(Succeed())

		Expect(buf.String()).To(Equal(
			"1, button -low-> broadcaster\n" +
				"1, broadcaster -low-> a\n" +
				"1, a -high-> out\n"))
	})

	It("should fall back to node IDs without a simulator", func() {
		buf := new(bytes.Buffer)
		logger := NewPulseLogger(log.New(buf, "", 0))

		logger.Func(HookCtx{
			Pos:  HookPosPulse,
			Item: Pulse{From: 3, To: 5, Value: High},
		})

		Expect(buf.String()).To(Equal("3 -high-> 5\n"))
	})

	It("should ignore other hook positions", func() {
		buf := new(bytes.Buffer)
		logger := NewPulseLogger(log.New(buf, "", 0))

		logger.Func(HookCtx{Pos: HookPosPressEnd, Item: uint64(1)})

		Expect(buf.Len()).To(BeZero())
	})
})

var _ = Describe("Pulse", func() {
	It("should describe itself with node names", func() {
		g := mustParse("broadcaster -> a\n%a -> out")
		p := Pulse{From: Button, To: mustID(g, "broadcaster"), Value: Low}

		Expect(p.Describe(func(id network.ID) string { return nodeName(g, id) })).
			To(Equal("button -low-> broadcaster"))
		Expect(p.String()).To(Equal("-1 -low-> 0"))
	})
})
