package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

const counterFixture = `broadcaster -> a, b, c
%a -> b
%b -> c
%c -> inv
&inv -> a
`

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should toggle a flip-flop back and forth", func() {
		g := mustParse("broadcaster -> a\n%a -> out")
		s := NewSimulator(g)
		initial := s.State().Clone()
		collector := &pulseCollector{}
		s.AcceptHook(collector)

		Expect(s.Press()).To(Succeed())
		Expect(collector.named(g)).To(Equal([]string{
			"button -low-> broadcaster",
			"broadcaster -low-> a",
			"a -high-> out",
		}))
		Expect(s.State().IsOn(mustID(g, "a"))).To(BeTrue())

		collector.pulses = nil
		Expect(s.Press()).To(Succeed())
		Expect(collector.named(g)).To(Equal([]string{
			"button -low-> broadcaster",
			"broadcaster -low-> a",
			"a -low-> out",
		}))

		Expect(s.State().Equal(initial)).To(BeTrue())
		Expect(s.Presses()).To(Equal(uint64(2)))
	})

	It("should absorb high pulses in flip-flops", func() {
		g := mustParse("broadcaster -> a\n%a -> out")
		s := NewSimulator(g)

		out, err := s.Deliver(Pulse{From: g.Entry(), To: mustID(g, "a"), Value: High})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
		Expect(s.State().IsOn(mustID(g, "a"))).To(BeFalse())
	})

	DescribeTable("conjunction truth table",
		func(fromX, fromY, expected Value) {
			g := mustParse("broadcaster -> x, y\n%x -> c\n%y -> c\n&c -> out")
			s := NewSimulator(g)
			x, y, c := mustID(g, "x"), mustID(g, "y"), mustID(g, "c")

			_, err := s.State().Remember(c, y, fromY)
			Expect(err).NotTo(HaveOccurred())

			out, err := s.Deliver(Pulse{From: x, To: c, Value: fromX})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]Pulse{
				{From: c, To: mustID(g, "out"), Value: expected},
			}))
		},
		Entry("low, low", Low, Low, High),
		Entry("low, high", Low, High, High),
		Entry("high, low", High, Low, High),
		Entry("high, high", High, High, Low),
	)

	It("should fan out in declared output order", func() {
		g := mustParse("broadcaster -> p, q, r")
		s := NewSimulator(g)

		for _, v := range []Value{Low, High} {
			out, err := s.Deliver(Pulse{From: Button, To: g.Entry(), Value: v})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]Pulse{
				{From: g.Entry(), To: mustID(g, "p"), Value: v},
				{From: g.Entry(), To: mustID(g, "q"), Value: v},
				{From: g.Entry(), To: mustID(g, "r"), Value: v},
			}))
		}
	})

	It("should deliver pulses depth by depth", func() {
		g := mustParse("broadcaster -> a, b\n%a -> c\n%b -> d\n&c -> e\n&d -> f")
		s := NewSimulator(g)
		collector := &pulseCollector{}
		s.AcceptHook(collector)

		Expect(s.Press()).To(Succeed())

		Expect(collector.named(g)).To(Equal([]string{
			"button -low-> broadcaster",
			"broadcaster -low-> a",
			"broadcaster -low-> b",
			"a -high-> c",
			"b -high-> d",
			"c -low-> e",
			"d -low-> f",
		}))
	})

	It("should count the example network", func() {
		g := mustParse(counterFixture)
		s := NewSimulator(g)

		Expect(s.Press()).To(Succeed())
		Expect(s.Tally()).To(Equal(Tally{Low: 8, High: 4}))

		for i := 1; i < 1000; i++ {
			Expect(s.Press()).To(Succeed())
		}

		Expect(s.Tally()).To(Equal(Tally{Low: 8000, High: 4000}))
		Expect(s.Tally().Product()).To(Equal(uint64(32000000)))
	})

	It("should be deterministic", func() {
		g := mustParse(counterFixture)
		s1 := NewSimulator(g)
		s2 := NewSimulator(g)

		for i := 0; i < 37; i++ {
			Expect(s1.Press()).To(Succeed())
			Expect(s2.Press()).To(Succeed())
		}

		Expect(s1.Tally()).To(Equal(s2.Tally()))
		Expect(s1.State().Equal(s2.State())).To(BeTrue())
	})

	It("should start over after reset", func() {
		g := mustParse(counterFixture)
		s := NewSimulator(g)
		initial := s.State().Clone()

		Expect(s.Press()).To(Succeed())
		s.Reset()

		Expect(s.Presses()).To(BeZero())
		Expect(s.Tally()).To(Equal(Tally{}))
		Expect(s.State().Equal(initial)).To(BeTrue())
	})

	It("should report pulses from unknown senders", func() {
		g := mustParse("broadcaster -> x\n%x -> c\n&c -> out")
		s := NewSimulator(g)

		_, err := s.Deliver(Pulse{From: g.Entry(), To: mustID(g, "c"), Value: Low})

		var missing *MissingInputError
		Expect(errors.As(err, &missing)).To(BeTrue())
	})

	It("should ignore pulses to sinks", func() {
		g := mustParse("broadcaster -> out")
		s := NewSimulator(g)

		out, err := s.Deliver(Pulse{From: g.Entry(), To: mustID(g, "out")})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeNil())
	})

	It("should invoke hooks around a press", func() {
		g := mustParse("broadcaster -> out")
		s := NewSimulator(g)
		hook := NewMockHook(mockCtrl)
		s.AcceptHook(hook)

		var positions []*HookPos
		var summary PressSummary
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			positions = append(positions, ctx.Pos)
			Expect(ctx.Domain).To(BeIdenticalTo(s))

			if ctx.Pos == HookPosPressEnd {
				Expect(ctx.Item).To(Equal(uint64(1)))
				summary = ctx.Detail.(PressSummary)
			}
		}).Times(4)

		Expect(s.Press()).To(Succeed())

		Expect(positions).To(Equal([]*HookPos{
			HookPosPressStart, HookPosPulse, HookPosPulse, HookPosPressEnd,
		}))
		Expect(summary).To(Equal(PressSummary{
			Press: 1,
			Tally: Tally{Low: 2},
		}))
	})

	It("should not accept the same hook twice", func() {
		s := NewSimulator(mustParse("broadcaster -> out"))
		hook := NewMockHook(mockCtrl)
		s.AcceptHook(hook)

		Expect(func() { s.AcceptHook(hook) }).To(Panic())
	})

	It("should refuse a state built for another graph", func() {
		g := mustParse("broadcaster -> out")
		other := mustParse("broadcaster -> out")

		Expect(func() {
			MakeBuilder().WithGraph(g).WithState(NewState(other)).Build("S")
		}).To(Panic())
	})
})
