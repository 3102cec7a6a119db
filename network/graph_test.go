package network_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pulsesim/network"
)

var _ = Describe("Graph", func() {
	var records []network.Record

	BeforeEach(func() {
		records = []network.Record{
			{Kind: network.Broadcaster, Name: "broadcaster",
				Outputs: []string{"a", "b", "c"}},
			{Kind: network.FlipFlop, Name: "a", Outputs: []string{"b"}},
			{Kind: network.FlipFlop, Name: "b", Outputs: []string{"c"}},
			{Kind: network.FlipFlop, Name: "c", Outputs: []string{"inv"}},
			{Kind: network.Conjunction, Name: "inv",
				Outputs: []string{"a", "out"}},
		}
	})

	It("should intern declared modules first", func() {
		g, err := network.Build(records)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.NumModules()).To(Equal(5))
		Expect(g.NumNodes()).To(Equal(6))
		Expect(g.Entry()).To(Equal(network.ID(0)))

		id, found := g.ID("inv")
		Expect(found).To(BeTrue())
		Expect(id).To(Equal(network.ID(4)))
		Expect(g.Name(id)).To(Equal("inv"))
	})

	It("should keep the declared output order", func() {
		g, _ := network.Build(records)

		m, found := g.Lookup("broadcaster")
		Expect(found).To(BeTrue())
		Expect(m.Kind).To(Equal(network.Broadcaster))

		names := []string{}
		for _, out := range m.Outputs {
			names = append(names, g.Name(out))
		}
		Expect(names).To(Equal([]string{"a", "b", "c"}))
	})

	It("should treat undeclared outputs as sinks", func() {
		g, _ := network.Build(records)

		_, found := g.Lookup("out")
		Expect(found).To(BeFalse())
		Expect(g.Sinks()).To(Equal([]string{"out"}))

		id, found := g.ID("out")
		Expect(found).To(BeTrue())
		Expect(g.Module(id)).To(BeNil())
	})

	It("should seed conjunction inputs from reverse edges", func() {
		records = append(records, network.Record{
			Kind: network.FlipFlop, Name: "d", Outputs: []string{"inv", "inv"},
		})

		g, err := network.Build(records)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.InputsOf("inv")).To(Equal([]string{"c", "d"}))

		inv, _ := g.ID("inv")
		c, _ := g.ID("c")
		d, _ := g.ID("d")
		a, _ := g.ID("a")

		slot, found := g.InputSlot(inv, d)
		Expect(found).To(BeTrue())
		Expect(slot).To(Equal(1))

		slot, found = g.InputSlot(inv, c)
		Expect(found).To(BeTrue())
		Expect(slot).To(Equal(0))

		_, found = g.InputSlot(inv, a)
		Expect(found).To(BeFalse())
	})

	It("should only expose inputs for conjunctions", func() {
		g, _ := network.Build(records)

		b, _ := g.ID("b")
		Expect(g.Inputs(b)).To(BeNil())
		Expect(g.Predecessors(b)).To(HaveLen(2))
		Expect(g.InputsOf("b")).To(BeEmpty())
		Expect(g.InputsOf("nope")).To(BeNil())
	})

	It("should reject duplicated modules", func() {
		records = append(records, network.Record{
			Kind: network.Conjunction, Name: "a", Outputs: []string{"b"},
		})

		_, err := network.Build(records)

		var dup *network.DuplicateModuleError
		Expect(errors.As(err, &dup)).To(BeTrue())
		Expect(dup.Name).To(Equal("a"))
	})

	It("should reject kinds outside the known set", func() {
		records = append(records, network.Record{
			Kind: network.Kind(7), Name: "z", Outputs: []string{"a"},
		})

		_, err := network.Build(records)

		var unknown *network.UnknownKindError
		Expect(errors.As(err, &unknown)).To(BeTrue())
		Expect(unknown.Name).To(Equal("z"))
		Expect(unknown.Kind).To(Equal(network.Kind(7)))
		Expect(network.Kind(-1).Valid()).To(BeFalse())
		Expect(network.Conjunction.Valid()).To(BeTrue())
	})

	It("should allow a name to be referenced before it is declared", func() {
		records = []network.Record{
			{Kind: network.Conjunction, Name: "x", Outputs: []string{"y"}},
			{Kind: network.FlipFlop, Name: "y", Outputs: []string{"x"}},
			{Kind: network.Broadcaster, Name: "broadcaster",
				Outputs: []string{"y"}},
		}

		g, err := network.Build(records)

		Expect(err).NotTo(HaveOccurred())
		Expect(g.Sinks()).To(BeEmpty())
		Expect(g.Entry()).To(Equal(network.ID(2)))
	})

	It("should require a broadcaster", func() {
		_, err := network.Build(records[1:])

		Expect(err).To(MatchError(network.ErrNoEntry))
	})

	It("should reject a second broadcaster", func() {
		records = append(records, network.Record{
			Kind: network.Broadcaster, Name: "other", Outputs: []string{"a"},
		})

		_, err := network.Build(records)

		Expect(errors.Is(err, network.ErrMultipleEntries)).To(BeTrue())
	})
})
