package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pulsesim/network"
	"github.com/sarchlab/pulsesim/sim"
)

var _ = Describe("Monitor", func() {
	var (
		m      *Monitor
		runner *sim.Runner
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.router().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		g, err := network.Parse(
			"broadcaster -> a, inv\n%a -> inv\n&inv -> out")
		Expect(err).NotTo(HaveOccurred())

		runner = sim.NewRunner(sim.NewSimulator(g))

		m = NewMonitor()
		m.RegisterRunner(runner)
	})

	It("should list modules", func() {
		rec := get("/api/list_modules")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(Equal(`["broadcaster","a","inv"]`))
	})

	It("should report the number of presses", func() {
		Expect(runner.Run(3)).To(Succeed())

		rec := get("/api/now")

		Expect(rec.Body.String()).To(Equal(`{"now":3,"paused":false}`))
	})

	It("should report the tally", func() {
		Expect(runner.Run(2)).To(Succeed())

		var expected sim.Tally
		runner.Inspect(func(s *sim.Simulator) { expected = s.Tally() })

		rsp := tallyRsp{}
		Expect(json.Unmarshal(get("/api/tally").Body.Bytes(), &rsp)).
			To(Succeed())

		Expect(rsp.Low).To(Equal(expected.Low))
		Expect(rsp.High).To(Equal(expected.High))
		Expect(rsp.Product).To(Equal(expected.Low * expected.High))
	})

	It("should pause and continue the runner", func() {
		get("/api/pause")
		Expect(runner.IsPaused()).To(BeTrue())

		get("/api/continue")
		Expect(runner.IsPaused()).To(BeFalse())
	})

	It("should serialize a module", func() {
		rec := get("/api/module/inv")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should return 404 for unknown modules", func() {
		Expect(get("/api/module/out").Code).To(Equal(http.StatusNotFound))

		req := url.PathEscape(`{"module_name":"zzz","field_name":"On"}`)
		Expect(get("/api/field/" + req).Code).To(Equal(http.StatusNotFound))
	})

	It("should reject malformed field requests", func() {
		rec := get("/api/field/" + url.PathEscape("{"))

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should list uncompleted progress bars", func() {
		bar1 := m.CreateProgressBar("count", 10)
		bar2 := m.CreateProgressBar("predict", 2)
		bar1.IncrementFinished(5)
		m.CompleteProgressBar(bar2)

		var bars []map[string]any
		Expect(json.Unmarshal(get("/api/progress").Body.Bytes(), &bars)).
			To(Succeed())

		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("count"))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 5))
		Expect(bar1.Progress()).To(BeNumerically("~", 0.5))
		Expect(bar1.ID).NotTo(Equal(bar2.ID))
	})
})

var _ = Describe("moduleView", func() {
	It("should show the memory of a conjunction", func() {
		g, err := network.Parse("broadcaster -> a, inv\n%a -> inv\n&inv -> out")
		Expect(err).NotTo(HaveOccurred())

		s := sim.NewSimulator(g)
		Expect(s.Press()).To(Succeed())

		inv, _ := g.Lookup("inv")
		view := newModuleView(s, inv)

		Expect(view.Kind).To(Equal("conjunction"))
		Expect(view.Outputs).To(Equal([]string{"out"}))
		Expect(view.Inputs).To(Equal([]inputView{
			{Sender: "broadcaster", Value: "low"},
			{Sender: "a", Value: "high"},
		}))

		a, _ := g.Lookup("a")
		Expect(newModuleView(s, a).On).To(BeTrue())
	})
})
