package analysis

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/pulsesim/network"
)

// A Prediction is the press at which all gates of a sink fire together.
type Prediction struct {
	Sink   string
	Cycles []Cycle
	Press  uint64
}

// Periods returns the period of every gate, in gate order.
func (p Prediction) Periods() []uint64 {
	periods := make([]uint64, 0, len(p.Cycles))
	for _, c := range p.Cycles {
		periods = append(periods, c.Period)
	}

	return periods
}

// A Predictor analyzes the gates of a sink, one independent session per gate,
// and combines their periods.
type Predictor struct {
	analyzer    *CycleAnalyzer
	parallelism int
}

// NewPredictor creates a Predictor. A parallelism below one uses one worker
// per CPU.
func NewPredictor(analyzer *CycleAnalyzer, parallelism int) *Predictor {
	if parallelism < 1 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	return &Predictor{
		analyzer:    analyzer,
		parallelism: parallelism,
	}
}

// Predict discovers the gates of sink and returns the least common multiple
// of their periods.
func (p *Predictor) Predict(g *network.Graph, sink string) (Prediction, error) {
	gates, err := DiscoverGates(g, sink)
	if err != nil {
		return Prediction{}, err
	}

	cycles, err := p.AnalyzeAll(g, gates)
	if err != nil {
		return Prediction{}, err
	}

	pred := Prediction{Sink: sink, Cycles: cycles}

	pred.Press, err = CombineChecked(pred.Periods())
	if err != nil {
		return Prediction{}, fmt.Errorf("combining %v: %w", pred.Periods(), err)
	}

	return pred, nil
}

// AnalyzeAll analyzes every named module in its own session. Results and
// errors are reported in the order of names.
func (p *Predictor) AnalyzeAll(g *network.Graph, names []string) ([]Cycle, error) {
	cycles := make([]Cycle, len(names))
	errs := make([]error, len(names))

	var group errgroup.Group
	group.SetLimit(p.parallelism)

	for i, name := range names {
		group.Go(func() error {
			cycles[i], errs[i] = p.analyzer.Analyze(g, name)
			return nil
		})
	}

	_ = group.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return cycles, nil
}
