package sim

import (
	"sync"
)

// A ProgressReporter receives the number of presses finished.
type ProgressReporter interface {
	IncrementFinished(amount uint64)
}

// A Runner keeps pressing the button of a simulator. It can be paused and
// continued from another goroutine, and lets other goroutines look at the
// session between two presses.
type Runner struct {
	sim      *Simulator
	progress ProgressReporter

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	stateLock     sync.Mutex
	singleRunLock sync.Mutex
}

// NewRunner creates a Runner that drives s.
func NewRunner(s *Simulator) *Runner {
	return &Runner{sim: s}
}

// WithProgress sets where finished presses are reported.
func (r *Runner) WithProgress(p ProgressReporter) *Runner {
	r.progress = p
	return r
}

// Run performs the given number of presses, stopping at the first error.
func (r *Runner) Run(presses uint64) error {
	r.singleRunLock.Lock()
	defer r.singleRunLock.Unlock()

	for i := uint64(0); i < presses; i++ {
		r.pauseLock.Lock()
		r.stateLock.Lock()

		err := r.sim.Press()

		r.stateLock.Unlock()
		r.pauseLock.Unlock()

		if err != nil {
			return err
		}

		if r.progress != nil {
			r.progress.IncrementFinished(1)
		}
	}

	return nil
}

// Inspect calls f with the simulator while no press is running.
func (r *Runner) Inspect(f func(s *Simulator)) {
	r.stateLock.Lock()
	defer r.stateLock.Unlock()

	f(r.sim)
}

// Pause prevents the Runner from starting more presses.
func (r *Runner) Pause() {
	r.isPausedLock.Lock()
	defer r.isPausedLock.Unlock()

	if r.isPaused {
		return
	}

	r.pauseLock.Lock()
	r.isPaused = true
}

// Continue allows the Runner to start more presses.
func (r *Runner) Continue() {
	r.isPausedLock.Lock()
	defer r.isPausedLock.Unlock()

	if !r.isPaused {
		return
	}

	r.pauseLock.Unlock()
	r.isPaused = false
}

// IsPaused tells if the Runner is paused.
func (r *Runner) IsPaused() bool {
	r.isPausedLock.Lock()
	defer r.isPausedLock.Unlock()

	return r.isPaused
}
