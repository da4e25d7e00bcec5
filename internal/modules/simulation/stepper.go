package simulation

import (
	"fmt"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
)

// Stepper runs a simulation one chunk per Step on the caller's goroutine, for hosts that need
// to interleave the work with their own loop. It produces exactly the output Run would.
type Stepper struct {
	engine *Engine
	plan   plan
	chunks []chunkResult
	err    error
}

// NewStepper validates the request and prepares a stepper positioned before the first chunk.
func (e *Engine) NewStepper(base domain.DealInput, sc domain.SimulationConfig) (*Stepper, error) {
	p, err := e.prepare(base, sc)
	if err != nil {
		return nil, err
	}
	return &Stepper{
		engine: e,
		plan:   p,
		chunks: make([]chunkResult, 0, p.chunks),
	}, nil
}

// Step runs the next chunk and reports whether more chunks remain. It returns false once the
// run is complete or a trial has failed.
func (s *Stepper) Step() bool {
	if s.err != nil || len(s.chunks) >= s.plan.chunks {
		return false
	}
	res, err := s.engine.runChunk(s.plan, len(s.chunks))
	if err != nil {
		s.err = err
		return false
	}
	s.chunks = append(s.chunks, res)
	return len(s.chunks) < s.plan.chunks
}

// Progress returns the trials completed so far and the total.
func (s *Stepper) Progress() (completed, total int) {
	for k := range s.chunks {
		_, size := s.plan.chunkBounds(k, s.engine.cfg.ChunkSize)
		completed += size
	}
	return completed, s.plan.sc.Iterations
}

// Done reports whether every chunk has run.
func (s *Stepper) Done() bool {
	return len(s.chunks) >= s.plan.chunks
}

// Result returns the output once every chunk has run.
func (s *Stepper) Result() (*domain.SimulationOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.Done() {
		completed, total := s.Progress()
		return nil, fmt.Errorf("simulation incomplete: %d of %d trials run", completed, total)
	}
	return summarise(s.plan, s.chunks), nil
}
