package driver

import (
	"time"

	"simplecc/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a configuration phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Configure.
type PhaseObserver func(PhaseEvent)

type phases struct {
	timer *observ.Timer
	obs   PhaseObserver
}

func newPhases(obs PhaseObserver) *phases {
	return &phases{timer: observ.NewTimer(), obs: obs}
}

func (p *phases) begin(name string) int {
	if p.obs != nil {
		p.obs(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return p.timer.Begin(name)
}

func (p *phases) end(idx int, note string) {
	p.timer.End(idx, note)
	if p.obs != nil {
		ph := p.timer.Phase(idx)
		p.obs(PhaseEvent{Name: ph.Name, Status: PhaseEnd, Elapsed: ph.Dur})
	}
}
