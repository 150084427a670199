package schedule

import "hybridsched/internal/eventbus"

// Lifecycle events published on an engine's event bus (SPEC_FULL §4.8).
// Callers that want visibility into a run beyond the final PlanResult (e.g.
// a metrics sink or a progress logger) subscribe to these.

// HorizonExtended is published each time the horizon controller grows the
// planning window (§4.5 step 4).
type HorizonExtended struct {
	FromDays int
	ToDays   int
}

// GreedyResidual is published after the greedy pass with the tasks it could
// not complete, before any residual CP-SAT repair is attempted (§4.4 step 2).
type GreedyResidual struct {
	Residual []ResidualTask
}

// SolverStatus is published after every CP-SAT invocation, including ones
// nested inside the horizon loop and the hybrid orchestrator's residual
// pass.
type SolverStatus struct {
	Status      Status
	HorizonDays int
	SolveTimeMS int64
}

// RunCompleted is published once per planning call with the final assembled
// result.
type RunCompleted struct {
	Result PlanResult
}

// Events bundles the typed buses one engine instance publishes lifecycle
// events on. A nil field is valid and simply has no subscribers.
type Events struct {
	HorizonExtended *eventbus.TypedBus[HorizonExtended]
	GreedyResidual  *eventbus.TypedBus[GreedyResidual]
	SolverStatus    *eventbus.TypedBus[SolverStatus]
	RunCompleted    *eventbus.TypedBus[RunCompleted]
}

// NewEvents constructs an Events with all four buses live.
func NewEvents() *Events {
	return &Events{
		HorizonExtended: eventbus.NewTyped[HorizonExtended](),
		GreedyResidual:  eventbus.NewTyped[GreedyResidual](),
		SolverStatus:    eventbus.NewTyped[SolverStatus](),
		RunCompleted:    eventbus.NewTyped[RunCompleted](),
	}
}

func (e *Events) publishHorizonExtended(ev HorizonExtended) {
	if e != nil && e.HorizonExtended != nil {
		e.HorizonExtended.Publish(ev)
	}
}

func (e *Events) publishGreedyResidual(ev GreedyResidual) {
	if e != nil && e.GreedyResidual != nil {
		e.GreedyResidual.Publish(ev)
	}
}

func (e *Events) publishSolverStatus(ev SolverStatus) {
	if e != nil && e.SolverStatus != nil {
		e.SolverStatus.Publish(ev)
	}
}

func (e *Events) publishRunCompleted(ev RunCompleted) {
	if e != nil && e.RunCompleted != nil {
		e.RunCompleted.Publish(ev)
	}
}
