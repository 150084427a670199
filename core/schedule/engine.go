package schedule

import (
	"errors"

	"github.com/google/uuid"

	"hybridsched/core/model"
	"hybridsched/infra/logger"
)

// PlanRequest is the invocation input of §6: three tabular inputs plus the
// planning start date. Horizon/solver/routing parameters live on the
// Engine's EngineConfig instead of the request, matching the spec's
// "threaded explicitly through the engine" configuration model (§9).
type PlanRequest struct {
	Tasks         []model.Task
	CalendarSlots []model.CalendarSlot
	Leaves        []model.Leave
	StartDate     model.Date
}

// Engine is the hybrid scheduling engine: configuration, lifecycle events
// and a logger, wired once and reused across planning calls. A single
// Engine must not be used for concurrent Plan calls with shared mutable
// state beyond what each call builds for itself (§5).
type Engine struct {
	Config EngineConfig
	Events *Events
	Log    logger.Logger
}

// NewEngine builds an Engine with the given config. Events defaults to nil
// (no subscribers); assign the Events field to attach one.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{Config: cfg, Log: logger.NopLogger{}}
}

// Plan implements the end-to-end control flow of §2: validate the request,
// classify and route it through the hybrid orchestrator (which itself may
// invoke the horizon controller), then assemble the canonical output.
func (e *Engine) Plan(req PlanRequest) (PlanResult, error) {
	runID := uuid.NewString()

	if err := validateRequest(req); err != nil {
		return PlanResult{}, err
	}

	build := func(horizonDays int) *Index {
		return BuildIndex(req.Tasks, req.CalendarSlots, req.Leaves, req.StartDate, horizonDays)
	}

	hybridParams := e.Config.HybridParams()
	hybridParams.Events = e.Events

	result, err := Run(build, hybridParams)
	if err != nil {
		var capErr *ErrHorizonCapExceeded
		if errors.As(err, &capErr) {
			e.Log.Warnf("run %s: horizon cap exceeded: last=%d cap=%d", runID, capErr.LastHorizonDays, capErr.MaxHorizonDays)
			return PlanResult{}, &HorizonExceededError{Cause: capErr}
		}
		return PlanResult{}, err
	}

	idx := build(result.HorizonDays)
	out := Assemble(idx, idx.AllTasks(), result)
	out.RunID = runID
	e.Events.publishRunCompleted(RunCompleted{Result: out})
	e.Log.Infof("run %s: plan complete: status=%s algorithm=%s horizon_days=%d tasks_scheduled=%d/%d",
		runID, out.Status, out.AlgorithmUsed, out.HorizonDays, out.Stats.TasksScheduled, out.Stats.TasksTotal)
	return out, nil
}

func validateRequest(req PlanRequest) error {
	for _, t := range req.Tasks {
		if err := t.Validate(); err != nil {
			return &InvalidInputError{Field: "tasks", Reason: err.Error()}
		}
	}
	for _, c := range req.CalendarSlots {
		if err := c.Validate(); err != nil {
			return &InvalidInputError{Field: "calendar_slots", Reason: err.Error()}
		}
	}
	for _, l := range req.Leaves {
		if err := l.Validate(); err != nil {
			return &InvalidInputError{Field: "leaves", Reason: err.Error()}
		}
	}
	return nil
}
