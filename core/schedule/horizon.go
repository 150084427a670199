package schedule

import (
	"math"
	"strconv"

	"hybridsched/core/model"
)

// HorizonParams configures the horizon auto-extension loop (§4.5).
type HorizonParams struct {
	InitialHorizonDays int
	ExtensionFactor    float64
	MaxHorizonDays     int

	// Events, if non-nil, receives HorizonExtended and SolverStatus
	// notifications as the loop runs.
	Events *Events
}

// DefaultHorizonParams mirrors the spec's documented defaults.
func DefaultHorizonParams() HorizonParams {
	return HorizonParams{InitialHorizonDays: 28, ExtensionFactor: 1.25, MaxHorizonDays: 1825}
}

// HorizonResult carries the CP-SAT outcome together with the horizon it was
// finally obtained at.
type HorizonResult struct {
	CPSATResult
	HorizonDays int
	// Extended records whether the loop grew the horizon at least once.
	Extended bool
}

// ErrHorizonCapExceeded is returned when no feasible schedule was found
// before MaxHorizonDays was reached (§4.5 step 4, §7 "horizon cap exceeded").
type ErrHorizonCapExceeded struct {
	LastHorizonDays int
	MaxHorizonDays  int
}

func (e *ErrHorizonCapExceeded) Error() string {
	return "schedule: no feasible schedule within horizon cap (last tried " +
		strconv.Itoa(e.LastHorizonDays) + ", cap " + strconv.Itoa(e.MaxHorizonDays) + ")"
}

// RunWithHorizon implements §4.5: it rebuilds the candidate index at an
// ever-growing horizon and re-invokes CP-SAT until a solution is found or
// the horizon cap is exceeded. Constraints are never relaxed; only the time
// window grows.
//
// build is called once per iteration to rebuild the candidate index for the
// current horizon (the domain model doesn't change, only horizonDays does).
func RunWithHorizon(
	build func(horizonDays int) *Index,
	taskIDs []int,
	solverParams CPSATParams,
	horizonParams HorizonParams,
) (HorizonResult, error) {
	h := horizonParams.InitialHorizonDays
	extended := false

	for {
		idx := build(h)
		res, err := RunCPSAT(idx, taskIDs, solverParams)
		if err != nil {
			return HorizonResult{}, err
		}
		horizonParams.Events.publishSolverStatus(SolverStatus{
			Status:      res.Status,
			HorizonDays: h,
			SolveTimeMS: res.SolveTime.Milliseconds(),
		})
		if !res.Status.NoSolution() {
			return HorizonResult{CPSATResult: res, HorizonDays: h, Extended: extended}, nil
		}

		next := int(math.Ceil(float64(h) * horizonParams.ExtensionFactor))
		if next <= h {
			next = h + 1
		}
		if next > horizonParams.MaxHorizonDays {
			return HorizonResult{}, &ErrHorizonCapExceeded{LastHorizonDays: h, MaxHorizonDays: horizonParams.MaxHorizonDays}
		}
		horizonParams.Events.publishHorizonExtended(HorizonExtended{FromDays: h, ToDays: next})
		h = next
		extended = true
	}
}

// EstimateInitialHorizon is an optional starting-point heuristic (§4.9 of
// SPEC_FULL.md): it estimates the number of days a resource needs to absorb
// its heaviest task given the resource's weekly available hours, so the
// horizon loop can start closer to the eventual answer instead of always at
// InitialHorizonDays. It never replaces the loop's growth or termination
// semantics — RunWithHorizon still grows and caps exactly per §4.5.
func EstimateInitialHorizon(tasks []model.Task, slots []model.CalendarSlot, fallback int) int {
	weeklyHoursByResource := make(map[int]int)
	resourceOfTask := make(map[int]int)
	for _, t := range tasks {
		resourceOfTask[t.ID] = t.ResourceID
	}
	for _, s := range slots {
		resourceID, ok := resourceOfTask[s.TaskID]
		if !ok {
			continue
		}
		weeklyHoursByResource[resourceID] += s.HourTo - s.HourFrom
	}

	maxWeeks := 0.0
	for _, t := range tasks {
		weekly := weeklyHoursByResource[t.ResourceID]
		if weekly <= 0 || t.RemainingHours == 0 {
			continue
		}
		weeks := math.Ceil(float64(t.RemainingHours) / float64(weekly))
		if weeks > maxWeeks {
			maxWeeks = weeks
		}
	}
	if maxWeeks == 0 {
		return fallback
	}
	estimate := int(maxWeeks*7) + 7 // pad one week for leave/weekend slack
	if estimate < fallback {
		return fallback
	}
	return estimate
}
