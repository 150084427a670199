package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"

	"hybridsched/core/model"
)

// CPSATParams configures one CP-SAT solve (§4.3 "Solver parameters").
type CPSATParams struct {
	TimeLimitSeconds float64
	Workers          int32
	LogProgress      bool
	RandomSeed       int64
}

// DefaultCPSATParams mirrors the spec's documented defaults.
func DefaultCPSATParams() CPSATParams {
	return CPSATParams{TimeLimitSeconds: 30, Workers: 4}
}

// Status enumerates the statuses the engine reports (§4.3, §6).
type Status string

const (
	StatusOptimal      Status = "OPTIMAL"
	StatusFeasible     Status = "FEASIBLE"
	StatusPartial      Status = "PARTIAL"
	StatusInfeasible   Status = "INFEASIBLE"
	StatusTimeout      Status = "TIMEOUT"
	StatusModelInvalid Status = "MODEL_INVALID"
	StatusUnknown      Status = "UNKNOWN"
)

// NoSolution reports whether a status counts as "no solution at this
// horizon" for the purposes of the horizon controller (§4.5, §7).
func (s Status) NoSolution() bool {
	switch s {
	case StatusInfeasible, StatusModelInvalid, StatusUnknown:
		return true
	default:
		return false
	}
}

// CPSATResult is the outcome of one CP-SAT solve.
type CPSATResult struct {
	Status         Status
	Assignments    []model.Assignment
	ObjectiveValue *int64
	SolveTime      time.Duration
	Branches       int64
	Conflicts      int64
}

type slotVar struct {
	taskID int
	date   model.Date
	hour   int
}

type dayKey struct {
	taskID int
	date   model.Date
}

// RunCPSAT implements §4.3: for every candidate slot unit of the given
// tasks a Boolean assignment variable, an hour-count equality constraint per
// task, a resource-exclusivity at-most-one per resource hour, and auxiliary
// day-used Booleans linked by implication and minimized to concentrate each
// task into as few days as possible; among solutions with the fewest
// task-days, each task's earliest candidate hours are preferred. Each task
// is constrained to its full remaining_hours.
//
// taskIDs restricts the solve to a subset of idx's feasible tasks; pass nil
// to solve over all of them (used by the horizon-controlled full solve).
func RunCPSAT(idx *Index, taskIDs []int, params CPSATParams) (CPSATResult, error) {
	tasks := selectTasks(idx, taskIDs)
	targets := make(map[int]int, len(tasks))
	for _, t := range tasks {
		targets[t.ID] = t.RemainingHours
	}
	return runCPSAT(idx, tasks, targets, params)
}

// RunCPSATForHours is like RunCPSAT but solves each of the given tasks for
// an explicit hour target instead of its full remaining_hours. The hybrid
// orchestrator's residual repair pass (§4.4) uses this: a residual task may
// already carry partial greedy assignments, so it must only be asked to
// cover its outstanding HoursNeeded, never its full remaining_hours.
func RunCPSATForHours(idx *Index, hourTargets map[int]int, params CPSATParams) (CPSATResult, error) {
	ids := make([]int, 0, len(hourTargets))
	for id := range hourTargets {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	tasks := selectTasks(idx, ids)
	return runCPSAT(idx, tasks, hourTargets, params)
}

func runCPSAT(idx *Index, tasks []model.Task, hourTargets map[int]int, params CPSATParams) (CPSATResult, error) {
	builder := cpmodel.NewCpModelBuilder()

	if len(tasks) == 0 {
		return CPSATResult{Status: StatusOptimal}, nil
	}

	xVars := make(map[slotVar]cpmodel.BoolVar)
	dayVars := make(map[dayKey]cpmodel.BoolVar)
	resourceGroups := make(map[resourceHour][]cpmodel.BoolVar)
	// objective starts with each x weighted by its rank in C(t), so earlier
	// hours are cheaper; the day terms are added below with a larger weight.
	objective := cpmodel.NewLinearExpr()

	for _, task := range tasks {
		cands := idx.Candidates(task.ID)
		if len(cands) == 0 {
			continue
		}
		hourExpr := cpmodel.NewLinearExpr()
		resourceID := idx.ResourceOf(task.ID)
		for i, c := range cands {
			x := builder.NewBoolVar(fmt.Sprintf("x_%d_%s_%d", task.ID, c.Date, c.Hour))
			xVars[slotVar{task.ID, c.Date, c.Hour}] = x
			hourExpr.AddTerm(x, 1)
			objective.AddTerm(x, int64(i))

			dk := dayKey{task.ID, c.Date}
			day, ok := dayVars[dk]
			if !ok {
				day = builder.NewBoolVar(fmt.Sprintf("day_%d_%s", task.ID, c.Date))
				dayVars[dk] = day
			}
			// x[t,date,hour] <= day[t,date]: using the hour implies the day.
			builder.AddImplication(x, day)

			rh := resourceHour{ResourceID: resourceID, Date: c.Date, Hour: c.Hour}
			resourceGroups[rh] = append(resourceGroups[rh], x)
		}
		target := int64(hourTargets[task.ID])
		builder.AddLinearConstraint(hourExpr, cpmodel.NewDomain(target, target))
	}

	for _, group := range resourceGroups {
		if len(group) > 1 {
			builder.AddAtMostOne(group...)
		}
	}

	// dayWeight exceeds the largest possible sum of ranks (a task with k
	// target hours and n candidates contributes less than k*n), so the day
	// count is minimized first and ranks only break ties between solutions.
	dayWeight := int64(1)
	for _, task := range tasks {
		dayWeight += int64(len(idx.Candidates(task.ID))) * int64(hourTargets[task.ID])
	}
	for _, d := range dayVars {
		objective.AddTerm(d, dayWeight)
	}
	builder.Minimize(objective)

	cpModel, err := builder.Model()
	if err != nil {
		return CPSATResult{Status: StatusModelInvalid}, fmt.Errorf("cpsat: build model: %w", err)
	}

	satParams := cpmodel.NewSatParameters(fmt.Sprintf(
		"max_time_in_seconds:%f num_search_workers:%d log_search_progress:%t random_seed:%d",
		params.TimeLimitSeconds, params.Workers, params.LogProgress, params.RandomSeed,
	))

	start := time.Now()
	response, err := cpmodel.SolveCpModelWithParameters(cpModel, satParams)
	elapsed := time.Since(start)
	if err != nil {
		return CPSATResult{Status: StatusModelInvalid, SolveTime: elapsed}, fmt.Errorf("cpsat: solve: %w", err)
	}

	result := CPSATResult{
		Status:    mapStatus(response.GetStatus()),
		SolveTime: elapsed,
		Branches:  response.GetNumBranches(),
		Conflicts: response.GetNumConflicts(),
	}
	if result.Status == StatusOptimal || result.Status == StatusFeasible {
		obj := int64(response.GetObjectiveValue()) / dayWeight // task-days used
		result.ObjectiveValue = &obj
		for key, x := range xVars {
			if cpmodel.SolutionBooleanValue(response, x) {
				result.Assignments = append(result.Assignments, model.Assignment{
					TaskID: key.taskID,
					Date:   key.date,
					Hour:   key.hour,
				})
			}
		}
		sort.Slice(result.Assignments, func(i, j int) bool {
			return result.Assignments[i].Less(result.Assignments[j])
		})
	}
	return result, nil
}

func selectTasks(idx *Index, taskIDs []int) []model.Task {
	if taskIDs == nil {
		return idx.Tasks()
	}
	out := make([]model.Task, 0, len(taskIDs))
	for _, id := range taskIDs {
		if t, ok := idx.Task(id); ok && len(idx.Candidates(id)) > 0 {
			out = append(out, t)
		}
	}
	return out
}

func mapStatus(s cmpb.CpSolverStatus) Status {
	switch s {
	case cmpb.CpSolverStatus_OPTIMAL:
		return StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		return StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		return StatusInfeasible
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return StatusModelInvalid
	default:
		return StatusUnknown
	}
}
