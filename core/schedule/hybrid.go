package schedule

import (
	"math"

	"hybridsched/core/model"
)

// Algorithm identifies which scheduling path produced a result (§4.4, §6).
type Algorithm string

const (
	AlgorithmGreedy              Algorithm = "greedy"
	AlgorithmOrtools             Algorithm = "ortools"
	AlgorithmHybridGreedyOrtools Algorithm = "hybrid_greedy_ortools"
	AlgorithmOrtoolsFallback     Algorithm = "ortools_fallback"
)

// RoutingThresholds are the four greedy-routing knobs of §4.4 (env names in
// §6: GREEDY_THRESHOLD_TASKS/HOURS/USERS/AVG_HOURS).
type RoutingThresholds struct {
	MaxTasks     int
	MaxHours     int
	MaxResources int
	MaxAvgHours  float64
}

// DefaultRoutingThresholds mirrors the spec's documented defaults.
func DefaultRoutingThresholds() RoutingThresholds {
	return RoutingThresholds{MaxTasks: 50, MaxHours: 1000, MaxResources: 10, MaxAvgHours: 100}
}

// HybridParams bundles everything the orchestrator needs besides the domain
// model itself.
type HybridParams struct {
	Thresholds        RoutingThresholds
	HybridMode        bool
	ResidualMaxTasks  int // §4.4 step 2: "|residual| <= 20"
	FallbackTimeLimit float64
	Solver            CPSATParams
	Horizon           HorizonParams
	Events            *Events
}

// DefaultHybridParams mirrors the spec's documented defaults.
func DefaultHybridParams() HybridParams {
	return HybridParams{
		Thresholds:        DefaultRoutingThresholds(),
		HybridMode:        true,
		ResidualMaxTasks:  20,
		FallbackTimeLimit: 10,
		Solver:            DefaultCPSATParams(),
		Horizon:           DefaultHorizonParams(),
	}
}

// ShouldUseGreedy implements the §4.4 routing rule: N=|tasks|, H=sum hours,
// U=distinct resources, A=H/max(N,1). Greedy is selected when ANY threshold
// is met; CP-SAT otherwise.
func ShouldUseGreedy(tasks []model.Task, thresholds RoutingThresholds) bool {
	n := len(tasks)
	if n == 0 {
		return false
	}
	h := 0
	resources := make(map[int]bool)
	for _, t := range tasks {
		h += t.RemainingHours
		resources[t.ResourceID] = true
	}
	u := len(resources)
	a := float64(h) / float64(n)

	return n > thresholds.MaxTasks ||
		h > thresholds.MaxHours ||
		u > thresholds.MaxResources ||
		a > thresholds.MaxAvgHours
}

// HybridResult is the unified outcome of the orchestrator, regardless of
// which path was taken.
type HybridResult struct {
	Assignments      []model.Assignment
	Status           Status
	ObjectiveValue   *int64
	HorizonDays      int
	Algorithm        Algorithm
	SolveTimeSeconds float64
	Branches         int64
	Conflicts        int64
}

// Run implements §4.4 end-to-end: it classifies the workload, routes to
// greedy or CP-SAT, optionally repairs the greedy residual with a restricted
// CP-SAT pass, and falls back to full horizon-controlled CP-SAT if greedy
// produced nothing at all.
//
// build rebuilds the candidate index at a given horizon, matching the
// contract RunWithHorizon expects; it is also used once up front at
// params.Horizon.InitialHorizonDays to classify the workload and to run
// greedy.
func Run(build func(horizonDays int) *Index, params HybridParams) (HybridResult, error) {
	params.Horizon.Events = params.Events
	idx := build(params.Horizon.InitialHorizonDays)
	tasks := idx.Tasks()
	allTasks := idx.AllTasks()

	useGreedy := params.HybridMode && ShouldUseGreedy(tasks, params.Thresholds)
	if !useGreedy {
		return runFullCPSAT(build, nil, params, AlgorithmOrtools)
	}

	greedyRes := RunGreedy(idx)
	params.Events.publishGreedyResidual(GreedyResidual{Residual: greedyRes.Residual})
	if len(greedyRes.Assignments) == 0 && len(tasks) > 0 {
		// Greedy found nothing at all: fall back to full CP-SAT.
		return runFullCPSAT(build, nil, params, AlgorithmOrtoolsFallback)
	}

	if len(greedyRes.Residual) == 0 {
		return HybridResult{
			Assignments: greedyRes.Assignments,
			Status:      mergedStatus(greedyRes.Assignments, allTasks),
			HorizonDays: params.Horizon.InitialHorizonDays,
			Algorithm:   AlgorithmGreedy,
		}, nil
	}

	if len(greedyRes.Residual) > params.ResidualMaxTasks {
		return HybridResult{
			Assignments: greedyRes.Assignments,
			Status:      mergedStatus(greedyRes.Assignments, allTasks),
			HorizonDays: params.Horizon.InitialHorizonDays,
			Algorithm:   AlgorithmGreedy,
		}, nil
	}

	residualParams := params.Solver
	residualParams.TimeLimitSeconds = params.FallbackTimeLimit
	residualRes, residualHorizon, err := runResidualRepair(build, idx, greedyRes, residualParams, params.Horizon)
	if err != nil {
		return HybridResult{}, err
	}

	merged := append(append([]model.Assignment(nil), greedyRes.Assignments...), residualRes.Assignments...)
	return HybridResult{
		Assignments:      merged,
		Status:           mergedStatus(merged, allTasks),
		HorizonDays:      residualHorizon,
		Algorithm:        AlgorithmHybridGreedyOrtools,
		SolveTimeSeconds: residualRes.SolveTime.Seconds(),
		Branches:         residualRes.Branches,
		Conflicts:        residualRes.Conflicts,
	}, nil
}

func runFullCPSAT(build func(int) *Index, taskIDs []int, params HybridParams, algo Algorithm) (HybridResult, error) {
	hres, err := RunWithHorizon(build, taskIDs, params.Solver, params.Horizon)
	if err != nil {
		return HybridResult{}, err
	}
	idx := build(hres.HorizonDays)
	return HybridResult{
		Assignments:      hres.Assignments,
		Status:           resolveCPSATStatus(hres.Status, hres.Assignments, idx.AllTasks()),
		ObjectiveValue:   hres.ObjectiveValue,
		HorizonDays:      hres.HorizonDays,
		Algorithm:        algo,
		SolveTimeSeconds: hres.SolveTime.Seconds(),
		Branches:         hres.Branches,
		Conflicts:        hres.Conflicts,
	}, nil
}

// runResidualRepair implements the repair half of §4.4 step 2: a residual
// task has, by construction, exhausted every candidate slot unit it had at
// the horizon greedy ran at, so handing CP-SAT the same horizon can never
// produce a new assignment for it. Instead this grows the horizon — the
// same escalation RunWithHorizon uses for the full solve — until CP-SAT can
// place each residual task's outstanding hours, excluding only the
// resource-hours greedy already consumed. Each residual task is constrained
// to its HoursNeeded, not its full RemainingHours, so the merge with
// greedy's assignments cannot exceed remaining_hours (§8 property 3).
//
// If the horizon cap is exceeded before a repair is found, the pass returns
// the last attempt's result rather than failing the run: any residual task
// that attempt placed keeps its hours, greedy's partial result still
// stands, and the caller's status computation reports PARTIAL for it.
func runResidualRepair(
	build func(horizonDays int) *Index,
	initialIdx *Index,
	greedyRes GreedyResult,
	solverParams CPSATParams,
	horizonParams HorizonParams,
) (CPSATResult, int, error) {
	hourTargets := make(map[int]int, len(greedyRes.Residual))
	for _, r := range greedyRes.Residual {
		hourTargets[r.TaskID] = r.HoursNeeded
	}

	h := horizonParams.InitialHorizonDays
	idx := initialIdx
	for {
		filtered := residualIndexExcluding(idx, greedyRes.Assignments)
		res, err := RunCPSATForHours(filtered, hourTargets, solverParams)
		if err != nil {
			return CPSATResult{}, h, err
		}
		horizonParams.Events.publishSolverStatus(SolverStatus{
			Status:      res.Status,
			HorizonDays: h,
			SolveTimeMS: res.SolveTime.Milliseconds(),
		})
		// A residual task with no candidate left at h still reports
		// StatusOptimal on an empty model (§4.3's vacuous case), so
		// completion is judged by hours actually achieved, not by status.
		if residualSatisfied(res.Assignments, hourTargets) {
			return res, h, nil
		}

		next := int(math.Ceil(float64(h) * horizonParams.ExtensionFactor))
		if next <= h {
			next = h + 1
		}
		if next > horizonParams.MaxHorizonDays {
			return res, h, nil
		}
		horizonParams.Events.publishHorizonExtended(HorizonExtended{FromDays: h, ToDays: next})
		h = next
		idx = build(h)
	}
}

func residualSatisfied(assignments []model.Assignment, hourTargets map[int]int) bool {
	achieved := make(map[int]int, len(hourTargets))
	for _, a := range assignments {
		achieved[a.TaskID]++
	}
	for id, target := range hourTargets {
		if achieved[id] < target {
			return false
		}
	}
	return true
}

// residualIndexExcluding builds a view of idx whose reverse index no longer
// offers resource-hours already consumed by greedy, so the restricted
// CP-SAT pass cannot double-book them.
func residualIndexExcluding(idx *Index, taken []model.Assignment) *Index {
	occupied := make(map[resourceHour]bool, len(taken))
	for _, a := range taken {
		occupied[resourceHour{ResourceID: idx.ResourceOf(a.TaskID), Date: a.Date, Hour: a.Hour}] = true
	}

	filtered := &Index{
		StartDate:   idx.StartDate,
		HorizonDays: idx.HorizonDays,
		tasks:       idx.tasks,
		resourceOf:  idx.resourceOf,
		candidates:  make(map[int][]model.SlotUnit, len(idx.candidates)),
		reverse:     make(map[resourceHour][]int, len(idx.reverse)),
		Infeasible:  idx.Infeasible,
	}
	for taskID, units := range idx.candidates {
		resourceID := idx.resourceOf[taskID]
		var kept []model.SlotUnit
		for _, u := range units {
			if occupied[resourceHour{ResourceID: resourceID, Date: u.Date, Hour: u.Hour}] {
				continue
			}
			kept = append(kept, u)
		}
		filtered.candidates[taskID] = kept
	}
	for key, taskIDs := range idx.reverse {
		if occupied[key] {
			continue
		}
		filtered.reverse[key] = taskIDs
	}
	return filtered
}

// mergedStatus implements §6's status taxonomy over the full requested task
// set (structurally infeasible tasks included, per §7): OPTIMAL when every
// task reached remaining_hours, INFEASIBLE when none did, PARTIAL
// otherwise.
func mergedStatus(assignments []model.Assignment, tasks []model.Task) Status {
	scheduled := make(map[int]int)
	for _, a := range assignments {
		scheduled[a.TaskID]++
	}
	complete, any := 0, 0
	for _, t := range tasks {
		any++
		if scheduled[t.ID] >= t.RemainingHours {
			complete++
		}
	}
	switch {
	case any == 0:
		return StatusOptimal
	case complete == any:
		return StatusOptimal
	case complete == 0:
		return StatusInfeasible
	default:
		return StatusPartial
	}
}

func resolveCPSATStatus(solverStatus Status, assignments []model.Assignment, tasks []model.Task) Status {
	if solverStatus != StatusOptimal && solverStatus != StatusFeasible {
		return solverStatus
	}
	return mergedStatus(assignments, tasks)
}
