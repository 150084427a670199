package schedule

import (
	"sort"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"hybridsched/core/model"
)

// TaskSlot is one scheduled hour in the output document (§6).
type TaskSlot struct {
	Date string `json:"date"`
	Hour int    `json:"hour"`
}

// RunStats carries the diagnostic statistics folded into the output
// alongside the spec's required fields (SPEC_FULL §4.9): counts and a
// completion-rate summary useful to callers deciding whether to re-plan.
type RunStats struct {
	TasksScheduled       int     `json:"tasks_scheduled"`
	TasksTotal           int     `json:"tasks_total"`
	SuccessRate          float64 `json:"success_rate"`
	AvailableBlocksCount int     `json:"available_blocks_count"`
	MeanHoursPerTask     float64 `json:"mean_hours_per_task"`
	StdDevHoursPerTask   float64 `json:"stddev_hours_per_task"`
}

// PlanResult is the invocation output document of §6, plus a RunID (SPEC_FULL
// §4.8) stamped by the Engine for correlation across logs and metrics.
type PlanResult struct {
	RunID          string                `json:"run_id"`
	Tasks          map[string][]TaskSlot `json:"tasks"`
	ObjectiveValue *int64                `json:"objective_value"`
	Status         string                `json:"status"`
	SolveTime      float64               `json:"solve_time"`
	HorizonDays    int                   `json:"horizon_days"`
	AlgorithmUsed  string                `json:"algorithm_used"`
	Stats          RunStats              `json:"stats"`
}

// Assemble implements §4.6: it merges the hybrid orchestrator's assignments
// into the canonical per-task output table, sorted (date asc, hour asc) per
// task, and computes the run's summary statistics.
func Assemble(idx *Index, allTasks []model.Task, result HybridResult) PlanResult {
	perTask := make(map[int][]model.Assignment)
	for _, a := range result.Assignments {
		perTask[a.TaskID] = append(perTask[a.TaskID], a)
	}

	tasksOut := make(map[string][]TaskSlot, len(perTask))
	hoursByTask := make([]float64, 0, len(perTask))
	scheduledCount := 0
	for taskID, assignments := range perTask {
		sort.Slice(assignments, func(i, j int) bool { return assignments[i].Less(assignments[j]) })
		slots := make([]TaskSlot, len(assignments))
		for i, a := range assignments {
			slots[i] = TaskSlot{Date: a.Date.String(), Hour: a.Hour}
		}
		tasksOut[strconv.Itoa(taskID)] = slots
		hoursByTask = append(hoursByTask, float64(len(assignments)))
		scheduledCount++
	}

	var mean, stddev float64
	switch {
	case len(hoursByTask) == 1:
		// The sample standard deviation of one value is NaN, which
		// encoding/json cannot encode; it is reported as 0.
		mean = hoursByTask[0]
	case len(hoursByTask) > 1:
		mean, stddev = stat.MeanStdDev(hoursByTask, nil)
	}

	availableBlocks := 0
	for _, t := range allTasks {
		availableBlocks += len(idx.Candidates(t.ID))
	}

	successRate := 0.0
	if len(allTasks) > 0 {
		complete := 0
		for _, t := range allTasks {
			if len(perTask[t.ID]) >= t.RemainingHours {
				complete++
			}
		}
		successRate = float64(complete) / float64(len(allTasks))
	}

	return PlanResult{
		Tasks:          tasksOut,
		ObjectiveValue: result.ObjectiveValue,
		Status:         string(result.Status),
		SolveTime:      result.SolveTimeSeconds,
		HorizonDays:    result.HorizonDays,
		AlgorithmUsed:  string(result.Algorithm),
		Stats: RunStats{
			TasksScheduled:       scheduledCount,
			TasksTotal:           len(allTasks),
			SuccessRate:          successRate,
			AvailableBlocksCount: availableBlocks,
			MeanHoursPerTask:     mean,
			StdDevHoursPerTask:   stddev,
		},
	}
}
