package schedule

import (
	"sort"

	"hybridsched/core/model"
)

// ResidualTask records a task that the greedy scheduler could not complete.
type ResidualTask struct {
	TaskID      int
	HoursNeeded int
}

// GreedyResult is the outcome of one greedy pass: a partial assignment set
// plus the tasks (and remaining hour counts) left over.
type GreedyResult struct {
	Assignments []model.Assignment
	Residual    []ResidualTask
}

// RunGreedy implements the greedy constructive scheduler of §4.2: tasks are
// sorted by descending priority (ties broken by ascending task id), and each
// task consumes candidate slot units in chronological order, skipping hours
// already taken by a higher-priority task on the same resource. This
// guarantees priority monotonicity (§8 property 5): a higher-priority task
// never yields its preferred slot to a lower-priority one, because it always
// runs first.
func RunGreedy(idx *Index) GreedyResult {
	tasks := idx.Tasks()
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].PriorityScore != tasks[j].PriorityScore {
			return tasks[i].PriorityScore > tasks[j].PriorityScore
		}
		return tasks[i].ID < tasks[j].ID
	})

	occupied := make(map[resourceHour]bool)
	var result GreedyResult

	for _, task := range tasks {
		remaining := task.RemainingHours
		resourceID := idx.ResourceOf(task.ID)
		for _, cand := range idx.Candidates(task.ID) {
			if remaining == 0 {
				break
			}
			key := resourceHour{ResourceID: resourceID, Date: cand.Date, Hour: cand.Hour}
			if occupied[key] {
				continue
			}
			occupied[key] = true
			result.Assignments = append(result.Assignments, model.Assignment{
				TaskID: task.ID,
				Date:   cand.Date,
				Hour:   cand.Hour,
			})
			remaining--
		}
		if remaining > 0 {
			result.Residual = append(result.Residual, ResidualTask{TaskID: task.ID, HoursNeeded: remaining})
		}
	}
	return result
}
