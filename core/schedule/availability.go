package schedule

import (
	"sort"

	"hybridsched/core/model"
)

// resourceHour identifies one hour of one resource's day, the unit of
// mutual exclusion enforced by both schedulers.
type resourceHour struct {
	ResourceID int
	Date       model.Date
	Hour       int
}

// Index is the domain model & availability index of §4.1: for every task, an
// ordered list of candidate slot units, plus a reverse index from resource
// hour to the tasks competing for it.
type Index struct {
	StartDate   model.Date
	HorizonDays int

	tasks      map[int]model.Task
	resourceOf map[int]int
	candidates map[int][]model.SlotUnit
	reverse    map[resourceHour][]int

	// Infeasible lists, in ascending task-id order, the tasks whose
	// candidate list came out empty at this horizon.
	Infeasible []int
}

// ResourceOf returns the resource owning task t.
func (idx *Index) ResourceOf(taskID int) int { return idx.resourceOf[taskID] }

// Candidates returns C(t), the candidate slot units for task t, sorted by
// (date, hour) ascending.
func (idx *Index) Candidates(taskID int) []model.SlotUnit { return idx.candidates[taskID] }

// Competitors returns the tasks competing for the given resource hour.
func (idx *Index) Competitors(resourceID int, date model.Date, hour int) []int {
	return idx.reverse[resourceHour{ResourceID: resourceID, Date: date, Hour: hour}]
}

// Tasks returns the structurally feasible tasks known to the index, i.e.
// those with a non-empty candidate list, in ascending id order.
func (idx *Index) Tasks() []model.Task {
	out := make([]model.Task, 0, len(idx.tasks))
	for id, t := range idx.tasks {
		if len(idx.candidates[id]) > 0 {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllTasks returns every requested task with remaining_hours > 0, feasible
// or not, in ascending id order. Status and RunStats computation (§6, §7)
// must use this instead of Tasks so a structurally infeasible task still
// counts against completeness rather than silently vanishing from the run.
func (idx *Index) AllTasks() []model.Task {
	out := make([]model.Task, 0, len(idx.tasks))
	for _, t := range idx.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Task looks up a task by id.
func (idx *Index) Task(id int) (model.Task, bool) {
	t, ok := idx.tasks[id]
	return t, ok
}

// BuildIndex implements §4.1: for each task, walk the horizon day by day,
// skip dates covered by a leave, and emit every hour of every calendar slot
// matching that day's weekday. Tasks with remaining_hours = 0 are dropped
// before scheduling per §3; tasks whose candidate list comes out empty are
// recorded as structurally infeasible but do not abort the build.
func BuildIndex(tasks []model.Task, slots []model.CalendarSlot, leaves []model.Leave, start model.Date, horizonDays int) *Index {
	idx := &Index{
		StartDate:   start,
		HorizonDays: horizonDays,
		tasks:       make(map[int]model.Task),
		resourceOf:  make(map[int]int),
		candidates:  make(map[int][]model.SlotUnit),
		reverse:     make(map[resourceHour][]int),
	}

	slotsByTask := make(map[int][]model.CalendarSlot)
	for _, s := range slots {
		slotsByTask[s.TaskID] = append(slotsByTask[s.TaskID], s)
	}
	leavesByTask := make(map[int][]model.Leave)
	for _, l := range leaves {
		leavesByTask[l.TaskID] = append(leavesByTask[l.TaskID], l)
	}

	for _, task := range tasks {
		if task.RemainingHours == 0 {
			continue
		}
		idx.tasks[task.ID] = task
		idx.resourceOf[task.ID] = task.ResourceID

		taskSlots := slotsByTask[task.ID]
		taskLeaves := leavesByTask[task.ID]

		var units []model.SlotUnit
		seen := make(map[int]bool) // dedupe hours emitted per day
		for i := 0; i < horizonDays; i++ {
			date := start.AddDays(i)
			if onLeave(taskLeaves, date) {
				continue
			}
			wd := date.Weekday()
			for k := range seen {
				delete(seen, k)
			}
			for _, cs := range taskSlots {
				if cs.DayOfWeek != wd {
					continue
				}
				for h := cs.HourFrom; h < cs.HourTo; h++ {
					if seen[h] {
						continue
					}
					seen[h] = true
					units = append(units, model.SlotUnit{TaskID: task.ID, Date: date, Hour: h})
				}
			}
		}
		sort.Slice(units, func(i, j int) bool {
			if !units[i].Date.Equal(units[j].Date) {
				return units[i].Date.Before(units[j].Date)
			}
			return units[i].Hour < units[j].Hour
		})
		idx.candidates[task.ID] = units

		if len(units) == 0 {
			idx.Infeasible = append(idx.Infeasible, task.ID)
			continue
		}

		for _, u := range units {
			key := resourceHour{ResourceID: task.ResourceID, Date: u.Date, Hour: u.Hour}
			idx.reverse[key] = append(idx.reverse[key], task.ID)
		}
	}

	sort.Ints(idx.Infeasible)
	return idx
}

func onLeave(leaves []model.Leave, date model.Date) bool {
	for _, l := range leaves {
		if l.Covers(date) {
			return true
		}
	}
	return false
}
