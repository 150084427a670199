package schedule

import (
	"testing"

	"hybridsched/core/model"
)

func TestRunCPSAT_SingleTaskOptimal(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50}}
	slots := []model.CalendarSlot{{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17}}
	idx := BuildIndex(tasks, slots, nil, mon(0), 28)

	res, err := RunCPSAT(idx, nil, DefaultCPSATParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusOptimal {
		t.Fatalf("expected OPTIMAL, got %s", res.Status)
	}
	if len(res.Assignments) != 3 {
		t.Fatalf("expected 3 hours assigned, got %d", len(res.Assignments))
	}
	for _, a := range res.Assignments {
		if !a.Date.Equal(mon(0)) {
			t.Fatalf("expected the solver to concentrate hours on a single day, got %+v", a)
		}
	}
}

func TestRunCPSAT_ContentionSplitsAcrossResourceExclusivity(t *testing.T) {
	// S3-equivalent: two tasks share a resource and a daily hour window
	// smaller than their combined demand, over two Mondays. CP-SAT must not
	// double-book the resource, so one task spills to the second Monday.
	tasks := []model.Task{
		{ID: 1, ResourceID: 1, RemainingHours: 2, PriorityScore: 50},
		{ID: 2, ResourceID: 1, RemainingHours: 2, PriorityScore: 50},
	}
	slots := []model.CalendarSlot{
		{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 12},
		{TaskID: 2, DayOfWeek: 0, HourFrom: 9, HourTo: 12},
	}
	idx := BuildIndex(tasks, slots, nil, mon(0), 14)

	res, err := RunCPSAT(idx, nil, DefaultCPSATParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status.NoSolution() {
		t.Fatalf("expected a feasible packing, got %s", res.Status)
	}
	seen := make(map[resourceHour]int)
	for _, a := range res.Assignments {
		key := resourceHour{ResourceID: 1, Date: a.Date, Hour: a.Hour}
		seen[key]++
		if seen[key] > 1 {
			t.Fatalf("resource double-booked at %+v", key)
		}
	}
	if len(res.Assignments) != 4 {
		t.Fatalf("expected both tasks fully placed across the two Mondays, got %d assignments", len(res.Assignments))
	}
}

func TestRunCPSAT_StructurallyInfeasibleTaskExcluded(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 2, PriorityScore: 50}}
	idx := BuildIndex(tasks, nil, nil, mon(0), 7)

	res, err := RunCPSAT(idx, nil, DefaultCPSATParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != StatusOptimal || len(res.Assignments) != 0 {
		t.Fatalf("expected a trivially optimal empty solve once the infeasible task is excluded, got %+v", res)
	}
}

func TestRunCPSAT_RestrictedToTaskSubset(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, ResourceID: 1, RemainingHours: 1, PriorityScore: 50},
		{ID: 2, ResourceID: 2, RemainingHours: 1, PriorityScore: 50},
	}
	slots := []model.CalendarSlot{
		{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 10},
		{TaskID: 2, DayOfWeek: 0, HourFrom: 9, HourTo: 10},
	}
	idx := BuildIndex(tasks, slots, nil, mon(0), 7)

	res, err := RunCPSAT(idx, []int{2}, DefaultCPSATParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Assignments) != 1 || res.Assignments[0].TaskID != 2 {
		t.Fatalf("expected only task 2 to be solved, got %+v", res.Assignments)
	}
}
