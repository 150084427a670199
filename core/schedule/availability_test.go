package schedule

import (
	"testing"

	"hybridsched/core/model"
)

func mon(offset int) model.Date { return NewMonday().AddDays(offset) }

// NewMonday returns a fixed Monday used across scenario tests (S1-S6).
func NewMonday() model.Date { return model.NewDate(2026, 1, 5) }

func TestBuildIndex_SingleWindow(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50}}
	slots := []model.CalendarSlot{{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17}}
	idx := BuildIndex(tasks, slots, nil, mon(0), 28)

	cands := idx.Candidates(1)
	if len(cands) != 8*4 { // 8 hours/day * 4 Mondays in a 28-day horizon
		t.Fatalf("expected 32 candidates, got %d", len(cands))
	}
	if cands[0].Date != mon(0) || cands[0].Hour != 9 {
		t.Fatalf("expected first candidate Mon 9, got %+v", cands[0])
	}
	if len(idx.Infeasible) != 0 {
		t.Fatalf("expected no infeasible tasks, got %v", idx.Infeasible)
	}
}

func TestBuildIndex_LeaveExclusion(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50}}
	slots := []model.CalendarSlot{
		{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17},
		{TaskID: 1, DayOfWeek: 1, HourFrom: 9, HourTo: 17},
	}
	leaves := []model.Leave{{TaskID: 1, DateFrom: mon(0), DateTo: mon(0)}}
	idx := BuildIndex(tasks, slots, leaves, mon(0), 28)

	cands := idx.Candidates(1)
	if cands[0].Date != mon(1) {
		t.Fatalf("expected first candidate on Tuesday, got %s", cands[0].Date)
	}
}

func TestBuildIndex_StructuralInfeasibility(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50}}
	idx := BuildIndex(tasks, nil, nil, mon(0), 28)

	if len(idx.Infeasible) != 1 || idx.Infeasible[0] != 1 {
		t.Fatalf("expected task 1 to be structurally infeasible, got %v", idx.Infeasible)
	}
	if len(idx.Tasks()) != 0 {
		t.Fatalf("expected no feasible tasks")
	}
}

func TestBuildIndex_ZeroHoursDropped(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 0, PriorityScore: 50}}
	slots := []model.CalendarSlot{{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17}}
	idx := BuildIndex(tasks, slots, nil, mon(0), 28)

	if _, ok := idx.Task(1); ok {
		t.Fatalf("expected zero-hour task to be dropped before scheduling")
	}
}

func TestBuildIndex_DedupesOverlappingWindows(t *testing.T) {
	tasks := []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 1, PriorityScore: 50}}
	slots := []model.CalendarSlot{
		{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 12},
		{TaskID: 1, DayOfWeek: 0, HourFrom: 10, HourTo: 14},
	}
	idx := BuildIndex(tasks, slots, nil, mon(0), 7)
	cands := idx.Candidates(1)
	if len(cands) != 5 { // hours 9,10,11,12,13
		t.Fatalf("expected 5 deduped hours, got %d", len(cands))
	}
}
