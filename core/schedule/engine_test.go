package schedule

import (
	"errors"
	"testing"

	"hybridsched/core/model"
)

func TestEngine_S1_SingleTaskSingleWindow(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	req := PlanRequest{
		Tasks:         []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50}},
		CalendarSlots: []model.CalendarSlot{{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17}},
		StartDate:     mon(0),
	}
	out, err := engine.Plan(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != "OPTIMAL" {
		t.Fatalf("expected OPTIMAL, got %s", out.Status)
	}
	if out.HorizonDays != 28 {
		t.Fatalf("expected horizon_days 28, got %d", out.HorizonDays)
	}
	got := out.Tasks["1"]
	want := []TaskSlot{{Date: mon(0).String(), Hour: 9}, {Date: mon(0).String(), Hour: 10}, {Date: mon(0).String(), Hour: 11}}
	if len(got) != len(want) {
		t.Fatalf("expected %d slots, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("slot %d: expected %+v, got %+v", i, w, got[i])
		}
	}
}

func TestEngine_S2_LeaveExclusion(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	req := PlanRequest{
		Tasks: []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50}},
		CalendarSlots: []model.CalendarSlot{
			{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17},
			{TaskID: 1, DayOfWeek: 1, HourFrom: 9, HourTo: 17},
		},
		Leaves:    []model.Leave{{TaskID: 1, DateFrom: mon(0), DateTo: mon(0)}},
		StartDate: mon(0),
	}
	out, err := engine.Plan(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := out.Tasks["1"]
	if len(got) == 0 || got[0].Date != mon(1).String() {
		t.Fatalf("expected the first scheduled hour to fall on Tuesday, got %+v", got)
	}
}

func TestEngine_S4_HorizonExtension(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	req := PlanRequest{
		Tasks:         []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 40, PriorityScore: 50}},
		CalendarSlots: []model.CalendarSlot{{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17}},
		StartDate:     mon(0),
	}
	out, err := engine.Plan(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.HorizonDays < 35 {
		t.Fatalf("expected the horizon to extend beyond 28 days, got %d", out.HorizonDays)
	}
	if len(out.Tasks["1"]) != 40 {
		t.Fatalf("expected all 40 hours assigned, got %d", len(out.Tasks["1"]))
	}
}

func TestEngine_S5_StructuralInfeasibilityIsPartial(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	req := PlanRequest{
		Tasks: []model.Task{
			{ID: 1, ResourceID: 1, RemainingHours: 3, PriorityScore: 50},
			{ID: 2, ResourceID: 2, RemainingHours: 2, PriorityScore: 50},
		},
		CalendarSlots: []model.CalendarSlot{
			{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17},
			// task 2 has no calendar slot at all.
		},
		StartDate: mon(0),
	}
	out, err := engine.Plan(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != "PARTIAL" {
		t.Fatalf("expected PARTIAL, got %s", out.Status)
	}
	if _, ok := out.Tasks["2"]; ok {
		t.Fatalf("the structurally infeasible task must be absent from the output")
	}
	if len(out.Tasks["1"]) != 3 {
		t.Fatalf("expected the solvable task to be fully scheduled, got %+v", out.Tasks["1"])
	}
}

func TestEngine_InvalidInputRejected(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	req := PlanRequest{
		Tasks:     []model.Task{{ID: 1, ResourceID: 1, RemainingHours: -1, PriorityScore: 50}},
		StartDate: mon(0),
	}
	_, err := engine.Plan(req)
	var invalidErr *InvalidInputError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected *InvalidInputError, got %v (%T)", err, err)
	}
}
