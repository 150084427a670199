package app

import (
	"context"
	"path/filepath"
	"testing"

	"hybridsched/config"
	"hybridsched/core/model"
	"hybridsched/core/runlog"
	"hybridsched/core/schedule"
)

func writeTestConfig(t *testing.T, runlogPath string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Engine.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.Runlog.Backend = "jsonl"
	cfg.Runlog.Path = runlogPath
	cfg.Metrics.Kind = "nop"
	return cfg
}

func TestService_PlanRecordsRunlog(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestConfig(t, filepath.Join(dir, "runs.jsonl"))

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = svc.Close() }()

	req := schedule.PlanRequest{
		Tasks: []model.Task{{ID: 1, ResourceID: 1, RemainingHours: 2, PriorityScore: 50}},
		CalendarSlots: []model.CalendarSlot{
			{TaskID: 1, DayOfWeek: 0, HourFrom: 9, HourTo: 17},
		},
		StartDate: model.NewDate(2026, 1, 5),
	}

	result, err := svc.Plan(context.Background(), req)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if result.RunID == "" {
		t.Fatalf("expected a non-empty run id")
	}
	if result.Stats.TasksTotal != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	recs, err := svc.runlog.Query(context.Background(), runlog.Query{})
	if err != nil || len(recs) != 1 || recs[0].Result.RunID != result.RunID {
		t.Fatalf("expected one run-log record for run %s, got %+v (err %v)", result.RunID, recs, err)
	}
}

func TestService_PlanRejectsInvalidInput(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTestConfig(t, filepath.Join(dir, "runs.jsonl"))

	svc, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = svc.Close() }()

	req := schedule.PlanRequest{
		Tasks: []model.Task{{ID: 1, ResourceID: 1, RemainingHours: -1}},
	}
	if _, err := svc.Plan(context.Background(), req); err == nil {
		t.Fatalf("expected an error for negative remaining_hours")
	}
}
