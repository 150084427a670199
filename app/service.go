// Package app wires configuration, the scheduling engine, metrics sinks and
// the run-audit log into a single Service, built in the order
// config.Load -> logger -> metrics sink -> run-audit log -> engine.
package app

import (
	"context"
	"fmt"
	"time"

	"hybridsched/config"
	"hybridsched/core/metrics"
	"hybridsched/core/runlog"
	"hybridsched/core/schedule"
	"hybridsched/infra/logger"
	inframetrics "hybridsched/infra/metrics"
)

// Service is the planning engine plus its ambient collaborators: a metrics
// sink and an optional run-audit-log store. Unlike a long-running dispatch
// loop, planning is request/response (§5), so Service exposes Plan directly
// rather than a blocking Run(ctx).
type Service struct {
	engine *schedule.Engine
	sink   metrics.MetricsSink
	runlog runlog.Store
	log    logger.Logger
}

// New builds a Service from a loaded Config.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("app")

	sink, err := inframetrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("app: build metrics sink: %w", err)
	}

	store, err := newRunlogStore(cfg.Runlog)
	if err != nil {
		return nil, fmt.Errorf("app: build runlog store: %w", err)
	}

	engine := schedule.NewEngine(cfg.Engine.ToEngineConfig())
	engine.Log = log

	return &Service{engine: engine, sink: sink, runlog: store, log: log}, nil
}

func newRunlogStore(cfg config.RunlogConfig) (runlog.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "jsonl":
		return runlog.NewJSONLStore(cfg.Path)
	case "sqlite":
		return runlog.NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("app: unknown runlog backend %q", cfg.Backend)
	}
}

// Plan runs one planning call end to end: invoke the engine, record metrics,
// and append a run-audit-log entry if a store is configured.
func (s *Service) Plan(ctx context.Context, req schedule.PlanRequest) (schedule.PlanResult, error) {
	result, planErr := s.engine.Plan(req)

	if planErr == nil {
		if err := s.sink.RecordRun(metrics.RunEvent{
			Stats:       result.Stats,
			Status:      result.Status,
			Algorithm:   result.AlgorithmUsed,
			HorizonDays: result.HorizonDays,
			SolveTime:   result.SolveTime,
		}); err != nil {
			s.log.Warnf("record run metrics: %v", err)
		}
	}

	if s.runlog != nil && planErr == nil {
		rec := runlog.Record{
			Timestamp: time.Now(),
			TaskCount: len(req.Tasks),
			StartDate: req.StartDate.String(),
			Result:    result,
		}
		if err := s.runlog.Append(ctx, rec); err != nil {
			s.log.Warnf("append run log: %v", err)
		}
	}

	return result, planErr
}

// Close releases the run-audit-log store, if one is configured.
func (s *Service) Close() error {
	if s.runlog == nil {
		return nil
	}
	return s.runlog.Close()
}
