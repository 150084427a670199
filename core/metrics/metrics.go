// Package metrics defines the observability contract for the scheduling
// engine: a sink records each run's summary statistics and horizon-extension
// events. The core never depends on a concrete backend.
package metrics

import "hybridsched/core/schedule"

// RunEvent is recorded once per completed planning call.
type RunEvent struct {
	Stats         schedule.RunStats
	Status        string
	Algorithm     string
	HorizonDays   int
	SolveTime     float64
}

// HorizonExtensionEvent is recorded each time the horizon controller grows
// the planning window.
type HorizonExtensionEvent struct {
	FromDays int
	ToDays   int
}

// MetricsSink records engine observability events.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// HorizonExtensionRecorder is implemented by sinks that also want visibility
// into the horizon controller's growth loop.
type HorizonExtensionRecorder interface {
	RecordHorizonExtension(ev HorizonExtensionEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error                            { return nil }
func (NopSink) RecordHorizonExtension(HorizonExtensionEvent) error  { return nil }
