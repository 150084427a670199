package metrics

import coremetrics "hybridsched/core/metrics"

// MultiSink fans run events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to every sink, returning the first error.
func (m *MultiSink) RecordRun(ev coremetrics.RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordHorizonExtension forwards the event to sinks that support it.
func (m *MultiSink) RecordHorizonExtension(ev coremetrics.HorizonExtensionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.HorizonExtensionRecorder); ok {
			if err := rec.RecordHorizonExtension(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
