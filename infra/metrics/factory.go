package metrics

import (
	"fmt"

	coremetrics "hybridsched/core/metrics"
)

// SinkConfig selects and configures one metrics backend (SPEC_FULL §4.7,
// part of the koanf-driven Config tree).
type SinkConfig struct {
	Kind string `json:"kind"` // "nop", "prometheus", "influx", or "multi"

	InfluxURL    string `json:"influx_url"`
	InfluxToken  string `json:"influx_token"`
	InfluxOrg    string `json:"influx_org"`
	InfluxBucket string `json:"influx_bucket"`
}

// NewSink builds a MetricsSink from a SinkConfig. "multi" fans out to both
// Prometheus and, if configured, InfluxDB.
func NewSink(cfg SinkConfig) (coremetrics.MetricsSink, error) {
	switch cfg.Kind {
	case "", "nop":
		return coremetrics.NopSink{}, nil
	case "prometheus":
		return NewPromSink()
	case "influx":
		return NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket), nil
	case "multi":
		prom, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		influx := NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
		return NewMultiSink(prom, influx), nil
	default:
		return nil, fmt.Errorf("metrics: unknown sink kind %q", cfg.Kind)
	}
}
