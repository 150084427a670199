// Package runlog persists an audit trail of completed planning calls: one
// record per successful planning call, queryable by time range, status, or
// algorithm. This sits outside the engine itself — it is an optional
// collaborator a caller wires in, not a dependency of core/schedule.
package runlog

import (
	"context"
	"time"

	"hybridsched/core/schedule"
)

// Record captures one planning call: its request shape, the outcome, and
// when it ran.
type Record struct {
	Timestamp   time.Time             `json:"timestamp"`
	TaskCount   int                   `json:"task_count"`
	StartDate   string                `json:"start_date"`
	Result      schedule.PlanResult   `json:"result"`
}

// Query filters records by time range, status, or algorithm. Zero values
// are wildcards.
type Query struct {
	Start     time.Time
	End       time.Time
	Status    string
	Algorithm string
}

// Store persists Records and supports querying them back.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

func matches(r Record, q Query) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Result.Status != q.Status {
		return false
	}
	if q.Algorithm != "" && r.Result.AlgorithmUsed != q.Algorithm {
		return false
	}
	return true
}
