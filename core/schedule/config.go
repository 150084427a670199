package schedule

// EngineConfig aggregates every tunable of the scheduling engine (§6
// "Configuration surface"). It is constructed once per process by the
// config package and passed in verbatim; the engine never reads environment
// variables itself.
type EngineConfig struct {
	InitialHorizonDays     int
	HorizonExtensionFactor float64
	MaxHorizonDays         int

	OrtoolsTimeLimitSeconds float64
	OrtoolsWorkers          int32
	OrtoolsLogProgress      bool
	OrtoolsFallbackTimeout  float64

	HybridMode              bool
	GreedyThresholdTasks    int
	GreedyThresholdHours    int
	GreedyThresholdUsers    int
	GreedyThresholdAvgHours float64

	ResidualMaxTasks int
}

// DefaultEngineConfig mirrors every default named in §6.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		InitialHorizonDays:      28,
		HorizonExtensionFactor:  1.25,
		MaxHorizonDays:          1825,
		OrtoolsTimeLimitSeconds: 30,
		OrtoolsWorkers:          4,
		OrtoolsFallbackTimeout:  10,
		HybridMode:              true,
		GreedyThresholdTasks:    50,
		GreedyThresholdHours:    1000,
		GreedyThresholdUsers:    10,
		GreedyThresholdAvgHours: 100,
		ResidualMaxTasks:        20,
	}
}

// Validate enforces the invariants a malformed config could otherwise break
// silently (§7 "invalid input" extends to configuration, not only data).
func (c EngineConfig) Validate() error {
	if c.InitialHorizonDays <= 0 {
		return &InvalidInputError{Field: "initial_horizon_days", Reason: "must be positive"}
	}
	if c.HorizonExtensionFactor <= 1.0 {
		return &InvalidInputError{Field: "horizon_extension_factor", Reason: "must be greater than 1.0"}
	}
	if c.MaxHorizonDays < c.InitialHorizonDays {
		return &InvalidInputError{Field: "max_horizon_days", Reason: "must be >= initial_horizon_days"}
	}
	if c.OrtoolsTimeLimitSeconds <= 0 {
		return &InvalidInputError{Field: "ortools_time_limit_seconds", Reason: "must be positive"}
	}
	if c.OrtoolsWorkers <= 0 {
		return &InvalidInputError{Field: "ortools_workers", Reason: "must be positive"}
	}
	return nil
}

// HorizonParams projects the horizon-related fields of EngineConfig.
func (c EngineConfig) HorizonParams() HorizonParams {
	return HorizonParams{
		InitialHorizonDays: c.InitialHorizonDays,
		ExtensionFactor:    c.HorizonExtensionFactor,
		MaxHorizonDays:     c.MaxHorizonDays,
	}
}

// CPSATParams projects the solver-related fields of EngineConfig.
func (c EngineConfig) CPSATParams() CPSATParams {
	return CPSATParams{
		TimeLimitSeconds: c.OrtoolsTimeLimitSeconds,
		Workers:          c.OrtoolsWorkers,
		LogProgress:      c.OrtoolsLogProgress,
	}
}

// HybridParams projects the routing-related fields of EngineConfig.
func (c EngineConfig) HybridParams() HybridParams {
	return HybridParams{
		Thresholds: RoutingThresholds{
			MaxTasks:     c.GreedyThresholdTasks,
			MaxHours:     c.GreedyThresholdHours,
			MaxResources: c.GreedyThresholdUsers,
			MaxAvgHours:  c.GreedyThresholdAvgHours,
		},
		HybridMode:        c.HybridMode,
		ResidualMaxTasks:  c.ResidualMaxTasks,
		FallbackTimeLimit: c.OrtoolsFallbackTimeout,
		Solver:            c.CPSATParams(),
		Horizon:           c.HorizonParams(),
	}
}
