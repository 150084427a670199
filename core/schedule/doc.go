// Package schedule implements the hybrid task scheduling engine: the
// candidate-slot availability index, the greedy and CP-SAT schedulers, the
// horizon auto-extension loop, the hybrid orchestrator that routes between
// them, and the solution assembler that produces the final planning result.
package schedule
