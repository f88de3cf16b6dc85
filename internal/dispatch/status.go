// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

// Status is the state of a task within an evaluation.
type Status int

const (
	// StatusPending means the task has not started.
	StatusPending Status = iota
	// StatusReady means every required task has reached a satisfying
	// terminal state.
	StatusReady
	// StatusRunning means the task's commands are executing.
	StatusRunning
	// StatusSucceeded means every command completed successfully.
	StatusSucceeded
	// StatusFailed means at least one command failed.
	StatusFailed
	// StatusSkipped means the task ran no commands; see SkipReason.
	StatusSkipped
)

// String returns the string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SkipReason explains why a task was skipped.
type SkipReason int

const (
	// SkipNone means the task was not skipped.
	SkipNone SkipReason = iota
	// SkipDisabled means the task was disabled before evaluation. A disabled
	// task still satisfies downstream dependency edges.
	SkipDisabled
	// SkipDependency means a required task failed or was itself skipped
	// because of a failure. This propagates through the dependent subgraph.
	SkipDependency
	// SkipTransport means the owning shell's session failed and the task was
	// never attempted.
	SkipTransport
)

// String returns the string representation of the SkipReason.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipDisabled:
		return "disabled"
	case SkipDependency:
		return "dependency failed"
	case SkipTransport:
		return "shell transport failed"
	default:
		return "unknown"
	}
}
