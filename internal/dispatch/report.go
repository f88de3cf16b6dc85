// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/emurun/internal/color"
)

// TaskResult is the terminal state of one task after evaluation.
type TaskResult struct {
	// Name is the task name.
	Name string
	// Shell is the execution context the task was bound to.
	Shell string
	// Status is the terminal status.
	Status Status
	// SkipReason is set when Status is StatusSkipped.
	SkipReason SkipReason
	// FailedCommand is the command text that caused a failure, if any.
	FailedCommand string
	// Err is the failure cause, if any.
	Err error
}

// Report enumerates every task's terminal state, in execution order.
type Report struct {
	// Tasks holds one result per registered task.
	Tasks []*TaskResult
}

// Err aggregates the report into a single error. It is nil only when every
// non-disabled task succeeded.
func (r *Report) Err() error {
	var err *multierror.Error

	for _, tr := range r.Tasks {
		switch {
		case tr.Status == StatusFailed:
			err = multierror.Append(err, fmt.Errorf(
				"task %q failed on command %q: %w", tr.Name, tr.FailedCommand, tr.Err))
		case tr.Status == StatusSkipped && tr.SkipReason != SkipDisabled:
			err = multierror.Append(err, fmt.Errorf(
				"task %q skipped: %s", tr.Name, tr.SkipReason))
		}
	}

	return err.ErrorOrNil()
}

// Write renders the report as text, one line per task.
func (r *Report) Write(w io.Writer) error {
	for _, tr := range r.Tasks {
		var status string

		switch tr.Status {
		case StatusSucceeded:
			status = color.Colorize(tr.Status.String(), color.FgGreen)
		case StatusFailed:
			status = color.Colorize(tr.Status.String(), color.FgRed)
		case StatusSkipped:
			status = color.Colorize(
				fmt.Sprintf("%s (%s)", tr.Status, tr.SkipReason), color.FgYellow)
		default:
			status = tr.Status.String()
		}

		detail := ""
		if tr.Err != nil {
			detail = fmt.Sprintf(": %s", tr.Err)

			if tr.FailedCommand != "" {
				detail = fmt.Sprintf(" [%s]%s", tr.FailedCommand, detail)
			}
		}

		if _, err := fmt.Fprintf(w, "%-24s %-8s %s%s\n", tr.Name, tr.Shell, status, detail); err != nil {
			return err
		}
	}

	return nil
}
