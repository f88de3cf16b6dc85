// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package task

import "time"

// Policy is the effective execution policy for one command after the owning
// task's defaults have been applied.
type Policy struct {
	// Expect is the output pattern to wait for; empty means prompt return.
	Expect string
	// Timeout bounds the wait for completion; zero means no limit.
	Timeout time.Duration
	// Echo controls whether session output is echoed to the run output.
	Echo bool
	// CheckExitCode controls whether the exit status is inspected.
	CheckExitCode bool
	// ShouldFail requires a non-zero exit status for success.
	ShouldFail bool
}

// PolicyFor resolves the effective policy for the given command: the
// command's own value where explicitly set, otherwise the task default.
func (t *Task) PolicyFor(c *Command) Policy {
	p := Policy{
		Expect:        c.Expect,
		Echo:          t.Echo,
		CheckExitCode: t.CheckExitCode,
		ShouldFail:    t.ShouldFail,
	}

	seconds := t.Timeout
	if c.Timeout != nil {
		seconds = c.Timeout
	}

	if seconds != nil {
		p.Timeout = time.Duration(*seconds) * time.Second
	}

	if c.Echo != nil {
		p.Echo = *c.Echo
	}

	if c.CheckExitCode != nil {
		p.CheckExitCode = *c.CheckExitCode
	}

	if c.ShouldFail != nil {
		p.ShouldFail = *c.ShouldFail
	}

	return p
}
