// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matt-FFFFFF/emurun/internal/ctxlog"
	"github.com/matt-FFFFFF/emurun/internal/shell"
	"github.com/matt-FFFFFF/emurun/internal/task"
)

// ExitStatusError reports a command whose exit status violated its policy.
type ExitStatusError struct {
	// Code is the reported exit status.
	Code int
	// ShouldFail is true when a non-zero status was required.
	ShouldFail bool
}

// Error implements the error interface for ExitStatusError.
func (e *ExitStatusError) Error() string {
	if e.ShouldFail {
		return fmt.Sprintf("command exited with status %d but was expected to fail", e.Code)
	}

	return fmt.Sprintf("command exited with status %d", e.Code)
}

// runShell executes one shell's task queue in order. A transport error fails
// the current task and skips every remaining task on this shell; tasks on
// other shells are unaffected.
func (d *Dispatcher) runShell(ctx context.Context, name string, sess shell.Session, queue []*node) error {
	logger := ctxlog.Logger(ctx).With("shell", name)

	var transportErr error

	for _, n := range queue {
		if transportErr != nil {
			n.skip(SkipTransport, nil)
			continue
		}

		cancelled := false

		for _, dep := range n.deps {
			select {
			case <-dep.done:
			case <-ctx.Done():
				cancelled = true
			}

			if cancelled {
				break
			}
		}

		if cancelled {
			n.skip(SkipDependency, ctx.Err())
			continue
		}

		blocked := false

		for _, dep := range n.deps {
			if !dep.satisfied() {
				blocked = true
				break
			}
		}

		switch {
		case n.task.Disabled:
			logger.Debug("task disabled, skipping", "task", n.task.Name)
			n.skip(SkipDisabled, nil)
		case blocked:
			logger.Debug("dependency not satisfied, skipping", "task", n.task.Name)
			n.skip(SkipDependency, nil)
		default:
			n.setStatus(StatusReady)

			if err := d.runTask(ctx, logger.With("task", n.task.Name), sess, n); err != nil {
				transportErr = err
			}
		}
	}

	return transportErr
}

// runTask executes every command of one task. Execution failures are
// recorded on the node and return nil; the returned error is reserved for
// transport failures.
func (d *Dispatcher) runTask(ctx context.Context, logger *slog.Logger, sess shell.Session, n *node) error {
	n.setStatus(StatusRunning)

	if n.task.Sleep > 0 {
		t := time.NewTimer(time.Duration(n.task.Sleep) * time.Second)

		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			n.fail("", ctx.Err())

			return ctx.Err()
		}
	}

	var (
		firstErr  error
		failedCmd string
	)

	for _, c := range n.task.Commands {
		p := n.task.PolicyFor(c)

		logger.Debug("sending command", "command", c.Line)

		if err := sess.Send(ctx, c.Line); err != nil {
			n.fail(c.Line, err)
			return err
		}

		out, err := d.await(ctx, sess, c, p)

		if p.Echo && d.cfg.Output != nil {
			fmt.Fprintln(d.cfg.Output, out) //nolint:errcheck
		}

		if err == nil && p.CheckExitCode {
			err = checkExit(ctx, sess, p)
		}

		if err != nil {
			if !isExecutionError(err) {
				n.fail(c.Line, err)
				return err
			}

			if firstErr == nil {
				firstErr = err
				failedCmd = c.Line
			}

			if n.task.FailFast {
				break
			}
		}
	}

	if firstErr != nil {
		n.fail(failedCmd, firstErr)
		return nil
	}

	n.finish(StatusSucceeded)

	return nil
}

// await waits for the command's completion signal: its expect pattern when
// set, otherwise the prompt return.
func (d *Dispatcher) await(ctx context.Context, sess shell.Session, c *task.Command, p task.Policy) (string, error) {
	if p.Expect != "" {
		return sess.Expect(ctx, p.Expect, p.Timeout)
	}

	return sess.ExpectPrompt(ctx, p.Timeout)
}

func checkExit(ctx context.Context, sess shell.Session, p task.Policy) error {
	code, err := sess.ExitCode(ctx)
	if err != nil {
		return err
	}

	if p.ShouldFail {
		if code == 0 {
			return &ExitStatusError{Code: code, ShouldFail: true}
		}

		return nil
	}

	if code != 0 {
		return &ExitStatusError{Code: code}
	}

	return nil
}

// isExecutionError distinguishes policy-scoped command failures from
// transport failures, which are fatal to the shell's remaining tasks.
func isExecutionError(err error) bool {
	var exitErr *ExitStatusError

	return errors.Is(err, shell.ErrExpectTimeout) || errors.As(err, &exitErr)
}
