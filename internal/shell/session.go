// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrExpectTimeout is returned when the expected output does not appear
	// within the command's timeout.
	ErrExpectTimeout = errors.New("timed out waiting for expected output")
	// ErrSessionClosed is returned when a session is used after Close.
	ErrSessionClosed = errors.New("session is closed")
)

// Session is a persistent interactive execution context.
// Implementations are not required to be safe for concurrent use; the
// dispatcher guarantees exclusive ownership by a single worker.
type Session interface {
	// Send writes one command line to the session.
	Send(ctx context.Context, line string) error
	// Expect blocks until the session output matches the given regular
	// expression pattern, returning the output consumed. A zero timeout
	// means no bound. On deadline it returns ErrExpectTimeout; any other
	// error is a transport error.
	Expect(ctx context.Context, pattern string, timeout time.Duration) (string, error)
	// ExpectPrompt blocks until the session's command prompt returns,
	// indicating the previous command has finished. Timeout semantics are
	// the same as Expect.
	ExpectPrompt(ctx context.Context, timeout time.Duration) (string, error)
	// ExitCode reports the exit status of the most recently completed command.
	ExitCode(ctx context.Context) (int, error)
	// Close terminates the session. Subsequent calls return ErrSessionClosed.
	Close() error
}
