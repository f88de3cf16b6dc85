// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"regexp"
	"sync"
	"time"
)

var _ Session = (*ScriptSession)(nil)

// ScriptStep is the scripted reaction to one sent command line.
type ScriptStep struct {
	// Output is the session output produced after the line is sent.
	Output string
	// ExitCode is the status reported for the command.
	ExitCode int
	// Delay is how long the output takes to appear. A step whose delay
	// exceeds the caller's timeout produces ErrExpectTimeout.
	Delay time.Duration
	// Err, if set, is returned from Send to simulate a transport failure.
	Err error
}

// ScriptSession is an in-memory Session that consumes one ScriptStep per sent
// line, in order. Lines sent after the script is exhausted succeed with empty
// output and exit code 0. It records every line sent to it.
type ScriptSession struct {
	mu      sync.Mutex
	steps   []ScriptStep
	sent    []string
	current ScriptStep
	closed  bool
}

// NewScriptSession creates a ScriptSession that replays the given steps.
func NewScriptSession(steps ...ScriptStep) *ScriptSession {
	return &ScriptSession{steps: steps}
}

// Sent returns a copy of all command lines sent so far.
func (s *ScriptSession) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.sent))
	copy(out, s.sent)

	return out
}

// Send implements Session.
func (s *ScriptSession) Send(_ context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.sent = append(s.sent, line)

	if len(s.steps) > 0 {
		s.current = s.steps[0]
		s.steps = s.steps[1:]
	} else {
		s.current = ScriptStep{}
	}

	return s.current.Err
}

// Expect implements Session. The scripted output must match the pattern,
// otherwise the call behaves like a timeout.
func (s *ScriptSession) Expect(ctx context.Context, pattern string, timeout time.Duration) (string, error) {
	step, err := s.wait(ctx, timeout)
	if err != nil {
		return "", err
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", err
	}

	if !re.MatchString(step.Output) {
		return "", ErrExpectTimeout
	}

	return step.Output, nil
}

// ExpectPrompt implements Session. The prompt is considered returned as soon
// as the scripted delay has elapsed.
func (s *ScriptSession) ExpectPrompt(ctx context.Context, timeout time.Duration) (string, error) {
	step, err := s.wait(ctx, timeout)
	if err != nil {
		return "", err
	}

	return step.Output, nil
}

// ExitCode implements Session.
func (s *ScriptSession) ExitCode(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrSessionClosed
	}

	return s.current.ExitCode, nil
}

// Close implements Session.
func (s *ScriptSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	s.closed = true

	return nil
}

func (s *ScriptSession) wait(ctx context.Context, timeout time.Duration) (ScriptStep, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return ScriptStep{}, ErrSessionClosed
	}

	step := s.current
	s.mu.Unlock()

	if timeout > 0 && step.Delay > timeout {
		return ScriptStep{}, ErrExpectTimeout
	}

	if step.Delay > 0 {
		t := time.NewTimer(step.Delay)
		defer t.Stop()

		select {
		case <-t.C:
		case <-ctx.Done():
			return ScriptStep{}, ctx.Err()
		}
	}

	return step, nil
}
