// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package task

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// ErrCommandDefinition is returned when a command entry cannot be decoded.
var ErrCommandDefinition = errors.New("invalid command definition")

// Command is a single shell invocation with optional overrides of the owning
// Task's execution policy. Nil pointer fields mean "inherit the task default".
type Command struct {
	// Line is the shell text to send, after variable resolution.
	Line string `yaml:"command"`
	// Expect is an optional pattern the session output must match before the
	// command is considered finished. Empty means wait for the prompt return.
	Expect string `yaml:"expect,omitempty"`
	// Timeout is the number of seconds to wait for completion.
	Timeout *int `yaml:"timeout,omitempty"`
	// Echo controls whether the session output is echoed to the run output.
	Echo *bool `yaml:"echo,omitempty"`
	// CheckExitCode controls whether the exit status is inspected.
	CheckExitCode *bool `yaml:"check_exit_code,omitempty"`
	// ShouldFail inverts the exit status check: a non-zero status is required
	// for success.
	ShouldFail *bool `yaml:"should_fail,omitempty"`
}

// UnmarshalYAML implements the yaml.BytesUnmarshaler interface.
// A plain string is shorthand for {command: <string>}; a mapping is decoded
// strictly, so unknown keys are a construction error.
func (c *Command) UnmarshalYAML(data []byte) error {
	var line string
	if err := yaml.Unmarshal(data, &line); err == nil {
		c.Line = line
		return nil
	}

	type alias Command

	var a alias
	if err := yaml.UnmarshalWithOptions(data, &a, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("%w: %s", ErrCommandDefinition, err)
	}

	*c = Command(a)

	return nil
}
