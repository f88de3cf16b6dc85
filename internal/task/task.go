// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultShell is the shell a task runs on when its definition does not name one.
const DefaultShell = "host"

var (
	// ErrMissingName is returned when a task definition has no name field.
	ErrMissingName = errors.New("task definition must have a 'name' field")
	// ErrNotMapping is returned when a task definition is not a YAML mapping.
	ErrNotMapping = errors.New("task definition must be a YAML mapping")
	// ErrTaskDefinition is returned when a task definition cannot be decoded.
	ErrTaskDefinition = errors.New("invalid task definition")
)

// Task is a named, ordered group of commands bound to one shell. Its policy
// fields are the defaults every owned Command inherits unless the command
// overrides them.
type Task struct {
	// Name is the globally unique task identifier.
	Name string
	// Shell names the execution context the commands run on.
	Shell string
	// Requires lists tasks that must reach a terminal success state before
	// this task starts.
	Requires []string
	// Before lists tasks that must not start until this task reaches a
	// terminal state.
	Before []string
	// Echo is the default for Command.Echo.
	Echo bool
	// Timeout is the default command timeout in seconds; nil means no limit.
	Timeout *int
	// FailFast aborts the remaining commands of this task on first failure
	// and blocks dependent tasks.
	FailFast bool
	// CheckExitCode is the default for Command.CheckExitCode.
	CheckExitCode bool
	// ShouldFail is the default for Command.ShouldFail.
	ShouldFail bool
	// Sleep is a delay in seconds applied once before the first command.
	Sleep int
	// Disabled skips the task and its commands; the task still satisfies
	// downstream dependency edges.
	Disabled bool
	// Commands is the ordered command sequence.
	Commands []*Command
	// Vars are task-local variable overrides layered over global defaults.
	Vars map[string]string
}

// definition is the YAML shape of a task. Pointer fields distinguish unset
// from explicitly set so defaults can be applied afterwards.
type definition struct {
	Name          string            `yaml:"name"`
	Shell         string            `yaml:"shell,omitempty"`
	Requires      []string          `yaml:"requires,omitempty"`
	Before        []string          `yaml:"before,omitempty"`
	Echo          *bool             `yaml:"echo,omitempty"`
	Timeout       *int              `yaml:"timeout,omitempty"`
	FailFast      *bool             `yaml:"fail_fast,omitempty"`
	CheckExitCode *bool             `yaml:"check_exit_code,omitempty"`
	ShouldFail    *bool             `yaml:"should_fail,omitempty"`
	Sleep         *int              `yaml:"sleep,omitempty"`
	Disabled      *bool             `yaml:"disabled,omitempty"`
	Commands      []*Command        `yaml:"commands,omitempty"`
	Vars          map[string]string `yaml:"vars,omitempty"`
}

// Parse constructs a Task from a YAML mapping. Definition keys use the
// hyphenated display spelling (e.g. "check-exit-code") and are normalized to
// the internal spelling before binding; unknown keys are a construction
// error. The overrides mapping, if non-nil, is applied over the decoded
// definition before binding.
func Parse(data []byte, overrides map[string]any) (*Task, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, errors.Join(ErrNotMapping, err)
	}

	for k, v := range overrides {
		raw[k] = v
	}

	return fromMapping(raw)
}

// FromScript constructs a Task from a name and a block of free-form lines,
// one command per non-empty line, with no per-command policy overrides. All
// other task fields are supplied via the overrides mapping.
func FromScript(name, script string, overrides map[string]any) (*Task, error) {
	raw := make(map[string]any, len(overrides)+2)
	for k, v := range overrides {
		raw[k] = v
	}

	commands := make([]any, 0)

	for _, line := range strings.Split(script, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		commands = append(commands, line)
	}

	raw["name"] = name
	raw["commands"] = commands

	return fromMapping(raw)
}

func fromMapping(raw map[string]any) (*Task, error) {
	data, err := yaml.Marshal(normalizeKeys(raw))
	if err != nil {
		return nil, errors.Join(ErrTaskDefinition, err)
	}

	var def definition
	if err := yaml.UnmarshalWithOptions(data, &def, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskDefinition, err)
	}

	if def.Name == "" {
		return nil, ErrMissingName
	}

	t := &Task{
		Name:          def.Name,
		Shell:         DefaultShell,
		Requires:      def.Requires,
		Before:        def.Before,
		FailFast:      true,
		CheckExitCode: true,
		Commands:      def.Commands,
		Vars:          def.Vars,
	}

	if def.Shell != "" {
		t.Shell = def.Shell
	}

	if def.Echo != nil {
		t.Echo = *def.Echo
	}

	t.Timeout = def.Timeout

	if def.FailFast != nil {
		t.FailFast = *def.FailFast
	}

	if def.CheckExitCode != nil {
		t.CheckExitCode = *def.CheckExitCode
	}

	if def.ShouldFail != nil {
		t.ShouldFail = *def.ShouldFail
	}

	if def.Sleep != nil {
		t.Sleep = *def.Sleep
	}

	if def.Disabled != nil {
		t.Disabled = *def.Disabled
	}

	return t, nil
}

// normalizeKeys rewrites hyphenated display keys to the internal underscore
// spelling, recursing into the command entries. Values are not modified.
func normalizeKeys(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))

	for k, v := range raw {
		key := strings.ReplaceAll(k, "-", "_")

		if key == "commands" {
			if cmds, ok := v.([]any); ok {
				normalized := make([]any, len(cmds))

				for i, c := range cmds {
					if m, ok := c.(map[string]any); ok {
						normalized[i] = normalizeKeys(m)
						continue
					}

					normalized[i] = c
				}

				v = normalized
			}
		}

		out[key] = v
	}

	return out
}
