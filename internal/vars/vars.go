// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package vars resolves ${{ name }} placeholders in command text against a
// layered variable scope. Later layers override earlier ones, so merging
// global defaults, task-local vars and per-run overrides is a matter of
// layering them in that order.
package vars

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches a ${{ name }} token. Names are restricted to
// alphanumerics, underscore and hyphen; surrounding whitespace is trimmed
// before lookup.
var placeholderPattern = regexp.MustCompile(`\$\{\{([\sa-zA-Z0-9_\-]*)\}\}`)

// UnresolvedError reports a placeholder with no value in the merged scope.
// It is a configuration error and aborts the whole run.
type UnresolvedError struct {
	// Name is the placeholder name that could not be resolved.
	Name string
	// Command is the command text the placeholder appeared in.
	Command string
}

// Error implements the error interface for UnresolvedError.
func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("variable %q not found (in command %q)", e.Name, e.Command)
}

// Scope is a layered variable scope. The zero value is an empty scope.
type Scope struct {
	layers []map[string]string
}

// NewScope creates a scope from the given layers. Later layers override
// earlier ones. Nil layers are permitted and ignored.
func NewScope(layers ...map[string]string) Scope {
	return Scope{layers: layers}
}

// Lookup returns the value for name, searching from the last layer down.
func (s Scope) Lookup(name string) (string, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := s.layers[i][name]; ok {
			return v, true
		}
	}

	return "", false
}

// Resolve replaces every placeholder in command with its value from the
// scope. Substituted values are not re-scanned, so resolution is not
// recursive. An unresolved name returns an UnresolvedError.
func (s Scope) Resolve(command string) (string, error) {
	matches := placeholderPattern.FindAllStringSubmatchIndex(command, -1)
	if len(matches) == 0 {
		return command, nil
	}

	var sb strings.Builder

	last := 0

	for _, m := range matches {
		name := strings.TrimSpace(command[m[2]:m[3]])

		value, ok := s.Lookup(name)
		if !ok {
			return "", &UnresolvedError{Name: name, Command: command}
		}

		sb.WriteString(command[last:m[0]])
		sb.WriteString(value)

		last = m[1]
	}

	sb.WriteString(command[last:])

	return sb.String(), nil
}
