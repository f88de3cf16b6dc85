// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdutil holds the flag set and dispatcher construction shared by
// the emurun subcommands.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/emurun/internal/dispatch"
	"github.com/matt-FFFFFF/emurun/internal/task"
	"github.com/matt-FFFFFF/emurun/internal/taskfile"
	"github.com/urfave/cli/v3"
)

const (
	// TasksDirFlag names the task directory flag.
	TasksDirFlag = "tasks-dir"
	// FileFlag names the task file URL flag.
	FileFlag = "file"
	// VarFlag names the global variable flag.
	VarFlag = "var"
	// EnableFlag names the task enable flag.
	EnableFlag = "enable"
	// DisableFlag names the task disable flag.
	DisableFlag = "disable"
)

// ErrInvalidVar is returned when a --var value is not of the form KEY=VALUE.
var ErrInvalidVar = errors.New("variable must be of the form KEY=VALUE")

// Flags returns the flag set shared by every subcommand that loads tasks.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     TasksDirFlag,
			Aliases:  []string{"d"},
			Usage:    "Load every .yml/.yaml task file beneath this directory, one task per file.",
			OnlyOnce: true,
		},
		&cli.StringSliceFlag{
			Name:    FileFlag,
			Aliases: []string{"f"},
			Usage: "URL of a task definition file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Specify multiple times to load multiple files.",
		},
		&cli.StringSliceFlag{
			Name:  VarFlag,
			Usage: "Define a global variable as KEY=VALUE. Specify multiple times for multiple variables.",
		},
		&cli.StringSliceFlag{
			Name:  EnableFlag,
			Usage: "Enable the named task after loading. Specify multiple times for multiple tasks.",
		},
		&cli.StringSliceFlag{
			Name:  DisableFlag,
			Usage: "Disable the named task after loading. Specify multiple times for multiple tasks.",
		},
	}
}

// ParseVars converts KEY=VALUE strings into a variable map.
func ParseVars(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidVar, pair)
		}

		out[key] = value
	}

	return out, nil
}

// BuildDispatcher loads tasks from the directory and file URLs given on the
// command line, registers them in load order and applies any enable/disable
// toggles.
func BuildDispatcher(ctx context.Context, cmd *cli.Command) (*dispatch.Dispatcher, error) {
	globals, err := ParseVars(cmd.StringSlice(VarFlag))
	if err != nil {
		return nil, err
	}

	d := dispatch.New(dispatch.Config{
		GlobalVars: globals,
		Output:     cmd.Writer,
	})

	var tasks []*task.Task

	if dir := cmd.String(TasksDirFlag); dir != "" {
		tasks, err = taskfile.LoadDir(dir, nil)
		if err != nil {
			return nil, err
		}
	}

	for _, url := range cmd.StringSlice(FileFlag) {
		data, err := taskfile.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}

		t, err := task.Parse(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", url, err)
		}

		tasks = append(tasks, t)
	}

	for _, t := range tasks {
		if err := d.Register(t); err != nil {
			return nil, err
		}
	}

	for _, name := range cmd.StringSlice(EnableFlag) {
		if err := d.Enable(name, true); err != nil {
			return nil, err
		}
	}

	for _, name := range cmd.StringSlice(DisableFlag) {
		if err := d.Enable(name, false); err != nil {
			return nil, err
		}
	}

	return d, nil
}
