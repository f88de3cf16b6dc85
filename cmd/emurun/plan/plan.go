// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan implements the plan subcommand, which prints the task
// execution order without touching any shell session.
package plan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/emurun/cmd/emurun/cmdutil"
	"github.com/matt-FFFFFF/emurun/internal/ctxlog"
	"github.com/matt-FFFFFF/emurun/internal/task"
	"github.com/urfave/cli/v3"
)

const jsonFlag = "json"

// PlanCmd prints the execution order the task set would evaluate in.
var PlanCmd = &cli.Command{
	Name: "plan",
	Description: `Print the order tasks would execute in, without opening any shell session.
Tasks are ordered by their dependency graph; independent tasks keep their load order.
Task file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.`,
	Usage: "emurun plan -d ./tasks",
	Flags: append(cmdutil.Flags(),
		&cli.BoolFlag{
			Name:     jsonFlag,
			Usage:    "Print the plan as JSON.",
			OnlyOnce: true,
		},
	),
	Action: actionFunc,
}

// planEntry is one task in the JSON plan output.
type planEntry struct {
	Name     string   `json:"name"`
	Shell    string   `json:"shell"`
	Requires []string `json:"requires,omitempty"`
	Before   []string `json:"before,omitempty"`
	Disabled bool     `json:"disabled,omitempty"`
	Commands int      `json:"commands"`
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running plan command")

	d, err := cmdutil.BuildDispatcher(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	order, err := d.Plan()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if cmd.Bool(jsonFlag) {
		return writeJSON(cmd, order)
	}

	for i, t := range order {
		suffix := ""
		if t.Disabled {
			suffix = " (disabled)"
		}

		fmt.Fprintf(cmd.Writer, "%3d. %s [%s]%s\n", i+1, t.Name, t.Shell, suffix) //nolint:errcheck
	}

	return nil
}

func writeJSON(cmd *cli.Command, order []*task.Task) error {
	entries := make([]planEntry, 0, len(order))

	for _, t := range order {
		entries = append(entries, planEntry{
			Name:     t.Name,
			Shell:    t.Shell,
			Requires: t.Requires,
			Before:   t.Before,
			Disabled: t.Disabled,
			Commands: len(t.Commands),
		})
	}

	// colorjson formats generic values, so round-trip through encoding/json.
	raw, err := json.Marshal(entries)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	f := colorjson.NewFormatter()
	f.Indent = 2

	out, err := f.Marshal(generic)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintln(cmd.Writer, string(out)) //nolint:errcheck

	return nil
}
