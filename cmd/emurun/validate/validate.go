// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package validate implements the validate subcommand, which checks task
// definitions, variable resolution and the dependency graph without opening
// any shell session.
package validate

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/emurun/cmd/emurun/cmdutil"
	"github.com/matt-FFFFFF/emurun/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

// ValidateCmd checks the loaded task set for configuration errors.
var ValidateCmd = &cli.Command{
	Name: "validate",
	Description: `Validate a task set: definition syntax, variable resolution for every
command, dependency references and graph acyclicity. Exits non-zero on the first error.
Task file URLs use Hashicorp's go-getter syntax, which allows for fetching files from various sources.
See https://github.com/hashicorp/go-getter.`,
	Usage:  "emurun validate -d ./tasks",
	Flags:  cmdutil.Flags(),
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running validate command")

	d, err := cmdutil.BuildDispatcher(ctx, cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if err := d.Validate(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "%d tasks OK\n", len(d.Tasks())) //nolint:errcheck

	return nil
}
