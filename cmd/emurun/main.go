// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the emurun command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/emurun"
	"github.com/matt-FFFFFF/emurun/cmd/emurun/plan"
	"github.com/matt-FFFFFF/emurun/cmd/emurun/validate"
	"github.com/matt-FFFFFF/emurun/internal/ctxlog"
	"github.com/matt-FFFFFF/emurun/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		plan.PlanCmd,
		validate.ValidateCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "emurun",
	Description: `Emurun dispatches named groups of shell commands (tasks) against the
shells of an emulated hardware target. Tasks declare dependencies on each other and
are executed in dependency order, sequentially per shell, concurrently across shells.`,
	Usage:     "emurun plan -d ./tasks",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", emurun.Version, emurun.Commit)

	err := rootCmd.Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}
