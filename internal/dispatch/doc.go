// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dispatch holds the registered task set and drives shell sessions
// through it.
//
// Tasks may be registered and toggled any number of times before evaluation;
// once Evaluate has been called the set is frozen. Evaluation resolves every
// variable placeholder, validates the dependency graph, then runs one worker
// per shell. Within a shell, tasks execute in topological order and commands
// strictly sequentially; across shells, workers block only on declared
// dependencies, so a failure on one shell never stops an unrelated shell.
package dispatch
