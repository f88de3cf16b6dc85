// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shell defines the session contract between the dispatcher and a
// named execution context (the host machine, an emulator monitor, an emulated
// target console). A session is a persistent interactive process: the
// dispatcher writes command lines to it and waits for output patterns, prompt
// returns and exit statuses.
//
// Concrete transports (pty subprocess, serial console, telnet) live outside
// this module. The package ships a single in-memory implementation,
// ScriptSession, which replays scripted exchanges and is used by tests and
// dry evaluation.
package shell
