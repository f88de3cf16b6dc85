// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package task provides the Command and Task data model and their
// construction from YAML definitions.
//
// A Task is a named, ordered group of commands bound to one shell, carrying
// default execution policy that its commands inherit unless they override it.
// Unset command fields are represented with pointers, never with "equals the
// default value", so an explicit override to the default value is still an
// override.
package task
