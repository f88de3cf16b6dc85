// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package taskfile loads task definitions from YAML files. Files may come
// from a local directory tree or be fetched from a remote source using
// Hashicorp's go-getter URL syntax.
package taskfile
