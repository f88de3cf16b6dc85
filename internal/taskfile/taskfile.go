// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package taskfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matt-FFFFFF/emurun/internal/task"
	"github.com/spf13/afero"
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

var (
	// ErrReadTaskFile is returned when a task file cannot be read.
	ErrReadTaskFile = errors.New("failed to read task file")
	// ErrNoTaskFiles is returned when a directory contains no task files.
	ErrNoTaskFiles = errors.New("no task files found in directory")
)

// taskFile reports whether the file name is a task definition.
func taskFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// LoadFile parses a single task definition file. The overrides map is
// applied to the definition before decoding.
func LoadFile(path string, overrides map[string]any) (*task.Task, error) {
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadTaskFile, err)
	}

	t, err := task.Parse(data, overrides)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// LoadDir parses every task definition file beneath dir, one task per file.
// Files are visited in lexical path order so callers get a stable
// registration order.
func LoadDir(dir string, overrides map[string]any) ([]*task.Task, error) {
	fsys := FsFactory()

	var paths []string

	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !taskFile(info.Name()) {
			return nil
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrReadTaskFile, err)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTaskFiles, dir)
	}

	sort.Strings(paths)

	tasks := make([]*task.Task, 0, len(paths))

	for _, path := range paths {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, errors.Join(ErrReadTaskFile, err)
		}

		t, err := task.Parse(data, overrides)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		tasks = append(tasks, t)
	}

	return tasks, nil
}
