// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportErr(t *testing.T) {
	boom := errors.New("boom")

	r := &Report{Tasks: []*TaskResult{
		{Name: "ok", Status: StatusSucceeded},
		{Name: "off", Status: StatusSkipped, SkipReason: SkipDisabled},
		{Name: "bad", Status: StatusFailed, FailedCommand: "make", Err: boom},
		{Name: "blocked", Status: StatusSkipped, SkipReason: SkipDependency},
	}}

	err := r.Err()
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `task "bad" failed on command "make"`)
	assert.Contains(t, err.Error(), `task "blocked" skipped`)
	assert.NotContains(t, err.Error(), `"off"`)
}

func TestReportErrNilWhenClean(t *testing.T) {
	r := &Report{Tasks: []*TaskResult{
		{Name: "ok", Status: StatusSucceeded},
		{Name: "off", Status: StatusSkipped, SkipReason: SkipDisabled},
	}}

	require.NoError(t, r.Err())
}

func TestReportWrite(t *testing.T) {
	r := &Report{Tasks: []*TaskResult{
		{Name: "ok", Shell: "host", Status: StatusSucceeded},
		{Name: "bad", Shell: "target", Status: StatusFailed,
			FailedCommand: "mount", Err: errors.New("exit 1")},
	}}

	var buf bytes.Buffer

	require.NoError(t, r.Write(&buf))

	out := buf.String()
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "[mount]")
	assert.Contains(t, out, "exit 1")
}
