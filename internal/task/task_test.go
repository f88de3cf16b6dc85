// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	definition := `
name: smoke
commands:
  - uname -a
`

	tsk, err := Parse([]byte(definition), nil)
	require.NoError(t, err)

	assert.Equal(t, "smoke", tsk.Name)
	assert.Equal(t, DefaultShell, tsk.Shell)
	assert.True(t, tsk.FailFast)
	assert.True(t, tsk.CheckExitCode)
	assert.False(t, tsk.Echo)
	assert.False(t, tsk.ShouldFail)
	assert.False(t, tsk.Disabled)
	assert.Nil(t, tsk.Timeout)
	assert.Zero(t, tsk.Sleep)
	require.Len(t, tsk.Commands, 1)
	assert.Equal(t, "uname -a", tsk.Commands[0].Line)
}

func TestParseFullDefinition(t *testing.T) {
	definition := `
name: boot
shell: monitor
requires:
  - fetch-image
before:
  - login
echo: true
timeout: 120
fail-fast: false
check-exit-code: false
should-fail: true
sleep: 5
disabled: true
vars:
  board: litex
commands:
  - command: start
    expect: "Booting Linux"
    timeout: 300
  - command: pause
    echo: false
`

	tsk, err := Parse([]byte(definition), nil)
	require.NoError(t, err)

	assert.Equal(t, "boot", tsk.Name)
	assert.Equal(t, "monitor", tsk.Shell)
	assert.Equal(t, []string{"fetch-image"}, tsk.Requires)
	assert.Equal(t, []string{"login"}, tsk.Before)
	assert.True(t, tsk.Echo)
	require.NotNil(t, tsk.Timeout)
	assert.Equal(t, 120, *tsk.Timeout)
	assert.False(t, tsk.FailFast)
	assert.False(t, tsk.CheckExitCode)
	assert.True(t, tsk.ShouldFail)
	assert.Equal(t, 5, tsk.Sleep)
	assert.True(t, tsk.Disabled)
	assert.Equal(t, map[string]string{"board": "litex"}, tsk.Vars)

	require.Len(t, tsk.Commands, 2)
	assert.Equal(t, "start", tsk.Commands[0].Line)
	assert.Equal(t, "Booting Linux", tsk.Commands[0].Expect)
	require.NotNil(t, tsk.Commands[0].Timeout)
	assert.Equal(t, 300, *tsk.Commands[0].Timeout)
	assert.Equal(t, "pause", tsk.Commands[1].Line)
	require.NotNil(t, tsk.Commands[1].Echo)
	assert.False(t, *tsk.Commands[1].Echo)
}

func TestParseUnderscoreKeys(t *testing.T) {
	definition := `
name: smoke
fail_fast: false
commands:
  - command: "true"
    check_exit_code: false
`

	tsk, err := Parse([]byte(definition), nil)
	require.NoError(t, err)
	assert.False(t, tsk.FailFast)
	require.Len(t, tsk.Commands, 1)
	require.NotNil(t, tsk.Commands[0].CheckExitCode)
	assert.False(t, *tsk.Commands[0].CheckExitCode)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		definition string
		wantErr    error
	}{
		{
			name:       "missing name",
			definition: "commands:\n  - uname -a\n",
			wantErr:    ErrMissingName,
		},
		{
			name:       "not a mapping",
			definition: "- just\n- a\n- list\n",
			wantErr:    ErrNotMapping,
		},
		{
			name:       "unknown task key",
			definition: "name: x\nfrequires:\n  - y\n",
			wantErr:    ErrTaskDefinition,
		},
		{
			name:       "unknown command key",
			definition: "name: x\ncommands:\n  - command: ls\n    excpet: foo\n",
			wantErr:    ErrTaskDefinition,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.definition), nil)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseOverrides(t *testing.T) {
	definition := `
name: smoke
shell: monitor
commands:
  - uname -a
`

	tsk, err := Parse([]byte(definition), map[string]any{
		"shell":    "target",
		"disabled": true,
	})
	require.NoError(t, err)

	assert.Equal(t, "target", tsk.Shell)
	assert.True(t, tsk.Disabled)
}

func TestFromScript(t *testing.T) {
	script := "mount /dev/sda1 /mnt\n\n  \nls /mnt\n"

	tsk, err := FromScript("mount", script, map[string]any{"shell": "target"})
	require.NoError(t, err)

	assert.Equal(t, "mount", tsk.Name)
	assert.Equal(t, "target", tsk.Shell)
	require.Len(t, tsk.Commands, 2)
	assert.Equal(t, "mount /dev/sda1 /mnt", tsk.Commands[0].Line)
	assert.Equal(t, "ls /mnt", tsk.Commands[1].Line)
}

func TestFromScriptEmpty(t *testing.T) {
	tsk, err := FromScript("noop", "\n\n", nil)
	require.NoError(t, err)
	assert.Empty(t, tsk.Commands)
}
