// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptSessionReplaysSteps(t *testing.T) {
	ctx := context.Background()

	sess := NewScriptSession(
		ScriptStep{Output: "Linux version 6.1", ExitCode: 0},
		ScriptStep{Output: "No such file", ExitCode: 2},
	)

	require.NoError(t, sess.Send(ctx, "uname -a"))

	out, err := sess.ExpectPrompt(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Linux version 6.1", out)

	code, err := sess.ExitCode(ctx)
	require.NoError(t, err)
	assert.Zero(t, code)

	require.NoError(t, sess.Send(ctx, "cat /missing"))

	code, err = sess.ExitCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, code)

	assert.Equal(t, []string{"uname -a", "cat /missing"}, sess.Sent())
}

func TestScriptSessionExpect(t *testing.T) {
	ctx := context.Background()

	sess := NewScriptSession(
		ScriptStep{Output: "Booting Linux on hart 0"},
	)

	require.NoError(t, sess.Send(ctx, "start"))

	out, err := sess.Expect(ctx, `Booting Linux`, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Booting Linux on hart 0", out)
}

func TestScriptSessionExpectMismatch(t *testing.T) {
	ctx := context.Background()

	sess := NewScriptSession(
		ScriptStep{Output: "kernel panic"},
	)

	require.NoError(t, sess.Send(ctx, "start"))

	_, err := sess.Expect(ctx, `Booting Linux`, time.Second)
	require.ErrorIs(t, err, ErrExpectTimeout)
}

func TestScriptSessionDelayExceedsTimeout(t *testing.T) {
	ctx := context.Background()

	sess := NewScriptSession(
		ScriptStep{Output: "slow", Delay: time.Minute},
	)

	require.NoError(t, sess.Send(ctx, "sleep 60"))

	_, err := sess.ExpectPrompt(ctx, time.Millisecond)
	require.ErrorIs(t, err, ErrExpectTimeout)
}

func TestScriptSessionSendError(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	sess := NewScriptSession(
		ScriptStep{Err: boom},
	)

	require.ErrorIs(t, sess.Send(ctx, "ls"), boom)
}

func TestScriptSessionExhausted(t *testing.T) {
	ctx := context.Background()
	sess := NewScriptSession()

	require.NoError(t, sess.Send(ctx, "true"))

	out, err := sess.ExpectPrompt(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, out)

	code, err := sess.ExitCode(ctx)
	require.NoError(t, err)
	assert.Zero(t, code)
}

func TestScriptSessionClosed(t *testing.T) {
	ctx := context.Background()
	sess := NewScriptSession()

	require.NoError(t, sess.Close())
	require.ErrorIs(t, sess.Send(ctx, "ls"), ErrSessionClosed)

	_, err := sess.ExpectPrompt(ctx, 0)
	require.ErrorIs(t, err, ErrSessionClosed)

	_, err = sess.ExitCode(ctx)
	require.ErrorIs(t, err, ErrSessionClosed)

	require.ErrorIs(t, sess.Close(), ErrSessionClosed)
}
