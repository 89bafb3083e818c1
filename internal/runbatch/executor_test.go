// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/jobpool/internal/ctxlog"
	"github.com/matt-FFFFFF/jobpool/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func unitOf(t *testing.T, line string) jobs.Unit {
	t.Helper()

	list, err := jobs.Parse(strings.NewReader(line))
	require.NoError(t, err)
	require.Len(t, list, 1)

	return list[0]
}

func newTestExecutor(t *testing.T) (*ShellExecutor, context.Context) {
	t.Helper()

	if runtime.GOOS == GOOSWindows {
		t.Skip("shell tests use POSIX syntax")
	}

	ctx := ctxlog.New(context.Background(), ctxlog.DefaultLogger)

	return &ShellExecutor{Shell: "/bin/sh"}, ctx
}

func TestShellExecutor_Success(t *testing.T) {
	e, ctx := newTestExecutor(t)

	res := e.Execute(ctx, unitOf(t, "echo hello"))
	require.NoError(t, res.Error)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, ResultStatusSuccess, res.Status)
	assert.False(t, res.Failed())
	assert.Equal(t, "hello\n", string(res.StdOut))
	assert.Equal(t, "echo hello", res.Command)
}

func TestShellExecutor_NonZeroExit(t *testing.T) {
	e, ctx := newTestExecutor(t)

	res := e.Execute(ctx, unitOf(t, "echo oops >&2; exit 3"))
	require.NoError(t, res.Error)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, ResultStatusError, res.Status)
	assert.True(t, res.Failed())
	assert.Equal(t, "oops\n", string(res.StdErr))
}

func TestShellExecutor_ShellSyntax(t *testing.T) {
	e, ctx := newTestExecutor(t)
	out := t.TempDir() + "/out.txt"

	res := e.Execute(ctx, unitOf(t, "printf 'a\\nb\\nc\\n' | grep b > "+out+" && cat "+out))
	require.NoError(t, res.Error)
	assert.Equal(t, "b\n", string(res.StdOut))
}

func TestShellExecutor_EnvAndCwd(t *testing.T) {
	e, ctx := newTestExecutor(t)
	dir := t.TempDir()
	e.Cwd = dir
	e.Env = map[string]string{"JOBPOOL_TEST": "BAR"}

	res := e.Execute(ctx, unitOf(t, "echo $JOBPOOL_TEST; pwd"))
	require.NoError(t, res.Error)
	assert.Contains(t, string(res.StdOut), "BAR")
	assert.Contains(t, string(res.StdOut), dir)
}

func TestShellExecutor_LargeOutputDoesNotBlock(t *testing.T) {
	e, ctx := newTestExecutor(t)
	e.MaxOutput = 1024

	// Far more than a pipe buffer holds; the process must still exit.
	res := e.Execute(ctx, unitOf(t, "head -c 1048576 /dev/zero"))
	assert.Equal(t, 0, res.ExitCode)
	require.ErrorIs(t, res.Error, ErrBufferOverflow)
	assert.Len(t, res.StdOut, 1024)
}

func TestShellExecutor_StartFailure(t *testing.T) {
	e, ctx := newTestExecutor(t)
	e.Shell = "/not/a/real/shell"

	res := e.Execute(ctx, unitOf(t, "echo hi"))
	require.ErrorIs(t, res.Error, ErrCouldNotStartProcess)
	assert.Equal(t, -1, res.ExitCode)
	assert.Equal(t, ResultStatusError, res.Status)
}

func TestShellExecutor_ContextCancelled(t *testing.T) {
	e, ctx := newTestExecutor(t)

	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	res := e.Execute(ctx, unitOf(t, "sleep 10"))

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, -1, res.ExitCode)
	require.ErrorIs(t, res.Error, ErrCancelled)
	assert.ErrorIs(t, res.Error, context.DeadlineExceeded)
}

func TestShellExecutor_AlreadyCancelled(t *testing.T) {
	e, ctx := newTestExecutor(t)

	ctx, cancel := context.WithCancel(ctx)
	cancel()

	res := e.Execute(ctx, unitOf(t, "echo never"))
	require.ErrorIs(t, res.Error, ErrCancelled)
	assert.Empty(t, res.StdOut)
}

func TestDrainUpToMax(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int64
		want    string
		wantErr error
	}{
		{name: "under limit", input: "abc", max: 10, want: "abc"},
		{name: "exactly at limit", input: "abcd", max: 4, want: "abcd"},
		{name: "over limit", input: "abcdef", max: 4, want: "abcd", wantErr: ErrBufferOverflow},
		{name: "empty", input: "", max: 4, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := drainUpToMax(bytes.NewBufferString(tt.input), tt.max)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDefaultShell(t *testing.T) {
	if runtime.GOOS == GOOSWindows {
		t.Skip("unix shell resolution")
	}

	t.Setenv("SHELL", "/bin/bash")
	assert.Equal(t, "/bin/bash", DefaultShell(context.Background()))

	t.Setenv("SHELL", "")
	assert.Equal(t, "/bin/sh", DefaultShell(context.Background()))
}
