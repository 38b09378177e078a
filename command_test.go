// Copyright (C) 2017 ScyllaDB

package kingssh_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
)

func connect(t *testing.T) *kingssh.Session {
	t.Helper()
	s := startServer(t)
	session, err := kingssh.NewConnector(testConfig(), nil, nil).Connect(context.Background(), passwordCredentials(s))
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestRun(t *testing.T) {
	session := connect(t)

	res, err := session.Run(context.Background(), "echo hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(res.Stdout))
	assert.Empty(t, res.Stderr)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunNonZeroExit(t *testing.T) {
	session := connect(t)

	res, err := session.Run(context.Background(), "fail")
	require.NoError(t, err)
	assert.Equal(t, "partial", string(res.Stdout))
	assert.Equal(t, "boom\n", string(res.Stderr))
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunMissingExitStatus(t *testing.T) {
	session := connect(t)

	res, err := session.Run(context.Background(), "noexit")
	require.NoError(t, err)
	assert.Equal(t, "bye", string(res.Stdout))
	assert.Equal(t, -1, res.ExitCode)
}

func TestRunChunkedOutput(t *testing.T) {
	session := connect(t)

	table := [][]string{
		{"a"},
		{"ab", "cd"},
		{"x", "yy", "zzz", "w", "vvvv"},
		{strings.Repeat("q", 20000), strings.Repeat("r", 30000)},
	}
	for _, chunks := range table {
		res, err := session.Run(context.Background(), "chunks "+strings.Join(chunks, ","))
		require.NoError(t, err)
		assert.Equal(t, strings.Join(chunks, ""), string(res.Stdout))
		assert.Equal(t, strings.ToUpper(strings.Join(chunks, "")), string(res.Stderr))
	}
}

func TestRunSequentialCommandsOnOneSession(t *testing.T) {
	session := connect(t)

	for _, w := range []string{"one", "two", "three"} {
		res, err := session.Run(context.Background(), "echo "+w)
		require.NoError(t, err)
		assert.Equal(t, w+"\n", string(res.Stdout))
	}
}

func TestRunContextCancel(t *testing.T) {
	session := connect(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := session.Run(ctx, "sleep")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, kingssh.IsKind(err, kingssh.ExecError))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "Command execution error")
}

func TestRunOnClosedSession(t *testing.T) {
	session := connect(t)
	require.NoError(t, session.Close())

	_, err := session.Run(context.Background(), "echo x")
	require.Error(t, err)
	assert.True(t, kingssh.IsKind(err, kingssh.ExecError))
	assert.Contains(t, err.Error(), "Failed to execute command")
}
