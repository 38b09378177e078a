// Copyright (C) 2017 ScyllaDB

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheJamesKing/n8n-nodes-kingssh/node"
)

func TestReadBatch(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(local, []byte("a,b\n"), 0o644))

	batch := `items:
  - resource: command
    operation: execute
    command: uptime
  - resource: file
    operation: upload
    remotePath: /tmp/report.csv
    localPath: ` + local + `
`
	p := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(batch), 0o644))

	items, err := readBatch(p)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "uptime", items[0].Command)
	assert.Nil(t, items[0].Binary)

	bin := items[1].Binary["data"]
	require.NotNil(t, bin)
	assert.Equal(t, "a,b\n", string(bin.Data))
	assert.Equal(t, "report.csv", bin.FileName)
}

func TestReadBatchMissingLocalFile(t *testing.T) {
	dir := t.TempDir()
	batch := "items:\n  - resource: file\n    operation: upload\n    remotePath: /x\n    localPath: " + filepath.Join(dir, "nope") + "\n"
	p := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(p, []byte(batch), 0o644))

	_, err := readBatch(p)
	assert.ErrorContains(t, err, "item 0: read local file")
}

func TestSaveDownloads(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.bin")

	items := []*node.Item{
		{Resource: node.ResourceCommand, Operation: node.OperationExecute, Command: "ls"},
		{Resource: node.ResourceFile, Operation: node.OperationDownload, RemotePath: "/x", LocalPath: target},
	}
	results := []*node.Result{
		{JSON: map[string]interface{}{"stdout": ""}},
		{
			JSON:   map[string]interface{}{"success": true},
			Binary: map[string]*node.BinaryData{"data": node.NewBinaryData([]byte{1, 2, 3}, "x")},
		},
	}

	require.NoError(t, saveDownloads(items, results))

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
	assert.Nil(t, results[1].Binary["data"].Data)
}
