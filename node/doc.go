// Copyright (C) 2017 ScyllaDB

// Package node adapts the SSH session manager to a workflow platform: it
// validates work items against a declarative parameter schema and processes
// batches of them sequentially, one session per item.
package node
