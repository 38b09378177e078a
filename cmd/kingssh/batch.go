// Copyright (C) 2017 ScyllaDB

package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/TheJamesKing/n8n-nodes-kingssh/node"
)

// batchFile is the on-disk format of a batch.
type batchFile struct {
	Items []*node.Item `yaml:"items"`
}

// readBatch parses a batch file, upload items get the content of their
// local file attached under the binary property.
func readBatch(path string) ([]*node.Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read batch")
	}

	var f batchFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrapf(err, "parse batch %s", path)
	}

	for i, it := range f.Items {
		if it == nil {
			return nil, errors.Errorf("item %d: empty", i)
		}
		if it.Operation != node.OperationUpload || it.LocalPath == "" {
			continue
		}
		data, err := os.ReadFile(it.LocalPath)
		if err != nil {
			return nil, errors.Wrapf(err, "item %d: read local file", i)
		}
		name := it.BinaryPropertyName
		if name == "" {
			name = node.DefaultSchema().DefaultString("binaryPropertyName")
		}
		it.Binary = map[string]*node.BinaryData{
			name: node.NewBinaryData(data, filepath.Base(it.LocalPath)),
		}
	}

	return f.Items, nil
}

// saveDownloads writes downloaded files to their local paths and drops the
// data from results.
func saveDownloads(items []*node.Item, results []*node.Result) error {
	for i, r := range results {
		if r.Failed() || i >= len(items) || items[i].Operation != node.OperationDownload {
			continue
		}
		for _, bin := range r.Binary {
			if err := os.WriteFile(items[i].LocalPath, bin.Data, 0o644); err != nil {
				return errors.Wrapf(err, "item %d: save %s", i, items[i].LocalPath)
			}
			bin.Data = nil
		}
	}
	return nil
}
