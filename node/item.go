// Copyright (C) 2017 ScyllaDB

package node

import (
	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
)

// Resource names.
const (
	ResourceCommand = "command"
	ResourceFile    = "file"
)

// Operation names.
const (
	OperationExecute  = "execute"
	OperationDownload = "download"
	OperationUpload   = "upload"
)

// Item describes a single command or file operation.
type Item struct {
	Resource           string `json:"resource" yaml:"resource"`
	Operation          string `json:"operation" yaml:"operation"`
	Command            string `json:"command,omitempty" yaml:"command,omitempty"`
	RemotePath         string `json:"remotePath,omitempty" yaml:"remotePath,omitempty"`
	LocalPath          string `json:"localPath,omitempty" yaml:"localPath,omitempty"`
	BinaryPropertyName string `json:"binaryPropertyName,omitempty" yaml:"binaryPropertyName,omitempty"`

	// Binary holds input binary data, uploads read from it.
	Binary map[string]*BinaryData `json:"binary,omitempty" yaml:"-"`
}

func (it *Item) params() map[string]string {
	return map[string]string{
		"resource":           it.Resource,
		"operation":          it.Operation,
		"command":            it.Command,
		"remotePath":         it.RemotePath,
		"localPath":          it.LocalPath,
		"binaryPropertyName": it.BinaryPropertyName,
	}
}

// resolve returns a copy of the item with schema defaults applied and
// validates it. Any error is a ValidationError.
func (it *Item) resolve(s *Schema) (*Item, error) {
	out := *it
	if out.Resource == "" {
		out.Resource = s.DefaultString("resource")
	}
	if out.Operation == "" {
		out.Operation = s.DefaultOperation(out.Resource)
	}
	if err := s.Validate(out.Resource, out.Operation); err != nil {
		return nil, err
	}

	params := out.params()
	for _, f := range s.VisibleFields(out.Resource, out.Operation) {
		if params[f.Name] != "" {
			continue
		}
		if f.Name == "binaryPropertyName" && f.Default != nil {
			out.BinaryPropertyName = s.DefaultString(f.Name)
			continue
		}
		if f.Required {
			return nil, kingssh.ValidationErrorf("The parameter %q is required for operation %q!", f.Name, out.Operation)
		}
	}

	if out.Operation == OperationUpload && out.Binary[out.BinaryPropertyName] == nil {
		return nil, kingssh.ValidationErrorf("No binary data property %q exists on item!", out.BinaryPropertyName)
	}
	return &out, nil
}
