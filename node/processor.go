// Copyright (C) 2017 ScyllaDB

package node

import (
	"context"

	"github.com/google/uuid"

	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
)

// Processor runs batches of items. Items are processed one by one, each on
// its own session that is closed before the next item starts.
type Processor struct {
	connector *kingssh.Connector
	schema    *Schema
	logger    kingssh.Logger
}

// NewProcessor returns a Processor using the default schema.
func NewProcessor(connector *kingssh.Connector, logger kingssh.Logger) *Processor {
	if logger == nil {
		logger = kingssh.NopLogger
	}
	return &Processor{
		connector: connector,
		schema:    DefaultSchema(),
		logger:    logger,
	}
}

// ProcessBatch returns one result per item in input order. If continueOnFail
// is set a failed item produces an error record and processing continues,
// otherwise the first error is returned and no results are.
func (p *Processor) ProcessBatch(ctx context.Context, items []*Item, creds kingssh.Credentials, continueOnFail bool) ([]*Result, error) {
	batch := uuid.NewString()
	p.logger.Println("Processing batch", "batch", batch, "items", len(items), "continue_on_fail", continueOnFail)

	out := make([]*Result, 0, len(items))
	for i, item := range items {
		r, err := p.processItem(ctx, item, creds)
		if err != nil {
			p.logger.Println("Item failed", "batch", batch, "item", i, "error", err)
			if !continueOnFail {
				return nil, err
			}
			out = append(out, errorResult(err))
			continue
		}
		out = append(out, r)
	}

	p.logger.Println("Batch done", "batch", batch)
	return out, nil
}

func (p *Processor) processItem(ctx context.Context, item *Item, creds kingssh.Credentials) (*Result, error) {
	it, err := item.resolve(p.schema)
	if err != nil {
		return nil, err
	}

	s, err := p.connector.Connect(ctx, creds)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.Close(); err != nil {
			p.logger.Println("Failed to close connection", "host", s.Host(), "error", err)
		}
	}()

	switch it.Operation {
	case OperationExecute:
		return p.execute(ctx, s, it)
	case OperationDownload:
		return p.download(ctx, s, it)
	case OperationUpload:
		return p.upload(ctx, s, it)
	default:
		// resolve guarantees a supported operation.
		return nil, kingssh.ValidationErrorf("The operation %q is not supported for resource %q!", it.Operation, it.Resource)
	}
}

func (p *Processor) execute(ctx context.Context, s *kingssh.Session, it *Item) (*Result, error) {
	res, err := s.Run(ctx, it.Command)
	if err != nil {
		return nil, err
	}
	return &Result{
		JSON: map[string]interface{}{
			"command":  it.Command,
			"stdout":   string(res.Stdout),
			"stderr":   string(res.Stderr),
			"exitCode": res.ExitCode,
		},
	}, nil
}

func (p *Processor) download(ctx context.Context, s *kingssh.Session, it *Item) (*Result, error) {
	data, err := s.Download(ctx, it.RemotePath)
	if err != nil {
		return nil, err
	}
	fileName := kingssh.FileName(it.RemotePath)
	return &Result{
		JSON: map[string]interface{}{
			"fileName":   fileName,
			"remotePath": it.RemotePath,
			"localPath":  it.LocalPath,
			"success":    true,
		},
		Binary: map[string]*BinaryData{
			it.BinaryPropertyName: NewBinaryData(data, fileName),
		},
	}, nil
}

func (p *Processor) upload(ctx context.Context, s *kingssh.Session, it *Item) (*Result, error) {
	bin := it.Binary[it.BinaryPropertyName]
	if err := s.Upload(ctx, it.RemotePath, bin.Data); err != nil {
		return nil, err
	}
	fileName := bin.FileName
	if fileName == "" {
		fileName = kingssh.FileName(it.RemotePath)
	}
	return &Result{
		JSON: map[string]interface{}{
			"fileName":   fileName,
			"remotePath": it.RemotePath,
			"localPath":  it.LocalPath,
			"success":    true,
		},
	}, nil
}
