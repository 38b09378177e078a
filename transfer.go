// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/sftp"
	"go.uber.org/multierr"
)

// Download reads the whole remote file into memory over a new SFTP
// sub-channel.
func (s *Session) Download(ctx context.Context, remotePath string) (data []byte, err error) {
	client, err := s.sftp()
	if err != nil {
		return nil, err
	}
	defer client.Close()
	defer closeOnDone(ctx, client)()

	s.logger.Println("Downloading file", "host", s.host, "path", remotePath)

	f, err := client.Open(remotePath)
	if err != nil {
		return nil, newError(SftpError, "Failed to read file", ctxErr(ctx, err))
	}
	data, err = io.ReadAll(f)
	if err = multierr.Append(err, f.Close()); err != nil {
		return nil, newError(SftpError, "Failed to read file", ctxErr(ctx, err))
	}
	return data, nil
}

// Upload writes data to the remote file over a new SFTP sub-channel.
// An existing file is truncated and overwritten.
func (s *Session) Upload(ctx context.Context, remotePath string, data []byte) error {
	client, err := s.sftp()
	if err != nil {
		return err
	}
	defer client.Close()
	defer closeOnDone(ctx, client)()

	s.logger.Println("Uploading file", "host", s.host, "path", remotePath, "size", len(data))

	f, err := client.Create(remotePath)
	if err != nil {
		return newError(SftpError, "Failed to write file", ctxErr(ctx, err))
	}
	_, err = f.Write(data)
	if err = multierr.Append(err, f.Close()); err != nil {
		return newError(SftpError, "Failed to write file", ctxErr(ctx, err))
	}
	return nil
}

func (s *Session) sftp() (*sftp.Client, error) {
	client, err := s.client.NewSftp()
	if err != nil {
		return nil, newError(SftpError, "Failed to initialize SFTP", err)
	}
	return client, nil
}

// FileName returns the last segment of a slash separated remote path or
// "file" if the path ends with a slash or is empty.
func FileName(remotePath string) string {
	name := remotePath[strings.LastIndex(remotePath, "/")+1:]
	if name == "" {
		return "file"
	}
	return name
}

// closeOnDone closes c if ctx is done before the returned stop function is
// called.
func closeOnDone(ctx context.Context, c io.Closer) (stop func()) {
	if ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// ctxErr prefers the context error over the error it caused.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return multierr.Append(ctx.Err(), err)
	}
	return err
}
