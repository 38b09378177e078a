// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"bytes"
	"context"

	"golang.org/x/crypto/ssh"
)

// CommandResult holds output of a remote command.
type CommandResult struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is the remote exit status or -1 if the server did not report
	// one.
	ExitCode int
}

// Run executes command over a new exec channel and waits until the channel
// is closed. Stdout and stderr are collected independently. A non-zero exit
// status is not an error. There is no timeout, if ctx is done the remote
// process is killed and the output discarded.
func (s *Session) Run(ctx context.Context, command string) (*CommandResult, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return nil, newError(ExecError, "Failed to execute command", err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	s.logger.Println("Executing command", "host", s.host, "command", command)

	if err := sess.Start(command); err != nil {
		return nil, newError(ExecError, "Failed to execute command", err)
	}

	wait := make(chan error, 1)
	go func() {
		wait <- sess.Wait()
	}()

	select {
	case err = <-wait:
	case <-ctx.Done():
		_ = sess.Signal(ssh.SIGKILL)
		_ = sess.Close()
		return nil, newError(ExecError, "Command execution error", ctx.Err())
	}

	res := &CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	switch e := err.(type) {
	case nil:
	case *ssh.ExitError:
		res.ExitCode = e.ExitStatus()
	case *ssh.ExitMissingError:
		res.ExitCode = -1
	default:
		return nil, newError(ExecError, "Command execution error", err)
	}

	s.logger.Println("Command done", "host", s.host, "exit_code", res.ExitCode)
	return res, nil
}
