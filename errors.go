// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies the failure of a single work item.
type ErrorKind int

const (
	// ConnectionError is a transport level connect or authentication failure.
	ConnectionError ErrorKind = iota + 1
	// ExecError is a failure of the command channel.
	ExecError
	// SftpError is a failure to start SFTP or to read or write a remote file.
	SftpError
	// ValidationError reports parameters that can not be executed, it is
	// always returned before a connection is attempted.
	ValidationError
)

func (k ErrorKind) String() string {
	switch k {
	case ConnectionError:
		return "ConnectionError"
	case ExecError:
		return "ExecError"
	case SftpError:
		return "SftpError"
	case ValidationError:
		return "ValidationError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the error type returned by session and batch operations.
type Error struct {
	Kind ErrorKind
	// Op is the human readable description of what failed.
	Op string
	// Err is the underlying cause, it may be nil for validation errors.
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause returns the underlying cause, it makes Error work with errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

func newError(kind ErrorKind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// ValidationErrorf returns a ValidationError with a formatted message.
func ValidationErrorf(format string, args ...interface{}) error {
	return &Error{Kind: ValidationError, Op: fmt.Sprintf(format, args...)}
}

// IsKind reports whether any error in err's chain is an *Error of the given
// kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
