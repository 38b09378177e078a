// Copyright (C) 2017 ScyllaDB

package kingssh

// Logger is the logging interface used by the package, messages are passed
// as a text followed by key value pairs. It is satisfied by *log.Logger and
// *logrus.Logger.
type Logger interface {
	Println(v ...interface{})
}

// NopLogger discards all messages.
var NopLogger Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Println(v ...interface{}) {}
