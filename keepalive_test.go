// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeChecker struct {
	mu       sync.Mutex
	fail     bool
	requests int
	closed   chan struct{}
}

func newFakeChecker(fail bool) *fakeChecker {
	return &fakeChecker{fail: fail, closed: make(chan struct{})}
}

func (f *fakeChecker) SendRequest(name string, wantReply bool, payload []byte) (bool, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.fail {
		return false, nil, errors.New("no reply")
	}
	return true, nil, nil
}

func (f *fakeChecker) Close() error {
	close(f.closed)
	return nil
}

func TestKeepAliveClosesDeadConnection(t *testing.T) {
	f := newFakeChecker(true)
	done := make(chan struct{})
	defer close(done)

	go keepAlive(f, time.Millisecond, 3, done, NopLogger)

	select {
	case <-f.closed:
	case <-time.After(5 * time.Second):
		t.Fatal("connection not closed")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.requests != 3 {
		t.Fatalf("requests = %d, expected 3", f.requests)
	}
}

func TestKeepAliveStopsOnDone(t *testing.T) {
	f := newFakeChecker(false)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		keepAlive(f, time.Millisecond, 1, done, NopLogger)
		close(exited)
	}()

	time.Sleep(10 * time.Millisecond)
	close(done)

	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("keepalive did not stop")
	}
	select {
	case <-f.closed:
		t.Fatal("healthy connection closed")
	default:
	}
}
