// Copyright (C) 2017 ScyllaDB

package sshtest

import (
	"net"
	"sync"
	"testing"
)

// UnusedAddr returns a local address nothing listens on.
func UnusedAddr(t testing.TB) (host string, port int) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().(*net.TCPAddr)
	_ = l.Close()
	return addr.IP.String(), addr.Port
}

// Blackhole accepts TCP connections and never responds, an SSH handshake
// against it blocks until the connection is closed by the client.
func Blackhole(t testing.TB) (host string, port int) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	var (
		mu    sync.Mutex
		conns []net.Conn
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			c, err := l.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = l.Close()
		wg.Wait()
		mu.Lock()
		for _, c := range conns {
			_ = c.Close()
		}
		mu.Unlock()
	})

	addr := l.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}
