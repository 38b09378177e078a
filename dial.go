// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"context"
	"net"
	"time"

	"golang.org/x/crypto/ssh"
)

// DialContextFunc creates SSH connection to host with a given address.
//
// For TCP networks, the addr has the form "host:port". If the host is a
// literal IPv6 address it must be enclosed in square brackets, as in
// "[2001:db8::1]:22". For more info see net.Dial.
type DialContextFunc func(ctx context.Context, network, addr string, config *ssh.ClientConfig) (*ssh.Client, error)

// ContextDialer returns DialContextFunc based on dialer to make net connections.
// The SSH handshake runs in the background and the call returns on whichever
// comes first: handshake success, handshake failure or ctx done.
func ContextDialer(dialer *net.Dialer) DialContextFunc {
	return contextDialer{dialer}.DialContext
}

type contextDialer struct {
	dialer *net.Dialer
}

type handshakeResult struct {
	client *ssh.Client
	err    error
}

func (d contextDialer) DialContext(ctx context.Context, network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
	dialer := *d.dialer
	if config.Timeout > 0 && (dialer.Timeout == 0 || config.Timeout < dialer.Timeout) {
		dialer.Timeout = config.Timeout
	}

	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	if config.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(config.Timeout))
	}

	wait := make(chan handshakeResult, 1)
	go func() {
		sshConn, ch, rs, err := ssh.NewClientConn(conn, addr, config)
		if err != nil {
			wait <- handshakeResult{err: err}
			return
		}
		wait <- handshakeResult{client: ssh.NewClient(sshConn, ch, rs)}
	}()

	select {
	case r := <-wait:
		if r.err != nil {
			_ = conn.Close()
			return nil, r.err
		}
		if config.Timeout > 0 {
			_ = conn.SetDeadline(time.Time{})
		}
		return r.client, nil
	case <-ctx.Done():
		_ = conn.Close()
		// Handshake may have completed concurrently, do not leak the client.
		go func() {
			if r := <-wait; r.client != nil {
				_ = r.client.Close()
			}
		}()
		return nil, ctx.Err()
	}
}
