// Copyright (C) 2019 ScyllaDB

package kingssh

import (
	"context"
	"net"
	"sync"

	"github.com/melbahja/goph"
	"golang.org/x/crypto/ssh"
)

// Connector opens authenticated sessions to remote hosts. Every call to
// Connect creates a new connection, nothing is pooled or reused.
type Connector struct {
	config Config
	dial   DialContextFunc
	logger Logger

	// OnDial is a listener that may be set to track opening SSH connection to
	// the remote host. It is called for both successful and failed trials.
	OnDial func(host string, err error)
	// OnConnClose is a listener that may be set to track closing of SSH
	// connection. It is called exactly once per opened Session.
	OnConnClose func(host string)
}

// NewConnector creates a Connector, nil dial and logger are replaced with
// a plain net.Dialer and NopLogger.
func NewConnector(config Config, dial DialContextFunc, logger Logger) *Connector {
	if dial == nil {
		dial = ContextDialer(&net.Dialer{})
	}
	if logger == nil {
		logger = NopLogger
	}
	return &Connector{
		config: config,
		dial:   dial,
		logger: logger,
	}
}

// Connect validates credentials, dials the host and authenticates. It blocks
// until the handshake succeeds or fails, or ctx is done. The returned
// Session must be closed.
func (c *Connector) Connect(ctx context.Context, creds Credentials) (s *Session, err error) {
	defer func() {
		if c.OnDial != nil {
			c.OnDial(creds.Host, err)
		}
	}()

	if err := creds.Validate(); err != nil {
		return nil, err
	}
	config, err := c.config.clientConfig(creds)
	if err != nil {
		return nil, newError(ConnectionError, "SSH connection error", err)
	}

	addr := creds.addr(c.config.Port)
	c.logger.Println("Connecting to remote host...", "host", addr, "user", creds.Username)

	client, err := c.dial(ctx, "tcp", addr, config)
	if err != nil {
		return nil, newError(ConnectionError, "SSH connection error", err)
	}

	s = &Session{
		client: &goph.Client{Client: client},
		host:   addr,
		logger: c.logger,
		free: func() {
			if c.OnConnClose != nil {
				c.OnConnClose(creds.Host)
			}
		},
	}

	if c.config.KeepaliveEnabled() {
		s.done = make(chan struct{})
		go keepAlive(client, c.config.ServerAliveInterval, c.config.ServerAliveCountMax, s.done, c.logger)
	}

	c.logger.Println("Connected!", "host", addr)
	return s, nil
}

// Session is a single authenticated connection. It runs one command or one
// file transfer at a time and must be closed when no longer needed.
type Session struct {
	client *goph.Client
	host   string
	logger Logger

	done chan struct{}
	free func()

	closeOnce sync.Once
	closeErr  error
}

// Client returns ssh client instance.
func (s *Session) Client() *ssh.Client {
	return s.client.Client
}

// Host returns the HOST:PORT address the session is connected to.
func (s *Session) Host() string {
	return s.host
}

// Close closes the connection and frees the associated resources. It is safe
// to call Close many times, only the first call has an effect.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.done != nil {
			close(s.done)
		}
		s.closeErr = s.client.Close()
		if s.free != nil {
			s.free()
		}
		s.logger.Println("Connection closed", "host", s.host)
	})
	return s.closeErr
}
