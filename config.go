// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Config specifies settings shared by all sessions opened by a Connector.
type Config struct {
	// HostKeyCallback verifies the server host key, if nil any key is
	// accepted.
	HostKeyCallback ssh.HostKeyCallback
	// Port is used when Credentials do not specify one.
	Port int
	// Timeout bounds the TCP connect and the SSH handshake, zero means no
	// timeout. Commands and transfers are never bounded by it.
	Timeout time.Duration
	// ServerAliveInterval specifies an interval to send keepalive messages
	// through the encrypted channel. Zero disables keepalive.
	ServerAliveInterval time.Duration
	// ServerAliveCountMax sets the number of keepalive messages that may be
	// sent without receiving any response before the connection is dropped.
	ServerAliveCountMax int
}

// DefaultConfig returns a Config initialized with default values.
func DefaultConfig() Config {
	return Config{
		HostKeyCallback:     ssh.InsecureIgnoreHostKey(),
		Port:                DefaultPort,
		ServerAliveInterval: 15 * time.Second,
		ServerAliveCountMax: 3,
	}
}

// WithKnownHosts returns a copy of c that verifies host keys against the
// given known_hosts files.
func (c Config) WithKnownHosts(files ...string) (Config, error) {
	cb, err := knownhosts.New(files...)
	if err != nil {
		return c, errors.Wrap(err, "read known hosts")
	}
	c.HostKeyCallback = cb
	return c, nil
}

// Validate checks if all the fields are properly set.
func (c Config) Validate() (err error) {
	if c.Port < 0 || c.Port > 65535 {
		err = multierr.Append(err, errors.Errorf("invalid port %d", c.Port))
	}
	if c.Timeout < 0 {
		err = multierr.Append(err, errors.New("negative timeout"))
	}
	if c.ServerAliveInterval < 0 {
		err = multierr.Append(err, errors.New("negative server alive interval"))
	}
	if c.ServerAliveCountMax < 0 {
		err = multierr.Append(err, errors.New("negative server alive count max"))
	}
	return
}

// KeepaliveEnabled returns true if SSH keepalive should be enabled.
func (c Config) KeepaliveEnabled() bool {
	return c.ServerAliveInterval > 0 && c.ServerAliveCountMax > 0
}

func (c Config) clientConfig(creds Credentials) (*ssh.ClientConfig, error) {
	auth, err := creds.authMethods()
	if err != nil {
		return nil, err
	}
	hostKeyCallback := c.HostKeyCallback
	if hostKeyCallback == nil {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	}
	return &ssh.ClientConfig{
		User:            creds.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         c.Timeout,
	}, nil
}
