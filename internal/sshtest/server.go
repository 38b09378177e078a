// Copyright (C) 2017 ScyllaDB

// Package sshtest provides an in-process SSH server for tests. It accepts
// password and public key authentication, runs exec requests through an
// ExecFunc and serves the sftp subsystem from an in-memory filesystem.
package sshtest

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// ExecFunc handles an exec request. Output is written to stdout and stderr,
// done is closed when the client closes the channel. Returning a negative
// status closes the channel without sending exit-status.
type ExecFunc func(command string, stdout, stderr io.Writer, done <-chan struct{}) (status int)

// Options configure Server.
type Options struct {
	User          string
	Password      string
	AuthorizedKey ssh.PublicKey
	Exec          ExecFunc
}

// Server is an SSH server listening on a random local port.
type Server struct {
	opts     Options
	config   *ssh.ServerConfig
	hostKey  ssh.Signer
	listener net.Listener
	fs       sftp.Handlers

	mu                sync.Mutex
	conns             map[*ssh.ServerConn]struct{}
	handshakes        int
	passwordAttempts  int
	publicKeyAttempts int

	wg sync.WaitGroup
}

// Start starts a server, it is stopped on test cleanup.
func Start(t testing.TB, opts Options) *Server {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	hostKey, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	s := &Server{
		opts:     opts,
		hostKey:  hostKey,
		listener: l,
		fs:       sftp.InMemHandler(),
		conns:    make(map[*ssh.ServerConn]struct{}),
	}
	s.config = &ssh.ServerConfig{
		PasswordCallback:  s.checkPassword,
		PublicKeyCallback: s.checkPublicKey,
	}
	s.config.AddHostKey(hostKey)

	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.Close)

	return s
}

// Host returns the server IP address.
func (s *Server) Host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

// Port returns the server port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Addr returns HOST:PORT of the server.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.Host(), strconv.Itoa(s.Port()))
}

// HostKey returns the public host key presented to clients.
func (s *Server) HostKey() ssh.PublicKey {
	return s.hostKey.PublicKey()
}

// Handshakes returns the number of successfully authenticated connections.
func (s *Server) Handshakes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handshakes
}

// PasswordAttempts returns how many times clients offered a password.
func (s *Server) PasswordAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passwordAttempts
}

// PublicKeyAttempts returns how many times clients offered a public key.
func (s *Server) PublicKeyAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.publicKeyAttempts
}

// Close stops the server and drops all connections.
func (s *Server) Close() {
	_ = s.listener.Close()
	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) checkPassword(c ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
	s.mu.Lock()
	s.passwordAttempts++
	s.mu.Unlock()

	if s.opts.Password != "" && c.User() == s.opts.User && string(password) == s.opts.Password {
		return nil, nil
	}
	return nil, errors.New("password rejected")
}

func (s *Server) checkPublicKey(c ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
	s.mu.Lock()
	s.publicKeyAttempts++
	s.mu.Unlock()

	if s.opts.AuthorizedKey != nil && c.User() == s.opts.User && bytes.Equal(key.Marshal(), s.opts.AuthorizedKey.Marshal()) {
		return nil, nil
	}
	return nil, errors.New("public key rejected")
}

func (s *Server) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

func (s *Server) handleConn(nc net.Conn) {
	conn, chans, reqs, err := ssh.NewServerConn(nc, s.config)
	if err != nil {
		_ = nc.Close()
		return
	}

	s.mu.Lock()
	s.handshakes++
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	go ssh.DiscardRequests(reqs)

	var wg sync.WaitGroup
	for nch := range chans {
		wg.Add(1)
		go func(nch ssh.NewChannel) {
			defer wg.Done()
			s.handleChannel(nch)
		}(nch)
	}
	wg.Wait()
}

func (s *Server) handleChannel(nch ssh.NewChannel) {
	if nch.ChannelType() != "session" {
		_ = nch.Reject(ssh.UnknownChannelType, "unknown channel type")
		return
	}
	ch, reqs, err := nch.Accept()
	if err != nil {
		return
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	for req := range reqs {
		switch req.Type {
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || s.opts.Exec == nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.exec(ch, payload.Command, done)
			}()
		case "subsystem":
			var payload struct{ Name string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || payload.Name != "sftp" {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.serveSFTP(ch)
			}()
		default:
			if req.WantReply {
				_ = req.Reply(false, nil)
			}
		}
	}
	close(done)
	wg.Wait()
	_ = ch.Close()
}

func (s *Server) exec(ch ssh.Channel, command string, done <-chan struct{}) {
	defer ch.Close()

	status := s.opts.Exec(command, ch, ch.Stderr(), done)
	if status < 0 {
		return
	}
	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{uint32(status)}))
}

func (s *Server) serveSFTP(ch ssh.Channel) {
	srv := sftp.NewRequestServer(ch, s.fs)
	_ = srv.Serve()
	_ = srv.Close()
}
