// Copyright (C) 2017 ScyllaDB

package kingssh_test

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
	"github.com/TheJamesKing/n8n-nodes-kingssh/internal/sshtest"
)

const (
	testUser     = "scylla"
	testPassword = "secret"
)

// testExec implements a few fake remote commands.
func testExec(command string, stdout, stderr io.Writer, done <-chan struct{}) int {
	switch {
	case strings.HasPrefix(command, "echo "):
		fmt.Fprintln(stdout, strings.TrimPrefix(command, "echo "))
		return 0
	case command == "fail":
		fmt.Fprint(stdout, "partial")
		fmt.Fprintln(stderr, "boom")
		return 3
	case strings.HasPrefix(command, "chunks "):
		for _, c := range strings.Split(strings.TrimPrefix(command, "chunks "), ",") {
			io.WriteString(stdout, c)
			io.WriteString(stderr, strings.ToUpper(c))
		}
		return 0
	case command == "sleep":
		<-done
		return -1
	case command == "noexit":
		fmt.Fprint(stdout, "bye")
		return -1
	default:
		fmt.Fprintf(stderr, "%s: command not found\n", command)
		return 127
	}
}

func startServer(t *testing.T) *sshtest.Server {
	t.Helper()
	return sshtest.Start(t, sshtest.Options{
		User:     testUser,
		Password: testPassword,
		Exec:     testExec,
	})
}

func passwordCredentials(s *sshtest.Server) kingssh.Credentials {
	return kingssh.Credentials{
		AuthenticationType: kingssh.PasswordAuth,
		Host:               s.Host(),
		Port:               s.Port(),
		Username:           testUser,
		Password:           testPassword,
	}
}

// connTracker counts dials and closes reported by Connector hooks.
type connTracker struct {
	mu     sync.Mutex
	dials  int
	failed int
	closed int
}

func (ct *connTracker) attach(c *kingssh.Connector) *kingssh.Connector {
	c.OnDial = func(host string, err error) {
		ct.mu.Lock()
		defer ct.mu.Unlock()
		ct.dials++
		if err != nil {
			ct.failed++
		}
	}
	c.OnConnClose = func(host string) {
		ct.mu.Lock()
		defer ct.mu.Unlock()
		ct.closed++
	}
	return c
}

func (ct *connTracker) counts() (dials, failed, closed int) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.dials, ct.failed, ct.closed
}

func testConfig() kingssh.Config {
	c := kingssh.DefaultConfig()
	c.Timeout = 5 * time.Second
	return c
}
