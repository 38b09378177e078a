// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"time"
)

// aliveChecker is the part of *ssh.Client used by keepAlive.
type aliveChecker interface {
	SendRequest(name string, wantReply bool, payload []byte) (bool, []byte, error)
	Close() error
}

// keepAlive keeps an ssh connection alive sending keepalive pings
// every interval. The connection outlives up to maxErrors consecutive
// failures, then it is closed. Done channel shuts the sidecar goroutine down.
func keepAlive(client aliveChecker, interval time.Duration, maxErrors int, done <-chan struct{}, logger Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()

	n := 0
	for {
		select {
		case <-t.C:
			if err := serverAliveCheck(client); err == nil {
				n = 0
				continue
			}

			n++

			if n >= maxErrors {
				logger.Println("Server not responding to keepalive, closing connection", "failures", n)
				_ = client.Close()
				return
			}
		case <-done:
			return
		}
	}
}

func serverAliveCheck(client aliveChecker) (err error) {
	// This is ported version of Open SSH client server_alive_check function
	// see: https://github.com/openssh/openssh-portable/blob/b5e412a8993ad17b9e1141c78408df15d3d987e1/clientloop.c#L482
	_, _, err = client.SendRequest("keepalive@openssh.com", true, nil)
	return
}
