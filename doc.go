// Copyright (C) 2017 ScyllaDB

// Package kingssh runs a single remote command or a single whole-file SFTP
// transfer over a dedicated SSH session. Features:
//
//   - Context aware dial and execution,
//   - Password or private key authentication, never both,
//   - Keepalive enabled,
//   - Sessions and sub-channels are always closed, including on errors.
package kingssh
