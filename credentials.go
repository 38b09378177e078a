// Copyright (C) 2017 ScyllaDB

package kingssh

import (
	"net"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// AuthenticationType selects which secret of Credentials is used.
type AuthenticationType string

// Supported authentication types.
const (
	PasswordAuth AuthenticationType = "password"
	SSHKeyAuth   AuthenticationType = "sshKey"
)

// DefaultPort is the SSH port used when neither Credentials nor Config set
// one.
const DefaultPort = 22

// Credentials identify a remote host and the user to log in as. Only one of
// Password and PrivateKey is used, selected by AuthenticationType.
type Credentials struct {
	AuthenticationType AuthenticationType `json:"authenticationType" yaml:"authenticationType"`

	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`

	// Password is used iff AuthenticationType is PasswordAuth.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// PrivateKey is a PEM encoded key used iff AuthenticationType is SSHKeyAuth.
	PrivateKey string `json:"privateKey,omitempty" yaml:"privateKey,omitempty"`
	// Passphrase decrypts PrivateKey, it's ignored for password authentication.
	Passphrase string `json:"passphrase,omitempty" yaml:"passphrase,omitempty"`
}

func (c Credentials) authType() AuthenticationType {
	if c.AuthenticationType == "" {
		return PasswordAuth
	}
	return c.AuthenticationType
}

// Validate checks that all fields required by the authentication type are
// set.
func (c Credentials) Validate() error {
	if c.Host == "" {
		return ValidationErrorf("credentials: host is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return ValidationErrorf("credentials: invalid port %d", c.Port)
	}
	if c.Username == "" {
		return ValidationErrorf("credentials: username is required")
	}

	switch c.authType() {
	case PasswordAuth:
		if c.Password == "" {
			return ValidationErrorf("credentials: password is required for %s authentication", PasswordAuth)
		}
	case SSHKeyAuth:
		if c.PrivateKey == "" {
			return ValidationErrorf("credentials: private key is required for %s authentication", SSHKeyAuth)
		}
	default:
		return ValidationErrorf("credentials: unsupported authentication type %q", c.AuthenticationType)
	}
	return nil
}

// authMethods returns exactly one auth method, never mixing password and
// public key authentication.
func (c Credentials) authMethods() ([]ssh.AuthMethod, error) {
	switch c.authType() {
	case PasswordAuth:
		return []ssh.AuthMethod{ssh.Password(c.Password)}, nil
	case SSHKeyAuth:
		signer, err := parsePrivateKey([]byte(c.PrivateKey), c.Passphrase)
		if err != nil {
			return nil, err
		}
		return []ssh.AuthMethod{ssh.PublicKeys(signer)}, nil
	default:
		return nil, errors.Errorf("unsupported authentication type %q", c.AuthenticationType)
	}
}

func parsePrivateKey(pemBytes []byte, passphrase string) (ssh.Signer, error) {
	var (
		signer ssh.Signer
		err    error
	)
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(pemBytes, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(pemBytes)
	}
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return signer, nil
}

func (c Credentials) addr(defaultPort int) string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}
