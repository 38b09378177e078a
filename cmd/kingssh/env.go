// Copyright (C) 2017 ScyllaDB

package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
)

// loadEnvFile loads variables from file without overriding the ones already
// set. A missing file is not an error.
func loadEnvFile(file string) error {
	if file == "" {
		return nil
	}
	if err := godotenv.Load(file); err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil
		}
		return errors.Wrapf(err, "load %s", file)
	}
	return nil
}

// credentialsFromEnv reads SSH_* variables.
func credentialsFromEnv() (kingssh.Credentials, error) {
	c := kingssh.Credentials{
		AuthenticationType: kingssh.AuthenticationType(os.Getenv("SSH_AUTH_TYPE")),
		Host:               os.Getenv("SSH_HOST"),
		Username:           os.Getenv("SSH_USERNAME"),
		Password:           os.Getenv("SSH_PASSWORD"),
		PrivateKey:         os.Getenv("SSH_PRIVATE_KEY"),
		Passphrase:         os.Getenv("SSH_PASSPHRASE"),
	}

	if v := os.Getenv("SSH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.Wrap(err, "parse SSH_PORT")
		}
		c.Port = port
	}

	if p := os.Getenv("SSH_PRIVATE_KEY_FILE"); p != "" && c.PrivateKey == "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return c, errors.Wrap(err, "read SSH_PRIVATE_KEY_FILE")
		}
		c.PrivateKey = string(b)
	}

	// A key without explicit type selects key authentication.
	if c.AuthenticationType == "" && c.PrivateKey != "" && c.Password == "" {
		c.AuthenticationType = kingssh.SSHKeyAuth
	}

	return c, c.Validate()
}
