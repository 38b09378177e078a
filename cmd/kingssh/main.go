// Copyright (C) 2017 ScyllaDB

// Command kingssh runs a batch of SSH commands and SFTP transfers described
// in a YAML file, one session per item.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	envFile string
	verbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kingssh",
	Short: "Run remote commands and transfer files over SSH",
	Long: `kingssh executes a batch of work items against a single SSH host.
Each item runs one command or transfers one file on its own connection.

Credentials are read from the environment (SSH_HOST, SSH_PORT, SSH_USERNAME,
SSH_AUTH_TYPE, SSH_PASSWORD, SSH_PRIVATE_KEY, SSH_PRIVATE_KEY_FILE,
SSH_PASSPHRASE), optionally loaded from an env file.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File with SSH_* variables, ignored if missing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log connection progress to stderr")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(schemaCmd)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if verbose {
		l.SetLevel(logrus.InfoLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}
