// Copyright (C) 2017 ScyllaDB

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	kingssh "github.com/TheJamesKing/n8n-nodes-kingssh"
	"github.com/TheJamesKing/n8n-nodes-kingssh/node"
)

var runOpts struct {
	continueOnFail bool
	save           bool
	connectTimeout time.Duration
	knownHosts     string
	aliveInterval  time.Duration
	aliveCountMax  int
}

var runCmd = &cobra.Command{
	Use:   "run <batch.yaml>",
	Short: "Run a batch",
	Long: `Run every item of the batch in order and print one JSON result per line.

Example batch:

  items:
    - resource: command
      operation: execute
      command: uptime
    - resource: file
      operation: download
      remotePath: /etc/hostname
      localPath: ./hostname`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := runCmd.Flags()
	f.BoolVar(&runOpts.continueOnFail, "continue-on-fail", false, "Record failed items as errors and continue")
	f.BoolVar(&runOpts.save, "save", false, "Write downloaded files to their localPath")
	f.DurationVar(&runOpts.connectTimeout, "connect-timeout", 0, "Timeout of connect and handshake, 0 waits forever")
	f.StringVar(&runOpts.knownHosts, "known-hosts", "", "Verify host keys against this known_hosts file")
	f.DurationVar(&runOpts.aliveInterval, "server-alive-interval", kingssh.DefaultConfig().ServerAliveInterval, "Keepalive interval, 0 disables")
	f.IntVar(&runOpts.aliveCountMax, "server-alive-count-max", kingssh.DefaultConfig().ServerAliveCountMax, "Unanswered keepalives before disconnecting")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(envFile); err != nil {
		return err
	}
	creds, err := credentialsFromEnv()
	if err != nil {
		return err
	}
	items, err := readBatch(args[0])
	if err != nil {
		return err
	}

	config, err := buildConfig()
	if err != nil {
		return err
	}

	logger := newLogger()
	connector := kingssh.NewConnector(config, kingssh.ContextDialer(&net.Dialer{}), logger)
	p := node.NewProcessor(connector, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	results, err := p.ProcessBatch(ctx, items, creds, runOpts.continueOnFail)
	if err != nil {
		return err
	}

	if runOpts.save {
		if err := saveDownloads(items, results); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "encode result")
		}
	}
	return nil
}

func buildConfig() (kingssh.Config, error) {
	config := kingssh.DefaultConfig()
	config.Timeout = runOpts.connectTimeout
	config.ServerAliveInterval = runOpts.aliveInterval
	config.ServerAliveCountMax = runOpts.aliveCountMax

	if runOpts.knownHosts != "" {
		var err error
		if config, err = config.WithKnownHosts(runOpts.knownHosts); err != nil {
			return config, err
		}
	}
	if err := config.Validate(); err != nil {
		return config, errors.Wrap(err, "invalid config")
	}
	return config, nil
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the parameter schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := node.DefaultSchema().Marshal()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(b))
		return err
	},
}
