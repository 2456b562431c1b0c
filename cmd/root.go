// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"log/slog"
	"os"

	"github.com/phsym/console-slog"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lumastat",
	Short: "Lambda mini laser controller",
	Long: `Lumastat - A CLI tool for controlling and monitoring Lambda mini laser sources.

Provides commands for device identification, status polling, long-running
monitoring with snapshot recording, and an interactive control TUI.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 57600]
  WebSocket: --url ws://host/path [--username user]  (serial-over-WebSocket bridge)

For WebSocket authentication, the password is read from the LUMASTAT_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 57600, "Baud rate (serial only)")

	// WebSocket bridge flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// setupLogging installs the console handler as the default logger.
// Logs go to stderr so recorded snapshot streams on stdout stay clean.
func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
