// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Poll the laser once and display its state",
	Long: `Connect to the laser, perform one full poll, and display the result:
emission and interlock flags, head temperature with limits, power level,
and any active error condition.

Supports both serial and WebSocket bridge connections.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	c, snap, connInfo, err := openClient()
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Disconnect(); err != nil {
			slog.Warn("disconnect failed", "error", err)
		}
	}()

	slog.Debug("connected", "connection", connInfo)

	fmt.Print(lambdamini.FormatSnapshot(snap))
	return nil
}
