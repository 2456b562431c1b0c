// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Query and display device identification",
	Long: `Connect to the laser, run the init sequence, and display the full
device identification record: manufacturer, device name, serial number,
software version, wavelength, operating hours and regulation modes.

Supports both serial and WebSocket bridge connections.`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
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

	fmt.Print(lambdamini.FormatDeviceInfo(snap.Info))
	return nil
}
