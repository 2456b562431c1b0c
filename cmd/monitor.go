// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

var (
	monitorInterval time.Duration
	recordPath      string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the laser continuously and log each snapshot",
	Long: `Connect to the laser and poll it on a fixed interval, logging status,
temperature and power on every cycle until interrupted.

With --record, every snapshot is additionally appended to a CBOR log
file that can be replayed later with the playback command.

Supports both serial and WebSocket bridge connections.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", 0, "Poll interval (default: device poll interval)")
	monitorCmd.Flags().StringVarP(&recordPath, "record", "r", "", "Append snapshots to a CBOR log file")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	c, snap, connInfo, err := openClient()
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Disconnect(); err != nil {
			slog.Warn("disconnect failed", "error", err)
		}
	}()

	slog.Info("connected", "connection", connInfo, "device", snap.Info.DeviceName, "serial", snap.Info.SerialNumber)

	var recorder *lambdamini.RecordWriter
	if recordPath != "" {
		f, err := os.OpenFile(recordPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open record file: %w", err)
		}
		defer f.Close()
		recorder = lambdamini.NewRecordWriter(f)
		slog.Info("recording snapshots", "file", recordPath)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poller := &lambdamini.Poller{
		Client:   c,
		Interval: monitorInterval,
		OnSnapshot: func(s *lambdamini.Snapshot) {
			logSnapshot(s)
			if recorder != nil {
				if err := recorder.Write(s); err != nil {
					slog.Error("failed to record snapshot", "error", err)
				}
			}
		},
		OnError: func(err error) {
			slog.Error("poll failed", "error", err)
		},
	}

	err = poller.Run(ctx)
	slog.Info("monitor stopped")
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func logSnapshot(s *lambdamini.Snapshot) {
	attrs := []any{
		"status", lambdamini.FormatStatus(s.Status),
		"temp_c", s.Temperature.Current,
		"power_mw", s.Power.Current,
	}
	if s.Err != nil {
		attrs = append(attrs, "error_code", fmt.Sprintf("0x%02X", s.Err.Code), "error", s.Err.Description)
		slog.Warn("poll", attrs...)
		return
	}
	slog.Info("poll", attrs...)
}
