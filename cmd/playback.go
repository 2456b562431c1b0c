// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

var playbackCmd = &cobra.Command{
	Use:   "playback <file>",
	Short: "Replay a recorded snapshot log",
	Long: `Read a CBOR snapshot log produced by 'monitor --record' and print each
snapshot in human-readable form. No device connection is required.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayback,
}

func init() {
	rootCmd.AddCommand(playbackCmd)
}

func runPlayback(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open record file: %w", err)
	}
	defer f.Close()

	reader := lambdamini.NewRecordReader(f)
	count := 0
	for {
		snap, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("record %d: %w", count+1, err)
		}
		fmt.Print(lambdamini.FormatSnapshot(snap))
		fmt.Println()
		count++
	}

	fmt.Printf("%d snapshot(s)\n", count)
	return nil
}
