// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lambda Photonics

package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lambdaphotonics/lumastat/pkg/lambdamini"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Interactive TUI for controlling the laser",
	Long: `Control a Lambda mini laser via an interactive terminal UI.

Features:
  - Device identification panel
  - Periodic status, temperature and power display
  - Emission on/off with automatic power zeroing
  - Power adjustment by step keys or direct entry
  - Event logging

Emission is always disabled before the TUI exits, so the port is never
released with the beam on.

Supports both serial and WebSocket bridge connections.`,
	RunE: runControl,
}

func init() {
	rootCmd.AddCommand(controlCmd)
}

func runControl(cmd *cobra.Command, args []string) error {
	c, snap, connInfo, err := openClient()
	if err != nil {
		return err
	}

	m := initialControlModel(c, snap, connInfo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, runErr := p.Run()

	// Disconnect disables emission first if this session enabled it.
	if err := c.Disconnect(); err != nil {
		if runErr == nil {
			return fmt.Errorf("disconnect: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("TUI error: %v", runErr)
	}
	return nil
}

//////////////////////////////////////////////////////////////
// Device Commands
//////////////////////////////////////////////////////////////

// pollCmd runs one full poll off the UI goroutine. The client lock
// serializes it against any concurrent operator command.
func pollCmd(c *lambdamini.Client) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.Poll()
		return pollResultMsg{snap: snap, err: err}
	}
}

// enableCmd turns emission on. If the pre-emission snapshot carried no
// power ceiling the power info is read again afterwards; some firmware
// reports the ceiling only while emission is armed.
func enableCmd(c *lambdamini.Client) tea.Cmd {
	return func() tea.Msg {
		snap, err := c.Enable()
		if err != nil {
			return opResultMsg{desc: "emission on", err: err}
		}

		power := snap.Power
		if power.Max == 0 {
			if p, err := c.PowerInfo(); err == nil {
				power = p
			}
		}
		return opResultMsg{desc: "emission on", power: &power}
	}
}

func disableCmd(c *lambdamini.Client, bounds lambdamini.Power) tea.Cmd {
	return func() tea.Msg {
		if err := c.Disable(bounds); err != nil {
			return opResultMsg{desc: "emission off", err: err}
		}
		zeroed := bounds
		zeroed.Current = 0
		return opResultMsg{desc: "emission off", power: &zeroed}
	}
}

func setPowerCmd(c *lambdamini.Client, bounds lambdamini.Power, level float64) tea.Cmd {
	return func() tea.Msg {
		power, err := c.SetPower(bounds, level)
		if err != nil {
			return opResultMsg{desc: "set power", err: err}
		}
		return opResultMsg{desc: fmt.Sprintf("power set to %.2f mW", power.Current), power: &power}
	}
}
