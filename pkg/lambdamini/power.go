// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import "fmt"

// Power holds the output power level and its valid range, all in mW.
// Min and Max form the clamp range for subsequent SetPower calls;
// Current is always the device-confirmed value, never the requested
// one.
type Power struct {
	Current float64 `cbor:"current_mw"`
	Min     float64 `cbor:"min_mw"`
	Max     float64 `cbor:"max_mw"`
}

// ClampRequest applies the range rule for a requested power level.
// Values above Max are forced to Max. Values below Min are forced to
// exactly 0.0, not to Min: an out-of-range-low request snaps the laser
// to off rather than to its minimum output.
func (p Power) ClampRequest(requested float64) float64 {
	if requested < p.Min {
		return 0.0
	}
	if requested > p.Max {
		return p.Max
	}
	return requested
}

// powerLevel reads the current output power. Caller holds the command
// lock.
func (c *Client) powerLevel() (float64, error) {
	resp, err := Query(c.tr, CmdPower, c.cfg.PollTimeout)
	if err != nil {
		return 0.0, err
	}
	return floatPayload(resp), nil
}

// maxPower reads the device power ceiling. Caller holds the command
// lock.
func (c *Client) maxPower() (float64, error) {
	resp, err := Query(c.tr, CmdMaxPower, c.cfg.PollTimeout)
	if err != nil {
		return 0.0, err
	}
	return floatPayload(resp), nil
}

// powerInfo assembles the full power record. The protocol exposes no
// minimum, so the floor is hardcoded at 0.0. Caller holds the command
// lock.
func (c *Client) powerInfo() (Power, error) {
	current, err := c.powerLevel()
	if err != nil {
		return Power{}, err
	}
	max, err := c.maxPower()
	if err != nil {
		return Power{}, err
	}
	return Power{Current: current, Min: 0.0, Max: max}, nil
}

// setPower clamps the requested level into the given bounds, sends the
// set command, and re-reads the current power so the returned record
// reflects what the device actually accepted. Caller holds the command
// lock.
func (c *Client) setPower(bounds Power, requested float64) (Power, error) {
	level := bounds.ClampRequest(requested)

	if err := send(c.tr, fmt.Sprintf(cmdSetPowerFmt, level)); err != nil {
		return bounds, err
	}

	current, err := c.powerLevel()
	if err != nil {
		return bounds, err
	}
	bounds.Current = current
	return bounds, nil
}
