// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import "time"

// Snapshot is one full poll of the device: identity, status flags,
// temperature, power, and the active error (nil when none). Snapshots
// are value records created fresh on each poll and discarded when the
// next one supersedes them.
type Snapshot struct {
	Taken       time.Time   `cbor:"taken"`
	Info        DeviceInfo  `cbor:"info"`
	Status      Status      `cbor:"status"`
	Temperature Temperature `cbor:"temperature"`
	Power       Power       `cbor:"power"`
	Err         *ErrorState `cbor:"error,omitempty"`
}

// Poll performs the full query battery and returns the aggregate. A
// transport failure surfaces as an error, but the snapshot from the
// last successful poll stays available via Last for display.
func (c *Client) Poll() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrNotConnected
	}
	return c.poll()
}

func (c *Client) poll() (*Snapshot, error) {
	info, err := c.deviceInfo()
	if err != nil {
		return nil, err
	}
	status, err := c.status()
	if err != nil {
		return nil, err
	}
	temp, err := c.temperature()
	if err != nil {
		return nil, err
	}
	power, err := c.powerInfo()
	if err != nil {
		return nil, err
	}
	errState, err := c.errorState()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Taken:       time.Now(),
		Info:        info,
		Status:      status,
		Temperature: temp,
		Power:       power,
		Err:         errState,
	}
	c.last = snap
	return snap, nil
}

// Last returns the snapshot from the most recent successful poll, or
// nil if none has completed yet. It is not invalidated by a later
// failed poll.
func (c *Client) Last() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
