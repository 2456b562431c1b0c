// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotConnected is returned by operations invoked after the transport
// has been closed.
var ErrNotConnected = errors.New("not connected")

// Client is the protocol client for one Lambda mini laser. It owns the
// transport and serializes every command exchange behind a single
// mutex: the wire protocol has no request identifiers, so exactly one
// command may be in flight per connection. Background polls and
// operator commands on the same Client therefore never interleave.
//
// A Client carries its own session state (connected, emission enabled,
// last successful poll); there are no package-level globals.
type Client struct {
	mu      sync.Mutex
	tr      Transport
	cfg     Config
	closed  bool
	enabled bool
	last    *Snapshot
}

// NewClient wraps an already-open transport. Used by front ends that
// open the connection themselves, e.g. over a serial-to-WebSocket
// bridge. Call Init before issuing other operations.
func NewClient(tr Transport, cfg Config) *Client {
	return &Client{tr: tr, cfg: cfg.withDefaults()}
}

// Connect opens the named serial port with the fixed line parameters,
// initializes the device, and performs one full poll. An empty port
// name is rejected before the transport is touched.
func Connect(portName string, cfg Config) (*Client, *Snapshot, error) {
	cfg = cfg.withDefaults()

	tr, err := OpenSerial(portName, cfg.BaudRate)
	if err != nil {
		return nil, nil, err
	}

	c := NewClient(tr, cfg)
	snap, err := c.Init()
	if err != nil {
		tr.Close()
		return nil, nil, err
	}
	return c, snap, nil
}

// Init sends the bare init command and performs one full poll,
// returning the aggregate device state. The device does not
// acknowledge init; the poll that follows doubles as the liveness
// check.
func (c *Client) Init() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrNotConnected
	}
	if err := send(c.tr, CmdInit); err != nil {
		return nil, err
	}
	return c.poll()
}

// Config returns the timing configuration in effect.
func (c *Client) Config() Config {
	return c.cfg
}

// Status reads and decodes the status bitmask. A short response
// decodes as all flags clear.
func (c *Client) Status() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Status{}, ErrNotConnected
	}
	return c.status()
}

func (c *Client) status() (Status, error) {
	resp, err := Query(c.tr, CmdStatus, c.cfg.PollTimeout)
	if err != nil {
		return Status{}, err
	}
	return DecodeStatus(hexPayload(resp)), nil
}

// Temperature reads the current head temperature and its limits.
func (c *Client) Temperature() (Temperature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Temperature{}, ErrNotConnected
	}
	return c.temperature()
}

// ErrorState reads the active error code. A nil result with a nil
// error means the device reports no error.
func (c *Client) ErrorState() (*ErrorState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrNotConnected
	}
	return c.errorState()
}

func (c *Client) errorState() (*ErrorState, error) {
	resp, err := Query(c.tr, CmdError, c.cfg.PollTimeout)
	if err != nil {
		return nil, err
	}
	return DecodeError(hexPayload(resp)), nil
}

// DeviceInfo issues the identity query battery and assembles the
// consolidated record.
func (c *Client) DeviceInfo() (DeviceInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return DeviceInfo{}, ErrNotConnected
	}
	return c.deviceInfo()
}

// PowerInfo reads the current power and the device-reported ceiling.
func (c *Client) PowerInfo() (Power, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Power{}, ErrNotConnected
	}
	return c.powerInfo()
}

// SetPower clamps the requested level into the given bounds, writes
// it, and returns the bounds with the device-confirmed current power.
func (c *Client) SetPower(bounds Power, requested float64) (Power, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return bounds, ErrNotConnected
	}
	return c.setPower(bounds, requested)
}

// Enable turns emission on: full poll, power forced to zero, emission
// command, settle delay. Forcing power to zero first prevents a stale
// power setting from producing a high-power pulse at turn-on. The
// returned snapshot is the state observed before emission started.
func (c *Client) Enable() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrNotConnected
	}

	snap, err := c.poll()
	if err != nil {
		return nil, err
	}

	if _, err := c.setPower(snap.Power, 0.0); err != nil {
		return nil, err
	}
	if err := send(c.tr, CmdEmissionOn); err != nil {
		return nil, fmt.Errorf("emission on: %w", err)
	}
	time.Sleep(c.cfg.SettleDelay)

	c.enabled = true
	return snap, nil
}

// Disable turns emission off: power forced to zero against the given
// bounds, emission-off command, settle delay. Safe to call when
// emission is already off.
func (c *Client) Disable(bounds Power) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrNotConnected
	}
	return c.disable(bounds)
}

func (c *Client) disable(bounds Power) error {
	if _, err := c.setPower(bounds, 0.0); err != nil {
		return err
	}
	if err := send(c.tr, CmdEmissionOff); err != nil {
		return fmt.Errorf("emission off: %w", err)
	}
	time.Sleep(c.cfg.SettleDelay)

	c.enabled = false
	return nil
}

// Enabled reports whether this session has turned emission on without
// a subsequent Disable.
func (c *Client) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Disconnect closes the transport. If emission was enabled in this
// session it is disabled first, so the port is never released with the
// beam on. Disconnect is safe to call twice.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	if c.enabled {
		bounds := Power{}
		if c.last != nil {
			bounds = c.last.Power
		}
		if err := c.disable(bounds); err != nil {
			// Close anyway; a dead transport must still be released.
			c.closed = true
			c.tr.Close()
			return err
		}
	}

	c.closed = true
	return c.tr.Close()
}
