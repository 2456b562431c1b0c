// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

// Package lambdamini provides a Go client for the Lambda mini laser
// serial command protocol.
//
// The protocol is textual and strictly call/response: each command is an
// ASCII string terminated with CR+LF, and each response is a line of
// whitespace-separated tokens where token 0 is an acknowledgement code
// and the remaining tokens carry the payload. The package provides
// command encoding, response parsing, status/error decoding, and the
// ordered lifecycle sequences (initialize, enable, disable) with the
// settle delays the hardware requires.
package lambdamini

import "time"

// Query commands
const (
	CmdStatus       = "S?"   // status bitmask (hex)
	CmdTemperature  = "T?"   // current head temperature
	CmdTempMin      = "LTN?" // temperature lower limit
	CmdTempMax      = "LTP?" // temperature upper limit
	CmdError        = "E?"   // active error code (hex)
	CmdHours        = "R?"   // operating hours as H:MM
	CmdManufacturer = "DM?"
	CmdDeviceName   = "DT?"
	CmdSerialNumber = "DS?"
	CmdSoftware     = "DO?"
	CmdWavelength   = "DW?" // emission wavelength in nm
	CmdFeatures     = "DF?"
	CmdControlMode  = "DC?" // free text, may contain "ACC" and/or "APC"
	CmdPower        = "P?"  // current output power in mW
	CmdMaxPower     = "LP?" // maximum output power in mW
)

// Set/lifecycle commands
const (
	CmdInit        = "init"
	CmdEmissionOn  = "O=1"
	CmdEmissionOff = "O=0"
	cmdSetPowerFmt = "P=%v"
)

// Status bitmask bits (response to S?, parsed as hex)
const (
	StatusBitEmission      = 0x01
	StatusBitInterlockOpen = 0x04
	StatusBitError         = 0x08
	StatusBitTempOK        = 0x10
)

// Error codes (response to E?, parsed as hex). The table is fixed by the
// device firmware and must be reproduced verbatim.
const (
	ErrCodeNone            = 0x00
	ErrCodeHeadTooHot      = 0x01
	ErrCodeHeadTooCold     = 0x02
	ErrCodeSensorBroken    = 0x04
	ErrCodeSensorShorted   = 0x08
	ErrCodeOvercurrent     = 0x40
	ErrCodeInternalFailure = 0x80
)

// Serial line parameters. The Lambda mini speaks 57600 baud, 8 data
// bits, no parity, one stop bit.
const (
	DefaultBaudRate = 57600
)

// Protocol timing defaults. The settle delay and poll interval are
// hardware settling requirements, not tuning knobs.
const (
	// DefaultPollTimeout is the fixed wait before draining the receive
	// buffer after a status-class query.
	DefaultPollTimeout = 100 * time.Millisecond

	// DefaultCommandTimeout bounds lifecycle commands, which the device
	// answers much more slowly than status queries.
	DefaultCommandTimeout = 5 * time.Second

	// DefaultConnectTimeout bounds the initial exchange after opening
	// the port.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultSettleDelay is the wait after an emission state change
	// before the device accepts further commands.
	DefaultSettleDelay = 1 * time.Second

	// DefaultPollInterval is the recommended spacing between recurring
	// background polls.
	DefaultPollInterval = 10 * time.Second
)

// Config holds per-connection protocol timing. Zero values are replaced
// with the defaults above.
type Config struct {
	BaudRate       int
	PollTimeout    time.Duration
	CommandTimeout time.Duration
	ConnectTimeout time.Duration
	SettleDelay    time.Duration
	PollInterval   time.Duration
}

// DefaultConfig returns the protocol-mandated timing defaults.
func DefaultConfig() Config {
	return Config{
		BaudRate:       DefaultBaudRate,
		PollTimeout:    DefaultPollTimeout,
		CommandTimeout: DefaultCommandTimeout,
		ConnectTimeout: DefaultConnectTimeout,
		SettleDelay:    DefaultSettleDelay,
		PollInterval:   DefaultPollInterval,
	}
}

// withDefaults fills zero fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = DefaultCommandTimeout
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = DefaultSettleDelay
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}
