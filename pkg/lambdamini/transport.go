// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// drainReadTimeout is the per-read timeout used while draining bytes
// already sitting in the receive buffer.
const drainReadTimeout = 20 * time.Millisecond

// Transport is the byte-stream connection to the laser. The protocol
// client requires exactly three capabilities: write bytes, read whatever
// is available after a fixed wait, and close.
//
// ReadAvailable blocks for the given wait, then returns every byte that
// has arrived. A wait that elapses with nothing received returns an
// empty slice and no error; the caller is responsible for choosing a
// wait appropriate to the command it sent.
type Transport interface {
	io.Writer
	io.Closer
	ReadAvailable(wait time.Duration) ([]byte, error)
}

// serialTransport wraps a serial port opened with the Lambda mini line
// parameters.
type serialTransport struct {
	port serial.Port
}

// OpenSerial opens a serial connection with the fixed Lambda mini
// parameters: the configured baud rate, 8 data bits, no parity, one
// stop bit.
func OpenSerial(portName string, baudRate int) (Transport, error) {
	if portName == "" {
		return nil, fmt.Errorf("serial port name must not be empty")
	}
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}

	return &serialTransport{port: port}, nil
}

func (t *serialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

// ReadAvailable sleeps for the fixed wait, then drains the receive
// buffer. go.bug.st/serial reports a timed-out read as n == 0 with a
// nil error, which terminates the drain loop.
func (t *serialTransport) ReadAvailable(wait time.Duration) ([]byte, error) {
	time.Sleep(wait)

	if err := t.port.SetReadTimeout(drainReadTimeout); err != nil {
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	var out []byte
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("serial read failed: %w", err)
		}
		if n == 0 {
			return out, nil
		}
		out = append(out, buf[:n]...)
	}
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}
