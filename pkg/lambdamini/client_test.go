// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig keeps the protocol waits tiny so lifecycle tests run fast.
func testConfig() Config {
	return Config{
		PollTimeout:    time.Microsecond,
		CommandTimeout: time.Microsecond,
		ConnectTimeout: time.Microsecond,
		SettleDelay:    time.Microsecond,
		PollInterval:   time.Millisecond,
	}
}

// healthyDevice scripts a fully answering laser in a sane idle state.
func healthyDevice() map[string]string {
	return map[string]string{
		"S?":   "OK 10", // emission off, temperature ok
		"T?":   "OK 25.3",
		"LTN?": "OK 15.0",
		"LTP?": "OK 35.0",
		"E?":   "OK 0",
		"R?":   "OK 12:30",
		"DM?":  "OK Lambda Photonics GmbH",
		"DT?":  "OK Lambda mini",
		"DS?":  "OK LM-2041-0042",
		"DO?":  "OK 3.1.4",
		"DW?":  "OK 532",
		"DF?":  "OK CW MOD",
		"DC?":  "OK ACC APC",
		"P?":   "OK 0.00",
		"LP?":  "OK 50.00",
	}
}

func TestClientInit_FullSnapshot(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())

	snap, err := c.Init()
	require.NoError(t, err)
	require.NotNil(t, snap)

	// init goes out before the poll battery
	assert.Equal(t, "init", tr.writes[0])

	assert.Equal(t, 0x10, snap.Info.StatusCode)
	assert.InDelta(t, 12.5, snap.Info.OperatingHours, 1e-9)
	assert.Equal(t, "Lambda Photonics GmbH", snap.Info.Manufacturer)
	assert.Equal(t, "Lambda mini", snap.Info.DeviceName)
	assert.Equal(t, "LM-2041-0042", snap.Info.SerialNumber)
	assert.Equal(t, "3.1.4", snap.Info.SoftwareVersion)
	assert.Equal(t, 532, snap.Info.Wavelength)
	assert.Equal(t, "CW MOD", snap.Info.Features)
	assert.True(t, snap.Info.ACCActive)
	assert.True(t, snap.Info.APCActive)

	assert.False(t, snap.Status.EmissionOn)
	assert.True(t, snap.Status.TemperatureOK)

	assert.Equal(t, 25.3, snap.Temperature.Current)
	assert.Equal(t, 15.0, snap.Temperature.Min)
	assert.Equal(t, 35.0, snap.Temperature.Max)

	assert.Equal(t, 0.0, snap.Power.Current)
	assert.Equal(t, 0.0, snap.Power.Min)
	assert.Equal(t, 50.0, snap.Power.Max)

	assert.Nil(t, snap.Err)
}

func TestDeviceInfo_AckOnlyResponses(t *testing.T) {
	// A device answering every query with just the ack token must
	// yield a fully populated record of defaults, never a fault.
	responses := map[string]string{}
	for _, q := range []string{"S?", "T?", "LTN?", "LTP?", "E?", "R?",
		"DM?", "DT?", "DS?", "DO?", "DW?", "DF?", "DC?", "P?", "LP?"} {
		responses[q] = "OK"
	}
	tr := newFakeTransport(responses)
	c := NewClient(tr, testConfig())

	snap, err := c.Poll()
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Info.StatusCode)
	assert.Equal(t, 0.0, snap.Info.OperatingHours)
	assert.Equal(t, "", snap.Info.Manufacturer)
	assert.Equal(t, "", snap.Info.DeviceName)
	assert.Equal(t, "", snap.Info.SerialNumber)
	assert.Equal(t, "", snap.Info.SoftwareVersion)
	assert.Equal(t, 0, snap.Info.Wavelength)
	assert.Equal(t, "", snap.Info.Features)
	assert.False(t, snap.Info.ACCActive)
	assert.False(t, snap.Info.APCActive)

	assert.Equal(t, Status{}, snap.Status)
	assert.Equal(t, Temperature{}, snap.Temperature)
	assert.Equal(t, Power{}, snap.Power)
	assert.Nil(t, snap.Err)
}

func TestClient_DeviceReportedError(t *testing.T) {
	responses := healthyDevice()
	responses["E?"] = "OK 40"
	tr := newFakeTransport(responses)
	c := NewClient(tr, testConfig())

	snap, err := c.Poll()
	require.NoError(t, err)
	require.NotNil(t, snap.Err)
	assert.Equal(t, 0x40, snap.Err.Code)
	assert.Equal(t, "Current for laser head is too high", snap.Err.Description)
}

func TestSetPower_ClampAndConfirm(t *testing.T) {
	tests := []struct {
		name      string
		requested float64
		wireCmd   string
		echo      string
		confirmed float64
	}{
		{"in range", 25.0, "P=25", "OK 24.97", 24.97},
		{"above ceiling", 75.0, "P=50", "OK 50.00", 50.0},
		{"below floor", -5.0, "P=0", "OK 0.00", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responses := healthyDevice()
			responses["P?"] = tt.echo
			tr := newFakeTransport(responses)
			c := NewClient(tr, testConfig())

			bounds := Power{Min: 0.0, Max: 50.0}
			result, err := c.SetPower(bounds, tt.requested)
			require.NoError(t, err)

			assert.Contains(t, tr.writes, tt.wireCmd)
			// Current power is device-confirmed, not the request
			assert.Equal(t, tt.confirmed, result.Current)
			assert.Equal(t, bounds.Min, result.Min)
			assert.Equal(t, bounds.Max, result.Max)
		})
	}
}

func TestEnable_ZeroesPowerBeforeEmission(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())

	snap, err := c.Enable()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, c.Enabled())

	zeroIdx := slices.Index(tr.writes, "P=0")
	onIdx := slices.Index(tr.writes, "O=1")
	require.GreaterOrEqual(t, zeroIdx, 0, "power must be zeroed")
	require.GreaterOrEqual(t, onIdx, 0, "emission must be commanded on")
	assert.Less(t, zeroIdx, onIdx, "power must be zeroed before emission on")
}

func TestDisable_Idempotent(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())
	bounds := Power{Max: 50.0}

	require.NoError(t, c.Disable(bounds))
	require.NoError(t, c.Disable(bounds))

	status, err := c.Status()
	require.NoError(t, err)
	assert.False(t, status.EmissionOn)
	assert.Equal(t, 2, countWrites(tr.writes, "O=0"))
}

func TestDisconnect_DisablesWhenEnabled(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())

	_, err := c.Enable()
	require.NoError(t, err)

	require.NoError(t, c.Disconnect())
	assert.True(t, tr.closed)
	assert.Contains(t, tr.writes, "O=0")

	// Second disconnect is a no-op
	require.NoError(t, c.Disconnect())
}

func TestDisconnect_ClosesEvenIfDisableFails(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())

	_, err := c.Enable()
	require.NoError(t, err)

	tr.setWriteErr(errors.New("port yanked"))
	require.Error(t, c.Disconnect())
	assert.True(t, tr.closed)
}

func TestOperationsAfterDisconnect(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())
	require.NoError(t, c.Disconnect())

	_, err := c.Poll()
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = c.Status()
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = c.Enable()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestPoll_TransportErrorKeepsLastSnapshot(t *testing.T) {
	tr := newFakeTransport(healthyDevice())
	c := NewClient(tr, testConfig())

	first, err := c.Poll()
	require.NoError(t, err)

	tr.setReadErr(errors.New("read failed"))
	_, err = c.Poll()
	require.Error(t, err)

	// The last successful poll stays available for display.
	assert.Same(t, first, c.Last())
}

func TestConnect_EmptyPortRejected(t *testing.T) {
	_, _, err := Connect("", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func countWrites(writes []string, cmd string) int {
	n := 0
	for _, w := range writes {
		if w == cmd {
			n++
		}
	}
	return n
}
