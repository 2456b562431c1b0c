// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStatus_AllCodes(t *testing.T) {
	// Decoding is a pure bitmask function; verify every code up to a
	// full byte against the bit definitions.
	for code := 0; code <= 0xFF; code++ {
		s := DecodeStatus(code)
		assert.Equal(t, code&StatusBitEmission != 0, s.EmissionOn, "code 0x%02X", code)
		assert.Equal(t, code&StatusBitInterlockOpen != 0, s.InterlockOpen, "code 0x%02X", code)
		assert.Equal(t, code&StatusBitError != 0, s.ErrorPresent, "code 0x%02X", code)
		assert.Equal(t, code&StatusBitTempOK != 0, s.TemperatureOK, "code 0x%02X", code)
	}
}

func TestDecodeStatus_Scenarios(t *testing.T) {
	// 0x15 = emission + interlock + temperature-ok
	s := DecodeStatus(0x15)
	assert.True(t, s.EmissionOn)
	assert.True(t, s.InterlockOpen)
	assert.False(t, s.ErrorPresent)
	assert.True(t, s.TemperatureOK)

	// 0x0F = emission + interlock + error, temperature bit clear
	s = DecodeStatus(0x0F)
	assert.True(t, s.EmissionOn)
	assert.True(t, s.InterlockOpen)
	assert.True(t, s.ErrorPresent)
	assert.False(t, s.TemperatureOK)

	// Undocumented bits are ignored
	s = DecodeStatus(0xE2)
	assert.Equal(t, Status{}, s)
}

func TestDecodeError_DocumentedCodes(t *testing.T) {
	tests := []struct {
		code        int
		description string
	}{
		{ErrCodeHeadTooHot, "Temperature of laser head is too high"},
		{ErrCodeHeadTooCold, "Temperature of laser head is too low"},
		{ErrCodeSensorBroken, "Temperature sensor connection is broken"},
		{ErrCodeSensorShorted, "Temperature sensor cable is shorted"},
		{ErrCodeOvercurrent, "Current for laser head is too high"},
		{ErrCodeInternalFailure, "Internal error - laser system cannot be activated"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("0x%02X", tt.code), func(t *testing.T) {
			e := DecodeError(tt.code)
			require.NotNil(t, e)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.description, e.Description)
		})
	}
}

func TestDecodeError_NoError(t *testing.T) {
	assert.Nil(t, DecodeError(0))
}

func TestDecodeError_UnknownCodes(t *testing.T) {
	for _, code := range []int{0x03, 0x10, 0x33, 0xFF} {
		e := DecodeError(code)
		require.NotNil(t, e, "code 0x%02X", code)
		assert.Equal(t, fmt.Sprintf("Unknown error: 0x%02X", code), e.Description)
	}
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "OFF, Temp Warning", FormatStatus(Status{}))
	assert.Equal(t, "ON", FormatStatus(Status{EmissionOn: true, TemperatureOK: true}))
	assert.Equal(t, "ON, Interlock Open, Error, Temp Warning",
		FormatStatus(Status{EmissionOn: true, InterlockOpen: true, ErrorPresent: true}))
}
