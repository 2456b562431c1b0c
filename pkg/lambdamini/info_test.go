// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseControlMode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		acc     bool
		apc     bool
	}{
		{"both active", "ACC APC", true, true},
		{"acc only", "ACC", true, false},
		{"apc only", "APC", false, true},
		{"neither", "", false, false},
		{"embedded in longer payload", "mode ACC enabled", true, false},
		{"unrelated text", "standby", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, apc := parseControlMode(tt.payload)
			assert.Equal(t, tt.acc, acc)
			assert.Equal(t, tt.apc, apc)
		})
	}
}

func TestDeviceInfo_PartialResponses(t *testing.T) {
	// A device that answers some identity queries and stays silent on
	// others yields a record with the answered fields populated and the
	// rest defaulted.
	responses := healthyDevice()
	delete(responses, "DM?")
	delete(responses, "DW?")
	responses["R?"] = "OK garbage"

	tr := newFakeTransport(responses)
	c := NewClient(tr, testConfig())

	info, err := c.DeviceInfo()
	assert.NoError(t, err)
	assert.Equal(t, "", info.Manufacturer)
	assert.Equal(t, 0, info.Wavelength)
	assert.Equal(t, 0.0, info.OperatingHours)
	assert.Equal(t, "Lambda mini", info.DeviceName)
	assert.Equal(t, "LM-2041-0042", info.SerialNumber)
}
