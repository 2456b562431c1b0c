// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import "fmt"

// Status holds the four flags packed into the device status bitmask.
// A Status is always derived from a single S? response; flags from
// different polls are never mixed.
type Status struct {
	EmissionOn    bool
	InterlockOpen bool
	ErrorPresent  bool
	TemperatureOK bool
}

// DecodeStatus maps a status bitmask to its semantic flags. Bits
// outside the four documented positions are ignored, so firmware that
// sets additional bits decodes cleanly.
func DecodeStatus(code int) Status {
	return Status{
		EmissionOn:    code&StatusBitEmission != 0,
		InterlockOpen: code&StatusBitInterlockOpen != 0,
		ErrorPresent:  code&StatusBitError != 0,
		TemperatureOK: code&StatusBitTempOK != 0,
	}
}

// ErrorState is a device-reported error: a nonzero code from E? paired
// with its description. It is data, not a client failure; an active
// error does not block other operations.
type ErrorState struct {
	Code        int    `cbor:"code"`
	Description string `cbor:"description"`
}

func (e *ErrorState) Error() string {
	return e.Description
}

// errorDescriptions is the fixed firmware error table.
var errorDescriptions = map[int]string{
	ErrCodeHeadTooHot:      "Temperature of laser head is too high",
	ErrCodeHeadTooCold:     "Temperature of laser head is too low",
	ErrCodeSensorBroken:    "Temperature sensor connection is broken",
	ErrCodeSensorShorted:   "Temperature sensor cable is shorted",
	ErrCodeOvercurrent:     "Current for laser head is too high",
	ErrCodeInternalFailure: "Internal error - laser system cannot be activated",
}

// DecodeError maps an error code to its description. Code 0 means no
// error and returns nil. Codes outside the documented table get a
// generic description embedding the raw hex value.
func DecodeError(code int) *ErrorState {
	if code == ErrCodeNone {
		return nil
	}
	description, ok := errorDescriptions[code]
	if !ok {
		description = fmt.Sprintf("Unknown error: 0x%02X", code)
	}
	return &ErrorState{Code: code, Description: description}
}
