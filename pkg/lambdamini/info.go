// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import "strings"

// DeviceInfo is an immutable snapshot of the device identity battery.
// It is rebuilt from scratch on every query; fields whose responses
// were short or garbled carry their documented defaults (empty string
// or zero) rather than aborting the whole record.
type DeviceInfo struct {
	StatusCode      int     `cbor:"status_code"`
	OperatingHours  float64 `cbor:"operating_hours"`
	Manufacturer    string  `cbor:"manufacturer"`
	DeviceName      string  `cbor:"device_name"`
	SerialNumber    string  `cbor:"serial_number"`
	SoftwareVersion string  `cbor:"software_version"`
	Wavelength      int     `cbor:"wavelength_nm"`
	Features        string  `cbor:"features"`
	ACCActive       bool    `cbor:"acc_active"`
	APCActive       bool    `cbor:"apc_active"`
}

// parseControlMode inspects the DC? payload for the regulation mode
// markers. Presence of the substring anywhere in the payload is
// sufficient; both modes may be active or inactive simultaneously.
func parseControlMode(payload string) (accActive, apcActive bool) {
	return strings.Contains(payload, "ACC"), strings.Contains(payload, "APC")
}

// deviceInfo issues the nine identity queries and assembles the record.
// Caller holds the command lock.
func (c *Client) deviceInfo() (DeviceInfo, error) {
	queries := []string{
		CmdStatus,
		CmdHours,
		CmdManufacturer,
		CmdDeviceName,
		CmdSerialNumber,
		CmdSoftware,
		CmdWavelength,
		CmdFeatures,
		CmdControlMode,
	}

	responses := make(map[string]string, len(queries))
	for _, q := range queries {
		resp, err := Query(c.tr, q, c.cfg.PollTimeout)
		if err != nil {
			return DeviceInfo{}, err
		}
		responses[q] = resp
	}

	acc, apc := parseControlMode(payloadRemainder(responses[CmdControlMode]))

	return DeviceInfo{
		StatusCode:      hexPayload(responses[CmdStatus]),
		OperatingHours:  parseHours(payloadToken(responses[CmdHours])),
		Manufacturer:    payloadRemainder(responses[CmdManufacturer]),
		DeviceName:      payloadRemainder(responses[CmdDeviceName]),
		SerialNumber:    payloadRemainder(responses[CmdSerialNumber]),
		SoftwareVersion: payloadRemainder(responses[CmdSoftware]),
		Wavelength:      int(floatPayload(responses[CmdWavelength])),
		Features:        payloadRemainder(responses[CmdFeatures]),
		ACCActive:       acc,
		APCActive:       apc,
	}, nil
}
