// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"fmt"
	"strings"
)

// FormatStatus renders the status flags as a short comma-separated
// summary, e.g. "ON, Interlock Open".
func FormatStatus(s Status) string {
	parts := []string{}
	if s.EmissionOn {
		parts = append(parts, "ON")
	} else {
		parts = append(parts, "OFF")
	}
	if s.InterlockOpen {
		parts = append(parts, "Interlock Open")
	}
	if s.ErrorPresent {
		parts = append(parts, "Error")
	}
	if !s.TemperatureOK {
		parts = append(parts, "Temp Warning")
	}
	return strings.Join(parts, ", ")
}

// FormatControlMode renders the ACC/APC flags the way the device
// documentation phrases them.
func FormatControlMode(info DeviceInfo) string {
	acc := "ACC inactive"
	if info.ACCActive {
		acc = "ACC active"
	}
	apc := "APC inactive"
	if info.APCActive {
		apc = "APC active"
	}
	return acc + "\n" + apc
}

// FormatDeviceInfo renders the consolidated identity record in a
// human-readable block.
func FormatDeviceInfo(info DeviceInfo) string {
	var b strings.Builder

	b.WriteString("Device Information\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Manufacturer:     %s\n", info.Manufacturer)
	fmt.Fprintf(&b, "Device Name:      %s\n", info.DeviceName)
	fmt.Fprintf(&b, "Serial Number:    %s\n", info.SerialNumber)
	fmt.Fprintf(&b, "Software Version: %s\n", info.SoftwareVersion)
	fmt.Fprintf(&b, "Wavelength:       %d nm\n", info.Wavelength)
	fmt.Fprintf(&b, "Operating Hours:  %.2f\n", info.OperatingHours)
	fmt.Fprintf(&b, "Status Code:      0x%02X\n", info.StatusCode)
	fmt.Fprintf(&b, "Features:         %s\n", info.Features)
	b.WriteString("Control Status:\n")
	for _, line := range strings.Split(FormatControlMode(info), "\n") {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	return b.String()
}

// FormatSnapshot renders one poll result as a multi-line summary.
func FormatSnapshot(s *Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s]\n", s.Taken.Format("15:04:05.000"))
	fmt.Fprintf(&b, "Status:      %s\n", FormatStatus(s.Status))
	fmt.Fprintf(&b, "Temperature: %.1f C (limits %.1f to %.1f)\n",
		s.Temperature.Current, s.Temperature.Min, s.Temperature.Max)
	fmt.Fprintf(&b, "Power:       %.2f mW (max %.2f)\n", s.Power.Current, s.Power.Max)
	if s.Err != nil {
		fmt.Fprintf(&b, "Error:       0x%02X %s\n", s.Err.Code, s.Err.Description)
	} else {
		b.WriteString("Error:       none\n")
	}

	return b.String()
}
