// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Query sends a single command over the transport and returns the
// trimmed response text. The command is terminated with CR+LF; the
// response is whatever arrived within the fixed wait. An empty string
// means the device did not answer in time.
//
// There is no retry or resynchronization at this layer. The protocol
// has no request identifiers, so correctness depends on the caller
// serializing commands and picking waits long enough for the command
// class (status queries ~100ms, lifecycle commands up to 5s).
func Query(t Transport, command string, wait time.Duration) (string, error) {
	if _, err := t.Write([]byte(command + "\r\n")); err != nil {
		return "", fmt.Errorf("write %q failed: %w", command, err)
	}

	raw, err := t.ReadAvailable(wait)
	if err != nil {
		return "", fmt.Errorf("read after %q failed: %w", command, err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// send writes a command without waiting for a response. Used for
// commands the device does not acknowledge (init, emission on/off).
func send(t Transport, command string) error {
	if _, err := t.Write([]byte(command + "\r\n")); err != nil {
		return fmt.Errorf("write %q failed: %w", command, err)
	}
	return nil
}

// Response parsing helpers. By convention token 0 of a response is an
// acknowledgement code and token 1 (or the remainder of the line) is
// the payload. Every helper degrades to a default on a short or
// malformed response instead of failing, so one garbled field never
// poisons an aggregate poll.

// payloadToken returns token 1 of the response, or "" if the response
// has fewer than two tokens.
func payloadToken(response string) string {
	fields := strings.Fields(response)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// payloadRemainder returns everything after token 0 with surrounding
// whitespace trimmed, preserving internal spacing for multi-word
// payloads such as manufacturer names.
func payloadRemainder(response string) string {
	trimmed := strings.TrimSpace(response)
	i := strings.IndexFunc(trimmed, isSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(trimmed[i:])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// floatPayload parses token 1 as a decimal number, 0.0 on a short or
// unparseable response.
func floatPayload(response string) float64 {
	v, err := strconv.ParseFloat(payloadToken(response), 64)
	if err != nil {
		return 0.0
	}
	return v
}

// lastFloatToken parses the final token as a decimal number, 0.0 on an
// empty or unparseable response. Temperature limit responses put the
// reading last.
func lastFloatToken(response string) float64 {
	fields := strings.Fields(response)
	if len(fields) == 0 {
		return 0.0
	}
	v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
	if err != nil {
		return 0.0
	}
	return v
}

// hexPayload parses token 1 as a hexadecimal integer, 0 on a short or
// unparseable response. Status and error codes are transmitted in hex.
func hexPayload(response string) int {
	v, err := strconv.ParseInt(payloadToken(response), 16, 64)
	if err != nil {
		return 0
	}
	return int(v)
}

// parseHours converts an H:MM duration string into decimal hours. A
// payload without the colon separator degrades to zero hours.
func parseHours(payload string) float64 {
	h, m, ok := strings.Cut(payload, ":")
	if !ok {
		return 0.0
	}
	hours, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return 0.0
	}
	minutes, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0.0
	}
	return hours + minutes/60.0
}
