// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is a scripted in-memory Transport. Each Write looks up
// the command in the response table and stages the reply for the next
// ReadAvailable. Commands without an entry produce an empty response,
// which is exactly what a silent device looks like on the wire. Access
// is mutex-guarded so tests can inject faults while a poller runs.
type fakeTransport struct {
	mu        sync.Mutex
	responses map[string]string
	writes    []string
	pending   []byte
	writeErr  error
	readErr   error
	closed    bool
}

func newFakeTransport(responses map[string]string) *fakeTransport {
	return &fakeTransport{responses: responses}
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	cmd := strings.TrimSuffix(string(p), "\r\n")
	f.writes = append(f.writes, cmd)
	if resp, ok := f.responses[cmd]; ok {
		f.pending = []byte(resp)
	} else {
		f.pending = nil
	}
	return len(p), nil
}

func (f *fakeTransport) ReadAvailable(wait time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := f.pending
	f.pending = nil
	return out, nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) setWriteErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeErr = err
}

func (f *fakeTransport) setReadErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

func TestQuery_AppendsTerminatorAndTrims(t *testing.T) {
	tr := newFakeTransport(map[string]string{
		"S?": "  OK 11 \r\n",
	})

	resp, err := Query(tr, "S?", 0)
	require.NoError(t, err)
	assert.Equal(t, "OK 11", resp)
	assert.Equal(t, []string{"S?"}, tr.writes)
}

func TestQuery_EmptyOnSilentDevice(t *testing.T) {
	tr := newFakeTransport(nil)

	resp, err := Query(tr, "T?", 0)
	require.NoError(t, err)
	assert.Equal(t, "", resp)
}

func TestQuery_WriteError(t *testing.T) {
	tr := newFakeTransport(nil)
	tr.setWriteErr(errors.New("port gone"))

	_, err := Query(tr, "S?", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S?")
}

func TestPayloadToken(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{"normal", "OK 42", "42"},
		{"extra tokens", "OK 42 trailing", "42"},
		{"ack only", "OK", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, payloadToken(tt.response))
		})
	}
}

func TestPayloadRemainder(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{"single word payload", "OK Lambda", "Lambda"},
		{"multi word payload", "OK Lambda Photonics GmbH", "Lambda Photonics GmbH"},
		{"ack only", "OK", ""},
		{"empty", "", ""},
		{"tab separated", "OK\tLambda mini", "Lambda mini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, payloadRemainder(tt.response))
		})
	}
}

func TestFloatPayload(t *testing.T) {
	assert.Equal(t, 25.3, floatPayload("OK 25.3"))
	assert.Equal(t, 0.0, floatPayload("OK"))
	assert.Equal(t, 0.0, floatPayload(""))
	assert.Equal(t, 0.0, floatPayload("OK garbage"))
}

func TestLastFloatToken(t *testing.T) {
	assert.Equal(t, 35.0, lastFloatToken("OK LIMIT 35.0"))
	assert.Equal(t, 25.3, lastFloatToken("OK 25.3"))
	assert.Equal(t, 0.0, lastFloatToken(""))
	assert.Equal(t, 0.0, lastFloatToken("OK garbage"))
}

func TestHexPayload(t *testing.T) {
	tests := []struct {
		response string
		expected int
	}{
		{"OK 11", 0x11},
		{"OK 0F", 0x0F},
		{"OK ff", 0xFF},
		{"OK 0", 0},
		{"OK", 0},
		{"", 0},
		{"OK zz", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, hexPayload(tt.response), "response %q", tt.response)
	}
}

func TestParseHours(t *testing.T) {
	tests := []struct {
		payload  string
		expected float64
	}{
		{"12:30", 12.5},
		{"0:00", 0.0},
		{"100:15", 100.25},
		{"1230", 0.0}, // no separator degrades to zero
		{"", 0.0},
		{"ab:cd", 0.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, parseHours(tt.payload), 1e-9, "payload %q", tt.payload)
	}
}
