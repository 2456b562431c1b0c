// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lambda Photonics

package lambdamini

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Snapshot logs are a plain concatenation of CBOR-encoded Snapshot
// values, one per poll. The stream is self-delimiting, so records can
// be appended without framing and read back until EOF.

// RecordWriter appends snapshots to a log stream.
type RecordWriter struct {
	enc *cbor.Encoder
}

// NewRecordWriter creates a snapshot log writer on w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{enc: cbor.NewEncoder(w)}
}

// Write appends one snapshot to the log.
func (rw *RecordWriter) Write(s *Snapshot) error {
	if err := rw.enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// RecordReader reads snapshots back from a log stream.
type RecordReader struct {
	dec *cbor.Decoder
}

// NewRecordReader creates a snapshot log reader on r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next recorded snapshot, or io.EOF at the end of the
// log.
func (rr *RecordReader) Next() (*Snapshot, error) {
	var s Snapshot
	if err := rr.dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &s, nil
}
