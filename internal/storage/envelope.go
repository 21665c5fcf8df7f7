package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
)

// Envelope layout:
//
//	magic (6 bytes) | version (1 byte) | sha256(payload) (32 bytes) | gob payload
//
// The digest lets Decode reject truncated or bit-flipped files that gob
// would otherwise parse into plausible but wrong values.
var magic = []byte("FAIDE\x00")

// FormatVersion is bumped whenever a persisted type changes shape.
const FormatVersion byte = 1

const headerLen = 6 + 1 + sha256.Size

// ErrFormat is matched by every DecodeError.
var ErrFormat = errors.New("unrecognised data format")

// DecodeError reports bytes that are not a valid envelope.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFormat, e.Err}
	}
	return []error{ErrFormat}
}

// Encode serialises v into an envelope.
func Encode(v any) ([]byte, error) {
	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(v); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	digest := sha256.Sum256(payload.Bytes())

	out := make([]byte, 0, headerLen+payload.Len())
	out = append(out, magic...)
	out = append(out, FormatVersion)
	out = append(out, digest[:]...)
	out = append(out, payload.Bytes()...)
	return out, nil
}

// Decode parses an envelope produced by Encode into dest.
func Decode(data []byte, dest any) error {
	if len(data) < headerLen {
		return &DecodeError{Reason: fmt.Sprintf("truncated data (%d bytes)", len(data))}
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return &DecodeError{Reason: "bad magic header"}
	}
	if v := data[len(magic)]; v != FormatVersion {
		return &DecodeError{Reason: fmt.Sprintf("unsupported format version %d (want %d)", v, FormatVersion)}
	}

	var want [sha256.Size]byte
	copy(want[:], data[len(magic)+1:headerLen])
	payload := data[headerLen:]
	if sha256.Sum256(payload) != want {
		return &DecodeError{Reason: "checksum mismatch"}
	}

	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(dest); err != nil {
		return &DecodeError{Reason: "decode payload", Err: err}
	}
	return nil
}
