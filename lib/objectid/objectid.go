// Copyright 2026 The UrbanLogiq Authors
// SPDX-License-Identifier: Apache-2.0

package objectid

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Size is the length of an ObjectId in bytes.
const Size = 16

// ID is a 16-byte object identifier. The zero value is the nil id.
type ID [Size]byte

// Nil is the all-zero id.
var Nil ID

// FormatError reports an identifier that is not 16 bytes long or a
// string that is not a 32-hex-digit identifier.
type FormatError struct {
	// Input is the offending value: the text as given, or the byte
	// slice rendered as hex.
	Input string

	// Reason describes what is wrong with Input.
	Reason string
}

func (err *FormatError) Error() string {
	return fmt.Sprintf("objectid: invalid identifier %q: %s", err.Input, err.Reason)
}

// ToGUID renders b as lowercase dashed hex (8-4-4-4-12). Returns a
// *FormatError if b is not exactly 16 bytes.
func ToGUID(b []byte) (string, error) {
	id, err := FromBytes(b)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FromGUID parses a dashed (36 character) or undashed (32 character)
// hex identifier in either case and returns its 16 bytes. Returns a
// *FormatError for any other input, including the braced and urn:uuid:
// forms.
func FromGUID(s string) ([]byte, error) {
	id, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return id.Bytes(), nil
}

// FromBytes copies b into an ID. Returns a *FormatError if b is not
// exactly 16 bytes.
func FromBytes(b []byte) (ID, error) {
	if len(b) != Size {
		return Nil, &FormatError{
			Input:  hex.EncodeToString(b),
			Reason: fmt.Sprintf("length is %d bytes, want %d", len(b), Size),
		}
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// Parse parses the textual form accepted by [FromGUID].
func Parse(s string) (ID, error) {
	switch len(s) {
	case 36:
		if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
			return Nil, &FormatError{Input: s, Reason: "dashes must separate 8-4-4-4-12 hex groups"}
		}
	case 32:
	default:
		return Nil, &FormatError{
			Input:  s,
			Reason: fmt.Sprintf("length is %d characters, want 36 (dashed) or 32 (undashed)", len(s)),
		}
	}

	parsed, err := uuid.Parse(s)
	if err != nil {
		return Nil, &FormatError{Input: s, Reason: err.Error()}
	}
	return ID(parsed), nil
}

// MustParse is like Parse but panics on error. For constants and tests.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// New returns a random (version 4) id.
func New() ID {
	return ID(uuid.New())
}

// String returns the lowercase 8-4-4-4-12 form.
func (id ID) String() string {
	return uuid.UUID(id).String()
}

// Bytes returns a copy of the id's bytes.
func (id ID) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// IsNil reports whether id is the all-zero id.
func (id ID) IsNil() bool {
	return id == Nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
