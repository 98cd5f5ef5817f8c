// Package id provides the 128-bit identifier used for every primary key.
//
// An ID has two encodings that must not be mixed up. In the relational
// store it is written as its compact 16-byte binary form; inside JSON
// payloads and over the HTTP API it is the canonical hyphenated string
// (e.g. "6f1c2a9e-0b7d-4d51-9a53-3c0f6b0f2f11"). ID implements
// driver.Valuer and sql.Scanner for the first and json.Marshaler /
// fmt.Stringer for the second, so the encoding follows from where the
// value is used.
package id

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// ID is a random (v4) or namespaced (v5) UUID.
type ID uuid.UUID

// Nil is the zero ID.
var Nil ID

// demoNamespace scopes identifiers derived for demonstration rows.
var demoNamespace = uuid.MustParse("3b8f5c2e-6a41-4f0e-9d7a-5e2c1b0a9f47")

// New returns a fresh random ID.
func New() ID {
	return ID(uuid.New())
}

// Demo returns a stable ID derived from name within the demo namespace.
// The same name always yields the same ID.
func Demo(name string) ID {
	return ID(uuid.NewSHA1(demoNamespace, []byte(name)))
}

// Parse decodes the canonical string form.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("parse id %q: %w", s, err)
	}
	return ID(u), nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// constants and tests.
func MustParse(s string) ID {
	return ID(uuid.MustParse(s))
}

// FromBytes decodes the 16-byte binary form.
func FromBytes(b []byte) (ID, error) {
	u, err := uuid.FromBytes(b)
	if err != nil {
		return Nil, fmt.Errorf("decode id bytes: %w", err)
	}
	return ID(u), nil
}

// Bytes returns the 16-byte storage form.
func (i ID) Bytes() []byte {
	b := make([]byte, 16)
	copy(b, i[:])
	return b
}

// String returns the canonical hyphenated form.
func (i ID) String() string {
	return uuid.UUID(i).String()
}

// IsNil reports whether i is the zero ID.
func (i ID) IsNil() bool {
	return i == Nil
}

// Value stores the ID as a 16-byte BLOB.
func (i ID) Value() (driver.Value, error) {
	return i.Bytes(), nil
}

// Scan reads an ID from a BLOB column. A TEXT column holding the canonical
// string is accepted too, since rows written by other tools may use it.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		if len(v) == 16 {
			parsed, err := FromBytes(v)
			if err != nil {
				return err
			}
			*i = parsed
			return nil
		}
		return i.Scan(string(v))
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return err
		}
		*i = parsed
		return nil
	case nil:
		*i = Nil
		return nil
	default:
		return fmt.Errorf("scan id: unsupported type %T", src)
	}
}

// MarshalJSON encodes the canonical string form.
func (i ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

// UnmarshalJSON decodes the canonical string form.
func (i *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("unmarshal id: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
