// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package srtypes implements the typed-value model (C2): a tagged value
// aligned with the YANG base-type set, its wire-form conversion, and
// its canonical string form. The tag/payload correspondence it enforces
// mirrors the GoEnum/GoStruct tag-marker idiom in ygot's types.go and
// the per-kind validation dispatch in ytypes' leaf/int/string/bool/
// decimal/bitset type files, re-targeted at a runtime Value rather than
// a reflected, generated Go struct field.
package srtypes

import (
	"fmt"

	"github.com/rastislavszabo/sr/sralloc"
)

// Tag is the YANG-aligned type tag of a Value (§3).
type Tag int

const (
	UNKNOWN Tag = iota

	// structural
	LIST
	CONTAINER
	CONTAINER_PRESENCE
	LEAF_EMPTY

	// text-like payload
	BINARY
	BITS
	ENUM
	IDENTITYREF
	INSTANCEID
	STRING
	ANYXML
	ANYDATA

	// scalar payload
	BOOL
	DECIMAL64
	INT8
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
)

func (t Tag) String() string {
	switch t {
	case LIST:
		return "LIST"
	case CONTAINER:
		return "CONTAINER"
	case CONTAINER_PRESENCE:
		return "CONTAINER_PRESENCE"
	case LEAF_EMPTY:
		return "LEAF_EMPTY"
	case BINARY:
		return "BINARY"
	case BITS:
		return "BITS"
	case ENUM:
		return "ENUM"
	case IDENTITYREF:
		return "IDENTITYREF"
	case INSTANCEID:
		return "INSTANCEID"
	case STRING:
		return "STRING"
	case ANYXML:
		return "ANYXML"
	case ANYDATA:
		return "ANYDATA"
	case BOOL:
		return "BOOL"
	case DECIMAL64:
		return "DECIMAL64"
	case INT8:
		return "INT8"
	case INT16:
		return "INT16"
	case INT32:
		return "INT32"
	case INT64:
		return "INT64"
	case UINT8:
		return "UINT8"
	case UINT16:
		return "UINT16"
	case UINT32:
		return "UINT32"
	case UINT64:
		return "UINT64"
	default:
		return "UNKNOWN"
	}
}

// isStructural reports whether t carries no payload.
func (t Tag) isStructural() bool {
	switch t {
	case LIST, CONTAINER, CONTAINER_PRESENCE, LEAF_EMPTY:
		return true
	}
	return false
}

// isTextLike reports whether t's payload is a byte-buffer style value
// that is shared with the owning arena rather than copied, per §4.2.
func (t Tag) isTextLike() bool {
	switch t {
	case BINARY, BITS, ENUM, IDENTITYREF, INSTANCEID, STRING, ANYXML, ANYDATA:
		return true
	}
	return false
}

// Decimal64 is the payload for a DECIMAL64 value: an unscaled integer
// and the schema-declared fraction-digit count it must be divided by.
type Decimal64 struct {
	Unscaled       int64
	FractionDigits uint8
}

// Value is a tagged value aligned with the YANG base-type set (C2). The
// zero Value has Tag UNKNOWN and no payload.
type Value struct {
	// Path is the absolute instance path of the node this value belongs
	// to, if known. HasPath distinguishes an explicitly empty path
	// (the root) from "no path recorded".
	Path    string
	HasPath bool

	Tag Tag

	// Default is true when this value equals its schema default.
	Default bool

	// arena is a weak reference to the Arena that owns this value's
	// byte buffers, or nil if the value owns its buffers outright (and
	// so must deep-free them on destruction, e.g. an arena-less value
	// reassigned into a different owner never aliases another value's
	// storage).
	arena *sralloc.Arena

	// text-like payload, valid when Tag.isTextLike().
	str   string
	bin   []byte
	bits  []string // in schema-declared order
	idMod string   // IDENTITYREF: defining module of the identity, may be empty

	// scalar payload, valid for the matching Tag.
	boolean bool
	dec     Decimal64
	i8      int8
	i16     int16
	i32     int32
	i64     int64
	u8      uint8
	u16     uint16
	u32     uint32
	u64     uint64
}

// Arena returns the Arena backing this Value's byte buffers, or nil if
// the Value is arena-less (and therefore owns its buffers exclusively).
func (v *Value) Arena() *sralloc.Arena { return v.arena }

func wrongTag(op string, have, want Tag) error {
	return fmt.Errorf("srtypes: %s: value has tag %s, want %s", op, have, want)
}

// NewStructural constructs a structural value (LIST, CONTAINER,
// CONTAINER_PRESENCE, or LEAF_EMPTY), which carries no payload.
func NewStructural(tag Tag, path string) (*Value, error) {
	if !tag.isStructural() {
		return nil, fmt.Errorf("srtypes: %s is not a structural tag", tag)
	}
	return &Value{Tag: tag, Path: path, HasPath: true}, nil
}

// NewString constructs a text-like value for the STRING, ANYXML,
// ANYDATA, INSTANCEID and ENUM tags; BINARY, BITS and IDENTITYREF have
// their own constructors (NewBinary, NewBits, NewIdentityref).
func NewString(tag Tag, path, s string) (*Value, error) {
	switch tag {
	case STRING, ANYXML, ANYDATA, INSTANCEID, ENUM:
		return &Value{Tag: tag, Path: path, HasPath: true, str: s}, nil
	default:
		return nil, fmt.Errorf("srtypes: NewString does not support tag %s", tag)
	}
}

// NewIdentityref constructs an IDENTITYREF value. definingModule is the
// module that defines the identity itself (may differ from the node's
// own module); it drives the module-qualified canonical form (§4.2).
func NewIdentityref(path, name, definingModule string) *Value {
	return &Value{Tag: IDENTITYREF, Path: path, HasPath: true, str: name, idMod: definingModule}
}

// NewBinary constructs a BINARY value from raw bytes.
func NewBinary(path string, b []byte) *Value {
	return &Value{Tag: BINARY, Path: path, HasPath: true, bin: b}
}

// NewBits constructs a BITS value. names must already be in the
// schema's declared bit order; canonical printing does not re-sort.
func NewBits(path string, names []string) *Value {
	return &Value{Tag: BITS, Path: path, HasPath: true, bits: append([]string(nil), names...)}
}

// NewBool constructs a BOOL value.
func NewBool(path string, b bool) *Value {
	return &Value{Tag: BOOL, Path: path, HasPath: true, boolean: b}
}

// NewDecimal64 constructs a DECIMAL64 value from its unscaled integer
// and the schema's fraction-digits count.
func NewDecimal64(path string, unscaled int64, fractionDigits uint8) *Value {
	return &Value{Tag: DECIMAL64, Path: path, HasPath: true, dec: Decimal64{Unscaled: unscaled, FractionDigits: fractionDigits}}
}

// NewInt constructs a signed integer value; bits must be 8, 16, 32 or 64.
func NewInt(path string, bits int, val int64) (*Value, error) {
	v := &Value{Path: path, HasPath: true}
	switch bits {
	case 8:
		v.Tag, v.i8 = INT8, int8(val)
	case 16:
		v.Tag, v.i16 = INT16, int16(val)
	case 32:
		v.Tag, v.i32 = INT32, int32(val)
	case 64:
		v.Tag, v.i64 = INT64, val
	default:
		return nil, fmt.Errorf("srtypes: NewInt: unsupported width %d", bits)
	}
	return v, nil
}

// NewUint constructs an unsigned integer value; bits must be 8, 16, 32
// or 64.
func NewUint(path string, bits int, val uint64) (*Value, error) {
	v := &Value{Path: path, HasPath: true}
	switch bits {
	case 8:
		v.Tag, v.u8 = UINT8, uint8(val)
	case 16:
		v.Tag, v.u16 = UINT16, uint16(val)
	case 32:
		v.Tag, v.u32 = UINT32, uint32(val)
	case 64:
		v.Tag, v.u64 = UINT64, val
	default:
		return nil, fmt.Errorf("srtypes: NewUint: unsupported width %d", bits)
	}
	return v, nil
}

// String returns the text-like payload (STRING/ANYXML/ANYDATA/
// INSTANCEID/ENUM/IDENTITYREF name part).
func (v *Value) String() (string, error) {
	switch v.Tag {
	case STRING, ANYXML, ANYDATA, INSTANCEID, ENUM, IDENTITYREF:
		return v.str, nil
	default:
		return "", wrongTag("String", v.Tag, STRING)
	}
}

// IdentityModule returns the defining module of an IDENTITYREF value.
func (v *Value) IdentityModule() (string, error) {
	if v.Tag != IDENTITYREF {
		return "", wrongTag("IdentityModule", v.Tag, IDENTITYREF)
	}
	return v.idMod, nil
}

// Binary returns the BINARY payload.
func (v *Value) Binary() ([]byte, error) {
	if v.Tag != BINARY {
		return nil, wrongTag("Binary", v.Tag, BINARY)
	}
	return v.bin, nil
}

// Bits returns the BITS payload, in schema-declared order.
func (v *Value) Bits() ([]string, error) {
	if v.Tag != BITS {
		return nil, wrongTag("Bits", v.Tag, BITS)
	}
	return v.bits, nil
}

// Bool returns the BOOL payload.
func (v *Value) Bool() (bool, error) {
	if v.Tag != BOOL {
		return false, wrongTag("Bool", v.Tag, BOOL)
	}
	return v.boolean, nil
}

// Dec64 returns the DECIMAL64 payload.
func (v *Value) Dec64() (Decimal64, error) {
	if v.Tag != DECIMAL64 {
		return Decimal64{}, wrongTag("Dec64", v.Tag, DECIMAL64)
	}
	return v.dec, nil
}

// Int returns the signed integer payload, widened to int64.
func (v *Value) Int() (int64, error) {
	switch v.Tag {
	case INT8:
		return int64(v.i8), nil
	case INT16:
		return int64(v.i16), nil
	case INT32:
		return int64(v.i32), nil
	case INT64:
		return v.i64, nil
	default:
		return 0, wrongTag("Int", v.Tag, INT64)
	}
}

// Uint returns the unsigned integer payload, widened to uint64.
func (v *Value) Uint() (uint64, error) {
	switch v.Tag {
	case UINT8:
		return uint64(v.u8), nil
	case UINT16:
		return uint64(v.u16), nil
	case UINT32:
		return uint64(v.u32), nil
	case UINT64:
		return v.u64, nil
	default:
		return 0, wrongTag("Uint", v.Tag, UINT64)
	}
}

// DeepCopy returns an arena-less Value that owns its own payload
// buffers, detached from v's arena (if any). Used when a value crosses
// an ownership boundary (§5 "moves across ownership boundaries must
// deep-copy").
func (v *Value) DeepCopy() *Value {
	cp := *v
	cp.arena = nil
	if v.bits != nil {
		cp.bits = append([]string(nil), v.bits...)
	}
	if v.bin != nil {
		cp.bin = append([]byte(nil), v.bin...)
	}
	return &cp
}

// bindArena marks v as borrowing its buffers from a, without copying
// them (used by decoders that share the destination arena's memory).
func (v *Value) bindArena(a *sralloc.Arena) {
	v.arena = a
}
