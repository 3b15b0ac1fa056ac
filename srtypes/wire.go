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

package srtypes

import (
	"fmt"

	"github.com/rastislavszabo/sr/sralloc"
)

// WireValue is the wire-form counterpart of Value (§4.2): a
// presence-flagged field set shaped the way a generated protobuf
// message for this type would look (one field, plus a "has" flag, per
// tag) so that scalar defaults round-trip distinguishably from unset
// fields. ToWire/FromWire form a tag-preserving bijection.
type WireValue struct {
	Tag     Tag
	Path    string
	HasPath bool
	Default bool

	StringVal    string
	HasStringVal bool

	BinaryVal    []byte
	HasBinaryVal bool

	BitsVal    []string
	HasBitsVal bool

	IdentityrefVal    string
	IdentityModule    string
	HasIdentityrefVal bool

	BoolVal    bool
	HasBoolVal bool

	Decimal64Unscaled      int64
	Decimal64FractionDigit uint32
	HasDecimal64Val        bool

	Int8Val   int8
	HasInt8   bool
	Int16Val  int16
	HasInt16  bool
	Int32Val  int32
	HasInt32  bool
	Int64Val  int64
	HasInt64  bool
	Uint8Val  uint8
	HasUint8  bool
	Uint16Val uint16
	HasUint16 bool
	Uint32Val uint32
	HasUint32 bool
	Uint64Val uint64
	HasUint64 bool
}

// ToWire converts v to its wire form. Byte buffers (strings/slices) are
// shared with v's storage; callers that need an independent copy should
// call DeepCopy first.
func ToWire(v *Value) (*WireValue, error) {
	w := &WireValue{Tag: v.Tag, Path: v.Path, HasPath: v.HasPath, Default: v.Default}

	switch v.Tag {
	case LIST, CONTAINER, CONTAINER_PRESENCE, LEAF_EMPTY:
		// no payload field touched

	case STRING, ANYXML, ANYDATA, INSTANCEID, ENUM:
		w.StringVal, w.HasStringVal = v.str, true

	case IDENTITYREF:
		w.IdentityrefVal, w.IdentityModule, w.HasIdentityrefVal = v.str, v.idMod, true

	case BINARY:
		w.BinaryVal, w.HasBinaryVal = v.bin, true

	case BITS:
		w.BitsVal, w.HasBitsVal = v.bits, true

	case BOOL:
		w.BoolVal, w.HasBoolVal = v.boolean, true

	case DECIMAL64:
		w.Decimal64Unscaled, w.Decimal64FractionDigit, w.HasDecimal64Val = v.dec.Unscaled, uint32(v.dec.FractionDigits), true

	case INT8:
		w.Int8Val, w.HasInt8 = v.i8, true
	case INT16:
		w.Int16Val, w.HasInt16 = v.i16, true
	case INT32:
		w.Int32Val, w.HasInt32 = v.i32, true
	case INT64:
		w.Int64Val, w.HasInt64 = v.i64, true
	case UINT8:
		w.Uint8Val, w.HasUint8 = v.u8, true
	case UINT16:
		w.Uint16Val, w.HasUint16 = v.u16, true
	case UINT32:
		w.Uint32Val, w.HasUint32 = v.u32, true
	case UINT64:
		w.Uint64Val, w.HasUint64 = v.u64, true

	default:
		return nil, fmt.Errorf("srtypes: ToWire: %w: tag %s", ErrUnsupportedType, v.Tag)
	}
	return w, nil
}

// FromWire decodes w back into a Value. If arena is non-nil, the
// decoded value's string payload (including an IDENTITYREF's name) is
// an arena-owned copy made via Arena.EditString, and a BINARY payload
// is copied into an Arena.Alloc buffer; BITS names and an
// IDENTITYREF's defining module are plain Go copies either way. If
// arena is nil, the Value holds plain Go copies of w's payload.
func FromWire(w *WireValue, arena *sralloc.Arena) (*Value, error) {
	v := &Value{Tag: w.Tag, Path: w.Path, HasPath: w.HasPath, Default: w.Default, arena: arena}

	putStr := func(dst *string, s string) error {
		if arena != nil {
			return arena.EditString(dst, s)
		}
		*dst = s
		return nil
	}

	switch w.Tag {
	case LIST, CONTAINER, CONTAINER_PRESENCE, LEAF_EMPTY:
		// no payload

	case STRING, ANYXML, ANYDATA, INSTANCEID, ENUM:
		if !w.HasStringVal {
			return nil, fmt.Errorf("srtypes: FromWire: %w: tag %s missing string payload", ErrInvalidValue, w.Tag)
		}
		if err := putStr(&v.str, w.StringVal); err != nil {
			return nil, err
		}

	case IDENTITYREF:
		if !w.HasIdentityrefVal {
			return nil, fmt.Errorf("srtypes: FromWire: %w: IDENTITYREF missing payload", ErrInvalidValue)
		}
		if err := putStr(&v.str, w.IdentityrefVal); err != nil {
			return nil, err
		}
		v.idMod = w.IdentityModule

	case BINARY:
		if !w.HasBinaryVal {
			return nil, fmt.Errorf("srtypes: FromWire: %w: BINARY missing payload", ErrInvalidValue)
		}
		if arena != nil {
			buf, err := arena.Alloc(len(w.BinaryVal))
			if err != nil {
				return nil, err
			}
			copy(buf, w.BinaryVal)
			v.bin = buf
		} else {
			v.bin = append([]byte(nil), w.BinaryVal...)
		}

	case BITS:
		if !w.HasBitsVal {
			return nil, fmt.Errorf("srtypes: FromWire: %w: BITS missing payload", ErrInvalidValue)
		}
		v.bits = append([]string(nil), w.BitsVal...)

	case BOOL:
		if !w.HasBoolVal {
			return nil, fmt.Errorf("srtypes: FromWire: %w: BOOL missing payload", ErrInvalidValue)
		}
		v.boolean = w.BoolVal

	case DECIMAL64:
		if !w.HasDecimal64Val {
			return nil, fmt.Errorf("srtypes: FromWire: %w: DECIMAL64 missing payload", ErrInvalidValue)
		}
		v.dec = Decimal64{Unscaled: w.Decimal64Unscaled, FractionDigits: uint8(w.Decimal64FractionDigit)}

	case INT8:
		if !w.HasInt8 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: INT8 missing payload", ErrInvalidValue)
		}
		v.i8 = w.Int8Val
	case INT16:
		if !w.HasInt16 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: INT16 missing payload", ErrInvalidValue)
		}
		v.i16 = w.Int16Val
	case INT32:
		if !w.HasInt32 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: INT32 missing payload", ErrInvalidValue)
		}
		v.i32 = w.Int32Val
	case INT64:
		if !w.HasInt64 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: INT64 missing payload", ErrInvalidValue)
		}
		v.i64 = w.Int64Val
	case UINT8:
		if !w.HasUint8 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: UINT8 missing payload", ErrInvalidValue)
		}
		v.u8 = w.Uint8Val
	case UINT16:
		if !w.HasUint16 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: UINT16 missing payload", ErrInvalidValue)
		}
		v.u16 = w.Uint16Val
	case UINT32:
		if !w.HasUint32 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: UINT32 missing payload", ErrInvalidValue)
		}
		v.u32 = w.Uint32Val
	case UINT64:
		if !w.HasUint64 {
			return nil, fmt.Errorf("srtypes: FromWire: %w: UINT64 missing payload", ErrInvalidValue)
		}
		v.u64 = w.Uint64Val

	default:
		return nil, fmt.Errorf("srtypes: FromWire: %w: tag %s", ErrUnsupportedType, w.Tag)
	}
	return v, nil
}
