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
	"strconv"
	"strings"
)

// Canonical returns v's canonical string form (§4.2). nodeModule is the
// module qualifying the node v belongs to; it only affects IDENTITYREF
// printing, where the identity name is prefixed with its defining
// module when that module differs from nodeModule (mirrors goyang's
// and ygot's "module:name" RFC 7951 identityref rendering).
func (v *Value) Canonical(nodeModule string) (string, error) {
	switch v.Tag {
	case LEAF_EMPTY, LIST, CONTAINER, CONTAINER_PRESENCE:
		return "", nil

	case BOOL:
		if v.boolean {
			return "true", nil
		}
		return "false", nil

	case DECIMAL64:
		return formatDecimal64(v.dec), nil

	case BITS:
		return strings.Join(v.bits, " "), nil

	case IDENTITYREF:
		if v.idMod != "" && v.idMod != nodeModule {
			return fmt.Sprintf("%s:%s", v.idMod, v.str), nil
		}
		return v.str, nil

	case STRING, ANYXML, ANYDATA, INSTANCEID, ENUM:
		return v.str, nil

	case BINARY:
		return string(v.bin), nil

	case INT8, INT16, INT32, INT64:
		n, err := v.Int()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil

	case UINT8, UINT16, UINT32, UINT64:
		n, err := v.Uint()
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(n, 10), nil

	default:
		return "", fmt.Errorf("srtypes: Canonical: %w: tag %s", ErrUnsupportedType, v.Tag)
	}
}

// formatDecimal64 renders unscaled/fractionDigits as a fixed-point
// string with exactly fractionDigits digits after the point, matching
// ytypes/decimal_type.go's RFC 6020 §9.3 decimal64 semantics.
func formatDecimal64(d Decimal64) string {
	neg := d.Unscaled < 0
	u := d.Unscaled
	if neg {
		u = -u
	}
	digits := strconv.FormatUint(uint64(u), 10)
	fd := int(d.FractionDigits)
	for len(digits) <= fd {
		digits = "0" + digits
	}
	intPart := digits[:len(digits)-fd]
	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteString(intPart)
	if fd > 0 {
		sb.WriteByte('.')
		sb.WriteString(digits[len(digits)-fd:])
	}
	return sb.String()
}
