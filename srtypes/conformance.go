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

	"github.com/openconfig/goyang/pkg/yang"
)

// Check verifies that v's tag matches schema's resolved base type
// (§4.2, §8 invariant 4). leaf-refs are resolved transitively to the
// type of their target leaf; unions are resolved by first-match across
// member types, including nested unions, depth-first — the same
// resolution order ytypes/leafref.go and ytypes/union-handling in
// leaf.go use for generated-struct validation, applied here directly
// against a schema Entry and a runtime Value instead of a reflected Go
// field.
func Check(schema *yang.Entry, v *Value) error {
	if schema == nil {
		return fmt.Errorf("srtypes: Check: %w: nil schema", ErrInvalidValue)
	}
	if v == nil {
		return fmt.Errorf("srtypes: Check: %w: nil value", ErrInvalidValue)
	}

	switch {
	case schema.IsList():
		return checkTag(v, LIST)
	case schema.IsContainer():
		if schema.IsPresence() {
			return checkTag(v, CONTAINER_PRESENCE)
		}
		return checkTag(v, CONTAINER)
	case schema.IsLeaf() || schema.IsLeafList():
		return checkLeafType(schema, schema.Type, v, 0)
	default:
		return fmt.Errorf("srtypes: Check: %w: unsupported schema kind for %s", ErrUnsupportedType, schema.Name)
	}
}

func checkTag(v *Value, want Tag) error {
	if v.Tag != want {
		return fmt.Errorf("srtypes: Check: %w: value tag %s, schema requires %s", ErrInvalidValue, v.Tag, want)
	}
	return nil
}

// maxUnionDepth bounds recursive union/leafref resolution so a
// malformed or cyclic schema cannot recurse forever.
const maxUnionDepth = 32

func checkLeafType(schema *yang.Entry, yt *yang.YangType, v *Value, depth int) error {
	if depth > maxUnionDepth {
		return fmt.Errorf("srtypes: Check: %w: type resolution exceeded depth %d (cycle?)", ErrInvalidValue, maxUnionDepth)
	}
	if yt == nil {
		return fmt.Errorf("srtypes: Check: %w: schema %s has no type", ErrInvalidValue, schema.Name)
	}

	switch yt.Kind {
	case yang.Yleafref:
		target, err := resolveLeafref(schema, yt.Path)
		if err != nil {
			return fmt.Errorf("srtypes: Check: %w: %v", ErrInvalidValue, err)
		}
		return checkLeafType(target, target.Type, v, depth+1)

	case yang.Yunion:
		var errs []error
		for _, member := range yt.Type {
			if err := checkLeafType(schema, member, v, depth+1); err == nil {
				return nil
			} else {
				errs = append(errs, err)
			}
		}
		return fmt.Errorf("srtypes: Check: %w: value tag %s matched no union member of %s (%v)", ErrInvalidValue, v.Tag, schema.Name, errs)

	case yang.Ystring:
		return checkTag(v, STRING)
	case yang.Ybinary:
		return checkTag(v, BINARY)
	case yang.Ybits:
		return checkTag(v, BITS)
	case yang.Ybool:
		return checkTag(v, BOOL)
	case yang.Ydecimal64:
		if v.Tag != DECIMAL64 {
			return checkTag(v, DECIMAL64)
		}
		if int(v.dec.FractionDigits) != yt.FractionDigits {
			return fmt.Errorf("srtypes: Check: %w: decimal64 value has %d fraction-digits, schema %s declares %d", ErrInvalidValue, v.dec.FractionDigits, schema.Name, yt.FractionDigits)
		}
		return nil
	case yang.Yenum:
		return checkTag(v, ENUM)
	case yang.Yidentityref:
		return checkTag(v, IDENTITYREF)
	case yang.Yempty:
		return checkTag(v, LEAF_EMPTY)
	case yang.Yint8:
		return checkTag(v, INT8)
	case yang.Yint16:
		return checkTag(v, INT16)
	case yang.Yint32:
		return checkTag(v, INT32)
	case yang.Yint64:
		return checkTag(v, INT64)
	case yang.Yuint8:
		return checkTag(v, UINT8)
	case yang.Yuint16:
		return checkTag(v, UINT16)
	case yang.Yuint32:
		return checkTag(v, UINT32)
	case yang.Yuint64:
		return checkTag(v, UINT64)
	default:
		return fmt.Errorf("srtypes: Check: %w: unhandled YANG base type %v on schema %s", ErrUnsupportedType, yt.Kind, schema.Name)
	}
}

// resolveLeafref walks the schema tree from schema following a leafref
// path expression and returns the target leaf Entry. It supports the
// "../" relative-path form produced by goyang for intra-tree leafrefs,
// which is what ytypes/leafref.go resolves against a gNMI path; here we
// walk the yang.Entry tree directly instead of building a gNMI path.
func resolveLeafref(schema *yang.Entry, path string) (*yang.Entry, error) {
	if path == "" {
		return nil, fmt.Errorf("leafref schema %s has an empty path", schema.Name)
	}
	cur := schema
	rest := path
	for {
		if cur == nil {
			return nil, fmt.Errorf("leafref path %q on %s walked past the root", path, schema.Name)
		}
		const up = "../"
		if len(rest) >= len(up) && rest[:len(up)] == up {
			cur = cur.Parent
			rest = rest[len(up):]
			continue
		}
		break
	}
	target := cur.Find(rest)
	if target == nil {
		return nil, fmt.Errorf("leafref path %q on %s did not resolve", path, schema.Name)
	}
	return target, nil
}
