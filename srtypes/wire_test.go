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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rastislavszabo/sr/sralloc"
)

// TestWireBijection implements invariant 3: for every tag
// and a legal payload, to_wire . from_wire and from_wire . to_wire are
// both identity, modulo arena origin.
func TestWireBijection(t *testing.T) {
	mkInt := func(bits int, n int64) *Value { v, _ := NewInt("/a", bits, n); return v }
	mkUint := func(bits int, n uint64) *Value { v, _ := NewUint("/a", bits, n); return v }
	str := func(tag Tag, s string) *Value { v, _ := NewString(tag, "/a", s); return v }
	structural := func(tag Tag) *Value { v, _ := NewStructural(tag, "/a"); return v }

	cases := []*Value{
		structural(LIST),
		structural(CONTAINER),
		structural(CONTAINER_PRESENCE),
		structural(LEAF_EMPTY),
		str(STRING, "hello"),
		str(ANYXML, "<a/>"),
		str(ANYDATA, "{}"),
		str(INSTANCEID, "/a/b"),
		str(ENUM, "up"),
		NewIdentityref("/a", "ethernetCsmacd", "iana-if-type"),
		NewBinary("/a", []byte{1, 2, 3}),
		NewBits("/a", []string{"a", "b"}),
		NewBool("/a", true),
		NewDecimal64("/a", 314, 2),
		mkInt(8, -1), mkInt(16, -1), mkInt(32, -1), mkInt(64, -1),
		mkUint(8, 1), mkUint(16, 1), mkUint(32, 1), mkUint(64, 1),
	}

	for _, v := range cases {
		t.Run(v.Tag.String(), func(t *testing.T) {
			w, err := ToWire(v)
			if err != nil {
				t.Fatalf("ToWire: %v", err)
			}
			back, err := FromWire(w, nil)
			if err != nil {
				t.Fatalf("FromWire: %v", err)
			}
			if diff := cmp.Diff(v, back, cmp.AllowUnexported(Value{}), cmpopts.IgnoreFields(Value{}, "arena")); diff != "" {
				t.Fatalf("to_wire . from_wire mismatch (-want +got):\n%s", diff)
			}

			w2, err := ToWire(back)
			if err != nil {
				t.Fatalf("ToWire(back): %v", err)
			}
			if diff := cmp.Diff(w, w2); diff != "" {
				t.Fatalf("from_wire . to_wire mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromWireSharesArenaBuffers(t *testing.T) {
	a := sralloc.New()
	w := &WireValue{Tag: STRING, Path: "/a", HasPath: true, StringVal: "hello", HasStringVal: true}
	v, err := FromWire(w, a)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if v.Arena() != a {
		t.Fatalf("decoded value is not bound to the destination arena")
	}
	got, _ := v.String()
	if got != "hello" {
		t.Fatalf("String() = %q, want %q", got, "hello")
	}
}
