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

package srschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/rastislavszabo/sr/sralloc"
)

func exampleDescriptor() *Descriptor {
	return &Descriptor{
		Name:      "iface",
		Namespace: "urn:iface",
		Prefix:    "if",
		Revision:  RevisionInfo{Date: "2024-06-01", YangFile: "iface.yang"},
		Submodules: []SubmoduleDescriptor{
			{Name: "iface-sub", Revision: RevisionInfo{Date: "2024-06-01", YangFile: "iface-sub.yang"}},
		},
		EnabledFeatures: []string{"vlans", "lacp"},
	}
}

func TestWireRoundTripNoArena(t *testing.T) {
	d := exampleDescriptor()
	back, err := FromWire(ToWire(d), nil)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if diff := cmp.Diff(d, back); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWireRoundTripWithArena(t *testing.T) {
	a := sralloc.New()
	d := exampleDescriptor()
	back, err := FromWire(ToWire(d), a)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if diff := cmp.Diff(d, back); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogListIsSortedLinearWalk(t *testing.T) {
	c := NewCatalog()
	c.Put(&Descriptor{Name: "zeta"})
	c.Put(&Descriptor{Name: "alpha"})
	c.Put(&Descriptor{Name: "mu"})

	got := c.List()
	if len(got) != 3 || got[0].Name != "alpha" || got[1].Name != "mu" || got[2].Name != "zeta" {
		t.Fatalf("List() = %+v, want alpha, mu, zeta in order", got)
	}
}

func TestCatalogGetAndRemove(t *testing.T) {
	c := NewCatalog()
	c.Put(&Descriptor{Name: "a"})
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("Get(a) = not found, want found")
	}
	c.Remove("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("Get(a) after Remove = found, want not found")
	}
}
