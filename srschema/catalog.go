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
	"sort"

	"github.com/rastislavszabo/sr/sralloc"
)

// WireRevision is the wire form of RevisionInfo.
type WireRevision struct {
	Date     string
	YangFile string
	YinFile  string
}

// WireSubmodule is the wire form of SubmoduleDescriptor.
type WireSubmodule struct {
	Name     string
	Revision WireRevision
}

// WireDescriptor is the wire form of Descriptor (spec §4.6): every
// sub-record is either arena-shared (when the target arena is passed
// in) or independently owned, mirroring srtypes.ToWire/FromWire.
type WireDescriptor struct {
	Name            string
	Namespace       string
	Prefix          string
	Revision        WireRevision
	Submodules      []WireSubmodule
	EnabledFeatures []string
}

// ToWire converts d to its wire form. Strings are shared with d's own
// storage; callers needing an independent copy should copy first.
func ToWire(d *Descriptor) *WireDescriptor {
	w := &WireDescriptor{
		Name:            d.Name,
		Namespace:       d.Namespace,
		Prefix:          d.Prefix,
		Revision:        WireRevision(d.Revision),
		EnabledFeatures: append([]string(nil), d.EnabledFeatures...),
	}
	for _, sm := range d.Submodules {
		w.Submodules = append(w.Submodules, WireSubmodule{Name: sm.Name, Revision: WireRevision(sm.Revision)})
	}
	return w
}

// FromWire decodes w back into a Descriptor. If arena is non-nil, every
// string field of the result is copied into the arena via
// Arena.EditString (reusing storage on repeated decodes into the same
// destination); if arena is nil, the Descriptor exclusively owns plain
// Go copies of w's strings.
func FromWire(w *WireDescriptor, arena *sralloc.Arena) (*Descriptor, error) {
	d := &Descriptor{}

	putStr := func(dst *string, s string) error {
		if arena != nil {
			return arena.EditString(dst, s)
		}
		*dst = s
		return nil
	}

	if err := putStr(&d.Name, w.Name); err != nil {
		return nil, err
	}
	if err := putStr(&d.Namespace, w.Namespace); err != nil {
		return nil, err
	}
	if err := putStr(&d.Prefix, w.Prefix); err != nil {
		return nil, err
	}
	if err := putStr(&d.Revision.Date, w.Revision.Date); err != nil {
		return nil, err
	}
	if err := putStr(&d.Revision.YangFile, w.Revision.YangFile); err != nil {
		return nil, err
	}
	if err := putStr(&d.Revision.YinFile, w.Revision.YinFile); err != nil {
		return nil, err
	}

	for _, wsm := range w.Submodules {
		sm := SubmoduleDescriptor{}
		if err := putStr(&sm.Name, wsm.Name); err != nil {
			return nil, err
		}
		if err := putStr(&sm.Revision.Date, wsm.Revision.Date); err != nil {
			return nil, err
		}
		if err := putStr(&sm.Revision.YangFile, wsm.Revision.YangFile); err != nil {
			return nil, err
		}
		if err := putStr(&sm.Revision.YinFile, wsm.Revision.YinFile); err != nil {
			return nil, err
		}
		d.Submodules = append(d.Submodules, sm)
	}
	for _, f := range w.EnabledFeatures {
		var s string
		if err := putStr(&s, f); err != nil {
			return nil, err
		}
		d.EnabledFeatures = append(d.EnabledFeatures, s)
	}
	return d, nil
}

// Catalog is the in-memory set of installed modules that LIST_SCHEMAS
// and GET_SCHEMA serve from.
type Catalog struct {
	modules map[string]*Descriptor
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{modules: make(map[string]*Descriptor)}
}

// Put installs or replaces the descriptor for d.Name.
func (c *Catalog) Put(d *Descriptor) {
	c.modules[d.Name] = d
}

// Remove drops the descriptor for name, if any.
func (c *Catalog) Remove(name string) {
	delete(c.modules, name)
}

// Get returns the descriptor for name, or (nil, false) if it is not
// installed.
func (c *Catalog) Get(name string) (*Descriptor, bool) {
	d, ok := c.modules[name]
	return d, ok
}

// List performs the linear walk of installed modules required by
// §4.6, returning them ordered by module name so repeated LIST_SCHEMAS
// calls are deterministic.
func (c *Catalog) List() []*Descriptor {
	names := make([]string, 0, len(c.modules))
	for n := range c.modules {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]*Descriptor, 0, len(names))
	for _, n := range names {
		out = append(out, c.modules[n])
	}
	return out
}
