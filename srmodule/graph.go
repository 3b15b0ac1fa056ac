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

package srmodule

import (
	"fmt"
	"os"
	"sort"

	"github.com/rastislavszabo/sr/srproto"
)

// EdgeKind is the kind of dependency a Graph edge records (spec §3,
// Dependency Graph).
type EdgeKind int

const (
	Imports EdgeKind = iota
	Includes
	UsesGrouping
	Augments
)

func (k EdgeKind) String() string {
	switch k {
	case Imports:
		return "imports"
	case Includes:
		return "includes"
	case UsesGrouping:
		return "uses-grouping"
	case Augments:
		return "augments"
	default:
		return "imports"
	}
}

// VertexKey identifies a module vertex by name and primary revision.
type VertexKey struct {
	Name     string
	Revision string
}

func (k VertexKey) String() string {
	if k.Revision == "" {
		return k.Name
	}
	return k.Name + "@" + k.Revision
}

// Edge is a directed dependency edge from the vertex it is attached to
// toward Target.
type Edge struct {
	Target VertexKey
	Kind   EdgeKind
}

// Vertex is a module-revision pair plus the bookkeeping the graph
// needs: the schema file it was installed from, the submodules
// installed alongside it, and its outgoing dependency edges.
//
// Implemented distinguishes a vertex the user explicitly installed
// (via install/init) from one that exists only because another vertex
// depends on it; only the latter kind is eligible for cascade-removal.
type Vertex struct {
	Key         VertexKey
	SchemaFile  string
	Submodules  []string
	Edges       []Edge
	Implemented bool
}

// Graph is the Dependency Graph (spec §3, C7): vertices are
// module-revision pairs, edges are typed dependencies between them.
type Graph struct {
	vertices map[VertexKey]*Vertex
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{vertices: make(map[VertexKey]*Vertex)}
}

// Get returns the vertex for key, if installed.
func (g *Graph) Get(key VertexKey) (*Vertex, bool) {
	v, ok := g.vertices[key]
	return v, ok
}

// List returns every vertex, ordered by key for deterministic output.
func (g *Graph) List() []*Vertex {
	keys := make([]VertexKey, 0, len(g.vertices))
	for k := range g.vertices {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	out := make([]*Vertex, 0, len(keys))
	for _, k := range keys {
		out = append(out, g.vertices[k])
	}
	return out
}

// Insert adds v to the graph. If a vertex with the same key is already
// present, Insert is a no-op and reports alreadyInstalled=true (spec
// §4.7 install step 5, invariant 7: install is idempotent).
func (g *Graph) Insert(v *Vertex) (alreadyInstalled bool, err error) {
	if _, ok := g.vertices[v.Key]; ok {
		return true, nil
	}
	g.vertices[v.Key] = v
	return false, nil
}

// Remove removes key and cascades: every vertex that is not itself
// Implemented and that, after key's removal, has no remaining
// dependent is removed too (spec §4.7 uninstall step 3). If removing
// the resulting set would leave a dangling edge — some vertex outside
// the set still pointing at a vertex inside it — Remove rejects the
// whole operation with INVALID_ARG and leaves the graph unchanged.
// On success it returns the keys implicitly removed alongside key.
func (g *Graph) Remove(key VertexKey) ([]VertexKey, error) {
	if _, ok := g.vertices[key]; !ok {
		return nil, srproto.NewError(srproto.NotFound, fmt.Sprintf("module vertex %s not installed", key))
	}

	removed := map[VertexKey]bool{key: true}
	for changed := true; changed; {
		changed = false
		for vk, v := range g.vertices {
			if removed[vk] || v.Implemented {
				continue
			}
			if !g.hasExternalDependent(vk, removed) {
				removed[vk] = true
				changed = true
			}
		}
	}

	for vk, v := range g.vertices {
		if removed[vk] {
			continue
		}
		for _, e := range v.Edges {
			if removed[e.Target] {
				return nil, srproto.NewError(srproto.InvalArg, fmt.Sprintf("removing %s would leave %s with a dangling dependency on %s", key, vk, e.Target))
			}
		}
	}

	var implicit []VertexKey
	for vk := range removed {
		if vk != key {
			implicit = append(implicit, vk)
		}
		delete(g.vertices, vk)
	}
	sort.Slice(implicit, func(i, j int) bool { return implicit[i].String() < implicit[j].String() })
	return implicit, nil
}

// hasExternalDependent reports whether any vertex not already in the
// removed set has an edge targeting vk.
func (g *Graph) hasExternalDependent(vk VertexKey, removed map[VertexKey]bool) bool {
	for ok, v := range g.vertices {
		if removed[ok] {
			continue
		}
		for _, e := range v.Edges {
			if e.Target == vk {
				return true
			}
		}
	}
	return false
}

// CheckInvariants verifies the three post-write invariants from spec
// §3: (a) every vertex's schema file exists, (b) every outgoing edge's
// target vertex exists, (c) no vertex that is not Implemented has zero
// dependents (an import-only vertex must still be the target of at
// least one other vertex's edge).
func (g *Graph) CheckInvariants() error {
	for vk, v := range g.vertices {
		if _, err := os.Stat(v.SchemaFile); err != nil {
			return fmt.Errorf("srmodule: vertex %s: schema file %q not accessible: %w", vk, v.SchemaFile, err)
		}
		for _, e := range v.Edges {
			if _, ok := g.vertices[e.Target]; !ok {
				return fmt.Errorf("srmodule: vertex %s: edge target %s is not in the graph", vk, e.Target)
			}
		}
	}
	for vk, v := range g.vertices {
		if v.Implemented {
			continue
		}
		if len(g.dependentsOf(vk)) == 0 {
			return fmt.Errorf("srmodule: vertex %s has zero implementations and zero dependents; it should have been cascade-removed", vk)
		}
	}
	return nil
}

func (g *Graph) dependentsOf(vk VertexKey) []VertexKey {
	var out []VertexKey
	for ok, v := range g.vertices {
		for _, e := range v.Edges {
			if e.Target == vk {
				out = append(out, ok)
			}
		}
	}
	return out
}
