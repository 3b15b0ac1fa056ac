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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// wireEdge and wireVertex are the on-disk shape of the graph file. The
// graph's content must round-trip deterministically (spec §6), so the
// file is a plain JSON document rather than anything generated.
type wireEdge struct {
	TargetName     string `json:"target_name"`
	TargetRevision string `json:"target_revision"`
	Kind           int    `json:"kind"`
}

type wireVertex struct {
	Name        string     `json:"name"`
	Revision    string     `json:"revision"`
	SchemaFile  string     `json:"schema_file"`
	Submodules  []string   `json:"submodules,omitempty"`
	Edges       []wireEdge `json:"edges,omitempty"`
	Implemented bool       `json:"implemented"`
}

type wireGraph struct {
	Vertices []wireVertex `json:"vertices"`
}

// LoadGraphFile reads and parses the graph file at path. A missing
// file is treated as an empty graph (there is nothing installed yet).
func LoadGraphFile(path string) (*Graph, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewGraph(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("srmodule: LoadGraphFile: %w", err)
	}

	var wg wireGraph
	if err := json.Unmarshal(b, &wg); err != nil {
		return nil, fmt.Errorf("srmodule: LoadGraphFile: %w", err)
	}

	g := NewGraph()
	for _, wv := range wg.Vertices {
		v := &Vertex{
			Key:         VertexKey{Name: wv.Name, Revision: wv.Revision},
			SchemaFile:  wv.SchemaFile,
			Submodules:  wv.Submodules,
			Implemented: wv.Implemented,
		}
		for _, we := range wv.Edges {
			v.Edges = append(v.Edges, Edge{
				Target: VertexKey{Name: we.TargetName, Revision: we.TargetRevision},
				Kind:   EdgeKind(we.Kind),
			})
		}
		g.vertices[v.Key] = v
	}
	return g, nil
}

// SaveGraphFile flushes g to path atomically: it writes to a temporary
// file in the same directory and renames it over path, so a reader
// never observes a partially written graph (spec §4.7 step 6, §6).
func SaveGraphFile(g *Graph, path string) error {
	wg := wireGraph{}
	for _, v := range g.List() {
		wv := wireVertex{
			Name:        v.Key.Name,
			Revision:    v.Key.Revision,
			SchemaFile:  v.SchemaFile,
			Submodules:  v.Submodules,
			Implemented: v.Implemented,
		}
		for _, e := range v.Edges {
			wv.Edges = append(wv.Edges, wireEdge{TargetName: e.Target.Name, TargetRevision: e.Target.Revision, Kind: int(e.Kind)})
		}
		wg.Vertices = append(wg.Vertices, wv)
	}

	b, err := json.MarshalIndent(wg, "", "  ")
	if err != nil {
		return fmt.Errorf("srmodule: SaveGraphFile: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".graph-*.tmp")
	if err != nil {
		return fmt.Errorf("srmodule: SaveGraphFile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("srmodule: SaveGraphFile: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("srmodule: SaveGraphFile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("srmodule: SaveGraphFile: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("srmodule: SaveGraphFile: %w", err)
	}
	return nil
}
