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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/rastislavszabo/sr/srmodule"
)

// parseModule reads yangFile (and, transitively, anything it imports or
// includes that goyang can find along includePaths), and returns its
// top-level *yang.Module, the dependency edges the module declares for
// the dependency graph, and the resolved dependency modules themselves
// (ready for Install to copy and register alongside the primary
// module). Grounded on ygen/codegen.go's processModules: yang.NewModules,
// AddPath per include path, Read, then Process to resolve cross-module
// references.
func parseModule(yangFile string, includePaths []string) (*yang.Module, []srmodule.Edge, []srmodule.DependencyInput, error) {
	ms := yang.NewModules()
	for _, p := range includePaths {
		ms.AddPath(p)
	}
	if err := ms.Read(yangFile); err != nil {
		return nil, nil, nil, fmt.Errorf("sysrepoctl: reading %s: %w", yangFile, err)
	}
	if errs := ms.Process(); len(errs) != 0 {
		return nil, nil, nil, fmt.Errorf("sysrepoctl: processing %s: %v", yangFile, errs)
	}

	mod := primaryModule(ms, yangFile)
	if mod == nil {
		return nil, nil, nil, fmt.Errorf("sysrepoctl: %s did not yield a module", yangFile)
	}

	edges := moduleEdges(mod)
	deps := resolveDependencies(ms, mod, includePaths)
	return mod, edges, deps, nil
}

// moduleEdges turns m's declared imports/includes into dependency-graph
// edges (spec §3).
func moduleEdges(m *yang.Module) []srmodule.Edge {
	var edges []srmodule.Edge
	for _, imp := range m.Import {
		edges = append(edges, srmodule.Edge{
			Target: srmodule.VertexKey{Name: imp.Name, Revision: imp.RevisionDate},
			Kind:   srmodule.Imports,
		})
	}
	for _, inc := range m.Include {
		edges = append(edges, srmodule.Edge{
			Target: srmodule.VertexKey{Name: inc.Name, Revision: inc.RevisionDate},
			Kind:   srmodule.Includes,
		})
	}
	return edges
}

// resolveDependencies walks every module goyang resolved while reading
// primary's transitive import/include closure (ms.Modules, after
// Process) and returns the ones that have a locatable source file
// along includePaths, skipping the rest as library-internal modules.
// This is the Go-port analog of
// original_source/src/executables/sysrepoctl.c's srctl_schema_install,
// which recurses into module->imp[i]/module->inc[i] and explicitly
// "skip[s] libyang's internal modules" whenever
// module->imp[i].module->filepath is NULL; goyang has no such built-in
// module concept; a resolved module genuinely has no installable
// source of its own exactly when none of includePaths holds a file
// matching its name, which is the same convention goyang itself used
// to resolve the import in the first place.
func resolveDependencies(ms *yang.Modules, primary *yang.Module, includePaths []string) []srmodule.DependencyInput {
	var deps []srmodule.DependencyInput
	for name, m := range ms.Modules {
		if m == primary {
			continue
		}
		rev := ""
		if len(m.Revision) > 0 {
			rev = m.Revision[0].Name
		}
		yangFile, ok := locateModuleFile(name, rev, includePaths)
		if !ok {
			continue
		}
		deps = append(deps, srmodule.DependencyInput{
			Key:        srmodule.VertexKey{Name: name, Revision: rev},
			SourceYang: yangFile,
			Edges:      moduleEdges(m),
		})
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].Key.Name < deps[j].Key.Name })
	return deps
}

// locateModuleFile finds the .yang source file goyang would have read
// to resolve a module named name (optionally at revision rev), using
// the same name[@revision].yang convention AddPath-driven resolution
// relies on.
func locateModuleFile(name, rev string, includePaths []string) (string, bool) {
	candidates := []string{name + ".yang"}
	if rev != "" {
		candidates = append([]string{name + "@" + rev + ".yang"}, candidates...)
	}
	for _, dir := range includePaths {
		for _, c := range candidates {
			p := filepath.Join(dir, c)
			if _, err := os.Stat(p); err == nil {
				return p, true
			}
		}
	}
	return "", false
}

// primaryModule picks the module yangFile itself declared, by
// convention named after the file's base name, out of every module
// ms.Process parsed in (transitively including whatever yangFile
// imports or includes). Falls back to the only module present when
// there is just one, which handles the common case where a schema's
// declared name doesn't exactly match its file name.
func primaryModule(ms *yang.Modules, yangFile string) *yang.Module {
	base := strings.TrimSuffix(filepath.Base(yangFile), filepath.Ext(yangFile))
	if m, ok := ms.Modules[base]; ok {
		return m
	}
	var only *yang.Module
	count := 0
	for _, m := range ms.Modules {
		only = m
		count++
	}
	if count == 1 {
		return only
	}
	for _, m := range ms.Modules {
		if m.Name == base {
			return m
		}
	}
	return nil
}
