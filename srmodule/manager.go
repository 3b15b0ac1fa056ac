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
	"os/user"
	"strconv"
	"syscall"

	log "github.com/golang/glog"

	"github.com/rastislavszabo/sr/srproto"
	"github.com/rastislavszabo/sr/srschema"
)

// DaemonClient is the narrow interface the Manager needs from the
// daemon transport (srclient, C9) to coordinate install/uninstall/
// feature changes. A nil DaemonClient means the daemon is not
// required for the current operation (spec §5: "when required and
// the daemon is absent, fail fast" is the caller's responsibility to
// enforce before reaching here).
type DaemonClient interface {
	ModuleInstall(name, revision, filePath string, enabled bool) (srproto.ResultCode, error)
	FeatureEnable(module, feature string, enable bool) (srproto.ResultCode, error)
}

// Manager is the Module Repository Manager (C7): it owns the
// dependency graph, the on-disk module store, and the schema catalog,
// and serializes every dependency-graph update through the graph's
// advisory lock.
type Manager struct {
	Paths   Paths
	Catalog *srschema.Catalog
	Daemon  DaemonClient
}

// NewManager returns a Manager rooted at p with an empty catalog.
func NewManager(p Paths) *Manager {
	return &Manager{Paths: p, Catalog: srschema.NewCatalog()}
}

// withGraph opens the graph lock, loads the graph, runs fn, and on a
// nil error persists the graph before releasing the lock (spec §4.7
// install steps 1/6/7, §5 Tool-side concurrency model).
func (m *Manager) withGraph(fn func(g *Graph) error) error {
	lock, err := OpenGraphLock(m.Paths.GraphFile() + ".lock")
	if err != nil {
		return err
	}
	defer lock.Close()
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	g, err := LoadGraphFile(m.Paths.GraphFile())
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	return SaveGraphFile(g, m.Paths.GraphFile())
}

// DependencyInput describes one resolved import/include dependency of
// the module being installed: its own schema source file, the
// submodules it carries, and the further edges it in turn declares.
// Install copies and registers each of these alongside the primary
// module (spec §4.7 install step 3: "Recursively copy each imported/
// included dependency the library resolved, skipping the library's
// built-in modules" — the skip of built-in/internal modules with no
// resolvable source file is the caller's responsibility, since only
// the caller's module resolver knows which modules those are).
type DependencyInput struct {
	Key        VertexKey
	SourceYang string
	SourceYin  string
	Submodules []string
	Edges      []Edge
}

// InstallInput carries everything the install operation needs about
// the module being installed and its resolved dependency set.
type InstallInput struct {
	Descriptor        *srschema.Descriptor
	SourceYang        string
	SourceYin         string
	Dependencies      []Edge
	DependencyModules []DependencyInput
	Owner             *Owner
	Permissions       *os.FileMode
	DataBearing       bool
}

// Install implements spec §4.7's install operation. It locks the
// graph, copies the schema file(s) into the schema directory
// (a copy whose source and target are already the same inode is
// skipped),
// recursively copies and registers any not-yet-installed dependency
// from in.DependencyModules, creates data files when the module is
// data-bearing, inserts the primary vertex, flushes, and — if a
// daemon is configured — notifies it. A failure after files were
// created rolls back by deleting them; a failure after the vertex was
// inserted rolls back by removing it.
func (m *Manager) Install(in InstallInput) error {
	key := VertexKey{Name: in.Descriptor.Name, Revision: in.Descriptor.Revision.Date}
	perm := os.FileMode(0o600)
	if in.Permissions != nil {
		perm = *in.Permissions
	}

	var createdSchemaKeys []VertexKey
	vertexInserted := false
	var alreadyInstalled bool

	rollback := func() {
		for _, k := range createdSchemaKeys {
			RemoveSchemaFiles(m.Paths, k.Name, k.Revision)
		}
		if in.DataBearing {
			RemoveDataFiles(m.Paths, key.Name)
		}
	}

	err := m.withGraph(func(g *Graph) error {
		if _, ok := g.Get(key); ok {
			alreadyInstalled = true
			return nil
		}

		for _, dep := range in.DependencyModules {
			if _, ok := g.Get(dep.Key); ok {
				continue
			}
			depTarget := m.Paths.SchemaFile(dep.Key.Name, dep.Key.Revision, false)
			if err := copySchemaFile(dep.SourceYang, depTarget); err != nil {
				return err
			}
			if dep.SourceYin != "" {
				if err := copySchemaFile(dep.SourceYin, m.Paths.SchemaFile(dep.Key.Name, dep.Key.Revision, true)); err != nil {
					return err
				}
			}
			createdSchemaKeys = append(createdSchemaKeys, dep.Key)

			dv := &Vertex{
				Key:        dep.Key,
				SchemaFile: depTarget,
				Submodules: dep.Submodules,
				Edges:      dep.Edges,
			}
			if _, err := g.Insert(dv); err != nil {
				return err
			}
		}

		target := m.Paths.SchemaFile(key.Name, key.Revision, false)
		if err := copySchemaFile(in.SourceYang, target); err != nil {
			return err
		}
		targetYin := ""
		if in.SourceYin != "" {
			targetYin = m.Paths.SchemaFile(key.Name, key.Revision, true)
			if err := copySchemaFile(in.SourceYin, targetYin); err != nil {
				return err
			}
		}
		createdSchemaKeys = append(createdSchemaKeys, key)

		if in.DataBearing {
			if err := CreateDataFiles(m.Paths, key.Name, in.Owner, perm); err != nil {
				return err
			}
		}

		v := &Vertex{
			Key:         key,
			SchemaFile:  target,
			Submodules:  submoduleNames(in.Descriptor),
			Edges:       in.Dependencies,
			Implemented: true,
		}
		if _, err := g.Insert(v); err != nil {
			return err
		}
		vertexInserted = true
		return g.CheckInvariants()
	})
	if err != nil {
		rollback()
		return err
	}
	if alreadyInstalled {
		return nil
	}

	if m.Daemon != nil {
		code, derr := m.Daemon.ModuleInstall(key.Name, key.Revision, m.Paths.SchemaFile(key.Name, key.Revision, false), true)
		if derr != nil || code == srproto.RestartNeeded || code != srproto.OK {
			_ = m.withGraph(func(g *Graph) error {
				_, rerr := g.Remove(key)
				return rerr
			})
			rollback()
			if derr != nil {
				return derr
			}
			return srproto.NewError(code, fmt.Sprintf("daemon refused MODULE_INSTALL for %s", key))
		}
	}

	if vertexInserted {
		m.Catalog.Put(in.Descriptor)
	}
	return nil
}

// Uninstall implements spec §4.7's uninstall operation: notify the
// daemon before any files are deleted so it can reject a module still
// in use, then remove the vertex (cascading to now-unreferenced
// dependencies), flush, and finally best-effort delete the schema and
// data files of the module and of every implicitly removed module.
func (m *Manager) Uninstall(name, revision string) error {
	key := VertexKey{Name: name, Revision: revision}

	if m.Daemon != nil {
		code, err := m.Daemon.ModuleInstall(name, revision, "", false)
		if err != nil {
			return err
		}
		if code != srproto.OK {
			return srproto.NewError(code, fmt.Sprintf("daemon refused to uninstall %s: module in use", key))
		}
	}

	var implicit []VertexKey
	err := m.withGraph(func(g *Graph) error {
		var rerr error
		implicit, rerr = g.Remove(key)
		return rerr
	})
	if err != nil {
		return err
	}

	RemoveSchemaFiles(m.Paths, name, revision)
	RemoveDataFiles(m.Paths, name)
	m.Catalog.Remove(name)
	for _, k := range implicit {
		RemoveSchemaFiles(m.Paths, k.Name, k.Revision)
		RemoveDataFiles(m.Paths, k.Name)
		m.Catalog.Remove(k.Name)
	}
	return nil
}

// Init implements spec §4.7's init operation: track an already-present
// schema file that is not yet in the graph, installing its data files
// exactly as install step 4 does.
func (m *Manager) Init(in InstallInput) error {
	key := VertexKey{Name: in.Descriptor.Name, Revision: in.Descriptor.Revision.Date}
	perm := os.FileMode(0o600)
	if in.Permissions != nil {
		perm = *in.Permissions
	}

	err := m.withGraph(func(g *Graph) error {
		if _, ok := g.Get(key); ok {
			return nil
		}
		if in.DataBearing {
			if err := CreateDataFiles(m.Paths, key.Name, in.Owner, perm); err != nil {
				return err
			}
		}
		v := &Vertex{
			Key:         key,
			SchemaFile:  in.Descriptor.Revision.YangFile,
			Submodules:  submoduleNames(in.Descriptor),
			Edges:       in.Dependencies,
			Implemented: true,
		}
		if _, err := g.Insert(v); err != nil {
			return err
		}
		return g.CheckInvariants()
	})
	if err != nil {
		return err
	}
	m.Catalog.Put(in.Descriptor)
	return nil
}

// Change implements spec §4.7's change operation.
func (m *Manager) Change(name string, owner *Owner, perm *os.FileMode, customRepository bool) error {
	return ApplyOwnerAndPermissions(m.Paths, name, owner, perm, customRepository)
}

// FeatureEnable/FeatureDisable forward the desired state to the
// daemon verbatim (spec §4.7); a nil Daemon means there is nothing to
// coordinate with.
func (m *Manager) FeatureEnable(module, feature string, enable bool) error {
	if m.Daemon == nil {
		return nil
	}
	code, err := m.Daemon.FeatureEnable(module, feature, enable)
	if err != nil {
		return err
	}
	if code != srproto.OK {
		return srproto.NewError(code, fmt.Sprintf("feature %s on %s: daemon refused", feature, module))
	}
	return nil
}

// ListEntry is one row of the `list` operation's output (spec §4.7,
// §6 table columns).
type ListEntry struct {
	Name            string
	Revision        string
	Owner           string
	Group           string
	Permissions     os.FileMode
	Submodules      []string
	EnabledFeatures []string
}

// List enumerates installed modules, obtaining each one's startup-file
// owner/group/permissions via stat (spec §4.7 list).
func (m *Manager) List() ([]ListEntry, error) {
	g, err := LoadGraphFile(m.Paths.GraphFile())
	if err != nil {
		return nil, err
	}

	var out []ListEntry
	for _, v := range g.List() {
		entry := ListEntry{Name: v.Key.Name, Revision: v.Key.Revision, Submodules: v.Submodules}
		if d, ok := m.Catalog.Get(v.Key.Name); ok {
			entry.EnabledFeatures = d.EnabledFeatures
		}
		if st, err := os.Stat(m.Paths.DataFile(v.Key.Name, Startup)); err == nil {
			entry.Permissions = st.Mode().Perm()
			if sys, ok := st.Sys().(*syscall.Stat_t); ok {
				entry.Owner = lookupUserName(sys.Uid)
				entry.Group = lookupGroupName(sys.Gid)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func lookupUserName(uid uint32) string {
	if u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10)); err == nil {
		return u.Username
	}
	log.Warningf("srmodule: no user name for uid %d", uid)
	return strconv.FormatUint(uint64(uid), 10)
}

func lookupGroupName(gid uint32) string {
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10)); err == nil {
		return g.Name
	}
	log.Warningf("srmodule: no group name for gid %d", gid)
	return strconv.FormatUint(uint64(gid), 10)
}

func submoduleNames(d *srschema.Descriptor) []string {
	names := make([]string, 0, len(d.Submodules))
	for _, sm := range d.Submodules {
		names = append(names, sm.Name)
	}
	return names
}
