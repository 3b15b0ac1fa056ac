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
	"path/filepath"
	"syscall"

	log "github.com/golang/glog"
)

// DataKind enumerates the per-module data files the store maintains,
// in the order srctl_data_files_apply walks them in the original tool.
type DataKind int

const (
	Startup DataKind = iota
	Running
	CandidateData
	Persist
	StartupLock
	RunningLock
	CandidateLock
)

func (k DataKind) ext() string {
	switch k {
	case Startup:
		return ".startup"
	case Running:
		return ".running"
	case CandidateData:
		return ".candidate"
	case Persist:
		return ".persist"
	case StartupLock:
		return ".startup.lock"
	case RunningLock:
		return ".running.lock"
	case CandidateLock:
		return ".candidate.lock"
	default:
		panic(fmt.Sprintf("srmodule: unknown data kind %d", k))
	}
}

// allDataKinds is the full set of files install step 4 creates for a
// data-bearing module.
var allDataKinds = []DataKind{Startup, Running, CandidateData, Persist, StartupLock, RunningLock, CandidateLock}

// Paths describes the four roots of the file-system layout (spec §6).
type Paths struct {
	SchemaRoot       string
	DataRoot         string
	SocketsRoot      string
	InternalDataRoot string
}

// SchemaFile returns the path of the module's yang or yin schema file.
func (p Paths) SchemaFile(name, revision string, yin bool) string {
	ext := ".yang"
	if yin {
		ext = ".yin"
	}
	if revision == "" {
		return filepath.Join(p.SchemaRoot, name+ext)
	}
	return filepath.Join(p.SchemaRoot, fmt.Sprintf("%s@%s%s", name, revision, ext))
}

// DataFile returns the path of one of the module's per-datastore data
// files.
func (p Paths) DataFile(name string, kind DataKind) string {
	return filepath.Join(p.DataRoot, name+kind.ext())
}

// SocketDir returns the module's subscription socket directory.
func (p Paths) SocketDir(name string) string {
	return filepath.Join(p.SocketsRoot, name)
}

// GraphFile returns the path of the dependency-graph file the Manager
// locks and flushes.
func (p Paths) GraphFile() string {
	return filepath.Join(p.InternalDataRoot, "dependencies.json")
}

// Owner is a (uid, gid) pair data files are chowned to.
type Owner struct {
	UID int
	GID int
}

// CreateDataFiles creates every data file for a newly installed
// data-bearing module, applies owner/permissions, and creates the
// module's socket directory with permissions derived from the startup
// file's mode (spec §4.7 install step 4; grounded on
// sysrepoctl.c's srctl_update_socket_dir_permissions /
// sr_utils.c's sr_set_data_file_permissions: write bits on the data
// file imply execute bits on the directory).
func CreateDataFiles(p Paths, name string, owner *Owner, perm os.FileMode) error {
	for _, k := range allDataKinds {
		path := p.DataFile(name, k)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return fmt.Errorf("srmodule: create data file %q: %w", path, err)
		}
		f.Close()
		if err := applyOwnerAndMode(path, owner, perm); err != nil {
			return err
		}
	}
	return UpdateSocketDirPermissions(p, name)
}

// UpdateSocketDirPermissions (re)creates the module's socket
// directory if needed and mirrors the startup data file's owner and
// mode onto it, with write bits promoted to execute bits so the
// directory remains traversable.
func UpdateSocketDirPermissions(p Paths, name string) error {
	dir := p.SocketDir(name)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return fmt.Errorf("srmodule: create socket dir %q: %w", dir, err)
	}

	st, err := os.Stat(p.DataFile(name, Startup))
	if err != nil {
		return fmt.Errorf("srmodule: stat startup file for socket dir permissions: %w", err)
	}
	mode := st.Mode().Perm()
	mode = mirrorWriteToExecute(mode)
	if err := os.Chmod(dir, mode); err != nil {
		return fmt.Errorf("srmodule: chmod socket dir %q: %w", dir, err)
	}

	if sys, ok := st.Sys().(*syscall.Stat_t); ok {
		if err := os.Chown(dir, int(sys.Uid), int(sys.Gid)); err != nil {
			log.Warningf("srmodule: chown socket dir %q: %v", dir, err)
		}
	}
	return nil
}

// mirrorWriteToExecute sets the execute bit alongside each write bit
// that is set, for each of user/group/other, without touching bits
// that were already set or clearing anything.
func mirrorWriteToExecute(mode os.FileMode) os.FileMode {
	if mode&0o200 != 0 {
		mode |= 0o100
	}
	if mode&0o020 != 0 {
		mode |= 0o010
	}
	if mode&0o002 != 0 {
		mode |= 0o001
	}
	return mode
}

func applyOwnerAndMode(path string, owner *Owner, perm os.FileMode) error {
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("srmodule: chmod %q: %w", path, err)
	}
	if owner != nil {
		if err := os.Chown(path, owner.UID, owner.GID); err != nil {
			return fmt.Errorf("srmodule: chown %q: %w", path, err)
		}
	}
	return nil
}

// ApplyOwnerAndPermissions implements the change operation (spec
// §4.7): it chowns/chmods every data file of name and, unless the
// caller is pointed at a custom (non-default) repository, re-derives
// the socket directory permissions from the new startup file mode.
func ApplyOwnerAndPermissions(p Paths, name string, owner *Owner, perm *os.FileMode, customRepository bool) error {
	for _, k := range allDataKinds {
		path := p.DataFile(name, k)
		if owner != nil {
			if err := os.Chown(path, owner.UID, owner.GID); err != nil {
				return fmt.Errorf("srmodule: chown %q: %w", path, err)
			}
		}
		if perm != nil {
			if err := os.Chmod(path, *perm); err != nil {
				return fmt.Errorf("srmodule: chmod %q: %w", path, err)
			}
		}
	}
	if customRepository {
		return nil
	}
	return UpdateSocketDirPermissions(p, name)
}

// RemoveDataFiles best-effort deletes every data file of name; a
// missing file is not an error (spec §4.7 uninstall step 7).
func RemoveDataFiles(p Paths, name string) {
	for _, k := range allDataKinds {
		_ = os.Remove(p.DataFile(name, k))
	}
}

// RemoveSchemaFiles deletes both the yang and yin schema files for
// (name, revision), ignoring a missing file either way.
func RemoveSchemaFiles(p Paths, name, revision string) {
	_ = os.Remove(p.SchemaFile(name, revision, false))
	_ = os.Remove(p.SchemaFile(name, revision, true))
}
