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

	"golang.org/x/sys/unix"

	"github.com/rastislavszabo/sr/srproto"
)

// GraphLock is the advisory whole-file exclusive lock guarding the
// dependency-graph file across processes (spec §5, §9: "the lock is
// the cross-process contract"). Install and init copy schema files,
// create data files and flush the graph between Lock and Unlock;
// uninstall updates and flushes the graph under the lock but deletes
// the module's files after Unlock, and so does an install's rollback.
type GraphLock struct {
	f *os.File
}

// OpenGraphLock opens (creating if necessary) the lock file at path,
// ready for Lock/Unlock. It does not itself acquire the lock.
func OpenGraphLock(path string) (*GraphLock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("srmodule: OpenGraphLock: %w", err)
	}
	return &GraphLock{f: f}, nil
}

// Lock blocks until it acquires an exclusive lock on the underlying
// file. Blocking acquisition with no timeout is the documented
// behavior (spec §5 Blocking points (a)).
func (l *GraphLock) Lock() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_EX); err != nil {
		return srproto.NewError(srproto.Locked, fmt.Sprintf("srmodule: acquire graph lock: %v", err))
	}
	return nil
}

// TryLock attempts to acquire the lock without blocking, returning a
// LOCKED error if another process already holds it.
func (l *GraphLock) TryLock() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return srproto.NewError(srproto.Locked, fmt.Sprintf("srmodule: graph already locked: %v", err))
	}
	return nil
}

// Unlock releases the lock. It does not close the underlying file.
func (l *GraphLock) Unlock() error {
	return unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
}

// Close releases the lock (if held) and closes the underlying file.
func (l *GraphLock) Close() error {
	_ = l.Unlock()
	return l.f.Close()
}
