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
	"os"
	"testing"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	root := t.TempDir()
	p := Paths{
		SchemaRoot:       root + "/schema",
		DataRoot:         root + "/data",
		SocketsRoot:      root + "/sockets",
		InternalDataRoot: root + "/internal",
	}
	for _, dir := range []string{p.SchemaRoot, p.DataRoot, p.SocketsRoot, p.InternalDataRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", dir, err)
		}
	}
	return p
}

func TestMirrorWriteToExecute(t *testing.T) {
	cases := []struct {
		in, want os.FileMode
	}{
		{0o600, 0o700},
		{0o640, 0o740},
		{0o644, 0o744},
		{0o444, 0o444},
		{0o666, 0o777},
		{0o000, 0o000},
	}
	for _, c := range cases {
		if got := mirrorWriteToExecute(c.in); got != c.want {
			t.Errorf("mirrorWriteToExecute(%o) = %o, want %o", c.in, got, c.want)
		}
	}
}

// TestCreateDataFilesAndSocketDirPermissions covers invariant 9's
// install-time half: every data file created and the socket directory
// mode derived from the startup file mode with write bits mirrored to
// execute bits.
func TestCreateDataFilesAndSocketDirPermissions(t *testing.T) {
	p := testPaths(t)
	if err := CreateDataFiles(p, "acme", nil, 0o640); err != nil {
		t.Fatalf("CreateDataFiles: %v", err)
	}
	for _, k := range allDataKinds {
		if _, err := os.Stat(p.DataFile("acme", k)); err != nil {
			t.Errorf("data file %v missing: %v", k, err)
		}
	}
	st, err := os.Stat(p.DataFile("acme", Startup))
	if err != nil {
		t.Fatalf("stat startup file: %v", err)
	}
	if st.Mode().Perm() != 0o640 {
		t.Errorf("startup file mode = %o, want 0640", st.Mode().Perm())
	}

	dst, err := os.Stat(p.SocketDir("acme"))
	if err != nil {
		t.Fatalf("stat socket dir: %v", err)
	}
	if want := os.FileMode(0o740); dst.Mode().Perm() != want {
		t.Errorf("socket dir mode = %o, want %o", dst.Mode().Perm(), want)
	}
}

// TestCreateDataFilesSkipsExisting ensures a second CreateDataFiles
// call (e.g. an install retried after a partial failure) does not
// clobber files that already exist.
func TestCreateDataFilesSkipsExisting(t *testing.T) {
	p := testPaths(t)
	if err := CreateDataFiles(p, "acme", nil, 0o640); err != nil {
		t.Fatalf("first CreateDataFiles: %v", err)
	}
	if err := os.WriteFile(p.DataFile("acme", Startup), []byte("marker"), 0o640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := CreateDataFiles(p, "acme", nil, 0o600); err != nil {
		t.Fatalf("second CreateDataFiles: %v", err)
	}
	content, err := os.ReadFile(p.DataFile("acme", Startup))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "marker" {
		t.Errorf("second CreateDataFiles overwrote an existing data file")
	}
}

// TestApplyOwnerAndPermissionsUpdatesSocketDir implements scenario S5:
// change --permissions=0640 updates every data file's mode and
// re-derives the socket directory's mode from the new startup mode.
// Owner/group changes to the running process's own uid/gid are
// exercised since arbitrary chown requires privileges the test
// environment may not have; the permission-mirroring behavior under
// test does not depend on which uid/gid is used.
func TestApplyOwnerAndPermissionsUpdatesSocketDir(t *testing.T) {
	p := testPaths(t)
	if err := CreateDataFiles(p, "acme", nil, 0o600); err != nil {
		t.Fatalf("CreateDataFiles: %v", err)
	}

	owner := &Owner{UID: os.Getuid(), GID: os.Getgid()}
	perm := os.FileMode(0o640)
	if err := ApplyOwnerAndPermissions(p, "acme", owner, &perm, false); err != nil {
		t.Fatalf("ApplyOwnerAndPermissions: %v", err)
	}

	for _, k := range allDataKinds {
		st, err := os.Stat(p.DataFile("acme", k))
		if err != nil {
			t.Fatalf("stat %v: %v", k, err)
		}
		if st.Mode().Perm() != perm {
			t.Errorf("data file %v mode = %o, want %o", k, st.Mode().Perm(), perm)
		}
	}

	dst, err := os.Stat(p.SocketDir("acme"))
	if err != nil {
		t.Fatalf("stat socket dir: %v", err)
	}
	if want := os.FileMode(0o740); dst.Mode().Perm() != want {
		t.Errorf("socket dir mode after change = %o, want %o", dst.Mode().Perm(), want)
	}
}

func TestApplyOwnerAndPermissionsSkipsSocketDirForCustomRepository(t *testing.T) {
	p := testPaths(t)
	if err := CreateDataFiles(p, "acme", nil, 0o600); err != nil {
		t.Fatalf("CreateDataFiles: %v", err)
	}
	before, err := os.Stat(p.SocketDir("acme"))
	if err != nil {
		t.Fatalf("stat socket dir: %v", err)
	}

	perm := os.FileMode(0o640)
	if err := ApplyOwnerAndPermissions(p, "acme", nil, &perm, true); err != nil {
		t.Fatalf("ApplyOwnerAndPermissions: %v", err)
	}
	after, err := os.Stat(p.SocketDir("acme"))
	if err != nil {
		t.Fatalf("stat socket dir: %v", err)
	}
	if after.Mode().Perm() != before.Mode().Perm() {
		t.Errorf("socket dir mode changed under customRepository=true: %o -> %o", before.Mode().Perm(), after.Mode().Perm())
	}
}

func TestRemoveDataFilesIgnoresMissing(t *testing.T) {
	p := testPaths(t)
	RemoveDataFiles(p, "never-installed")
}
