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

package sralloc

import "testing"

// TestSnapshotRestore implements scenario S4: open an arena, snapshot,
// allocate a chain of values, restore, and confirm the object count and
// allocation cursor return to exactly their pre-snapshot state.
func TestSnapshotRestore(t *testing.T) {
	a := New()

	if _, err := a.Alloc(16); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	a.Retain()

	snap := a.Snapshot()

	for i := 0; i < 100; i++ {
		buf, err := a.Alloc(8)
		if err != nil {
			t.Fatalf("Alloc %d: %v", i, err)
		}
		if len(buf) != 8 {
			t.Fatalf("Alloc %d: got len %d, want 8", i, len(buf))
		}
		a.Retain()
	}
	if got := a.ObjectCount(); got != 101 {
		t.Fatalf("ObjectCount before restore = %d, want 101", got)
	}

	for i := 0; i < 100; i++ {
		a.Release()
	}
	if err := a.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got := a.ObjectCount(); got != 1 {
		t.Fatalf("ObjectCount after restore = %d, want 1", got)
	}
	if a.segIdx != snap.segIdx || a.offset != snap.offset {
		t.Fatalf("cursor after restore = (%d,%d), want (%d,%d)", a.segIdx, a.offset, snap.segIdx, snap.offset)
	}

	buf, err := a.Alloc(4)
	if err != nil {
		t.Fatalf("Alloc after restore: %v", err)
	}
	if a.segIdx != snap.segIdx {
		t.Fatalf("post-restore allocation landed in segment %d, want %d", a.segIdx, snap.segIdx)
	}
	_ = buf
}

func TestRestoreRejectsStaleCursor(t *testing.T) {
	a := New()
	snap := a.Snapshot()
	if _, err := a.Alloc(8); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if err := a.Restore(snap); err != nil {
		t.Fatalf("first Restore: %v", err)
	}
	if err := a.Restore(snap); err == nil {
		t.Fatalf("second Restore with the same (now stale) cursor succeeded, want error")
	}
}

func TestEditStringReuseInPlace(t *testing.T) {
	a := New()
	var s string
	if err := a.EditString(&s, "hello"); err != nil {
		t.Fatalf("EditString: %v", err)
	}
	offsetAfterFirst := a.offset

	if err := a.EditString(&s, "hi"); err != nil {
		t.Fatalf("EditString reuse: %v", err)
	}
	if a.offset != offsetAfterFirst {
		t.Fatalf("EditString reuse allocated new memory: offset moved from %d to %d", offsetAfterFirst, a.offset)
	}
	if s != "hi" {
		t.Fatalf("s = %q, want %q", s, "hi")
	}
}

func TestDestroyRequiresZeroObjects(t *testing.T) {
	a := New()
	a.Retain()
	if err := a.Destroy(); err == nil {
		t.Fatalf("Destroy succeeded with a retained object, want error")
	}
	a.Release()
	if err := a.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
}
