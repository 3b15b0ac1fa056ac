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

import "testing"

func TestDatastoreWireMapping(t *testing.T) {
	cases := []struct {
		ds   Datastore
		wire int32
	}{
		{Startup, 0},
		{Running, 1},
		{Candidate, 2},
	}
	for _, c := range cases {
		if got := DatastoreToWire(c.ds); got != c.wire {
			t.Errorf("DatastoreToWire(%s) = %d, want %d", c.ds, got, c.wire)
		}
		if got := DatastoreFromWire(c.wire); got != c.ds {
			t.Errorf("DatastoreFromWire(%d) = %s, want %s", c.wire, got, c.ds)
		}
	}
}

func TestDatastoreUnknownWireDecodesToStartup(t *testing.T) {
	if got := DatastoreFromWire(99); got != Startup {
		t.Fatalf("DatastoreFromWire(99) = %s, want STARTUP", got)
	}
}

func TestChangeOpZeroValueIsModified(t *testing.T) {
	var op ChangeOp
	if op != Modified {
		t.Fatalf("zero value ChangeOp = %s, want MODIFIED", op)
	}
}

func TestChangeOpWireMapping(t *testing.T) {
	cases := []struct {
		op   ChangeOp
		wire int32
	}{
		{Created, 0},
		{Deleted, 1},
		{Moved, 2},
		{Modified, 3},
	}
	for _, c := range cases {
		if got := ChangeOpToWire(c.op); got != c.wire {
			t.Errorf("ChangeOpToWire(%s) = %d, want %d", c.op, got, c.wire)
		}
		if got := ChangeOpFromWire(c.wire); got != c.op {
			t.Errorf("ChangeOpFromWire(%d) = %s, want %s", c.wire, got, c.op)
		}
	}
}

func TestChangeOpUnknownWireDecodesToModified(t *testing.T) {
	if got := ChangeOpFromWire(99); got != Modified {
		t.Fatalf("ChangeOpFromWire(99) = %s, want MODIFIED", got)
	}
}

func TestMovePositionZeroValueIsLast(t *testing.T) {
	var p MovePosition
	if p != Last {
		t.Fatalf("zero value MovePosition = %s, want LAST", p)
	}
}

func TestMovePositionDefaultIsLast(t *testing.T) {
	if got := MovePosition(99).String(); got != "LAST" {
		t.Fatalf("unrecognized MovePosition.String() = %q, want LAST", got)
	}
}

func TestMovePositionWireMapping(t *testing.T) {
	cases := []struct {
		pos  MovePosition
		wire int32
	}{
		{Before, 0},
		{After, 1},
		{First, 2},
		{Last, 3},
	}
	for _, c := range cases {
		if got := MovePositionToWire(c.pos); got != c.wire {
			t.Errorf("MovePositionToWire(%s) = %d, want %d", c.pos, got, c.wire)
		}
		if got := MovePositionFromWire(c.wire); got != c.pos {
			t.Errorf("MovePositionFromWire(%d) = %s, want %s", c.wire, got, c.pos)
		}
	}
}

func TestMovePositionUnknownWireDecodesToLast(t *testing.T) {
	if got := MovePositionFromWire(99); got != Last {
		t.Fatalf("MovePositionFromWire(99) = %s, want LAST", got)
	}
}

func TestNotificationEventNames(t *testing.T) {
	want := map[NotificationEvent]string{Verify: "VERIFY", Apply: "APPLY", Abort: "ABORT", Enabled: "ENABLED"}
	for e, s := range want {
		if got := e.String(); got != s {
			t.Errorf("%d.String() = %q, want %q", e, got, s)
		}
	}
}

func TestReplayTypeNames(t *testing.T) {
	want := map[ReplayType]string{Realtime: "REALTIME", Replay: "REPLAY", ReplayComplete: "REPLAY_COMPLETE", ReplayStop: "REPLAY_STOP"}
	for r, s := range want {
		if got := r.String(); got != s {
			t.Errorf("%d.String() = %q, want %q", r, got, s)
		}
	}
}
