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

package srproto

import (
	"testing"

	"github.com/rastislavszabo/sr/sralloc"
)

func TestBuildAllocatesMatchingSlot(t *testing.T) {
	env, err := Build(nil, KindRequest, OpGetItems, 42)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if env.Data == nil {
		t.Fatalf("GET_ITEMS built with no Data payload slot")
	}
	if env.Schema != nil || env.Mutation != nil {
		t.Fatalf("Build allocated more than one payload slot: %+v", env)
	}
}

func TestBuildUnknownOpUnsupported(t *testing.T) {
	_, err := Build(nil, KindRequest, Op(9999), 1)
	if err == nil {
		t.Fatalf("Build with unknown op succeeded, want error")
	}
	var srErr *Error
	if !asError(err, &srErr) || srErr.Code != Unsupported {
		t.Fatalf("Build error = %v, want Unsupported", err)
	}
}

func TestBuildRestoresSnapshotOnFailure(t *testing.T) {
	a := sralloc.New()
	if _, err := a.Alloc(16); err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	before := a.ObjectCount()
	if _, err := Build(a, KindRequest, Op(9999), 1); err == nil {
		t.Fatalf("Build with unknown op succeeded, want error")
	}
	if a.ObjectCount() != before {
		t.Fatalf("arena object count changed on a failed build: before=%d after=%d", before, a.ObjectCount())
	}

	// The arena must still be usable afterwards: Restore must not have
	// left it in a stale-cursor state.
	if _, err := a.Alloc(8); err != nil {
		t.Fatalf("Alloc after failed Build: %v", err)
	}
}

func TestRPCAndActionShareOnePayloadType(t *testing.T) {
	rpc, err := Build(nil, KindRequest, OpRPC, 1)
	if err != nil {
		t.Fatalf("Build(RPC): %v", err)
	}
	action, err := Build(nil, KindRequest, OpAction, 1)
	if err != nil {
		t.Fatalf("Build(ACTION): %v", err)
	}
	if rpc.RPC == nil || action.RPC == nil {
		t.Fatalf("RPC/ACTION did not both allocate an RPCPayload")
	}
}

func TestBuildNotificationHelloHasNoPayload(t *testing.T) {
	env, err := BuildNotification(nil, "sub-1", "dest", SubHello)
	if err != nil {
		t.Fatalf("BuildNotification: %v", err)
	}
	if env.Schema != nil || env.Subscription != nil || env.RPC != nil {
		t.Fatalf("HELLO notification allocated a payload: %+v", env)
	}
}

func asError(err error, out **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*out = e
	}
	return ok
}
