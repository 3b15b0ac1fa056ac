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

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/rastislavszabo/sr/srschema"
	"github.com/rastislavszabo/sr/srtypes"
)

// TestEnvelopeRoundTrip implements invariant 1: for every operation code
// and a validly filled payload, decode(encode(build(op, p))) equals
// build(op, p) up to arena-ownership differences, and the decoded
// envelope still validates.
func TestEnvelopeRoundTrip(t *testing.T) {
	ops := []Op{OpGetItems, OpLock, OpSetItem, OpValidate, OpRPC, OpModuleInstall, OpUnsubscribeDestination}
	for _, op := range ops {
		t.Run(op.String(), func(t *testing.T) {
			env, err := Build(nil, KindRequest, op, 7)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if op == OpSetItem {
				v, _ := srtypes.NewString(srtypes.STRING, "/a", "hello")
				env.Mutation.Value = v
				env.Mutation.Path = "/a"
			}

			b, err := Encode(env)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(b, nil)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if got := Validate(back, KindRequest, op); got != OK {
				t.Fatalf("Validate(decoded) = %s, want OK", got)
			}
			if diff := cmp.Diff(env, back, cmpopts.IgnoreUnexported(Envelope{}), cmpopts.IgnoreUnexported(srtypes.Value{})); diff != "" {
				t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
			}
			if op == OpSetItem {
				got, err := back.Mutation.Value.String()
				if err != nil || got != "hello" {
					t.Fatalf("decoded SET_ITEM value = %q, %v, want %q, nil", got, err, "hello")
				}
			}
		})
	}
}

// TestMutationPositionRoundTrip proves MutationPayload.Position survives
// Encode/Decode via MovePositionToWire/MovePositionFromWire for a
// non-default value, not just the Last zero value TestEnvelopeRoundTrip
// happens to exercise.
func TestMutationPositionRoundTrip(t *testing.T) {
	cases := []srschema.MovePosition{srschema.Before, srschema.After, srschema.First, srschema.Last}
	for _, pos := range cases {
		t.Run(pos.String(), func(t *testing.T) {
			env, err := Build(nil, KindRequest, OpMoveItem, 7)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			env.Mutation.Path = "/a"
			env.Mutation.Position = pos
			env.Mutation.RelativeItem = "/a[1]"

			b, err := Encode(env)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			back, err := Decode(b, nil)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if back.Mutation.Position != pos {
				t.Fatalf("decoded Position = %s, want %s", back.Mutation.Position, pos)
			}
		})
	}
}

func TestEncodeDecodeErrorList(t *testing.T) {
	env, err := Build(nil, KindResponse, OpGetItem, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	env.Result = NotFound
	env.Errors = []EnvelopeError{{Message: "no such node", InstancePath: "/a/b", HasInstancePath: true}}

	b, err := Encode(env)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(b, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(back.Errors) != 1 || back.Errors[0].Message != "no such node" || back.Errors[0].InstancePath != "/a/b" {
		t.Fatalf("Errors round-trip = %+v, want one error with message/instance-path preserved", back.Errors)
	}
}
