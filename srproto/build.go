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
	"fmt"

	"github.com/rastislavszabo/sr/sralloc"
)

// Build allocates a Request, Response, or InternalRequest envelope for
// operation op (§4.4): it sets kind and operation, then allocates the
// single payload slot op's category requires, even when it stays empty,
// so the slot is non-absent. An unknown op yields UNSUPPORTED. On
// failure, a build backed by arena restores arena's pre-build snapshot;
// an arena-less build has nothing to release beyond what Go's GC
// already reclaims once the returned error is discarded.
func Build(arena *sralloc.Arena, kind Kind, op Op, sessionID uint32) (*Envelope, error) {
	var snap sralloc.Cursor
	if arena != nil {
		snap = arena.Snapshot()
	}
	env, err := build(arena, kind, op, sessionID)
	if err != nil {
		if arena != nil {
			if rerr := arena.Restore(snap); rerr != nil {
				return nil, fmt.Errorf("srproto: Build: restore after failed build: %w", rerr)
			}
		}
		return nil, err
	}
	if arena != nil {
		arena.Retain()
	}
	return env, nil
}

func build(arena *sralloc.Arena, kind Kind, op Op, sessionID uint32) (*Envelope, error) {
	s, ok := payloadSlot(op)
	if !ok {
		return nil, NewError(Unsupported, fmt.Sprintf("unknown operation code %d", int(op)))
	}
	env := &Envelope{
		Kind:         kind,
		Operation:    op,
		HasOperation: true,
		SessionID:    sessionID,
		HasSessionID: true,
		arena:        arena,
	}
	allocatePayload(env, s)
	return env, nil
}

func allocatePayload(env *Envelope, s slot) {
	switch s {
	case slotSession:
		env.Session = &SessionPayload{}
	case slotSchema:
		env.Schema = &SchemaPayload{}
	case slotData:
		env.Data = &DataPayload{}
	case slotMutation:
		env.Mutation = &MutationPayload{}
	case slotTransaction:
		env.Transaction = &TransactionPayload{}
	case slotLock:
		env.Lock = &LockPayload{}
	case slotSubscription:
		env.Subscription = &SubscriptionPayload{}
	case slotRPC:
		env.RPC = &RPCPayload{}
	case slotInternal:
		env.Internal = &InternalPayload{}
	case slotNone:
	}
}

// notificationSlot maps a SubscriptionType to the payload category a
// Notification built with that type carries. HELLO and COMMIT_END carry
// no payload — they are out-of-band heartbeats (§9 open question:
// preserve this carve-out verbatim).
func notificationSlot(t SubscriptionType) (slot, bool) {
	switch t {
	case SubInstall, SubFeatureEnable:
		return slotSchema, true
	case SubModuleChange, SubSubtreeChange, SubDPGetItems, SubEventNotification:
		return slotSubscription, true
	case SubRPC, SubAction:
		return slotRPC, true
	case SubHello, SubCommitEnd:
		return slotNone, true
	default:
		return slotNone, false
	}
}

// BuildNotification allocates a Notification envelope for subscription
// subID, destination, and subType, following the same snapshot/restore
// or full-release failure semantics as Build.
func BuildNotification(arena *sralloc.Arena, subID, destination string, subType SubscriptionType) (*Envelope, error) {
	var snap sralloc.Cursor
	if arena != nil {
		snap = arena.Snapshot()
	}
	s, ok := notificationSlot(subType)
	if !ok {
		if arena != nil {
			if rerr := arena.Restore(snap); rerr != nil {
				return nil, fmt.Errorf("srproto: BuildNotification: restore after failed build: %w", rerr)
			}
		}
		return nil, NewError(Unsupported, fmt.Sprintf("unknown subscription type %d", int(subType)))
	}
	env := &Envelope{
		Kind:             KindNotification,
		SubscriptionID:   subID,
		Destination:      destination,
		SubscriptionType: subType,
		arena:            arena,
	}
	allocatePayload(env, s)
	if arena != nil {
		arena.Retain()
	}
	return env, nil
}

// BuildNotificationAck wraps inner in a NotificationAck envelope.
func BuildNotificationAck(arena *sralloc.Arena, inner *Envelope) (*Envelope, error) {
	if inner == nil {
		return nil, NewError(InvalArg, "BuildNotificationAck: inner notification is nil")
	}
	env := &Envelope{Kind: KindNotificationAck, Inner: inner, arena: arena}
	if arena != nil {
		arena.Retain()
	}
	return env, nil
}
