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

// Validate checks a Request/Response/InternalRequest envelope against
// an expected kind and operation (§4.5): it returns OK iff the kind
// matches, the envelope's own declared operation matches expectedOp,
// and expectedOp's required payload slot is present. Every other case
// returns MalformedMsg with no further detail, per §7's message-level
// validation policy.
func Validate(env *Envelope, expectedKind Kind, expectedOp Op) ResultCode {
	if env == nil || env.Kind != expectedKind {
		return MalformedMsg
	}
	if !env.HasOperation || env.Operation != expectedOp {
		return MalformedMsg
	}
	s, ok := payloadSlot(expectedOp)
	if !ok {
		return MalformedMsg
	}
	if !payloadPresent(env, s) {
		return MalformedMsg
	}
	return OK
}

// ValidateNotification checks a Notification or NotificationAck
// envelope against an expected subscription type. HELLO and COMMIT_END
// are always accepted regardless of expectedType (§9: preserve this
// carve-out verbatim, never widen it).
func ValidateNotification(env *Envelope, expectedType SubscriptionType) ResultCode {
	if env == nil || (env.Kind != KindNotification && env.Kind != KindNotificationAck) {
		return MalformedMsg
	}
	if env.Kind == KindNotificationAck {
		if env.Inner == nil {
			return MalformedMsg
		}
		return ValidateNotification(env.Inner, expectedType)
	}
	if env.SubscriptionType == SubHello || env.SubscriptionType == SubCommitEnd {
		return OK
	}
	if env.SubscriptionType != expectedType {
		return MalformedMsg
	}
	s, ok := notificationSlot(expectedType)
	if !ok {
		return MalformedMsg
	}
	if !payloadPresent(env, s) {
		return MalformedMsg
	}
	return OK
}

func payloadPresent(env *Envelope, s slot) bool {
	switch s {
	case slotSession:
		return env.Session != nil
	case slotSchema:
		return env.Schema != nil
	case slotData:
		return env.Data != nil
	case slotMutation:
		return env.Mutation != nil
	case slotTransaction:
		return env.Transaction != nil
	case slotLock:
		return env.Lock != nil
	case slotSubscription:
		return env.Subscription != nil
	case slotRPC:
		return env.RPC != nil
	case slotInternal:
		return env.Internal != nil
	case slotNone:
		return true
	default:
		return false
	}
}
