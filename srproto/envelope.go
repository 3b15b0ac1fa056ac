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
	"github.com/rastislavszabo/sr/sralloc"
	"github.com/rastislavszabo/sr/srschema"
	"github.com/rastislavszabo/sr/srtree"
	"github.com/rastislavszabo/sr/srtypes"
)

// Kind is the envelope's wire-level tag: exactly one of a request, a
// response, a notification, a notification-ack, or an internal-request
// (§6).
type Kind int

const (
	KindUnknown Kind = iota
	KindRequest
	KindResponse
	KindNotification
	KindNotificationAck
	KindInternalRequest
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "Request"
	case KindResponse:
		return "Response"
	case KindNotification:
		return "Notification"
	case KindNotificationAck:
		return "NotificationAck"
	case KindInternalRequest:
		return "InternalRequest"
	default:
		return "Unknown"
	}
}

// SubscriptionType is the closed enumeration classifying a
// notification's intent (glossary: "Subscription type").
type SubscriptionType int

const (
	SubUnknown SubscriptionType = iota
	SubInstall
	SubFeatureEnable
	SubModuleChange
	SubSubtreeChange
	SubDPGetItems
	SubRPC
	SubAction
	SubEventNotification
	SubHello
	SubCommitEnd
)

// SessionPayload backs the session-lifecycle Op group.
type SessionPayload struct {
	Datastore int32
	Opts      uint32
}

// SchemaPayload backs the schema-catalog Op group.
type SchemaPayload struct {
	ModuleName  string
	Revision    string
	FeatureName string
	Enabled     bool
	Schemas     []byte
}

// DataPayload backs the data-access Op group.
type DataPayload struct {
	Path   string
	Values []*srtypes.Value
	Chunk  *srtree.Chunk
	Bounds srtree.Bounds
}

// MutationPayload backs the mutation Op group.
type MutationPayload struct {
	Path         string
	Value        *srtypes.Value
	ValueStr     string
	Position     srschema.MovePosition
	RelativeItem string
}

// TransactionPayload backs the transaction Op group.
type TransactionPayload struct {
	SourceDatastore int32
	TargetDatastore int32
}

// LockPayload backs the locking Op group.
type LockPayload struct {
	Datastore int32
}

// SubscriptionPayload backs the subscription Op group (excluding RPC and
// ACTION, which share RPCPayload per §4.4).
type SubscriptionPayload struct {
	SubscriptionID string
	Path           string
	Type           SubscriptionType
}

// RPCPayload is the single payload type RPC and ACTION share.
type RPCPayload struct {
	Path   string
	Input  []*srtypes.Value
	Output []*srtypes.Value
}

// InternalPayload backs the internal Op group.
type InternalPayload struct {
	TargetID string
	TimeoutS int32
	Data     string
}

// EnvelopeError is one element of a Response's error list (§4.4).
type EnvelopeError struct {
	Message         string
	InstancePath    string
	HasInstancePath bool
}

// Envelope is the tagged wire record (§6). Exactly one payload field is
// non-nil, chosen by Operation's payload category; Inner is set only on
// a NotificationAck.
type Envelope struct {
	Kind Kind

	SessionID    uint32
	HasSessionID bool

	Operation    Op
	HasOperation bool

	SubscriptionID   string
	Destination      string
	SubscriptionType SubscriptionType

	Result ResultCode
	Errors []EnvelopeError

	Session      *SessionPayload
	Schema       *SchemaPayload
	Data         *DataPayload
	Mutation     *MutationPayload
	Transaction  *TransactionPayload
	Lock         *LockPayload
	Subscription *SubscriptionPayload
	RPC          *RPCPayload
	Internal     *InternalPayload

	Inner *Envelope

	arena *sralloc.Arena
}

// Arena returns the Arena the envelope (and any arena-backed payload
// values it carries) was built from, or nil.
func (e *Envelope) Arena() *sralloc.Arena { return e.arena }
