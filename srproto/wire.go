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
	"encoding/json"
	"fmt"

	"github.com/rastislavszabo/sr/sralloc"
	"github.com/rastislavszabo/sr/srschema"
	"github.com/rastislavszabo/sr/srtree"
	"github.com/rastislavszabo/sr/srtypes"
)

// WireNode is the wire form of an srtree.Node.
type WireNode struct {
	Value    *srtypes.WireValue `json:"value"`
	Module   string             `json:"module,omitempty"`
	Children []*WireNode        `json:"children,omitempty"`
}

// WireChunk is the wire form of an srtree.Chunk.
type WireChunk struct {
	RootPath string    `json:"root_path"`
	Root     *WireNode `json:"root"`
}

// WireEnvelope is the wire-shaped message ToWire/FromWire (de)serialize
// an Envelope through — the hand-authored counterpart of what
// protoc-gen-go would emit for this envelope (one optional sub-message
// per payload category). The daemon transport (srclient, C9) carries
// the JSON encoding of this struct inside a protobuf well-known
// wrapperspb.BytesValue over gRPC rather than a hand-built protobuf
// descriptor, since authoring and compiling a correct .proto descriptor
// requires protoc, which this environment never invokes — see DESIGN.md.
type WireEnvelope struct {
	Kind Kind `json:"kind"`

	SessionID    uint32 `json:"session_id,omitempty"`
	HasSessionID bool   `json:"has_session_id,omitempty"`

	Operation    Op   `json:"operation,omitempty"`
	HasOperation bool `json:"has_operation,omitempty"`

	SubscriptionID   string           `json:"subscription_id,omitempty"`
	Destination      string           `json:"destination,omitempty"`
	SubscriptionType SubscriptionType `json:"subscription_type,omitempty"`

	Result ResultCode           `json:"result"`
	Errors []WireEnvelopeError `json:"errors,omitempty"`

	Session      *SessionPayload      `json:"session,omitempty"`
	Schema       *SchemaPayload       `json:"schema,omitempty"`
	Data         *WireDataPayload     `json:"data,omitempty"`
	Mutation     *WireMutationPayload `json:"mutation,omitempty"`
	Transaction  *TransactionPayload  `json:"transaction,omitempty"`
	Lock         *LockPayload         `json:"lock,omitempty"`
	Subscription *SubscriptionPayload `json:"subscription,omitempty"`
	RPC          *WireRPCPayload      `json:"rpc,omitempty"`
	Internal     *InternalPayload     `json:"internal,omitempty"`

	Inner *WireEnvelope `json:"inner,omitempty"`
}

// WireEnvelopeError is the wire form of EnvelopeError.
type WireEnvelopeError struct {
	Message         string `json:"message"`
	InstancePath    string `json:"instance_path,omitempty"`
	HasInstancePath bool   `json:"has_instance_path,omitempty"`
}

// WireDataPayload is the wire form of DataPayload.
type WireDataPayload struct {
	Path        string                `json:"path,omitempty"`
	Values      []*srtypes.WireValue  `json:"values,omitempty"`
	Chunk       *WireChunk            `json:"chunk,omitempty"`
	SliceOffset int32                 `json:"slice_offset,omitempty"`
	SliceWidth  int32                 `json:"slice_width,omitempty"`
	ChildLimit  int32                 `json:"child_limit,omitempty"`
	DepthLimit  int32                 `json:"depth_limit,omitempty"`
}

// WireMutationPayload is the wire form of MutationPayload.
type WireMutationPayload struct {
	Path         string              `json:"path,omitempty"`
	Value        *srtypes.WireValue  `json:"value,omitempty"`
	ValueStr     string              `json:"value_str,omitempty"`
	Position     int32               `json:"position,omitempty"`
	RelativeItem string              `json:"relative_item,omitempty"`
}

// WireRPCPayload is the wire form of RPCPayload.
type WireRPCPayload struct {
	Path   string               `json:"path,omitempty"`
	Input  []*srtypes.WireValue `json:"input,omitempty"`
	Output []*srtypes.WireValue `json:"output,omitempty"`
}

// ToWire converts env to its wire form. Byte/string buffers inside
// text-like values are shared with env's storage, following
// srtypes.ToWire's own sharing rule.
func ToWire(env *Envelope) (*WireEnvelope, error) {
	if env == nil {
		return nil, fmt.Errorf("srproto: ToWire: nil envelope")
	}
	w := &WireEnvelope{
		Kind:             env.Kind,
		SessionID:        env.SessionID,
		HasSessionID:     env.HasSessionID,
		Operation:        env.Operation,
		HasOperation:     env.HasOperation,
		SubscriptionID:   env.SubscriptionID,
		Destination:      env.Destination,
		SubscriptionType: env.SubscriptionType,
		Result:           env.Result,
		Session:          env.Session,
		Schema:           env.Schema,
		Transaction:      env.Transaction,
		Lock:             env.Lock,
		Subscription:     env.Subscription,
		Internal:         env.Internal,
	}
	for _, e := range env.Errors {
		w.Errors = append(w.Errors, WireEnvelopeError{Message: e.Message, InstancePath: e.InstancePath, HasInstancePath: e.HasInstancePath})
	}
	if env.Data != nil {
		wd, err := dataPayloadToWire(env.Data)
		if err != nil {
			return nil, fmt.Errorf("srproto: ToWire: %w", err)
		}
		w.Data = wd
	}
	if env.Mutation != nil {
		wm, err := mutationPayloadToWire(env.Mutation)
		if err != nil {
			return nil, fmt.Errorf("srproto: ToWire: %w", err)
		}
		w.Mutation = wm
	}
	if env.RPC != nil {
		wr, err := rpcPayloadToWire(env.RPC)
		if err != nil {
			return nil, fmt.Errorf("srproto: ToWire: %w", err)
		}
		w.RPC = wr
	}
	if env.Inner != nil {
		wi, err := ToWire(env.Inner)
		if err != nil {
			return nil, err
		}
		w.Inner = wi
	}
	return w, nil
}

// FromWire decodes w back into an Envelope. If arena is non-nil, text-
// like value buffers are arena-owned (via srtypes.FromWire's sharing
// rule); if nil, values exclusively own their own buffers.
func FromWire(w *WireEnvelope, arena *sralloc.Arena) (*Envelope, error) {
	if w == nil {
		return nil, fmt.Errorf("srproto: FromWire: nil wire envelope")
	}
	env := &Envelope{
		Kind:             w.Kind,
		SessionID:        w.SessionID,
		HasSessionID:     w.HasSessionID,
		Operation:        w.Operation,
		HasOperation:     w.HasOperation,
		SubscriptionID:   w.SubscriptionID,
		Destination:      w.Destination,
		SubscriptionType: w.SubscriptionType,
		Result:           w.Result,
		Session:          w.Session,
		Schema:           w.Schema,
		Transaction:      w.Transaction,
		Lock:             w.Lock,
		Subscription:     w.Subscription,
		Internal:         w.Internal,
		arena:            arena,
	}
	for _, e := range w.Errors {
		env.Errors = append(env.Errors, EnvelopeError{Message: e.Message, InstancePath: e.InstancePath, HasInstancePath: e.HasInstancePath})
	}
	if w.Data != nil {
		d, err := dataPayloadFromWire(w.Data, arena)
		if err != nil {
			return nil, fmt.Errorf("srproto: FromWire: %w", err)
		}
		env.Data = d
	}
	if w.Mutation != nil {
		m, err := mutationPayloadFromWire(w.Mutation, arena)
		if err != nil {
			return nil, fmt.Errorf("srproto: FromWire: %w", err)
		}
		env.Mutation = m
	}
	if w.RPC != nil {
		r, err := rpcPayloadFromWire(w.RPC, arena)
		if err != nil {
			return nil, fmt.Errorf("srproto: FromWire: %w", err)
		}
		env.RPC = r
	}
	if w.Inner != nil {
		inner, err := FromWire(w.Inner, arena)
		if err != nil {
			return nil, err
		}
		env.Inner = inner
	}
	return env, nil
}

func dataPayloadToWire(d *DataPayload) (*WireDataPayload, error) {
	wd := &WireDataPayload{Path: d.Path, SliceOffset: int32(d.Bounds.SliceOffset), SliceWidth: int32(d.Bounds.SliceWidth), ChildLimit: int32(d.Bounds.ChildLimit), DepthLimit: int32(d.Bounds.DepthLimit)}
	for _, v := range d.Values {
		wv, err := srtypes.ToWire(v)
		if err != nil {
			return nil, err
		}
		wd.Values = append(wd.Values, wv)
	}
	if d.Chunk != nil {
		wn, err := nodeToWire(d.Chunk.Root)
		if err != nil {
			return nil, err
		}
		wd.Chunk = &WireChunk{RootPath: d.Chunk.RootPath, Root: wn}
	}
	return wd, nil
}

func dataPayloadFromWire(wd *WireDataPayload, arena *sralloc.Arena) (*DataPayload, error) {
	d := &DataPayload{
		Path:   wd.Path,
		Bounds: srtree.Bounds{SliceOffset: int(wd.SliceOffset), SliceWidth: int(wd.SliceWidth), ChildLimit: int(wd.ChildLimit), DepthLimit: int(wd.DepthLimit)},
	}
	for _, wv := range wd.Values {
		v, err := srtypes.FromWire(wv, arena)
		if err != nil {
			return nil, err
		}
		d.Values = append(d.Values, v)
	}
	if wd.Chunk != nil {
		n, err := nodeFromWire(wd.Chunk.Root, arena)
		if err != nil {
			return nil, err
		}
		d.Chunk = &srtree.Chunk{RootPath: wd.Chunk.RootPath, Root: n}
	}
	return d, nil
}

func mutationPayloadToWire(m *MutationPayload) (*WireMutationPayload, error) {
	wm := &WireMutationPayload{Path: m.Path, ValueStr: m.ValueStr, Position: srschema.MovePositionToWire(m.Position), RelativeItem: m.RelativeItem}
	if m.Value != nil {
		wv, err := srtypes.ToWire(m.Value)
		if err != nil {
			return nil, err
		}
		wm.Value = wv
	}
	return wm, nil
}

func mutationPayloadFromWire(wm *WireMutationPayload, arena *sralloc.Arena) (*MutationPayload, error) {
	m := &MutationPayload{Path: wm.Path, ValueStr: wm.ValueStr, Position: srschema.MovePositionFromWire(wm.Position), RelativeItem: wm.RelativeItem}
	if wm.Value != nil {
		v, err := srtypes.FromWire(wm.Value, arena)
		if err != nil {
			return nil, err
		}
		m.Value = v
	}
	return m, nil
}

func rpcPayloadToWire(r *RPCPayload) (*WireRPCPayload, error) {
	wr := &WireRPCPayload{Path: r.Path}
	for _, v := range r.Input {
		wv, err := srtypes.ToWire(v)
		if err != nil {
			return nil, err
		}
		wr.Input = append(wr.Input, wv)
	}
	for _, v := range r.Output {
		wv, err := srtypes.ToWire(v)
		if err != nil {
			return nil, err
		}
		wr.Output = append(wr.Output, wv)
	}
	return wr, nil
}

func rpcPayloadFromWire(wr *WireRPCPayload, arena *sralloc.Arena) (*RPCPayload, error) {
	r := &RPCPayload{Path: wr.Path}
	for _, wv := range wr.Input {
		v, err := srtypes.FromWire(wv, arena)
		if err != nil {
			return nil, err
		}
		r.Input = append(r.Input, v)
	}
	for _, wv := range wr.Output {
		v, err := srtypes.FromWire(wv, arena)
		if err != nil {
			return nil, err
		}
		r.Output = append(r.Output, v)
	}
	return r, nil
}

func nodeToWire(n *srtree.Node) (*WireNode, error) {
	if n == nil {
		return nil, nil
	}
	wv, err := srtypes.ToWire(n.Value)
	if err != nil {
		return nil, err
	}
	wn := &WireNode{Value: wv, Module: n.Module}
	for _, c := range n.Children {
		wc, err := nodeToWire(c)
		if err != nil {
			return nil, err
		}
		wn.Children = append(wn.Children, wc)
	}
	return wn, nil
}

func nodeFromWire(wn *WireNode, arena *sralloc.Arena) (*srtree.Node, error) {
	if wn == nil {
		return nil, nil
	}
	v, err := srtypes.FromWire(wn.Value, arena)
	if err != nil {
		return nil, err
	}
	n, err := srtree.NewNode(v)
	if err != nil {
		return nil, err
	}
	n.SetModule(wn.Module)
	for _, wc := range wn.Children {
		c, err := nodeFromWire(wc, arena)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// Encode marshals env's wire form to bytes for transport.
func Encode(env *Envelope) ([]byte, error) {
	w, err := ToWire(env)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Decode unmarshals bytes produced by Encode back into an Envelope.
func Decode(b []byte, arena *sralloc.Arena) (*Envelope, error) {
	var w WireEnvelope
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, fmt.Errorf("srproto: Decode: %w", err)
	}
	return FromWire(&w, arena)
}
