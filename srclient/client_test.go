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

package srclient

import (
	"context"
	"fmt"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/rastislavszabo/sr/srproto"
)

// fakeConn is a grpc.ClientConnInterface test double standing in for a
// real dial: it decodes the envelope exactly as a daemon would and
// hands back a scripted response, without any networking.
type fakeConn struct {
	lastMethod string
	lastReq    *srproto.Envelope
	respond    func(req *srproto.Envelope) (*srproto.Envelope, error)
}

func (f *fakeConn) Invoke(ctx context.Context, method string, args, reply any, opts ...grpc.CallOption) error {
	f.lastMethod = method
	in, ok := args.(*wrapperspb.BytesValue)
	if !ok {
		return fmt.Errorf("fakeConn.Invoke: args type = %T, want *wrapperspb.BytesValue", args)
	}
	req, err := srproto.Decode(in.GetValue(), nil)
	if err != nil {
		return fmt.Errorf("fakeConn.Invoke: decode request: %w", err)
	}
	f.lastReq = req

	resp, err := f.respond(req)
	if err != nil {
		return err
	}
	body, err := srproto.Encode(resp)
	if err != nil {
		return fmt.Errorf("fakeConn.Invoke: encode response: %w", err)
	}
	out := reply.(*wrapperspb.BytesValue)
	*out = *wrapperspb.Bytes(body)
	return nil
}

func (f *fakeConn) NewStream(ctx context.Context, desc *grpc.StreamDesc, method string, opts ...grpc.CallOption) (grpc.ClientStream, error) {
	return nil, fmt.Errorf("fakeConn: streaming not used by srclient")
}

func TestExchangeRoundTrip(t *testing.T) {
	fc := &fakeConn{respond: func(req *srproto.Envelope) (*srproto.Envelope, error) {
		if req.Operation != srproto.OpModuleInstall {
			t.Fatalf("request Operation = %v, want OpModuleInstall", req.Operation)
		}
		resp, err := srproto.Build(nil, srproto.KindResponse, req.Operation, req.SessionID)
		if err != nil {
			t.Fatalf("Build response: %v", err)
		}
		resp.Result = srproto.OK
		return resp, nil
	}}
	c := NewClient(fc)

	req, err := srproto.Build(nil, srproto.KindRequest, srproto.OpModuleInstall, 7)
	if err != nil {
		t.Fatalf("Build request: %v", err)
	}
	req.Schema.ModuleName = "acme"

	resp, err := c.Exchange(context.Background(), req)
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if resp.Result != srproto.OK {
		t.Errorf("resp.Result = %v, want OK", resp.Result)
	}
	if fc.lastMethod != exchangeMethod {
		t.Errorf("Invoke method = %q, want %q", fc.lastMethod, exchangeMethod)
	}
	if fc.lastReq.Schema.ModuleName != "acme" {
		t.Errorf("daemon saw ModuleName = %q, want acme", fc.lastReq.Schema.ModuleName)
	}
}

func TestExchangePropagatesTransportError(t *testing.T) {
	fc := &fakeConn{respond: func(req *srproto.Envelope) (*srproto.Envelope, error) {
		return nil, fmt.Errorf("daemon unreachable")
	}}
	c := NewClient(fc)

	req, err := srproto.Build(nil, srproto.KindRequest, srproto.OpFeatureEnable, 1)
	if err != nil {
		t.Fatalf("Build request: %v", err)
	}
	if _, err := c.Exchange(context.Background(), req); err == nil {
		t.Fatalf("Exchange succeeded despite a transport failure")
	}
}

func TestClientCloseWithoutOwnedConnection(t *testing.T) {
	c := NewClient(&fakeConn{})
	if err := c.Close(); err != nil {
		t.Fatalf("Close on a non-owned connection: %v", err)
	}
}
