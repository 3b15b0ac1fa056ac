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
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rastislavszabo/sr/srproto"
)

// DefaultTimeout bounds every daemon round trip the module manager
// makes; it is long enough for the daemon to reload a schema but short
// enough that a stuck daemon doesn't hang `sysrepoctl` forever.
const DefaultTimeout = 30 * time.Second

// newSessionID derives a wire-sized session id from a fresh random
// UUID, so that concurrent sysrepoctl invocations against the same
// daemon don't collide on session id 0 the way a fixed constant would.
func newSessionID() uint32 {
	id := uuid.New()
	return binary.BigEndian.Uint32(id[:4])
}

// DaemonHandle adapts Client to srmodule.DaemonClient: the Manager only
// needs these two narrow calls, never the general Exchange surface.
type DaemonHandle struct {
	Client  *Client
	Timeout time.Duration
}

// NewDaemonHandle wraps an already-dialed Client.
func NewDaemonHandle(c *Client) *DaemonHandle {
	return &DaemonHandle{Client: c, Timeout: DefaultTimeout}
}

func (h *DaemonHandle) timeout() time.Duration {
	if h.Timeout <= 0 {
		return DefaultTimeout
	}
	return h.Timeout
}

// ModuleInstall notifies the daemon of a module install or uninstall
// (enabled=false signals uninstall) so it can pick up the new schema or
// reject the change if the module is still in use (spec §4.7, §5).
func (h *DaemonHandle) ModuleInstall(name, revision, filePath string, enabled bool) (srproto.ResultCode, error) {
	req, err := srproto.Build(nil, srproto.KindRequest, srproto.OpModuleInstall, newSessionID())
	if err != nil {
		return srproto.Internal, fmt.Errorf("srclient: build MODULE_INSTALL request: %w", err)
	}
	req.Schema.ModuleName = name
	req.Schema.Revision = revision
	req.Schema.Enabled = enabled
	if filePath != "" {
		req.Schema.Schemas = []byte(filePath)
	}

	resp, err := h.Client.ExchangeWithTimeout(req, h.timeout())
	if err != nil {
		return srproto.Internal, err
	}
	return resp.Result, nil
}

// FeatureEnable notifies the daemon that a module feature should be
// toggled (spec §4.7 feature-enable/feature-disable).
func (h *DaemonHandle) FeatureEnable(module, feature string, enable bool) (srproto.ResultCode, error) {
	req, err := srproto.Build(nil, srproto.KindRequest, srproto.OpFeatureEnable, newSessionID())
	if err != nil {
		return srproto.Internal, fmt.Errorf("srclient: build FEATURE_ENABLE request: %w", err)
	}
	req.Schema.ModuleName = module
	req.Schema.FeatureName = feature
	req.Schema.Enabled = enable

	resp, err := h.Client.ExchangeWithTimeout(req, h.timeout())
	if err != nil {
		return srproto.Internal, err
	}
	return resp.Result, nil
}
