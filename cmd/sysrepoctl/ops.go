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

package main

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/rastislavszabo/sr/internal/srconfig"
	"github.com/rastislavszabo/sr/srclient"
	"github.com/rastislavszabo/sr/srmodule"
	"github.com/rastislavszabo/sr/srschema"
)

// opEnv carries everything a single verb's implementation needs: the
// resolved configuration, the module manager, and the bound flags.
type opEnv struct {
	cfg srconfig.Config
	mgr *srmodule.Manager
	v   *viper.Viper
}

func newOpEnv(cfg srconfig.Config, v *viper.Viper) *opEnv {
	mgr := srmodule.NewManager(srmodule.Paths{
		SchemaRoot:       cfg.SchemaRoot,
		DataRoot:         cfg.DataRoot,
		SocketsRoot:      cfg.SocketsRoot,
		InternalDataRoot: cfg.InternalDataRoot,
	})
	// A daemon is only contacted when the configuration demands it: a
	// non-blocking dial always "succeeds", so actually reaching out to
	// an absent daemon is deferred to the first Exchange, which is only
	// worth failing the whole operation over when --daemon-required (or
	// its config-file/env equivalent) says the daemon must be present.
	if cfg.DaemonRequired {
		if c, err := srclient.Dial(cfg.DaemonEndpoint); err == nil {
			mgr.Daemon = srclient.NewDaemonHandle(c)
		} else {
			log.Warningf("could not dial daemon at %s: %v", cfg.DaemonEndpoint, err)
		}
	}
	return &opEnv{cfg: cfg, mgr: mgr, v: v}
}

func (e *opEnv) list() error {
	entries, err := e.mgr.List()
	if err != nil {
		return err
	}
	printTable(os.Stdout, entries)
	return nil
}

func (e *opEnv) install() error {
	return e.installOrInit(false)
}

func (e *opEnv) initModule() error {
	return e.installOrInit(true)
}

func (e *opEnv) installOrInit(initOnly bool) error {
	yangFile := e.v.GetString("yang")
	if yangFile == "" {
		return fmt.Errorf("sysrepoctl: --yang is required")
	}
	includePaths := e.v.GetStringSlice("search-dir")
	if e.v.GetBool("search-installed") {
		includePaths = append(includePaths, e.cfg.SchemaRoot)
	}

	mod, edges, deps, err := parseModule(yangFile, includePaths)
	if err != nil {
		return err
	}

	desc, err := srschema.FromYangModule(mod, yangFile, e.v.GetString("yin"), nil, nil)
	if err != nil {
		return err
	}
	if err := srschema.Validate(desc); err != nil {
		return err
	}

	owner, err := parseOwner(e.v.GetString("owner"), e.cfg.DefaultOwner)
	if err != nil {
		return err
	}
	perm, err := parsePermissions(e.v.GetString("permissions"), e.cfg.DefaultPermissions)
	if err != nil {
		return err
	}

	in := srmodule.InstallInput{
		Descriptor:        desc,
		SourceYang:        yangFile,
		SourceYin:         e.v.GetString("yin"),
		Dependencies:      edges,
		DependencyModules: deps,
		Owner:             owner,
		Permissions:       perm,
		DataBearing:       e.v.GetBool("data-bearing"),
	}
	if initOnly {
		return e.mgr.Init(in)
	}
	return e.mgr.Install(in)
}

func (e *opEnv) uninstall() error {
	module := e.v.GetString("module")
	if module == "" {
		return fmt.Errorf("sysrepoctl: --module is required")
	}
	return e.mgr.Uninstall(module, e.v.GetString("revision"))
}

func (e *opEnv) change() error {
	module := e.v.GetString("module")
	if module == "" {
		return fmt.Errorf("sysrepoctl: --module is required")
	}
	owner, err := parseOwner(e.v.GetString("owner"), "")
	if err != nil {
		return err
	}
	var perm *os.FileMode
	if s := e.v.GetString("permissions"); s != "" {
		p, err := parsePermissions(s, "")
		if err != nil {
			return err
		}
		perm = p
	}
	return e.mgr.Change(module, owner, perm, false)
}

func (e *opEnv) featureToggle(feature string, enable bool) error {
	module := e.v.GetString("module")
	if module == "" {
		return fmt.Errorf("sysrepoctl: --module is required")
	}
	return e.mgr.FeatureEnable(module, feature, enable)
}

// parseOwner parses "user:group", falling back to def (also
// "user:group" form) when spec is empty. An empty result means "leave
// ownership untouched".
func parseOwner(spec, def string) (*srmodule.Owner, error) {
	if spec == "" {
		spec = def
	}
	if spec == "" {
		return nil, nil
	}
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("sysrepoctl: --owner must be user:group, got %q", spec)
	}
	u, err := user.Lookup(parts[0])
	if err != nil {
		return nil, fmt.Errorf("sysrepoctl: unknown user %q: %w", parts[0], err)
	}
	g, err := user.LookupGroup(parts[1])
	if err != nil {
		return nil, fmt.Errorf("sysrepoctl: unknown group %q: %w", parts[1], err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return nil, fmt.Errorf("sysrepoctl: malformed uid for %q: %w", parts[0], err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return nil, fmt.Errorf("sysrepoctl: malformed gid for %q: %w", parts[1], err)
	}
	return &srmodule.Owner{UID: uid, GID: gid}, nil
}

// parsePermissions parses an octal mode string such as "600", falling
// back to def when spec is empty. A nil result means "leave
// permissions untouched".
func parsePermissions(spec, def string) (*os.FileMode, error) {
	if spec == "" {
		spec = def
	}
	if spec == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(spec, 8, 32)
	if err != nil {
		return nil, fmt.Errorf("sysrepoctl: --permissions must be octal, got %q: %w", spec, err)
	}
	mode := os.FileMode(v)
	return &mode, nil
}
