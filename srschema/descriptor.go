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

import (
	"fmt"
	"os"

	"github.com/openconfig/goyang/pkg/yang"

	"github.com/rastislavszabo/sr/util"
)

// RevisionInfo is a module or submodule's primary revision triple.
type RevisionInfo struct {
	Date     string
	YangFile string
	YinFile  string
}

// SubmoduleDescriptor is the installed-with-this-module record for one
// submodule: its name and the revision it was installed at.
type SubmoduleDescriptor struct {
	Name     string
	Revision RevisionInfo
}

// Descriptor is the Schema Descriptor (spec §3, C6): everything the
// catalog needs to know about one installed module, independent of the
// parsed yang.Module AST that produced it.
type Descriptor struct {
	Name            string
	Namespace       string
	Prefix          string
	Revision        RevisionInfo
	Submodules      []SubmoduleDescriptor
	EnabledFeatures []string
}

// SubmoduleInput bundles a parsed submodule's module node with the
// yang/yin file it was parsed from and the revision date the caller
// chose to install it at.
type SubmoduleInput struct {
	Module       *yang.Module
	YangFile     string
	YinFile      string
	RevisionDate string
}

// FromYangModule builds a Descriptor from a goyang-parsed module. The
// submodule revision-date invariant (it must equal one of the
// revisions the submodule itself declares) is checked here, while the
// AST is still available; Validate re-checks the invariants that only
// depend on the Descriptor's own fields.
func FromYangModule(m *yang.Module, yangFile, yinFile string, submodules []SubmoduleInput, enabledFeatures []string) (*Descriptor, error) {
	if m == nil {
		return nil, fmt.Errorf("srschema: FromYangModule: nil module")
	}

	d := &Descriptor{
		Name: m.Name,
		Revision: RevisionInfo{
			Date:     primaryRevisionDate(m),
			YangFile: yangFile,
			YinFile:  yinFile,
		},
		EnabledFeatures: append([]string(nil), enabledFeatures...),
	}
	if m.Namespace != nil {
		d.Namespace = m.Namespace.Name
	}
	if m.Prefix != nil {
		d.Prefix = m.Prefix.Name
	}

	var errs util.Errors
	for _, sm := range submodules {
		if sm.Module == nil {
			errs = util.AppendErr(errs, fmt.Errorf("srschema: submodule input with nil module"))
			continue
		}
		if !declaresRevision(sm.Module, sm.RevisionDate) {
			errs = util.AppendErr(errs, fmt.Errorf("srschema: submodule %q: revision-date %q is not among its declared revisions", sm.Module.Name, sm.RevisionDate))
			continue
		}
		d.Submodules = append(d.Submodules, SubmoduleDescriptor{
			Name: sm.Module.Name,
			Revision: RevisionInfo{
				Date:     sm.RevisionDate,
				YangFile: sm.YangFile,
				YinFile:  sm.YinFile,
			},
		})
	}
	if len(errs) != 0 {
		return nil, errs
	}
	return d, nil
}

func primaryRevisionDate(m *yang.Module) string {
	if len(m.Revision) == 0 {
		return ""
	}
	return m.Revision[0].Name
}

func declaresRevision(m *yang.Module, date string) bool {
	if date == "" {
		return len(m.Revision) == 0
	}
	for _, r := range m.Revision {
		if r.Name == date {
			return true
		}
	}
	return false
}

// Validate checks the Schema Descriptor invariants from spec §3 that
// depend only on the descriptor's own fields: the module name and
// namespace are non-empty, and the primary revision's yang-file or
// yin-file path references a file that can be stat'd.
func Validate(d *Descriptor) error {
	var errs util.Errors
	if d.Name == "" {
		errs = util.AppendErr(errs, fmt.Errorf("srschema: module name is empty"))
	}
	if d.Namespace == "" {
		errs = util.AppendErr(errs, fmt.Errorf("srschema: module %q: namespace is empty", d.Name))
	}
	if !accessible(d.Revision.YangFile) && !accessible(d.Revision.YinFile) {
		errs = util.AppendErr(errs, fmt.Errorf("srschema: module %q: neither yang-file %q nor yin-file %q is accessible", d.Name, d.Revision.YangFile, d.Revision.YinFile))
	}
	if len(errs) != 0 {
		return errs
	}
	return nil
}

func accessible(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
