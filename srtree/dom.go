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

package srtree

import (
	"fmt"
	"strings"

	"github.com/rastislavszabo/sr/srtypes"
)

// ModuleInfo is one installed module's contribution to the
// ietf-yang-library "modules-state" instance tree (RFC 7895): the
// schema-library DOM that ToYangLibrary/ModulesFromYangLibrary convert
// the typed tree to and from, grounded on the listing neoul-yangtree's
// yanglib.go builds from a walked schema tree — here built directly
// from already-resolved catalog entries rather than a *yang.Entry walk,
// since the source is the repository's own module list.
type ModuleInfo struct {
	Name       string
	Revision   string
	Submodules []SubmoduleInfo
	Features   []string
}

// SubmoduleInfo is one submodule entry under a ModuleInfo.
type SubmoduleInfo struct {
	Name     string
	Revision string
}

// ToYangLibrary renders modules as a "modules-state" instance tree: a
// presence container holding a "module" list, one entry per module,
// each carrying name/revision/conformance-type leaves, a feature leaf
// per enabled feature, and a submodule container per submodule.
func ToYangLibrary(modules []ModuleInfo) (*Node, error) {
	rootVal, err := srtypes.NewStructural(srtypes.CONTAINER_PRESENCE, "/ietf-yang-library:modules-state")
	if err != nil {
		return nil, fmt.Errorf("srtree: ToYangLibrary: %w", err)
	}
	root, err := NewNode(rootVal)
	if err != nil {
		return nil, err
	}
	root.SetModule("ietf-yang-library")

	listVal, err := srtypes.NewStructural(srtypes.LIST, rootVal.Path+"/module")
	if err != nil {
		return nil, fmt.Errorf("srtree: ToYangLibrary: %w", err)
	}
	listNode, err := root.AddChild(listVal)
	if err != nil {
		return nil, err
	}

	for _, m := range modules {
		entryPath := fmt.Sprintf("%s[name='%s'][revision='%s']", listVal.Path, m.Name, m.Revision)
		entryVal, err := srtypes.NewStructural(srtypes.CONTAINER, entryPath)
		if err != nil {
			return nil, fmt.Errorf("srtree: ToYangLibrary: %w", err)
		}
		entry, err := listNode.AddChild(entryVal)
		if err != nil {
			return nil, err
		}

		if err := addStringLeaf(entry, entryPath+"/name", srtypes.STRING, m.Name); err != nil {
			return nil, err
		}
		if err := addStringLeaf(entry, entryPath+"/revision", srtypes.STRING, m.Revision); err != nil {
			return nil, err
		}
		if err := addStringLeaf(entry, entryPath+"/conformance-type", srtypes.ENUM, "implement"); err != nil {
			return nil, err
		}
		for _, f := range m.Features {
			if err := addStringLeaf(entry, entryPath+"/feature", srtypes.STRING, f); err != nil {
				return nil, err
			}
		}
		for _, sm := range m.Submodules {
			smPath := fmt.Sprintf("%s/submodule[name='%s']", entryPath, sm.Name)
			smVal, err := srtypes.NewStructural(srtypes.CONTAINER, smPath)
			if err != nil {
				return nil, fmt.Errorf("srtree: ToYangLibrary: %w", err)
			}
			smNode, err := entry.AddChild(smVal)
			if err != nil {
				return nil, err
			}
			if err := addStringLeaf(smNode, smPath+"/name", srtypes.STRING, sm.Name); err != nil {
				return nil, err
			}
			if err := addStringLeaf(smNode, smPath+"/revision", srtypes.STRING, sm.Revision); err != nil {
				return nil, err
			}
		}
	}
	return root, nil
}

func addStringLeaf(parent *Node, path string, tag srtypes.Tag, s string) error {
	v, err := srtypes.NewString(tag, path, s)
	if err != nil {
		return fmt.Errorf("srtree: addStringLeaf(%s): %w", path, err)
	}
	_, err = parent.AddChild(v)
	return err
}

// ModulesFromYangLibrary is ToYangLibrary's inverse: it reads a
// "modules-state" tree back into the module-descriptor list it was
// built from.
func ModulesFromYangLibrary(root *Node) ([]ModuleInfo, error) {
	if root == nil {
		return nil, fmt.Errorf("srtree: ModulesFromYangLibrary: nil tree")
	}
	var out []ModuleInfo
	for _, listNode := range root.Children {
		if listNode.Value == nil || listNode.Value.Tag != srtypes.LIST {
			continue
		}
		for _, entry := range listNode.Children {
			mi, err := moduleFromEntry(entry)
			if err != nil {
				return nil, err
			}
			out = append(out, mi)
		}
	}
	return out, nil
}

func moduleFromEntry(entry *Node) (ModuleInfo, error) {
	var mi ModuleInfo
	for _, leaf := range entry.Children {
		if leaf.Value == nil {
			continue
		}
		switch {
		case leaf.Value.Tag == srtypes.CONTAINER && strings.Contains(leaf.Value.Path, "/submodule"):
			sm, err := submoduleFromEntry(leaf)
			if err != nil {
				return ModuleInfo{}, err
			}
			mi.Submodules = append(mi.Submodules, sm)
		case strings.HasSuffix(leaf.Value.Path, "/name"):
			s, err := leaf.Value.String()
			if err != nil {
				return ModuleInfo{}, err
			}
			mi.Name = s
		case strings.HasSuffix(leaf.Value.Path, "/revision"):
			s, err := leaf.Value.String()
			if err != nil {
				return ModuleInfo{}, err
			}
			mi.Revision = s
		case strings.HasSuffix(leaf.Value.Path, "/feature"):
			s, err := leaf.Value.String()
			if err != nil {
				return ModuleInfo{}, err
			}
			mi.Features = append(mi.Features, s)
		}
	}
	return mi, nil
}

func submoduleFromEntry(smNode *Node) (SubmoduleInfo, error) {
	var sm SubmoduleInfo
	for _, leaf := range smNode.Children {
		if leaf.Value == nil {
			continue
		}
		switch {
		case strings.HasSuffix(leaf.Value.Path, "/name"):
			s, err := leaf.Value.String()
			if err != nil {
				return SubmoduleInfo{}, err
			}
			sm.Name = s
		case strings.HasSuffix(leaf.Value.Path, "/revision"):
			s, err := leaf.Value.String()
			if err != nil {
				return SubmoduleInfo{}, err
			}
			sm.Revision = s
		}
	}
	return sm, nil
}
