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

// Package srtree implements the typed tree model (C3): a recursive node
// carrying a typed value (srtypes.Value) plus an optional module-name
// qualifier and an ordered child vector, with builder, pruning, chunked
// emission, and schema-library DOM conversion on top. It generalizes the
// tree-walk/emission shape of ygot's render.go (there, a reflected
// GoStruct walk; here, a runtime node walk) to a value-owned forest that
// is not backed by generated Go structs.
package srtree

import (
	"fmt"

	"github.com/rastislavszabo/sr/srtypes"
)

// Node is one element of a typed tree: a typed value, the module that
// qualifies it (present only when it differs from the parent's effective
// module, per §3), and its ordered children. A tree is a value-owned
// forest; when every Value in it shares an arena, the whole tree's byte
// buffers live in that arena and the tree must not outlive it.
type Node struct {
	Value    *srtypes.Value
	Module   string
	Children []*Node
}

// NewNode is the builder's new_node(name, type) operation: name and type
// are carried by v (its Path and Tag), so the node is constructed
// directly from an already-typed value.
func NewNode(v *srtypes.Value) (*Node, error) {
	if v == nil {
		return nil, fmt.Errorf("srtree: NewNode: value is nil")
	}
	return &Node{Value: v}, nil
}

// AddChild is the builder's add_child(parent) → child operation: it
// constructs a child node from v, appends it to n's children in order,
// and returns it.
func (n *Node) AddChild(v *srtypes.Value) (*Node, error) {
	child, err := NewNode(v)
	if err != nil {
		return nil, fmt.Errorf("srtree: AddChild: %w", err)
	}
	n.Children = append(n.Children, child)
	return child, nil
}

// SetModule is the builder's set_module(node, name) operation.
func (n *Node) SetModule(name string) {
	n.Module = name
}

// EffectiveModule returns module if it is non-empty, otherwise the
// module a child of n with an unset qualifier inherits.
func (n *Node) EffectiveModule(inherited string) string {
	if n.Module != "" {
		return n.Module
	}
	return inherited
}

// shallowCopy returns a new Node with n's Value and Module but an empty
// child list, for use by tree-transforming walks that rebuild structure
// top-down.
func (n *Node) shallowCopy() *Node {
	return &Node{Value: n.Value, Module: n.Module}
}
