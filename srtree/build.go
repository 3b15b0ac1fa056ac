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

import "context"

// Visitor is called once per node during Walk, in preorder, with the
// module that applies to the node once qualifier inheritance is
// resolved. Returning false stops the walk of that node's subtree (but
// not of its remaining siblings).
type Visitor func(n *Node, effectiveModule string) bool

// Walk performs a preorder traversal of root, resolving each node's
// effective module as it descends.
func Walk(root *Node, rootModule string, visit Visitor) {
	walk(root, rootModule, visit)
}

func walk(n *Node, inherited string, visit Visitor) {
	if n == nil {
		return
	}
	eff := n.EffectiveModule(inherited)
	if !visit(n, eff) {
		return
	}
	for _, c := range n.Children {
		walk(c, eff, visit)
	}
}

// PrunePredicate is the tree pruning predicate (ctx, node) → bool: when
// it reports true for a node, that node and its entire subtree are
// dropped from copy/emit output and do not count toward sibling limits.
type PrunePredicate func(ctx context.Context, n *Node) bool

// Prune returns a copy of root with every subtree rooted at a node for
// which predicate reports true omitted. Pruning is applied top-down: a
// pruned node's children are never evaluated. A nil predicate prunes
// nothing. If root itself is pruned, Prune returns nil.
func Prune(ctx context.Context, root *Node, predicate PrunePredicate) *Node {
	if root == nil {
		return nil
	}
	if predicate != nil && predicate(ctx, root) {
		return nil
	}
	cp := root.shallowCopy()
	cp.Children = pruneChildren(ctx, root.Children, predicate)
	return cp
}

// pruneChildren filters children top-down and recursively prunes each
// survivor, matching Prune's semantics for use inside chunked emission.
func pruneChildren(ctx context.Context, children []*Node, predicate PrunePredicate) []*Node {
	if len(children) == 0 {
		return nil
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if predicate != nil && predicate(ctx, c) {
			continue
		}
		cp := c.shallowCopy()
		cp.Children = pruneChildren(ctx, c.Children, predicate)
		out = append(out, cp)
	}
	return out
}
