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

// Bounds constrains a chunked emission (§4.3): the top-level child range
// to emit, the per-node child count every descendant below the root is
// limited to, and the maximum depth (root is depth 0) to emit.
type Bounds struct {
	SliceOffset int
	SliceWidth  int
	ChildLimit  int
	DepthLimit  int
}

// Chunk is one emitted sub-forest: Root's instance path (so a client can
// request the next chunk by path) plus the bounded copy of root itself.
type Chunk struct {
	RootPath string
	Root     *Node
}

// EmitChunk produces a sub-forest of root bounded by b: root's direct
// children are sliced to [b.SliceOffset, b.SliceOffset+b.SliceWidth),
// every node below the root is limited to b.ChildLimit children, and no
// node deeper than b.DepthLimit is emitted. Pruning runs first, so a
// pruned node and its descendants never count toward a sibling limit.
func EmitChunk(ctx context.Context, root *Node, b Bounds, predicate PrunePredicate) *Chunk {
	if root == nil {
		return nil
	}
	cp := root.shallowCopy()
	if b.DepthLimit >= 1 {
		survivors := pruneTopLevel(ctx, root.Children, predicate)
		lo, hi := clampRange(len(survivors), b.SliceOffset, b.SliceWidth)
		cp.Children = make([]*Node, 0, hi-lo)
		for _, c := range survivors[lo:hi] {
			cp.Children = append(cp.Children, emitDescendant(ctx, c, 2, b, predicate))
		}
	}
	return &Chunk{RootPath: rootPath(root), Root: cp}
}

// emitDescendant copies n and, while depth does not exceed b.DepthLimit,
// its children limited to b.ChildLimit (after pruning).
func emitDescendant(ctx context.Context, n *Node, depth int, b Bounds, predicate PrunePredicate) *Node {
	cp := n.shallowCopy()
	if depth > b.DepthLimit {
		return cp
	}
	survivors := pruneTopLevel(ctx, n.Children, predicate)
	limit := len(survivors)
	if b.ChildLimit < limit {
		limit = b.ChildLimit
	}
	if limit <= 0 {
		return cp
	}
	cp.Children = make([]*Node, 0, limit)
	for _, c := range survivors[:limit] {
		cp.Children = append(cp.Children, emitDescendant(ctx, c, depth+1, b, predicate))
	}
	return cp
}

// pruneTopLevel filters children once (not recursively); EmitChunk
// recurses into emitDescendant itself so pruning stays top-down without
// re-copying subtrees twice.
func pruneTopLevel(ctx context.Context, children []*Node, predicate PrunePredicate) []*Node {
	if predicate == nil {
		return children
	}
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		if predicate(ctx, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func clampRange(n, offset, width int) (lo, hi int) {
	lo = offset
	if lo < 0 {
		lo = 0
	}
	if lo > n {
		lo = n
	}
	hi = offset + width
	if hi < lo {
		hi = lo
	}
	if hi > n {
		hi = n
	}
	return lo, hi
}

func rootPath(n *Node) string {
	if n.Value == nil {
		return ""
	}
	return n.Value.Path
}
