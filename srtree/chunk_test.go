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
	"context"
	"fmt"
	"testing"
)

// wideFixture builds a root with n children, each carrying childCount
// grandchildren, so slicing/limit behavior can be checked independently
// at each level.
func wideFixture(t *testing.T, n, childCount int) *Node {
	t.Helper()
	root, _ := NewNode(mustContainer(t, "/root"))
	for i := 0; i < n; i++ {
		c, err := root.AddChild(mustContainer(t, fmt.Sprintf("/root/c%d", i)))
		if err != nil {
			t.Fatalf("AddChild: %v", err)
		}
		for j := 0; j < childCount; j++ {
			if _, err := c.AddChild(mustContainer(t, fmt.Sprintf("/root/c%d/g%d", i, j))); err != nil {
				t.Fatalf("AddChild(grandchild): %v", err)
			}
		}
	}
	return root
}

func TestEmitChunkSlicesTopLevelChildren(t *testing.T) {
	root := wideFixture(t, 10, 0)
	chunk := EmitChunk(context.Background(), root, Bounds{SliceOffset: 3, SliceWidth: 4, ChildLimit: 100, DepthLimit: 5}, nil)
	if len(chunk.Root.Children) != 4 {
		t.Fatalf("got %d top-level children, want 4", len(chunk.Root.Children))
	}
	if chunk.Root.Children[0].Value.Path != "/root/c3" || chunk.Root.Children[3].Value.Path != "/root/c6" {
		t.Fatalf("slice did not start at offset 3: %+v", chunk.Root.Children)
	}
	if chunk.RootPath != "/root" {
		t.Fatalf("RootPath = %q, want /root", chunk.RootPath)
	}
}

func TestEmitChunkLimitsDescendantChildren(t *testing.T) {
	root := wideFixture(t, 2, 10)
	chunk := EmitChunk(context.Background(), root, Bounds{SliceOffset: 0, SliceWidth: 2, ChildLimit: 3, DepthLimit: 5}, nil)
	for _, c := range chunk.Root.Children {
		if len(c.Children) != 3 {
			t.Fatalf("descendant %s has %d children, want child_limit=3", c.Value.Path, len(c.Children))
		}
	}
}

func TestEmitChunkDepthLimit(t *testing.T) {
	root := wideFixture(t, 2, 2)
	chunk := EmitChunk(context.Background(), root, Bounds{SliceOffset: 0, SliceWidth: 2, ChildLimit: 10, DepthLimit: 1}, nil)
	for _, c := range chunk.Root.Children {
		if len(c.Children) != 0 {
			t.Fatalf("depth_limit=1 should stop at root's direct children, got grandchildren on %s", c.Value.Path)
		}
	}
}

func TestEmitChunkPruneExcludesFromSiblingLimit(t *testing.T) {
	root := wideFixture(t, 4, 0)
	pruneC1 := func(_ context.Context, n *Node) bool {
		return n.Value.Path == "/root/c1"
	}
	chunk := EmitChunk(context.Background(), root, Bounds{SliceOffset: 0, SliceWidth: 2, ChildLimit: 100, DepthLimit: 5}, pruneC1)
	if len(chunk.Root.Children) != 2 {
		t.Fatalf("got %d children, want 2 (pruned sibling must not count toward the slice)", len(chunk.Root.Children))
	}
	if chunk.Root.Children[0].Value.Path != "/root/c0" || chunk.Root.Children[1].Value.Path != "/root/c2" {
		t.Fatalf("unexpected children after pruning c1: %+v", chunk.Root.Children)
	}
}
