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
	"testing"
)

// buildFixture builds root -> {keep, drop -> {keepUnderDrop}}.
func buildFixture(t *testing.T) *Node {
	t.Helper()
	root, _ := NewNode(mustContainer(t, "/root"))
	if _, err := root.AddChild(mustContainer(t, "/root/keep")); err != nil {
		t.Fatalf("AddChild(keep): %v", err)
	}
	drop, err := root.AddChild(mustContainer(t, "/root/drop"))
	if err != nil {
		t.Fatalf("AddChild(drop): %v", err)
	}
	if _, err := drop.AddChild(mustContainer(t, "/root/drop/keepUnderDrop")); err != nil {
		t.Fatalf("AddChild(keepUnderDrop): %v", err)
	}
	return root
}

func TestPruneDropsSubtreeTopDown(t *testing.T) {
	root := buildFixture(t)
	pruned := Prune(context.Background(), root, func(_ context.Context, n *Node) bool {
		return n.Value.Path == "/root/drop"
	})
	if len(pruned.Children) != 1 {
		t.Fatalf("pruned children = %d, want 1 (the dropped subtree must not survive)", len(pruned.Children))
	}
	if pruned.Children[0].Value.Path != "/root/keep" {
		t.Fatalf("pruned.Children[0] = %s, want /root/keep", pruned.Children[0].Value.Path)
	}
}

func TestPruneNilPredicateKeepsEverything(t *testing.T) {
	root := buildFixture(t)
	pruned := Prune(context.Background(), root, nil)
	if len(pruned.Children) != 2 {
		t.Fatalf("pruned children = %d, want 2", len(pruned.Children))
	}
}

func TestWalkStopStopsOnlyThatSubtree(t *testing.T) {
	root := buildFixture(t)
	var visited []string
	Walk(root, "", func(n *Node, _ string) bool {
		visited = append(visited, n.Value.Path)
		return n.Value.Path != "/root/drop"
	})
	for _, p := range visited {
		if p == "/root/drop/keepUnderDrop" {
			t.Fatalf("Walk descended into /root/drop after its visitor returned false")
		}
	}
	var sawKeep bool
	for _, p := range visited {
		if p == "/root/keep" {
			sawKeep = true
		}
	}
	if !sawKeep {
		t.Fatalf("Walk did not visit sibling /root/keep: %v", visited)
	}
}
