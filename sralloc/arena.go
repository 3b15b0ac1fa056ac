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

// Package sralloc implements the bump-style region allocator (C1 in the
// design) that every request-scoped typed-value/typed-tree graph is
// built from. An Arena grows a sequence of fixed-size segments; a
// Snapshot captures the current segment/offset cursor and object count,
// and Restore logically frees everything allocated since then without
// per-node cleanup.
//
// The shape (segment table, bump offset within the active segment,
// growth-on-demand) follows the segment/freelist design in OPA's arena
// storage backend, adapted here from fixed 32-byte graph nodes to
// variable-length byte buffers, since a typed value's payload (a
// string, a binary blob, a bits set) is not a fixed size.
package sralloc

import (
	"errors"
	"fmt"
)

// ErrNoMem is returned by Alloc when growing the arena would exceed
// maxSegments; callers restore a pre-build Snapshot on this error.
var ErrNoMem = errors.New("sralloc: out of memory")

// segmentSize is the size, in bytes, of each region segment.
const segmentSize = 64 * 1024

// maxSegments bounds how many segments a single Arena may grow to.
const maxSegments = 1 << 16

// Cursor is a snapshot of an Arena's allocation state. It is cheap to
// take (a few machine words) and must only ever be restored against the Arena
// that produced it.
type Cursor struct {
	arena      *Arena
	segIdx     int
	offset     int
	objCount   int
	generation uint64
}

// Arena is a region allocator with snapshot/restore and an object-count
// gate controlling destruction.
type Arena struct {
	segments [][]byte
	segIdx   int
	offset   int

	objCount int

	// generation increments on every Restore so that a Cursor taken
	// before a Restore can never be mistaken for a later, coincidentally
	// identical (segIdx, offset) position — touching a stale Cursor's
	// memory is caller error (see package docs), but Restore itself
	// must not be fooled by cursor reuse.
	generation uint64

	destroyed bool

	// lastStringSlot/lastStringSegIdx/lastStringEnd record where the most
	// recent EditString call placed its buffer, so a later EditString on
	// the same slot can detect "already at the top of the arena" without
	// resorting to unsafe pointer arithmetic.
	lastStringSlot   *string
	lastStringSegIdx int
	lastStringEnd    int
}

// New returns a fresh, empty Arena.
func New() *Arena {
	a := &Arena{}
	a.segments = append(a.segments, make([]byte, segmentSize))
	return a
}

// Alloc reserves n bytes and returns a slice into arena-owned memory.
// The returned slice is only valid until the next Restore to a Cursor
// taken before this call, or until the Arena is destroyed.
func (a *Arena) Alloc(n int) ([]byte, error) {
	if a.destroyed {
		return nil, fmt.Errorf("sralloc: alloc on destroyed arena")
	}
	if n < 0 {
		return nil, fmt.Errorf("sralloc: negative allocation size %d", n)
	}

	cur := a.segments[a.segIdx]
	if a.offset+n > len(cur) {
		if n > segmentSize {
			// Oversized allocation gets its own dedicated segment.
			if a.segIdx+1 >= maxSegments {
				return nil, ErrNoMem
			}
			a.segments = append(a.segments, make([]byte, n))
			a.segIdx++
			a.offset = n
			return a.segments[a.segIdx][:n], nil
		}
		if a.segIdx+1 >= maxSegments {
			return nil, ErrNoMem
		}
		a.segments = append(a.segments, make([]byte, segmentSize))
		a.segIdx++
		a.offset = 0
		cur = a.segments[a.segIdx]
	}

	start := a.offset
	a.offset += n
	return cur[start:a.offset], nil
}

// EditString sets *slot to an arena-owned copy of s. If *slot was the
// target of the immediately preceding EditString call on this Arena
// (i.e. it sits at the current top of the arena) and s fits in the
// same footprint, it is overwritten in place instead of allocating
// fresh memory — mirroring sr_mem_edit_string's reuse-if-possible rule.
func (a *Arena) EditString(slot *string, s string) error {
	if slot != nil && slot == a.lastStringSlot && a.segIdx == a.lastStringSegIdx &&
		a.offset == a.lastStringEnd && len(s) <= len(*slot) {
		cur := a.segments[a.segIdx]
		start := a.offset - len(*slot)
		buf := cur[start : start+len(s) : start+len(s)]
		copy(buf, s)
		*slot = string(buf)
		a.lastStringEnd = start + len(s)
		return nil
	}

	buf, err := a.Alloc(len(s))
	if err != nil {
		return err
	}
	copy(buf, s)
	*slot = string(buf)
	a.lastStringSlot = slot
	a.lastStringSegIdx = a.segIdx
	a.lastStringEnd = a.offset
	return nil
}

// Snapshot captures the Arena's current allocation cursor and object
// count. Restoring it later frees every allocation made after this
// call.
func (a *Arena) Snapshot() Cursor {
	return Cursor{
		arena:      a,
		segIdx:     a.segIdx,
		offset:     a.offset,
		objCount:   a.objCount,
		generation: a.generation,
	}
}

// Restore rewinds the Arena to the state captured by c. Every byte
// slice handed out by Alloc/EditString after c was taken becomes
// invalid and must not be touched again.
func (a *Arena) Restore(c Cursor) error {
	if c.arena != a {
		return fmt.Errorf("sralloc: cursor belongs to a different arena")
	}
	if c.generation != a.generation {
		return fmt.Errorf("sralloc: cursor is stale (arena already restored past it)")
	}
	a.segIdx = c.segIdx
	a.offset = c.offset
	a.objCount = c.objCount
	a.generation++
	a.lastStringSlot = nil
	return nil
}

// Retain increments the object count, marking one logically retained
// top-level result (a Value, a Tree, or an Envelope) handed back across
// a public API boundary. Per the design's object-count rule (spec §9
// open question), intermediate duplicates made while building that
// result do not call Retain — only the final value returned to the
// caller does.
func (a *Arena) Retain() {
	a.objCount++
}

// Release decrements the object count. The Arena may only be destroyed
// once its object count reaches zero (invariant in spec §3).
func (a *Arena) Release() {
	if a.objCount > 0 {
		a.objCount--
	}
}

// ObjectCount returns the number of currently retained top-level
// objects.
func (a *Arena) ObjectCount() int {
	return a.objCount
}

// Destroy releases the Arena's backing memory. It is an error to call
// Destroy while ObjectCount() is nonzero.
func (a *Arena) Destroy() error {
	if a.objCount != 0 {
		return fmt.Errorf("sralloc: destroy called with %d retained objects", a.objCount)
	}
	a.segments = nil
	a.destroyed = true
	return nil
}

