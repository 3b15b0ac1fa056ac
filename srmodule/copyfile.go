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

package srmodule

import (
	"fmt"
	"io"
	"os"
	"syscall"
)

// copySchemaFile copies src to dst, unless both already refer to the
// same inode (spec §4.7 install step 3: "skip-if-identical when
// source and target refer to the same inode"), in which case it is a
// no-op. An empty src is itself a no-op: not every module carries
// both a yang and a yin source.
func copySchemaFile(src, dst string) error {
	if src == "" {
		return nil
	}
	if sameFile(src, dst) {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("srmodule: open schema source %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("srmodule: create schema target %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("srmodule: copy schema %q -> %q: %w", src, dst, err)
	}
	return out.Close()
}

func sameFile(a, b string) bool {
	sa, err := os.Stat(a)
	if err != nil {
		return false
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false
	}
	ta, ok := sa.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	tb, ok := sb.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return ta.Dev == tb.Dev && ta.Ino == tb.Ino
}
