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
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rastislavszabo/sr/srmodule"
)

// printTable renders the --list columns in the fixed order the tool has
// always used: name, revision, owner:group, octal permissions,
// submodules, enabled features.
func printTable(w io.Writer, entries []srmodule.ListEntry) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Module\tRevision\tOwner\tPermissions\tSubmodules\tFeatures")
	for _, e := range entries {
		writeRow(tw, e)
	}
	tw.Flush()
}

func writeRow(tw *tabwriter.Writer, e srmodule.ListEntry) {
	owner, group := e.Owner, e.Group
	if owner == "" {
		owner = "-"
	}
	if group == "" {
		group = "-"
	}
	fmt.Fprintf(tw, "%s\t%s\t%s:%s\t%04o\t%s\t%s\n",
		e.Name, e.Revision, owner, group, e.Permissions,
		strings.Join(e.Submodules, " "), strings.Join(e.EnabledFeatures, " "))
}
