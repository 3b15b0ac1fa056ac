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

// Package srlog provides a component-tagged wrapper around glog, the
// logging library used throughout this module's ancestor (ygot's
// genutil package logs fatal generator errors through it). Every call
// site here names the component it is logging on behalf of so that a
// single shared log stream stays attributable.
package srlog

import (
	"fmt"

	log "github.com/golang/glog"
)

// Component is one of the tags used across the core: arena, types, tree,
// proto, schema, module, ctl.
type Component string

const (
	Arena  Component = "arena"
	Types  Component = "types"
	Tree   Component = "tree"
	Proto  Component = "proto"
	Schema Component = "schema"
	Module Component = "module"
	CLI    Component = "ctl"
)

// Logger logs on behalf of a single component.
type Logger struct {
	c Component
}

// For returns a Logger scoped to the given component.
func For(c Component) Logger {
	return Logger{c: c}
}

func (l Logger) tag(format string) string {
	return fmt.Sprintf("[%s] %s", l.c, format)
}

// Infof logs an informational message.
func (l Logger) Infof(format string, args ...interface{}) {
	log.Infof(l.tag(format), args...)
}

// Warningf logs a warning, e.g. a silently-coerced default per spec §9.
func (l Logger) Warningf(format string, args ...interface{}) {
	log.Warningf(l.tag(format), args...)
}

// Errorf logs a recoverable error.
func (l Logger) Errorf(format string, args ...interface{}) {
	log.Errorf(l.tag(format), args...)
}

// Exitf logs a fatal error and terminates the process, mirroring
// genutil.OpenFile/SyncFile's use of log.Exitf for unrecoverable I/O
// failures. Reserved for cmd/sysrepoctl top-level failures only; library
// packages must return errors instead.
func (l Logger) Exitf(format string, args ...interface{}) {
	log.Exitf(l.tag(format), args...)
}
