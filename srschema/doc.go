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

// Package srschema adapts a parsed YANG module (via goyang) into the
// schema descriptor shape the rest of the module operates on, maps it
// to and from its wire form, and defines the small closed enumerations
// (datastore, change operation, list-move position, notification
// event, replay type) that appear throughout the envelope payloads.
package srschema
