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

// Package srproto implements the envelope builder and validator (C4/C5):
// a tagged wire record carrying exactly one of a request, a response, a
// notification, a notification-ack, or an internal-request, each with
// the single payload slot its operation or subscription code requires.
// It generalizes gnmidiff's typed request/response/notification wrapper
// shape (setrequest.go, notification.go) from "diff two gNMI messages"
// to "build and validate one sysrepo-shaped envelope".
package srproto
