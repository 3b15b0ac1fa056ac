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

package srtypes

import "errors"

// ErrUnsupportedType is returned for unknown or unhandled tags (§4.2).
var ErrUnsupportedType = errors.New("unsupported type")

// ErrInvalidValue is returned when a value's tag does not match its
// schema's resolved base type (§4.2).
var ErrInvalidValue = errors.New("invalid value")
