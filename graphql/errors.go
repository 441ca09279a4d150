// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/xerrors"
	"graphloom.dev/graphql/internal/lang"
)

// Location is a 1-based line/column pair identifying where in source text
// an error originated.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (loc Location) String() string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
}

// PathSegment is one element of a ResponseError's path: either a field
// response key (Field set) or a list index (Field empty, ListIndex used).
type PathSegment struct {
	Field     string
	ListIndex int
	isIndex   bool
}

func fieldSegment(name string) PathSegment     { return PathSegment{Field: name} }
func indexSegment(i int) PathSegment           { return PathSegment{ListIndex: i, isIndex: true} }

func (seg PathSegment) String() string {
	if seg.isIndex {
		return fmt.Sprintf("%d", seg.ListIndex)
	}
	return seg.Field
}

// MarshalJSON encodes the segment as a JSON string for a field name or a
// JSON number for a list index, matching the GraphQL response's "path"
// array (spec §6.4).
func (seg PathSegment) MarshalJSON() ([]byte, error) {
	if seg.isIndex {
		return json.Marshal(seg.ListIndex)
	}
	return json.Marshal(seg.Field)
}

// UnmarshalJSON decodes a path segment from either a JSON string or a JSON
// number, the inverse of MarshalJSON.
func (seg *PathSegment) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*seg = PathSegment{Field: asString}
		return nil
	}
	var asIndex int
	if err := json.Unmarshal(data, &asIndex); err == nil {
		*seg = PathSegment{ListIndex: asIndex, isIndex: true}
		return nil
	}
	return xerrors.Errorf("path segment %s is neither a string nor a number", data)
}

// ResponseError is the shape that appears in a Result's Errors list: a
// human-readable message plus optional source locations and a response
// path (see §6.4 of the result encoding).
type ResponseError struct {
	Message   string        `json:"message"`
	Locations []Location    `json:"locations,omitempty"`
	Path      []PathSegment `json:"path,omitempty"`
}

func (e *ResponseError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	var sb strings.Builder
	sb.WriteString(e.Message)
	sb.WriteString(" (path: ")
	for i, seg := range e.Path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// toResponseErrors converts a batch of parse/validation errors into
// ResponseErrors, resolving byte offsets against source when possible.
func toResponseErrors(source string, errs []error) []*ResponseError {
	out := make([]*ResponseError, 0, len(errs))
	for _, err := range errs {
		re := &ResponseError{Message: err.Error()}
		var pe *lang.ParseError
		if xerrors.As(err, &pe) {
			pos := lang.ToPosition(source, pe.Pos)
			re.Locations = []Location{{Line: pos.Line, Column: pos.Column}}
		}
		out = append(out, re)
	}
	return out
}

// fieldError is an internal marker type so the executor can distinguish
// "this resolver explicitly failed" from a Go error bubbling out of
// unrelated code, without changing how either is surfaced.
type fieldError struct {
	err  error
	path []PathSegment
}

func (e *fieldError) Error() string { return e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }
