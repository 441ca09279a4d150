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

import "context"

// FieldResolver computes a field's value given the parent value it is
// being resolved against, its coerced arguments, and an Info record
// describing where in the operation the field sits. It is the explicit,
// functional replacement for the source library's dynamic
// "value | {ok,value} | {error,...} | future" resolver return shape: a
// resolver either returns a value synchronously, returns an error, or
// returns an Awaitable that the executor will await before completing the
// field (see Resolution below).
type FieldResolver func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error)

// Awaitable is implemented by a value a resolver returns when it cannot
// produce a result synchronously. Await is called by the executor with the
// resolver's original context; its result is completed exactly as if it
// had been returned directly from the resolver.
type Awaitable interface {
	Await(ctx context.Context) (interface{}, error)
}

// resolveValue drives a resolver's return value to completion, awaiting it
// if it implements Awaitable. This is the Go rendering of the spec's
// Resolution = Done(Result<Value,FieldError>) | Pending(Future<Resolution>)
// sum type: a plain (interface{}, error) pair is already "Done", and
// Awaitable values are "Pending" until Await returns another such pair.
func resolveValue(ctx context.Context, v interface{}, err error) (interface{}, error) {
	for err == nil {
		a, ok := v.(Awaitable)
		if !ok {
			break
		}
		v, err = a.Await(ctx)
	}
	return v, err
}

// ResolveInfo is passed to every field resolver, exposing everything the
// spec's resolver contract (§6.2) requires: field identity, declared type,
// parent type, the root value and context, the coerced variable map, the
// schema, and the field's response path.
type ResolveInfo struct {
	FieldName  string
	FieldType  Type
	ParentType Type
	RootValue  interface{}
	Variables  map[string]interface{}
	Schema     *Schema
	Path       []PathSegment

	// ExecutionID correlates every resolver invocation and tracing span
	// within one Execute call; see graphql.go.
	ExecutionID string

	selectionSet *SelectionSet
}

// SubSelection returns the field's own sub-selection, or nil for a leaf
// field. Resolvers can use this to avoid over-fetching; see
// SelectionSet.Has and SelectionSet.OnlyUses.
func (info *ResolveInfo) SubSelection() *SelectionSet {
	return info.selectionSet
}

// readFieldResolver is the default resolver used when a Field declares no
// Resolve function: it reads a same-named (case-insensitively matched)
// exported field or zero-argument method from the parent Go value, in the
// style of the teacher's reflection-based dispatch. It is opt-in per field
// rather than the only dispatch mode, since the schema builder normally
// supplies an explicit Resolve.
var readFieldResolver FieldResolver = func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return readNamedProperty(source, info.FieldName)
}
