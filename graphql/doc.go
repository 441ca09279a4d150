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

/*
Package graphql provides a GraphQL execution engine: a schema and type
system (Schema, Object, Interface, Union, Enum, Scalar, InputObject) and a
tree-walking executor (Server.Execute) that parses, validates, and runs a
request against them, following the specification laid out at
https://graphql.github.io/graphql-spec/June2018/.

For the common case of serving GraphQL over HTTP, see the graphqlhttp
package in this module. For building a Schema from Go types rather than by
hand, see the schemabuilder package.

Field Resolution

Every Field carries an explicit Resolve func(ctx, source, args, info)
(interface{}, error); the schema builder is expected to supply one for each
field it registers. A Resolve left nil falls back to readFieldResolver,
which reads a same-named (case-insensitively matched) exported struct
field or zero-argument method off source, in the reflection style the
source library used for all field dispatch. A resolver that cannot produce
its result synchronously may return an Awaitable instead of a value; the
executor calls its Await method and completes the result exactly as if it
had been returned directly.

ResolveInfo.SubSelection exposes the field's own sub-selection set, letting
a resolver avoid fetching data that a query's selection never asked for.

Type Resolution

A field typed as an Interface or Union resolves its concrete Object by
calling the type's ResolveType hook first, then falling back to each
possible Object's IsTypeOf. When no hook picks an Object (including when
neither is set, even for an Interface backing just one Object), the field
fails with a field error.

Scalars

Scalar values are serialized and parsed by the functions attached to the
Scalar itself (Serialize, Parse); IntType, FloatType, StringType,
BooleanType, and IDType are the built-in implementations, and custom
scalars (for example a Time or JSON scalar) are defined the same way.

Errors

Execution never fails outright on a single field error. A failing
non-null field discards its own value and bubbles the failure to the
nearest nullable ancestor, or to the top-level data if none exists, while
every error encountered along the way (including deprecation advisories,
which never fail a field) is still collected into Response.Errors.
*/
package graphql
