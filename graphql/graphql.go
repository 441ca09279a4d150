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
	"context"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.opencensus.io/trace"
	"golang.org/x/xerrors"
	"graphloom.dev/graphql/ast"
	"graphloom.dev/graphql/internal/lang"
)

// Request is a single GraphQL operation request, matching the JSON shape
// described at https://graphql.org/learn/serving-over-http/.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// IsQuery reports whether r's selected operation is a query, tolerating
// ambiguity (an empty document, a missing name, or a parse failure all
// report false). graphqlhttp uses this to reject GET requests that would
// mutate data.
func (r Request) IsQuery() bool {
	doc, errs := lang.Parse(r.Query)
	if len(errs) > 0 {
		return false
	}
	op, err := doc.FindOperation(r.OperationName)
	if err != nil {
		return false
	}
	return op.Kind == ast.Query
}

// Response is the result of executing a Request: the data built up by a
// (possibly partially failed) execution plus any errors encountered along
// the way, matching spec §6.4's response map.
type Response struct {
	Data   Value            `json:"data"`
	Errors []*ResponseError `json:"errors,omitempty"`
}

// Server executes requests against a fixed Schema and root value.
type Server struct {
	schema *Schema
	root   interface{}
}

// NewServer returns a Server that executes requests against schema,
// resolving the query, mutation, and subscription root fields against root
// (typically a struct whose methods and fields back readFieldResolver, or
// simply nil when every root field supplies its own Resolve).
func NewServer(schema *Schema, root interface{}) *Server {
	return &Server{schema: schema, root: root}
}

// Execute runs req to completion: parsing, validating, coercing variables,
// selecting the operation, and walking its selection set to produce a
// Response. Parse, validation, and variable-coercion failures are reported
// in Response.Errors. A resolver panic is not recovered here and propagates
// out of Execute, matching the teacher's contract that a misbehaving
// resolver is a bug to fix, not a runtime condition to paper over.
func (srv *Server) Execute(ctx context.Context, req Request) Response {
	ctx, span := trace.StartSpan(ctx, "graphloom.dev/graphql.Execute")
	defer span.End()

	source := req.Query
	doc, perrs := lang.Parse(source)
	if len(perrs) > 0 {
		return Response{Errors: toResponseErrors(source, perrs)}
	}
	if verrs := validateDocument(srv.schema, source, doc); len(verrs) > 0 {
		return Response{Errors: toResponseErrors(source, verrs)}
	}
	op, err := doc.FindOperation(req.OperationName)
	if err != nil {
		return Response{Errors: toResponseErrors(source, []error{err})}
	}
	rootType := srv.schema.operationRoot(op.Kind)
	if rootType == nil {
		return Response{Errors: toResponseErrors(source, []error{
			xerrors.Errorf("schema does not support %s operations", op.Kind),
		})}
	}
	variables, varErrs := CoerceVariableValues(srv.schema, op.VariableDefinitions, req.Variables)
	if len(varErrs) > 0 {
		return Response{Errors: toResponseErrors(source, varErrs)}
	}

	executionID := uuid.NewString()
	span.AddAttributes(trace.StringAttribute("graphql.execution_id", executionID))
	scope := &selectionSetScope{source: source, doc: doc, schema: srv.schema, variables: variables}
	sel := newSelectionSet(scope, op.SelectionSet)
	ex := &executor{schema: srv.schema, variables: variables, executionID: executionID, rootValue: srv.root}

	fields, cerrs := sel.CollectFields(rootType)
	var errs []*fieldError
	for _, e := range cerrs {
		errs = append(errs, &fieldError{err: e})
	}
	fieldValues, ferrs, fatal := ex.executeFields(ctx, rootType, srv.root, fields, nil, op.Kind == ast.Mutation)
	errs = append(errs, ferrs...)

	resp := Response{}
	if !fatal {
		resp.Data = objectValueOf(rootType, fieldValues)
	}
	for _, fe := range errs {
		resp.Errors = append(resp.Errors, &ResponseError{Message: fe.err.Error(), Path: fe.path})
	}
	return resp
}

// executor holds the state shared across one Execute call's field
// resolutions: the schema being served, the root value every root-level
// field resolves against, the operation's coerced variables, and the
// correlation ID attached to every ResolveInfo and tracing span.
type executor struct {
	schema      *Schema
	rootValue   interface{}
	variables   map[string]interface{}
	executionID string
}

// fieldRunResult is one field's outcome within executeFields: its
// response-key/Value pair, any errors produced resolving or completing it,
// and whether a non-null field failure means the whole enclosing object
// must be discarded and the failure bubbled to the next nullable ancestor
// (spec §4.3 step 5, "null bubbling").
type fieldRunResult struct {
	field Field
	errs  []*fieldError
	fatal bool
}

// executeFields runs every field in fields against objType/source, either
// one at a time (serial, used only for a mutation operation's top-level
// selection set per spec §5) or concurrently (every other case, including a
// mutation field's own nested sub-selections), and reports whether any
// non-null field failed.
func (ex *executor) executeFields(ctx context.Context, objType *Object, source interface{}, fields []*SelectedField, path []PathSegment, serial bool) ([]Field, []*fieldError, bool) {
	results := make([]fieldRunResult, len(fields))
	if serial {
		for i, sf := range fields {
			results[i] = ex.runField(ctx, objType, source, sf, path)
		}
	} else {
		var wg sync.WaitGroup
		wg.Add(len(fields))
		for i, sf := range fields {
			go func(i int, sf *SelectedField) {
				defer wg.Done()
				results[i] = ex.runField(ctx, objType, source, sf, path)
			}(i, sf)
		}
		wg.Wait()
	}

	out := make([]Field, len(fields))
	var errs []*fieldError
	fatal := false
	for i, r := range results {
		out[i] = r.field
		errs = append(errs, r.errs...)
		if r.fatal {
			fatal = true
		}
	}
	if fatal {
		return nil, errs, true
	}
	return out, errs, false
}

// runField implements execute_field (spec §4.3/§6.2 and the resolver
// contract in resolve.go): build the field's path and ResolveInfo, invoke
// its resolver (or the default reflection-based one), await an Awaitable
// result, and complete the raw value against the field's declared type.
// Consuming a deprecated field or a deprecated, explicitly supplied
// argument appends an advisory error rather than failing the field (spec §9
// open question: deprecation is a warning, not an execution error).
func (ex *executor) runField(ctx context.Context, objType *Object, source interface{}, sf *SelectedField, path []PathSegment) fieldRunResult {
	fieldDef := sf.fieldDef
	fieldPath := append(append([]PathSegment(nil), path...), fieldSegment(sf.Key()))

	var warnings []*fieldError
	if fieldDef.Deprecation != nil {
		warnings = append(warnings, &fieldError{
			err:  xerrors.Errorf("field %q is deprecated: %s", sf.Name(), fieldDef.Deprecation.Reason),
			path: fieldPath,
		})
	}
	for _, argName := range fieldDef.ArgOrder {
		if !sf.WasSupplied(argName) {
			continue
		}
		if argDef := fieldDef.arg(argName); argDef.Deprecation != nil {
			warnings = append(warnings, &fieldError{
				err:  xerrors.Errorf("argument %q of field %q is deprecated: %s", argName, sf.Name(), argDef.Deprecation.Reason),
				path: fieldPath,
			})
		}
	}

	if sf.Name() == typeNameFieldName {
		return fieldRunResult{
			field: Field{Key: sf.Key(), Value: scalarValue(StringType, objType.Name())},
			errs:  warnings,
		}
	}

	ctx, span := trace.StartSpan(ctx, objType.Name()+"."+sf.Name())
	defer span.End()

	info := &ResolveInfo{
		FieldName:    sf.Name(),
		FieldType:    fieldDef.Type,
		ParentType:   objType,
		RootValue:    ex.rootValue,
		Variables:    ex.variables,
		Schema:       ex.schema,
		Path:         fieldPath,
		ExecutionID:  ex.executionID,
		selectionSet: sf.SelectionSet(),
	}
	resolve := fieldDef.Resolve
	if resolve == nil {
		resolve = readFieldResolver
	}
	raw0, rerr := resolve(ctx, source, sf.args, info)
	raw, err := resolveValue(ctx, raw0, rerr)
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: err.Error()})
		c := completion{value: nullValue(fieldDef.Type), errs: []*fieldError{{err: err, path: fieldPath}}}
		if _, ok := fieldDef.Type.(*NonNull); ok {
			c.fatal = true
		}
		return fieldRunResult{field: Field{Key: sf.Key(), Value: c.value}, errs: append(warnings, c.errs...), fatal: c.fatal}
	}

	c := ex.completeValue(ctx, fieldDef.Type, raw, sf.SelectionSet(), fieldPath)
	return fieldRunResult{field: Field{Key: sf.Key(), Value: c.value}, errs: append(warnings, c.errs...), fatal: c.fatal}
}

// completion is the result of completing one resolved value against a
// declared type (spec §4.3 step 5, complete_value): the produced Value, any
// errors encountered completing it or its children, and fatal, set when a
// non-null position resolved to null so the caller must discard its own
// value and bubble the failure upward in turn.
type completion struct {
	value Value
	errs  []*fieldError
	fatal bool
}

// completeValue implements complete_value: unwrap NonNull and fail fatally
// if the inner completion is null; pass null through for every other type;
// otherwise dispatch on the named type, using reflection for List so that a
// resolver may return any slice or array type, not just []interface{}.
func (ex *executor) completeValue(ctx context.Context, typ Type, result interface{}, sel *SelectionSet, path []PathSegment) completion {
	if nn, ok := typ.(*NonNull); ok {
		c := ex.completeValue(ctx, nn.Elem, result, sel, path)
		if c.fatal {
			return c
		}
		if c.value.IsNull() {
			return completion{errs: append(c.errs, &fieldError{
				err:  xerrors.Errorf("non-null field %v resolved to null", nn),
				path: path,
			}), fatal: true}
		}
		return c
	}
	if isNilish(result) {
		return completion{value: nullValue(typ)}
	}

	switch t := typ.(type) {
	case *Scalar:
		out, err := t.Serialize(result)
		if err != nil {
			return completion{value: nullValue(typ), errs: []*fieldError{{
				err: xerrors.Errorf("%s: %w", t.Name(), err), path: path,
			}}}
		}
		if out == nil {
			return completion{value: nullValue(typ)}
		}
		return completion{value: scalarValue(typ, out)}
	case *Enum:
		name, ok := t.nameFor(result)
		if !ok {
			return completion{value: nullValue(typ), errs: []*fieldError{{
				err: xerrors.Errorf("%v is not a value of enum %s", result, t.Name()), path: path,
			}}}
		}
		return completion{value: scalarValue(typ, name)}
	case *List:
		return ex.completeList(ctx, t, result, sel, path)
	case *Object:
		return ex.completeObject(ctx, t, result, sel, path)
	case *Interface, *Union:
		obj, err := ex.resolveAbstractType(typ, result)
		if err != nil {
			return completion{value: nullValue(typ), errs: []*fieldError{{err: err, path: path}}}
		}
		return ex.completeObject(ctx, obj, result, sel, path)
	default:
		return completion{value: nullValue(typ), errs: []*fieldError{{
			err: xerrors.Errorf("cannot complete a value of type %v", typ), path: path,
		}}}
	}
}

// completeList completes every element of a resolver-returned sequence
// against listType.Elem. result must be a slice or array; reflection lets
// resolvers return concrete element types (e.g. []*Field) instead of
// []interface{}.
func (ex *executor) completeList(ctx context.Context, listType *List, result interface{}, sel *SelectionSet, path []PathSegment) completion {
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return completion{value: nullValue(listType), errs: []*fieldError{{
			err: xerrors.Errorf("resolver returned %T, expected a list for type %v", result, listType), path: path,
		}}}
	}
	n := rv.Len()
	elems := make([]Value, n)
	var errs []*fieldError
	for i := 0; i < n; i++ {
		elemPath := append(append([]PathSegment(nil), path...), indexSegment(i))
		c := ex.completeValue(ctx, listType.Elem, rv.Index(i).Interface(), sel, elemPath)
		errs = append(errs, c.errs...)
		if c.fatal {
			return completion{errs: errs, fatal: true}
		}
		elems[i] = c.value
	}
	return completion{value: listValueOf(listType, elems), errs: errs}
}

// completeObject executes sel against objType using result as the new
// source, implementing the Object/Interface/Union branch of complete_value.
// A nil sel (objType has no sub-selection, which validation never permits
// for a composite type) completes to an empty object defensively rather
// than panicking.
func (ex *executor) completeObject(ctx context.Context, objType *Object, source interface{}, sel *SelectionSet, path []PathSegment) completion {
	if sel == nil {
		return completion{value: objectValueOf(objType, nil)}
	}
	fields, cerrs := sel.CollectFields(objType)
	var errs []*fieldError
	for _, e := range cerrs {
		errs = append(errs, &fieldError{err: e, path: path})
	}
	fieldValues, ferrs, fatal := ex.executeFields(ctx, objType, source, fields, path, false)
	errs = append(errs, ferrs...)
	if fatal {
		return completion{errs: errs, fatal: true}
	}
	return completion{value: objectValueOf(objType, fieldValues), errs: errs}
}

// resolveAbstractType picks the concrete Object a resolved value should be
// treated as when completing an Interface- or Union-typed field: the type's
// own ResolveType hook first, then each possible type's IsTypeOf.
func (ex *executor) resolveAbstractType(typ Type, result interface{}) (*Object, error) {
	switch t := typ.(type) {
	case *Interface:
		if t.ResolveType != nil {
			if obj := t.ResolveType(result); obj != nil {
				return obj, nil
			}
		}
		for _, obj := range t.PossibleTypes() {
			if obj.IsTypeOf != nil && obj.IsTypeOf(result) {
				return obj, nil
			}
		}
		return nil, xerrors.Errorf("could not resolve a concrete type for interface %s", t.Name())
	case *Union:
		if t.ResolveType != nil {
			if obj := t.ResolveType(result); obj != nil {
				return obj, nil
			}
		}
		for _, obj := range t.Members {
			if obj.IsTypeOf != nil && obj.IsTypeOf(result) {
				return obj, nil
			}
		}
		return nil, xerrors.Errorf("could not resolve a concrete type for union %s", t.Name())
	default:
		return nil, xerrors.Errorf("%v is not an abstract type", typ)
	}
}

// isNilish reports whether v is either the untyped nil or a typed nil
// (pointer, interface, slice, map, channel, or func), the set of Go values
// that a resolver uses to mean "this field is null".
func isNilish(v interface{}) bool {
	if v == nil {
		return true
	}
	if isGraphQLNull(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
