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
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// This file implements schema introspection (spec §2.3): the __Schema,
// __Type, __Field, __InputValue, __EnumValue, and __Directive meta-types
// rendered as ordinary *Object/*Enum values whose Resolve functions read
// straight out of a *Schema's type graph, rather than reflecting over a Go
// struct mirror of the introspection response the way the teacher's
// doc-comment design describes for regular types.

type introspectionTypes struct {
	typeKind      *Enum
	directiveLoc  *Enum
	inputValue    *Object
	field         *Object
	enumValue     *Object
	directiveType *Object
	typeMeta      *Object
	schemaMeta    *Object
}

var introspectionOnce struct {
	sync.Once
	types *introspectionTypes
}

func sharedIntrospectionTypes() *introspectionTypes {
	introspectionOnce.Do(func() {
		introspectionOnce.types = buildIntrospectionTypes()
	})
	return introspectionOnce.types
}

func buildIntrospectionTypes() *introspectionTypes {
	t := &introspectionTypes{
		typeKind:      &Enum{namedType: namedType{name: "__TypeKind", description: "An enum describing what kind of type a given type is."}},
		directiveLoc:  &Enum{namedType: namedType{name: "__DirectiveLocation", description: "A directive's valid locations."}},
		inputValue:    &Object{namedType: namedType{name: "__InputValue", description: "Arguments provided to Fields or Directives and the input fields of an InputObject are represented as Input Values."}},
		field:         &Object{namedType: namedType{name: "__Field", description: "Object and Interface types are described by a list of Fields."}},
		enumValue:     &Object{namedType: namedType{name: "__EnumValue", description: "One of the possible values for an Enum type."}},
		directiveType: &Object{namedType: namedType{name: "__Directive", description: "A directive and the locations it may be applied to."}},
		typeMeta:      &Object{namedType: namedType{name: "__Type", description: "The fundamental unit of any GraphQL schema is the type."}},
		schemaMeta:    &Object{namedType: namedType{name: "__Schema", description: "A GraphQL schema's complete type system."}},
	}

	for _, k := range []Kind{ScalarKind, ObjectKind, InterfaceKind, UnionKind, EnumKind, InputObjectKind, ListKind, NonNullKind} {
		t.typeKind.Values = append(t.typeKind.Values, EnumValue{Name: k.String(), Value: k})
	}
	for _, loc := range []DirectiveLocation{
		QueryLocation, MutationLocation, SubscriptionLocation, FieldLocation,
		FragmentDefinitionLocation, FragmentSpreadLocation, InlineFragmentLocation, VariableDefinitionLocation,
		SchemaLocation, ScalarLocation, ObjectLocation, FieldDefinitionLocation, ArgumentDefinitionLocation,
		InterfaceLocation, UnionLocation, EnumLocation, EnumValueLocation, InputObjectLocation, InputFieldDefinitionLocation,
	} {
		t.directiveLoc.Values = append(t.directiveLoc.Values, EnumValue{Name: string(loc), Value: loc})
	}

	includeDeprecatedArg := &Argument{Name: "includeDeprecated", Type: BooleanType, Default: coerced(false)}

	t.inputValue.Fields = map[string]*Field{
		"name":        {Name: "name", Type: NonNullOf(StringType), Resolve: resolveInputValueName},
		"description": {Name: "description", Type: StringType, Resolve: resolveInputValueDescription},
		"type":        {Name: "type", Type: NonNullOf(t.typeMeta), Resolve: resolveInputValueType},
		"defaultValue": {Name: "defaultValue", Type: StringType, Resolve: resolveInputValueDefault},
	}
	t.inputValue.FieldOrder = []string{"name", "description", "type", "defaultValue"}

	t.field.Fields = map[string]*Field{
		"name":        {Name: "name", Type: NonNullOf(StringType), Resolve: readFieldResolver},
		"description": {Name: "description", Type: StringType, Resolve: readFieldResolver},
		"args":        {Name: "args", Type: NonNullOf(ListOf(NonNullOf(t.inputValue))), Resolve: resolveFieldArgs},
		"type":        {Name: "type", Type: NonNullOf(t.typeMeta), Resolve: readFieldResolver},
		"isDeprecated": {Name: "isDeprecated", Type: NonNullOf(BooleanType), Resolve: resolveFieldIsDeprecated},
		"deprecationReason": {Name: "deprecationReason", Type: StringType, Resolve: resolveFieldDeprecationReason},
	}
	t.field.FieldOrder = []string{"name", "description", "args", "type", "isDeprecated", "deprecationReason"}

	t.enumValue.Fields = map[string]*Field{
		"name":              {Name: "name", Type: NonNullOf(StringType), Resolve: readFieldResolver},
		"description":       {Name: "description", Type: StringType, Resolve: readFieldResolver},
		"isDeprecated":      {Name: "isDeprecated", Type: NonNullOf(BooleanType), Resolve: resolveEnumValueIsDeprecated},
		"deprecationReason": {Name: "deprecationReason", Type: StringType, Resolve: resolveEnumValueDeprecationReason},
	}
	t.enumValue.FieldOrder = []string{"name", "description", "isDeprecated", "deprecationReason"}

	t.directiveType.Fields = map[string]*Field{
		"name":        {Name: "name", Type: NonNullOf(StringType), Resolve: readFieldResolver},
		"description": {Name: "description", Type: StringType, Resolve: constNullResolver},
		"locations":   {Name: "locations", Type: NonNullOf(ListOf(NonNullOf(t.directiveLoc))), Resolve: resolveDirectiveLocations},
		"args":        {Name: "args", Type: NonNullOf(ListOf(NonNullOf(t.inputValue))), Resolve: resolveDirectiveArgs},
	}
	t.directiveType.FieldOrder = []string{"name", "description", "locations", "args"}

	t.typeMeta.Fields = map[string]*Field{
		"kind":        {Name: "kind", Type: NonNullOf(t.typeKind), Resolve: resolveTypeKind},
		"name":        {Name: "name", Type: StringType, Resolve: resolveTypeName},
		"description": {Name: "description", Type: StringType, Resolve: resolveTypeDescription},
		"fields": {
			Name: "fields", Type: ListOf(NonNullOf(t.field)),
			Args: map[string]*Argument{"includeDeprecated": includeDeprecatedArg}, ArgOrder: []string{"includeDeprecated"},
			Resolve: resolveTypeFields,
		},
		"interfaces": {Name: "interfaces", Type: ListOf(NonNullOf(t.typeMeta)), Resolve: resolveTypeInterfaces},
		"possibleTypes": {Name: "possibleTypes", Type: ListOf(NonNullOf(t.typeMeta)), Resolve: resolveTypePossibleTypes},
		"enumValues": {
			Name: "enumValues", Type: ListOf(NonNullOf(t.enumValue)),
			Args: map[string]*Argument{"includeDeprecated": includeDeprecatedArg}, ArgOrder: []string{"includeDeprecated"},
			Resolve: resolveTypeEnumValues,
		},
		"inputFields": {Name: "inputFields", Type: ListOf(NonNullOf(t.inputValue)), Resolve: resolveTypeInputFields},
		"ofType":      {Name: "ofType", Type: t.typeMeta, Resolve: resolveTypeOfType},
	}
	t.typeMeta.FieldOrder = []string{"kind", "name", "description", "fields", "interfaces", "possibleTypes", "enumValues", "inputFields", "ofType"}

	t.schemaMeta.Fields = map[string]*Field{
		"types":            {Name: "types", Type: NonNullOf(ListOf(NonNullOf(t.typeMeta))), Resolve: resolveSchemaTypes},
		"queryType":        {Name: "queryType", Type: NonNullOf(t.typeMeta), Resolve: resolveSchemaQueryType},
		"mutationType":     {Name: "mutationType", Type: t.typeMeta, Resolve: resolveSchemaMutationType},
		"subscriptionType": {Name: "subscriptionType", Type: t.typeMeta, Resolve: resolveSchemaSubscriptionType},
		"directives":       {Name: "directives", Type: NonNullOf(ListOf(NonNullOf(t.directiveType))), Resolve: resolveSchemaDirectives},
	}
	t.schemaMeta.FieldOrder = []string{"types", "queryType", "mutationType", "subscriptionType", "directives"}

	return t
}

func constNullResolver(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return nil, nil
}

// --- __Type resolvers (source is a Type) ---

func resolveTypeKind(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return source.(Type).Kind(), nil
}

func resolveTypeName(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	name, _, ok := namedMeta(source.(Type))
	if !ok {
		return nil, nil
	}
	return name, nil
}

func resolveTypeDescription(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	_, desc, ok := namedMeta(source.(Type))
	if !ok || desc == "" {
		return nil, nil
	}
	return desc, nil
}

func namedMeta(t Type) (name, description string, ok bool) {
	switch v := t.(type) {
	case *Scalar:
		return v.Name(), v.Description(), true
	case *Enum:
		return v.Name(), v.Description(), true
	case *Object:
		return v.Name(), v.Description(), true
	case *Interface:
		return v.Name(), v.Description(), true
	case *Union:
		return v.Name(), v.Description(), true
	case *InputObject:
		return v.Name(), v.Description(), true
	default:
		return "", "", false
	}
}

func resolveTypeFields(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	includeDeprecated, _ := args["includeDeprecated"].(bool)
	var order []string
	var fields map[string]*Field
	switch v := source.(Type).(type) {
	case *Object:
		order, fields = v.FieldOrder, v.Fields
	case *Interface:
		order, fields = v.FieldOrder, v.Fields
	default:
		return nil, nil
	}
	out := make([]*Field, 0, len(order))
	for _, name := range order {
		f := fields[name]
		if f.Deprecation != nil && !includeDeprecated {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func resolveTypeInterfaces(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	obj, ok := source.(Type).(*Object)
	if !ok {
		return nil, nil
	}
	out := make([]Type, len(obj.Interfaces))
	for i, iface := range obj.Interfaces {
		out[i] = iface
	}
	return out, nil
}

func resolveTypePossibleTypes(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	switch v := source.(Type).(type) {
	case *Interface:
		possible := v.PossibleTypes()
		out := make([]Type, len(possible))
		for i, o := range possible {
			out[i] = o
		}
		return out, nil
	case *Union:
		out := make([]Type, len(v.Members))
		for i, o := range v.Members {
			out[i] = o
		}
		return out, nil
	default:
		return nil, nil
	}
}

func resolveTypeEnumValues(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	e, ok := source.(Type).(*Enum)
	if !ok {
		return nil, nil
	}
	includeDeprecated, _ := args["includeDeprecated"].(bool)
	out := make([]EnumValue, 0, len(e.Values))
	for _, v := range e.Values {
		if v.Deprecation != nil && !includeDeprecated {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func resolveTypeInputFields(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	o, ok := source.(Type).(*InputObject)
	if !ok {
		return nil, nil
	}
	out := make([]*InputField, 0, len(o.FieldOrder))
	for _, name := range o.FieldOrder {
		out = append(out, o.Fields[name])
	}
	return out, nil
}

func resolveTypeOfType(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	switch v := source.(Type).(type) {
	case *List:
		return v.Elem, nil
	case *NonNull:
		return v.Elem, nil
	default:
		return nil, nil
	}
}

// --- __Field resolvers (source is *Field) ---

func resolveFieldArgs(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	f := source.(*Field)
	out := make([]*Argument, 0, len(f.ArgOrder))
	for _, name := range f.ArgOrder {
		out = append(out, f.Args[name])
	}
	return out, nil
}

func resolveFieldIsDeprecated(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return source.(*Field).Deprecation != nil, nil
}

func resolveFieldDeprecationReason(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	dep := source.(*Field).Deprecation
	if dep == nil {
		return nil, nil
	}
	return dep.Reason, nil
}

// --- __InputValue resolvers (source is *Argument or *InputField) ---

func inputValueParts(source interface{}) (name, description string, typ Type, def *CoercedValue) {
	switch v := source.(type) {
	case *Argument:
		return v.Name, v.Description, v.Type, v.Default
	case *InputField:
		return v.Name, v.Description, v.Type, v.Default
	default:
		return "", "", nil, nil
	}
}

func resolveInputValueName(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	name, _, _, _ := inputValueParts(source)
	return name, nil
}

func resolveInputValueDescription(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	_, desc, _, _ := inputValueParts(source)
	if desc == "" {
		return nil, nil
	}
	return desc, nil
}

func resolveInputValueType(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	_, _, typ, _ := inputValueParts(source)
	return typ, nil
}

func resolveInputValueDefault(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	_, _, typ, def := inputValueParts(source)
	if !def.Set() {
		return nil, nil
	}
	return formatDefaultValue(def.Value(), typ), nil
}

// formatDefaultValue renders an already-coerced Go value back into GraphQL
// literal syntax, as required for __InputValue.defaultValue (spec §2.3).
func formatDefaultValue(v interface{}, typ Type) string {
	if nn, ok := typ.(*NonNull); ok {
		typ = nn.Elem
	}
	if v == nil {
		return "null"
	}
	switch t := typ.(type) {
	case *Enum:
		if name, ok := t.nameFor(v); ok {
			return name
		}
		return fmt.Sprintf("%v", v)
	case *List:
		elems, _ := v.([]interface{})
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = formatDefaultValue(e, t.Elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *InputObject:
		obj, _ := v.(map[string]interface{})
		parts := make([]string, 0, len(t.FieldOrder))
		for _, name := range t.FieldOrder {
			if fv, ok := obj[name]; ok {
				parts = append(parts, name+": "+formatDefaultValue(fv, t.Fields[name].Type))
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Scalar:
		switch t {
		case StringType, IDType:
			return strconv.Quote(fmt.Sprintf("%v", v))
		default:
			return fmt.Sprintf("%v", v)
		}
	default:
		return fmt.Sprintf("%v", v)
	}
}

// --- __EnumValue resolvers (source is EnumValue) ---

func resolveEnumValueIsDeprecated(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return source.(EnumValue).Deprecation != nil, nil
}

func resolveEnumValueDeprecationReason(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	dep := source.(EnumValue).Deprecation
	if dep == nil {
		return nil, nil
	}
	return dep.Reason, nil
}

// --- __Directive resolvers (source is *DirectiveDef) ---

func resolveDirectiveLocations(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return source.(*DirectiveDef).Locations, nil
}

func resolveDirectiveArgs(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	d := source.(*DirectiveDef)
	out := make([]*Argument, 0, len(d.ArgOrder))
	for _, name := range d.ArgOrder {
		out = append(out, d.Args[name])
	}
	return out, nil
}

// --- __Schema resolvers (source is *Schema) ---

func resolveSchemaTypes(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	schema := source.(*Schema)
	names := schema.TypeNames()
	out := make([]Type, len(names))
	for i, name := range names {
		out[i] = schema.LookupType(name)
	}
	return out, nil
}

func resolveSchemaQueryType(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	return source.(*Schema).Query, nil
}

func resolveSchemaMutationType(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	schema := source.(*Schema)
	if schema.Mutation == nil {
		return nil, nil
	}
	return schema.Mutation, nil
}

func resolveSchemaSubscriptionType(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	schema := source.(*Schema)
	if schema.Subscription == nil {
		return nil, nil
	}
	return schema.Subscription, nil
}

func resolveSchemaDirectives(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
	schema := source.(*Schema)
	names := schema.DirectiveNames()
	out := make([]*DirectiveDef, len(names))
	for i, name := range names {
		out[i] = schema.Directive(name)
	}
	return out, nil
}

// addIntrospectionSupport registers the shared meta-types into schema and
// wires the "__schema" and "__type" fields onto its query root, the two
// entry points spec §2.3 requires.
func addIntrospectionSupport(schema *Schema) error {
	meta := sharedIntrospectionTypes()
	for _, typ := range []Type{meta.typeKind, meta.directiveLoc, meta.inputValue, meta.field, meta.enumValue, meta.directiveType, meta.typeMeta, meta.schemaMeta} {
		if err := schema.link(typ); err != nil {
			return err
		}
	}
	schema.Query.Fields[schemaFieldName] = &Field{
		Name:        schemaFieldName,
		Type:        NonNullOf(meta.schemaMeta),
		Description: "Access the current type schema of this server.",
		Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
			return info.Schema, nil
		},
	}
	schema.Query.FieldOrder = append(schema.Query.FieldOrder, schemaFieldName)
	schema.Query.Fields[typeByNameFieldName] = &Field{
		Name:        typeByNameFieldName,
		Type:        meta.typeMeta,
		Description: "Request the type information of a single type by name.",
		Args:        map[string]*Argument{"name": {Name: "name", Type: NonNullOf(StringType)}},
		ArgOrder:    []string{"name"},
		Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
			name, _ := args["name"].(string)
			typ := info.Schema.LookupType(name)
			if typ == nil {
				return nil, nil
			}
			return typ, nil
		},
	}
	schema.Query.FieldOrder = append(schema.Query.FieldOrder, typeByNameFieldName)
	return nil
}
