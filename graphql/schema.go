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
	"sort"

	"golang.org/x/xerrors"
	"graphloom.dev/graphql/ast"
)

// Reserved field names that every composite output type answers without a
// declared Field, and the query root's two introspection entry points.
const (
	typeNameFieldName   = "__typename"
	schemaFieldName     = "__schema"
	typeByNameFieldName = "__type"
)

// DirectiveLocation names a syntactic position a directive may appear in,
// mirroring the __DirectiveLocation introspection enum.
type DirectiveLocation string

const (
	QueryLocation                DirectiveLocation = "QUERY"
	MutationLocation             DirectiveLocation = "MUTATION"
	SubscriptionLocation         DirectiveLocation = "SUBSCRIPTION"
	FieldLocation                DirectiveLocation = "FIELD"
	FragmentDefinitionLocation   DirectiveLocation = "FRAGMENT_DEFINITION"
	FragmentSpreadLocation       DirectiveLocation = "FRAGMENT_SPREAD"
	InlineFragmentLocation       DirectiveLocation = "INLINE_FRAGMENT"
	VariableDefinitionLocation   DirectiveLocation = "VARIABLE_DEFINITION"
	SchemaLocation               DirectiveLocation = "SCHEMA"
	ScalarLocation               DirectiveLocation = "SCALAR"
	ObjectLocation               DirectiveLocation = "OBJECT"
	FieldDefinitionLocation      DirectiveLocation = "FIELD_DEFINITION"
	ArgumentDefinitionLocation   DirectiveLocation = "ARGUMENT_DEFINITION"
	InterfaceLocation            DirectiveLocation = "INTERFACE"
	UnionLocation                DirectiveLocation = "UNION"
	EnumLocation                 DirectiveLocation = "ENUM"
	EnumValueLocation            DirectiveLocation = "ENUM_VALUE"
	InputObjectLocation          DirectiveLocation = "INPUT_OBJECT"
	InputFieldDefinitionLocation DirectiveLocation = "INPUT_FIELD_DEFINITION"
)

// DirectiveDef declares a directive's name, where it may be used, and its
// arguments. Schemas always carry the three standard directives (skip,
// include, deprecated); NewSchema does not currently accept custom ones,
// matching the builder-driven schema surface documented for this package.
type DirectiveDef struct {
	Name      string
	Locations []DirectiveLocation
	Args      map[string]*Argument
	ArgOrder  []string
}

func (d *DirectiveDef) arg(name string) *Argument {
	if d == nil {
		return nil
	}
	return d.Args[name]
}

var skipDirective = &DirectiveDef{
	Name:      "skip",
	Locations: []DirectiveLocation{FieldLocation, FragmentSpreadLocation, InlineFragmentLocation},
	Args:      map[string]*Argument{"if": {Name: "if", Type: NonNullOf(BooleanType), Description: "Skipped when true."}},
	ArgOrder:  []string{"if"},
}

var includeDirective = &DirectiveDef{
	Name:      "include",
	Locations: []DirectiveLocation{FieldLocation, FragmentSpreadLocation, InlineFragmentLocation},
	Args:      map[string]*Argument{"if": {Name: "if", Type: NonNullOf(BooleanType), Description: "Included when true."}},
	ArgOrder:  []string{"if"},
}

var deprecatedDirective = &DirectiveDef{
	Name: "deprecated",
	Locations: []DirectiveLocation{
		FieldDefinitionLocation, ArgumentDefinitionLocation, InputFieldDefinitionLocation, EnumValueLocation,
	},
	Args: map[string]*Argument{
		"reason": {Name: "reason", Type: StringType, Default: coerced("No longer supported"), Description: "Why this element is deprecated."},
	},
	ArgOrder: []string{"reason"},
}

// Schema is a complete, linked GraphQL type system: a root Object for each
// operation kind plus every type reachable from them. Build one with
// NewSchema (directly, or through the schemabuilder package).
type Schema struct {
	Query        *Object
	Mutation     *Object
	Subscription *Object

	types      map[string]Type
	directives map[string]*DirectiveDef
}

// NewSchema links query, mutation, and subscription (mutation and
// subscription may be nil) into a Schema: every type reachable from them is
// registered by name, interface implementations are checked for field
// covariance, and the standard introspection meta-types and directives are
// added. Name collisions across the type graph are reported as errors.
func NewSchema(query, mutation, subscription *Object) (*Schema, error) {
	if query == nil {
		return nil, xerrors.New("schema must declare a query type")
	}
	s := &Schema{
		Query:        query,
		Mutation:     mutation,
		Subscription: subscription,
		types:        make(map[string]Type),
		directives: map[string]*DirectiveDef{
			"skip":       skipDirective,
			"include":    includeDirective,
			"deprecated": deprecatedDirective,
		},
	}
	for _, b := range []*Scalar{IntType, FloatType, StringType, BooleanType, IDType} {
		if _, err := s.register(b.name, b); err != nil {
			return nil, err
		}
	}
	if err := s.link(query); err != nil {
		return nil, xerrors.Errorf("query type: %w", err)
	}
	if mutation != nil {
		if err := s.link(mutation); err != nil {
			return nil, xerrors.Errorf("mutation type: %w", err)
		}
	}
	if subscription != nil {
		if err := s.link(subscription); err != nil {
			return nil, xerrors.Errorf("subscription type: %w", err)
		}
	}
	if err := addIntrospectionSupport(s); err != nil {
		return nil, xerrors.Errorf("introspection: %w", err)
	}
	return s, nil
}

// register records typ under name, or reports success-without-insertion
// when typ is already registered under that exact identity (breaking
// cycles during link), or a name collision when a different type already
// claims the name.
func (s *Schema) register(name string, typ Type) (alreadyVisited bool, err error) {
	if existing, ok := s.types[name]; ok {
		if existing == typ {
			return true, nil
		}
		return false, xerrors.Errorf("multiple types named %q", name)
	}
	s.types[name] = typ
	return false, nil
}

func (s *Schema) link(typ Type) error {
	switch t := typ.(type) {
	case nil:
		return nil
	case *List:
		return s.link(t.Elem)
	case *NonNull:
		return s.link(t.Elem)
	case *Scalar:
		_, err := s.register(t.name, t)
		return err
	case *Enum:
		_, err := s.register(t.name, t)
		return err
	case *InputObject:
		visited, err := s.register(t.name, t)
		if err != nil || visited {
			return err
		}
		for _, name := range t.FieldOrder {
			if err := s.link(t.Fields[name].Type); err != nil {
				return xerrors.Errorf("%s.%s: %w", t.name, name, err)
			}
		}
		return nil
	case *Object:
		visited, err := s.register(t.name, t)
		if err != nil || visited {
			return err
		}
		for _, name := range t.FieldOrder {
			f := t.Fields[name]
			if err := s.link(f.Type); err != nil {
				return xerrors.Errorf("%s.%s: %w", t.name, name, err)
			}
			for _, argName := range f.ArgOrder {
				if err := s.link(f.Args[argName].Type); err != nil {
					return xerrors.Errorf("%s.%s(%s:): %w", t.name, name, argName, err)
				}
			}
		}
		for _, iface := range t.Interfaces {
			if err := s.link(iface); err != nil {
				return err
			}
			if err := checkImplements(t, iface); err != nil {
				return err
			}
		}
		return nil
	case *Interface:
		visited, err := s.register(t.name, t)
		if err != nil || visited {
			return err
		}
		t.schema = s
		for _, name := range t.FieldOrder {
			f := t.Fields[name]
			if err := s.link(f.Type); err != nil {
				return xerrors.Errorf("%s.%s: %w", t.name, name, err)
			}
			for _, argName := range f.ArgOrder {
				if err := s.link(f.Args[argName].Type); err != nil {
					return xerrors.Errorf("%s.%s(%s:): %w", t.name, name, argName, err)
				}
			}
		}
		return nil
	case *Union:
		visited, err := s.register(t.name, t)
		if err != nil || visited {
			return err
		}
		for _, m := range t.Members {
			if err := s.link(m); err != nil {
				return err
			}
		}
		return nil
	default:
		return xerrors.Errorf("unknown type %T", typ)
	}
}

// checkImplements verifies that obj declares every field iface requires,
// each with a covariant-compatible type (spec §2's "an Object's field
// types must be valid sub-types of the Interface's matching field type").
func checkImplements(obj *Object, iface *Interface) error {
	for _, name := range iface.FieldOrder {
		ifaceField := iface.Fields[name]
		objField := obj.Fields[name]
		if objField == nil {
			return xerrors.Errorf("%s claims to implement %s but is missing field %s", obj.name, iface.name, name)
		}
		if !typeSatisfies(objField.Type, ifaceField.Type) {
			return xerrors.Errorf("%s.%s type %v is not compatible with %s.%s type %v",
				obj.name, name, objField.Type, iface.name, name, ifaceField.Type)
		}
	}
	return nil
}

// typeSatisfies reports whether sub may stand in for sup as a field's
// return type: identical types always satisfy; a NonNull sub-type
// satisfies a nullable super-type; lists recurse element-wise; and an
// Object sub-type satisfies an Interface or Union super-type it belongs
// to.
func typeSatisfies(sub, sup Type) bool {
	if supNN, ok := sup.(*NonNull); ok {
		subNN, ok := sub.(*NonNull)
		return ok && typeSatisfies(subNN.Elem, supNN.Elem)
	}
	if subNN, ok := sub.(*NonNull); ok {
		sub = subNN.Elem
	}
	if supList, ok := sup.(*List); ok {
		subList, ok := sub.(*List)
		return ok && typeSatisfies(subList.Elem, supList.Elem)
	}
	if sub == sup {
		return true
	}
	if obj, ok := sub.(*Object); ok {
		switch s := sup.(type) {
		case *Interface:
			return obj.implements(s)
		case *Union:
			return s.hasMember(obj.name)
		}
	}
	return false
}

// possibleTypes returns, in deterministic name order, every registered
// Object implementing the interface named name.
func (s *Schema) possibleTypes(name string) []*Object {
	iface, ok := s.types[name].(*Interface)
	if !ok {
		return nil
	}
	var out []*Object
	for _, t := range s.types {
		if obj, ok := t.(*Object); ok && obj.implements(iface) {
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// LookupType returns the registered type named name, or nil.
func (s *Schema) LookupType(name string) Type {
	return s.types[name]
}

// TypeNames returns every registered type name in sorted order.
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Directive returns the named directive definition, or nil.
func (s *Schema) Directive(name string) *DirectiveDef {
	return s.directives[name]
}

// DirectiveNames returns every registered directive name in sorted order.
func (s *Schema) DirectiveNames() []string {
	names := make([]string, 0, len(s.directives))
	for name := range s.directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveTypeRef converts a query-document type reference into the Schema's
// Type, the operation a CoerceVariableValues call performs for every
// variable definition (spec §4.1).
func (s *Schema) resolveTypeRef(ref *ast.TypeRef) (Type, error) {
	switch ref.Kind {
	case ast.NamedTypeRef:
		typ, ok := s.types[ref.Name.Value]
		if !ok {
			return nil, xerrors.Errorf("unknown type %q", ref.Name.Value)
		}
		return typ, nil
	case ast.ListTypeRef:
		elem, err := s.resolveTypeRef(ref.Elem)
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case ast.NonNullTypeRef:
		elem, err := s.resolveTypeRef(ref.Elem)
		if err != nil {
			return nil, err
		}
		if _, ok := elem.(*NonNull); ok {
			return nil, xerrors.Errorf("%v: repeated non-null marker", ref)
		}
		return NonNullOf(elem), nil
	default:
		return nil, xerrors.Errorf("unrecognized type reference form %v", ref)
	}
}

// operationRoot returns the root Object for the given operation kind, or
// nil if the schema declares none for that kind.
func (s *Schema) operationRoot(kind ast.OperationKind) *Object {
	switch kind {
	case ast.Query:
		return s.Query
	case ast.Mutation:
		return s.Mutation
	case ast.Subscription:
		return s.Subscription
	default:
		return nil
	}
}
