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

// Package schemabuilder offers a get-or-create, identifier-keyed way to
// assemble a graphql.Schema, in the style of the source ecosystem's
// reflection-driven schema builders: call Object/Interface/Union/Enum/
// Scalar/InputObject with a name to obtain a mutable spec, attach fields
// and description to it over as many calls as convenient (including from
// separate registration functions grouped by concern), then call Build
// once every root type is assembled. Unlike a purely reflective builder,
// every field here carries an explicit graphql.FieldResolver and type
// reference, since the graphql package's execution engine is built around
// explicit resolvers rather than derived method dispatch.
package schemabuilder

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
	"graphloom.dev/graphql/graphql"
)

// TypeRef names a type to be resolved when Build runs: either a concrete
// graphql.Type (a built-in scalar, or a type constructed outside the
// builder) or the identifier of a type registered on this Schema.
type TypeRef struct {
	concrete graphql.Type
	name     string
	list     *TypeRef
	nonNull  *TypeRef
}

// Type wraps an already-constructed graphql.Type (typically one of the
// built-in scalars, or ListOf/NonNullOf applied to another TypeRef's
// resolved result) for use as a field or argument type.
func Type(t graphql.Type) TypeRef { return TypeRef{concrete: t} }

// Named refers to a type that will be (or already has been) registered on
// the same Schema under id, resolved when Build runs. This lets fields
// forward-reference object types that are registered later, the way the
// source library's reflection-based builders allow a field's return type
// to reference a Go type registered elsewhere in the program.
func Named(id string) TypeRef { return TypeRef{name: id} }

// List wraps ref as a GraphQL list-of type.
func List(ref TypeRef) TypeRef { return TypeRef{concrete: nil, name: "", list: &ref} }

// NonNull wraps ref as a GraphQL non-null type.
func NonNull(ref TypeRef) TypeRef { return TypeRef{nonNull: &ref} }

// argSpec is a single argument declaration attached to a FieldFunc call.
type argSpec struct {
	name        string
	typ         TypeRef
	def         interface{}
	hasDefault  bool
	description string
	deprecated  string
}

// fieldSpec is one field awaiting resolution into a *graphql.Field.
type fieldSpec struct {
	name        string
	typ         TypeRef
	resolve     graphql.FieldResolver
	args        []argSpec
	description string
	deprecated  string
}

// objectSpec backs the builder handed back by Schema.Object and
// Schema.Interface: a named, growable set of fields plus (for objects) the
// interfaces it implements.
type objectSpec struct {
	name        string
	description string
	fields      map[string]*fieldSpec
	order       []string
	interfaces  []string
	isTypeOf    func(interface{}) bool
	resolveType func(interface{}) *graphql.Object // interfaces/unions only
}

// Schema accumulates object, interface, union, enum, scalar, and input
// object specs by name; Build resolves them all into a linked
// *graphql.Schema in one pass, the way the source ecosystem's schema
// builders defer all cross-type linking to a single terminal Build call.
type Schema struct {
	objects      map[string]*objectSpec
	interfaces   map[string]*objectSpec
	unions       map[string]*unionSpec
	enums        map[string]*enumSpec
	scalars      map[string]*graphql.Scalar
	inputObjects map[string]*inputObjectSpec
}

// NewSchema returns an empty builder.
func NewSchema() *Schema {
	return &Schema{
		objects:      make(map[string]*objectSpec),
		interfaces:   make(map[string]*objectSpec),
		unions:       make(map[string]*unionSpec),
		enums:        make(map[string]*enumSpec),
		scalars:      make(map[string]*graphql.Scalar),
		inputObjects: make(map[string]*inputObjectSpec),
	}
}

// ObjectSpec is the mutable handle Schema.Object returns: call FieldFunc
// and Description as many times, from as many call sites, as convenient
// before Build runs.
type ObjectSpec struct {
	s    *Schema
	spec *objectSpec
}

// Object returns the spec registered under id, creating an empty one on
// first use. Calling Object twice with the same id returns the same spec,
// so registration can be split across multiple functions grouped by
// concern (queries in one file, mutations in another).
func (s *Schema) Object(id string) *ObjectSpec {
	spec, ok := s.objects[id]
	if !ok {
		spec = &objectSpec{name: id, fields: make(map[string]*fieldSpec)}
		s.objects[id] = spec
	}
	return &ObjectSpec{s: s, spec: spec}
}

// Description sets o's GraphQL description.
func (o *ObjectSpec) Description(desc string) *ObjectSpec {
	o.spec.description = desc
	return o
}

// Implements declares that o's type implements the interface registered
// under interfaceID.
func (o *ObjectSpec) Implements(interfaceID string) *ObjectSpec {
	o.spec.interfaces = append(o.spec.interfaces, interfaceID)
	return o
}

// IsTypeOf supplies the runtime check used to pick this object out when
// completing a field typed as one of its interfaces or a union containing
// it (graphql.Object.IsTypeOf).
func (o *ObjectSpec) IsTypeOf(fn func(value interface{}) bool) *ObjectSpec {
	o.spec.isTypeOf = fn
	return o
}

// FieldFunc registers a field named name, typed typ, resolved by resolve.
// A repeated call with the same name on the same spec replaces the earlier
// registration while keeping its original position in the field order;
// Build reports no error for it.
func (o *ObjectSpec) FieldFunc(name string, typ TypeRef, resolve graphql.FieldResolver, opts ...FieldOption) *ObjectSpec {
	fs := &fieldSpec{name: name, typ: typ, resolve: resolve}
	for _, opt := range opts {
		opt(fs)
	}
	if _, exists := o.spec.fields[name]; !exists {
		o.spec.order = append(o.spec.order, name)
	}
	o.spec.fields[name] = fs
	return o
}

// FieldOption customizes a field registered through FieldFunc.
type FieldOption func(*fieldSpec)

// FieldDescription attaches a description to the field being registered.
func FieldDescription(desc string) FieldOption {
	return func(fs *fieldSpec) { fs.description = desc }
}

// Deprecated marks the field deprecated with reason, the schema-level
// counterpart of a client supplying the @deprecated directive.
func Deprecated(reason string) FieldOption {
	return func(fs *fieldSpec) { fs.deprecated = reason }
}

// Arg attaches an argument declaration to the field being registered.
func Arg(name string, typ TypeRef, opts ...ArgOption) FieldOption {
	return func(fs *fieldSpec) {
		a := argSpec{name: name, typ: typ}
		for _, opt := range opts {
			opt(&a)
		}
		fs.args = append(fs.args, a)
	}
}

// ArgOption customizes an argument declared with Arg.
type ArgOption func(*argSpec)

// Default supplies an argument's default literal value.
func Default(v interface{}) ArgOption {
	return func(a *argSpec) { a.def = v; a.hasDefault = true }
}

// ArgDescription attaches a description to the argument being declared.
func ArgDescription(desc string) ArgOption {
	return func(a *argSpec) { a.description = desc }
}

// ArgDeprecated marks the argument or input field being declared as
// deprecated, the builder counterpart of an InputValue's @deprecated
// directive.
func ArgDeprecated(reason string) ArgOption {
	return func(a *argSpec) { a.deprecated = reason }
}

// Interface returns the interface spec registered under id, creating an
// empty one on first use. resolveType picks the concrete object a value
// resolves to when completing a field of this interface type
// (graphql.Interface.ResolveType); it may be nil if every implementing
// object sets IsTypeOf instead.
func (s *Schema) Interface(id string, resolveType func(value interface{}) *graphql.Object) *ObjectSpec {
	spec, ok := s.interfaces[id]
	if !ok {
		spec = &objectSpec{name: id, fields: make(map[string]*fieldSpec), resolveType: resolveType}
		s.interfaces[id] = spec
	} else if resolveType != nil {
		spec.resolveType = resolveType
	}
	return &ObjectSpec{s: s, spec: spec}
}

type unionSpec struct {
	name        string
	description string
	members     []string
	resolveType func(interface{}) *graphql.Object
}

// Union registers a union named id over the object types named by
// memberIDs. resolveType picks the concrete object for a resolved value;
// it may be nil when every member sets IsTypeOf instead.
func (s *Schema) Union(id string, resolveType func(value interface{}) *graphql.Object, memberIDs ...string) {
	s.unions[id] = &unionSpec{name: id, members: memberIDs, resolveType: resolveType}
}

type enumValueSpec struct {
	name        string
	value       interface{}
	description string
	deprecated  string
}

type enumSpec struct {
	name        string
	description string
	values      []enumValueSpec
}

// EnumSpec is the mutable handle Schema.Enum returns.
type EnumSpec struct{ spec *enumSpec }

// Enum registers an enum named id.
func (s *Schema) Enum(id string) *EnumSpec {
	spec, ok := s.enums[id]
	if !ok {
		spec = &enumSpec{name: id}
		s.enums[id] = spec
	}
	return &EnumSpec{spec: spec}
}

// Description sets e's GraphQL description.
func (e *EnumSpec) Description(desc string) *EnumSpec {
	e.spec.description = desc
	return e
}

// Value adds a named member, backed by the arbitrary Go value a resolver
// may return for this enum (see graphql.Enum.nameFor).
func (e *EnumSpec) Value(name string, value interface{}, description string) *EnumSpec {
	e.spec.values = append(e.spec.values, enumValueSpec{name: name, value: value, description: description})
	return e
}

// Scalar registers name as a custom scalar, parsed and serialized by the
// given functions (see graphql.Scalar).
func (s *Schema) Scalar(id, description string, parse func(interface{}) (interface{}, error), serialize func(interface{}) (interface{}, error)) {
	s.scalars[id] = graphql.NewScalar(id, description, parse, serialize)
}

type inputFieldSpec struct {
	name        string
	typ         TypeRef
	def         interface{}
	hasDefault  bool
	description string
	deprecated  string
}

type inputObjectSpec struct {
	name        string
	description string
	fields      map[string]*inputFieldSpec
	order       []string
}

// InputObjectSpec is the mutable handle Schema.InputObject returns.
type InputObjectSpec struct{ spec *inputObjectSpec }

// InputObject registers an input object type named id.
func (s *Schema) InputObject(id string) *InputObjectSpec {
	spec, ok := s.inputObjects[id]
	if !ok {
		spec = &inputObjectSpec{name: id, fields: make(map[string]*inputFieldSpec)}
		s.inputObjects[id] = spec
	}
	return &InputObjectSpec{spec: spec}
}

// Description sets io's GraphQL description.
func (io *InputObjectSpec) Description(desc string) *InputObjectSpec {
	io.spec.description = desc
	return io
}

// Field declares an input field named name with type typ.
func (io *InputObjectSpec) Field(name string, typ TypeRef, opts ...ArgOption) *InputObjectSpec {
	a := argSpec{name: name, typ: typ}
	for _, opt := range opts {
		opt(&a)
	}
	if _, exists := io.spec.fields[name]; !exists {
		io.spec.order = append(io.spec.order, name)
	}
	io.spec.fields[name] = &inputFieldSpec{name: name, typ: a.typ, def: a.def, hasDefault: a.hasDefault, description: a.description, deprecated: a.deprecated}
	return io
}

func (s *Schema) typeError(what, name string) error {
	return fmt.Errorf("schemabuilder: %s %q: %w", what, name, errUndefined)
}

var errUndefined = fmt.Errorf("not registered")

// gqlNameRE is the GraphQL Name grammar (spec §2.1.9): a leading letter or
// underscore followed by letters, digits, or underscores.
var gqlNameRE = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

var nameValidatorOnce sync.Once
var nameValidator *validator.Validate

// validatorInstance lazily builds a *validator.Validate carrying the
// "gqlname" tag used to check every identifier this builder registers
// against the GraphQL Name grammar before Build links the type graph,
// the way qktrzrj-graphql's config layer validates struct tags up front
// rather than failing deep inside schema construction.
func validatorInstance() *validator.Validate {
	nameValidatorOnce.Do(func() {
		nameValidator = validator.New()
		nameValidator.RegisterValidation("gqlname", func(fl validator.FieldLevel) bool {
			return gqlNameRE.MatchString(fl.Field().String())
		})
	})
	return nameValidator
}

// checkName validates that name conforms to the GraphQL Name grammar,
// tagging the failure with what it names (object, field, argument, ...).
func checkName(what, name string) error {
	type named struct {
		Name string `validate:"gqlname"`
	}
	if err := validatorInstance().Struct(named{Name: name}); err != nil {
		return fmt.Errorf("schemabuilder: %s name %q is not a valid GraphQL name: %w", what, name, err)
	}
	return nil
}

// resolveRef converts a TypeRef into a concrete graphql.Type, looking up
// forward-referenced identifiers in shells (populated with every
// registered type before any field is resolved, so cyclic references
// between object types resolve correctly).
func resolveRef(ref TypeRef, shells map[string]graphql.Type) (graphql.Type, error) {
	switch {
	case ref.concrete != nil:
		return ref.concrete, nil
	case ref.list != nil:
		elem, err := resolveRef(*ref.list, shells)
		if err != nil {
			return nil, err
		}
		return graphql.ListOf(elem), nil
	case ref.nonNull != nil:
		elem, err := resolveRef(*ref.nonNull, shells)
		if err != nil {
			return nil, err
		}
		if _, ok := elem.(*graphql.NonNull); ok {
			return nil, fmt.Errorf("schemabuilder: NonNull may not wrap NonNull")
		}
		return graphql.NonNullOf(elem), nil
	default:
		t, ok := shells[ref.name]
		if !ok {
			return nil, fmt.Errorf("schemabuilder: type %q: %w", ref.name, errUndefined)
		}
		return t, nil
	}
}

// buildField resolves a fieldSpec into a *graphql.Field, including its
// arguments and their pre-coerced default values (spec §3.2).
func buildField(fs *fieldSpec, shells map[string]graphql.Type) (*graphql.Field, error) {
	if err := checkName("field", fs.name); err != nil {
		return nil, err
	}
	typ, err := resolveRef(fs.typ, shells)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", fs.name, err)
	}
	args := make(map[string]*graphql.Argument, len(fs.args))
	order := make([]string, 0, len(fs.args))
	for _, a := range fs.args {
		if err := checkName("argument", a.name); err != nil {
			return nil, err
		}
		at, err := resolveRef(a.typ, shells)
		if err != nil {
			return nil, fmt.Errorf("field %s arg %s: %w", fs.name, a.name, err)
		}
		var def *graphql.CoercedValue
		if a.hasDefault {
			def, err = graphql.CoerceDefaultValue(at, a.def)
			if err != nil {
				return nil, fmt.Errorf("field %s arg %s default value: %w", fs.name, a.name, err)
			}
		}
		args[a.name] = &graphql.Argument{
			Name:        a.name,
			Type:        at,
			Default:     def,
			Description: a.description,
			Deprecation: deprecationOf(a.deprecated),
		}
		order = append(order, a.name)
	}
	return &graphql.Field{
		Name:        fs.name,
		Type:        typ,
		Args:        args,
		ArgOrder:    order,
		Resolve:     fs.resolve,
		Description: fs.description,
		Deprecation: deprecationOf(fs.deprecated),
	}, nil
}

func deprecationOf(reason string) *graphql.Deprecation {
	if reason == "" {
		return nil
	}
	return &graphql.Deprecation{Reason: reason}
}

// Build links every type registered on s into a *graphql.Schema rooted at
// the object registered under queryID. mutationID and subscriptionID may
// be empty to omit those root operation types. Build performs, in order:
// shell creation for every named type (so objects and interfaces may
// reference each other and themselves before their fields are resolved),
// checking each type and enum-value name against the GraphQL Name grammar;
// field/argument/default resolution, checking each field, argument, and
// input-field name the same way; and finally graphql.NewSchema's
// cross-link and introspection pass (spec §3.3).
func (s *Schema) Build(queryID, mutationID, subscriptionID string) (*graphql.Schema, error) {
	shells := make(map[string]graphql.Type)
	objShells := make(map[string]*graphql.Object)
	ifaceShells := make(map[string]*graphql.Interface)

	for name, spec := range s.scalars {
		if err := checkName("scalar", name); err != nil {
			return nil, err
		}
		shells[name] = spec
	}
	for name, spec := range s.enums {
		if err := checkName("enum", name); err != nil {
			return nil, err
		}
		values := make([]graphql.EnumValue, len(spec.values))
		for i, v := range spec.values {
			if err := checkName("enum value", v.name); err != nil {
				return nil, err
			}
			values[i] = graphql.EnumValue{
				Name:        v.name,
				Value:       v.value,
				Description: v.description,
				Deprecation: deprecationOf(v.deprecated),
			}
		}
		shells[name] = graphql.NewEnum(name, spec.description, values)
	}
	for name, spec := range s.objects {
		if err := checkName("object", name); err != nil {
			return nil, err
		}
		o := graphql.NewObject(name, spec.description, make(map[string]*graphql.Field), nil, nil, spec.isTypeOf)
		objShells[name] = o
		shells[name] = o
	}
	for name, spec := range s.interfaces {
		if err := checkName("interface", name); err != nil {
			return nil, err
		}
		i := graphql.NewInterface(name, spec.description, make(map[string]*graphql.Field), nil, spec.resolveType)
		ifaceShells[name] = i
		shells[name] = i
	}
	for name := range s.unions {
		if err := checkName("union", name); err != nil {
			return nil, err
		}
		shells[name] = graphql.NewUnion(name, "", nil, nil)
	}
	for name, spec := range s.inputObjects {
		if err := checkName("input object", name); err != nil {
			return nil, err
		}
		shells[name] = graphql.NewInputObject(name, spec.description, make(map[string]*graphql.InputField), nil)
	}

	for name, spec := range s.objects {
		o := objShells[name]
		order := make([]string, 0, len(spec.order))
		for _, fname := range spec.order {
			f, err := buildField(spec.fields[fname], shells)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", name, err)
			}
			o.Fields[fname] = f
			order = append(order, fname)
		}
		o.FieldOrder = order
		for _, ifaceName := range spec.interfaces {
			iface, ok := ifaceShells[ifaceName]
			if !ok {
				return nil, s.typeError("interface", ifaceName)
			}
			o.Interfaces = append(o.Interfaces, iface)
		}
	}
	for name, spec := range s.interfaces {
		i := ifaceShells[name]
		order := make([]string, 0, len(spec.order))
		for _, fname := range spec.order {
			f, err := buildField(spec.fields[fname], shells)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			i.Fields[fname] = f
			order = append(order, fname)
		}
		i.FieldOrder = order
	}
	for name, spec := range s.unions {
		u := shells[name].(*graphql.Union)
		members := make([]*graphql.Object, 0, len(spec.members))
		for _, memberID := range spec.members {
			obj, ok := objShells[memberID]
			if !ok {
				return nil, s.typeError("union member object", memberID)
			}
			members = append(members, obj)
		}
		u.Members = members
		u.ResolveType = spec.resolveType
	}
	for name, spec := range s.inputObjects {
		io := shells[name].(*graphql.InputObject)
		order := make([]string, 0, len(spec.order))
		for _, fname := range spec.order {
			if err := checkName("input field", fname); err != nil {
				return nil, err
			}
			fs := spec.fields[fname]
			typ, err := resolveRef(fs.typ, shells)
			if err != nil {
				return nil, fmt.Errorf("input object %s field %s: %w", name, fname, err)
			}
			var def *graphql.CoercedValue
			if fs.hasDefault {
				def, err = graphql.CoerceDefaultValue(typ, fs.def)
				if err != nil {
					return nil, fmt.Errorf("input object %s field %s default value: %w", name, fname, err)
				}
			}
			io.Fields[fname] = &graphql.InputField{
				Name:        fname,
				Type:        typ,
				Default:     def,
				Description: fs.description,
				Deprecation: deprecationOf(fs.deprecated),
			}
			order = append(order, fname)
		}
		io.FieldOrder = order
	}

	query, ok := objShells[queryID]
	if !ok {
		return nil, s.typeError("query root object", queryID)
	}
	var mutation, subscription *graphql.Object
	if mutationID != "" {
		mutation, ok = objShells[mutationID]
		if !ok {
			return nil, s.typeError("mutation root object", mutationID)
		}
	}
	if subscriptionID != "" {
		subscription, ok = objShells[subscriptionID]
		if !ok {
			return nil, s.typeError("subscription root object", subscriptionID)
		}
	}
	return graphql.NewSchema(query, mutation, subscription)
}
