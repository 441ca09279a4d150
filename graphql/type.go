package graphql

import (
	"fmt"
	"sync"
)

// Kind enumerates the six named type variants of the GraphQL type system plus
// the two wrapper kinds, mirroring the __TypeKind introspection enum.
type Kind int

const (
	ScalarKind Kind = iota
	ObjectKind
	InterfaceKind
	UnionKind
	EnumKind
	InputObjectKind
	ListKind
	NonNullKind
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "SCALAR"
	case ObjectKind:
		return "OBJECT"
	case InterfaceKind:
		return "INTERFACE"
	case UnionKind:
		return "UNION"
	case EnumKind:
		return "ENUM"
	case InputObjectKind:
		return "INPUT_OBJECT"
	case ListKind:
		return "LIST"
	case NonNullKind:
		return "NON_NULL"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type is implemented by every member of the type system: Scalar, Enum,
// Object, Interface, Union, InputObject, List, and NonNull.
type Type interface {
	Kind() Kind
	// String renders the type reference the way it would appear in SDL,
	// e.g. "[Int!]!".
	String() string

	isType()
}

// namedType is embedded by the six kinds that carry an identity
// (everything except the List and NonNull wrappers).
type namedType struct {
	name        string
	description string
}

func (t *namedType) Name() string        { return t.name }
func (t *namedType) Description() string { return t.description }

// Deprecation marks a field, argument, or enum value as discouraged.
// A nil *Deprecation means "not deprecated".
type Deprecation struct {
	Reason string
}

// Scalar is a leaf type with custom parse/serialize functions bridging the
// internal Value domain and raw transport input.
type Scalar struct {
	namedType
	// Parse converts a raw input value (string, bool, float64, int64, or a
	// []interface{}/map[string]interface{} for custom scalars) into the
	// scalar's internal representation. Parse failure is a coercion error.
	Parse func(raw interface{}) (interface{}, error)
	// Serialize converts an internal/resolved value into a value safe to
	// marshal to JSON. Serialize failure is a field error.
	Serialize func(value interface{}) (interface{}, error)
}

func (s *Scalar) Kind() Kind     { return ScalarKind }
func (s *Scalar) String() string { return s.name }
func (s *Scalar) isType()        {}

// EnumValue is one member of an Enum type.
type EnumValue struct {
	Name        string
	Value       interface{}
	Description string
	Deprecation *Deprecation
}

// Enum is a closed set of named values. Input enum literals resolve to
// their Value; output values serialize back to Name via reverse lookup,
// which must be unique.
type Enum struct {
	namedType
	Values []EnumValue

	byName   map[string]*EnumValue
	initOnce sync.Once
}

func (e *Enum) Kind() Kind     { return EnumKind }
func (e *Enum) String() string { return e.name }
func (e *Enum) isType()        {}

func (e *Enum) index() map[string]*EnumValue {
	e.initOnce.Do(func() {
		e.byName = make(map[string]*EnumValue, len(e.Values))
		for i := range e.Values {
			e.byName[e.Values[i].Name] = &e.Values[i]
		}
	})
	return e.byName
}

// valueNamed looks up an enum value by its literal name.
func (e *Enum) valueNamed(name string) (*EnumValue, bool) {
	v, ok := e.index()[name]
	return v, ok
}

// nameFor reverse-looks-up the name for an internal value, by ==.
func (e *Enum) nameFor(value interface{}) (string, bool) {
	for _, v := range e.Values {
		if v.Value == value {
			return v.Name, true
		}
	}
	return "", false
}

// Argument is a named, typed input to a field or directive.
type Argument struct {
	Name        string
	Type        Type
	Default     *CoercedValue
	Description string
	Deprecation *Deprecation
}

// CoercedValue is a value already known to satisfy a given type, produced
// either by schema construction (default values) or by the coercion
// algorithms in input.go.
type CoercedValue struct {
	set   bool
	value interface{}
}

// Set reports whether a default value was actually supplied (as opposed to
// the argument simply being optional with no default).
func (c *CoercedValue) Set() bool {
	return c != nil && c.set
}

func (c *CoercedValue) Value() interface{} {
	if c == nil {
		return nil
	}
	return c.value
}

func coerced(v interface{}) *CoercedValue {
	return &CoercedValue{set: true, value: v}
}

// Field describes one member of an Object or Interface type.
type Field struct {
	Name        string
	Type        Type
	Args        map[string]*Argument
	ArgOrder    []string
	Resolve     FieldResolver
	Description string
	Deprecation *Deprecation
}

func (f *Field) arg(name string) *Argument {
	if f == nil {
		return nil
	}
	return f.Args[name]
}

// Object is a concrete composite output type: a set of fields plus the
// interfaces it claims to implement.
type Object struct {
	namedType
	Fields     map[string]*Field
	FieldOrder []string
	Interfaces []*Interface
	// IsTypeOf reports whether a resolved value should be treated as an
	// instance of this Object when resolving through an Interface or Union.
	// Optional; resolve_type on the owning Interface/Union is tried first.
	IsTypeOf func(value interface{}) bool
}

func (o *Object) Kind() Kind     { return ObjectKind }
func (o *Object) String() string { return o.name }
func (o *Object) isType()        {}

func (o *Object) implements(i *Interface) bool {
	for _, impl := range o.Interfaces {
		if impl.name == i.name {
			return true
		}
	}
	return false
}

// Interface is an abstract composite type: a field set that implementing
// Objects must be covariantly compatible with, plus runtime resolution.
type Interface struct {
	namedType
	Fields      map[string]*Field
	FieldOrder  []string
	ResolveType func(value interface{}) *Object

	schema *Schema
}

func (i *Interface) Kind() Kind     { return InterfaceKind }
func (i *Interface) String() string { return i.name }
func (i *Interface) isType()        {}

// PossibleTypes returns the Objects in the owning schema that implement i.
func (i *Interface) PossibleTypes() []*Object {
	if i.schema == nil {
		return nil
	}
	return i.schema.possibleTypes(i.name)
}

// Union is an ordered set of Object members plus runtime resolution.
type Union struct {
	namedType
	Members     []*Object
	ResolveType func(value interface{}) *Object
}

func (u *Union) Kind() Kind     { return UnionKind }
func (u *Union) String() string { return u.name }
func (u *Union) isType()        {}

func (u *Union) hasMember(name string) bool {
	for _, m := range u.Members {
		if m.name == name {
			return true
		}
	}
	return false
}

// InputField describes one member of an InputObject.
type InputField struct {
	Name        string
	Type        Type
	Default     *CoercedValue
	Description string
	Deprecation *Deprecation
}

// InputObject is a composite input type: a set of named, typed fields with
// optional defaults, used only where input types are permitted.
type InputObject struct {
	namedType
	Fields     map[string]*InputField
	FieldOrder []string
}

func (o *InputObject) Kind() Kind     { return InputObjectKind }
func (o *InputObject) String() string { return o.name }
func (o *InputObject) isType()        {}

// List wraps another type as a homogeneous sequence.
type List struct {
	Elem Type
}

func (l *List) Kind() Kind     { return ListKind }
func (l *List) String() string { return "[" + l.Elem.String() + "]" }
func (l *List) isType()        {}

// NonNull wraps another type, forbidding null. It is illegal (and never
// constructed by this package) for NonNull to wrap another NonNull.
type NonNull struct {
	Elem Type
}

func (n *NonNull) Kind() Kind     { return NonNullKind }
func (n *NonNull) String() string { return n.Elem.String() + "!" }
func (n *NonNull) isType()        {}

// ListOf returns List{elem}. Provided as a convenience for building field
// and argument types.
func ListOf(elem Type) *List { return &List{Elem: elem} }

// NonNullOf returns NonNull{elem}. Panics if elem is already a *NonNull,
// since NonNull(NonNull(_)) is an invariant violation (spec property 2).
func NonNullOf(elem Type) *NonNull {
	if _, ok := elem.(*NonNull); ok {
		panic("graphql: NonNull may not wrap NonNull")
	}
	return &NonNull{Elem: elem}
}

// isNullable reports whether typ permits a null value.
func isNullable(typ Type) bool {
	_, ok := typ.(*NonNull)
	return !ok
}

// namedOf strips List and NonNull wrappers down to the named type inside.
func namedOf(typ Type) Type {
	for {
		switch t := typ.(type) {
		case *NonNull:
			typ = t.Elem
		case *List:
			typ = t.Elem
		default:
			return typ
		}
	}
}

func isCompositeType(typ Type) bool {
	switch typ.(type) {
	case *Object, *Interface, *Union:
		return true
	default:
		return false
	}
}

func isLeafType(typ Type) bool {
	switch typ.(type) {
	case *Scalar, *Enum:
		return true
	default:
		return false
	}
}

func isInputType(typ Type) bool {
	switch t := typ.(type) {
	case *Scalar, *Enum, *InputObject:
		return true
	case *List:
		return isInputType(t.Elem)
	case *NonNull:
		return isInputType(t.Elem)
	default:
		return false
	}
}

func isOutputType(typ Type) bool {
	switch t := typ.(type) {
	case *Scalar, *Enum, *Object, *Interface, *Union:
		return true
	case *List:
		return isOutputType(t.Elem)
	case *NonNull:
		return isOutputType(t.Elem)
	default:
		return false
	}
}

// NewScalar constructs a custom leaf type outside the package, for use by
// a schema builder: Parse bridges raw input into the internal Value
// domain, Serialize bridges back out to JSON.
func NewScalar(name, description string, parse func(raw interface{}) (interface{}, error), serialize func(value interface{}) (interface{}, error)) *Scalar {
	return &Scalar{namedType: namedType{name: name, description: description}, Parse: parse, Serialize: serialize}
}

// NewEnum constructs an Enum type from an ordered list of values.
func NewEnum(name, description string, values []EnumValue) *Enum {
	return &Enum{namedType: namedType{name: name, description: description}, Values: values}
}

// NewObject constructs an Object type. fieldOrder must list exactly the
// keys present in fields, in the order introspection should report them.
func NewObject(name, description string, fields map[string]*Field, fieldOrder []string, interfaces []*Interface, isTypeOf func(value interface{}) bool) *Object {
	return &Object{
		namedType:  namedType{name: name, description: description},
		Fields:     fields,
		FieldOrder: fieldOrder,
		Interfaces: interfaces,
		IsTypeOf:   isTypeOf,
	}
}

// NewInterface constructs an Interface type.
func NewInterface(name, description string, fields map[string]*Field, fieldOrder []string, resolveType func(value interface{}) *Object) *Interface {
	return &Interface{
		namedType:   namedType{name: name, description: description},
		Fields:      fields,
		FieldOrder:  fieldOrder,
		ResolveType: resolveType,
	}
}

// NewUnion constructs a Union type over an ordered set of Object members.
func NewUnion(name, description string, members []*Object, resolveType func(value interface{}) *Object) *Union {
	return &Union{
		namedType:   namedType{name: name, description: description},
		Members:     members,
		ResolveType: resolveType,
	}
}

// NewInputObject constructs an InputObject type. fieldOrder must list
// exactly the keys present in fields.
func NewInputObject(name, description string, fields map[string]*InputField, fieldOrder []string) *InputObject {
	return &InputObject{
		namedType:  namedType{name: name, description: description},
		Fields:     fields,
		FieldOrder: fieldOrder,
	}
}

// Predefined scalars. Parse accepts the decoded JSON-ish raw value that
// coerceRawValue or literalRaw (input.go) hands it; Serialize accepts
// whatever the resolver chain produced internally.
var (
	IntType = &Scalar{
		namedType: namedType{name: "Int", description: "The Int scalar type represents signed 32-bit numeric non-fractional values."},
		Parse:     parseIntInput,
		Serialize: serializeIntOutput,
	}
	FloatType = &Scalar{
		namedType: namedType{name: "Float", description: "The Float scalar type represents signed double-precision fractional values."},
		Parse:     parseFloatInput,
		Serialize: serializeFloatOutput,
	}
	StringType = &Scalar{
		namedType: namedType{name: "String", description: "The String scalar type represents textual data."},
		Parse:     parseStringInput,
		Serialize: serializeStringOutput,
	}
	BooleanType = &Scalar{
		namedType: namedType{name: "Boolean", description: "The Boolean scalar type represents true or false."},
		Parse:     parseBooleanInput,
		Serialize: serializeBooleanOutput,
	}
	IDType = &Scalar{
		namedType: namedType{name: "ID", description: "The ID scalar type represents a unique identifier."},
		Parse:     parseIDInput,
		Serialize: serializeIDOutput,
	}
)
