// Package ast defines the immutable tree produced by parsing a GraphQL
// executable document. Every node keeps enough position information to
// report source locations in errors, but position never affects meaning:
// two documents that differ only in whitespace or source offsets are the
// same tree as far as validation and execution are concerned.
package ast

import "fmt"

// Pos is a 0-based byte offset into the source document that produced a
// node. A Pos of -1 means "no position" (used for synthetic nodes built by
// a schema builder rather than parsed from text).
type Pos int

// Position is a 1-based line/column pair, the form surfaced in errors.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Document is the root of a parsed GraphQL request: an ordered list of
// operation and fragment definitions.
type Document struct {
	Operations []*OperationDefinition
	Fragments  []*FragmentDefinition
}

// FindFragment returns the fragment definition named name, or nil.
func (doc *Document) FindFragment(name string) *FragmentDefinition {
	for _, f := range doc.Fragments {
		if f.Name.Value == name {
			return f
		}
	}
	return nil
}

// FindOperation returns the operation named name. If name is empty and the
// document has exactly one operation, that operation is returned.
func (doc *Document) FindOperation(name string) (*OperationDefinition, error) {
	if name == "" {
		switch len(doc.Operations) {
		case 0:
			return nil, fmt.Errorf("document has no operations")
		case 1:
			return doc.Operations[0], nil
		default:
			return nil, fmt.Errorf("document has multiple operations; must specify operation name")
		}
	}
	for _, op := range doc.Operations {
		if op.Name != nil && op.Name.Value == name {
			return op, nil
		}
	}
	return nil, fmt.Errorf("no operation named %q", name)
}

// OperationKind distinguishes queries, mutations, and subscriptions.
type OperationKind int

const (
	Query OperationKind = iota
	Mutation
	Subscription
)

func (k OperationKind) String() string {
	switch k {
	case Query:
		return "query"
	case Mutation:
		return "mutation"
	case Subscription:
		return "subscription"
	default:
		return fmt.Sprintf("OperationKind(%d)", int(k))
	}
}

// OperationDefinition is a query, mutation, or subscription.
type OperationDefinition struct {
	Start               Pos
	Kind                OperationKind
	Name                *Name
	VariableDefinitions []*VariableDefinition
	Directives          []*Directive
	SelectionSet        *SelectionSet
}

// FragmentDefinition declares a named, reusable selection set scoped to a
// type condition.
type FragmentDefinition struct {
	Start         Pos
	Name          *Name
	TypeCondition *Name
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// SelectionSet is an ordered list of selections inside braces.
type SelectionSet struct {
	LBrace Pos
	RBrace Pos
	Sel    []*Selection
}

// Selection is a Field, a FragmentSpread, or an InlineFragment. Exactly one
// field is non-nil.
type Selection struct {
	Field           *Field
	FragmentSpread  *FragmentSpread
	InlineFragment  *InlineFragment
}

func (s *Selection) Start() Pos {
	switch {
	case s.Field != nil:
		return s.Field.Start()
	case s.FragmentSpread != nil:
		return s.FragmentSpread.Start
	case s.InlineFragment != nil:
		return s.InlineFragment.Start
	default:
		panic("empty selection")
	}
}

// Field is a single requested piece of information, optionally aliased,
// with arguments and directives, optionally composite (having its own
// sub-selection).
type Field struct {
	Alias        *Name
	Name         *Name
	Arguments    []*Argument
	Directives   []*Directive
	SelectionSet *SelectionSet
}

func (f *Field) Start() Pos {
	if f.Alias != nil {
		return f.Alias.Start
	}
	return f.Name.Start
}

// ResponseKey is the key under which this field's result appears in the
// response: the alias if present, otherwise the name.
func (f *Field) ResponseKey() string {
	if f.Alias != nil {
		return f.Alias.Value
	}
	return f.Name.Value
}

// FragmentSpread references a named fragment by "...Name".
type FragmentSpread struct {
	Start      Pos
	Name       *Name
	Directives []*Directive
}

// InlineFragment is "... [on TypeCondition] { ... }".
type InlineFragment struct {
	Start         Pos
	TypeCondition *Name
	Directives    []*Directive
	SelectionSet  *SelectionSet
}

// Argument is a single name:value pair supplied to a field or directive.
type Argument struct {
	Name  *Name
	Value *Value
}

// Directive is "@name(args...)".
type Directive struct {
	Start     Pos
	Name      *Name
	Arguments []*Argument
}

// Name is a GraphQL identifier token.
type Name struct {
	Start Pos
	Value string
}

func (n *Name) String() string {
	if n == nil {
		return ""
	}
	return n.Value
}

// Variable is a reference to an operation variable, "$name".
type Variable struct {
	Start Pos
	Name  *Name
}

// ValueKind discriminates the variant held by a Value.
type ValueKind int

const (
	NullValue ValueKind = iota
	IntValue
	FloatValue
	StringValue
	BooleanValue
	EnumValue
	ListValueKind
	ObjectValueKind
	VariableValue
)

// Value is a GraphQL literal or a variable reference appearing in an
// argument, a default value, or inside a list/object literal. Raw holds the
// literal source text for scalar kinds (Int/Float/String/Boolean/Enum);
// List and Fields hold the recursive structure for list and object
// literals; Var holds the referenced variable.
type Value struct {
	Start Pos
	Kind  ValueKind
	Raw   string
	List  []*Value
	Fields []*ObjectField
	Var   *Variable
}

// ObjectField is a single name:value pair inside an object literal.
type ObjectField struct {
	Name  *Name
	Value *Value
}

// VariableDefinition declares an operation variable's type and optional
// default.
type VariableDefinition struct {
	Var     *Variable
	Type    *TypeRef
	Default *Value
}

// TypeRefKind discriminates the variant held by a TypeRef.
type TypeRefKind int

const (
	NamedTypeRef TypeRefKind = iota
	ListTypeRef
	NonNullTypeRef
)

// TypeRef is a type reference as written in source: a bare name, a list
// wrapper, or a non-null wrapper. NonNull never wraps another NonNull.
type TypeRef struct {
	Kind  TypeRefKind
	Name  *Name    // set when Kind == NamedTypeRef
	Elem  *TypeRef // set when Kind == ListTypeRef or NonNullTypeRef
}

func (t *TypeRef) String() string {
	switch t.Kind {
	case NamedTypeRef:
		return t.Name.Value
	case ListTypeRef:
		return "[" + t.Elem.String() + "]"
	case NonNullTypeRef:
		return t.Elem.String() + "!"
	default:
		return "<invalid type ref>"
	}
}
