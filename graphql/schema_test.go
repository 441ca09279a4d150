package graphql

import (
	"strings"
	"testing"
)

func TestNewSchemaRequiresQuery(t *testing.T) {
	_, err := NewSchema(nil, nil, nil)
	if err == nil {
		t.Fatal("NewSchema(nil, nil, nil) succeeded; want error")
	}
	if !strings.Contains(err.Error(), "query") {
		t.Errorf("error = %v; want mention of a missing query type", err)
	}
}

func TestNewSchemaLinksReferencedTypes(t *testing.T) {
	bar := NewObject("Bar", "", map[string]*Field{
		"xyzzy": {Name: "xyzzy", Type: StringType},
	}, []string{"xyzzy"}, nil, nil)
	query := NewObject("Query", "", map[string]*Field{
		"bar": {Name: "bar", Type: bar},
	}, []string{"bar"}, nil, nil)

	schema, err := NewSchema(query, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := schema.LookupType("Bar"); got != Type(bar) {
		t.Errorf("LookupType(%q) = %v; want the linked Bar object", "Bar", got)
	}
	if got := schema.LookupType("String"); got != Type(StringType) {
		t.Errorf("LookupType(%q) did not resolve the built-in scalar", "String")
	}
	if got := schema.LookupType("Nonexistent"); got != nil {
		t.Errorf("LookupType of unknown name = %v; want nil", got)
	}
}

func TestNewSchemaRejectsDuplicateNames(t *testing.T) {
	dup := NewObject("Dup", "", map[string]*Field{
		"a": {Name: "a", Type: StringType},
	}, []string{"a"}, nil, nil)
	query := NewObject("Query", "", map[string]*Field{
		"one": {Name: "one", Type: dup},
		"two": {Name: "two", Type: NewObject("Dup", "", map[string]*Field{
			"a": {Name: "a", Type: StringType},
		}, []string{"a"}, nil, nil)},
	}, []string{"one", "two"}, nil, nil)

	if _, err := NewSchema(query, nil, nil); err == nil {
		t.Fatal("NewSchema with two distinct types sharing the name Dup succeeded; want error")
	}
}

func TestNewSchemaRejectsBuiltinConflict(t *testing.T) {
	fakeString := NewScalar("String", "", parseStringInput, serializeStringOutput)
	query := NewObject("Query", "", map[string]*Field{
		"foo": {Name: "foo", Type: fakeString},
	}, []string{"foo"}, nil, nil)
	if _, err := NewSchema(query, nil, nil); err == nil {
		t.Fatal("NewSchema redefining the built-in String scalar succeeded; want error")
	}
}

func TestCheckImplements(t *testing.T) {
	pet := NewInterface("Pet", "", map[string]*Field{
		"name": {Name: "name", Type: NonNullOf(StringType)},
	}, []string{"name"}, nil)

	t.Run("Satisfied", func(t *testing.T) {
		dog := NewObject("Dog", "", map[string]*Field{
			"name": {Name: "name", Type: NonNullOf(StringType)},
		}, []string{"name"}, []*Interface{pet}, nil)
		query := NewObject("Query", "", map[string]*Field{
			"dog": {Name: "dog", Type: dog},
		}, []string{"dog"}, nil, nil)
		if _, err := NewSchema(query, nil, nil); err != nil {
			t.Errorf("NewSchema with a satisfying implementor failed: %v", err)
		}
	})

	t.Run("MissingField", func(t *testing.T) {
		rock := NewObject("Rock", "", map[string]*Field{
			"weight": {Name: "weight", Type: IntType},
		}, []string{"weight"}, []*Interface{pet}, nil)
		query := NewObject("Query", "", map[string]*Field{
			"rock": {Name: "rock", Type: rock},
		}, []string{"rock"}, nil, nil)
		if _, err := NewSchema(query, nil, nil); err == nil {
			t.Error("NewSchema with a non-satisfying implementor succeeded; want error")
		}
	})
}

func TestSchemaOperationRoot(t *testing.T) {
	mutation := NewObject("Mutation", "", map[string]*Field{
		"noop": {Name: "noop", Type: StringType},
	}, []string{"noop"}, nil, nil)
	query := NewObject("Query", "", map[string]*Field{
		"foo": {Name: "foo", Type: StringType},
	}, []string{"foo"}, nil, nil)

	schema, err := NewSchema(query, mutation, nil)
	if err != nil {
		t.Fatal(err)
	}
	if schema.Mutation == nil || schema.Mutation.Name() != "Mutation" {
		t.Errorf("schema.Mutation = %v; want the linked Mutation object", schema.Mutation)
	}
	if schema.Subscription != nil {
		t.Errorf("schema.Subscription = %v; want nil", schema.Subscription)
	}
}

func TestSchemaDirectives(t *testing.T) {
	query := NewObject("Query", "", map[string]*Field{
		"foo": {Name: "foo", Type: StringType},
	}, []string{"foo"}, nil, nil)
	schema, err := NewSchema(query, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"skip", "include", "deprecated"} {
		if schema.Directive(name) == nil {
			t.Errorf("Directive(%q) = nil; want a built-in directive definition", name)
		}
	}
	if schema.Directive("notADirective") != nil {
		t.Error("Directive of unknown name returned non-nil")
	}
}

func TestSchemaTypeNames(t *testing.T) {
	schema := newFixtureSchema()
	names := make(map[string]bool)
	for _, n := range schema.TypeNames() {
		names[n] = true
	}
	for _, want := range []string{"Query", "Mutation", "Dog", "Cat", "Pet", "Animal", "Direction", "Complex", "String", "Int", "Boolean"} {
		if !names[want] {
			t.Errorf("TypeNames() missing %q", want)
		}
	}
}
