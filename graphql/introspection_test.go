package graphql

import (
	"context"
	"testing"
)

func TestIntrospectionTypeByName(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `
		{
			__type(name: "Dog") {
				kind
				name
				fields { name }
			}
		}
	`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	typeValue := resp.Data.ValueFor("__type")
	if got, want := typeValue.ValueFor("kind").Scalar(), "OBJECT"; got != want {
		t.Errorf("__type(name: \"Dog\").kind = %v; want %v", got, want)
	}
	if got, want := typeValue.ValueFor("name").Scalar(), "Dog"; got != want {
		t.Errorf("__type(name: \"Dog\").name = %v; want %v", got, want)
	}
	fields := typeValue.ValueFor("fields")
	if got, want := fields.Len(), 2; got != want {
		t.Fatalf("len(fields) = %d; want %d", got, want)
	}
	var names []string
	for i := 0; i < fields.Len(); i++ {
		names = append(names, fields.At(i).ValueFor("name").Scalar().(string))
	}
	if names[0] != "name" || names[1] != "barkVolume" {
		t.Errorf("fields = %v; want [name barkVolume] in declaration order", names)
	}
}

func TestIntrospectionTypeByNameUnknown(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `{ __type(name: "Nope") { name } }`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	if got := resp.Data.ValueFor("__type"); !got.IsNull() {
		t.Errorf("__type(name: \"Nope\") = %v; want null", got)
	}
}

func TestIntrospectionSchema(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `
		{
			__schema {
				queryType { name }
				mutationType { name }
				subscriptionType { name }
			}
		}
	`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	s := resp.Data.ValueFor("__schema")
	if got, want := s.ValueFor("queryType").ValueFor("name").Scalar(), "Query"; got != want {
		t.Errorf("__schema.queryType.name = %v; want %v", got, want)
	}
	if got, want := s.ValueFor("mutationType").ValueFor("name").Scalar(), "Mutation"; got != want {
		t.Errorf("__schema.mutationType.name = %v; want %v", got, want)
	}
	if got := s.ValueFor("subscriptionType"); !got.IsNull() {
		t.Errorf("__schema.subscriptionType = %v; want null", got)
	}
}

func TestIntrospectionEnumValues(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `
		{
			__type(name: "Direction") {
				enumValues(includeDeprecated: true) {
					name
					isDeprecated
					deprecationReason
				}
			}
		}
	`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	values := resp.Data.ValueFor("__type").ValueFor("enumValues")
	if got, want := values.Len(), 5; got != want {
		t.Fatalf("len(enumValues) = %d; want %d", got, want)
	}
	last := values.At(4)
	if got, want := last.ValueFor("name").Scalar(), "UP"; got != want {
		t.Errorf("enumValues[4].name = %v; want %v", got, want)
	}
	if got, want := last.ValueFor("isDeprecated").Scalar(), true; got != want {
		t.Errorf("enumValues[4].isDeprecated = %v; want %v", got, want)
	}
	if got, want := last.ValueFor("deprecationReason").Scalar(), "not a real direction"; got != want {
		t.Errorf("enumValues[4].deprecationReason = %v; want %v", got, want)
	}
}

func TestIntrospectionInterfacePossibleTypes(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `
		{
			__type(name: "Pet") {
				kind
				possibleTypes { name }
			}
		}
	`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	typeValue := resp.Data.ValueFor("__type")
	if got, want := typeValue.ValueFor("kind").Scalar(), "INTERFACE"; got != want {
		t.Errorf("kind = %v; want %v", got, want)
	}
	possible := typeValue.ValueFor("possibleTypes")
	var names []string
	for i := 0; i < possible.Len(); i++ {
		names = append(names, possible.At(i).ValueFor("name").Scalar().(string))
	}
	if len(names) != 2 || names[0] != "Cat" || names[1] != "Dog" {
		t.Errorf("possibleTypes = %v; want [Cat Dog] sorted by name", names)
	}
}

func TestIntrospectionInputObjectFields(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `
		{
			__type(name: "Complex") {
				kind
				inputFields { name type { name } }
			}
		}
	`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	typeValue := resp.Data.ValueFor("__type")
	if got, want := typeValue.ValueFor("kind").Scalar(), "INPUT_OBJECT"; got != want {
		t.Errorf("kind = %v; want %v", got, want)
	}
	fields := typeValue.ValueFor("inputFields")
	if got, want := fields.Len(), 1; got != want {
		t.Fatalf("len(inputFields) = %d; want %d", got, want)
	}
	if got, want := fields.At(0).ValueFor("name").Scalar(), "foo"; got != want {
		t.Errorf("inputFields[0].name = %v; want %v", got, want)
	}
}

func TestIntrospectionListAndNonNullOfType(t *testing.T) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{})
	resp := server.Execute(context.Background(), Request{Query: `
		{
			__type(name: "Query") {
				fields(includeDeprecated: true) {
					name
					type {
						kind
						ofType { kind ofType { kind name } }
					}
				}
			}
		}
	`})
	if len(resp.Errors) > 0 {
		t.Fatalf("errors: %v", resp.Errors)
	}
	fields := resp.Data.ValueFor("__type").ValueFor("fields")
	var myList Value
	for i := 0; i < fields.Len(); i++ {
		f := fields.At(i)
		if f.ValueFor("name").Scalar() == "myList" {
			myList = f
			break
		}
	}
	if myList.IsNull() {
		t.Fatal("myList field not found in __type(name: \"Query\").fields")
	}
	typ := myList.ValueFor("type")
	if got, want := typ.ValueFor("kind").Scalar(), "NON_NULL"; got != want {
		t.Errorf("myList.type.kind = %v; want %v", got, want)
	}
	inner := typ.ValueFor("ofType")
	if got, want := inner.ValueFor("kind").Scalar(), "LIST"; got != want {
		t.Errorf("myList.type.ofType.kind = %v; want %v", got, want)
	}
	elem := inner.ValueFor("ofType")
	if got, want := elem.ValueFor("kind").Scalar(), "NON_NULL"; got != want {
		t.Errorf("myList.type.ofType.ofType.kind = %v; want %v", got, want)
	}
}
