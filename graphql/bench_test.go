package graphql

import (
	"context"
	"encoding/json"
	"testing"

	"graphloom.dev/graphql/internal/lang"
)

func BenchmarkExecute(b *testing.B) {
	schema := newFixtureSchema()
	server := NewServer(schema, &fixtureRoot{MyString: NullString{Valid: true, S: "Hello, World!"}})
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp := server.Execute(ctx, Request{Query: "{ myString }"})
		if len(resp.Errors) > 0 {
			b.Fatal(resp.Errors)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	schema := newFixtureSchema()
	const source = "{ myString myDog { name barkVolume } }"
	doc, perrs := lang.Parse(source)
	if len(perrs) > 0 {
		b.Fatal(perrs)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if errs := validateDocument(schema, source, doc); len(errs) > 0 {
			b.Fatal(errs)
		}
	}
}

func BenchmarkUnmarshalRequestJSON(b *testing.B) {
	const source = `{"query": "query Foo { myString }", "operationName": "Foo"}`
	data := []byte(source)
	b.SetBytes(int64(len(source)))
	b.ResetTimer()
	var req Request
	for i := 0; i < b.N; i++ {
		json.Unmarshal(data, &req)
	}
}

func BenchmarkMarshalResponseJSON(b *testing.B) {
	val := objectValueOf(dogObject, []Field{
		{Key: "name", Value: scalarValue(NonNullOf(StringType), "Fido")},
		{Key: "barkVolume", Value: scalarValue(IntType, int64(11))},
	})
	data, err := json.Marshal(val)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := json.Marshal(val); err != nil {
			b.Fatal(err)
		}
	}
}
