package lang

import (
	"testing"

	"graphloom.dev/graphql/ast"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{name: "AnonymousQuery", source: `{ name }`, wantErr: false},
		{name: "NamedQuery", source: `query Q { name }`, wantErr: false},
		{name: "Mutation", source: `mutation { increment }`, wantErr: false},
		{name: "Subscription", source: `subscription { onUpdate }`, wantErr: false},
		{name: "NestedSelection", source: `{ a { b { c } } }`, wantErr: false},
		{name: "Alias", source: `{ n: name }`, wantErr: false},
		{name: "ArgumentsAndVariables", source: `query($id: ID!) { user(id: $id) { name } }`, wantErr: false},
		{name: "Directive", source: `{ name @skip(if: true) }`, wantErr: false},
		{name: "FragmentSpread", source: `{ ...frag } fragment frag on User { name }`, wantErr: false},
		{name: "InlineFragment", source: `{ ... on User { name } }`, wantErr: false},
		{name: "AnonymousInlineFragment", source: `{ ... { name } }`, wantErr: false},
		{name: "ListAndObjectValues", source: `{ f(a: [1, 2, 3], b: {x: "y"}) }`, wantErr: false},
		{name: "EmptySelectionSet", source: `{ }`, wantErr: true},
		{name: "UnclosedBrace", source: `{ name`, wantErr: true},
		{name: "MissingArgumentValue", source: `{ f(a:) }`, wantErr: true},
		{name: "FragmentNamedOn", source: `{ ...x } fragment on on User { name }`, wantErr: true},
		{name: "UnexpectedToken", source: `)`, wantErr: true},
		{name: "Empty", source: ``, wantErr: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, errs := Parse(test.source)
			if (len(errs) > 0) != test.wantErr {
				t.Errorf("Parse(%q) errs = %v; wantErr = %v", test.source, errs, test.wantErr)
			}
		})
	}
}

func TestParseOperationShape(t *testing.T) {
	doc, errs := Parse(`query Greeting($name: String = "World") { hello(subject: $name) @include(if: true) }`)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if len(doc.Operations) != 1 {
		t.Fatalf("len(doc.Operations) = %d; want 1", len(doc.Operations))
	}
	op := doc.Operations[0]
	if op.Kind != ast.Query {
		t.Errorf("op.Kind = %v; want Query", op.Kind)
	}
	if op.Name == nil || op.Name.Value != "Greeting" {
		t.Errorf("op.Name = %v; want Greeting", op.Name)
	}
	if len(op.VariableDefinitions) != 1 {
		t.Fatalf("len(op.VariableDefinitions) = %d; want 1", len(op.VariableDefinitions))
	}
	vd := op.VariableDefinitions[0]
	if vd.Var.Name.Value != "name" {
		t.Errorf("variable name = %q; want name", vd.Var.Name.Value)
	}
	if vd.Default == nil || vd.Default.Kind != ast.StringValue {
		t.Errorf("variable default = %v; want a string value", vd.Default)
	}
	if len(op.SelectionSet.Sel) != 1 {
		t.Fatalf("len(op.SelectionSet.Sel) = %d; want 1", len(op.SelectionSet.Sel))
	}
	field := op.SelectionSet.Sel[0].Field
	if field == nil {
		t.Fatal("selection is not a field")
	}
	if field.Name.Value != "hello" {
		t.Errorf("field.Name = %q; want hello", field.Name.Value)
	}
	if len(field.Arguments) != 1 || field.Arguments[0].Name.Value != "subject" {
		t.Fatalf("field.Arguments = %v; want one argument named subject", field.Arguments)
	}
	if len(field.Directives) != 1 || field.Directives[0].Name.Value != "include" {
		t.Fatalf("field.Directives = %v; want one directive named include", field.Directives)
	}
}

func TestParseFragmentDefinition(t *testing.T) {
	doc, errs := Parse(`fragment userFields on User { id name }`)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	if len(doc.Fragments) != 1 {
		t.Fatalf("len(doc.Fragments) = %d; want 1", len(doc.Fragments))
	}
	frag := doc.Fragments[0]
	if frag.Name.Value != "userFields" {
		t.Errorf("frag.Name = %q; want userFields", frag.Name.Value)
	}
	if frag.TypeCondition == nil || frag.TypeCondition.Value != "User" {
		t.Errorf("frag.TypeCondition = %v; want User", frag.TypeCondition)
	}
	if len(frag.SelectionSet.Sel) != 2 {
		t.Errorf("len(frag.SelectionSet.Sel) = %d; want 2", len(frag.SelectionSet.Sel))
	}
}

func TestParseTypeRefs(t *testing.T) {
	doc, errs := Parse(`query($a: ID, $b: [String!], $c: [[Int]]!) { x }`)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	defs := doc.Operations[0].VariableDefinitions
	if len(defs) != 3 {
		t.Fatalf("len(defs) = %d; want 3", len(defs))
	}
	if defs[0].Type.Kind != ast.NamedTypeRef {
		t.Errorf("defs[0].Type.Kind = %v; want NamedTypeRef", defs[0].Type.Kind)
	}
	if defs[1].Type.Kind != ast.ListTypeRef || defs[1].Type.Elem.Kind != ast.NonNullTypeRef {
		t.Errorf("defs[1].Type = %v; want a list of non-null String", defs[1].Type)
	}
	if defs[2].Type.Kind != ast.NonNullTypeRef || defs[2].Type.Elem.Kind != ast.ListTypeRef {
		t.Errorf("defs[2].Type = %v; want a non-null list", defs[2].Type)
	}
}

func TestSelectionSetTooDeep(t *testing.T) {
	p := &parser{toks: lex(`{ a }`), eofPos: 5}
	_, errs := p.selectionSet(maxParseDepth + 1)
	if len(errs) != 1 || errs[0] != errTooDeep {
		t.Errorf("selectionSet at depth %d = %v; want [errTooDeep]", maxParseDepth+1, errs)
	}
}

func TestParseDocumentTooLarge(t *testing.T) {
	source := make([]byte, maxDocSize+1)
	for i := range source {
		source[i] = ' '
	}
	_, errs := Parse(string(source))
	if len(errs) != 1 {
		t.Fatalf("errs = %v; want exactly one error", errs)
	}
}
