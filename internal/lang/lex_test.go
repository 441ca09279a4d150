package lang

import (
	"testing"

	"graphloom.dev/graphql/ast"
)

func TestLex(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenKind
	}{
		{
			name:  "EmptyInput",
			input: "",
			want:  nil,
		},
		{
			name:  "SimpleField",
			input: `{ name }`,
			want:  []tokenKind{tokLBrace, tokName, tokRBrace},
		},
		{
			name:  "Punctuators",
			input: `!$():=@[]{}|&...`,
			want: []tokenKind{
				tokBang, tokDollar, tokLParen, tokRParen, tokColon, tokEquals, tokAt,
				tokLBracket, tokRBracket, tokLBrace, tokRBrace, tokPipe, tokAmp, tokEllipsis,
			},
		},
		{
			name:  "Int",
			input: `42`,
			want:  []tokenKind{tokInt},
		},
		{
			name:  "NegativeInt",
			input: `-42`,
			want:  []tokenKind{tokInt},
		},
		{
			name:  "Float",
			input: `3.14`,
			want:  []tokenKind{tokFloat},
		},
		{
			name:  "FloatWithExponent",
			input: `6.022e23`,
			want:  []tokenKind{tokFloat},
		},
		{
			name:  "IntWithExponent",
			input: `1e10`,
			want:  []tokenKind{tokFloat},
		},
		{
			name:  "SimpleString",
			input: `"hello"`,
			want:  []tokenKind{tokString},
		},
		{
			name:  "StringWithEscape",
			input: `"a\"b"`,
			want:  []tokenKind{tokString},
		},
		{
			name:  "BlockString",
			input: `"""multi
line"""`,
			want: []tokenKind{tokString},
		},
		{
			name:  "CommentIsIgnored",
			input: "# a comment\n{ name }",
			want:  []tokenKind{tokLBrace, tokName, tokRBrace},
		},
		{
			name:  "CommaIsIgnored",
			input: `{ a, b }`,
			want:  []tokenKind{tokLBrace, tokName, tokName, tokRBrace},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks := lex(test.input)
			if len(toks) != len(test.want) {
				t.Fatalf("lex(%q) produced %d tokens %v; want %d", test.input, len(toks), toks, len(test.want))
			}
			for i, tok := range toks {
				if tok.kind != test.want[i] {
					t.Errorf("lex(%q)[%d].kind = %v; want %v", test.input, i, tok.kind, test.want[i])
				}
			}
		})
	}
}

func TestLexPositions(t *testing.T) {
	toks := lex(`{ name }`)
	if len(toks) != 3 {
		t.Fatalf("lex produced %d tokens; want 3", len(toks))
	}
	if toks[0].start != 0 {
		t.Errorf("toks[0].start = %d; want 0", toks[0].start)
	}
	if toks[1].start != 2 {
		t.Errorf("toks[1].start (name) = %d; want 2", toks[1].start)
	}
	if toks[1].end() != 6 {
		t.Errorf("toks[1].end() = %d; want 6", toks[1].end())
	}
}

func TestToPosition(t *testing.T) {
	const input = "{\n  name\n}"
	tests := []struct {
		pos  int
		want ast.Position
	}{
		{pos: 0, want: ast.Position{Line: 1, Column: 1}},
		{pos: 2, want: ast.Position{Line: 2, Column: 1}},
		{pos: 4, want: ast.Position{Line: 2, Column: 3}},
	}
	for _, test := range tests {
		got := ToPosition(input, ast.Pos(test.pos))
		if got.Line != test.want.Line || got.Column != test.want.Column {
			t.Errorf("ToPosition(input, %d) = %+v; want %+v", test.pos, got, test.want)
		}
	}
}
