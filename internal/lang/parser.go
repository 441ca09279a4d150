package lang

import (
	"fmt"

	"golang.org/x/xerrors"
	"graphloom.dev/graphql/ast"
)

const (
	maxParseDepth = 64
	maxDocSize    = 64 << 10 // 64 KiB
)

var errTooDeep = xerrors.New("syntax tree too deep")

// ParseError reports a single parse failure at a source position.
type ParseError struct {
	Pos ast.Pos
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func newParseErr(pos ast.Pos, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

type parser struct {
	toks   []token
	eofPos ast.Pos
}

// Parse parses source text into an executable document (operations and
// fragment definitions). On failure it returns a non-empty error slice and
// a possibly-partial document.
func Parse(source string) (*ast.Document, []error) {
	if len(source) > maxDocSize {
		return nil, []error{xerrors.New("parse: document too large")}
	}
	p := &parser{toks: lex(source), eofPos: ast.Pos(len(source))}
	doc := new(ast.Document)
	var errs []error
	for len(p.toks) > 0 {
		n := len(p.toks)
		defErrs := p.definition(doc, 0)
		errs = append(errs, defErrs...)
		if len(p.toks) == n {
			// No progress; bail to avoid an infinite loop.
			errs = append(errs, newParseErr(p.toks[0].start, "parse: unexpected %q", p.toks[0]))
			break
		}
	}
	return doc, errs
}

func (p *parser) definition(doc *ast.Document, depth int) []error {
	if depth > maxParseDepth {
		return []error{errTooDeep}
	}
	if len(p.toks) == 0 {
		return nil
	}
	tok := p.toks[0]
	if tok.kind == tokLBrace {
		op, errs := p.operation(depth + 1)
		if op != nil {
			doc.Operations = append(doc.Operations, op)
		}
		return errs
	}
	if tok.kind != tokName {
		return []error{newParseErr(tok.start, "parse: expected 'query', 'mutation', 'subscription', 'fragment', or '{', found %q", tok)}
	}
	switch tok.source {
	case "query", "mutation", "subscription":
		op, errs := p.operation(depth + 1)
		if op != nil {
			doc.Operations = append(doc.Operations, op)
		}
		return errs
	case "fragment":
		frag, errs := p.fragmentDefinition(depth + 1)
		if frag != nil {
			doc.Fragments = append(doc.Fragments, frag)
		}
		return errs
	default:
		return []error{newParseErr(tok.start, "parse: expected 'query', 'mutation', 'subscription', 'fragment', or '{', found %q", tok)}
	}
}

func (p *parser) next() token {
	tok := p.toks[0]
	p.toks = p.toks[1:]
	return tok
}

func (p *parser) peekKind() tokenKind {
	if len(p.toks) == 0 {
		return tokUnknown
	}
	return p.toks[0].kind
}

func (p *parser) operation(depth int) (*ast.OperationDefinition, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	op := &ast.OperationDefinition{Kind: ast.Query}
	if len(p.toks) == 0 {
		return nil, []error{newParseErr(p.eofPos, "operation: unexpected EOF")}
	}
	op.Start = p.toks[0].start
	var errs []error
	if p.toks[0].kind == tokName {
		switch p.toks[0].source {
		case "query":
			op.Kind = ast.Query
		case "mutation":
			op.Kind = ast.Mutation
		case "subscription":
			op.Kind = ast.Subscription
		}
		p.next()
		if p.peekKind() == tokName {
			n, err := p.name()
			if err != nil {
				return op, []error{err}
			}
			op.Name = n
		}
		if p.peekKind() == tokLParen {
			defs, varErrs := p.variableDefinitions(depth + 1)
			op.VariableDefinitions = defs
			errs = append(errs, varErrs...)
		}
		dirs, dirErrs := p.directives(depth+1, false)
		op.Directives = dirs
		errs = append(errs, dirErrs...)
	}
	sel, selErrs := p.selectionSet(depth + 1)
	op.SelectionSet = sel
	errs = append(errs, selErrs...)
	return op, errs
}

func (p *parser) fragmentDefinition(depth int) (*ast.FragmentDefinition, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	if len(p.toks) == 0 || p.toks[0].kind != tokName || p.toks[0].source != "fragment" {
		return nil, []error{newParseErr(p.eofPos, "fragment definition: expected 'fragment'")}
	}
	start := p.next().start
	name, err := p.name()
	if err != nil {
		return nil, []error{err}
	}
	if name.Value == "on" {
		return nil, []error{newParseErr(name.Start, "fragment definition: fragment cannot be named 'on'")}
	}
	cond, err := p.typeCondition()
	if err != nil {
		return nil, []error{err}
	}
	var errs []error
	dirs, dirErrs := p.directives(depth+1, true)
	errs = append(errs, dirErrs...)
	sel, selErrs := p.selectionSet(depth + 1)
	errs = append(errs, selErrs...)
	return &ast.FragmentDefinition{
		Start:         start,
		Name:          name,
		TypeCondition: cond,
		Directives:    dirs,
		SelectionSet:  sel,
	}, errs
}

func (p *parser) typeCondition() (*ast.Name, error) {
	if len(p.toks) == 0 || p.toks[0].kind != tokName || p.toks[0].source != "on" {
		if len(p.toks) == 0 {
			return nil, newParseErr(p.eofPos, "expected 'on', got EOF")
		}
		return nil, newParseErr(p.toks[0].start, "expected 'on', found %q", p.toks[0])
	}
	p.next()
	return p.name()
}

func (p *parser) selectionSet(depth int) (*ast.SelectionSet, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	if len(p.toks) == 0 || p.toks[0].kind != tokLBrace {
		if len(p.toks) == 0 {
			return nil, []error{newParseErr(p.eofPos, "selection set: expected '{', got EOF")}
		}
		return nil, []error{newParseErr(p.toks[0].start, "selection set: expected '{', found %q", p.toks[0])}
	}
	set := &ast.SelectionSet{LBrace: p.next().start, RBrace: -1}
	var errs []error
	for {
		if len(p.toks) == 0 {
			errs = append(errs, newParseErr(p.eofPos, "selection set: expected selection or '}', got EOF"))
			break
		}
		if p.toks[0].kind == tokRBrace {
			set.RBrace = p.next().start
			break
		}
		n := len(p.toks)
		sel, selErrs := p.selection(depth + 1)
		if sel != nil {
			set.Sel = append(set.Sel, sel)
		}
		errs = append(errs, selErrs...)
		if len(p.toks) == n {
			// Defensive: avoid infinite loop if selection() made no progress.
			break
		}
	}
	if set.RBrace >= 0 && len(set.Sel) == 0 {
		errs = append(errs, newParseErr(set.RBrace, "selection set: empty"))
	}
	return set, errs
}

func (p *parser) selection(depth int) (*ast.Selection, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	if len(p.toks) > 0 && p.toks[0].kind == tokEllipsis {
		return p.fragmentOrInline(depth)
	}
	f, errs := p.field(depth + 1)
	if f == nil {
		return nil, errs
	}
	return &ast.Selection{Field: f}, errs
}

func (p *parser) fragmentOrInline(depth int) (*ast.Selection, []error) {
	ellipsis := p.next().start
	if len(p.toks) == 0 {
		return nil, []error{newParseErr(p.eofPos, "fragment: expected name, 'on', or '{', got EOF")}
	}
	if p.toks[0].kind == tokName && p.toks[0].source != "on" {
		name, err := p.name()
		if err != nil {
			return nil, []error{err}
		}
		dirs, errs := p.directives(depth+1, false)
		return &ast.Selection{FragmentSpread: &ast.FragmentSpread{
			Start: ellipsis, Name: name, Directives: dirs,
		}}, errs
	}
	frag := &ast.InlineFragment{Start: ellipsis}
	var errs []error
	if p.toks[0].kind == tokName && p.toks[0].source == "on" {
		cond, err := p.typeCondition()
		if err != nil {
			errs = append(errs, err)
		}
		frag.TypeCondition = cond
	}
	dirs, dirErrs := p.directives(depth+1, false)
	frag.Directives = dirs
	errs = append(errs, dirErrs...)
	sel, selErrs := p.selectionSet(depth + 1)
	frag.SelectionSet = sel
	errs = append(errs, selErrs...)
	return &ast.Selection{InlineFragment: frag}, errs
}

func (p *parser) field(depth int) (*ast.Field, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	f := new(ast.Field)
	n, err := p.name()
	if err != nil {
		return nil, []error{err}
	}
	f.Name = n
	if p.peekKind() == tokColon {
		p.next()
		f.Alias = f.Name
		f.Name, err = p.name()
		if err != nil {
			return f, []error{err}
		}
	}
	var errs []error
	if p.peekKind() == tokLParen {
		args, argErrs := p.arguments(depth+1, false)
		f.Arguments = args
		errs = append(errs, argErrs...)
	}
	dirs, dirErrs := p.directives(depth+1, false)
	f.Directives = dirs
	errs = append(errs, dirErrs...)
	if p.peekKind() == tokLBrace {
		sel, selErrs := p.selectionSet(depth + 1)
		f.SelectionSet = sel
		errs = append(errs, selErrs...)
	}
	return f, errs
}

func (p *parser) arguments(depth int, isConst bool) ([]*ast.Argument, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	p.next() // consume '('
	var args []*ast.Argument
	var errs []error
	for {
		if len(p.toks) == 0 {
			errs = append(errs, newParseErr(p.eofPos, "arguments: expected argument or ')', got EOF"))
			break
		}
		if p.toks[0].kind == tokRParen {
			p.next()
			break
		}
		n := len(p.toks)
		arg, argErrs := p.argument(depth+1, isConst)
		if arg != nil {
			args = append(args, arg)
		}
		errs = append(errs, argErrs...)
		if len(p.toks) == n {
			break
		}
	}
	return args, errs
}

func (p *parser) argument(depth int, isConst bool) (*ast.Argument, []error) {
	name, err := p.name()
	if err != nil {
		return nil, []error{err}
	}
	if p.peekKind() != tokColon {
		if len(p.toks) == 0 {
			return nil, []error{newParseErr(p.eofPos, "argument %s: expected ':', got EOF", name)}
		}
		return nil, []error{newParseErr(p.toks[0].start, "argument %s: expected ':', found %q", name, p.toks[0])}
	}
	p.next()
	val, errs := p.value(depth+1, isConst)
	return &ast.Argument{Name: name, Value: val}, errs
}

func (p *parser) value(depth int, isConst bool) (*ast.Value, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	if len(p.toks) == 0 {
		return nil, []error{newParseErr(p.eofPos, "value: expected value, got EOF")}
	}
	tok := p.toks[0]
	switch tok.kind {
	case tokDollar:
		v, err := p.variable()
		if err != nil {
			return nil, []error{err}
		}
		if isConst {
			return &ast.Value{Start: tok.start, Kind: ast.VariableValue, Var: v}, []error{
				newParseErr(tok.start, "value: variable not allowed in constant context"),
			}
		}
		return &ast.Value{Start: tok.start, Kind: ast.VariableValue, Var: v}, nil
	case tokInt:
		p.next()
		return &ast.Value{Start: tok.start, Kind: ast.IntValue, Raw: tok.source}, nil
	case tokFloat:
		p.next()
		return &ast.Value{Start: tok.start, Kind: ast.FloatValue, Raw: tok.source}, nil
	case tokString:
		p.next()
		return &ast.Value{Start: tok.start, Kind: ast.StringValue, Raw: tok.source}, nil
	case tokName:
		p.next()
		switch tok.source {
		case "null":
			return &ast.Value{Start: tok.start, Kind: ast.NullValue}, nil
		case "true", "false":
			return &ast.Value{Start: tok.start, Kind: ast.BooleanValue, Raw: tok.source}, nil
		default:
			return &ast.Value{Start: tok.start, Kind: ast.EnumValue, Raw: tok.source}, nil
		}
	case tokLBracket:
		return p.listValue(depth+1, isConst)
	case tokLBrace:
		return p.objectValue(depth+1, isConst)
	default:
		return nil, []error{newParseErr(tok.start, "value: unexpected %q", tok)}
	}
}

func (p *parser) listValue(depth int, isConst bool) (*ast.Value, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	start := p.next().start
	v := &ast.Value{Start: start, Kind: ast.ListValueKind}
	var errs []error
	for {
		if len(p.toks) == 0 {
			errs = append(errs, newParseErr(p.eofPos, "list value: expected value or ']', got EOF"))
			break
		}
		if p.toks[0].kind == tokRBracket {
			p.next()
			break
		}
		n := len(p.toks)
		elem, elemErrs := p.value(depth+1, isConst)
		if elem != nil {
			v.List = append(v.List, elem)
		}
		errs = append(errs, elemErrs...)
		if len(p.toks) == n {
			break
		}
	}
	return v, errs
}

func (p *parser) objectValue(depth int, isConst bool) (*ast.Value, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	start := p.next().start
	v := &ast.Value{Start: start, Kind: ast.ObjectValueKind}
	var errs []error
	for {
		if len(p.toks) == 0 {
			errs = append(errs, newParseErr(p.eofPos, "object value: expected name or '}', got EOF"))
			break
		}
		if p.toks[0].kind == tokRBrace {
			p.next()
			break
		}
		name, err := p.name()
		if err != nil {
			errs = append(errs, err)
			break
		}
		if p.peekKind() != tokColon {
			errs = append(errs, newParseErr(name.Start, "object value field %s: expected ':'", name))
			break
		}
		p.next()
		val, valErrs := p.value(depth+1, isConst)
		v.Fields = append(v.Fields, &ast.ObjectField{Name: name, Value: val})
		errs = append(errs, valErrs...)
	}
	return v, errs
}

func (p *parser) variable() (*ast.Variable, error) {
	if len(p.toks) == 0 || p.toks[0].kind != tokDollar {
		return nil, newParseErr(p.eofPos, "variable: expected '$'")
	}
	dollar := p.next().start
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	return &ast.Variable{Start: dollar, Name: name}, nil
}

func (p *parser) variableDefinitions(depth int) ([]*ast.VariableDefinition, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	p.next() // '('
	var defs []*ast.VariableDefinition
	var errs []error
	for {
		if len(p.toks) == 0 {
			errs = append(errs, newParseErr(p.eofPos, "variable definitions: expected definition or ')', got EOF"))
			break
		}
		if p.toks[0].kind == tokRParen {
			p.next()
			break
		}
		n := len(p.toks)
		def, defErrs := p.variableDefinition(depth + 1)
		if def != nil {
			defs = append(defs, def)
		}
		errs = append(errs, defErrs...)
		if len(p.toks) == n {
			break
		}
	}
	return defs, errs
}

func (p *parser) variableDefinition(depth int) (*ast.VariableDefinition, []error) {
	v, err := p.variable()
	if err != nil {
		return nil, []error{err}
	}
	if p.peekKind() != tokColon {
		return nil, []error{newParseErr(v.Start, "variable $%s: expected ':'", v.Name)}
	}
	p.next()
	typ, errs := p.typeRef(depth + 1)
	if len(errs) > 0 {
		return &ast.VariableDefinition{Var: v, Type: typ}, errs
	}
	var def *ast.Value
	if p.peekKind() == tokEquals {
		p.next()
		def, errs = p.value(depth+1, true)
	}
	return &ast.VariableDefinition{Var: v, Type: typ, Default: def}, errs
}

func (p *parser) typeRef(depth int) (*ast.TypeRef, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	if len(p.toks) == 0 {
		return nil, []error{newParseErr(p.eofPos, "type: expected name or '[', got EOF")}
	}
	var base *ast.TypeRef
	var errs []error
	switch tok := p.toks[0]; tok.kind {
	case tokName:
		n, err := p.name()
		if err != nil {
			return nil, []error{err}
		}
		base = &ast.TypeRef{Kind: ast.NamedTypeRef, Name: n}
	case tokLBracket:
		p.next()
		elem, elemErrs := p.typeRef(depth + 1)
		errs = append(errs, elemErrs...)
		if p.peekKind() != tokRBracket {
			if len(p.toks) == 0 {
				errs = append(errs, newParseErr(p.eofPos, "list type: expected ']', got EOF"))
			} else {
				errs = append(errs, newParseErr(p.toks[0].start, "list type: expected ']', found %q", p.toks[0]))
			}
		} else {
			p.next()
		}
		base = &ast.TypeRef{Kind: ast.ListTypeRef, Elem: elem}
	default:
		return nil, []error{newParseErr(tok.start, "type: expected name or '[', found %q", tok)}
	}
	if p.peekKind() == tokBang {
		p.next()
		return &ast.TypeRef{Kind: ast.NonNullTypeRef, Elem: base}, errs
	}
	return base, errs
}

func (p *parser) directives(depth int, isConst bool) ([]*ast.Directive, []error) {
	if depth > maxParseDepth {
		return nil, []error{errTooDeep}
	}
	var dirs []*ast.Directive
	var errs []error
	for len(p.toks) > 0 && p.toks[0].kind == tokAt {
		at := p.next().start
		name, err := p.name()
		if err != nil {
			errs = append(errs, err)
			break
		}
		d := &ast.Directive{Start: at, Name: name}
		if p.peekKind() == tokLParen {
			args, argErrs := p.arguments(depth+1, isConst)
			d.Arguments = args
			errs = append(errs, argErrs...)
		}
		dirs = append(dirs, d)
	}
	return dirs, errs
}

func (p *parser) name() (*ast.Name, error) {
	if len(p.toks) == 0 {
		return nil, newParseErr(p.eofPos, "expected name, got EOF")
	}
	tok := p.toks[0]
	if tok.kind != tokName {
		return nil, newParseErr(tok.start, "expected name, found %q", tok)
	}
	p.next()
	return &ast.Name{Start: tok.start, Value: tok.source}, nil
}
