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
	"strconv"
	"strings"

	"golang.org/x/xerrors"
	"graphloom.dev/graphql/ast"
)

// CoerceVariableValues implements spec §4.1: it walks variableDefs in
// declaration order, binding each to a value from raw (the caller-supplied,
// JSON-decoded variable map), its default, or null, then recursively
// coercing against the variable's declared type. A single coercion failure
// is returned in errs; per spec this aborts the whole operation.
func CoerceVariableValues(schema *Schema, variableDefs []*ast.VariableDefinition, raw map[string]interface{}) (map[string]interface{}, []error) {
	vars := make(map[string]interface{}, len(variableDefs))
	var errs []error
	for _, def := range variableDefs {
		name := def.Var.Name.Value
		typ, err := schema.resolveTypeRef(def.Type)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		val, has := raw[name]
		switch {
		case !has && def.Default != nil:
			dv, derrs := coerceAstValue(def.Default, typ, nil)
			if len(derrs) > 0 {
				for _, derr := range derrs {
					errs = append(errs, xerrors.Errorf("variable $%s default value: %w", name, derr))
				}
				continue
			}
			vars[name] = dv
		case !has:
			if _, ok := typ.(*NonNull); ok {
				errs = append(errs, xerrors.Errorf("variable $%s of required type %v was not provided", name, typ))
				continue
			}
			vars[name] = nil
		default:
			cv, cerrs := coerceRawValue(val, typ)
			if len(cerrs) > 0 {
				for _, cerr := range cerrs {
					errs = append(errs, xerrors.Errorf("variable $%s: %w", name, cerr))
				}
				continue
			}
			vars[name] = cv
		}
	}
	return vars, errs
}

// CoerceDefaultValue coerces a schema-builder-supplied default literal
// (an ordinary Go value, not yet validated) against typ, producing the
// pre-coerced CoercedValue an Argument or InputField's Default carries
// (spec §3.2: "default values ... are pre-coerced into the internal
// value domain; they must satisfy the field's type").
func CoerceDefaultValue(typ Type, raw interface{}) (*CoercedValue, error) {
	v, errs := coerceRawValue(raw, typ)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return coerced(v), nil
}

// coerceRawValue coerces an already JSON-decoded Go value (nil, bool,
// float64, string, []interface{}, map[string]interface{}) against typ,
// implementing the NonNull/List/Scalar/Enum/InputObject rules of §4.1.
func coerceRawValue(raw interface{}, typ Type) (interface{}, []error) {
	if nn, ok := typ.(*NonNull); ok {
		if raw == nil {
			return nil, []error{xerrors.Errorf("must not be null for type %v", nn)}
		}
		return coerceRawValue(raw, nn.Elem)
	}
	if raw == nil {
		return nil, nil
	}
	switch t := typ.(type) {
	case *List:
		if seq, ok := raw.([]interface{}); ok {
			out := make([]interface{}, len(seq))
			var errs []error
			for i, e := range seq {
				ev, eerrs := coerceRawValue(e, t.Elem)
				out[i] = ev
				for _, err := range eerrs {
					errs = append(errs, xerrors.Errorf("list[%d]: %w", i, err))
				}
			}
			return out, errs
		}
		// List input coercion: a bare scalar value is wrapped as a
		// one-element list (spec §4.1 item 4, property 5).
		ev, errs := coerceRawValue(raw, t.Elem)
		return []interface{}{ev}, errs
	case *Scalar:
		v, err := t.Parse(raw)
		if err != nil {
			return nil, []error{xerrors.Errorf("%s: %w", t.Name(), err)}
		}
		return v, nil
	case *Enum:
		name, ok := raw.(string)
		if !ok {
			return nil, []error{xerrors.Errorf("%s: expected a string, got %T", t.Name(), raw)}
		}
		ev, ok := t.valueNamed(name)
		if !ok {
			return nil, []error{xerrors.Errorf("%q is not a valid value for enum %s", name, t.Name())}
		}
		return ev.Value, nil
	case *InputObject:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return nil, []error{xerrors.Errorf("%s: expected an object, got %T", t.Name(), raw)}
		}
		return coerceInputObjectFields(t, func(fieldName string) (interface{}, bool) {
			v, present := obj[fieldName]
			return v, present
		}, unknownRawKeys(t, obj))
	default:
		return nil, []error{xerrors.Errorf("%v is not an input type", typ)}
	}
}

func unknownRawKeys(t *InputObject, obj map[string]interface{}) []string {
	var unknown []string
	for k := range obj {
		if _, ok := t.Fields[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// coerceInputObjectFields applies the §4.1 InputObject rule generically
// over a field lookup function, shared by the raw-JSON and AST-literal
// coercion paths.
func coerceInputObjectFields(t *InputObject, lookup func(name string) (interface{}, bool), unknown []string) (map[string]interface{}, []error) {
	var errs []error
	for _, k := range unknown {
		errs = append(errs, xerrors.Errorf("%s: unknown input field %q", t.Name(), k))
	}
	out := make(map[string]interface{}, len(t.FieldOrder))
	for _, name := range t.FieldOrder {
		fdef := t.Fields[name]
		v, present := lookup(name)
		if !present {
			if fdef.Default.Set() {
				out[name] = fdef.Default.Value()
			} else if _, ok := fdef.Type.(*NonNull); ok {
				errs = append(errs, xerrors.Errorf("%s.%s of required type %v was not provided", t.Name(), name, fdef.Type))
			}
			continue
		}
		cv, cerrs := coerceAnyValue(v, fdef.Type)
		out[name] = cv
		for _, err := range cerrs {
			errs = append(errs, xerrors.Errorf("%s.%s: %w", t.Name(), name, err))
		}
	}
	return out, errs
}

// coerceAnyValue dispatches to coerceAstValue or coerceRawValue depending on
// the dynamic type handed to it by an enclosing InputObject coercion; an
// *ast.Value field nested inside an AST object literal still needs variable
// resolution, while one nested inside a raw JSON object does not.
func coerceAnyValue(v interface{}, typ Type) (interface{}, []error) {
	if astVal, ok := v.(astValueWithVars); ok {
		return coerceAstValue(astVal.v, typ, astVal.vars)
	}
	return coerceRawValue(v, typ)
}

type astValueWithVars struct {
	v    *ast.Value
	vars map[string]interface{}
}

// coerceAstValue coerces a parsed literal (or a variable reference into
// variables) against typ, implementing the same §4.1 rules as
// coerceRawValue but operating over the query-document AST so that
// variables embedded inside list/object literals are resolved in place.
func coerceAstValue(v *ast.Value, typ Type, variables map[string]interface{}) (interface{}, []error) {
	if nn, ok := typ.(*NonNull); ok {
		if v.Kind == ast.NullValue {
			return nil, []error{xerrors.Errorf("must not be null for type %v", nn)}
		}
		if v.Kind == ast.VariableValue {
			val, _ := variables[v.Var.Name.Value]
			if val == nil {
				return nil, []error{xerrors.Errorf("variable $%s must not be null for type %v", v.Var.Name.Value, nn)}
			}
			return val, nil
		}
		return coerceAstValue(v, nn.Elem, variables)
	}
	if v.Kind == ast.VariableValue {
		return variables[v.Var.Name.Value], nil
	}
	if v.Kind == ast.NullValue {
		return nil, nil
	}
	switch t := typ.(type) {
	case *List:
		if v.Kind == ast.ListValueKind {
			out := make([]interface{}, len(v.List))
			var errs []error
			for i, e := range v.List {
				ev, eerrs := coerceAstValue(e, t.Elem, variables)
				out[i] = ev
				for _, err := range eerrs {
					errs = append(errs, xerrors.Errorf("list[%d]: %w", i, err))
				}
			}
			return out, errs
		}
		ev, errs := coerceAstValue(v, t.Elem, variables)
		return []interface{}{ev}, errs
	case *Scalar:
		raw, err := literalRaw(v)
		if err != nil {
			return nil, []error{err}
		}
		parsed, err := t.Parse(raw)
		if err != nil {
			return nil, []error{xerrors.Errorf("%s: %w", t.Name(), err)}
		}
		return parsed, nil
	case *Enum:
		if v.Kind != ast.EnumValue {
			return nil, []error{xerrors.Errorf("%s: expected an enum literal", t.Name())}
		}
		ev, ok := t.valueNamed(v.Raw)
		if !ok {
			return nil, []error{xerrors.Errorf("%q is not a valid value for enum %s", v.Raw, t.Name())}
		}
		return ev.Value, nil
	case *InputObject:
		if v.Kind != ast.ObjectValueKind {
			return nil, []error{xerrors.Errorf("%s: expected an object literal", t.Name())}
		}
		provided := make(map[string]*ast.Value, len(v.Fields))
		var unknown []string
		for _, f := range v.Fields {
			provided[f.Name.Value] = f.Value
		}
		for name := range provided {
			if _, ok := t.Fields[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		return coerceInputObjectFields(t, func(name string) (interface{}, bool) {
			fv, ok := provided[name]
			if !ok {
				return nil, false
			}
			return astValueWithVars{v: fv, vars: variables}, true
		}, unknown)
	default:
		return nil, []error{xerrors.Errorf("%v is not an input type", typ)}
	}
}

// literalRaw converts a scalar/boolean literal token into the Go
// representation the built-in scalar Parse functions expect.
func literalRaw(v *ast.Value) (interface{}, error) {
	switch v.Kind {
	case ast.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return nil, xerrors.Errorf("invalid int literal %q: %w", v.Raw, err)
		}
		return n, nil
	case ast.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return nil, xerrors.Errorf("invalid float literal %q: %w", v.Raw, err)
		}
		return f, nil
	case ast.BooleanValue:
		return v.Raw == "true", nil
	case ast.StringValue:
		return decodeStringLiteral(v.Raw)
	default:
		return nil, xerrors.Errorf("value kind %d cannot be used as a scalar literal", v.Kind)
	}
}

// decodeStringLiteral unescapes a StringValue's raw source text (which
// still carries its surrounding quotes) into the string it denotes,
// handling both `"..."` and `"""..."""` block strings.
func decodeStringLiteral(raw string) (string, error) {
	if strings.HasPrefix(raw, `"""`) && strings.HasSuffix(raw, `"""`) && len(raw) >= 6 {
		return decodeBlockString(raw[3 : len(raw)-3]), nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", xerrors.Errorf("malformed string literal %q", raw)
	}
	body := raw[1 : len(raw)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", xerrors.New("string literal ends with a bare backslash")
		}
		switch body[i] {
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case '/':
			sb.WriteByte('/')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			if i+4 >= len(body) {
				return "", xerrors.New("truncated \\u escape")
			}
			code, err := strconv.ParseUint(body[i+1:i+5], 16, 32)
			if err != nil {
				return "", xerrors.Errorf("invalid \\u escape: %w", err)
			}
			sb.WriteRune(rune(code))
			i += 4
		default:
			return "", xerrors.Errorf("invalid escape sequence \\%c", body[i])
		}
	}
	return sb.String(), nil
}

// decodeBlockString implements the GraphQL block string value algorithm:
// strip the minimum common indentation from every line but the first, then
// trim leading/trailing blank lines.
func decodeBlockString(body string) string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	commonIndent := -1
	for i, line := range lines {
		if i == 0 {
			continue
		}
		indent := leadingWhitespace(line)
		if indent == len(line) {
			continue // blank line doesn't count
		}
		if commonIndent == -1 || indent < commonIndent {
			commonIndent = indent
		}
	}
	if commonIndent > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= commonIndent {
				lines[i] = lines[i][commonIndent:]
			} else {
				lines[i] = ""
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func leadingWhitespace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return i
		}
	}
	return len(s)
}

// CoerceArgumentValues implements the argument half of spec §4.1/§4.3 step
// 2: for each declared argument, prefer the Argument node's value
// (resolving variables against the coerced variable map), else the
// default, else null. supplied reports which argument names were
// explicitly present in the document, which execute_field uses to decide
// whether a deprecated argument was actually consumed (spec §9 open
// question).
func CoerceArgumentValues(argOrder []string, argDefs map[string]*Argument, astArgs []*ast.Argument, variables map[string]interface{}) (values map[string]interface{}, supplied map[string]bool, errs []error) {
	byName := make(map[string]*ast.Argument, len(astArgs))
	for _, a := range astArgs {
		byName[a.Name.Value] = a
	}
	values = make(map[string]interface{}, len(argOrder))
	supplied = make(map[string]bool, len(astArgs))
	for _, name := range argOrder {
		def := argDefs[name]
		astArg, ok := byName[name]
		if !ok {
			if def.Default.Set() {
				values[name] = def.Default.Value()
			} else if _, ok2 := def.Type.(*NonNull); ok2 {
				errs = append(errs, xerrors.Errorf("argument %q of required type %v was not provided", name, def.Type))
			}
			continue
		}
		supplied[name] = true
		cv, cerrs := coerceAstValue(astArg.Value, def.Type, variables)
		if len(cerrs) > 0 {
			for _, err := range cerrs {
				errs = append(errs, xerrors.Errorf("argument %s: %w", name, err))
			}
			continue
		}
		values[name] = cv
	}
	return values, supplied, errs
}
