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
	"strings"

	"golang.org/x/xerrors"
	"graphloom.dev/graphql/ast"
	"graphloom.dev/graphql/internal/lang"
)

// selectionSetScope carries everything needed to interpret a SelectionSet's
// raw AST against a concrete object type: the source text (for error
// locations), the document (for fragment lookup), the schema (for type
// conditions and reserved fields), and the operation's coerced variables.
type selectionSetScope struct {
	source    string
	doc       *ast.Document
	schema    *Schema
	variables map[string]interface{}
}

// A SelectionSet is the (not yet type-resolved) set of fields a client
// requested at one position in a query. Because interface and union fields
// fan out differently depending on which concrete Object a resolver
// actually returns, a SelectionSet defers field collection until
// CollectFields is called with that concrete type — mirroring spec §4.3's
// CollectFields(objectType, ...) taking the runtime object type, not the
// statically declared one.
type SelectionSet struct {
	scope *selectionSetScope
	sel   []*ast.Selection
}

func newSelectionSet(scope *selectionSetScope, ss *ast.SelectionSet) *SelectionSet {
	if ss == nil {
		return nil
	}
	return &SelectionSet{scope: scope, sel: ss.Sel}
}

// typenameField is the synthetic field definition for "__typename",
// answerable on any composite type without being declared.
var typenameField = &Field{Name: typeNameFieldName, Type: NonNullOf(StringType), Description: "The name of the current Object type at runtime."}

// CollectFields implements spec §4.3's collect_fields: it walks the raw
// selections against objType, inlining fragment spreads and inline
// fragments whose type condition objType satisfies, evaluating @skip and
// @include, and merging multiple occurrences of the same response key into
// one SelectedField whose sub-selection accumulates every occurrence's
// selection set (MergeSelectionSets).
func (set *SelectionSet) CollectFields(objType *Object) ([]*SelectedField, []error) {
	if set == nil {
		return nil, nil
	}
	var order []*SelectedField
	byKey := make(map[string]*SelectedField)
	errs := set.scope.collectInto(&order, byKey, objType, set.sel, 0)
	return order, errs
}

const maxFragmentDepth = 64

func (s *selectionSetScope) collectInto(order *[]*SelectedField, byKey map[string]*SelectedField, objType *Object, sel []*ast.Selection, depth int) []error {
	if depth > maxFragmentDepth {
		return []error{xerrors.New("fragment spread nesting too deep")}
	}
	var errs []error
	for _, node := range sel {
		switch {
		case node.Field != nil:
			include, ierrs := s.evalDirectives(node.Field.Directives)
			errs = append(errs, ierrs...)
			if !include {
				continue
			}
			if err := s.collectField(order, byKey, objType, node.Field); err != nil {
				errs = append(errs, err)
			}
		case node.FragmentSpread != nil:
			include, ierrs := s.evalDirectives(node.FragmentSpread.Directives)
			errs = append(errs, ierrs...)
			if !include {
				continue
			}
			name := node.FragmentSpread.Name.Value
			frag := s.doc.FindFragment(name)
			if frag == nil {
				errs = append(errs, xerrors.Errorf("undefined fragment %q", name))
				continue
			}
			if !s.typeConditionApplies(objType, frag.TypeCondition.Value) {
				continue
			}
			fragErrs := s.collectInto(order, byKey, objType, frag.SelectionSet.Sel, depth+1)
			for _, err := range fragErrs {
				errs = append(errs, xerrors.Errorf("fragment %s: %w", name, err))
			}
		case node.InlineFragment != nil:
			include, ierrs := s.evalDirectives(node.InlineFragment.Directives)
			errs = append(errs, ierrs...)
			if !include {
				continue
			}
			if node.InlineFragment.TypeCondition != nil && !s.typeConditionApplies(objType, node.InlineFragment.TypeCondition.Value) {
				continue
			}
			errs = append(errs, s.collectInto(order, byKey, objType, node.InlineFragment.SelectionSet.Sel, depth+1)...)
		default:
			errs = append(errs, xerrors.New("selection has neither a field, a fragment spread, nor an inline fragment"))
		}
	}
	return errs
}

// typeConditionApplies reports whether objType satisfies a fragment's or
// inline fragment's type condition: the condition names objType itself, an
// interface objType implements, or a union objType belongs to.
func (s *selectionSetScope) typeConditionApplies(objType *Object, condName string) bool {
	if objType.name == condName {
		return true
	}
	switch cond := s.schema.types[condName].(type) {
	case *Interface:
		return objType.implements(cond)
	case *Union:
		return cond.hasMember(objType.name)
	default:
		return false
	}
}

// evalDirectives applies @skip and @include (spec §4.3's executable
// directive semantics): @skip(if: true) excludes the selection, @include(if:
// false) excludes it, and both default to "included" when absent.
func (s *selectionSetScope) evalDirectives(directives []*ast.Directive) (include bool, errs []error) {
	include = true
	for _, d := range directives {
		switch d.Name.Value {
		case "skip", "include":
			def := s.schema.Directive(d.Name.Value)
			values, _, cerrs := CoerceArgumentValues(def.ArgOrder, def.Args, d.Arguments, s.variables)
			if len(cerrs) > 0 {
				errs = append(errs, cerrs...)
				continue
			}
			ifVal, _ := values["if"].(bool)
			if d.Name.Value == "skip" && ifVal {
				include = false
			}
			if d.Name.Value == "include" && !ifVal {
				include = false
			}
		}
	}
	return include, errs
}

func (s *selectionSetScope) collectField(order *[]*SelectedField, byKey map[string]*SelectedField, objType *Object, f *ast.Field) error {
	key := f.ResponseKey()
	if existing, ok := byKey[key]; ok {
		if f.SelectionSet != nil && existing.sub != nil {
			existing.sub.sel = append(existing.sub.sel, f.SelectionSet.Sel...)
		}
		return nil
	}

	name := f.Name.Value
	var fieldDef *Field
	if name == typeNameFieldName {
		fieldDef = typenameField
	} else {
		fieldDef = objType.Fields[name]
	}
	if fieldDef == nil {
		return xerrors.Errorf("%s: type %s has no field %q", s.posOf(f.Start()), objType.name, name)
	}

	args, supplied, argErrs := CoerceArgumentValues(fieldDef.ArgOrder, fieldDef.Args, f.Arguments, s.variables)
	if len(argErrs) > 0 {
		var combined []string
		for _, err := range argErrs {
			combined = append(combined, err.Error())
		}
		return xerrors.Errorf("%s: field %s.%s: %s", s.posOf(f.Start()), objType.name, name, strings.Join(combined, "; "))
	}

	sf := &SelectedField{
		key:          key,
		name:         name,
		loc:          astPositionToLocation(lang.ToPosition(s.source, f.Start())),
		fieldDef:     fieldDef,
		args:         args,
		suppliedArgs: supplied,
	}
	if isCompositeType(namedOf(fieldDef.Type)) {
		sub := &SelectionSet{scope: s}
		if f.SelectionSet != nil {
			sub.sel = append(sub.sel, f.SelectionSet.Sel...)
		}
		sf.sub = sub
	}
	byKey[key] = sf
	*order = append(*order, sf)
	return nil
}

func (s *selectionSetScope) posOf(pos ast.Pos) Location {
	return astPositionToLocation(lang.ToPosition(s.source, pos))
}

func astPositionToLocation(pos ast.Position) Location {
	return Location{Line: pos.Line, Column: pos.Column}
}

// Has reports whether the selection set requests a field with the given
// name anywhere in its raw selections (including inside fragments),
// without resolving type conditions against a concrete object. The name
// may contain dots to check nested sub-selections, e.g. Has("a.b").
func (set *SelectionSet) Has(name string) bool {
	return set.HasAny(name)
}

// HasAny reports whether any of names appears in the selection set, dotted
// paths addressing nested sub-selections the same way as Has.
func (set *SelectionSet) HasAny(names ...string) bool {
	if set == nil || len(names) == 0 {
		return false
	}
	return hasAnyIn(set.scope, set.sel, newFieldTree(names), 0)
}

func hasAnyIn(scope *selectionSetScope, sel []*ast.Selection, tree fieldTree, depth int) bool {
	if depth > maxFragmentDepth {
		return false
	}
	for _, node := range sel {
		switch {
		case node.Field != nil:
			treeNode, ok := tree[node.Field.Name.Value]
			if ok && treeNode.selected {
				return true
			}
			if ok && treeNode.subtree != nil && node.Field.SelectionSet != nil {
				if hasAnyIn(scope, node.Field.SelectionSet.Sel, treeNode.subtree, depth+1) {
					return true
				}
			}
		case node.FragmentSpread != nil:
			frag := scope.doc.FindFragment(node.FragmentSpread.Name.Value)
			if frag != nil && hasAnyIn(scope, frag.SelectionSet.Sel, tree, depth+1) {
				return true
			}
		case node.InlineFragment != nil:
			if hasAnyIn(scope, node.InlineFragment.SelectionSet.Sel, tree, depth+1) {
				return true
			}
		}
	}
	return false
}

// OnlyUses reports whether the selection set requests nothing beyond names
// (and __typename), the same dotted-path convention as HasAny.
func (set *SelectionSet) OnlyUses(names ...string) bool {
	if set == nil {
		return true
	}
	return onlyUsesIn(set.scope, set.sel, newFieldTree(names), 0)
}

func onlyUsesIn(scope *selectionSetScope, sel []*ast.Selection, allowed fieldTree, depth int) bool {
	if depth > maxFragmentDepth {
		return false
	}
	for _, node := range sel {
		switch {
		case node.Field != nil:
			name := node.Field.Name.Value
			if name != typeNameFieldName && !allowed.has(name) {
				return false
			}
			treeNode := allowed[name]
			if node.Field.SelectionSet != nil && !treeNode.selected {
				if !onlyUsesIn(scope, node.Field.SelectionSet.Sel, treeNode.subtree, depth+1) {
					return false
				}
			}
		case node.FragmentSpread != nil:
			frag := scope.doc.FindFragment(node.FragmentSpread.Name.Value)
			if frag != nil && !onlyUsesIn(scope, frag.SelectionSet.Sel, allowed, depth+1) {
				return false
			}
		case node.InlineFragment != nil:
			if !onlyUsesIn(scope, node.InlineFragment.SelectionSet.Sel, allowed, depth+1) {
				return false
			}
		}
	}
	return true
}

// A fieldTree stores a tree of dotted field-path queries, as used by Has,
// HasAny, and OnlyUses.
type fieldTree map[string]fieldTreeNode

type fieldTreeNode struct {
	selected bool
	subtree  fieldTree
}

func newFieldTree(names []string) fieldTree {
	tree := make(fieldTree)
	for _, name := range names {
		name = strings.TrimLeft(name, ".")
		curr := tree
		for len(name) > 0 {
			var part string
			if i := strings.IndexByte(name, '.'); i != -1 {
				part, name = name[:i], strings.TrimLeft(name[i+1:], ".")
			} else {
				part, name = name, ""
			}
			node := curr[part]
			if len(name) == 0 {
				node.selected = true
				curr[part] = node
			} else if node.subtree == nil {
				node.subtree = make(fieldTree)
				curr[part] = node
			}
			curr = node.subtree
		}
	}
	return tree
}

func (tree fieldTree) has(part string) bool {
	_, ok := tree[part]
	return ok
}

// SelectedField is one field collected against a concrete object type: its
// response key, coerced arguments, and (for composite-typed fields) its
// own deferred sub-selection.
type SelectedField struct {
	key          string
	name         string
	loc          Location
	fieldDef     *Field
	args         map[string]interface{}
	suppliedArgs map[string]bool
	sub          *SelectionSet
}

// Name returns the field's name as declared in the schema, which may
// differ from Key when the query aliases it.
func (f *SelectedField) Name() string { return f.name }

// Key returns the response object key for this field (the alias, if any,
// else the name).
func (f *SelectedField) Key() string { return f.key }

// Arg returns the coerced value of the named argument, or nil.
func (f *SelectedField) Arg(name string) interface{} { return f.args[name] }

// WasSupplied reports whether the named argument was explicitly present in
// the document, as opposed to filled in from a default.
func (f *SelectedField) WasSupplied(name string) bool { return f.suppliedArgs[name] }

// SelectionSet returns the field's own sub-selection, or nil for a leaf field.
func (f *SelectedField) SelectionSet() *SelectionSet { return f.sub }
