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
	"golang.org/x/xerrors"
	"graphloom.dev/graphql/ast"
	"graphloom.dev/graphql/internal/lang"
)

// validationScope carries everything needed to statically validate a
// document against a schema: the source text (for locations), the schema
// itself, every fragment definition and whether it has been spread yet, and
// (while validating one operation) that operation's declared variables.
type validationScope struct {
	source    string
	schema    *Schema
	fragments map[string]*fragmentValidationState
	variables map[string]*validatedVariable
}

type fragmentValidationState struct {
	def  *ast.FragmentDefinition
	used bool
}

type validatedVariable struct {
	typ        Type
	hasDefault bool
	used       bool
}

func posAt(source string, pos ast.Pos) Location {
	return astPositionToLocation(lang.ToPosition(source, pos))
}

// validateDocument runs every static validation rule spec §4.2 requires
// before a document may be executed: structural well-formedness, fragment
// cycle freedom, then each operation's variables, selections, and argument
// usage.
func validateDocument(schema *Schema, source string, doc *ast.Document) []error {
	fragments, errs := validateStructure(doc)
	if len(errs) > 0 {
		return errs
	}
	scope := &validationScope{source: source, schema: schema, fragments: fragments}
	for _, frag := range doc.Fragments {
		visiting := map[string]bool{frag.Name.Value: true}
		if err := detectFragmentCycle(scope, visiting, frag.SelectionSet); err != nil {
			return []error{err}
		}
	}
	for _, op := range doc.Operations {
		for _, d := range op.Directives {
			if d.Name.Value == "skip" || d.Name.Value == "include" {
				errs = append(errs, xerrors.Errorf("%s: directive @%s may not be used on an operation", posAt(source, d.Start), d.Name.Value))
			}
		}
		errs = append(errs, validateOperation(scope, op)...)
	}
	for _, frag := range doc.Fragments {
		for _, d := range frag.Directives {
			if d.Name.Value == "skip" || d.Name.Value == "include" {
				errs = append(errs, xerrors.Errorf("%s: directive @%s may not be used on a fragment definition", posAt(source, d.Start), d.Name.Value))
			}
		}
	}
	for name, state := range fragments {
		if !state.used {
			errs = append(errs, xerrors.Errorf("%s: fragment %q is never used", posAt(source, state.def.Start), name))
		}
	}
	return errs
}

// validateStructure checks operation-name uniqueness, the lone-anonymous-
// operation rule, and fragment-name uniqueness (spec §4.2's document-level
// rules), returning a lookup table of fragment definitions for later use.
func validateStructure(doc *ast.Document) (map[string]*fragmentValidationState, []error) {
	var errs []error
	anonCount := 0
	opCount := make(map[string]int)
	for _, op := range doc.Operations {
		if op.Name == nil {
			anonCount++
			continue
		}
		opCount[op.Name.Value]++
	}
	if anonCount > 1 {
		errs = append(errs, xerrors.New("a document may declare at most one anonymous operation"))
	}
	if anonCount > 0 && anonCount < len(doc.Operations) {
		errs = append(errs, xerrors.New("anonymous operations may not be mixed with named operations"))
	}
	for name, n := range opCount {
		if n > 1 {
			errs = append(errs, xerrors.Errorf("multiple operations named %q", name))
		}
	}

	fragments := make(map[string]*fragmentValidationState)
	fragCount := make(map[string]int)
	for _, frag := range doc.Fragments {
		fragCount[frag.Name.Value]++
		if _, ok := fragments[frag.Name.Value]; !ok {
			fragments[frag.Name.Value] = &fragmentValidationState{def: frag}
		}
	}
	for name, n := range fragCount {
		if n > 1 {
			errs = append(errs, xerrors.Errorf("multiple fragments named %q", name))
		}
	}
	return fragments, errs
}

// detectFragmentCycle walks every fragment spread reachable from set,
// failing if a fragment spreads itself directly or transitively (spec
// §4.2's "Fragment spreads must not form cycles").
func detectFragmentCycle(scope *validationScope, visiting map[string]bool, set *ast.SelectionSet) error {
	if set == nil {
		return nil
	}
	for _, sel := range set.Sel {
		switch {
		case sel.Field != nil:
			if err := detectFragmentCycle(scope, visiting, sel.Field.SelectionSet); err != nil {
				return err
			}
		case sel.InlineFragment != nil:
			if err := detectFragmentCycle(scope, visiting, sel.InlineFragment.SelectionSet); err != nil {
				return err
			}
		case sel.FragmentSpread != nil:
			name := sel.FragmentSpread.Name.Value
			if visiting[name] {
				return xerrors.Errorf("%s: fragment %q spreads itself", posAt(scope.source, sel.FragmentSpread.Start), name)
			}
			frag := scope.fragments[name]
			if frag == nil {
				continue
			}
			visiting[name] = true
			err := detectFragmentCycle(scope, visiting, frag.def.SelectionSet)
			delete(visiting, name)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// validateOperation validates one operation's root type, variable
// definitions, selection set, and that every declared variable is used.
func validateOperation(scope *validationScope, op *ast.OperationDefinition) []error {
	rootType := scope.schema.operationRoot(op.Kind)
	if rootType == nil {
		return prefixOperation(op, []error{xerrors.Errorf("%s: schema defines no %v root type", posAt(scope.source, op.Start), op.Kind)})
	}
	variables, errs := validateVariableDefinitions(scope, op.VariableDefinitions)
	if len(errs) > 0 {
		return prefixOperation(op, errs)
	}
	opScope := &validationScope{source: scope.source, schema: scope.schema, fragments: scope.fragments, variables: variables}
	errs = append(errs, validateSelectionSet(opScope, rootType, op.SelectionSet)...)
	for name, vv := range variables {
		if !vv.used {
			errs = append(errs, xerrors.Errorf("variable $%s is never used", name))
		}
	}
	return prefixOperation(op, errs)
}

func prefixOperation(op *ast.OperationDefinition, errs []error) []error {
	if op.Name == nil || len(errs) == 0 {
		return errs
	}
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = xerrors.Errorf("operation %s: %w", op.Name.Value, err)
	}
	return out
}

// validateVariableDefinitions resolves and checks every $variable an
// operation declares: its type must exist and be an input type, it must be
// unique, and its default value (if any) must satisfy that type.
func validateVariableDefinitions(scope *validationScope, defs []*ast.VariableDefinition) (map[string]*validatedVariable, []error) {
	var errs []error
	seen := make(map[string]int)
	result := make(map[string]*validatedVariable)
	for _, def := range defs {
		name := def.Var.Name.Value
		seen[name]++
		typ, err := scope.schema.resolveTypeRef(def.Type)
		if err != nil {
			errs = append(errs, xerrors.Errorf("variable $%s: %w", name, err))
			continue
		}
		if !isInputType(typ) {
			errs = append(errs, xerrors.Errorf("variable $%s: %v is not an input type", name, typ))
			continue
		}
		vv := &validatedVariable{typ: typ, hasDefault: def.Default != nil}
		if def.Default != nil {
			defScope := &validationScope{source: scope.source, schema: scope.schema, fragments: scope.fragments}
			for _, derr := range validateValue(defScope, typ, false, def.Default) {
				errs = append(errs, xerrors.Errorf("variable $%s default value: %w", name, derr))
			}
		}
		result[name] = vv
	}
	for name, n := range seen {
		if n > 1 {
			errs = append(errs, xerrors.Errorf("multiple variables named $%s", name))
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return result, nil
}

// validateSelectionSet validates every selection in set against parentType
// (an Object, Interface, or Union): field existence and shape, fragment
// type-condition applicability, and that same-key fields can merge (spec
// §4.2's FieldsInSetCanMerge).
func validateSelectionSet(scope *validationScope, parentType Type, set *ast.SelectionSet) []error {
	if set == nil {
		return nil
	}
	var errs []error
	for _, sel := range set.Sel {
		switch {
		case sel.Field != nil:
			errs = append(errs, validateField(scope, parentType, sel.Field)...)
		case sel.FragmentSpread != nil:
			name := sel.FragmentSpread.Name.Value
			frag := scope.fragments[name]
			if frag == nil {
				errs = append(errs, xerrors.Errorf("%s: undefined fragment %q", posAt(scope.source, sel.FragmentSpread.Start), name))
				continue
			}
			frag.used = true
			condType := scope.schema.LookupType(frag.def.TypeCondition.Value)
			if condType == nil || !isCompositeType(condType) {
				errs = append(errs, xerrors.Errorf("%s: fragment %q has an invalid type condition", posAt(scope.source, frag.def.Start), name))
				continue
			}
			if !typesOverlap(scope.schema, parentType, condType) {
				errs = append(errs, xerrors.Errorf("fragment %q cannot be spread on type %v", name, parentType))
				continue
			}
			for _, err := range validateSelectionSet(scope, condType, frag.def.SelectionSet) {
				errs = append(errs, xerrors.Errorf("fragment %s: %w", name, err))
			}
		case sel.InlineFragment != nil:
			condType := parentType
			if sel.InlineFragment.TypeCondition != nil {
				condType = scope.schema.LookupType(sel.InlineFragment.TypeCondition.Value)
				if condType == nil || !isCompositeType(condType) {
					errs = append(errs, xerrors.Errorf("%s: inline fragment has an invalid type condition", posAt(scope.source, sel.InlineFragment.Start)))
					continue
				}
				if !typesOverlap(scope.schema, parentType, condType) {
					errs = append(errs, xerrors.Errorf("inline fragment cannot be spread on type %v", parentType))
					continue
				}
			}
			errs = append(errs, validateSelectionSet(scope, condType, sel.InlineFragment.SelectionSet)...)
		}
	}
	groups, order := buildFieldGroups(scope, typeSet{typ: parentType, set: set})
	errs = append(errs, validateMergedFields(scope, groups, order)...)
	return errs
}

// typesOverlap reports whether some concrete Object could satisfy both a
// and b, the rule a fragment's type condition must satisfy against the
// type it's spread within.
func typesOverlap(schema *Schema, a, b Type) bool {
	pa := possibleObjectNames(schema, a)
	pb := possibleObjectNames(schema, b)
	for name := range pa {
		if pb[name] {
			return true
		}
	}
	return false
}

func possibleObjectNames(schema *Schema, typ Type) map[string]bool {
	out := make(map[string]bool)
	switch t := typ.(type) {
	case *Object:
		out[t.name] = true
	case *Interface:
		for _, obj := range t.PossibleTypes() {
			out[obj.name] = true
		}
	case *Union:
		for _, obj := range t.Members {
			out[obj.name] = true
		}
	}
	return out
}

// validateField checks that f names a real field of parentType, that its
// arguments are well-formed, and that its selection set is present if and
// only if the field's type is composite (spec §4.2's Leaf-Field-Selections
// and Field-Selections-on-Objects-Interfaces-and-Unions rules).
func validateField(scope *validationScope, parentType Type, f *ast.Field) []error {
	name := f.Name.Value
	fieldDef := fieldOn(parentType, name)
	if fieldDef == nil {
		return []error{xerrors.Errorf("%s: field %q does not exist on type %v", posAt(scope.source, f.Start()), name, parentType)}
	}
	var errs []error
	errs = append(errs, validateArguments(scope, fieldDef, f)...)
	if isCompositeType(namedOf(fieldDef.Type)) {
		if f.SelectionSet == nil {
			errs = append(errs, xerrors.Errorf("%s: field %q of composite type %v must have a selection set", posAt(scope.source, f.Start()), name, namedOf(fieldDef.Type)))
		} else {
			errs = append(errs, validateSelectionSet(scope, namedOf(fieldDef.Type), f.SelectionSet)...)
		}
	} else if f.SelectionSet != nil {
		errs = append(errs, xerrors.Errorf("%s: leaf field %q must not have a selection set", posAt(scope.source, f.Start()), name))
	}
	return errs
}

func fieldOn(parentType Type, name string) *Field {
	if name == typeNameFieldName {
		return typenameField
	}
	switch t := parentType.(type) {
	case *Object:
		return t.Fields[name]
	case *Interface:
		return t.Fields[name]
	default:
		return nil
	}
}

// validateArguments checks argument names, uniqueness, required-argument
// presence, and each supplied value against its declared type (spec §4.2's
// Argument-Names, Argument-Uniqueness, and Required-Arguments rules).
func validateArguments(scope *validationScope, fieldDef *Field, f *ast.Field) []error {
	seen := make(map[string]int)
	byName := make(map[string]*ast.Argument)
	var errs []error
	for _, a := range f.Arguments {
		seen[a.Name.Value]++
		if fieldDef.arg(a.Name.Value) == nil {
			errs = append(errs, xerrors.Errorf("%s: unknown argument %q on field %q", posAt(scope.source, a.Name.Start), a.Name.Value, f.Name.Value))
			continue
		}
		byName[a.Name.Value] = a
	}
	for name, n := range seen {
		if n > 1 {
			errs = append(errs, xerrors.Errorf("field %q: multiple values for argument %q", f.Name.Value, name))
		}
	}
	for _, argName := range fieldDef.ArgOrder {
		def := fieldDef.Args[argName]
		a, present := byName[argName]
		if !present {
			if _, ok := def.Type.(*NonNull); ok && !def.Default.Set() {
				errs = append(errs, xerrors.Errorf("%s: missing required argument %q on field %q", posAt(scope.source, f.Start()), argName, f.Name.Value))
			}
			continue
		}
		for _, err := range validateValue(scope, def.Type, def.Default.Set(), a.Value) {
			errs = append(errs, xerrors.Errorf("argument %s: %w", argName, err))
		}
	}
	return errs
}

// validateValue checks a literal (or variable reference) against typ
// without needing any variable's actual runtime value, implementing spec
// §4.2's Value-Type and Variable-Usage rules.
func validateValue(scope *validationScope, typ Type, hasLocationDefault bool, val *ast.Value) []error {
	if val.Kind == ast.NullValue {
		if _, ok := typ.(*NonNull); ok {
			return []error{xerrors.Errorf("null not permitted for %v", typ)}
		}
		return nil
	}
	if val.Kind == ast.VariableValue {
		name := val.Var.Name.Value
		vv := scope.variables[name]
		if vv == nil {
			return []error{xerrors.Errorf("undefined variable $%s", name)}
		}
		vv.used = true
		return validateVariableUsage(typ, hasLocationDefault, vv)
	}
	if nn, ok := typ.(*NonNull); ok {
		return validateValue(scope, nn.Elem, hasLocationDefault, val)
	}
	switch t := typ.(type) {
	case *Scalar:
		raw, err := literalRaw(val)
		if err != nil {
			return []error{err}
		}
		if _, perr := t.Parse(raw); perr != nil {
			return []error{xerrors.Errorf("%s: %w", t.Name(), perr)}
		}
		return nil
	case *Enum:
		if val.Kind != ast.EnumValue {
			return []error{xerrors.Errorf("expected an enum literal for %s", t.Name())}
		}
		if _, ok := t.valueNamed(val.Raw); !ok {
			return []error{xerrors.Errorf("%q is not a valid value for enum %s", val.Raw, t.Name())}
		}
		return nil
	case *List:
		if val.Kind != ast.ListValueKind {
			return validateValue(scope, t.Elem, false, val)
		}
		var errs []error
		for i, e := range val.List {
			for _, err := range validateValue(scope, t.Elem, false, e) {
				errs = append(errs, xerrors.Errorf("list[%d]: %w", i, err))
			}
		}
		return errs
	case *InputObject:
		if val.Kind != ast.ObjectValueKind {
			return []error{xerrors.Errorf("expected an object literal for %s", t.Name())}
		}
		seen := make(map[string]int)
		provided := make(map[string]*ast.Value)
		var errs []error
		for _, f := range val.Fields {
			seen[f.Name.Value]++
			if _, ok := t.Fields[f.Name.Value]; !ok {
				errs = append(errs, xerrors.Errorf("%s: unknown input field %q", t.Name(), f.Name.Value))
				continue
			}
			provided[f.Name.Value] = f.Value
		}
		for name, n := range seen {
			if n > 1 {
				errs = append(errs, xerrors.Errorf("%s: multiple values for input field %q", t.Name(), name))
			}
		}
		for _, name := range t.FieldOrder {
			fdef := t.Fields[name]
			fv, present := provided[name]
			if !present {
				if _, ok := fdef.Type.(*NonNull); ok && !fdef.Default.Set() {
					errs = append(errs, xerrors.Errorf("%s: missing required input field %q", t.Name(), name))
				}
				continue
			}
			for _, err := range validateValue(scope, fdef.Type, fdef.Default.Set(), fv) {
				errs = append(errs, xerrors.Errorf("input field %s: %w", name, err))
			}
		}
		return errs
	default:
		return []error{xerrors.Errorf("%v is not an input type", typ)}
	}
}

// validateVariableUsage implements spec §4.2's All-Variable-Usages-Are-
// Allowed rule: a nullable variable may fill a non-null location only if
// either the variable or the usage site supplies a default, and otherwise
// the variable's declared type must satisfy (typeSatisfies) the location's.
func validateVariableUsage(locationType Type, hasLocationDefault bool, vv *validatedVariable) []error {
	loc := locationType
	if nn, ok := locationType.(*NonNull); ok {
		if _, varIsNonNull := vv.typ.(*NonNull); !varIsNonNull {
			if !vv.hasDefault && !hasLocationDefault {
				return []error{xerrors.Errorf("nullable variable not permitted for non-null %v", nn)}
			}
			loc = nn.Elem
		}
	}
	if !typeSatisfies(vv.typ, loc) {
		return []error{xerrors.Errorf("variable of type %v not allowed where %v is expected", vv.typ, locationType)}
	}
	return nil
}

// fieldGroupEntry is one occurrence of a response key collected (possibly
// through fragments) against a specific parent type, the unit
// validateMergedFields compares pairwise.
type fieldGroupEntry struct {
	field      *ast.Field
	parentType Type
}

type typeSet struct {
	typ Type
	set *ast.SelectionSet
}

const maxValidationFragmentDepth = 64

// buildFieldGroups collects every field selection reachable from each
// (type, set) pair, inlining fragments, and groups them by response key in
// first-occurrence order.
func buildFieldGroups(scope *validationScope, pairs ...typeSet) (map[string][]fieldGroupEntry, []string) {
	groups := make(map[string][]fieldGroupEntry)
	var order []string
	for _, p := range pairs {
		collectFieldGroupEntries(scope, p.typ, p.set, groups, &order, 0)
	}
	return groups, order
}

func collectFieldGroupEntries(scope *validationScope, parentType Type, set *ast.SelectionSet, groups map[string][]fieldGroupEntry, order *[]string, depth int) {
	if set == nil || depth > maxValidationFragmentDepth {
		return
	}
	for _, sel := range set.Sel {
		switch {
		case sel.Field != nil:
			key := sel.Field.ResponseKey()
			if _, ok := groups[key]; !ok {
				*order = append(*order, key)
			}
			groups[key] = append(groups[key], fieldGroupEntry{field: sel.Field, parentType: parentType})
		case sel.FragmentSpread != nil:
			frag := scope.fragments[sel.FragmentSpread.Name.Value]
			if frag == nil {
				continue
			}
			condType := scope.schema.LookupType(frag.def.TypeCondition.Value)
			if condType == nil {
				continue
			}
			collectFieldGroupEntries(scope, condType, frag.def.SelectionSet, groups, order, depth+1)
		case sel.InlineFragment != nil:
			condType := parentType
			if sel.InlineFragment.TypeCondition != nil {
				if t := scope.schema.LookupType(sel.InlineFragment.TypeCondition.Value); t != nil {
					condType = t
				}
			}
			collectFieldGroupEntries(scope, condType, sel.InlineFragment.SelectionSet, groups, order, depth+1)
		}
	}
}

// validateMergedFields implements FieldsInSetCanMerge: every pair of
// same-key fields must agree on name and arguments (unless their parent
// types are distinct concrete Objects, in which case only their response
// shape must agree), and if both have sub-selections those are merge-
// checked together in turn.
func validateMergedFields(scope *validationScope, groups map[string][]fieldGroupEntry, order []string) []error {
	var errs []error
	for _, key := range order {
		entries := groups[key]
		for i := 0; i < len(entries); i++ {
			for j := i + 1; j < len(entries); j++ {
				errs = append(errs, checkEntriesMergeable(scope, key, entries[i], entries[j])...)
			}
		}
	}
	return errs
}

func checkEntriesMergeable(scope *validationScope, key string, a, b fieldGroupEntry) []error {
	fieldDefA := fieldOn(a.parentType, a.field.Name.Value)
	fieldDefB := fieldOn(b.parentType, b.field.Name.Value)
	if fieldDefA == nil || fieldDefB == nil {
		return nil // reported separately by validateField
	}
	sameParent := a.parentType == b.parentType || !isConcreteObjectType(a.parentType) || !isConcreteObjectType(b.parentType)
	if !sameParent {
		if !responseShapesCompatible(fieldDefA.Type, fieldDefB.Type) {
			return []error{xerrors.Errorf("fields for response key %q conflict: incompatible types %v and %v", key, fieldDefA.Type, fieldDefB.Type)}
		}
	} else {
		if a.field.Name.Value != b.field.Name.Value {
			return []error{xerrors.Errorf("fields for response key %q conflict: different field names %q and %q", key, a.field.Name.Value, b.field.Name.Value)}
		}
		if !argsIdentical(a.field.Arguments, b.field.Arguments) {
			return []error{xerrors.Errorf("fields for response key %q conflict: different arguments", key)}
		}
	}
	if a.field.SelectionSet == nil || b.field.SelectionSet == nil {
		return nil
	}
	subGroups, subOrder := buildFieldGroups(scope,
		typeSet{typ: namedOf(fieldDefA.Type), set: a.field.SelectionSet},
		typeSet{typ: namedOf(fieldDefB.Type), set: b.field.SelectionSet},
	)
	var errs []error
	for _, err := range validateMergedFields(scope, subGroups, subOrder) {
		errs = append(errs, xerrors.Errorf("%s: %w", key, err))
	}
	return errs
}

func isConcreteObjectType(t Type) bool {
	_, ok := t.(*Object)
	return ok
}

// responseShapesCompatible reports whether a and b could produce the same
// JSON shape: identical nullability and list nesting at every level, and
// either the same leaf type or both composite (sub-field conflicts are
// caught separately by the caller's recursion).
func responseShapesCompatible(a, b Type) bool {
	for {
		aNN, aIsNN := a.(*NonNull)
		bNN, bIsNN := b.(*NonNull)
		if aIsNN != bIsNN {
			return false
		}
		if aIsNN {
			a, b = aNN.Elem, bNN.Elem
			continue
		}
		aList, aIsList := a.(*List)
		bList, bIsList := b.(*List)
		if aIsList != bIsList {
			return false
		}
		if aIsList {
			a, b = aList.Elem, bList.Elem
			continue
		}
		break
	}
	if isLeafType(a) || isLeafType(b) {
		return a == b
	}
	return isCompositeType(a) && isCompositeType(b)
}

func argsIdentical(a, b []*ast.Argument) bool {
	if len(a) != len(b) {
		return false
	}
	byName := make(map[string]*ast.Value, len(a))
	for _, arg := range a {
		byName[arg.Name.Value] = arg.Value
	}
	for _, arg := range b {
		av, ok := byName[arg.Name.Value]
		if !ok || !valuesIdentical(av, arg.Value) {
			return false
		}
	}
	return true
}

func valuesIdentical(a, b *ast.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ast.VariableValue:
		return a.Var.Name.Value == b.Var.Name.Value
	case ast.ListValueKind:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !valuesIdentical(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case ast.ObjectValueKind:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		bFields := make(map[string]*ast.Value, len(b.Fields))
		for _, f := range b.Fields {
			bFields[f.Name.Value] = f.Value
		}
		for _, f := range a.Fields {
			bv, ok := bFields[f.Name.Value]
			if !ok || !valuesIdentical(f.Value, bv) {
				return false
			}
		}
		return true
	default:
		return a.Raw == b.Raw
	}
}
