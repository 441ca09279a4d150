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
	"context"
	"fmt"
)

// This file builds a single fixture schema shared by the tests in this
// package, modeled on a small pet-catalog domain rather than the teacher's
// dog-only one, since it needs an Interface and a Union to exercise abstract
// type resolution as well as the usual scalar/list/argument paths. It is
// assembled directly with the exported New* constructors (the same surface
// schemabuilder.Build uses) rather than through schemabuilder, since these
// are internal package tests and a hand-built schema keeps the fixture's
// shape obvious at the call site.

// Dog and Cat are the two concrete animal kinds. Pet is the interface both
// implement, Animal the union over both. The query root's pet field reports
// one or the other depending on its cat argument and is resolved through
// Pet's ResolveType; animal always reports a Cat and, since Animal has no
// ResolveType, is resolved through IsTypeOf.
type fixtureDog struct {
	Name       string
	BarkVolume int32
}

type fixtureCat struct {
	Name      string
	LivesLeft int32
}

var direction = NewEnum("Direction", "A compass direction.", []EnumValue{
	{Name: "NORTH", Value: "NORTH"},
	{Name: "SOUTH", Value: "SOUTH"},
	{Name: "EAST", Value: "EAST"},
	{Name: "WEST", Value: "WEST"},
	{Name: "UP", Value: "UP", Description: "Off the map.", Deprecation: &Deprecation{Reason: "not a real direction"}},
})

var complexInput = NewInputObject("Complex", "", map[string]*InputField{
	"foo": {Name: "foo", Type: StringType},
}, []string{"foo"})

var dogObject = NewObject("Dog", "A dog.", map[string]*Field{
	"name":       {Name: "name", Type: NonNullOf(StringType)},
	"barkVolume": {Name: "barkVolume", Type: IntType},
}, []string{"name", "barkVolume"}, nil, func(v interface{}) bool {
	_, ok := v.(*fixtureDog)
	return ok
})

var catObject = NewObject("Cat", "A cat.", map[string]*Field{
	"name":      {Name: "name", Type: NonNullOf(StringType)},
	"livesLeft": {Name: "livesLeft", Type: IntType},
}, []string{"name", "livesLeft"}, nil, func(v interface{}) bool {
	_, ok := v.(*fixtureCat)
	return ok
})

var petInterface = NewInterface("Pet", "Something that can be a pet.", map[string]*Field{
	"name": {Name: "name", Type: NonNullOf(StringType)},
}, []string{"name"}, func(v interface{}) *Object {
	switch v.(type) {
	case *fixtureDog:
		return dogObject
	case *fixtureCat:
		return catObject
	default:
		return nil
	}
})

var animalUnion = NewUnion("Animal", "Any fixture animal.", []*Object{dogObject, catObject}, nil)

func init() {
	dogObject.Interfaces = []*Interface{petInterface}
	catObject.Interfaces = []*Interface{petInterface}
}

// fixtureRoot backs the query root's fields: either directly (for fields
// resolved by readFieldResolver) or via the Resolve funcs built below (for
// fields that need arguments or custom errors).
type fixtureRoot struct {
	MyString         NullString
	MyNonNullString  string
	MyBoolean        NullBoolean
	MyInt            NullInt
	Counter          int32
}

func (r *fixtureRoot) NilErrorMethod() (string, error) {
	return "", nil
}

func (r *fixtureRoot) ErrorMethod() (string, error) {
	return "", fmt.Errorf("fixture: intentional error")
}

func newFixtureSchema() *Schema {
	query := NewObject("Query", "", map[string]*Field{
		"myString":        {Name: "myString", Type: StringType},
		"myNonNullString": {Name: "myNonNullString", Type: NonNullOf(StringType)},
		"myBoolean":       {Name: "myBoolean", Type: BooleanType},
		"myInt":           {Name: "myInt", Type: IntType},
		"myList": {
			Name: "myList", Type: NonNullOf(ListOf(NonNullOf(IntType))),
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return []int{1, 2, 3}, nil
			},
		},
		"myDogList": {
			Name: "myDogList", Type: NonNullOf(ListOf(NonNullOf(dogObject))),
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return []*fixtureDog{{Name: "Fido", BarkVolume: 11}, {Name: "Rex"}}, nil
			},
		},
		"myDog": {
			Name: "myDog", Type: dogObject,
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return &fixtureDog{Name: "Fido", BarkVolume: 11}, nil
			},
		},
		"myNilDog": {
			Name: "myNilDog", Type: dogObject,
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return (*fixtureDog)(nil), nil
			},
		},
		"pet": {
			Name: "pet", Type: petInterface,
			Args: map[string]*Argument{"cat": {Name: "cat", Type: BooleanType, Default: coerced(false)}},
			ArgOrder: []string{"cat"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				if b, _ := args["cat"].(bool); b {
					return &fixtureCat{Name: "Whiskers", LivesLeft: 9}, nil
				}
				return &fixtureDog{Name: "Fido", BarkVolume: 11}, nil
			},
		},
		"animal": {
			Name: "animal", Type: animalUnion,
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return &fixtureCat{Name: "Whiskers", LivesLeft: 9}, nil
			},
		},
		"nilErrorMethod": {Name: "nilErrorMethod", Type: StringType},
		"errorMethod":    {Name: "errorMethod", Type: StringType},
		"requiredArg": {
			Name: "requiredArg", Type: NonNullOf(StringType),
			Args: map[string]*Argument{"echo": {Name: "echo", Type: NonNullOf(StringType)}},
			ArgOrder: []string{"echo"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return args["echo"], nil
			},
		},
		"argWithDefault": {
			Name: "argWithDefault", Type: StringType,
			Args:     map[string]*Argument{"echo": {Name: "echo", Type: StringType, Default: coerced("xyzzy")}},
			ArgOrder: []string{"echo"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return args["echo"], nil
			},
		},
		"enumArg": {
			Name: "enumArg", Type: NonNullOf(StringType),
			Args:     map[string]*Argument{"direction": {Name: "direction", Type: NonNullOf(direction)}},
			ArgOrder: []string{"direction"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return args["direction"], nil
			},
		},
		"inputObjectArgument": {
			Name: "inputObjectArgument", Type: StringType,
			Args:     map[string]*Argument{"complex": {Name: "complex", Type: complexInput}},
			ArgOrder: []string{"complex"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				obj, _ := args["complex"].(map[string]interface{})
				if obj == nil {
					return nil, nil
				}
				foo, _ := obj["foo"].(string)
				return foo, nil
			},
		},
		"deprecatedField": {
			Name: "deprecatedField", Type: StringType, Deprecation: &Deprecation{Reason: "no longer needed"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				return "still here", nil
			},
		},
	}, []string{
		"myString", "myNonNullString", "myBoolean", "myInt", "myList", "myDogList", "myDog", "myNilDog",
		"pet", "animal", "nilErrorMethod", "errorMethod", "requiredArg", "argWithDefault", "enumArg",
		"inputObjectArgument", "deprecatedField",
	}, nil, nil)

	mutation := NewObject("Mutation", "", map[string]*Field{
		"increment": {
			Name: "increment", Type: NonNullOf(IntType),
			Args:     map[string]*Argument{"by": {Name: "by", Type: NonNullOf(IntType)}},
			ArgOrder: []string{"by"},
			Resolve: func(ctx context.Context, source interface{}, args map[string]interface{}, info *ResolveInfo) (interface{}, error) {
				r := source.(*fixtureRoot)
				by, _ := args["by"].(int64)
				r.Counter += int32(by)
				return int64(r.Counter), nil
			},
		},
	}, []string{"increment"}, nil, nil)

	schema, err := NewSchema(query, mutation, nil)
	if err != nil {
		panic(err)
	}
	return schema
}
