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
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/xerrors"
)

// readNamedProperty implements spec §4.3's "absence of a resolver is
// equivalent to reading named property from the parent value": an exported
// struct field or a zero-argument method matched case-insensitively against
// name, in the style of the teacher's reflection-based field dispatch
// (doc.go). Maps are consulted directly by key, falling back to a
// case-insensitive scan.
func readNamedProperty(source interface{}, name string) (interface{}, error) {
	v := reflect.ValueOf(source)
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nil, nil
	}
	switch v.Kind() {
	case reflect.Map:
		if mv := v.MapIndex(reflect.ValueOf(name)); mv.IsValid() {
			return mv.Interface(), nil
		}
		for _, key := range v.MapKeys() {
			if key.Kind() == reflect.String && strings.EqualFold(key.String(), name) {
				return v.MapIndex(key).Interface(), nil
			}
		}
		return nil, nil
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" {
				continue // unexported
			}
			if strings.EqualFold(f.Name, name) {
				return v.Field(i).Interface(), nil
			}
		}
		if m, ok := findMethod(reflect.ValueOf(source), name); ok {
			return callZeroArgMethod(m)
		}
		return nil, xerrors.Errorf("no field or method named %q on %v", name, t)
	default:
		return nil, xerrors.Errorf("cannot read field %q from %v", name, v.Kind())
	}
}

func findMethod(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumMethod(); i++ {
		if strings.EqualFold(t.Method(i).Name, name) {
			return v.Method(i), true
		}
	}
	return reflect.Value{}, false
}

func callZeroArgMethod(m reflect.Value) (interface{}, error) {
	if m.Type().NumIn() != 0 {
		return nil, xerrors.New("method requires arguments")
	}
	out := m.Call(nil)
	switch len(out) {
	case 1:
		return out[0].Interface(), nil
	case 2:
		var err error
		if e, ok := out[1].Interface().(error); ok {
			err = e
		}
		return out[0].Interface(), err
	default:
		return nil, xerrors.New("method has unsupported return signature")
	}
}

// ConvertArgs decodes a field's coerced argument map into dst, a pointer to
// a struct whose fields are matched by name (case-insensitively, honoring a
// `graphql:"name"` tag override). It is a convenience for resolvers that
// would rather work with a typed argument struct than a raw
// map[string]interface{}, adapted from the teacher's ConvertValueMap; the
// conversion itself goes through encoding/json rather than the teacher's
// bespoke reflection walk, since the argument domain (already-decoded JSON
// scalars, slices, and maps) round-trips through it cleanly.
func ConvertArgs(args map[string]interface{}, dst interface{}) error {
	renamed := args
	if rv := reflect.ValueOf(dst); rv.Kind() == reflect.Ptr && rv.Elem().Kind() == reflect.Struct {
		t := rv.Elem().Type()
		tagFor := make(map[string]string)
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if tag := f.Tag.Get("graphql"); tag != "" && tag != "-" {
				tagFor[tag] = f.Name
			}
		}
		if len(tagFor) > 0 {
			renamed = make(map[string]interface{}, len(args))
			for k, v := range args {
				if name, ok := tagFor[k]; ok {
					renamed[name] = v
				} else {
					renamed[k] = v
				}
			}
		}
	}
	data, err := json.Marshal(renamed)
	if err != nil {
		return fmt.Errorf("convert args: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("convert args: %w", err)
	}
	return nil
}
