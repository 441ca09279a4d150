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
)

// A Value is a single node of a completed GraphQL response tree: the
// internal value domain of spec §3.4 (null, bool, int64, float64, string,
// enum symbol, list, or object) tagged with the type that produced it.
// The zero Value is an untyped null.
type Value struct {
	typ Type
	val interface{} // one of nil, bool, int64, float64, string, []Value, or []Field
}

// Field is a single key/value pair inside an object Value. Using a slice of
// Fields rather than a map preserves the response-key ordering required by
// spec §4.3 ("merge order... follows first-occurrence order").
type Field struct {
	Key   string
	Value Value
}

func nullValue(typ Type) Value { return Value{typ: typ} }

func scalarValue(typ Type, v interface{}) Value { return Value{typ: typ, val: v} }

func listValueOf(typ Type, elems []Value) Value { return Value{typ: typ, val: elems} }

func objectValueOf(typ Type, fields []Field) Value { return Value{typ: typ, val: fields} }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.val == nil }

// Type returns the GraphQL type that produced v.
func (v Value) Type() Type { return v.typ }

// Scalar returns v's underlying scalar payload (bool, int64, float64, or
// string) or nil if v is not a scalar/enum value.
func (v Value) Scalar() interface{} {
	switch v.val.(type) {
	case bool, int64, float64, string:
		return v.val
	default:
		return nil
	}
}

// Len returns the number of elements in v, or 0 if v is null. Len panics if
// v is neither null nor a list.
func (v Value) Len() int {
	if v.val == nil {
		return 0
	}
	return len(v.val.([]Value))
}

// At returns v's i'th element. At panics if v is not a list or i is out of range.
func (v Value) At(i int) Value {
	return v.val.([]Value)[i]
}

// NumFields returns the number of fields in v. NumFields panics if v is not
// null or an object.
func (v Value) NumFields() int {
	if v.val == nil {
		return 0
	}
	return len(v.val.([]Field))
}

// FieldAt returns v's i'th field. FieldAt panics if v is not an object or i
// is out of range.
func (v Value) FieldAt(i int) Field {
	return v.val.([]Field)[i]
}

// ValueFor returns the value of the field with the given key, or the zero
// Value if v has no such field or is not an object.
func (v Value) ValueFor(key string) Value {
	fields, _ := v.val.([]Field)
	for _, f := range fields {
		if f.Key == key {
			return f.Value
		}
	}
	return Value{}
}

// GoValue converts v into plain Go values suitable for further processing
// outside this package: nil, bool, int64, float64, string, []interface{},
// or map[string]interface{}.
func (v Value) GoValue() interface{} {
	switch val := v.val.(type) {
	case nil:
		return nil
	case []Value:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = vv.GoValue()
		}
		return out
	case []Field:
		out := make(map[string]interface{}, len(val))
		for _, f := range val {
			out[f.Key] = f.Value.GoValue()
		}
		return out
	default:
		return val
	}
}

// MarshalJSON converts the value to its JSON serialized form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch val := v.val.(type) {
	case nil:
		return []byte("null"), nil
	case []Field:
		var buf []byte
		buf = append(buf, '{')
		for i, f := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(f.Key)
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			fval, err := json.Marshal(f.Value)
			if err != nil {
				return nil, err
			}
			buf = append(buf, fval...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return json.Marshal(val)
	}
}
