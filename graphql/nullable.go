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

	"golang.org/x/xerrors"
)

// Nullable is satisfied by the Null* wrapper types below. isNilish (in
// graphql.go) consults it so a resolver can report a field as null without
// returning a typed nil pointer: a struct field of one of these types is the
// idiomatic way to back an optional Int/Float/String/Boolean scalar.
type Nullable interface {
	IsGraphQLNull() bool
}

func isGraphQLNull(x interface{}) bool {
	n, ok := x.(Nullable)
	return ok && n.IsGraphQLNull()
}

// marshalNullable is the shared "valid or errMarshalNull" guard behind every
// Null* MarshalText method. serializeStringOutput and serializeIDOutput in
// scalar.go do call MarshalText, but a null field is completed before
// serialization ever runs, so they never see an invalid value; resolvers and
// tests that round-trip these types through encoding/json still need the
// contract to hold.
func marshalNullable(valid bool, text []byte) ([]byte, error) {
	if !valid {
		return nil, errMarshalNull
	}
	return text, nil
}

// NullInt backs an optional Int field or argument. The zero value is null;
// toInt64 in scalar.go treats a !Valid NullInt as a serialization failure
// rather than coercing it to 0.
type NullInt struct {
	Int   int32
	Valid bool
}

// NullIntOf wraps i as a non-null NullInt.
func NullIntOf(i int32) NullInt { return NullInt{Int: i, Valid: true} }

// IsGraphQLNull returns !n.Valid.
func (n NullInt) IsGraphQLNull() bool {
	return !n.Valid
}

// String returns the decimal representation or "null".
func (n NullInt) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatInt(int64(n.Int), 10)
}

// MarshalText marshals the integer to a decimal representation. It returns an
// error if n.Valid is false.
func (n NullInt) MarshalText() ([]byte, error) {
	return marshalNullable(n.Valid, strconv.AppendInt(nil, int64(n.Int), 10))
}

// UnmarshalText unmarshals a decimal integer.
func (n *NullInt) UnmarshalText(text []byte) error {
	i, err := strconv.ParseInt(string(text), 10, 32)
	if err != nil {
		return xerrors.Errorf("unmarshal NullInt: %w", err)
	}
	*n = NullIntOf(int32(i))
	return nil
}

// NullFloat backs an optional Float field or argument; scalar.go's
// serializeFloatOutput unwraps it directly.
type NullFloat struct {
	Float float64
	Valid bool
}

// NullFloatOf wraps f as a non-null NullFloat.
func NullFloatOf(f float64) NullFloat { return NullFloat{Float: f, Valid: true} }

// IsGraphQLNull returns !n.Valid.
func (n NullFloat) IsGraphQLNull() bool {
	return !n.Valid
}

// String returns the decimal representation (using scientific notation for
// large exponents) or "null".
func (n NullFloat) String() string {
	if !n.Valid {
		return "null"
	}
	return strconv.FormatFloat(n.Float, 'g', -1, 64)
}

// MarshalText marshals the floating point number to a decimal representation
// (or scientific notation for large exponents). It returns an error if n.Valid
// is false.
func (n NullFloat) MarshalText() ([]byte, error) {
	return marshalNullable(n.Valid, strconv.AppendFloat(nil, n.Float, 'g', -1, 64))
}

// UnmarshalText unmarshals a floating point or integer literal.
func (n *NullFloat) UnmarshalText(text []byte) error {
	f, err := strconv.ParseFloat(string(text), 64)
	if err != nil {
		return xerrors.Errorf("unmarshal NullFloat: %w", err)
	}
	*n = NullFloatOf(f)
	return nil
}

// NullString backs an optional String field or argument; scalar.go's
// serializeStringOutput serializes it via this type's encoding.TextMarshaler
// implementation.
type NullString struct {
	S     string
	Valid bool
}

// NullStringOf wraps s as a non-null NullString.
func NullStringOf(s string) NullString { return NullString{S: s, Valid: true} }

// IsGraphQLNull returns !n.Valid.
func (n NullString) IsGraphQLNull() bool {
	return !n.Valid
}

// String returns n.S or "null".
func (n NullString) String() string {
	if !n.Valid {
		return "null"
	}
	return n.S
}

// MarshalText converts n.S to []byte. It returns an error if n.Valid is false.
func (n NullString) MarshalText() ([]byte, error) {
	return marshalNullable(n.Valid, []byte(n.S))
}

// UnmarshalText converts the byte slice to a string.
func (n *NullString) UnmarshalText(text []byte) error {
	*n = NullStringOf(string(text))
	return nil
}

// NullBoolean backs an optional Boolean field or argument; scalar.go's
// serializeBooleanOutput unwraps it directly.
type NullBoolean struct {
	Bool  bool
	Valid bool
}

// NullBooleanOf wraps b as a non-null NullBoolean.
func NullBooleanOf(b bool) NullBoolean { return NullBoolean{Bool: b, Valid: true} }

// IsGraphQLNull returns !n.Valid.
func (n NullBoolean) IsGraphQLNull() bool {
	return !n.Valid
}

// String returns "true", "false", or "null".
func (n NullBoolean) String() string {
	switch {
	case n.Valid && n.Bool:
		return "true"
	case n.Valid && !n.Bool:
		return "false"
	default:
		return "null"
	}
}

// MarshalText marshals the boolean to "true" or "false". It returns an error
// if n.Valid is false.
func (n NullBoolean) MarshalText() ([]byte, error) {
	return marshalNullable(n.Valid, []byte(strconv.FormatBool(n.Bool)))
}

// UnmarshalText unmarshals a "true" or "false" into the boolean.
func (n *NullBoolean) UnmarshalText(text []byte) error {
	switch string(text) {
	case "true":
		*n = NullBooleanOf(true)
	case "false":
		*n = NullBooleanOf(false)
	default:
		return xerrors.Errorf("unmarshal NullBoolean: invalid boolean %q", text)
	}
	return nil
}

var errMarshalNull = xerrors.New("marshal null")
