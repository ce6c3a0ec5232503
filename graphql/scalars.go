/**
 * Copyright (c) 2019, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package graphql

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/vektah/gqlparser/v2/ast"
)

// The "type of internal value" for each built-in scalar are listed as follows,
//
// +--------------+---------------------------------+
// | GraphQL Type | Go Type ("internal value type") |
// +--------------+---------------------------------+
// | Int          | int                             |
// | Float        | float64                         |
// | String       | string                          |
// | Boolean      | bool                            |
// | ID           | string                          |
// +--------------+---------------------------------+
//
// That is, argument values received by resolvers (see CoerceInputValue) are of the type given in
// the table. For example, when you receive an Int argument, you can expect you got an "int" not
// int32 or others. Values of custom scalars are passed through unchanged.

// Reasons for the error when coercing built-in scalar types
const (
	coercionErrorNonInteger        = "not an integer"
	coercionErrorIntegerTooLarge   = "value too large for 32-bit signed integer"
	coercionErrorIntegerTooSmall   = "value too small for 32-bit signed integer"
	coercionErrorNonNumeric        = "not a numeric value"
	coercionErrorNonFinite         = "not a finite number"
	coercionErrorNonBoolean        = "not a boolean value"
	coercionErrorNonString         = "not a string value"
	coercionErrorInvalidID         = "not a string or an integer"
	coercionErrorInvalidEnumValue  = "not a value of the enum"
	coercionErrorNonEnumValueInput = "enum values must be given as names"
)

// A coercionMode says which direction a value is being coerced. Input coercion is strict and only
// accepts the representation defined for the type. Result coercion accepts more Go values.
type coercionMode bool

const (
	inputCoercion  coercionMode = true
	resultCoercion coercionMode = false
)

func newCoercionError(typeName string, value interface{}, reason string) error {
	if s, ok := value.(string); ok {
		value = strconv.Quote(s)
	}
	return NewError(fmt.Sprintf("%s cannot represent %v: %s", typeName, value, reason), ErrKindCoercion)
}

// CoerceResultValue serializes a value resolved for a leaf type (a scalar or an enum) into a value
// that can be written to the response.
//
// Reference: https://spec.graphql.org/June2018/#sec-Scalars
func CoerceResultValue(t *ast.Definition, value interface{}) (interface{}, error) {
	switch t.Kind {
	case ast.Scalar:
		return coerceScalar(t, value, resultCoercion)
	case ast.Enum:
		return coerceEnum(t, value, resultCoercion)
	}
	return nil, NewError(fmt.Sprintf(`"%s" is not a leaf type.`, t.Name), ErrKindInternal)
}

func coerceScalar(t *ast.Definition, value interface{}, mode coercionMode) (interface{}, error) {
	switch t.Name {
	case "Int":
		return coerceInt(value, mode)
	case "Float":
		return coerceFloat(value, mode)
	case "String":
		return coerceString(value, mode)
	case "Boolean":
		return coerceBoolean(value, mode)
	case "ID":
		return coerceID(value, mode)
	}
	return value, nil
}

//===-----------------------------------------------------------------------------------------===//
// Int
//===-----------------------------------------------------------------------------------------===//
// The Int scalar type represents a signed 32‐bit numeric non‐fractional value.
//
// Reference: https://spec.graphql.org/June2018/#sec-Int

func coerceInt(value interface{}, mode coercionMode) (interface{}, error) {
	if n, ok := value.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return intFromInt64(value, i)
		}
		f, err := n.Float64()
		if err != nil {
			return nil, newCoercionError("Int", value, coercionErrorNonInteger)
		}
		return intFromFloat64(value, f)
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intFromInt64(value, v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > uint64(math.MaxInt32) {
			return nil, newCoercionError("Int", value, coercionErrorIntegerTooLarge)
		}
		return int(v.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return intFromFloat64(value, v.Float())

	case reflect.Bool:
		if mode == resultCoercion {
			if v.Bool() {
				return 1, nil
			}
			return 0, nil
		}

	case reflect.String:
		if mode == resultCoercion {
			f, err := strconv.ParseFloat(v.String(), 64)
			if err != nil {
				return nil, newCoercionError("Int", value, coercionErrorNonInteger)
			}
			return intFromFloat64(value, f)
		}
	}

	return nil, newCoercionError("Int", value, coercionErrorNonInteger)
}

func intFromInt64(value interface{}, i int64) (interface{}, error) {
	if i > math.MaxInt32 {
		return nil, newCoercionError("Int", value, coercionErrorIntegerTooLarge)
	} else if i < math.MinInt32 {
		return nil, newCoercionError("Int", value, coercionErrorIntegerTooSmall)
	}
	return int(i), nil
}

func intFromFloat64(value interface{}, f float64) (interface{}, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, newCoercionError("Int", value, coercionErrorNonInteger)
	}
	if f > math.MaxInt32 {
		return nil, newCoercionError("Int", value, coercionErrorIntegerTooLarge)
	} else if f < math.MinInt32 {
		return nil, newCoercionError("Int", value, coercionErrorIntegerTooSmall)
	}
	return int(f), nil
}

//===-----------------------------------------------------------------------------------------===//
// Float
//===-----------------------------------------------------------------------------------------===//
// The Float scalar type represents signed double‐precision fractional values as specified by IEEE
// 754.
//
// Reference: https://spec.graphql.org/June2018/#sec-Float

func coerceFloat(value interface{}, mode coercionMode) (interface{}, error) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return nil, newCoercionError("Float", value, coercionErrorNonNumeric)
		}
		return f, nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), nil

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newCoercionError("Float", value, coercionErrorNonFinite)
		}
		return f, nil

	case reflect.Bool:
		if mode == resultCoercion {
			if v.Bool() {
				return 1.0, nil
			}
			return 0.0, nil
		}

	case reflect.String:
		if mode == resultCoercion {
			f, err := strconv.ParseFloat(v.String(), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, newCoercionError("Float", value, coercionErrorNonNumeric)
			}
			return f, nil
		}
	}

	return nil, newCoercionError("Float", value, coercionErrorNonNumeric)
}

//===-----------------------------------------------------------------------------------------===//
// String
//===-----------------------------------------------------------------------------------------===//
// The String scalar type represents textual data, represented as UTF‐8 character sequences.
//
// Reference: https://spec.graphql.org/June2018/#sec-String

func coerceString(value interface{}, mode coercionMode) (interface{}, error) {
	if _, ok := value.(json.Number); ok && mode == inputCoercion {
		return nil, newCoercionError("String", value, coercionErrorNonString)
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.String {
		return v.String(), nil
	}

	if mode == resultCoercion {
		if s, ok := value.(fmt.Stringer); ok {
			return s.String(), nil
		}

		switch v.Kind() {
		case reflect.Bool:
			return strconv.FormatBool(v.Bool()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.FormatInt(v.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return strconv.FormatUint(v.Uint(), 10), nil
		case reflect.Float32, reflect.Float64:
			return strconv.FormatFloat(v.Float(), 'g', -1, 64), nil
		}
	}

	return nil, newCoercionError("String", value, coercionErrorNonString)
}

//===-----------------------------------------------------------------------------------------===//
// Boolean
//===-----------------------------------------------------------------------------------------===//
// The Boolean scalar type represents true or false.
//
// Reference: https://spec.graphql.org/June2018/#sec-Boolean

func coerceBoolean(value interface{}, mode coercionMode) (interface{}, error) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if mode == resultCoercion {
			return v.Int() != 0, nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if mode == resultCoercion {
			return v.Uint() != 0, nil
		}

	case reflect.Float32, reflect.Float64:
		if mode == resultCoercion {
			return v.Float() != 0, nil
		}
	}

	return nil, newCoercionError("Boolean", value, coercionErrorNonBoolean)
}

//===-----------------------------------------------------------------------------------------===//
// ID
//===-----------------------------------------------------------------------------------------===//
// The ID scalar type represents a unique identifier. It is serialized in the same way as a String
// but integers are also accepted.
//
// Reference: https://spec.graphql.org/June2018/#sec-ID

func coerceID(value interface{}, mode coercionMode) (interface{}, error) {
	if n, ok := value.(json.Number); ok {
		if _, err := n.Int64(); err != nil {
			return nil, newCoercionError("ID", value, coercionErrorInvalidID)
		}
		return n.String(), nil
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), nil

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'f', 0, 64), nil
		}
	}

	if mode == resultCoercion {
		if s, ok := value.(fmt.Stringer); ok {
			return s.String(), nil
		}
	}

	return nil, newCoercionError("ID", value, coercionErrorInvalidID)
}

//===-----------------------------------------------------------------------------------------===//
// Enum
//===-----------------------------------------------------------------------------------------===//
// Enum values are represented by their names in both directions.
//
// Reference: https://spec.graphql.org/June2018/#sec-Enums

func coerceEnum(t *ast.Definition, value interface{}, mode coercionMode) (interface{}, error) {
	var name string
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.String {
		name = v.String()
	} else if s, ok := value.(fmt.Stringer); ok && mode == resultCoercion {
		name = s.String()
	} else {
		return nil, newCoercionError(t.Name, value, coercionErrorNonEnumValueInput)
	}

	if t.EnumValues.ForName(name) == nil {
		return nil, newCoercionError(t.Name, value, coercionErrorInvalidEnumValue)
	}
	return name, nil
}
