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
	"fmt"
	"reflect"
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// CoerceInputValue coerces a value given in a field argument or a variable into the internal value
// of the input type t. The value may come from a literal in the query document or from decoded
// JSON variables. Lists are returned as []interface{} and input objects as map[string]interface{}
// with defaults applied for the omitted fields.
//
// Reference: https://spec.graphql.org/June2018/#sec-Input-Values
func CoerceInputValue(schema *Schema, t *ast.Type, value interface{}) (interface{}, error) {
	if value == nil {
		if t.NonNull {
			return nil, NewError(
				fmt.Sprintf(`Expected non-nullable type "%s" not to be null.`, t.String()),
				ErrKindCoercion)
		}
		return nil, nil
	}

	if t.Elem != nil {
		return coerceListInput(schema, t, value)
	}

	def := schema.Type(t.NamedType)
	if def == nil {
		return nil, NewError(fmt.Sprintf(`Unknown type "%s".`, t.NamedType), ErrKindInternal)
	}

	switch def.Kind {
	case ast.Scalar:
		return coerceScalar(def, value, inputCoercion)
	case ast.Enum:
		return coerceEnum(def, value, inputCoercion)
	case ast.InputObject:
		return coerceInputObject(schema, def, value)
	}

	return nil, NewError(fmt.Sprintf(`"%s" is not an input type.`, def.Name), ErrKindInternal)
}

func coerceListInput(schema *Schema, t *ast.Type, value interface{}) (interface{}, error) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		// A single item is accepted in place of a list with one item.
		item, err := CoerceInputValue(schema, t.Elem, value)
		if err != nil {
			return nil, err
		}
		return []interface{}{item}, nil
	}

	items := make([]interface{}, v.Len())
	for i := range items {
		item, err := CoerceInputValue(schema, t.Elem, v.Index(i).Interface())
		if err != nil {
			return nil, NewError(fmt.Sprintf("In element #%d: %s", i, errorMessage(err)), ErrKindCoercion, err)
		}
		items[i] = item
	}
	return items, nil
}

func coerceInputObject(schema *Schema, def *ast.Definition, value interface{}) (interface{}, error) {
	fields, ok := value.(map[string]interface{})
	if !ok {
		return nil, NewError(
			fmt.Sprintf(`Expected type "%s" to be an object.`, def.Name),
			ErrKindCoercion)
	}

	// Report unknown fields in a stable order.
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if def.Fields.ForName(name) == nil {
			return nil, NewError(
				fmt.Sprintf(`Field "%s" is not defined by type "%s".`, name, def.Name),
				ErrKindCoercion)
		}
	}

	result := make(map[string]interface{}, len(def.Fields))
	for _, field := range def.Fields {
		fieldValue, ok := fields[field.Name]
		if !ok {
			if field.DefaultValue != nil {
				defaultValue, err := field.DefaultValue.Value(nil)
				if err != nil {
					return nil, NewError(
						fmt.Sprintf(`Invalid default value for field "%s.%s".`, def.Name, field.Name),
						ErrKindInternal, err)
				}
				fieldValue = defaultValue
			} else if field.Type.NonNull {
				return nil, NewError(
					fmt.Sprintf(`Field "%s.%s" of required type "%s" was not provided.`,
						def.Name, field.Name, field.Type.String()),
					ErrKindCoercion)
			} else {
				continue
			}
		}

		coerced, err := CoerceInputValue(schema, field.Type, fieldValue)
		if err != nil {
			return nil, NewError(
				fmt.Sprintf(`In field "%s": %s`, field.Name, errorMessage(err)),
				ErrKindCoercion, err)
		}
		result[field.Name] = coerced
	}

	return result, nil
}

func errorMessage(err error) string {
	if e, ok := err.(*Error); ok {
		return e.Message
	}
	return err.Error()
}
