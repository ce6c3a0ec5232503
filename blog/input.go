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

package blog

import (
	"fmt"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/store"
)

// inputObject wraps the value of an input object argument which has been coerced by the executor.
// Required fields are always present with values of the expected types.
type inputObject struct {
	typeName string
	fields   map[string]interface{}
}

func newInputObject(typeName string, value interface{}) (*inputObject, error) {
	fields, ok := value.(map[string]interface{})
	if !ok {
		return nil, graphql.NewError(
			fmt.Sprintf(`Expected value of "%s" to be an object but got %T.`, typeName, value),
			graphql.ErrKindInternal)
	}
	return &inputObject{typeName, fields}, nil
}

func (input *inputObject) fieldError(name string, expected string) error {
	return graphql.NewError(
		fmt.Sprintf(`Expected "%s.%s" to be a %s but got %T.`,
			input.typeName, name, expected, input.fields[name]),
		graphql.ErrKindInternal)
}

func (input *inputObject) String(name string) (string, error) {
	s, ok := input.fields[name].(string)
	if !ok {
		return "", input.fieldError(name, "string")
	}
	return s, nil
}

func (input *inputObject) Bool(name string) (bool, error) {
	b, ok := input.fields[name].(bool)
	if !ok {
		return false, input.fieldError(name, "boolean")
	}
	return b, nil
}

// OptionalInt returns nil if the field is absent or null.
func (input *inputObject) OptionalInt(name string) (*int, error) {
	value := input.fields[name]
	if value == nil {
		return nil, nil
	}
	n, ok := value.(int)
	if !ok {
		return nil, input.fieldError(name, "integer")
	}
	return &n, nil
}

func decodeCreateUserInput(value interface{}) (store.CreateUserInput, error) {
	var (
		result store.CreateUserInput
		err    error
	)

	input, err := newInputObject("CreateUserInput", value)
	if err != nil {
		return result, err
	}
	if result.Name, err = input.String("name"); err != nil {
		return result, err
	}
	if result.Email, err = input.String("email"); err != nil {
		return result, err
	}
	if result.Age, err = input.OptionalInt("age"); err != nil {
		return result, err
	}
	return result, nil
}

func decodeCreatePostInput(value interface{}) (store.CreatePostInput, error) {
	var (
		result store.CreatePostInput
		err    error
	)

	input, err := newInputObject("CreatePostInput", value)
	if err != nil {
		return result, err
	}
	if result.Title, err = input.String("title"); err != nil {
		return result, err
	}
	if result.Body, err = input.String("body"); err != nil {
		return result, err
	}
	if result.Published, err = input.Bool("published"); err != nil {
		return result, err
	}
	if result.Author, err = input.String("author"); err != nil {
		return result, err
	}
	return result, nil
}

func decodeCreateCommentInput(value interface{}) (store.CreateCommentInput, error) {
	var (
		result store.CreateCommentInput
		err    error
	)

	input, err := newInputObject("CreateCommentInput", value)
	if err != nil {
		return result, err
	}
	if result.Text, err = input.String("text"); err != nil {
		return result, err
	}
	if result.Author, err = input.String("author"); err != nil {
		return result, err
	}
	if result.Post, err = input.String("post"); err != nil {
		return result, err
	}
	return result, nil
}
