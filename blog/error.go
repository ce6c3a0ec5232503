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
	"errors"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/store"
)

// Values of "code" in the extensions of errors raised by the store
const (
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// presentStoreError turns a store.Error into a graphql.Error that carries the message of the
// store error and a "code" in extensions. Other errors are returned as is.
func presentStoreError(err error) error {
	var e *store.Error
	if !errors.As(err, &e) {
		return err
	}

	var code string
	switch e.Kind {
	case store.ErrKindConstraintViolation:
		code = CodeConstraintViolation
	case store.ErrKindNotFound:
		code = CodeNotFound
	case store.ErrKindValidation:
		code = CodeValidation
	default:
		code = CodeInternal
	}

	return graphql.NewError(e.Message, graphql.ErrKindExecution, graphql.ErrorExtensions{
		"code": code,
	}, err)
}
