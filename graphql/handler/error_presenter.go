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

package handler

import (
	"net/http"
	"strings"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/graphql/executor"
)

// ErrorPresenter presents an error to a http.ResponseWriter.
type ErrorPresenter interface {
	// Write sends the given error to w.
	Write(w http.ResponseWriter, r *http.Request, err error)
}

// Errors by DefaultRequestBuilder.Build

// ErrEmptyQuery describes an error when an empty query is not allowed.
type ErrEmptyQuery struct {
	Request *http.Request
}

// Error implements Go's error interface.
func (err ErrEmptyQuery) Error() string {
	return "empty query"
}

// ErrPrepare indicates a failure in prepare a PreparedOperation for execution for a query. It
// includes syntax errors and validation errors in the query.
type ErrPrepare struct {
	Request       *http.Request
	ParsedRequest *HTTPRequest
	Errs          graphql.Errors
}

// Error implements Go's error interface.
func (err *ErrPrepare) Error() string {
	var buf strings.Builder
	buf.WriteString("cannot prepare executable operation for query because of following error(s):")
	for _, e := range err.Errs.Errors {
		buf.WriteString("\n\t")
		buf.WriteString(e.Error())
	}
	return buf.String()
}

// DefaultErrorPresenter implements an ErrorPresenter which is default used by HTTP handler when no
// error presenter is provided.
type DefaultErrorPresenter struct {
	// ResultPresenter is used to present ErrPrepare.Errs in an ExecutionResult.
	ResultPresenter ResultPresenter
}

// Write implements ErrorPresenter.
func (presenter DefaultErrorPresenter) Write(w http.ResponseWriter, r *http.Request, err error) {
	switch err := err.(type) {
	case ErrEmptyQuery:
		presenter.writeErrors(w, r, graphql.ErrorsOf("Must provide query string."))

	case *HTTPRequestParseError:
		if err.Err == ErrRequestBodyTooLarge {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		presenter.writeErrors(w, r, graphql.ErrorsOf(err.Error()))

	case *ErrPrepare:
		presenter.writeErrors(w, r, err.Errs)

	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (presenter DefaultErrorPresenter) writeErrors(w http.ResponseWriter, r *http.Request, errs graphql.Errors) {
	presenter.ResultPresenter.Write(w, r, nil, &executor.ExecutionResult{
		Errors: errs,
	})
}
