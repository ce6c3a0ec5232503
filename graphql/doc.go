/**
 * Copyright (c) 2018, The Artemis Authors.
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

// Package graphql provides the type system layer for serving GraphQL queries. A Schema is loaded
// from type definitions written in the GraphQL schema definition language and bound with field
// resolvers, so the shape of the API lives in one SDL document while the data access lives in Go.
//
// Schema Binding
//
// Resolvers are given per object type and per field in a ResolverMap. Fields without a resolver
// are resolved by the default field resolver of the executor which reads struct fields, map
// entries and methods from the parent value. NewSchema rejects resolvers for types or fields that
// are not declared.
//
// Values
//
// Argument values received by resolvers have passed input coercion (see CoerceInputValue). Values
// returned by resolvers for leaf types pass result coercion (see CoerceResultValue) before they are
// written to the response.
//
// Errors
//
// Error carries the message, locations, path and extensions that are written in the "errors" entry
// of a response, along with an Op and an ErrKind for use by the program.
package graphql
