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

package graphql_test

import (
	"encoding/json"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/vektah/gqlparser/v2/ast"
)

var _ = Describe("CoerceInputValue", func() {
	shapeType := ast.NamedType("Shape", nil)

	It("coerces null", func() {
		Expect(graphql.CoerceInputValue(testSchema, ast.NamedType("Int", nil), nil)).Should(BeNil())

		_, err := graphql.CoerceInputValue(testSchema, ast.NonNullNamedType("Int", nil), nil)
		Expect(err).Should(MatchCoercionError(`Expected non-nullable type "Int!" not to be null.`))
	})

	It("coerces lists", func() {
		listType := ast.ListType(ast.NamedType("Int", nil), nil)

		Expect(graphql.CoerceInputValue(testSchema, listType, []interface{}{1, json.Number("2"), nil})).
			Should(Equal([]interface{}{1, 2, nil}))

		// A single value is treated as a list of one.
		Expect(graphql.CoerceInputValue(testSchema, listType, 3)).Should(Equal([]interface{}{3}))

		_, err := graphql.CoerceInputValue(testSchema, listType, []interface{}{1, "two"})
		Expect(err).Should(MatchCoercionError(`In element #1: Int cannot represent "two": not an integer`))
	})

	It("coerces enum values by name", func() {
		colorType := ast.NamedType("Color", nil)
		Expect(graphql.CoerceInputValue(testSchema, colorType, "BLUE")).Should(Equal("BLUE"))

		_, err := graphql.CoerceInputValue(testSchema, colorType, "PINK")
		Expect(err).Should(MatchCoercionError(`Color cannot represent "PINK": not a value of the enum`))
	})

	It("coerces input objects and applies default values", func() {
		value, err := graphql.CoerceInputValue(testSchema, shapeType, map[string]interface{}{
			"points": []interface{}{
				map[string]interface{}{"x": 1},
				map[string]interface{}{"x": json.Number("2"), "y": 5, "label": "b"},
			},
		})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value).Should(Equal(map[string]interface{}{
			"color": "RED",
			"points": []interface{}{
				map[string]interface{}{"x": 1, "y": 0},
				map[string]interface{}{"x": 2, "y": 5, "label": "b"},
			},
		}))
	})

	It("reports unknown fields", func() {
		_, err := graphql.CoerceInputValue(testSchema, shapeType, map[string]interface{}{
			"points": []interface{}{},
			"sides":  3,
		})
		Expect(err).Should(MatchCoercionError(`Field "sides" is not defined by type "Shape".`))
	})

	It("reports missing required fields", func() {
		_, err := graphql.CoerceInputValue(testSchema, shapeType, map[string]interface{}{})
		Expect(err).Should(MatchCoercionError(`Field "Shape.points" of required type "[Point!]!" was not provided.`))

		_, err = graphql.CoerceInputValue(testSchema, shapeType, map[string]interface{}{
			"points": []interface{}{map[string]interface{}{"y": 1}},
		})
		Expect(err).Should(MatchCoercionError(
			`In field "points": In element #0: Field "Point.x" of required type "Int!" was not provided.`))
	})

	It("rejects values that are not objects for input objects", func() {
		_, err := graphql.CoerceInputValue(testSchema, shapeType, "shape")
		Expect(err).Should(MatchCoercionError(`Expected type "Shape" to be an object.`))
	})

	It("rejects output types", func() {
		_, err := graphql.CoerceInputValue(testSchema, ast.NamedType("Query", nil), map[string]interface{}{})
		Expect(err).Should(testutil.MatchGraphQLError(
			testutil.KindIs(graphql.ErrKindInternal),
		))
	})
})
