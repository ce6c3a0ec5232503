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
	"math"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
	"github.com/vektah/gqlparser/v2/ast"
)

func MatchCoercionError(message string) types.GomegaMatcher {
	return testutil.MatchGraphQLError(
		testutil.MessageEqual(message),
		testutil.KindIs(graphql.ErrKindCoercion),
	)
}

var _ = Describe("Scalars", func() {
	coerceResult := func(typeName string, value interface{}) (interface{}, error) {
		return graphql.CoerceResultValue(namedType(typeName), value)
	}

	Describe("Type System: Scalar coercion", func() {
		It("serializes output as Int", func() {
			Expect(coerceResult("Int", 1)).Should(Equal(1))
			Expect(coerceResult("Int", 123)).Should(Equal(123))
			Expect(coerceResult("Int", 0)).Should(Equal(0))
			Expect(coerceResult("Int", -1)).Should(Equal(-1))
			Expect(coerceResult("Int", int64(7))).Should(Equal(7))
			Expect(coerceResult("Int", uint8(7))).Should(Equal(7))
			Expect(coerceResult("Int", 1e5)).Should(Equal(100000))
			Expect(coerceResult("Int", false)).Should(Equal(0))
			Expect(coerceResult("Int", true)).Should(Equal(1))
			Expect(coerceResult("Int", "12")).Should(Equal(12))

			var err error
			// The GraphQL specification does not allow serializing non-integer values as Int to avoid
			// accidental data loss.
			_, err = coerceResult("Int", 0.1)
			Expect(err).Should(MatchCoercionError("Int cannot represent 0.1: not an integer"))

			_, err = coerceResult("Int", -1.1)
			Expect(err).Should(MatchCoercionError("Int cannot represent -1.1: not an integer"))

			_, err = coerceResult("Int", "-1.1")
			Expect(err).Should(MatchCoercionError("Int cannot represent \"-1.1\": not an integer"))

			_, err = coerceResult("Int", 9876504321)
			Expect(err).Should(MatchCoercionError("Int cannot represent 9876504321: value too large for 32-bit signed integer"))

			_, err = coerceResult("Int", -9876504321)
			Expect(err).Should(MatchCoercionError("Int cannot represent -9876504321: value too small for 32-bit signed integer"))

			_, err = coerceResult("Int", 1e100)
			Expect(err).Should(MatchCoercionError("Int cannot represent 1e+100: value too large for 32-bit signed integer"))

			_, err = coerceResult("Int", "one")
			Expect(err).Should(MatchCoercionError("Int cannot represent \"one\": not an integer"))

			_, err = coerceResult("Int", math.NaN())
			Expect(err).Should(MatchCoercionError("Int cannot represent NaN: not an integer"))

			_, err = coerceResult("Int", math.Inf(1))
			Expect(err).Should(MatchCoercionError("Int cannot represent +Inf: not an integer"))

			_, err = coerceResult("Int", []int{5})
			Expect(err).Should(MatchCoercionError("Int cannot represent [5]: not an integer"))
		})

		It("serializes output as Float", func() {
			Expect(coerceResult("Float", 1)).Should(Equal(1.0))
			Expect(coerceResult("Float", 0)).Should(Equal(0.0))
			Expect(coerceResult("Float", "123.5")).Should(Equal(123.5))
			Expect(coerceResult("Float", -1.1)).Should(Equal(-1.1))
			Expect(coerceResult("Float", float32(0.5))).Should(Equal(0.5))
			Expect(coerceResult("Float", true)).Should(Equal(1.0))

			var err error
			_, err = coerceResult("Float", math.NaN())
			Expect(err).Should(MatchCoercionError("Float cannot represent NaN: not a finite number"))

			_, err = coerceResult("Float", math.Inf(-1))
			Expect(err).Should(MatchCoercionError("Float cannot represent -Inf: not a finite number"))

			_, err = coerceResult("Float", "Inf")
			Expect(err).Should(MatchCoercionError("Float cannot represent \"Inf\": not a numeric value"))

			_, err = coerceResult("Float", "one")
			Expect(err).Should(MatchCoercionError("Float cannot represent \"one\": not a numeric value"))

			_, err = coerceResult("Float", []int{5})
			Expect(err).Should(MatchCoercionError("Float cannot represent [5]: not a numeric value"))
		})

		It("serializes output as String", func() {
			Expect(coerceResult("String", "string")).Should(Equal("string"))
			Expect(coerceResult("String", 1)).Should(Equal("1"))
			Expect(coerceResult("String", uint(100))).Should(Equal("100"))
			Expect(coerceResult("String", -1.1)).Should(Equal("-1.1"))
			Expect(coerceResult("String", true)).Should(Equal("true"))
			Expect(coerceResult("String", false)).Should(Equal("false"))

			_, err := coerceResult("String", []int{5})
			Expect(err).Should(MatchCoercionError("String cannot represent [5]: not a string value"))
		})

		It("serializes output as Boolean", func() {
			Expect(coerceResult("Boolean", 100)).Should(Equal(true))
			Expect(coerceResult("Boolean", 0)).Should(Equal(false))
			Expect(coerceResult("Boolean", uint(1))).Should(Equal(true))
			Expect(coerceResult("Boolean", 0.0)).Should(Equal(false))
			Expect(coerceResult("Boolean", true)).Should(Equal(true))
			Expect(coerceResult("Boolean", false)).Should(Equal(false))

			var err error
			_, err = coerceResult("Boolean", "true")
			Expect(err).Should(MatchCoercionError("Boolean cannot represent \"true\": not a boolean value"))

			_, err = coerceResult("Boolean", struct{}{})
			Expect(err).Should(MatchCoercionError("Boolean cannot represent {}: not a boolean value"))
		})

		It("serializes output as ID", func() {
			Expect(coerceResult("ID", "string")).Should(Equal("string"))
			Expect(coerceResult("ID", "")).Should(Equal(""))
			Expect(coerceResult("ID", 123)).Should(Equal("123"))
			Expect(coerceResult("ID", -1)).Should(Equal("-1"))
			Expect(coerceResult("ID", 3.0)).Should(Equal("3"))

			var err error
			_, err = coerceResult("ID", true)
			Expect(err).Should(MatchCoercionError("ID cannot represent true: not a string or an integer"))

			_, err = coerceResult("ID", 3.14)
			Expect(err).Should(MatchCoercionError("ID cannot represent 3.14: not a string or an integer"))
		})

		It("serializes output as enum", func() {
			Expect(coerceResult("Color", "RED")).Should(Equal("RED"))

			_, err := coerceResult("Color", "PURPLE")
			Expect(err).Should(MatchCoercionError("Color cannot represent \"PURPLE\": not a value of the enum"))

			_, err = coerceResult("Color", 1)
			Expect(err).Should(MatchCoercionError("Color cannot represent 1: enum values must be given as names"))
		})

		It("passes values of custom scalars through", func() {
			value := map[string]interface{}{"at": "noon"}
			Expect(coerceResult("Time", value)).Should(Equal(value))
		})

		It("rejects types that are not leaf types", func() {
			_, err := coerceResult("Point", 1)
			Expect(err).Should(testutil.MatchGraphQLError(
				testutil.KindIs(graphql.ErrKindInternal),
			))
		})
	})

	Describe("Type System: Input coercion of scalars", func() {
		coerceInput := func(typeName string, value interface{}) (interface{}, error) {
			return graphql.CoerceInputValue(testSchema, ast.NamedType(typeName, nil), value)
		}

		It("accepts only integers for Int", func() {
			Expect(coerceInput("Int", 1)).Should(Equal(1))
			Expect(coerceInput("Int", int64(1))).Should(Equal(1))
			Expect(coerceInput("Int", json.Number("42"))).Should(Equal(42))

			_, err := coerceInput("Int", "1")
			Expect(err).Should(MatchCoercionError("Int cannot represent \"1\": not an integer"))

			_, err = coerceInput("Int", true)
			Expect(err).Should(MatchCoercionError("Int cannot represent true: not an integer"))

			_, err = coerceInput("Int", json.Number("1.5"))
			Expect(err).Should(MatchCoercionError("Int cannot represent 1.5: not an integer"))
		})

		It("accepts numbers for Float", func() {
			Expect(coerceInput("Float", 1)).Should(Equal(1.0))
			Expect(coerceInput("Float", json.Number("1.5"))).Should(Equal(1.5))

			_, err := coerceInput("Float", "1.5")
			Expect(err).Should(MatchCoercionError("Float cannot represent \"1.5\": not a numeric value"))
		})

		It("accepts only strings for String", func() {
			Expect(coerceInput("String", "abc")).Should(Equal("abc"))

			_, err := coerceInput("String", json.Number("1"))
			Expect(err).Should(MatchCoercionError("String cannot represent 1: not a string value"))

			_, err = coerceInput("String", 1)
			Expect(err).Should(MatchCoercionError("String cannot represent 1: not a string value"))
		})

		It("accepts strings and integers for ID", func() {
			Expect(coerceInput("ID", "abc")).Should(Equal("abc"))
			Expect(coerceInput("ID", 12)).Should(Equal("12"))
			Expect(coerceInput("ID", json.Number("12"))).Should(Equal("12"))

			_, err := coerceInput("ID", json.Number("1.5"))
			Expect(err).Should(MatchCoercionError("ID cannot represent 1.5: not a string or an integer"))
		})

		It("accepts only booleans for Boolean", func() {
			Expect(coerceInput("Boolean", true)).Should(Equal(true))

			_, err := coerceInput("Boolean", 1)
			Expect(err).Should(MatchCoercionError("Boolean cannot represent 1: not a boolean value"))
		})
	})
})
