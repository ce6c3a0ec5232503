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

package util_test

import (
	"github.com/roofs-runner/gql-apollo/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("OrList", func() {
	DescribeTable("joins items with a final or",
		func(items []string, quoted bool, expected string) {
			Expect(util.OrList(items, 5, quoted)).Should(Equal(expected))
		},
		Entry("nil", nil, false, ""),
		Entry("empty", []string{}, false, ""),
		Entry("one item", []string{"users"}, false, "users"),
		Entry("one quoted item", []string{"users"}, true, `"users"`),
		Entry("two items", []string{"users", "posts"}, false, "users or posts"),
		Entry("two quoted items", []string{"users", "posts"}, true, `"users" or "posts"`),
		Entry("three items", []string{"users", "posts", "me"}, false, "users, posts, or me"),
		Entry("more than the limit", []string{"a", "b", "c", "d", "e", "f"}, true, `"a", "b", "c", "d", or "e"`),
	)

	It("uses every item when limit is not positive", func() {
		Expect(util.OrList([]string{"a", "b", "c", "d", "e", "f"}, 0, false)).Should(Equal("a, b, c, d, e, or f"))
	})
})
