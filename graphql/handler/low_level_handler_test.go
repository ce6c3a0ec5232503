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

package handler_test

import (
	"context"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/graphql/executor"
	"github.com/roofs-runner/gql-apollo/graphql/handler"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LLHandler", func() {
	var (
		counter int64
		schema  *graphql.Schema
	)

	BeforeEach(func() {
		counter = 0
		schema = counterSchema(&counter)
	})

	newLLHandler := func(config handler.LLConfig) *handler.LLHandler {
		config.Schema = schema
		h, err := handler.NewLLHandler(&config)
		Expect(err).ShouldNot(HaveOccurred())
		return h
	}

	serve := func(h *handler.LLHandler, query string) *executor.ExecutionResult {
		operation, errs := h.Prepare(context.Background(), query, "")
		Expect(errs.HaveOccurred()).Should(BeFalse(), "%v", errs)
		return h.Serve(&handler.Request{
			Ctx:       context.Background(),
			Operation: operation,
		})
	}

	Describe("Prepare", func() {
		It("returns cached operation for the same query", func() {
			h := newLLHandler(handler.LLConfig{})
			Expect(h.OperationCache()).ShouldNot(BeNil())

			a, errs := h.Prepare(context.Background(), "{ count }", "")
			Expect(errs.HaveOccurred()).Should(BeFalse())
			b, errs := h.Prepare(context.Background(), "{ count }", "")
			Expect(errs.HaveOccurred()).Should(BeFalse())
			Expect(a).Should(BeIdenticalTo(b))
		})

		It("prepares each named operation of a document separately", func() {
			h := newLLHandler(handler.LLConfig{})
			query := "query A { count } query B { greeting }"

			a, errs := h.Prepare(context.Background(), query, "A")
			Expect(errs.HaveOccurred()).Should(BeFalse())
			b, errs := h.Prepare(context.Background(), query, "B")
			Expect(errs.HaveOccurred()).Should(BeFalse())

			Expect(a.Definition().Name).Should(Equal("A"))
			Expect(b.Definition().Name).Should(Equal("B"))
		})

		It("does not cache operations when NopOperationCache is given", func() {
			h := newLLHandler(handler.LLConfig{OperationCache: handler.NopOperationCache{}})
			Expect(h.OperationCache()).Should(BeNil())

			a, _ := h.Prepare(context.Background(), "{ count }", "")
			b, _ := h.Prepare(context.Background(), "{ count }", "")
			Expect(a).ShouldNot(BeIdenticalTo(b))
		})

		It("returns errors for invalid queries", func() {
			h := newLLHandler(handler.LLConfig{})
			operation, errs := h.Prepare(context.Background(), "{ count", "")
			Expect(operation).Should(BeNil())
			Expect(errs.HaveOccurred()).Should(BeTrue())
			Expect(errs.Errors[0].Kind).Should(Equal(graphql.ErrKindSyntax))
		})
	})

	Describe("Middlewares", func() {
		It("applies middlewares in order", func() {
			var order []int
			record := func(i int) handler.RequestMiddleware {
				return handler.RequestMiddlewareFunc(func(request *handler.Request, next *handler.RequestMiddlewareNext) {
					order = append(order, i)
					next.Next(request)
				})
			}

			h := newLLHandler(handler.LLConfig{
				Middlewares: []handler.RequestMiddleware{record(1), record(2), record(3)},
			})
			serve(h, "{ count }")
			Expect(order).Should(Equal([]int{1, 2, 3}))
		})

		It("sets root value and app context", func() {
			h := newLLHandler(handler.LLConfig{
				Middlewares: []handler.RequestMiddleware{
					handler.RootValueMiddleware("root"),
					handler.AppContextMiddleware("app"),
				},
			})

			result := serve(h, "{ context }")
			Expect(result.Errors.HaveOccurred()).Should(BeFalse())
			Expect(result.MarshalJSON()).Should(MatchJSON(`{ "data": { "context": "app" } }`))
		})

		It("returns the result given to NextResult without executing", func() {
			result := &executor.ExecutionResult{Errors: graphql.ErrorsOf("short-circuited")}
			h := newLLHandler(handler.LLConfig{
				Middlewares: []handler.RequestMiddleware{
					handler.RequestMiddlewareFunc(func(request *handler.Request, next *handler.RequestMiddlewareNext) {
						next.NextResult(result)
					}),
				},
			})

			Expect(serve(h, "mutation { increment(by: 1) }")).Should(BeIdenticalTo(result))
			Expect(counter).Should(BeZero())
		})

		It("panics if middleware returns without calling next", func() {
			h := newLLHandler(handler.LLConfig{
				Middlewares: []handler.RequestMiddleware{
					handler.RequestMiddlewareFunc(func(request *handler.Request, next *handler.RequestMiddlewareNext) {}),
				},
			})
			Expect(func() { serve(h, "{ count }") }).Should(Panic())
		})

		It("panics if Next is called twice", func() {
			h := newLLHandler(handler.LLConfig{
				Middlewares: []handler.RequestMiddleware{
					handler.RequestMiddlewareFunc(func(request *handler.Request, next *handler.RequestMiddlewareNext) {
						next.Next(request)
						next.Next(request)
					}),
				},
			})
			Expect(func() { serve(h, "{ count }") }).Should(Panic())
		})
	})
})

var _ = Describe("LRUOperationCache", func() {
	It("requires a positive size", func() {
		_, err := handler.NewLRUOperationCache(0)
		Expect(err).Should(HaveOccurred())
	})

	It("evicts the least recently used operation", func() {
		var counter int64
		schema := counterSchema(&counter)
		prepare := func(query string) *executor.PreparedOperation {
			return executor.MustPrepare(executor.PrepareParams{Schema: schema, Query: query})
		}

		ctx := context.Background()
		cache, err := handler.NewLRUOperationCache(2)
		Expect(err).ShouldNot(HaveOccurred())

		cache.Add(ctx, "a", prepare("{ count }"))
		cache.Add(ctx, "b", prepare("{ greeting }"))
		_, ok := cache.Get(ctx, "a")
		Expect(ok).Should(BeTrue())

		cache.Add(ctx, "c", prepare("{ fail }"))
		_, ok = cache.Get(ctx, "b")
		Expect(ok).Should(BeFalse())
		_, ok = cache.Get(ctx, "a")
		Expect(ok).Should(BeTrue())
		_, ok = cache.Get(ctx, "c")
		Expect(ok).Should(BeTrue())
	})

	It("keys named operations apart from the document", func() {
		Expect(handler.OperationCacheKey("{ a }", "")).Should(Equal("{ a }"))
		Expect(handler.OperationCacheKey("query A { a }", "A")).ShouldNot(
			Equal(handler.OperationCacheKey("query A { a }", "")))
	})
})
