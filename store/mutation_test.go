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

package store_test

import (
	"fmt"
	"sync"

	"github.com/roofs-runner/gql-apollo/internal/testutil"
	"github.com/roofs-runner/gql-apollo/store"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store: mutations", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New(
			store.WithSeed(store.DefaultSeed()),
			store.WithIDGenerator(store.SequenceIDGenerator("new-")),
		)
	})

	Describe("CreateUser", func() {
		It("creates a user with a generated id", func() {
			user, err := s.CreateUser(store.CreateUserInput{
				Name:  "N",
				Email: "n@example.com",
				Age:   intPtr(1),
			})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(user).Should(Equal(store.User{
				ID:    "new-1",
				Name:  "N",
				Email: "n@example.com",
				Age:   intPtr(1),
			}))

			Expect(s.ListUsers("")).Should(ContainElement(user))
		})

		It("keeps fields verbatim", func() {
			user, err := s.CreateUser(store.CreateUserInput{Name: "  Spaced ", Email: "MiXeD@Example.com"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(user.Name).Should(Equal("  Spaced "))
			Expect(user.Email).Should(Equal("MiXeD@Example.com"))
			Expect(user.Age).Should(BeNil())
		})

		It("rejects an email used by the seed users", func() {
			before := s.Snapshot()

			_, err := s.CreateUser(store.CreateUserInput{Name: "N", Email: "dddd@cdc.com", Age: intPtr(1)})
			Expect(err).Should(testutil.MatchStoreError(
				testutil.OpIs(store.OpCreateUser),
				testutil.StoreKindIs(store.ErrKindConstraintViolation),
				testutil.MessageEqual("email already taken"),
			))
			Expect(store.IsConstraintViolation(err)).Should(BeTrue())
			Expect(s.Snapshot()).Should(Equal(before))
		})

		It("compares emails exactly", func() {
			_, err := s.CreateUser(store.CreateUserInput{Name: "N", Email: "DDDD@cdc.com"})
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("regenerates ids that are taken", func() {
			ids := []string{"123xcx", "123sas", "fresh"}
			s := store.New(
				store.WithSeed(store.DefaultSeed()),
				store.WithIDGenerator(store.IDGeneratorFunc(func() string {
					id := ids[0]
					ids = ids[1:]
					return id
				})),
			)

			user, err := s.CreateUser(store.CreateUserInput{Name: "N", Email: "n@example.com"})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(user.ID).Should(Equal("fresh"))
		})

		It("gives up when the generator keeps returning taken ids", func() {
			s := store.New(
				store.WithSeed(store.DefaultSeed()),
				store.WithIDGenerator(store.IDGeneratorFunc(func() string { return "123xcx" })),
			)

			_, err := s.CreateUser(store.CreateUserInput{Name: "N", Email: "n@example.com"})
			Expect(err).Should(testutil.MatchStoreError(testutil.StoreKindIs(store.ErrKindInternal)))
			Expect(s.ListUsers("")).Should(HaveLen(3))
		})

		It("admits only one of concurrent users with the same email", func() {
			const n = 32

			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				succeeded int
				violated  int
			)
			wg.Add(n)
			for i := 0; i < n; i++ {
				go func(i int) {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := s.CreateUser(store.CreateUserInput{
						Name:  fmt.Sprintf("racer %d", i),
						Email: "race@example.com",
					})

					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						succeeded++
					} else {
						Expect(store.IsConstraintViolation(err)).Should(BeTrue())
						violated++
					}
				}(i)
			}
			wg.Wait()

			Expect(succeeded).Should(Equal(1))
			Expect(violated).Should(Equal(n - 1))
			Expect(s.ListUsers("racer")).Should(HaveLen(1))
		})
	})

	Describe("DeleteUser", func() {
		It("removes and returns the user", func() {
			user, err := s.DeleteUser("123sas")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(user.Name).Should(Equal("Some user 2"))

			users := s.ListUsers("")
			Expect(users).Should(HaveLen(2))
			Expect(users).ShouldNot(ContainElement(user))
		})

		It("fails with not found for an unknown id and changes nothing", func() {
			before := s.ListUsers("")

			_, err := s.DeleteUser("nobody")
			Expect(err).Should(testutil.MatchStoreError(
				testutil.OpIs(store.OpDeleteUser),
				testutil.StoreKindIs(store.ErrKindNotFound),
				testutil.MessageEqual("user not found"),
			))
			Expect(s.ListUsers("")).Should(Equal(before))
		})

		It("leaves posts and comments of the user", func() {
			_, err := s.DeleteUser("123sas")
			Expect(err).ShouldNot(HaveOccurred())

			Expect(s.ListPosts("")).Should(HaveLen(4))
			Expect(s.ListComments()).Should(HaveLen(3))
		})
	})

	Describe("CreatePost", func() {
		It("creates a post of an existing user", func() {
			post, err := s.CreatePost(store.CreatePostInput{
				Title:     "t",
				Body:      "b",
				Published: true,
				Author:    "1sdcsdc",
			})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(post.ID).Should(Equal("new-1"))

			author, err := s.UserByID("1sdcsdc")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(s.UserPosts(author)).Should(ContainElement(post))

			resolved, err := s.PostAuthor(post)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(resolved).Should(Equal(author))
		})

		It("fails with not found for an unknown author", func() {
			_, err := s.CreatePost(store.CreatePostInput{Title: "t", Body: "b", Author: "nobody"})
			Expect(err).Should(testutil.MatchStoreError(
				testutil.OpIs(store.OpCreatePost),
				testutil.StoreKindIs(store.ErrKindNotFound),
				testutil.MessageEqual("user not found"),
			))
			Expect(s.ListPosts("")).Should(HaveLen(4))
		})
	})

	Describe("CreateComment", func() {
		It("creates a comment on a published post", func() {
			comment, err := s.CreateComment(store.CreateCommentInput{
				Text:   "nice",
				Author: "123sas",
				Post:   "1",
			})
			Expect(err).ShouldNot(HaveOccurred())
			Expect(comment).Should(Equal(store.Comment{
				ID:     "new-1",
				Text:   "nice",
				Author: "123sas",
				Post:   "1",
			}))

			post, _ := s.PostByID("1")
			Expect(s.PostComments(post)).Should(ConsistOf(comment))
		})

		It("rejects a comment on an unpublished post by an existing user", func() {
			_, err := s.CreateComment(store.CreateCommentInput{Text: "x", Author: "123xcx", Post: "2"})
			Expect(err).Should(testutil.MatchStoreError(
				testutil.OpIs(store.OpCreateComment),
				testutil.StoreKindIs(store.ErrKindValidation),
				testutil.MessageEqual("no matching user and published post"),
			))
			Expect(s.ListComments()).Should(HaveLen(3))
		})

		It("reports a missing user and a missing post alike", func() {
			_, errUser := s.CreateComment(store.CreateCommentInput{Text: "x", Author: "nobody", Post: "1"})
			_, errPost := s.CreateComment(store.CreateCommentInput{Text: "x", Author: "123xcx", Post: "404"})

			Expect(store.IsValidation(errUser)).Should(BeTrue())
			Expect(store.IsValidation(errPost)).Should(BeTrue())
			Expect(errUser.Error()).Should(Equal(errPost.Error()))
		})
	})
})
