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
	"github.com/roofs-runner/gql-apollo/internal/testutil"
	"github.com/roofs-runner/gql-apollo/store"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store: queries", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New(store.WithSeed(store.DefaultSeed()))
	})

	userIDs := func(users []store.User) []string {
		ids := make([]string, len(users))
		for i, user := range users {
			ids[i] = user.ID
		}
		return ids
	}

	postIDs := func(posts []store.Post) []string {
		ids := make([]string, len(posts))
		for i, post := range posts {
			ids[i] = post.ID
		}
		return ids
	}

	commentIDs := func(comments []store.Comment) []string {
		ids := make([]string, len(comments))
		for i, comment := range comments {
			ids[i] = comment.ID
		}
		return ids
	}

	Describe("ListUsers", func() {
		It("returns all users in insertion order without filter", func() {
			Expect(userIDs(s.ListUsers(""))).Should(Equal([]string{"123xcx", "123sas", "1sdcsdc"}))
		})

		table.DescribeTable("filters users by name ignoring case",
			func(filter string, expected []string) {
				Expect(userIDs(s.ListUsers(filter))).Should(Equal(expected))
			},
			table.Entry("exact", "Some user 2", []string{"123sas"}),
			table.Entry("upper case filter", "SOME USER", []string{"123xcx", "123sas", "1sdcsdc"}),
			table.Entry("lower case filter", "user 3", []string{"1sdcsdc"}),
			table.Entry("no match", "nobody", []string{}),
		)

		It("includes every user exactly once", func() {
			users := s.ListUsers("")
			for _, user := range users {
				Expect(userIDs(s.ListUsers(""))).Should(ContainElement(user.ID))
				Expect(userIDs(s.ListUsers(user.Name))).Should(ContainElement(user.ID))
			}
			Expect(userIDs(users)).Should(HaveLen(3))
		})

		It("returns copies of the records", func() {
			users := s.ListUsers("")
			users[0].Name = "changed"
			*users[0].Age = 99

			user, err := s.UserByID(users[0].ID)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(user.Name).Should(Equal("Some user 1"))
			Expect(*user.Age).Should(Equal(23))
		})
	})

	Describe("ListPosts", func() {
		It("returns all posts without filter", func() {
			Expect(postIDs(s.ListPosts(""))).Should(Equal([]string{"1", "2", "3", "4"}))
		})

		table.DescribeTable("matches title or body ignoring case on both sides",
			func(filter string, expected []string) {
				Expect(postIDs(s.ListPosts(filter))).Should(Equal(expected))
			},
			table.Entry("title", "title 2", []string{"2"}),
			table.Entry("body", "BODY 3", []string{"3"}),
			table.Entry("common", "Title", []string{"1", "2", "3", "4"}),
			table.Entry("no match", "missing", []string{}),
		)

		It("folds case of stored text", func() {
			_, err := s.CreatePost(store.CreatePostInput{
				Title:  "GraphQL In Go",
				Body:   "Straße",
				Author: "123xcx",
			})
			Expect(err).ShouldNot(HaveOccurred())

			Expect(s.ListPosts("graphql in go")).Should(HaveLen(1))
			Expect(s.ListPosts("STRASSE")).Should(HaveLen(1))
		})
	})

	It("lists all comments", func() {
		Expect(commentIDs(s.ListComments())).Should(Equal([]string{"1", "2", "3"}))
	})

	Describe("relationships", func() {
		It("resolves the author of a post", func() {
			post, err := s.PostByID("2")
			Expect(err).ShouldNot(HaveOccurred())

			author, err := s.PostAuthor(post)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(author.ID).Should(Equal("123sas"))
		})

		It("resolves the comments on a post", func() {
			post, _ := s.PostByID("2")
			Expect(commentIDs(s.PostComments(post))).Should(Equal([]string{"1", "2"}))

			post, _ = s.PostByID("4")
			Expect(s.PostComments(post)).Should(BeEmpty())
		})

		It("resolves the posts and the comments of a user", func() {
			user, _ := s.UserByID("123xcx")
			Expect(postIDs(s.UserPosts(user))).Should(Equal([]string{"1", "4"}))
			Expect(commentIDs(s.UserComments(user))).Should(Equal([]string{"1"}))

			user, _ = s.UserByID("123sas")
			Expect(commentIDs(s.UserComments(user))).Should(Equal([]string{"2", "3"}))
		})

		It("resolves the author and the post of a comment", func() {
			comment := s.ListComments()[2]

			author, err := s.CommentAuthor(comment)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(author.Name).Should(Equal("Some user 2"))

			post, err := s.CommentPost(comment)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(post.Title).Should(Equal("title 3"))
		})

		It("fails with not found for dangling references", func() {
			_, err := s.DeleteUser("123sas")
			Expect(err).ShouldNot(HaveOccurred())

			post, _ := s.PostByID("2")
			_, err = s.PostAuthor(post)
			Expect(err).Should(testutil.MatchStoreError(
				testutil.OpIs(store.OpPostAuthor),
				testutil.StoreKindIs(store.ErrKindNotFound),
				testutil.MessageEqual("user not found"),
			))

			_, err = s.CommentAuthor(s.ListComments()[1])
			Expect(store.IsNotFound(err)).Should(BeTrue())

			_, err = s.CommentPost(store.Comment{ID: "x", Post: "404"})
			Expect(err).Should(testutil.MatchStoreError(
				testutil.StoreKindIs(store.ErrKindNotFound),
				testutil.MessageEqual("post not found"),
			))
		})
	})

	It("starts empty without seed", func() {
		s := store.New()
		Expect(s.ListUsers("")).Should(BeEmpty())
		Expect(s.ListPosts("")).Should(BeEmpty())
		Expect(s.ListComments()).Should(BeEmpty())
	})
})
