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
	_ "embed" // for go:embed

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/store"
)

//go:embed schema.graphql
var typeDefs string

// TypeDefs returns the schema definition language of the blog schema.
func TypeDefs() string {
	return typeDefs
}

// NewSchema builds the blog schema serving data in s.
func NewSchema(s *store.Store) (*graphql.Schema, error) {
	root := &rootResolvers{store: s}

	return graphql.NewSchema(&graphql.SchemaConfig{
		Name:     "blog/schema.graphql",
		TypeDefs: typeDefs,
		Resolvers: graphql.ResolverMap{
			"Query": {
				"users":    graphql.FieldResolverFunc(root.users),
				"me":       graphql.FieldResolverFunc(root.me),
				"posts":    graphql.FieldResolverFunc(root.posts),
				"comments": graphql.FieldResolverFunc(root.comments),
			},
			"Mutation": {
				"createUser":    graphql.FieldResolverFunc(root.createUser),
				"deleteUser":    graphql.FieldResolverFunc(root.deleteUser),
				"createPost":    graphql.FieldResolverFunc(root.createPost),
				"createComment": graphql.FieldResolverFunc(root.createComment),
			},
			"User": {
				"posts":    relationResolver[store.User, []store.Post]{userPosts{s}},
				"comments": relationResolver[store.User, []store.Comment]{userComments{s}},
			},
			"Post": {
				"author":   relationResolver[store.Post, store.User]{postAuthor{s}},
				"comments": relationResolver[store.Post, []store.Comment]{postComments{s}},
			},
			"Comment": {
				"author": relationResolver[store.Comment, store.User]{commentAuthor{s}},
				"post":   relationResolver[store.Comment, store.Post]{commentPost{s}},
			},
		},
	})
}

// MustNewSchema is like NewSchema but panics if the schema cannot be built.
func MustNewSchema(s *store.Store) *graphql.Schema {
	schema, err := NewSchema(s)
	if err != nil {
		panic(err)
	}
	return schema
}
