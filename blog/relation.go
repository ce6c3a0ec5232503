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
	"context"
	"fmt"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/store"
)

// Relation computes a relationship field of a parent record of type P by looking up the related
// records of type R.
type Relation[P any, R any] interface {
	Resolve(ctx context.Context, parent P) (R, error)
}

// relationResolver adapts a Relation into a graphql.FieldResolver.
type relationResolver[P any, R any] struct {
	relation Relation[P, R]
}

var _ graphql.FieldResolver = relationResolver[store.Post, store.User]{}

// Resolve implements graphql.FieldResolver.
func (r relationResolver[P, R]) Resolve(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	parent, ok := source.(P)
	if !ok {
		return nil, graphql.NewError(
			fmt.Sprintf("%s.%s expects a parent of type %T but got %T",
				info.Object().Name, info.Field().Name, parent, source),
			graphql.ErrKindInternal)
	}

	value, err := r.relation.Resolve(ctx, parent)
	if err != nil {
		return nil, presentStoreError(err)
	}
	return value, nil
}

// postAuthor resolves Post.author.
type postAuthor struct{ store *store.Store }

func (r postAuthor) Resolve(ctx context.Context, post store.Post) (store.User, error) {
	return r.store.PostAuthor(post)
}

// postComments resolves Post.comments.
type postComments struct{ store *store.Store }

func (r postComments) Resolve(ctx context.Context, post store.Post) ([]store.Comment, error) {
	return r.store.PostComments(post), nil
}

// userPosts resolves User.posts.
type userPosts struct{ store *store.Store }

func (r userPosts) Resolve(ctx context.Context, user store.User) ([]store.Post, error) {
	return r.store.UserPosts(user), nil
}

// userComments resolves User.comments.
type userComments struct{ store *store.Store }

func (r userComments) Resolve(ctx context.Context, user store.User) ([]store.Comment, error) {
	return r.store.UserComments(user), nil
}

// commentAuthor resolves Comment.author.
type commentAuthor struct{ store *store.Store }

func (r commentAuthor) Resolve(ctx context.Context, comment store.Comment) (store.User, error) {
	return r.store.CommentAuthor(comment)
}

// commentPost resolves Comment.post.
type commentPost struct{ store *store.Store }

func (r commentPost) Resolve(ctx context.Context, comment store.Comment) (store.Post, error) {
	return r.store.CommentPost(comment)
}
