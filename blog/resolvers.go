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

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/store"

	"github.com/rs/zerolog"
)

// me is the user returned by Query.me. It is not kept in the store.
var me = store.User{
	ID:    "123abc",
	Name:  "Mike",
	Email: "email@some.com",
}

// rootResolvers implements the fields of Query and Mutation.
type rootResolvers struct {
	store *store.Store
}

func stringArg(info graphql.ResolveInfo, name string) string {
	s, _ := info.Args().Get(name).(string)
	return s
}

func (r *rootResolvers) users(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	return r.store.ListUsers(stringArg(info, "query")), nil
}

func (r *rootResolvers) me(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	return me, nil
}

func (r *rootResolvers) posts(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	return r.store.ListPosts(stringArg(info, "query")), nil
}

func (r *rootResolvers) comments(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	return r.store.ListComments(), nil
}

func (r *rootResolvers) createUser(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	input, err := decodeCreateUserInput(info.Args().Get("data"))
	if err != nil {
		return nil, err
	}

	user, err := r.store.CreateUser(input)
	if err != nil {
		return nil, rejectMutation(ctx, info, err)
	}
	return user, nil
}

func (r *rootResolvers) deleteUser(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	user, err := r.store.DeleteUser(stringArg(info, "id"))
	if err != nil {
		return nil, rejectMutation(ctx, info, err)
	}
	return user, nil
}

func (r *rootResolvers) createPost(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	input, err := decodeCreatePostInput(info.Args().Get("data"))
	if err != nil {
		return nil, err
	}

	post, err := r.store.CreatePost(input)
	if err != nil {
		return nil, rejectMutation(ctx, info, err)
	}
	return post, nil
}

func (r *rootResolvers) createComment(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	input, err := decodeCreateCommentInput(info.Args().Get("data"))
	if err != nil {
		return nil, err
	}

	comment, err := r.store.CreateComment(input)
	if err != nil {
		return nil, rejectMutation(ctx, info, err)
	}
	return comment, nil
}

// rejectMutation logs a mutation refused by the store and presents the error.
func rejectMutation(ctx context.Context, info graphql.ResolveInfo, err error) error {
	zerolog.Ctx(ctx).Info().
		Err(err).
		Str("mutation", info.Field().Name).
		Msg("mutation rejected")
	return presentStoreError(err)
}
