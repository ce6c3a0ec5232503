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

package store

// Messages of the errors returned by Store
const (
	errEmailTaken            = "email already taken"
	errUserNotFound          = "user not found"
	errPostNotFound          = "post not found"
	errNoUserOrPublishedPost = "no matching user and published post"
)

// CreateUser adds a user. It fails with ErrKindConstraintViolation if the email is used by another
// user. Fields are stored as given.
func (s *Store) CreateUser(input CreateUserInput) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate
	for i := range s.users {
		if s.users[i].Email == input.Email {
			return User{}, NewError(errEmailTaken, OpCreateUser, ErrKindConstraintViolation)
		}
	}

	// Construct
	id, err := s.newID(OpCreateUser, s.issuedUsers)
	if err != nil {
		return User{}, err
	}
	user := User{
		ID:    id,
		Name:  input.Name,
		Email: input.Email,
		Age:   input.Age,
	}.clone()

	// Commit
	s.users = append(s.users, user)
	s.logger.Debug().Str("op", string(OpCreateUser)).Str("id", id).Msg("user created")

	return user.clone(), nil
}

// DeleteUser removes the user with the given id and returns it. It fails with ErrKindNotFound if
// there's no such user. Posts and comments written by the user are kept, and the id is never given
// to another user.
func (s *Store) DeleteUser(id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.userIndex(id)
	if i < 0 {
		return User{}, NewError(errUserNotFound, OpDeleteUser, ErrKindNotFound)
	}

	user := s.users[i]
	s.users = append(s.users[:i], s.users[i+1:]...)
	s.logger.Debug().Str("op", string(OpDeleteUser)).Str("id", id).Msg("user deleted")

	return user, nil
}

// CreatePost adds a post. It fails with ErrKindNotFound if the author doesn't exist.
func (s *Store) CreatePost(input CreatePostInput) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userIndex(input.Author) < 0 {
		return Post{}, NewError(errUserNotFound, OpCreatePost, ErrKindNotFound)
	}

	id, err := s.newID(OpCreatePost, s.issuedPosts)
	if err != nil {
		return Post{}, err
	}
	post := Post{
		ID:        id,
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
		Author:    input.Author,
	}

	s.posts = append(s.posts, post)
	s.logger.Debug().Str("op", string(OpCreatePost)).Str("id", id).Msg("post created")

	return post, nil
}

// CreateComment adds a comment. It fails with ErrKindValidation if the author doesn't exist or the
// post doesn't exist or is not published. The two conditions are reported as one.
func (s *Store) CreateComment(input CreateCommentInput) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	postExists := false
	if i := s.postIndex(input.Post); i >= 0 && s.posts[i].Published {
		postExists = true
	}
	if s.userIndex(input.Author) < 0 || !postExists {
		return Comment{}, NewError(errNoUserOrPublishedPost, OpCreateComment, ErrKindValidation)
	}

	id, err := s.newID(OpCreateComment, s.issuedComments)
	if err != nil {
		return Comment{}, err
	}
	comment := Comment{
		ID:     id,
		Text:   input.Text,
		Author: input.Author,
		Post:   input.Post,
	}

	s.comments = append(s.comments, comment)
	s.logger.Debug().Str("op", string(OpCreateComment)).Str("id", id).Msg("comment created")

	return comment, nil
}
