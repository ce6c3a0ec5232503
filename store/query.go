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

// ListUsers returns users whose name contains filter. All users are returned if filter is empty.
func (s *Store) ListUsers(filter string) []User {
	m := newMatcher(filter)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []User{}
	for i := range s.users {
		if m.Match(s.users[i].Name) {
			result = append(result, s.users[i].clone())
		}
	}
	return result
}

// ListPosts returns posts whose title or body contains filter. All posts are returned if filter is
// empty.
func (s *Store) ListPosts(filter string) []Post {
	m := newMatcher(filter)

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Post{}
	for i := range s.posts {
		if m.Match(s.posts[i].Title, s.posts[i].Body) {
			result = append(result, s.posts[i])
		}
	}
	return result
}

// ListComments returns all comments.
func (s *Store) ListComments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneComments(s.comments)
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(id string) (User, error) {
	return s.lookupUser(OpUserByID, id)
}

// PostByID returns the post with the given id.
func (s *Store) PostByID(id string) (Post, error) {
	return s.lookupPost(OpPostByID, id)
}

// PostAuthor returns the author of post. It fails with ErrKindNotFound if the author has been
// deleted.
func (s *Store) PostAuthor(post Post) (User, error) {
	return s.lookupUser(OpPostAuthor, post.Author)
}

// PostComments returns the comments on post.
func (s *Store) PostComments(post Post) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Comment{}
	for i := range s.comments {
		if s.comments[i].Post == post.ID {
			result = append(result, s.comments[i])
		}
	}
	return result
}

// UserPosts returns the posts written by user.
func (s *Store) UserPosts(user User) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Post{}
	for i := range s.posts {
		if s.posts[i].Author == user.ID {
			result = append(result, s.posts[i])
		}
	}
	return result
}

// UserComments returns the comments written by user.
func (s *Store) UserComments(user User) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []Comment{}
	for i := range s.comments {
		if s.comments[i].Author == user.ID {
			result = append(result, s.comments[i])
		}
	}
	return result
}

// CommentAuthor returns the author of comment. It fails with ErrKindNotFound if the author has been
// deleted.
func (s *Store) CommentAuthor(comment Comment) (User, error) {
	return s.lookupUser(OpCommentAuthor, comment.Author)
}

// CommentPost returns the post that comment is left on.
func (s *Store) CommentPost(comment Comment) (Post, error) {
	return s.lookupPost(OpCommentPost, comment.Post)
}

func (s *Store) lookupUser(op Op, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.userIndex(id); i >= 0 {
		return s.users[i].clone(), nil
	}
	return User{}, NewError(errUserNotFound, op, ErrKindNotFound)
}

func (s *Store) lookupPost(op Op, id string) (Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.postIndex(id); i >= 0 {
		return s.posts[i], nil
	}
	return Post{}, NewError(errPostNotFound, op, ErrKindNotFound)
}

// userIndex returns the index of the first user with the id or -1 if there's none. Must be called
// with s.mu held.
func (s *Store) userIndex(id string) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

// postIndex is like userIndex but for posts.
func (s *Store) postIndex(id string) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}
