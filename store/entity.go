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

// User is a registered author of posts and comments.
type User struct {
	ID    string `graphql:"id" yaml:"id"`
	Name  string `graphql:"name" yaml:"name"`
	Email string `graphql:"email" yaml:"email"`
	Age   *int   `graphql:"age" yaml:"age,omitempty"`
}

// Post is an article written by a user. Author holds the ID of the user.
type Post struct {
	ID        string `graphql:"id" yaml:"id"`
	Title     string `graphql:"title" yaml:"title"`
	Body      string `graphql:"body" yaml:"body"`
	Published bool   `graphql:"published" yaml:"published"`
	Author    string `graphql:"-" yaml:"author"`
}

// Comment is a note left by a user on a post. Author and Post hold the IDs of the referenced
// records.
type Comment struct {
	ID     string `graphql:"id" yaml:"id"`
	Text   string `graphql:"text" yaml:"text"`
	Author string `graphql:"-" yaml:"author"`
	Post   string `graphql:"-" yaml:"post"`
}

// CreateUserInput contains the fields of a user to be created.
type CreateUserInput struct {
	Name  string
	Email string
	Age   *int
}

// CreatePostInput contains the fields of a post to be created.
type CreatePostInput struct {
	Title     string
	Body      string
	Published bool
	Author    string
}

// CreateCommentInput contains the fields of a comment to be created.
type CreateCommentInput struct {
	Text   string
	Author string
	Post   string
}

func (user User) clone() User {
	if user.Age != nil {
		age := *user.Age
		user.Age = &age
	}
	return user
}

func cloneUsers(users []User) []User {
	result := make([]User, len(users))
	for i := range users {
		result[i] = users[i].clone()
	}
	return result
}

func clonePosts(posts []Post) []Post {
	result := make([]Post, len(posts))
	copy(result, posts)
	return result
}

func cloneComments(comments []Comment) []Comment {
	result := make([]Comment, len(comments))
	copy(result, comments)
	return result
}
