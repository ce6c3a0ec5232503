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

import (
	"sync"

	"github.com/rs/zerolog"
)

// Store keeps users, posts and comments in memory. It is safe for concurrent use: queries run
// concurrently with each other while mutations run one at a time.
type Store struct {
	mu       sync.RWMutex
	users    []User
	posts    []Post
	comments []Comment

	// Identifiers ever held by each collection. Ids of deleted records stay here so they are
	// never issued again.
	issuedUsers    issuedIDs
	issuedPosts    issuedIDs
	issuedComments issuedIDs

	ids    IDGenerator
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(s *Store)

// WithIDGenerator sets the generator for the identifiers of new records. UUIDGenerator is used by
// default.
func WithIDGenerator(ids IDGenerator) Option {
	return func(s *Store) {
		s.ids = ids
	}
}

// WithSeed populates the store with the records in seed. The records are copied.
func WithSeed(seed *Seed) Option {
	return func(s *Store) {
		s.users = cloneUsers(seed.Users)
		s.posts = clonePosts(seed.Posts)
		s.comments = cloneComments(seed.Comments)
		s.issuedUsers = issuedIDsOf(s.users, func(u User) string { return u.ID })
		s.issuedPosts = issuedIDsOf(s.posts, func(p Post) string { return p.ID })
		s.issuedComments = issuedIDsOf(s.comments, func(c Comment) string { return c.ID })
	}
}

// WithLogger sets the logger. Committed mutations are logged at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store. The store is empty unless WithSeed is given.
func New(opts ...Option) *Store {
	s := &Store{
		issuedUsers:    issuedIDs{},
		issuedPosts:    issuedIDs{},
		issuedComments: issuedIDs{},
		ids:            UUIDGenerator{},
		logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Snapshot returns a copy of all records in the store.
func (s *Store) Snapshot() *Seed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Seed{
		Users:    cloneUsers(s.users),
		Posts:    clonePosts(s.posts),
		Comments: cloneComments(s.comments),
	}
}
