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

// Package store holds the users, posts and comments served by the blog in process memory.
//
// A Store owns three collections kept in insertion order. Lookups are linear scans over a
// collection; relationships between records are not materialized but computed on request by
// scanning the related collection (see PostAuthor, UserPosts and friends).
//
// Mutations run a Validate, Construct and Commit sequence under the store's write lock so the
// integrity checks and the change they guard are atomic together. A mutation that fails
// validation leaves the store unchanged. The integrity rules are:
//
//   - email of a user is unique among users when the user is created;
//   - author of a post must be an existing user;
//   - author of a comment must be an existing user and the commented post must exist and be
//     published.
//
// Records handed out by a Store are copies; modifying them never changes the store.
package store
