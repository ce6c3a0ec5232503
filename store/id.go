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
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for new records. Identifiers are opaque strings.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc is an adapter to allow the use of ordinary functions as IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f().
func (f IDGeneratorFunc) NewID() string {
	return f()
}

// UUIDGenerator generates random (version 4) UUIDs. It is the default IDGenerator of Store.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceIDGenerator returns an IDGenerator that generates prefix1, prefix2 and so on. It is safe
// for concurrent use.
func SequenceIDGenerator(prefix string) IDGenerator {
	var next uint64
	return IDGeneratorFunc(func() string {
		return prefix + strconv.FormatUint(atomic.AddUint64(&next, 1), 10)
	})
}

// maxIDAttempts limits the number of identifiers drawn for a record when the generated ones are
// taken.
const maxIDAttempts = 8

// issuedIDs records every identifier a collection has held, including the ones of deleted
// records.
type issuedIDs map[string]struct{}

func issuedIDsOf[T any](records []T, id func(T) string) issuedIDs {
	issued := make(issuedIDs, len(records))
	for _, record := range records {
		issued[id(record)] = struct{}{}
	}
	return issued
}

// newID draws an identifier that was never issued in the collection and marks it as issued. Must
// be called with s.mu held for writing.
func (s *Store) newID(op Op, issued issuedIDs) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.ids.NewID()
		if _, taken := issued[id]; !taken {
			issued[id] = struct{}{}
			return id, nil
		}
		s.logger.Warn().Str("op", string(op)).Str("id", id).Msg("generated id was issued before")
	}
	return "", NewError("unable to generate a unique id", op, ErrKindInternal)
}
