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

package handler

import (
	"context"
	"errors"

	"github.com/roofs-runner/gql-apollo/graphql/executor"

	"github.com/99designs/gqlgen/graphql/handler/lru"
)

// OperationCache caches executor.PreparedOperation created from a query to save parsing and
// validation efforts. Keys are built with OperationCacheKey.
type OperationCache interface {
	// Get looks up operation for the given key.
	Get(ctx context.Context, key string) (operation *executor.PreparedOperation, ok bool)

	// Add adds an operation that associated with the key to the cache.
	Add(ctx context.Context, key string, operation *executor.PreparedOperation)
}

// OperationCacheKey returns the cache key for the operation selected by operationName in query.
// A document with multiple operations is prepared once per operation name.
func OperationCacheKey(query string, operationName string) string {
	if len(operationName) == 0 {
		return query
	}
	return query + "\x00" + operationName
}

// LRUOperationCache is a thread-safe LRU cache that implements OperationCache. It serves as default
// operation cache for LLHandler.
type LRUOperationCache struct {
	*lru.LRU[*executor.PreparedOperation]
}

var _ OperationCache = (*LRUOperationCache)(nil)

var errZeroCacheSize = errors.New("LRUOperationCache: must specified a non-zero cache size")

// NewLRUOperationCache creates a new LRUOperationCache which holds at most maxEntries operations.
func NewLRUOperationCache(maxEntries int) (*LRUOperationCache, error) {
	if maxEntries <= 0 {
		return nil, errZeroCacheSize
	}

	return &LRUOperationCache{
		LRU: lru.New[*executor.PreparedOperation](maxEntries),
	}, nil
}

// NopOperationCache does nothing.
type NopOperationCache struct{}

var _ OperationCache = NopOperationCache{}

// Get implements OperationCache.
func (NopOperationCache) Get(ctx context.Context, key string) (operation *executor.PreparedOperation, ok bool) {
	return
}

// Add implements OperationCache.
func (NopOperationCache) Add(ctx context.Context, key string, operation *executor.PreparedOperation) {}
