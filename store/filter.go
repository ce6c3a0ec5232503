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
	"strings"

	"golang.org/x/text/cases"
)

// matcher reports whether any of the given fields contains the filter text. Text is compared under
// Unicode case folding. An empty filter matches everything.
type matcher struct {
	caser  cases.Caser
	filter string
}

func newMatcher(filter string) *matcher {
	if len(filter) == 0 {
		return nil
	}

	// Caser keeps state so every matcher uses its own.
	caser := cases.Fold()
	return &matcher{
		caser:  caser,
		filter: caser.String(filter),
	}
}

func (m *matcher) Match(fields ...string) bool {
	if m == nil {
		return true
	}
	for _, field := range fields {
		if strings.Contains(m.caser.String(field), m.filter) {
			return true
		}
	}
	return false
}
