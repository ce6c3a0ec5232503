/**
 * Copyright (c) 2018, The Artemis Authors.
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

package util

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
)

// SuggestionList returns the options that are close enough to input, most similar first. It is used
// to append "Did you mean ...?" to errors about unknown names.
//
// An option is close enough when its edit distance to input is at most half of the longer of the
// two (and at least 1). Options differing from input only in case are at distance 1.
func SuggestionList(input string, options []string) []string {
	type suggestion struct {
		option   string
		distance int
	}

	var suggestions []suggestion
	for _, option := range options {
		distance := editDistance(input, option)
		threshold := max(len(input), len(option), 2) / 2
		if distance <= threshold {
			suggestions = append(suggestions, suggestion{option, distance})
		}
	}
	if len(suggestions) == 0 {
		return nil
	}

	slices.SortStableFunc(suggestions, func(a, b suggestion) int {
		return cmp.Compare(a.distance, b.distance)
	})

	result := make([]string, len(suggestions))
	for i := range suggestions {
		result[i] = suggestions[i].option
	}
	return result
}

func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	lowerA, lowerB := strings.ToLower(a), strings.ToLower(b)
	if lowerA == lowerB {
		return 1
	}
	return levenshtein.ComputeDistance(lowerA, lowerB)
}
