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
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed contains the records to populate a Store with.
type Seed struct {
	Users    []User    `yaml:"users"`
	Posts    []Post    `yaml:"posts"`
	Comments []Comment `yaml:"comments"`
}

// DefaultSeed returns the records the blog starts with. Note that the seed users share the same
// email; uniqueness of emails is only checked for users created afterwards.
func DefaultSeed() *Seed {
	age := func(n int) *int { return &n }

	return &Seed{
		Users: []User{
			{ID: "123xcx", Name: "Some user 1", Email: "dddd@cdc.com", Age: age(23)},
			{ID: "123sas", Name: "Some user 2", Email: "dddd@cdc.com", Age: age(43)},
			{ID: "1sdcsdc", Name: "Some user 3", Email: "dddd@cdc.com", Age: age(43)},
		},
		Posts: []Post{
			{ID: "1", Title: "title 1", Body: "body 1", Published: true, Author: "123xcx"},
			{ID: "2", Title: "title 2", Body: "body 2", Published: false, Author: "123sas"},
			{ID: "3", Title: "title 3", Body: "body 3", Published: false, Author: "1sdcsdc"},
			{ID: "4", Title: "title 4", Body: "body 4", Published: false, Author: "123xcx"},
		},
		Comments: []Comment{
			{ID: "1", Text: "comment 1", Author: "123xcx", Post: "2"},
			{ID: "2", Text: "comment 2", Author: "123sas", Post: "2"},
			{ID: "3", Text: "comment 3", Author: "123sas", Post: "3"},
		},
	}
}

// LoadSeed decodes a seed in YAML from r. Unknown fields are rejected. Records are loaded as
// given except that every record must have an id that is unique within its collection.
func LoadSeed(r io.Reader) (*Seed, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var seed Seed
	if err := decoder.Decode(&seed); err != nil && err != io.EOF {
		return nil, NewError("malformed seed", OpLoadSeed, ErrKindValidation, err)
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}

	return &seed, nil
}

// LoadSeedFile is like LoadSeed but reads the seed from the named file.
func LoadSeedFile(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewError("cannot open seed file", OpLoadSeed, err)
	}
	defer f.Close()
	return LoadSeed(f)
}

// WriteSeed encodes seed in YAML to w. The output can be read by LoadSeed.
func WriteSeed(w io.Writer, seed *Seed) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(seed); err != nil {
		return err
	}
	return encoder.Close()
}

func (seed *Seed) validate() error {
	check := func(collection string, ids []string) error {
		seen := make(map[string]struct{}, len(ids))
		for i, id := range ids {
			if len(id) == 0 {
				return NewError(fmt.Sprintf("%s[%d] has no id", collection, i), OpLoadSeed, ErrKindValidation)
			}
			if _, exists := seen[id]; exists {
				return NewError(fmt.Sprintf(`%s[%d] has duplicated id "%s"`, collection, i, id),
					OpLoadSeed, ErrKindValidation)
			}
			seen[id] = struct{}{}
		}
		return nil
	}

	userIDs := make([]string, len(seed.Users))
	for i := range seed.Users {
		userIDs[i] = seed.Users[i].ID
	}
	if err := check("users", userIDs); err != nil {
		return err
	}

	postIDs := make([]string, len(seed.Posts))
	for i := range seed.Posts {
		postIDs[i] = seed.Posts[i].ID
	}
	if err := check("posts", postIDs); err != nil {
		return err
	}

	commentIDs := make([]string, len(seed.Comments))
	for i := range seed.Comments {
		commentIDs[i] = seed.Comments[i].ID
	}
	return check("comments", commentIDs)
}
