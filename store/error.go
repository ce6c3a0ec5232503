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
	"errors"
	"fmt"
	"log"
	"runtime"
	"strings"
)

// Op describes an operation of Store, such as "store.CreateUser".
type Op string

// Operations of Store
const (
	OpCreateUser    Op = "store.CreateUser"
	OpDeleteUser    Op = "store.DeleteUser"
	OpCreatePost    Op = "store.CreatePost"
	OpCreateComment Op = "store.CreateComment"
	OpUserByID      Op = "store.UserByID"
	OpPostByID      Op = "store.PostByID"
	OpPostAuthor    Op = "store.PostAuthor"
	OpCommentAuthor Op = "store.CommentAuthor"
	OpCommentPost   Op = "store.CommentPost"
	OpLoadSeed      Op = "store.LoadSeed"
)

// ErrKind defines the kind of error this is.
type ErrKind uint8

// Enumeration of ErrKind
const (
	ErrKindOther               ErrKind = iota // Unclassified error. This value is not printed in the error message.
	ErrKindConstraintViolation                // A uniqueness rule is violated.
	ErrKindNotFound                           // A referenced record does not exist.
	ErrKindValidation                         // A precondition on the referenced records is not satisfied.
	ErrKindInternal                           // Internal error
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindOther:
		return "other error"
	case ErrKindConstraintViolation:
		return "constraint violation"
	case ErrKindNotFound:
		return "not found"
	case ErrKindValidation:
		return "validation error"
	case ErrKindInternal:
		return "internal error"
	}
	return "unknown error kind"
}

// Error is returned by the operations of Store.
type Error struct {
	// Message describes the error. It is meant to be shown to the clients.
	Message string

	// The underlying error that triggered this one
	Err error

	// Op is the operation being performed.
	Op Op

	// Kind is the class of error
	Kind ErrKind
}

var _ error = (*Error)(nil)

// NewError builds an error value from arguments in the manner of graphql.NewError. Arguments of
// type Op, ErrKind and error set the corresponding fields.
func NewError(message string, args ...interface{}) error {
	e := &Error{
		Message: message,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			e.Op = arg
		case ErrKind:
			e.Kind = arg
		case error:
			e.Err = arg
		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("NewError: bad call from %s:%d: %v", file, line, args)
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	var prev *Error
	if e.Kind == ErrKindOther && errors.As(e.Err, &prev) {
		e.Kind = prev.Kind
	}

	return e
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
		b.WriteString(": ")
	}
	if e.Kind != ErrKindOther {
		b.WriteString(e.Kind.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first Error in err's chain or ErrKindOther if there's none.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindOther
}

// IsConstraintViolation returns true if err is caused by a violation of uniqueness rule.
func IsConstraintViolation(err error) bool {
	return KindOf(err) == ErrKindConstraintViolation
}

// IsNotFound returns true if err is caused by a reference to a record that doesn't exist.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsValidation returns true if err is caused by unsatisfied precondition.
func IsValidation(err error) bool {
	return KindOf(err) == ErrKindValidation
}
