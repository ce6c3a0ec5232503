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
package graphql

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Op describes an operation, usually as the package and method, such as "executor.Prepare".
type Op string

// ErrKind defines the kind of error this is.
type ErrKind uint8

// Enumeration of Kind
const (
	ErrKindOther      ErrKind = iota // Unclassified error. This value is not printed in the error message.
	ErrKindCoercion                  // Failed to coerce input or result values for desired GraphQL type.
	ErrKindSyntax                    // Syntax error in the query document
	ErrKindValidation                // The document failed a validation rule
	ErrKindExecution                 // Raised by a field resolver
	ErrKindInternal                  // Internal error
)

var errKindNames = [...]string{
	ErrKindOther:      "other error",
	ErrKindCoercion:   "coercion error",
	ErrKindSyntax:     "syntax error",
	ErrKindValidation: "validation error",
	ErrKindExecution:  "execution error",
	ErrKindInternal:   "internal error",
}

func (k ErrKind) String() string {
	if int(k) < len(errKindNames) {
		return errKindNames[k]
	}
	return "unknown error kind"
}

// ErrorExtensions is the "extensions" entry of an error in the response. Resolvers use it to
// attach a machine-readable "code".
type ErrorExtensions map[string]interface{}

// ErrorLocation points to the beginning of a syntax element in the query document. Line and
// column start from 1.
type ErrorLocation struct {
	Line   uint `json:"line"`
	Column uint `json:"column"`
}

func (location ErrorLocation) String() string {
	return strconv.FormatUint(uint64(location.Line), 10) + ":" + strconv.FormatUint(uint64(location.Column), 10)
}

// ErrorLocationOf returns the location of a syntax element in the query document.
func ErrorLocationOf(pos *ast.Position) ErrorLocation {
	if pos == nil {
		return ErrorLocation{}
	}
	return ErrorLocation{
		Line:   uint(pos.Line),
		Column: uint(pos.Column),
	}
}

// ErrorLocationsOfFields collects locations of the given field selections.
func ErrorLocationsOfFields(fields []*ast.Field) []ErrorLocation {
	var locations []ErrorLocation
	for _, field := range fields {
		if field.Position != nil {
			locations = append(locations, ErrorLocationOf(field.Position))
		}
	}
	return locations
}

// ResponsePath is a list of keys from the response root to a field. Each key is either a field
// name (string) or a list index (int).
type ResponsePath struct {
	keys []interface{}
}

// Empty returns true if the path doesn't contain any path keys.
func (path ResponsePath) Empty() bool {
	return len(path.keys) == 0
}

// Keys returns a copy of the path keys.
func (path ResponsePath) Keys() []interface{} {
	return slices.Clone(path.keys)
}

// AppendFieldName adds a field name to the end of current path.
func (path *ResponsePath) AppendFieldName(name string) {
	path.keys = append(path.keys, name)
}

// AppendIndex adds a list index to the end of current path.
func (path *ResponsePath) AppendIndex(index int) {
	path.keys = append(path.keys, index)
}

// String formats the path like "users[0].posts".
func (path ResponsePath) String() string {
	var b strings.Builder
	for _, key := range path.keys {
		switch key := key.(type) {
		case string:
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(key)
		case int:
			fmt.Fprintf(&b, "[%d]", key)
		}
	}
	return b.String()
}

func (path ResponsePath) equal(other ResponsePath) bool {
	return slices.Equal(path.keys, other.keys)
}

// responsePathOf converts a path reported by gqlparser.
func responsePathOf(p ast.Path) ResponsePath {
	var path ResponsePath
	for _, element := range p {
		switch element := element.(type) {
		case ast.PathName:
			path.AppendFieldName(string(element))
		case ast.PathIndex:
			path.AppendIndex(int(element))
		}
	}
	return path
}

// responsePathEncoder encodes ResponsePath as a JSON array.
type responsePathEncoder struct{}

func (responsePathEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return (*ResponsePath)(ptr).Empty()
}

func (responsePathEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteArrayStart()
	for i, key := range (*ResponsePath)(ptr).keys {
		if i > 0 {
			stream.WriteMore()
		}
		switch key := key.(type) {
		case string:
			stream.WriteString(key)
		case int:
			stream.WriteInt(key)
		default:
			stream.Error = fmt.Errorf(`unsupported type "%T" of key in response path`, key)
			return
		}
	}
	stream.WriteArrayEnd()
}

// MarshalJSON serializes path keys to JSON.
func (path *ResponsePath) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(path)
}

// An Error describes an error found while preparing or executing a GraphQL operation. It
// serializes to an entry of the "errors" list in the response.
//
// Locations, path and extensions not given to NewError are inherited from the wrapped error when
// it is an *Error or a *gqlerror.Error. The executor wraps errors returned by resolvers with the
// locations and the path of the failing field.
type Error struct {
	// Message describes the error for debugging purposes.
	Message string

	// Locations within the query document. Errors raised during execution include the location
	// of the field which produced the error.
	Locations []ErrorLocation

	// Path of the response field which experienced the error. Only set for errors raised during
	// execution.
	Path ResponsePath

	// Extensions contains data to be added to in the error response
	Extensions ErrorExtensions

	// The underlying error that triggered this one
	Err error

	// Op is the operation being performed, usually the name of the method being invoked.
	Op Op

	// Kind is the class of error
	Kind ErrKind
}

var _ error = (*Error)(nil)

// NewError builds an error value from a message and arguments of type ErrorLocation,
// []ErrorLocation, ResponsePath, ErrorExtensions, error, Op or ErrKind.
func NewError(message string, args ...interface{}) error {
	e := &Error{
		Message: message,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case ErrorLocation:
			e.Locations = []ErrorLocation{arg}
		case []ErrorLocation:
			e.Locations = arg
		case ResponsePath:
			e.Path = arg
		case ErrorExtensions:
			e.Extensions = arg
		case error:
			e.Err = arg
		case Op:
			e.Op = arg
		case ErrKind:
			e.Kind = arg
		default:
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	if e.Err != nil {
		e.inherit()
	}
	return e
}

func (e *Error) inherit() {
	var prev *Error
	if errors.As(e.Err, &prev) {
		if len(e.Locations) == 0 {
			e.Locations = slices.Clone(prev.Locations)
		}
		if e.Path.Empty() {
			e.Path = ResponsePath{prev.Path.Keys()}
		}
		if e.Extensions == nil {
			e.Extensions = prev.Extensions
		}
		if e.Kind == ErrKindOther {
			e.Kind = prev.Kind
		}
		return
	}

	var gqlErr *gqlerror.Error
	if errors.As(e.Err, &gqlErr) {
		if len(e.Locations) == 0 {
			e.Locations = locationsOfGQL(gqlErr.Locations)
		}
		if e.Path.Empty() {
			e.Path = responsePathOf(gqlErr.Path)
		}
		if e.Extensions == nil {
			e.Extensions = extensionsOfGQL(gqlErr.Extensions)
		}
	}
}

// Error implements Go's error interface. The output has the form
//
//	op: message at 1:3 for users[0].posts: kind (additional info: map[...]): cause
//
// where every part is optional. Parts of a wrapped *Error equal to the ones of its wrapper are
// omitted.
func (e *Error) Error() string {
	var b strings.Builder
	e.writeTo(&b, nil)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) writeTo(b *strings.Builder, outer *Error) {
	start := b.Len()
	sep := func(s string) {
		if b.Len() > start {
			b.WriteString(s)
		}
	}

	b.WriteString(string(e.Op))
	if len(e.Message) > 0 {
		sep(": ")
		b.WriteString(e.Message)
	}

	if len(e.Locations) > 0 && (outer == nil || !slices.Equal(outer.Locations, e.Locations)) {
		sep(" ")
		b.WriteString("at ")
		for i, location := range e.Locations {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(location.String())
		}
	}

	if !e.Path.Empty() && (outer == nil || !outer.Path.equal(e.Path)) {
		sep(" ")
		b.WriteString("for ")
		b.WriteString(e.Path.String())
	}

	if e.Kind != ErrKindOther && (outer == nil || outer.Kind != e.Kind) {
		sep(": ")
		b.WriteString(e.Kind.String())
	}

	if len(e.Extensions) > 0 && (outer == nil || !maps.EqualFunc(outer.Extensions, e.Extensions, extensionValueEqual)) {
		sep(" ")
		fmt.Fprintf(b, "(additional info: %v)", map[string]interface{}(e.Extensions))
	}

	if e.Err == nil {
		return
	}
	if prev, ok := e.Err.(*Error); ok {
		sep(":\n  ")
		prev.writeTo(b, e)
		return
	}
	sep(": ")
	b.WriteString(e.Err.Error())
}

func extensionValueEqual(a, b interface{}) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(e)
}

// errorEncoder encodes Error as an entry of the "errors" list in the response.
type errorEncoder struct{}

func (errorEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return (*Error)(ptr) == nil
}

func (errorEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	err := (*Error)(ptr)
	stream.WriteObjectStart()
	stream.WriteObjectField("message")
	stream.WriteString(err.Message)

	if len(err.Locations) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("locations")
		stream.WriteVal(err.Locations)
	}

	if !err.Path.Empty() {
		stream.WriteMore()
		stream.WriteObjectField("path")
		stream.WriteVal(&err.Path)
	}

	if len(err.Extensions) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("extensions")
		stream.WriteObjectStart()
		for i, k := range slices.Sorted(maps.Keys(err.Extensions)) {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(k)
			stream.WriteVal(err.Extensions[k])
		}
		stream.WriteObjectEnd()
	}

	stream.WriteObjectEnd()
}

// Errors wraps a list of Error. Use errs.HaveOccurred() to test for errors.
type Errors struct {
	Errors []*Error
}

// ErrorsOf constructs an Errors from either a list of errors, or the arguments to NewError (a
// message followed by other error context), or a list of errors followed by the arguments to
// NewError.
func ErrorsOf(args ...interface{}) Errors {
	var errs Errors
	for i, arg := range args {
		switch arg := arg.(type) {
		case error:
			errs.Append(arg)
		case string:
			errs.Append(NewError(arg, args[(i+1):]...))
			return errs
		default:
			panic("graphql.ErrorsOf: bad call")
		}
	}
	return errs
}

// NoErrors constructs an empty Errors.
func NoErrors() Errors {
	return Errors{}
}

// Append appends errors to the end of the Errors. Errors that are not *Error are wrapped.
func (errs *Errors) Append(e ...error) {
	for _, err := range e {
		gqlErr, ok := err.(*Error)
		if !ok {
			gqlErr = NewError(err.Error(), err).(*Error)
		}
		errs.Errors = append(errs.Errors, gqlErr)
	}
}

// HaveOccurred returns true if some errors exist.
func (errs Errors) HaveOccurred() bool {
	return len(errs.Errors) > 0
}

// Error implements Go's error interface so Errors can be returned where an error is expected.
func (errs Errors) Error() string {
	messages := make([]string, len(errs.Errors))
	for i, err := range errs.Errors {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "\n")
}

// ErrorsFromGQL converts errors reported by the query parser and validator. Errors produced by a
// validation rule have kind ErrKindValidation and the others are syntax errors.
func ErrorsFromGQL(list gqlerror.List) Errors {
	var errs Errors
	for _, err := range list {
		kind := ErrKindSyntax
		if len(err.Rule) > 0 {
			kind = ErrKindValidation
		}
		errs.Errors = append(errs.Errors, &Error{
			Message:    err.Message,
			Locations:  locationsOfGQL(err.Locations),
			Extensions: extensionsOfGQL(err.Extensions),
			Kind:       kind,
		})
	}
	return errs
}

func locationsOfGQL(locations []gqlerror.Location) []ErrorLocation {
	var result []ErrorLocation
	for _, location := range locations {
		result = append(result, ErrorLocation{
			Line:   uint(location.Line),
			Column: uint(location.Column),
		})
	}
	return result
}

func extensionsOfGQL(extensions map[string]interface{}) ErrorExtensions {
	if len(extensions) == 0 {
		return nil
	}
	return ErrorExtensions(extensions)
}

func init() {
	jsoniter.RegisterTypeEncoder("graphql.ResponsePath", responsePathEncoder{})
	jsoniter.RegisterTypeEncoder("graphql.Error", errorEncoder{})
}
