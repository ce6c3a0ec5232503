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

package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/internal/util"
)

// DefaultFieldResolverOption specifies an option to configure field resolver instance created by
// NewDefaultFieldResolver.
type DefaultFieldResolverOption func(*defaultFieldResolver)

// defaultFieldResolver is used when no resolver is bound to a field. It resolves the field value
// to the value of field in source object value whose name matches, or if it's a function, returns
// the result of calling that function.
type defaultFieldResolver struct {
	unresolvedAsError bool   // default: true
	scanMethods       bool   // default: true
	fieldTagName      string // default: "graphql"
}

// NewDefaultFieldResolver configures a field resolver which is used as "default" resolver for
// fields without resolver. It can be provided to Prepare via PrepareParams.DefaultFieldResolver.
//
// When source value is a struct (or a pointer to one), the resolver looks for, in order:
//
//  1. the struct field whose tag names the GraphQL field, for example `graphql:"id"`;
//  2. the struct field named with the GraphQL field name in CamelCase;
//  3. the method named with the GraphQL field name in CamelCase.
//
// When source value is a map with string keys, the entry keyed with the field name is used.
func NewDefaultFieldResolver(opts ...DefaultFieldResolverOption) graphql.FieldResolver {
	resolver := &defaultFieldResolver{
		unresolvedAsError: true,
		scanMethods:       true,
		fieldTagName:      "graphql",
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// UnresolvedAsError specifies whether error should be returned for fields that cannot be
// successfully resolved by the resolver. The feature is enabled by default. If disabled, such
// fields resolve to null.
func UnresolvedAsError(enabled bool) DefaultFieldResolverOption {
	return func(resolver *defaultFieldResolver) {
		resolver.unresolvedAsError = enabled
	}
}

// ScanMethods specifies whether public methods exposed by the source object value should also be
// taken into consideration to search for field value. For example, "FooBar()" will be used for
// field named "foo_bar". The matching method will be invoked with the context and ResolveInfo and
// the return value is used as field result. The feature is enabled by default.
func ScanMethods(enabled bool) DefaultFieldResolverOption {
	return func(resolver *defaultFieldResolver) {
		resolver.scanMethods = enabled
	}
}

// FieldTagName specifies the struct field tag that is used to specify custom name in source object
// field for matching targeting field. For example,
//
//	type Foo struct {
//		Bar string `graphql:"baz"`
//	}
//
// value in field Bar is returned as result for fields named "baz". Fields tagged with "-" are
// never used. The feature can be disabled by FieldTagName("").
func FieldTagName(name string) DefaultFieldResolverOption {
	return func(resolver *defaultFieldResolver) {
		resolver.fieldTagName = name
	}
}

// Resolve implements graphql.FieldResolver.
func (resolver *defaultFieldResolver) Resolve(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
	value := reflect.ValueOf(source)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, resolver.unresolvedError(info)
		}
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Struct:
		return resolver.resolveFromStruct(ctx, source, value, info)
	case reflect.Map:
		return resolver.resolveFromMap(ctx, source, value, info)
	}

	return nil, resolver.unresolvedError(info)
}

func (resolver *defaultFieldResolver) unresolvedError(info graphql.ResolveInfo) error {
	if !resolver.unresolvedAsError {
		return nil
	}

	return graphql.NewError(fmt.Sprintf(`default resolver cannot resolve value for "%s.%s"`,
		info.Object().Name, info.Field().Name))
}

func (resolver *defaultFieldResolver) resolveFromFunc(
	ctx context.Context,
	source interface{},
	name string,
	f interface{},
	info graphql.ResolveInfo) (interface{}, error) {

	switch f := f.(type) {
	case func(ctx context.Context) (interface{}, error):
		return f(ctx)

	case func(ctx context.Context, source interface{}) (interface{}, error):
		return f(ctx, source)

	case func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error):
		return f(ctx, source, info)
	}

	if !resolver.unresolvedAsError {
		return nil, nil
	}
	return nil, graphql.NewError(fmt.Sprintf(
		"default resolver found %s but is unable to call it for resolving %s.%s because of "+
			"unexpected type %T", name, info.Object().Name, info.Field().Name, f))
}

func (resolver *defaultFieldResolver) resolveFromValue(
	ctx context.Context,
	source interface{},
	name string,
	value reflect.Value,
	info graphql.ResolveInfo) (interface{}, error) {

	if value.Kind() == reflect.Interface && !value.IsNil() {
		value = value.Elem()
	}
	if value.Kind() == reflect.Func {
		return resolver.resolveFromFunc(ctx, source, name, value.Interface(), info)
	}
	return value.Interface(), nil
}

func (resolver *defaultFieldResolver) resolveFromStruct(
	ctx context.Context,
	source interface{},
	sourceValue reflect.Value,
	info graphql.ResolveInfo) (interface{}, error) {

	var (
		fieldName  = info.Field().Name
		camelName  = util.CamelCase(fieldName)
		sourceType = sourceValue.Type()
		nameMatch  = -1
	)

	for i := 0; i < sourceType.NumField(); i++ {
		field := sourceType.Field(i)
		if len(field.PkgPath) > 0 {
			// Unexported
			continue
		}

		tag := ""
		if len(resolver.fieldTagName) > 0 {
			tag = strings.Split(field.Tag.Get(resolver.fieldTagName), ",")[0]
		}

		if tag == "-" {
			continue
		} else if tag == fieldName {
			return resolver.resolveFromValue(
				ctx, source, sourceType.Name()+"."+field.Name, sourceValue.Field(i), info)
		} else if field.Name == camelName && nameMatch < 0 {
			nameMatch = i
		}
	}

	if nameMatch >= 0 {
		return resolver.resolveFromValue(
			ctx, source, sourceType.Name()+"."+camelName, sourceValue.Field(nameMatch), info)
	}

	if resolver.scanMethods {
		receiver := reflect.ValueOf(source)
		method := receiver.MethodByName(camelName)
		if !method.IsValid() && receiver.Kind() != reflect.Ptr && sourceValue.CanAddr() {
			method = sourceValue.Addr().MethodByName(camelName)
		}
		if method.IsValid() {
			return resolver.resolveFromFunc(
				ctx, source, sourceType.Name()+"."+camelName, method.Interface(), info)
		}
	}

	return nil, resolver.unresolvedError(info)
}

func (resolver *defaultFieldResolver) resolveFromMap(
	ctx context.Context,
	source interface{},
	sourceValue reflect.Value,
	info graphql.ResolveInfo) (interface{}, error) {

	if sourceValue.Type().Key().Kind() != reflect.String {
		return nil, resolver.unresolvedError(info)
	}

	fieldName := info.Field().Name
	value := sourceValue.MapIndex(reflect.ValueOf(fieldName).Convert(sourceValue.Type().Key()))
	if value.IsValid() {
		return resolver.resolveFromValue(ctx, source, fmt.Sprintf("map[%s]", fieldName), value, info)
	}
	return nil, resolver.unresolvedError(info)
}
