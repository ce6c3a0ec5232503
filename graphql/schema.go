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
	"fmt"
	"sort"
	"strings"

	"github.com/roofs-runner/gql-apollo/internal/util"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// DefaultSchemaSourceName names the type definitions in error messages when SchemaConfig.Name is
// not set.
const DefaultSchemaSourceName = "schema.graphql"

// SchemaConfig contains configuration to define a GraphQL schema.
type SchemaConfig struct {
	// Name of the type definitions source, used in error messages
	Name string

	// TypeDefs in the GraphQL schema definition language
	TypeDefs string

	// Resolvers for fields of object types declared in TypeDefs
	Resolvers ResolverMap

	// TypeResolvers maps the name of an Interface or a Union type to the resolver that determines
	// the concrete type of its values
	TypeResolvers map[string]TypeResolver
}

// Schema is a GraphQL type system loaded from type definitions and bound with resolvers. It is
// immutable after it is created and safe for concurrent use.
//
// Reference: https://spec.graphql.org/June2018/#sec-Schema
type Schema struct {
	definition    *ast.Schema
	resolvers     ResolverMap
	typeResolvers map[string]TypeResolver
}

// NewSchema parses and validates the type definitions and binds resolvers to the fields. It is an
// error to supply resolvers for a type or a field that is not declared.
func NewSchema(config *SchemaConfig) (*Schema, error) {
	const op Op = "graphql.NewSchema"

	if config == nil || len(config.TypeDefs) == 0 {
		return nil, NewError("Must provide type definitions.", op, ErrKindValidation)
	}

	name := config.Name
	if len(name) == 0 {
		name = DefaultSchemaSourceName
	}

	definition, err := gqlparser.LoadSchema(&ast.Source{
		Name:  name,
		Input: config.TypeDefs,
	})
	if err != nil {
		return nil, NewError("Invalid type definitions.", op, ErrKindValidation, err)
	}

	if definition.Query == nil {
		return nil, NewError("Schema does not define the required query root type.", op, ErrKindValidation)
	}

	resolvers := make(ResolverMap, len(config.Resolvers))
	for typeName, fieldResolvers := range config.Resolvers {
		object := definition.Types[typeName]
		if object == nil || object.Kind != ast.Object {
			return nil, NewError(
				fmt.Sprintf(`Resolvers are provided for "%s" which is not an object type.`, typeName),
				op, ErrKindValidation)
		}

		fields := make(FieldResolvers, len(fieldResolvers))
		for fieldName, resolver := range fieldResolvers {
			if object.Fields.ForName(fieldName) == nil {
				return nil, NewError(unknownFieldMessage(object, fieldName), op, ErrKindValidation)
			}
			if resolver == nil {
				return nil, NewError(
					fmt.Sprintf(`Resolver for "%s.%s" is nil.`, typeName, fieldName),
					op, ErrKindValidation)
			}
			fields[fieldName] = resolver
		}
		resolvers[typeName] = fields
	}

	typeResolvers := make(map[string]TypeResolver, len(config.TypeResolvers))
	for typeName, resolver := range config.TypeResolvers {
		abstractType := definition.Types[typeName]
		if abstractType == nil || !abstractType.IsAbstractType() {
			return nil, NewError(
				fmt.Sprintf(`Type resolver is provided for "%s" which is not an interface or a union.`, typeName),
				op, ErrKindValidation)
		}
		if resolver == nil {
			return nil, NewError(
				fmt.Sprintf(`Type resolver for "%s" is nil.`, typeName),
				op, ErrKindValidation)
		}
		typeResolvers[typeName] = resolver
	}

	return &Schema{
		definition:    definition,
		resolvers:     resolvers,
		typeResolvers: typeResolvers,
	}, nil
}

// MustNewSchema is a convenience function equivalent to NewSchema but panics on failure instead of
// returning an error.
func MustNewSchema(config *SchemaConfig) *Schema {
	schema, err := NewSchema(config)
	if err != nil {
		panic(err)
	}
	return schema
}

func unknownFieldMessage(object *ast.Definition, fieldName string) string {
	message := fmt.Sprintf(`Resolver is provided for unknown field "%s.%s".`, object.Name, fieldName)

	options := make([]string, 0, len(object.Fields))
	for _, field := range object.Fields {
		if !strings.HasPrefix(field.Name, "__") {
			options = append(options, field.Name)
		}
	}
	sort.Strings(options)

	if suggestions := util.SuggestionList(fieldName, options); len(suggestions) > 0 {
		message += fmt.Sprintf(" Did you mean %s?", util.OrList(suggestions, 5, true))
	}
	return message
}

// Definition returns the schema loaded from the type definitions.
func (schema *Schema) Definition() *ast.Schema {
	return schema.definition
}

// Query returns the query root type.
func (schema *Schema) Query() *ast.Definition {
	return schema.definition.Query
}

// Mutation returns the mutation root type or nil if the schema doesn't support mutations.
func (schema *Schema) Mutation() *ast.Definition {
	return schema.definition.Mutation
}

// Type finds a named type in the schema. It returns nil if not found.
func (schema *Schema) Type(name string) *ast.Definition {
	return schema.definition.Types[name]
}

// PossibleTypes returns the object types that may be the runtime type of an abstract type. For an
// object type, it returns the type itself.
func (schema *Schema) PossibleTypes(t *ast.Definition) []*ast.Definition {
	return schema.definition.GetPossibleTypes(t)
}

// FieldResolver returns the resolver that was bound to the field of the object type, or nil if the
// field uses the default resolver.
func (schema *Schema) FieldResolver(typeName string, fieldName string) FieldResolver {
	return schema.resolvers[typeName][fieldName]
}

// TypeResolver returns the resolver for determining the concrete type of values of the abstract
// type, or nil if none was provided.
func (schema *Schema) TypeResolver(typeName string) TypeResolver {
	return schema.typeResolvers[typeName]
}
