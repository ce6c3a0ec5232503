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

	"github.com/roofs-runner/gql-apollo/graphql"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// PreparedOperation is like "prepared statement" in conventional DBMS. In GraphQL, an Operation is
// an executable definition in GraphQL Document. Before executing an operation, executor needs to
// make some "preparations" such as parsing and validation. PreparedOperation allows you to perform
// these static tasks in advance to save the overheads for subsequent repeatedly execution. It is
// safe to execute a PreparedOperation from multiple goroutines.
//
// Reference: https://spec.graphql.org/June2018/#sec-Language.Operations
type PreparedOperation struct {
	// Schema of the type system that is currently executing
	schema *graphql.Schema

	// Document that contains definitions for this operation
	document *ast.QueryDocument

	// Definition of this operation
	definition *ast.OperationDefinition

	// rootType extracts the root type corresponding to the operation in the schema.
	rootType *ast.Definition

	// Resolver to be used for resolving field value when the field doesn't provide one.
	defaultFieldResolver graphql.FieldResolver
}

// PrepareParams specifies parameters to Prepare. All data are required except OperationName and
// DefaultFieldResolver.
type PrepareParams struct {
	// Schema of the type system that this operation is executing on
	Schema *graphql.Schema

	// Query is the source text of the GraphQL document
	Query string

	// The name of the Operation in the Document to execute.
	OperationName string

	// Resolver to be used to fields without providing custom resolvers.
	DefaultFieldResolver graphql.FieldResolver
}

// Prepare parses and validates the query document against the schema, then selects the operation
// to execute from the document.
func Prepare(params PrepareParams) (*PreparedOperation, graphql.Errors) {
	schema := params.Schema
	if schema == nil {
		return nil, graphql.ErrorsOf("Must provide schema.", graphql.ErrKindInternal)
	}

	document, gqlErrs := gqlparser.LoadQuery(schema.Definition(), params.Query)
	if len(gqlErrs) > 0 {
		return nil, graphql.ErrorsFromGQL(gqlErrs)
	}

	operationName := params.OperationName
	operation := document.Operations.ForName(operationName)
	if operation == nil {
		if len(operationName) > 0 {
			return nil, graphql.ErrorsOf(fmt.Sprintf(`Unknown operation named "%s".`, operationName))
		} else if len(document.Operations) > 1 {
			return nil, graphql.ErrorsOf("Must provide operation name if query contains multiple operations.")
		}
		return nil, graphql.ErrorsOf("Must provide an operation.")
	}

	// Extract the root operation type.
	var rootType *ast.Definition
	switch operation.Operation {
	case ast.Query:
		rootType = schema.Query()

	case ast.Mutation:
		rootType = schema.Mutation()
		if rootType == nil {
			return nil, graphql.ErrorsOf(
				"Schema is not configured for mutations.",
				graphql.ErrorLocationOf(operation.Position))
		}

	case ast.Subscription:
		return nil, graphql.ErrorsOf(
			"Subscriptions are not supported.",
			graphql.ErrorLocationOf(operation.Position))

	default:
		return nil, graphql.ErrorsOf(
			"Can only have query and mutation operations.",
			graphql.ErrorLocationOf(operation.Position))
	}

	defaultFieldResolver := params.DefaultFieldResolver
	if defaultFieldResolver == nil {
		defaultFieldResolver = NewDefaultFieldResolver()
	}

	return &PreparedOperation{
		schema:               schema,
		document:             document,
		definition:           operation,
		rootType:             rootType,
		defaultFieldResolver: defaultFieldResolver,
	}, graphql.NoErrors()
}

// MustPrepare is a convenience function equivalent to Prepare but panics on failure instead of
// returning errors.
func MustPrepare(params PrepareParams) *PreparedOperation {
	operation, errs := Prepare(params)
	if errs.HaveOccurred() {
		panic(errs)
	}
	return operation
}

// Schema returns the type system definition which the operation is based on.
func (operation *PreparedOperation) Schema() *graphql.Schema {
	return operation.schema
}

// Document returns the request document.
func (operation *PreparedOperation) Document() *ast.QueryDocument {
	return operation.document
}

// VariableDefinitions returns the variable definitions describing the variables taken by the
// operation.
func (operation *PreparedOperation) VariableDefinitions() ast.VariableDefinitionList {
	return operation.definition.VariableDefinitions
}

// ExecuteParams specifies parameter to execute a prepared operation.
type ExecuteParams struct {
	// RootValue is an initial value corresponding to the root type being executed.
	RootValue interface{}

	// AppContext is an application-specific data that will get passed to all resolve functions.
	AppContext interface{}

	// VariableValues contains values for any Variables defined by the Operation.
	VariableValues map[string]interface{}
}

// Execute executes the given operation. ctx specifies deadline and/or cancellation for the
// execution. Root fields of a query and of a mutation are both executed one after another in the
// order they appear in the document, so the side effects of a mutation field are visible to the
// ones following it.
func (operation *PreparedOperation) Execute(c context.Context, params ExecuteParams) ExecutionResult {
	ctx, errs := newExecutionContext(c, operation, &params)
	if errs.HaveOccurred() {
		return ExecutionResult{
			Errors: errs,
		}
	}
	return execute(ctx)
}

// RootType returns operation.rootType.
func (operation *PreparedOperation) RootType() *ast.Definition {
	return operation.rootType
}

// Definition returns operation.definition.
func (operation *PreparedOperation) Definition() *ast.OperationDefinition {
	return operation.definition
}

// Type returns the type of the operation.
func (operation *PreparedOperation) Type() ast.Operation {
	return operation.definition.Operation
}

// FragmentDef finds the fragment definition for given name.
func (operation *PreparedOperation) FragmentDef(name string) *ast.FragmentDefinition {
	return operation.document.Fragments.ForName(name)
}

// DefaultFieldResolver returns operation.defaultFieldResolver.
func (operation *PreparedOperation) DefaultFieldResolver() graphql.FieldResolver {
	return operation.defaultFieldResolver
}
