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
	"errors"
	"fmt"

	"github.com/roofs-runner/gql-apollo/graphql"

	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
)

// An ExecutionContext contains data which are required to fulfill a request for exeuction. The
// context includes the operation to execute, variables supplied and request-specific values, etc..
type ExecutionContext struct {
	// Context for the execution
	ctx context.Context

	// operation being executed.
	operation *PreparedOperation

	// rootValue is the "source" data for the top level field ("root fields").
	rootValue interface{}

	// appContext contains application-specific data which will get passed to all resolve functions.
	appContext interface{}

	// variableValues contains values to the parameters in current query. The values has passed input
	// coercion.
	variableValues graphql.VariableValues

	// Errors that occurred during execution
	errs graphql.Errors
}

// newExecutionContext initializes an ExecutionContext given the operation to execute and the
// request data.
func newExecutionContext(ctx context.Context, operation *PreparedOperation, params *ExecuteParams) (*ExecutionContext, graphql.Errors) {
	variableValues, errs := coerceVariableValues(operation, params.VariableValues)
	if errs.HaveOccurred() {
		return nil, errs
	}

	return &ExecutionContext{
		ctx:            ctx,
		operation:      operation,
		rootValue:      params.RootValue,
		appContext:     params.AppContext,
		variableValues: variableValues,
	}, graphql.NoErrors()
}

// coerceVariableValues validates the provided variables against the variable definitions of the
// operation and applies defaults, then converts every value into the internal representation of
// its input type.
//
// Reference: https://spec.graphql.org/June2018/#CoerceVariableValues()
func coerceVariableValues(operation *PreparedOperation, inputs map[string]interface{}) (graphql.VariableValues, graphql.Errors) {
	definitions := operation.VariableDefinitions()
	if len(definitions) == 0 {
		return graphql.NoVariableValues(), graphql.NoErrors()
	}

	if inputs == nil {
		inputs = map[string]interface{}{}
	}

	schema := operation.Schema()
	values, err := validator.VariableValues(schema.Definition(), operation.Definition(), inputs)
	if err != nil {
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			return graphql.NoVariableValues(), graphql.ErrorsFromGQL(gqlerror.List{gqlErr})
		}
		return graphql.NoVariableValues(), graphql.ErrorsOf(err.Error(), graphql.ErrKindCoercion)
	}

	coerced := make(map[string]interface{}, len(values))
	for _, definition := range definitions {
		value, exists := values[definition.Variable]
		if !exists {
			continue
		}

		coercedValue, err := graphql.CoerceInputValue(schema, definition.Type, value)
		if err != nil {
			return graphql.NoVariableValues(), graphql.ErrorsOf(
				fmt.Sprintf(`Variable "$%s" got invalid value.`, definition.Variable),
				graphql.ErrorLocationOf(definition.Position),
				graphql.ErrKindCoercion,
				err)
		}
		coerced[definition.Variable] = coercedValue
	}

	return graphql.NewVariableValues(coerced), graphql.NoErrors()
}

// Context returns the context.Context for the execution.
func (context *ExecutionContext) Context() context.Context {
	return context.ctx
}

// Operation returns context.operation.
func (context *ExecutionContext) Operation() *PreparedOperation {
	return context.operation
}

// RootValue returns context.rootValue.
func (context *ExecutionContext) RootValue() interface{} {
	return context.rootValue
}

// AppContext returns context.appContext.
func (context *ExecutionContext) AppContext() interface{} {
	return context.appContext
}

// VariableValues returns context.variableValues.
func (context *ExecutionContext) VariableValues() graphql.VariableValues {
	return context.variableValues
}

// appendError records a field error for the result node and nulls the nearest nullable ancestor if
// the node is non-null. An error is dropped if the parent of the node has already been nulled by
// an earlier error.
//
// Reference: https://spec.graphql.org/June2018/#sec-Errors-and-Non-Nullability
func (context *ExecutionContext) appendError(err *graphql.Error, result *ResultNode) {
	if parent := result.Parent; parent != nil && parent.IsNil() {
		return
	}

	result.SetNil()
	context.errs.Errors = append(context.errs.Errors, err)

	for result.IsNonNull() && result.Parent != nil {
		result = result.Parent
		result.SetNil()
	}
}
