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
	"bytes"
	"fmt"
	"io"
	"reflect"

	"github.com/roofs-runner/gql-apollo/graphql"

	"github.com/vektah/gqlparser/v2/ast"
)

// ExecutionResult contains result from executing an operation. Data is nil if the execution failed
// before it started (e.g., invalid variable values). Otherwise a Data whose Kind is ResultKindNil
// means a non-null root field failed.
type ExecutionResult struct {
	Data   *ResultNode
	Errors graphql.Errors
}

// MarshalJSONTo writes the JSON encoding of result to the w followed by a newline.
func (result *ExecutionResult) MarshalJSONTo(w io.Writer) error {
	stream := newStream(w)
	writeExecutionResult(stream, result)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

// MarshalJSON implements json.Marshaler interface for ExecutionResult.
func (result ExecutionResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	stream := newStream(&buf)
	writeExecutionResult(stream, &result)
	if stream.Error != nil {
		return nil, stream.Error
	}
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// execute runs the selection set of the operation against the root value. Root fields are executed
// in the order they appear. If a field fails, the error is recorded and the execution continues
// unless the error nulls an enclosing object.
//
// Reference: https://spec.graphql.org/June2018/#sec-Executing-Operations
func execute(ctx *ExecutionContext) ExecutionResult {
	var (
		rootType = ctx.Operation().RootType()
		rootNode = &ExecutionNode{}
		data     = &ResultNode{}
	)

	nodes, err := collectFields(ctx, rootNode, rootType)
	if err != nil {
		return ExecutionResult{
			Errors: graphql.ErrorsOf(err),
		}
	}

	executeFields(ctx, data, nodes, rootType, ctx.RootValue())

	return ExecutionResult{
		Data:   data,
		Errors: ctx.errs,
	}
}

// executeFields executes the field nodes in order with source as the parent value and stores the
// results in result as an object.
func executeFields(
	ctx *ExecutionContext,
	result *ResultNode,
	nodes []*ExecutionNode,
	parentType *ast.Definition,
	source interface{}) {

	fieldValues := make([]ResultNode, len(nodes))
	result.Kind = ResultKindObject
	result.Value = &ObjectResultValue{
		ExecutionNodes: nodes,
		FieldValues:    fieldValues,
	}

	for i, node := range nodes {
		fieldResult := &fieldValues[i]
		fieldResult.Parent = result
		if node.Field.Type.NonNull {
			fieldResult.SetIsNonNull()
		}

		executeNode(ctx, node, parentType, fieldResult, source)

		// Stop if the error nulled this object. The results of the remaining fields are discarded.
		if result.IsNil() {
			return
		}
	}
}

// executeNode resolves the value of a field and completes it into result.
func executeNode(
	ctx *ExecutionContext,
	node *ExecutionNode,
	parentType *ast.Definition,
	result *ResultNode,
	source interface{}) {

	// Stop resolving new fields once the request is canceled.
	if err := ctx.Context().Err(); err != nil {
		handleNodeError(ctx, node, graphql.NewError(err.Error(), graphql.ErrKindExecution, err), result)
		return
	}

	info := &resolveInfo{
		ctx:        ctx,
		node:       node,
		parentType: parentType,
		result:     result,
	}

	value, err := node.Resolver.Resolve(ctx.Context(), source, info)
	if err != nil {
		handleNodeError(ctx, node, err, result)
		return
	}

	completeValue(ctx, node, node.Field.Type, result, value)
}

// handleNodeError builds a graphql.Error for an error value with the locations of the field and
// the path of the result, then records it in the ctx to indicate a failed field execution.
func handleNodeError(ctx *ExecutionContext, node *ExecutionNode, err error, result *ResultNode) {
	locations := graphql.ErrorLocationsOfFields(node.Definitions)
	path := result.Path()

	e, ok := err.(*graphql.Error)
	if !ok {
		e = graphql.NewError(err.Error(), locations, path, err).(*graphql.Error)
	} else {
		// Don't modify the error returned by resolver which may be shared.
		clone := *e
		clone.Locations = locations
		clone.Path = path
		e = &clone
	}

	ctx.appendError(e, result)
}

// completeValue implements "Value Completion". It ensures the value resolved from the field
// resolver adheres to the expected return type.
//
// Reference: https://spec.graphql.org/June2018/#sec-Value-Completion
func completeValue(
	ctx *ExecutionContext,
	node *ExecutionNode,
	returnType *ast.Type,
	result *ResultNode,
	value interface{}) {

	// A resolver may return an error value in place of a list item.
	if err, ok := value.(error); ok && err != nil {
		handleNodeError(ctx, node, err, result)
		return
	}

	value, isNull := indirect(value)
	if isNull {
		if returnType.NonNull {
			handleNodeError(ctx, node, graphql.NewError(
				fmt.Sprintf("Cannot return null for non-nullable field %s.", fieldCoordinate(node)),
				graphql.ErrKindExecution), result)
			return
		}
		result.SetNil()
		return
	}

	if returnType.Elem != nil {
		completeListValue(ctx, node, returnType, result, value)
		return
	}

	namedType := ctx.Operation().Schema().Type(returnType.NamedType)
	if namedType == nil {
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf(`Cannot complete value of unknown type "%s".`, returnType.NamedType),
			graphql.ErrKindInternal), result)
		return
	}

	switch namedType.Kind {
	case ast.Scalar, ast.Enum:
		completeLeafValue(ctx, node, namedType, result, value)

	case ast.Object:
		completeObjectValue(ctx, node, namedType, result, value)

	case ast.Interface, ast.Union:
		completeAbstractValue(ctx, node, namedType, result, value)

	default:
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf(`Cannot complete value of unexpected type "%s".`, namedType.Name),
			graphql.ErrKindInternal), result)
	}
}

// completeListValue completes each item in the list with the inner type of the list type.
func completeListValue(
	ctx *ExecutionContext,
	node *ExecutionNode,
	returnType *ast.Type,
	result *ResultNode,
	value interface{}) {

	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf("Expected Iterable, but did not find one for field %s.", fieldCoordinate(node)),
			graphql.ErrKindExecution), result)
		return
	}

	items := make([]ResultNode, v.Len())
	result.Kind = ResultKindList
	result.Value = items

	for i := range items {
		item := &items[i]
		item.Parent = result
		if returnType.Elem.NonNull {
			item.SetIsNonNull()
		}

		completeValue(ctx, node, returnType.Elem, item, v.Index(i).Interface())

		// Stop if an error from item has nulled the list.
		if result.IsNil() {
			return
		}
	}
}

// completeLeafValue serializes the value with the result coercion of the scalar or the enum.
func completeLeafValue(
	ctx *ExecutionContext,
	node *ExecutionNode,
	returnType *ast.Definition,
	result *ResultNode,
	value interface{}) {

	coerced, err := graphql.CoerceResultValue(returnType, value)
	if err != nil {
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf("Expected a value of type %s but received: %v", returnType.Name, value),
			err), result)
		return
	}

	result.Kind = ResultKindLeaf
	result.Value = coerced
}

// completeObjectValue executes the sub-selections of the field with the value as source.
func completeObjectValue(
	ctx *ExecutionContext,
	node *ExecutionNode,
	returnType *ast.Definition,
	result *ResultNode,
	value interface{}) {

	childNodes, err := collectFields(ctx, node, returnType)
	if err != nil {
		handleNodeError(ctx, node, err, result)
		return
	}

	executeFields(ctx, result, childNodes, returnType, value)
}

// completeAbstractValue determines the runtime Object type of the value with the type resolver
// of the Interface or the Union and then completes the value as that Object.
func completeAbstractValue(
	ctx *ExecutionContext,
	node *ExecutionNode,
	returnType *ast.Definition,
	result *ResultNode,
	value interface{}) {

	schema := ctx.Operation().Schema()
	typeResolver := schema.TypeResolver(returnType.Name)
	if typeResolver == nil {
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf("Abstract type %s must provide resolver to resolve to an Object type at "+
				"runtime for field %s.", returnType.Name, fieldCoordinate(node)),
			graphql.ErrKindExecution), result)
		return
	}

	info := &resolveInfo{
		ctx:        ctx,
		node:       node,
		parentType: returnType,
		result:     result,
	}
	typeName, err := typeResolver.ResolveType(ctx.Context(), value, info)
	if err != nil {
		handleNodeError(ctx, node, err, result)
		return
	}

	runtimeType := schema.Type(typeName)
	if runtimeType == nil || runtimeType.Kind != ast.Object {
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf(`Abstract type %s must resolve to an Object type at runtime for field %s `+
				`with value %v, received "%s".`, returnType.Name, fieldCoordinate(node), value, typeName),
			graphql.ErrKindExecution), result)
		return
	}

	if !doesTypeConditionSatisfy(ctx, returnType.Name, runtimeType) {
		handleNodeError(ctx, node, graphql.NewError(
			fmt.Sprintf(`Runtime Object type "%s" is not a possible type for "%s".`, runtimeType.Name, returnType.Name),
			graphql.ErrKindExecution), result)
		return
	}

	completeObjectValue(ctx, node, runtimeType, result, value)
}

// fieldCoordinate formats the field of the node as "Type.field" for error messages.
func fieldCoordinate(node *ExecutionNode) string {
	return node.ParentType.Name + "." + node.Field.Name
}

// indirect follows pointers and interfaces in value. It reports whether value is nil. Nil slices
// and maps are not treated as null.
func indirect(value interface{}) (interface{}, bool) {
	if value == nil {
		return nil, true
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, true
		}
		// Keep pointers to struct so methods with pointer receivers remain reachable.
		if v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Struct {
			return v.Interface(), false
		}
		v = v.Elem()
	}
	return v.Interface(), false
}
