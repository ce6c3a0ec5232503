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
	"github.com/roofs-runner/gql-apollo/graphql"

	"github.com/vektah/gqlparser/v2/ast"
)

// resolveInfo implements graphql.ResolveInfo to provide execution states for field and type
// resolvers.
type resolveInfo struct {
	ctx        *ExecutionContext
	node       *ExecutionNode
	parentType *ast.Definition
	result     *ResultNode
}

var _ graphql.ResolveInfo = (*resolveInfo)(nil)

// Schema implements graphql.ResolveInfo.
func (info *resolveInfo) Schema() *graphql.Schema {
	return info.ctx.Operation().Schema()
}

// Operation implements graphql.ResolveInfo.
func (info *resolveInfo) Operation() *ast.OperationDefinition {
	return info.ctx.Operation().Definition()
}

// RootValue implements graphql.ResolveInfo.
func (info *resolveInfo) RootValue() interface{} {
	return info.ctx.RootValue()
}

// AppContext implements graphql.ResolveInfo.
func (info *resolveInfo) AppContext() interface{} {
	return info.ctx.AppContext()
}

// VariableValues implements graphql.ResolveInfo.
func (info *resolveInfo) VariableValues() graphql.VariableValues {
	return info.ctx.VariableValues()
}

// Object implements graphql.ResolveInfo.
func (info *resolveInfo) Object() *ast.Definition {
	return info.parentType
}

// FieldDefinitions implements graphql.ResolveInfo.
func (info *resolveInfo) FieldDefinitions() []*ast.Field {
	return info.node.Definitions
}

// Field implements graphql.ResolveInfo.
func (info *resolveInfo) Field() *ast.FieldDefinition {
	return info.node.Field
}

// Path implements graphql.ResolveInfo.
func (info *resolveInfo) Path() graphql.ResponsePath {
	return info.result.Path()
}

// Args implements graphql.ResolveInfo.
func (info *resolveInfo) Args() graphql.ArgumentValues {
	return info.node.Args
}
