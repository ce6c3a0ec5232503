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

	"github.com/vektah/gqlparser/v2/ast"
)

// An ExecutionNode represents a field to be evaluated (executed). It is computed at the first time
// a field evaluates its selection set where variable values and field's runtime type are both
// known.
//
// Every node stores information computed in CollectFields: field arguments were coerced,
// @include/@skip was evaluated, selection set was flatten in node, field selections in the set with
// the same response key were coalesced. A node is revisited for every item when resolving a List
// value, so the computation is done once per runtime type. Field resolvers can also look at this
// information through graphql.ResolveInfo.
//
// Reference: https://spec.graphql.org/June2018/#CollectFields()
type ExecutionNode struct {
	// Parent of this node in the graph; This is nil for root node.
	Parent *ExecutionNode

	// Field definitions for this node; Note that this is an array because a field could be requested
	// multiple times in the documents. Their results are merged into one field in the response. This
	// is nil for root node.
	Definitions []*ast.Field

	// The Object type that contains the field; This is nil for root node.
	ParentType *ast.Definition

	// The corresponding Field definition in the schema; This is nil for root node.
	Field *ast.FieldDefinition

	// Arguments to this field after input coercion
	Args graphql.ArgumentValues

	// Resolver to be called to get the value of this field
	Resolver graphql.FieldResolver

	// The child nodes of this node; Note that this is a map where key is the concrete type of the
	// node. Selection Sets in a field may vary subject to its runtime type.
	Children map[*ast.Definition][]*ExecutionNode
}

// IsRoot returns true if this node represents a root node.
func (node *ExecutionNode) IsRoot() bool {
	return node.Parent == nil
}

// ResponseKey is the field alias name if defined, otherwise the field name.
func (node *ExecutionNode) ResponseKey() string {
	definition := node.Definitions[0]
	if len(definition.Alias) > 0 {
		return definition.Alias
	}
	return definition.Name
}

// typeNameResolver resolves the meta field "__typename".
var typeNameResolver = graphql.FieldResolverFunc(
	func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
		return info.Object().Name, nil
	})

// introspectionResolver rejects "__schema" and "__type" queries. Introspection is not served by
// this executor.
var introspectionResolver = graphql.FieldResolverFunc(
	func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
		return nil, graphql.NewError(
			fmt.Sprintf(`Introspection field "%s" is not supported.`, info.Field().Name),
			graphql.ErrKindExecution)
	})

// collectFields returns the child nodes of the given node for executing its selection set with the
// given runtime type. The result is memoized in the node.
func collectFields(ctx *ExecutionContext, node *ExecutionNode, runtimeType *ast.Definition) ([]*ExecutionNode, error) {
	if childNodes, exists := node.Children[runtimeType]; exists {
		return childNodes, nil
	}

	c := &fieldCollector{
		ctx:             ctx,
		parent:          node,
		runtimeType:     runtimeType,
		nodeByKey:       map[string]*ExecutionNode{},
		visitedFragment: map[string]bool{},
	}

	if node.IsRoot() {
		if err := c.collect(ctx.Operation().Definition().SelectionSet); err != nil {
			return nil, err
		}
	} else {
		for _, definition := range node.Definitions {
			if err := c.collect(definition.SelectionSet); err != nil {
				return nil, err
			}
		}
	}

	if node.Children == nil {
		node.Children = map[*ast.Definition][]*ExecutionNode{}
	}
	node.Children[runtimeType] = c.nodes
	return c.nodes, nil
}

type fieldCollector struct {
	ctx         *ExecutionContext
	parent      *ExecutionNode
	runtimeType *ast.Definition

	// Nodes in the order of their first appearance in the selection set
	nodes []*ExecutionNode

	// Map response key to the node in nodes
	nodeByKey map[string]*ExecutionNode

	// Fragments that have been spread into the selection set
	visitedFragment map[string]bool
}

func (c *fieldCollector) collect(selectionSet ast.SelectionSet) error {
	for _, selection := range selectionSet {
		switch selection := selection.(type) {
		case *ast.Field:
			include, err := shouldIncludeNode(c.ctx, selection.Directives)
			if err != nil {
				return err
			} else if !include {
				continue
			}

			responseKey := selection.Alias
			if len(responseKey) == 0 {
				responseKey = selection.Name
			}

			if node, exists := c.nodeByKey[responseKey]; exists {
				node.Definitions = append(node.Definitions, selection)
				continue
			}

			node, err := c.newNode(selection)
			if err != nil {
				return err
			}
			c.nodeByKey[responseKey] = node
			c.nodes = append(c.nodes, node)

		case *ast.InlineFragment:
			include, err := shouldIncludeNode(c.ctx, selection.Directives)
			if err != nil {
				return err
			} else if !include {
				continue
			}

			if len(selection.TypeCondition) > 0 &&
				!doesTypeConditionSatisfy(c.ctx, selection.TypeCondition, c.runtimeType) {
				continue
			}

			if err := c.collect(selection.SelectionSet); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			include, err := shouldIncludeNode(c.ctx, selection.Directives)
			if err != nil {
				return err
			} else if !include {
				continue
			}

			if c.visitedFragment[selection.Name] {
				continue
			}
			c.visitedFragment[selection.Name] = true

			fragment := c.ctx.Operation().FragmentDef(selection.Name)
			if fragment == nil {
				return graphql.NewError(
					fmt.Sprintf(`Unknown fragment "%s".`, selection.Name),
					graphql.ErrorLocationOf(selection.Position),
					graphql.ErrKindExecution)
			}

			if !doesTypeConditionSatisfy(c.ctx, fragment.TypeCondition, c.runtimeType) {
				continue
			}

			if err := c.collect(fragment.SelectionSet); err != nil {
				return err
			}
		}
	}

	return nil
}

func (c *fieldCollector) newNode(selection *ast.Field) (*ExecutionNode, error) {
	node := &ExecutionNode{
		Parent:      c.parent,
		Definitions: []*ast.Field{selection},
		ParentType:  c.runtimeType,
		Args:        graphql.NoArgumentValues(),
	}

	switch selection.Name {
	case "__typename":
		node.Field = &ast.FieldDefinition{
			Name: "__typename",
			Type: ast.NonNullNamedType("String", nil),
		}
		node.Resolver = typeNameResolver
		return node, nil

	case "__schema", "__type":
		node.Field = selection.Definition
		if node.Field == nil {
			node.Field = &ast.FieldDefinition{
				Name: selection.Name,
				Type: ast.NamedType("__Type", nil),
			}
		}
		node.Resolver = introspectionResolver
		return node, nil
	}

	field := c.runtimeType.Fields.ForName(selection.Name)
	if field == nil {
		return nil, graphql.NewError(
			fmt.Sprintf(`Cannot query field "%s" on type "%s".`, selection.Name, c.runtimeType.Name),
			graphql.ErrorLocationOf(selection.Position),
			graphql.ErrKindExecution)
	}
	node.Field = field

	args, err := argumentValues(c.ctx, field, selection)
	if err != nil {
		return nil, err
	}
	node.Args = args

	node.Resolver = c.ctx.Operation().Schema().FieldResolver(c.runtimeType.Name, field.Name)
	if node.Resolver == nil {
		node.Resolver = c.ctx.Operation().DefaultFieldResolver()
	}

	return node, nil
}

// argumentValues prepares the argument values for the field selection. Variables are substituted
// and defaults are applied before every value goes through input coercion.
//
// Reference: https://spec.graphql.org/June2018/#CoerceArgumentValues()
func argumentValues(ctx *ExecutionContext, field *ast.FieldDefinition, selection *ast.Field) (graphql.ArgumentValues, error) {
	if len(field.Arguments) == 0 {
		return graphql.NoArgumentValues(), nil
	}

	rawValues := selection.ArgumentMap(ctx.VariableValues().Values())
	values := make(map[string]interface{}, len(rawValues))
	schema := ctx.Operation().Schema()

	for _, arg := range field.Arguments {
		rawValue, exists := rawValues[arg.Name]
		if !exists {
			if arg.Type.NonNull {
				return graphql.NoArgumentValues(), graphql.NewError(
					fmt.Sprintf(`Argument "%s" of required type "%s" was not provided.`, arg.Name, arg.Type.String()),
					graphql.ErrorLocationOf(selection.Position),
					graphql.ErrKindCoercion)
			}
			continue
		}

		value, err := graphql.CoerceInputValue(schema, arg.Type, rawValue)
		if err != nil {
			return graphql.NoArgumentValues(), graphql.NewError(
				fmt.Sprintf(`Argument "%s" has invalid value.`, arg.Name),
				graphql.ErrorLocationOf(selection.Position),
				graphql.ErrKindCoercion,
				err)
		}
		values[arg.Name] = value
	}

	return graphql.NewArgumentValues(values), nil
}

// shouldIncludeNode determines if a field should be included based on the @include and @skip
// directives, where @skip has higher precedence than @include.
//
// Reference: https://spec.graphql.org/June2018/#sec--include
func shouldIncludeNode(ctx *ExecutionContext, directives ast.DirectiveList) (bool, error) {
	variables := ctx.VariableValues().Values()

	if skip := directives.ForName("skip"); skip != nil {
		if skipIf, _ := directiveCondition(skip, variables); skipIf {
			return false, nil
		}
	}

	if include := directives.ForName("include"); include != nil {
		if includeIf, _ := directiveCondition(include, variables); !includeIf {
			return false, nil
		}
	}

	return true, nil
}

func directiveCondition(directive *ast.Directive, variables map[string]interface{}) (bool, bool) {
	arg := directive.Arguments.ForName("if")
	if arg == nil || arg.Value == nil {
		return false, false
	}
	value, err := arg.Value.Value(variables)
	if err != nil {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// doesTypeConditionSatisfy determines if a type condition is satisfied with the given type.
func doesTypeConditionSatisfy(ctx *ExecutionContext, typeCondition string, t *ast.Definition) bool {
	if typeCondition == t.Name {
		return true
	}

	schema := ctx.Operation().Schema()
	conditionalType := schema.Type(typeCondition)
	if conditionalType == nil {
		return false
	}

	if conditionalType.IsAbstractType() {
		for _, possibleType := range schema.PossibleTypes(conditionalType) {
			if possibleType.Name == t.Name {
				return true
			}
		}
	}
	return false
}
