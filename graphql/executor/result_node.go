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
)

// ResultKind specifies which kind of value is held in the ResultNode. More specifically, it
// describes the type of ResultNode.Value.
type ResultKind uint8

// Enumeration of ResultKind
const (
	// ResultNode has not been completed yet. Execution may stop before every node is completed when
	// an error is propagated to an ancestor.
	ResultKindUnresolved ResultKind = iota

	// ResultNode was resolved to a nil value (either because the field resolve to a nil value
	// or because an error occurred.) The Value contains an nil interface.
	ResultKindNil

	// ResultNode was resolved to a List value. The value contains an []ResultNode.
	ResultKindList

	// ResultNode was resolved to an Object value. The value contains an *ObjectResultValue.
	ResultKindObject

	// ResultNode was resolved to a Scalar or Enum value. The value contains the value that has gone
	// through type's result coercion.
	ResultKindLeaf
)

// ResultFlag includes some useful properties of this ResultNode.
type ResultFlag uint8

// Enumeration of ResultFlag
const (
	// ResultNode must represents a value other than nil.
	ResultFlagNonNull ResultFlag = 1 << iota
)

// A ResultNode holds a field value. Result data from an execution of a GraphQL operation is made up
// of ResultNode's formed in a tree structure which is serialized to the "data" entry of the
// response.
//
// Reference: https://spec.graphql.org/June2018/#sec-Data
type ResultNode struct {
	// Pointer to the upper level of ResultNode in the result tree
	Parent *ResultNode

	// Kind describes kind of Value
	Kind ResultKind

	// Flags describes properties of Value. It is a bit set containing ResultFlag's.
	Flags ResultFlag

	// The result value; This could be in a various format based on Kind.
	Value interface{}
}

// ObjectResultValue stores result from executing the selection set of an Object.
type ObjectResultValue struct {
	// The ExecutionNode's of the selection set that resolved FieldValues
	ExecutionNodes []*ExecutionNode

	// Results of the ExecutionNode's at the same index in ExecutionNodes.
	FieldValues []ResultNode
}

// IsUnresolved describes the result has not been completed.
func (node *ResultNode) IsUnresolved() bool {
	return node.Kind == ResultKindUnresolved
}

// IsNil returns true if the node holds nil value (either because the field resolve to a nil value
// or because an error occurred.)
func (node *ResultNode) IsNil() bool {
	return node.Kind == ResultKindNil
}

// IsList returns true if the node holds result for a List field.
func (node *ResultNode) IsList() bool {
	return node.Kind == ResultKindList
}

// IsObject returns true if the node holds result for an Object field.
func (node *ResultNode) IsObject() bool {
	return node.Kind == ResultKindObject
}

// IsLeaf returns true if the node holds result for a Scalar or a Enum field.
func (node *ResultNode) IsLeaf() bool {
	return node.Kind == ResultKindLeaf
}

// SetIsNonNull marks the result to not have a nil value.
func (node *ResultNode) SetIsNonNull() {
	node.Flags |= ResultFlagNonNull
}

// IsNonNull describes the result should not be nil.
func (node *ResultNode) IsNonNull() bool {
	return node.Flags&ResultFlagNonNull != 0
}

// SetNil discards the value held by the node.
func (node *ResultNode) SetNil() {
	node.Kind = ResultKindNil
	node.Value = nil
}

// ListValue returns a value that is held by this node for a List field. It would panic if this is
// not a resolved List result (i.e., IsList returns false).
func (node *ResultNode) ListValue() []ResultNode {
	return node.Value.([]ResultNode)
}

// ObjectValue returns a value that is held by this node for a Object field. It would panic if this
// is not a resolved Object result (i.e., IsObject returns false).
func (node *ResultNode) ObjectValue() *ObjectResultValue {
	return node.Value.(*ObjectResultValue)
}

// Path in the response to this node.
func (node *ResultNode) Path() graphql.ResponsePath {
	var keys []interface{}

	child := node
	for parent := node.Parent; parent != nil; parent = parent.Parent {
		switch parent.Kind {
		case ResultKindList:
			if index := indexOfResultNode(parent.ListValue(), child); index >= 0 {
				keys = append(keys, index)
			}

		case ResultKindObject:
			object := parent.ObjectValue()
			if index := indexOfResultNode(object.FieldValues, child); index >= 0 {
				keys = append(keys, object.ExecutionNodes[index].ResponseKey())
			}
		}
		child = parent
	}

	var path graphql.ResponsePath
	for i := len(keys) - 1; i >= 0; i-- {
		switch key := keys[i].(type) {
		case int:
			path.AppendIndex(key)
		case string:
			path.AppendFieldName(key)
		}
	}
	return path
}

func indexOfResultNode(nodes []ResultNode, node *ResultNode) int {
	for i := range nodes {
		if &nodes[i] == node {
			return i
		}
	}
	return -1
}
