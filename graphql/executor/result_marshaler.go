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
	"io"

	"github.com/roofs-runner/gql-apollo/graphql"

	jsoniter "github.com/json-iterator/go"
)

// resultJSON is the configuration for encoding results. Map keys are sorted so leaf values of custom
// scalars encode deterministically.
var resultJSON = jsoniter.Config{
	EscapeHTML:  true,
	SortMapKeys: true,
}.Froze()

func newStream(w io.Writer) *jsoniter.Stream {
	return jsoniter.NewStream(resultJSON, w, 512)
}

// writeExecutionResult writes the response map for the result.
func writeExecutionResult(stream *jsoniter.Stream, result *ExecutionResult) {
	stream.WriteObjectStart()

	// The "errors" entry is placed first in response to make it clear.
	//
	// Reference: https://spec.graphql.org/June2018/#sec-Response-Format
	if result.Errors.HaveOccurred() {
		stream.WriteObjectField("errors")
		stream.WriteVal(result.Errors.Errors)
		if result.Data != nil {
			stream.WriteMore()
		}
	}

	if result.Data != nil {
		stream.WriteObjectField("data")
		writeResultNode(stream, result.Data)
	}

	stream.WriteObjectEnd()
}

// writeResultNode writes the JSON encoding of the result tree rooted at node. Fields appear in the
// order of the selection set.
func writeResultNode(stream *jsoniter.Stream, node *ResultNode) {
	switch node.Kind {
	case ResultKindList:
		items := node.ListValue()
		if len(items) == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i := range items {
			if i > 0 {
				stream.WriteMore()
			}
			writeResultNode(stream, &items[i])
		}
		stream.WriteArrayEnd()

	case ResultKindObject:
		object := node.ObjectValue()
		if len(object.FieldValues) != len(object.ExecutionNodes) {
			stream.Error = graphql.NewError("malformed object result value: mismatch length of "+
				"field values with the execution nodes", graphql.ErrKindInternal)
			return
		}
		if len(object.FieldValues) == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, executionNode := range object.ExecutionNodes {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(executionNode.ResponseKey())
			writeResultNode(stream, &object.FieldValues[i])
		}
		stream.WriteObjectEnd()

	case ResultKindLeaf:
		stream.WriteVal(node.Value)

	default:
		// Nil and the nodes left unresolved when execution stopped early
		stream.WriteNil()
	}
}

// MarshalJSON implements json.Marshaler interface for ResultNode.
func (node *ResultNode) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	stream := newStream(&buf)
	writeResultNode(stream, node)
	if stream.Error != nil {
		return nil, stream.Error
	}
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
