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

package handler_test

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/roofs-runner/gql-apollo/graphql/handler"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

// lockedBuffer collects log output written by the connection goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var _ = Describe("WebSocket", func() {
	var (
		counter int64
		server  *httptest.Server
		conn    *websocket.Conn
	)

	startServer := func(opts ...handler.WebSocketOption) {
		h, err := handler.NewLLHandler(&handler.LLConfig{Schema: counterSchema(&counter)})
		Expect(err).ShouldNot(HaveOccurred())
		server = httptest.NewServer(handler.NewWebSocketHandler(h, opts...))
	}

	dial := func(subprotocols ...string) *websocket.Conn {
		dialer := websocket.Dialer{Subprotocols: subprotocols}
		c, _, err := dialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
		Expect(err).ShouldNot(HaveOccurred())
		return c
	}

	send := func(message string) {
		Expect(conn.WriteMessage(websocket.TextMessage, []byte(message))).Should(Succeed())
	}

	receive := func() string {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		Expect(err).ShouldNot(HaveOccurred())
		return string(data)
	}

	expectClose := func(code int) {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, _, err := conn.ReadMessage()
		Expect(websocket.IsCloseError(err, code)).Should(BeTrue(), "%v", err)
	}

	BeforeEach(func() {
		counter = 0
	})

	AfterEach(func() {
		if conn != nil {
			conn.Close()
			conn = nil
		}
		server.Close()
	})

	Context("with an initialized connection", func() {
		BeforeEach(func() {
			startServer()
			conn = dial(handler.GraphQLTransportWSProtocol)
			Expect(conn.Subprotocol()).Should(Equal(handler.GraphQLTransportWSProtocol))

			send(`{"type":"connection_init"}`)
			Expect(receive()).Should(MatchJSON(`{"type":"connection_ack"}`))
		})

		It("executes queries", func() {
			send(`{"id":"1","type":"subscribe","payload":{"query":"query ($name: String) { greeting(name: $name) }","variables":{"name":"ws"}}}`)
			Expect(receive()).Should(MatchJSON(`{"id":"1","type":"next","payload":{"data":{"greeting":"Hello, ws"}}}`))
			Expect(receive()).Should(MatchJSON(`{"id":"1","type":"complete"}`))
		})

		It("executes mutations in order", func() {
			send(`{"id":"1","type":"subscribe","payload":{"query":"mutation { increment(by: 1) }"}}`)
			send(`{"id":"2","type":"subscribe","payload":{"query":"mutation { increment(by: 2) }"}}`)

			Expect(receive()).Should(MatchJSON(`{"id":"1","type":"next","payload":{"data":{"increment":1}}}`))
			Expect(receive()).Should(MatchJSON(`{"id":"1","type":"complete"}`))
			Expect(receive()).Should(MatchJSON(`{"id":"2","type":"next","payload":{"data":{"increment":3}}}`))
			Expect(receive()).Should(MatchJSON(`{"id":"2","type":"complete"}`))
		})

		It("sends error message for invalid operations", func() {
			send(`{"id":"bad","type":"subscribe","payload":{"query":"{ unknown }"}}`)
			Expect(receive()).Should(MatchJSON(`{
				"id": "bad",
				"type": "error",
				"payload": [{
					"message": "Cannot query field \"unknown\" on type \"Query\".",
					"locations": [{ "line": 1, "column": 3 }]
				}]
			}`))
		})

		It("answers ping with pong", func() {
			send(`{"type":"ping","payload":{"at":1}}`)
			Expect(receive()).Should(MatchJSON(`{"type":"pong","payload":{"at":1}}`))
		})

		It("ignores complete messages", func() {
			send(`{"id":"1","type":"complete"}`)
			send(`{"type":"ping"}`)
			Expect(receive()).Should(MatchJSON(`{"type":"pong"}`))
		})

		It("closes the connection on duplicated initialization", func() {
			send(`{"type":"connection_init"}`)
			expectClose(4429)
		})

		It("closes the connection on invalid messages", func() {
			send(`not json`)
			expectClose(4400)
		})

		It("closes the connection on unknown message types", func() {
			send(`{"type":"start"}`)
			expectClose(4400)
		})
	})

	It("logs complete messages for operations that already finished", func() {
		var logs lockedBuffer
		startServer(handler.WebSocketLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
		conn = dial(handler.GraphQLTransportWSProtocol)

		send(`{"type":"connection_init"}`)
		Expect(receive()).Should(MatchJSON(`{"type":"connection_ack"}`))

		send(`{"id":"1","type":"subscribe","payload":{"query":"{ count }"}}`)
		Expect(receive()).Should(MatchJSON(`{"id":"1","type":"next","payload":{"data":{"count":0}}}`))
		Expect(receive()).Should(MatchJSON(`{"id":"1","type":"complete"}`))

		send(`{"id":"1","type":"complete"}`)
		send(`{"id":"unknown","type":"complete"}`)
		send(`{"type":"ping"}`)
		Expect(receive()).Should(MatchJSON(`{"type":"pong"}`))

		Expect(logs.String()).Should(ContainSubstring(`"id":"1","message":"ignored complete for a finished operation"`))
		Expect(logs.String()).Should(ContainSubstring(`"id":"unknown","message":"ignored complete for a finished operation"`))
	})

	It("refuses operations before initialization", func() {
		startServer()
		conn = dial(handler.GraphQLTransportWSProtocol)
		send(`{"id":"1","type":"subscribe","payload":{"query":"{ count }"}}`)
		expectClose(4401)
	})

	It("closes the connection when initialization times out", func() {
		startServer(handler.ConnectionInitTimeout(50 * time.Millisecond))
		conn = dial(handler.GraphQLTransportWSProtocol)
		expectClose(4408)
	})

	It("closes the connection without the subprotocol", func() {
		startServer()
		conn = dial()
		expectClose(websocket.CloseProtocolError)
	})
})
