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

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/graphql/executor"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"
)

// GraphQLTransportWSProtocol is the WebSocket subprotocol served by WebSocketHandler.
const GraphQLTransportWSProtocol = "graphql-transport-ws"

// Message types of graphql-transport-ws protocol
const (
	wsConnectionInit = "connection_init"
	wsConnectionAck  = "connection_ack"
	wsPing           = "ping"
	wsPong           = "pong"
	wsSubscribe      = "subscribe"
	wsNext           = "next"
	wsError          = "error"
	wsComplete       = "complete"
)

// Close codes of graphql-transport-ws protocol
const (
	wsCloseInvalidMessage      = 4400
	wsCloseUnauthorized        = 4401
	wsCloseInitTimeout         = 4408
	wsCloseTooManyInitRequests = 4429
)

// DefaultConnectionInitTimeout is the time allowed for a client to send connection_init after the
// connection is established.
const DefaultConnectionInitTimeout = 10 * time.Second

type wsMessage struct {
	ID      string              `json:"id,omitempty"`
	Type    string              `json:"type"`
	Payload jsoniter.RawMessage `json:"payload,omitempty"`
}

type wsSubscribePayload struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// WebSocketHandler serves GraphQL operations over WebSocket connections speaking the
// graphql-transport-ws protocol. Queries and mutations result in a single "next" message followed by
// "complete". Operations of a connection run one at a time in the order they are received, so an
// operation has already completed when the client's "complete" for it is read. Such a "complete" is
// logged at debug level and otherwise ignored.
type WebSocketHandler struct {
	handler     *LLHandler
	upgrader    websocket.Upgrader
	initTimeout time.Duration
	logger      zerolog.Logger
}

// WebSocketOption configures a WebSocketHandler.
type WebSocketOption func(h *WebSocketHandler)

// WebSocketLogger sets the logger for connection events.
func WebSocketLogger(logger zerolog.Logger) WebSocketOption {
	return func(h *WebSocketHandler) {
		h.logger = logger
	}
}

// ConnectionInitTimeout sets the time allowed for a client to initialize the connection.
func ConnectionInitTimeout(timeout time.Duration) WebSocketOption {
	return func(h *WebSocketHandler) {
		h.initTimeout = timeout
	}
}

// CheckOrigin sets the function for the upgrader to validate the Origin header. Requests from any
// origin are accepted by default.
func CheckOrigin(check func(r *http.Request) bool) WebSocketOption {
	return func(h *WebSocketHandler) {
		h.upgrader.CheckOrigin = check
	}
}

// NewWebSocketHandler creates a WebSocketHandler that serves requests with handler.
func NewWebSocketHandler(handler *LLHandler, opts ...WebSocketOption) *WebSocketHandler {
	h := &WebSocketHandler{
		handler: handler,
		upgrader: websocket.Upgrader{
			Subprotocols: []string{GraphQLTransportWSProtocol},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		initTimeout: DefaultConnectionInitTimeout,
		logger:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ServeHTTP upgrades the request to a WebSocket connection and serves it until the connection is
// closed.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has replied to the client.
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	c := &wsConnection{
		handler: h,
		conn:    conn,
		ctx:     r.Context(),
		logger:  h.logger.With().Str("remote_addr", r.RemoteAddr).Logger(),
	}

	if conn.Subprotocol() != GraphQLTransportWSProtocol {
		c.close(websocket.CloseProtocolError, "Unsupported subprotocol")
		return
	}

	c.run()
}

type wsConnection struct {
	handler      *WebSocketHandler
	conn         *websocket.Conn
	ctx          context.Context
	logger       zerolog.Logger
	initReceived bool
}

func (c *wsConnection) run() {
	c.logger.Debug().Msg("websocket connection opened")
	defer c.logger.Debug().Msg("websocket connection closed")

	if c.handler.initTimeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.handler.initTimeout))
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			var netErr interface{ Timeout() bool }
			if !c.initReceived && errors.As(err, &netErr) && netErr.Timeout() {
				c.close(wsCloseInitTimeout, "Connection initialisation timeout")
			}
			return
		}

		var message wsMessage
		if err := requestJSON.Unmarshal(data, &message); err != nil || len(message.Type) == 0 {
			c.close(wsCloseInvalidMessage, "Invalid message received")
			return
		}

		if !c.handleMessage(&message) {
			return
		}
	}
}

// handleMessage processes a message. It returns false when the connection has been closed.
func (c *wsConnection) handleMessage(message *wsMessage) bool {
	switch message.Type {
	case wsConnectionInit:
		if c.initReceived {
			c.close(wsCloseTooManyInitRequests, "Too many initialisation requests")
			return false
		}
		c.initReceived = true
		c.conn.SetReadDeadline(time.Time{})
		return c.write(&wsMessage{Type: wsConnectionAck})

	case wsPing:
		return c.write(&wsMessage{Type: wsPong, Payload: message.Payload})

	case wsPong:
		return true

	case wsSubscribe:
		if !c.initReceived {
			c.close(wsCloseUnauthorized, "Unauthorized")
			return false
		}
		if len(message.ID) == 0 {
			c.close(wsCloseInvalidMessage, "Invalid message received")
			return false
		}
		return c.subscribe(message)

	case wsComplete:
		c.logger.Debug().Str("id", message.ID).Msg("ignored complete for a finished operation")
		return true
	}

	c.close(wsCloseInvalidMessage, "Invalid message received")
	return false
}

func (c *wsConnection) subscribe(message *wsMessage) bool {
	var payload wsSubscribePayload
	if err := requestJSON.Unmarshal(message.Payload, &payload); err != nil {
		c.close(wsCloseInvalidMessage, "Invalid message received")
		return false
	}

	operation, errs := c.handler.handler.Prepare(c.ctx, payload.Query, payload.OperationName)
	if errs.HaveOccurred() {
		return c.writeErrors(message.ID, errs)
	}

	result := c.handler.handler.Serve(&Request{
		Ctx:       c.ctx,
		Operation: operation,
		Params: executor.ExecuteParams{
			VariableValues: payload.Variables,
		},
	})

	// Results without data are the requests rejected before execution.
	if result.Data == nil && result.Errors.HaveOccurred() {
		return c.writeErrors(message.ID, result.Errors)
	}

	data, err := result.MarshalJSON()
	if err != nil {
		c.logger.Error().Err(err).Str("id", message.ID).Msg("failed to encode execution result")
		c.close(websocket.CloseInternalServerErr, "Internal server error")
		return false
	}

	return c.write(&wsMessage{ID: message.ID, Type: wsNext, Payload: data}) &&
		c.write(&wsMessage{ID: message.ID, Type: wsComplete})
}

func (c *wsConnection) writeErrors(id string, errs graphql.Errors) bool {
	data, err := requestJSON.Marshal(errs.Errors)
	if err != nil {
		c.close(websocket.CloseInternalServerErr, "Internal server error")
		return false
	}
	return c.write(&wsMessage{ID: id, Type: wsError, Payload: data})
}

func (c *wsConnection) write(message *wsMessage) bool {
	data, err := requestJSON.Marshal(message)
	if err == nil {
		err = c.conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		c.logger.Debug().Err(err).Str("type", message.Type).Msg("failed to write websocket message")
		return false
	}
	return true
}

func (c *wsConnection) close(code int, text string) {
	c.logger.Debug().Int("code", code).Str("reason", text).Msg("closing websocket connection")
	deadline := time.Now().Add(time.Second)
	c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}
