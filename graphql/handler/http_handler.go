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
	"net/http"
	"time"

	"github.com/roofs-runner/gql-apollo/graphql"
	"github.com/roofs-runner/gql-apollo/graphql/executor"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/vektah/gqlparser/v2/ast"
)

// httpHandler implements a http.Handler which is based on LLHandler to serve GraphQL queries from
// HTTP requests.
type httpHandler struct {
	*LLHandler

	config httpHandlerConfig

	// The handler for presenting errors occurred during preparation of execution; It doesn't handle
	// errors occurred during execution (in which ResultPresenter is responsible for.)
	errorPresenter ErrorPresenter

	// The handles for building requests and writing responses; If not given, DefaultRequestBuilder
	// and DefaultResultPresenter are used, respectively.
	requestBuilder  RequestBuilder
	resultPresenter ResultPresenter

	// Serves the connections upgraded to WebSocket; nil if disabled.
	webSocketHandler *WebSocketHandler
}

// httpHandlerConfig contains configuration for a httpHandler.
type httpHandlerConfig struct {
	LLConfig

	// Configuration given to DefaultRequestBuilder; It is not applicable if custom
	// RequestBuilder is used.
	defaultRequestBuilderConfig DefaultRequestBuilderConfig

	operationCacheSize int
	logger             zerolog.Logger
	webSocket          bool

	errorPresenter  ErrorPresenter
	requestBuilder  RequestBuilder
	resultPresenter ResultPresenter
}

// Option configures httpHandler
type Option func(h *httpHandlerConfig)

// MaxBodySize sets the maximum number of bytes to be read from request body for ParseHTTPRequest
// called by DefaultRequestBuilder.
func MaxBodySize(size uint) Option {
	return func(h *httpHandlerConfig) {
		h.defaultRequestBuilderConfig.HTTPRequestParserOptions.MaxBodySize = size
	}
}

// OperationCacheSize sets the number of prepared operations kept in the LRU cache. A zero size
// disables the cache. It has no effect when OverrideOperationCache is given.
func OperationCacheSize(size int) Option {
	return func(h *httpHandlerConfig) {
		h.operationCacheSize = size
	}
}

// DefaultFieldResolver sets the resolver to be used when a field doesn't provide one.
func DefaultFieldResolver(resolver graphql.FieldResolver) Option {
	return func(h *httpHandlerConfig) {
		h.DefaultFieldResolver = resolver
	}
}

// Middlewares appends middlewares to be applied on every request before execution.
func Middlewares(middlewares ...RequestMiddleware) Option {
	return func(h *httpHandlerConfig) {
		h.Middlewares = append(h.Middlewares, middlewares...)
	}
}

// AppContext passes value to all resolvers as the AppContext of the execution.
func AppContext(value interface{}) Option {
	return Middlewares(AppContextMiddleware(value))
}

// Logger sets the logger for the handler. A summary of each request is logged at debug level and
// the logger is attached to the context given to resolvers.
func Logger(logger zerolog.Logger) Option {
	return func(h *httpHandlerConfig) {
		h.logger = logger
		h.Middlewares = append(h.Middlewares, LoggerMiddleware(logger))
	}
}

// WebSocket enables serving requests over WebSocket connections using graphql-transport-ws
// protocol on the same endpoint.
func WebSocket(enabled bool) Option {
	return func(h *httpHandlerConfig) {
		h.webSocket = enabled
	}
}

// OverrideErrorPresenter overrides default ErrorPresenter.
func OverrideErrorPresenter(errorPresenter ErrorPresenter) Option {
	return func(h *httpHandlerConfig) {
		h.errorPresenter = errorPresenter
	}
}

// OverrideRequestBuilder overrides default RequestBuilder.
func OverrideRequestBuilder(requestBuilder RequestBuilder) Option {
	return func(h *httpHandlerConfig) {
		h.requestBuilder = requestBuilder
	}
}

// OverrideResultPresenter overrides default ResultPresenter.
func OverrideResultPresenter(resultPresenter ResultPresenter) Option {
	return func(h *httpHandlerConfig) {
		h.resultPresenter = resultPresenter
	}
}

// OverrideOperationCache overrides default OperationCache.
func OverrideOperationCache(cache OperationCache) Option {
	return func(h *httpHandlerConfig) {
		h.OperationCache = cache
	}
}

// New creates a net/http.Handler and builds a GraphQL web service to serve queries against the
// schema.
func New(schema *graphql.Schema, opts ...Option) (http.Handler, error) {
	// Apply Options on config.
	config := httpHandlerConfig{
		LLConfig: LLConfig{
			Schema: schema,
		},

		defaultRequestBuilderConfig: DefaultRequestBuilderConfig{
			HTTPRequestParserOptions: ParseHTTPRequestOptions{
				MaxBodySize: DefaultMaxBodySize,
			},
		},

		operationCacheSize: DefaultOperationCacheSize,
		logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.OperationCache == nil {
		if config.operationCacheSize > 0 {
			cache, err := NewLRUOperationCache(config.operationCacheSize)
			if err != nil {
				return nil, err
			}
			config.OperationCache = cache
		} else {
			config.OperationCache = NopOperationCache{}
		}
	}

	baseHandler, err := NewLLHandler(&config.LLConfig)
	if err != nil {
		return nil, err
	}

	requestBuilder := config.requestBuilder
	if requestBuilder == nil {
		requestBuilder = DefaultRequestBuilder{
			Config: &config.defaultRequestBuilderConfig,
		}
	}

	resultPresenter := config.resultPresenter
	if resultPresenter == nil {
		resultPresenter = DefaultResultPresenter{}
	}

	errorPresenter := config.errorPresenter
	if errorPresenter == nil {
		errorPresenter = DefaultErrorPresenter{
			ResultPresenter: resultPresenter,
		}
	}

	var webSocketHandler *WebSocketHandler
	if config.webSocket {
		webSocketHandler = NewWebSocketHandler(baseHandler, WebSocketLogger(config.logger))
	}

	return &httpHandler{
		LLHandler:        baseHandler,
		config:           config,
		errorPresenter:   errorPresenter,
		requestBuilder:   requestBuilder,
		resultPresenter:  resultPresenter,
		webSocketHandler: webSocketHandler,
	}, nil
}

// ErrorPresenter returns h.errorPresenter.
func (h *httpHandler) ErrorPresenter() ErrorPresenter {
	return h.errorPresenter
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.webSocketHandler != nil && websocket.IsWebSocketUpgrade(r) {
		h.webSocketHandler.ServeHTTP(w, r)
		return
	}

	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	// Prepare executable operation from r with RequestBuilder.
	req, err := h.requestBuilder.Build(r, h)
	if err != nil {
		h.config.logger.Debug().
			Err(err).
			Str("method", r.Method).
			Msg("rejected graphql request")
		h.errorPresenter.Write(w, r, err)
		return
	}

	// Serve the request with LLHandler which executes query.
	result := h.Serve(req)

	h.config.logger.Debug().
		Str("method", r.Method).
		Str("operation", req.OperationName()).
		Str("operation_type", string(req.Operation.Type())).
		Dur("duration", time.Since(start)).
		Int("errors", len(result.Errors.Errors)).
		Msg("served graphql request")

	// Present the result to w.
	h.resultPresenter.Write(w, r, req, result)
}

// RequestBuilder generates a Request to be served by LLHandler from an HTTP request.
type RequestBuilder interface {
	// Build turns a http.Request r into a Request for h.
	Build(r *http.Request, h HTTPHandler) (*Request, error)
}

// DefaultRequestBuilderConfig specifies settings to configure DefaultRequestBuilder.
type DefaultRequestBuilderConfig struct {
	HTTPRequestParserOptions ParseHTTPRequestOptions
}

// DefaultRequestBuilder implements the default request builder used by HTTP handler to obtain
// a Request object from a http.Request.
type DefaultRequestBuilder struct {
	Config *DefaultRequestBuilderConfig
}

// HTTPHandler provides interfaces to access settings in httpHandler from RequestBuilder.
type HTTPHandler interface {
	// Schema served by this handler
	Schema() *graphql.Schema

	// Prepare returns the operation prepared for the query. Operations are cached.
	Prepare(ctx context.Context, query string, operationName string) (*executor.PreparedOperation, graphql.Errors)
}

// Build implements RequestBuilder.
func (builder DefaultRequestBuilder) Build(r *http.Request, h HTTPHandler) (*Request, error) {
	// Parse query from request parameters.
	parsedReq, err := ParseHTTPRequest(r, &builder.Config.HTTPRequestParserOptions)
	if err != nil {
		return nil, err
	}

	// Empty query is an error.
	if len(parsedReq.Query) == 0 {
		return nil, ErrEmptyQuery{
			Request: r,
		}
	}

	operation, errs := h.Prepare(r.Context(), parsedReq.Query, parsedReq.OperationName)
	if errs.HaveOccurred() {
		return nil, &ErrPrepare{
			Request:       r,
			ParsedRequest: parsedReq,
			Errs:          errs,
		}
	}

	// Mutations change state and must not be sent with GET, which may be cached or prefetched.
	if r.Method == http.MethodGet && operation.Type() == ast.Mutation {
		return nil, &ErrPrepare{
			Request:       r,
			ParsedRequest: parsedReq,
			Errs: graphql.ErrorsOf(
				"Can only perform a mutation operation from a POST request.",
				graphql.ErrKindValidation),
		}
	}

	return &Request{
		Ctx:       r.Context(),
		Operation: operation,
		Params: executor.ExecuteParams{
			VariableValues: parsedReq.Variables,
		},
	}, nil
}

// ResultPresenter presents an execution result to a http.ResponseWriter.
type ResultPresenter interface {
	// Write writes an ExecutionResult to w. graphqlRequest is nil when the request was rejected
	// before execution.
	Write(
		w http.ResponseWriter,
		httpRequest *http.Request,
		graphqlRequest *Request,
		result *executor.ExecutionResult)
}

// DefaultResultPresenter implements a ResultPresenter used by HTTP handler to present an
// ExecutionResult. A result without data (the request failed before execution) is sent with status
// 400.
type DefaultResultPresenter struct{}

// Write implements ResultPresenter.
func (DefaultResultPresenter) Write(
	w http.ResponseWriter,
	httpRequest *http.Request,
	graphqlRequest *Request,
	result *executor.ExecutionResult) {

	status := http.StatusOK
	if result.Data == nil && result.Errors.HaveOccurred() {
		status = http.StatusBadRequest
	}

	// Serialize result to JSON encoding.
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)

	result.MarshalJSONTo(w)
}
