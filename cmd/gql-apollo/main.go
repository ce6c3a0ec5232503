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

// Command gql-apollo serves the blog GraphQL API over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/roofs-runner/gql-apollo/blog"
	"github.com/roofs-runner/gql-apollo/graphql/handler"
	"github.com/roofs-runner/gql-apollo/internal/config"
	"github.com/roofs-runner/gql-apollo/internal/logging"
	"github.com/roofs-runner/gql-apollo/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses args, builds the service and serves it until ctx is done.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("gql-apollo", flag.ContinueOnError)
	flags.SetOutput(stdout)
	flags.Usage = func() {
		fmt.Fprint(stdout, "Usage: gql-apollo [options]\n\nServes the blog GraphQL API.\n\nOptions:\n")
		flags.PrintDefaults()
	}

	var (
		configPath = flags.String("config", "", "Path to the YAML configuration file.")
		address    = flags.String("address", "", "Address to listen on. Overrides the configuration.")
		logLevel   = flags.String("log-level", "", "Log level: debug, info, warn or error. Overrides the configuration.")
		dumpSeed   = flags.Bool("dump-seed", false, "Print the initial records of the store in YAML and exit.")
	)

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if len(*address) > 0 {
		cfg.Server.Address = *address
	}
	if len(*logLevel) > 0 {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New().
		Level(cfg.Log.Level).
		Format(cfg.Log.Format).
		FromWriter(stdout).
		FromPath(cfg.Log.File).
		Make()
	if err != nil {
		return err
	}
	defer logger.Close()

	s, err := newStore(cfg, logger.Logger)
	if err != nil {
		return err
	}

	if *dumpSeed {
		return store.WriteSeed(stdout, s.Snapshot())
	}

	h, err := newHandler(cfg, s, logger.Logger)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return err
	}

	return serve(ctx, listener, h, cfg.Server.ShutdownTimeout, logger.Logger)
}

// newStore creates the store with the initial records named by cfg.
func newStore(cfg *config.Config, logger zerolog.Logger) (*store.Store, error) {
	opts := []store.Option{
		store.WithLogger(logger),
	}

	switch {
	case len(cfg.Store.SeedFile) > 0:
		seed, err := store.LoadSeedFile(cfg.Store.SeedFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithSeed(seed))

	case cfg.Store.Seed:
		opts = append(opts, store.WithSeed(store.DefaultSeed()))
	}

	return store.New(opts...), nil
}

// newHandler routes the GraphQL endpoint, the playground and the health check.
func newHandler(cfg *config.Config, s *store.Store, logger zerolog.Logger) (http.Handler, error) {
	schema, err := blog.NewSchema(s)
	if err != nil {
		return nil, err
	}

	graphqlHandler, err := handler.New(schema,
		handler.MaxBodySize(cfg.Server.MaxBodySize),
		handler.OperationCacheSize(cfg.GraphQL.OperationCacheSize),
		handler.Logger(logger),
		handler.WebSocket(cfg.Server.WebSocket),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.GraphQLPath, graphqlHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n")
	})
	if cfg.Server.Playground {
		mux.Handle("GET /{$}", handler.Playground("Blog", cfg.Server.GraphQLPath))
	}

	return mux, nil
}

// serve serves h on listener until ctx is done, then shuts the server down gracefully within
// shutdownTimeout.
func serve(
	ctx context.Context,
	listener net.Listener,
	h http.Handler,
	shutdownTimeout time.Duration,
	logger zerolog.Logger) error {

	server := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("address", listener.Addr().String()).Msg("server started")
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
