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

package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/roofs-runner/gql-apollo/internal/config"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	var (
		dir string
		env map[string]*string
	)

	writeFile := func(content string) string {
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte(content), 0o600)).Should(Succeed())
		return path
	}

	setenv := func(key, value string) {
		if _, saved := env[key]; !saved {
			if old, ok := os.LookupEnv(key); ok {
				env[key] = &old
			} else {
				env[key] = nil
			}
		}
		Expect(os.Setenv(key, value)).Should(Succeed())
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "config")
		Expect(err).ShouldNot(HaveOccurred())
		env = map[string]*string{}
	})

	AfterEach(func() {
		for key, old := range env {
			if old == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *old)
			}
		}
		Expect(os.RemoveAll(dir)).Should(Succeed())
	})

	It("uses the defaults without a file", func() {
		cfg, err := config.Load("")
		Expect(err).ShouldNot(HaveOccurred())
		Expect(cfg).Should(Equal(config.Default()))
		Expect(cfg.Server.Address).Should(Equal(":4000"))
		Expect(cfg.Server.GraphQLPath).Should(Equal("/graphql"))
		Expect(cfg.Server.Playground).Should(BeTrue())
		Expect(cfg.Store.Seed).Should(BeTrue())
		Expect(cfg.GraphQL.OperationCacheSize).Should(Equal(512))
	})

	It("overrides the defaults with the file", func() {
		cfg, err := config.Load(writeFile(`
server:
  address: 127.0.0.1:8080
  playground: false
  shutdown_timeout: 3s
graphql:
  operation_cache_size: 0
log:
  level: debug
  format: console
store:
  seed: false
`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(cfg.Server.Address).Should(Equal("127.0.0.1:8080"))
		Expect(cfg.Server.Playground).Should(BeFalse())
		Expect(cfg.Server.ShutdownTimeout).Should(Equal(3 * time.Second))
		Expect(cfg.GraphQL.OperationCacheSize).Should(Equal(0))
		Expect(cfg.Log.Level).Should(Equal("debug"))
		Expect(cfg.Log.Format).Should(Equal("console"))
		Expect(cfg.Store.Seed).Should(BeFalse())

		// Untouched settings keep the defaults.
		Expect(cfg.Server.GraphQLPath).Should(Equal("/graphql"))
		Expect(cfg.Server.WebSocket).Should(BeTrue())
	})

	It("overrides the file with the environment", func() {
		path := writeFile("server:\n  address: :1\nlog:\n  level: error\n")
		setenv(config.EnvAddress, ":2")
		setenv(config.EnvLogLevel, "warn")
		setenv(config.EnvSeedFile, "/tmp/seed.yaml")

		cfg, err := config.Load(path)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(cfg.Server.Address).Should(Equal(":2"))
		Expect(cfg.Log.Level).Should(Equal("warn"))
		Expect(cfg.Store.SeedFile).Should(Equal("/tmp/seed.yaml"))
	})

	It("accepts an empty file", func() {
		cfg, err := config.Load(writeFile(""))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(cfg).Should(Equal(config.Default()))
	})

	It("reports a missing file", func() {
		_, err := config.Load(filepath.Join(dir, "missing.yaml"))
		Expect(err).Should(MatchError(os.ErrNotExist))
	})

	It("rejects unknown fields", func() {
		_, err := config.Load(writeFile("server:\n  port: 80\n"))
		Expect(err).Should(MatchError(ContainSubstring("port")))
	})

	It("validates the loaded values", func() {
		_, err := config.Load(writeFile("log:\n  level: loud\n"))
		Expect(err).Should(MatchError(ContainSubstring(`log.level "loud" is unknown`)))
	})
})

var _ = Describe("Validate", func() {
	It("accepts the defaults", func() {
		Expect(config.Default().Validate()).Should(Succeed())
	})

	DescribeTable("rejects invalid settings",
		func(modify func(cfg *config.Config), message string) {
			cfg := config.Default()
			modify(cfg)
			Expect(cfg.Validate()).Should(MatchError(ContainSubstring(message)))
		},
		Entry("empty address", func(cfg *config.Config) { cfg.Server.Address = "" }, "server.address is required"),
		Entry("relative path", func(cfg *config.Config) { cfg.Server.GraphQLPath = "graphql" }, "must start with /"),
		Entry("zero shutdown timeout", func(cfg *config.Config) { cfg.Server.ShutdownTimeout = 0 }, "shutdown_timeout must be positive"),
		Entry("negative cache size", func(cfg *config.Config) { cfg.GraphQL.OperationCacheSize = -1 }, "must not be negative"),
		Entry("empty level", func(cfg *config.Config) { cfg.Log.Level = "" }, "log.level"),
		Entry("unknown format", func(cfg *config.Config) { cfg.Log.Format = "xml" }, `log.format "xml" is unknown`),
	)

	It("reports every error", func() {
		cfg := config.Default()
		cfg.Server.Address = ""
		cfg.Log.Format = "xml"

		err := cfg.Validate()
		Expect(err).Should(MatchError(ContainSubstring("server.address is required")))
		Expect(err).Should(MatchError(ContainSubstring("log.format")))
	})
})
