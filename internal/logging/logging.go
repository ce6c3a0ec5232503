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

// Package logging builds the zerolog logger of the service.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Formats of log output
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Builder collects the settings of a Logger. The zero value writes JSON at info level to stdout.
type Builder struct {
	level  string
	format string
	path   string
	writer io.Writer
}

// New creates a Builder.
func New() *Builder {
	return &Builder{}
}

// Level sets the minimum level to be logged. It accepts the names known to zerolog.ParseLevel.
func (build *Builder) Level(level string) *Builder {
	build.level = level
	return build
}

// Format sets the output format to FormatJSON or FormatConsole.
func (build *Builder) Format(format string) *Builder {
	build.format = format
	return build
}

// FromPath makes the logger append to the file at path instead of writing to the writer.
func (build *Builder) FromPath(path string) *Builder {
	build.path = path
	return build
}

// FromWriter sets the writer to log to. It defaults to os.Stdout.
func (build *Builder) FromWriter(w io.Writer) *Builder {
	build.writer = w
	return build
}

// Logger is a zerolog.Logger and the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// Make builds the Logger.
func (build *Builder) Make() (*Logger, error) {
	level := zerolog.InfoLevel
	if len(build.level) > 0 {
		var err error
		level, err = zerolog.ParseLevel(build.level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", build.level, err)
		}
	}

	logger := &Logger{}

	var w io.Writer = os.Stdout
	if build.writer != nil {
		w = build.writer
	}
	if len(build.path) > 0 {
		file, err := os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		logger.file = file
		w = zerolog.SyncWriter(file)
	}

	switch build.format {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, NoColor: len(build.path) > 0}
	default:
		if logger.file != nil {
			logger.file.Close()
		}
		return nil, fmt.Errorf("invalid log format %q", build.format)
	}

	logger.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger, nil
}

// Close closes the log file.
func (logger *Logger) Close() error {
	if logger.file == nil {
		return nil
	}
	return logger.file.Close()
}
