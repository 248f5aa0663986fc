// Copyright 2026 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package logging

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type multiWriter struct {
	writers []io.Writer
}

// NewMultiWriter creates an output for logs that writes to all given writers.
// A failing writer does not stop the others.
func NewMultiWriter(writers ...io.Writer) io.Writer {
	return &multiWriter{
		writers: writers,
	}
}

func (l *multiWriter) Write(p []byte) (int, error) {
	var firstErr error
	for _, w := range l.writers {
		n, err := w.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}

// NewLogger creates a console logger on stderr at the given level.
// If logFile is not empty, JSON log lines are also appended to that file.
func NewLogger(level zerolog.Level, logFile string) (zerolog.Logger, io.Closer, error) {
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	if logFile == "" {
		return zerolog.New(console).With().Timestamp().Logger().Level(level), nopCloser{}, nil
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return zerolog.Nop(), nil, errors.Wrapf(err, "failed to open log file %s", logFile)
	}
	w := NewMultiWriter(console, f)
	return zerolog.New(w).With().Timestamp().Logger().Level(level), f, nil
}
