// Copyright 2018 Ewout Prangsma
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
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config of the root logger.
type Config struct {
	// Log level (debug|info|warn|error)
	Level string
	// Path of a log file. Empty disables logging to file.
	File string
	// Maximum size in megabytes of a log file before it is rotated.
	MaxSizeMB int
	// Number of rotated log files to keep.
	MaxBackups int
	// Output for the console writer, defaults to stderr.
	Console io.Writer
}

// Logger is the root logger with its outputs.
type Logger struct {
	zerolog.Logger
	// Outputs of the logger, more can be added.
	Outputs MultiWriter
	file    *lumberjack.Logger
}

// NewLogger creates the root logger: a console writer plus
// an optional rotating log file.
func NewLogger(cfg Config) (*Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level '%s'", cfg.Level)
	}
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	outputs := NewMultiWriter(zerolog.ConsoleWriter{Out: console})
	result := &Logger{Outputs: outputs}
	if cfg.File != "" {
		if cfg.MaxSizeMB <= 0 {
			cfg.MaxSizeMB = 10
		}
		if cfg.MaxBackups <= 0 {
			cfg.MaxBackups = 3
		}
		result.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		outputs.Add(result.file)
	}
	result.Logger = zerolog.New(outputs).Level(level).With().Timestamp().Logger()
	return result, nil
}

// Close the log file (if any).
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
