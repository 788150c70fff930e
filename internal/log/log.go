// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log is a small printf-style leveled logger on top of zap.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	ErrorLevel = zapcore.ErrorLevel
)

var (
	mu     sync.RWMutex
	level  = zap.NewAtomicLevelAt(InfoLevel)
	sugar  = newLogger(os.Stderr)
	silent = false
)

func newLogger(w io.Writer) *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// SetLogLevel changes the minimum level for all subsequent calls.
func SetLogLevel(l Level) {
	level.SetLevel(l)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sugar = newLogger(w)
}

// Silence drops every message until called again with false.
func Silence(on bool) {
	mu.Lock()
	defer mu.Unlock()
	silent = on
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	if silent {
		return zap.NewNop().Sugar()
	}
	return sugar
}

func Debug(format string, args ...any) {
	logger().Debugf(trim(format), args...)
}

func Info(format string, args ...any) {
	logger().Infof(trim(format), args...)
}

func Error(format string, args ...any) {
	logger().Errorf(trim(format), args...)
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = logger().Sync()
}

// callers pass trailing newlines out of habit; zap adds its own.
func trim(format string) string {
	return strings.TrimRight(format, "\n")
}
