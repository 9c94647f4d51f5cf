// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// New returns a new logger with the given context on top of the current root.
// The returned logger is bound to the root at call time.
func New(ctx ...any) Logger {
	return Root().With(ctx...)
}

// WithContext returns a logger that always writes through the current root logger.
// Package level loggers are declared before the root is configured, so binding is
// deferred until each write.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type contextLogger struct {
	ctx []any
}

func (c *contextLogger) merge(kv []any) []any {
	out := make([]any, 0, len(c.ctx)+len(kv))
	out = append(out, c.ctx...)
	return append(out, kv...)
}

func (c *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: c.merge(ctx)}
}

func (c *contextLogger) New(ctx ...any) Logger {
	return c.With(ctx...)
}

func (c *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	Root().Log(level, msg, c.merge(ctx)...)
}

func (c *contextLogger) Trace(msg string, ctx ...any) { Root().Trace(msg, c.merge(ctx)...) }
func (c *contextLogger) Debug(msg string, ctx ...any) { Root().Debug(msg, c.merge(ctx)...) }
func (c *contextLogger) Info(msg string, ctx ...any)  { Root().Info(msg, c.merge(ctx)...) }
func (c *contextLogger) Warn(msg string, ctx ...any)  { Root().Warn(msg, c.merge(ctx)...) }
func (c *contextLogger) Error(msg string, ctx ...any) { Root().Error(msg, c.merge(ctx)...) }
func (c *contextLogger) Crit(msg string, ctx ...any)  { Root().Crit(msg, c.merge(ctx)...) }

func (c *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (c *contextLogger) Handler() slog.Handler {
	return Root().Handler()
}

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...any) {
	Root().Trace(msg, ctx...)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...any) {
	Root().Debug(msg, ctx...)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...any) {
	Root().Info(msg, ctx...)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...any) {
	Root().Warn(msg, ctx...)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...any) {
	Root().Error(msg, ctx...)
}

// Crit is a convenient alias for Root().Crit
func Crit(msg string, ctx ...any) {
	Root().Crit(msg, ctx...)
}
