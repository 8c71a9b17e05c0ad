// Copyright 2025 walteh LLC
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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	actionWidth = 8  // Width for the edit action
	statusWidth = 10 // Width for status text
)

// ✏️ EditOperation describes one edit applied to one file
type EditOperation struct {
	Path   string // File path
	Action string // insert, remove, toc, replace or match
	Status string // Short status text
	Detail string // Free form detail, e.g. the line range
	Err    error  // Set when the edit failed
}

// StatusOf is the edit status text for err: "failed" when set, "ok" otherwise
func StatusOf(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}

// 📦 RunOperation describes one run over a job file
type RunOperation struct {
	Config string // Path of the job file
	Files  int    // Number of files touched
	DryRun bool   // Whether post commands are only printed
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	run     *RunOperation
	edits   []EditOperation
}

// 🏭 New creates a new logger. Structured records go to zlog.
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context. Without one, console output is discarded.
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return New(io.Discard, *zerolog.Ctx(ctx))
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatEdit formats an edit operation for display
func (l *Logger) formatEdit(op EditOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Err != nil:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.Action == "remove":
		symbol = '−'
		symbolColor = color.FgYellow
	case op.Action == "match":
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '✓'
		symbolColor = color.FgGreen
	}

	var actionColor color.Attribute
	switch op.Action {
	case "insert":
		actionColor = color.FgGreen
	case "remove":
		actionColor = color.FgYellow
	case "toc":
		actionColor = color.FgMagenta
	case "replace":
		actionColor = color.FgCyan
	default:
		actionColor = color.FgBlue
	}

	status := op.Status
	if op.Err != nil {
		status = op.Err.Error()
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(actionColor).Sprint(fmt.Sprintf("%-*s", actionWidth, op.Action)),
		fmt.Sprintf("%-*s", statusWidth, status))
	if op.Detail != "" {
		line += " " + color.New(color.Faint).Sprint(op.Detail)
	}
	return line
}

// 📝 LogEdit logs an edit operation
func (l *Logger) LogEdit(ctx context.Context, op EditOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.edits = append(l.edits, op)

	fmt.Fprintln(l.console, l.formatEdit(op))

	ev := l.zlog.Info()
	if op.Err != nil {
		ev = l.zlog.Error().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("action", op.Action).
		Str("status", op.Status).
		Str("detail", op.Detail).
		Msg("edit")
}

// 📝 StartRun starts a new run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.run = &op
	l.edits = nil

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Config),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d files", op.Files))

	l.zlog.Info().
		Str("config", op.Config).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun ends the current run and returns the edits logged during it
func (l *Logger) EndRun(ctx context.Context) []EditOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.run == nil {
		return nil
	}

	failed := 0
	for _, op := range l.edits {
		if op.Err != nil {
			failed++
		}
	}

	l.zlog.Info().
		Str("config", l.run.Config).
		Int("edits", len(l.edits)).
		Int("failed", failed).
		Msg("run complete")

	edits := l.edits
	l.run = nil
	l.edits = nil
	return edits
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("lineutil")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
