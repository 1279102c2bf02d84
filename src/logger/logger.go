// Package logger provides the logging interface used by every component.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Logger defines the interface for logging throughout the application.
// Implementations are picked per entry point: console for agents and
// one-shot commands, silent when stdout belongs to a TUI or MCP stream.
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable logs.
// Info and Debug go to out, Error always goes to stderr.
type ConsoleLogger struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	debug bool
}

// NewConsoleLogger returns a logger writing Info/Debug to stdout.
func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{out: os.Stdout, err: os.Stderr, debug: true}
}

// NewStderrLogger returns a logger that keeps stdout free for command output.
func NewStderrLogger(debug bool) *ConsoleLogger {
	return &ConsoleLogger{out: os.Stderr, err: os.Stderr, debug: debug}
}

// NewWriterLogger sends every level to w. Used by tests.
func NewWriterLogger(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{out: w, err: w, debug: true}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.write(c.out, "[INFO] ", msg, args)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.write(c.err, "[ERROR] ", msg, args)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if !c.debug {
		return
	}
	c.write(c.out, "[DEBUG] ", msg, args)
}

func (c *ConsoleLogger) write(w io.Writer, level, msg string, args []interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(w, level+msg+"\n", args...)
}

// SilentLogger discards all log messages.
// Used in TUI and MCP mode to keep stdout clean.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
