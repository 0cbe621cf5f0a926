package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Context holds application-wide configuration and state
type Context struct {
	context.Context

	// Output preferences
	OutputFormat string
	Verbose      bool
	Quiet        bool

	// Logger receives structured pipeline logs. Use Logger() to read it.
	logger *slog.Logger

	// Progress reporting
	ProgressCallback func(message string, percent int)
}

// NewContext creates a new application context
func NewContext() *Context {
	return &Context{
		Context: context.Background(),
	}
}

// WithTimeout creates a context with timeout
func (c *Context) WithTimeout(timeout time.Duration) (*Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(c.Context, timeout)
	newCtx := *c
	newCtx.Context = ctx
	return &newCtx, cancel
}

// SetLogger replaces the logger.
func (c *Context) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// Logger returns the context's logger, building one from the output
// preferences on first use.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		c.logger = NewLogger(os.Stderr, c.OutputFormat, c.Verbose, c.Quiet)
	}
	return c.logger
}

// NewLogger builds a logger writing to w. Verbose enables debug output and
// quiet restricts output to errors; json output selects the JSON handler.
func NewLogger(w io.Writer, format string, verbose, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetProgress sets the progress callback function
func (c *Context) SetProgress(callback func(string, int)) {
	c.ProgressCallback = callback
}

// Progress reports progress if callback is set
func (c *Context) Progress(message string, percent int) {
	if c.ProgressCallback != nil {
		c.ProgressCallback(message, percent)
	}
}

// Log outputs a debug message
func (c *Context) Log(message string, args ...any) {
	c.Logger().Debug(message, args...)
}

// Error outputs an error message unless quiet
func (c *Context) Error(message string, args ...any) {
	c.Logger().Error(message, args...)
}
