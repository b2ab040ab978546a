// Package log provides context-aware logging for locsel.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

type ctxKey struct{}

// Logger writes diagnostics to stderr. Debug and request lines only
// appear in verbose mode; quiet suppresses everything.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

// New creates a new logger.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Debug writes msg followed by key=value pairs in verbose mode.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Request logs an outgoing HTTP request. The returned func logs the
// response status and elapsed time; status 0 means the request failed
// before a response arrived.
func (l *Logger) Request(method, url string) func(status int, elapsed time.Duration) {
	if !l.IsVerbose() {
		return func(int, time.Duration) {}
	}
	return func(status int, elapsed time.Duration) {
		result := "error"
		if status > 0 {
			result = fmt.Sprintf("%d", status)
		}
		fmt.Fprintf(l.out, "→ %s %s %s (%s)\n", method, url, result, elapsed.Round(time.Millisecond))
	}
}

// IsVerbose returns true if verbose mode is enabled and not overridden by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

// Deferred returns a logger with the same settings whose output is held
// in memory until flush is called. flush writes the held output to l and
// may be called more than once. Use it while a full-screen program owns
// the terminal.
func (l *Logger) Deferred() (deferred *Logger, flush func()) {
	buf := &lockedBuffer{}
	deferred = &Logger{out: buf, verbose: l.verbose, quiet: l.quiet}
	return deferred, func() {
		if data := buf.take(); len(data) > 0 {
			_, _ = l.out.Write(data)
		}
	}
}

// lockedBuffer is a bytes buffer safe for concurrent writers.
type lockedBuffer struct {
	mu   sync.Mutex
	data []byte
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *lockedBuffer) take() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := b.data
	b.data = nil
	return data
}
