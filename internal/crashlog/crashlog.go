// Package crashlog is the single recovery tier: any error or panic that
// reaches the program entry point is written in full to the crash log and
// the process exits non-zero.
package crashlog

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Boundary wraps the program body.
type Boundary struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
	stderr io.Writer
	now    func() time.Time
}

// New creates a boundary that writes to path until SetPath is called.
func New(path string) *Boundary {
	return &Boundary{
		path:   path,
		logger: zap.NewNop(),
		stderr: os.Stderr,
		now:    time.Now,
	}
}

// SetPath moves the crash log, typically once the config is known.
func (b *Boundary) SetPath(path string) {
	b.mu.Lock()
	b.path = path
	b.mu.Unlock()
}

// SetLogger also reports failures through logger.
func (b *Boundary) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	b.mu.Lock()
	b.logger = logger
	b.mu.Unlock()
}

// Path returns the current crash log location.
func (b *Boundary) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// Run calls fn and returns the process exit code.
func (b *Boundary) Run(fn func() error) (code int) {
	defer func() {
		if r := recover(); r != nil {
			b.report(fmt.Sprintf("panic: %v\n\n%s", r, debug.Stack()))
			code = 1
		}
	}()

	if err := fn(); err != nil {
		b.report(fmt.Sprintf("%+v\n", err))
		return 1
	}
	return 0
}

func (b *Boundary) report(description string) {
	b.mu.Lock()
	path, logger, stderr := b.path, b.logger, b.stderr
	b.mu.Unlock()

	logger.Error("fatal error", zap.String("crash_log", path), zap.String("error", description))

	body := fmt.Sprintf("%s\n%s", b.now().Format(time.RFC3339), description)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		fmt.Fprintf(stderr, "failed to write crash log %s: %v\n", path, err)
	}
	fmt.Fprintf(stderr, "Error: %s(details in %s)\n", description, path)
}
