package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// DefaultCrashLog is where HandleCrash writes the detailed report
var DefaultCrashLog = filepath.Join("logs", "crash.log")

var (
	crashMu        sync.Mutex
	crashFinalizer func()
	crashLogPath   = DefaultCrashLog
	crashExit      = os.Exit
)

// SetCrashFinalizer registers the terminal restore hook run before the report is printed
// Keeps core independent of the terminal implementation
func SetCrashFinalizer(fn func()) {
	crashMu.Lock()
	crashFinalizer = fn
	crashMu.Unlock()
}

// SetCrashLogPath overrides the report location
func SetCrashLogPath(path string) {
	crashMu.Lock()
	crashLogPath = path
	crashMu.Unlock()
}

// SetCrashExit overrides the process exit used after a crash report
func SetCrashExit(fn func(int)) {
	crashMu.Lock()
	crashExit = fn
	crashMu.Unlock()
}

// HandleCrash is the unified fault handler: restores the terminal, writes the report and exits 1
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	finalize, path, exit := crashFinalizer, crashLogPath, crashExit
	crashMu.Unlock()

	if finalize != nil {
		finalize()
	}

	stack := debug.Stack()
	written := saveCrashReport(path, r, stack)

	fmt.Fprintf(os.Stderr, "\n\x1b[31mMULTICUBE CRASHED: %v\x1b[0m\n", r)
	if written != "" {
		fmt.Fprintf(os.Stderr, "Details written to %s\n", written)
	} else {
		fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", stack)
	}

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use this instead of the 'go' keyword so a crash always restores the terminal
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// Recover must be deferred directly; it routes a panic on the current goroutine to HandleCrash
func Recover() {
	if r := recover(); r != nil {
		HandleCrash(r)
	}
}

// ReportFault records a fatal error that ends the run without a panic
// Returns the report path, or "" when it could not be written
func ReportFault(err error) string {
	if err == nil {
		return ""
	}
	crashMu.Lock()
	path := crashLogPath
	crashMu.Unlock()
	return saveCrashReport(path, err, debug.Stack())
}

// WriteCrashReport formats the fault value, environment and stack trace
func WriteCrashReport(w io.Writer, r any, stack []byte) error {
	var b strings.Builder
	fmt.Fprintf(&b, "=== crash %s ===\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "fault: %v\n", r)
	fmt.Fprintf(&b, "go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&b, "args: %q\n", os.Args)
	fmt.Fprintf(&b, "TERM=%s COLORTERM=%s\n", os.Getenv("TERM"), os.Getenv("COLORTERM"))
	fmt.Fprintf(&b, "goroutines: %d\n", runtime.NumGoroutine())
	b.WriteString("stack:\n")
	b.Write(stack)
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// saveCrashReport appends the report to path and returns it, or "" on failure
func saveCrashReport(path string, r any, stack []byte) string {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return ""
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return ""
	}
	defer f.Close()
	if err := WriteCrashReport(f, r, stack); err != nil {
		return ""
	}
	return path
}
