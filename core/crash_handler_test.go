package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCrashReport(t *testing.T) {
	var b strings.Builder
	if err := WriteCrashReport(&b, "boom", []byte("goroutine 1 [running]:")); err != nil {
		t.Fatalf("WriteCrashReport failed: %v", err)
	}
	out := b.String()
	for _, want := range []string{"fault: boom", "go: ", "args: ", "stack:\ngoroutine 1 [running]:"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out)
		}
	}
}

func TestHandleCrashWritesReportAndExits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "crash.log")

	var exitCode = -1
	finalized := false

	crashMu.Lock()
	oldExit, oldPath, oldFin := crashExit, crashLogPath, crashFinalizer
	crashMu.Unlock()
	defer func() {
		crashMu.Lock()
		crashExit, crashLogPath, crashFinalizer = oldExit, oldPath, oldFin
		crashMu.Unlock()
	}()

	crashMu.Lock()
	crashExit = func(code int) { exitCode = code }
	crashMu.Unlock()
	SetCrashLogPath(path)
	SetCrashFinalizer(func() { finalized = true })

	HandleCrash("frame failed")

	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}
	if !finalized {
		t.Error("Expected terminal finalizer to run")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected crash log at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "fault: frame failed") {
		t.Errorf("Unexpected crash log contents:\n%s", data)
	}
}

func TestHandleCrashNilIsNoop(t *testing.T) {
	crashMu.Lock()
	oldExit := crashExit
	called := false
	crashExit = func(int) { called = true }
	crashMu.Unlock()
	defer func() {
		crashMu.Lock()
		crashExit = oldExit
		crashMu.Unlock()
	}()

	HandleCrash(nil)
	if called {
		t.Error("Expected nil recovery value to be ignored")
	}
}

func TestRecoverRoutesPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.log")
	exitCode := -1

	SetCrashLogPath(path)
	SetCrashExit(func(code int) { exitCode = code })
	defer func() {
		SetCrashLogPath(DefaultCrashLog)
		SetCrashExit(os.Exit)
	}()

	func() {
		defer Recover()
		panic("inline failure")
	}()

	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected crash log at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "fault: inline failure") {
		t.Errorf("Expected inline panic in crash log, got:\n%s", data)
	}
}

func TestReportFault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "crash.log")
	SetCrashLogPath(path)
	defer SetCrashLogPath(DefaultCrashLog)

	if got := ReportFault(nil); got != "" {
		t.Errorf("Expected nil error to write nothing, got %q", got)
	}

	fault := &RangeError{X: 9, Y: 2, Width: 7, Height: 8}
	if got := ReportFault(fmt.Errorf("frame 3: %w", fault)); got != path {
		t.Fatalf("Expected report at %s, got %q", path, got)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected fault report: %v", err)
	}
	out := string(data)
	for _, want := range []string{"fault: frame 3: ", "go: ", "TERM="} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected report to contain %q, got:\n%s", want, out)
		}
	}
}

func TestGoRecoversWorkerPanic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crash.log")
	exited := make(chan int, 1)

	SetCrashLogPath(path)
	SetCrashExit(func(code int) { exited <- code })
	defer func() {
		SetCrashLogPath(DefaultCrashLog)
		SetCrashExit(os.Exit)
	}()

	Go(func() { panic("worker failed") })

	if code := <-exited; code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected crash log at %s: %v", path, err)
	}
	if !strings.Contains(string(data), "fault: worker failed") {
		t.Errorf("Expected worker panic in crash log, got:\n%s", data)
	}
}
