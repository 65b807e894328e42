// Package logger provides crash logging and panic recovery for Orbis.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

const (
	// crashLogDir is the directory for crash logs relative to the data dir
	crashLogDir = "crash_logs"

	// maxCrashLogs is the maximum number of crash logs to keep
	maxCrashLogs = 10
)

type crashContext struct {
	mu        sync.RWMutex
	command   string
	lastInput string
	version   string
	basePath  string
}

var global = &crashContext{}

// SetBasePath sets the directory crash logs are written under,
// typically the .orbis data directory.
func SetBasePath(path string) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.basePath = path
}

// SetVersion records the application version for crash reports.
func SetVersion(version string) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.version = version
}

// SetCommand records the command currently executing.
func SetCommand(cmd string) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.command = cmd
}

// SetLastInput records the most recent user message, truncated, so a
// crash report shows what triggered it.
func SetLastInput(input string) {
	global.mu.Lock()
	defer global.mu.Unlock()
	input = strings.TrimSpace(input)
	if len(input) > 500 {
		input = input[:500] + "... [truncated]"
	}
	global.lastInput = input
}

// HandlePanic recovers from a panic, writes a crash log, and exits.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}

	path, err := writeCrashLog(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(os.Stderr, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nOrbis encountered an unexpected error.\n")
	fmt.Fprintf(os.Stderr, "A crash log has been saved to:\n  %s\n", path)
	os.Exit(1)
}

func writeCrashLog(panicValue any) (string, error) {
	global.mu.RLock()
	command := global.command
	lastInput := global.lastInput
	version := global.version
	global.mu.RUnlock()

	dir := crashDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	if err := pruneOldLogs(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	now := time.Now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "ORBIS CRASH LOG\n\n")
	fmt.Fprintf(&sb, "Timestamp: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&sb, "Version:   %s\n", version)
	fmt.Fprintf(&sb, "Command:   %s\n", command)
	fmt.Fprintf(&sb, "Go:        %s\n", runtime.Version())
	fmt.Fprintf(&sb, "OS/Arch:   %s/%s\n\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(&sb, "Panic: %v\n\n", panicValue)
	sb.WriteString("Stack trace:\n")
	sb.Write(debug.Stack())
	if lastInput != "" {
		fmt.Fprintf(&sb, "\nLast user input:\n%s\n", lastInput)
	}

	path := filepath.Join(dir, fmt.Sprintf("crash_%s.log", now.Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

func crashDir() string {
	global.mu.RLock()
	basePath := global.basePath
	global.mu.RUnlock()
	if basePath == "" {
		basePath = ".orbis"
	}
	return filepath.Join(basePath, crashLogDir)
}

// pruneOldLogs keeps only the newest maxCrashLogs files. ReadDir returns
// names sorted, and the timestamp in the name sorts oldest first.
func pruneOldLogs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".log") {
			logs = append(logs, e.Name())
		}
	}
	if len(logs) < maxCrashLogs {
		return nil
	}

	for _, name := range logs[:len(logs)-maxCrashLogs+1] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", name, err)
		}
	}
	return nil
}
