package edusolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger keeps a file audit trail of generative API traffic
type LLMLogger struct {
	file *os.File
	mu   sync.Mutex
}

var (
	globalLLMLogger *LLMLogger
	globalLLMMu     sync.RWMutex
)

// SetGlobalLLMLogger installs the process-wide audit logger
func SetGlobalLLMLogger(logger *LLMLogger) {
	globalLLMMu.Lock()
	defer globalLLMMu.Unlock()
	globalLLMLogger = logger
}

// GetGlobalLLMLogger returns the installed audit logger, nil when disabled
func GetGlobalLLMLogger() *LLMLogger {
	globalLLMMu.RLock()
	defer globalLLMMu.RUnlock()
	return globalLLMLogger
}

// NewLLMLogger opens (or creates) the day's audit log under dir
func NewLLMLogger(dir string) (*LLMLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("llm-%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := &LLMLogger{file: file}
	logger.Logf("=== Session started: %s ===\n", time.Now().Format(time.RFC3339))
	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (ll *LLMLogger) Logf(format string, args ...interface{}) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	message := fmt.Sprintf(format, args...)

	fmt.Fprintf(ll.file, "[%s] %s", timestamp, message)
	ll.file.Sync()
}

// LogRequest logs an outgoing completion request
func (ll *LLMLogger) LogRequest(module, prompt string) {
	ll.Logf("=== REQUEST (%s) ===\n", module)
	ll.Logf("Prompt:\n%s\n", prompt)
	ll.Logf("====================\n\n")
}

// LogResponse logs a completion response
func (ll *LLMLogger) LogResponse(module, response string) {
	ll.Logf("=== RESPONSE (%s) ===\n", module)
	ll.Logf("Response:\n%s\n", response)
	ll.Logf("=====================\n\n")
}

// Close closes the log file
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file != nil {
		timestamp := time.Now().Format("15:04:05.000")
		fmt.Fprintf(ll.file, "[%s] === Session ended: %s ===\n", timestamp, time.Now().Format(time.RFC3339))
		return ll.file.Close()
	}
	return nil
}
