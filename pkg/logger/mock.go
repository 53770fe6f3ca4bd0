package logger

import (
	"fmt"
	"strings"
	"sync"
)

// MockLogger captures log calls for test assertions.
type MockLogger struct {
	mu       sync.Mutex
	messages []MockMessage
}

// MockMessage is a single captured log call.
type MockMessage struct {
	Level   string
	Message string
	Args    []any
}

// NewMockLogger creates an empty mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, MockMessage{Level: level, Message: msg, Args: args})
}

// Debug records a debug message.
func (m *MockLogger) Debug(msg string, args ...any) { m.record("DEBUG", msg, args) }

// Info records an info message.
func (m *MockLogger) Info(msg string, args ...any) { m.record("INFO", msg, args) }

// Warn records a warning message.
func (m *MockLogger) Warn(msg string, args ...any) { m.record("WARN", msg, args) }

// Error records an error message.
func (m *MockLogger) Error(msg string, args ...any) { m.record("ERROR", msg, args) }

// With returns the same mock so captured messages stay in one place.
func (m *MockLogger) With(_ ...any) Logger { return m }

// Messages returns a copy of all captured messages.
func (m *MockLogger) Messages() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// HasMessage reports whether a message at the given level contains substr.
func (m *MockLogger) HasMessage(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.messages {
		if msg.Level == level && strings.Contains(msg.Message, substr) {
			return true
		}
	}
	return false
}

// CountLevel returns the number of captured messages at the given level.
func (m *MockLogger) CountLevel(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.messages {
		if msg.Level == level {
			n++
		}
	}
	return n
}

// Reset discards all captured messages.
func (m *MockLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}

// String renders all captured messages, useful in test failure output.
func (m *MockLogger) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var b strings.Builder
	for _, msg := range m.messages {
		fmt.Fprintf(&b, "[%s] %s %v\n", msg.Level, msg.Message, msg.Args)
	}
	return b.String()
}
