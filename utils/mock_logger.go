package utils

import "sync"

// LogMessage is one record captured by MockLogger.
type LogMessage struct {
	Level   string
	Message string
	Args    []any
}

// MockLogger records every message regardless of level. Safe for use from the
// stream goroutine and the test goroutine at once.
type MockLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	level    LogLevel
}

func NewMockLogger() *MockLogger {
	return &MockLogger{level: LogLevelDebug}
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, LogMessage{Level: level, Message: msg, Args: args})
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) { m.record("DEBUG", msg, keysAndValues) }
func (m *MockLogger) Info(msg string, keysAndValues ...any)  { m.record("INFO", msg, keysAndValues) }
func (m *MockLogger) Warn(msg string, keysAndValues ...any)  { m.record("WARN", msg, keysAndValues) }
func (m *MockLogger) Error(msg string, keysAndValues ...any) { m.record("ERROR", msg, keysAndValues) }

func (m *MockLogger) SetLevel(level LogLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// GetMessages returns a copy of the captured messages.
func (m *MockLogger) GetMessages() []LogMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LogMessage, len(m.messages))
	copy(out, m.messages)
	return out
}

// Has reports whether a message with the given level and text was recorded.
func (m *MockLogger) Has(level, msg string) bool {
	for _, lm := range m.GetMessages() {
		if lm.Level == level && lm.Message == msg {
			return true
		}
	}
	return false
}

func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}
