// Package mocks provides mock implementations of interfaces for testing.
// These follow Go best practices for test doubles.
package mocks

import (
	"strings"
	"sync"

	"github.com/tickbridge/tickbridge/pkg/logger"
)

// MockOperation is a controllable host operation for testing
type MockOperation struct {
	mu   sync.Mutex
	done bool
	err  error
}

// NewMockOperation creates a pending mock operation
func NewMockOperation() *MockOperation {
	return &MockOperation{}
}

// Complete marks the operation done with the given status
func (m *MockOperation) Complete(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done = true
	m.err = err
}

// Done reports completion
func (m *MockOperation) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Err returns the completion status
func (m *MockOperation) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// MockValueOperation is a controllable value-producing operation
type MockValueOperation[T any] struct {
	MockOperation
	mu    sync.Mutex
	value T
}

// NewMockValueOperation creates a pending value operation
func NewMockValueOperation[T any]() *MockValueOperation[T] {
	return &MockValueOperation[T]{}
}

// CompleteWith marks the operation done with a value
func (m *MockValueOperation[T]) CompleteWith(value T) {
	m.mu.Lock()
	m.value = value
	m.mu.Unlock()
	m.Complete(nil)
}

// Result returns the value
func (m *MockValueOperation[T]) Result() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// MockExecutor records posted work for manual draining
type MockExecutor struct {
	mu    sync.Mutex
	items []func()
	err   error
}

// NewMockExecutor creates an empty executor
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{}
}

// FailWith makes subsequent posts return err
func (m *MockExecutor) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Post records work
func (m *MockExecutor) Post(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, fn)
	return nil
}

// Drain runs all recorded work in order and returns the count
func (m *MockExecutor) Drain() int {
	m.mu.Lock()
	items := m.items
	m.items = nil
	m.mu.Unlock()

	for _, fn := range items {
		fn()
	}
	return len(items)
}

// MockLogger records log entries for assertions
type MockLogger struct {
	mu      sync.Mutex
	scope   string
	Entries []LogEntry
}

// LogEntry is one recorded log call
type LogEntry struct {
	Level   string
	Message string
	Fields  []logger.Field
	Scope   string
}

// NewMockLogger creates an empty recording logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, message string, fields []logger.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Message: message, Fields: fields, Scope: m.scope})
}

// Info records an info entry
func (m *MockLogger) Info(message string, fields ...logger.Field) {
	m.record("info", message, fields)
}

// Error records an error entry
func (m *MockLogger) Error(message string, fields ...logger.Field) {
	m.record("error", message, fields)
}

// Warn records a warn entry
func (m *MockLogger) Warn(message string, fields ...logger.Field) {
	m.record("warn", message, fields)
}

// Debug records a debug entry
func (m *MockLogger) Debug(message string, fields ...logger.Field) {
	m.record("debug", message, fields)
}

// WithScope returns a logger recording into the same entry list
func (m *MockLogger) WithScope(scope string) logger.Logger {
	return &scopedMockLogger{parent: m, scope: scope}
}

// HasEntry reports whether any entry at the level contains the substring
func (m *MockLogger) HasEntry(level, substring string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && strings.Contains(e.Message, substring) {
			return true
		}
	}
	return false
}

type scopedMockLogger struct {
	parent *MockLogger
	scope  string
}

func (s *scopedMockLogger) record(level, message string, fields []logger.Field) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	s.parent.Entries = append(s.parent.Entries, LogEntry{Level: level, Message: message, Fields: fields, Scope: s.scope})
}

func (s *scopedMockLogger) Info(message string, fields ...logger.Field) {
	s.record("info", message, fields)
}

func (s *scopedMockLogger) Error(message string, fields ...logger.Field) {
	s.record("error", message, fields)
}

func (s *scopedMockLogger) Warn(message string, fields ...logger.Field) {
	s.record("warn", message, fields)
}

func (s *scopedMockLogger) Debug(message string, fields ...logger.Field) {
	s.record("debug", message, fields)
}

func (s *scopedMockLogger) WithScope(scope string) logger.Logger {
	return &scopedMockLogger{parent: s.parent, scope: scope}
}
