// Package testutil provides in-memory doubles for unit tests.
package testutil

import (
	"strings"
	"sync"
)

// MockConn records everything written to it and satisfies the players.Conn
// contract. Safe for concurrent use.
type MockConn struct {
	mu       sync.Mutex
	data     []byte
	shutdown bool

	// FailWrites makes every Write return an error, to exercise the
	// broadcast error paths.
	FailWrites bool
}

func NewMockConn() *MockConn {
	return &MockConn{}
}

func (m *MockConn) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return 0, errWriteFailed
	}
	m.data = append(m.data, p...)
	return len(p), nil
}

func (m *MockConn) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown = true
	return nil
}

// String returns everything written so far.
func (m *MockConn) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data)
}

// Lines splits the recorded output on newlines, dropping a trailing empty
// fragment.
func (m *MockConn) Lines() []string {
	s := strings.TrimSuffix(m.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// ShutdownCalled reports whether Shutdown has been invoked.
func (m *MockConn) ShutdownCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shutdown
}

// Reset clears the recorded output.
func (m *MockConn) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
}

type writeError struct{}

func (writeError) Error() string { return "mock write failed" }

var errWriteFailed = writeError{}
