// Package testutil holds in-memory fakes shared across package tests,
// grounded on the teacher's own internal/testutil/mocks.go.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/haliaxis/triarb/internal/execution"
)

// MockSink is an in-memory execution.Sink for tests, analogous to the
// teacher's MockStorage.
type MockSink struct {
	mu      sync.Mutex
	records []*execution.TradeRecord
	recErr  error
	closed  bool
}

// NewMockSink returns an empty MockSink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// Record implements execution.Sink.
func (m *MockSink) Record(_ context.Context, record *execution.TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recErr != nil {
		return m.recErr
	}
	m.records = append(m.records, record)
	return nil
}

// Close implements execution.Sink.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetRecordError forces subsequent Record calls to fail with err.
func (m *MockSink) SetRecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recErr = err
}

// ResetErrors clears any forced error.
func (m *MockSink) ResetErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recErr = nil
}

// Records returns a snapshot of every record written so far.
func (m *MockSink) Records() []*execution.TradeRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*execution.TradeRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// ErrSinkUnavailable is a canned error for SetRecordError in tests.
var ErrSinkUnavailable = errors.New("mock sink: unavailable")
