package hid

import (
	"context"
	"sync"
)

// MockHID implements Device for tests. Reports handed to Emit come
// back out of PollReports, and reports written to the device are kept
// for inspection via Written.
type MockHID struct {
	reports chan Report

	mu      sync.Mutex
	written []Report
}

func NewMockHID() *MockHID {
	return &MockHID{
		reports: make(chan Report),
	}
}

func (m *MockHID) Close() error {
	return nil
}

func (m *MockHID) WriteReport(_ context.Context, r Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.written = append(m.written, Report{
		ID:   r.ID,
		Data: append([]byte(nil), r.Data...),
	})
	return nil
}

// Written returns a copy of every report written so far, in order.
func (m *MockHID) Written() []Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Report(nil), m.written...)
}

func (m *MockHID) PollReports(ctx context.Context) <-chan Report {
	go func() {
		<-ctx.Done()
		close(m.reports)
	}()

	return m.reports
}

func (m *MockHID) Emit(r Report) {
	m.reports <- Report{ID: r.ID, Data: r.Data}
}
