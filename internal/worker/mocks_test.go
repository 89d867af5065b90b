package worker

import (
	"context"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// MockClickHouseConn implements driver.Conn for testing. It records every
// appended row so tests can assert what a flush wrote.
type MockClickHouseConn struct {
	driver.Conn

	mu       sync.Mutex
	appended [][]interface{}
	sends    int
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	return &MockBatch{conn: m}, nil
}

func (m *MockClickHouseConn) AppendedRows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([][]interface{}, len(m.appended))
	copy(rows, m.appended)
	return rows
}

func (m *MockClickHouseConn) Sends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sends
}

type MockBatch struct {
	conn *MockClickHouseConn
	sent bool
}

func (m *MockBatch) IsSent() bool {
	return m.sent
}

func (m *MockBatch) Rows() int {
	return 0
}

func (m *MockBatch) Append(v ...interface{}) error {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()
	m.conn.appended = append(m.conn.appended, v)
	return nil
}

func (m *MockBatch) AppendStruct(v interface{}) error {
	return nil
}

func (m *MockBatch) Column(int) driver.BatchColumn {
	return nil
}

func (m *MockBatch) Send() error {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()
	m.conn.sends++
	m.sent = true
	return nil
}

func (m *MockBatch) Flush() error {
	return nil
}

func (m *MockBatch) Abort() error {
	return nil
}
