package store

import (
	"context"
	"fmt"

	"github.com/evyataryagoni/storefinder/internal/models"
)

// QueryCall records one raw query issued against the mock
type QueryCall struct {
	Query string
	Args  []interface{}
}

// WriteCall records one insert/update/delete issued against the mock
type WriteCall struct {
	Table  string
	Record models.Record
	Where  map[string]interface{}
	Limit  int
}

// MockStore is a test double for the Store interface
// It holds a single in-memory table, tracks every call, and can be told to fail
type MockStore struct {
	// Rows is the table content; Insert assigns ids from NextID
	Rows   []models.Record
	NextID int64

	// QueryRows is what Query returns (the mock does not interpret SQL)
	QueryRows []models.Record

	// Track method calls for verification in tests
	SelectOneCalls []WriteCall
	SelectAllCalls []string
	QueryCalls     []QueryCall
	InsertCalls    []WriteCall
	UpdateCalls    []WriteCall
	DeleteCalls    []WriteCall
	CloseCalled    bool

	// Control behavior for error scenarios
	SelectError error
	QueryError  error
	InsertError error
	UpdateError error
	DeleteError error
	CloseError  error
}

// NewMockStore creates a mock store with two sample stores
func NewMockStore() *MockStore {
	return &MockStore{
		Rows: []models.Record{
			{"id": int64(1), "name": "Leeds", "postcode": "LS1 4DY", "lat": 53.7974, "lng": -1.5438},
			{"id": int64(2), "name": "York", "postcode": "YO1 7HH", "lat": 53.96, "lng": -1.0873},
		},
		NextID: 3,
	}
}

// NewEmptyMockStore creates a mock store with no rows
func NewEmptyMockStore() *MockStore {
	return &MockStore{NextID: 1}
}

// SelectOne implements the Store interface
func (m *MockStore) SelectOne(_ context.Context, table string, where map[string]interface{}) (models.Record, error) {
	m.SelectOneCalls = append(m.SelectOneCalls, WriteCall{Table: table, Where: where})

	if m.SelectError != nil {
		return nil, m.SelectError
	}

	for _, row := range m.Rows {
		if matches(row, where) {
			return row.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// SelectAll implements the Store interface
func (m *MockStore) SelectAll(_ context.Context, table string) ([]models.Record, error) {
	m.SelectAllCalls = append(m.SelectAllCalls, table)

	if m.SelectError != nil {
		return nil, m.SelectError
	}

	rows := make([]models.Record, 0, len(m.Rows))
	for _, row := range m.Rows {
		rows = append(rows, row.Clone())
	}
	return rows, nil
}

// Query implements the Store interface and returns QueryRows
func (m *MockStore) Query(_ context.Context, query string, args ...interface{}) ([]models.Record, error) {
	m.QueryCalls = append(m.QueryCalls, QueryCall{Query: query, Args: args})

	if m.QueryError != nil {
		return nil, m.QueryError
	}
	return m.QueryRows, nil
}

// Insert implements the Store interface
func (m *MockStore) Insert(_ context.Context, table string, record models.Record) error {
	m.InsertCalls = append(m.InsertCalls, WriteCall{Table: table, Record: record.Clone()})

	if m.InsertError != nil {
		return m.InsertError
	}

	row := record.Clone()
	row[models.FieldID] = m.NextID
	m.NextID++
	m.Rows = append(m.Rows, row)
	return nil
}

// Update implements the Store interface
func (m *MockStore) Update(_ context.Context, table string, record models.Record, where map[string]interface{}) (int64, error) {
	m.UpdateCalls = append(m.UpdateCalls, WriteCall{Table: table, Record: record.Clone(), Where: where})

	if m.UpdateError != nil {
		return 0, m.UpdateError
	}

	var matched int64
	for _, row := range m.Rows {
		if !matches(row, where) {
			continue
		}
		for k, v := range record {
			row[k] = v
		}
		matched++
	}
	return matched, nil
}

// Delete implements the Store interface
func (m *MockStore) Delete(_ context.Context, table string, where map[string]interface{}, limit int) (int64, error) {
	m.DeleteCalls = append(m.DeleteCalls, WriteCall{Table: table, Where: where, Limit: limit})

	if m.DeleteError != nil {
		return 0, m.DeleteError
	}

	var removed int64
	kept := m.Rows[:0]
	for _, row := range m.Rows {
		if matches(row, where) && (limit <= 0 || removed < int64(limit)) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	m.Rows = kept
	return removed, nil
}

// Close implements the Store interface
func (m *MockStore) Close() error {
	m.CloseCalled = true
	return m.CloseError
}

// matches compares by printed value so int and int64 ids compare equal
func matches(row models.Record, where map[string]interface{}) bool {
	for column, want := range where {
		if fmt.Sprint(row[column]) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}
