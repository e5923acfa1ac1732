package iostore

import (
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// GetDocStore implements the StoreManager interface.
func (m *MockStoreManager) GetDocStore() contract.DocStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.DocStore)
	return store
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(start time.Time, params map[string]any) (int64, error) {
	args := m.Called(start, params)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, end time.Time, engineerCount int, periodStart, periodEnd time.Time) error {
	args := m.Called(runID, end, engineerCount, periodStart, periodEnd)
	return args.Error(0)
}

// RecordScores implements the RunStore interface.
func (m *MockRunStore) RecordScores(runID int64, scores []schema.EnrichedScore) error {
	args := m.Called(runID, scores)
	return args.Error(0)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllScores implements the RunStore interface.
func (m *MockRunStore) GetAllScores() ([]schema.ScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.ScoreRecord)
	return scores, args.Error(1)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (*schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(*schema.StoreStatus)
	return status, args.Error(1)
}

// ClearAll implements the RunStore interface.
func (m *MockRunStore) ClearAll() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockDocStore is a mock implementation of DocStore for testing.
type MockDocStore struct {
	mock.Mock
}

var _ contract.DocStore = &MockDocStore{} // Compile-time check

// SaveDocuments implements the DocStore interface.
func (m *MockDocStore) SaveDocuments(docs []schema.Document) error {
	args := m.Called(docs)
	return args.Error(0)
}

// LoadDocuments implements the DocStore interface.
func (m *MockDocStore) LoadDocuments() ([]schema.Document, error) {
	args := m.Called()
	docs, _ := args.Get(0).([]schema.Document)
	return docs, args.Error(1)
}

// Stats implements the DocStore interface.
func (m *MockDocStore) Stats() (*schema.DocumentStats, error) {
	args := m.Called()
	stats, _ := args.Get(0).(*schema.DocumentStats)
	return stats, args.Error(1)
}

// ClearAll implements the DocStore interface.
func (m *MockDocStore) ClearAll() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the DocStore interface.
func (m *MockDocStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
