// Package apitest holds doubles shared by the handler tests
package apitest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/podscribe/api/types"
	"github.com/killallgit/podscribe/internal/database"
	"github.com/killallgit/podscribe/internal/models"
	"github.com/killallgit/podscribe/internal/services/library"
)

// MockLibrary is a mock implementation of types.LibraryService
type MockLibrary struct {
	mock.Mock
}

var _ types.LibraryService = (*MockLibrary)(nil)

func (m *MockLibrary) Query(ctx context.Context, text string, k int) ([]library.QueryResult, error) {
	args := m.Called(ctx, text, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]library.QueryResult), args.Error(1)
}

func (m *MockLibrary) AddChannel(ctx context.Context, feedURL, language string) (bool, *models.Channel, error) {
	args := m.Called(ctx, feedURL, language)
	if args.Get(1) == nil {
		return args.Bool(0), nil, args.Error(2)
	}
	return args.Bool(0), args.Get(1).(*models.Channel), args.Error(2)
}

func (m *MockLibrary) DeleteChannel(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLibrary) Stats(ctx context.Context) (library.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(library.Stats), args.Error(1)
}

func (m *MockLibrary) EnqueueUpdateAll() error {
	return m.Called().Error(0)
}

func (m *MockLibrary) EnqueueIndexPending() error {
	return m.Called().Error(0)
}

func (m *MockLibrary) ScheduleTranscribePending(opts library.TranscribeOptions) error {
	return m.Called(opts).Error(0)
}

// NewDB opens a migrated in-memory database closed with the test
func NewDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}
