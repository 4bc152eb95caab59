package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/service/completion"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

// nopTxConnector backs MockAlbumStore.DB with a handle whose transactions
// begin, commit, and roll back without a database, so transactional service
// paths run under test with the store calls still going to the mock.
type nopTxConnector struct{}

func (nopTxConnector) Connect(context.Context) (driver.Conn, error) { return nopConn{}, nil }
func (nopTxConnector) Driver() driver.Driver                        { return nopDriver{} }

type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("no statements") }
func (nopConn) Close() error                        { return nil }
func (nopConn) Begin() (driver.Tx, error)           { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// MockAlbumStore mocks the store.AlbumStore interface
type MockAlbumStore struct {
	mock.Mock
}

func (m *MockAlbumStore) Create(ctx context.Context, album *domain.Album) error {
	args := m.Called(ctx, album)
	return args.Error(0)
}

func (m *MockAlbumStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Album), args.Error(1)
}

func (m *MockAlbumStore) GetByIDWithChallenges(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Album), args.Error(1)
}

func (m *MockAlbumStore) GetByCode(ctx context.Context, code string) (*domain.Album, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Album), args.Error(1)
}

func (m *MockAlbumStore) ListByOwner(
	ctx context.Context,
	userID uuid.UUID,
) ([]*store.AlbumWithCounts, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.AlbumWithCounts), args.Error(1)
}

func (m *MockAlbumStore) UpdateBgImage(ctx context.Context, id uuid.UUID, bgImage string) error {
	args := m.Called(ctx, id, bgImage)
	return args.Error(0)
}

func (m *MockAlbumStore) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlbumStore) DB() *sql.DB {
	return sql.OpenDB(nopTxConnector{})
}

func (m *MockAlbumStore) WithTx(tx *sql.Tx) store.AlbumStore {
	return m
}

// MockChallengeStore mocks the store.ChallengeStore interface
type MockChallengeStore struct {
	mock.Mock
}

func (m *MockChallengeStore) Create(ctx context.Context, challenge *domain.Challenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockChallengeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Challenge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Challenge), args.Error(1)
}

func (m *MockChallengeStore) Update(ctx context.Context, challenge *domain.Challenge) error {
	args := m.Called(ctx, challenge)
	return args.Error(0)
}

func (m *MockChallengeStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMemoryStore mocks the store.MemoryStore interface
type MockMemoryStore struct {
	mock.Mock
}

func (m *MockMemoryStore) Create(ctx context.Context, memory *domain.Memory) error {
	args := m.Called(ctx, memory)
	return args.Error(0)
}

// MockTracker mocks the completion.Tracker interface
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) MaybeMarkCompleted(
	ctx context.Context,
	userID uuid.UUID,
	album *domain.Album,
) (completion.Outcome, error) {
	args := m.Called(ctx, userID, album)
	return args.Get(0).(completion.Outcome), args.Error(1)
}

// MockCompletionStore mocks the store.CompletionStore interface
type MockCompletionStore struct {
	mock.Mock
}

func (m *MockCompletionStore) Upsert(
	ctx context.Context,
	userID, albumID uuid.UUID,
	completedAt time.Time,
) error {
	args := m.Called(ctx, userID, albumID, completedAt)
	return args.Error(0)
}
