package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake-api/internal/domain"
	"github.com/keepsakehq/keepsake-api/internal/domain/shortcode"
	"github.com/keepsakehq/keepsake-api/internal/store"
)

func newTestGenerator() *shortcode.Generator {
	return shortcode.NewGenerator(rand.NewSource(1))
}

func TestCreateAlbum(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("creates album with generated code", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		albums.On("Create", mock.Anything, mock.AnythingOfType("*domain.Album")).Return(nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		album, err := svc.CreateAlbum(context.Background(), ownerID, "Summer 2020", "Our trip", "travel")

		require.NoError(t, err)
		assert.Equal(t, ownerID, album.UserID)
		assert.True(t, domain.ValidCode(album.Code))
		albums.AssertExpectations(t)
	})

	t.Run("regenerates code when insert hits the unique index", func(t *testing.T) {
		t.Parallel()

		// The pre-check passes but the insert loses a race; the service must
		// retry with a fresh code rather than fail.
		albums := new(MockAlbumStore)
		albums.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
		albums.On("Create", mock.Anything, mock.AnythingOfType("*domain.Album")).
			Return(store.ErrCodeExists).Once()
		albums.On("Create", mock.Anything, mock.AnythingOfType("*domain.Album")).
			Return(nil).Once()

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		album, err := svc.CreateAlbum(context.Background(), ownerID, "Summer 2020", "", "travel")

		require.NoError(t, err)
		assert.True(t, domain.ValidCode(album.Code))
		albums.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("fails on invalid album data", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		_, err := svc.CreateAlbum(context.Background(), ownerID, "", "", "travel")

		require.Error(t, err)
		albums.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("fails when the code pre-check errors", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection lost")
		albums := new(MockAlbumStore)
		albums.On("CodeExists", mock.Anything, mock.AnythingOfType("string")).Return(false, storeErr)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		_, err := svc.CreateAlbum(context.Background(), ownerID, "Summer 2020", "", "travel")

		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestListAlbums(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("aggregates stats across albums", func(t *testing.T) {
		t.Parallel()

		listed := []*store.AlbumWithCounts{
			{Album: &domain.Album{ID: uuid.New()}, ChallengeCount: 3, MemoryCount: 5},
			{Album: &domain.Album{ID: uuid.New()}, ChallengeCount: 2, MemoryCount: 0},
		}
		albums := new(MockAlbumStore)
		albums.On("ListByOwner", mock.Anything, ownerID).Return(listed, nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		got, stats, err := svc.ListAlbums(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 2, stats.TotalAlbums)
		assert.Equal(t, 5, stats.TotalChallenges)
		assert.Equal(t, 5, stats.TotalMemories)
	})

	t.Run("returns empty stats for no albums", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("ListByOwner", mock.Anything, ownerID).Return([]*store.AlbumWithCounts{}, nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		got, stats, err := svc.ListAlbums(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, 0, stats.TotalAlbums)
	})
}

func TestFindByCode(t *testing.T) {
	t.Parallel()

	t.Run("returns album for known code", func(t *testing.T) {
		t.Parallel()

		album := &domain.Album{ID: uuid.New(), Code: "AB12CD"}
		albums := new(MockAlbumStore)
		albums.On("GetByCode", mock.Anything, "AB12CD").Return(album, nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		got, err := svc.FindByCode(context.Background(), "AB12CD")

		require.NoError(t, err)
		assert.Equal(t, album.ID, got.ID)
	})

	t.Run("maps missing code to ErrAlbumNotFound", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("GetByCode", mock.Anything, "ZZZZZZ").Return(nil, store.ErrAlbumNotFound)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		_, err := svc.FindByCode(context.Background(), "ZZZZZZ")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlbumNotFound)
	})
}

func TestUpdateBgImage(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	albumID := uuid.New()

	t.Run("updates when actor owns the album", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("GetByID", mock.Anything, albumID).
			Return(&domain.Album{ID: albumID, UserID: ownerID}, nil)
		albums.On("UpdateBgImage", mock.Anything, albumID, "bg/new.jpg").Return(nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		err := svc.UpdateBgImage(context.Background(), ownerID, albumID, "bg/new.jpg")

		require.NoError(t, err)
		albums.AssertExpectations(t)
	})

	t.Run("rejects non-owners", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("GetByID", mock.Anything, albumID).
			Return(&domain.Album{ID: albumID, UserID: ownerID}, nil)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		err := svc.UpdateBgImage(context.Background(), uuid.New(), albumID, "bg/new.jpg")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotAlbumOwner)
		albums.AssertNotCalled(t, "UpdateBgImage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("maps missing album to ErrAlbumNotFound", func(t *testing.T) {
		t.Parallel()

		albums := new(MockAlbumStore)
		albums.On("GetByID", mock.Anything, albumID).Return(nil, store.ErrAlbumNotFound)

		svc := NewAlbumService(albums, newTestGenerator(), nil)
		err := svc.UpdateBgImage(context.Background(), ownerID, albumID, "bg/new.jpg")

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlbumNotFound)
	})
}
