package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripverse/bargain-engine/internal/cache"
	"github.com/tripverse/bargain-engine/internal/config"
	"github.com/tripverse/bargain-engine/internal/domain/session"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/logger"
	"github.com/tripverse/bargain-engine/internal/types"
)

func newTestSessionStore(t *testing.T) session.Repository {
	t.Helper()
	cfg := config.GetDefaultConfig()
	log, err := logger.NewLogger(cfg)
	require.NoError(t, err)
	return NewSessionRepository(cfg, cache.NewInMemoryCache(), log)
}

func newTestSession(ttl time.Duration) *session.NegotiationSession {
	return session.New("flight_DEL_BOM_20260910", types.ProductTypeFlight, decimal.NewFromInt(1000), 3, ttl)
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, stored.ID)
	assert.True(t, stored.CurrentFloor.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, types.NegotiationStatusOpen, stored.Status)
}

func TestSessionStore_CreateDuplicate(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	err := store.Create(ctx, sess)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrAlreadyExists))
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "bses_missing")
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestSessionStore_GetReturnsCopy(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	first, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)

	// Mutating the returned copy must not leak into the store
	first.Round = 99
	first.RecordTried(decimal.NewFromInt(500))

	second, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Round)
	assert.False(t, second.HasTried(decimal.NewFromInt(500)))
}

func TestSessionStore_MutatePersists(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	updated, err := store.Mutate(ctx, sess.ID, func(s *session.NegotiationSession) error {
		s.Round++
		s.Status = types.NegotiationStatusCountered
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Round)

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Round)
	assert.Equal(t, types.NegotiationStatusCountered, stored.Status)
}

func TestSessionStore_MutateErrorDiscardsChanges(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	boom := ierr.NewError("nope").Mark(ierr.ErrInvalidOperation)
	_, err := store.Mutate(ctx, sess.ID, func(s *session.NegotiationSession) error {
		s.Round = 42
		return boom
	})
	require.Error(t, err)

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Round)
}

func TestSessionStore_MutateMissing(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	_, err := store.Mutate(ctx, "bses_missing", func(s *session.NegotiationSession) error {
		return nil
	})
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestSessionStore_Delete(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))
	require.NoError(t, store.Delete(ctx, sess.ID))

	_, err := store.Get(ctx, sess.ID)
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestSessionStore_RecordsExpireWithTheSession(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(50 * time.Millisecond)
	require.NoError(t, store.Create(ctx, sess))

	_, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = store.Get(ctx, sess.ID)
	require.Error(t, err)
	assert.True(t, ierr.IsNotFound(err))
}

func TestSessionStore_ConcurrentMutatesSerialize(t *testing.T) {
	store := newTestSessionStore(t)
	ctx := context.Background()

	sess := newTestSession(15 * time.Minute)
	require.NoError(t, store.Create(ctx, sess))

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Mutate(ctx, sess.ID, func(s *session.NegotiationSession) error {
				s.Round++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, stored.Round)
}
