package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/tripverse/bargain-engine/internal/cache"
	"github.com/tripverse/bargain-engine/internal/config"
	"github.com/tripverse/bargain-engine/internal/domain/session"
	ierr "github.com/tripverse/bargain-engine/internal/errors"
	"github.com/tripverse/bargain-engine/internal/logger"
)

const lockStripes = 64

// cachedSessionStore keeps negotiation sessions in the TTL cache. Every
// record is stored with the remaining time to its ExpiresAt so the cache
// janitor reclaims expired sessions without a dedicated sweeper. A striped
// mutex set serializes read-modify-write per session ID; distinct sessions
// proceed in parallel.
type cachedSessionStore struct {
	cfg    *config.Configuration
	cache  cache.Cache
	logger *logger.Logger
	locks  [lockStripes]sync.Mutex
}

func newCachedSessionStore(cfg *config.Configuration, c cache.Cache, logger *logger.Logger) *cachedSessionStore {
	return &cachedSessionStore{
		cfg:    cfg,
		cache:  c,
		logger: logger,
	}
}

func (s *cachedSessionStore) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}

func sessionKey(id string) string {
	return cache.GenerateKey(cache.PrefixBargainSession, id)
}

func (s *cachedSessionStore) Create(ctx context.Context, sess *session.NegotiationSession) error {
	if sess == nil {
		return ierr.NewError("session cannot be nil").
			WithHint("Session cannot be nil").
			Mark(ierr.ErrValidation)
	}

	mu := s.lockFor(sess.ID)
	mu.Lock()
	defer mu.Unlock()

	if _, found := s.cache.Get(ctx, sessionKey(sess.ID)); found {
		return ierr.NewError("session already exists").
			WithHint("A bargain session with this ID already exists").
			WithReportableDetails(map[string]any{"session_id": sess.ID}).
			Mark(ierr.ErrAlreadyExists)
	}

	s.put(ctx, sess)
	s.logger.Debugw("created bargain session",
		"session_id", sess.ID,
		"product_ref", sess.ProductRef,
		"expires_at", sess.ExpiresAt)
	return nil
}

func (s *cachedSessionStore) Get(ctx context.Context, id string) (*session.NegotiationSession, error) {
	raw, found := s.cache.Get(ctx, sessionKey(id))
	if !found {
		return nil, ierr.NewError("session not found").
			WithHint("The bargain session does not exist or has expired").
			WithReportableDetails(map[string]any{"session_id": id}).
			Mark(ierr.ErrNotFound)
	}

	sess, ok := raw.(*session.NegotiationSession)
	if !ok {
		return nil, ierr.NewError("corrupt session record").
			WithHint("The stored session record could not be read").
			WithReportableDetails(map[string]any{"session_id": id}).
			Mark(ierr.ErrSystem)
	}

	return sess.Copy(), nil
}

// Mutate applies fn to the session under the per-key lock and persists the
// result. Two concurrent Mutate calls for the same ID serialize, so a round
// is never double-incremented and the tried-price set never loses an entry.
func (s *cachedSessionStore) Mutate(ctx context.Context, id string, fn session.MutateFunc) (*session.NegotiationSession, error) {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(sess); err != nil {
		return nil, err
	}

	s.put(ctx, sess)
	return sess.Copy(), nil
}

func (s *cachedSessionStore) Delete(ctx context.Context, id string) error {
	mu := s.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	s.cache.Delete(ctx, sessionKey(id))
	return nil
}

func (s *cachedSessionStore) put(ctx context.Context, sess *session.NegotiationSession) {
	// Records live exactly as long as the session TTL; terminal sessions
	// stay queryable until then.
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	s.cache.Set(ctx, sessionKey(sess.ID), sess.Copy(), ttl)
}
