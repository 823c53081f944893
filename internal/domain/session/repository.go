package session

import (
	"context"
)

// MutateFunc is applied to a session under the store's per-key lock. The
// mutated session is persisted when the func returns nil; any error aborts
// the write and is returned to the caller unchanged.
type MutateFunc func(s *NegotiationSession) error

// Repository is the sole owner of NegotiationSession records. It must
// provide an atomic read-modify-write per session so that concurrent offers
// for one session serialize; different sessions are independent.
type Repository interface {
	Create(ctx context.Context, session *NegotiationSession) error
	Get(ctx context.Context, id string) (*NegotiationSession, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*NegotiationSession, error)
	Delete(ctx context.Context, id string) error
}
