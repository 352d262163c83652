package store

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing store cannot be reached. The
// session treats every store failure as best-effort and keeps editing.
var ErrUnavailable = errors.New("store unavailable")

// LastSession is the persisted editing state restored at bootstrap.
type LastSession struct {
	Token     string `json:"token"`
	PublicKey string `json:"public_key,omitempty"`
	SavedAt   int64  `json:"saved_at"`
}

// Store persists the last-edited token per namespace. Implementations must
// treat a missing record as (nil, nil), not as an error.
type Store interface {
	SaveLast(ctx context.Context, namespace string, last LastSession) error
	LoadLast(ctx context.Context, namespace string) (*LastSession, error)
}
