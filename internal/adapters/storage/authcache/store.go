package authcache

import (
	"context"
	"errors"

	"mectofit/internal/domain/identity"
)

// CacheKey is the fixed namespace under which the session snapshot is
// persisted. A reload reads back exactly what the last mutation wrote.
const CacheKey = "auth-storage"

// ErrNotFound is returned by Load when no snapshot has been persisted yet.
var ErrNotFound = errors.New("no cached auth state")

// ErrCorrupt is returned by Load when a snapshot exists but cannot be
// decoded. Callers treat it as recoverable: discard the payload and start
// with an empty session.
var ErrCorrupt = errors.New("corrupt auth cache payload")

// Record is the durable shape of the client-side session cache. It carries
// only what the server already exposes to the client: the profile, the
// organization, and the convenience token the server issued. Never a
// password.
type Record struct {
	User            *identity.User         `json:"user"`
	Organization    *identity.Organization `json:"organization"`
	IsAuthenticated bool                   `json:"isAuthenticated"`
	Token           string                 `json:"token,omitempty"`
}

// Store persists the session cache between process runs.
type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}
