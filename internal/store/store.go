// Package store is the document-store boundary: durable records for accounts
// and videos with live change notification. Handlers and projections talk to
// the two collection interfaces only; main wires the gorm implementation and
// tests wire the in-memory one.
package store

import (
	"context"
	"errors"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/videos"
)

var ErrNotFound = errors.New("store: record not found")

// Accounts and Videos are the process-wide collections, set once at startup.
var (
	Accounts AccountStore
	Videos   VideoStore
)

// AccountStore persists account records keyed by principal id.
type AccountStore interface {
	Get(ctx context.Context, id string) (accounts.Account, error)
	GetByEmail(ctx context.Context, email string) (accounts.Account, error)
	Add(ctx context.Context, a accounts.Account) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]accounts.Account, error)

	// Watch delivers the full current result set immediately and again after
	// every change, until the returned cancel func is called. Snapshots for
	// this collection arrive in a consistent sequence; no ordering holds
	// across collections.
	Watch(fn func([]accounts.Account)) (cancel func())
}

// VideoStore persists catalogue entries. All and Watch order by title ascending.
type VideoStore interface {
	Get(ctx context.Context, id string) (videos.Video, error)
	Add(ctx context.Context, v videos.Video) (string, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	All(ctx context.Context) ([]videos.Video, error)
	Watch(fn func([]videos.Video)) (cancel func())
}
