package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/videos"

	"github.com/google/uuid"
)

// InitMemory swaps the collections for in-memory ones. Test wiring.
func InitMemory() (*MemoryAccountStore, *MemoryVideoStore) {
	as := NewMemoryAccountStore()
	vs := NewMemoryVideoStore()
	Accounts = as
	Videos = vs
	return as, vs
}

type MemoryAccountStore struct {
	mu      sync.RWMutex
	records map[string]accounts.Account
	watch   watchers[accounts.Account]
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{records: make(map[string]accounts.Account)}
}

func (s *MemoryAccountStore) Get(_ context.Context, id string) (accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.records[id]
	if !ok {
		return accounts.Account{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryAccountStore) GetByEmail(_ context.Context, email string) (accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.records {
		if a.Email == email {
			return a, nil
		}
	}
	return accounts.Account{}, ErrNotFound
}

func (s *MemoryAccountStore) Add(_ context.Context, a accounts.Account) (string, error) {
	s.mu.Lock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.records[a.ID] = a
	s.mu.Unlock()

	s.notify()
	return a.ID, nil
}

func (s *MemoryAccountStore) Update(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	a, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if v, ok := fields["subscription_status"].(string); ok {
		a.SubscriptionStatus = v
	}
	if v, ok := fields["subscription_ends_at"]; ok {
		a.SubscriptionEndsAt = toTimePtr(v)
	}
	if v, ok := fields["trial_ends_at"]; ok {
		a.TrialEndsAt = toTimePtr(v)
	}
	if v, ok := fields["email"].(string); ok {
		a.Email = v
	}
	a.UpdatedAt = time.Now()
	s.records[id] = a
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryAccountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.records, id)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryAccountStore) All(_ context.Context) ([]accounts.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *MemoryAccountStore) Watch(fn func([]accounts.Account)) func() {
	cancel := s.watch.subscribe(fn)
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()
	fn(snapshot)
	return cancel
}

func (s *MemoryAccountStore) snapshotLocked() []accounts.Account {
	out := make([]accounts.Account, 0, len(s.records))
	for _, a := range s.records {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryAccountStore) notify() {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()
	s.watch.broadcast(snapshot)
}

type MemoryVideoStore struct {
	mu      sync.RWMutex
	records map[string]videos.Video
	watch   watchers[videos.Video]
}

func NewMemoryVideoStore() *MemoryVideoStore {
	return &MemoryVideoStore{records: make(map[string]videos.Video)}
}

func (s *MemoryVideoStore) Get(_ context.Context, id string) (videos.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[id]
	if !ok {
		return videos.Video{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryVideoStore) Add(_ context.Context, v videos.Video) (string, error) {
	s.mu.Lock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	s.records[v.ID] = v
	s.mu.Unlock()

	s.notify()
	return v.ID, nil
}

func (s *MemoryVideoStore) Update(_ context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	v, ok := s.records[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if t, ok := fields["title"].(string); ok {
		v.Title = t
	}
	if d, ok := fields["description"].(string); ok {
		v.Description = d
	}
	if u, ok := fields["source_url"].(string); ok {
		v.SourceURL = u
	}
	if u, ok := fields["thumbnail_url"].(string); ok {
		v.ThumbnailURL = u
	}
	v.UpdatedAt = time.Now()
	s.records[id] = v
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryVideoStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.records, id)
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *MemoryVideoStore) All(_ context.Context) ([]videos.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(), nil
}

func (s *MemoryVideoStore) Watch(fn func([]videos.Video)) func() {
	cancel := s.watch.subscribe(fn)
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()
	fn(snapshot)
	return cancel
}

func (s *MemoryVideoStore) snapshotLocked() []videos.Video {
	out := make([]videos.Video, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (s *MemoryVideoStore) notify() {
	s.mu.RLock()
	snapshot := s.snapshotLocked()
	s.mu.RUnlock()
	s.watch.broadcast(snapshot)
}

func toTimePtr(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case *time.Time:
		return t
	default:
		return nil
	}
}
