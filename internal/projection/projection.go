// Package projection keeps in-memory, live-updated views over the document
// store: the public video catalogue (title order) and the account directory
// used by admin tooling. Projections only mirror and order; access decisions
// stay in the entitlement package.
package projection

import (
	"sync"

	"edustream-app/internal/domain/accounts"
	"edustream-app/internal/domain/videos"
	"edustream-app/internal/store"
)

var (
	Catalogue *VideoCatalogue
	Directory *AccountDirectory
)

// Init wires the projections and starts the catalogue feed. The returned stop
// func releases every live-update handle; main defers it, tests call it on
// every exit path.
func Init(vs store.VideoStore, as store.AccountStore) (stop func()) {
	Catalogue = NewVideoCatalogue(vs)
	Directory = NewAccountDirectory(as)

	cancelCatalogue := Catalogue.start()
	return func() {
		cancelCatalogue()
		Directory.Stop()
	}
}

// VideoCatalogue mirrors the videos collection, title-ascending. Readable by
// everyone including anonymous visitors; only playback is gated elsewhere.
type VideoCatalogue struct {
	mu    sync.RWMutex
	store store.VideoStore
	items []videos.Video
}

func NewVideoCatalogue(vs store.VideoStore) *VideoCatalogue {
	return &VideoCatalogue{store: vs}
}

func (c *VideoCatalogue) start() func() {
	return c.store.Watch(func(snapshot []videos.Video) {
		c.mu.Lock()
		c.items = snapshot
		c.mu.Unlock()
	})
}

func (c *VideoCatalogue) Videos() []videos.Video {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]videos.Video, len(c.items))
	copy(out, c.items)
	return out
}

// AccountDirectory mirrors the accounts collection for admin tooling. The
// feed is only ever subscribed once an admin surface asks for it, so
// non-admin request paths never hold a live view of other accounts.
type AccountDirectory struct {
	mu     sync.RWMutex
	store  store.AccountStore
	items  []accounts.Account
	cancel func()
}

func NewAccountDirectory(as store.AccountStore) *AccountDirectory {
	return &AccountDirectory{store: as}
}

// Ensure subscribes the live feed on first admin use. Idempotent.
// Watch delivers the initial snapshot synchronously, so the subscription is
// made outside the lock.
func (d *AccountDirectory) Ensure() {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()

	cancel := d.store.Watch(func(snapshot []accounts.Account) {
		d.mu.Lock()
		d.items = snapshot
		d.mu.Unlock()
	})

	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		cancel()
		return
	}
	d.cancel = cancel
	d.mu.Unlock()
}

func (d *AccountDirectory) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (d *AccountDirectory) Accounts() []accounts.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]accounts.Account, len(d.items))
	copy(out, d.items)
	return out
}
