package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// MaterialLister is the remote listing contract consumed by the collection.
type MaterialLister interface {
	List(ctx context.Context) ([]model.Material, error)
}

// Materials is the canonical in-memory library collection. It is process-wide
// (the library is shared), refreshable from the remote API and cached in the
// durable tier.
type Materials struct {
	mu    sync.Mutex
	items []model.Material
	subs  []func([]model.Material)

	api   MaterialLister
	cache kvstore.Store // durable tier
	log   *zap.Logger
}

// NewMaterials starts with an empty collection.
func NewMaterials(api MaterialLister, cache kvstore.Store, log *zap.Logger) *Materials {
	return &Materials{api: api, cache: cache, log: log}
}

// Subscribe registers fn to receive a snapshot after every collection change.
func (m *Materials) Subscribe(fn func([]model.Material)) {
	m.mu.Lock()
	m.subs = append(m.subs, fn)
	m.mu.Unlock()
}

// Items returns a snapshot of the current collection.
func (m *Materials) Items() []model.Material {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Material(nil), m.items...)
}

// Categories derives the per-category breakdown of the current collection.
func (m *Materials) Categories() []model.CategoryShare {
	return CategoryShares(m.Items())
}

// FetchAll replaces the whole collection with the remote listing. Any failure
// replaces it with an empty collection: a failed refresh means nothing is
// confirmed, stale data is not kept.
func (m *Materials) FetchAll(ctx context.Context) {
	items, err := m.api.List(ctx)
	if err != nil {
		m.log.Error("materials: fetch failed", zap.Error(err))
		items = nil
	}
	m.replace(items)
}

// RestoreFromCache populates the collection from the durable cache so callers
// have immediately-available (possibly stale) data before any fetch resolves.
func (m *Materials) RestoreFromCache() {
	var items []model.Material
	ok, err := m.cache.Get(kvstore.KeyMaterials, &items)
	if err != nil {
		m.log.Error("materials: unreadable cache", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	m.replace(items)
}

// Add prepends a material and writes the full collection through to the cache.
func (m *Materials) Add(mat model.Material) {
	m.mu.Lock()
	m.items = append([]model.Material{mat}, m.items...)
	snap := append([]model.Material(nil), m.items...)
	subs := m.subs
	m.mu.Unlock()

	m.persist(snap)
	m.notify(subs, snap)
}

// IncrementDownloads bumps the download counter of the matching entry.
// An unknown id leaves the collection unchanged.
func (m *Materials) IncrementDownloads(id string) {
	m.mu.Lock()
	changed := false
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].Downloads++
			changed = true
			break
		}
	}
	snap := append([]model.Material(nil), m.items...)
	subs := m.subs
	m.mu.Unlock()

	if !changed {
		return
	}
	m.persist(snap)
	m.notify(subs, snap)
}

func (m *Materials) replace(items []model.Material) {
	m.mu.Lock()
	m.items = append([]model.Material(nil), items...)
	snap := append([]model.Material(nil), m.items...)
	subs := m.subs
	m.mu.Unlock()
	m.notify(subs, snap)
}

func (m *Materials) persist(snap []model.Material) {
	if err := m.cache.Put(kvstore.KeyMaterials, snap); err != nil {
		m.log.Warn("materials: persist failed", zap.Error(err))
	}
}

func (m *Materials) notify(subs []func([]model.Material), snap []model.Material) {
	for _, fn := range subs {
		fn(append([]model.Material(nil), snap...))
	}
}
