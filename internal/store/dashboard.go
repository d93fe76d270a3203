package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// DashboardPreviewCap bounds the most-recent-first materials preview list.
const DashboardPreviewCap = 10

// Dashboard maintains per-user running statistics, a bounded materials
// preview and an incrementally maintained category breakdown. Stats counters
// are independent of the preview list and are never recomputed from it.
type Dashboard struct {
	mu    sync.Mutex
	state model.Dashboard

	userID  UserIDResolver
	durable kvstore.Store
	log     *zap.Logger
}

// NewDashboard starts with the empty aggregate.
func NewDashboard(userID UserIDResolver, durable kvstore.Store, log *zap.Logger) *Dashboard {
	return &Dashboard{userID: userID, durable: durable, log: log}
}

// Init loads the persisted per-user aggregate, leaving the empty default when
// no user id is resolvable or nothing was stored.
func (d *Dashboard) Init() {
	uid, ok := d.userID()
	if !ok {
		return
	}

	var state model.Dashboard
	found, err := d.durable.Get(kvstore.DashboardKey(uid), &state)
	if err != nil {
		d.log.Error("dashboard: unreadable aggregate", zap.Error(err))
		return
	}
	if !found {
		return
	}

	d.mu.Lock()
	d.state = state
	d.mu.Unlock()
}

// AddMaterial prepends the material to the bounded preview, bumps the
// material and upload counters, folds the category into the breakdown and
// recomputes every percentage against the total counter.
func (d *Dashboard) AddMaterial(m model.Material) {
	d.mu.Lock()
	st := &d.state
	st.Materials = append([]model.Material{m}, st.Materials...)
	if len(st.Materials) > DashboardPreviewCap {
		st.Materials = st.Materials[:DashboardPreviewCap]
	}
	st.Stats.TotalMaterials++
	st.Stats.Uploads++

	found := false
	for i := range st.Categories {
		if st.Categories[i].Name == m.Category {
			st.Categories[i].Count++
			found = true
			break
		}
	}
	if !found {
		st.Categories = append(st.Categories, model.CategoryShare{Name: m.Category, Count: 1})
	}
	total := float64(st.Stats.TotalMaterials)
	for i := range st.Categories {
		st.Categories[i].Percentage = float64(st.Categories[i].Count) / total * 100
	}
	snap := snapshotDashboard(*st)
	d.mu.Unlock()

	d.persist(snap)
}

// IncrementDownloads bumps the total download counter and, when the preview
// holds a matching entry, that entry's own counter.
func (d *Dashboard) IncrementDownloads(materialID string) {
	d.mu.Lock()
	d.state.Stats.TotalDownloads++
	for i := range d.state.Materials {
		if d.state.Materials[i].ID == materialID {
			d.state.Materials[i].Downloads++
			break
		}
	}
	snap := snapshotDashboard(d.state)
	d.mu.Unlock()

	d.persist(snap)
}

// State returns a snapshot of the current aggregate.
func (d *Dashboard) State() model.Dashboard {
	d.mu.Lock()
	defer d.mu.Unlock()
	return snapshotDashboard(d.state)
}

func (d *Dashboard) persist(snap model.Dashboard) {
	uid, ok := d.userID()
	if !ok {
		return
	}
	if err := d.durable.Put(kvstore.DashboardKey(uid), snap); err != nil {
		d.log.Warn("dashboard: persist failed", zap.Error(err))
	}
}

func snapshotDashboard(s model.Dashboard) model.Dashboard {
	s.Materials = append([]model.Material(nil), s.Materials...)
	s.Categories = append([]model.CategoryShare(nil), s.Categories...)
	return s
}
