package store

import (
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// UserIDResolver supplies the current user id for per-user namespacing.
// Implemented by Auth.CurrentUserID.
type UserIDResolver func() (string, bool)

// DefaultActivityCapacity bounds the activity log.
const DefaultActivityCapacity = 20

// ActivityLog is an append-only, capacity-bounded, most-recent-first log of
// user actions, namespaced per user and persisted on every append.
type ActivityLog struct {
	mu      sync.Mutex
	entries []model.Activity

	capacity int
	userID   UserIDResolver
	durable  kvstore.Store
	log      *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewActivityLog builds an uninitialized log. capacity <= 0 selects the
// default bound.
func NewActivityLog(userID UserIDResolver, durable kvstore.Store, capacity int, log *zap.Logger) *ActivityLog {
	if capacity <= 0 {
		capacity = DefaultActivityCapacity
	}
	return &ActivityLog{
		capacity: capacity,
		userID:   userID,
		durable:  durable,
		log:      log,
		now:      time.Now,
		newID: func() string {
			id, _ := uuid.NewV4()
			return id.String()
		},
	}
}

// Init loads the persisted per-user log. Without a resolvable user id nothing
// is loaded; malformed stored data resets the in-memory log to empty.
func (l *ActivityLog) Init() {
	uid, ok := l.userID()
	if !ok {
		l.log.Warn("activity: no user id, nothing loaded")
		return
	}

	var entries []model.Activity
	found, err := l.durable.Get(kvstore.ActivitiesKey(uid), &entries)
	if err != nil {
		l.log.Error("activity: unreadable log", zap.Error(err))
		entries = nil
	}
	if !found {
		entries = nil
	}

	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
}

// Add prepends a new entry with a fresh id and timestamp, truncates to
// capacity and persists the result. Without a resolvable user id the call is
// a logged no-op.
func (l *ActivityLog) Add(typ model.ActivityType, title, description string, meta *model.ActivityMeta) {
	uid, ok := l.userID()
	if !ok {
		l.log.Warn("activity: no user id, entry not saved", zap.String("type", string(typ)))
		return
	}

	entry := model.Activity{
		ID:          l.newID(),
		Type:        typ,
		Title:       title,
		Description: description,
		Timestamp:   l.now(),
		Meta:        meta,
	}

	l.mu.Lock()
	l.entries = append([]model.Activity{entry}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	snap := append([]model.Activity(nil), l.entries...)
	l.mu.Unlock()

	if err := l.durable.Put(kvstore.ActivitiesKey(uid), snap); err != nil {
		l.log.Warn("activity: persist failed", zap.Error(err))
	}
}

// Entries returns a most-recent-first snapshot of the log.
func (l *ActivityLog) Entries() []model.Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Activity(nil), l.entries...)
}
