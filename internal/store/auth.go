// Package store contains the reactive state containers: auth, the materials
// collection, the per-user activity log and dashboard aggregate. Each store
// owns its state, notifies subscribers synchronously on every change and
// mirrors state to the persistence tiers best-effort (failures are logged,
// never propagated).
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// Auth holds the current authentication state and mediates between in-memory
// state and the two persistence tiers. Its current user id is the namespacing
// key for every per-user store.
type Auth struct {
	mu      sync.Mutex
	state   model.AuthState
	subs    []func(model.AuthState)
	session kvstore.Store
	durable kvstore.Store
	log     *zap.Logger
}

// NewAuth starts in the unauthenticated default state.
func NewAuth(session, durable kvstore.Store, log *zap.Logger) *Auth {
	return &Auth{session: session, durable: durable, log: log}
}

// Subscribe registers fn to be called with a snapshot after every state
// change. Notification happens synchronously on the mutating call.
func (a *Auth) Subscribe(fn func(model.AuthState)) {
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}

// State returns an immutable snapshot of the current auth state.
func (a *Auth) State() model.AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshotAuth(a.state)
}

// Token returns the current bearer token, empty when logged out.
func (a *Auth) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Token
}

// Login sets the in-memory state first so subscribers see the change
// immediately, then mirrors the snapshot and the bare token to both tiers,
// session tier first. Persistence failures do not roll back the state.
func (a *Auth) Login(user model.User) {
	a.mu.Lock()
	a.state = model.AuthState{IsAuthenticated: true, User: &user, Token: user.Token}
	snap := snapshotAuth(a.state)
	subs := a.subs
	a.mu.Unlock()

	a.log.Info("auth: login", zap.String("email", user.Email))
	for _, fn := range subs {
		fn(snapshotAuth(snap))
	}

	for _, tier := range []kvstore.Store{a.session, a.durable} {
		if err := tier.Put(kvstore.KeyAuthToken, user.Token); err != nil {
			a.log.Warn("auth: persist token failed", zap.Error(err))
		}
		if err := tier.Put(kvstore.KeyAuth, snap); err != nil {
			a.log.Warn("auth: persist state failed", zap.Error(err))
		}
	}
}

// Logout resets to the unauthenticated default and best-effort-clears both
// tiers.
func (a *Auth) Logout() {
	a.mu.Lock()
	a.state = model.AuthState{}
	subs := a.subs
	a.mu.Unlock()

	a.log.Info("auth: logout")
	for _, fn := range subs {
		fn(model.AuthState{})
	}

	for _, tier := range []kvstore.Store{a.session, a.durable} {
		for _, key := range []string{kvstore.KeyAuthToken, kvstore.KeyAuth} {
			if err := tier.Delete(key); err != nil {
				a.log.Warn("auth: clear failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// Restore loads a previously persisted snapshot, preferring the session tier
// and falling back to the durable one. Only a snapshot with
// IsAuthenticated=true becomes current state; a parsed logged-out snapshot
// and a missing snapshot both report no active session. Malformed stored
// data is treated as absence.
func (a *Auth) Restore() bool {
	var snap model.AuthState
	found := false
	for _, tier := range []kvstore.Store{a.session, a.durable} {
		ok, err := tier.Get(kvstore.KeyAuth, &snap)
		if err != nil {
			a.log.Error("auth: unreadable snapshot", zap.Error(err))
			continue
		}
		if ok {
			found = true
			break
		}
	}
	if !found || !snap.IsAuthenticated || snap.User == nil {
		return false
	}

	a.mu.Lock()
	a.state = snapshotAuth(snap)
	subs := a.subs
	a.mu.Unlock()

	a.log.Info("auth: restored session", zap.String("email", snap.User.Email))
	for _, fn := range subs {
		fn(snapshotAuth(snap))
	}
	return true
}

// CurrentUserID extracts the user id from the durable tier's snapshot, not
// from in-memory state. Returns false when no id is resolvable.
func (a *Auth) CurrentUserID() (string, bool) {
	var snap model.AuthState
	ok, err := a.durable.Get(kvstore.KeyAuth, &snap)
	if err != nil {
		a.log.Error("auth: unreadable snapshot", zap.Error(err))
		return "", false
	}
	if !ok || snap.User == nil || snap.User.ID == "" {
		return "", false
	}
	return snap.User.ID, true
}

func snapshotAuth(s model.AuthState) model.AuthState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
