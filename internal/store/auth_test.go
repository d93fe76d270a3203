package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

// brokenStore fails every read, standing in for an unreadable tier.
type brokenStore struct{}

var _ kvstore.Store = (*brokenStore)(nil)

func (brokenStore) Put(string, any) error         { return errors.New("tier unavailable") }
func (brokenStore) Get(string, any) (bool, error) { return false, errors.New("tier unavailable") }
func (brokenStore) Delete(string) error           { return errors.New("tier unavailable") }

func TestAuth_LoginThenRestore(t *testing.T) {
	session := kvstore.NewMemStore()
	durable := kvstore.NewMemStore()

	a := NewAuth(session, durable, zap.NewNop())
	a.Login(model.User{ID: "u1", Email: "ada@uniport.edu.ng", Token: "tok"})

	// fresh process over the same tiers
	b := NewAuth(session, durable, zap.NewNop())
	require.True(t, b.Restore())

	st := b.State()
	require.True(t, st.IsAuthenticated)
	require.NotNil(t, st.User)
	require.Equal(t, "ada@uniport.edu.ng", st.User.Email)
	require.Equal(t, "tok", b.Token())
}

func TestAuth_RestorePrefersSessionTier(t *testing.T) {
	session := kvstore.NewMemStore()
	durable := kvstore.NewMemStore()

	require.NoError(t, session.Put(kvstore.KeyAuth, model.AuthState{
		IsAuthenticated: true,
		User:            &model.User{ID: "s", Email: "session@uniport.edu.ng"},
	}))
	require.NoError(t, durable.Put(kvstore.KeyAuth, model.AuthState{
		IsAuthenticated: true,
		User:            &model.User{ID: "d", Email: "durable@uniport.edu.ng"},
	}))

	a := NewAuth(session, durable, zap.NewNop())
	require.True(t, a.Restore())
	require.Equal(t, "session@uniport.edu.ng", a.State().User.Email)
}

func TestAuth_RestoreFallsBackToDurable(t *testing.T) {
	durable := kvstore.NewMemStore()
	require.NoError(t, durable.Put(kvstore.KeyAuth, model.AuthState{
		IsAuthenticated: true,
		User:            &model.User{ID: "d", Email: "durable@uniport.edu.ng"},
	}))

	a := NewAuth(brokenStore{}, durable, zap.NewNop())
	require.True(t, a.Restore())
	require.Equal(t, "durable@uniport.edu.ng", a.State().User.Email)
}

func TestAuth_RestoreLoggedOutSnapshot(t *testing.T) {
	session := kvstore.NewMemStore()
	durable := kvstore.NewMemStore()
	// a parsed snapshot with IsAuthenticated=false means intentional logout
	require.NoError(t, durable.Put(kvstore.KeyAuth, model.AuthState{}))

	a := NewAuth(session, durable, zap.NewNop())
	require.False(t, a.Restore())
	require.False(t, a.State().IsAuthenticated)
}

func TestAuth_RestoreNothingPersisted(t *testing.T) {
	a := NewAuth(kvstore.NewMemStore(), kvstore.NewMemStore(), zap.NewNop())
	require.False(t, a.Restore())
}

func TestAuth_LogoutClearsBothTiers(t *testing.T) {
	session := kvstore.NewMemStore()
	durable := kvstore.NewMemStore()

	a := NewAuth(session, durable, zap.NewNop())
	a.Login(model.User{ID: "u1", Email: "ada@uniport.edu.ng", Token: "tok"})
	a.Logout()

	require.False(t, a.State().IsAuthenticated)
	for _, tier := range []kvstore.Store{session, durable} {
		var snap model.AuthState
		ok, err := tier.Get(kvstore.KeyAuth, &snap)
		require.NoError(t, err)
		require.False(t, ok)
	}
	_, ok := a.CurrentUserID()
	require.False(t, ok)
}

func TestAuth_CurrentUserIDReadsDurableTier(t *testing.T) {
	session := kvstore.NewMemStore()
	durable := kvstore.NewMemStore()

	a := NewAuth(session, durable, zap.NewNop())
	a.Login(model.User{ID: "u42", Email: "ada@uniport.edu.ng", Token: "tok"})

	// wipe the durable tier behind the store's back: the id must come from
	// there, not from in-memory state
	require.NoError(t, durable.Delete(kvstore.KeyAuth))
	_, ok := a.CurrentUserID()
	require.False(t, ok)

	a.Login(model.User{ID: "u42", Email: "ada@uniport.edu.ng", Token: "tok"})
	uid, ok := a.CurrentUserID()
	require.True(t, ok)
	require.Equal(t, "u42", uid)
}

func TestAuth_LoginSurvivesPersistFailure(t *testing.T) {
	a := NewAuth(brokenStore{}, brokenStore{}, zap.NewNop())

	var notified model.AuthState
	a.Subscribe(func(s model.AuthState) { notified = s })

	a.Login(model.User{ID: "u1", Email: "ada@uniport.edu.ng", Token: "tok"})
	require.True(t, a.State().IsAuthenticated)
	require.True(t, notified.IsAuthenticated)
}
