package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uniportfoc/elibrary-client/internal/kvstore"
	"github.com/uniportfoc/elibrary-client/internal/model"
)

func userFixed(id string) UserIDResolver {
	return func() (string, bool) { return id, true }
}

func userNone() (string, bool) { return "", false }

func TestActivityLog_AddPrependsAndPersists(t *testing.T) {
	durable := kvstore.NewMemStore()
	l := NewActivityLog(userFixed("u1"), durable, 0, zap.NewNop())

	l.Add(model.ActivityUpload, "first", "", nil)
	l.Add(model.ActivityDownload, "second", "", nil)

	entries := l.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "second", entries[0].Title)
	require.Equal(t, model.ActivityDownload, entries[0].Type)
	require.NotEmpty(t, entries[0].ID)
	require.NotEqual(t, entries[0].ID, entries[1].ID)

	var stored []model.Activity
	ok, err := durable.Get(kvstore.ActivitiesKey("u1"), &stored)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, stored, 2)
}

func TestActivityLog_CapacityBound(t *testing.T) {
	l := NewActivityLog(userFixed("u1"), kvstore.NewMemStore(), 5, zap.NewNop())

	for i := 0; i < 12; i++ {
		l.Add(model.ActivityDownload, fmt.Sprintf("entry %d", i), "", nil)
	}

	entries := l.Entries()
	require.Len(t, entries, 5)
	// most recent first, oldest truncated
	require.Equal(t, "entry 11", entries[0].Title)
	require.Equal(t, "entry 7", entries[4].Title)
}

func TestActivityLog_AddWithoutUserIsNoop(t *testing.T) {
	durable := kvstore.NewMemStore()
	l := NewActivityLog(userNone, durable, 0, zap.NewNop())

	l.Add(model.ActivityUpload, "orphan", "", nil)
	require.Empty(t, l.Entries())

	var stored []model.Activity
	ok, err := durable.Get(kvstore.ActivitiesKey(""), &stored)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestActivityLog_InitLoadsPersistedLog(t *testing.T) {
	durable := kvstore.NewMemStore()
	a := NewActivityLog(userFixed("u1"), durable, 0, zap.NewNop())
	a.Add(model.ActivityFeedback, "kept", "", &model.ActivityMeta{Status: "sent"})

	b := NewActivityLog(userFixed("u1"), durable, 0, zap.NewNop())
	b.Init()

	entries := b.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0].Title)
	require.NotNil(t, entries[0].Meta)
	require.Equal(t, "sent", entries[0].Meta.Status)
}

func TestActivityLog_InitUnreadableResetsEmpty(t *testing.T) {
	l := NewActivityLog(userFixed("u1"), brokenStore{}, 0, zap.NewNop())
	l.Init()
	require.Empty(t, l.Entries())
}

func TestActivityLog_InitPerUserNamespacing(t *testing.T) {
	durable := kvstore.NewMemStore()

	a := NewActivityLog(userFixed("alice"), durable, 0, zap.NewNop())
	a.Add(model.ActivityUpload, "alice's", "", nil)

	b := NewActivityLog(userFixed("bob"), durable, 0, zap.NewNop())
	b.Init()
	require.Empty(t, b.Entries())
}

func TestActivityLog_TimestampsFromClock(t *testing.T) {
	l := NewActivityLog(userFixed("u1"), kvstore.NewMemStore(), 0, zap.NewNop())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Add(model.ActivityReading, "read", "", nil)
	require.Equal(t, fixed, l.Entries()[0].Timestamp)
}
