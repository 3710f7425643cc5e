package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adpilot/internal/chat"
)

func openTestDB(t *testing.T) *DBStore {
	t.Helper()
	s, err := OpenDB("sqlite", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDBStoreRoundTrip(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	sess := &chat.Session{ID: "s1", UpdatedAt: time.Now().UTC()}
	sess.Append("user", "how are my campaigns doing", time.Now().UTC())
	sess.Append("assistant", "which campaign do you mean?", time.Now().UTC())
	require.NoError(t, s.Put(ctx, sess))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", got.ID)
	require.Len(t, got.Transcript, 2)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, chat.ErrNotFound)
}

func TestDBStoreUpsertOverwrites(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	sess := &chat.Session{ID: "s1", UpdatedAt: time.Now().UTC()}
	require.NoError(t, s.Put(ctx, sess))

	require.NoError(t, sess.Extend(chat.LevelCampaign, []string{"c1"}, "Summer Sale"))
	sess.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Put(ctx, sess))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	ids, ok := got.Resolved(chat.LevelCampaign)
	require.True(t, ok)
	require.Equal(t, []string{"c1"}, ids)
}

func TestDBStoreListAndDelete(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &chat.Session{ID: "a", UpdatedAt: time.Now().UTC().Add(-time.Hour)}))
	require.NoError(t, s.Put(ctx, &chat.Session{ID: "b", UpdatedAt: time.Now().UTC()}))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b", list[0].ID)

	require.NoError(t, s.Delete(ctx, "a"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDBStoreRejectsUnknownDriver(t *testing.T) {
	_, err := OpenDB("oracle", "dsn")
	require.Error(t, err)
}
