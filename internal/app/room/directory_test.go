package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairlink/internal/app/store"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()

	s := store.NewMemory()
	t.Cleanup(s.Close)
	return NewDirectory(s)
}

func minimalRoom(id, name string) *Room {
	now := time.Now().UTC()
	return &Room{
		ID:           id,
		Name:         name,
		MemberLimit:  4,
		Members:      make(map[string]Member),
		Selections:   make(map[string]string),
		State:        StateWaiting,
		Acknowledged: make(map[string]bool),
		CreatedAt:    now,
	}
}

func TestDirectoryCreateReservesNameCaseInsensitively(t *testing.T) {
	ctx := context.Background()
	dir := newTestDirectory(t)

	require.NoError(t, dir.Create(ctx, minimalRoom("r1", "Lounge")))

	err := dir.Create(ctx, minimalRoom("r2", "lOuNgE"))
	assert.ErrorIs(t, err, ErrNameTaken)

	r, err := dir.GetByName(ctx, "LOUNGE")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "r1", r.ID)
}

func TestDirectoryDeleteFreesName(t *testing.T) {
	ctx := context.Background()
	dir := newTestDirectory(t)

	r := minimalRoom("r1", "Lounge")
	require.NoError(t, dir.Create(ctx, r))
	require.NoError(t, dir.Delete(ctx, r))

	got, err := dir.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting twice is a no-op, which redundant sweeps rely on.
	assert.NoError(t, dir.Delete(ctx, r))

	require.NoError(t, dir.Create(ctx, minimalRoom("r2", "Lounge")))
}

func TestDirectorySaveOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := newTestDirectory(t)

	r := minimalRoom("r1", "Lounge")
	require.NoError(t, dir.Create(ctx, r))

	r.State = StateLinking
	require.NoError(t, dir.Save(ctx, r))

	got, err := dir.GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StateLinking, got.State)
}

func TestDirectoryListIDs(t *testing.T) {
	ctx := context.Background()
	dir := newTestDirectory(t)

	require.NoError(t, dir.Create(ctx, minimalRoom("r1", "One")))
	require.NoError(t, dir.Create(ctx, minimalRoom("r2", "Two")))

	ids, err := dir.ListIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)
}
