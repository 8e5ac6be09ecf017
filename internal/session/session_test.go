package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextTransitions(t *testing.T) {
	tests := []struct {
		from    State
		on      Event
		want    State
		wantErr bool
	}{
		{StateBrowsing, EventItemAdded, StateItemsAdded, false},
		{StateItemsAdded, EventItemAdded, StateItemsAdded, false},
		{StateItemsAdded, EventShowTotal, StateTotalShown, false},
		{StateTotalShown, EventConfirm, StateConfirmed, false},
		{StateTotalShown, EventItemAdded, StateItemsAdded, false},
		{StateConfirmed, EventItemAdded, StateItemsAdded, false},
		{StateBrowsing, EventShowTotal, "", true},
		{StateBrowsing, EventConfirm, "", true},
		{StateItemsAdded, EventConfirm, "", true},
		{StateConfirmed, EventConfirm, "", true},
	}
	for _, tt := range tests {
		got, err := Next(tt.from, tt.on)
		if tt.wantErr {
			assert.Error(t, err, "%s + %s", tt.from, tt.on)
		} else {
			require.NoError(t, err, "%s + %s", tt.from, tt.on)
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestApplyResetClearsEverything(t *testing.T) {
	s := New("s1")
	s.AddLine("Luchi", 10, 2)
	s.AppendTurn("user", "luchi dao")
	require.NoError(t, s.Apply(EventItemAdded))

	require.NoError(t, s.Apply(EventReset))
	assert.Equal(t, StateBrowsing, s.State)
	assert.Empty(t, s.Lines)
	assert.Empty(t, s.History)
}

func TestAddLineMergesByName(t *testing.T) {
	s := New("s1")
	s.AddLine("Butter Naan", 40, 2)
	s.AddLine("Luchi", 10, 1)
	s.AddLine("Butter Naan", 45, 1) // price snapshot must not move

	require.Len(t, s.Lines, 2)
	assert.Equal(t, 3, s.Lines[0].Quantity)
	assert.Equal(t, 40.0, s.Lines[0].UnitPrice)
	assert.Equal(t, 130.0, s.Total())
}

func TestAddLineNormalizesQuantity(t *testing.T) {
	s := New("s1")
	s.AddLine("Luchi", 10, 0)
	require.Len(t, s.Lines, 1)
	assert.Equal(t, 1, s.Lines[0].Quantity)
}

func TestClearCartKeepsHistory(t *testing.T) {
	s := New("s1")
	s.AddLine("Luchi", 10, 1)
	s.AppendTurn("user", "luchi dao")

	s.ClearCart()
	assert.False(t, s.HasItems())
	assert.Len(t, s.History, 1)
}

func TestReplaceLines(t *testing.T) {
	s := New("s1")
	s.AddLine("Luchi", 10, 1)

	s.ReplaceLines([]Line{
		{ItemName: "Butter Chicken", UnitPrice: 200, Quantity: 1},
		{ItemName: "Butter Naan", UnitPrice: 40, Quantity: 2},
	})
	require.Len(t, s.Lines, 2)
	assert.Equal(t, 280.0, s.Total())
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	s := New("s1")
	s.AddLine("Luchi", 10, 2)
	require.NoError(t, store.Put(ctx, s))

	// Mutating the original must not leak into the stored copy.
	s.AddLine("Butter Naan", 40, 1)

	loaded, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, loaded.Lines, 1)
	assert.Equal(t, 20.0, loaded.Total())

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiresSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Millisecond)

	s := New("s1")
	s.UpdatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Put(ctx, s))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreMissingSession(t *testing.T) {
	_, err := NewMemoryStore(0).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
