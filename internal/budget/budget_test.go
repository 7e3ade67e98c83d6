package budget

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/store"
	"github.com/weddingwise/weddingwise-client/internal/validation"
)

func setupTracker(t *testing.T) (*Tracker, *store.Store) {
	t.Helper()

	st, err := store.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tracker := New(st, validation.New(), nil)
	require.NoError(t, tracker.Load(context.Background()))
	return tracker, st
}

func TestDefaults(t *testing.T) {
	tracker, _ := setupTracker(t)

	items := tracker.Items()
	require.Len(t, items, 9)
	assert.Equal(t, "Wedding Ceremony", items[0].Name)
	assert.Equal(t, "Luxurious Transportation", items[8].Name)
	assert.InDelta(t, 11300, tracker.Total(), 0.001)
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name    string
		item    string
		cost    float64
		wantErr bool
		wantID  int
	}{
		{name: "appends after last id", item: "Cake", cost: 450.5, wantID: 10},
		{name: "trims name", item: "  Venue  ", cost: 5000, wantID: 10},
		{name: "blank name", item: "   ", cost: 10, wantErr: true},
		{name: "zero cost", item: "Cake", cost: 0, wantErr: true},
		{name: "negative cost", item: "Cake", cost: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, _ := setupTracker(t)

			item, err := tracker.Add(context.Background(), tt.item, tt.cost)

			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrValidation)
				assert.Len(t, tracker.Items(), 9)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, item.ID)
			assert.NotContains(t, item.Name, " ", "name is trimmed")
			assert.Len(t, tracker.Items(), 10)
		})
	}
}

func TestAdd_IDFollowsLastItemNotCount(t *testing.T) {
	tracker, _ := setupTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Remove(ctx, 3))
	item, err := tracker.Add(ctx, "Cake", 300)
	require.NoError(t, err)
	assert.Equal(t, 10, item.ID)

	for _, existing := range tracker.Items() {
		require.NoError(t, tracker.Remove(ctx, existing.ID))
	}
	item, err = tracker.Add(ctx, "Rings", 900)
	require.NoError(t, err)
	assert.Equal(t, 1, item.ID)
}

func TestRemove(t *testing.T) {
	tracker, _ := setupTracker(t)
	ctx := context.Background()

	require.NoError(t, tracker.Remove(ctx, 2))
	assert.InDelta(t, 8300, tracker.Total(), 0.001)

	err := tracker.Remove(ctx, 2)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPersistence(t *testing.T) {
	tracker, st := setupTracker(t)
	ctx := context.Background()

	_, err := tracker.Add(ctx, "Cake", 300)
	require.NoError(t, err)
	require.NoError(t, tracker.Remove(ctx, 1))

	reloaded := New(st, validation.New(), nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, tracker.Items(), reloaded.Items())

	require.NoError(t, reloaded.Reset(ctx))
	assert.Equal(t, Defaults(), reloaded.Items())

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), snap.Budget)
}

func TestTotal_Empty(t *testing.T) {
	tracker := &Tracker{items: []domain.BudgetItem{}}
	assert.Zero(t, tracker.Total())
}
