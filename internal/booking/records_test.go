package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingwise/weddingwise-client/internal/domain"
	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
)

// setupWithRecord returns a logged-in manager holding one confirmed vendor booking.
func setupWithRecord(t *testing.T) (*testEnv, domain.BookingRecord) {
	t.Helper()
	env := setupLoggedIn(t)
	ctx := context.Background()

	_, err := env.manager.AddToCart(ctx, catering())
	require.NoError(t, err)
	records, err := env.manager.ConfirmBookings(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	env.remote.calls = nil
	return env, records[0]
}

func TestSyncBookings(t *testing.T) {
	env := setupLoggedIn(t)
	env.remote.listed = map[domain.Kind][]domain.BookingRecord{
		domain.KindEvent:  {{ServerID: "e-b1", BookingDetails: reception()}},
		domain.KindVendor: {{ServerID: "v-b1", BookingDetails: catering()}},
	}

	records, err := env.manager.SyncBookings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"list:event", "list:vendor"}, env.remote.Calls())
	require.Len(t, records, 2)
	assert.Equal(t, "e-b1", records[0].ServerID)
	assert.Equal(t, "v-b1", records[1].ServerID)
	assert.Equal(t, records, env.manager.BookingRecords())
	assert.Equal(t, records, env.load(t).Bookings)
}

func TestSyncBookings_RequiresLogin(t *testing.T) {
	env := setupTest(t)
	_, err := env.manager.SyncBookings(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	assert.Empty(t, env.remote.Calls())
}

func TestDeleteBookingRecord(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
		wantErr   error
		wantKept  bool
	}{
		{name: "deleted"},
		{name: "already gone on server", deleteErr: domainerrors.NotFound("Booking not found")},
		{name: "server failure", deleteErr: domainerrors.RemoteFailure("down"), wantErr: domainerrors.ErrRemoteFailure, wantKept: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, record := setupWithRecord(t)
			env.remote.deleteErr = tt.deleteErr

			err := env.manager.DeleteBookingRecord(context.Background(), record.ServerID)

			assert.Equal(t, []string{"delete:vendor:" + record.ServerID}, env.remote.Calls())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantKept {
				assert.Equal(t, []domain.BookingRecord{record}, env.manager.BookingRecords())
				assert.Equal(t, []domain.BookingRecord{record}, env.load(t).Bookings)
			} else {
				assert.Empty(t, env.manager.BookingRecords())
				assert.Empty(t, env.load(t).Bookings)
			}
		})
	}
}

func TestDeleteBookingRecord_Missing(t *testing.T) {
	env, _ := setupWithRecord(t)

	err := env.manager.DeleteBookingRecord(context.Background(), "srv-404")

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Empty(t, env.remote.Calls())
	assert.Len(t, env.manager.BookingRecords(), 1)
}

func TestUpdateBookingRecord(t *testing.T) {
	tests := []struct {
		name       string
		patch      domain.DetailsPatch
		updateErr  error
		wantErr    error
		wantCalled bool
		wantGuests int
	}{
		{
			name:       "updated",
			patch:      domain.DetailsPatch{GuestCount: ptr(120)},
			wantCalled: true,
			wantGuests: 120,
		},
		{
			name:       "invalid patch never reaches the server",
			patch:      domain.DetailsPatch{RequesterEmail: ptr("")},
			wantErr:    domainerrors.ErrValidation,
			wantGuests: 80,
		},
		{
			name:       "blank requester name never reaches the server",
			patch:      domain.DetailsPatch{RequesterName: ptr("  ")},
			wantErr:    domainerrors.ErrValidation,
			wantGuests: 80,
		},
		{
			name:       "server failure keeps the record",
			patch:      domain.DetailsPatch{GuestCount: ptr(120)},
			updateErr:  domainerrors.RemoteFailure("down"),
			wantErr:    domainerrors.ErrRemoteFailure,
			wantCalled: true,
			wantGuests: 80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, record := setupWithRecord(t)
			env.remote.updateErr = tt.updateErr

			_, err := env.manager.UpdateBookingRecord(context.Background(), record.ServerID, tt.patch)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantCalled {
				assert.Equal(t, []string{"update:" + record.ServerID}, env.remote.Calls())
			} else {
				assert.Empty(t, env.remote.Calls())
			}
			assert.Equal(t, tt.wantGuests, env.manager.BookingRecords()[0].GuestCount)
			assert.Equal(t, tt.wantGuests, env.load(t).Bookings[0].GuestCount)
		})
	}
}
