package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Valid(t *testing.T) {
	assert.True(t, KindEvent.Valid())
	assert.True(t, KindVendor.Valid())
	assert.False(t, Kind("venue").Valid())
	assert.False(t, Kind("").Valid())
}

func TestDetailsPatch_Apply(t *testing.T) {
	base := BookingDetails{
		Kind:           KindEvent,
		TargetRef:      "e1",
		DisplayName:    "Reception",
		RequesterName:  "Ann",
		RequesterEmail: "a@x.com",
		Date:           "2025-06-01",
		GuestCount:     50,
	}

	guests := 80
	date := "2025-07-01"
	patched := DetailsPatch{GuestCount: &guests, Date: &date}.Apply(base)

	assert.Equal(t, 80, patched.GuestCount)
	assert.Equal(t, "2025-07-01", patched.Date)
	assert.Equal(t, base.DisplayName, patched.DisplayName)
	assert.Equal(t, base.Kind, patched.Kind)

	// The original value is not modified.
	assert.Equal(t, 50, base.GuestCount)
}

func TestDetailsPatch_IsEmpty(t *testing.T) {
	assert.True(t, DetailsPatch{}.IsEmpty())

	name := "Bob"
	assert.False(t, DetailsPatch{RequesterName: &name}.IsEmpty())
}

func TestIdentity_SameUser(t *testing.T) {
	tests := []struct {
		name string
		a, b *Identity
		want bool
	}{
		{"same id", &Identity{ID: "u1"}, &Identity{ID: "u1", Name: "Other"}, true},
		{"different id", &Identity{ID: "u1"}, &Identity{ID: "u2"}, false},
		{"email fallback", &Identity{Email: "a@x.com"}, &Identity{Email: "a@x.com"}, true},
		{"nil", nil, &Identity{ID: "u1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SameUser(tt.b))
		})
	}
}

func TestIdentity_IsWellFormed(t *testing.T) {
	var missing *Identity
	assert.False(t, missing.IsWellFormed())
	assert.False(t, (&Identity{Name: "Ann"}).IsWellFormed())
	assert.True(t, (&Identity{ID: "u1"}).IsWellFormed())
}

func TestSessionState_String(t *testing.T) {
	assert.Equal(t, "logged_in", StateLoggedIn.String())
	assert.Equal(t, "logged_out", StateLoggedOut.String())
	assert.Equal(t, "hydrating", StateHydrating.String())
	assert.Equal(t, "uninitialized", StateUninitialized.String())
}
