package fakeapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weddingwise/weddingwise-client/internal/auth"
	"github.com/weddingwise/weddingwise-client/internal/domain"
	"github.com/weddingwise/weddingwise-client/internal/gateway"
	"github.com/weddingwise/weddingwise-client/internal/http/response"
	"github.com/weddingwise/weddingwise-client/internal/ratelimit"
)

const (
	accessTTL     = 15 * time.Minute
	refreshWindow = time.Hour
)

// cheapParams keep tests fast.
var cheapParams = auth.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1}

type testEnv struct {
	api   *Server
	http  *httptest.Server
	clock *ManualClock
}

func setupTest(t *testing.T, opts ...func(*Options)) *testEnv {
	t.Helper()

	clock := NewManualClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	key, err := auth.GenerateKey()
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, accessTTL, refreshWindow, auth.WithClock(clock.Now))
	require.NoError(t, err)

	o := Options{
		Tokens: tokens,
		Hasher: auth.NewPasswordHasher(cheapParams),
		Now:    clock.Now,
	}
	for _, fn := range opts {
		fn(&o)
	}

	api := New(o)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	return &testEnv{api: api, http: srv, clock: clock}
}

// call sends a JSON request and returns the status and raw body.
func (env *testEnv) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, env.http.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.http.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func msgOf(t *testing.T, body []byte) string {
	t.Helper()
	var m response.MessageBody
	require.NoError(t, json.Unmarshal(body, &m))
	return m.Msg
}

func (env *testEnv) seedAnn(t *testing.T) (domain.Identity, string) {
	t.Helper()
	identity, err := env.api.SeedUser("Ann", "ann@example.com", "s3cret!")
	require.NoError(t, err)
	token, err := env.api.IssueToken(identity)
	require.NoError(t, err)
	return identity, token
}

func receptionBody() map[string]any {
	return map[string]any{
		"eventTitle": "Reception",
		"event":      "e2",
		"name":       "Ann",
		"email":      "ann@example.com",
		"date":       "2025-06-01",
		"guests":     50,
	}
}

func TestExpiredTokenMessageMatchesGateway(t *testing.T) {
	assert.Equal(t, gateway.ExpiredTokenMessage, response.ExpiredTokenMessage)
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupTest(t)

	status, body := env.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ann", "email": "Ann@Example.com", "password": "s3cret!",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", msgOf(t, body))

	status, _ = env.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "s3cret!",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = env.call(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "ann@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", msgOf(t, body))

	status, body = env.call(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "ann@example.com", "password": "s3cret!",
	})
	require.Equal(t, http.StatusOK, status)

	var grant grantResponse
	require.NoError(t, json.Unmarshal(body, &grant))
	assert.NotEmpty(t, grant.Token)
	assert.NotEmpty(t, grant.UserData.ID)
	assert.Equal(t, "Ann", grant.UserData.Name)
	assert.Equal(t, "ann@example.com", grant.UserData.Email)
}

func TestRegister_Validation(t *testing.T) {
	env := setupTest(t)

	status, body := env.call(t, http.MethodPost, "/api/users/register", "", map[string]string{
		"name": "Ann", "email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, msgOf(t, body), "email")
	assert.Contains(t, msgOf(t, body), "password")
}

func TestRequireAuth(t *testing.T) {
	env := setupTest(t)
	_, token := env.seedAnn(t)

	tests := []struct {
		name    string
		token   string
		advance time.Duration
		wantMsg string
	}{
		{name: "missing", token: "", wantMsg: "No token, authorization denied"},
		{name: "garbage", token: "v4.local.garbage", wantMsg: "Token is not valid"},
		{name: "expired", token: token, advance: accessTTL + time.Second, wantMsg: response.ExpiredTokenMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.clock.Advance(tt.advance)

			status, body := env.call(t, http.MethodGet, "/api/events/bookings", tt.token, nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.wantMsg, msgOf(t, body))
		})
	}
}

func TestRefreshToken(t *testing.T) {
	tests := []struct {
		name       string
		advance    time.Duration
		wantStatus int
	}{
		{name: "still valid", advance: time.Minute, wantStatus: http.StatusOK},
		{name: "expired within window", advance: accessTTL + time.Minute, wantStatus: http.StatusOK},
		{name: "window closed", advance: accessTTL + refreshWindow + time.Minute, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTest(t)
			_, token := env.seedAnn(t)
			env.clock.Advance(tt.advance)

			status, body := env.call(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]string{"token": token})
			require.Equal(t, tt.wantStatus, status)
			if status != http.StatusOK {
				return
			}

			var resp tokenResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			status, _ = env.call(t, http.MethodGet, "/api/events/bookings", resp.Token, nil)
			assert.Equal(t, http.StatusOK, status)
		})
	}
}

func TestBookingLifecycle(t *testing.T) {
	env := setupTest(t)
	identity, token := env.seedAnn(t)

	status, body := env.call(t, http.MethodPost, "/api/events/book", token, receptionBody())
	require.Equal(t, http.StatusCreated, status)

	var created bookingDoc
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, statusPending, created.Status)
	assert.Equal(t, identity.ID, created.User)
	assert.Equal(t, "2025-06-01T00:00:00.000Z", created.Date)

	// Pending bookings are not listed.
	status, body = env.call(t, http.MethodGet, "/api/events/bookings", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = env.call(t, http.MethodPost, "/api/bookings/confirm-booking", token, map[string]any{
		"bookedEvents":  []map[string]string{{"_id": created.ID}},
		"bookedVendors": []map[string]string{},
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Equal(t, statusConfirmed, env.api.BookingStatus(created.ID))

	outbox := env.api.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "ann@example.com", outbox[0].To)
	assert.Equal(t, []string{created.ID}, outbox[0].Bookings)
	assert.Contains(t, outbox[0].Body, "Reception on 2025-06-01 for 50 guests")

	status, body = env.call(t, http.MethodGet, "/api/events/bookings", token, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []bookingDoc
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	update := receptionBody()
	update["guests"] = 75
	status, body = env.call(t, http.MethodPut, "/api/events/bookings/"+created.ID, token, update)
	require.Equal(t, http.StatusOK, status)
	var updated bookingDoc
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, 75, updated.Guests)
	assert.Equal(t, statusConfirmed, updated.Status)

	status, _ = env.call(t, http.MethodDelete, "/api/events/bookings/"+created.ID, token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.call(t, http.MethodDelete, "/api/events/bookings/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestBook_FillsTitleFromCatalog(t *testing.T) {
	env := setupTest(t)
	_, token := env.seedAnn(t)

	status, body := env.call(t, http.MethodPost, "/api/vendors/book", token, map[string]any{
		"vendor": "v2", "name": "Ann", "email": "ann@example.com", "date": "2025-06-01", "guests": 80,
	})
	require.Equal(t, http.StatusCreated, status)

	var created bookingDoc
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "XYZ Photography", created.VendorName)
	assert.Equal(t, "v2", created.Vendor)
}

func TestBook_Rejects(t *testing.T) {
	env := setupTest(t)
	_, token := env.seedAnn(t)

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{name: "no guests", mutate: func(b map[string]any) { b["guests"] = 0 }},
		{name: "bad email", mutate: func(b map[string]any) { b["email"] = "ann" }},
		{name: "bad date", mutate: func(b map[string]any) { b["date"] = "June 1st" }},
		{name: "no title", mutate: func(b map[string]any) { delete(b, "eventTitle"); delete(b, "event") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := receptionBody()
			tt.mutate(body)

			status, _ := env.call(t, http.MethodPost, "/api/events/book", token, body)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}
	assert.Zero(t, env.api.BookingCount())
}

func TestBookings_Ownership(t *testing.T) {
	env := setupTest(t)
	_, annToken := env.seedAnn(t)

	bob, err := env.api.SeedUser("Bob", "bob@example.com", "s3cret!")
	require.NoError(t, err)
	bobToken, err := env.api.IssueToken(bob)
	require.NoError(t, err)

	status, body := env.call(t, http.MethodPost, "/api/events/book", annToken, receptionBody())
	require.Equal(t, http.StatusCreated, status)
	var created bookingDoc
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = env.call(t, http.MethodDelete, "/api/events/bookings/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Wrong collection.
	status, _ = env.call(t, http.MethodDelete, "/api/vendors/bookings/"+created.ID, annToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	assert.Equal(t, statusPending, env.api.BookingStatus(created.ID))
}

func TestConfirm_Rejects(t *testing.T) {
	env := setupTest(t)
	_, token := env.seedAnn(t)

	status, body := env.call(t, http.MethodPost, "/api/events/book", token, receptionBody())
	require.Equal(t, http.StatusCreated, status)
	var created bookingDoc
	require.NoError(t, json.Unmarshal(body, &created))

	status, body = env.call(t, http.MethodPost, "/api/bookings/confirm-booking", token, map[string]any{
		"bookedEvents": []any{}, "bookedVendors": []any{},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No bookings to confirm", msgOf(t, body))

	status, _ = env.call(t, http.MethodPost, "/api/bookings/confirm-booking", token, map[string]any{
		"bookedEvents":  []map[string]string{{"_id": created.ID}, {"_id": "missing"}},
		"bookedVendors": []any{},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, statusPending, env.api.BookingStatus(created.ID))
	assert.Empty(t, env.api.Outbox())
}

func TestPasswordReset(t *testing.T) {
	env := setupTest(t)
	env.seedAnn(t)

	status, _ := env.call(t, http.MethodPost, "/api/users/send-reset-password-email", "", map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, env.api.Outbox())

	status, _ = env.call(t, http.MethodPost, "/api/users/send-reset-password-email", "", map[string]string{"email": "ann@example.com"})
	require.Equal(t, http.StatusOK, status)
	outbox := env.api.Outbox()
	require.Len(t, outbox, 1)
	_, resetToken, ok := strings.Cut(outbox[0].Body, ": ")
	require.True(t, ok)

	reset := map[string]string{"token": resetToken, "newPassword": "n3w-pass"}
	status, _ = env.call(t, http.MethodPost, "/api/users/reset-password", "", reset)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.call(t, http.MethodPost, "/api/users/reset-password", "", reset)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.call(t, http.MethodPost, "/api/users/login", "", map[string]string{"email": "ann@example.com", "password": "n3w-pass"})
	assert.Equal(t, http.StatusOK, status)
}

func TestUpdateProfile(t *testing.T) {
	env := setupTest(t)
	identity, token := env.seedAnn(t)
	_, err := env.api.SeedUser("Bob", "bob@example.com", "s3cret!")
	require.NoError(t, err)

	status, body := env.call(t, http.MethodPut, "/api/users/update-profile", token, map[string]string{"name": "Ann B", "email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Email already in use", msgOf(t, body))

	status, body = env.call(t, http.MethodPut, "/api/users/update-profile", token, map[string]string{"name": "Ann B", "email": "annb@example.com"})
	require.Equal(t, http.StatusOK, status)

	var grant grantResponse
	require.NoError(t, json.Unmarshal(body, &grant))
	assert.Equal(t, identity.ID, grant.UserData.ID)
	assert.Equal(t, "Ann B", grant.UserData.Name)
	assert.NotEmpty(t, grant.Token)
}

func TestContact(t *testing.T) {
	env := setupTest(t)

	status, body := env.call(t, http.MethodPost, "/api/contact", "", map[string]string{
		"name": "Ann", "email": "ann@example.com", "message": "Do you cater vegan?",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Message sent successfully", msgOf(t, body))
	assert.Equal(t, []ContactMessage{{Name: "Ann", Email: "ann@example.com", Message: "Do you cater vegan?"}}, env.api.Contacts())
}

func TestCatalog(t *testing.T) {
	env := setupTest(t)

	status, body := env.call(t, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, status)
	var events []catalogDoc
	require.NoError(t, json.Unmarshal(body, &events))
	assert.Len(t, events, 4)

	status, body = env.call(t, http.MethodGet, "/api/vendors/v2", "", nil)
	require.Equal(t, http.StatusOK, status)
	var vendor catalogDoc
	require.NoError(t, json.Unmarshal(body, &vendor))
	assert.Equal(t, "XYZ Photography", vendor.Name)

	status, body = env.call(t, http.MethodGet, "/api/events/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Event not found", msgOf(t, body))
}

func TestFailNext(t *testing.T) {
	env := setupTest(t)
	env.api.FailNext(http.MethodGet, "/api/events", http.StatusServiceUnavailable, "down for maintenance")

	status, body := env.call(t, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down for maintenance", msgOf(t, body))

	status, _ = env.call(t, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestExpireNext(t *testing.T) {
	env := setupTest(t)
	_, token := env.seedAnn(t)
	env.api.ExpireNext(http.MethodGet, "/api/vendors/bookings")

	status, body := env.call(t, http.MethodGet, "/api/vendors/bookings", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, response.ExpiredTokenMessage, msgOf(t, body))
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 2)
	t.Cleanup(limiter.Stop)
	env := setupTest(t, func(o *Options) { o.Limiter = limiter })

	for range 2 {
		status, _ := env.call(t, http.MethodGet, "/api/events", "", nil)
		require.Equal(t, http.StatusOK, status)
	}
	status, _ := env.call(t, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	req, err := http.NewRequest(http.MethodOptions, env.http.URL+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := env.http.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
