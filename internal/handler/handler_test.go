package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	kv := repository.NewMemoryStore()
	events, err := repository.NewEventRepository()
	require.NoError(t, err)

	accounts := service.NewAccountStore(repository.NewAccountRepository(kv), bcrypt.MinCost, nil)
	bookings := service.NewBookingStore(repository.NewBookingRepository(kv), accounts, nil, nil)
	return NewRouter(New(service.NewEventService(events), accounts, bookings, nil), nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

func TestHealthCheck(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestEvents(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Event](t, w), 3)

	w = do(t, h, http.MethodGet, "/events?search=comedy", "")
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[[]model.Event](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "Comedy Night", events[0].Name)

	w = do(t, h, http.MethodGet, "/events?search=opera", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(t, h, http.MethodGet, "/events/3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tech Conference 2024", decode[model.Event](t, w).Name)

	w = do(t, h, http.MethodGet, "/events/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterAndSession(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		method, path, body string
		wantCode           int
		wantErr            string
	}{
		{http.MethodPost, "/accounts", `invalid request`, http.StatusBadRequest, ""},
		{http.MethodPost, "/accounts", `{"name":"Alice","email":"a@x.com","password":"pw1","admin":true}`, http.StatusBadRequest, ""},
		{http.MethodPost, "/accounts", `{"name":"","email":"a@x.com","password":"pw1"}`, http.StatusUnprocessableEntity, service.ErrInvalidAccount.Error()},
		{http.MethodPost, "/accounts", `{"name":"Alice","email":"a@x.com","password":"pw1"}`, http.StatusCreated, ""},
		{http.MethodPost, "/accounts", `{"name":"Alice","email":"a@x.com","password":"pw2"}`, http.StatusConflict, service.ErrAlreadyExists.Error()},
		{http.MethodDelete, "/session", ``, http.StatusNoContent, ""},
		{http.MethodDelete, "/session", ``, http.StatusNoContent, ""},
		{http.MethodPost, "/session", `{"email":"a@x.com","password":"nope"}`, http.StatusUnauthorized, service.ErrInvalidCredentials.Error()},
		{http.MethodPost, "/session", `{"email":"a@x.com","password":"pw1"}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		w := do(t, h, tt.method, tt.path, tt.body)
		assert.Equal(t, tt.wantCode, w.Code, "%s %s %s", tt.method, tt.path, tt.body)
		if tt.wantErr != "" {
			assert.Equal(t, tt.wantErr, decode[model.ErrorResponse](t, w).Error)
		}
	}

	w := do(t, h, http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[model.SessionResponse](t, w)
	assert.True(t, session.Authenticated)
	require.NotNil(t, session.Account)
	assert.Equal(t, model.AccountView{Name: "Alice", Email: "a@x.com"}, *session.Account)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterResponseHasNoCredential(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodPost, "/accounts", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"Alice","email":"a@x.com"}`, w.Body.String())
}

func TestRegisterLongPassword(t *testing.T) {
	h := newTestRouter(t)
	pw := strings.Repeat("x", 100)

	w := do(t, h, http.MethodPost, "/accounts", `{"name":"Alice","email":"a@x.com","password":"`+pw+`"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodPost, "/session", `{"email":"a@x.com","password":"`+pw+`"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignedOutSession(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/session", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
}

func TestBookingsRequireSession(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/bookings", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/bookings", `{"eventId":"1","quantity":1}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodDelete, "/bookings/abc", `{"password":"pw1"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookingFlow(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/accounts", `{"name":"Alice","email":"a@x.com","password":"pw1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodPost, "/bookings", `{"eventId":"99","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/bookings", `{"eventId":"1","quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodPost, "/bookings", `{"eventId":"1","quantity":2}`)
	require.Equal(t, http.StatusCreated, w.Code)
	b := decode[model.Booking](t, w)
	assert.Equal(t, "Summer Music Festival", b.EventName)
	assert.Equal(t, "2024-07-15", b.Date)
	assert.Equal(t, "a@x.com", b.UserID)
	assert.Equal(t, 2, b.Quantity)

	w = do(t, h, http.MethodPatch, "/bookings/"+b.ID, `{"quantity":3,"password":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodPatch, "/bookings/"+b.ID, `{"quantity":3,"password":"pw1"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	bookings := decode[[]model.Booking](t, w)
	require.Len(t, bookings, 1)
	assert.Equal(t, 3, bookings[0].Quantity)

	w = do(t, h, http.MethodDelete, "/bookings/"+b.ID, `{"password":"wrong"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, h, http.MethodDelete, "/bookings/"+b.ID, `{"password":"pw1"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/bookings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodOptions, "/bookings", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
