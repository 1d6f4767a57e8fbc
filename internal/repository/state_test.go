package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
)

func TestAccountRepository_AbsentKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(NewMemoryStore())

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)

	acc, err := repo.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAccountRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	repo := NewAccountRepository(kv)

	alice := model.Account{Name: "Alice", Email: "a@x.com", Password: "h"}
	bob := model.Account{Name: "Bob", Email: "b@x.com", Password: "h"}

	require.NoError(t, repo.Save(ctx, []model.Account{alice, bob}))
	require.NoError(t, repo.SetSession(ctx, bob))

	accounts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Account{alice, bob}, accounts)

	acc, err := repo.Session(ctx)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, bob, *acc)

	raw, err := kv.Get(ctx, KeySession)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bob","email":"b@x.com","password":"h"}`, string(raw))

	require.NoError(t, repo.ClearSession(ctx))
	acc, err = repo.Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAccountRepository_NullSession(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, KeySession, []byte(`null`)))

	acc, err := NewAccountRepository(kv).Session(ctx)
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestAccountRepository_Malformed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, KeyUsers, []byte(`{"not":"a list"}`)))
	require.NoError(t, kv.Set(ctx, KeySession, []byte(`[}`)))
	repo := NewAccountRepository(kv)

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, ErrMalformedState)

	_, err = repo.Session(ctx)
	assert.ErrorIs(t, err, ErrMalformedState)
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	repo := NewBookingRepository(kv)

	bookings, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookings)

	require.NoError(t, repo.Save(ctx, nil))
	raw, err := kv.Get(ctx, KeyBookings)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))

	b := model.Booking{ID: "k3x9", EventID: "1", EventName: "Summer Music Festival", Date: "2024-07-15", Quantity: 2, UserID: "a@x.com"}
	require.NoError(t, repo.Save(ctx, []model.Booking{b}))

	raw, err = kv.Get(ctx, KeyBookings)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"k3x9","eventId":"1","eventName":"Summer Music Festival","date":"2024-07-15","quantity":2,"userId":"a@x.com"}]`,
		string(raw))

	bookings, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Booking{b}, bookings)

	require.NoError(t, kv.Set(ctx, KeyBookings, []byte(`[{"quantity":"two"}]`)))
	_, err = repo.List(ctx)
	assert.ErrorIs(t, err, ErrMalformedState)
}
