package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
)

var errStorage = errors.New("storage unavailable")

// flakyStore fails writes to the keys listed in failSet.
type flakyStore struct {
	*repository.MemoryStore
	failSet map[string]bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repository.NewMemoryStore(), failSet: map[string]bool{}}
}

func (f *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet[key] {
		return errStorage
	}
	return f.MemoryStore.Set(ctx, key, value)
}

type notifySpy struct {
	successes []string
	failures  []string
}

func (n *notifySpy) Success(message string) { n.successes = append(n.successes, message) }

func (n *notifySpy) Failure(message string, _ error) { n.failures = append(n.failures, message) }

type fixture struct {
	kv       *flakyStore
	accounts *AccountStore
	bookings *BookingStore
	notify   *notifySpy
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, newFlakyStore())
}

// newFixtureOn builds restored stores over kv, as a fresh process would.
func newFixtureOn(t *testing.T, kv *flakyStore) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{kv: kv, notify: &notifySpy{}}
	f.accounts = NewAccountStore(repository.NewAccountRepository(kv), bcrypt.MinCost, nil)
	f.bookings = NewBookingStore(repository.NewBookingRepository(kv), f.accounts, f.notify, nil)
	require.NoError(t, f.accounts.Restore(ctx))
	require.NoError(t, f.bookings.Restore(ctx))
	return f
}
